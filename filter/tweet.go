package filter

import (
	"time"

	"github.com/s0up4200/chirp/twitter"
)

// TweetInfo is the flattened view of a tweet that filter expressions see
type TweetInfo struct {
	ID              string
	Text            string
	Lang            string
	Likes           int
	Retweets        int
	Replies         int
	Quotes          int
	CreatedAt       time.Time
	AuthorUsername  string
	AuthorFollowers int
	IsReply         bool
	IsRetweet       bool
	IsQuote         bool
	HasMedia        bool
	HasPoll         bool
	Hashtags        []string
	Mentions        []string

	// Tweet is the tweet the info was built from
	Tweet twitter.Tweet
}

// NewTweetInfo flattens a tweet. Author fields stay empty when the author
// was not expanded.
func NewTweetInfo(t twitter.Tweet) TweetInfo {
	info := TweetInfo{
		ID:        t.ID,
		Text:      t.Text,
		Lang:      t.Lang,
		Likes:     t.PublicMetrics.LikeCount,
		Retweets:  t.PublicMetrics.RetweetCount,
		Replies:   t.PublicMetrics.ReplyCount,
		Quotes:    t.PublicMetrics.QuoteCount,
		CreatedAt: t.CreatedAt,
		IsReply:   t.IsReply(),
		IsRetweet: t.IsRetweet(),
		IsQuote:   t.IsQuote(),
		HasMedia:  len(t.Media) > 0 || (t.Attachments != nil && len(t.Attachments.MediaKeys) > 0),
		HasPoll:   t.Poll != nil || (t.Attachments != nil && len(t.Attachments.PollIDs) > 0),
		Hashtags:  t.Hashtags(),
		Mentions:  t.MentionedUsernames(),
		Tweet:     t,
	}
	if t.Author != nil {
		info.AuthorUsername = t.Author.Username
		info.AuthorFollowers = t.Author.PublicMetrics.FollowersCount
	}
	return info
}

// NewTweetInfos flattens tweets in order.
func NewTweetInfos(tweets []twitter.Tweet) []TweetInfo {
	infos := make([]TweetInfo, len(tweets))
	for i, t := range tweets {
		infos[i] = NewTweetInfo(t)
	}
	return infos
}

// Tweets returns the tweets behind infos.
func Tweets(infos []TweetInfo) []twitter.Tweet {
	tweets := make([]twitter.Tweet, len(infos))
	for i, info := range infos {
		tweets[i] = info.Tweet
	}
	return tweets
}
