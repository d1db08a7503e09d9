package twitter

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Limits enforced by TweetRequest.Validate
const (
	MaxTweetMedia       = 4
	MinPollOptions      = 2
	MaxPollOptions      = 4
	MaxPollOptionLength = 25
	MinPollDuration     = 5
	MaxPollDuration     = 10080
)

// TweetCacheKey is the cache key tweet lookups are stored under.
func TweetCacheKey(id string) string { return "tweet:" + id }

// PollRequest attaches a poll to a new tweet
type PollRequest struct {
	Options         []string
	DurationMinutes int
}

// TweetRequest describes a tweet to post
type TweetRequest struct {
	Text                string
	ReplyToID           string
	ExcludeReplyUserIDs []string
	QuoteTweetID        string
	MediaIDs            []string
	Poll                *PollRequest
	ReplySettings       ReplySettings
}

// Validate checks the request before it is sent.
func (r TweetRequest) Validate() error {
	if strings.TrimSpace(r.Text) == "" && len(r.MediaIDs) == 0 {
		return fmt.Errorf("%w: text or media is required", ErrInvalidTweet)
	}
	if len(r.MediaIDs) > MaxTweetMedia {
		return fmt.Errorf("%w: at most %d media items", ErrInvalidTweet, MaxTweetMedia)
	}
	if len(r.ExcludeReplyUserIDs) > 0 && r.ReplyToID == "" {
		return fmt.Errorf("%w: excluded reply users need a reply", ErrInvalidTweet)
	}

	switch r.ReplySettings {
	case "", ReplySettingsEveryone, ReplySettingsMentionedUsers, ReplySettingsFollowing:
	default:
		return fmt.Errorf("%w: unknown reply settings %q", ErrInvalidTweet, r.ReplySettings)
	}

	if r.Poll == nil {
		return nil
	}
	if len(r.MediaIDs) > 0 {
		return fmt.Errorf("%w: a tweet cannot carry both a poll and media", ErrInvalidTweet)
	}
	if n := len(r.Poll.Options); n < MinPollOptions || n > MaxPollOptions {
		return fmt.Errorf("%w: a poll needs %d to %d options, got %d", ErrInvalidTweet, MinPollOptions, MaxPollOptions, n)
	}
	for _, opt := range r.Poll.Options {
		if opt == "" || len([]rune(opt)) > MaxPollOptionLength {
			return fmt.Errorf("%w: poll option %q must be 1 to %d characters", ErrInvalidTweet, opt, MaxPollOptionLength)
		}
	}
	if d := r.Poll.DurationMinutes; d < MinPollDuration || d > MaxPollDuration {
		return fmt.Errorf("%w: poll duration must be %d to %d minutes, got %d", ErrInvalidTweet, MinPollDuration, MaxPollDuration, d)
	}
	return nil
}

type tweetBody struct {
	Text          string        `json:"text,omitempty"`
	QuoteTweetID  string        `json:"quote_tweet_id,omitempty"`
	ReplySettings ReplySettings `json:"reply_settings,omitempty"`
	Reply         *replyBody    `json:"reply,omitempty"`
	Media         *mediaBody    `json:"media,omitempty"`
	Poll          *pollBody     `json:"poll,omitempty"`
}

type replyBody struct {
	InReplyToTweetID    string   `json:"in_reply_to_tweet_id"`
	ExcludeReplyUserIDs []string `json:"exclude_reply_user_ids,omitempty"`
}

type mediaBody struct {
	MediaIDs []string `json:"media_ids"`
}

type pollBody struct {
	Options         []string `json:"options"`
	DurationMinutes int      `json:"duration_minutes"`
}

func (r TweetRequest) body() tweetBody {
	b := tweetBody{
		Text:         r.Text,
		QuoteTweetID: r.QuoteTweetID,
	}
	if r.ReplySettings != ReplySettingsEveryone {
		b.ReplySettings = r.ReplySettings
	}
	if r.ReplyToID != "" {
		b.Reply = &replyBody{InReplyToTweetID: r.ReplyToID, ExcludeReplyUserIDs: r.ExcludeReplyUserIDs}
	}
	if len(r.MediaIDs) > 0 {
		b.Media = &mediaBody{MediaIDs: r.MediaIDs}
	}
	if r.Poll != nil {
		b.Poll = &pollBody{Options: r.Poll.Options, DurationMinutes: r.Poll.DurationMinutes}
	}
	return b
}

// Tweet returns a tweet by id with its expansions resolved, reading through
// the cache when one is set.
func (c *Client) Tweet(ctx context.Context, id string) (*Tweet, error) {
	var cached Tweet
	if ok, err := c.cache.Get(ctx, TweetCacheKey(id), &cached); err != nil {
		c.logger.Warn().Err(err).Str("tweet_id", id).Msg("Cache read failed")
	} else if ok {
		return &cached, nil
	}

	resp, err := getV2[Tweet](ctx, c, request{
		method: http.MethodGet,
		path:   apiPath("/2/tweets", id),
		query:  tweetQuery(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get tweet %s: %w", id, err)
	}

	tweet := resp.Data
	newIncludeIndex(&resp.Includes).tweet(&tweet)
	if err := c.cache.Set(ctx, TweetCacheKey(id), tweet); err != nil {
		c.logger.Warn().Err(err).Str("tweet_id", id).Msg("Cache write failed")
	}
	return &tweet, nil
}

// Tweets looks up tweets by id in input order. Unknown or deleted ids are skipped.
func (c *Client) Tweets(ctx context.Context, ids []string) ([]Tweet, error) {
	return batchLookup(ctx, c, ids, strings.TrimSpace,
		func(t Tweet) string { return t.ID },
		func(ctx context.Context, chunk []string) ([]Tweet, error) {
			q := tweetQuery()
			q.Set("ids", strings.Join(chunk, ","))
			resp, err := lookupV2[Tweet](ctx, c, request{method: http.MethodGet, path: "/2/tweets", query: q})
			if err != nil {
				return nil, fmt.Errorf("failed to look up tweets: %w", err)
			}
			resolveTweets(&resp.Includes, resp.Data)
			return resp.Data, nil
		})
}

// PostTweet validates and posts a tweet. The returned tweet carries the id
// and text the API echoed back.
func (c *Client) PostTweet(ctx context.Context, req TweetRequest) (*Tweet, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var out response[Tweet]
	err := c.do(ctx, request{
		method:      http.MethodPost,
		path:        "/2/tweets",
		body:        req.body(),
		userContext: true,
	}, &out)
	if err != nil {
		return nil, fmt.Errorf("failed to post tweet: %w", err)
	}

	c.logger.Debug().Str("tweet_id", out.Data.ID).Msg("Posted tweet")
	return &out.Data, nil
}

// DeleteTweet deletes one of the authenticated user's tweets.
func (c *Client) DeleteTweet(ctx context.Context, id string) error {
	err := c.do(ctx, request{
		method:      http.MethodDelete,
		path:        apiPath("/2/tweets", id),
		userContext: true,
	}, nil)
	if err != nil {
		return fmt.Errorf("failed to delete tweet %s: %w", id, err)
	}
	if err := c.cache.Delete(ctx, TweetCacheKey(id)); err != nil {
		c.logger.Warn().Err(err).Str("tweet_id", id).Msg("Cache delete failed")
	}
	return nil
}

// Like likes a tweet as the authenticated user.
func (c *Client) Like(ctx context.Context, tweetID string) error {
	return c.tweetAction(ctx, http.MethodPost, "likes", tweetID)
}

// Unlike removes a like.
func (c *Client) Unlike(ctx context.Context, tweetID string) error {
	return c.tweetAction(ctx, http.MethodDelete, "likes", tweetID)
}

// Retweet retweets a tweet as the authenticated user.
func (c *Client) Retweet(ctx context.Context, tweetID string) error {
	return c.tweetAction(ctx, http.MethodPost, "retweets", tweetID)
}

// Unretweet removes a retweet.
func (c *Client) Unretweet(ctx context.Context, tweetID string) error {
	return c.tweetAction(ctx, http.MethodDelete, "retweets", tweetID)
}

func (c *Client) tweetAction(ctx context.Context, method, relation, tweetID string) error {
	me, err := c.authenticatedUserID(ctx)
	if err != nil {
		return err
	}

	r := request{method: method, userContext: true}
	if method == http.MethodPost {
		r.path = apiPath("/2/users", me, relation)
		r.body = map[string]string{"tweet_id": tweetID}
	} else {
		r.path = apiPath("/2/users", me, relation, tweetID)
	}

	if err := c.do(ctx, r, nil); err != nil {
		return fmt.Errorf("failed to update %s for tweet %s: %w", relation, tweetID, err)
	}
	return nil
}

// HideReply hides a reply to one of the authenticated user's tweets.
func (c *Client) HideReply(ctx context.Context, tweetID string) error {
	return c.setHidden(ctx, tweetID, true)
}

// UnhideReply makes a hidden reply visible again.
func (c *Client) UnhideReply(ctx context.Context, tweetID string) error {
	return c.setHidden(ctx, tweetID, false)
}

func (c *Client) setHidden(ctx context.Context, tweetID string, hidden bool) error {
	err := c.do(ctx, request{
		method:      http.MethodPut,
		path:        apiPath("/2/tweets", tweetID, "hidden"),
		body:        map[string]bool{"hidden": hidden},
		userContext: true,
	}, nil)
	if err != nil {
		return fmt.Errorf("failed to set hidden=%t on %s: %w", hidden, tweetID, err)
	}
	return nil
}

// TimelineOptions narrows a user timeline
type TimelineOptions struct {
	ExcludeReplies  bool
	ExcludeRetweets bool
	SinceID         string
	UntilID         string
	StartTime       time.Time
	EndTime         time.Time
	// MaxResults is the page size, 5 to 100. Zero uses 100.
	MaxResults int
}

func (o TimelineOptions) apply(q url.Values) {
	var exclude []string
	if o.ExcludeReplies {
		exclude = append(exclude, "replies")
	}
	if o.ExcludeRetweets {
		exclude = append(exclude, "retweets")
	}
	if len(exclude) > 0 {
		q.Set("exclude", strings.Join(exclude, ","))
	}
	if o.SinceID != "" {
		q.Set("since_id", o.SinceID)
	}
	if o.UntilID != "" {
		q.Set("until_id", o.UntilID)
	}
	if !o.StartTime.IsZero() {
		q.Set("start_time", o.StartTime.UTC().Format(time.RFC3339))
	}
	if !o.EndTime.IsZero() {
		q.Set("end_time", o.EndTime.UTC().Format(time.RFC3339))
	}
	q.Set("max_results", strconv.Itoa(pageSize(o.MaxResults)))
}

func pageSize(n int) int {
	switch {
	case n <= 0 || n > 100:
		return 100
	case n < 5:
		return 5
	}
	return n
}

// Timeline pages through the tweets a user posted, newest first.
func (c *Client) Timeline(ctx context.Context, userID string, opts TimelineOptions) (*Paginator[Tweet], error) {
	q := tweetQuery()
	opts.apply(q)
	return c.tweetPages(ctx, apiPath("/2/users", userID, "tweets"), q, paramPaginationToken, false)
}

// Mentions pages through tweets mentioning a user.
func (c *Client) Mentions(ctx context.Context, userID string) (*Paginator[Tweet], error) {
	q := tweetQuery()
	q.Set("max_results", "100")
	return c.tweetPages(ctx, apiPath("/2/users", userID, "mentions"), q, paramPaginationToken, false)
}

// LikedTweets pages through tweets a user liked.
func (c *Client) LikedTweets(ctx context.Context, userID string) (*Paginator[Tweet], error) {
	q := tweetQuery()
	q.Set("max_results", "100")
	return c.tweetPages(ctx, apiPath("/2/users", userID, "liked_tweets"), q, paramPaginationToken, false)
}

// SearchRecent pages through tweets from the last seven days matching query.
func (c *Client) SearchRecent(ctx context.Context, query string) (*Paginator[Tweet], error) {
	q := tweetQuery()
	q.Set("query", query)
	q.Set("max_results", "100")
	return c.tweetPages(ctx, "/2/tweets/search/recent", q, paramNextToken, false)
}

// Likers pages through the users who liked a tweet.
func (c *Client) Likers(ctx context.Context, tweetID string) (*Paginator[User], error) {
	return c.userPages(ctx, apiPath("/2/tweets", tweetID, "liking_users"), false)
}

// Retweeters pages through the users who retweeted a tweet.
func (c *Client) Retweeters(ctx context.Context, tweetID string) (*Paginator[User], error) {
	return c.userPages(ctx, apiPath("/2/tweets", tweetID, "retweeted_by"), false)
}
