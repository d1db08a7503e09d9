package twitter

import (
	"fmt"
	"strings"
	"time"
)

// MediaType identifies an attached media item
type MediaType string

const (
	MediaTypePhoto       MediaType = "photo"
	MediaTypeVideo       MediaType = "video"
	MediaTypeAnimatedGIF MediaType = "animated_gif"
)

// ReplySettings controls who may reply to a tweet
type ReplySettings string

const (
	ReplySettingsEveryone       ReplySettings = "everyone"
	ReplySettingsMentionedUsers ReplySettings = "mentionedUsers"
	ReplySettingsFollowing      ReplySettings = "following"
)

// Reference types in Tweet.ReferencedTweets
const (
	ReferenceRepliedTo = "replied_to"
	ReferenceQuoted    = "quoted"
	ReferenceRetweeted = "retweeted"
)

// UserMetrics holds a user's public counters
type UserMetrics struct {
	FollowersCount int `json:"followers_count"`
	FollowingCount int `json:"following_count"`
	TweetCount     int `json:"tweet_count"`
	ListedCount    int `json:"listed_count"`
}

// User represents an account
type User struct {
	ID              string      `json:"id"`
	Name            string      `json:"name"`
	Username        string      `json:"username"`
	Description     string      `json:"description,omitempty"`
	Location        string      `json:"location,omitempty"`
	URL             string      `json:"url,omitempty"`
	ProfileImageURL string      `json:"profile_image_url,omitempty"`
	Protected       bool        `json:"protected"`
	Verified        bool        `json:"verified"`
	CreatedAt       time.Time   `json:"created_at,omitzero"`
	PinnedTweetID   string      `json:"pinned_tweet_id,omitempty"`
	PublicMetrics   UserMetrics `json:"public_metrics"`

	// Resolved from includes
	PinnedTweet *Tweet `json:"pinned_tweet,omitempty"`
}

// Mention returns the user's handle with a leading @.
func (u User) Mention() string {
	return "@" + u.Username
}

// ProfileURL returns the link to the user's profile page.
func (u User) ProfileURL() string {
	return "https://twitter.com/" + u.Username
}

// ReferencedTweet links a tweet to the tweet it replies to, quotes or retweets
type ReferencedTweet struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

// Attachments lists media keys and poll ids attached to a tweet
type Attachments struct {
	MediaKeys []string `json:"media_keys,omitempty"`
	PollIDs   []string `json:"poll_ids,omitempty"`
}

// Tag is a hashtag or cashtag entity
type Tag struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	Tag   string `json:"tag"`
}

// MentionEntity is an @mention inside tweet text
type MentionEntity struct {
	Start    int    `json:"start"`
	End      int    `json:"end"`
	Username string `json:"username"`
	ID       string `json:"id,omitempty"`
}

// URLEntity is a link inside tweet text
type URLEntity struct {
	Start       int    `json:"start"`
	End         int    `json:"end"`
	URL         string `json:"url"`
	ExpandedURL string `json:"expanded_url,omitempty"`
	DisplayURL  string `json:"display_url,omitempty"`
}

// Entities are the parsed parts of tweet or message text
type Entities struct {
	Hashtags []Tag           `json:"hashtags,omitempty"`
	Cashtags []Tag           `json:"cashtags,omitempty"`
	Mentions []MentionEntity `json:"mentions,omitempty"`
	URLs     []URLEntity     `json:"urls,omitempty"`
}

// TweetMetrics holds a tweet's public counters
type TweetMetrics struct {
	RetweetCount int `json:"retweet_count"`
	ReplyCount   int `json:"reply_count"`
	LikeCount    int `json:"like_count"`
	QuoteCount   int `json:"quote_count"`
}

// Geo references the place a tweet was tagged with
type Geo struct {
	PlaceID string `json:"place_id,omitempty"`
}

// Tweet represents a tweet
type Tweet struct {
	ID                string            `json:"id"`
	Text              string            `json:"text"`
	AuthorID          string            `json:"author_id,omitempty"`
	ConversationID    string            `json:"conversation_id,omitempty"`
	CreatedAt         time.Time         `json:"created_at,omitzero"`
	Lang              string            `json:"lang,omitempty"`
	PossiblySensitive bool              `json:"possibly_sensitive,omitempty"`
	ReplySettings     ReplySettings     `json:"reply_settings,omitempty"`
	Source            string            `json:"source,omitempty"`
	InReplyToUserID   string            `json:"in_reply_to_user_id,omitempty"`
	ReferencedTweets  []ReferencedTweet `json:"referenced_tweets,omitempty"`
	Attachments       *Attachments      `json:"attachments,omitempty"`
	Entities          *Entities         `json:"entities,omitempty"`
	PublicMetrics     TweetMetrics      `json:"public_metrics"`
	Geo               *Geo              `json:"geo,omitempty"`

	// Resolved from includes
	Author   *User   `json:"author,omitempty"`
	Media    []Media `json:"media,omitempty"`
	Poll     *Poll   `json:"poll,omitempty"`
	Place    *Place  `json:"place,omitempty"`
	Mentions []*User `json:"mentioned_users,omitempty"`
}

func (t Tweet) referenced(kind string) string {
	for _, ref := range t.ReferencedTweets {
		if ref.Type == kind {
			return ref.ID
		}
	}
	return ""
}

// IsReply reports whether the tweet replies to another tweet.
func (t Tweet) IsReply() bool { return t.referenced(ReferenceRepliedTo) != "" }

// IsRetweet reports whether the tweet is a retweet.
func (t Tweet) IsRetweet() bool { return t.referenced(ReferenceRetweeted) != "" }

// IsQuote reports whether the tweet quotes another tweet.
func (t Tweet) IsQuote() bool { return t.referenced(ReferenceQuoted) != "" }

// RepliedToID returns the id of the tweet this one replies to.
func (t Tweet) RepliedToID() string { return t.referenced(ReferenceRepliedTo) }

// URL returns the tweet's permalink. Without a resolved author the generic
// i/web form is used.
func (t Tweet) URL() string {
	if t.Author != nil && t.Author.Username != "" {
		return fmt.Sprintf("https://twitter.com/%s/status/%s", t.Author.Username, t.ID)
	}
	return "https://twitter.com/i/web/status/" + t.ID
}

// Hashtags returns the hashtags in the tweet text without the leading #.
func (t Tweet) Hashtags() []string {
	if t.Entities == nil {
		return nil
	}
	tags := make([]string, 0, len(t.Entities.Hashtags))
	for _, h := range t.Entities.Hashtags {
		tags = append(tags, h.Tag)
	}
	return tags
}

// MentionedUsernames returns the usernames mentioned in the tweet text.
func (t Tweet) MentionedUsernames() []string {
	if t.Entities == nil {
		return nil
	}
	names := make([]string, 0, len(t.Entities.Mentions))
	for _, m := range t.Entities.Mentions {
		names = append(names, m.Username)
	}
	return names
}

// MediaMetrics holds public media counters
type MediaMetrics struct {
	ViewCount int `json:"view_count"`
}

// Media is a photo, video or GIF attached to a tweet
type Media struct {
	MediaKey        string        `json:"media_key"`
	Type            MediaType     `json:"type"`
	URL             string        `json:"url,omitempty"`
	PreviewImageURL string        `json:"preview_image_url,omitempty"`
	Width           int           `json:"width,omitempty"`
	Height          int           `json:"height,omitempty"`
	DurationMS      int           `json:"duration_ms,omitempty"`
	PublicMetrics   *MediaMetrics `json:"public_metrics,omitempty"`
}

// PollOption is one choice of a poll
type PollOption struct {
	Position int    `json:"position"`
	Label    string `json:"label"`
	Votes    int    `json:"votes"`
}

// Poll is a poll attached to a tweet. Options are ordered by position.
type Poll struct {
	ID              string       `json:"id"`
	Options         []PollOption `json:"options"`
	VotingStatus    string       `json:"voting_status,omitempty"`
	DurationMinutes int          `json:"duration_minutes,omitempty"`
	EndDatetime     time.Time    `json:"end_datetime,omitzero"`
}

// IsOpen reports whether the poll still accepts votes.
func (p Poll) IsOpen() bool {
	return p.VotingStatus == "open"
}

// Duration returns how long the poll runs.
func (p Poll) Duration() time.Duration {
	return time.Duration(p.DurationMinutes) * time.Minute
}

// TotalVotes sums the votes of all options.
func (p Poll) TotalVotes() int {
	total := 0
	for _, o := range p.Options {
		total += o.Votes
	}
	return total
}

// PlaceGeo is the GeoJSON shape of a place
type PlaceGeo struct {
	Type string    `json:"type"`
	BBox []float64 `json:"bbox,omitempty"`
}

// Place is a named location tagged on a tweet
type Place struct {
	ID              string    `json:"id"`
	FullName        string    `json:"full_name"`
	Name            string    `json:"name,omitempty"`
	Country         string    `json:"country,omitempty"`
	CountryCode     string    `json:"country_code,omitempty"`
	PlaceType       string    `json:"place_type,omitempty"`
	ContainedWithin []string  `json:"contained_within,omitempty"`
	Geo             *PlaceGeo `json:"geo,omitempty"`
}

// Topic is a space topic
type Topic struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// SpaceState is the lifecycle state of a space
type SpaceState string

const (
	SpaceStateLive      SpaceState = "live"
	SpaceStateScheduled SpaceState = "scheduled"
	SpaceStateEnded     SpaceState = "ended"
)

// ParseSpaceState converts a state name into a SpaceState.
func ParseSpaceState(s string) (SpaceState, error) {
	switch state := SpaceState(strings.ToLower(strings.TrimSpace(s))); state {
	case SpaceStateLive, SpaceStateScheduled, SpaceStateEnded:
		return state, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSpaceState, s)
}

// Space is an audio space
type Space struct {
	ID               string     `json:"id"`
	Title            string     `json:"title,omitempty"`
	State            SpaceState `json:"state"`
	Lang             string     `json:"lang,omitempty"`
	CreatorID        string     `json:"creator_id,omitempty"`
	HostIDs          []string   `json:"host_ids,omitempty"`
	SpeakerIDs       []string   `json:"speaker_ids,omitempty"`
	InvitedUserIDs   []string   `json:"invited_user_ids,omitempty"`
	ParticipantCount int        `json:"participant_count,omitempty"`
	SubscriberCount  int        `json:"subscriber_count,omitempty"`
	IsTicketed       bool       `json:"is_ticketed,omitempty"`
	CreatedAt        time.Time  `json:"created_at,omitzero"`
	StartedAt        time.Time  `json:"started_at,omitzero"`
	UpdatedAt        time.Time  `json:"updated_at,omitzero"`
	ScheduledStart   time.Time  `json:"scheduled_start,omitzero"`
	TopicIDs         []string   `json:"topic_ids,omitempty"`

	// Resolved from includes
	Creator *User   `json:"creator,omitempty"`
	Topics  []Topic `json:"topics,omitempty"`
}

// IsLive reports whether the space is currently running.
func (s Space) IsLive() bool { return s.State == SpaceStateLive }

// List is a curated list of accounts
type List struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description,omitempty"`
	Private       bool      `json:"private"`
	FollowerCount int       `json:"follower_count"`
	MemberCount   int       `json:"member_count"`
	OwnerID       string    `json:"owner_id,omitempty"`
	CreatedAt     time.Time `json:"created_at,omitzero"`

	// Resolved from includes
	Owner *User `json:"owner,omitempty"`
}

// Application is the app a message was sent from
type Application struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url,omitempty"`
}

// Message is a direct message
type Message struct {
	ID          string       `json:"id"`
	Type        string       `json:"type"`
	Text        string       `json:"text"`
	SenderID    string       `json:"sender_id"`
	RecipientID string       `json:"recipient_id"`
	CreatedAt   time.Time    `json:"created_at,omitzero"`
	Entities    *Entities    `json:"entities,omitempty"`
	MediaURL    string       `json:"media_url,omitempty"`
	Buttons     []Button     `json:"buttons,omitempty"`
	SourceApp   *Application `json:"source_app,omitempty"`

	// Resolved with a user lookup
	Sender    *User `json:"sender,omitempty"`
	Recipient *User `json:"recipient,omitempty"`
}

// Meta is the pagination metadata of a v2 response
type Meta struct {
	ResultCount   int    `json:"result_count"`
	NextToken     string `json:"next_token,omitempty"`
	PreviousToken string `json:"previous_token,omitempty"`
	NewestID      string `json:"newest_id,omitempty"`
	OldestID      string `json:"oldest_id,omitempty"`
}
