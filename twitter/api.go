package twitter

import (
	"context"
	"io"
)

// API defines the interface for Twitter operations
type API interface {
	UserAPI
	TweetAPI
	MessageAPI
	SpaceAPI
	ListAPI
	AccountAPI
	TrendAPI

	// Ping verifies the credentials
	Ping(ctx context.Context) error

	// RateLimit returns the last rate-limit window seen for an endpoint
	RateLimit(method, path string) (RateLimit, bool)
}

// UserAPI covers user lookups and relationships
type UserAPI interface {
	Me(ctx context.Context) (*User, error)
	User(ctx context.Context, id string) (*User, error)
	UserByUsername(ctx context.Context, username string) (*User, error)
	Users(ctx context.Context, ids []string) ([]User, error)
	UsersByUsernames(ctx context.Context, usernames []string) ([]User, error)

	Followers(ctx context.Context, userID string) (*Paginator[User], error)
	Following(ctx context.Context, userID string) (*Paginator[User], error)
	Blocking(ctx context.Context, userID string) (*Paginator[User], error)
	Muting(ctx context.Context, userID string) (*Paginator[User], error)

	Follow(ctx context.Context, targetID string) error
	Unfollow(ctx context.Context, targetID string) error
	Block(ctx context.Context, targetID string) error
	Unblock(ctx context.Context, targetID string) error
	Mute(ctx context.Context, targetID string) error
	Unmute(ctx context.Context, targetID string) error
}

// TweetAPI covers tweet lookups, publishing and engagement
type TweetAPI interface {
	Tweet(ctx context.Context, id string) (*Tweet, error)
	Tweets(ctx context.Context, ids []string) ([]Tweet, error)
	PostTweet(ctx context.Context, req TweetRequest) (*Tweet, error)
	DeleteTweet(ctx context.Context, id string) error
	UploadMedia(ctx context.Context, r io.Reader, filename string) (string, error)

	Like(ctx context.Context, tweetID string) error
	Unlike(ctx context.Context, tweetID string) error
	Retweet(ctx context.Context, tweetID string) error
	Unretweet(ctx context.Context, tweetID string) error
	HideReply(ctx context.Context, tweetID string) error
	UnhideReply(ctx context.Context, tweetID string) error

	Timeline(ctx context.Context, userID string, opts TimelineOptions) (*Paginator[Tweet], error)
	Mentions(ctx context.Context, userID string) (*Paginator[Tweet], error)
	LikedTweets(ctx context.Context, userID string) (*Paginator[Tweet], error)
	SearchRecent(ctx context.Context, query string) (*Paginator[Tweet], error)
	Likers(ctx context.Context, tweetID string) (*Paginator[User], error)
	Retweeters(ctx context.Context, tweetID string) (*Paginator[User], error)
}

// MessageAPI covers direct messages
type MessageAPI interface {
	SendMessage(ctx context.Context, recipientID, text string, buttons ...Button) (*Message, error)
	Message(ctx context.Context, id string) (*Message, error)
	DeleteMessage(ctx context.Context, id string) error
	MessageHistory(ctx context.Context) (*Paginator[Message], error)
}

// SpaceAPI covers audio spaces
type SpaceAPI interface {
	Space(ctx context.Context, id string) (*Space, error)
	Spaces(ctx context.Context, ids []string) ([]Space, error)
	SpacesByCreators(ctx context.Context, userIDs []string) ([]Space, error)
	SearchSpaces(ctx context.Context, query string, state SpaceState) ([]Space, error)
	SpaceBuyers(ctx context.Context, id string) ([]User, error)
	SpaceTweets(ctx context.Context, id string) ([]Tweet, error)
}

// ListAPI covers lists
type ListAPI interface {
	List(ctx context.Context, id string) (*List, error)
	OwnedLists(ctx context.Context, userID string) (*Paginator[List], error)
	ListTweets(ctx context.Context, id string) (*Paginator[Tweet], error)
	ListMembers(ctx context.Context, id string) (*Paginator[User], error)
	CreateList(ctx context.Context, name, description string, private bool) (*List, error)
	DeleteList(ctx context.Context, id string) error
	AddListMember(ctx context.Context, listID, userID string) error
	RemoveListMember(ctx context.Context, listID, userID string) error
}

// AccountAPI covers settings of the authenticated account
type AccountAPI interface {
	AccountSettings(ctx context.Context) (*AccountSettings, error)
	UpdateAccountSettings(ctx context.Context, u SettingsUpdate) (*AccountSettings, error)
}

// TrendAPI covers trends, geo lookups and oEmbed markup
type TrendAPI interface {
	TrendLocations(ctx context.Context) ([]TrendLocation, error)
	ClosestTrendLocations(ctx context.Context, lat, long float64) ([]TrendLocation, error)
	Trends(ctx context.Context, woeid int64, excludeHashtags bool) (*TrendList, error)
	ReverseGeocode(ctx context.Context, lat, long float64, granularity Granularity) ([]Place, error)
	Embed(ctx context.Context, tweet string, opts EmbedOptions) (*Embed, error)
}

var _ API = (*Client)(nil)
