// Package webhook receives account activity deliveries: it answers CRC
// challenges, verifies signatures and dispatches typed events.
package webhook

import (
	"time"

	"github.com/s0up4200/chirp/twitter"
)

// Kind names an account activity event
type Kind string

const (
	KindDirectMessage Kind = "direct_message"
	KindTyping        Kind = "direct_message_typing"
	KindRead          Kind = "direct_message_read"
	KindTweetCreate   Kind = "tweet_create"
	KindTweetDelete   Kind = "tweet_delete"
	KindFavorite      Kind = "favorite"
	KindFollow        Kind = "follow"
	KindUnfollow      Kind = "unfollow"
	KindBlock         Kind = "block"
	KindUnblock       Kind = "unblock"
	KindMute          Kind = "mute"
	KindUnmute        Kind = "unmute"
	KindRevoke        Kind = "revoke"
)

// Event is one account activity event. ForUser is the subscribed account the
// delivery was made for.
type Event interface {
	Kind() Kind
	ForUser() string
}

type subscription struct {
	ForUserID string
}

func (s subscription) ForUser() string { return s.ForUserID }

// DirectMessageEvent is a direct message sent or received by the account
type DirectMessageEvent struct {
	subscription
	Message twitter.Message
}

func (DirectMessageEvent) Kind() Kind { return KindDirectMessage }

// TypingEvent reports that Sender is typing a message to Recipient
type TypingEvent struct {
	subscription
	CreatedAt time.Time
	Sender    *twitter.User
	Recipient *twitter.User
}

func (TypingEvent) Kind() Kind { return KindTyping }

// ReadEvent reports that Reader read the conversation up to LastReadEventID.
// LastRead is set when that message is cached.
type ReadEvent struct {
	subscription
	CreatedAt       time.Time
	Reader          *twitter.User
	Recipient       *twitter.User
	LastReadEventID string
	LastRead        *twitter.Message
}

func (ReadEvent) Kind() Kind { return KindRead }

// TweetCreateEvent is a tweet, reply, retweet or mention involving the account
type TweetCreateEvent struct {
	subscription
	Tweet twitter.Tweet
}

func (TweetCreateEvent) Kind() Kind { return KindTweetCreate }

// TweetDeleteEvent reports a deleted tweet. Tweet is the cached copy, if any.
type TweetDeleteEvent struct {
	subscription
	TweetID   string
	UserID    string
	DeletedAt time.Time
	Tweet     *twitter.Tweet
}

func (TweetDeleteEvent) Kind() Kind { return KindTweetDelete }

// FavoriteEvent reports a like by or of the account
type FavoriteEvent struct {
	subscription
	ID        string
	CreatedAt time.Time
	Tweet     twitter.Tweet
	Liker     twitter.User
}

func (FavoriteEvent) Kind() Kind { return KindFavorite }

// UserActionEvent is a follow, unfollow, block, unblock, mute or unmute.
// Source acted on Target.
type UserActionEvent struct {
	subscription
	Action    Kind
	CreatedAt time.Time
	Source    twitter.User
	Target    twitter.User
}

func (e UserActionEvent) Kind() Kind { return e.Action }

// RevokeEvent reports that a user revoked the app's access
type RevokeEvent struct {
	subscription
	RevokedAt time.Time
	AppID     string
	UserID    string
}

func (RevokeEvent) Kind() Kind { return KindRevoke }
