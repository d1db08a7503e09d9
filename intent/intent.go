// Package intent builds web intent links that open a prefilled tweet, follow
// or message dialog for the signed-in visitor.
package intent

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

const baseURL = "https://twitter.com"

// Action is something a visitor can do to a tweet through an intent link
type Action string

const (
	ActionLike    Action = "like"
	ActionRetweet Action = "retweet"
	ActionReply   Action = "reply"
)

// ErrUnknownAction is returned for an action other than like, retweet or reply.
var ErrUnknownAction = errors.New("unknown tweet action")

// ComposeTweet links to the tweet composer, prefilled with text when given.
func ComposeTweet(text string) string {
	if text == "" {
		return baseURL + "/intent/tweet"
	}
	return link("/intent/tweet", url.Values{"text": {text}})
}

// FollowUser links to the follow dialog for userID.
func FollowUser(userID string) string {
	return link("/intent/user", url.Values{"user_id": {userID}})
}

// MessageUser links to a direct message conversation with userID, prefilled
// with text when given.
func MessageUser(userID, text string) string {
	q := url.Values{"recipient_id": {userID}}
	if text != "" {
		q.Set("text", text)
	}
	return link("/messages/compose", q)
}

// TweetAction links to a like, retweet or reply dialog for tweetID. The
// action is matched case-insensitively.
func TweetAction(tweetID string, action Action) (string, error) {
	switch Action(strings.ToLower(string(action))) {
	case ActionLike:
		return link("/intent/like", url.Values{"tweet_id": {tweetID}}), nil
	case ActionRetweet:
		return link("/intent/retweet", url.Values{"tweet_id": {tweetID}}), nil
	case ActionReply:
		return link("/intent/tweet", url.Values{"in_reply_to": {tweetID}}), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}
}

func link(path string, q url.Values) string {
	return baseURL + path + "?" + q.Encode()
}
