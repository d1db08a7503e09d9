package webhook

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/s0up4200/chirp/twitter"
)

// payload is one account activity delivery. A delivery carries a single
// event array plus the users and apps it references.
type payload struct {
	ForUserID           twitter.FlexibleID             `json:"for_user_id"`
	TweetCreateEvents   []twitter.V1Tweet              `json:"tweet_create_events"`
	TweetDeleteEvents   []deletePayload                `json:"tweet_delete_events"`
	FavoriteEvents      []favoritePayload              `json:"favorite_events"`
	FollowEvents        []actionPayload                `json:"follow_events"`
	BlockEvents         []actionPayload                `json:"block_events"`
	MuteEvents          []actionPayload                `json:"mute_events"`
	UserEvent           *userEventPayload              `json:"user_event"`
	DirectMessageEvents []twitter.V1MessageEvent       `json:"direct_message_events"`
	TypingEvents        []indicatorPayload             `json:"direct_message_indicate_typing_events"`
	ReadEvents          []indicatorPayload             `json:"direct_message_mark_read_events"`
	Users               map[string]twitter.V1User      `json:"users"`
	Apps                map[string]twitter.Application `json:"apps"`
}

type deletePayload struct {
	Status struct {
		ID     twitter.FlexibleID `json:"id"`
		UserID twitter.FlexibleID `json:"user_id"`
	} `json:"status"`
	TimestampMS twitter.FlexibleID `json:"timestamp_ms"`
}

type favoritePayload struct {
	ID              string             `json:"id"`
	TimestampMS     twitter.FlexibleID `json:"timestamp_ms"`
	FavoritedStatus twitter.V1Tweet    `json:"favorited_status"`
	User            twitter.V1User     `json:"user"`
}

type actionPayload struct {
	Type             string         `json:"type"`
	CreatedTimestamp string         `json:"created_timestamp"`
	Target           twitter.V1User `json:"target"`
	Source           twitter.V1User `json:"source"`
}

type userEventPayload struct {
	Revoke *struct {
		DateTime string `json:"date_time"`
		Target   struct {
			AppID twitter.FlexibleID `json:"app_id"`
		} `json:"target"`
		Source struct {
			UserID twitter.FlexibleID `json:"user_id"`
		} `json:"source"`
	} `json:"revoke"`
}

type indicatorPayload struct {
	CreatedTimestamp string `json:"created_timestamp"`
	SenderID         string `json:"sender_id"`
	Target           struct {
		RecipientID string `json:"recipient_id"`
	} `json:"target"`
	LastReadEventID string `json:"last_read_event_id"`
}

// Parse decodes a delivery into events, updating the cache along the way.
// An unrecognised delivery yields no events and no error.
func (h *Handler) Parse(ctx context.Context, body []byte) ([]Event, error) {
	var p payload
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, fmt.Errorf("failed to decode webhook payload: %w", err)
	}

	sub := subscription{ForUserID: string(p.ForUserID)}
	users := make(map[string]*twitter.User, len(p.Users))
	for id, u := range p.Users {
		user := u.ToUser()
		if user.ID == "" {
			user.ID = id
		}
		users[id] = &user
		h.storeUser(ctx, sub, user)
	}

	var events []Event

	for _, t := range p.TweetCreateEvents {
		tweet := t.ToTweet()
		if tweet.Author != nil {
			h.storeUser(ctx, sub, *tweet.Author)
		}
		h.store(ctx, twitter.TweetCacheKey(tweet.ID), tweet)
		events = append(events, TweetCreateEvent{subscription: sub, Tweet: tweet})
	}

	for _, d := range p.TweetDeleteEvents {
		ev := TweetDeleteEvent{
			subscription: sub,
			TweetID:      string(d.Status.ID),
			UserID:       string(d.Status.UserID),
			DeletedAt:    twitter.ParseMillis(string(d.TimestampMS)),
		}
		var cached twitter.Tweet
		if h.load(ctx, twitter.TweetCacheKey(ev.TweetID), &cached) {
			ev.Tweet = &cached
		}
		h.remove(ctx, twitter.TweetCacheKey(ev.TweetID))
		events = append(events, ev)
	}

	for _, f := range p.FavoriteEvents {
		ev := FavoriteEvent{
			subscription: sub,
			ID:           f.ID,
			CreatedAt:    twitter.ParseMillis(string(f.TimestampMS)),
			Tweet:        f.FavoritedStatus.ToTweet(),
			Liker:        f.User.ToUser(),
		}
		h.storeUser(ctx, sub, ev.Liker)
		events = append(events, ev)
	}

	for _, group := range [][]actionPayload{p.FollowEvents, p.BlockEvents, p.MuteEvents} {
		for _, a := range group {
			ev := UserActionEvent{
				subscription: sub,
				Action:       Kind(a.Type),
				CreatedAt:    twitter.ParseMillis(a.CreatedTimestamp),
				Source:       a.Source.ToUser(),
				Target:       a.Target.ToUser(),
			}
			h.storeUser(ctx, sub, ev.Source)
			h.storeUser(ctx, sub, ev.Target)
			events = append(events, ev)
		}
	}

	if p.UserEvent != nil && p.UserEvent.Revoke != nil {
		r := p.UserEvent.Revoke
		revokedAt, _ := time.Parse(time.RFC3339, r.DateTime)
		events = append(events, RevokeEvent{
			subscription: sub,
			RevokedAt:    revokedAt,
			AppID:        string(r.Target.AppID),
			UserID:       string(r.Source.UserID),
		})
	}

	for _, m := range p.DirectMessageEvents {
		msg := m.ToMessage(p.Apps)
		msg.Sender = users[msg.SenderID]
		msg.Recipient = users[msg.RecipientID]
		h.store(ctx, twitter.MessageCacheKey(msg.ID), msg)
		events = append(events, DirectMessageEvent{subscription: sub, Message: msg})
	}

	for _, t := range p.TypingEvents {
		events = append(events, TypingEvent{
			subscription: sub,
			CreatedAt:    twitter.ParseMillis(t.CreatedTimestamp),
			Sender:       users[t.SenderID],
			Recipient:    users[t.Target.RecipientID],
		})
	}

	for _, r := range p.ReadEvents {
		ev := ReadEvent{
			subscription:    sub,
			CreatedAt:       twitter.ParseMillis(r.CreatedTimestamp),
			Reader:          users[r.SenderID],
			Recipient:       users[r.Target.RecipientID],
			LastReadEventID: r.LastReadEventID,
		}
		var cached twitter.Message
		if h.load(ctx, twitter.MessageCacheKey(r.LastReadEventID), &cached) {
			ev.LastRead = &cached
		}
		events = append(events, ev)
	}

	return events, nil
}

// storeUser caches a user seen in an event. The subscribed account itself
// is skipped.
func (h *Handler) storeUser(ctx context.Context, sub subscription, u twitter.User) {
	if u.ID == "" || u.ID == sub.ForUserID {
		return
	}
	h.store(ctx, twitter.UserCacheKey(u.ID), u)
}

func (h *Handler) store(ctx context.Context, key string, v any) {
	if err := h.cache.Set(ctx, key, v); err != nil {
		h.logger.Warn().Err(err).Str("key", key).Msg("Cache write failed")
	}
}

func (h *Handler) load(ctx context.Context, key string, dst any) bool {
	ok, err := h.cache.Get(ctx, key, dst)
	if err != nil {
		h.logger.Warn().Err(err).Str("key", key).Msg("Cache read failed")
	}
	return ok
}

func (h *Handler) remove(ctx context.Context, key string) {
	if err := h.cache.Delete(ctx, key); err != nil {
		h.logger.Warn().Err(err).Str("key", key).Msg("Cache delete failed")
	}
}
