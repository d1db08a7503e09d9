package twitter

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"unicode/utf8"
)

// Direct messages are served by the v1.1 event endpoints.
const (
	dmNewPath     = "/1.1/direct_messages/events/new.json"
	dmShowPath    = "/1.1/direct_messages/events/show.json"
	dmDestroyPath = "/1.1/direct_messages/events/destroy.json"
	dmListPath    = "/1.1/direct_messages/events/list.json"
	dmPageSize    = "50"
)

// MessageCacheKey is the cache key direct messages are stored under.
func MessageCacheKey(id string) string { return "message:" + id }

type messageEnvelope struct {
	Event V1MessageEvent         `json:"event"`
	Apps  map[string]Application `json:"apps,omitempty"`
}

type newMessageBody struct {
	Event struct {
		Type          string `json:"type"`
		MessageCreate struct {
			Target struct {
				RecipientID string `json:"recipient_id"`
			} `json:"target"`
			MessageData struct {
				Text string   `json:"text"`
				CTAs []Button `json:"ctas,omitempty"`
			} `json:"message_data"`
		} `json:"message_create"`
	} `json:"event"`
}

// Limits on direct message buttons.
const (
	MaxMessageButtons  = 3
	MaxButtonLabelSize = 36
)

// ButtonType is the action a direct message button performs.
type ButtonType string

// ButtonWebURL opens URL in the browser.
const ButtonWebURL ButtonType = "web_url"

// Button is a call-to-action attached to a direct message.
type Button struct {
	Type  ButtonType `json:"type"`
	Label string     `json:"label"`
	URL   string     `json:"url"`
}

// Validate checks the button type, label and URL.
func (b Button) Validate() error {
	if b.Type != ButtonWebURL {
		return fmt.Errorf("%w: unknown button type %q", ErrInvalidMessage, b.Type)
	}
	if n := utf8.RuneCountInString(b.Label); n == 0 || n > MaxButtonLabelSize {
		return fmt.Errorf("%w: button label must be 1 to %d characters", ErrInvalidMessage, MaxButtonLabelSize)
	}
	u, err := url.Parse(b.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: button url %q must be an absolute http(s) url", ErrInvalidMessage, b.URL)
	}
	return nil
}

// WebButton is a web_url button.
func WebButton(label, link string) Button {
	return Button{Type: ButtonWebURL, Label: label, URL: link}
}

type messageList struct {
	Events     []V1MessageEvent       `json:"events"`
	Apps       map[string]Application `json:"apps,omitempty"`
	NextCursor string                 `json:"next_cursor,omitempty"`
}

// SendMessage sends a direct message with up to MaxMessageButtons buttons
// and returns it with sender and recipient resolved. Once the API has
// accepted the message a failed participant lookup is only logged, so
// callers never resend it.
func (c *Client) SendMessage(ctx context.Context, recipientID, text string, buttons ...Button) (*Message, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: text is required", ErrInvalidMessage)
	}
	if len(buttons) > MaxMessageButtons {
		return nil, fmt.Errorf("%w: at most %d buttons, got %d", ErrInvalidMessage, MaxMessageButtons, len(buttons))
	}
	for _, b := range buttons {
		if err := b.Validate(); err != nil {
			return nil, err
		}
	}

	var body newMessageBody
	body.Event.Type = "message_create"
	body.Event.MessageCreate.Target.RecipientID = recipientID
	body.Event.MessageCreate.MessageData.Text = text
	body.Event.MessageCreate.MessageData.CTAs = buttons

	var out messageEnvelope
	err := c.do(ctx, request{
		method:      http.MethodPost,
		path:        dmNewPath,
		body:        body,
		userContext: true,
	}, &out)
	if err != nil {
		return nil, fmt.Errorf("failed to send message to %s: %w", recipientID, err)
	}

	msg := c.messageWithParticipants(ctx, out.Event.ToMessage(out.Apps))
	return &msg, nil
}

// Message returns a direct message by id, reading through the cache when
// one is set.
func (c *Client) Message(ctx context.Context, id string) (*Message, error) {
	var cached Message
	if ok, err := c.cache.Get(ctx, MessageCacheKey(id), &cached); err != nil {
		c.logger.Warn().Err(err).Str("message_id", id).Msg("Cache read failed")
	} else if ok {
		return &cached, nil
	}

	var out messageEnvelope
	err := c.do(ctx, request{
		method:      http.MethodGet,
		path:        dmShowPath,
		query:       url.Values{"id": {id}},
		userContext: true,
	}, &out)
	if err != nil {
		return nil, fmt.Errorf("failed to get message %s: %w", id, err)
	}

	msg := c.messageWithParticipants(ctx, out.Event.ToMessage(out.Apps))
	return &msg, nil
}

// messageWithParticipants resolves the participants of a message the API
// already returned. It is cached only when the lookup succeeded.
func (c *Client) messageWithParticipants(ctx context.Context, m Message) Message {
	msgs := []Message{m}
	if err := c.resolveParticipants(ctx, msgs); err != nil {
		c.logger.Warn().Err(err).Str("message_id", m.ID).Msg("Could not resolve message participants")
		return m
	}
	c.cacheMessage(ctx, msgs[0])
	return msgs[0]
}

func (c *Client) cacheMessage(ctx context.Context, m Message) {
	if err := c.cache.Set(ctx, MessageCacheKey(m.ID), m); err != nil {
		c.logger.Warn().Err(err).Str("message_id", m.ID).Msg("Cache write failed")
	}
}

// DeleteMessage deletes a direct message for the authenticated user.
func (c *Client) DeleteMessage(ctx context.Context, id string) error {
	err := c.do(ctx, request{
		method:      http.MethodDelete,
		path:        dmDestroyPath,
		query:       url.Values{"id": {id}},
		userContext: true,
	}, nil)
	if err != nil {
		return fmt.Errorf("failed to delete message %s: %w", id, err)
	}
	if err := c.cache.Delete(ctx, MessageCacheKey(id)); err != nil {
		c.logger.Warn().Err(err).Str("message_id", id).Msg("Cache delete failed")
	}
	return nil
}

// MessageHistory pages through the direct messages of the last 30 days,
// newest first.
func (c *Client) MessageHistory(ctx context.Context) (*Paginator[Message], error) {
	var fetch pageFetcher[Message] = func(ctx context.Context, cursor string) ([]Message, string, error) {
		q := url.Values{"count": {dmPageSize}}
		if cursor != "" {
			q.Set("cursor", cursor)
		}

		var out messageList
		err := c.do(ctx, request{
			method:      http.MethodGet,
			path:        dmListPath,
			query:       q,
			userContext: true,
		}, &out)
		if err != nil {
			return nil, "", fmt.Errorf("failed to list messages: %w", err)
		}

		msgs := make([]Message, 0, len(out.Events))
		for _, ev := range out.Events {
			msgs = append(msgs, ev.ToMessage(out.Apps))
		}
		if err := c.resolveParticipants(ctx, msgs); err != nil {
			return nil, "", err
		}
		return msgs, out.NextCursor, nil
	}
	return newPaginator(ctx, fetch)
}

// resolveParticipants fills Sender and Recipient with one user lookup.
func (c *Client) resolveParticipants(ctx context.Context, msgs []Message) error {
	if len(msgs) == 0 {
		return nil
	}

	ids := make([]string, 0, len(msgs)*2)
	for _, m := range msgs {
		ids = append(ids, m.SenderID, m.RecipientID)
	}
	users, err := c.Users(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to resolve message participants: %w", err)
	}

	byID := make(map[string]*User, len(users))
	for i := range users {
		byID[users[i].ID] = &users[i]
	}
	for i := range msgs {
		msgs[i].Sender = byID[msgs[i].SenderID]
		msgs[i].Recipient = byID[msgs[i].RecipientID]
	}
	return nil
}
