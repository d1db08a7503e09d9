package twitter

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"
)

// v1.1 payloads use different names and shapes than v2. The adapters below
// convert them into the v2 models so callers see one representation.

// FlexibleID decodes an id sent either as a JSON number or a string.
type FlexibleID string

func (f *FlexibleID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = FlexibleID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = FlexibleID(n.String())
	return nil
}

// V1Hashtag is a v1.1 hashtag or symbol entity
type V1Hashtag struct {
	Text    string `json:"text"`
	Indices [2]int `json:"indices"`
}

// V1Mention is a v1.1 user mention entity
type V1Mention struct {
	ScreenName string     `json:"screen_name"`
	Name       string     `json:"name,omitempty"`
	IDStr      FlexibleID `json:"id_str"`
	Indices    [2]int     `json:"indices"`
}

// V1URL is a v1.1 URL entity
type V1URL struct {
	URL         string `json:"url"`
	ExpandedURL string `json:"expanded_url"`
	DisplayURL  string `json:"display_url"`
	Indices     [2]int `json:"indices"`
}

// V1Entities holds v1.1 text entities
type V1Entities struct {
	Hashtags     []V1Hashtag `json:"hashtags"`
	Symbols      []V1Hashtag `json:"symbols"`
	UserMentions []V1Mention `json:"user_mentions"`
	URLs         []V1URL     `json:"urls"`
}

// ToEntities converts to the v2 entity layout.
func (e V1Entities) ToEntities() *Entities {
	if len(e.Hashtags)+len(e.Symbols)+len(e.UserMentions)+len(e.URLs) == 0 {
		return nil
	}
	out := &Entities{}
	for _, h := range e.Hashtags {
		out.Hashtags = append(out.Hashtags, Tag{Start: h.Indices[0], End: h.Indices[1], Tag: h.Text})
	}
	for _, s := range e.Symbols {
		out.Cashtags = append(out.Cashtags, Tag{Start: s.Indices[0], End: s.Indices[1], Tag: s.Text})
	}
	for _, m := range e.UserMentions {
		out.Mentions = append(out.Mentions, MentionEntity{
			Start:    m.Indices[0],
			End:      m.Indices[1],
			Username: m.ScreenName,
			ID:       string(m.IDStr),
		})
	}
	for _, u := range e.URLs {
		out.URLs = append(out.URLs, URLEntity{
			Start:       u.Indices[0],
			End:         u.Indices[1],
			URL:         u.URL,
			ExpandedURL: u.ExpandedURL,
			DisplayURL:  u.DisplayURL,
		})
	}
	return out
}

// V1User is a v1.1 user object
type V1User struct {
	ID                   FlexibleID `json:"id"`
	IDStr                string     `json:"id_str"`
	Name                 string     `json:"name"`
	ScreenName           string     `json:"screen_name"`
	Description          string     `json:"description"`
	Location             string     `json:"location"`
	URL                  string     `json:"url"`
	ProfileImageURLHTTPS string     `json:"profile_image_url_https"`
	Protected            bool       `json:"protected"`
	Verified             bool       `json:"verified"`
	CreatedAt            string     `json:"created_at"`
	CreatedTimestamp     string     `json:"created_timestamp"`
	FollowersCount       int        `json:"followers_count"`
	FriendsCount         int        `json:"friends_count"`
	StatusesCount        int        `json:"statuses_count"`
	ListedCount          int        `json:"listed_count"`
}

// ToUser converts to a v2 User.
func (v V1User) ToUser() User {
	id := v.IDStr
	if id == "" {
		id = string(v.ID)
	}

	u := User{
		ID:              id,
		Name:            v.Name,
		Username:        v.ScreenName,
		Description:     v.Description,
		Location:        v.Location,
		URL:             v.URL,
		ProfileImageURL: v.ProfileImageURLHTTPS,
		Protected:       v.Protected,
		Verified:        v.Verified,
		PublicMetrics: UserMetrics{
			FollowersCount: v.FollowersCount,
			FollowingCount: v.FriendsCount,
			TweetCount:     v.StatusesCount,
			ListedCount:    v.ListedCount,
		},
	}
	switch {
	case v.CreatedTimestamp != "":
		u.CreatedAt = ParseMillis(v.CreatedTimestamp)
	case v.CreatedAt != "":
		if t, err := time.Parse(time.RubyDate, v.CreatedAt); err == nil {
			u.CreatedAt = t
		}
	}
	return u
}

// V1Tweet is a v1.1 tweet object
type V1Tweet struct {
	ID                   FlexibleID `json:"id"`
	IDStr                string     `json:"id_str"`
	Text                 string     `json:"text"`
	FullText             string     `json:"full_text"`
	CreatedAt            string     `json:"created_at"`
	TimestampMS          string     `json:"timestamp_ms"`
	Source               string     `json:"source"`
	Lang                 string     `json:"lang"`
	User                 *V1User    `json:"user"`
	InReplyToStatusIDStr string     `json:"in_reply_to_status_id_str"`
	InReplyToUserIDStr   string     `json:"in_reply_to_user_id_str"`
	QuotedStatusIDStr    string     `json:"quoted_status_id_str"`
	RetweetedStatus      *V1Tweet   `json:"retweeted_status"`
	PossiblySensitive    bool       `json:"possibly_sensitive"`
	FavoriteCount        int        `json:"favorite_count"`
	RetweetCount         int        `json:"retweet_count"`
	ReplyCount           int        `json:"reply_count"`
	QuoteCount           int        `json:"quote_count"`
	Entities             V1Entities `json:"entities"`
}

// ToTweet converts to a v2 Tweet with Author and Mentions filled in.
func (v V1Tweet) ToTweet() Tweet {
	id := v.IDStr
	if id == "" {
		id = string(v.ID)
	}
	text := v.Text
	if v.FullText != "" {
		text = v.FullText
	}

	t := Tweet{
		ID:                id,
		Text:              text,
		Lang:              v.Lang,
		Source:            v.Source,
		PossiblySensitive: v.PossiblySensitive,
		InReplyToUserID:   v.InReplyToUserIDStr,
		Entities:          v.Entities.ToEntities(),
		PublicMetrics: TweetMetrics{
			RetweetCount: v.RetweetCount,
			ReplyCount:   v.ReplyCount,
			LikeCount:    v.FavoriteCount,
			QuoteCount:   v.QuoteCount,
		},
	}

	switch {
	case v.TimestampMS != "":
		t.CreatedAt = ParseMillis(v.TimestampMS)
	case v.CreatedAt != "":
		if ts, err := time.Parse(time.RubyDate, v.CreatedAt); err == nil {
			t.CreatedAt = ts
		}
	}

	if v.User != nil {
		author := v.User.ToUser()
		t.Author = &author
		t.AuthorID = author.ID
	}

	if v.InReplyToStatusIDStr != "" {
		t.ReferencedTweets = append(t.ReferencedTweets, ReferencedTweet{Type: ReferenceRepliedTo, ID: v.InReplyToStatusIDStr})
	}
	if v.QuotedStatusIDStr != "" {
		t.ReferencedTweets = append(t.ReferencedTweets, ReferencedTweet{Type: ReferenceQuoted, ID: v.QuotedStatusIDStr})
	}
	if v.RetweetedStatus != nil {
		rt := v.RetweetedStatus.IDStr
		if rt == "" {
			rt = string(v.RetweetedStatus.ID)
		}
		t.ReferencedTweets = append(t.ReferencedTweets, ReferencedTweet{Type: ReferenceRetweeted, ID: rt})
	}

	for _, m := range v.Entities.UserMentions {
		t.Mentions = append(t.Mentions, &User{ID: string(m.IDStr), Username: m.ScreenName, Name: m.Name})
	}
	return t
}

// V1MessageEvent is a direct message event from the v1.1 DM and account
// activity endpoints.
type V1MessageEvent struct {
	Type             string `json:"type"`
	ID               string `json:"id"`
	CreatedTimestamp string `json:"created_timestamp"`
	MessageCreate    struct {
		Target struct {
			RecipientID string `json:"recipient_id"`
		} `json:"target"`
		SenderID    string `json:"sender_id"`
		SourceAppID string `json:"source_app_id,omitempty"`
		MessageData struct {
			Text       string     `json:"text"`
			Entities   V1Entities `json:"entities"`
			CTAs       []Button   `json:"ctas,omitempty"`
			Attachment *struct {
				Type  string `json:"type"`
				Media struct {
					MediaURLHTTPS string `json:"media_url_https"`
				} `json:"media"`
			} `json:"attachment,omitempty"`
		} `json:"message_data"`
	} `json:"message_create"`
}

// ToMessage converts the event into a Message. apps maps source app ids
// to applications and may be nil.
func (e V1MessageEvent) ToMessage(apps map[string]Application) Message {
	mc := e.MessageCreate
	m := Message{
		ID:          e.ID,
		Type:        e.Type,
		Text:        mc.MessageData.Text,
		SenderID:    mc.SenderID,
		RecipientID: mc.Target.RecipientID,
		CreatedAt:   ParseMillis(e.CreatedTimestamp),
		Entities:    mc.MessageData.Entities.ToEntities(),
		Buttons:     mc.MessageData.CTAs,
	}
	if a := mc.MessageData.Attachment; a != nil {
		m.MediaURL = a.Media.MediaURLHTTPS
	}
	if app, ok := apps[mc.SourceAppID]; ok && mc.SourceAppID != "" {
		m.SourceApp = &app
	}
	return m
}

// ParseMillis parses a Unix millisecond timestamp as v1.1 payloads send it,
// returning the zero time for empty or malformed input.
func ParseMillis(s string) time.Time {
	ms, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}
