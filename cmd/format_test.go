package cmd

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/s0up4200/chirp/twitter"
	"github.com/s0up4200/chirp/webhook"
)

func TestFormatTweetList(t *testing.T) {
	f := NewConsoleFormatter()

	assert.Equal(t, "No tweets found", f.FormatTweetList(nil, FormatOptions{}))

	tweets := []twitter.Tweet{
		{
			ID:            "1",
			Text:          "first line\nsecond line",
			Author:        &twitter.User{ID: "9", Username: "gopher"},
			PublicMetrics: twitter.TweetMetrics{LikeCount: 3, RetweetCount: 2, ReplyCount: 1},
		},
		{
			ID:               "2",
			Text:             "a reply",
			AuthorID:         "9",
			ReferencedTweets: []twitter.ReferencedTweet{{Type: twitter.ReferenceRepliedTo, ID: "1"}},
			Poll:             &twitter.Poll{VotingStatus: "open", Options: []twitter.PollOption{{Position: 1, Label: "yes", Votes: 4}}},
		},
	}

	out := f.FormatTweetList(tweets, FormatOptions{ShowDetails: true, Numbered: true})

	assert.Contains(t, out, "Tweets (2):")
	assert.Contains(t, out, "├── [1] @gopher 1\n")
	assert.Contains(t, out, "│   first line\n│   second line\n")
	assert.Contains(t, out, "♥ 3  ↻ 2  ↩ 1")
	assert.Contains(t, out, "╰── [2] 9 2\n")
	assert.Contains(t, out, "    Type: reply to 1\n")
	assert.Contains(t, out, "    Poll (open):\n      - yes: 4\n")
	assert.Contains(t, out, "https://twitter.com/gopher/status/1")

	single := f.FormatTweetList(tweets[:1], FormatOptions{})
	assert.Contains(t, single, "Tweet (1):")
	assert.NotContains(t, single, "[1]")
	assert.NotContains(t, single, "https://", "links are details")
}

func TestFormatUser(t *testing.T) {
	f := NewConsoleFormatter()
	out := f.FormatUser(twitter.User{
		ID:          "9",
		Name:        "Gopher",
		Username:    "gopher",
		Verified:    true,
		Description: "digs\nholes",
		CreatedAt:   time.Date(2009, 11, 10, 0, 0, 0, 0, time.UTC),
		PublicMetrics: twitter.UserMetrics{
			FollowersCount: 10, FollowingCount: 2, TweetCount: 42, ListedCount: 1,
		},
		PinnedTweet: &twitter.Tweet{Text: "hello\nworld"},
	})

	assert.Contains(t, out, "@gopher (Gopher) [VERIFIED]\n")
	assert.Contains(t, out, "├── ID: 9\n")
	assert.Contains(t, out, "├── Bio: digs holes\n")
	assert.Contains(t, out, "Followers: 10 | Following: 2 | Tweets: 42 | Listed: 1")
	assert.Contains(t, out, "├── Joined: 2009-11-10\n")
	assert.Contains(t, out, "├── Pinned: hello...\n")
	assert.Contains(t, out, "╰── https://twitter.com/gopher\n")
}

func TestFormatMessages(t *testing.T) {
	f := NewConsoleFormatter()
	assert.Equal(t, "No direct messages found", f.FormatMessages(nil))

	out := f.FormatMessages([]twitter.Message{{
		ID:          "m1",
		Text:        "hi",
		SenderID:    "1",
		RecipientID: "2",
		Sender:      &twitter.User{Username: "alice"},
		Buttons:     []twitter.Button{twitter.WebButton("Docs", "https://go.dev/doc")},
	}})
	assert.Contains(t, out, "Message (1):")
	assert.Contains(t, out, "╰── @alice → 2\n")
	assert.Contains(t, out, "    hi\n")
	assert.Contains(t, out, "    [Docs] https://go.dev/doc\n")
}

func TestFormatTrends(t *testing.T) {
	f := NewConsoleFormatter()
	assert.Equal(t, "No trends found", f.FormatTrends(twitter.TrendList{}))

	volume := 12000
	out := f.FormatTrends(twitter.TrendList{
		Trends:    []twitter.Trend{{Name: "Golang", TweetVolume: &volume}, {Name: "#gophers"}},
		Locations: []twitter.TrendLocation{{Name: "Amsterdam", WOEID: 727232}},
	})
	assert.Contains(t, out, "Trends in Amsterdam:\n")
	assert.Contains(t, out, "├── 1. Golang (12000 tweets)\n")
	assert.Contains(t, out, "╰── 2. #gophers\n")

	locations := f.FormatTrendLocations([]twitter.TrendLocation{
		{Name: "Amsterdam", Country: "Netherlands", WOEID: 727232, PlaceType: twitter.TrendPlaceType{Name: "Town"}},
	})
	assert.Contains(t, locations, "╰── Amsterdam, Netherlands [Town] woeid 727232\n")

	places := f.FormatPlaces([]twitter.Place{{ID: "99cdab25eddd6bce", FullName: "Amsterdam, The Netherlands", PlaceType: "city"}})
	assert.Contains(t, places, "╰── Amsterdam, The Netherlands [city] 99cdab25eddd6bce\n")
}

func TestFormatSettings(t *testing.T) {
	f := NewConsoleFormatter()
	out := f.FormatSettings(twitter.AccountSettings{
		ScreenName: "gopher",
		Language:   "en",
		TimeZone:   &twitter.TimeZone{Name: "Amsterdam", TZInfoName: "Europe/Amsterdam"},
		SleepTime:  twitter.SleepTime{Enabled: true, StartTime: 23, EndTime: 7},
	})
	assert.Contains(t, out, "@gopher\n")
	assert.Contains(t, out, "├── Time zone: Amsterdam (Europe/Amsterdam)\n")
	assert.Contains(t, out, "╰── Sleep time: 23:00-07:00 UTC\n")
}

func TestFormatSpace(t *testing.T) {
	f := NewConsoleFormatter()
	out := f.FormatSpace(twitter.Space{
		ID:               "1zqKVXPQhvZJB",
		Title:            "Go hour",
		State:            twitter.SpaceStateLive,
		ParticipantCount: 12,
		Creator:          &twitter.User{Username: "gopher"},
		Topics:           []twitter.Topic{{Name: "Programming"}, {Name: "Go"}},
	})

	assert.Contains(t, out, "Go hour [LIVE]\n")
	assert.Contains(t, out, "├── Host: @gopher\n")
	assert.Contains(t, out, "├── Listening: 12\n")
	assert.Contains(t, out, "├── Topics: Programming, Go\n")
	assert.Contains(t, out, "╰── ID: 1zqKVXPQhvZJB\n")
}

func TestFormatEvent(t *testing.T) {
	f := NewConsoleFormatter()

	tests := []struct {
		name string
		ev   webhook.Event
		want string
	}{
		{
			name: "follow",
			ev: webhook.UserActionEvent{
				Action: webhook.KindFollow,
				Source: twitter.User{Username: "fan"},
				Target: twitter.User{Username: "me"},
			},
			want: "[follow] @fan → @me",
		},
		{
			name: "delete with cached tweet",
			ev:   webhook.TweetDeleteEvent{TweetID: "10", Tweet: &twitter.Tweet{Text: "oops"}},
			want: `[delete] 10 ("oops")`,
		},
		{
			name: "read without cached message",
			ev:   webhook.ReadEvent{LastReadEventID: "m1"},
			want: "[read] unknown read up to m1",
		},
		{
			name: "dm",
			ev:   webhook.DirectMessageEvent{Message: twitter.Message{SenderID: "2", Text: "hey"}},
			want: "[dm] 2: hey",
		},
		{
			name: "revoke",
			ev:   webhook.RevokeEvent{UserID: "7", AppID: "99"},
			want: "[revoke] user 7 revoked app 99",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.FormatEvent(tt.ev))
		})
	}
}
