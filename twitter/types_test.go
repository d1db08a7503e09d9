package twitter

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tweetLookupPayload = `{
  "data": {
    "id": "1460323737035677698",
    "text": "Introducing a new era for the Twitter Developer Platform! #build @TwitterDev",
    "author_id": "2244994945",
    "created_at": "2021-11-15T19:08:05.000Z",
    "lang": "en",
    "attachments": {"media_keys": ["3_1", "3_missing"], "poll_ids": ["p1"]},
    "geo": {"place_id": "pl1"},
    "referenced_tweets": [{"type": "quoted", "id": "1460000000000000000"}],
    "entities": {
      "hashtags": [{"start": 58, "end": 64, "tag": "build"}],
      "mentions": [{"start": 65, "end": 76, "username": "TwitterDev"}]
    },
    "public_metrics": {"retweet_count": 10, "reply_count": 2, "like_count": 40, "quote_count": 1}
  },
  "includes": {
    "users": [
      {"id": "2244994945", "name": "Twitter Dev", "username": "TwitterDev"}
    ],
    "media": [
      {"media_key": "3_1", "type": "photo", "url": "https://pbs.twimg.com/media/1.jpg", "width": 1200, "height": 675}
    ],
    "polls": [
      {"id": "p1", "voting_status": "open", "duration_minutes": 60,
       "options": [{"position": 2, "label": "no", "votes": 3}, {"position": 1, "label": "yes", "votes": 7}]}
    ],
    "places": [
      {"id": "pl1", "full_name": "Manhattan, NY", "country_code": "US"}
    ]
  }
}`

func TestResolveTweetIncludes(t *testing.T) {
	var resp response[Tweet]
	require.NoError(t, json.Unmarshal([]byte(tweetLookupPayload), &resp))
	require.True(t, resp.hasData)

	tweet := resp.Data
	newIncludeIndex(&resp.Includes).tweet(&tweet)

	author := &User{ID: "2244994945", Name: "Twitter Dev", Username: "TwitterDev"}
	want := Tweet{
		ID:        "1460323737035677698",
		Text:      "Introducing a new era for the Twitter Developer Platform! #build @TwitterDev",
		AuthorID:  "2244994945",
		CreatedAt: time.Date(2021, 11, 15, 19, 8, 5, 0, time.UTC),
		Lang:      "en",
		Attachments: &Attachments{
			MediaKeys: []string{"3_1", "3_missing"},
			PollIDs:   []string{"p1"},
		},
		Geo:              &Geo{PlaceID: "pl1"},
		ReferencedTweets: []ReferencedTweet{{Type: ReferenceQuoted, ID: "1460000000000000000"}},
		Entities: &Entities{
			Hashtags: []Tag{{Start: 58, End: 64, Tag: "build"}},
			Mentions: []MentionEntity{{Start: 65, End: 76, Username: "TwitterDev"}},
		},
		PublicMetrics: TweetMetrics{RetweetCount: 10, ReplyCount: 2, LikeCount: 40, QuoteCount: 1},
		Author:        author,
		Media: []Media{{
			MediaKey: "3_1",
			Type:     MediaTypePhoto,
			URL:      "https://pbs.twimg.com/media/1.jpg",
			Width:    1200,
			Height:   675,
		}},
		Poll: &Poll{
			ID:              "p1",
			VotingStatus:    "open",
			DurationMinutes: 60,
			Options: []PollOption{
				{Position: 1, Label: "yes", Votes: 7},
				{Position: 2, Label: "no", Votes: 3},
			},
		},
		Place:    &Place{ID: "pl1", FullName: "Manhattan, NY", CountryCode: "US"},
		Mentions: []*User{author},
	}

	if diff := cmp.Diff(want, tweet); diff != "" {
		t.Errorf("resolved tweet mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveWithoutIncludes(t *testing.T) {
	var resp response[[]Tweet]
	require.NoError(t, json.Unmarshal([]byte(`{"data":[{"id":"1","text":"hi","author_id":"9","attachments":{"media_keys":["k"]}}]}`), &resp))

	resolveTweets(&resp.Includes, resp.Data)
	require.Len(t, resp.Data, 1)
	assert.Nil(t, resp.Data[0].Author)
	assert.Nil(t, resp.Data[0].Media)
	assert.Nil(t, resp.Data[0].Poll)
}

func TestResponseEnvelope(t *testing.T) {
	tests := []struct {
		name        string
		payload     string
		wantHasData bool
		wantErrors  int
		wantCount   int
	}{
		{name: "data", payload: `{"data":[{"id":"1"}],"meta":{"result_count":1}}`, wantHasData: true, wantCount: 1},
		{name: "empty result", payload: `{"meta":{"result_count":0}}`},
		{name: "null data", payload: `{"data":null,"errors":[{"title":"x"}]}`, wantErrors: 1},
		{name: "partial errors", payload: `{"data":[{"id":"1"}],"errors":[{"title":"x"}]}`, wantHasData: true, wantErrors: 1, wantCount: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var resp response[[]User]
			require.NoError(t, json.Unmarshal([]byte(tt.payload), &resp))
			assert.Equal(t, tt.wantHasData, resp.hasData)
			assert.Len(t, resp.Errors, tt.wantErrors)
			assert.Len(t, resp.Data, tt.wantCount)
		})
	}
}

func TestTweetHelpers(t *testing.T) {
	tweet := Tweet{
		ID: "42",
		ReferencedTweets: []ReferencedTweet{
			{Type: ReferenceRepliedTo, ID: "41"},
		},
		Entities: &Entities{
			Hashtags: []Tag{{Tag: "golang"}, {Tag: "testing"}},
			Mentions: []MentionEntity{{Username: "gopher"}},
		},
	}

	assert.True(t, tweet.IsReply())
	assert.False(t, tweet.IsRetweet())
	assert.False(t, tweet.IsQuote())
	assert.Equal(t, "41", tweet.RepliedToID())
	assert.Equal(t, []string{"golang", "testing"}, tweet.Hashtags())
	assert.Equal(t, []string{"gopher"}, tweet.MentionedUsernames())
	assert.Equal(t, "https://twitter.com/i/web/status/42", tweet.URL())

	tweet.Author = &User{Username: "gopher"}
	assert.Equal(t, "https://twitter.com/gopher/status/42", tweet.URL())

	var bare Tweet
	assert.Nil(t, bare.Hashtags())
	assert.Nil(t, bare.MentionedUsernames())
}

func TestUserHelpers(t *testing.T) {
	u := User{Username: "gopher"}
	assert.Equal(t, "@gopher", u.Mention())
	assert.Equal(t, "https://twitter.com/gopher", u.ProfileURL())
}

func TestPollHelpers(t *testing.T) {
	p := Poll{
		VotingStatus:    "open",
		DurationMinutes: 90,
		Options:         []PollOption{{Votes: 2}, {Votes: 5}},
	}
	assert.True(t, p.IsOpen())
	assert.Equal(t, 90*time.Minute, p.Duration())
	assert.Equal(t, 7, p.TotalVotes())

	p.VotingStatus = "closed"
	assert.False(t, p.IsOpen())
}

func TestParseSpaceState(t *testing.T) {
	tests := []struct {
		input   string
		want    SpaceState
		wantErr bool
	}{
		{input: "live", want: SpaceStateLive},
		{input: "Scheduled", want: SpaceStateScheduled},
		{input: " ended ", want: SpaceStateEnded},
		{input: "paused", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseSpaceState(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownSpaceState)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
