package twitter

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexibleID(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    FlexibleID
	}{
		{name: "string", payload: `{"id":"3001969357"}`, want: "3001969357"},
		{name: "number", payload: `{"id":1460323737035677698}`, want: "1460323737035677698"},
		{name: "null", payload: `{"id":null}`, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v struct {
				ID FlexibleID `json:"id"`
			}
			require.NoError(t, json.Unmarshal([]byte(tt.payload), &v))
			assert.Equal(t, tt.want, v.ID)
		})
	}
}

func TestV1UserToUser(t *testing.T) {
	payload := `{
		"id": 6253282,
		"id_str": "6253282",
		"name": "Twitter API",
		"screen_name": "TwitterAPI",
		"location": "San Francisco, CA",
		"description": "The Real Twitter API.",
		"url": "https://t.co/8IkCzCDr19",
		"protected": false,
		"verified": true,
		"followers_count": 6133636,
		"friends_count": 12,
		"listed_count": 12936,
		"statuses_count": 3656,
		"created_at": "Wed May 23 06:01:13 +0000 2007",
		"profile_image_url_https": "https://pbs.twimg.com/profile_images/942858479592554497/BbazLO9L_normal.jpg"
	}`

	var v1 V1User
	require.NoError(t, json.Unmarshal([]byte(payload), &v1))

	want := User{
		ID:              "6253282",
		Name:            "Twitter API",
		Username:        "TwitterAPI",
		Description:     "The Real Twitter API.",
		Location:        "San Francisco, CA",
		URL:             "https://t.co/8IkCzCDr19",
		ProfileImageURL: "https://pbs.twimg.com/profile_images/942858479592554497/BbazLO9L_normal.jpg",
		Verified:        true,
		CreatedAt:       time.Date(2007, 5, 23, 6, 1, 13, 0, time.UTC),
		PublicMetrics: UserMetrics{
			FollowersCount: 6133636,
			FollowingCount: 12,
			TweetCount:     3656,
			ListedCount:    12936,
		},
	}
	if diff := cmp.Diff(want, v1.ToUser()); diff != "" {
		t.Errorf("ToUser() mismatch (-want +got):\n%s", diff)
	}
}

func TestV1UserCreatedTimestamp(t *testing.T) {
	v1 := V1User{ID: "3001969357", ScreenName: "jordan", CreatedTimestamp: "1422556069340"}
	u := v1.ToUser()
	assert.Equal(t, "3001969357", u.ID)
	assert.Equal(t, time.UnixMilli(1422556069340).UTC(), u.CreatedAt)
}

func TestV1TweetToTweet(t *testing.T) {
	payload := `{
		"id_str": "1050118621198921728",
		"text": "To make room for more expression, we will now count all emojis as equal @TwitterDev #emoji",
		"created_at": "Wed Oct 10 20:19:24 +0000 2018",
		"timestamp_ms": "1539202764000",
		"lang": "en",
		"in_reply_to_status_id_str": "1050118000000000000",
		"in_reply_to_user_id_str": "783214",
		"favorite_count": 8,
		"retweet_count": 3,
		"reply_count": 1,
		"quote_count": 2,
		"user": {"id": 6253282, "id_str": "6253282", "screen_name": "TwitterAPI", "name": "Twitter API", "followers_count": 10, "friends_count": 2},
		"entities": {
			"hashtags": [{"text": "emoji", "indices": [84, 90]}],
			"user_mentions": [{"screen_name": "TwitterDev", "name": "Twitter Dev", "id_str": "2244994945", "indices": [72, 83]}],
			"urls": []
		}
	}`

	var v1 V1Tweet
	require.NoError(t, json.Unmarshal([]byte(payload), &v1))
	tweet := v1.ToTweet()

	assert.Equal(t, "1050118621198921728", tweet.ID)
	assert.Equal(t, "6253282", tweet.AuthorID)
	require.NotNil(t, tweet.Author)
	assert.Equal(t, "TwitterAPI", tweet.Author.Username)
	assert.Equal(t, 10, tweet.Author.PublicMetrics.FollowersCount)
	assert.Equal(t, 2, tweet.Author.PublicMetrics.FollowingCount)
	assert.Equal(t, time.UnixMilli(1539202764000).UTC(), tweet.CreatedAt)
	assert.Equal(t, TweetMetrics{RetweetCount: 3, ReplyCount: 1, LikeCount: 8, QuoteCount: 2}, tweet.PublicMetrics)
	assert.True(t, tweet.IsReply())
	assert.Equal(t, "1050118000000000000", tweet.RepliedToID())
	assert.Equal(t, []string{"emoji"}, tweet.Hashtags())
	assert.Equal(t, []string{"TwitterDev"}, tweet.MentionedUsernames())
	require.Len(t, tweet.Mentions, 1)
	assert.Equal(t, "2244994945", tweet.Mentions[0].ID)
}

func TestV1TweetRetweet(t *testing.T) {
	v1 := V1Tweet{
		IDStr:           "2",
		Text:            "RT @someone: hello",
		RetweetedStatus: &V1Tweet{ID: "1"},
	}
	tweet := v1.ToTweet()
	assert.True(t, tweet.IsRetweet())
	assert.Nil(t, tweet.Author)
	assert.Nil(t, tweet.Entities)
}

func TestV1MessageEventToMessage(t *testing.T) {
	payload := `{
		"type": "message_create",
		"id": "1050118621198921728",
		"created_timestamp": "1539202764000",
		"message_create": {
			"target": {"recipient_id": "3805104374"},
			"sender_id": "3001969357",
			"source_app_id": "268278",
			"message_data": {
				"text": "Hello #world",
				"entities": {"hashtags": [{"text": "world", "indices": [6, 12]}], "symbols": [], "user_mentions": [], "urls": []},
				"attachment": {"type": "media", "media": {"media_url_https": "https://ton.twitter.com/1.1/ton/data/dm/1.jpg"}}
			}
		}
	}`

	var ev V1MessageEvent
	require.NoError(t, json.Unmarshal([]byte(payload), &ev))

	apps := map[string]Application{"268278": {ID: "268278", Name: "Twitter Web Client", URL: "http://twitter.com"}}
	msg := ev.ToMessage(apps)

	want := Message{
		ID:          "1050118621198921728",
		Type:        "message_create",
		Text:        "Hello #world",
		SenderID:    "3001969357",
		RecipientID: "3805104374",
		CreatedAt:   time.UnixMilli(1539202764000).UTC(),
		Entities:    &Entities{Hashtags: []Tag{{Start: 6, End: 12, Tag: "world"}}},
		MediaURL:    "https://ton.twitter.com/1.1/ton/data/dm/1.jpg",
		SourceApp:   &Application{ID: "268278", Name: "Twitter Web Client", URL: "http://twitter.com"},
	}
	if diff := cmp.Diff(want, msg); diff != "" {
		t.Errorf("ToMessage() mismatch (-want +got):\n%s", diff)
	}

	assert.Nil(t, ev.ToMessage(nil).SourceApp)
}

func TestParseMillis(t *testing.T) {
	assert.Equal(t, time.Date(2018, 10, 10, 20, 19, 24, 0, time.UTC), ParseMillis("1539202764000"))
	assert.True(t, ParseMillis("").IsZero())
	assert.True(t, ParseMillis("yesterday").IsZero())
}
