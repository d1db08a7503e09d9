package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComposeTweet(t *testing.T) {
	assert.Equal(t, "https://twitter.com/intent/tweet", ComposeTweet(""))
	assert.Equal(t, "https://twitter.com/intent/tweet?text=hello+%26+welcome%3F", ComposeTweet("hello & welcome?"))
}

func TestFollowUser(t *testing.T) {
	assert.Equal(t, "https://twitter.com/intent/user?user_id=12345", FollowUser("12345"))
}

func TestMessageUser(t *testing.T) {
	assert.Equal(t, "https://twitter.com/messages/compose?recipient_id=12345", MessageUser("12345", ""))
	assert.Equal(t, "https://twitter.com/messages/compose?recipient_id=12345&text=hi+there", MessageUser("12345", "hi there"))
}

func TestTweetAction(t *testing.T) {
	tests := []struct {
		name    string
		action  Action
		want    string
		wantErr bool
	}{
		{name: "like", action: ActionLike, want: "https://twitter.com/intent/like?tweet_id=99"},
		{name: "retweet", action: ActionRetweet, want: "https://twitter.com/intent/retweet?tweet_id=99"},
		{name: "reply", action: ActionReply, want: "https://twitter.com/intent/tweet?in_reply_to=99"},
		{name: "mixed case", action: "ReTweet", want: "https://twitter.com/intent/retweet?tweet_id=99"},
		{name: "unknown", action: "bookmark", wantErr: true},
		{name: "empty", action: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := TweetAction("99", tt.action)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnknownAction)
				assert.Empty(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
