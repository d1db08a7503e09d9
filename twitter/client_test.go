package twitter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	appCreds  = Credentials{BearerToken: "test-bearer"}
	userCreds = Credentials{
		ConsumerKey:       "consumer-key",
		ConsumerSecret:    "consumer-secret",
		AccessToken:       "12345-access-token",
		AccessTokenSecret: "access-secret",
	}
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(t *testing.T, srv *httptest.Server, creds Credentials, opts ...Option) *Client {
	t.Helper()
	base := []Option{
		WithBaseURL(srv.URL),
		WithUploadURL(srv.URL),
		WithLogger(zerolog.Nop()),
		WithRetryWait(time.Millisecond, 5*time.Millisecond),
	}
	client, err := NewClient(creds, append(base, opts...)...)
	require.NoError(t, err)
	return client
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func TestNewClient(t *testing.T) {
	tests := []struct {
		name    string
		creds   Credentials
		opts    []Option
		wantErr error
		wantURL string
	}{
		{
			name:    "bearer token",
			creds:   appCreds,
			wantURL: DefaultBaseURL,
		},
		{
			name:    "user context",
			creds:   userCreds,
			wantURL: DefaultBaseURL,
		},
		{
			name:    "trailing slash trimmed",
			creds:   appCreds,
			opts:    []Option{WithBaseURL("http://localhost:8080/")},
			wantURL: "http://localhost:8080",
		},
		{
			name:    "missing credentials",
			creds:   Credentials{},
			wantErr: ErrMissingCredentials,
		},
		{
			name:    "partial oauth credentials",
			creds:   Credentials{ConsumerKey: "ck", ConsumerSecret: "cs"},
			wantErr: ErrMissingCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.creds, append(tt.opts, WithLogger(zerolog.Nop()))...)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantURL, client.baseURL)
		})
	}
}

func TestClientOptions(t *testing.T) {
	t.Run("with timeout", func(t *testing.T) {
		client, err := NewClient(appCreds, WithTimeout(5*time.Second))
		require.NoError(t, err)
		assert.Equal(t, 5*time.Second, client.httpClient.HTTPClient.Timeout)
	})

	t.Run("with custom http client", func(t *testing.T) {
		custom := &http.Client{Timeout: 10 * time.Second}
		client, err := NewClient(appCreds, WithHTTPClient(custom))
		require.NoError(t, err)
		assert.Same(t, custom, client.httpClient.HTTPClient)
	})

	t.Run("with retries", func(t *testing.T) {
		client, err := NewClient(appCreds, WithMaxRetries(5), WithRetryWait(time.Second, 2*time.Second))
		require.NoError(t, err)
		assert.Equal(t, 5, client.httpClient.RetryMax)
		assert.Equal(t, time.Second, client.httpClient.RetryWaitMin)
		assert.Equal(t, 2*time.Second, client.httpClient.RetryWaitMax)
	})

	t.Run("invalid values keep defaults", func(t *testing.T) {
		client, err := NewClient(appCreds, WithMaxRetries(-1), WithBatchConcurrency(0), WithTimeout(0))
		require.NoError(t, err)
		assert.Equal(t, defaultMaxRetries, client.httpClient.RetryMax)
		assert.Equal(t, defaultBatchConcurrency, client.batchConcurrency)
		assert.Equal(t, defaultTimeout, client.httpClient.HTTPClient.Timeout)
	})
}

func TestRequestHeaders(t *testing.T) {
	t.Run("bearer token", func(t *testing.T) {
		srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "Bearer test-bearer", r.Header.Get("Authorization"))
			assert.Equal(t, "application/json", r.Header.Get("Accept"))
			assert.Equal(t, "chirp/test", r.Header.Get("User-Agent"))
			assert.NotEmpty(t, r.Header.Get(headerRequestID))
			writeJSON(t, w, map[string]any{"data": map[string]any{"id": "1", "username": "gopher"}})
		})
		client := newTestClient(t, srv, appCreds, WithUserAgent("chirp/test"))

		user, err := client.User(context.Background(), "1")
		require.NoError(t, err)
		assert.Equal(t, "gopher", user.Username)
	})

	t.Run("default user agent", func(t *testing.T) {
		srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "chirp/"+Version, r.Header.Get("User-Agent"))
			writeJSON(t, w, map[string]any{"data": map[string]any{"id": "1"}})
		})
		client := newTestClient(t, srv, appCreds)

		_, err := client.User(context.Background(), "1")
		require.NoError(t, err)
	})

	t.Run("oauth signature", func(t *testing.T) {
		srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			assert.True(t, strings.HasPrefix(auth, "OAuth "), auth)
			assert.Contains(t, auth, `oauth_consumer_key="consumer-key"`)
			assert.Contains(t, auth, `oauth_token="12345-access-token"`)
			writeJSON(t, w, map[string]any{"data": map[string]any{"id": "12345", "username": "me"}})
		})
		client := newTestClient(t, srv, userCreds)

		me, err := client.Me(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "12345", me.ID)
	})
}

func TestUserContextRequired(t *testing.T) {
	var hits atomic.Int32
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	})
	client := newTestClient(t, srv, appCreds)
	ctx := context.Background()

	_, err := client.PostTweet(ctx, TweetRequest{Text: "hello"})
	require.ErrorIs(t, err, ErrMissingCredentials)

	err = client.Like(ctx, "1")
	require.ErrorIs(t, err, ErrMissingCredentials)

	_, err = client.MessageHistory(ctx)
	require.ErrorIs(t, err, ErrMissingCredentials)

	assert.Zero(t, hits.Load())
}

func TestRetries(t *testing.T) {
	t.Run("server errors are retried", func(t *testing.T) {
		var hits atomic.Int32
		srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			if hits.Add(1) < 3 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			writeJSON(t, w, map[string]any{"data": map[string]any{"id": "1", "text": "ok"}})
		})
		client := newTestClient(t, srv, appCreds)

		tweet, err := client.Tweet(context.Background(), "1")
		require.NoError(t, err)
		assert.Equal(t, "ok", tweet.Text)
		assert.Equal(t, int32(3), hits.Load())
	})

	t.Run("exhausted retries return the last response", func(t *testing.T) {
		var hits atomic.Int32
		srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
			w.WriteHeader(http.StatusInternalServerError)
			writeJSON(t, w, map[string]any{"title": "Internal Error", "detail": "try later"})
		})
		client := newTestClient(t, srv, appCreds, WithMaxRetries(1))

		_, err := client.Tweet(context.Background(), "1")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrServer)

		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
		assert.Equal(t, "Internal Error: try later", apiErr.Message)
		assert.Equal(t, int32(2), hits.Load())
	})

	t.Run("client errors are not retried", func(t *testing.T) {
		var hits atomic.Int32
		srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
			w.WriteHeader(http.StatusUnauthorized)
			writeJSON(t, w, map[string]any{"title": "Unauthorized"})
		})
		client := newTestClient(t, srv, appCreds)

		_, err := client.Tweet(context.Background(), "1")
		assert.True(t, IsUnauthorized(err))
		assert.Equal(t, int32(1), hits.Load())
	})
}

func TestRateLimits(t *testing.T) {
	reset := time.Now().Add(-time.Second).Unix()

	t.Run("429 is returned without waiting", func(t *testing.T) {
		var hits atomic.Int32
		srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
			w.Header().Set(headerRateLimit, "15")
			w.Header().Set(headerRateRemaining, "0")
			w.Header().Set(headerRateReset, strconv.FormatInt(reset, 10))
			w.WriteHeader(http.StatusTooManyRequests)
			writeJSON(t, w, map[string]any{"title": "Too Many Requests"})
		})
		client := newTestClient(t, srv, appCreds)

		_, err := client.User(context.Background(), "7")
		require.Error(t, err)
		assert.True(t, IsRateLimited(err))
		assert.Equal(t, int32(1), hits.Load())

		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		assert.True(t, apiErr.RateLimit.Exhausted())
		assert.Equal(t, 15, apiErr.RateLimit.Limit)
	})

	t.Run("429 is retried when waiting is enabled", func(t *testing.T) {
		var hits atomic.Int32
		srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			if hits.Add(1) == 1 {
				w.Header().Set(headerRateReset, strconv.FormatInt(reset, 10))
				w.WriteHeader(http.StatusTooManyRequests)
				return
			}
			writeJSON(t, w, map[string]any{"data": map[string]any{"id": "7", "username": "patient"}})
		})
		client := newTestClient(t, srv, appCreds, WithWaitOnRateLimit(true))

		user, err := client.User(context.Background(), "7")
		require.NoError(t, err)
		assert.Equal(t, "patient", user.Username)
		assert.Equal(t, int32(2), hits.Load())
	})

	t.Run("windows are recorded per endpoint", func(t *testing.T) {
		srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set(headerRateLimit, "900")
			w.Header().Set(headerRateRemaining, "899")
			w.Header().Set(headerRateReset, "1700000000")
			writeJSON(t, w, map[string]any{"data": map[string]any{"id": "7"}})
		})
		client := newTestClient(t, srv, appCreds)

		_, ok := client.RateLimit(http.MethodGet, "/2/users/7")
		assert.False(t, ok)

		_, err := client.User(context.Background(), "7")
		require.NoError(t, err)

		rl, ok := client.RateLimit(http.MethodGet, "/2/users/7")
		require.True(t, ok)
		assert.Equal(t, 900, rl.Limit)
		assert.Equal(t, 899, rl.Remaining)
		assert.Equal(t, time.Unix(1700000000, 0), rl.Reset)
		assert.False(t, rl.Exhausted())
	})
}

func TestPing(t *testing.T) {
	tests := []struct {
		name     string
		creds    Credentials
		wantPath string
	}{
		{name: "app only", creds: appCreds, wantPath: "/2/tweets"},
		{name: "user context", creds: userCreds, wantPath: "/2/users/me"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, tt.wantPath, r.URL.Path)
				writeJSON(t, w, map[string]any{"data": map[string]any{"id": "20"}})
			})
			client := newTestClient(t, srv, tt.creds)
			require.NoError(t, client.Ping(context.Background()))
		})
	}
}

func TestAuthenticatedUserID(t *testing.T) {
	t.Run("from access token", func(t *testing.T) {
		client, err := NewClient(userCreds, WithLogger(zerolog.Nop()))
		require.NoError(t, err)

		id, err := client.authenticatedUserID(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "12345", id)
	})

	t.Run("looked up once", func(t *testing.T) {
		var hits atomic.Int32
		srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
			assert.Equal(t, "/2/users/me", r.URL.Path)
			writeJSON(t, w, map[string]any{"data": map[string]any{"id": "999"}})
		})
		creds := userCreds
		creds.AccessToken = "opaque"
		client := newTestClient(t, srv, creds)

		for range 2 {
			id, err := client.authenticatedUserID(context.Background())
			require.NoError(t, err)
			assert.Equal(t, "999", id)
		}
		assert.Equal(t, int32(1), hits.Load())
	})
}
