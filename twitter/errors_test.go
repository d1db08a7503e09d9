package twitter

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAPIError(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantMessage string
		wantErrors  int
	}{
		{
			name:        "v1 error list",
			status:      http.StatusNotFound,
			body:        `{"errors":[{"code":34,"message":"Sorry, that page does not exist."}]}`,
			wantMessage: "Sorry, that page does not exist.",
			wantErrors:  1,
		},
		{
			name:        "v2 error list with detail",
			status:      http.StatusBadRequest,
			body:        `{"errors":[{"parameters":{"ids":["x"]},"detail":"The ids query parameter value [x] is not valid"}],"title":"Invalid Request"}`,
			wantMessage: "The ids query parameter value [x] is not valid",
			wantErrors:  1,
		},
		{
			name:        "error field",
			status:      http.StatusForbidden,
			body:        `{"error":"Read-only application cannot POST."}`,
			wantMessage: "Read-only application cannot POST.",
		},
		{
			name:        "problem title and detail",
			status:      http.StatusUnauthorized,
			body:        `{"title":"Unauthorized","type":"about:blank","status":401,"detail":"Unauthorized"}`,
			wantMessage: "Unauthorized: Unauthorized",
		},
		{
			name:        "detail only",
			status:      http.StatusConflict,
			body:        `{"detail":"already exists"}`,
			wantMessage: "already exists",
		},
		{
			name:        "unparsable body",
			status:      http.StatusBadGateway,
			body:        "<html>bad gateway</html>",
			wantMessage: "<html>bad gateway</html>",
		},
		{
			name:        "empty body",
			status:      http.StatusServiceUnavailable,
			body:        "",
			wantMessage: "Service Unavailable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := newAPIError(tt.status, []byte(tt.body))
			assert.Equal(t, tt.status, err.StatusCode)
			assert.Equal(t, tt.wantMessage, err.Message)
			assert.Len(t, err.Errors, tt.wantErrors)
			assert.Equal(t, tt.body, err.Body)
			assert.Contains(t, err.Error(), fmt.Sprintf("status %d", tt.status))
		})
	}
}

func TestAPIErrorIs(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusBadRequest, ErrBadRequest},
		{http.StatusUnauthorized, ErrUnauthorized},
		{http.StatusForbidden, ErrForbidden},
		{http.StatusNotFound, ErrNotFound},
		{http.StatusConflict, ErrConflict},
		{http.StatusTooManyRequests, ErrTooManyRequests},
		{http.StatusRequestHeaderFieldsTooLarge, ErrFieldsTooLarge},
		{http.StatusInternalServerError, ErrServer},
		{http.StatusServiceUnavailable, ErrServer},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			err := fmt.Errorf("wrapped: %w", &APIError{StatusCode: tt.status})
			assert.ErrorIs(t, err, tt.want)
			assert.NotErrorIs(t, err, ErrMissingCredentials)
		})
	}

	t.Run("unmapped status", func(t *testing.T) {
		err := &APIError{StatusCode: http.StatusTeapot}
		assert.NotErrorIs(t, err, ErrBadRequest)
		assert.NotErrorIs(t, err, ErrServer)
	})

	t.Run("helpers", func(t *testing.T) {
		notFound := &APIError{StatusCode: http.StatusNotFound}
		assert.True(t, notFound.IsNotFound())
		assert.True(t, IsNotFound(notFound))
		assert.False(t, notFound.IsUnauthorized())

		forbidden := &APIError{StatusCode: http.StatusForbidden}
		assert.True(t, forbidden.IsUnauthorized())
		assert.True(t, IsUnauthorized(forbidden))

		limited := &APIError{StatusCode: http.StatusTooManyRequests}
		assert.True(t, limited.IsRateLimited())
		assert.True(t, IsRateLimited(limited))
	})
}

func TestResourceErrors(t *testing.T) {
	tests := []struct {
		name     string
		problem  Problem
		want     error
		notFound bool
	}{
		{
			name: "not found",
			problem: Problem{
				Type:         "https://api.twitter.com/2/problems/resource-not-found",
				Title:        "Not Found Error",
				Detail:       "Could not find tweet with id: [1].",
				Value:        "1",
				ResourceType: "tweet",
				Parameter:    "id",
			},
			want:     ErrResourceNotFound,
			notFound: true,
		},
		{
			name: "not authorized",
			problem: Problem{
				Type:  "https://api.twitter.com/2/problems/not-authorized-for-resource",
				Title: "Authorization Error",
			},
			want: ErrUnauthorizedForResource,
		},
		{
			name: "disallowed",
			problem: Problem{
				Type:  "https://api.twitter.com/2/problems/disallowed-resource",
				Title: "Forbidden",
			},
			want: ErrDisallowedResource,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(t, w, map[string]any{"errors": []Problem{tt.problem}})
			})
			client := newTestClient(t, srv, appCreds)

			_, err := client.Tweet(context.Background(), "1")
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, tt.notFound, IsNotFound(err))

			var resErr *ResourceError
			require.True(t, errors.As(err, &resErr))
			assert.Equal(t, tt.problem.Title, resErr.Title)
			assert.Equal(t, tt.problem.ResourceType, resErr.ResourceType)
		})
	}
}
