package twitter

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePages serves pages keyed by token and counts fetches.
type fakePages struct {
	pages map[string]struct {
		items []int
		next  string
	}
	fetches int
	err     error
}

func (f *fakePages) fetch(_ context.Context, token string) ([]int, string, error) {
	f.fetches++
	if f.err != nil && token != "" {
		return nil, "", f.err
	}
	pg := f.pages[token]
	return pg.items, pg.next, nil
}

func threePages() *fakePages {
	return &fakePages{pages: map[string]struct {
		items []int
		next  string
	}{
		"":   {items: []int{1, 2}, next: "t2"},
		"t2": {items: []int{3, 4}, next: "t3"},
		"t3": {items: []int{5}},
	}}
}

func TestPaginatorNavigation(t *testing.T) {
	ctx := context.Background()
	src := threePages()

	p, err := newPaginator[int](ctx, src.fetch)
	require.NoError(t, err)
	assert.Equal(t, 1, p.PageNumber())
	assert.Equal(t, []int{1, 2}, p.Content())
	assert.True(t, p.HasNext())
	assert.False(t, p.HasPrevious())

	require.NoError(t, p.NextPage(ctx))
	require.NoError(t, p.NextPage(ctx))
	assert.Equal(t, 3, p.PageNumber())
	assert.Equal(t, []int{5}, p.Content())
	assert.False(t, p.HasNext())
	assert.Equal(t, 3, src.fetches)

	err = p.NextPage(ctx)
	assert.ErrorIs(t, err, ErrNoPageAvailable)
	assert.Equal(t, 3, p.PageNumber())

	require.NoError(t, p.PreviousPage(ctx))
	require.NoError(t, p.PreviousPage(ctx))
	assert.Equal(t, []int{1, 2}, p.Content())
	assert.ErrorIs(t, p.PreviousPage(ctx), ErrNoPageAvailable)
	assert.Equal(t, 1, p.PageNumber())

	// Cached pages are served without fetching again.
	require.NoError(t, p.NextPage(ctx))
	assert.Equal(t, []int{3, 4}, p.Content())
	assert.Equal(t, 3, src.fetches)

	assert.Equal(t, [][]int{{1, 2}, {3, 4}, {5}}, p.Pages())

	content, ok := p.PageContent(3)
	assert.True(t, ok)
	assert.Equal(t, []int{5}, content)
	_, ok = p.PageContent(4)
	assert.False(t, ok)
}

func TestPaginatorEmptyNextPage(t *testing.T) {
	ctx := context.Background()
	src := &fakePages{pages: map[string]struct {
		items []int
		next  string
	}{
		"":      {items: []int{1}, next: "empty"},
		"empty": {},
	}}

	p, err := newPaginator[int](ctx, src.fetch)
	require.NoError(t, err)
	assert.True(t, p.HasNext())

	assert.ErrorIs(t, p.NextPage(ctx), ErrNoPageAvailable)
	assert.Equal(t, 1, p.PageNumber())
	assert.Equal(t, []int{1}, p.Content())
	assert.False(t, p.HasNext())
}

func TestPaginatorFetchError(t *testing.T) {
	ctx := context.Background()
	src := threePages()
	src.err = errors.New("boom")

	p, err := newPaginator[int](ctx, src.fetch)
	require.NoError(t, err)

	err = p.NextPage(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
	assert.Equal(t, 1, p.PageNumber())
	assert.True(t, p.HasNext())
}

func TestPaginatorAll(t *testing.T) {
	ctx := context.Background()

	t.Run("every page", func(t *testing.T) {
		p, err := newPaginator[int](ctx, threePages().fetch)
		require.NoError(t, err)

		all, err := p.All(ctx, 0)
		require.NoError(t, err)
		assert.Equal(t, []int{1, 2, 3, 4, 5}, all)
		assert.Equal(t, 1, p.PageNumber())
	})

	t.Run("bounded", func(t *testing.T) {
		src := threePages()
		p, err := newPaginator[int](ctx, src.fetch)
		require.NoError(t, err)

		all, err := p.All(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, []int{1, 2, 3, 4}, all)
		assert.Equal(t, 2, src.fetches)
	})
}

func TestFollowersPagination(t *testing.T) {
	var hits atomic.Int32
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, "/2/users/42/followers", r.URL.Path)
		assert.Equal(t, "100", r.URL.Query().Get("max_results"))
		assert.Equal(t, UserFields, r.URL.Query().Get("user.fields"))

		switch r.URL.Query().Get(paramPaginationToken) {
		case "":
			writeJSON(t, w, map[string]any{
				"data": []map[string]any{{"id": "1", "username": "a"}, {"id": "2", "username": "b"}},
				"meta": map[string]any{"result_count": 2, "next_token": "NEXT"},
			})
		case "NEXT":
			writeJSON(t, w, map[string]any{
				"data": []map[string]any{{"id": "3", "username": "c"}},
				"meta": map[string]any{"result_count": 1, "previous_token": "PREV"},
			})
		default:
			t.Errorf("unexpected token %q", r.URL.Query().Get(paramPaginationToken))
		}
	})
	client := newTestClient(t, srv, appCreds)
	ctx := context.Background()

	p, err := client.Followers(ctx, "42")
	require.NoError(t, err)
	require.Len(t, p.Content(), 2)

	require.NoError(t, p.NextPage(ctx))
	require.Len(t, p.Content(), 1)
	assert.Equal(t, "c", p.Content()[0].Username)
	assert.False(t, p.HasNext())

	require.NoError(t, p.PreviousPage(ctx))
	assert.Equal(t, "a", p.Content()[0].Username)
	assert.Equal(t, int32(2), hits.Load())
}

func TestSearchRecentUsesNextToken(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/2/tweets/search/recent", r.URL.Path)
		assert.Equal(t, "golang -is:retweet", r.URL.Query().Get("query"))
		assert.Empty(t, r.URL.Query().Get(paramPaginationToken))

		if r.URL.Query().Get(paramNextToken) == "" {
			writeJSON(t, w, map[string]any{
				"data": []map[string]any{{"id": "1", "text": "first"}},
				"meta": map[string]any{"next_token": "abc"},
			})
			return
		}
		assert.Equal(t, "abc", r.URL.Query().Get(paramNextToken))
		writeJSON(t, w, map[string]any{"meta": map[string]any{"result_count": 0}})
	})
	client := newTestClient(t, srv, appCreds)
	ctx := context.Background()

	p, err := client.SearchRecent(ctx, "golang -is:retweet")
	require.NoError(t, err)
	assert.Equal(t, "first", p.Content()[0].Text)
	assert.ErrorIs(t, p.NextPage(ctx), ErrNoPageAvailable)
}
