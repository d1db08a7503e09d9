package twitter

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
)

// pageFetcher loads the page identified by token. The first page uses the
// empty token. next is empty on the last page.
type pageFetcher[T any] func(ctx context.Context, token string) (items []T, next string, err error)

type page[T any] struct {
	items []T
	next  string
}

// Paginator walks a paginated endpoint one page at a time. Pages are cached
// by number so moving back, or forward again, never repeats a request.
// A Paginator is not safe for concurrent use.
type Paginator[T any] struct {
	fetch   pageFetcher[T]
	pages   map[int]page[T]
	current int
}

// newPaginator creates a paginator with the first page already loaded.
func newPaginator[T any](ctx context.Context, fetch pageFetcher[T]) (*Paginator[T], error) {
	items, next, err := fetch(ctx, "")
	if err != nil {
		return nil, err
	}
	return &Paginator[T]{
		fetch:   fetch,
		pages:   map[int]page[T]{1: {items: items, next: next}},
		current: 1,
	}, nil
}

// Content returns the items of the current page.
func (p *Paginator[T]) Content() []T {
	return p.pages[p.current].items
}

// PageNumber returns the current page number, starting at 1.
func (p *Paginator[T]) PageNumber() int {
	return p.current
}

// HasNext reports whether a page follows the current one.
func (p *Paginator[T]) HasNext() bool {
	if _, ok := p.pages[p.current+1]; ok {
		return true
	}
	return p.pages[p.current].next != ""
}

// HasPrevious reports whether a page precedes the current one.
func (p *Paginator[T]) HasPrevious() bool {
	return p.current > 1
}

// NextPage moves to the following page, fetching it if it is not cached.
// At the end it returns ErrNoPageAvailable and stays on the current page.
func (p *Paginator[T]) NextPage(ctx context.Context) error {
	if err := p.load(ctx, p.current+1); err != nil {
		return err
	}
	p.current++
	return nil
}

// PreviousPage moves back one page. Earlier pages are always cached.
func (p *Paginator[T]) PreviousPage(_ context.Context) error {
	if p.current <= 1 {
		return ErrNoPageAvailable
	}
	p.current--
	return nil
}

// PageContent returns the items of a cached page.
func (p *Paginator[T]) PageContent(n int) ([]T, bool) {
	pg, ok := p.pages[n]
	return pg.items, ok
}

// Pages returns every cached page in page-number order.
func (p *Paginator[T]) Pages() [][]T {
	out := make([][]T, 0, len(p.pages))
	for n := 1; ; n++ {
		pg, ok := p.pages[n]
		if !ok {
			return out
		}
		out = append(out, pg.items)
	}
}

// All returns the items of every page from the first, fetching missing pages.
// maxPages bounds the walk; zero or less means no bound. The current page is
// not changed.
func (p *Paginator[T]) All(ctx context.Context, maxPages int) ([]T, error) {
	var all []T
	for n := 1; maxPages <= 0 || n <= maxPages; n++ {
		if err := p.load(ctx, n); err != nil {
			if errors.Is(err, ErrNoPageAvailable) {
				break
			}
			return all, err
		}
		all = append(all, p.pages[n].items...)
	}
	return all, nil
}

// load ensures page n is cached. Page n-1 must already be cached.
func (p *Paginator[T]) load(ctx context.Context, n int) error {
	if _, ok := p.pages[n]; ok {
		return nil
	}
	prev, ok := p.pages[n-1]
	if !ok || prev.next == "" {
		return ErrNoPageAvailable
	}

	items, next, err := p.fetch(ctx, prev.next)
	if err != nil {
		return fmt.Errorf("fetch page %d: %w", n, err)
	}
	if len(items) == 0 {
		// Drop the token so HasNext stops reporting a page that is empty.
		prev.next = ""
		p.pages[n-1] = prev
		return ErrNoPageAvailable
	}
	p.pages[n] = page[T]{items: items, next: next}
	return nil
}

// v2 list endpoints use pagination_token; search uses next_token.
const (
	paramPaginationToken = "pagination_token"
	paramNextToken       = "next_token"
)

// v2Fetcher builds a pageFetcher over a v2 list endpoint. resolve, when set,
// attaches includes to each page.
func v2Fetcher[T any](c *Client, r request, tokenParam string, resolve func(*Includes, []T)) pageFetcher[T] {
	return func(ctx context.Context, token string) ([]T, string, error) {
		pr := r
		pr.query = cloneValues(r.query)
		if token != "" {
			pr.query.Set(tokenParam, token)
		}
		resp, err := getV2[[]T](ctx, c, pr)
		if err != nil {
			return nil, "", err
		}
		if resolve != nil {
			resolve(&resp.Includes, resp.Data)
		}
		return resp.Data, resp.Meta.NextToken, nil
	}
}

func cloneValues(v url.Values) url.Values {
	out := make(url.Values, len(v))
	for k, vals := range v {
		out[k] = append([]string(nil), vals...)
	}
	return out
}

func (c *Client) userPages(ctx context.Context, path string, userContext bool) (*Paginator[User], error) {
	q := userQuery()
	q.Set("max_results", "100")
	r := request{method: http.MethodGet, path: path, query: q, userContext: userContext}
	return newPaginator(ctx, v2Fetcher(c, r, paramPaginationToken, resolveUsers))
}

func (c *Client) tweetPages(ctx context.Context, path string, q url.Values, tokenParam string, userContext bool) (*Paginator[Tweet], error) {
	r := request{method: http.MethodGet, path: path, query: q, userContext: userContext}
	return newPaginator(ctx, v2Fetcher(c, r, tokenParam, resolveTweets))
}
