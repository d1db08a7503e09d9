package twitter

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// Space returns a space by id with creator and topics resolved.
func (c *Client) Space(ctx context.Context, id string) (*Space, error) {
	resp, err := getV2[Space](ctx, c, request{
		method: http.MethodGet,
		path:   apiPath("/2/spaces", id),
		query:  spaceQuery(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get space %s: %w", id, err)
	}

	space := resp.Data
	newIncludeIndex(&resp.Includes).space(&space)
	return &space, nil
}

// Spaces looks up spaces by id in input order.
func (c *Client) Spaces(ctx context.Context, ids []string) ([]Space, error) {
	return batchLookup(ctx, c, ids, strings.TrimSpace,
		func(s Space) string { return s.ID },
		func(ctx context.Context, chunk []string) ([]Space, error) {
			q := spaceQuery()
			q.Set("ids", strings.Join(chunk, ","))
			return c.listSpaces(ctx, "/2/spaces", q)
		})
}

// SpacesByCreators returns the live and scheduled spaces created by the
// given users.
func (c *Client) SpacesByCreators(ctx context.Context, userIDs []string) ([]Space, error) {
	var out []Space
	for _, ch := range chunk(dedupe(userIDs, strings.TrimSpace), maxLookupIDs) {
		q := spaceQuery()
		q.Set("user_ids", strings.Join(ch, ","))
		spaces, err := c.listSpaces(ctx, "/2/spaces/by/creator_ids", q)
		if err != nil {
			return nil, err
		}
		out = append(out, spaces...)
	}
	return out, nil
}

// SearchSpaces finds spaces whose title matches query. An empty state
// searches all states.
func (c *Client) SearchSpaces(ctx context.Context, query string, state SpaceState) ([]Space, error) {
	q := spaceQuery()
	q.Set("query", query)
	if state == "" {
		q.Set("state", "all")
	} else {
		if _, err := ParseSpaceState(string(state)); err != nil {
			return nil, err
		}
		q.Set("state", string(state))
	}
	return c.listSpaces(ctx, "/2/spaces/search", q)
}

// SpaceBuyers returns the users who bought a ticket to a space.
func (c *Client) SpaceBuyers(ctx context.Context, id string) ([]User, error) {
	resp, err := getV2[[]User](ctx, c, request{
		method:      http.MethodGet,
		path:        apiPath("/2/spaces", id, "buyers"),
		query:       userQuery(),
		userContext: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get buyers of space %s: %w", id, err)
	}
	resolveUsers(&resp.Includes, resp.Data)
	return resp.Data, nil
}

// SpaceTweets returns the tweets shared in a space.
func (c *Client) SpaceTweets(ctx context.Context, id string) ([]Tweet, error) {
	resp, err := getV2[[]Tweet](ctx, c, request{
		method: http.MethodGet,
		path:   apiPath("/2/spaces", id, "tweets"),
		query:  tweetQuery(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get tweets of space %s: %w", id, err)
	}
	resolveTweets(&resp.Includes, resp.Data)
	return resp.Data, nil
}

func (c *Client) listSpaces(ctx context.Context, path string, q url.Values) ([]Space, error) {
	resp, err := lookupV2[Space](ctx, c, request{method: http.MethodGet, path: path, query: q})
	if err != nil {
		return nil, fmt.Errorf("failed to look up spaces: %w", err)
	}
	resolveSpaces(&resp.Includes, resp.Data)
	return resp.Data, nil
}
