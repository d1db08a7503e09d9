package twitter

import (
	"context"
	"fmt"
	"net/http"
)

// List returns a list by id with its owner resolved.
func (c *Client) List(ctx context.Context, id string) (*List, error) {
	resp, err := getV2[List](ctx, c, request{
		method: http.MethodGet,
		path:   apiPath("/2/lists", id),
		query:  listQuery(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get list %s: %w", id, err)
	}

	list := resp.Data
	newIncludeIndex(&resp.Includes).list(&list)
	return &list, nil
}

// OwnedLists pages through the lists a user owns.
func (c *Client) OwnedLists(ctx context.Context, userID string) (*Paginator[List], error) {
	q := listQuery()
	q.Set("max_results", "100")
	r := request{method: http.MethodGet, path: apiPath("/2/users", userID, "owned_lists"), query: q}
	return newPaginator(ctx, v2Fetcher(c, r, paramPaginationToken, resolveLists))
}

// ListTweets pages through the tweets of a list's members.
func (c *Client) ListTweets(ctx context.Context, id string) (*Paginator[Tweet], error) {
	q := tweetQuery()
	q.Set("max_results", "100")
	return c.tweetPages(ctx, apiPath("/2/lists", id, "tweets"), q, paramPaginationToken, false)
}

// ListMembers pages through a list's members.
func (c *Client) ListMembers(ctx context.Context, id string) (*Paginator[User], error) {
	return c.userPages(ctx, apiPath("/2/lists", id, "members"), false)
}

// CreateList creates a list owned by the authenticated user.
func (c *Client) CreateList(ctx context.Context, name, description string, private bool) (*List, error) {
	if name == "" {
		return nil, fmt.Errorf("list name is required")
	}

	body := struct {
		Name        string `json:"name"`
		Description string `json:"description,omitempty"`
		Private     bool   `json:"private"`
	}{name, description, private}

	var out response[List]
	err := c.do(ctx, request{
		method:      http.MethodPost,
		path:        "/2/lists",
		body:        body,
		userContext: true,
	}, &out)
	if err != nil {
		return nil, fmt.Errorf("failed to create list %q: %w", name, err)
	}

	list := out.Data
	list.Description = description
	list.Private = private
	return &list, nil
}

// DeleteList deletes a list owned by the authenticated user.
func (c *Client) DeleteList(ctx context.Context, id string) error {
	err := c.do(ctx, request{
		method:      http.MethodDelete,
		path:        apiPath("/2/lists", id),
		userContext: true,
	}, nil)
	if err != nil {
		return fmt.Errorf("failed to delete list %s: %w", id, err)
	}
	return nil
}

// AddListMember adds a user to a list.
func (c *Client) AddListMember(ctx context.Context, listID, userID string) error {
	err := c.do(ctx, request{
		method:      http.MethodPost,
		path:        apiPath("/2/lists", listID, "members"),
		body:        map[string]string{"user_id": userID},
		userContext: true,
	}, nil)
	if err != nil {
		return fmt.Errorf("failed to add %s to list %s: %w", userID, listID, err)
	}
	return nil
}

// RemoveListMember removes a user from a list.
func (c *Client) RemoveListMember(ctx context.Context, listID, userID string) error {
	err := c.do(ctx, request{
		method:      http.MethodDelete,
		path:        apiPath("/2/lists", listID, "members", userID),
		userContext: true,
	}, nil)
	if err != nil {
		return fmt.Errorf("failed to remove %s from list %s: %w", userID, listID, err)
	}
	return nil
}
