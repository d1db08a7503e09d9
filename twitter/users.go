package twitter

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// UserCacheKey is the cache key user lookups are stored under.
func UserCacheKey(id string) string { return "user:" + id }

// Me returns the authenticated user.
func (c *Client) Me(ctx context.Context) (*User, error) {
	resp, err := getV2[User](ctx, c, request{
		method:      http.MethodGet,
		path:        "/2/users/me",
		query:       userQuery(),
		userContext: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get authenticated user: %w", err)
	}

	user := resp.Data
	newIncludeIndex(&resp.Includes).user(&user)
	return &user, nil
}

// User returns a user by id, reading through the cache when one is set.
func (c *Client) User(ctx context.Context, id string) (*User, error) {
	var cached User
	if ok, err := c.cache.Get(ctx, UserCacheKey(id), &cached); err != nil {
		c.logger.Warn().Err(err).Str("user_id", id).Msg("Cache read failed")
	} else if ok {
		return &cached, nil
	}

	resp, err := getV2[User](ctx, c, request{
		method: http.MethodGet,
		path:   apiPath("/2/users", id),
		query:  userQuery(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get user %s: %w", id, err)
	}

	user := resp.Data
	newIncludeIndex(&resp.Includes).user(&user)
	c.cacheUser(ctx, user)
	return &user, nil
}

// UserByUsername returns a user by handle. A leading @ is ignored.
func (c *Client) UserByUsername(ctx context.Context, username string) (*User, error) {
	username = strings.TrimPrefix(strings.TrimSpace(username), "@")
	resp, err := getV2[User](ctx, c, request{
		method: http.MethodGet,
		path:   apiPath("/2/users/by/username", username),
		query:  userQuery(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get user @%s: %w", username, err)
	}

	user := resp.Data
	newIncludeIndex(&resp.Includes).user(&user)
	c.cacheUser(ctx, user)
	return &user, nil
}

// Users looks up users by id in input order. Unknown ids are skipped.
func (c *Client) Users(ctx context.Context, ids []string) ([]User, error) {
	return batchLookup(ctx, c, ids, strings.TrimSpace,
		func(u User) string { return u.ID },
		func(ctx context.Context, chunk []string) ([]User, error) {
			q := userQuery()
			q.Set("ids", strings.Join(chunk, ","))
			return c.lookupUsers(ctx, "/2/users", q)
		})
}

// UsersByUsernames looks up users by handle in input order. Matching is
// case-insensitive and unknown handles are skipped.
func (c *Client) UsersByUsernames(ctx context.Context, usernames []string) ([]User, error) {
	normalize := func(s string) string {
		return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), "@"))
	}
	return batchLookup(ctx, c, usernames, normalize,
		func(u User) string { return u.Username },
		func(ctx context.Context, chunk []string) ([]User, error) {
			q := userQuery()
			q.Set("usernames", strings.Join(chunk, ","))
			return c.lookupUsers(ctx, "/2/users/by", q)
		})
}

func (c *Client) lookupUsers(ctx context.Context, path string, q url.Values) ([]User, error) {
	resp, err := lookupV2[User](ctx, c, request{method: http.MethodGet, path: path, query: q})
	if err != nil {
		return nil, fmt.Errorf("failed to look up users: %w", err)
	}
	resolveUsers(&resp.Includes, resp.Data)
	return resp.Data, nil
}

func (c *Client) cacheUser(ctx context.Context, u User) {
	if err := c.cache.Set(ctx, UserCacheKey(u.ID), u); err != nil {
		c.logger.Warn().Err(err).Str("user_id", u.ID).Msg("Cache write failed")
	}
}

// Followers pages through the accounts following a user.
func (c *Client) Followers(ctx context.Context, userID string) (*Paginator[User], error) {
	return c.userPages(ctx, apiPath("/2/users", userID, "followers"), false)
}

// Following pages through the accounts a user follows.
func (c *Client) Following(ctx context.Context, userID string) (*Paginator[User], error) {
	return c.userPages(ctx, apiPath("/2/users", userID, "following"), false)
}

// Blocking pages through the accounts the authenticated user blocks.
func (c *Client) Blocking(ctx context.Context, userID string) (*Paginator[User], error) {
	return c.userPages(ctx, apiPath("/2/users", userID, "blocking"), true)
}

// Muting pages through the accounts the authenticated user mutes.
func (c *Client) Muting(ctx context.Context, userID string) (*Paginator[User], error) {
	return c.userPages(ctx, apiPath("/2/users", userID, "muting"), true)
}

// Follow follows targetID as the authenticated user.
func (c *Client) Follow(ctx context.Context, targetID string) error {
	return c.userAction(ctx, http.MethodPost, "following", targetID, "target_user_id")
}

// Unfollow unfollows targetID.
func (c *Client) Unfollow(ctx context.Context, targetID string) error {
	return c.userAction(ctx, http.MethodDelete, "following", targetID, "")
}

// Block blocks targetID.
func (c *Client) Block(ctx context.Context, targetID string) error {
	return c.userAction(ctx, http.MethodPost, "blocking", targetID, "target_user_id")
}

// Unblock unblocks targetID.
func (c *Client) Unblock(ctx context.Context, targetID string) error {
	return c.userAction(ctx, http.MethodDelete, "blocking", targetID, "")
}

// Mute mutes targetID.
func (c *Client) Mute(ctx context.Context, targetID string) error {
	return c.userAction(ctx, http.MethodPost, "muting", targetID, "target_user_id")
}

// Unmute unmutes targetID.
func (c *Client) Unmute(ctx context.Context, targetID string) error {
	return c.userAction(ctx, http.MethodDelete, "muting", targetID, "")
}

// userAction runs a relationship endpoint of the authenticated user. POST
// sends the target in the body under bodyKey; DELETE puts it in the path.
func (c *Client) userAction(ctx context.Context, method, relation, targetID, bodyKey string) error {
	me, err := c.authenticatedUserID(ctx)
	if err != nil {
		return err
	}

	r := request{method: method, userContext: true}
	if method == http.MethodPost {
		r.path = apiPath("/2/users", me, relation)
		r.body = map[string]string{bodyKey: targetID}
	} else {
		r.path = apiPath("/2/users", me, relation, targetID)
	}

	if err := c.do(ctx, r, nil); err != nil {
		return fmt.Errorf("failed to update %s for %s: %w", relation, targetID, err)
	}

	c.logger.Debug().
		Str("relation", relation).
		Str("method", method).
		Str("target_id", targetID).
		Msg("Updated relationship")
	return nil
}
