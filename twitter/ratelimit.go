package twitter

import (
	"net/http"
	"strconv"
	"time"
)

const (
	headerRateLimit     = "x-rate-limit-limit"
	headerRateRemaining = "x-rate-limit-remaining"
	headerRateReset     = "x-rate-limit-reset"
)

// RateLimit is the rate-limit window reported by the last response of an endpoint.
type RateLimit struct {
	Limit     int
	Remaining int
	Reset     time.Time
}

// Exhausted reports whether no requests remain before Reset.
func (r RateLimit) Exhausted() bool {
	return r.Limit > 0 && r.Remaining == 0
}

// parseRateLimit reads the x-rate-limit-* headers. ok is false when the
// response carries none of them.
func parseRateLimit(h http.Header) (rl RateLimit, ok bool) {
	if v := h.Get(headerRateLimit); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			rl.Limit = n
			ok = true
		}
	}
	if v := h.Get(headerRateRemaining); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			rl.Remaining = n
			ok = true
		}
	}
	if v := h.Get(headerRateReset); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			rl.Reset = time.Unix(n, 0)
			ok = true
		}
	}
	return rl, ok
}

func rateLimitKey(method, path string) string {
	return method + " " + path
}

func (c *Client) storeRateLimit(method, path string, rl RateLimit) {
	c.rateMu.Lock()
	defer c.rateMu.Unlock()
	c.rateLimits[rateLimitKey(method, path)] = rl
}

// RateLimit returns the last rate-limit window seen for an endpoint, for
// example RateLimit("GET", "/2/users/me").
func (c *Client) RateLimit(method, path string) (RateLimit, bool) {
	c.rateMu.RLock()
	defer c.rateMu.RUnlock()
	rl, ok := c.rateLimits[rateLimitKey(method, path)]
	return rl, ok
}
