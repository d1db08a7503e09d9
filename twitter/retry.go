package twitter

import (
	"context"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog"
)

const headerRequestID = "X-Request-Id"

// newRetryClient wires the retry policy around the given HTTP client.
func (c *Client) newRetryClient(httpClient *http.Client, opts clientOptions) *retryablehttp.Client {
	rc := retryablehttp.NewClient()
	rc.HTTPClient = httpClient
	rc.RetryMax = opts.maxRetries
	rc.RetryWaitMin = opts.retryWaitMin
	rc.RetryWaitMax = opts.retryWaitMax
	rc.Logger = leveledLogger{c.logger}
	rc.CheckRetry = c.checkRetry
	rc.Backoff = c.backoff
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler
	rc.RequestLogHook = c.logRetry
	return rc
}

// checkRetry retries network errors and 5xx responses. A 429 is retried only
// when the client waits on rate limits.
func (c *Client) checkRetry(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if resp != nil && resp.StatusCode == http.StatusTooManyRequests && !c.waitOnRateLimit {
		return false, nil
	}
	return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
}

// backoff waits for the rate-limit reset on 429, bounded by the retry wait
// limits, and otherwise defers to the exponential default.
func (c *Client) backoff(minWait, maxWait time.Duration, attempt int, resp *http.Response) time.Duration {
	if resp != nil && resp.StatusCode == http.StatusTooManyRequests {
		if rl, ok := parseRateLimit(resp.Header); ok && !rl.Reset.IsZero() {
			wait := time.Until(rl.Reset)
			if wait < minWait {
				wait = minWait
			}
			if wait > maxWait {
				wait = maxWait
			}
			c.logger.Warn().
				Str("path", resp.Request.URL.Path).
				Time("reset", rl.Reset).
				Dur("wait", wait).
				Msg("Rate limited, waiting for reset")
			return wait
		}
	}
	return retryablehttp.DefaultBackoff(minWait, maxWait, attempt, resp)
}

func (c *Client) logRetry(_ retryablehttp.Logger, req *http.Request, attempt int) {
	if attempt == 0 {
		return
	}
	c.logger.Warn().
		Str("request_id", req.Header.Get(headerRequestID)).
		Str("method", req.Method).
		Str("path", req.URL.Path).
		Int("attempt", attempt).
		Msg("Retrying request")
}

// leveledLogger adapts zerolog to retryablehttp. Its own debug chatter goes
// to trace since the client already logs each request at debug.
type leveledLogger struct {
	logger zerolog.Logger
}

func (l leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	l.logger.Error().Fields(keysAndValues).Msg(msg)
}

func (l leveledLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Info().Fields(keysAndValues).Msg(msg)
}

func (l leveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.logger.Trace().Fields(keysAndValues).Msg(msg)
}

func (l leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.logger.Warn().Fields(keysAndValues).Msg(msg)
}
