package twitter

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/s0up4200/chirp/cache"
)

const (
	// DefaultBaseURL is the API host for v1.1 and v2 endpoints.
	DefaultBaseURL = "https://api.twitter.com"
	// DefaultUploadURL is the host serving media uploads.
	DefaultUploadURL = "https://upload.twitter.com"
	// DefaultPublishURL is the host serving oEmbed markup.
	DefaultPublishURL = "https://publish.twitter.com"
	// Version is the library release reported in DefaultUserAgent.
	Version = "0.1.0"
	// DefaultUserAgent is sent when WithUserAgent is not used.
	DefaultUserAgent = "chirp/" + Version

	defaultTimeout          = 30 * time.Second
	defaultMaxRetries       = 2
	defaultRetryWaitMin     = 1 * time.Second
	defaultRetryWaitMax     = 30 * time.Second
	defaultBatchConcurrency = 4
)

// Option configures a Client.
type Option func(*clientOptions)

// clientOptions holds configuration options for the Client.
type clientOptions struct {
	baseURL          string
	uploadURL        string
	publishURL       string
	timeout          time.Duration
	httpClient       *http.Client
	maxRetries       int
	retryWaitMin     time.Duration
	retryWaitMax     time.Duration
	waitOnRateLimit  bool
	userAgent        string
	logger           *zerolog.Logger
	cache            cache.Cache
	batchConcurrency int
}

func defaultOptions() clientOptions {
	return clientOptions{
		baseURL:          DefaultBaseURL,
		uploadURL:        DefaultUploadURL,
		publishURL:       DefaultPublishURL,
		timeout:          defaultTimeout,
		maxRetries:       defaultMaxRetries,
		retryWaitMin:     defaultRetryWaitMin,
		retryWaitMax:     defaultRetryWaitMax,
		userAgent:        DefaultUserAgent,
		batchConcurrency: defaultBatchConcurrency,
	}
}

// WithBaseURL overrides the API host. A trailing slash is removed.
func WithBaseURL(baseURL string) Option {
	return func(o *clientOptions) {
		if baseURL != "" {
			o.baseURL = baseURL
		}
	}
}

// WithUploadURL overrides the media upload host.
func WithUploadURL(uploadURL string) Option {
	return func(o *clientOptions) {
		if uploadURL != "" {
			o.uploadURL = uploadURL
		}
	}
}

// WithPublishURL overrides the oEmbed host.
func WithPublishURL(publishURL string) Option {
	return func(o *clientOptions) {
		if publishURL != "" {
			o.publishURL = publishURL
		}
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(o *clientOptions) {
		if timeout > 0 {
			o.timeout = timeout
		}
	}
}

// WithHTTPClient sets the base HTTP client. Its transport and timeout are
// used as-is; OAuth signing wraps the transport when user credentials exist.
func WithHTTPClient(client *http.Client) Option {
	return func(o *clientOptions) {
		o.httpClient = client
	}
}

// WithMaxRetries sets the maximum number of retry attempts.
func WithMaxRetries(retries int) Option {
	return func(o *clientOptions) {
		if retries >= 0 {
			o.maxRetries = retries
		}
	}
}

// WithRetryWait sets the minimum and maximum wait between retries.
func WithRetryWait(minWait, maxWait time.Duration) Option {
	return func(o *clientOptions) {
		if minWait > 0 {
			o.retryWaitMin = minWait
		}
		if maxWait >= minWait && maxWait > 0 {
			o.retryWaitMax = maxWait
		}
	}
}

// WithWaitOnRateLimit makes the client sleep until the rate-limit window
// resets and retry, instead of returning the 429 error.
func WithWaitOnRateLimit(wait bool) Option {
	return func(o *clientOptions) {
		o.waitOnRateLimit = wait
	}
}

// WithUserAgent sets a custom user agent string.
func WithUserAgent(userAgent string) Option {
	return func(o *clientOptions) {
		if userAgent != "" {
			o.userAgent = userAgent
		}
	}
}

// WithLogger sets the logger. Without it the process-wide logger from the
// logging package is captured when the client is built.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *clientOptions) {
		o.logger = &logger
	}
}

// WithCache enables read-through caching of user and tweet lookups.
func WithCache(c cache.Cache) Option {
	return func(o *clientOptions) {
		o.cache = c
	}
}

// WithBatchConcurrency limits how many lookup chunks are fetched at once.
func WithBatchConcurrency(n int) Option {
	return func(o *clientOptions) {
		if n > 0 {
			o.batchConcurrency = n
		}
	}
}
