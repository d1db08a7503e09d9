package twitter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/dghubble/oauth1"
	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog"

	"github.com/s0up4200/chirp/cache"
	"github.com/s0up4200/chirp/logging"
)

// Credentials authenticate the client. A bearer token gives app-only access;
// the four OAuth 1.0a values give user context, which posting, likes,
// follows and direct messages require.
type Credentials struct {
	BearerToken       string
	ConsumerKey       string
	ConsumerSecret    string
	AccessToken       string
	AccessTokenSecret string
}

// HasUserContext reports whether all OAuth 1.0a values are present.
func (c Credentials) HasUserContext() bool {
	return c.ConsumerKey != "" && c.ConsumerSecret != "" &&
		c.AccessToken != "" && c.AccessTokenSecret != ""
}

// Client represents a Twitter API client
type Client struct {
	baseURL          string
	uploadURL        string
	publishURL       string
	creds            Credentials
	userAgent        string
	httpClient       *retryablehttp.Client
	logger           zerolog.Logger
	cache            cache.Cache
	batchConcurrency int
	waitOnRateLimit  bool

	rateMu     sync.RWMutex
	rateLimits map[string]RateLimit

	meMu sync.Mutex
	meID string
}

// NewClient creates a new Twitter client. It does not contact the API; use
// Ping to check the credentials.
func NewClient(creds Credentials, opts ...Option) (*Client, error) {
	if creds.BearerToken == "" && !creds.HasUserContext() {
		return nil, fmt.Errorf("bearer token or OAuth 1.0a user credentials are required: %w", ErrMissingCredentials)
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	logger := logging.Logger()
	if o.logger != nil {
		logger = *o.logger
	}

	c := &Client{
		baseURL:          strings.TrimSuffix(o.baseURL, "/"),
		uploadURL:        strings.TrimSuffix(o.uploadURL, "/"),
		publishURL:       strings.TrimSuffix(o.publishURL, "/"),
		creds:            creds,
		userAgent:        o.userAgent,
		logger:           logger,
		cache:            o.cache,
		batchConcurrency: o.batchConcurrency,
		waitOnRateLimit:  o.waitOnRateLimit,
		rateLimits:       make(map[string]RateLimit),
	}
	if c.cache == nil {
		c.cache = cache.Nop{}
	}

	base := o.httpClient
	if base == nil {
		base = &http.Client{Timeout: o.timeout}
	}
	if creds.HasUserContext() {
		base = signingClient(base, creds)
	}
	c.httpClient = c.newRetryClient(base, o)

	return c, nil
}

// signingClient wraps base so every request carries an OAuth 1.0a signature.
func signingClient(base *http.Client, creds Credentials) *http.Client {
	config := oauth1.NewConfig(creds.ConsumerKey, creds.ConsumerSecret)
	token := oauth1.NewToken(creds.AccessToken, creds.AccessTokenSecret)
	ctx := context.WithValue(context.Background(), oauth1.HTTPClient, base)

	signed := config.Client(ctx, token)
	signed.Timeout = base.Timeout
	return signed
}

// apiPath appends each segment to prefix, escaped so that a caller supplied
// id cannot leave its path segment.
func apiPath(prefix string, segments ...string) string {
	var sb strings.Builder
	sb.WriteString(prefix)
	for _, seg := range segments {
		sb.WriteByte('/')
		sb.WriteString(url.PathEscape(seg))
	}
	return sb.String()
}

// request describes one API call. path includes the version prefix and host
// overrides the base URL.
type request struct {
	method      string
	path        string
	query       url.Values
	body        any
	rawBody     []byte
	contentType string
	host        string
	userContext bool
}

// do performs the request and decodes a 2xx JSON body into out.
func (c *Client) do(ctx context.Context, r request, out any) error {
	if r.userContext && !c.creds.HasUserContext() {
		return fmt.Errorf("%s %s needs user context: %w", r.method, r.path, ErrMissingCredentials)
	}

	base := c.baseURL
	if r.host != "" {
		base = r.host
	}
	endpoint := base + r.path
	if len(r.query) > 0 {
		endpoint += "?" + r.query.Encode()
	}

	var body any
	contentType := r.contentType
	switch {
	case r.rawBody != nil:
		body = r.rawBody
	case r.body != nil:
		data, err := json.Marshal(r.body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		body = data
		contentType = "application/json"
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, r.method, endpoint, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(headerRequestID, requestID)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if !c.creds.HasUserContext() {
		req.Header.Set("Authorization", "Bearer "+c.creds.BearerToken)
	}

	log := c.logger.With().
		Str("request_id", requestID).
		Str("method", r.method).
		Str("path", r.path).
		Logger()
	log.Debug().Msg("Sending request")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if resp == nil {
		if err == nil {
			err = fmt.Errorf("no response")
		}
		log.Debug().Err(err).Dur("duration", time.Since(start)).Msg("Request failed")
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	rl, hasRateLimit := parseRateLimit(resp.Header)
	if hasRateLimit {
		c.storeRateLimit(r.method, r.path, rl)
	}

	log.Debug().
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("Request finished")
	log.Trace().Bytes("body", data).Msg("Response payload")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := newAPIError(resp.StatusCode, data)
		apiErr.RateLimit = rl
		return apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// getV2 performs a v2 request and returns the decoded envelope. A response
// that carries errors but no data is turned into a ResourceError.
func getV2[T any](ctx context.Context, c *Client, r request) (*response[T], error) {
	var out response[T]
	if err := c.do(ctx, r, &out); err != nil {
		return nil, err
	}
	if !out.hasData && len(out.Errors) > 0 {
		return nil, out.Errors[0].resourceError()
	}
	return &out, nil
}

// lookupV2 is getV2 for multi-id lookups. A response whose only problems
// are unknown ids decodes to an empty result; other problems still fail.
func lookupV2[T any](ctx context.Context, c *Client, r request) (*response[[]T], error) {
	var out response[[]T]
	if err := c.do(ctx, r, &out); err != nil {
		return nil, err
	}
	if out.hasData {
		return &out, nil
	}
	for _, p := range out.Errors {
		if err := p.resourceError(); !errors.Is(err, ErrResourceNotFound) {
			return nil, err
		}
	}
	if len(out.Errors) > 0 {
		c.logger.Debug().Int("missing", len(out.Errors)).Str("path", r.path).Msg("Lookup returned no objects")
	}
	return &out, nil
}

// Ping verifies the credentials with a cheap authenticated request.
func (c *Client) Ping(ctx context.Context) error {
	if c.creds.HasUserContext() {
		_, err := c.Me(ctx)
		return err
	}

	q := url.Values{}
	q.Set("ids", "20")
	_, err := getV2[[]Tweet](ctx, c, request{method: http.MethodGet, path: "/2/tweets", query: q})
	return err
}

// authenticatedUserID returns the id of the user the access token belongs
// to. Access tokens are prefixed with "<user id>-"; when that is missing the
// id is looked up once.
func (c *Client) authenticatedUserID(ctx context.Context) (string, error) {
	if !c.creds.HasUserContext() {
		return "", fmt.Errorf("authenticated user: %w", ErrMissingCredentials)
	}

	c.meMu.Lock()
	defer c.meMu.Unlock()
	if c.meID != "" {
		return c.meID, nil
	}

	if id, _, ok := strings.Cut(c.creds.AccessToken, "-"); ok && isNumeric(id) {
		c.meID = id
		return id, nil
	}

	me, err := c.Me(ctx)
	if err != nil {
		return "", err
	}
	c.meID = me.ID
	return me.ID, nil
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
