package twitter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const oembedPath = "/oembed"

// Bounds of EmbedOptions.MaxWidth.
const (
	MinEmbedWidth = 220
	MaxEmbedWidth = 550
)

// EmbedOptions tune the markup returned by Embed. Zero values use the
// publisher defaults.
type EmbedOptions struct {
	MaxWidth   int
	HideMedia  bool
	HideThread bool
	OmitScript bool
	// Align is left, right, center or none.
	Align string
	Lang  string
	// Theme is light or dark.
	Theme string
	// DoNotTrack keeps the embed out of personalization.
	DoNotTrack bool
}

// Validate checks the options against the values the publisher accepts.
func (o EmbedOptions) Validate() error {
	if o.MaxWidth != 0 && (o.MaxWidth < MinEmbedWidth || o.MaxWidth > MaxEmbedWidth) {
		return fmt.Errorf("%w: max width must be %d to %d, got %d", ErrInvalidEmbed, MinEmbedWidth, MaxEmbedWidth, o.MaxWidth)
	}
	switch o.Align {
	case "", "left", "right", "center", "none":
	default:
		return fmt.Errorf("%w: unknown align %q", ErrInvalidEmbed, o.Align)
	}
	switch o.Theme {
	case "", "light", "dark":
	default:
		return fmt.Errorf("%w: unknown theme %q", ErrInvalidEmbed, o.Theme)
	}
	return nil
}

func (o EmbedOptions) query(tweetURL string) url.Values {
	q := url.Values{"url": {tweetURL}}
	if o.MaxWidth != 0 {
		q.Set("maxwidth", strconv.Itoa(o.MaxWidth))
	}
	setTrue := func(key string, v bool) {
		if v {
			q.Set(key, "true")
		}
	}
	setTrue("hide_media", o.HideMedia)
	setTrue("hide_thread", o.HideThread)
	setTrue("omit_script", o.OmitScript)
	setTrue("dnt", o.DoNotTrack)
	if o.Align != "" {
		q.Set("align", o.Align)
	}
	if o.Lang != "" {
		q.Set("lang", o.Lang)
	}
	if o.Theme != "" {
		q.Set("theme", o.Theme)
	}
	return q
}

// Embed is the oEmbed representation of a tweet.
type Embed struct {
	URL          string `json:"url"`
	AuthorName   string `json:"author_name"`
	AuthorURL    string `json:"author_url"`
	HTML         string `json:"html"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	Type         string `json:"type"`
	ProviderName string `json:"provider_name"`
	ProviderURL  string `json:"provider_url"`
	Version      string `json:"version"`
	// CacheAge is sent as a string of seconds.
	CacheAge json.Number `json:"cache_age"`
}

// CacheFor returns how long the markup may be cached.
func (e Embed) CacheFor() time.Duration {
	secs, err := e.CacheAge.Int64()
	if err != nil {
		return 0
	}
	return time.Duration(secs) * time.Second
}

// Embed returns embeddable markup for a tweet URL, or for a bare tweet id.
func (c *Client) Embed(ctx context.Context, tweet string, opts EmbedOptions) (*Embed, error) {
	tweet = strings.TrimSpace(tweet)
	if tweet == "" {
		return nil, fmt.Errorf("%w: tweet url is required", ErrInvalidEmbed)
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if isNumeric(tweet) {
		tweet = "https://twitter.com/i/status/" + tweet
	}

	var out Embed
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   oembedPath,
		query:  opts.query(tweet),
		host:   c.publishURL,
	}, &out)
	if err != nil {
		return nil, fmt.Errorf("failed to embed %s: %w", tweet, err)
	}
	return &out, nil
}
