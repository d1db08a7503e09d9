package twitter

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Trends and geo lookups are only served by v1.1.
const (
	trendsAvailablePath = "/1.1/trends/available.json"
	trendsClosestPath   = "/1.1/trends/closest.json"
	trendsPlacePath     = "/1.1/trends/place.json"
	reverseGeocodePath  = "/1.1/geo/reverse_geocode.json"
)

// WorldwideWOEID is the trend location covering the whole world.
const WorldwideWOEID int64 = 1

// Granularity is the smallest kind of place a reverse geocode returns.
type Granularity string

const (
	GranularityNeighborhood Granularity = "neighborhood"
	GranularityCity         Granularity = "city"
	GranularityAdmin        Granularity = "admin"
	GranularityCountry      Granularity = "country"
)

// ParseGranularity converts s to a Granularity.
func ParseGranularity(s string) (Granularity, error) {
	switch g := Granularity(s); g {
	case GranularityNeighborhood, GranularityCity, GranularityAdmin, GranularityCountry:
		return g, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownGranularity, s)
}

// TrendPlaceType classifies a trend location, for example Country or Town.
type TrendPlaceType struct {
	Code int    `json:"code"`
	Name string `json:"name"`
}

// TrendLocation is a place trends are reported for, keyed by its
// Where On Earth id.
type TrendLocation struct {
	WOEID       int64          `json:"woeid"`
	Name        string         `json:"name"`
	Country     string         `json:"country"`
	CountryCode string         `json:"countryCode"`
	ParentID    int64          `json:"parentid"`
	PlaceType   TrendPlaceType `json:"placeType"`
	URL         string         `json:"url"`
}

// Trend is one trending topic.
type Trend struct {
	Name            string `json:"name"`
	URL             string `json:"url"`
	Query           string `json:"query"`
	PromotedContent any    `json:"promoted_content,omitempty"`
	// TweetVolume is nil when the API has no count for the last 24 hours.
	TweetVolume *int `json:"tweet_volume"`
}

// TrendList is the set of trends for one location at one point in time.
type TrendList struct {
	Trends    []Trend `json:"trends"`
	AsOf      time.Time
	CreatedAt time.Time
	Locations []TrendLocation `json:"locations"`
}

type trendListPayload struct {
	Trends    []Trend         `json:"trends"`
	AsOf      string          `json:"as_of"`
	CreatedAt string          `json:"created_at"`
	Locations []TrendLocation `json:"locations"`
}

// TrendLocations returns every location trends are available for.
func (c *Client) TrendLocations(ctx context.Context) ([]TrendLocation, error) {
	var out []TrendLocation
	if err := c.do(ctx, request{method: http.MethodGet, path: trendsAvailablePath}, &out); err != nil {
		return nil, fmt.Errorf("failed to get trend locations: %w", err)
	}
	return out, nil
}

// ClosestTrendLocations returns the trend locations nearest to a coordinate.
func (c *Client) ClosestTrendLocations(ctx context.Context, lat, long float64) ([]TrendLocation, error) {
	q, err := coordinates(lat, long)
	if err != nil {
		return nil, err
	}

	var out []TrendLocation
	if err := c.do(ctx, request{method: http.MethodGet, path: trendsClosestPath, query: q}, &out); err != nil {
		return nil, fmt.Errorf("failed to get closest trend locations: %w", err)
	}
	return out, nil
}

// Trends returns the current trends of a location.
func (c *Client) Trends(ctx context.Context, woeid int64, excludeHashtags bool) (*TrendList, error) {
	q := url.Values{"id": {strconv.FormatInt(woeid, 10)}}
	if excludeHashtags {
		q.Set("exclude", "hashtags")
	}

	var out []trendListPayload
	if err := c.do(ctx, request{method: http.MethodGet, path: trendsPlacePath, query: q}, &out); err != nil {
		return nil, fmt.Errorf("failed to get trends for %d: %w", woeid, err)
	}
	if len(out) == 0 {
		return &TrendList{}, nil
	}

	p := out[0]
	list := &TrendList{Trends: p.Trends, Locations: p.Locations}
	list.AsOf, _ = time.Parse(time.RFC3339, p.AsOf)
	list.CreatedAt, _ = time.Parse(time.RFC3339, p.CreatedAt)
	return list, nil
}

type v1Place struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	FullName    string `json:"full_name"`
	Country     string `json:"country"`
	CountryCode string `json:"country_code"`
	PlaceType   string `json:"place_type"`
	// contained_within holds place objects in v1.1, ids in v2
	ContainedWithin []struct {
		ID string `json:"id"`
	} `json:"contained_within"`
}

func (p v1Place) toPlace() Place {
	place := Place{
		ID:          p.ID,
		Name:        p.Name,
		FullName:    p.FullName,
		Country:     p.Country,
		CountryCode: p.CountryCode,
		PlaceType:   p.PlaceType,
	}
	for _, parent := range p.ContainedWithin {
		place.ContainedWithin = append(place.ContainedWithin, parent.ID)
	}
	return place
}

// ReverseGeocode returns the places containing a coordinate, no smaller than
// granularity. An empty granularity lets the API pick its default.
func (c *Client) ReverseGeocode(ctx context.Context, lat, long float64, granularity Granularity) ([]Place, error) {
	q, err := coordinates(lat, long)
	if err != nil {
		return nil, err
	}
	if granularity != "" {
		if _, err := ParseGranularity(string(granularity)); err != nil {
			return nil, err
		}
		q.Set("granularity", string(granularity))
	}

	var out struct {
		Result struct {
			Places []v1Place `json:"places"`
		} `json:"result"`
	}
	if err := c.do(ctx, request{method: http.MethodGet, path: reverseGeocodePath, query: q}, &out); err != nil {
		return nil, fmt.Errorf("failed to reverse geocode %v,%v: %w", lat, long, err)
	}

	places := make([]Place, 0, len(out.Result.Places))
	for _, p := range out.Result.Places {
		places = append(places, p.toPlace())
	}
	return places, nil
}

func coordinates(lat, long float64) (url.Values, error) {
	if lat < -90 || lat > 90 || long < -180 || long > 180 {
		return nil, fmt.Errorf("%w: %v,%v", ErrInvalidCoordinates, lat, long)
	}
	return url.Values{
		"lat":  {strconv.FormatFloat(lat, 'f', -1, 64)},
		"long": {strconv.FormatFloat(long, 'f', -1, 64)},
	}, nil
}
