package twitter

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const accountSettingsPath = "/1.1/account/settings.json"

// TimeZone is the zone an account displays times in.
type TimeZone struct {
	// Name is the display name, for example "Pacific Time (US & Canada)".
	Name       string `json:"name"`
	UTCOffset  int    `json:"utc_offset"`
	TZInfoName string `json:"tzinfo_name"`
}

// Location loads the IANA zone of the time zone.
func (tz TimeZone) Location() (*time.Location, error) {
	return time.LoadLocation(tz.TZInfoName)
}

// SleepTime is the daily window, in UTC hours, during which the account
// receives no notifications.
type SleepTime struct {
	Enabled   bool `json:"enabled"`
	StartTime int  `json:"start_time"`
	EndTime   int  `json:"end_time"`
}

// AccountSettings are the settings of the authenticated account.
type AccountSettings struct {
	ScreenName                string          `json:"screen_name"`
	Language                  string          `json:"language"`
	Protected                 bool            `json:"protected"`
	AllowDMsFrom              string          `json:"allow_dms_from"`
	AllowContributorRequest   string          `json:"allow_contributor_request"`
	DiscoverableByEmail       bool            `json:"discoverable_by_email"`
	DiscoverableByMobilePhone bool            `json:"discoverable_by_mobile_phone"`
	DisplaySensitiveMedia     bool            `json:"display_sensitive_media"`
	AlwaysUseHTTPS            bool            `json:"always_use_https"`
	TimeZone                  *TimeZone       `json:"time_zone,omitempty"`
	SleepTime                 SleepTime       `json:"sleep_time"`
	TrendLocations            []TrendLocation `json:"trend_location,omitempty"`
}

// SettingsUpdate changes account settings. Zero fields are left unchanged.
type SettingsUpdate struct {
	// TimeZone is an IANA zone name such as "Europe/Amsterdam".
	TimeZone           string
	Language           string
	SleepTime          *SleepTime
	TrendLocationWOEID int64
}

// Validate checks the update before it is sent.
func (u SettingsUpdate) Validate() error {
	if u.TimeZone == "" && u.Language == "" && u.SleepTime == nil && u.TrendLocationWOEID == 0 {
		return fmt.Errorf("%w: nothing to update", ErrInvalidSettings)
	}
	if u.TimeZone != "" {
		if _, err := time.LoadLocation(u.TimeZone); err != nil {
			return fmt.Errorf("%w: unknown time zone %q", ErrInvalidSettings, u.TimeZone)
		}
	}
	if st := u.SleepTime; st != nil && st.Enabled {
		if !validHour(st.StartTime) || !validHour(st.EndTime) {
			return fmt.Errorf("%w: sleep time hours must be 0 to 23, got %d and %d", ErrInvalidSettings, st.StartTime, st.EndTime)
		}
	}
	if u.TrendLocationWOEID < 0 {
		return fmt.Errorf("%w: negative trend location %d", ErrInvalidSettings, u.TrendLocationWOEID)
	}
	return nil
}

func validHour(h int) bool { return h >= 0 && h <= 23 }

func (u SettingsUpdate) query() url.Values {
	q := url.Values{}
	if u.TimeZone != "" {
		q.Set("time_zone", u.TimeZone)
	}
	if u.Language != "" {
		q.Set("lang", u.Language)
	}
	if st := u.SleepTime; st != nil {
		q.Set("sleep_time_enabled", strconv.FormatBool(st.Enabled))
		if st.Enabled {
			q.Set("start_sleep_time", fmt.Sprintf("%02d", st.StartTime))
			q.Set("end_sleep_time", fmt.Sprintf("%02d", st.EndTime))
		}
	}
	if u.TrendLocationWOEID != 0 {
		q.Set("trend_location_woeid", strconv.FormatInt(u.TrendLocationWOEID, 10))
	}
	return q
}

// AccountSettings returns the settings of the authenticated account.
func (c *Client) AccountSettings(ctx context.Context) (*AccountSettings, error) {
	var out AccountSettings
	err := c.do(ctx, request{
		method:      http.MethodGet,
		path:        accountSettingsPath,
		userContext: true,
	}, &out)
	if err != nil {
		return nil, fmt.Errorf("failed to get account settings: %w", err)
	}
	return &out, nil
}

// UpdateAccountSettings applies u and returns the resulting settings.
func (c *Client) UpdateAccountSettings(ctx context.Context, u SettingsUpdate) (*AccountSettings, error) {
	if err := u.Validate(); err != nil {
		return nil, err
	}

	var out AccountSettings
	err := c.do(ctx, request{
		method:      http.MethodPost,
		path:        accountSettingsPath,
		query:       u.query(),
		userContext: true,
	}, &out)
	if err != nil {
		return nil, fmt.Errorf("failed to update account settings: %w", err)
	}

	c.logger.Debug().Str("screen_name", out.ScreenName).Msg("Updated account settings")
	return &out, nil
}
