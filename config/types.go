package config

import "time"

// Config represents the complete configuration structure
type Config struct {
	Twitter TwitterConfig `mapstructure:"twitter"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Webhook WebhookConfig `mapstructure:"webhook"`
	Filter  FilterConfig  `mapstructure:"filter"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// TwitterConfig holds API credentials and transport settings
type TwitterConfig struct {
	BearerToken       string        `mapstructure:"bearer_token"`
	ConsumerKey       string        `mapstructure:"consumer_key"`
	ConsumerSecret    string        `mapstructure:"consumer_secret"`
	AccessToken       string        `mapstructure:"access_token"`
	AccessTokenSecret string        `mapstructure:"access_token_secret"`
	BaseURL           string        `mapstructure:"base_url"`
	UploadURL         string        `mapstructure:"upload_url"`
	PublishURL        string        `mapstructure:"publish_url"`
	Timeout           time.Duration `mapstructure:"timeout"`
	MaxRetries        int           `mapstructure:"max_retries"`
	RetryWait         time.Duration `mapstructure:"retry_wait"`
	WaitOnRateLimit   bool          `mapstructure:"wait_on_rate_limit"`
}

// HasUserContext reports whether all four OAuth 1.0a values are set.
func (t TwitterConfig) HasUserContext() bool {
	return t.ConsumerKey != "" && t.ConsumerSecret != "" &&
		t.AccessToken != "" && t.AccessTokenSecret != ""
}

// Cache types
const (
	CacheNone   = "none"
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

// CacheConfig selects where looked-up objects are cached
type CacheConfig struct {
	Type          string        `mapstructure:"type"`
	Size          int           `mapstructure:"size"`
	RedisAddr     string        `mapstructure:"redis_addr"`
	RedisPassword string        `mapstructure:"redis_password"`
	RedisDB       int           `mapstructure:"redis_db"`
	TTL           time.Duration `mapstructure:"ttl"`
}

// WebhookConfig holds the account activity receiver settings
type WebhookConfig struct {
	Listen string `mapstructure:"listen"`
	Path   string `mapstructure:"path"`
}

// FilterConfig contains the default expression and named presets
type FilterConfig struct {
	DefaultExpression string            `mapstructure:"default_expression"`
	Presets           map[string]string `mapstructure:"presets"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Level   string `mapstructure:"level"`
	Format  string `mapstructure:"format"`
	Output  string `mapstructure:"output"`
	Color   bool   `mapstructure:"color"`
}
