package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// EnvPrefix prefixes environment overrides, e.g. CHIRP_TWITTER_BEARER_TOKEN.
const EnvPrefix = "CHIRP"

// Load loads the configuration from file and the environment. A missing
// config file is fine when the environment supplies credentials.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set default values
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Look for config in standard locations
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		// Check current directory first
		v.AddConfigPath(".")

		// Check home directory
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".chirp"))
		}

		// Check /etc
		v.AddConfigPath("/etc/chirp/")
	}

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Validate configuration
	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// setDefaults sets default configuration values. Every key needs a default
// so AutomaticEnv can override it during Unmarshal.
func setDefaults(v *viper.Viper) {
	// Twitter defaults
	v.SetDefault("twitter.bearer_token", "")
	v.SetDefault("twitter.consumer_key", "")
	v.SetDefault("twitter.consumer_secret", "")
	v.SetDefault("twitter.access_token", "")
	v.SetDefault("twitter.access_token_secret", "")
	v.SetDefault("twitter.base_url", "https://api.twitter.com")
	v.SetDefault("twitter.upload_url", "https://upload.twitter.com")
	v.SetDefault("twitter.publish_url", "https://publish.twitter.com")
	v.SetDefault("twitter.timeout", "30s")
	v.SetDefault("twitter.max_retries", 2)
	v.SetDefault("twitter.retry_wait", "1s")
	v.SetDefault("twitter.wait_on_rate_limit", false)

	// Cache defaults
	v.SetDefault("cache.type", CacheMemory)
	v.SetDefault("cache.size", 1000)
	v.SetDefault("cache.redis_addr", "")
	v.SetDefault("cache.redis_password", "")
	v.SetDefault("cache.redis_db", 0)
	v.SetDefault("cache.ttl", "1h")

	// Webhook defaults
	v.SetDefault("webhook.listen", ":8080")
	v.SetDefault("webhook.path", "/webhook")

	v.SetDefault("filter.default_expression", "")

	// Logging defaults
	v.SetDefault("logging.enabled", true)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.output", "stderr")
	v.SetDefault("logging.color", true)
}

// validate checks if the configuration is valid
func validate(cfg *Config) error {
	if cfg.Twitter.BearerToken == "" && !cfg.Twitter.HasUserContext() {
		return fmt.Errorf("%w: twitter.bearer_token or all four OAuth 1.0a values are required", ErrInvalidConfig)
	}

	if cfg.Twitter.MaxRetries < 0 {
		return fmt.Errorf("%w: twitter.max_retries must not be negative", ErrInvalidConfig)
	}

	switch cfg.Cache.Type {
	case CacheNone:
	case CacheMemory:
		if cfg.Cache.Size <= 0 {
			return fmt.Errorf("%w: cache.size must be positive for the memory cache", ErrInvalidConfig)
		}
	case CacheRedis:
		if cfg.Cache.RedisAddr == "" {
			return fmt.Errorf("%w: cache.redis_addr is required for the redis cache", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown cache.type: %s (must be none, memory or redis)", ErrInvalidConfig, cfg.Cache.Type)
	}

	if cfg.Webhook.Path != "" && !strings.HasPrefix(cfg.Webhook.Path, "/") {
		return fmt.Errorf("%w: webhook.path must start with /", ErrInvalidConfig)
	}

	// Validate logging level
	validLevels := map[string]bool{
		"trace": true,
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("%w: invalid logging level: %s", ErrInvalidConfig, cfg.Logging.Level)
	}

	// Validate logging format
	validFormats := map[string]bool{
		"console": true,
		"json":    true,
	}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("%w: invalid logging format: %s", ErrInvalidConfig, cfg.Logging.Format)
	}

	return nil
}

// Preset returns the filter expression stored under name.
func (c *Config) Preset(name string) (string, error) {
	expr, ok := c.Filter.Presets[name]
	if !ok {
		return "", fmt.Errorf("preset %q not found in config", name)
	}
	return expr, nil
}
