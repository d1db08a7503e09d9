package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Twitter: TwitterConfig{BearerToken: "bearer"},
		Cache:   CacheConfig{Type: CacheMemory, Size: 10},
		Webhook: WebhookConfig{Path: "/webhook"},
		Logging: LoggingConfig{Level: "info", Format: "console"},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{
			name:   "bearer token only",
			modify: func(*Config) {},
		},
		{
			name: "user context only",
			modify: func(c *Config) {
				c.Twitter = TwitterConfig{ConsumerKey: "ck", ConsumerSecret: "cs", AccessToken: "1-at", AccessTokenSecret: "ats"}
			},
		},
		{
			name:    "no credentials",
			modify:  func(c *Config) { c.Twitter.BearerToken = "" },
			wantErr: "twitter.bearer_token",
		},
		{
			name: "partial user context",
			modify: func(c *Config) {
				c.Twitter = TwitterConfig{ConsumerKey: "ck", ConsumerSecret: "cs"}
			},
			wantErr: "twitter.bearer_token",
		},
		{
			name:    "negative retries",
			modify:  func(c *Config) { c.Twitter.MaxRetries = -1 },
			wantErr: "max_retries",
		},
		{
			name:   "no cache",
			modify: func(c *Config) { c.Cache = CacheConfig{Type: CacheNone} },
		},
		{
			name:    "memory cache without size",
			modify:  func(c *Config) { c.Cache.Size = 0 },
			wantErr: "cache.size",
		},
		{
			name:    "redis without address",
			modify:  func(c *Config) { c.Cache = CacheConfig{Type: CacheRedis} },
			wantErr: "cache.redis_addr",
		},
		{
			name:   "redis with address",
			modify: func(c *Config) { c.Cache = CacheConfig{Type: CacheRedis, RedisAddr: "localhost:6379"} },
		},
		{
			name:    "unknown cache",
			modify:  func(c *Config) { c.Cache.Type = "memcached" },
			wantErr: "unknown cache.type: memcached",
		},
		{
			name:    "relative webhook path",
			modify:  func(c *Config) { c.Webhook.Path = "webhook" },
			wantErr: "webhook.path",
		},
		{
			name:   "trace level",
			modify: func(c *Config) { c.Logging.Level = "trace" },
		},
		{
			name:    "invalid level",
			modify:  func(c *Config) { c.Logging.Level = "verbose" },
			wantErr: "invalid logging level: verbose",
		},
		{
			name:    "invalid format",
			modify:  func(c *Config) { c.Logging.Format = "xml" },
			wantErr: "invalid logging format: xml",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.modify(cfg)

			err := validate(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
twitter:
  consumer_key: ck
  consumer_secret: cs
  access_token: 12345-token
  access_token_secret: ats
  timeout: 10s
  wait_on_rate_limit: true
cache:
  type: redis
  redis_addr: localhost:6379
  ttl: 5m
filter:
  default_expression: "Likes > 10"
  presets:
    popular: "Likes > 1000"
logging:
  level: debug
  format: json
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.True(t, cfg.Twitter.HasUserContext())
	assert.Equal(t, 10*time.Second, cfg.Twitter.Timeout)
	assert.True(t, cfg.Twitter.WaitOnRateLimit)
	assert.Equal(t, "https://api.twitter.com", cfg.Twitter.BaseURL)
	assert.Equal(t, 2, cfg.Twitter.MaxRetries)
	assert.Equal(t, CacheRedis, cfg.Cache.Type)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, ":8080", cfg.Webhook.Listen)
	assert.Equal(t, "/webhook", cfg.Webhook.Path)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)

	expr, err := cfg.Preset("popular")
	require.NoError(t, err)
	assert.Equal(t, "Likes > 1000", expr)

	_, err = cfg.Preset("missing")
	assert.Error(t, err)
}

func TestLoadEnvironmentOnly(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv("CHIRP_TWITTER_BEARER_TOKEN", "from-env")
	t.Setenv("CHIRP_CACHE_TYPE", "none")
	t.Setenv("CHIRP_LOGGING_LEVEL", "warn")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Twitter.BearerToken)
	assert.Equal(t, CacheNone, cfg.Cache.Type)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoadErrors(t *testing.T) {
	t.Run("explicit file missing", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("no credentials anywhere", func(t *testing.T) {
		t.Chdir(t.TempDir())
		t.Setenv("HOME", t.TempDir())
		t.Setenv("CHIRP_TWITTER_BEARER_TOKEN", "")

		_, err := Load("")
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})
}
