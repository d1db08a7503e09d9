package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/s0up4200/chirp/cache"
	"github.com/s0up4200/chirp/config"
	"github.com/s0up4200/chirp/filter"
	"github.com/s0up4200/chirp/logging"
	"github.com/s0up4200/chirp/twitter"
)

var (
	cfgFile   string
	cfg       *config.Config
	logger    zerolog.Logger
	client    *twitter.Client
	store     cache.Cache
	filters   *filter.Manager
	formatter = NewConsoleFormatter()

	// Command flags
	filterExpr string
	preset     string
	dryRun     bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "chirp",
	Short: "A command line client for the Twitter API",
	Long: `chirp reads and writes tweets, users, direct messages and spaces through
the Twitter API, filters timelines with expressions and receives account
activity webhooks.`,
	SilenceUsage:      true,
	PersistentPreRunE: initializeApp,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// An interrupt cancels the command's context.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := execute(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// execute runs the command line. Cobra skips post-run hooks when a command
// fails, so cleanup happens here instead.
func execute(ctx context.Context) error {
	defer shutdownApp()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&dryRun, "dry-run", "d", false, "show what would change without making changes")
}

// initializeApp loads the configuration and builds the client
func initializeApp(cmd *cobra.Command, args []string) error {
	// Load configuration
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Setup logger
	if cfg.Logging.Enabled {
		if err := logging.Configure(logging.Config{
			Level:  cfg.Logging.Level,
			Format: cfg.Logging.Format,
			Output: cfg.Logging.Output,
			Color:  cfg.Logging.Color,
		}); err != nil {
			return fmt.Errorf("failed to configure logging: %w", err)
		}
	}
	logger = logging.Logger()

	store, err = newCache(cmd.Context(), cfg.Cache)
	if err != nil {
		return fmt.Errorf("failed to create cache: %w", err)
	}

	client, err = newClient(cfg.Twitter, store)
	if err != nil {
		return fmt.Errorf("failed to create Twitter client: %w", err)
	}

	filters = filter.NewManager()
	if err := filters.RegisterFilters(cfg.Filter.Presets); err != nil {
		return fmt.Errorf("invalid filter preset: %w", err)
	}

	logger.Debug().
		Str("cache", cfg.Cache.Type).
		Bool("user_context", cfg.Twitter.HasUserContext()).
		Msg("Initialized")
	return nil
}

// shutdownApp releases what initializeApp opened, including a partial
// initialization.
func shutdownApp() {
	if filters != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := filters.Close(ctx); err != nil {
			logger.Warn().Err(err).Msg("Failed to stop filter workers")
		}
		filters = nil
	}
	if r, ok := store.(*cache.Redis); ok {
		if err := r.Close(); err != nil {
			logger.Warn().Err(err).Msg("Failed to close redis connection")
		}
	}
	store = nil
	logging.Disable()
}

// skipInit replaces initializeApp for commands that need no configuration
func skipInit(cmd *cobra.Command, args []string) error { return nil }

func newCache(ctx context.Context, c config.CacheConfig) (cache.Cache, error) {
	switch c.Type {
	case config.CacheMemory:
		return cache.NewMemory(c.Size), nil
	case config.CacheRedis:
		r, err := cache.NewRedis(ctx, cache.RedisOptions{
			Addr:     c.RedisAddr,
			Password: c.RedisPassword,
			DB:       c.RedisDB,
			TTL:      c.TTL,
		})
		if err != nil {
			return nil, err
		}
		return r, nil
	default:
		return cache.Nop{}, nil
	}
}

func newClient(c config.TwitterConfig, store cache.Cache) (*twitter.Client, error) {
	return twitter.NewClient(twitter.Credentials{
		BearerToken:       c.BearerToken,
		ConsumerKey:       c.ConsumerKey,
		ConsumerSecret:    c.ConsumerSecret,
		AccessToken:       c.AccessToken,
		AccessTokenSecret: c.AccessTokenSecret,
	},
		twitter.WithBaseURL(c.BaseURL),
		twitter.WithUploadURL(c.UploadURL),
		twitter.WithPublishURL(c.PublishURL),
		twitter.WithTimeout(c.Timeout),
		twitter.WithMaxRetries(c.MaxRetries),
		twitter.WithRetryWait(c.RetryWait, max(c.RetryWait, 30*time.Second)),
		twitter.WithWaitOnRateLimit(c.WaitOnRateLimit),
		twitter.WithUserAgent("chirp/"+appVersion),
		twitter.WithCache(store),
	)
}

// applyFilter keeps the tweets matching the active filter.
// Priority: command line filter > preset > default expression.
func applyFilter(ctx context.Context, tweets []twitter.Tweet) ([]twitter.Tweet, error) {
	if filterExpr == "" && preset != "" {
		logger.Info().Str("preset", preset).Int("tweets", len(tweets)).Msg("Filtering tweets")
		matched, err := filters.EvaluateFilter(ctx, preset, filter.NewTweetInfos(tweets))
		if err != nil {
			return nil, err
		}
		return filter.Tweets(matched), nil
	}

	expr := filterExpr
	if expr == "" {
		expr = cfg.Filter.DefaultExpression
	}
	if expr == "" {
		return tweets, nil
	}

	logger.Info().Str("filter", expr).Int("tweets", len(tweets)).Msg("Filtering tweets")
	matched, err := filters.FilterTweets(ctx, expr, tweets)
	if err != nil {
		return nil, fmt.Errorf("invalid filter expression: %w", err)
	}
	return matched, nil
}

func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&filterExpr, "filter", "f", "", "filter expression")
	cmd.Flags().StringVarP(&preset, "preset", "p", "", "use a preset filter from config")
}

// addPageFlag registers --pages; read it with pageLimit.
func addPageFlag(cmd *cobra.Command, def int) {
	cmd.Flags().Int("pages", def, "maximum number of pages to fetch (0 for all)")
}

func pageLimit(cmd *cobra.Command) int {
	n, err := cmd.Flags().GetInt("pages")
	if err != nil {
		return 1
	}
	return n
}
