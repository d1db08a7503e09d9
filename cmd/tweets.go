package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/s0up4200/chirp/twitter"
)

var (
	showDetails     bool
	excludeReplies  bool
	excludeRetweets bool
	replyTo         string
	quoteID         string
	mediaPaths      []string
)

var timelineCmd = &cobra.Command{
	Use:   "timeline <username>",
	Short: "List a user's tweets matching the filter criteria",
	Long: `List the tweets a user posted, newest first, optionally narrowed by a filter
expression such as 'Likes > 100 && !IsReply'.`,
	Args: cobra.ExactArgs(1),
	RunE: runTimeline,
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search tweets from the last seven days",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		pages, err := client.SearchRecent(ctx, strings.Join(args, " "))
		if err != nil {
			return err
		}
		return printTweets(ctx, pages, pageLimit(cmd))
	},
}

var tweetCmd = &cobra.Command{
	Use:   "tweet <text>",
	Short: "Post a tweet",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runTweet,
}

var deleteCmd = &cobra.Command{
	Use:   "delete <tweet-id>",
	Short: "Delete one of your tweets",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return tweetAction(cmd.Context(), args[0], "Deleted", client.DeleteTweet)
	},
}

var likeCmd = &cobra.Command{
	Use:   "like <tweet-id>",
	Short: "Like a tweet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return tweetAction(cmd.Context(), args[0], "Liked", client.Like)
	},
}

var unlikeCmd = &cobra.Command{
	Use:   "unlike <tweet-id>",
	Short: "Remove a like",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return tweetAction(cmd.Context(), args[0], "Unliked", client.Unlike)
	},
}

var retweetCmd = &cobra.Command{
	Use:   "retweet <tweet-id>",
	Short: "Retweet a tweet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return tweetAction(cmd.Context(), args[0], "Retweeted", client.Retweet)
	},
}

func init() {
	addFilterFlags(timelineCmd)
	addPageFlag(timelineCmd, 1)
	timelineCmd.Flags().BoolVar(&excludeReplies, "exclude-replies", false, "leave out replies")
	timelineCmd.Flags().BoolVar(&excludeRetweets, "exclude-retweets", false, "leave out retweets")

	addFilterFlags(searchCmd)
	addPageFlag(searchCmd, 1)

	for _, c := range []*cobra.Command{timelineCmd, searchCmd} {
		c.Flags().BoolVar(&showDetails, "details", false, "show media, polls and entities")
	}

	tweetCmd.Flags().StringVar(&replyTo, "reply-to", "", "id of the tweet to reply to")
	tweetCmd.Flags().StringVar(&quoteID, "quote", "", "id of the tweet to quote")
	tweetCmd.Flags().StringSliceVar(&mediaPaths, "media", nil, "image or video file to attach (repeatable, up to 4)")

	rootCmd.AddCommand(timelineCmd, searchCmd, tweetCmd, deleteCmd, likeCmd, unlikeCmd, retweetCmd)
}

func runTimeline(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	user, err := client.UserByUsername(ctx, args[0])
	if err != nil {
		return err
	}

	logger.Info().Str("user", user.Username).Int("pages", pageLimit(cmd)).Msg("Fetching timeline")

	pages, err := client.Timeline(ctx, user.ID, twitter.TimelineOptions{
		ExcludeReplies:  excludeReplies,
		ExcludeRetweets: excludeRetweets,
	})
	if err != nil {
		return err
	}
	return printTweets(ctx, pages, pageLimit(cmd))
}

func printTweets(ctx context.Context, pages *twitter.Paginator[twitter.Tweet], maxPages int) error {
	tweets, err := pages.All(ctx, maxPages)
	if err != nil {
		return err
	}

	tweets, err = applyFilter(ctx, tweets)
	if err != nil {
		return err
	}

	fmt.Print(formatter.FormatTweetList(tweets, FormatOptions{ShowDetails: showDetails}))
	return nil
}

func runTweet(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	req := twitter.TweetRequest{
		Text:         strings.Join(args, " "),
		ReplyToID:    replyTo,
		QuoteTweetID: quoteID,
	}
	// Validate before uploading anything
	req.MediaIDs = make([]string, len(mediaPaths))
	if err := req.Validate(); err != nil {
		return err
	}

	if dryRun {
		fmt.Printf("[DRY RUN] Would post: %s\n", req.Text)
		for _, path := range mediaPaths {
			fmt.Printf("  - attach %s\n", path)
		}
		return nil
	}

	for i, path := range mediaPaths {
		id, err := uploadFile(ctx, path)
		if err != nil {
			return err
		}
		req.MediaIDs[i] = id
	}

	tweet, err := client.PostTweet(ctx, req)
	if err != nil {
		return err
	}

	fmt.Printf("✓ Posted %s\n", tweet.URL())
	return nil
}

func uploadFile(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open media: %w", err)
	}
	defer f.Close()

	fmt.Printf("→ Uploading %s... ", filepath.Base(path))
	id, err := client.UploadMedia(ctx, f, filepath.Base(path))
	if err != nil {
		fmt.Println("✗ Failed")
		return "", err
	}
	fmt.Println("✓ Done")
	return id, nil
}

func tweetAction(ctx context.Context, id, done string, action func(context.Context, string) error) error {
	if dryRun {
		fmt.Printf("[DRY RUN] Would act on tweet %s\n", id)
		return nil
	}
	if err := action(ctx, id); err != nil {
		return err
	}
	fmt.Printf("✓ %s %s\n", done, id)
	return nil
}
