package cmd

import (
	"bufio"
	"fmt"
	"math/rand/v2"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/s0up4200/chirp/twitter"
)

var unattendedCount int

// pruneCmd represents the prune command
var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete your own tweets matching the filter criteria",
	Long: `Scan your timeline for tweets matching a filter expression and delete them.

The matching tweets are listed and you choose which ones to delete, or run with
--unattended N to delete N randomly chosen matches without prompting.`,
	Args: cobra.NoArgs,
	RunE: runPrune,
}

func init() {
	addFilterFlags(pruneCmd)
	addPageFlag(pruneCmd, 5)
	pruneCmd.Flags().IntVar(&unattendedCount, "unattended", 0, "run in unattended mode, deleting N tweets")

	rootCmd.AddCommand(pruneCmd)
}

func runPrune(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if filterExpr == "" && preset == "" && cfg.Filter.DefaultExpression == "" {
		return fmt.Errorf("prune needs a filter: use --filter, --preset or filter.default_expression")
	}

	me, err := client.Me(ctx)
	if err != nil {
		return err
	}

	maxPages := pageLimit(cmd)
	logger.Info().Str("user", me.Username).Int("pages", maxPages).Msg("Scanning timeline")

	pages, err := client.Timeline(ctx, me.ID, twitter.TimelineOptions{})
	if err != nil {
		return err
	}
	tweets, err := pages.All(ctx, maxPages)
	if err != nil {
		return fmt.Errorf("failed to scan timeline: %w", err)
	}

	matched, err := applyFilter(ctx, tweets)
	if err != nil {
		return err
	}

	if len(matched) == 0 {
		fmt.Println("✓ No tweets match the filter!")
		return nil
	}

	fmt.Print(formatter.FormatTweetList(matched, FormatOptions{Numbered: true}))

	var selected []twitter.Tweet
	if unattendedCount > 0 {
		count := min(unattendedCount, len(matched))
		fmt.Printf("[UNATTENDED MODE] Deleting %d %s\n", count, plural(count, "tweet"))

		if count == len(matched) {
			selected = matched
		} else {
			for _, idx := range rand.Perm(len(matched))[:count] {
				selected = append(selected, matched[idx])
			}
		}
	} else {
		fmt.Printf("Enter tweet numbers to delete (e.g. 1,3,5-7) or 'all' for all [Enter to cancel]: ")

		scanner := bufio.NewScanner(os.Stdin)
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("failed to read input: %w", err)
			}
			// No input (Ctrl+D or similar)
			fmt.Println("No tweets selected.")
			return nil
		}

		indices, err := parseSelection(scanner.Text(), len(matched))
		if err != nil {
			return err
		}
		if len(indices) == 0 {
			fmt.Println("No tweets selected.")
			return nil
		}
		for _, idx := range indices {
			selected = append(selected, matched[idx])
		}
	}

	if dryRun {
		fmt.Println("[DRY RUN] Would delete:")
		for _, tweet := range selected {
			fmt.Printf("  - %s %s\n", tweet.ID, firstLine(tweet.Text))
		}
		return nil
	}

	var deleted, failed int
	for i, tweet := range selected {
		fmt.Printf("→ Deleting %s... ", tweet.ID)
		if err := client.DeleteTweet(ctx, tweet.ID); err != nil {
			logger.Error().Err(err).Str("tweet_id", tweet.ID).Msg("Failed to delete tweet")
			fmt.Printf("✗ Failed: %v\n", err)
			failed++
			if ctx.Err() != nil {
				break
			}
		} else {
			fmt.Println("✓ Deleted")
			deleted++
		}

		// Stay well under the delete endpoint's rate limit
		if i < len(selected)-1 {
			select {
			case <-ctx.Done():
			case <-time.After(time.Second):
			}
		}
	}

	// Summary
	fmt.Printf("\n✓ Deleted %d %s\n", deleted, plural(deleted, "tweet"))
	if failed > 0 {
		fmt.Printf("✗ Failed to delete %d %s\n", failed, plural(failed, "tweet"))
	}

	return nil
}

// parseSelection turns "1,3,5-7" or "all" into distinct 0-based indices in
// the order given. Numbers are 1-based and must be within 1..n.
func parseSelection(input string, n int) ([]int, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, nil
	}

	if strings.EqualFold(input, "all") {
		indices := make([]int, n)
		for i := range indices {
			indices[i] = i
		}
		return indices, nil
	}

	var indices []int
	seen := make(map[int]bool)
	add := func(num int) error {
		if num < 1 || num > n {
			return fmt.Errorf("invalid tweet number %d: must be between 1 and %d", num, n)
		}
		// Convert to 0-based index and check for duplicates
		if idx := num - 1; !seen[idx] {
			indices = append(indices, idx)
			seen[idx] = true
		}
		return nil
	}

	for part := range strings.SplitSeq(input, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		lo, hi, isRange := strings.Cut(part, "-")
		first, err := strconv.Atoi(strings.TrimSpace(lo))
		if err != nil {
			return nil, fmt.Errorf("invalid number '%s': must be a positive integer", part)
		}
		last := first
		if isRange {
			if last, err = strconv.Atoi(strings.TrimSpace(hi)); err != nil {
				return nil, fmt.Errorf("invalid range '%s'", part)
			}
			if last < first {
				return nil, fmt.Errorf("invalid range '%s': end before start", part)
			}
		}

		for num := first; num <= last; num++ {
			if err := add(num); err != nil {
				return nil, err
			}
		}
	}

	return indices, nil
}
