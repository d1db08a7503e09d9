package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/s0up4200/chirp/intent"
)

var intentCmd = &cobra.Command{
	Use:   "intent",
	Short: "Print web intent links",
	Long: `Print links that open a prefilled tweet, follow, message or tweet action
dialog for whoever clicks them. No credentials are needed.`,
	PersistentPreRunE: skipInit,
}

var intentTweetCmd = &cobra.Command{
	Use:   "tweet [text]",
	Short: "Link to the tweet composer",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(intent.ComposeTweet(strings.Join(args, " ")))
	},
}

var intentFollowCmd = &cobra.Command{
	Use:   "follow <user-id>",
	Short: "Link to the follow dialog",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(intent.FollowUser(args[0]))
	},
}

var intentDMCmd = &cobra.Command{
	Use:   "dm <user-id> [text]",
	Short: "Link to a direct message conversation",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(intent.MessageUser(args[0], strings.Join(args[1:], " ")))
	},
}

var intentActionCmd = &cobra.Command{
	Use:       "action <like|retweet|reply> <tweet-id>",
	Short:     "Link to a like, retweet or reply dialog",
	Args:      cobra.ExactArgs(2),
	ValidArgs: []string{string(intent.ActionLike), string(intent.ActionRetweet), string(intent.ActionReply)},
	RunE: func(cmd *cobra.Command, args []string) error {
		link, err := intent.TweetAction(args[1], intent.Action(args[0]))
		if err != nil {
			return err
		}
		fmt.Println(link)
		return nil
	},
}

func init() {
	intentCmd.AddCommand(intentTweetCmd, intentFollowCmd, intentDMCmd, intentActionCmd)
	rootCmd.AddCommand(intentCmd)
}
