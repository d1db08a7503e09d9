package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/s0up4200/chirp/twitter"
)

var dmButtons []string

var dmCmd = &cobra.Command{
	Use:   "dm",
	Short: "Send and read direct messages",
}

var dmSendCmd = &cobra.Command{
	Use:   "send <username> <text>",
	Short: "Send a direct message",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		user, err := client.UserByUsername(ctx, args[0])
		if err != nil {
			return err
		}
		text := strings.Join(args[1:], " ")

		buttons := make([]twitter.Button, 0, len(dmButtons))
		for _, b := range dmButtons {
			button, err := parseButton(b)
			if err != nil {
				return err
			}
			buttons = append(buttons, button)
		}

		if dryRun {
			fmt.Printf("[DRY RUN] Would send to %s: %s\n", user.Mention(), text)
			for _, b := range buttons {
				fmt.Printf("[DRY RUN]   [%s] %s\n", b.Label, b.URL)
			}
			return nil
		}

		msg, err := client.SendMessage(ctx, user.ID, text, buttons...)
		if err != nil {
			return err
		}
		fmt.Printf("✓ Sent message %s to %s\n", msg.ID, user.Mention())
		return nil
	},
}

var dmHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "List direct messages from the last 30 days",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		pages, err := client.MessageHistory(ctx)
		if err != nil {
			return err
		}
		messages, err := pages.All(ctx, pageLimit(cmd))
		if err != nil {
			return err
		}

		fmt.Print(formatter.FormatMessages(messages))
		return nil
	},
}

var dmDeleteCmd = &cobra.Command{
	Use:   "delete <message-id>",
	Short: "Delete a direct message for yourself",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return tweetAction(cmd.Context(), args[0], "Deleted message", client.DeleteMessage)
	},
}

// parseButton reads "Label=https://url".
func parseButton(s string) (twitter.Button, error) {
	label, link, ok := strings.Cut(s, "=")
	if !ok {
		return twitter.Button{}, fmt.Errorf("button must be label=url: %q", s)
	}
	b := twitter.WebButton(strings.TrimSpace(label), strings.TrimSpace(link))
	if err := b.Validate(); err != nil {
		return twitter.Button{}, err
	}
	return b, nil
}

func init() {
	addPageFlag(dmHistoryCmd, 1)
	dmSendCmd.Flags().StringArrayVar(&dmButtons, "button", nil, "attach a link button as label=url (repeatable, up to 3)")

	dmCmd.AddCommand(dmSendCmd, dmHistoryCmd, dmDeleteCmd)
	rootCmd.AddCommand(dmCmd)
}
