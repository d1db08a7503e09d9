package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/s0up4200/chirp/twitter"
)

var meCmd = &cobra.Command{
	Use:   "me",
	Short: "Show the authenticated account",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := client.Me(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Print(formatter.FormatUser(*user))
		return nil
	},
}

var userCmd = &cobra.Command{
	Use:   "user <username>",
	Short: "Show a user profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := client.UserByUsername(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Print(formatter.FormatUser(*user))
		return nil
	},
}

var followersCmd = &cobra.Command{
	Use:   "followers <username>",
	Short: "List the accounts following a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return listRelated(cmd.Context(), args[0], pageLimit(cmd), client.Followers)
	},
}

var followingCmd = &cobra.Command{
	Use:   "following <username>",
	Short: "List the accounts a user follows",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return listRelated(cmd.Context(), args[0], pageLimit(cmd), client.Following)
	},
}

var followCmd = &cobra.Command{
	Use:   "follow <username>",
	Short: "Follow a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return userAction(cmd.Context(), args[0], "Followed", client.Follow)
	},
}

var unfollowCmd = &cobra.Command{
	Use:   "unfollow <username>",
	Short: "Unfollow a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return userAction(cmd.Context(), args[0], "Unfollowed", client.Unfollow)
	},
}

func init() {
	addPageFlag(followersCmd, 1)
	addPageFlag(followingCmd, 1)

	rootCmd.AddCommand(meCmd, userCmd, followersCmd, followingCmd, followCmd, unfollowCmd)
}

func listRelated(ctx context.Context, username string, maxPages int, list func(context.Context, string) (*twitter.Paginator[twitter.User], error)) error {
	user, err := client.UserByUsername(ctx, username)
	if err != nil {
		return err
	}

	pages, err := list(ctx, user.ID)
	if err != nil {
		return err
	}
	users, err := pages.All(ctx, maxPages)
	if err != nil {
		return err
	}

	fmt.Print(formatter.FormatUserList(users))
	return nil
}

func userAction(ctx context.Context, username, done string, action func(context.Context, string) error) error {
	user, err := client.UserByUsername(ctx, username)
	if err != nil {
		return err
	}
	if dryRun {
		fmt.Printf("[DRY RUN] Would act on %s\n", user.Mention())
		return nil
	}
	if err := action(ctx, user.ID); err != nil {
		return err
	}
	fmt.Printf("✓ %s %s\n", done, user.Mention())
	return nil
}
