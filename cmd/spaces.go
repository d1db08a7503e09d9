package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/s0up4200/chirp/twitter"
)

var spaceState string

var spaceCmd = &cobra.Command{
	Use:   "space <space-id>",
	Short: "Show a space",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		space, err := client.Space(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Print(formatter.FormatSpace(*space))
		return nil
	},
}

var spacesCmd = &cobra.Command{
	Use:   "spaces <query>",
	Short: "Search spaces by title",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var state twitter.SpaceState
		if spaceState != "" && spaceState != "all" {
			var err error
			if state, err = twitter.ParseSpaceState(spaceState); err != nil {
				return err
			}
		}

		spaces, err := client.SearchSpaces(cmd.Context(), strings.Join(args, " "), state)
		if err != nil {
			return err
		}
		if len(spaces) == 0 {
			fmt.Println("No spaces found")
			return nil
		}
		for _, space := range spaces {
			fmt.Print(formatter.FormatSpace(space))
		}
		return nil
	},
}

func init() {
	spacesCmd.Flags().StringVar(&spaceState, "state", "all", "live, scheduled or all")

	rootCmd.AddCommand(spaceCmd, spacesCmd)
}
