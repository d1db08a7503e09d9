package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/s0up4200/chirp/twitter"
)

var embedOpts twitter.EmbedOptions

var embedCmd = &cobra.Command{
	Use:   "embed <tweet-url|tweet-id>",
	Short: "Print embeddable HTML for a tweet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		embed, err := client.Embed(cmd.Context(), args[0], embedOpts)
		if err != nil {
			return err
		}
		fmt.Println(embed.HTML)
		logger.Debug().Str("author", embed.AuthorName).Dur("cache_for", embed.CacheFor()).Msg("Fetched embed")
		return nil
	},
}

func init() {
	flags := embedCmd.Flags()
	flags.IntVar(&embedOpts.MaxWidth, "max-width", 0, "maximum width in pixels (220-550)")
	flags.BoolVar(&embedOpts.HideMedia, "hide-media", false, "do not expand photos and videos")
	flags.BoolVar(&embedOpts.HideThread, "hide-thread", false, "do not show the tweet being replied to")
	flags.BoolVar(&embedOpts.OmitScript, "omit-script", false, "leave out the widgets.js script tag")
	flags.StringVar(&embedOpts.Align, "align", "", "left, right, center or none")
	flags.StringVar(&embedOpts.Lang, "lang", "", "language of the embed")
	flags.StringVar(&embedOpts.Theme, "theme", "", "light or dark")
	flags.BoolVar(&embedOpts.DoNotTrack, "dnt", false, "opt the embed out of personalization")

	rootCmd.AddCommand(embedCmd)
}
