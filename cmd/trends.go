package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/s0up4200/chirp/twitter"
)

var (
	trendsNear       string
	trendsLocations  bool
	trendsNoHashtags bool
	placeGranularity string
)

var trendsCmd = &cobra.Command{
	Use:   "trends [woeid]",
	Short: "Show trending topics",
	Long: `Show the trends of a location, worldwide by default. Locations are
identified by their Where On Earth id; --locations lists them and --near picks
the closest one to a coordinate.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if trendsLocations {
			var locations []twitter.TrendLocation
			var err error
			if trendsNear != "" {
				lat, long, perr := parseCoordinates(trendsNear)
				if perr != nil {
					return perr
				}
				locations, err = client.ClosestTrendLocations(ctx, lat, long)
			} else {
				locations, err = client.TrendLocations(ctx)
			}
			if err != nil {
				return err
			}
			fmt.Print(formatter.FormatTrendLocations(locations))
			return nil
		}

		woeid := twitter.WorldwideWOEID
		switch {
		case len(args) == 1:
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || id <= 0 {
				return fmt.Errorf("invalid woeid %q", args[0])
			}
			woeid = id
		case trendsNear != "":
			lat, long, err := parseCoordinates(trendsNear)
			if err != nil {
				return err
			}
			closest, err := client.ClosestTrendLocations(ctx, lat, long)
			if err != nil {
				return err
			}
			if len(closest) == 0 {
				return fmt.Errorf("no trend location near %s", trendsNear)
			}
			woeid = closest[0].WOEID
			logger.Debug().Int64("woeid", woeid).Str("name", closest[0].Name).Msg("Using closest trend location")
		}

		list, err := client.Trends(ctx, woeid, trendsNoHashtags)
		if err != nil {
			return err
		}
		fmt.Print(formatter.FormatTrends(*list))
		return nil
	},
}

var placesCmd = &cobra.Command{
	Use:   "places <lat,long>",
	Short: "List the places containing a coordinate",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lat, long, err := parseCoordinates(args[0])
		if err != nil {
			return err
		}

		var granularity twitter.Granularity
		if placeGranularity != "" {
			if granularity, err = twitter.ParseGranularity(placeGranularity); err != nil {
				return err
			}
		}

		places, err := client.ReverseGeocode(cmd.Context(), lat, long, granularity)
		if err != nil {
			return err
		}
		fmt.Print(formatter.FormatPlaces(places))
		return nil
	},
}

// parseCoordinates reads "lat,long".
func parseCoordinates(s string) (float64, float64, error) {
	latStr, longStr, ok := strings.Cut(s, ",")
	if !ok {
		return 0, 0, fmt.Errorf("coordinates must be lat,long: %q", s)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid latitude %q", latStr)
	}
	long, err := strconv.ParseFloat(strings.TrimSpace(longStr), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid longitude %q", longStr)
	}
	return lat, long, nil
}

func init() {
	trendsCmd.Flags().StringVar(&trendsNear, "near", "", "use the trend location closest to lat,long")
	trendsCmd.Flags().BoolVar(&trendsLocations, "locations", false, "list trend locations instead of trends")
	trendsCmd.Flags().BoolVar(&trendsNoHashtags, "no-hashtags", false, "leave hashtags out of the trends")
	placesCmd.Flags().StringVar(&placeGranularity, "granularity", "", "neighborhood, city, admin or country")

	rootCmd.AddCommand(trendsCmd, placesCmd)
}
