package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/s0up4200/chirp/twitter"
)

var (
	settingsTimeZone string
	settingsLanguage string
	settingsSleep    string
	settingsTrendLoc int64
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show the account settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := client.AccountSettings(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Print(formatter.FormatSettings(*settings))
		return nil
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Change the time zone, language, sleep time or trend location",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		update := twitter.SettingsUpdate{
			TimeZone:           settingsTimeZone,
			Language:           settingsLanguage,
			TrendLocationWOEID: settingsTrendLoc,
		}
		if cmd.Flags().Changed("sleep") {
			sleep, err := parseSleepTime(settingsSleep)
			if err != nil {
				return err
			}
			update.SleepTime = sleep
		}
		if err := update.Validate(); err != nil {
			return err
		}

		if dryRun {
			fmt.Printf("[DRY RUN] Would update account settings: %+v\n", update)
			return nil
		}

		settings, err := client.UpdateAccountSettings(cmd.Context(), update)
		if err != nil {
			return err
		}
		fmt.Println("✓ Updated account settings")
		fmt.Print(formatter.FormatSettings(*settings))
		return nil
	},
}

// parseSleepTime reads "off" or a UTC hour range such as "23-7".
func parseSleepTime(s string) (*twitter.SleepTime, error) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "off") {
		return &twitter.SleepTime{}, nil
	}

	startStr, endStr, ok := strings.Cut(s, "-")
	if !ok {
		return nil, fmt.Errorf("sleep time must be off or start-end hours: %q", s)
	}
	start, err := strconv.Atoi(strings.TrimSpace(startStr))
	if err != nil {
		return nil, fmt.Errorf("invalid sleep start %q", startStr)
	}
	end, err := strconv.Atoi(strings.TrimSpace(endStr))
	if err != nil {
		return nil, fmt.Errorf("invalid sleep end %q", endStr)
	}
	return &twitter.SleepTime{Enabled: true, StartTime: start, EndTime: end}, nil
}

func init() {
	settingsSetCmd.Flags().StringVar(&settingsTimeZone, "time-zone", "", "IANA time zone, e.g. Europe/Amsterdam")
	settingsSetCmd.Flags().StringVar(&settingsLanguage, "lang", "", "interface language code")
	settingsSetCmd.Flags().StringVar(&settingsSleep, "sleep", "", "sleep hours in UTC as start-end, or off")
	settingsSetCmd.Flags().Int64Var(&settingsTrendLoc, "trend-location", 0, "default trend location woeid")

	settingsCmd.AddCommand(settingsSetCmd)
	rootCmd.AddCommand(settingsCmd)
}
