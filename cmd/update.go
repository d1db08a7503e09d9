package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/blang/semver"
	"github.com/creativeprojects/go-selfupdate"
	"github.com/spf13/cobra"
)

const repositorySlug = "s0up4200/chirp"

var checkOnly bool

var updateCmd = &cobra.Command{
	Use:               "update",
	Short:             "Update chirp to the latest release",
	Args:              cobra.NoArgs,
	PersistentPreRunE: skipInit,
	RunE:              runUpdate,
}

func init() {
	updateCmd.Flags().BoolVar(&checkOnly, "check", false, "only report whether an update is available")

	rootCmd.AddCommand(updateCmd)
}

func runUpdate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	current, err := currentVersion(appVersion)
	if err != nil {
		return err
	}

	fmt.Printf("Checking for updates (current: %s)...\n", current)
	updater, err := selfupdate.NewUpdater(selfupdate.Config{
		Validator: &selfupdate.ChecksumValidator{UniqueFilename: "checksums.txt"},
	})
	if err != nil {
		return fmt.Errorf("failed to create updater: %w", err)
	}

	latest, found, err := updater.DetectLatest(ctx, selfupdate.ParseSlug(repositorySlug))
	if err != nil {
		return fmt.Errorf("error occurred while detecting version: %w", err)
	}
	if !found {
		return fmt.Errorf("no release found for %s", repositorySlug)
	}

	available, err := semver.ParseTolerant(latest.Version())
	if err != nil {
		return fmt.Errorf("release has an invalid version %q: %w", latest.Version(), err)
	}

	if !newerRelease(current, available) {
		fmt.Printf("✓ chirp %s is the latest version\n", current)
		return nil
	}

	fmt.Printf("New version available: %s\n", available)
	if latest.URL != "" {
		fmt.Printf("Release notes: %s\n", latest.URL)
	}
	if checkOnly || dryRun {
		return nil
	}

	exe, err := selfupdate.ExecutablePath()
	if err != nil {
		return fmt.Errorf("could not locate executable path: %w", err)
	}

	fmt.Printf("→ Updating %s... ", exe)
	if err := updater.UpdateTo(ctx, latest, exe); err != nil {
		fmt.Println("✗ Failed")
		return fmt.Errorf("error occurred while updating binary: %w", err)
	}
	fmt.Printf("✓ Updated to %s\n", available)
	return nil
}

// currentVersion parses the running version. Development builds cannot be
// compared against releases.
func currentVersion(v string) (semver.Version, error) {
	if v == "" || v == "dev" {
		return semver.Version{}, errors.New("development builds cannot be updated, install a release instead")
	}
	parsed, err := semver.ParseTolerant(strings.TrimPrefix(v, "v"))
	if err != nil {
		return semver.Version{}, fmt.Errorf("invalid version %q: %w", v, err)
	}
	return parsed, nil
}

func newerRelease(current, available semver.Version) bool {
	return available.GT(current)
}
