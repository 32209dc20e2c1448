package cmd

import (
	"fmt"
	"os"

	"github.com/blang/semver"
	"github.com/creativeprojects/go-selfupdate"
	"github.com/spf13/cobra"
)

const repoSlug = "speedrun-tools/srcom"

// upgradeCmd updates the binary to the latest release
var upgradeCmd = &cobra.Command{
	Use:   "upgrade",
	Short: "Upgrade srcom to the latest release",
	Long:  `Check the project's releases for a newer version and replace the current binary with it.`,
	RunE:  runUpgrade,
}

func init() {
	rootCmd.AddCommand(upgradeCmd)
}

func runUpgrade(cmd *cobra.Command, args []string) error {
	current, err := semver.ParseTolerant(appVersion)
	if err != nil {
		return fmt.Errorf("cannot upgrade a development build (version %q)", appVersion)
	}

	latest, found, err := selfupdate.DetectLatest(cmd.Context(), selfupdate.ParseSlug(repoSlug))
	if err != nil {
		return fmt.Errorf("failed to check for updates: %w", err)
	}
	if !found || latest.LessOrEqual(current.String()) {
		fmt.Printf("Current version %s is up to date.\n", appVersion)
		return nil
	}

	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("could not locate executable: %w", err)
	}

	fmt.Printf("Updating %s -> %s\n", appVersion, latest.Version())
	if err := selfupdate.UpdateTo(cmd.Context(), latest.AssetURL, latest.AssetName, exe); err != nil {
		return fmt.Errorf("failed to update binary: %w", err)
	}

	fmt.Printf("Successfully updated to version %s\n", latest.Version())
	return nil
}
