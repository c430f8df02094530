package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/macsweep/macsweep/internal/config"
	"github.com/macsweep/macsweep/internal/logging"
)

var (
	// Global flags
	debug bool

	// Version info populated from main
	appVersion = "dev"
	appCommit  = "none"
	appDate    = "unknown"
)

// SetVersionInfo sets build-time version information.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}

var rootCmd = &cobra.Command{
	Use:   "ms",
	Short: "Reclaim disk space from your home directory",
	Long: `macsweep - Reclaim disk space from your home directory.

Scans well-known locations (Downloads, ~/Library/Caches, ~/Library/Logs,
~/.Trash) plus folders you pick, classifies what it finds, and moves
selected items to the Trash behind strict safety rules. Dry run is the
default; nothing is deleted until you say so.`,
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Show detailed operation logs")

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(trashCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(completionCmd)
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("macsweep %s (%s) built %s\n", appVersion, appCommit, appDate)
	},
}

// loadEnvironment builds the layout, the merged settings snapshot and a
// file-backed logger. Every command goes through here so engines always
// get their configuration injected the same way.
func loadEnvironment() (config.Layout, config.Settings, *slog.Logger, error) {
	layout, err := config.DefaultLayout()
	if err != nil {
		return config.Layout{}, config.Settings{}, nil, fmt.Errorf("resolve home directory: %w", err)
	}

	settings, err := config.LoadSettings(layout)
	if err != nil {
		return layout, settings, nil, err
	}

	log, err := logging.FileOnly(layout, debug)
	if err != nil {
		// A broken log dir should not stop a scan; fall back to discard.
		log = logging.Discard()
	}
	return layout, settings, log, nil
}
