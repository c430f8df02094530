package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/viper"
)

// Settings is a read-only snapshot of one scan's configuration. A copy is
// handed to the engine at construction; later edits never affect a scan
// already in flight.
type Settings struct {
	// SizeThresholdMB is the minimum size for the large-file strategy.
	SizeThresholdMB int `mapstructure:"size_threshold_mb"`

	// MaxResults caps the total item count across all strategies.
	MaxResults int `mapstructure:"max_results"`

	IncludeHiddenFiles bool `mapstructure:"include_hidden_files"`

	// OldDownloadsDays is the age cutoff for the old-downloads strategy.
	OldDownloadsDays int `mapstructure:"old_downloads_days"`

	// CacheAgeDays is the age cutoff for the cache strategy. The log
	// strategy shares this threshold.
	CacheAgeDays int `mapstructure:"cache_age_days"`

	// DryRun simulates deletion without touching the filesystem. On by
	// default; turning it off is an explicit act.
	DryRun bool `mapstructure:"dry_run"`

	// AllowPersonalDocs opts personal-content roots into scanning and
	// deletion. It never overrides the blocked-path deny list.
	AllowPersonalDocs bool `mapstructure:"allow_personal_docs"`

	FollowSymlinks bool `mapstructure:"follow_symlinks"`

	ScanLargeFiles bool `mapstructure:"scan_large_files"`
	ScanCaches     bool `mapstructure:"scan_caches"`
	ScanDownloads  bool `mapstructure:"scan_downloads"`
	ScanLogs       bool `mapstructure:"scan_logs"`
	ScanTrash      bool `mapstructure:"scan_trash"`

	// CustomScanFolders are extra large-file roots. Each is validated
	// against the safety rules independently at scan time.
	CustomScanFolders []string `mapstructure:"custom_scan_folders"`
}

// DefaultSettings returns the stock configuration.
func DefaultSettings() Settings {
	return Settings{
		SizeThresholdMB:    1024,
		MaxResults:         500,
		IncludeHiddenFiles: false,
		OldDownloadsDays:   90,
		CacheAgeDays:       30,
		DryRun:             true,
		AllowPersonalDocs:  false,
		FollowSymlinks:     false,
		ScanLargeFiles:     true,
		ScanCaches:         true,
		ScanDownloads:      true,
		ScanLogs:           true,
		ScanTrash:          true,
	}
}

// LoadSettings reads the optional config file and merges it over the
// defaults. A missing file is not an error.
func LoadSettings(layout Layout) (Settings, error) {
	v := viper.New()
	v.SetConfigFile(layout.ConfigFile)
	v.SetConfigType("yaml")

	defaults := DefaultSettings()
	v.SetDefault("size_threshold_mb", defaults.SizeThresholdMB)
	v.SetDefault("max_results", defaults.MaxResults)
	v.SetDefault("include_hidden_files", defaults.IncludeHiddenFiles)
	v.SetDefault("old_downloads_days", defaults.OldDownloadsDays)
	v.SetDefault("cache_age_days", defaults.CacheAgeDays)
	v.SetDefault("dry_run", defaults.DryRun)
	v.SetDefault("allow_personal_docs", defaults.AllowPersonalDocs)
	v.SetDefault("follow_symlinks", defaults.FollowSymlinks)
	v.SetDefault("scan_large_files", defaults.ScanLargeFiles)
	v.SetDefault("scan_caches", defaults.ScanCaches)
	v.SetDefault("scan_downloads", defaults.ScanDownloads)
	v.SetDefault("scan_logs", defaults.ScanLogs)
	v.SetDefault("scan_trash", defaults.ScanTrash)
	v.SetDefault("custom_scan_folders", []string{})

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !isNotExist(err) {
			return defaults, fmt.Errorf("read config %s: %w", layout.ConfigFile, err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return defaults, fmt.Errorf("parse config %s: %w", layout.ConfigFile, err)
	}

	if err := s.Validate(); err != nil {
		return defaults, err
	}
	return s, nil
}

// isNotExist reports whether the error is a missing config file. Viper
// wraps it as a path error when an explicit file path is set.
func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

// Validate rejects settings no scan could run with.
func (s Settings) Validate() error {
	if s.SizeThresholdMB < 0 {
		return fmt.Errorf("size_threshold_mb must be >= 0, got %d", s.SizeThresholdMB)
	}
	if s.MaxResults <= 0 {
		return fmt.Errorf("max_results must be > 0, got %d", s.MaxResults)
	}
	if s.OldDownloadsDays < 0 {
		return fmt.Errorf("old_downloads_days must be >= 0, got %d", s.OldDownloadsDays)
	}
	if s.CacheAgeDays < 0 {
		return fmt.Errorf("cache_age_days must be >= 0, got %d", s.CacheAgeDays)
	}
	return nil
}
