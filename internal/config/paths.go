package config

import (
	"os"
	"path/filepath"
)

// Layout is the home-rooted path table every engine works against. It is
// built once and injected; nothing reads path constants from package state.
type Layout struct {
	// Home is the user's home directory.
	Home string

	// Downloads is the default large-file and old-download scan root.
	Downloads string

	// Caches is the per-user cache root (~/Library/Caches).
	Caches string

	// Logs is the per-user log root (~/Library/Logs).
	Logs string

	// Trash is the recoverable trash destination (~/.Trash).
	Trash string

	// AppData, AppLogs and AppLogFile are where macsweep keeps its own state.
	AppData    string
	AppLogs    string
	AppLogFile string

	// ConfigFile is the optional settings file location.
	ConfigFile string

	// BlockedPrefixes are paths that must never be scanned or deleted,
	// regardless of settings. System directories plus sensitive per-user
	// application state.
	BlockedPrefixes []string

	// PersonalRoots are personal-content directories that are off unless
	// the user explicitly opts in.
	PersonalRoots []string
}

// NewLayout builds the fixed layout under the given home directory.
func NewLayout(home string) Layout {
	home = filepath.Clean(home)
	lib := filepath.Join(home, "Library")
	appData := filepath.Join(home, ".macsweep")

	return Layout{
		Home:       home,
		Downloads:  filepath.Join(home, "Downloads"),
		Caches:     filepath.Join(lib, "Caches"),
		Logs:       filepath.Join(lib, "Logs"),
		Trash:      filepath.Join(home, ".Trash"),
		AppData:    appData,
		AppLogs:    filepath.Join(appData, "logs"),
		AppLogFile: filepath.Join(appData, "logs", "app.log"),
		ConfigFile: filepath.Join(appData, "config.yaml"),

		BlockedPrefixes: []string{
			"/System",
			"/bin",
			"/sbin",
			"/usr/bin",
			"/usr/sbin",
			"/usr/lib",
			"/usr/libexec",
			"/usr/share",
			"/Library",
			"/private",
			"/var",
			"/etc",
			"/tmp",
			"/dev",
			"/cores",
			filepath.Join(lib, "Application Support", "com.apple"),
			filepath.Join(lib, "Keychains"),
			filepath.Join(lib, "Mail"),
			filepath.Join(lib, "Messages"),
			filepath.Join(lib, "Calendars"),
			filepath.Join(lib, "Contacts"),
			filepath.Join(lib, "Safari"),
		},

		PersonalRoots: []string{
			filepath.Join(home, "Documents"),
			filepath.Join(home, "Desktop"),
			filepath.Join(home, "Pictures"),
			filepath.Join(home, "Movies"),
			filepath.Join(home, "Music"),
			filepath.Join(lib, "Mobile Documents"), // iCloud Drive
		},
	}
}

// DefaultLayout builds the layout for the current user.
func DefaultLayout() (Layout, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Layout{}, err
	}
	return NewLayout(home), nil
}
