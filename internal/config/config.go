package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// FilePermissions is the default permission mode for regular files (read/write for owner, read for others)
	FilePermissions = 0644
	// DirPermissions is the default permission mode for directories (rwxr-xr-x)
	DirPermissions = 0755
	// SecretPermissions is used for files holding tokens
	SecretPermissions = 0600
)

var (
	// ConfigDir is the global configuration directory (~/.catalog)
	ConfigDir string

	// DatabasePath is the SQLite database file for the write history
	DatabasePath string

	// SessionFile is the session state file (active profile and sign-in tokens)
	SessionFile string

	// ProfilesFile is the profiles configuration file
	ProfilesFile string

	// LogFile receives the logs while the TUI owns the terminal
	LogFile string
)

// Initialize sets up the configuration directories and files
// It creates ~/.catalog/ if it doesn't exist
func Initialize() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}
	return InitializeAt(filepath.Join(homeDir, ".catalog"))
}

// InitializeAt sets up the configuration under dir
func InitializeAt(dir string) error {
	ConfigDir = dir
	DatabasePath = filepath.Join(ConfigDir, "catalog.db")
	SessionFile = filepath.Join(ConfigDir, ".session.json")
	ProfilesFile = filepath.Join(ConfigDir, ".profiles.json")
	LogFile = filepath.Join(ConfigDir, "catalog.log")

	if err := os.MkdirAll(ConfigDir, DirPermissions); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", ConfigDir, err)
	}

	// Create empty session file if it doesn't exist
	if _, err := os.Stat(SessionFile); os.IsNotExist(err) {
		defaultSession := []byte(`{"activeProfile":"Default","historyEnabled":true}`)
		if err := os.WriteFile(SessionFile, defaultSession, SecretPermissions); err != nil {
			return fmt.Errorf("failed to create session file: %w", err)
		}
	}

	// Create default profiles file if it doesn't exist
	if _, err := os.Stat(ProfilesFile); os.IsNotExist(err) {
		defaultProfiles := []byte(`[{"name":"Default","url":"` + DefaultURL + `","headers":{}}]`)
		if err := os.WriteFile(ProfilesFile, defaultProfiles, FilePermissions); err != nil {
			return fmt.Errorf("failed to create profiles file: %w", err)
		}
	}

	return nil
}

// LocalConfigExists checks if there's a local .session.json or .profiles.json
func LocalConfigExists() bool {
	_, sessionErr := os.Stat(".session.json")
	_, profilesErr := os.Stat(".profiles.json")
	return sessionErr == nil || profilesErr == nil
}

// GetSessionFilePath returns the session file path (local or global)
func GetSessionFilePath() string {
	if _, err := os.Stat(".session.json"); err == nil {
		return ".session.json"
	}
	return SessionFile
}

// GetProfilesFilePath returns the profiles file path (local or global)
func GetProfilesFilePath() string {
	if _, err := os.Stat(".profiles.json"); err == nil {
		return ".profiles.json"
	}
	return ProfilesFile
}
