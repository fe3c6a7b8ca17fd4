package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

const appDirName = "choco"

// HomeEnv overrides the application data directory when set.
const HomeEnv = "CHOCO_HOME"

// AppDataDir returns the application data directory for settings, logs and
// history. Uses os.UserConfigDir() which returns:
//   - macOS: ~/Library/Application Support
//   - Linux: $XDG_CONFIG_HOME or ~/.config
//   - Windows: %AppData% (roaming)
func AppDataDir() string {
	if dir := os.Getenv(HomeEnv); dir != "" {
		_ = os.MkdirAll(dir, 0700)
		return dir
	}

	dir, err := os.UserConfigDir()
	if err != nil {
		return "."
	}

	path := filepath.Join(dir, appDirName)
	_ = os.MkdirAll(path, 0700)
	return path
}

// AppLocalDataDir returns the OS-appropriate local data directory, used for
// the history database.
//   - macOS: ~/Library/Application Support/choco
//   - Linux: $XDG_DATA_HOME/choco or ~/.local/share/choco
//   - Windows: %LOCALAPPDATA%\choco
func AppLocalDataDir() string {
	if dir := os.Getenv(HomeEnv); dir != "" {
		return dir
	}

	var base string

	switch runtime.GOOS {
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "."
		}
		base = filepath.Join(home, "Library", "Application Support")

	case "windows":
		base = os.Getenv("LOCALAPPDATA")
		if base == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "."
			}
			base = filepath.Join(home, "AppData", "Local")
		}

	default:
		base = os.Getenv("XDG_DATA_HOME")
		if base == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "."
			}
			base = filepath.Join(home, ".local", "share")
		}
	}

	return filepath.Join(base, appDirName)
}

// SettingsFilePath returns the host settings file.
func SettingsFilePath() string {
	return filepath.Join(AppDataDir(), "settings")
}

// LogFilePath returns the path to the application log file.
func LogFilePath() string {
	return filepath.Join(AppDataDir(), "choco.log")
}

// HistoryDBPath returns the path of the command history database.
func HistoryDBPath() string {
	return filepath.Join(AppLocalDataDir(), "history.db")
}

// CfgDir returns the default directory for console config scripts.
func CfgDir() string {
	return filepath.Join(AppDataDir(), "cfg")
}
