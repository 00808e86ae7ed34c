package store

import (
	"os"
	"path/filepath"
	"runtime"
)

// DefaultDataDir returns where curricula live when neither --dir nor
// SWITCHBACK_DIR is set.
//
//   - macOS:   ~/Library/Application Support/switchback
//   - Linux:   $XDG_DATA_HOME/switchback (fallback ~/.local/share/switchback)
//   - Windows: %LOCALAPPDATA%\switchback (fallback %APPDATA%\switchback)
func DefaultDataDir() string {
	return defaultDataDirForOS(runtime.GOOS)
}

func defaultDataDirForOS(goos string) string {
	home, _ := os.UserHomeDir()

	switch goos {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "switchback")
	case "windows":
		if dir := os.Getenv("LOCALAPPDATA"); dir != "" {
			return filepath.Join(dir, "switchback")
		}
		if dir := os.Getenv("APPDATA"); dir != "" {
			return filepath.Join(dir, "switchback")
		}
		return filepath.Join(home, "switchback")
	default: // linux, freebsd, etc.
		if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
			return filepath.Join(dir, "switchback")
		}
		return filepath.Join(home, ".local", "share", "switchback")
	}
}

// EnvDataDir overrides the default data directory.
const EnvDataDir = "SWITCHBACK_DIR"

// ResolveDataDir picks the data directory: an explicit flag value wins, then
// $SWITCHBACK_DIR, then DefaultDataDir.
func ResolveDataDir(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if dir := os.Getenv(EnvDataDir); dir != "" {
		return dir
	}
	return DefaultDataDir()
}
