// Package config loads switchback.toml settings and builds the logger.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/stefanpenner/switchback/pkg/validate"
)

// ProjectFile is the per-curriculum config file inside the data directory.
const ProjectFile = "switchback.toml"

// Config represents switchback.toml.
type Config struct {
	Log LogConfig `toml:"log"`
	TUI TUIConfig `toml:"tui"`
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level  string `toml:"level" validate:"oneof=debug info warn error"`
	Format string `toml:"format" validate:"oneof=console json"`
	// File receives log output. Relative paths are resolved against the data
	// directory. Empty means stderr for commands and no logging in the TUI.
	File string `toml:"file"`
}

// TUIConfig controls the interactive view.
type TUIConfig struct {
	// Watch reloads the view when files under the data directory change.
	Watch bool `toml:"watch"`
	// Style is the glamour style used for node descriptions.
	Style string `toml:"style" validate:"oneof=auto dark light notty"`
}

// Default returns the settings used when no config file sets a key.
func Default() *Config {
	return &Config{
		Log: LogConfig{Level: "warn", Format: "console"},
		TUI: TUIConfig{Watch: true, Style: "auto"},
	}
}

// Load reads the global config and <root>/switchback.toml. Keys set in the
// project file win over the global file, which wins over Default.
func Load(root string) (*Config, error) {
	globalPath, err := globalConfigPath()
	if err != nil {
		return nil, err
	}
	return load(globalPath, filepath.Join(root, ProjectFile), root)
}

func load(globalPath, projectPath, root string) (*Config, error) {
	globalCfg, globalMeta, err := loadConfigFile(globalPath)
	if err != nil {
		return nil, err
	}
	projectCfg, projectMeta, err := loadConfigFile(projectPath)
	if err != nil {
		return nil, err
	}

	merged := mergeConfigs(globalCfg, projectCfg, globalMeta, projectMeta)
	if merged.Log.File != "" && !filepath.IsAbs(merged.Log.File) {
		merged.Log.File = filepath.Join(root, merged.Log.File)
	}
	if err := validate.Struct(merged); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return merged, nil
}

func globalConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "switchback", "config.toml"), nil
}

func loadConfigFile(path string) (*Config, toml.MetaData, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Config{}, toml.MetaData{}, nil
	}
	if err != nil {
		return nil, toml.MetaData{}, fmt.Errorf("read config file %s: %w", path, err)
	}

	var cfg Config
	meta, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, toml.MetaData{}, fmt.Errorf("parse config file %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, toml.MetaData{}, fmt.Errorf("config file %s: unknown key %s", path, undecoded[0])
	}
	return &cfg, meta, nil
}

func mergeConfigs(globalCfg, projectCfg *Config, globalMeta, projectMeta toml.MetaData) *Config {
	merged := Default()

	merged.Log.Level = pickString(merged.Log.Level, "log", "level", globalMeta, globalCfg.Log.Level, projectMeta, projectCfg.Log.Level)
	merged.Log.Format = pickString(merged.Log.Format, "log", "format", globalMeta, globalCfg.Log.Format, projectMeta, projectCfg.Log.Format)
	merged.Log.File = pickString(merged.Log.File, "log", "file", globalMeta, globalCfg.Log.File, projectMeta, projectCfg.Log.File)
	merged.TUI.Style = pickString(merged.TUI.Style, "tui", "style", globalMeta, globalCfg.TUI.Style, projectMeta, projectCfg.TUI.Style)

	if projectMeta.IsDefined("tui", "watch") {
		merged.TUI.Watch = projectCfg.TUI.Watch
	} else if globalMeta.IsDefined("tui", "watch") {
		merged.TUI.Watch = globalCfg.TUI.Watch
	}

	return merged
}

func pickString(def, section, key string, globalMeta toml.MetaData, globalValue string, projectMeta toml.MetaData, projectValue string) string {
	value := def
	if globalMeta.IsDefined(section, key) {
		value = globalValue
	}
	if projectMeta.IsDefined(section, key) {
		value = projectValue
	}
	return strings.TrimSpace(value)
}
