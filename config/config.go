// Package config loads the optional YAML configuration file for the
// rotate CLI. A missing file yields the defaults; a malformed one is an
// error rather than a silent fallback.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds user-tunable settings. Everything has a usable default so
// the tool works with no configuration at all.
type Config struct {
	// JpegtranPath overrides PATH lookup for the jpegtran binary.
	JpegtranPath string `yaml:"jpegtranPath"`

	// MagickPath overrides PATH lookup for the ImageMagick binary.
	MagickPath string `yaml:"magickPath"`

	// BackupDirName is the backup subdirectory created next to each image.
	BackupDirName string `yaml:"backupDirName"`

	// BackupFallbackDir receives backups when the co-located directory
	// cannot be created. Empty means <home>/<BackupDirName>.
	BackupFallbackDir string `yaml:"backupFallbackDir"`

	// ToolTimeoutSeconds bounds one external tool invocation.
	ToolTimeoutSeconds int `yaml:"toolTimeoutSeconds"`

	// SelectionTimeoutSeconds bounds one file-manager selection query.
	SelectionTimeoutSeconds int `yaml:"selectionTimeoutSeconds"`

	// Notifications enables a desktop notification after each successful
	// rotation in interactive mode.
	Notifications bool `yaml:"notifications"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		BackupDirName:           "rotate_bkup",
		ToolTimeoutSeconds:      120,
		SelectionTimeoutSeconds: 5,
	}
}

// DefaultPath returns the conventional config file location,
// ~/.config/rotate/config.yaml.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "rotate", "config.yaml")
}

// Load reads configuration from path. An empty path means DefaultPath().
// A missing file returns the defaults without error.
func Load(path string) (Config, error) {
	if path == "" {
		path = DefaultPath()
	}

	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path) // #nosec G304 -- user-supplied config path
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if cfg.BackupDirName == "" {
		cfg.BackupDirName = Default().BackupDirName
	}
	if cfg.ToolTimeoutSeconds <= 0 {
		cfg.ToolTimeoutSeconds = Default().ToolTimeoutSeconds
	}
	if cfg.SelectionTimeoutSeconds <= 0 {
		cfg.SelectionTimeoutSeconds = Default().SelectionTimeoutSeconds
	}

	return cfg, nil
}

// ToolTimeout returns ToolTimeoutSeconds as a duration.
func (c Config) ToolTimeout() time.Duration {
	return time.Duration(c.ToolTimeoutSeconds) * time.Second
}

// SelectionTimeout returns SelectionTimeoutSeconds as a duration.
func (c Config) SelectionTimeout() time.Duration {
	return time.Duration(c.SelectionTimeoutSeconds) * time.Second
}
