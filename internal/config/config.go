// ABOUTME: Configuration loading with JSON config file and environment overrides
// ABOUTME: Controls data directory, import worker count, and fetch timeout

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/harper/reeder/internal/storage"
)

// dbFilename is the SQLite database filename inside the data directory.
const dbFilename = "reeder.db"

// Config stores reeder configuration. Values come from the JSON config
// file; REEDER_* environment variables override it.
type Config struct {
	// DataDir is the root directory for data storage (reeder.db lives
	// here). Supports ~ expansion. Defaults to ~/.local/share/reeder.
	DataDir string `json:"data_dir,omitempty" env:"REEDER_DATA_DIR"`

	// Workers bounds concurrent feed syncs during OPML import.
	Workers int `json:"workers,omitempty" env:"REEDER_WORKERS"`

	// FetchTimeout is the per-request HTTP timeout (e.g. "30s").
	FetchTimeout time.Duration `json:"fetch_timeout,omitempty" env:"REEDER_FETCH_TIMEOUT"`
}

// GetDataDir returns the configured data directory with ~ expanded,
// defaulting to the standard XDG data directory.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return defaultDataDir()
	}
	return ExpandPath(c.DataDir)
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// OpenStorage opens the SQLite store under the configured data dir.
func (c *Config) OpenStorage() (storage.Store, error) {
	return storage.NewSQLiteStore(filepath.Join(c.GetDataDir(), dbFilename))
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "reeder", "config.json")
}

// Load reads config from disk and applies environment overrides.
// A missing config file is not an error; defaults apply.
func Load() (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(GetConfigPath())
	if err == nil {
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	return &cfg, nil
}

// defaultDataDir returns the standard XDG data directory for reeder.
func defaultDataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "reeder")
}
