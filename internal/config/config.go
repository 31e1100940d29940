// Package config loads the human-editable TOML document that names the
// catalog destination, the watched directories, and the installed-plugin
// inventory location.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

const userHomeToken = "{USER_HOME}"

// Config is the parsed, substituted configuration snapshot. It is
// constructed once at startup and passed down as an explicit value; there
// is no process-wide mutable configuration state.
type Config struct {
	DatabasePath    DatabasePath    `toml:"database_path"`
	Directories     Directories     `toml:"directories"`
	LiveDatabaseDir LiveDatabaseDir `toml:"live_database_dir"`
}

// DatabasePath names the destination of the catalog store.
type DatabasePath struct {
	Path string `toml:"path"`
}

// Directories lists the ordered roots to watch and scan.
type Directories struct {
	Paths []string `toml:"paths"`
}

// LiveDatabaseDir names the directory holding the auxiliary
// installed-plugin inventory databases (C9).
type LiveDatabaseDir struct {
	Dir string `toml:"dir"`
}

// Load reads and parses the TOML document at path, substituting
// {USER_HOME} with the current user's home directory in every path-like
// field.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %q: %w", path, err)
	}

	var cfg Config
	if err := toml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("config: resolve user home: %w", err)
	}

	cfg.DatabasePath.Path = substitute(cfg.DatabasePath.Path, home)
	cfg.LiveDatabaseDir.Dir = substitute(cfg.LiveDatabaseDir.Dir, home)
	for i, p := range cfg.Directories.Paths {
		cfg.Directories.Paths[i] = substitute(p, home)
	}

	if cfg.DatabasePath.Path == "" {
		return nil, fmt.Errorf("config: %q: database_path.path is required", path)
	}
	if len(cfg.Directories.Paths) == 0 {
		return nil, fmt.Errorf("config: %q: directories.paths must name at least one root", path)
	}

	return &cfg, nil
}

func substitute(s, home string) string {
	return strings.ReplaceAll(s, userHomeToken, home)
}
