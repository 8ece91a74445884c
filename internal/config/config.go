// Package config resolves runtime settings for the retro command.
//
// Values come from three places. Command-line flags win over environment
// variables, which win over built-in defaults. A .env file, when present, is
// loaded into the environment first without overriding variables that are
// already set.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/pfrederiksen/retro-events/internal/logger"
)

const (
	EnvDataDir  = "RETRO_DATA_DIR"
	EnvWorkers  = "RETRO_WORKERS"
	EnvLogLevel = "RETRO_LOG_LEVEL"
	EnvCatalog  = "RETRO_CATALOG"
)

const (
	// DefaultDataDir holds event files, rosters, archives and the catalog.
	DefaultDataDir = "~/.local/share/retro-events"
	// CatalogFile is the catalog name inside the data directory.
	CatalogFile = "catalog.db"
)

// EnvFiles are the candidate .env locations, tried in order.
var EnvFiles = []string{".env", "../.env"}

// Flags carries command-line values and whether each was given explicitly,
// so that an explicit zero value still overrides the environment.
type Flags struct {
	DataDir    string
	DataDirSet bool

	Workers    int
	WorkersSet bool

	LogLevel    string
	LogLevelSet bool

	Catalog    string
	CatalogSet bool
}

// Config is the merged configuration.
type Config struct {
	DataDir  string
	Workers  int
	LogLevel logger.Level
	// Catalog is the SQLite path of the run catalog.
	Catalog string
}

// LoadEnvFile loads the first readable file among paths into the process
// environment and returns its path, or "" when none could be loaded.
func LoadEnvFile(paths ...string) string {
	for _, path := range paths {
		if err := godotenv.Load(path); err == nil {
			return path
		}
	}
	return ""
}

// Load merges flags over the environment over the defaults.
func Load(f Flags) (Config, error) {
	cfg := Config{
		DataDir:  DefaultDataDir,
		Workers:  runtime.NumCPU(),
		LogLevel: logger.LevelInfo,
	}

	if v, ok := lookup(EnvDataDir); ok {
		cfg.DataDir = v
	}
	if f.DataDirSet {
		cfg.DataDir = f.DataDir
	}
	if strings.TrimSpace(cfg.DataDir) == "" {
		return Config{}, fmt.Errorf("data directory must not be empty")
	}

	if v, ok := lookup(EnvWorkers); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", EnvWorkers, err)
		}
		cfg.Workers = n
	}
	if f.WorkersSet {
		cfg.Workers = f.Workers
	}
	if cfg.Workers < 1 {
		return Config{}, fmt.Errorf("workers must be at least 1, got %d", cfg.Workers)
	}

	level := ""
	if v, ok := lookup(EnvLogLevel); ok {
		level = v
	}
	if f.LogLevelSet {
		level = f.LogLevel
	}
	if level != "" {
		l, err := logger.ParseLevel(level)
		if err != nil {
			return Config{}, err
		}
		cfg.LogLevel = l
	}

	if v, ok := lookup(EnvCatalog); ok {
		cfg.Catalog = v
	}
	if f.CatalogSet {
		cfg.Catalog = f.Catalog
	}
	if cfg.Catalog == "" {
		cfg.Catalog = filepath.Join(cfg.DataDir, CatalogFile)
	}

	var err error
	if cfg.DataDir, err = ExpandHome(cfg.DataDir); err != nil {
		return Config{}, err
	}
	if cfg.Catalog, err = ExpandHome(cfg.Catalog); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ExpandHome replaces a leading ~/ with the user's home directory.
func ExpandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, path[2:]), nil
}

// lookup treats a blank variable as unset.
func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}
