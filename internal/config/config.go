package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/dmitrijs2005/sharebox/internal/common"
	"github.com/dmitrijs2005/sharebox/internal/filex"
)

// Storage backends.
const (
	StorageSQLite = "sqlite"
	StorageJSON   = "json"
	StorageMemory = "memory"
)

// Config holds runtime settings for the sharebox CLI.
type Config struct {
	DataDir string
	// Storage is one of StorageSQLite, StorageJSON or StorageMemory.
	Storage     string
	RenderDelay time.Duration
	LogLevel    string

	FetchTimeout       time.Duration
	FetchRatePerSecond float64
	FetchBurst         int
	MicrolinkEndpoint  string
	ReaderEndpoint     string
	DisableRemoteFetch bool
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DataDir = filex.DefaultDataDir(common.AppName)
	c.Storage = StorageSQLite
	c.RenderDelay = 16 * time.Millisecond
	c.LogLevel = "warn"
	c.FetchTimeout = 8 * time.Second
	c.FetchRatePerSecond = 1
	c.FetchBurst = 2
	c.MicrolinkEndpoint = "https://api.microlink.io/"
	c.ReaderEndpoint = "https://r.jina.ai/"
	c.DisableRemoteFetch = false
}

// Validate reports the first setting that cannot be used.
func (c *Config) Validate() error {
	switch c.Storage {
	case StorageSQLite, StorageJSON, StorageMemory:
	default:
		return fmt.Errorf("unknown storage %q (want %s, %s or %s)", c.Storage, StorageSQLite, StorageJSON, StorageMemory)
	}
	if c.Storage != StorageMemory && c.DataDir == "" {
		return fmt.Errorf("data dir is required for %s storage", c.Storage)
	}
	if c.RenderDelay < 0 {
		return fmt.Errorf("render delay must not be negative")
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("fetch timeout must be positive")
	}
	return nil
}

// DatabasePath is the sqlite file inside DataDir.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir, common.AppName+".db")
}

// JSONPath is the JSON store file inside DataDir.
func (c *Config) JSONPath() string {
	return filepath.Join(c.DataDir, common.AppName+".json")
}

// Load builds a Config from defaults, the JSON file named by flags, the
// environment and finally the flags that were set explicitly.
func Load(f *Flags) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseJson(cfg, f.ConfigPath); err != nil {
		return nil, err
	}
	if err := loadEnv(cfg, f.EnvFile); err != nil {
		return nil, err
	}
	f.apply(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
