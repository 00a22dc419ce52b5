package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Environment variable names.
const (
	EnvDataDir            = "SHAREBOX_DATA_DIR"
	EnvStorage            = "SHAREBOX_STORAGE"
	EnvRenderDelay        = "SHAREBOX_RENDER_DELAY"
	EnvLogLevel           = "SHAREBOX_LOG_LEVEL"
	EnvFetchTimeout       = "SHAREBOX_FETCH_TIMEOUT"
	EnvFetchRatePerSecond = "SHAREBOX_FETCH_RATE_PER_SECOND"
	EnvFetchBurst         = "SHAREBOX_FETCH_BURST"
	EnvMicrolinkEndpoint  = "SHAREBOX_MICROLINK_ENDPOINT"
	EnvReaderEndpoint     = "SHAREBOX_READER_ENDPOINT"
	EnvDisableRemoteFetch = "SHAREBOX_OFFLINE"
)

// loadEnv reads envFile (default ".env") into the process environment without
// overriding variables that are already set, then overlays cfg with every
// SHAREBOX_* variable present. A missing default .env is not an error.
func loadEnv(cfg *Config, envFile string) error {
	explicit := envFile != ""
	if !explicit {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	if v, ok := os.LookupEnv(EnvDataDir); ok && v != "" {
		cfg.DataDir = v
	}
	if v, ok := os.LookupEnv(EnvStorage); ok && v != "" {
		cfg.Storage = v
	}
	if v, ok := os.LookupEnv(EnvLogLevel); ok && v != "" {
		cfg.LogLevel = v
	}
	if v, ok := os.LookupEnv(EnvMicrolinkEndpoint); ok && v != "" {
		cfg.MicrolinkEndpoint = v
	}
	if v, ok := os.LookupEnv(EnvReaderEndpoint); ok && v != "" {
		cfg.ReaderEndpoint = v
	}

	var err error
	if cfg.RenderDelay, err = envDuration(EnvRenderDelay, cfg.RenderDelay); err != nil {
		return err
	}
	if cfg.FetchTimeout, err = envDuration(EnvFetchTimeout, cfg.FetchTimeout); err != nil {
		return err
	}
	if v, ok := os.LookupEnv(EnvFetchRatePerSecond); ok && v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvFetchRatePerSecond, err)
		}
		cfg.FetchRatePerSecond = f
	}
	if v, ok := os.LookupEnv(EnvFetchBurst); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvFetchBurst, err)
		}
		cfg.FetchBurst = n
	}
	if v, ok := os.LookupEnv(EnvDisableRemoteFetch); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvDisableRemoteFetch, err)
		}
		cfg.DisableRemoteFetch = b
	}
	return nil
}

func envDuration(name string, current time.Duration) (time.Duration, error) {
	v, ok := os.LookupEnv(name)
	if !ok || v == "" {
		return current, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return current, fmt.Errorf("invalid %s: %w", name, err)
	}
	return d, nil
}
