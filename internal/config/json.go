package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/sharebox/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Pointer
// fields distinguish "absent" from the zero value so a partial file only
// overrides what it names.
type JsonConfig struct {
	DataDir            *string         `json:"data_dir"`
	Storage            *string         `json:"storage"`
	RenderDelay        *timex.Duration `json:"render_delay"`
	LogLevel           *string         `json:"log_level"`
	FetchTimeout       *timex.Duration `json:"fetch_timeout"`
	FetchRatePerSecond *float64        `json:"fetch_rate_per_second"`
	FetchBurst         *int            `json:"fetch_burst"`
	MicrolinkEndpoint  *string         `json:"microlink_endpoint"`
	ReaderEndpoint     *string         `json:"reader_endpoint"`
	DisableRemoteFetch *bool           `json:"disable_remote_fetch"`
}

// parseJson overlays cfg with the values present in the JSON file at path.
// An empty path loads nothing.
func parseJson(cfg *Config, path string) error {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config %s: %w", path, err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if jc.DataDir != nil {
		cfg.DataDir = *jc.DataDir
	}
	if jc.Storage != nil {
		cfg.Storage = *jc.Storage
	}
	if jc.RenderDelay != nil {
		cfg.RenderDelay = jc.RenderDelay.Duration
	}
	if jc.LogLevel != nil {
		cfg.LogLevel = *jc.LogLevel
	}
	if jc.FetchTimeout != nil {
		cfg.FetchTimeout = jc.FetchTimeout.Duration
	}
	if jc.FetchRatePerSecond != nil {
		cfg.FetchRatePerSecond = *jc.FetchRatePerSecond
	}
	if jc.FetchBurst != nil {
		cfg.FetchBurst = *jc.FetchBurst
	}
	if jc.MicrolinkEndpoint != nil {
		cfg.MicrolinkEndpoint = *jc.MicrolinkEndpoint
	}
	if jc.ReaderEndpoint != nil {
		cfg.ReaderEndpoint = *jc.ReaderEndpoint
	}
	if jc.DisableRemoteFetch != nil {
		cfg.DisableRemoteFetch = *jc.DisableRemoteFetch
	}
	return nil
}
