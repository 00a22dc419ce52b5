package config

import (
	"github.com/spf13/pflag"
)

// Flags binds the configuration flags to a pflag.FlagSet (usually a cobra
// command's persistent flags). Only flags the user actually set override
// values from the other sources.
type Flags struct {
	fs     *pflag.FlagSet
	values Config

	ConfigPath string
	EnvFile    string
}

// NewFlags registers the configuration flags on fs. Defaults shown in help
// come from (*Config).LoadDefaults.
func NewFlags(fs *pflag.FlagSet) *Flags {
	f := &Flags{fs: fs}
	f.values.LoadDefaults()
	v := &f.values

	fs.StringVarP(&f.ConfigPath, "config", "c", "", "path to JSON config file")
	fs.StringVar(&f.EnvFile, "env-file", "", "path to .env file (default ./.env when present)")
	fs.StringVarP(&v.DataDir, "data-dir", "d", v.DataDir, "directory holding the catalog data")
	fs.StringVarP(&v.Storage, "storage", "s", v.Storage, "storage backend: sqlite, json or memory")
	fs.DurationVar(&v.RenderDelay, "render-delay", v.RenderDelay, "redraw coalescing delay")
	fs.StringVar(&v.LogLevel, "log-level", v.LogLevel, "log level: debug, info, warn or error")
	fs.DurationVar(&v.FetchTimeout, "fetch-timeout", v.FetchTimeout, "timeout for link metadata requests")
	fs.Float64Var(&v.FetchRatePerSecond, "fetch-rate", v.FetchRatePerSecond, "link metadata requests per second (0 = unlimited)")
	fs.IntVar(&v.FetchBurst, "fetch-burst", v.FetchBurst, "link metadata request burst")
	fs.StringVar(&v.MicrolinkEndpoint, "microlink-endpoint", v.MicrolinkEndpoint, "Microlink API endpoint")
	fs.StringVar(&v.ReaderEndpoint, "reader-endpoint", v.ReaderEndpoint, "reader service endpoint")
	fs.BoolVar(&v.DisableRemoteFetch, "offline", v.DisableRemoteFetch, "disable link metadata fetching")

	return f
}

// apply copies every explicitly set flag into cfg. Changed is read from each
// flag rather than from fs.Visit: cobra parses the executing command's merged
// flag set, which shares the *pflag.Flag values but not fs's record of what
// was set.
func (f *Flags) apply(cfg *Config) {
	v := f.values
	set := map[string]func(){
		"data-dir":           func() { cfg.DataDir = v.DataDir },
		"storage":            func() { cfg.Storage = v.Storage },
		"render-delay":       func() { cfg.RenderDelay = v.RenderDelay },
		"log-level":          func() { cfg.LogLevel = v.LogLevel },
		"fetch-timeout":      func() { cfg.FetchTimeout = v.FetchTimeout },
		"fetch-rate":         func() { cfg.FetchRatePerSecond = v.FetchRatePerSecond },
		"fetch-burst":        func() { cfg.FetchBurst = v.FetchBurst },
		"microlink-endpoint": func() { cfg.MicrolinkEndpoint = v.MicrolinkEndpoint },
		"reader-endpoint":    func() { cfg.ReaderEndpoint = v.ReaderEndpoint },
		"offline":            func() { cfg.DisableRemoteFetch = v.DisableRemoteFetch },
	}
	f.fs.VisitAll(func(fl *pflag.Flag) {
		if !fl.Changed {
			return
		}
		if fn, ok := set[fl.Name]; ok {
			fn()
		}
	})
}
