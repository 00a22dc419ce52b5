// Package config loads runtime configuration for sharebox.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c / --config.
//  3. A .env file (if present) and SHAREBOX_* environment variables.
//  4. Command-line flags that were explicitly set.
//
// # JSON schema
//
// Intervals use timex.Duration, so values can be strings like "16ms" or
// integer nanoseconds:
//
//	{
//	  "data_dir": "/home/me/.config/sharebox",
//	  "storage": "sqlite",
//	  "render_delay": "16ms",
//	  "log_level": "info",
//	  "fetch_timeout": "8s",
//	  "fetch_rate_per_second": 1,
//	  "fetch_burst": 2,
//	  "microlink_endpoint": "https://api.microlink.io/",
//	  "reader_endpoint": "https://r.jina.ai/",
//	  "disable_remote_fetch": false
//	}
package config
