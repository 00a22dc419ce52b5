package common

// Persisted storage keys. Each key holds one JSON document.
const (
	KeyProfiles = "profiles"
	KeyProfile  = "profile"
	KeyProducts = "products"
	KeyTheme    = "theme"
)

// AppName is used for the data directory, env prefix and export file names.
const AppName = "sharebox"
