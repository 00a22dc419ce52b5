package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, data map[string]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.json")
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

// parse builds Flags over a fresh flag set and parses args. It also points
// the env file at an empty temp file so a developer's ./.env never leaks in.
func parse(t *testing.T, args ...string) *Flags {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	f := NewFlags(fs)
	require.NoError(t, fs.Parse(args))
	if f.EnvFile == "" {
		empty := filepath.Join(t.TempDir(), "empty.env")
		require.NoError(t, os.WriteFile(empty, nil, 0o600))
		f.EnvFile = empty
	}
	return f
}

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, StorageSQLite, c.Storage)
	assert.Equal(t, 16*time.Millisecond, c.RenderDelay)
	assert.Equal(t, 8*time.Second, c.FetchTimeout)
	assert.NotEmpty(t, c.DataDir)
	assert.NoError(t, c.Validate())
}

func TestLoad_DefaultsOnly(t *testing.T) {
	cfg, err := Load(parse(t))
	require.NoError(t, err)

	var want Config
	want.LoadDefaults()
	assert.Empty(t, cmp.Diff(&want, cfg))
}

func TestLoad_Precedence(t *testing.T) {
	path := writeTempJSON(t, map[string]any{
		"storage":       "json",
		"render_delay":  "50ms",
		"log_level":     "debug",
		"fetch_burst":   7,
		"fetch_timeout": 2000000000,
	})
	t.Setenv(EnvLogLevel, "error")
	t.Setenv(EnvFetchBurst, "9")

	cfg, err := Load(parse(t, "-c", path, "--fetch-burst", "11", "--offline"))
	require.NoError(t, err)

	assert.Equal(t, StorageJSON, cfg.Storage, "json overrides default")
	assert.Equal(t, 50*time.Millisecond, cfg.RenderDelay)
	assert.Equal(t, 2*time.Second, cfg.FetchTimeout)
	assert.Equal(t, "error", cfg.LogLevel, "env overrides json")
	assert.Equal(t, 11, cfg.FetchBurst, "flag overrides env")
	assert.True(t, cfg.DisableRemoteFetch)
}

func TestLoad_FlagsParsedThroughMergedSet(t *testing.T) {
	root := pflag.NewFlagSet("root", pflag.ContinueOnError)
	f := NewFlags(root)
	f.EnvFile = filepath.Join(t.TempDir(), "empty.env")
	require.NoError(t, os.WriteFile(f.EnvFile, nil, 0o600))

	// a subcommand parses its own set that embeds the root's persistent flags
	sub := pflag.NewFlagSet("sub", pflag.ContinueOnError)
	sub.AddFlagSet(root)
	dir := t.TempDir()
	require.NoError(t, sub.Parse([]string{"--data-dir", dir, "--storage", "json", "--offline"}))

	cfg, err := Load(f)
	require.NoError(t, err)
	assert.Equal(t, dir, cfg.DataDir)
	assert.Equal(t, StorageJSON, cfg.Storage)
	assert.True(t, cfg.DisableRemoteFetch)
}

func TestLoad_UnsetFlagsDoNotOverride(t *testing.T) {
	t.Setenv(EnvStorage, "memory")

	cfg, err := Load(parse(t, "--log-level", "info"))
	require.NoError(t, err)
	assert.Equal(t, StorageMemory, cfg.Storage)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_EnvFile(t *testing.T) {
	env := filepath.Join(t.TempDir(), "app.env")
	require.NoError(t, os.WriteFile(env, []byte("SHAREBOX_READER_ENDPOINT=http://reader.local/\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv(EnvReaderEndpoint) })

	cfg, err := Load(parse(t, "--env-file", env))
	require.NoError(t, err)
	assert.Equal(t, "http://reader.local/", cfg.ReaderEndpoint)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing json file", func(t *testing.T) {
		_, err := Load(parse(t, "-c", filepath.Join(t.TempDir(), "nope.json")))
		require.Error(t, err)
	})

	t.Run("invalid json", func(t *testing.T) {
		bad := filepath.Join(t.TempDir(), "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))
		_, err := Load(parse(t, "-c", bad))
		require.Error(t, err)
	})

	t.Run("missing explicit env file", func(t *testing.T) {
		_, err := Load(parse(t, "--env-file", filepath.Join(t.TempDir(), "nope.env")))
		require.Error(t, err)
	})

	t.Run("bad env duration", func(t *testing.T) {
		t.Setenv(EnvRenderDelay, "soon")
		_, err := Load(parse(t))
		require.ErrorContains(t, err, EnvRenderDelay)
	})

	t.Run("unknown storage", func(t *testing.T) {
		_, err := Load(parse(t, "--storage", "postgres"))
		require.ErrorContains(t, err, "unknown storage")
	})
}

func TestPaths(t *testing.T) {
	c := Config{DataDir: "/data"}
	assert.Equal(t, filepath.Join("/data", "sharebox.db"), c.DatabasePath())
	assert.Equal(t, filepath.Join("/data", "sharebox.json"), c.JSONPath())
}
