package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/dmitrijs2005/sharebox/internal/config"
	"github.com/dmitrijs2005/sharebox/internal/linkmeta"
	"github.com/dmitrijs2005/sharebox/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T, storage string) *config.Config {
	t.Helper()
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.DataDir = t.TempDir()
	cfg.Storage = storage
	cfg.DisableRemoteFetch = true
	return cfg
}

func TestOpen_PersistsAcrossRuns(t *testing.T) {
	for _, storage := range []string{config.StorageSQLite, config.StorageJSON} {
		t.Run(storage, func(t *testing.T) {
			cfg := testConfig(t, storage)
			ctx := context.Background()

			a, err := Open(ctx, cfg, strings.NewReader(""), &bytes.Buffer{}, logging.Nop())
			require.NoError(t, err)
			mustExec(t, a, "profile ana")
			mustExec(t, a, "theme")
			require.NoError(t, a.Close())

			b, err := Open(ctx, cfg, strings.NewReader(""), &bytes.Buffer{}, logging.Nop())
			require.NoError(t, err)
			defer b.Close()

			vm := b.svc.View()
			assert.Equal(t, "ana", vm.Profile.Username)
			assert.Equal(t, "dark", string(vm.Theme))
		})
	}
}

func TestOpen_MemoryStartsEmpty(t *testing.T) {
	cfg := testConfig(t, config.StorageMemory)
	a, err := Open(context.Background(), cfg, strings.NewReader(""), &bytes.Buffer{}, logging.Nop())
	require.NoError(t, err)
	defer a.Close()

	assert.False(t, a.svc.View().Profile.HasUsername())
}

func TestOpen_UnknownStorage(t *testing.T) {
	cfg := testConfig(t, "floppy")
	_, err := Open(context.Background(), cfg, strings.NewReader(""), &bytes.Buffer{}, logging.Nop())
	assert.ErrorContains(t, err, "unknown storage")
}

func TestNewFetcher(t *testing.T) {
	cfg := testConfig(t, config.StorageMemory)
	assert.IsType(t, linkmeta.Disabled{}, newFetcher(cfg, logging.Nop()))

	cfg.DisableRemoteFetch = false
	assert.IsType(t, &linkmeta.Chain{}, newFetcher(cfg, logging.Nop()))
}
