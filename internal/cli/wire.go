package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/dmitrijs2005/sharebox/internal/config"
	"github.com/dmitrijs2005/sharebox/internal/filex"
	"github.com/dmitrijs2005/sharebox/internal/linkmeta"
	"github.com/dmitrijs2005/sharebox/internal/logging"
	"github.com/dmitrijs2005/sharebox/internal/netx"
	"github.com/dmitrijs2005/sharebox/internal/repositories/kv"
	"github.com/dmitrijs2005/sharebox/internal/services"
	"github.com/dmitrijs2005/sharebox/internal/store"
)

// Open builds an App from cfg: it opens the configured storage, loads the
// store and wires the link metadata fetcher. Call Close when done.
func Open(ctx context.Context, cfg *config.Config, in io.Reader, out io.Writer, log logging.Logger) (*App, error) {
	repo, closeRepo, err := openRepository(ctx, cfg)
	if err != nil {
		return nil, err
	}

	s := store.New(repo, log.With("component", "store"))
	if err := s.Init(ctx); err != nil {
		_ = closeRepo()
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	fetcher := newFetcher(cfg, log.With("component", "linkmeta"))
	svcLog := log.With("component", "catalog")

	a := NewApp(in, out, cfg.RenderDelay, log, func(m services.Marker) services.CatalogService {
		return services.NewCatalogService(s, fetcher, m, svcLog)
	})
	a.closeFn = closeRepo
	return a, nil
}

// Close releases the storage backend.
func (a *App) Close() error {
	if a.closeFn == nil {
		return nil
	}
	return a.closeFn()
}

func openRepository(ctx context.Context, cfg *config.Config) (kv.Repository, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Storage {
	case config.StorageMemory:
		return kv.NewMemoryRepository(), noop, nil

	case config.StorageJSON:
		repo, err := kv.NewFileRepository(cfg.JSONPath())
		if err != nil {
			return nil, nil, err
		}
		return repo, noop, nil

	case config.StorageSQLite:
		if _, err := filex.EnsureDir(cfg.DataDir); err != nil {
			return nil, nil, err
		}
		db, err := kv.OpenSQLite(ctx, cfg.DatabasePath())
		if err != nil {
			return nil, nil, err
		}
		return kv.NewSQLiteRepository(db), db.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown storage %q", cfg.Storage)
}

func newFetcher(cfg *config.Config, log logging.Logger) linkmeta.Fetcher {
	if cfg.DisableRemoteFetch {
		return linkmeta.Disabled{}
	}
	client := netx.NewClient(cfg.FetchTimeout, netx.NewLimiter(cfg.FetchRatePerSecond, cfg.FetchBurst))
	return linkmeta.NewDefaultChain(client, cfg.MicrolinkEndpoint, cfg.ReaderEndpoint, log)
}
