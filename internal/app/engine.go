package app

import (
	"context"
	"fmt"

	"postsapi/config"
	"postsapi/internal/adapter/out/storage/badgerdb"
	memstore "postsapi/internal/adapter/out/storage/inmemory"
	pgstore "postsapi/internal/adapter/out/storage/postgres"
	"postsapi/internal/service"
	"postsapi/pkg/logger"

	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/avito-tech/go-transaction-manager/trm/v2/manager"
)

// engine is the storage side of one configured database.
type engine struct {
	posts     service.PostStorage
	trManager service.TxManager
	close     func()
}

func openEngine(ctx context.Context, cfg config.DatabaseConfig) (engine, error) {
	family, err := cfg.Family()
	if err != nil {
		return engine{}, err
	}

	switch family {
	case config.FamilyPostgres:
		return openPostgres(ctx, cfg)
	case config.FamilyBadger:
		return openBadger(ctx, cfg)
	default:
		return engine{
			posts:     memstore.NewPostStorage(),
			trManager: memstore.NewTxManager(),
			close:     func() {},
		}, nil
	}
}

// openPostgres creates the schema over a short-lived blocking session, then
// opens the pool the request handlers use.
func openPostgres(ctx context.Context, cfg config.DatabaseConfig) (engine, error) {
	opts := pgstore.PoolOptions{MaxConns: cfg.MaxConns}

	syncURI, err := cfg.SyncURI()
	if err != nil {
		return engine{}, err
	}
	sf, err := pgstore.OpenSync(ctx, syncURI, opts)
	if err != nil {
		return engine{}, fmt.Errorf("sync session factory: %w", err)
	}
	err = pgstore.EnsureSchema(ctx, sf)
	_ = sf.Close()
	if err != nil {
		return engine{}, err
	}

	asyncURI, err := cfg.AsyncURI()
	if err != nil {
		return engine{}, err
	}
	pool, err := pgstore.NewPool(ctx, asyncURI, opts)
	if err != nil {
		return engine{}, fmt.Errorf("pgxpool: %w", err)
	}

	return engine{
		posts:     pgstore.NewPostStorage(pool, trmpgx.DefaultCtxGetter),
		trManager: manager.Must(trmpgx.NewDefaultFactory(pool)),
		close:     pool.Close,
	}, nil
}

func openBadger(ctx context.Context, cfg config.DatabaseConfig) (engine, error) {
	log := logger.FromContext(ctx)

	dir, err := cfg.Location()
	if err != nil {
		return engine{}, err
	}
	db, err := badgerdb.Open(dir, log)
	if err != nil {
		return engine{}, err
	}

	return engine{
		posts:     badgerdb.NewPostStorage(db),
		trManager: badgerdb.NewTxManager(db),
		close: func() {
			if err := db.Close(); err != nil {
				log.Error("close badger", "error", err)
			}
		},
	}, nil
}
