package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"postsapi/pkg/logger"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// SyncSessionFactory hands out blocking database/sql transactions. It is used
// for startup work that runs before the server accepts requests.
type SyncSessionFactory struct {
	db *sql.DB
}

func NewSyncSessionFactory(db *sql.DB) *SyncSessionFactory {
	return &SyncSessionFactory{db: db}
}

func OpenSync(ctx context.Context, dsn string, opts PoolOptions) (*SyncSessionFactory, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres dsn is required")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	maxConns := int(opts.MaxConns)
	if maxConns <= 0 {
		maxConns = 2
	}
	db.SetMaxOpenConns(maxConns)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return NewSyncSessionFactory(db), nil
}

// Do runs fn in one transaction: commit on nil, roll back and return fn's
// error otherwise. A panic in fn rolls back and is re-raised.
func (f *SyncSessionFactory) Do(ctx context.Context, fn func(ctx context.Context, tx *sql.Tx) error) (err error) {
	log := logger.FromContext(ctx)

	tx, err := f.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Error("rollback after panic failed", slog.Any("panic", p), slog.String("error", rbErr.Error()))
			}
			panic(p)
		}
	}()

	if err := fn(ctx, tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			log.Error("rollback failed", slog.String("rollback_error", rbErr.Error()), slog.String("error", err.Error()))
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (f *SyncSessionFactory) Close() error {
	return f.db.Close()
}
