package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"postsapi/pkg/logger"
	"postsapi/pkg/tableinfo"
)

// EnsureSchema creates missing tables. Existing tables and rows are left alone.
func EnsureSchema(ctx context.Context, f *SyncSessionFactory) error {
	err := f.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, tableinfo.Posts.CreateIfNotExistsSQL())
		return err
	})
	if err != nil {
		return fmt.Errorf("create table %s: %w", tableinfo.PostsTableName, err)
	}

	logger.FromContext(ctx).Info("schema ready", "table", tableinfo.PostsTableName)
	return nil
}
