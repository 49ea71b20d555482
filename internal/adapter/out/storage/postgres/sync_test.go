package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"postsapi/pkg/tableinfo"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

func newSyncMock(t *testing.T) (*SyncSessionFactory, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return NewSyncSessionFactory(db), mock
}

func TestSyncSessionFactory_Do(t *testing.T) {
	tests := []struct {
		name    string
		fn      func(ctx context.Context, tx *sql.Tx) error
		expect  func(m sqlmock.Sqlmock)
		wantErr error
	}{
		{
			name: "commit on success",
			fn: func(ctx context.Context, tx *sql.Tx) error {
				_, err := tx.ExecContext(ctx, "SELECT 1")
				return err
			},
			expect: func(m sqlmock.Sqlmock) {
				m.ExpectBegin()
				m.ExpectExec("SELECT 1").WillReturnResult(sqlmock.NewResult(0, 0))
				m.ExpectCommit()
			},
		},
		{
			name: "rollback returns original error",
			fn: func(context.Context, *sql.Tx) error {
				return errors.New("boom")
			},
			expect: func(m sqlmock.Sqlmock) {
				m.ExpectBegin()
				m.ExpectRollback()
			},
			wantErr: errors.New("boom"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, mock := newSyncMock(t)
			tt.expect(mock)

			err := f.Do(context.Background(), tt.fn)
			if tt.wantErr != nil {
				require.EqualError(t, err, tt.wantErr.Error())
			} else {
				require.NoError(t, err)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestSyncSessionFactory_Do_BeginError(t *testing.T) {
	f, mock := newSyncMock(t)
	mock.ExpectBegin().WillReturnError(errors.New("no conn"))

	called := false
	err := f.Do(context.Background(), func(context.Context, *sql.Tx) error {
		called = true
		return nil
	})
	require.Error(t, err)
	require.False(t, called)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSyncSessionFactory_Do_PanicRollsBack(t *testing.T) {
	f, mock := newSyncMock(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	require.PanicsWithValue(t, "kaboom", func() {
		_ = f.Do(context.Background(), func(context.Context, *sql.Tx) error {
			panic("kaboom")
		})
	})
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureSchema(t *testing.T) {
	f, mock := newSyncMock(t)
	mock.ExpectBegin()
	mock.ExpectExec(tableinfo.Posts.CreateIfNotExistsSQL()).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	require.NoError(t, EnsureSchema(context.Background(), f))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureSchema_Error(t *testing.T) {
	f, mock := newSyncMock(t)
	mock.ExpectBegin()
	mock.ExpectExec(tableinfo.Posts.CreateIfNotExistsSQL()).WillReturnError(errors.New("permission denied"))
	mock.ExpectRollback()

	err := EnsureSchema(context.Background(), f)
	require.ErrorContains(t, err, "create table posts")
	require.NoError(t, mock.ExpectationsWereMet())
}
