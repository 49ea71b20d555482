package badgerdb

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"postsapi/internal/model"
	"postsapi/internal/service"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func openTestDB(t *testing.T, dir string) *badger.DB {
	t.Helper()

	db, err := Open(dir, discardLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestOpen_EmptyDir(t *testing.T) {
	t.Parallel()

	_, err := Open("  ", discardLogger())
	require.ErrorIs(t, err, ErrEmptyDir)
}

func TestNextID(t *testing.T) {
	t.Parallel()

	db := openTestDB(t, t.TempDir())

	err := db.Update(func(txn *badger.Txn) error {
		for want := int64(1); want <= 3; want++ {
			id, err := nextID(txn, PostSeqKey)
			require.NoError(t, err)
			require.Equal(t, want, id)
		}

		other, err := nextID(txn, "seq/other")
		require.NoError(t, err)
		require.Equal(t, int64(1), other)
		return nil
	})
	require.NoError(t, err)
}

func TestPostKey_Order(t *testing.T) {
	t.Parallel()

	require.Equal(t, "posts/00000000000000000007", string(postKey(7)))
	require.Less(t, string(postKey(9)), string(postKey(10)))
}

func TestPostStorage_CRUD(t *testing.T) {
	t.Parallel()

	db := openTestDB(t, t.TempDir())
	st := NewPostStorage(db)
	tx := NewTxManager(db)
	ctx := context.Background()

	now := time.Date(2025, 5, 6, 7, 8, 9, 123000, time.UTC)

	var created model.Post
	err := tx.Do(ctx, func(ctx context.Context) error {
		var err error
		created, err = st.CreatePost(ctx, model.Post{Title: "t", Content: "c", Author: "Ann", CreatedAt: now, EditedAt: now})
		return err
	})
	require.NoError(t, err)
	require.Equal(t, int64(1), created.ID)

	got, err := st.GetPostByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, created, got)

	got.Title = "t2"
	got.EditedAt = now.Add(time.Second)
	updated, err := st.UpdatePost(ctx, got)
	require.NoError(t, err)

	again, err := st.GetPostByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, updated, again)
	require.Equal(t, now, again.CreatedAt)

	_, err = st.GetPostByID(ctx, 99)
	require.ErrorIs(t, err, service.ErrNotFound)

	_, err = st.UpdatePost(ctx, model.Post{ID: 99, Title: "x"})
	require.ErrorIs(t, err, service.ErrNotFound)
}

func TestPostStorage_ListPosts_IDOrder(t *testing.T) {
	t.Parallel()

	db := openTestDB(t, t.TempDir())
	st := NewPostStorage(db)
	ctx := context.Background()

	empty, err := st.ListPosts(ctx)
	require.NoError(t, err)
	require.NotNil(t, empty)
	require.Empty(t, empty)

	for i := 0; i < 12; i++ {
		_, err := st.CreatePost(ctx, model.Post{Title: "t", Content: "c", Author: "Ann"})
		require.NoError(t, err)
	}

	list, err := st.ListPosts(ctx)
	require.NoError(t, err)
	require.Len(t, list, 12)
	for i, p := range list {
		require.Equal(t, int64(i+1), p.ID)
	}
}

func TestTxManager_RollbackOnError(t *testing.T) {
	t.Parallel()

	db := openTestDB(t, t.TempDir())
	st := NewPostStorage(db)
	tx := NewTxManager(db)
	ctx := context.Background()

	boom := errors.New("boom")
	err := tx.Do(ctx, func(ctx context.Context) error {
		if _, err := st.CreatePost(ctx, model.Post{Title: "lost"}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	list, err := st.ListPosts(ctx)
	require.NoError(t, err)
	require.Empty(t, list)

	// The counter rolled back with the row.
	p, err := st.CreatePost(ctx, model.Post{Title: "kept"})
	require.NoError(t, err)
	require.Equal(t, int64(1), p.ID)
}

func TestTxManager_CanceledContext(t *testing.T) {
	t.Parallel()

	db := openTestDB(t, t.TempDir())
	tx := NewTxManager(db)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := tx.Do(ctx, func(context.Context) error {
		called = true
		return nil
	})
	require.ErrorIs(t, err, context.Canceled)
	require.False(t, called)
}

func TestPostStorage_ConcurrentCreate(t *testing.T) {
	t.Parallel()

	db := openTestDB(t, t.TempDir())
	st := NewPostStorage(db)
	tx := NewTxManager(db)

	const n = 20
	errs := make(chan error, n)
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			errs <- tx.Do(context.Background(), func(ctx context.Context) error {
				_, err := st.CreatePost(ctx, model.Post{Title: "t"})
				return err
			})
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	list, err := st.ListPosts(context.Background())
	require.NoError(t, err)
	require.Len(t, list, n)
	for i, p := range list {
		require.Equal(t, int64(i+1), p.ID)
	}
}

func TestPostStorage_PersistsAcrossReopen(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	db, err := Open(dir, discardLogger())
	require.NoError(t, err)
	_, err = NewPostStorage(db).CreatePost(context.Background(), model.Post{Title: "t", Content: "c", Author: "Ann"})
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db2 := openTestDB(t, dir)
	st := NewPostStorage(db2)

	list, err := st.ListPosts(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)

	p, err := st.CreatePost(context.Background(), model.Post{Title: "t2"})
	require.NoError(t, err)
	require.Equal(t, int64(2), p.ID)
}
