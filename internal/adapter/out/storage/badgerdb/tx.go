package badgerdb

import (
	"context"
	"fmt"
	"sync"

	"github.com/dgraph-io/badger/v4"
)

type txnKey struct{}

// TxManager runs each unit of work in one read-write badger transaction that
// travels in the context. Units are serialized so the id counter is never
// written by two transactions at once.
type TxManager struct {
	db *badger.DB
	mu sync.Mutex
}

func NewTxManager(db *badger.DB) *TxManager {
	return &TxManager{db: db}
}

func (m *TxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := txnFromContext(ctx); ok {
		return fn(ctx)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	txn := m.db.NewTransaction(true)
	defer txn.Discard()

	if err := fn(context.WithValue(ctx, txnKey{}, txn)); err != nil {
		return err
	}
	if err := txn.Commit(); err != nil {
		return fmt.Errorf("commit badger transaction: %w", err)
	}
	return nil
}

func txnFromContext(ctx context.Context) (*badger.Txn, bool) {
	txn, ok := ctx.Value(txnKey{}).(*badger.Txn)
	return txn, ok
}
