package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/iho/finledger/internal/domain"
	"github.com/iho/finledger/internal/usecase"
)

var (
	// ErrTxClosed is returned when committing a finished transaction.
	ErrTxClosed = errors.New("memory: transaction already closed")

	errForeignTx   = errors.New("memory: transaction was not started by this store")
	errDuplicateID = errors.New("memory: duplicate statement id")
)

// TxManager implements usecase.TransactionManager.
type TxManager struct {
	store *Store
}

// NewTxManager creates a new TxManager.
func NewTxManager(store *Store) *TxManager {
	return &TxManager{store: store}
}

// Begin starts a new transaction.
func (m *TxManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &Tx{store: m.store, held: make(map[string]bool)}, nil
}

// Tx stages appends and holds account locks.
type Tx struct {
	store   *Store
	mu      sync.Mutex
	held    map[string]bool
	pending []*domain.Statement
	closed  bool
}

// Commit publishes staged statements atomically and releases held locks.
func (t *Tx) Commit(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return ErrTxClosed
	}
	t.closed = true
	defer t.release()

	if err := ctx.Err(); err != nil {
		return err
	}

	return t.store.append(t.pending)
}

// Rollback discards staged statements and releases held locks.
// Rolling back a closed transaction is a no-op.
func (t *Tx) Rollback(context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return nil
	}
	t.closed = true
	t.release()

	return nil
}

func (t *Tx) lock(ctx context.Context, accountID string) error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return ErrTxClosed
	}
	if t.held[accountID] {
		t.mu.Unlock()
		return nil
	}
	t.mu.Unlock()

	if err := t.store.lock(ctx, accountID); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		t.store.unlock(accountID)
		return ErrTxClosed
	}
	t.held[accountID] = true

	return nil
}

func (t *Tx) stage(s *domain.Statement) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return ErrTxClosed
	}
	t.pending = append(t.pending, clone(s))

	return nil
}

func (t *Tx) staged(accountID string) []*domain.Statement {
	t.mu.Lock()
	defer t.mu.Unlock()

	var out []*domain.Statement
	for _, s := range t.pending {
		if s.Touches(accountID) {
			out = append(out, clone(s))
		}
	}

	return out
}

// release must be called with t.mu held.
func (t *Tx) release() {
	for id := range t.held {
		t.store.unlock(id)
	}
	t.held = nil
	t.pending = nil
}

func asTx(tx usecase.Transaction) (*Tx, error) {
	t, ok := tx.(*Tx)
	if !ok || t == nil {
		return nil, errForeignTx
	}
	return t, nil
}
