package memory

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/iho/finledger/internal/domain"
	"github.com/iho/finledger/internal/usecase"
)

// StatementRepository implements usecase.StatementRepository.
type StatementRepository struct {
	store *Store
}

// NewStatementRepository creates a new StatementRepository.
func NewStatementRepository(store *Store) *StatementRepository {
	return &StatementRepository{store: store}
}

// Create stages a statement; it becomes visible when tx commits.
func (r *StatementRepository) Create(_ context.Context, tx usecase.Transaction, statement *domain.Statement) error {
	t, err := asTx(tx)
	if err != nil {
		return err
	}
	return t.stage(statement)
}

// FindByIDAndOwner retrieves a committed statement visible to ownerID.
func (r *StatementRepository) FindByIDAndOwner(_ context.Context, id, ownerID string) (*domain.Statement, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	s, ok := r.store.byID[id]
	if !ok || s.OwnerID != ownerID {
		return nil, domain.ErrStatementNotFound
	}

	return clone(s), nil
}

// ListForBalance returns committed statements touching accountID in append order.
func (r *StatementRepository) ListForBalance(_ context.Context, accountID string) ([]*domain.Statement, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var out []*domain.Statement
	for _, s := range r.store.statements {
		if s.Touches(accountID) {
			out = append(out, clone(s))
		}
	}

	return out, nil
}

// ListForBalanceTx is ListForBalance plus the statements staged in tx.
func (r *StatementRepository) ListForBalanceTx(ctx context.Context, tx usecase.Transaction, accountID string) ([]*domain.Statement, error) {
	t, err := asTx(tx)
	if err != nil {
		return nil, err
	}

	out, err := r.ListForBalance(ctx, accountID)
	if err != nil {
		return nil, err
	}

	return append(out, t.staged(accountID)...), nil
}

// LedgerRepository implements usecase.LedgerRepository.
type LedgerRepository struct {
	store *Store
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(store *Store) *LedgerRepository {
	return &LedgerRepository{store: store}
}

// NegativeBalances returns accounts whose derived balance is below zero.
func (r *LedgerRepository) NegativeBalances(context.Context) (map[string]decimal.Decimal, error) {
	out := make(map[string]decimal.Decimal)
	for id, balance := range r.store.balances() {
		if balance.IsNegative() {
			out[id] = balance
		}
	}
	return out, nil
}
