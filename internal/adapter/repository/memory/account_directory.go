package memory

import (
	"context"

	"github.com/iho/finledger/internal/domain"
	"github.com/iho/finledger/internal/usecase"
)

// AccountDirectory implements usecase.AccountDirectory.
type AccountDirectory struct {
	store *Store
}

// NewAccountDirectory creates a new AccountDirectory.
func NewAccountDirectory(store *Store) *AccountDirectory {
	return &AccountDirectory{store: store}
}

// GetByID retrieves an account by ID.
func (d *AccountDirectory) GetByID(_ context.Context, id string) (*domain.Account, error) {
	d.store.mu.RLock()
	defer d.store.mu.RUnlock()

	acc, ok := d.store.accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}

	c := *acc
	return &c, nil
}

// GetByIDForUpdate retrieves an account and locks it for the lifetime of tx.
func (d *AccountDirectory) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Account, error) {
	t, err := asTx(tx)
	if err != nil {
		return nil, err
	}

	if err := t.lock(ctx, id); err != nil {
		return nil, err
	}

	return d.GetByID(ctx, id)
}

// Exists reports whether the account is registered.
func (d *AccountDirectory) Exists(ctx context.Context, id string) (bool, error) {
	_, err := d.GetByID(ctx, id)
	if err != nil {
		return false, nil
	}
	return true, nil
}
