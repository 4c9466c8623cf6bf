package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/iho/finledger/internal/domain"
	"github.com/iho/finledger/internal/infrastructure/postgres/generated"
	"github.com/iho/finledger/internal/usecase"
)

// AccountDirectory implements usecase.AccountDirectory over the users table.
type AccountDirectory struct {
	queries *generated.Queries
}

// NewAccountDirectory creates a new AccountDirectory.
func NewAccountDirectory(db generated.DBTX) *AccountDirectory {
	return &AccountDirectory{queries: generated.New(db)}
}

// GetByID retrieves an account by ID.
func (d *AccountDirectory) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	uid, ok := parseAccountID(id)
	if !ok {
		return nil, domain.ErrAccountNotFound
	}

	row, err := d.queries.GetUserByID(ctx, uid)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}

	return rowToAccount(row), nil
}

// GetByIDForUpdate retrieves an account by ID with a FOR NO KEY UPDATE lock held
// until tx ends. The lock does not conflict with the KEY SHARE locks taken by
// foreign key checks of statement inserts.
func (d *AccountDirectory) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Account, error) {
	pgxTx, err := pgxTxFrom(tx)
	if err != nil {
		return nil, err
	}

	uid, ok := parseAccountID(id)
	if !ok {
		return nil, domain.ErrAccountNotFound
	}

	row, err := generated.New(pgxTx).GetUserByIDForUpdate(ctx, uid)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}

	return rowToAccount(row), nil
}

// Exists reports whether the account is registered.
func (d *AccountDirectory) Exists(ctx context.Context, id string) (bool, error) {
	uid, ok := parseAccountID(id)
	if !ok {
		return false, nil
	}

	return d.queries.UserExists(ctx, uid)
}

func rowToAccount(row generated.User) *domain.Account {
	return &domain.Account{
		ID:        uuidToString(row.ID),
		Name:      row.Name,
		Email:     row.Email,
		CreatedAt: row.CreatedAt.Time,
		UpdatedAt: row.UpdatedAt.Time,
	}
}
