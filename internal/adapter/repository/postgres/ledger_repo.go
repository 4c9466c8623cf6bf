package postgres

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/iho/finledger/internal/infrastructure/postgres/generated"
)

// LedgerRepository implements usecase.LedgerRepository.
type LedgerRepository struct {
	queries *generated.Queries
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(db generated.DBTX) *LedgerRepository {
	return &LedgerRepository{queries: generated.New(db)}
}

// NegativeBalances folds the whole log in SQL and returns accounts below zero.
func (r *LedgerRepository) NegativeBalances(ctx context.Context) (map[string]decimal.Decimal, error) {
	rows, err := r.queries.ListNegativeBalances(ctx)
	if err != nil {
		return nil, err
	}

	out := make(map[string]decimal.Decimal, len(rows))
	for _, row := range rows {
		out[uuidToString(row.AccountID)] = numericToDecimal(row.Balance)
	}

	return out, nil
}
