package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
)

func TestLedgerRepositoryNegativeBalances(t *testing.T) {
	pool := newMockPool(t)
	repo := NewLedgerRepository(pool)
	id := uuid.NewString()

	pool.ExpectQuery("HAVING SUM\\(delta\\) < 0").
		WillReturnRows(pgxmock.NewRows([]string{"account_id", "balance"}).
			AddRow(pgUUID(t, id), decimalToNumeric(decimal.RequireFromString("-3.50"))))

	negative, err := repo.NegativeBalances(context.Background())
	if err != nil {
		t.Fatalf("NegativeBalances: %v", err)
	}
	if !negative[id].Equal(decimal.RequireFromString("-3.5")) {
		t.Fatalf("unexpected result %v", negative)
	}

	assertExpectations(t, pool)
}

func TestLedgerRepositoryNegativeBalancesError(t *testing.T) {
	pool := newMockPool(t)
	repo := NewLedgerRepository(pool)
	queryErr := errors.New("statement timeout")

	pool.ExpectQuery("WITH effects").WillReturnError(queryErr)

	if _, err := repo.NegativeBalances(context.Background()); !errors.Is(err, queryErr) {
		t.Fatalf("expected query error, got %v", err)
	}
}
