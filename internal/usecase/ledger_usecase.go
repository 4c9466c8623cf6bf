package usecase

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrInconsistentLedger is returned when some account's derived balance is negative.
	ErrInconsistentLedger = errors.New("ledger is inconsistent: negative derived balance")
)

// LedgerUseCase handles ledger-wide operations.
type LedgerUseCase struct {
	ledgerRepo LedgerRepository
	now        func() time.Time
}

// NewLedgerUseCase creates a new LedgerUseCase.
func NewLedgerUseCase(ledgerRepo LedgerRepository) *LedgerUseCase {
	return &LedgerUseCase{
		ledgerRepo: ledgerRepo,
		now:        time.Now,
	}
}

// AccountBalance is an account id paired with its derived balance.
type AccountBalance struct {
	AccountID string
	Balance   decimal.Decimal
}

// ConsistencyReport is the outcome of a consistency check.
type ConsistencyReport struct {
	Consistent bool
	Violations []AccountBalance
	CheckedAt  time.Time
}

// CheckConsistency verifies that no account's derived balance is negative.
// The balance gate makes that impossible; a violation means some writer
// bypassed it. The report is returned together with ErrInconsistentLedger.
func (uc *LedgerUseCase) CheckConsistency(ctx context.Context) (*ConsistencyReport, error) {
	negative, err := uc.ledgerRepo.NegativeBalances(ctx)
	if err != nil {
		return nil, storageError(err)
	}

	report := &ConsistencyReport{
		Consistent: len(negative) == 0,
		Violations: make([]AccountBalance, 0, len(negative)),
		CheckedAt:  uc.now().UTC(),
	}

	for id, balance := range negative {
		report.Violations = append(report.Violations, AccountBalance{AccountID: id, Balance: balance})
	}

	sort.Slice(report.Violations, func(i, j int) bool {
		return report.Violations[i].AccountID < report.Violations[j].AccountID
	})

	if !report.Consistent {
		return report, ErrInconsistentLedger
	}

	return report, nil
}
