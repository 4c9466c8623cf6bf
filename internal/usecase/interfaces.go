package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/finledger/internal/domain"
)

// AccountDirectory resolves account identifiers. The ledger never
// creates or deletes accounts.
type AccountDirectory interface {
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	// GetByIDForUpdate resolves the account and holds its per-account lock
	// until tx is committed or rolled back.
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Account, error)
	Exists(ctx context.Context, id string) (bool, error)
}

// StatementRepository is the append-only transaction log.
type StatementRepository interface {
	Create(ctx context.Context, tx Transaction, statement *domain.Statement) error
	FindByIDAndOwner(ctx context.Context, id, ownerID string) (*domain.Statement, error)
	ListForBalance(ctx context.Context, accountID string) ([]*domain.Statement, error)
	ListForBalanceTx(ctx context.Context, tx Transaction, accountID string) ([]*domain.Statement, error)
}

// LedgerRepository defines ledger-wide read queries.
type LedgerRepository interface {
	// NegativeBalances returns every account whose derived balance is below zero.
	NegativeBalances(ctx context.Context) (map[string]decimal.Decimal, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Retrier re-runs an operation on transient lock conflicts.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// StatementCache caches posted statements. Statements are immutable, so
// entries never need invalidation.
type StatementCache interface {
	Get(ctx context.Context, id string) (*domain.Statement, error)
	Set(ctx context.Context, statement *domain.Statement, ttl time.Duration) error
}

// MetricsRecorder observes ledger operation outcomes.
type MetricsRecorder interface {
	StatementPosted(opType domain.OperationType, amount decimal.Decimal, duration time.Duration)
	StatementRejected(opType domain.OperationType, reason string)
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error). existingValue is nil while the
	// request holding the key is still in flight.
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release drops a key whose request did not complete successfully.
	Release(ctx context.Context, key string) error
}
