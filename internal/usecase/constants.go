package usecase

import "time"

const (
	// DefaultTransactionTimeout is the maximum duration for a database transaction
	// This prevents long-running transactions from holding account locks
	DefaultTransactionTimeout = 10 * time.Second

	// DefaultStatementCacheTTL is how long posted statements stay cached
	DefaultStatementCacheTTL = 10 * time.Minute

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour
)
