package domain

import "errors"

var (
	// Account errors
	ErrAccountNotFound      = errors.New("account not found")
	ErrActorNotFound        = errors.New("actor account not found")
	ErrCounterpartyNotFound = errors.New("receiver account not found")

	// Statement errors
	ErrInvalidOperationType = errors.New("invalid operation type")
	ErrInvalidAmount        = errors.New("amount must be positive")
	ErrInvalidDescription   = errors.New("invalid description")
	ErrInvalidStatement     = errors.New("statement violates role invariants")
	ErrInsufficientFunds    = errors.New("insufficient funds")
	ErrStatementNotFound    = errors.New("statement not found")

	// ErrStorage wraps any persistence failure. The write may or may not
	// have been applied when the failure happened during commit.
	ErrStorage = errors.New("storage error")
)
