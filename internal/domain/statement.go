package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OperationType is the kind of a ledger statement.
type OperationType string

const (
	OperationDeposit  OperationType = "deposit"
	OperationWithdraw OperationType = "withdraw"
	OperationTransfer OperationType = "transfer"
)

var validOperationTypes = map[OperationType]bool{
	OperationDeposit:  true,
	OperationWithdraw: true,
	OperationTransfer: true,
}

// ParseOperationType converts a raw value into an OperationType.
func ParseOperationType(s string) (OperationType, error) {
	t := OperationType(s)
	if !t.IsValid() {
		return "", ErrInvalidOperationType
	}
	return t, nil
}

// IsValid checks if the operation type is one of the known kinds.
func (t OperationType) IsValid() bool {
	return validOperationTypes[t]
}

// IsDebit reports whether the operation can reduce the actor's balance.
func (t OperationType) IsDebit() bool {
	return t == OperationWithdraw || t == OperationTransfer
}

func (t OperationType) String() string {
	return string(t)
}

// Statement is a single append-only ledger record.
//
// For deposits and withdrawals OwnerID is the requesting account and
// CounterpartyID is nil. For transfers OwnerID is the receiver and
// CounterpartyID is the sender.
type Statement struct {
	CreatedAt      time.Time
	UpdatedAt      time.Time
	ID             string
	OwnerID        string
	CounterpartyID *string
	Type           OperationType
	Description    string
	Amount         decimal.Decimal
}

// Validate checks the role invariants of a record before it is appended.
func (s *Statement) Validate() error {
	if !s.Type.IsValid() {
		return ErrInvalidOperationType
	}

	if !s.Amount.IsPositive() {
		return ErrInvalidAmount
	}

	if s.OwnerID == "" {
		return ErrInvalidStatement
	}

	switch s.Type {
	case OperationTransfer:
		if s.CounterpartyID == nil || *s.CounterpartyID == "" {
			return ErrInvalidStatement
		}
	default:
		if s.CounterpartyID != nil {
			return ErrInvalidStatement
		}
	}

	return nil
}

// SenderID returns the debited account of a transfer, or empty string.
func (s *Statement) SenderID() string {
	if s.CounterpartyID == nil {
		return ""
	}
	return *s.CounterpartyID
}

// Touches reports whether the record participates in accountID's balance.
func (s *Statement) Touches(accountID string) bool {
	return s.OwnerID == accountID || s.SenderID() == accountID
}
