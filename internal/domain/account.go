package domain

import "time"

// Account is an entry of the account directory.
// The ledger only reads accounts; it never creates or mutates them.
type Account struct {
	ID        string
	Name      string
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
