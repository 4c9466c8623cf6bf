// Package memory implements the ledger repositories in process memory.
// Transactions stage appends and hold per-account locks until Commit or
// Rollback, mirroring the row locks of the Postgres adapter.
package memory

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/iho/finledger/internal/domain"
)

// Store holds accounts and the statement log.
type Store struct {
	mu         sync.RWMutex
	accounts   map[string]*domain.Account
	statements []*domain.Statement
	byID       map[string]*domain.Statement

	locksMu sync.Mutex
	locks   map[string]chan struct{}
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		accounts: make(map[string]*domain.Account),
		byID:     make(map[string]*domain.Statement),
		locks:    make(map[string]chan struct{}),
	}
}

// AddAccount registers an account in the directory.
func (s *Store) AddAccount(account *domain.Account) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc := *account
	s.accounts[account.ID] = &acc
}

// Len returns the number of committed statements.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.statements)
}

func (s *Store) accountLock(id string) chan struct{} {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()

	l, ok := s.locks[id]
	if !ok {
		l = make(chan struct{}, 1)
		s.locks[id] = l
	}

	return l
}

func (s *Store) lock(ctx context.Context, id string) error {
	select {
	case s.accountLock(id) <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Store) unlock(id string) {
	<-s.accountLock(id)
}

func (s *Store) append(statements []*domain.Statement) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, st := range statements {
		if _, exists := s.byID[st.ID]; exists {
			return errDuplicateID
		}
	}

	for _, st := range statements {
		s.statements = append(s.statements, st)
		s.byID[st.ID] = st
	}

	return nil
}

func (s *Store) balances() map[string]decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()

	balances := make(map[string]decimal.Decimal)
	for _, st := range s.statements {
		balances[st.OwnerID] = balances[st.OwnerID].Add(domain.Effect(st.OwnerID, st))
		if sender := st.SenderID(); sender != "" && sender != st.OwnerID {
			balances[sender] = balances[sender].Add(domain.Effect(sender, st))
		}
	}

	return balances
}

func clone(s *domain.Statement) *domain.Statement {
	c := *s
	if s.CounterpartyID != nil {
		sender := *s.CounterpartyID
		c.CounterpartyID = &sender
	}
	return &c
}
