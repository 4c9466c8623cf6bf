package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/finledger/internal/domain"
)

// StatementUseCase posts deposits, withdrawals and transfers to the
// statement log and derives balances from it.
type StatementUseCase struct {
	txManager  TransactionManager
	accounts   AccountDirectory
	statements StatementRepository
	idGen      IDGenerator
	retrier    Retrier
	cache      StatementCache
	cacheTTL   time.Duration
	metrics    MetricsRecorder
	now        func() time.Time
	txTimeout  time.Duration
}

// StatementOption configures optional collaborators of StatementUseCase.
type StatementOption func(*StatementUseCase)

// WithRetrier re-runs the gate-and-append transaction on transient lock conflicts.
func WithRetrier(r Retrier) StatementOption {
	return func(uc *StatementUseCase) { uc.retrier = r }
}

// WithCache enables read-through caching of posted statements.
func WithCache(c StatementCache, ttl time.Duration) StatementOption {
	return func(uc *StatementUseCase) {
		uc.cache = c
		uc.cacheTTL = ttl
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m MetricsRecorder) StatementOption {
	return func(uc *StatementUseCase) { uc.metrics = m }
}

// WithClock overrides the time source used for statement timestamps.
func WithClock(now func() time.Time) StatementOption {
	return func(uc *StatementUseCase) { uc.now = now }
}

// NewStatementUseCase creates a new StatementUseCase.
func NewStatementUseCase(
	txManager TransactionManager,
	accounts AccountDirectory,
	statements StatementRepository,
	idGen IDGenerator,
	opts ...StatementOption,
) *StatementUseCase {
	uc := &StatementUseCase{
		txManager:  txManager,
		accounts:   accounts,
		statements: statements,
		idGen:      idGen,
		retrier:    noRetry{},
		cacheTTL:   DefaultStatementCacheTTL,
		metrics:    nopMetrics{},
		now:        time.Now,
		txTimeout:  DefaultTransactionTimeout,
	}

	for _, opt := range opts {
		opt(uc)
	}

	return uc
}

// CreateStatementInput represents input for posting a statement.
type CreateStatementInput struct {
	ActorID     string
	ReceiverID  string // transfer only
	Type        domain.OperationType
	Amount      decimal.Decimal
	Description string
}

// BalanceReport is the balance of an account together with every record
// that contributed to it.
type BalanceReport struct {
	AccountID  string
	Balance    decimal.Decimal
	Statements []*domain.Statement
}

// CreateDeposit posts a deposit for actorID.
func (uc *StatementUseCase) CreateDeposit(ctx context.Context, actorID string, amount decimal.Decimal, description string) (*domain.Statement, error) {
	return uc.CreateStatement(ctx, CreateStatementInput{
		ActorID:     actorID,
		Type:        domain.OperationDeposit,
		Amount:      amount,
		Description: description,
	})
}

// CreateWithdrawal posts a withdrawal for actorID.
func (uc *StatementUseCase) CreateWithdrawal(ctx context.Context, actorID string, amount decimal.Decimal, description string) (*domain.Statement, error) {
	return uc.CreateStatement(ctx, CreateStatementInput{
		ActorID:     actorID,
		Type:        domain.OperationWithdraw,
		Amount:      amount,
		Description: description,
	})
}

// CreateTransfer posts a transfer from actorID to receiverID.
func (uc *StatementUseCase) CreateTransfer(ctx context.Context, actorID, receiverID string, amount decimal.Decimal, description string) (*domain.Statement, error) {
	return uc.CreateStatement(ctx, CreateStatementInput{
		ActorID:     actorID,
		ReceiverID:  receiverID,
		Type:        domain.OperationTransfer,
		Amount:      amount,
		Description: description,
	})
}

// CreateStatement validates the request and appends exactly one record on
// success. Rejections write nothing.
//
// ErrStorage is never retried here. A commit failure is ambiguous, and
// retrying it could post the same operation twice.
func (uc *StatementUseCase) CreateStatement(ctx context.Context, input CreateStatementInput) (*domain.Statement, error) {
	start := uc.now()

	statement, err := uc.createStatement(ctx, input)
	if err != nil {
		uc.metrics.StatementRejected(input.Type, RejectionReason(err))
		return nil, err
	}

	uc.metrics.StatementPosted(statement.Type, statement.Amount, uc.now().Sub(start))

	if uc.cache != nil {
		// Best effort: the log is the source of truth.
		_ = uc.cache.Set(ctx, statement, uc.cacheTTL)
	}

	return statement, nil
}

func (uc *StatementUseCase) createStatement(ctx context.Context, input CreateStatementInput) (*domain.Statement, error) {
	// 1. Resolve actor
	if _, err := uc.accounts.GetByID(ctx, input.ActorID); err != nil {
		return nil, resolveError(err, domain.ErrActorNotFound)
	}

	// 2. Validate kind
	if !input.Type.IsValid() {
		return nil, domain.ErrInvalidOperationType
	}

	// 3. Validate amount
	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}

	if err := domain.ValidateDescription(input.Description); err != nil {
		return nil, err
	}

	// 4-6. Gate and append under the actor's lock
	var (
		statement *domain.Statement
		commitErr error
	)

	err := uc.retrier.Retry(ctx, func() error {
		s, err := uc.post(ctx, input)
		if err != nil {
			var ce *commitError
			if errors.As(err, &ce) {
				commitErr = ce.err
				return nil
			}
			return err
		}

		statement = s
		return nil
	})
	if err != nil {
		return nil, err
	}

	if commitErr != nil {
		return nil, commitErr
	}

	return statement, nil
}

// post runs one attempt of the balance gate and append inside a single
// transaction. For debits the actor's lock is held from the balance read
// until commit, so concurrent debits of the same account serialize.
func (uc *StatementUseCase) post(ctx context.Context, input CreateStatementInput) (*domain.Statement, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.txTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, storageError(err)
	}
	defer tx.Rollback(ctx)

	if input.Type.IsDebit() {
		if _, err := uc.accounts.GetByIDForUpdate(ctx, tx, input.ActorID); err != nil {
			return nil, resolveError(err, domain.ErrActorNotFound)
		}

		records, err := uc.statements.ListForBalanceTx(ctx, tx, input.ActorID)
		if err != nil {
			return nil, storageError(err)
		}

		if domain.Balance(input.ActorID, records).LessThan(input.Amount) {
			return nil, domain.ErrInsufficientFunds
		}
	}

	now := uc.now().UTC().Truncate(time.Microsecond)
	statement := &domain.Statement{
		OwnerID:     input.ActorID,
		Type:        input.Type,
		Amount:      input.Amount,
		Description: input.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if input.Type == domain.OperationTransfer {
		if input.ReceiverID == "" {
			return nil, domain.ErrCounterpartyNotFound
		}

		exists, err := uc.accounts.Exists(ctx, input.ReceiverID)
		if err != nil {
			return nil, storageError(err)
		}
		if !exists {
			return nil, domain.ErrCounterpartyNotFound
		}

		sender := input.ActorID
		statement.OwnerID = input.ReceiverID
		statement.CounterpartyID = &sender
	}

	if err := statement.Validate(); err != nil {
		return nil, err
	}

	statement.ID = uc.idGen.Generate()

	if err := uc.statements.Create(ctx, tx, statement); err != nil {
		return nil, storageError(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, &commitError{err: storageError(err)}
	}

	return statement, nil
}

// GetBalance derives the current balance of accountID from the log.
func (uc *StatementUseCase) GetBalance(ctx context.Context, accountID string) (decimal.Decimal, error) {
	report, err := uc.GetBalanceWithStatements(ctx, accountID)
	if err != nil {
		return decimal.Zero, err
	}

	return report.Balance, nil
}

// GetBalanceWithStatements returns the balance of accountID together with
// the records it was folded from.
func (uc *StatementUseCase) GetBalanceWithStatements(ctx context.Context, accountID string) (*BalanceReport, error) {
	exists, err := uc.accounts.Exists(ctx, accountID)
	if err != nil {
		return nil, storageError(err)
	}
	if !exists {
		return nil, domain.ErrAccountNotFound
	}

	records, err := uc.statements.ListForBalance(ctx, accountID)
	if err != nil {
		return nil, storageError(err)
	}

	return &BalanceReport{
		AccountID:  accountID,
		Balance:    domain.Balance(accountID, records),
		Statements: records,
	}, nil
}

// GetStatement returns the record statementID as seen by its owner accountID.
func (uc *StatementUseCase) GetStatement(ctx context.Context, accountID, statementID string) (*domain.Statement, error) {
	if uc.cache != nil {
		if cached, err := uc.cache.Get(ctx, statementID); err == nil && cached != nil && cached.OwnerID == accountID {
			return cached, nil
		}
	}

	statement, err := uc.statements.FindByIDAndOwner(ctx, statementID, accountID)
	if err != nil {
		if errors.Is(err, domain.ErrStatementNotFound) {
			return nil, err
		}
		return nil, storageError(err)
	}

	if uc.cache != nil {
		_ = uc.cache.Set(ctx, statement, uc.cacheTTL)
	}

	return statement, nil
}

// RejectionReason maps a use case error to a low-cardinality label.
func RejectionReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrActorNotFound):
		return "actor_not_found"
	case errors.Is(err, domain.ErrCounterpartyNotFound):
		return "counterparty_not_found"
	case errors.Is(err, domain.ErrInvalidOperationType):
		return "invalid_operation_type"
	case errors.Is(err, domain.ErrInvalidAmount):
		return "invalid_amount"
	case errors.Is(err, domain.ErrInvalidDescription):
		return "invalid_description"
	case errors.Is(err, domain.ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, domain.ErrStorage):
		return "storage"
	default:
		return "unknown"
	}
}

func resolveError(err, notFound error) error {
	if errors.Is(err, domain.ErrAccountNotFound) {
		return notFound
	}
	return storageError(err)
}

func storageError(err error) error {
	if errors.Is(err, domain.ErrStorage) {
		return err
	}
	return fmt.Errorf("%w: %w", domain.ErrStorage, err)
}

// commitError marks a failed commit so the retrier never re-runs it.
type commitError struct {
	err error
}

func (e *commitError) Error() string { return e.err.Error() }
func (e *commitError) Unwrap() error { return e.err }

type noRetry struct{}

func (noRetry) Retry(_ context.Context, operation func() error) error {
	return operation()
}

type nopMetrics struct{}

func (nopMetrics) StatementPosted(domain.OperationType, decimal.Decimal, time.Duration) {}
func (nopMetrics) StatementRejected(domain.OperationType, string)                      {}
