package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/iho/finledger/internal/domain"
	"github.com/iho/finledger/internal/infrastructure/postgres/generated"
	"github.com/iho/finledger/internal/usecase"
)

// StatementRepository implements usecase.StatementRepository.
type StatementRepository struct {
	queries *generated.Queries
}

// NewStatementRepository creates a new StatementRepository.
func NewStatementRepository(db generated.DBTX) *StatementRepository {
	return &StatementRepository{queries: generated.New(db)}
}

// Create appends a statement within tx.
func (r *StatementRepository) Create(ctx context.Context, tx usecase.Transaction, statement *domain.Statement) error {
	pgxTx, err := pgxTxFrom(tx)
	if err != nil {
		return err
	}

	owner, ok := parseAccountID(statement.OwnerID)
	if !ok {
		return fmt.Errorf("invalid owner id %q", statement.OwnerID)
	}

	var sender pgtype.UUID
	if statement.CounterpartyID != nil {
		if sender, ok = parseAccountID(*statement.CounterpartyID); !ok {
			return fmt.Errorf("invalid sender id %q", *statement.CounterpartyID)
		}
	}

	return generated.New(pgxTx).CreateStatement(ctx, generated.CreateStatementParams{
		ID:          statement.ID,
		UserID:      owner,
		SenderID:    sender,
		Type:        statement.Type.String(),
		Amount:      decimalToNumeric(statement.Amount),
		Description: statement.Description,
		CreatedAt:   timeToPgTimestamptz(statement.CreatedAt),
		UpdatedAt:   timeToPgTimestamptz(statement.UpdatedAt),
	})
}

// FindByIDAndOwner retrieves a statement owned by ownerID.
func (r *StatementRepository) FindByIDAndOwner(ctx context.Context, id, ownerID string) (*domain.Statement, error) {
	owner, ok := parseAccountID(ownerID)
	if !ok {
		return nil, domain.ErrStatementNotFound
	}

	row, err := r.queries.GetStatementByIDAndUser(ctx, generated.GetStatementByIDAndUserParams{
		ID:     id,
		UserID: owner,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrStatementNotFound
		}
		return nil, err
	}

	return rowToStatement(row), nil
}

// ListForBalance returns every statement touching accountID ordered by
// (created_at, id).
func (r *StatementRepository) ListForBalance(ctx context.Context, accountID string) ([]*domain.Statement, error) {
	return listForBalance(ctx, r.queries, accountID)
}

// ListForBalanceTx is ListForBalance read inside tx.
func (r *StatementRepository) ListForBalanceTx(ctx context.Context, tx usecase.Transaction, accountID string) ([]*domain.Statement, error) {
	pgxTx, err := pgxTxFrom(tx)
	if err != nil {
		return nil, err
	}

	return listForBalance(ctx, generated.New(pgxTx), accountID)
}

func listForBalance(ctx context.Context, q *generated.Queries, accountID string) ([]*domain.Statement, error) {
	id, ok := parseAccountID(accountID)
	if !ok {
		return []*domain.Statement{}, nil
	}

	rows, err := q.ListStatementsForAccount(ctx, id)
	if err != nil {
		return nil, err
	}

	return rowsToStatements(rows), nil
}
