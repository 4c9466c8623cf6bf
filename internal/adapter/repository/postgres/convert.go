package postgres

import (
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/iho/finledger/internal/domain"
	"github.com/iho/finledger/internal/infrastructure/postgres/generated"
)

// Type conversion helpers.
func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	return pgtype.Numeric{Int: d.Coefficient(), Exp: d.Exponent(), Valid: true}
}

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid || n.Int == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(n.Int, n.Exp)
}

func timeToPgTimestamptz(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: true}
}

// parseAccountID converts an account id into a UUID parameter. Ids that are
// not UUIDs cannot exist in the users table.
func parseAccountID(id string) (pgtype.UUID, bool) {
	u, err := uuid.Parse(id)
	if err != nil {
		return pgtype.UUID{}, false
	}
	return pgtype.UUID{Bytes: u, Valid: true}, true
}

func uuidToString(u pgtype.UUID) string {
	if !u.Valid {
		return ""
	}
	return uuid.UUID(u.Bytes).String()
}

func rowToStatement(row generated.Statement) *domain.Statement {
	s := &domain.Statement{
		ID:          row.ID,
		OwnerID:     uuidToString(row.UserID),
		Type:        domain.OperationType(row.Type),
		Amount:      numericToDecimal(row.Amount),
		Description: row.Description,
		CreatedAt:   row.CreatedAt.Time.UTC(),
		UpdatedAt:   row.UpdatedAt.Time.UTC(),
	}

	if row.SenderID.Valid {
		sender := uuidToString(row.SenderID)
		s.CounterpartyID = &sender
	}

	return s
}

func rowsToStatements(rows []generated.Statement) []*domain.Statement {
	statements := make([]*domain.Statement, 0, len(rows))
	for _, row := range rows {
		statements = append(statements, rowToStatement(row))
	}
	return statements
}
