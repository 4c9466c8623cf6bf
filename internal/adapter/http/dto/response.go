package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/finledger/internal/domain"
	"github.com/iho/finledger/internal/usecase"
)

// StatementResponse represents a statement in API responses. UserID is the
// credited account of a transfer and SenderID its debited account.
type StatementResponse struct {
	ID          string          `json:"id"`
	UserID      string          `json:"user_id"`
	SenderID    *string         `json:"sender_id,omitempty"`
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// StatementFromDomain converts a domain statement to response.
func StatementFromDomain(s *domain.Statement) *StatementResponse {
	return &StatementResponse{
		ID:          s.ID,
		UserID:      s.OwnerID,
		SenderID:    s.CounterpartyID,
		Type:        s.Type.String(),
		Amount:      s.Amount,
		Description: s.Description,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

// StatementsFromDomain converts domain statements to responses.
func StatementsFromDomain(statements []*domain.Statement) []*StatementResponse {
	result := make([]*StatementResponse, len(statements))
	for i, s := range statements {
		result[i] = StatementFromDomain(s)
	}
	return result
}

// BalanceResponse is the derived balance with the records it was folded from.
type BalanceResponse struct {
	Balance   decimal.Decimal      `json:"balance"`
	Statement []*StatementResponse `json:"statement"`
}

// BalanceFromReport converts a balance report to response.
func BalanceFromReport(r *usecase.BalanceReport) *BalanceResponse {
	return &BalanceResponse{
		Balance:   r.Balance,
		Statement: StatementsFromDomain(r.Statements),
	}
}

// AccountBalanceResponse is a single account balance.
type AccountBalanceResponse struct {
	AccountID string          `json:"account_id"`
	Balance   decimal.Decimal `json:"balance"`
}

// ConsistencyResponse is the result of a ledger consistency check.
type ConsistencyResponse struct {
	Status     string                   `json:"status"`
	Consistent bool                     `json:"consistent"`
	Violations []AccountBalanceResponse `json:"violations"`
	CheckedAt  time.Time                `json:"checked_at"`
}

// ConsistencyFromReport converts a consistency report to response.
func ConsistencyFromReport(r *usecase.ConsistencyReport) *ConsistencyResponse {
	resp := &ConsistencyResponse{
		Status:     "consistent",
		Consistent: r.Consistent,
		Violations: make([]AccountBalanceResponse, 0, len(r.Violations)),
		CheckedAt:  r.CheckedAt,
	}
	if !r.Consistent {
		resp.Status = "inconsistent"
	}

	for _, v := range r.Violations {
		resp.Violations = append(resp.Violations, AccountBalanceResponse{AccountID: v.AccountID, Balance: v.Balance})
	}

	return resp
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
