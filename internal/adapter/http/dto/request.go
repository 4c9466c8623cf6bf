package dto

import (
	"github.com/shopspring/decimal"

	"github.com/iho/finledger/internal/domain"
	"github.com/iho/finledger/internal/usecase"
)

// StatementRequest is the body of deposit, withdraw and transfer requests.
type StatementRequest struct {
	Amount      *decimal.Decimal `json:"amount"      validate:"required"`
	Description string           `json:"description" validate:"max=255"`
}

// ToUseCaseInput converts to use case input. The operation type and the
// receiver come from the route, never from the body.
func (r *StatementRequest) ToUseCaseInput(actorID, receiverID string, opType domain.OperationType) usecase.CreateStatementInput {
	input := usecase.CreateStatementInput{
		ActorID:     actorID,
		ReceiverID:  receiverID,
		Type:        opType,
		Description: r.Description,
	}
	if r.Amount != nil {
		input.Amount = *r.Amount
	}
	return input
}
