package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/finledger/internal/adapter/http/dto"
	"github.com/iho/finledger/internal/domain"
	"github.com/iho/finledger/internal/usecase"
)

type statementService interface {
	CreateStatement(ctx context.Context, input usecase.CreateStatementInput) (*domain.Statement, error)
	GetBalanceWithStatements(ctx context.Context, accountID string) (*usecase.BalanceReport, error)
	GetStatement(ctx context.Context, accountID, statementID string) (*domain.Statement, error)
}

// StatementHandler handles statement-related HTTP requests.
type StatementHandler struct {
	statementUC statementService
}

// NewStatementHandler creates a new StatementHandler.
func NewStatementHandler(statementUC statementService) *StatementHandler {
	return &StatementHandler{statementUC: statementUC}
}

// Deposit posts a deposit for the authenticated account.
func (h *StatementHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	h.create(w, r, domain.OperationDeposit, "")
}

// Withdraw posts a withdrawal for the authenticated account.
func (h *StatementHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	h.create(w, r, domain.OperationWithdraw, "")
}

// Transfer moves funds from the authenticated account to receiver_id.
func (h *StatementHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	receiverID := chi.URLParam(r, "receiver_id")
	if receiverID == "" {
		writeError(w, http.StatusBadRequest, "missing receiver ID", "")
		return
	}

	h.create(w, r, domain.OperationTransfer, receiverID)
}

func (h *StatementHandler) create(w http.ResponseWriter, r *http.Request, opType domain.OperationType, receiverID string) {
	actor, ok := actorID(w, r)
	if !ok {
		return
	}

	var req dto.StatementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := dto.Validate(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	statement, err := h.statementUC.CreateStatement(r.Context(), req.ToUseCaseInput(actor, receiverID, opType))
	if err != nil {
		writeDomainError(w, r, "failed to create "+opType.String(), err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.StatementFromDomain(statement))
}

// Balance returns the balance of the authenticated account and its records.
func (h *StatementHandler) Balance(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorID(w, r)
	if !ok {
		return
	}

	report, err := h.statementUC.GetBalanceWithStatements(r.Context(), actor)
	if err != nil {
		writeDomainError(w, r, "failed to get balance", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.BalanceFromReport(report))
}

// Get returns a statement owned by the authenticated account.
func (h *StatementHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorID(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "statement_id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing statement ID", "")
		return
	}

	statement, err := h.statementUC.GetStatement(r.Context(), actor, id)
	if err != nil {
		writeDomainError(w, r, "failed to get statement", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.StatementFromDomain(statement))
}
