package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/iho/finledger/internal/adapter/http/dto"
	"github.com/iho/finledger/internal/adapter/http/middleware"
	"github.com/iho/finledger/internal/domain"
	"github.com/iho/finledger/internal/usecase"
)

type statementServiceStub struct {
	createFn  func(ctx context.Context, input usecase.CreateStatementInput) (*domain.Statement, error)
	balanceFn func(ctx context.Context, accountID string) (*usecase.BalanceReport, error)
	getFn     func(ctx context.Context, accountID, statementID string) (*domain.Statement, error)
}

func (s *statementServiceStub) CreateStatement(ctx context.Context, input usecase.CreateStatementInput) (*domain.Statement, error) {
	return s.createFn(ctx, input)
}

func (s *statementServiceStub) GetBalanceWithStatements(ctx context.Context, accountID string) (*usecase.BalanceReport, error) {
	return s.balanceFn(ctx, accountID)
}

func (s *statementServiceStub) GetStatement(ctx context.Context, accountID, statementID string) (*domain.Statement, error) {
	return s.getFn(ctx, accountID, statementID)
}

func setChiURLParam(r *http.Request, key, value string) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, &chi.Context{
		URLParams: chi.RouteParams{
			Keys:   []string{key},
			Values: []string{value},
		},
	}))
}

func asAccount(r *http.Request, accountID string) *http.Request {
	return r.WithContext(middleware.WithAccountID(r.Context(), accountID))
}

func TestStatementHandler_SetsOperationTypeFromRoute(t *testing.T) {
	tests := []struct {
		name     string
		call     func(h *StatementHandler, w http.ResponseWriter, r *http.Request)
		receiver string
		wantType domain.OperationType
	}{
		{"deposit", (*StatementHandler).Deposit, "", domain.OperationDeposit},
		{"withdraw", (*StatementHandler).Withdraw, "", domain.OperationWithdraw},
		{"transfer", (*StatementHandler).Transfer, "bob", domain.OperationTransfer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var captured usecase.CreateStatementInput
			h := NewStatementHandler(&statementServiceStub{
				createFn: func(ctx context.Context, input usecase.CreateStatementInput) (*domain.Statement, error) {
					captured = input
					return &domain.Statement{ID: "st-1", OwnerID: input.ActorID, Type: input.Type, Amount: input.Amount}, nil
				},
			})

			body := []byte(`{"amount":"100","description":"salary","type":"bogus"}`)
			req := httptest.NewRequest(http.MethodPost, "/statements/x", bytes.NewReader(body))
			req = asAccount(setChiURLParam(req, "receiver_id", tt.receiver), "alice")
			rec := httptest.NewRecorder()

			tt.call(h, rec, req)

			if rec.Code != http.StatusCreated {
				t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
			}
			if captured.Type != tt.wantType || captured.ActorID != "alice" || captured.ReceiverID != tt.receiver {
				t.Fatalf("unexpected input %+v", captured)
			}
			if !captured.Amount.Equal(decimal.NewFromInt(100)) || captured.Description != "salary" {
				t.Fatalf("unexpected amount or description %+v", captured)
			}

			var resp dto.StatementResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if resp.ID != "st-1" {
				t.Fatalf("expected statement st-1, got %s", resp.ID)
			}
		})
	}
}

func TestStatementHandler_Create_RejectsBeforeService(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		account string
		want    int
	}{
		{"invalid json", "{bad json", "alice", http.StatusBadRequest},
		{"missing amount", `{"description":"x"}`, "alice", http.StatusBadRequest},
		{"non numeric amount", `{"amount":"abc"}`, "alice", http.StatusBadRequest},
		{"no identity", `{"amount":"1"}`, "", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewStatementHandler(&statementServiceStub{
				createFn: func(ctx context.Context, input usecase.CreateStatementInput) (*domain.Statement, error) {
					t.Fatal("CreateStatement should not be called")
					return nil, nil
				},
			})

			req := httptest.NewRequest(http.MethodPost, "/statements/deposit", bytes.NewBufferString(tt.body))
			if tt.account != "" {
				req = asAccount(req, tt.account)
			}
			rec := httptest.NewRecorder()

			h.Deposit(rec, req)

			if rec.Code != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, rec.Code)
			}
		})
	}
}

func TestStatementHandler_Transfer_MissingReceiver(t *testing.T) {
	h := NewStatementHandler(&statementServiceStub{})

	req := httptest.NewRequest(http.MethodPost, "/statements/transfer/", bytes.NewBufferString(`{"amount":"1"}`))
	req = asAccount(setChiURLParam(req, "receiver_id", ""), "alice")
	rec := httptest.NewRecorder()

	h.Transfer(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestStatementHandler_Create_ServiceErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"insufficient funds", domain.ErrInsufficientFunds, http.StatusBadRequest},
		{"receiver not found", domain.ErrCounterpartyNotFound, http.StatusNotFound},
		{"actor not found", domain.ErrActorNotFound, http.StatusNotFound},
		{"storage", domain.ErrStorage, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewStatementHandler(&statementServiceStub{
				createFn: func(ctx context.Context, input usecase.CreateStatementInput) (*domain.Statement, error) {
					return nil, tt.err
				},
			})

			req := httptest.NewRequest(http.MethodPost, "/statements/withdraw", bytes.NewBufferString(`{"amount":"10"}`))
			req = asAccount(req, "alice")
			rec := httptest.NewRecorder()

			h.Withdraw(rec, req)

			if rec.Code != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, rec.Code)
			}
		})
	}
}

func TestStatementHandler_Balance(t *testing.T) {
	h := NewStatementHandler(&statementServiceStub{
		balanceFn: func(ctx context.Context, accountID string) (*usecase.BalanceReport, error) {
			if accountID != "alice" {
				t.Fatalf("unexpected account %s", accountID)
			}
			return &usecase.BalanceReport{
				AccountID: accountID,
				Balance:   decimal.NewFromInt(70),
				Statements: []*domain.Statement{
					{ID: "1", OwnerID: "alice", Type: domain.OperationDeposit, Amount: decimal.NewFromInt(70)},
				},
			}, nil
		},
	})

	req := asAccount(httptest.NewRequest(http.MethodGet, "/statements/balance", nil), "alice")
	rec := httptest.NewRecorder()

	h.Balance(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp dto.BalanceResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.Balance.Equal(decimal.NewFromInt(70)) || len(resp.Statement) != 1 {
		t.Fatalf("unexpected balance response %+v", resp)
	}
}

func TestStatementHandler_Get(t *testing.T) {
	h := NewStatementHandler(&statementServiceStub{
		getFn: func(ctx context.Context, accountID, statementID string) (*domain.Statement, error) {
			if accountID != "bob" {
				return nil, domain.ErrStatementNotFound
			}
			return &domain.Statement{ID: statementID, OwnerID: accountID, Type: domain.OperationDeposit}, nil
		},
	})

	for account, want := range map[string]int{"bob": http.StatusOK, "alice": http.StatusNotFound} {
		req := httptest.NewRequest(http.MethodGet, "/statements/st-1", nil)
		req = asAccount(setChiURLParam(req, "statement_id", "st-1"), account)
		rec := httptest.NewRecorder()

		h.Get(rec, req)

		if rec.Code != want {
			t.Fatalf("%s: expected %d, got %d", account, want, rec.Code)
		}
	}
}
