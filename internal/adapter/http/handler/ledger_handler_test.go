package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/finledger/internal/adapter/http/dto"
	"github.com/iho/finledger/internal/usecase"
)

type ledgerServiceStub struct {
	report *usecase.ConsistencyReport
	err    error
}

func (s ledgerServiceStub) CheckConsistency(context.Context) (*usecase.ConsistencyReport, error) {
	return s.report, s.err
}

func TestLedgerHandler_CheckConsistency(t *testing.T) {
	now := time.Now()
	inconsistent := &usecase.ConsistencyReport{
		Violations: []usecase.AccountBalance{{AccountID: "a", Balance: decimal.NewFromInt(-1)}},
		CheckedAt:  now,
	}

	tests := []struct {
		name       string
		stub       ledgerServiceStub
		wantStatus int
		wantState  string
	}{
		{"consistent", ledgerServiceStub{report: &usecase.ConsistencyReport{Consistent: true, CheckedAt: now}}, http.StatusOK, "consistent"},
		{"inconsistent", ledgerServiceStub{report: inconsistent, err: usecase.ErrInconsistentLedger}, http.StatusConflict, "inconsistent"},
		{"storage failure", ledgerServiceStub{err: errors.New("db down")}, http.StatusInternalServerError, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewLedgerHandler(tt.stub)
			rec := httptest.NewRecorder()

			h.CheckConsistency(rec, httptest.NewRequest(http.MethodGet, "/ledger/consistency", nil))

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d", tt.wantStatus, rec.Code)
			}
			if tt.wantState == "" {
				return
			}

			var resp dto.ConsistencyResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if resp.Status != tt.wantState {
				t.Fatalf("expected status %q, got %q", tt.wantState, resp.Status)
			}
		})
	}
}
