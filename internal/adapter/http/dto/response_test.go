package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/finledger/internal/domain"
	"github.com/iho/finledger/internal/usecase"
)

func TestStatementFromDomain(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	sender := "alice"
	transfer := &domain.Statement{
		ID:             "st-1",
		OwnerID:        "bob",
		CounterpartyID: &sender,
		Type:           domain.OperationTransfer,
		Amount:         decimal.RequireFromString("10.25"),
		Description:    "lunch",
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	resp := StatementFromDomain(transfer)
	if resp.UserID != "bob" || resp.SenderID == nil || *resp.SenderID != "alice" || resp.Type != "transfer" {
		t.Fatalf("unexpected statement response: %+v", resp)
	}

	raw, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{"id", "user_id", "sender_id", "type", "amount", "description", "created_at", "updated_at"} {
		if _, ok := fields[key]; !ok {
			t.Fatalf("expected field %q in %s", key, raw)
		}
	}
	if fields["amount"] != "10.25" {
		t.Fatalf("expected amount as string, got %v", fields["amount"])
	}
}

func TestStatementFromDomain_OmitsSenderForDeposits(t *testing.T) {
	resp := StatementFromDomain(&domain.Statement{ID: "st-2", OwnerID: "a", Type: domain.OperationDeposit})

	raw, _ := json.Marshal(resp)
	var fields map[string]any
	_ = json.Unmarshal(raw, &fields)

	if _, ok := fields["sender_id"]; ok {
		t.Fatalf("expected sender_id to be omitted, got %s", raw)
	}
}

func TestBalanceFromReport(t *testing.T) {
	report := &usecase.BalanceReport{
		AccountID: "a",
		Balance:   decimal.NewFromInt(70),
		Statements: []*domain.Statement{
			{ID: "1", OwnerID: "a", Type: domain.OperationDeposit, Amount: decimal.NewFromInt(100)},
			{ID: "2", OwnerID: "a", Type: domain.OperationWithdraw, Amount: decimal.NewFromInt(30)},
		},
	}

	resp := BalanceFromReport(report)
	if !resp.Balance.Equal(decimal.NewFromInt(70)) || len(resp.Statement) != 2 || resp.Statement[1].ID != "2" {
		t.Fatalf("unexpected balance response: %+v", resp)
	}

	raw, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	var fields map[string]any
	_ = json.Unmarshal(raw, &fields)
	if fields["balance"] != "70" {
		t.Fatalf("expected balance as decimal string, got %v", fields["balance"])
	}
}

func TestConsistencyFromReport(t *testing.T) {
	now := time.Now()

	ok := ConsistencyFromReport(&usecase.ConsistencyReport{Consistent: true, CheckedAt: now})
	if ok.Status != "consistent" || ok.Violations == nil {
		t.Fatalf("unexpected consistent response: %+v", ok)
	}

	bad := ConsistencyFromReport(&usecase.ConsistencyReport{
		Consistent: false,
		Violations: []usecase.AccountBalance{{AccountID: "x", Balance: decimal.NewFromInt(-5)}},
		CheckedAt:  now,
	})
	if bad.Status != "inconsistent" || len(bad.Violations) != 1 || bad.Violations[0].AccountID != "x" {
		t.Fatalf("unexpected inconsistent response: %+v", bad)
	}
}
