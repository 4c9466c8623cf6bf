package postgres

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestDecimalNumericRoundTrip(t *testing.T) {
	for _, v := range []string{"0", "1", "12.50", "0.01", "-3.5", "1000000000000"} {
		d := decimal.RequireFromString(v)
		if got := numericToDecimal(decimalToNumeric(d)); !got.Equal(d) {
			t.Errorf("round trip %s: got %s", v, got)
		}
	}
}

func TestParseAccountID(t *testing.T) {
	const id = "6f1c2b8e-8d3c-4c1e-9d55-6a0d7e3b2f10"

	u, ok := parseAccountID(id)
	if !ok {
		t.Fatalf("expected %s to parse", id)
	}
	if got := uuidToString(u); got != id {
		t.Fatalf("expected %s, got %s", id, got)
	}

	if _, ok := parseAccountID("acc-1"); ok {
		t.Fatal("expected non-uuid to be rejected")
	}
}
