package domain

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestValidateAmount(t *testing.T) {
	t.Parallel()

	valid := decimal.RequireFromString("100.25")
	if err := ValidateAmount(valid); err != nil {
		t.Fatalf("expected valid amount, got %v", err)
	}

	if err := ValidateAmount(decimal.Zero); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount for zero, got %v", err)
	}

	if err := ValidateAmount(decimal.NewFromInt(-5)); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount for negative, got %v", err)
	}

	if err := ValidateAmount(decimal.RequireFromString("0.001")); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount for sub-cent precision, got %v", err)
	}

	huge := decimal.RequireFromString(MaxAmount).Add(decimal.NewFromInt(1))
	if err := ValidateAmount(huge); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount for oversized amount, got %v", err)
	}
}

func TestValidateDescription(t *testing.T) {
	t.Parallel()

	if err := ValidateDescription(""); err != nil {
		t.Fatalf("expected empty description to be allowed, got %v", err)
	}

	if err := ValidateDescription(strings.Repeat("é", MaxDescriptionLength)); err != nil {
		t.Fatalf("expected multibyte description at the limit to pass, got %v", err)
	}

	if err := ValidateDescription(strings.Repeat("a", MaxDescriptionLength+1)); !errors.Is(err, ErrInvalidDescription) {
		t.Fatalf("expected ErrInvalidDescription, got %v", err)
	}

	for name, description := range map[string]string{
		"nul":          "rent\x00",
		"invalid utf8": "caf\xe9",
	} {
		if err := ValidateDescription(description); !errors.Is(err, ErrInvalidDescription) {
			t.Fatalf("%s: expected ErrInvalidDescription, got %v", name, err)
		}
	}
}
