package domain

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Validation constants
const (
	MaxDescriptionLength = 255
	MaxAmount            = "1000000000000" // 1 trillion
	AmountScale          = 2
)

var maxAmount = decimal.RequireFromString(MaxAmount)

// ValidateAmount validates a statement amount.
func ValidateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}

	if amount.GreaterThan(maxAmount) {
		return fmt.Errorf("%w: maximum amount is %s", ErrInvalidAmount, MaxAmount)
	}

	if !amount.Equal(amount.Truncate(AmountScale)) {
		return fmt.Errorf("%w: at most %d decimal places", ErrInvalidAmount, AmountScale)
	}

	return nil
}

// ValidateDescription validates statement description length and encoding.
// Postgres text columns reject NUL bytes and invalid UTF-8.
func ValidateDescription(description string) error {
	if !utf8.ValidString(description) {
		return fmt.Errorf("%w: invalid UTF-8", ErrInvalidDescription)
	}

	if strings.ContainsRune(description, 0) {
		return fmt.Errorf("%w: contains NUL character", ErrInvalidDescription)
	}

	if n := utf8.RuneCountInString(description); n > MaxDescriptionLength {
		return fmt.Errorf("%w: %d characters exceeds limit of %d", ErrInvalidDescription, n, MaxDescriptionLength)
	}

	return nil
}
