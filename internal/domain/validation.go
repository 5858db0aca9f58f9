package domain

import (
	"errors"
	"fmt"
	"regexp"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Validation errors
var (
	ErrInvalidCurrency  = errors.New("invalid currency code")
	ErrInvalidOwnerKind = errors.New("invalid owner kind")
	ErrAmountTooLarge   = errors.New("amount exceeds maximum allowed")
	ErrDetailsTooLarge  = errors.New("details size exceeds limit")
	ErrNoteTooLong      = errors.New("note exceeds maximum length")
)

// Validation constants
const (
	MaxNoteLength = 255
	MaxDetailSize = 10240           // 10KB
	MaxAmount     = "1000000000000" // 1 trillion
)

// Currency codes are stored upper-cased: three to eight alphanumeric
// characters, which also admits non-ISO codes like loyalty points.
var currencyRegex = regexp.MustCompile(`^[A-Z0-9]{3,8}$`)

// ValidateCurrency validates a currency code after normalization.
func ValidateCurrency(currency string) error {
	if !currencyRegex.MatchString(currency) {
		return fmt.Errorf("%w: %q", ErrInvalidCurrency, currency)
	}

	return nil
}

// ValidateOwner validates the polymorphic owner reference.
func ValidateOwner(owner Owner) error {
	if !owner.Valid() {
		return fmt.Errorf("%w: kind=%q id=%d", ErrInvalidContext, owner.Kind, owner.ID)
	}

	return nil
}

// ValidateAmount validates a transaction amount. Zero is permitted; direction
// is never carried in the sign, so negative amounts are rejected outright.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return ErrInvalidAmount
	}

	maxAmount, _ := decimal.NewFromString(MaxAmount)
	if amount.GreaterThan(maxAmount) {
		return fmt.Errorf("%w: maximum amount is %s", ErrAmountTooLarge, MaxAmount)
	}

	return nil
}

// ValidateNote validates a transaction note. The limit counts characters, not
// bytes, so multi-byte notes are not penalized.
func ValidateNote(note string) error {
	if length := utf8.RuneCountInString(note); length > MaxNoteLength {
		return fmt.Errorf("%w: note is %d characters, limit is %d", ErrNoteTooLong, length, MaxNoteLength)
	}

	return nil
}

// ValidateDetails validates a structured details payload size.
func ValidateDetails(details map[string]any) error {
	if details == nil {
		return nil
	}

	// Estimate size (rough approximation)
	size := 0
	for k, v := range details {
		size += len(k)
		size += len(fmt.Sprintf("%v", v))
	}

	if size > MaxDetailSize {
		return fmt.Errorf("%w: details size %d bytes exceeds limit of %d bytes", ErrDetailsTooLarge, size, MaxDetailSize)
	}

	return nil
}

// ValidatePagination validates and limits pagination parameters.
func ValidatePagination(limit, offset int) (int, int) {
	const MaxPageSize = 1000
	const DefaultPageSize = 50

	if limit <= 0 {
		limit = DefaultPageSize
	}

	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset
}
