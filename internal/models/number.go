package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Limits on numeric attributes, the same ones DynamoDB enforces.
const (
	MaxNumberDigits   = 38
	MaxNumberExponent = 125
	MinNumberExponent = -130

	maxNumberTextLen = 256
)

// ErrNumberOutOfRange is returned by ParseNumber for values beyond the
// supported precision or magnitude.
var ErrNumberOutOfRange = errors.New("number out of range")

// ParseNumber parses a decimal and checks it against the numeric limits.
// The returned value's String is the canonical text to store.
func ParseNumber(s string) (decimal.Decimal, error) {
	if len(s) > maxNumberTextLen {
		return decimal.Decimal{}, fmt.Errorf("%w: %d characters", ErrNumberOutOfRange, len(s))
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, err
	}
	if d.IsZero() {
		return decimal.Zero, nil
	}

	digits := strings.TrimPrefix(d.Coefficient().String(), "-")
	significant := strings.TrimRight(digits, "0")
	exp := int64(d.Exponent()) + int64(len(digits)-len(significant))

	if len(significant) > MaxNumberDigits {
		return decimal.Decimal{}, fmt.Errorf("%w: more than %d significant digits", ErrNumberOutOfRange, MaxNumberDigits)
	}
	if adjusted := exp + int64(len(significant)) - 1; adjusted > MaxNumberExponent || adjusted < MinNumberExponent {
		return decimal.Decimal{}, fmt.Errorf("%w: magnitude 1e%d", ErrNumberOutOfRange, adjusted)
	}
	return d, nil
}
