// Package money provides a fixed-point monetary value object.
//
// Invariants:
//   - Amounts are stored in cents (hundredths of the currency unit), so
//     arithmetic between Money values is exact.
//   - Rounding to the nearest cent happens once, at FromFloat, when a value
//     crosses the boundary into the ledger.
//   - A Money value is never negative and never exceeds MaxCents.
package money

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

var (
	// ErrInvalidAmount is returned when an amount is not a finite positive number.
	ErrInvalidAmount = errors.New("amount must be a positive number")
	// ErrAmountExceedsMax is returned when an amount exceeds MaxCents after
	// rounding to cents.
	ErrAmountExceedsMax = errors.New("amount exceeds maximum allowed value")
	// ErrNegativeResult is returned when a subtraction would produce a
	// negative amount.
	ErrNegativeResult = errors.New("resulting amount cannot be negative")
)

// MaxCents is the largest representable amount, 999,999,999.99, in cents.
const MaxCents int64 = 99_999_999_999

// Money is a non-negative monetary value with two decimal places.
type Money struct {
	cents int64
}

// Zero is the zero amount.
var Zero = Money{}

// FromFloat converts a float amount to Money, rounding to the nearest cent
// with halves away from zero. The value must be finite and strictly positive
// before rounding, and must not exceed MaxCents after rounding, so a value
// like 999999999.995 rounds up past the maximum and is rejected.
func FromFloat(amount float64) (Money, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return Zero, ErrInvalidAmount
	}
	cents := int64(math.Round(amount * 100))
	if cents <= 0 {
		return Zero, ErrInvalidAmount
	}
	if cents > MaxCents {
		return Zero, ErrAmountExceedsMax
	}
	return Money{cents: cents}, nil
}

// FromCents builds a Money from a raw cent count, as stored in the database.
func FromCents(cents int64) Money {
	return Money{cents: cents}
}

// Cents returns the amount in cents.
func (m Money) Cents() int64 { return m.cents }

// Float64 returns the amount as a float with two decimal places of precision.
func (m Money) Float64() float64 { return float64(m.cents) / 100 }

// IsZero reports whether the amount is zero.
func (m Money) IsZero() bool { return m.cents == 0 }

// LessThan reports whether m is strictly smaller than other.
func (m Money) LessThan(other Money) bool { return m.cents < other.cents }

// Add returns the sum of the two amounts.
func (m Money) Add(other Money) Money {
	return Money{cents: m.cents + other.cents}
}

// Sub returns m minus other, failing when the result would be negative.
func (m Money) Sub(other Money) (Money, error) {
	if m.cents < other.cents {
		return Zero, ErrNegativeResult
	}
	return Money{cents: m.cents - other.cents}, nil
}

// String formats the amount with exactly two decimals, e.g. "100.00".
func (m Money) String() string {
	return fmt.Sprintf("%d.%02d", m.cents/100, m.cents%100)
}

// MarshalJSON renders the amount as a plain JSON number with two decimals,
// matching what API callers already parse.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalJSON parses a JSON number into Money with the FromFloat rules.
func (m *Money) UnmarshalJSON(data []byte) error {
	f, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return ErrInvalidAmount
	}
	parsed, err := FromFloat(f)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
