package valueobjects

import (
	"encoding/json"
	"errors"

	"github.com/shopspring/decimal"

	pkgerrors "revshare/pkg/errors"
)

// Money is a value object holding an exact decimal amount. All revenue
// arithmetic runs on decimals; binary floating point never touches an
// amount. Quantized amounts carry exactly two fraction digits, which
// makes Cents exact.
type Money struct {
	amount decimal.Decimal
}

var oneCent = Money{amount: decimal.New(1, -2)}

// OneCent returns the smallest amount the engine accounts for.
// Anything below it is treated as dust and dropped.
func OneCent() Money {
	return oneCent
}

// ZeroMoney returns the zero amount
func ZeroMoney() Money {
	return Money{amount: decimal.Zero}
}

// NewMoney parses a decimal amount from its string form. The value is
// kept exactly as written; callers quantize when they need cents.
func NewMoney(value string) (Money, error) {
	amount, err := decimal.NewFromString(value)
	if err != nil {
		return Money{}, pkgerrors.NewValidationErrorf("invalid monetary amount %q", value).
			WithCause(err)
	}
	return Money{amount: amount}, nil
}

// NewMoneyFromDecimal wraps an existing decimal as an amount
func NewMoneyFromDecimal(amount decimal.Decimal) Money {
	return Money{amount: amount}
}

// NewMoneyFromCents builds an exact amount from integer cents
func NewMoneyFromCents(cents int64) Money {
	return Money{amount: decimal.New(cents, -2)}
}

// Decimal returns the underlying decimal value
func (m Money) Decimal() decimal.Decimal {
	return m.amount
}

// Add returns m + other
func (m Money) Add(other Money) Money {
	return Money{amount: m.amount.Add(other.amount)}
}

// Sub returns m - other
func (m Money) Sub(other Money) Money {
	return Money{amount: m.amount.Sub(other.amount)}
}

// Mul scales the amount by an exact decimal factor. The result is not
// quantized; callers decide how the sub-cent tail is rounded.
func (m Money) Mul(factor decimal.Decimal) Money {
	return Money{amount: m.amount.Mul(factor)}
}

// MulInt scales the amount by an integer count
func (m Money) MulInt(n int64) Money {
	return Money{amount: m.amount.Mul(decimal.NewFromInt(n))}
}

// QuantizeHalfUp rounds to whole cents, halves rounding up
func (m Money) QuantizeHalfUp() Money {
	return Money{amount: m.amount.Round(2)}
}

// FloorToCents drops any sub-cent tail without rounding
func (m Money) FloorToCents() Money {
	return Money{amount: m.amount.Truncate(2)}
}

// Cents returns the amount as integer cents. The amount must already be
// quantized; sub-cent digits are truncated.
func (m Money) Cents() int64 {
	return m.amount.Shift(2).IntPart()
}

// Cmp compares two amounts, returning -1, 0 or 1
func (m Money) Cmp(other Money) int {
	return m.amount.Cmp(other.amount)
}

// Equals checks if two amounts are numerically equal
func (m Money) Equals(other Money) bool {
	return m.amount.Equal(other.amount)
}

// LessThan checks if m < other
func (m Money) LessThan(other Money) bool {
	return m.amount.LessThan(other.amount)
}

// GreaterThanOrEqual checks if m >= other
func (m Money) GreaterThanOrEqual(other Money) bool {
	return m.amount.GreaterThanOrEqual(other.amount)
}

// IsNegative checks if the amount is below zero
func (m Money) IsNegative() bool {
	return m.amount.IsNegative()
}

// IsZero checks if the amount is exactly zero
func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

// String renders the amount with two fraction digits
func (m Money) String() string {
	return m.amount.StringFixed(2)
}

// MarshalJSON implements json.Marshaler, rendering the amount as a
// fixed two-digit string so downstream consumers never see floats.
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

// UnmarshalJSON implements json.Unmarshaler
func (m *Money) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return errors.New("Money must be a string")
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return errors.New("Money must hold a decimal value")
	}
	m.amount = amount
	return nil
}
