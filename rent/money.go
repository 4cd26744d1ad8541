package rent

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// MONEY - Monetary amount with 2-decimal rounding semantics
// =============================================================================

// Money is a monetary amount. It wraps decimal.Decimal so that proration
// never loses cents to binary floating point. Display precision is two
// decimals; rounding is always half-away-from-zero.
type Money struct {
	Value decimal.Decimal
}

func NewMoney(value float64) Money {
	return Money{Value: decimal.NewFromFloat(value)}
}

func NewMoneyFromInt(value int) Money {
	return Money{Value: decimal.NewFromInt(int64(value))}
}

// ParseMoney parses a decimal string amount.
func ParseMoney(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return Money{Value: d}, nil
}

// MustParseMoney parses a decimal string, returning zero on bad input.
// Used when loading amounts persisted by this engine, which are always valid.
func MustParseMoney(s string) Money {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{Value: decimal.Zero}
	}
	return Money{Value: d}
}

func ZeroMoney() Money { return Money{Value: decimal.Zero} }

func (m Money) Add(o Money) Money { return Money{Value: m.Value.Add(o.Value)} }
func (m Money) Sub(o Money) Money { return Money{Value: m.Value.Sub(o.Value)} }

// DivInt divides by a day count at full decimal precision. Callers round
// the result explicitly via Round2.
func (m Money) DivInt(n int) Money { return Money{Value: m.Value.Div(decimal.NewFromInt(int64(n)))} }

// MulInt multiplies by a day count.
func (m Money) MulInt(n int) Money { return Money{Value: m.Value.Mul(decimal.NewFromInt(int64(n)))} }

// Round2 rounds to two decimal places, half away from zero.
func (m Money) Round2() Money { return Money{Value: m.Value.Round(2)} }

func (m Money) IsZero() bool          { return m.Value.IsZero() }
func (m Money) IsPositive() bool      { return m.Value.IsPositive() }
func (m Money) IsNegative() bool      { return m.Value.IsNegative() }
func (m Money) Equal(o Money) bool    { return m.Value.Equal(o.Value) }
func (m Money) GreaterThan(o Money) bool { return m.Value.GreaterThan(o.Value) }

func (m Money) Float64() float64 { f, _ := m.Value.Float64(); return f }
func (m Money) String() string   { return m.Value.StringFixed(2) }
