package domain

import (
	"bytes"

	"github.com/shopspring/decimal"
)

// Bound is the upper limit of a tax bracket. The top bracket of every country is
// Unbounded; every other bracket carries a finite amount.
type Bound struct {
	amount  decimal.Decimal
	bounded bool
}

// Finite returns a bound at the given amount.
func Finite(amount decimal.Decimal) Bound {
	return Bound{amount: amount, bounded: true}
}

// FiniteInt is shorthand for Finite(decimal.NewFromInt(n)).
func FiniteInt(n int64) Bound {
	return Finite(decimal.NewFromInt(n))
}

// Unbounded returns the open upper bound used by a country's top bracket.
func Unbounded() Bound {
	return Bound{}
}

// IsUnbounded reports whether the bound has no upper limit.
func (b Bound) IsUnbounded() bool { return !b.bounded }

// Amount returns the finite amount. It is zero for an unbounded bound.
func (b Bound) Amount() decimal.Decimal { return b.amount }

// String renders the bound for bracket labels.
func (b Bound) String() string {
	if !b.bounded {
		return "∞"
	}
	return b.amount.String()
}

// MarshalJSON writes a finite bound as a decimal string and an unbounded one as null.
func (b Bound) MarshalJSON() ([]byte, error) {
	if !b.bounded {
		return []byte("null"), nil
	}
	return b.amount.MarshalJSON()
}

// UnmarshalJSON accepts null for unbounded and any decimal for finite bounds.
func (b *Bound) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*b = Unbounded()
		return nil
	}
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return err
	}
	*b = Finite(d)
	return nil
}

// TaxBracket is one marginal band of a progressive schedule.
// Rate applies to the part of taxable income between Min and Max.
type TaxBracket struct {
	Min  decimal.Decimal `json:"min"`
	Max  Bound           `json:"max"`
	Rate decimal.Decimal `json:"rate"`
}

// NewBracket builds a bracket from whole currency units and a fractional rate.
// A negative max marks the unbounded top bracket.
func NewBracket(min, max int64, rate float64) TaxBracket {
	upper := FiniteInt(max)
	if max < 0 {
		upper = Unbounded()
	}
	return TaxBracket{
		Min:  decimal.NewFromInt(min),
		Max:  upper,
		Rate: decimal.NewFromFloat(rate),
	}
}

// Floor is the lower bound clamped at zero.
func (tb TaxBracket) Floor() decimal.Decimal {
	if tb.Min.IsNegative() {
		return decimal.Zero
	}
	return tb.Min
}

// Label renders the bracket range as "<floor> - <max>".
func (tb TaxBracket) Label() string {
	return tb.Floor().String() + " - " + tb.Max.String()
}
