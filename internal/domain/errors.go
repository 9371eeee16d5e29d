package domain

import (
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

var (
	// ErrUnknownCountry is returned when a country code is not in the dataset.
	ErrUnknownCountry = errors.New("unknown country")
	// ErrInvalidIncome is returned for negative, NaN, infinite or out-of-range income.
	ErrInvalidIncome = errors.New("invalid income")
	// ErrInvalidDataset wraps every load-time validation failure.
	ErrInvalidDataset = errors.New("invalid tax dataset")
	// ErrDuplicateCountry is returned when two tables define the same code.
	ErrDuplicateCountry = errors.New("duplicate country code")
	// ErrUnknownCurrency is returned when no exchange rate exists for a currency.
	ErrUnknownCurrency = errors.New("unknown currency")
	// ErrAmountOutOfRange is returned for amounts of 1e15 or more, or with
	// more than MaxAmountScale decimal places.
	ErrAmountOutOfRange = errors.New("amount out of range")
)

const (
	// MaxAmountDigits bounds the integer part of an amount, so every accepted
	// amount is below 1e15.
	MaxAmountDigits = 15
	// MaxAmountScale is the most decimal places an amount may carry.
	MaxAmountScale = 10
)

// CheckAmount rejects amounts outside the supported magnitude. It inspects the
// coefficient and exponent only and never expands the value, so it is cheap
// even for input such as "1e5000000".
func CheckAmount(d decimal.Decimal) error {
	if int(d.Exponent()) < -MaxAmountScale {
		return fmt.Errorf("%w: more than %d decimal places", ErrAmountOutOfRange, MaxAmountScale)
	}
	if d.NumDigits()+int(d.Exponent()) > MaxAmountDigits {
		return fmt.Errorf("%w: must be below 1e%d", ErrAmountOutOfRange, MaxAmountDigits)
	}
	return nil
}

// ValidateIncome rejects negative income and income outside CheckAmount's range.
func ValidateIncome(income decimal.Decimal) error {
	if err := CheckAmount(income); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidIncome, err)
	}
	if income.IsNegative() {
		return fmt.Errorf("%w: %s is negative", ErrInvalidIncome, income.String())
	}
	return nil
}

// IncomeFromFloat converts a float income, rejecting NaN, infinities and negatives.
func IncomeFromFloat(f float64) (decimal.Decimal, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero, fmt.Errorf("%w: %v is not finite", ErrInvalidIncome, f)
	}
	d := decimal.NewFromFloat(f)
	if int(d.Exponent()) < -MaxAmountScale {
		d = d.Round(MaxAmountScale)
	}
	if err := ValidateIncome(d); err != nil {
		return decimal.Zero, err
	}
	return d, nil
}

// ParseIncome parses a decimal string such as "50000" or "1234.56".
func ParseIncome(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q is not a number", ErrInvalidIncome, s)
	}
	if err := ValidateIncome(d); err != nil {
		return decimal.Zero, err
	}
	return d, nil
}
