package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ResultStatus tells a caller how to render a calculation result.
type ResultStatus string

const (
	StatusOK             ResultStatus = "ok"
	StatusUnknownCountry ResultStatus = "unknown_country"
	StatusInvalidIncome  ResultStatus = "invalid_income"
)

// BreakdownEntry is the tax owed inside a single bracket.
type BreakdownEntry struct {
	Label string          `json:"label"`
	Taxed decimal.Decimal `json:"taxed"`
	Tax   decimal.Decimal `json:"tax"`
	Rate  decimal.Decimal `json:"rate"`
}

// String renders the entry as "10908 - 62809 (14%)".
func (e BreakdownEntry) String() string {
	return fmt.Sprintf("%s (%s%%)", e.Label, e.Rate.Mul(decimal.NewFromInt(100)).String())
}

// TaxCalculationResult is the output of a single calculation.
type TaxCalculationResult struct {
	Status         ResultStatus        `json:"status"`
	CountryCode    string              `json:"country_code"`
	Currency       string              `json:"currency,omitempty"`
	GrossIncome    decimal.Decimal     `json:"gross_income"`
	TaxableIncome  decimal.Decimal     `json:"taxable_income"`
	TotalTax       decimal.Decimal     `json:"total_tax"`
	EffectiveRate  decimal.Decimal     `json:"effective_rate"`
	MarginalRate   decimal.Decimal     `json:"marginal_rate"`
	Breakdown      []BreakdownEntry    `json:"breakdown"`
	SocialSecurity decimal.NullDecimal `json:"social_security"`
	NetIncome      decimal.Decimal     `json:"net_income"`
}

// EmptyResult returns the zeroed result used when no calculation could be made.
func EmptyResult(code string, status ResultStatus) TaxCalculationResult {
	return TaxCalculationResult{
		Status:      status,
		CountryCode: code,
		Breakdown:   []BreakdownEntry{},
	}
}

// OK reports whether the result came from an actual calculation.
func (r TaxCalculationResult) OK() bool { return r.Status == StatusOK }

// TotalDeductions is income tax plus social security.
func (r TaxCalculationResult) TotalDeductions() decimal.Decimal {
	if r.SocialSecurity.Valid {
		return r.TotalTax.Add(r.SocialSecurity.Decimal)
	}
	return r.TotalTax
}
