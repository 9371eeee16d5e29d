package domain

import (
	"github.com/shopspring/decimal"
)

// SocialSecurityRule is a flat-rate contribution charged on gross income,
// optionally limited to income up to Cap.
type SocialSecurityRule struct {
	Rate decimal.Decimal  `json:"rate"`
	Cap  *decimal.Decimal `json:"cap,omitempty"`
}

// Base returns the part of gross income the rule applies to.
func (r SocialSecurityRule) Base(gross decimal.Decimal) decimal.Decimal {
	if r.Cap != nil && gross.GreaterThan(*r.Cap) {
		return *r.Cap
	}
	return gross
}

// Contribution returns the amount due on the given gross income.
func (r SocialSecurityRule) Contribution(gross decimal.Decimal) decimal.Decimal {
	return r.Base(gross).Mul(r.Rate)
}

// CountryTaxProfile holds the income tax schedule of a single country.
type CountryTaxProfile struct {
	Name              string              `json:"name"`
	Code              string              `json:"code"`
	Currency          string              `json:"currency"`
	Region            string              `json:"region,omitempty"`
	Brackets          []TaxBracket        `json:"brackets"`
	StandardDeduction *decimal.Decimal    `json:"standard_deduction,omitempty"`
	SocialSecurity    *SocialSecurityRule `json:"social_security,omitempty"`
}

// TaxableIncome subtracts the standard deduction, if any, flooring the result at zero.
func (p CountryTaxProfile) TaxableIncome(gross decimal.Decimal) decimal.Decimal {
	if p.StandardDeduction == nil {
		return gross
	}
	taxable := gross.Sub(*p.StandardDeduction)
	if taxable.IsNegative() {
		return decimal.Zero
	}
	return taxable
}

// TopRate returns the rate of the last bracket.
func (p CountryTaxProfile) TopRate() decimal.Decimal {
	if len(p.Brackets) == 0 {
		return decimal.Zero
	}
	return p.Brackets[len(p.Brackets)-1].Rate
}

// Clone returns a deep copy so callers cannot mutate shared dataset state.
func (p CountryTaxProfile) Clone() CountryTaxProfile {
	out := p
	out.Brackets = append([]TaxBracket(nil), p.Brackets...)
	if p.StandardDeduction != nil {
		d := *p.StandardDeduction
		out.StandardDeduction = &d
	}
	if p.SocialSecurity != nil {
		ss := *p.SocialSecurity
		if ss.Cap != nil {
			c := *ss.Cap
			ss.Cap = &c
		}
		out.SocialSecurity = &ss
	}
	return out
}

// DecimalPtr returns a pointer to d.
func DecimalPtr(d decimal.Decimal) *decimal.Decimal {
	return &d
}
