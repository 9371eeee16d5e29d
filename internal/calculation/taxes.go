package calculation

import (
	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/taxatlas/internal/domain"
)

// TAX CALCULATION ASSUMPTIONS:
//
// 1. The standard deduction is subtracted from gross income and floored at zero.
// 2. Brackets are walked in ascending order; each taxes the slice of taxable
//    income between its floor and its upper bound. The top bracket is open.
// 3. The effective rate is total tax over GROSS income, so the deduction's
//    effect shows up in the displayed rate. Zero income gives a zero rate.
// 4. Social security is charged on gross income up to the cap and reported on
//    its own line; it is not part of total tax or the effective rate.
// 5. No intermediate rounding. Formatting rounds for display only.

// BracketShare is the slice of taxable income that falls into one bracket.
type BracketShare struct {
	Bracket domain.TaxBracket
	Income  decimal.Decimal
	Tax     decimal.Decimal
}

// IncomeInBracket returns the portion of taxable income inside the bracket:
// zero below the floor, capped at the bracket width above it.
func IncomeInBracket(taxable decimal.Decimal, bracket domain.TaxBracket) decimal.Decimal {
	floor := bracket.Floor()
	above := taxable.Sub(floor)
	if !above.IsPositive() {
		return decimal.Zero
	}
	if bracket.Max.IsUnbounded() {
		return above
	}
	span := bracket.Max.Amount().Sub(floor)
	if span.IsNegative() {
		return decimal.Zero
	}
	return decimal.Min(above, span)
}

// SplitIncome distributes taxable income over the brackets, one share per bracket.
func SplitIncome(taxable decimal.Decimal, brackets []domain.TaxBracket) []BracketShare {
	shares := make([]BracketShare, 0, len(brackets))
	for _, b := range brackets {
		in := IncomeInBracket(taxable, b)
		shares = append(shares, BracketShare{Bracket: b, Income: in, Tax: in.Mul(b.Rate)})
	}
	return shares
}

// CalculateForProfile runs the bracket walk for an already resolved profile.
// income must be non-negative.
func CalculateForProfile(income decimal.Decimal, profile domain.CountryTaxProfile) domain.TaxCalculationResult {
	taxable := profile.TaxableIncome(income)

	result := domain.TaxCalculationResult{
		Status:        domain.StatusOK,
		CountryCode:   profile.Code,
		Currency:      profile.Currency,
		GrossIncome:   income,
		TaxableIncome: taxable,
		TotalTax:      decimal.Zero,
		EffectiveRate: decimal.Zero,
		MarginalRate:  decimal.Zero,
		Breakdown:     []domain.BreakdownEntry{},
	}

	for _, share := range SplitIncome(taxable, profile.Brackets) {
		if share.Income.IsPositive() {
			result.MarginalRate = share.Bracket.Rate
		}
		if !share.Tax.IsPositive() {
			continue
		}
		result.Breakdown = append(result.Breakdown, domain.BreakdownEntry{
			Label: share.Bracket.Label(),
			Taxed: share.Income,
			Tax:   share.Tax,
			Rate:  share.Bracket.Rate,
		})
		result.TotalTax = result.TotalTax.Add(share.Tax)
	}

	if income.IsPositive() {
		result.EffectiveRate = result.TotalTax.Div(income)
	}

	net := income.Sub(result.TotalTax)
	if profile.SocialSecurity != nil {
		ss := profile.SocialSecurity.Contribution(income)
		result.SocialSecurity = decimal.NewNullDecimal(ss)
		net = net.Sub(ss)
	}
	result.NetIncome = net

	return result
}
