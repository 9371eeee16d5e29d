// Package compare runs one income through several countries and reports the
// differences in a common currency.
package compare

import (
	"context"
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/taxatlas/internal/calculation"
	"github.com/rgehrsitz/taxatlas/internal/currency"
	"github.com/rgehrsitz/taxatlas/internal/dataset"
	"github.com/rgehrsitz/taxatlas/internal/domain"
)

// CompareEngine orchestrates country comparison
type CompareEngine struct {
	Calc    calculation.Calculator
	Dataset *dataset.TaxDataset
	Rates   *currency.RateTable
	Workers int
}

// NewCompareEngine creates a comparison engine using the default rate table.
func NewCompareEngine(calc calculation.Calculator, ds *dataset.TaxDataset) *CompareEngine {
	return &CompareEngine{Calc: calc, Dataset: ds, Rates: currency.Default()}
}

// CompareOptions configures comparison behavior
type CompareOptions struct {
	Income      decimal.Decimal // in the base country's currency
	BaseCountry string
	Countries   []string // empty or "all" compares against every other country
	Region      string   // restricts "all" to one region
}

// Compare converts the income into each country's currency, calculates, and
// converts tax and net income back into the base currency.
func (ce *CompareEngine) Compare(ctx context.Context, options CompareOptions) (*ComparisonSet, error) {
	if err := domain.ValidateIncome(options.Income); err != nil {
		return nil, err
	}
	baseProfile, ok := ce.Dataset.Get(options.BaseCountry)
	if !ok {
		return nil, fmt.Errorf("base country: %w: %q", domain.ErrUnknownCountry, options.BaseCountry)
	}

	codes, err := ce.resolveCountries(baseProfile.Code, options)
	if err != nil {
		return nil, err
	}

	profiles := make([]domain.CountryTaxProfile, 0, len(codes)+1)
	profiles = append(profiles, baseProfile)
	reqs := make([]calculation.Request, 0, len(codes)+1)
	reqs = append(reqs, calculation.Request{Income: options.Income, CountryCode: baseProfile.Code})
	for _, code := range codes {
		p, _ := ce.Dataset.Get(code)
		local, err := ce.Rates.Convert(options.Income, baseProfile.Currency, p.Currency)
		if err != nil {
			return nil, fmt.Errorf("converting income for %s: %w", code, err)
		}
		profiles = append(profiles, p)
		reqs = append(reqs, calculation.Request{Income: local, CountryCode: code})
	}

	results, err := calculation.CalculateBatch(ctx, ce.Calc, reqs, ce.Workers)
	if err != nil {
		return nil, err
	}

	compared := make([]ComparisonResult, len(results))
	for i, r := range results {
		c, err := ce.toBase(profiles[i], r, baseProfile.Currency)
		if err != nil {
			return nil, err
		}
		compared[i] = c
	}

	base := compared[0]
	alternatives := lo.Map(compared[1:], func(c ComparisonResult, _ int) ComparisonResult {
		return CalculateComparison(c, base)
	})

	compSet := &ComparisonSet{
		Income:             options.Income,
		BaseCurrency:       baseProfile.Currency,
		BaseCountry:        baseProfile.Code,
		BaseResult:         &base,
		AlternativeResults: alternatives,
	}
	compSet.Recommendations = GenerateRecommendations(compSet)
	return compSet, nil
}

func (ce *CompareEngine) resolveCountries(base string, options CompareOptions) ([]string, error) {
	requested := lo.Map(options.Countries, func(c string, _ int) string { return dataset.NormalizeCode(c) })
	requested = lo.Compact(requested)

	if len(requested) == 0 || lo.Contains(requested, "ALL") {
		pool := ce.Dataset.List()
		if options.Region != "" {
			pool = ce.Dataset.ListRegion(options.Region)
		}
		all := lo.Map(pool, func(p domain.CountryTaxProfile, _ int) string { return p.Code })
		return lo.Without(all, base), nil
	}

	var unknown []string
	for _, code := range requested {
		if _, ok := ce.Dataset.Get(code); !ok {
			unknown = append(unknown, code)
		}
	}
	if len(unknown) > 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownCountry, strings.Join(unknown, ", "))
	}
	return lo.Without(lo.Uniq(requested), base), nil
}

func (ce *CompareEngine) toBase(p domain.CountryTaxProfile, r domain.TaxCalculationResult, baseCurrency string) (ComparisonResult, error) {
	converted, err := ce.Rates.ConvertResult(r, baseCurrency)
	if err != nil {
		return ComparisonResult{}, fmt.Errorf("converting result for %s: %w", p.Code, err)
	}
	ss := decimal.Zero
	if converted.SocialSecurity.Valid {
		ss = converted.SocialSecurity.Decimal
	}
	return ComparisonResult{
		CountryCode:    p.Code,
		CountryName:    p.Name,
		Region:         p.Region,
		Currency:       p.Currency,
		Status:         r.Status,
		LocalIncome:    r.GrossIncome,
		LocalTax:       r.TotalTax,
		Tax:            converted.TotalTax,
		SocialSecurity: ss,
		NetIncome:      converted.NetIncome,
		EffectiveRate:  r.EffectiveRate,
		MarginalRate:   r.MarginalRate,
	}, nil
}
