package compare

import (
	"time"

	"github.com/goccy/go-json"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// JSONFormatter wraps a ComparisonSet in a report envelope that records when
// it was generated and which country comes out ahead.
type JSONFormatter struct {
	Pretty    bool
	SortByTax bool
	Now       func() time.Time // defaults to time.Now
}

type comparisonReport struct {
	GeneratedAt       time.Time       `json:"generatedAt"`
	Income            decimal.Decimal `json:"income"`
	BaseCurrency      string          `json:"baseCurrency"`
	CountryCount      int             `json:"countryCount"`
	LowestTaxCountry  string          `json:"lowestTaxCountry,omitempty"`
	HighestNetCountry string          `json:"highestNetCountry,omitempty"`
	Comparison        *ComparisonSet  `json:"comparison"`
}

// Format renders the report. The input set is not modified.
func (jf *JSONFormatter) Format(compSet *ComparisonSet) (string, error) {
	now := time.Now
	if jf.Now != nil {
		now = jf.Now
	}

	set := *compSet
	if jf.SortByTax {
		set.AlternativeResults = append([]ComparisonResult(nil), compSet.AlternativeResults...)
		sortByTax(set.AlternativeResults)
	}

	all := set.AlternativeResults
	if set.BaseResult != nil {
		all = append([]ComparisonResult{*set.BaseResult}, all...)
	}
	report := comparisonReport{
		GeneratedAt:  now().UTC(),
		Income:       set.Income,
		BaseCurrency: set.BaseCurrency,
		CountryCount: len(all),
		Comparison:   &set,
	}
	if len(all) > 0 {
		report.LowestTaxCountry = lo.MinBy(all, func(a, b ComparisonResult) bool { return a.Tax.LessThan(b.Tax) }).CountryCode
		report.HighestNetCountry = lo.MaxBy(all, func(a, b ComparisonResult) bool { return a.NetIncome.GreaterThan(b.NetIncome) }).CountryCode
	}

	var data []byte
	var err error
	if jf.Pretty {
		data, err = json.MarshalIndent(report, "", "  ")
	} else {
		data, err = json.Marshal(report)
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}
