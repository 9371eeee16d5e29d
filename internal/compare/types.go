package compare

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/taxatlas/internal/domain"
)

// ComparisonResult is one country's outcome for the compared income. Money
// fields without a Local prefix are expressed in the base currency.
type ComparisonResult struct {
	CountryCode string              `json:"countryCode"`
	CountryName string              `json:"countryName"`
	Region      string              `json:"region,omitempty"`
	Currency    string              `json:"currency"`
	Status      domain.ResultStatus `json:"status"`

	LocalIncome decimal.Decimal `json:"localIncome"`
	LocalTax    decimal.Decimal `json:"localTax"`

	Tax            decimal.Decimal `json:"tax"`
	SocialSecurity decimal.Decimal `json:"socialSecurity"`
	NetIncome      decimal.Decimal `json:"netIncome"`
	EffectiveRate  decimal.Decimal `json:"effectiveRate"`
	MarginalRate   decimal.Decimal `json:"marginalRate"`

	// Comparison to Base
	TaxDiffFromBase  decimal.Decimal `json:"taxDiffFromBase"`
	NetDiffFromBase  decimal.Decimal `json:"netDiffFromBase"`
	RateDiffFromBase decimal.Decimal `json:"rateDiffFromBase"` // percentage points
}

// ComparisonSet is the base country plus every alternative.
type ComparisonSet struct {
	Income             decimal.Decimal    `json:"income"`
	BaseCurrency       string             `json:"baseCurrency"`
	BaseCountry        string             `json:"baseCountry"`
	BaseResult         *ComparisonResult  `json:"baseResult"`
	AlternativeResults []ComparisonResult `json:"alternativeResults"`
	Recommendations    []string           `json:"recommendations"`
}

// CalculateComparison fills the deltas of scenario against base.
func CalculateComparison(scenario, base ComparisonResult) ComparisonResult {
	scenario.TaxDiffFromBase = scenario.Tax.Sub(base.Tax)
	scenario.NetDiffFromBase = scenario.NetIncome.Sub(base.NetIncome)
	scenario.RateDiffFromBase = scenario.EffectiveRate.Sub(base.EffectiveRate).Mul(decimal.NewFromInt(100))
	return scenario
}

// GenerateRecommendations names the lowest-tax and highest-net alternatives
// when they beat the base.
func GenerateRecommendations(compSet *ComparisonSet) []string {
	recommendations := []string{}
	if compSet.BaseResult == nil || len(compSet.AlternativeResults) == 0 {
		return recommendations
	}
	base := compSet.BaseResult

	lowestTax := base
	for i := range compSet.AlternativeResults {
		alt := &compSet.AlternativeResults[i]
		if alt.Tax.LessThan(lowestTax.Tax) {
			lowestTax = alt
		}
	}
	if lowestTax != base {
		recommendations = append(recommendations, fmt.Sprintf(
			"Lowest Tax: %s saves %s %s compared to %s",
			lowestTax.CountryName, base.Tax.Sub(lowestTax.Tax).StringFixed(0), compSet.BaseCurrency, base.CountryName))
	}

	highestNet := base
	for i := range compSet.AlternativeResults {
		alt := &compSet.AlternativeResults[i]
		if alt.NetIncome.GreaterThan(highestNet.NetIncome) {
			highestNet = alt
		}
	}
	if highestNet != base {
		recommendations = append(recommendations, fmt.Sprintf(
			"Highest Net Income: %s leaves %s %s more after tax and social security",
			highestNet.CountryName, highestNet.NetIncome.Sub(base.NetIncome).StringFixed(0), compSet.BaseCurrency))
	}

	return recommendations
}
