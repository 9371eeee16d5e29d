package compare

import (
	"encoding/csv"
	"strings"
)

// CSVFormatter formats comparison results as CSV
type CSVFormatter struct{}

// Format generates CSV output for comparison results
func (cf *CSVFormatter) Format(compSet *ComparisonSet) (string, error) {
	var sb strings.Builder
	writer := csv.NewWriter(&sb)

	header := []string{
		"Country",
		"Name",
		"Type",
		"Status",
		"Local Currency",
		"Local Income",
		"Local Tax",
		"Tax (" + compSet.BaseCurrency + ")",
		"Social Security (" + compSet.BaseCurrency + ")",
		"Net Income (" + compSet.BaseCurrency + ")",
		"Effective Rate",
		"Tax Diff from Base",
		"Net Diff from Base",
		"Rate Diff (pp)",
	}
	if err := writer.Write(header); err != nil {
		return "", err
	}

	if compSet.BaseResult != nil {
		if err := writer.Write(cf.formatRow(compSet.BaseResult, "base")); err != nil {
			return "", err
		}
	}

	for i := range compSet.AlternativeResults {
		if err := writer.Write(cf.formatRow(&compSet.AlternativeResults[i], "alternative")); err != nil {
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", err
	}

	return sb.String(), nil
}

// formatRow formats a comparison result as a CSV row
func (cf *CSVFormatter) formatRow(result *ComparisonResult, rowType string) []string {
	return []string{
		result.CountryCode,
		result.CountryName,
		rowType,
		string(result.Status),
		result.Currency,
		result.LocalIncome.StringFixed(2),
		result.LocalTax.StringFixed(2),
		result.Tax.StringFixed(2),
		result.SocialSecurity.StringFixed(2),
		result.NetIncome.StringFixed(2),
		result.EffectiveRate.StringFixed(4),
		result.TaxDiffFromBase.StringFixed(2),
		result.NetDiffFromBase.StringFixed(2),
		result.RateDiffFromBase.StringFixed(2),
	}
}
