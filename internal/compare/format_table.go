package compare

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// TableFormatter formats comparison results as a console table
type TableFormatter struct {
	SortByTax bool // order alternatives by tax instead of input order
}

// Format generates a formatted table comparing countries
func (tf *TableFormatter) Format(compSet *ComparisonSet) string {
	var sb strings.Builder

	sb.WriteString("INCOME TAX COMPARISON\n")
	sb.WriteString(strings.Repeat("=", 80) + "\n")
	if compSet.BaseResult != nil {
		sb.WriteString(fmt.Sprintf("Base Country: %s (%s)\n", compSet.BaseResult.CountryName, compSet.BaseCountry))
	}
	sb.WriteString(fmt.Sprintf("Gross Income: %s %s\n", compSet.Income.StringFixed(2), compSet.BaseCurrency))
	sb.WriteString("\n")

	nameWidth := 24
	numWidth := 13

	sb.WriteString(fmt.Sprintf("%-*s %*s %*s %*s %*s\n",
		nameWidth, "Country",
		numWidth, "Tax",
		numWidth, "Effective",
		numWidth, "Net Income",
		numWidth, "vs Base"))
	sb.WriteString(strings.Repeat("-", 80) + "\n")

	if compSet.BaseResult != nil {
		sb.WriteString(tf.formatRow(compSet.BaseResult, nameWidth, numWidth, true))
	}

	alternatives := compSet.AlternativeResults
	if tf.SortByTax {
		alternatives = append([]ComparisonResult(nil), alternatives...)
		sortByTax(alternatives)
	}
	if len(alternatives) > 0 {
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		for i := range alternatives {
			sb.WriteString(tf.formatRow(&alternatives[i], nameWidth, numWidth, false))
		}
	}
	sb.WriteString(strings.Repeat("=", 80) + "\n")

	if len(compSet.Recommendations) > 0 {
		sb.WriteString("\nRECOMMENDATIONS\n")
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		for _, rec := range compSet.Recommendations {
			sb.WriteString(fmt.Sprintf("• %s\n", rec))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func sortByTax(results []ComparisonResult) {
	sort.SliceStable(results, func(i, j int) bool { return results[i].Tax.LessThan(results[j].Tax) })
}

// formatRow formats a single country row
func (tf *TableFormatter) formatRow(result *ComparisonResult, nameWidth, numWidth int, isBase bool) string {
	name := fmt.Sprintf("%s %s", result.CountryCode, result.CountryName)
	if isBase {
		name += " (base)"
	}

	delta := "-"
	if !isBase {
		delta = tf.deltaSymbol(result.TaxDiffFromBase) + tf.formatDecimal(result.TaxDiffFromBase.Abs())
	}

	return fmt.Sprintf("%-*s %*s %*s %*s %*s\n",
		nameWidth, tf.truncate(name, nameWidth),
		numWidth, tf.formatDecimal(result.Tax),
		numWidth, result.EffectiveRate.Mul(decimal.NewFromInt(100)).StringFixed(2)+"%",
		numWidth, tf.formatDecimal(result.NetIncome),
		numWidth, delta)
}

// formatDecimal formats a decimal for display (in thousands)
func (tf *TableFormatter) formatDecimal(d decimal.Decimal) string {
	if d.Abs().GreaterThanOrEqual(decimal.NewFromInt(1000000)) {
		millions := d.Div(decimal.NewFromInt(1000000))
		return millions.StringFixed(2) + "M"
	} else if d.Abs().GreaterThanOrEqual(decimal.NewFromInt(1000)) {
		thousands := d.Div(decimal.NewFromInt(1000))
		return thousands.StringFixed(1) + "K"
	}
	return d.StringFixed(0)
}

// deltaSymbol returns the sign prefix for a delta
func (tf *TableFormatter) deltaSymbol(delta decimal.Decimal) string {
	if delta.IsPositive() {
		return "+"
	} else if delta.IsNegative() {
		return "-"
	}
	return ""
}

// truncate truncates a string to maxLen
func (tf *TableFormatter) truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// FormatCompact creates a compact single-line summary
func (tf *TableFormatter) FormatCompact(compSet *ComparisonSet) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Base: %s | ", compSet.BaseCountry))

	for i, alt := range compSet.AlternativeResults {
		if i > 0 {
			sb.WriteString(" | ")
		}
		change := "="
		if alt.TaxDiffFromBase.IsPositive() {
			change = fmt.Sprintf("+%s", tf.formatDecimal(alt.TaxDiffFromBase))
		} else if alt.TaxDiffFromBase.IsNegative() {
			change = fmt.Sprintf("-%s", tf.formatDecimal(alt.TaxDiffFromBase.Abs()))
		}
		sb.WriteString(fmt.Sprintf("%s: %s", alt.CountryCode, change))
	}

	return sb.String()
}
