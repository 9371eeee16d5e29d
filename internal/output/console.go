package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/rgehrsitz/taxatlas/internal/domain"
)

// ConsoleFormatter prints a full breakdown for every entry.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console" }

func (c ConsoleFormatter) Format(report *Report) ([]byte, error) {
	var buf bytes.Buffer
	line := strings.Repeat("=", 64)

	for i, e := range report.Entries {
		if i > 0 {
			fmt.Fprintln(&buf)
		}
		r := e.Result
		fmt.Fprintln(&buf, line)
		fmt.Fprintf(&buf, "INCOME TAX: %s\n", title(e))
		fmt.Fprintln(&buf, line)

		if !r.OK() {
			fmt.Fprintf(&buf, "No calculation: %s\n", describeStatus(r.Status))
			continue
		}

		money := func(label string, v string) {
			fmt.Fprintf(&buf, "%-18s %s\n", label+":", v)
		}
		money("Gross income", FormatMoney(r.GrossIncome, r.Currency))
		if !r.TaxableIncome.Equal(r.GrossIncome) {
			money("Taxable income", FormatMoney(r.TaxableIncome, r.Currency))
		}
		money("Income tax", FormatMoney(r.TotalTax, r.Currency))
		money("Effective rate", FormatPercentage(r.EffectiveRate))
		money("Marginal rate", FormatPercentage(r.MarginalRate))
		if r.SocialSecurity.Valid {
			money("Social security", FormatMoney(r.SocialSecurity.Decimal, r.Currency))
		}
		money("Net income", FormatMoney(r.NetIncome, r.Currency))

		if len(r.Breakdown) == 0 {
			continue
		}
		fmt.Fprintln(&buf)
		fmt.Fprintln(&buf, "BRACKET BREAKDOWN")
		fmt.Fprintln(&buf, strings.Repeat("-", 64))
		for _, b := range r.Breakdown {
			fmt.Fprintf(&buf, "  %-28s %16s %16s\n", b.String(), FormatMoney(b.Taxed, r.Currency), FormatMoney(b.Tax, r.Currency))
		}
	}
	return buf.Bytes(), nil
}

// ConsoleLiteFormatter prints one line per entry.
type ConsoleLiteFormatter struct{}

func (c ConsoleLiteFormatter) Name() string { return "console-lite" }

func (c ConsoleLiteFormatter) Format(report *Report) ([]byte, error) {
	var buf bytes.Buffer
	for _, e := range report.Entries {
		r := e.Result
		if !r.OK() {
			fmt.Fprintf(&buf, "%-3s %-24s %s\n", r.CountryCode, e.CountryName, describeStatus(r.Status))
			continue
		}
		fmt.Fprintf(&buf, "%-3s %-24s tax %s on %s (%s)\n",
			r.CountryCode, e.CountryName,
			FormatMoney(r.TotalTax, r.Currency),
			FormatMoney(r.GrossIncome, r.Currency),
			FormatPercentage(r.EffectiveRate))
	}
	return buf.Bytes(), nil
}

func title(e Entry) string {
	if e.CountryName == "" {
		return e.Result.CountryCode
	}
	return fmt.Sprintf("%s (%s)", e.CountryName, e.Result.CountryCode)
}

func describeStatus(s domain.ResultStatus) string {
	switch s {
	case domain.StatusUnknownCountry:
		return "no tax data for this country"
	case domain.StatusInvalidIncome:
		return "income must be a non-negative number"
	default:
		return string(s)
	}
}
