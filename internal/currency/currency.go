// Package currency converts amounts between the currencies used by the tax
// dataset and renders them for display.
package currency

import (
	"fmt"
	"sort"
	"strings"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/rgehrsitz/taxatlas/internal/domain"
)

// RateTable holds static exchange rates expressed as units of each currency
// per one unit of Base.
type RateTable struct {
	Base  string
	Rates map[string]decimal.Decimal
}

// Reference rates per 1 EUR. They are indicative only and never updated at
// runtime.
var referenceRates = map[string]string{
	"EUR": "1",
	"USD": "1.08",
	"GBP": "0.85",
	"CHF": "0.95",
	"SEK": "11.5",
	"NOK": "11.7",
	"DKK": "7.46",
	"ISK": "150",
	"PLN": "4.3",
	"CZK": "25.2",
	"HUF": "395",
	"RON": "4.97",
	"BGN": "1.9558",
	"RSD": "117.2",
	"BAM": "1.9558",
	"MKD": "61.5",
	"ALL": "100",
	"MDL": "19.3",
	"UAH": "44.5",
	"AED": "3.97",
	"BHD": "0.407",
	"BMD": "1.08",
	"BSD": "1.08",
	"KYD": "0.9",
	"CAD": "1.47",
	"MXN": "18.5",
}

// Default returns the built-in EUR-based table.
func Default() *RateTable {
	rates := make(map[string]decimal.Decimal, len(referenceRates))
	for code, r := range referenceRates {
		rates[code] = decimal.RequireFromString(r)
	}
	return &RateTable{Base: "EUR", Rates: rates}
}

// Supported lists the currency codes in the table, sorted.
func (t *RateTable) Supported() []string {
	codes := lo.Keys(t.Rates)
	sort.Strings(codes)
	return codes
}

// Rate returns the number of code units per base unit.
func (t *RateTable) Rate(code string) (decimal.Decimal, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	r, ok := t.Rates[code]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %q", domain.ErrUnknownCurrency, code)
	}
	return r, nil
}

// Convert moves amount from one currency to another through the base.
func (t *RateTable) Convert(amount decimal.Decimal, from, to string) (decimal.Decimal, error) {
	if strings.EqualFold(from, to) {
		return amount, nil
	}
	fromRate, err := t.Rate(from)
	if err != nil {
		return decimal.Zero, err
	}
	toRate, err := t.Rate(to)
	if err != nil {
		return decimal.Zero, err
	}
	return amount.Mul(toRate).Div(fromRate), nil
}

// ConvertResult re-expresses every monetary field of r in currency to. Rates
// are ratios and are left untouched.
func (t *RateTable) ConvertResult(r domain.TaxCalculationResult, to string) (domain.TaxCalculationResult, error) {
	to = strings.ToUpper(strings.TrimSpace(to))
	if !r.OK() || r.Currency == to {
		return r, nil
	}
	conv := func(d decimal.Decimal) (decimal.Decimal, error) {
		return t.Convert(d, r.Currency, to)
	}

	out := r
	var err error
	if out.GrossIncome, err = conv(r.GrossIncome); err != nil {
		return r, err
	}
	if out.TaxableIncome, err = conv(r.TaxableIncome); err != nil {
		return r, err
	}
	if out.TotalTax, err = conv(r.TotalTax); err != nil {
		return r, err
	}
	if out.NetIncome, err = conv(r.NetIncome); err != nil {
		return r, err
	}
	if r.SocialSecurity.Valid {
		ss, err := conv(r.SocialSecurity.Decimal)
		if err != nil {
			return r, err
		}
		out.SocialSecurity = decimal.NewNullDecimal(ss)
	}
	out.Breakdown = make([]domain.BreakdownEntry, len(r.Breakdown))
	for i, e := range r.Breakdown {
		if e.Taxed, err = conv(e.Taxed); err != nil {
			return r, err
		}
		if e.Tax, err = conv(e.Tax); err != nil {
			return r, err
		}
		out.Breakdown[i] = e
	}
	out.Currency = to
	return out, nil
}

// Formatter renders amounts with locale-aware grouping and the currency symbol.
type Formatter struct {
	printer *message.Printer
	tag     language.Tag
}

// NewFormatter creates a formatter for a BCP 47 locale such as "en" or "de-DE".
// An empty locale means English.
func NewFormatter(locale string) (*Formatter, error) {
	tag := language.English
	if locale != "" {
		parsed, err := language.Parse(locale)
		if err != nil {
			return nil, fmt.Errorf("invalid locale %q: %w", locale, err)
		}
		tag = parsed
	}
	return &Formatter{printer: message.NewPrinter(tag), tag: tag}, nil
}

// Format renders amount in code, for example "€ 1,234.50".
func (f *Formatter) Format(amount decimal.Decimal, code string) (string, error) {
	unit, err := currency.ParseISO(strings.ToUpper(code))
	if err != nil {
		return "", fmt.Errorf("%w: %q", domain.ErrUnknownCurrency, code)
	}
	scale, _ := currency.Standard.Rounding(unit)
	symbol := f.printer.Sprint(currency.Symbol(unit))
	value := amount.Round(int32(scale)).InexactFloat64()
	return symbol + " " + f.printer.Sprintf(fmt.Sprintf("%%.%df", scale), value), nil
}

// Percent renders a ratio such as 0.1095 as "10.95%".
func (f *Formatter) Percent(rate decimal.Decimal) string {
	return f.printer.Sprintf("%.2f%%", rate.Mul(decimal.NewFromInt(100)).InexactFloat64())
}
