package output

import (
	"bytes"
	"encoding/csv"
)

// CSVFormatter writes one row per entry.
type CSVFormatter struct{}

func (c CSVFormatter) Name() string { return "csv" }

func (c CSVFormatter) Format(report *Report) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Country", "Name", "Status", "Currency", "GrossIncome", "TaxableIncome", "TotalTax", "EffectiveRate", "MarginalRate", "SocialSecurity", "NetIncome"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, e := range report.Entries {
		r := e.Result
		ss := ""
		if r.SocialSecurity.Valid {
			ss = r.SocialSecurity.Decimal.StringFixed(2)
		}
		row := []string{
			r.CountryCode,
			e.CountryName,
			string(r.Status),
			r.Currency,
			r.GrossIncome.StringFixed(2),
			r.TaxableIncome.StringFixed(2),
			r.TotalTax.StringFixed(2),
			r.EffectiveRate.StringFixed(4),
			r.MarginalRate.StringFixed(4),
			ss,
			r.NetIncome.StringFixed(2),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// DetailedCSVFormatter writes one row per taxed bracket.
type DetailedCSVFormatter struct{}

func (c DetailedCSVFormatter) Name() string { return "detailed-csv" }

func (c DetailedCSVFormatter) Format(report *Report) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.Write([]string{"Country", "Currency", "Bracket", "Rate", "Taxed", "Tax"}); err != nil {
		return nil, err
	}
	for _, e := range report.Entries {
		r := e.Result
		for _, b := range r.Breakdown {
			row := []string{r.CountryCode, r.Currency, b.Label, b.Rate.String(), b.Taxed.StringFixed(2), b.Tax.StringFixed(2)}
			if err := w.Write(row); err != nil {
				return nil, err
			}
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
