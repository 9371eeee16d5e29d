package compare

import (
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/taxatlas/internal/domain"
)

func buildTestSet() *ComparisonSet {
	base := ComparisonResult{
		CountryCode:   "DE",
		CountryName:   "Germany",
		Currency:      "EUR",
		Status:        domain.StatusOK,
		LocalIncome:   decimal.NewFromInt(60000),
		LocalTax:      decimal.NewFromInt(8000),
		Tax:           decimal.NewFromInt(8000),
		NetIncome:     decimal.NewFromInt(52000),
		EffectiveRate: decimal.RequireFromString("0.1333"),
	}
	return &ComparisonSet{
		Income:       decimal.NewFromInt(60000),
		BaseCurrency: "EUR",
		BaseCountry:  "DE",
		BaseResult:   &base,
		AlternativeResults: []ComparisonResult{
			{
				CountryCode:      "BG",
				CountryName:      "Bulgaria",
				Currency:         "BGN",
				Status:           domain.StatusOK,
				Tax:              decimal.NewFromInt(6000),
				NetIncome:        decimal.NewFromInt(54000),
				EffectiveRate:    decimal.RequireFromString("0.1"),
				TaxDiffFromBase:  decimal.NewFromInt(-2000),
				NetDiffFromBase:  decimal.NewFromInt(2000),
				RateDiffFromBase: decimal.RequireFromString("-3.33"),
			},
			{
				CountryCode:     "BE",
				CountryName:     "Belgium",
				Currency:        "EUR",
				Status:          domain.StatusOK,
				Tax:             decimal.NewFromInt(18000),
				NetIncome:       decimal.NewFromInt(42000),
				EffectiveRate:   decimal.RequireFromString("0.3"),
				TaxDiffFromBase: decimal.NewFromInt(10000),
			},
		},
		Recommendations: []string{"Lowest Tax: Bulgaria saves 2000 EUR compared to Germany"},
	}
}

func TestTableFormatter_Format(t *testing.T) {
	formatter := &TableFormatter{}
	result := formatter.Format(buildTestSet())

	for _, want := range []string{
		"INCOME TAX COMPARISON",
		"Base Country: Germany (DE)",
		"Gross Income: 60000.00 EUR",
		"DE Germany (base)",
		"BG Bulgaria",
		"-2.0K",
		"+10.0K",
		"RECOMMENDATIONS",
	} {
		if !strings.Contains(result, want) {
			t.Errorf("expected %q in output:\n%s", want, result)
		}
	}
}

func TestTableFormatter_SortByTax(t *testing.T) {
	formatter := &TableFormatter{SortByTax: true}
	set := buildTestSet()
	set.AlternativeResults[0], set.AlternativeResults[1] = set.AlternativeResults[1], set.AlternativeResults[0]

	result := formatter.Format(set)
	if strings.Index(result, "BG Bulgaria") > strings.Index(result, "BE Belgium") {
		t.Error("expected lower tax first")
	}
	if set.AlternativeResults[0].CountryCode != "BE" {
		t.Error("sorting must not reorder the caller's slice")
	}
}

func TestTableFormatter_FormatCompact(t *testing.T) {
	formatter := &TableFormatter{}
	got := formatter.FormatCompact(buildTestSet())
	want := "Base: DE | BG: -2.0K | BE: +10.0K"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestCSVFormatter_Format(t *testing.T) {
	formatter := &CSVFormatter{}
	result, err := formatter.Format(buildTestSet())
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(result), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header + 3 rows, got %d", len(lines))
	}
	if !strings.Contains(lines[0], "Tax (EUR)") {
		t.Errorf("header should name base currency: %s", lines[0])
	}
	if !strings.HasPrefix(lines[1], "DE,Germany,base,ok,EUR,60000.00,8000.00,8000.00") {
		t.Errorf("unexpected base row: %s", lines[1])
	}
	if !strings.HasPrefix(lines[2], "BG,Bulgaria,alternative") {
		t.Errorf("unexpected alternative row: %s", lines[2])
	}
}

func TestJSONFormatter_Format(t *testing.T) {
	generated := time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)
	for _, pretty := range []bool{false, true} {
		formatter := &JSONFormatter{Pretty: pretty, Now: func() time.Time { return generated }}
		result, err := formatter.Format(buildTestSet())
		if err != nil {
			t.Fatalf("Format failed: %v", err)
		}

		var decoded struct {
			GeneratedAt       time.Time     `json:"generatedAt"`
			BaseCurrency      string        `json:"baseCurrency"`
			CountryCount      int           `json:"countryCount"`
			LowestTaxCountry  string        `json:"lowestTaxCountry"`
			HighestNetCountry string        `json:"highestNetCountry"`
			Comparison        ComparisonSet `json:"comparison"`
		}
		if err := json.Unmarshal([]byte(result), &decoded); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if !decoded.GeneratedAt.Equal(generated) {
			t.Errorf("generatedAt = %s, want %s", decoded.GeneratedAt, generated)
		}
		if decoded.BaseCurrency != "EUR" || decoded.CountryCount != 3 {
			t.Errorf("unexpected envelope: %+v", decoded)
		}
		if decoded.LowestTaxCountry != "BG" || decoded.HighestNetCountry != "BG" {
			t.Errorf("expected BG to lead, got tax=%s net=%s", decoded.LowestTaxCountry, decoded.HighestNetCountry)
		}
		if decoded.Comparison.BaseCountry != "DE" || len(decoded.Comparison.AlternativeResults) != 2 {
			t.Errorf("unexpected comparison: %+v", decoded.Comparison)
		}
		if !decoded.Comparison.AlternativeResults[0].TaxDiffFromBase.Equal(decimal.NewFromInt(-2000)) {
			t.Errorf("delta lost in JSON: %s", decoded.Comparison.AlternativeResults[0].TaxDiffFromBase)
		}
	}
}

func TestJSONFormatter_SortByTax(t *testing.T) {
	set := buildTestSet()
	set.AlternativeResults[0], set.AlternativeResults[1] = set.AlternativeResults[1], set.AlternativeResults[0]

	result, err := (&JSONFormatter{SortByTax: true}).Format(set)
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	if strings.Index(result, `"countryCode":"BG"`) > strings.Index(result, `"countryCode":"BE"`) {
		t.Errorf("alternatives not sorted by tax: %s", result)
	}
	if set.AlternativeResults[0].CountryCode != "BE" {
		t.Error("input set was reordered")
	}
}

func TestJSONFormatter_EmptySet(t *testing.T) {
	result, err := (&JSONFormatter{}).Format(&ComparisonSet{BaseCurrency: "EUR"})
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	if strings.Contains(result, "lowestTaxCountry") {
		t.Errorf("empty set should omit leaders: %s", result)
	}
}
