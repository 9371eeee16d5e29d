package currency

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgehrsitz/taxatlas/internal/domain"
)

func TestRateTable_Convert(t *testing.T) {
	rates := Default()

	tests := []struct {
		name   string
		amount string
		from   string
		to     string
		want   string
	}{
		{"same currency", "100", "EUR", "eur", "100"},
		{"base to other", "100", "EUR", "USD", "108"},
		{"other to base", "108", "USD", "EUR", "100"},
		{"cross rate", "1", "EUR", "SEK", "11.5"},
		{"zero", "0", "GBP", "CHF", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := rates.Convert(decimal.RequireFromString(tt.amount), tt.from, tt.to)
			require.NoError(t, err)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "got %s", got)
		})
	}
}

func TestRateTable_UnknownCurrency(t *testing.T) {
	rates := Default()

	_, err := rates.Convert(decimal.NewFromInt(1), "EUR", "XYZ")
	assert.ErrorIs(t, err, domain.ErrUnknownCurrency)

	_, err = rates.Rate("ABC")
	assert.ErrorIs(t, err, domain.ErrUnknownCurrency)
}

func TestRateTable_Supported(t *testing.T) {
	codes := Default().Supported()
	assert.Contains(t, codes, "EUR")
	assert.Contains(t, codes, "USD")
	assert.IsIncreasing(t, codes)
}

func TestRateTable_ConvertResult(t *testing.T) {
	rates := Default()
	r := domain.TaxCalculationResult{
		Status:         domain.StatusOK,
		CountryCode:    "DE",
		Currency:       "EUR",
		GrossIncome:    decimal.NewFromInt(1000),
		TaxableIncome:  decimal.NewFromInt(1000),
		TotalTax:       decimal.NewFromInt(100),
		EffectiveRate:  decimal.RequireFromString("0.1"),
		NetIncome:      decimal.NewFromInt(850),
		SocialSecurity: decimal.NewNullDecimal(decimal.NewFromInt(50)),
		Breakdown: []domain.BreakdownEntry{
			{Label: "0 - ∞", Taxed: decimal.NewFromInt(1000), Tax: decimal.NewFromInt(100), Rate: decimal.RequireFromString("0.1")},
		},
	}

	out, err := rates.ConvertResult(r, "usd")
	require.NoError(t, err)
	assert.Equal(t, "USD", out.Currency)
	assert.True(t, out.GrossIncome.Equal(decimal.NewFromInt(1080)))
	assert.True(t, out.TotalTax.Equal(decimal.NewFromInt(108)))
	assert.True(t, out.SocialSecurity.Decimal.Equal(decimal.NewFromInt(54)))
	assert.True(t, out.Breakdown[0].Tax.Equal(decimal.NewFromInt(108)))
	assert.True(t, out.EffectiveRate.Equal(r.EffectiveRate), "rates are not converted")

	assert.True(t, r.Breakdown[0].Tax.Equal(decimal.NewFromInt(100)), "input must not be modified")
}

func TestRateTable_ConvertResultSkipsFailedStatus(t *testing.T) {
	r := domain.EmptyResult("ZZ", domain.StatusUnknownCountry)
	out, err := Default().ConvertResult(r, "USD")
	require.NoError(t, err)
	assert.Equal(t, r.Currency, out.Currency)
}

func TestFormatter(t *testing.T) {
	f, err := NewFormatter("en")
	require.NoError(t, err)

	s, err := f.Format(decimal.RequireFromString("1234.5"), "USD")
	require.NoError(t, err)
	assert.Contains(t, s, "1,234.50")

	assert.Equal(t, "10.95%", f.Percent(decimal.RequireFromString("0.1095")))

	_, err = f.Format(decimal.NewFromInt(1), "NOPE")
	assert.ErrorIs(t, err, domain.ErrUnknownCurrency)
}

func TestNewFormatter_InvalidLocale(t *testing.T) {
	_, err := NewFormatter("!!")
	assert.Error(t, err)
}
