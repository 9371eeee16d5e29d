package calculation

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/taxatlas/internal/dataset"
	"github.com/rgehrsitz/taxatlas/internal/domain"
)

// Logger is the logging surface the engine writes to. The CLI and the HTTP
// server supply a zap-backed implementation.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// NopLogger discards everything.
type NopLogger struct{}

func (NopLogger) Debugf(string, ...any) {}
func (NopLogger) Infof(string, ...any)  {}
func (NopLogger) Warnf(string, ...any)  {}
func (NopLogger) Errorf(string, ...any) {}

// Engine computes income tax for a country taken from an injected dataset.
// It holds no mutable state and is safe for concurrent use.
type Engine struct {
	Dataset *dataset.TaxDataset
	Logger  Logger
}

// NewEngine creates an engine reading profiles from ds.
func NewEngine(ds *dataset.TaxDataset) *Engine {
	return &Engine{Dataset: ds, Logger: NopLogger{}}
}

// SetLogger replaces the logger; nil installs a NopLogger.
func (e *Engine) SetLogger(l Logger) {
	if l == nil {
		e.Logger = NopLogger{}
		return
	}
	e.Logger = l
}

// Calculate is the strict entry point. It returns ErrInvalidIncome for
// negative income and ErrUnknownCountry when the code is not in the dataset.
func (e *Engine) Calculate(income decimal.Decimal, countryCode string) (*domain.TaxCalculationResult, error) {
	if err := domain.ValidateIncome(income); err != nil {
		return nil, err
	}
	profile, ok := e.Dataset.Get(countryCode)
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownCountry, countryCode)
	}
	result := CalculateForProfile(income, profile)
	e.Logger.Debugf("calculated %s on %s %s: tax=%s effective=%s brackets=%d",
		profile.Code, income.String(), profile.Currency, result.TotalTax.String(), result.EffectiveRate.StringFixed(4), len(result.Breakdown))
	return &result, nil
}

// CalculateTax never fails. An unknown country or an invalid income produces a
// zeroed result whose Status says why, so a UI can show "no data" instead of a
// misleading zero tax.
func (e *Engine) CalculateTax(income decimal.Decimal, countryCode string) domain.TaxCalculationResult {
	code := dataset.NormalizeCode(countryCode)
	if err := domain.ValidateIncome(income); err != nil {
		e.Logger.Warnf("rejected income for %s: %v", code, err)
		return domain.EmptyResult(code, domain.StatusInvalidIncome)
	}
	profile, ok := e.Dataset.Get(code)
	if !ok {
		e.Logger.Infof("no tax profile for %q", code)
		return domain.EmptyResult(code, domain.StatusUnknownCountry)
	}
	return CalculateForProfile(income, profile)
}

// CalculateFloat validates a float income (rejecting NaN and infinities) before
// calling Calculate.
func (e *Engine) CalculateFloat(income float64, countryCode string) (*domain.TaxCalculationResult, error) {
	d, err := domain.IncomeFromFloat(income)
	if err != nil {
		return nil, err
	}
	return e.Calculate(d, countryCode)
}
