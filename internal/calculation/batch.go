package calculation

import (
	"context"
	"runtime"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/rgehrsitz/taxatlas/internal/domain"
)

// Request is one (income, country) pair for CalculateBatch.
type Request struct {
	Income      decimal.Decimal `yaml:"income" json:"income"`
	CountryCode string          `yaml:"country" json:"country"`
}

// Calculator is the single-call surface shared by Engine and CachedEngine.
type Calculator interface {
	CalculateTax(income decimal.Decimal, countryCode string) domain.TaxCalculationResult
}

// CalculateBatch runs every request through calc on up to workers goroutines
// (GOMAXPROCS when workers <= 0). Results keep the order of reqs. Individual
// failures are reported through each result's Status; the only error returned
// is ctx's.
func CalculateBatch(ctx context.Context, calc Calculator, reqs []Request, workers int) ([]domain.TaxCalculationResult, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	results := make([]domain.TaxCalculationResult, len(reqs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, req := range reqs {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = calc.CalculateTax(req.Income, req.CountryCode)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// CalculateBatch is a convenience wrapper using the engine itself.
func (e *Engine) CalculateBatch(ctx context.Context, reqs []Request, workers int) ([]domain.TaxCalculationResult, error) {
	e.Logger.Debugf("batch of %d requests on %d workers", len(reqs), workers)
	return CalculateBatch(ctx, e, reqs, workers)
}
