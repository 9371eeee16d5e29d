package breakeven

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/rgehrsitz/taxatlas/internal/dataset"
	"github.com/rgehrsitz/taxatlas/internal/domain"
)

// MultiRequest solves the same target in several countries. Money values are
// given in BaseCurrency and converted into each country's currency.
type MultiRequest struct {
	BaseCurrency string
	Target       Target
	Value        decimal.Decimal
	Countries    []string // empty compares every country
}

// CountrySolution is one country's answer with its income restated in the
// base currency.
type CountrySolution struct {
	CountryCode  string          `json:"country_code"`
	CountryName  string          `json:"country_name"`
	Currency     string          `json:"currency"`
	Solve        *SolveResult    `json:"solve,omitempty"`
	IncomeInBase decimal.Decimal `json:"income_in_base"`
	Error        string          `json:"error,omitempty"`
}

// MultiResult collects the per-country solutions in request order.
type MultiResult struct {
	BaseCurrency string            `json:"base_currency"`
	Target       Target            `json:"target"`
	Value        decimal.Decimal   `json:"value"`
	Solutions    []CountrySolution `json:"solutions"`
	Cheapest     *CountrySolution  `json:"cheapest,omitempty"`
}

// SolveAcross runs Solve for each country concurrently. A country whose
// target is unreachable is reported in its solution rather than failing the
// whole run; unknown countries and a cancelled ctx fail it.
func (s *Solver) SolveAcross(ctx context.Context, req MultiRequest) (*MultiResult, error) {
	if err := domain.CheckAmount(req.Value); err != nil {
		return nil, &BreakEvenError{Operation: "solve across", Message: "target value out of range", Cause: err}
	}
	base := strings.ToUpper(strings.TrimSpace(req.BaseCurrency))
	if base == "" {
		base = s.Rates.Base
	}
	if _, err := s.Rates.Rate(base); err != nil {
		return nil, err
	}

	codes := lo.Uniq(lo.Compact(lo.Map(req.Countries, func(c string, _ int) string { return dataset.NormalizeCode(c) })))
	if len(codes) == 0 {
		codes = s.Dataset.Codes()
	}
	profiles := make([]domain.CountryTaxProfile, len(codes))
	for i, code := range codes {
		p, ok := s.Dataset.Get(code)
		if !ok {
			return nil, fmt.Errorf("%w: %s", domain.ErrUnknownCountry, code)
		}
		profiles[i] = p
	}

	workers := s.Options.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	solutions := make([]CountrySolution, len(profiles))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, p := range profiles {
		g.Go(func() error {
			sol := CountrySolution{CountryCode: p.Code, CountryName: p.Name, Currency: p.Currency}
			defer func() { solutions[i] = sol }()

			value := req.Value
			if req.Target.IsMoney() {
				local, err := s.Rates.Convert(req.Value, base, p.Currency)
				if err != nil {
					return err
				}
				value = local
			}

			res, err := s.Solve(gctx, SolveRequest{Country: p.Code, Target: req.Target, Value: value})
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				var be *BreakEvenError
				if !errors.As(err, &be) || errors.Is(err, domain.ErrUnknownCountry) {
					return err
				}
				sol.Error = err.Error()
				return nil
			}
			sol.Solve = res
			sol.IncomeInBase, err = s.Rates.Convert(res.Income, p.Currency, base)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &MultiResult{BaseCurrency: base, Target: req.Target, Value: req.Value, Solutions: solutions}
	for i := range solutions {
		sol := &solutions[i]
		if sol.Solve == nil {
			continue
		}
		if out.Cheapest == nil || sol.IncomeInBase.LessThan(out.Cheapest.IncomeInBase) {
			out.Cheapest = sol
		}
	}
	return out, nil
}
