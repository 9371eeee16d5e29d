// Package breakeven inverts the tax calculation: it finds the gross income at
// which a country's net income, tax or effective rate reaches a target.
package breakeven

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/taxatlas/internal/calculation"
	"github.com/rgehrsitz/taxatlas/internal/currency"
	"github.com/rgehrsitz/taxatlas/internal/dataset"
	"github.com/rgehrsitz/taxatlas/internal/domain"
)

var two = decimal.NewFromInt(2)

// Solver searches gross incomes with a bisection over the calculator.
type Solver struct {
	Calc    calculation.Calculator
	Dataset *dataset.TaxDataset
	Rates   *currency.RateTable
	Options SolverOptions
}

// NewSolver creates a new income solver
func NewSolver(calc calculation.Calculator, ds *dataset.TaxDataset, options SolverOptions) *Solver {
	return &Solver{Calc: calc, Dataset: ds, Rates: currency.Default(), Options: options}
}

// NewDefaultSolver creates a solver with default options
func NewDefaultSolver(calc calculation.Calculator, ds *dataset.TaxDataset) *Solver {
	return NewSolver(calc, ds, DefaultSolverOptions())
}

// Solve finds the smallest gross income whose targeted figure is at least
// req.Value, to within the tolerance.
func (s *Solver) Solve(ctx context.Context, req SolveRequest) (*SolveResult, error) {
	if req.MaxIterations == 0 {
		req.MaxIterations = s.Options.MaxIterations
	}
	if req.Tolerance.IsZero() {
		req.Tolerance = s.Options.Tolerance
	}
	if err := req.validate(); err != nil {
		return nil, err
	}
	if _, ok := s.Dataset.Get(req.Country); !ok {
		return nil, &BreakEvenError{
			Operation: "solve",
			Message:   fmt.Sprintf("country %q", req.Country),
			Cause:     domain.ErrUnknownCountry,
		}
	}

	low := decimal.Zero
	if req.Constraints.MinIncome != nil {
		low = *req.Constraints.MinIncome
	}
	high := s.Options.MaxIncome
	if req.Constraints.MaxIncome != nil {
		high = *req.Constraints.MaxIncome
	}

	eval := func(income decimal.Decimal) (domain.TaxCalculationResult, decimal.Decimal, error) {
		r := s.Calc.CalculateTax(income, req.Country)
		if !r.OK() {
			return r, decimal.Zero, &BreakEvenError{Operation: "solve", Message: fmt.Sprintf("calculation failed with status %s", r.Status)}
		}
		return r, req.Target.measure(r), nil
	}

	lowResult, lowValue, err := eval(low)
	if err != nil {
		return nil, err
	}
	if lowValue.GreaterThanOrEqual(req.Value) {
		return &SolveResult{
			Request:         req,
			Income:          low,
			Achieved:        lowValue,
			Result:          lowResult,
			Success:         true,
			ConvergenceInfo: "Target met at the lower bound",
		}, nil
	}

	highResult, highValue, err := eval(high)
	if err != nil {
		return nil, err
	}
	if highValue.LessThan(req.Value) {
		return nil, &BreakEvenError{
			Operation: "solve",
			Message: fmt.Sprintf("%s of %s is not reachable below an income of %s (reaches %s)",
				req.Target, req.Value, high.StringFixed(2), highValue.StringFixed(4)),
		}
	}

	iterations := 0
	for high.Sub(low).GreaterThan(req.Tolerance) {
		if iterations >= req.MaxIterations {
			return &SolveResult{
				Request:         req,
				Income:          high,
				Achieved:        highValue,
				Result:          highResult,
				Iterations:      iterations,
				ConvergenceInfo: fmt.Sprintf("Max iterations (%d) reached", req.MaxIterations),
			}, nil
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		iterations++

		mid := low.Add(high).Div(two)
		r, v, err := eval(mid)
		if err != nil {
			return nil, err
		}
		if v.GreaterThanOrEqual(req.Value) {
			high, highResult, highValue = mid, r, v
		} else {
			low = mid
		}
	}

	// Report the smallest whole-cent income that still meets the target.
	income := high
	for _, candidate := range []decimal.Decimal{high.RoundFloor(2), high.RoundCeil(2)} {
		if r, v, err := eval(candidate); err == nil && v.GreaterThanOrEqual(req.Value) {
			income, highResult, highValue = candidate, r, v
			break
		}
	}

	return &SolveResult{
		Request:         req,
		Income:          income,
		Achieved:        highValue,
		Result:          highResult,
		Iterations:      iterations,
		Success:         true,
		ConvergenceInfo: fmt.Sprintf("Converged within %s after %d iterations", req.Tolerance, iterations),
	}, nil
}
