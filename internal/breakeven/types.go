package breakeven

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/taxatlas/internal/domain"
)

// Target names the result figure a solve aims for.
type Target string

const (
	TargetNetIncome     Target = "net_income"     // take-home pay after tax and social security
	TargetTotalTax      Target = "total_tax"      // income tax owed
	TargetEffectiveRate Target = "effective_rate" // income tax / gross income
)

// ParseTarget accepts the canonical names plus the short forms used on the
// command line.
func ParseTarget(s string) (Target, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "net", "net_income", "net-income":
		return TargetNetIncome, nil
	case "tax", "total_tax", "total-tax":
		return TargetTotalTax, nil
	case "rate", "effective_rate", "effective-rate":
		return TargetEffectiveRate, nil
	default:
		return "", fmt.Errorf("unknown target %q (net, tax, rate)", s)
	}
}

// IsMoney reports whether the target is an amount rather than a ratio.
func (t Target) IsMoney() bool {
	return t == TargetNetIncome || t == TargetTotalTax
}

// measure extracts the targeted figure from a result. Every target is
// non-decreasing in gross income, which the bisection relies on.
func (t Target) measure(r domain.TaxCalculationResult) decimal.Decimal {
	switch t {
	case TargetTotalTax:
		return r.TotalTax
	case TargetEffectiveRate:
		return r.EffectiveRate
	default:
		return r.NetIncome
	}
}

// Constraints bound the gross incomes the solver searches.
type Constraints struct {
	MinIncome *decimal.Decimal `json:"min_income,omitempty"`
	MaxIncome *decimal.Decimal `json:"max_income,omitempty"`
}

// Validate checks the bounds are usable
func (c Constraints) Validate() error {
	if c.MinIncome != nil && c.MinIncome.IsNegative() {
		return &BreakEvenError{Operation: "validate_constraints", Message: "min_income cannot be negative"}
	}
	if c.MinIncome != nil && c.MaxIncome != nil && c.MinIncome.GreaterThan(*c.MaxIncome) {
		return &BreakEvenError{Operation: "validate_constraints", Message: "min_income cannot be greater than max_income"}
	}
	return nil
}

// SolveRequest asks for the smallest gross income in Country whose Target
// figure reaches Value. Money values are in the country's own currency.
type SolveRequest struct {
	Country       string          `json:"country"`
	Target        Target          `json:"target"`
	Value         decimal.Decimal `json:"value"`
	Constraints   Constraints     `json:"constraints"`
	MaxIterations int             `json:"-"`
	Tolerance     decimal.Decimal `json:"-"` // width of the final income interval
}

func (r SolveRequest) validate() error {
	switch r.Target {
	case TargetNetIncome, TargetTotalTax, TargetEffectiveRate:
	default:
		return &BreakEvenError{Operation: "solve", Message: fmt.Sprintf("unsupported target: %s", r.Target)}
	}
	if err := domain.CheckAmount(r.Value); err != nil {
		return &BreakEvenError{Operation: "solve", Message: "target value out of range", Cause: err}
	}
	if r.Value.IsNegative() {
		return &BreakEvenError{Operation: "solve", Message: "target value cannot be negative"}
	}
	if r.Target == TargetEffectiveRate && r.Value.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return &BreakEvenError{Operation: "solve", Message: "effective rate target must be below 1"}
	}
	return r.Constraints.Validate()
}

// SolveResult is the outcome of a single-country solve.
type SolveResult struct {
	Request         SolveRequest                `json:"request"`
	Income          decimal.Decimal             `json:"income"`
	Achieved        decimal.Decimal             `json:"achieved"`
	Result          domain.TaxCalculationResult `json:"result"`
	Iterations      int                         `json:"iterations"`
	Success         bool                        `json:"success"`
	ConvergenceInfo string                      `json:"convergence_info,omitempty"`
}

// SolverOptions configures solver behavior
type SolverOptions struct {
	MaxIterations int
	Tolerance     decimal.Decimal
	MaxIncome     decimal.Decimal // upper search bound when the request sets none
	Workers       int             // concurrency for SolveAcross; 0 uses GOMAXPROCS
}

// DefaultSolverOptions returns cent precision over incomes up to one billion.
func DefaultSolverOptions() SolverOptions {
	return SolverOptions{
		MaxIterations: 100,
		Tolerance:     decimal.RequireFromString("0.01"),
		MaxIncome:     decimal.NewFromInt(1_000_000_000),
	}
}

// BreakEvenError represents errors from the income solver
type BreakEvenError struct {
	Operation string
	Message   string
	Cause     error
}

func (e *BreakEvenError) Error() string {
	if e.Cause != nil {
		return e.Operation + ": " + e.Message + ": " + e.Cause.Error()
	}
	return e.Operation + ": " + e.Message
}

func (e *BreakEvenError) Unwrap() error {
	return e.Cause
}
