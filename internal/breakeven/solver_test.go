package breakeven

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/taxatlas/internal/calculation"
	"github.com/rgehrsitz/taxatlas/internal/dataset"
	"github.com/rgehrsitz/taxatlas/internal/domain"
)

func testSolver(t *testing.T) *Solver {
	t.Helper()
	ds, err := dataset.New(
		domain.CountryTaxProfile{
			Name: "Flatland", Code: "FL", Currency: "EUR",
			Brackets: []domain.TaxBracket{domain.NewBracket(0, -1, 0.2)},
		},
		domain.CountryTaxProfile{
			Name: "Germany-like", Code: "GL", Currency: "EUR",
			Brackets: []domain.TaxBracket{
				domain.NewBracket(0, 10908, 0),
				domain.NewBracket(10908, 62809, 0.14),
				domain.NewBracket(62810, 277825, 0.42),
				domain.NewBracket(277825, -1, 0.45),
			},
		},
		domain.CountryTaxProfile{
			Name: "Lowtax", Code: "LT", Currency: "USD",
			Brackets: []domain.TaxBracket{domain.NewBracket(0, -1, 0.1)},
		},
	)
	if err != nil {
		t.Fatalf("building dataset: %v", err)
	}
	return NewDefaultSolver(calculation.NewEngine(ds), ds)
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestNewSolver(t *testing.T) {
	s := testSolver(t)
	if s.Calc == nil || s.Dataset == nil || s.Rates == nil {
		t.Fatal("Expected solver dependencies to be set")
	}
	if !s.Options.Tolerance.Equal(DefaultSolverOptions().Tolerance) {
		t.Error("Expected default tolerance to be applied")
	}
}

func TestParseTarget(t *testing.T) {
	tests := map[string]Target{
		"net":            TargetNetIncome,
		"NET_INCOME":     TargetNetIncome,
		"tax":            TargetTotalTax,
		"effective-rate": TargetEffectiveRate,
	}
	for in, want := range tests {
		got, err := ParseTarget(in)
		if err != nil || got != want {
			t.Errorf("ParseTarget(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseTarget("gross"); err == nil {
		t.Error("Expected error for unknown target")
	}
}

func TestSolver_NetIncomeFlat(t *testing.T) {
	res, err := testSolver(t).Solve(context.Background(), SolveRequest{Country: "FL", Target: TargetNetIncome, Value: dec("40000")})
	if err != nil {
		t.Fatalf("Solve failed: %v", err)
	}
	if !res.Success {
		t.Errorf("Expected success, got %s", res.ConvergenceInfo)
	}
	if !res.Income.Equal(dec("50000")) {
		t.Errorf("Expected gross income 50000, got %s", res.Income)
	}
	if !res.Achieved.Equal(dec("40000")) {
		t.Errorf("Expected achieved net 40000, got %s", res.Achieved)
	}
}

func TestSolver_TotalTaxProgressive(t *testing.T) {
	res, err := testSolver(t).Solve(context.Background(), SolveRequest{Country: "GL", Target: TargetTotalTax, Value: dec("5472.88")})
	if err != nil {
		t.Fatalf("Solve failed: %v", err)
	}
	if !res.Income.Equal(dec("50000")) {
		t.Errorf("Expected gross income 50000, got %s", res.Income)
	}
	if len(res.Result.Breakdown) != 1 {
		t.Errorf("Expected one taxed bracket, got %d", len(res.Result.Breakdown))
	}
}

func TestSolver_EffectiveRateIsMinimal(t *testing.T) {
	s := testSolver(t)
	target := dec("0.25")
	res, err := s.Solve(context.Background(), SolveRequest{Country: "GL", Target: TargetEffectiveRate, Value: target})
	if err != nil {
		t.Fatalf("Solve failed: %v", err)
	}
	if res.Achieved.LessThan(target) {
		t.Errorf("Expected effective rate of at least %s, got %s", target, res.Achieved)
	}
	below := s.Calc.CalculateTax(res.Income.Sub(dec("0.01")), "GL")
	if !below.EffectiveRate.LessThan(target) {
		t.Errorf("Expected one cent less to miss the target, got %s", below.EffectiveRate)
	}
}

func TestSolver_TargetMetAtLowerBound(t *testing.T) {
	res, err := testSolver(t).Solve(context.Background(), SolveRequest{Country: "GL", Target: TargetTotalTax, Value: decimal.Zero})
	if err != nil {
		t.Fatalf("Solve failed: %v", err)
	}
	if !res.Income.IsZero() || res.Iterations != 0 {
		t.Errorf("Expected zero income without iterating, got %s after %d", res.Income, res.Iterations)
	}
}

func TestSolver_Unreachable(t *testing.T) {
	_, err := testSolver(t).Solve(context.Background(), SolveRequest{Country: "FL", Target: TargetEffectiveRate, Value: dec("0.5")})
	var be *BreakEvenError
	if !errors.As(err, &be) {
		t.Fatalf("Expected BreakEvenError, got %v", err)
	}
	if !strings.Contains(be.Message, "not reachable") {
		t.Errorf("Unexpected message: %s", be.Message)
	}
}

func TestSolver_InvalidRequests(t *testing.T) {
	s := testSolver(t)
	upper := dec("10")
	lower := dec("20")

	tests := []struct {
		name string
		req  SolveRequest
	}{
		{"unsupported target", SolveRequest{Country: "FL", Target: "gross", Value: dec("1")}},
		{"negative value", SolveRequest{Country: "FL", Target: TargetNetIncome, Value: dec("-1")}},
		{"rate of one", SolveRequest{Country: "FL", Target: TargetEffectiveRate, Value: dec("1")}},
		{"huge value", SolveRequest{Country: "FL", Target: TargetNetIncome, Value: dec("1e1000000")}},
		{"huge rate", SolveRequest{Country: "FL", Target: TargetEffectiveRate, Value: dec("1e1000000")}},
		{"inverted bounds", SolveRequest{Country: "FL", Target: TargetNetIncome, Value: dec("1"), Constraints: Constraints{MinIncome: &lower, MaxIncome: &upper}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := s.Solve(context.Background(), tt.req); err == nil {
				t.Error("Expected error")
			}
		})
	}
}

func TestSolver_UnknownCountry(t *testing.T) {
	_, err := testSolver(t).Solve(context.Background(), SolveRequest{Country: "ZZ", Target: TargetNetIncome, Value: dec("1")})
	if !errors.Is(err, domain.ErrUnknownCountry) {
		t.Errorf("Expected ErrUnknownCountry, got %v", err)
	}
}

func TestSolver_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := testSolver(t).Solve(ctx, SolveRequest{Country: "FL", Target: TargetNetIncome, Value: dec("40000")})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestSolver_MaxIterations(t *testing.T) {
	res, err := testSolver(t).Solve(context.Background(), SolveRequest{
		Country: "FL", Target: TargetNetIncome, Value: dec("40000"), MaxIterations: 3,
	})
	if err != nil {
		t.Fatalf("Solve failed: %v", err)
	}
	if res.Success {
		t.Error("Expected no convergence in 3 iterations")
	}
	if res.Iterations != 3 {
		t.Errorf("Expected 3 iterations, got %d", res.Iterations)
	}
	if res.Achieved.LessThan(dec("40000")) {
		t.Error("Expected the best bound to still meet the target")
	}
}

func TestSolver_SolveAcross(t *testing.T) {
	res, err := testSolver(t).SolveAcross(context.Background(), MultiRequest{
		BaseCurrency: "EUR",
		Target:       TargetNetIncome,
		Value:        dec("40000"),
		Countries:    []string{"fl", "LT"},
	})
	if err != nil {
		t.Fatalf("SolveAcross failed: %v", err)
	}
	if len(res.Solutions) != 2 {
		t.Fatalf("Expected 2 solutions, got %d", len(res.Solutions))
	}

	fl, lt := res.Solutions[0], res.Solutions[1]
	if fl.CountryCode != "FL" || !fl.Solve.Income.Equal(dec("50000")) || !fl.IncomeInBase.Equal(dec("50000")) {
		t.Errorf("Unexpected FL solution: %+v", fl)
	}
	// 40000 EUR is 43200 USD net, so 48000 USD gross at 10%.
	if lt.Currency != "USD" || !lt.Solve.Income.Equal(dec("48000")) {
		t.Errorf("Unexpected LT solution: %+v", lt)
	}
	if res.Cheapest == nil || res.Cheapest.CountryCode != "LT" {
		t.Errorf("Expected LT to need the lowest gross income, got %+v", res.Cheapest)
	}

	out := (&TableFormatter{}).FormatMulti(res)
	if !strings.Contains(out, "Lowest gross income: Lowtax") {
		t.Errorf("Unexpected table:\n%s", out)
	}
}

func TestSolver_SolveAcrossReportsUnreachable(t *testing.T) {
	res, err := testSolver(t).SolveAcross(context.Background(), MultiRequest{
		Target: TargetEffectiveRate, Value: dec("0.3"),
	})
	if err != nil {
		t.Fatalf("SolveAcross failed: %v", err)
	}
	if len(res.Solutions) != 3 {
		t.Fatalf("Expected every country, got %d", len(res.Solutions))
	}
	for _, sol := range res.Solutions {
		reachable := sol.CountryCode == "GL"
		if reachable != (sol.Solve != nil) {
			t.Errorf("%s: unexpected solution %+v", sol.CountryCode, sol)
		}
		if !reachable && sol.Error == "" {
			t.Errorf("%s: expected an error message", sol.CountryCode)
		}
	}
}

func TestSolver_SolveAcrossErrors(t *testing.T) {
	s := testSolver(t)
	if _, err := s.SolveAcross(context.Background(), MultiRequest{Target: TargetNetIncome, Value: dec("1"), Countries: []string{"ZZ"}}); !errors.Is(err, domain.ErrUnknownCountry) {
		t.Errorf("Expected ErrUnknownCountry, got %v", err)
	}
	if _, err := s.SolveAcross(context.Background(), MultiRequest{BaseCurrency: "XYZ", Target: TargetNetIncome, Value: dec("1")}); !errors.Is(err, domain.ErrUnknownCurrency) {
		t.Errorf("Expected ErrUnknownCurrency, got %v", err)
	}
	if _, err := s.SolveAcross(context.Background(), MultiRequest{Target: TargetTotalTax, Value: dec("1e1000000")}); !errors.Is(err, domain.ErrAmountOutOfRange) {
		t.Errorf("Expected ErrAmountOutOfRange, got %v", err)
	}
}

func TestTableFormatter_Format(t *testing.T) {
	res, err := testSolver(t).Solve(context.Background(), SolveRequest{Country: "FL", Target: TargetNetIncome, Value: dec("40000")})
	if err != nil {
		t.Fatalf("Solve failed: %v", err)
	}
	out := (&TableFormatter{}).Format(res)
	for _, want := range []string{"GROSS INCOME SOLVER", "✓ Converged", "50,000.00"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in:\n%s", want, out)
		}
	}

	js, err := (&JSONFormatter{}).Format(res)
	if err != nil {
		t.Fatalf("JSON failed: %v", err)
	}
	if !strings.Contains(js, `"success":true`) {
		t.Errorf("Unexpected JSON: %s", js)
	}
}
