package dataset

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/taxatlas/internal/domain"
)

var one = decimal.NewFromInt(1)

// ValidateProfile checks a single profile and returns every problem found.
// Bracket boundaries may either be shared (next.Min == prev.Max) or follow the
// whole-unit convention (next.Min == prev.Max + 1); anything else is a gap or
// an overlap.
func ValidateProfile(p domain.CountryTaxProfile) []error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%s: "+format, append([]any{p.Code}, args...)...))
	}

	if !isAlpha(p.Code, 2) {
		fail("code must be two letters (ISO 3166-1 alpha-2)")
	}
	if !isAlpha(p.Currency, 3) {
		fail("currency %q must be three letters (ISO 4217)", p.Currency)
	}
	if p.Name == "" {
		fail("name is required")
	}
	if p.StandardDeduction != nil && p.StandardDeduction.IsNegative() {
		fail("standard deduction cannot be negative")
	}
	if ss := p.SocialSecurity; ss != nil {
		if ss.Rate.IsNegative() || ss.Rate.GreaterThan(one) {
			fail("social security rate %s must be between 0 and 1", ss.Rate)
		}
		if ss.Cap != nil && ss.Cap.IsNegative() {
			fail("social security cap cannot be negative")
		}
	}

	if len(p.Brackets) == 0 {
		fail("at least one bracket is required")
		return errs
	}

	for i, b := range p.Brackets {
		if b.Rate.IsNegative() || b.Rate.GreaterThan(one) {
			fail("bracket %d rate %s must be between 0 and 1", i, b.Rate)
		}
		if b.Min.IsNegative() {
			fail("bracket %d min cannot be negative", i)
		}
		last := i == len(p.Brackets)-1
		if b.Max.IsUnbounded() {
			if !last {
				fail("bracket %d is unbounded but is not the top bracket", i)
			}
		} else {
			if last {
				fail("top bracket must be unbounded, got max %s", b.Max)
			}
			if !b.Max.Amount().GreaterThan(b.Min) {
				fail("bracket %d max %s must be greater than min %s", i, b.Max, b.Min)
			}
		}
		if i == 0 {
			if !b.Min.IsZero() {
				fail("first bracket must start at 0, got %s", b.Min)
			}
			continue
		}
		prev := p.Brackets[i-1]
		if prev.Max.IsUnbounded() {
			continue
		}
		gap := b.Min.Sub(prev.Max.Amount())
		switch {
		case gap.IsNegative():
			fail("bracket %d overlaps bracket %d (%s < %s)", i, i-1, b.Min, prev.Max)
		case !gap.IsZero() && !gap.Equal(one):
			fail("gap between bracket %d and %d (%s to %s)", i-1, i, prev.Max, b.Min)
		}
	}
	return errs
}

func isAlpha(s string, n int) bool {
	if len(s) != n {
		return false
	}
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

func joinValidation(errs []error) error {
	return fmt.Errorf("%w: %w", domain.ErrInvalidDataset, errors.Join(errs...))
}
