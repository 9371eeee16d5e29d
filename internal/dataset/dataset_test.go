package dataset

import (
	"strings"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgehrsitz/taxatlas/internal/domain"
)

func testProfile(code, name string) domain.CountryTaxProfile {
	return domain.CountryTaxProfile{
		Name:     name,
		Code:     code,
		Currency: "EUR",
		Brackets: []domain.TaxBracket{
			domain.NewBracket(0, 10000, 0),
			domain.NewBracket(10000, -1, 0.2),
		},
	}
}

func TestDefault_BuiltinTablesAreValid(t *testing.T) {
	ds, err := Default()
	require.NoError(t, err, "built-in tables must pass load-time validation")

	assert.Greater(t, ds.Len(), 40)
	assert.Empty(t, ds.Shadowed())

	for _, p := range ds.List() {
		assert.NotEmpty(t, p.Region, "%s should have a region", p.Code)
		assert.True(t, p.Brackets[len(p.Brackets)-1].Max.IsUnbounded(), "%s top bracket", p.Code)
	}
}

func TestTaxDataset_Get(t *testing.T) {
	ds, err := Default()
	require.NoError(t, err)

	de, ok := ds.Get("DE")
	require.True(t, ok)
	assert.Equal(t, "Germany", de.Name)
	assert.Equal(t, "EUR", de.Currency)
	assert.Equal(t, RegionWestern, de.Region)

	lower, ok := ds.Get(" de ")
	require.True(t, ok, "lookup should normalise case and whitespace")
	assert.Equal(t, de.Code, lower.Code)

	_, ok = ds.Get("ZZ")
	assert.False(t, ok)
}

func TestTaxDataset_GetReturnsCopy(t *testing.T) {
	ds, err := New(testProfile("AA", "Alpha"))
	require.NoError(t, err)

	p, _ := ds.Get("AA")
	p.Brackets[1].Rate = decimal.NewFromFloat(0.99)

	again, _ := ds.Get("AA")
	assert.Equal(t, "0.2", again.Brackets[1].Rate.String())
}

func TestTaxDataset_ListSortedByName(t *testing.T) {
	ds, err := New(testProfile("BB", "Beta"), testProfile("AA", "Alpha"), testProfile("CC", "Gamma"))
	require.NoError(t, err)

	names := make([]string, 0, ds.Len())
	for _, p := range ds.List() {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"Alpha", "Beta", "Gamma"}, names)
	assert.Equal(t, []string{"AA", "BB", "CC"}, ds.Codes())
}

func TestTaxDataset_Regions(t *testing.T) {
	ds, err := Default()
	require.NoError(t, err)

	regions := ds.Regions()
	assert.Contains(t, regions, RegionBaltic)
	assert.Contains(t, regions, RegionHavens)

	baltic := ds.ListRegion(RegionBaltic)
	codes := make([]string, 0, len(baltic))
	for _, p := range baltic {
		codes = append(codes, p.Code)
	}
	assert.ElementsMatch(t, []string{"EE", "LV", "LT"}, codes)
}

func TestBuild_DuplicateFailsByDefault(t *testing.T) {
	_, err := Build(WithTables(
		Table{Name: "first", Profiles: []domain.CountryTaxProfile{testProfile("AA", "Alpha")}},
		Table{Name: "second", Profiles: []domain.CountryTaxProfile{testProfile("aa", "Alpha again")}},
	))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDuplicateCountry)
	assert.ErrorIs(t, err, domain.ErrInvalidDataset)
	assert.Contains(t, err.Error(), "first")
	assert.Contains(t, err.Error(), "second")
}

func TestBuild_LastWriteWinsRecordsShadow(t *testing.T) {
	ds, err := Build(
		WithMergePolicy(LastWriteWins),
		WithTables(
			Table{Name: "first", Profiles: []domain.CountryTaxProfile{testProfile("AA", "Alpha")}},
			Table{Name: "second", Profiles: []domain.CountryTaxProfile{testProfile("AA", "Alpha v2")}},
		),
	)
	require.NoError(t, err)

	p, _ := ds.Get("AA")
	assert.Equal(t, "Alpha v2", p.Name)
	assert.Equal(t, "second", ds.Source("AA"))
	assert.Equal(t, []Shadowed{{Code: "AA", Source: "first", ReplacedBy: "second"}}, ds.Shadowed())
}

func TestBuild_OverridePrecedence(t *testing.T) {
	base := Table{Name: "base", Profiles: []domain.CountryTaxProfile{testProfile("AA", "Alpha")}}

	ds, err := Build(
		WithTables(base),
		WithOverrides("first.yaml", testProfile("AA", "Alpha first"), testProfile("BB", "Beta")),
		WithOverrides("second.yaml", testProfile("AA", "Alpha second")),
	)
	require.NoError(t, err)

	p, _ := ds.Get("AA")
	assert.Equal(t, "Alpha second", p.Name, "later override list wins")
	assert.Equal(t, "base", p.Region, "override without a region keeps the replaced entry's region")
	assert.Equal(t, "second.yaml", ds.Source("AA"))

	b, ok := ds.Get("BB")
	require.True(t, ok, "override lists may add countries")
	assert.Equal(t, "first.yaml", b.Region)
	assert.Len(t, ds.Shadowed(), 2)
}

func TestBuild_DuplicateInsideOverrideList(t *testing.T) {
	_, err := Build(
		WithTables(),
		WithOverrides("dup.yaml", testProfile("AA", "Alpha"), testProfile("AA", "Alpha again")),
	)
	assert.ErrorIs(t, err, domain.ErrDuplicateCountry)
}

func TestValidateProfile(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(p *domain.CountryTaxProfile)
		wantErr string
	}{
		{"valid", func(p *domain.CountryTaxProfile) {}, ""},
		{"whole unit boundary", func(p *domain.CountryTaxProfile) {
			p.Brackets[1].Min = decimal.NewFromInt(10001)
		}, ""},
		{"gap", func(p *domain.CountryTaxProfile) {
			p.Brackets[1].Min = decimal.NewFromInt(10500)
		}, "gap between bracket 0 and 1"},
		{"fractional gap", func(p *domain.CountryTaxProfile) {
			p.Brackets[1].Min = p.Brackets[0].Max.Amount().Add(decimal.RequireFromString("0.5"))
		}, "gap between bracket 0 and 1"},
		{"one cent gap", func(p *domain.CountryTaxProfile) {
			p.Brackets[1].Min = p.Brackets[0].Max.Amount().Add(decimal.RequireFromString("0.01"))
		}, "gap between bracket 0 and 1"},
		{"overlap", func(p *domain.CountryTaxProfile) {
			p.Brackets[1].Min = decimal.NewFromInt(9000)
		}, "overlaps"},
		{"negative rate", func(p *domain.CountryTaxProfile) {
			p.Brackets[0].Rate = decimal.NewFromFloat(-0.1)
		}, "rate -0.1 must be between 0 and 1"},
		{"bounded top bracket", func(p *domain.CountryTaxProfile) {
			p.Brackets[1].Max = domain.FiniteInt(50000)
		}, "top bracket must be unbounded"},
		{"unbounded middle bracket", func(p *domain.CountryTaxProfile) {
			p.Brackets[0].Max = domain.Unbounded()
		}, "is unbounded but is not the top bracket"},
		{"first bracket not at zero", func(p *domain.CountryTaxProfile) {
			p.Brackets[0].Min = decimal.NewFromInt(100)
		}, "first bracket must start at 0"},
		{"no brackets", func(p *domain.CountryTaxProfile) {
			p.Brackets = nil
		}, "at least one bracket"},
		{"bad code", func(p *domain.CountryTaxProfile) {
			p.Code = "DEU"
		}, "two letters"},
		{"bad currency", func(p *domain.CountryTaxProfile) {
			p.Currency = "EU"
		}, "three letters"},
		{"negative deduction", func(p *domain.CountryTaxProfile) {
			p.StandardDeduction = domain.DecimalPtr(decimal.NewFromInt(-1))
		}, "standard deduction cannot be negative"},
		{"negative social security cap", func(p *domain.CountryTaxProfile) {
			p.SocialSecurity = &domain.SocialSecurityRule{Rate: decimal.NewFromFloat(0.1), Cap: domain.DecimalPtr(decimal.NewFromInt(-5))}
		}, "cap cannot be negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := testProfile("AA", "Alpha")
			tt.mutate(&p)
			errs := ValidateProfile(p)
			if tt.wantErr == "" {
				assert.Empty(t, errs)
				return
			}
			require.NotEmpty(t, errs)
			found := false
			for _, err := range errs {
				if strings.Contains(err.Error(), tt.wantErr) {
					found = true
				}
			}
			assert.True(t, found, "expected an error containing %q, got %v", tt.wantErr, errs)
		})
	}
}

func TestBuild_ReportsEveryViolation(t *testing.T) {
	bad1 := testProfile("AA", "Alpha")
	bad1.Brackets[0].Rate = decimal.NewFromFloat(1.5)
	bad2 := testProfile("BB", "Beta")
	bad2.Brackets[1].Max = domain.FiniteInt(20000)

	_, err := New(bad1, bad2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AA: bracket 0 rate 1.5")
	assert.Contains(t, err.Error(), "BB: top bracket must be unbounded")
}

func TestTaxDataset_ConcurrentReads(t *testing.T) {
	ds, err := Default()
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, code := range ds.Codes() {
				_, ok := ds.Get(code)
				assert.True(t, ok)
			}
		}()
	}
	wg.Wait()
}
