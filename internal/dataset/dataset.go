// Package dataset holds the immutable catalogue of country tax profiles the
// calculation engine looks up by ISO 3166-1 alpha-2 code.
package dataset

import (
	"fmt"
	"sort"
	"strings"

	"github.com/samber/lo"

	"github.com/rgehrsitz/taxatlas/internal/domain"
)

// Table is a named list of profiles, typically one region.
type Table struct {
	Name     string
	Profiles []domain.CountryTaxProfile
}

// MergePolicy decides what happens when two tables define the same code.
type MergePolicy int

const (
	// FailOnDuplicate rejects the dataset when a code appears twice among the base tables.
	FailOnDuplicate MergePolicy = iota
	// LastWriteWins keeps the entry from the later table and records the shadowed one.
	LastWriteWins
)

func (p MergePolicy) String() string {
	switch p {
	case FailOnDuplicate:
		return "fail-on-duplicate"
	case LastWriteWins:
		return "last-write-wins"
	default:
		return fmt.Sprintf("MergePolicy(%d)", int(p))
	}
}

// Shadowed records a base-table entry replaced by a later table or an override list.
type Shadowed struct {
	Code       string
	Source     string
	ReplacedBy string
}

// TaxDataset is a read-only lookup from country code to profile. It is safe for
// concurrent use once built.
type TaxDataset struct {
	profiles map[string]domain.CountryTaxProfile
	sources  map[string]string
	order    []string
	shadowed []Shadowed
}

type buildConfig struct {
	tables    []Table
	overrides []Table
	policy    MergePolicy
}

// Option configures Build.
type Option func(*buildConfig)

// WithTables replaces the built-in regional tables.
func WithTables(tables ...Table) Option {
	return func(c *buildConfig) { c.tables = tables }
}

// WithOverrides appends an override list. Override lists are applied after the
// base tables, in the order given; a later list wins over an earlier one and
// over every base table. A code repeated inside a single list is an error.
func WithOverrides(source string, profiles ...domain.CountryTaxProfile) Option {
	return func(c *buildConfig) {
		c.overrides = append(c.overrides, Table{Name: source, Profiles: profiles})
	}
}

// WithMergePolicy sets how duplicate codes among the base tables are handled.
func WithMergePolicy(p MergePolicy) Option {
	return func(c *buildConfig) { c.policy = p }
}

// BuiltinTables returns the regional tables shipped with the module.
func BuiltinTables() []Table {
	return []Table{
		{Name: RegionWestern, Profiles: westernEurope()},
		{Name: RegionNorthern, Profiles: northernEurope()},
		{Name: RegionSouthern, Profiles: southernEurope()},
		{Name: RegionEastern, Profiles: easternEurope()},
		{Name: RegionBaltic, Profiles: balticStates()},
		{Name: RegionOther, Profiles: otherEurope()},
		{Name: RegionAdditional, Profiles: additionalEurope()},
		{Name: RegionHavens, Profiles: taxHavens()},
		{Name: RegionAmericas, Profiles: americas()},
	}
}

// Default builds the dataset from the built-in tables with FailOnDuplicate.
func Default() (*TaxDataset, error) {
	return Build()
}

// New builds a dataset from a single list of profiles.
func New(profiles ...domain.CountryTaxProfile) (*TaxDataset, error) {
	return Build(WithTables(Table{Name: "custom", Profiles: profiles}))
}

// Build concatenates the configured tables, applies override lists and
// validates every resulting profile. Validation problems are reported together.
func Build(opts ...Option) (*TaxDataset, error) {
	cfg := buildConfig{tables: BuiltinTables(), policy: FailOnDuplicate}
	for _, opt := range opts {
		opt(&cfg)
	}

	ds := &TaxDataset{
		profiles: make(map[string]domain.CountryTaxProfile),
		sources:  make(map[string]string),
	}

	var errs []error
	for _, table := range cfg.tables {
		for _, p := range table.Profiles {
			p = normalize(p, table.Name)
			if prev, exists := ds.sources[p.Code]; exists {
				if cfg.policy == FailOnDuplicate {
					errs = append(errs, fmt.Errorf("%w: %s defined in %s and %s", domain.ErrDuplicateCountry, p.Code, prev, table.Name))
					continue
				}
				ds.shadowed = append(ds.shadowed, Shadowed{Code: p.Code, Source: prev, ReplacedBy: table.Name})
			}
			ds.profiles[p.Code] = p
			ds.sources[p.Code] = table.Name
		}
	}

	for _, table := range cfg.overrides {
		seen := make(map[string]bool, len(table.Profiles))
		for _, p := range table.Profiles {
			if existing, ok := ds.profiles[NormalizeCode(p.Code)]; ok && p.Region == "" {
				p.Region = existing.Region
			}
			p = normalize(p, table.Name)
			if seen[p.Code] {
				errs = append(errs, fmt.Errorf("%w: %s repeated in override list %s", domain.ErrDuplicateCountry, p.Code, table.Name))
				continue
			}
			seen[p.Code] = true
			if prev, exists := ds.sources[p.Code]; exists {
				ds.shadowed = append(ds.shadowed, Shadowed{Code: p.Code, Source: prev, ReplacedBy: table.Name})
			}
			ds.profiles[p.Code] = p
			ds.sources[p.Code] = table.Name
		}
	}

	codes := lo.Keys(ds.profiles)
	sort.Strings(codes)
	for _, code := range codes {
		errs = append(errs, ValidateProfile(ds.profiles[code])...)
	}
	if len(errs) > 0 {
		return nil, joinValidation(errs)
	}

	ds.order = lo.Keys(ds.profiles)
	sort.Slice(ds.order, func(i, j int) bool {
		a, b := ds.profiles[ds.order[i]], ds.profiles[ds.order[j]]
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.Code < b.Code
	})
	return ds, nil
}

// normalize upper-cases identifiers and fills the region from the table name.
func normalize(p domain.CountryTaxProfile, table string) domain.CountryTaxProfile {
	p = p.Clone()
	p.Code = NormalizeCode(p.Code)
	p.Currency = strings.ToUpper(strings.TrimSpace(p.Currency))
	if p.Region == "" {
		p.Region = table
	}
	return p
}

// NormalizeCode trims and upper-cases a country code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Get looks up a profile by code.
func (ds *TaxDataset) Get(code string) (domain.CountryTaxProfile, bool) {
	p, ok := ds.profiles[NormalizeCode(code)]
	if !ok {
		return domain.CountryTaxProfile{}, false
	}
	return p.Clone(), true
}

// List returns every profile sorted by display name.
func (ds *TaxDataset) List() []domain.CountryTaxProfile {
	return lo.Map(ds.order, func(code string, _ int) domain.CountryTaxProfile {
		return ds.profiles[code].Clone()
	})
}

// ListRegion returns the profiles of one region sorted by display name.
func (ds *TaxDataset) ListRegion(region string) []domain.CountryTaxProfile {
	return lo.Filter(ds.List(), func(p domain.CountryTaxProfile, _ int) bool {
		return strings.EqualFold(p.Region, region)
	})
}

// Codes returns every country code in display-name order.
func (ds *TaxDataset) Codes() []string {
	return append([]string(nil), ds.order...)
}

// Regions returns the distinct region names, sorted.
func (ds *TaxDataset) Regions() []string {
	regions := lo.Uniq(lo.Map(ds.order, func(code string, _ int) string {
		return ds.profiles[code].Region
	}))
	sort.Strings(regions)
	return regions
}

// Source names the table a code was taken from.
func (ds *TaxDataset) Source(code string) string {
	return ds.sources[NormalizeCode(code)]
}

// Shadowed lists entries that were replaced while building the dataset.
func (ds *TaxDataset) Shadowed() []Shadowed {
	return append([]Shadowed(nil), ds.shadowed...)
}

// Len returns the number of countries.
func (ds *TaxDataset) Len() int {
	return len(ds.profiles)
}
