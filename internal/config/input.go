package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/rgehrsitz/taxatlas/internal/calculation"
	"github.com/rgehrsitz/taxatlas/internal/dataset"
	"github.com/rgehrsitz/taxatlas/internal/domain"
)

// BracketInput is one bracket as written in an override file. A missing or
// null max marks the open top bracket.
type BracketInput struct {
	Min  decimal.Decimal  `yaml:"min"`
	Max  *decimal.Decimal `yaml:"max"`
	Rate decimal.Decimal  `yaml:"rate"`
}

// SocialSecurityInput mirrors domain.SocialSecurityRule.
type SocialSecurityInput struct {
	Rate decimal.Decimal  `yaml:"rate"`
	Cap  *decimal.Decimal `yaml:"cap"`
}

// CountryInput is one country profile in an override file.
type CountryInput struct {
	Code              string               `yaml:"code"`
	Name              string               `yaml:"name"`
	Currency          string               `yaml:"currency"`
	Region            string               `yaml:"region"`
	StandardDeduction *decimal.Decimal     `yaml:"standard_deduction"`
	SocialSecurity    *SocialSecurityInput `yaml:"social_security"`
	Brackets          []BracketInput       `yaml:"brackets"`
}

// OverrideFile is the top-level layout of a dataset override file.
type OverrideFile struct {
	MergePolicy string         `yaml:"merge_policy"`
	Countries   []CountryInput `yaml:"countries"`
}

// RequestFile is the top-level layout of a batch request file.
type RequestFile struct {
	Requests []calculation.Request `yaml:"requests"`
}

// Overrides is a parsed override file ready to hand to dataset.Build.
type Overrides struct {
	Source    string
	Policy    dataset.MergePolicy
	PolicySet bool // merge_policy was written in the file
	Profiles  []domain.CountryTaxProfile
}

// Options returns the dataset build options the overrides translate to. The
// merge policy governs the whole dataset, so it is only emitted when the file
// names one.
func (o *Overrides) Options() []dataset.Option {
	var opts []dataset.Option
	if o.PolicySet {
		opts = append(opts, dataset.WithMergePolicy(o.Policy))
	}
	return append(opts, dataset.WithOverrides(o.Source, o.Profiles...))
}

// InputParser handles parsing of input files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadOverrides reads a YAML override file and converts it to domain profiles.
// Structural problems are reported here; bracket contiguity and rate ranges
// are checked when the dataset is built.
func (ip *InputParser) LoadOverrides(filename string) (*Overrides, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	var file OverrideFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	overrides, err := ip.ParseOverrides(&file)
	if err != nil {
		return nil, fmt.Errorf("override validation failed: %w", err)
	}
	overrides.Source = filename
	return overrides, nil
}

// ParseOverrides validates an already decoded override file.
func (ip *InputParser) ParseOverrides(file *OverrideFile) (*Overrides, error) {
	policy, err := ParseMergePolicy(file.MergePolicy)
	if err != nil {
		return nil, err
	}
	if len(file.Countries) == 0 {
		return nil, fmt.Errorf("at least one country is required")
	}

	var errs []error
	profiles := make([]domain.CountryTaxProfile, 0, len(file.Countries))
	for i := range file.Countries {
		p, err := ip.convertCountry(&file.Countries[i])
		if err != nil {
			errs = append(errs, fmt.Errorf("country %d (%s): %w", i, file.Countries[i].Code, err))
			continue
		}
		profiles = append(profiles, p)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return &Overrides{
		Source:    "overrides",
		Policy:    policy,
		PolicySet: strings.TrimSpace(file.MergePolicy) != "",
		Profiles:  profiles,
	}, nil
}

func (ip *InputParser) convertCountry(c *CountryInput) (domain.CountryTaxProfile, error) {
	if strings.TrimSpace(c.Code) == "" {
		return domain.CountryTaxProfile{}, fmt.Errorf("code is required")
	}
	if len(c.Brackets) == 0 {
		return domain.CountryTaxProfile{}, fmt.Errorf("brackets are required")
	}

	p := domain.CountryTaxProfile{
		Code:              c.Code,
		Name:              c.Name,
		Currency:          c.Currency,
		Region:            c.Region,
		StandardDeduction: c.StandardDeduction,
		Brackets:          make([]domain.TaxBracket, 0, len(c.Brackets)),
	}
	if c.SocialSecurity != nil {
		p.SocialSecurity = &domain.SocialSecurityRule{Rate: c.SocialSecurity.Rate, Cap: c.SocialSecurity.Cap}
	}
	for _, b := range c.Brackets {
		bound := domain.Unbounded()
		if b.Max != nil {
			bound = domain.Finite(*b.Max)
		}
		p.Brackets = append(p.Brackets, domain.TaxBracket{Min: b.Min, Max: bound, Rate: b.Rate})
	}
	return p, nil
}

// ParseMergePolicy maps the file spelling of a merge policy to its value. An
// empty string selects FailOnDuplicate.
func ParseMergePolicy(s string) (dataset.MergePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "fail", "fail-on-duplicate", "fail_on_duplicate":
		return dataset.FailOnDuplicate, nil
	case "last-write-wins", "last_write_wins":
		return dataset.LastWriteWins, nil
	default:
		return dataset.FailOnDuplicate, fmt.Errorf("unknown merge policy %q", s)
	}
}

// LoadRequests reads a YAML batch request file.
func (ip *InputParser) LoadRequests(filename string) ([]calculation.Request, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	var file RequestFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if len(file.Requests) == 0 {
		return nil, fmt.Errorf("no requests in %s", filename)
	}
	for i, r := range file.Requests {
		if strings.TrimSpace(r.CountryCode) == "" {
			return nil, fmt.Errorf("request %d: country is required", i)
		}
	}
	return file.Requests, nil
}

// LoadDataset builds the dataset from the built-in tables plus every override
// file, in order. Files that name a merge policy must agree on it.
func (ip *InputParser) LoadDataset(overrideFiles ...string) (*dataset.TaxDataset, error) {
	var opts []dataset.Option
	var policyFrom *Overrides
	for _, f := range overrideFiles {
		if f == "" {
			continue
		}
		o, err := ip.LoadOverrides(f)
		if err != nil {
			return nil, err
		}
		if o.PolicySet {
			if policyFrom != nil && policyFrom.Policy != o.Policy {
				return nil, fmt.Errorf("conflicting merge policies: %s sets %s but %s sets %s",
					policyFrom.Source, policyFrom.Policy, o.Source, o.Policy)
			}
			policyFrom = o
		}
		opts = append(opts, o.Options()...)
	}
	return dataset.Build(opts...)
}
