package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/goccy/go-json"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/rgehrsitz/taxatlas/internal/config"
	"github.com/rgehrsitz/taxatlas/internal/domain"
	"github.com/rgehrsitz/taxatlas/internal/output"
)

func countriesCmd(g *globalOptions) *cobra.Command {
	var (
		region string
		format string
	)
	cmd := &cobra.Command{
		Use:   "countries",
		Short: "List the countries in the dataset",
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, _, logger, err := g.load()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			profiles := ds.List()
			if region != "" {
				profiles = ds.ListRegion(region)
				if len(profiles) == 0 {
					return fmt.Errorf("no countries in region %q (regions: %s)", region, strings.Join(ds.Regions(), ", "))
				}
			}

			switch strings.ToLower(format) {
			case "json":
				data, err := json.MarshalIndent(profiles, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
			case "table", "":
				fmt.Fprintln(cmd.OutOrStdout(), countryTable(profiles))
			default:
				return fmt.Errorf("unknown format %q (available: table, json)", format)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&region, "region", "r", "", "Only list countries in this region")
	cmd.Flags().StringVarP(&format, "format", "f", "table", "Output format (table, json)")
	return cmd
}

func countryTable(profiles []domain.CountryTaxProfile) string {
	rows := lo.Map(profiles, func(p domain.CountryTaxProfile, _ int) []string {
		ss := "-"
		if p.SocialSecurity != nil {
			ss = output.FormatPercentage(p.SocialSecurity.Rate)
		}
		return []string{
			p.Code,
			p.Name,
			p.Region,
			p.Currency,
			fmt.Sprint(len(p.Brackets)),
			output.FormatPercentage(p.TopRate()),
			ss,
		}
	})
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Code", "Country", "Region", "Currency", "Brackets", "Top Rate", "Social Security").
		Rows(rows...).
		Render()
}

func validateDataCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate-data [overrides-file...]",
		Short: "Validate the built-in tables and any override files",
		RunE: func(cmd *cobra.Command, args []string) error {
			files := append(append([]string{}, g.overrides...), args...)
			ds, err := config.NewInputParser().LoadDataset(files...)
			if err != nil {
				return fmt.Errorf("dataset is invalid: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Dataset OK: %d countries in %d regions\n", ds.Len(), len(ds.Regions()))

			counts := lo.CountValuesBy(ds.List(), func(p domain.CountryTaxProfile) string { return p.Region })
			regions := lo.Keys(counts)
			sort.Strings(regions)
			for _, r := range regions {
				fmt.Fprintf(out, "  %-20s %d\n", r, counts[r])
			}
			for _, s := range ds.Shadowed() {
				fmt.Fprintf(out, "  %s from %s replaced by %s\n", s.Code, s.Source, s.ReplacedBy)
			}
			return nil
		},
	}
}
