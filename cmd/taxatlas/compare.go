package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rgehrsitz/taxatlas/internal/compare"
	"github.com/rgehrsitz/taxatlas/internal/domain"
)

func compareCmd(g *globalOptions) *cobra.Command {
	var (
		incomeFlag string
		base       string
		with       string
		region     string
		format     string
		sortByTax  bool
		compact    bool
	)
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare one income across countries",
		Long: "Convert an income from the base country's currency into each compared country, " +
			"calculate the tax there, and report the results in the base currency.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, engine, logger, err := g.load()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			income, err := domain.ParseIncome(incomeFlag)
			if err != nil {
				return err
			}

			ce := compare.NewCompareEngine(engine, ds)
			set, err := ce.Compare(cmd.Context(), compare.CompareOptions{
				Income:      income,
				BaseCountry: base,
				Countries:   splitList(with),
				Region:      region,
			})
			if err != nil {
				return err
			}

			var out string
			switch strings.ToLower(format) {
			case "table", "":
				tf := &compare.TableFormatter{SortByTax: sortByTax}
				if compact {
					out = tf.FormatCompact(set)
				} else {
					out = tf.Format(set)
				}
			case "csv":
				out, err = (&compare.CSVFormatter{}).Format(set)
			case "json":
				out, err = (&compare.JSONFormatter{Pretty: true, SortByTax: sortByTax}).Format(set)
			default:
				return fmt.Errorf("unknown format %q (available: table, csv, json)", format)
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), strings.TrimRight(out, "\n"))
			return nil
		},
	}
	cmd.Flags().StringVarP(&incomeFlag, "income", "i", "", "Annual gross income in the base country's currency (required)")
	cmd.Flags().StringVar(&base, "base", "", "Base country code (required)")
	cmd.Flags().StringVar(&with, "with", "all", "Comma-separated country codes to compare, or \"all\"")
	cmd.Flags().StringVarP(&region, "region", "r", "", "Restrict \"all\" to one region")
	cmd.Flags().StringVarP(&format, "format", "f", "table", "Output format (table, csv, json)")
	cmd.Flags().BoolVar(&sortByTax, "sort", false, "Order countries by tax")
	cmd.Flags().BoolVar(&compact, "compact", false, "One-line summary (table format only)")
	_ = cmd.MarkFlagRequired("income")
	_ = cmd.MarkFlagRequired("base")
	return cmd
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
