package main

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/rgehrsitz/taxatlas/internal/breakeven"
	"github.com/rgehrsitz/taxatlas/internal/domain"
)

func solveCmd(g *globalOptions) *cobra.Command {
	var (
		targetFlag string
		valueFlag  string
		country    string
		with       string
		baseCcy    string
		format     string
	)
	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Find the gross income that reaches a net income, tax or rate target",
		Long: "Search for the smallest gross income whose net income, total tax or effective rate " +
			"reaches --value. With --country the value is in that country's currency; otherwise " +
			"every country in --with (default all) is solved and money values are read in --currency.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, engine, logger, err := g.load()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			target, err := breakeven.ParseTarget(targetFlag)
			if err != nil {
				return err
			}
			value, err := decimal.NewFromString(strings.TrimSpace(valueFlag))
			if err != nil {
				return fmt.Errorf("invalid value %q: must be a number", valueFlag)
			}
			if err := domain.CheckAmount(value); err != nil {
				return fmt.Errorf("invalid value %q: %w", valueFlag, err)
			}

			solver := breakeven.NewDefaultSolver(engine, ds)
			tf := &breakeven.TableFormatter{}
			jf := &breakeven.JSONFormatter{Pretty: true}

			var out string
			if country != "" {
				res, err := solver.Solve(cmd.Context(), breakeven.SolveRequest{Country: country, Target: target, Value: value})
				if err != nil {
					return err
				}
				if format == "json" {
					out, err = jf.Format(res)
				} else {
					out = tf.Format(res)
				}
				if err != nil {
					return err
				}
			} else {
				codes := splitList(with)
				if len(codes) == 1 && strings.EqualFold(codes[0], "all") {
					codes = nil
				}
				res, err := solver.SolveAcross(cmd.Context(), breakeven.MultiRequest{
					BaseCurrency: baseCcy,
					Target:       target,
					Value:        value,
					Countries:    codes,
				})
				if err != nil {
					return err
				}
				if format == "json" {
					out, err = jf.Format(res)
				} else {
					out = tf.FormatMulti(res)
				}
				if err != nil {
					return err
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), strings.TrimRight(out, "\n"))
			return nil
		},
	}
	cmd.Flags().StringVarP(&targetFlag, "target", "t", "net", "Figure to reach (net, tax, rate)")
	cmd.Flags().StringVarP(&valueFlag, "value", "v", "", "Target value; a ratio such as 0.25 for rate (required)")
	cmd.Flags().StringVarP(&country, "country", "c", "", "Solve for a single country")
	cmd.Flags().StringVar(&with, "with", "all", "Comma-separated country codes when --country is not set")
	cmd.Flags().StringVar(&baseCcy, "currency", "EUR", "Currency of --value when solving across countries")
	cmd.Flags().StringVarP(&format, "format", "f", "table", "Output format (table, json)")
	_ = cmd.MarkFlagRequired("value")
	return cmd
}
