package main

import (
	"fmt"
	"os"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rgehrsitz/taxatlas/internal/calculation"
	"github.com/rgehrsitz/taxatlas/internal/config"
	"github.com/rgehrsitz/taxatlas/internal/currency"
	"github.com/rgehrsitz/taxatlas/internal/dataset"
	"github.com/rgehrsitz/taxatlas/internal/domain"
	"github.com/rgehrsitz/taxatlas/internal/observability"
	"github.com/rgehrsitz/taxatlas/internal/output"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// globalOptions are the persistent flags shared by every command.
type globalOptions struct {
	overrides []string
	debug     bool
}

// load builds the dataset and a logging engine from the global flags.
func (g *globalOptions) load() (*dataset.TaxDataset, *calculation.Engine, *zap.Logger, error) {
	logger, err := observability.NewCLILogger(g.debug)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("creating logger: %w", err)
	}
	ds, err := config.NewInputParser().LoadDataset(g.overrides...)
	if err != nil {
		return nil, nil, nil, err
	}
	logger.Debug("dataset loaded", zap.Int("countries", ds.Len()), zap.Strings("overrides", g.overrides))

	engine := calculation.NewEngine(ds)
	engine.SetLogger(observability.EngineLogger(logger))
	return ds, engine, logger, nil
}

func newRootCmd() *cobra.Command {
	g := &globalOptions{}
	rootCmd := &cobra.Command{
		Use:           "taxatlas",
		Short:         "Progressive income tax calculator",
		Long:          "Calculate and compare progressive income tax across countries",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringSliceVar(&g.overrides, "overrides", nil, "YAML file(s) with country profiles layered over the built-in tables")
	rootCmd.PersistentFlags().BoolVar(&g.debug, "debug", false, "Enable debug logging on stderr")

	rootCmd.AddCommand(calculateCmd(g))
	rootCmd.AddCommand(batchCmd(g))
	rootCmd.AddCommand(countriesCmd(g))
	rootCmd.AddCommand(compareCmd(g))
	rootCmd.AddCommand(solveCmd(g))
	rootCmd.AddCommand(validateDataCmd(g))
	rootCmd.AddCommand(serveCmd(g))
	rootCmd.AddCommand(versionCmd())
	return rootCmd
}

func calculateCmd(g *globalOptions) *cobra.Command {
	var (
		incomeFlag      string
		country         string
		format          string
		displayCurrency string
		strict          bool
	)
	cmd := &cobra.Command{
		Use:   "calculate",
		Short: "Calculate income tax for one country",
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, engine, logger, err := g.load()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			f := output.GetFormatterByName(format)
			if f == nil {
				return fmt.Errorf("unknown format %q (available: %s)", format, strings.Join(output.AvailableFormatterNames(), ", "))
			}

			var result domain.TaxCalculationResult
			if strict {
				income, err := domain.ParseIncome(incomeFlag)
				if err != nil {
					return err
				}
				r, err := engine.Calculate(income, country)
				if err != nil {
					return err
				}
				result = *r
			} else {
				income, err := domain.ParseIncome(incomeFlag)
				if err != nil {
					result = domain.EmptyResult(dataset.NormalizeCode(country), domain.StatusInvalidIncome)
				} else {
					result = engine.CalculateTax(income, country)
				}
			}

			if displayCurrency != "" {
				result, err = currency.Default().ConvertResult(result, displayCurrency)
				if err != nil {
					return err
				}
			}

			entry := output.Entry{Result: result}
			if p, ok := ds.Get(country); ok {
				entry.CountryName = p.Name
				entry.Region = p.Region
			}
			data, err := f.Format(output.NewReport(entry))
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	cmd.Flags().StringVarP(&incomeFlag, "income", "i", "", "Annual gross income in the country's currency (required)")
	cmd.Flags().StringVarP(&country, "country", "c", "", "ISO country code (required)")
	cmd.Flags().StringVarP(&format, "format", "f", "console", "Output format ("+strings.Join(output.AvailableFormatterNames(), ", ")+")")
	cmd.Flags().StringVar(&displayCurrency, "display-currency", "", "Convert money amounts into this currency")
	cmd.Flags().BoolVar(&strict, "strict", false, "Fail instead of reporting an unknown country or invalid income in the result")
	_ = cmd.MarkFlagRequired("income")
	_ = cmd.MarkFlagRequired("country")
	return cmd
}

func batchCmd(g *globalOptions) *cobra.Command {
	var (
		workers int
		format  string
	)
	cmd := &cobra.Command{
		Use:   "batch [requests-file]",
		Short: "Calculate every request in a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, engine, logger, err := g.load()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			f := output.GetFormatterByName(format)
			if f == nil {
				return fmt.Errorf("unknown format %q", format)
			}
			reqs, err := config.NewInputParser().LoadRequests(args[0])
			if err != nil {
				return err
			}
			results, err := engine.CalculateBatch(cmd.Context(), reqs, workers)
			if err != nil {
				return err
			}

			entries := make([]output.Entry, len(results))
			for i, r := range results {
				entries[i] = output.Entry{Result: r}
				if p, ok := ds.Get(r.CountryCode); ok {
					entries[i].CountryName = p.Name
					entries[i].Region = p.Region
				}
			}
			data, err := f.Format(output.NewReport(entries...))
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "Concurrent workers (0 uses GOMAXPROCS)")
	cmd.Flags().StringVarP(&format, "format", "f", "console-lite", "Output format ("+strings.Join(output.AvailableFormatterNames(), ", ")+")")
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "taxatlas %s (commit %s, built %s)\n", version, commit, date)
			if info := buildInfo(); info != "" {
				fmt.Fprintln(cmd.OutOrStdout(), info)
			}
		},
	}
}

func buildInfo() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		return bi.GoVersion + " " + bi.Main.Path
	}
	return ""
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
