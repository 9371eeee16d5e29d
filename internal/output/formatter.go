// Package output renders tax calculation results for the CLI.
package output

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/taxatlas/internal/currency"
	"github.com/rgehrsitz/taxatlas/internal/domain"
)

// Entry is one calculated country in a report.
type Entry struct {
	CountryName string                      `json:"country_name,omitempty"`
	Region      string                      `json:"region,omitempty"`
	Result      domain.TaxCalculationResult `json:"result"`
}

// Report is the unit every formatter renders.
type Report struct {
	GeneratedAt time.Time `json:"generated_at"`
	Entries     []Entry   `json:"entries"`
}

// NewReport stamps entries with the current time.
func NewReport(entries ...Entry) *Report {
	return &Report{GeneratedAt: time.Now().UTC(), Entries: entries}
}

// Formatter renders a report into bytes.
type Formatter interface {
	Name() string
	Format(report *Report) ([]byte, error)
}

// FormatterFunc adapts a plain function to Formatter.
type FormatterFunc struct {
	ID string
	F  func(report *Report) ([]byte, error)
}

func (f FormatterFunc) Name() string { return f.ID }

func (f FormatterFunc) Format(report *Report) ([]byte, error) { return f.F(report) }

var formatters = map[string]Formatter{}

var aliases = map[string]string{
	"verbose": "console",
	"text":    "console",
	"lite":    "console-lite",
	"summary": "console-lite",
}

func register(f Formatter) {
	formatters[f.Name()] = f
}

func init() {
	register(ConsoleFormatter{})
	register(ConsoleLiteFormatter{})
	register(JSONFormatter{Pretty: true})
	register(CSVFormatter{})
	register(DetailedCSVFormatter{})
	register(HTMLFormatter{})
}

// GetFormatterByName resolves a formatter or alias name; nil when unknown.
func GetFormatterByName(name string) Formatter {
	name = strings.ToLower(strings.TrimSpace(name))
	if target, ok := aliases[name]; ok {
		name = target
	}
	return formatters[name]
}

// AvailableFormatterNames lists registered formatter names, sorted.
func AvailableFormatterNames() []string {
	names := make([]string, 0, len(formatters))
	for n := range formatters {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// AvailableFormatAliases lists accepted aliases, sorted.
func AvailableFormatAliases() []string {
	names := make([]string, 0, len(aliases))
	for n := range aliases {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// WriteFormatted renders report with f and writes it to a timestamped file in
// the working directory, returning the file name.
func WriteFormatted(f Formatter, report *Report, ext string) (string, error) {
	data, err := f.Format(report)
	if err != nil {
		return "", err
	}
	filename := fmt.Sprintf("tax_report_%s.%s", time.Now().Format("20060102_150405"), ext)
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", filename, err)
	}
	return filename, nil
}

var display, _ = currency.NewFormatter("en")

// FormatMoney renders amount with its currency symbol, falling back to a plain
// fixed-point number when the code is not an ISO currency.
func FormatMoney(amount decimal.Decimal, code string) string {
	if s, err := display.Format(amount, code); err == nil {
		return s
	}
	return strings.TrimSpace(code + " " + amount.StringFixed(2))
}

// FormatPercentage renders a ratio as a percentage with two decimals.
func FormatPercentage(rate decimal.Decimal) string {
	return display.Percent(rate)
}
