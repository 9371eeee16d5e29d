package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/taxatlas/internal/domain"
	"github.com/rgehrsitz/taxatlas/internal/tui/tuistyles"
)

// BracketChart draws one horizontal bar per taxed bracket, scaled to the
// share of total tax it contributes.
type BracketChart struct {
	Entries  []domain.BreakdownEntry
	Total    decimal.Decimal
	BarWidth int
	Format   func(decimal.Decimal) string
}

// NewBracketChart builds a chart for a result's breakdown.
func NewBracketChart(r domain.TaxCalculationResult, format func(decimal.Decimal) string) *BracketChart {
	return &BracketChart{Entries: r.Breakdown, Total: r.TotalTax, BarWidth: 30, Format: format}
}

// Filled returns how many cells the bar for tax should occupy.
func (c *BracketChart) Filled(tax decimal.Decimal) int {
	if !c.Total.IsPositive() {
		return 0
	}
	n := int(tax.Div(c.Total).Mul(decimal.NewFromInt(int64(c.BarWidth))).Round(0).IntPart())
	if n < 1 && tax.IsPositive() {
		n = 1
	}
	if n > c.BarWidth {
		n = c.BarWidth
	}
	return n
}

// Render draws the chart, or a muted note when nothing was taxed.
func (c *BracketChart) Render() string {
	if len(c.Entries) == 0 {
		return tuistyles.SubtitleStyle.Render("No tax due in any bracket")
	}

	barStyle := lipgloss.NewStyle().Foreground(tuistyles.ColorAccent)
	emptyStyle := lipgloss.NewStyle().Foreground(tuistyles.ColorBorder)
	format := c.Format
	if format == nil {
		format = func(d decimal.Decimal) string { return d.StringFixed(2) }
	}

	var b strings.Builder
	for _, e := range c.Entries {
		filled := c.Filled(e.Tax)
		fmt.Fprintf(&b, "%-26s [%s%s] %s\n",
			e.String(),
			barStyle.Render(strings.Repeat("█", filled)),
			emptyStyle.Render(strings.Repeat("░", c.BarWidth-filled)),
			format(e.Tax))
	}
	return strings.TrimRight(b.String(), "\n")
}
