package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/taxatlas/internal/domain"
	"github.com/rgehrsitz/taxatlas/internal/output"
	"github.com/rgehrsitz/taxatlas/internal/tui/components"
	"github.com/rgehrsitz/taxatlas/internal/tui/tuistyles"
)

const listWidth = 30

// View renders the current state of the application
func (m Model) View() string {
	var content string
	switch m.currentScene {
	case SceneCalculator:
		content = m.renderCalculator()
	case SceneCompare:
		content = m.renderCompare()
	case SceneHelp:
		content = m.renderHelp()
	default:
		content = "Unknown scene"
	}

	return m.renderApp(content)
}

// renderApp wraps content with title bar, status bar, and main container
func (m Model) renderApp(content string) string {
	title := TitleStyle.Render("TaxAtlas - Income Tax Calculator")
	breadcrumb := SubtitleStyle.Render(m.currentScene.String())
	if region := m.Region(); region != "" {
		breadcrumb = SubtitleStyle.Render(fmt.Sprintf("%s / %s", m.currentScene, region))
	}

	contentHeight := max(0, m.height-4)
	body := lipgloss.NewStyle().Height(contentHeight).Render(content)

	parts := []string{title, breadcrumb, body}
	if m.err != nil {
		parts = append(parts, ErrorStyle.Render("Error: "+m.err.Error()))
	}
	parts = append(parts, StatusBarStyle.Width(m.width).Render(m.help.View(m.keys)))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) renderCalculator() string {
	list := m.renderCountryList()
	detail := lipgloss.JoinVertical(lipgloss.Left, m.income.View(), "", m.renderResult())
	return lipgloss.JoinHorizontal(lipgloss.Top, list, "  ", detail)
}

// renderCountryList shows a window of the filtered list around the cursor.
func (m Model) renderCountryList() string {
	rows := max(5, m.height-8)
	start := 0
	if m.cursor >= rows {
		start = m.cursor - rows + 1
	}
	end := min(len(m.countries), start+rows)

	var b strings.Builder
	for i := start; i < end; i++ {
		p := m.countries[i]
		line := fmt.Sprintf("%s  %s", p.Code, p.Name)
		if i == m.cursor {
			b.WriteString(SelectedItemStyle.Render("> " + line))
		} else {
			b.WriteString(UnselectedItemStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}
	if len(m.countries) == 0 {
		b.WriteString(InfoStyle.Render("No countries in this region"))
	}
	return BorderStyle.Width(listWidth).Render(strings.TrimRight(b.String(), "\n"))
}

func (m Model) renderResult() string {
	p, ok := m.Selected()
	if !ok {
		return InfoStyle.Render("Select a country")
	}
	if _, ok := m.Income(); !ok {
		return InfoStyle.Render(fmt.Sprintf("Enter an income in %s to calculate %s tax", p.Currency, p.Name))
	}
	if m.result == nil {
		return InfoStyle.Render("Calculating...")
	}
	r := *m.result
	if !r.OK() {
		return ErrorStyle.Render(fmt.Sprintf("%s: %s", p.Code, r.Status))
	}

	money := func(d decimal.Decimal) string { return output.FormatMoney(d, r.Currency) }
	cards := []*components.MetricCard{
		components.NewMetricCard("Total Tax", money(r.TotalTax)),
		components.NewMetricCard("Net Income", money(r.NetIncome)),
		components.NewMetricCard("Effective Rate", output.FormatPercentage(r.EffectiveRate)),
		components.NewMetricCard("Marginal Rate", output.FormatPercentage(r.MarginalRate)),
	}
	if !r.TaxableIncome.Equal(r.GrossIncome) {
		cards[0].WithNote("taxable " + money(r.TaxableIncome))
	}
	if r.SocialSecurity.Valid {
		cards = append(cards, components.NewMetricCard("Social Security", money(r.SocialSecurity.Decimal)))
	}

	header := TableHeaderStyle.Render(fmt.Sprintf("%s (%s)", p.Name, p.Code))
	chart := components.NewBracketChart(r, money)
	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		components.MetricGrid(cards, 2),
		"",
		SubtitleStyle.Render("Bracket breakdown"),
		chart.Render(),
	)
}

func (m Model) renderCompare() string {
	set := m.comparison
	if set == nil || set.BaseResult == nil {
		return InfoStyle.Render("Press ctrl+o on the calculator to compare countries")
	}

	var b strings.Builder
	base := set.BaseResult
	b.WriteString(TableHeaderStyle.Render(fmt.Sprintf("Base: %s (%s)  income %s",
		base.CountryName, base.CountryCode, output.FormatMoney(set.Income, set.BaseCurrency))))
	b.WriteString("\n\n")
	b.WriteString(TableHeaderStyle.Render(fmt.Sprintf("%-4s %-22s %14s %14s %9s", "Code", "Country", "Tax", "Net", "Eff.")))
	b.WriteString("\n")

	for _, alt := range set.AlternativeResults {
		if alt.Status != domain.StatusOK {
			continue
		}
		line := fmt.Sprintf("%-4s %-22s %14s %14s %9s",
			alt.CountryCode,
			truncate(alt.CountryName, 22),
			output.FormatMoney(alt.Tax, set.BaseCurrency),
			output.FormatMoney(alt.NetIncome, set.BaseCurrency),
			output.FormatPercentage(alt.EffectiveRate))
		b.WriteString(line)
		if !alt.TaxDiffFromBase.IsZero() {
			good := alt.TaxDiffFromBase.IsNegative()
			b.WriteString(" ")
			b.WriteString(tuistyles.MetricTrendStyle(good).Render(output.FormatMoney(alt.TaxDiffFromBase, set.BaseCurrency)))
		}
		b.WriteString("\n")
	}

	if len(set.Recommendations) > 0 {
		b.WriteString("\n")
		for _, rec := range set.Recommendations {
			b.WriteString(InfoStyle.Render("• " + rec))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m Model) renderHelp() string {
	help := m.help
	help.ShowAll = true
	var b strings.Builder
	b.WriteString(TableHeaderStyle.Render("Keys"))
	b.WriteString("\n")
	b.WriteString(help.View(m.keys))
	b.WriteString("\n\n")
	b.WriteString("Type digits to enter an annual gross income in the selected country's currency.\n")
	b.WriteString("Comparisons convert every result into the selected country's currency.\n")
	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
