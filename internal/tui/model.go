// Package tui is an interactive terminal calculator built on bubbletea.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/taxatlas/internal/calculation"
	"github.com/rgehrsitz/taxatlas/internal/compare"
	"github.com/rgehrsitz/taxatlas/internal/dataset"
	"github.com/rgehrsitz/taxatlas/internal/domain"
)

// Model represents the entire application state
type Model struct {
	// Navigation
	currentScene  Scene
	previousScene Scene

	// Terminal dimensions
	width  int
	height int

	// Data
	dataset *dataset.TaxDataset
	engine  calculation.Calculator
	compare *compare.CompareEngine

	// Country list, filtered by region
	regions   []string
	regionIdx int // -1 shows every region
	countries []domain.CountryTaxProfile
	cursor    int

	income textinput.Model

	// Latest results
	result     *domain.TaxCalculationResult
	comparison *compare.ComparisonSet

	keys keyMap
	help help.Model

	err error
}

// NewModel creates the application model over ds.
func NewModel(ds *dataset.TaxDataset, engine calculation.Calculator) Model {
	input := textinput.New()
	input.Placeholder = "annual gross income"
	input.Prompt = "Income: "
	input.CharLimit = 18
	input.Focus()

	return Model{
		currentScene: SceneCalculator,
		width:        100,
		height:       30,
		dataset:      ds,
		engine:       engine,
		compare:      compare.NewCompareEngine(engine, ds),
		regions:      ds.Regions(),
		regionIdx:    -1,
		countries:    ds.List(),
		income:       input,
		keys:         defaultKeyMap(),
		help:         help.New(),
	}
}

// Init initializes the model (required by tea.Model interface)
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Region is the active region filter, empty for all.
func (m Model) Region() string {
	if m.regionIdx < 0 || m.regionIdx >= len(m.regions) {
		return ""
	}
	return m.regions[m.regionIdx]
}

// Selected is the highlighted country, if any.
func (m Model) Selected() (domain.CountryTaxProfile, bool) {
	if m.cursor < 0 || m.cursor >= len(m.countries) {
		return domain.CountryTaxProfile{}, false
	}
	return m.countries[m.cursor], true
}

// Income parses the input; ok is false while it is empty or not a number.
func (m Model) Income() (decimal.Decimal, bool) {
	d, err := domain.ParseIncome(m.income.Value())
	return d, err == nil
}

// calculateCmd returns a command that runs the engine for the current selection.
func (m Model) calculateCmd() tea.Cmd {
	income, ok := m.Income()
	p, selected := m.Selected()
	if !ok || !selected {
		return nil
	}
	engine := m.engine
	return func() tea.Msg {
		return CalculationCompleteMsg{
			Income: income,
			Code:   p.Code,
			Result: engine.CalculateTax(income, p.Code),
		}
	}
}

// compareCmd compares the selected country against the visible list.
func (m Model) compareCmd() tea.Cmd {
	income, ok := m.Income()
	p, selected := m.Selected()
	if !ok || !selected {
		return nil
	}
	codes := make([]string, 0, len(m.countries))
	for _, c := range m.countries {
		codes = append(codes, c.Code)
	}
	ce := m.compare
	return func() tea.Msg {
		set, err := ce.Compare(context.Background(), compare.CompareOptions{
			Income:      income,
			BaseCountry: p.Code,
			Countries:   codes,
		})
		return ComparisonCompleteMsg{Set: set, Err: err}
	}
}
