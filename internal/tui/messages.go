package tui

import (
	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/taxatlas/internal/compare"
	"github.com/rgehrsitz/taxatlas/internal/domain"
)

// Scene represents different screens in the TUI
type Scene int

const (
	SceneCalculator Scene = iota
	SceneCompare
	SceneHelp
)

func (s Scene) String() string {
	switch s {
	case SceneCalculator:
		return "Calculator"
	case SceneCompare:
		return "Compare"
	case SceneHelp:
		return "Help"
	default:
		return "Unknown"
	}
}

// NavigateMsg switches to a different scene
type NavigateMsg struct {
	Scene Scene
}

// ErrorMsg displays an error to the user
type ErrorMsg struct {
	Err error
}

// CalculationCompleteMsg carries a result for the selected country.
type CalculationCompleteMsg struct {
	Income decimal.Decimal
	Code   string
	Result domain.TaxCalculationResult
}

// ComparisonCompleteMsg carries a comparison of the selected country against
// the visible list.
type ComparisonCompleteMsg struct {
	Set *compare.ComparisonSet
	Err error
}
