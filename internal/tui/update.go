package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Update handles all messages and updates the model state
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case NavigateMsg:
		m.navigate(msg.Scene)
		return m, nil

	case ErrorMsg:
		m.err = msg.Err
		return m, nil

	case CalculationCompleteMsg:
		// Drop stale results from an earlier selection or income.
		income, ok := m.Income()
		p, selected := m.Selected()
		if !ok || !selected || !income.Equal(msg.Income) || p.Code != msg.Code {
			return m, nil
		}
		result := msg.Result
		m.result = &result
		m.err = nil
		return m, nil

	case ComparisonCompleteMsg:
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		m.err = nil
		m.comparison = msg.Set
		m.navigate(SceneCompare)
		return m, nil
	}

	return m, nil
}

func (m *Model) navigate(scene Scene) {
	if scene == m.currentScene {
		return
	}
	m.previousScene = m.currentScene
	m.currentScene = scene
}

// handleKeyPress processes keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		if m.currentScene == SceneHelp {
			m.navigate(m.previousScene)
		} else {
			m.navigate(SceneHelp)
		}
		return m, nil

	case key.Matches(msg, m.keys.Back):
		if m.currentScene != SceneCalculator {
			m.navigate(SceneCalculator)
		}
		return m, nil
	}

	if m.currentScene != SceneCalculator {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m.recalculate()

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.countries)-1 {
			m.cursor++
		}
		return m.recalculate()

	case key.Matches(msg, m.keys.Region):
		m.cycleRegion()
		return m.recalculate()

	case key.Matches(msg, m.keys.Compare):
		return m, m.compareCmd()
	}

	if msg.Type == tea.KeyRunes && !numericRunes(msg.Runes) {
		return m, nil
	}

	before := m.income.Value()
	var cmd tea.Cmd
	m.income, cmd = m.income.Update(msg)
	if m.income.Value() == before {
		return m, cmd
	}
	next, calc := m.recalculate()
	return next, tea.Batch(cmd, calc)
}

// recalculate clears the current result and schedules a new one.
func (m Model) recalculate() (tea.Model, tea.Cmd) {
	m.result = nil
	return m, m.calculateCmd()
}

// cycleRegion advances the region filter: all, then each region in order.
func (m *Model) cycleRegion() {
	m.regionIdx++
	if m.regionIdx >= len(m.regions) {
		m.regionIdx = -1
	}
	if region := m.Region(); region != "" {
		m.countries = m.dataset.ListRegion(region)
	} else {
		m.countries = m.dataset.List()
	}
	m.cursor = 0
}

func numericRunes(runes []rune) bool {
	for _, r := range runes {
		if (r < '0' || r > '9') && r != '.' {
			return false
		}
	}
	return true
}
