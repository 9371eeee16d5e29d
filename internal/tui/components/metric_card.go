package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/rgehrsitz/taxatlas/internal/tui/tuistyles"
)

// MetricCard shows one figure of a tax result, such as total tax or net income.
type MetricCard struct {
	Label string
	Value string
	Delta *Delta
	Note  string
	Width int
}

// Delta is a change against a reference value. Good is true when the change
// favours the taxpayer.
type Delta struct {
	Good   bool
	Change string
}

// NewMetricCard creates a card of the default width.
func NewMetricCard(label, value string) *MetricCard {
	return &MetricCard{Label: label, Value: value, Width: 24}
}

// WithDelta attaches a change indicator.
func (m *MetricCard) WithDelta(good bool, change string) *MetricCard {
	m.Delta = &Delta{Good: good, Change: change}
	return m
}

// WithNote adds a muted line under the value.
func (m *MetricCard) WithNote(note string) *MetricCard {
	m.Note = note
	return m
}

// WithWidth sets the card width.
func (m *MetricCard) WithWidth(width int) *MetricCard {
	m.Width = width
	return m
}

// Render draws the card with a rounded border.
func (m *MetricCard) Render() string {
	content := tuistyles.MetricLabelStyle.Render(m.Label) + "\n" + tuistyles.MetricValueStyle.Render(m.Value)
	if m.Delta != nil {
		content += "\n" + m.renderDelta()
	}
	if m.Note != "" {
		content += "\n" + tuistyles.SubtitleStyle.Render(m.Note)
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(tuistyles.ColorBorder).
		Padding(0, 1).
		Width(m.Width).
		Render(content)
}

// RenderCompact draws "label: value" on one line.
func (m *MetricCard) RenderCompact() string {
	out := tuistyles.MetricLabelStyle.Render(m.Label+":") + " " + tuistyles.MetricValueStyle.Render(m.Value)
	if m.Delta != nil {
		out += " " + m.renderDelta()
	}
	return out
}

func (m *MetricCard) renderDelta() string {
	return tuistyles.MetricTrendStyle(m.Delta.Good).Render(fmt.Sprintf("%s %s", tuistyles.TrendIndicator(m.Delta.Good), m.Delta.Change))
}

// MetricGrid lays cards out in rows of columns.
func MetricGrid(cards []*MetricCard, columns int) string {
	if len(cards) == 0 || columns <= 0 {
		return ""
	}

	var rows, current []string
	for i, card := range cards {
		current = append(current, card.Render())
		if (i+1)%columns == 0 || i == len(cards)-1 {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, current...))
			current = nil
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
