package main

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgehrsitz/taxatlas/internal/calculation"
	"github.com/rgehrsitz/taxatlas/internal/config"
	"github.com/rgehrsitz/taxatlas/internal/tui"
)

func main() {
	// Optional override files layered over the built-in tables
	ds, err := config.NewInputParser().LoadDataset(os.Args[1:]...)
	if err != nil {
		fmt.Printf("Error loading tax data: %v\n", err)
		os.Exit(1)
	}

	engine := calculation.NewCachedEngine(calculation.NewEngine(ds), 1024, time.Hour)
	model := tui.NewModel(ds, engine)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running TUI: %v\n", err)
		os.Exit(1)
	}
}
