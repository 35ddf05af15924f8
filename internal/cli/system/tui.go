package system

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/streakline/internal/cli"
	"github.com/julianstephens/streakline/internal/tui"
)

type TuiCmd struct {
	NoBackup bool `name:"no-backup" help:"Skip the automatic backup taken on start."`
}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}
	defer ctx.Close()

	if !c.NoBackup {
		ctx.PerformAutomaticBackup()
	}

	model := tui.NewModel(ctx.Habits, ctx.Billing, ctx.Settings.CalendarDays)
	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("streakline tui: %w", err)
	}
	return nil
}
