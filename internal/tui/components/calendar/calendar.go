package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/streakline/internal/models"
	"github.com/julianstephens/streakline/internal/streak"
	"github.com/julianstephens/streakline/internal/utils"
)

const nameWidth = 20

var (
	todayStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	doneStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	dueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// Range renders a "Oct 4 - Oct 18" heading for dates.
func Range(dates []time.Time) string {
	if len(dates) == 0 {
		return ""
	}
	first, last := utils.FormatDate(dates[0]), utils.FormatDate(dates[len(dates)-1])
	return fmt.Sprintf("%s %d - %s %d", first.Month, first.Day, last.Month, last.Day)
}

// Grid draws one row per habit and one column per date. Completed days show
// x; missed days that the frequency requires show a dot.
func Grid(habits []models.Habit, dates []time.Time, today time.Time) string {
	var b strings.Builder

	b.WriteString(strings.Repeat(" ", nameWidth))
	for _, d := range dates {
		col := fmt.Sprintf(" %3s", utils.FormatDate(d).Weekday[:2])
		if d.Equal(today) {
			col = todayStyle.Render(col)
		}
		b.WriteString(col)
	}
	b.WriteString("\n")

	b.WriteString(strings.Repeat(" ", nameWidth))
	for _, d := range dates {
		col := fmt.Sprintf(" %3d", d.Day())
		if d.Equal(today) {
			col = todayStyle.Render(col)
		}
		b.WriteString(col)
	}
	b.WriteString("\n")
	b.WriteString(strings.Repeat("-", nameWidth+4*len(dates)))
	b.WriteString("\n")

	for _, h := range habits {
		b.WriteString(padName(h.Name))
		done := streak.Set(h.CompletedDates)
		for _, d := range dates {
			switch {
			case done[utils.DateKey(d)]:
				b.WriteString(doneStyle.Render("   x"))
			case d.After(today):
				b.WriteString("    ")
			case streak.IsRequiredDay(d, h.Frequency):
				b.WriteString(dueStyle.Render("   ."))
			default:
				b.WriteString("    ")
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

func padName(name string) string {
	r := []rune(name)
	if len(r) > nameWidth-1 {
		return string(r[:nameWidth-4]) + "... "
	}
	return name + strings.Repeat(" ", nameWidth-len(r))
}
