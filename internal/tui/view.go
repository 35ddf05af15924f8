package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/streakline/internal/tui/components/calendar"
	"github.com/julianstephens/streakline/internal/utils"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case StateHabits:
		content = docStyle.Render(m.habitsModel.View())
	case StateCalendar:
		content = docStyle.Render(m.viewCalendar())
	case StateBilling:
		content = docStyle.Render(m.billingModel.View())
	case StateAddHabit:
		content = m.form.View()
	case StateConfirmDelete:
		content = m.viewConfirmDelete()
	}

	var status string
	if m.status != "" {
		status = statusStyle.Render(m.status)
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		content,
		status,
		m.help.View(m),
	)
}

func (m Model) viewTabs() string {
	current := m.state
	if current >= SessionState(len(tabTitles)) {
		current = StateHabits
	}

	var tabs []string
	for i, title := range tabTitles {
		if current == SessionState(i) {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewCalendar() string {
	dates := m.habits.CalendarDates(m.calendarDays)
	active := m.habits.ActiveHabits()
	if len(active) == 0 {
		return calendar.Range(dates) + "\n\nNo habits to show."
	}

	today := m.habits.Today()
	key := utils.DateKey(today)
	done := 0
	for _, h := range active {
		if h.IsCompleted(key) {
			done++
		}
	}
	return fmt.Sprintf("%s\n\n%s\nToday: %d/%d done",
		calendar.Range(dates),
		calendar.Grid(active, dates, today),
		done, len(active),
	)
}

func (m Model) viewConfirmDelete() string {
	name := m.habitToDeleteID
	if h, ok := m.habits.Habit(m.habitToDeleteID); ok {
		name = h.Name
	}
	return lipgloss.Place(m.width, max(m.height-4, 0),
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			dangerStyle.Render(fmt.Sprintf("Delete %q and its history?", name)),
			"",
			"[y] Yes",
			"[n] No",
		),
	)
}
