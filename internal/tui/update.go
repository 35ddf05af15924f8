package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/streakline/internal/models"
	"github.com/julianstephens/streakline/internal/tui/components/billing"
	"github.com/julianstephens/streakline/internal/tui/components/habits"
	"github.com/julianstephens/streakline/internal/utils"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.habitsModel.SetSize(msg.Width-4, msg.Height-8)
		return m, nil
	}

	switch m.state {
	case StateAddHabit:
		return m.updateAddHabit(msg)
	case StateConfirmDelete:
		return m.updateConfirmDelete(msg), nil
	}

	if handled, cmd := m.handleComponentMsg(msg); handled {
		return m, cmd
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		m.status = ""
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Tab):
			m.state = (m.state + 1) % SessionState(len(tabTitles))
			return m, nil
		case key.Matches(msg, m.keys.ShiftTab):
			m.state = (m.state - 1 + SessionState(len(tabTitles))) % SessionState(len(tabTitles))
			return m, nil
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}
	}

	var cmd tea.Cmd
	switch m.state {
	case StateHabits:
		m.habitsModel, cmd = m.habitsModel.Update(msg)
	case StateCalendar:
		m.updateCalendar(msg)
	case StateBilling:
		m.billingModel, cmd = m.billingModel.Update(msg)
	}
	return m, cmd
}

// handleComponentMsg applies the actions requested by the habits and
// billing components.
func (m *Model) handleComponentMsg(msg tea.Msg) (bool, tea.Cmd) {
	switch msg := msg.(type) {
	case habits.AddHabitMsg:
		if !m.billing.CanAddHabit() {
			limits := m.billing.UsageLimits().Habits
			m.status = fmt.Sprintf("Habit limit reached (%d/%d). Upgrade on the Billing tab.", limits.Used, limits.Total)
			return true, nil
		}
		m.habitForm = &HabitFormModel{Frequency: models.FrequencyDaily}
		m.form = newHabitForm(m.habitForm)
		m.state = StateAddHabit
		return true, m.form.Init()

	case habits.ToggleHabitMsg:
		m.habits.ToggleHabitCompletion(msg.ID, m.habits.Today())
		if h, ok := m.habits.Habit(msg.ID); ok {
			m.status = fmt.Sprintf("%s: streak %d", h.Name, h.Streak)
		}

	case habits.ArchiveHabitMsg:
		m.habits.ArchiveHabit(msg.ID)

	case habits.DeleteHabitMsg:
		m.habitToDeleteID = msg.ID
		m.state = StateConfirmDelete

	case habits.CycleFrequencyMsg:
		if h, ok := m.habits.Habit(msg.ID); ok {
			next := habits.NextFrequency(h.Frequency)
			m.habits.ChangeHabitFrequency(msg.ID, next)
			m.status = fmt.Sprintf("%s is now %s", h.Name, next)
		}

	case billing.UpgradeMsg:
		sub := m.billing.Subscription()
		if m.billing.IsPro() && !sub.CancelAtPeriodEnd && sub.PlanType == msg.PlanType {
			m.status = "Already on this plan."
			return true, nil
		}
		m.billing.UpgradeSubscription(msg.PlanType)
		p := m.billing.AddPaymentHistory("")
		m.status = fmt.Sprintf("Upgraded to %s. Invoice %s", msg.PlanType, p.Invoice)

	case billing.CancelMsg:
		m.billing.CancelSubscription()
		m.status = "Subscription canceled at period end."

	default:
		return false, nil
	}

	m.refresh()
	return true, nil
}

func (m Model) updateAddHabit(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.state = StateHabits
		m.form = nil
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		name := strings.TrimSpace(m.habitForm.Name)
		if _, exists := m.habits.FindByName(name); exists {
			m.status = fmt.Sprintf("Habit %q already exists.", name)
		} else {
			h := m.habits.AddHabit(models.Habit{
				Name:      name,
				Emoji:     strings.TrimSpace(m.habitForm.Emoji),
				Frequency: m.habitForm.Frequency,
			})
			m.status = fmt.Sprintf("Added %s.", h.Name)
		}
		m.refresh()
		m.state = StateHabits
		m.form = nil
	case huh.StateAborted:
		m.state = StateHabits
		m.form = nil
	}
	return m, cmd
}

func (m Model) updateConfirmDelete(msg tea.Msg) Model {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return m
	}
	switch {
	case key.Matches(km, m.keys.Confirm):
		if h, ok := m.habits.Habit(m.habitToDeleteID); ok {
			m.habits.DeleteHabit(h.ID)
			m.status = fmt.Sprintf("Deleted %s.", h.Name)
		}
	case key.Matches(km, m.keys.Deny):
	default:
		return m
	}
	m.habitToDeleteID = ""
	m.state = StateHabits
	m.refresh()
	return m
}

func (m *Model) updateCalendar(msg tea.Msg) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return
	}
	switch {
	case key.Matches(km, m.keys.Prev):
		m.habits.AdjustDates(-calendarStep)
	case key.Matches(km, m.keys.Next):
		m.habits.AdjustDates(calendarStep)
	case key.Matches(km, m.keys.Today):
		target := m.habits.Today().AddDate(0, 0, -(m.calendarDays - 1))
		m.habits.AdjustDates(utils.DaysBetween(m.habits.StartDate(), target))
	}
}
