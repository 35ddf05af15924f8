package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/streakline/internal/models"
	"github.com/julianstephens/streakline/internal/store"
	"github.com/julianstephens/streakline/internal/tui/components/billing"
	"github.com/julianstephens/streakline/internal/tui/components/habits"
	"github.com/julianstephens/streakline/internal/utils"
)

type SessionState int

const (
	StateHabits SessionState = iota
	StateCalendar
	StateBilling
	StateAddHabit
	StateConfirmDelete
)

var tabTitles = []string{"Habits", "Calendar", "Billing"}

// calendarStep is how far ←/→ move the calendar.
const calendarStep = 7

type HabitFormModel struct {
	Name      string
	Emoji     string
	Frequency models.Frequency
}

type Model struct {
	habits       *store.HabitStore
	billing      *store.BillingStore
	calendarDays int

	state           SessionState
	keys            KeyMap
	help            help.Model
	habitsModel     habits.Model
	billingModel    billing.Model
	form            *huh.Form
	habitForm       *HabitFormModel
	habitToDeleteID string
	status          string
	quitting        bool
	width           int
	height          int
}

func NewModel(hs *store.HabitStore, bs *store.BillingStore, calendarDays int) Model {
	m := Model{
		habits:       hs,
		billing:      bs,
		calendarDays: calendarDays,
		state:        StateHabits,
		keys:         DefaultKeyMap(),
		help:         help.New(),
		habitsModel:  habits.New(nil, "", 0, 0),
		billingModel: billing.New(billing.State{}),
	}
	m.refresh()
	return m
}

// refresh reloads the component views from the stores.
func (m *Model) refresh() {
	m.habitsModel.SetHabits(m.habits.Habits(), utils.DateKey(m.habits.Today()))
	m.billingModel.SetState(billing.State{
		Subscription: m.billing.Subscription(),
		Usage:        m.billing.UsageLimits(),
		Payments:     m.billing.PaymentHistory(),
		IsPro:        m.billing.IsPro(),
	})
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
	switch m.state {
	case StateCalendar:
		keys = append(keys, m.keys.Prev, m.keys.Next, m.keys.Today)
	case StateBilling:
		keys = append(keys, m.billingModel.Keys()...)
	case StateConfirmDelete:
		keys = []key.Binding{m.keys.Confirm, m.keys.Deny}
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.ShiftTab, m.keys.Quit, m.keys.Help}

	var actions []key.Binding
	switch m.state {
	case StateHabits:
		k := habits.DefaultKeyMap()
		actions = []key.Binding{k.Add, k.Toggle, k.Archive, k.Delete, k.Frequency}
	case StateCalendar:
		actions = []key.Binding{m.keys.Prev, m.keys.Next, m.keys.Today}
	case StateBilling:
		actions = m.billingModel.Keys()
	}
	return [][]key.Binding{global, actions}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func newHabitForm(fm *HabitFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Habit Name").
				Value(&fm.Name).
				Validate(utils.ValidateHabitName),
			huh.NewInput().
				Title("Emoji (optional)").
				Value(&fm.Emoji),
			huh.NewSelect[models.Frequency]().
				Title("Frequency").
				Options(
					huh.NewOption("Daily", models.FrequencyDaily),
					huh.NewOption("Weekly", models.FrequencyWeekly),
					huh.NewOption("Monthly", models.FrequencyMonthly),
				).
				Value(&fm.Frequency),
		),
	).WithTheme(huh.ThemeDracula())
}
