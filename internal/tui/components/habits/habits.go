package habits

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/streakline/internal/models"
)

type AddHabitMsg struct{}

type ToggleHabitMsg struct {
	ID string
}

type ArchiveHabitMsg struct {
	ID string
}

type DeleteHabitMsg struct {
	ID string
}

type CycleFrequencyMsg struct {
	ID string
}

type Item struct {
	Habit models.Habit
	Done  bool
}

func (i Item) Title() string {
	title := i.Habit.Name
	if i.Habit.Emoji != "" {
		title = i.Habit.Emoji + " " + title
	}
	switch {
	case i.Habit.IsArchived:
		return "[ARCHIVED] " + title
	case i.Done:
		return "✓ " + title
	default:
		return "○ " + title
	}
}

func (i Item) Description() string {
	if i.Habit.IsArchived {
		return fmt.Sprintf("archived | best %d", i.Habit.BestStreak)
	}
	status := "not completed today"
	if i.Done {
		status = "completed today"
	}
	return fmt.Sprintf("%s | %s | streak %d (best %d)", i.Habit.Frequency, status, i.Habit.Streak, i.Habit.BestStreak)
}

func (i Item) FilterValue() string { return i.Habit.Name }

type KeyMap struct {
	Add       key.Binding
	Toggle    key.Binding
	Archive   key.Binding
	Delete    key.Binding
	Frequency key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" ", "m"),
			key.WithHelp("space", "toggle today"),
		),
		Archive: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "archive"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Frequency: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "frequency"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
}

func New(habits []models.Habit, today string, width, height int) Model {
	l := list.New(items(habits, today), list.NewDefaultDelegate(), width, height)
	l.Title = "Habits"
	l.SetShowTitle(false)
	l.SetShowHelp(false)

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Add, keys.Toggle, keys.Archive, keys.Delete, keys.Frequency}
	}
	l.AdditionalFullHelpKeys = l.AdditionalShortHelpKeys

	return Model{list: l, keys: keys}
}

func items(habits []models.Habit, today string) []list.Item {
	out := make([]list.Item, len(habits))
	for i, h := range habits {
		out[i] = Item{Habit: h, Done: h.IsCompleted(today)}
	}
	return out
}

func (m *Model) SetHabits(habits []models.Habit, today string) {
	m.list.SetItems(items(habits, today))
}

// Selected returns the highlighted habit.
func (m Model) Selected() (models.Habit, bool) {
	i, ok := m.list.SelectedItem().(Item)
	return i.Habit, ok
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		if key.Matches(msg, m.keys.Add) {
			return m, func() tea.Msg { return AddHabitMsg{} }
		}
		i, ok := m.list.SelectedItem().(Item)
		if !ok {
			break
		}
		id := i.Habit.ID
		switch {
		case key.Matches(msg, m.keys.Toggle):
			if !i.Habit.IsArchived {
				return m, func() tea.Msg { return ToggleHabitMsg{ID: id} }
			}
			return m, nil
		case key.Matches(msg, m.keys.Archive):
			return m, func() tea.Msg { return ArchiveHabitMsg{ID: id} }
		case key.Matches(msg, m.keys.Delete):
			return m, func() tea.Msg { return DeleteHabitMsg{ID: id} }
		case key.Matches(msg, m.keys.Frequency):
			return m, func() tea.Msg { return CycleFrequencyMsg{ID: id} }
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 && m.list.FilterState() != list.Filtering {
		return "\n  No habits yet.\n  Press 'a' to add one."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}

// NextFrequency cycles daily, weekly, monthly.
func NextFrequency(f models.Frequency) models.Frequency {
	switch f {
	case models.FrequencyDaily:
		return models.FrequencyWeekly
	case models.FrequencyWeekly:
		return models.FrequencyMonthly
	default:
		return models.FrequencyDaily
	}
}
