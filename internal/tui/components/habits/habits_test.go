package habits

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/streakline/internal/models"
)

func testHabits() []models.Habit {
	return []models.Habit{
		{ID: "h1", Name: "Read", Frequency: models.FrequencyDaily, CompletedDates: []string{"2026-10-18"}, Streak: 2, BestStreak: 5},
		{ID: "h2", Name: "Stretch", Frequency: models.FrequencyWeekly, IsArchived: true},
	}
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestItemRendering(t *testing.T) {
	h := testHabits()
	done := Item{Habit: h[0], Done: true}
	if !strings.HasPrefix(done.Title(), "✓") {
		t.Errorf("Title() = %q, want a check mark", done.Title())
	}
	if !strings.Contains(done.Description(), "streak 2 (best 5)") {
		t.Errorf("Description() = %q", done.Description())
	}

	archived := Item{Habit: h[1]}
	if !strings.HasPrefix(archived.Title(), "[ARCHIVED]") {
		t.Errorf("Title() = %q, want archived marker", archived.Title())
	}

	open := Item{Habit: models.Habit{Name: "Walk", Emoji: "🚶"}}
	if open.Title() != "○ 🚶 Walk" {
		t.Errorf("Title() = %q", open.Title())
	}
}

func TestNewMarksTodayCompletions(t *testing.T) {
	m := New(testHabits(), "2026-10-18", 80, 20)
	item, ok := m.list.Items()[0].(Item)
	if !ok || !item.Done {
		t.Errorf("first item = %+v, want done", item)
	}

	m.SetHabits(testHabits(), "2026-10-19")
	if item := m.list.Items()[0].(Item); item.Done {
		t.Error("completion should not carry over to another day")
	}
}

func TestUpdateEmitsMessages(t *testing.T) {
	tests := []struct {
		name string
		key  tea.KeyMsg
		want tea.Msg
	}{
		{"add", runeKey('a'), AddHabitMsg{}},
		{"toggle", tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, ToggleHabitMsg{ID: "h1"}},
		{"archive", runeKey('x'), ArchiveHabitMsg{ID: "h1"}},
		{"delete", runeKey('d'), DeleteHabitMsg{ID: "h1"}},
		{"frequency", runeKey('f'), CycleFrequencyMsg{ID: "h1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New(testHabits(), "2026-10-18", 80, 20)
			_, cmd := m.Update(tt.key)
			if cmd == nil {
				t.Fatal("Update() returned no command")
			}
			if got := cmd(); got != tt.want {
				t.Errorf("message = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestEmptyView(t *testing.T) {
	m := New(nil, "2026-10-18", 80, 20)
	if !strings.Contains(m.View(), "No habits yet") {
		t.Errorf("View() = %q", m.View())
	}
	if _, ok := m.Selected(); ok {
		t.Error("Selected() on an empty list should report false")
	}
}

func TestNextFrequency(t *testing.T) {
	f := models.FrequencyDaily
	for _, want := range []models.Frequency{models.FrequencyWeekly, models.FrequencyMonthly, models.FrequencyDaily} {
		f = NextFrequency(f)
		if f != want {
			t.Fatalf("NextFrequency() = %s, want %s", f, want)
		}
	}
}
