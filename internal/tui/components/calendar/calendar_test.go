package calendar

import (
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/streakline/internal/models"
)

func TestGrid(t *testing.T) {
	today := time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)
	dates := []time.Time{today.AddDate(0, 0, -1), today, today.AddDate(0, 0, 1)}
	habits := []models.Habit{
		{Name: "Daily", Frequency: models.FrequencyDaily, CompletedDates: []string{"2026-10-18"}},
		{Name: "A habit with a very long name", Frequency: models.FrequencyWeekly},
	}

	out := Grid(habits, dates, today)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 5 {
		t.Fatalf("Grid() produced %d lines, want 5:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[3], "x") || !strings.Contains(lines[3], ".") {
		t.Errorf("daily row should show a miss and a completion: %q", lines[3])
	}
	if strings.Count(lines[4], ".") != 3 {
		t.Errorf("weekly row should not mark Saturday as missed: %q", lines[4])
	}
	if !strings.HasPrefix(lines[4], "A habit with a v...") {
		t.Errorf("long name not truncated: %q", lines[4])
	}
}

func TestPadName(t *testing.T) {
	tests := []struct {
		name string
		want int
	}{
		{"Read", nameWidth},
		{"Exactly nineteen ch", nameWidth},
		{"Twenty characters!!", nameWidth},
		{"Meditate for ten minutes", nameWidth},
	}
	for _, tt := range tests {
		if got := len([]rune(padName(tt.name))); got != tt.want {
			t.Errorf("padName(%q) width = %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestRange(t *testing.T) {
	start := time.Date(2026, 10, 4, 0, 0, 0, 0, time.UTC)
	if got := Range([]time.Time{start, start.AddDate(0, 0, 14)}); got != "Oct 4 - Oct 18" {
		t.Errorf("Range() = %q", got)
	}
	if got := Range(nil); got != "" {
		t.Errorf("Range(nil) = %q, want empty", got)
	}
}
