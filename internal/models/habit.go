package models

import "time"

type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
)

// Valid reports whether f is one of the supported frequencies.
func (f Frequency) Valid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly:
		return true
	}
	return false
}

type SessionType string

const (
	SessionManual   SessionType = "manual"
	SessionPomodoro SessionType = "pomodoro"
	SessionTimer    SessionType = "timer"
)

// Habit represents a recurring practice to track
type Habit struct {
	ID             string        `json:"id"`
	Name           string        `json:"name"`
	CompletedDates []string      `json:"completed_dates"` // YYYY-MM-DD, ascending
	Frequency      Frequency     `json:"frequency"`
	Streak         int           `json:"streak"`
	BestStreak     int           `json:"best_streak"`
	IsArchived     bool          `json:"is_archived"`
	Color          string        `json:"color,omitempty"`
	Emoji          string        `json:"emoji,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
	TimeTracking   *TimeTracking `json:"time_tracking,omitempty"`
}

// IsCompleted reports whether the habit has a completion recorded for day.
func (h Habit) IsCompleted(day string) bool {
	for _, d := range h.CompletedDates {
		if d == day {
			return true
		}
	}
	return false
}

// TimeTracking accumulates focused time spent on a habit. It has no effect on
// completions or streaks.
type TimeTracking struct {
	TotalTime        int              `json:"total_time"` // minutes
	Sessions         []TimeSession    `json:"sessions"`
	Target           TimeTarget       `json:"target"`
	PomodoroSettings PomodoroSettings `json:"pomodoro_settings"`
}

type TimeSession struct {
	Date     string      `json:"date"`     // YYYY-MM-DD format
	Duration int         `json:"duration"` // minutes
	Notes    string      `json:"notes,omitempty"`
	Type     SessionType `json:"type"`
}

// TimeTarget holds minute goals per period.
type TimeTarget struct {
	Daily   int `json:"daily"`
	Weekly  int `json:"weekly"`
	Monthly int `json:"monthly"`
}

type PomodoroSettings struct {
	WorkDuration           int `json:"work_duration"`
	BreakDuration          int `json:"break_duration"`
	LongBreakDuration      int `json:"long_break_duration"`
	SessionsUntilLongBreak int `json:"sessions_until_long_break"`
}

// DefaultPomodoroSettings returns the classic 25/5/15 cadence.
func DefaultPomodoroSettings() PomodoroSettings {
	return PomodoroSettings{
		WorkDuration:           25,
		BreakDuration:          5,
		LongBreakDuration:      15,
		SessionsUntilLongBreak: 4,
	}
}

// HabitPatch carries the descriptive fields an edit may change. Nil fields
// are left untouched.
type HabitPatch struct {
	Name   *string
	Color  *string
	Emoji  *string
	Target *TimeTarget
}

// StreakPoint is one sample of the cross-habit average streak.
type StreakPoint struct {
	Date    string  `json:"date"`
	Average float64 `json:"average"`
}

// HabitState is the persisted snapshot of the habit store.
type HabitState struct {
	Habits        []Habit       `json:"habits"`
	StartDate     string        `json:"start_date"` // calendar anchor, YYYY-MM-DD
	StreakHistory []StreakPoint `json:"streak_history"`
	BestStreak    int           `json:"best_streak"`
}
