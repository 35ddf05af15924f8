// Package streak computes current and best streaks for a habit from its
// completion history.
package streak

import (
	"time"

	"github.com/julianstephens/streakline/internal/constants"
	"github.com/julianstephens/streakline/internal/models"
)

// Engine recomputes streaks by walking backward from today over a bounded
// look-back window.
type Engine struct {
	// Window is the number of days examined, today included.
	Window int
	// CreditNonRequiredGaps counts an uncompleted non-required day toward the
	// streak instead of merely skipping over it.
	CreditNonRequiredGaps bool
}

// New returns an engine with the given look-back window. A non-positive
// window falls back to the default.
func New(window int) Engine {
	if window <= 0 {
		window = constants.DefaultLookbackDays
	}
	return Engine{Window: window}
}

// IsRequiredDay reports whether day must be completed for a habit of the
// given frequency to keep its streak: every day for daily habits, Mondays
// for weekly habits and the 1st of the month for monthly habits.
func IsRequiredDay(day time.Time, frequency models.Frequency) bool {
	switch frequency {
	case models.FrequencyWeekly:
		return day.Weekday() == time.Monday
	case models.FrequencyMonthly:
		return day.Day() == 1
	default:
		return true
	}
}

// Compute returns the current streak for the completion set anchored at today.
//
// Today only ever adds to the streak. Each earlier day adds one when completed,
// until a required day without a completion breaks the streak; nothing after
// the break counts.
func (e Engine) Compute(completed map[string]bool, frequency models.Frequency, today time.Time) int {
	window := e.Window
	if window <= 0 {
		window = constants.DefaultLookbackDays
	}

	streak := 0
	broken := false
	for offset := 0; offset < window; offset++ {
		day := today.AddDate(0, 0, -offset)
		done := completed[day.Format(constants.DateFormat)]

		if offset == 0 {
			if done {
				streak++
			}
			continue
		}

		switch {
		case done:
			if !broken {
				streak++
			}
		case IsRequiredDay(day, frequency):
			broken = true
		case e.CreditNonRequiredGaps && !broken:
			streak++
		}
	}
	return streak
}

// ComputeDates is Compute over a list of YYYY-MM-DD strings.
func (e Engine) ComputeDates(dates []string, frequency models.Frequency, today time.Time) int {
	return e.Compute(Set(dates), frequency, today)
}

// Recompute returns a copy of h with Streak and BestStreak refreshed.
func (e Engine) Recompute(h models.Habit, today time.Time) models.Habit {
	h.Streak = e.ComputeDates(h.CompletedDates, h.Frequency, today)
	h.BestStreak = Best(h.BestStreak, h.Streak)
	return h
}

// Best returns the updated historical best streak.
func Best(previous, current int) int {
	if current > previous {
		return current
	}
	return previous
}

// Set builds a lookup set from date strings.
func Set(dates []string) map[string]bool {
	set := make(map[string]bool, len(dates))
	for _, d := range dates {
		set[d] = true
	}
	return set
}
