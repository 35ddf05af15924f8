package utils

import (
	"fmt"
	"time"

	"github.com/julianstephens/streakline/internal/constants"
)

// DisplayDate is the calendar-cell form of a date.
type DisplayDate struct {
	Month   string // short month name, e.g. "Jan"
	Day     int
	Weekday string // short weekday name, e.g. "Mon"
}

// FormatDate converts a date into its calendar-display record.
func FormatDate(t time.Time) DisplayDate {
	return DisplayDate{
		Month:   t.Format("Jan"),
		Day:     t.Day(),
		Weekday: t.Format("Mon"),
	}
}

// DatesInRange returns count consecutive calendar dates beginning at start.
// A non-positive count yields an empty slice.
func DatesInRange(start time.Time, count int) []time.Time {
	if count <= 0 {
		return []time.Time{}
	}
	dates := make([]time.Time, count)
	for i := range dates {
		// AddDate keeps wall-clock midnight stable across DST changes.
		dates[i] = start.AddDate(0, 0, i)
	}
	return dates
}

// DaysBetween counts calendar days from a to b. Both should be midnights in
// the same location; rounding absorbs DST shifts.
func DaysBetween(a, b time.Time) int {
	return int(b.Sub(a).Round(24*time.Hour) / (24 * time.Hour))
}

// DateKey returns the YYYY-MM-DD key for t in t's own location.
func DateKey(t time.Time) string {
	return t.Format(constants.DateFormat)
}

// StartOfDay truncates t to midnight in its location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// LoadLocation loads a timezone location from an IANA timezone name.
// If the timezone is "Local" or empty, it returns the system's local timezone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(timezone)
}

// TodayIn returns midnight of now's calendar day in timezone.
func TodayIn(timezone string, now time.Time) (time.Time, error) {
	loc, err := LoadLocation(timezone)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return StartOfDay(now.In(loc)), nil
}

// ParseDateInLocation parses a date string (YYYY-MM-DD) in the specified timezone.
func ParseDateInLocation(dateStr string, loc *time.Location) (time.Time, error) {
	t, err := time.Parse(constants.DateFormat, dateStr)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc), nil
}

// ValidateDateFormat checks if the string matches the standard date format.
func ValidateDateFormat(dateStr string) bool {
	_, err := time.Parse(constants.DateFormat, dateStr)
	return err == nil
}

// ValidateTimezone checks if the timezone name is valid.
func ValidateTimezone(timezone string) bool {
	if timezone == "" || timezone == "Local" {
		return true
	}
	_, err := time.LoadLocation(timezone)
	return err == nil
}
