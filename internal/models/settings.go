package models

import (
	"fmt"
	"sort"

	"github.com/julianstephens/streakline/internal/constants"
)

type Settings struct {
	Timezone     string `json:"timezone"`
	LookbackDays int    `json:"lookback_days"`
	HabitLimit   int    `json:"habit_limit"`
	CalendarDays int    `json:"calendar_days"`
}

// DefaultSettings returns the settings used when none have been saved.
func DefaultSettings() Settings {
	return Settings{
		Timezone:     constants.DefaultTimezone,
		LookbackDays: constants.DefaultLookbackDays,
		HabitLimit:   constants.DefaultHabitLimit,
		CalendarDays: constants.DefaultCalendarDays,
	}
}

// WithDefaults fills zero-valued fields from DefaultSettings.
func (s Settings) WithDefaults() Settings {
	d := DefaultSettings()
	if s.Timezone == "" {
		s.Timezone = d.Timezone
	}
	if s.LookbackDays <= 0 {
		s.LookbackDays = d.LookbackDays
	}
	if s.HabitLimit <= 0 {
		s.HabitLimit = d.HabitLimit
	}
	if s.CalendarDays <= 0 {
		s.CalendarDays = d.CalendarDays
	}
	return s
}

// Set assigns a single named setting from its string form.
func (s *Settings) Set(key, value string) error {
	switch key {
	case constants.SettingTimezone:
		s.Timezone = value
	case constants.SettingLookbackDays:
		return scanPositive(key, value, &s.LookbackDays)
	case constants.SettingHabitLimit:
		return scanPositive(key, value, &s.HabitLimit)
	case constants.SettingCalendarDays:
		return scanPositive(key, value, &s.CalendarDays)
	default:
		return fmt.Errorf("unknown setting %q", key)
	}
	return nil
}

// SettingsToMap converts a Settings struct to a map of key-value pairs.
func SettingsToMap(settings Settings) map[string]string {
	return map[string]string{
		constants.SettingTimezone:     settings.Timezone,
		constants.SettingLookbackDays: fmt.Sprintf("%d", settings.LookbackDays),
		constants.SettingHabitLimit:   fmt.Sprintf("%d", settings.HabitLimit),
		constants.SettingCalendarDays: fmt.Sprintf("%d", settings.CalendarDays),
	}
}

// SettingKeys returns the known setting names in sorted order.
func SettingKeys() []string {
	keys := make([]string, 0, 4)
	for k := range SettingsToMap(Settings{}) {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func scanPositive(key, value string, dst *int) error {
	var n int
	if _, err := fmt.Sscanf(value, "%d", &n); err != nil {
		return fmt.Errorf("parsing %s: %w", key, err)
	}
	if n <= 0 {
		return fmt.Errorf("%s must be positive, got %d", key, n)
	}
	*dst = n
	return nil
}
