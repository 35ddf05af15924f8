package constants

const (
	// Setting names accepted by `streakline settings set`
	SettingTimezone     = "timezone"
	SettingLookbackDays = "lookback_days"
	SettingHabitLimit   = "habit_limit"
	SettingCalendarDays = "calendar_days"

	// Default Settings Values
	DefaultTimezone     = "Local" // Use system local timezone by default
	DefaultLookbackDays = 365
	DefaultHabitLimit   = 6
	DefaultCalendarDays = 15

	// StreakHistoryLimit bounds the rolling average-streak series
	StreakHistoryLimit = 30
)
