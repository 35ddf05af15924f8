package models

import "testing"

func TestSettingsSet(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantErr bool
		check   func(Settings) bool
	}{
		{"timezone", "timezone", "Europe/Berlin", false, func(s Settings) bool { return s.Timezone == "Europe/Berlin" }},
		{"lookback", "lookback_days", "90", false, func(s Settings) bool { return s.LookbackDays == 90 }},
		{"habit limit", "habit_limit", "10", false, func(s Settings) bool { return s.HabitLimit == 10 }},
		{"calendar", "calendar_days", "7", false, func(s Settings) bool { return s.CalendarDays == 7 }},
		{"non-numeric", "habit_limit", "many", true, nil},
		{"zero", "lookback_days", "0", true, nil},
		{"unknown", "color", "red", true, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			err := s.Set(tt.key, tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Set(%q, %q) error = %v, wantErr %v", tt.key, tt.value, err, tt.wantErr)
			}
			if tt.check != nil && !tt.check(s) {
				t.Errorf("Set(%q, %q) produced %+v", tt.key, tt.value, s)
			}
		})
	}
}

func TestSettingsWithDefaults(t *testing.T) {
	s := Settings{HabitLimit: 3}.WithDefaults()
	if s.HabitLimit != 3 {
		t.Errorf("HabitLimit = %d, want 3", s.HabitLimit)
	}
	if s.LookbackDays != 365 || s.CalendarDays != 15 || s.Timezone != "Local" {
		t.Errorf("defaults not applied: %+v", s)
	}
}

func TestFrequencyValid(t *testing.T) {
	for _, f := range []Frequency{FrequencyDaily, FrequencyWeekly, FrequencyMonthly} {
		if !f.Valid() {
			t.Errorf("%q should be valid", f)
		}
	}
	if Frequency("hourly").Valid() {
		t.Error("hourly should be invalid")
	}
}
