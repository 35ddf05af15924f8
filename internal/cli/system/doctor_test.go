package system

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/streakline/internal/backup"
	"github.com/julianstephens/streakline/internal/cli"
	"github.com/julianstephens/streakline/internal/constants"
	"github.com/julianstephens/streakline/internal/models"
	"github.com/julianstephens/streakline/internal/storage"
)

func TestDoctorCmd_HealthyDB(t *testing.T) {
	ctx, _ := setupTestDB(t)
	if err := ctx.Load(); err != nil {
		t.Fatal(err)
	}
	ctx.Habits.AddHabit(models.Habit{Name: "Read"})

	// Missing backups is a warning, not a failure.
	if err := (&DoctorCmd{}).Run(ctx); err != nil {
		t.Errorf("doctor failed on a healthy database: %v", err)
	}

	if _, err := backup.NewManager(ctx.Store.GetConfigPath()).Create(); err != nil {
		t.Fatal(err)
	}
	if err := checkBackupsPresent(ctx, nil); err != nil {
		t.Errorf("checkBackupsPresent() = %v after a fresh backup", err)
	}
}

func TestDoctorCmd_Uninitialized(t *testing.T) {
	ctx := &cli.Context{Store: storage.NewSQLiteStore(filepath.Join(t.TempDir(), "missing.db"))}
	if err := (&DoctorCmd{}).Run(ctx); err == nil {
		t.Error("doctor should fail when the database does not exist")
	}
}

func TestDoctorCmd_CorruptHabits(t *testing.T) {
	ctx, _ := setupTestDB(t)
	state := models.HabitState{Habits: []models.Habit{{
		ID:             "h1",
		Name:           "Read",
		Frequency:      models.FrequencyDaily,
		CompletedDates: []string{"2026-10-18", "2026-10-17"},
	}}}
	if err := storage.SaveJSON(ctx.Store, constants.HabitStateKey, state); err != nil {
		t.Fatal(err)
	}

	if err := (&DoctorCmd{}).Run(ctx); err == nil {
		t.Error("doctor should fail on unsorted completion dates")
	}
}

func TestCheckHabitsIntegrity(t *testing.T) {
	valid := models.Habit{ID: "h1", Name: "Read", Frequency: models.FrequencyDaily, CompletedDates: []string{"2026-10-17", "2026-10-18"}, Streak: 2, BestStreak: 2}

	tests := []struct {
		name    string
		mutate  func(h *models.Habit)
		wantErr bool
	}{
		{"valid", func(h *models.Habit) {}, false},
		{"missing id", func(h *models.Habit) { h.ID = "" }, true},
		{"empty name", func(h *models.Habit) { h.Name = "" }, true},
		{"bad frequency", func(h *models.Habit) { h.Frequency = "hourly" }, true},
		{"best below streak", func(h *models.Habit) { h.BestStreak = 1 }, true},
		{"malformed date", func(h *models.Habit) { h.CompletedDates = []string{"10/18/2026"} }, true},
		{"duplicate date", func(h *models.Habit) { h.CompletedDates = []string{"2026-10-18", "2026-10-18"} }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := valid
			h.CompletedDates = append([]string(nil), valid.CompletedDates...)
			tt.mutate(&h)
			snap := &snapshots{habits: models.HabitState{Habits: []models.Habit{h}}}
			if err := checkHabitsIntegrity(nil, snap); (err != nil) != tt.wantErr {
				t.Errorf("checkHabitsIntegrity() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}

	dup := &snapshots{habits: models.HabitState{Habits: []models.Habit{valid, valid}}}
	if err := checkHabitsIntegrity(nil, dup); err == nil {
		t.Error("duplicate ids should fail")
	}
}

func TestCheckUsageSyncIsWarning(t *testing.T) {
	snap := &snapshots{
		habits:  models.HabitState{Habits: []models.Habit{{ID: "h1"}}},
		billing: models.BillingState{UsageLimits: models.UsageLimits{Habits: models.Limit{Used: 3, Total: 6}}},
	}
	err := checkUsageSync(nil, snap)
	if !errors.Is(err, errWarning) {
		t.Errorf("checkUsageSync() = %v, want a warning", err)
	}

	snap.billing.UsageLimits.Habits.Used = 1
	if err := checkUsageSync(nil, snap); err != nil {
		t.Errorf("checkUsageSync() = %v, want nil", err)
	}
}

func TestCheckCachedStreaks(t *testing.T) {
	ctx := &cli.Context{Now: func() time.Time { return testNow }}
	snap := &snapshots{
		settings: models.DefaultSettings(),
		habits: models.HabitState{Habits: []models.Habit{{
			ID: "h1", Name: "Read", Frequency: models.FrequencyDaily,
			CompletedDates: []string{"2026-10-17", "2026-10-18"}, Streak: 2, BestStreak: 2,
		}}},
	}
	if err := checkCachedStreaks(ctx, snap); err != nil {
		t.Errorf("checkCachedStreaks() = %v, want nil", err)
	}

	snap.habits.Habits[0].Streak = 5
	if err := checkCachedStreaks(ctx, snap); !errors.Is(err, errWarning) {
		t.Errorf("checkCachedStreaks() = %v, want a warning", err)
	}
}

func TestCheckTimezone(t *testing.T) {
	snap := &snapshots{settings: models.Settings{Timezone: "Mars/Olympus"}}
	if err := checkTimezone(nil, snap); err == nil {
		t.Error("invalid timezone should fail")
	}
	snap.settings.Timezone = "UTC"
	if err := checkTimezone(nil, snap); err != nil {
		t.Errorf("checkTimezone() = %v", err)
	}
}
