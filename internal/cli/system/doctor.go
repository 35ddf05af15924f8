package system

import (
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/streakline/internal/backup"
	"github.com/julianstephens/streakline/internal/cli"
	"github.com/julianstephens/streakline/internal/constants"
	"github.com/julianstephens/streakline/internal/models"
	"github.com/julianstephens/streakline/internal/storage"
	"github.com/julianstephens/streakline/internal/store"
	"github.com/julianstephens/streakline/internal/streak"
	"github.com/julianstephens/streakline/internal/utils"
)

// errWarning marks a finding that should not fail the doctor run.
var errWarning = errors.New("warning")

type diagnostic struct {
	name    string
	needsDB bool
	run     func(ctx *cli.Context, snap *snapshots) error
}

// snapshots holds the raw persisted state, read without going through the
// stores so that inconsistencies are not repaired before they are reported.
type snapshots struct {
	habits   models.HabitState
	billing  models.BillingState
	settings models.Settings
}

var diagnostics = []diagnostic{
	{name: "Schema version", needsDB: true, run: checkSchemaVersion},
	{name: "Backups present", run: checkBackupsPresent},
	{name: "Timezone", needsDB: true, run: checkTimezone},
	{name: "Habit integrity", needsDB: true, run: checkHabitsIntegrity},
	{name: "Usage limits in sync", needsDB: true, run: checkUsageSync},
	{name: "Cached streaks", needsDB: true, run: checkCachedStreaks},
}

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false
	snap, err := readSnapshots(ctx.Store)
	if err != nil {
		fmt.Printf("❌ Database reachable: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Database reachable: OK\n")
	}

	for _, d := range diagnostics {
		if d.needsDB && snap == nil {
			fmt.Printf("⊘ %s: SKIPPED (database not reachable)\n", d.name)
			continue
		}
		switch err := d.run(ctx, snap); {
		case err == nil:
			fmt.Printf("✓ %s: OK\n", d.name)
		case errors.Is(err, errWarning):
			fmt.Printf("⚠ %s: WARNING\n", d.name)
			fmt.Printf("   %v\n", err)
		default:
			fmt.Printf("❌ %s: FAIL\n", d.name)
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		}
	}

	fmt.Println()
	if hasError {
		return errors.New("one or more checks failed")
	}
	fmt.Println("All checks passed.")
	return nil
}

func readSnapshots(p storage.Provider) (*snapshots, error) {
	if err := p.Open(); err != nil {
		return nil, err
	}
	var snap snapshots
	if _, err := storage.LoadJSON(p, constants.HabitStateKey, &snap.habits); err != nil {
		return nil, err
	}
	if _, err := storage.LoadJSON(p, constants.BillingStateKey, &snap.billing); err != nil {
		return nil, err
	}
	settings, err := store.LoadSettings(p)
	if err != nil {
		return nil, err
	}
	snap.settings = settings
	return &snap, nil
}

func checkSchemaVersion(ctx *cli.Context, _ *snapshots) error {
	m, ok := ctx.Store.(storage.Migrator)
	if !ok {
		return nil
	}
	current, latest, err := m.SchemaVersion()
	if err != nil {
		return err
	}
	if current != latest {
		return fmt.Errorf("schema version %d, expected %d (run 'streakline migrate')", current, latest)
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context, _ *snapshots) error {
	if _, ok := ctx.Store.(*storage.SQLiteStore); !ok {
		return nil
	}
	mgr := backup.NewManager(ctx.Store.GetConfigPath())
	latest, ok, err := mgr.Latest()
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: no backups found in %s", errWarning, mgr.Dir())
	}
	if age := time.Since(latest.Timestamp); age > 7*24*time.Hour {
		return fmt.Errorf("%w: latest backup is %d days old", errWarning, int(age.Hours()/24))
	}
	return nil
}

func checkTimezone(_ *cli.Context, snap *snapshots) error {
	if _, err := utils.TodayIn(snap.settings.Timezone, time.Now()); err != nil {
		return fmt.Errorf("timezone setting: %w", err)
	}
	return nil
}

func checkHabitsIntegrity(_ *cli.Context, snap *snapshots) error {
	ids := make(map[string]bool)
	for _, h := range snap.habits.Habits {
		if h.ID == "" {
			return fmt.Errorf("habit %q has no id", h.Name)
		}
		if ids[h.ID] {
			return fmt.Errorf("duplicate habit id %s", h.ID)
		}
		ids[h.ID] = true

		if h.Name == "" {
			return fmt.Errorf("habit %s has an empty name", h.ID)
		}
		if !h.Frequency.Valid() {
			return fmt.Errorf("habit %q has invalid frequency %q", h.Name, h.Frequency)
		}
		if h.Streak < 0 || h.BestStreak < h.Streak {
			return fmt.Errorf("habit %q has streak %d with best %d", h.Name, h.Streak, h.BestStreak)
		}
		for i, d := range h.CompletedDates {
			if !utils.ValidateDateFormat(d) {
				return fmt.Errorf("habit %q has malformed date %q", h.Name, d)
			}
			if i > 0 && d <= h.CompletedDates[i-1] {
				return fmt.Errorf("habit %q dates are not sorted and unique at %s", h.Name, d)
			}
		}
	}
	if n := len(snap.habits.StreakHistory); n > constants.StreakHistoryLimit {
		return fmt.Errorf("streak history has %d entries, limit is %d", n, constants.StreakHistoryLimit)
	}
	return nil
}

func checkUsageSync(_ *cli.Context, snap *snapshots) error {
	used := snap.billing.UsageLimits.Habits.Used
	if n := len(snap.habits.Habits); used != n {
		return fmt.Errorf("%w: usage shows %d habits but %d exist; it is corrected on next start", errWarning, used, n)
	}
	return nil
}

func checkCachedStreaks(ctx *cli.Context, snap *snapshots) error {
	now := time.Now()
	if ctx.Now != nil {
		now = ctx.Now()
	}
	today, err := utils.TodayIn(snap.settings.Timezone, now)
	if err != nil {
		today = utils.StartOfDay(now.In(time.Local))
	}
	engine := streak.New(snap.settings.LookbackDays)

	var stale []string
	for _, h := range snap.habits.Habits {
		if got := engine.ComputeDates(h.CompletedDates, h.Frequency, today); got != h.Streak {
			stale = append(stale, fmt.Sprintf("%s (%d, now %d)", h.Name, h.Streak, got))
		}
	}
	if len(stale) > 0 {
		return fmt.Errorf("%w: streaks differ from a fresh count and refresh on the next toggle: %v", errWarning, stale)
	}
	return nil
}
