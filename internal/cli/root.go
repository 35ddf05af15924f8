package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/streakline/internal/backup"
	"github.com/julianstephens/streakline/internal/logger"
	"github.com/julianstephens/streakline/internal/models"
	"github.com/julianstephens/streakline/internal/storage"
	"github.com/julianstephens/streakline/internal/store"
	"github.com/julianstephens/streakline/internal/streak"
	"github.com/julianstephens/streakline/internal/utils"
)

// Context is handed to every command. Store is always set; the habit and
// billing stores are built by Load.
type Context struct {
	Store    storage.Provider
	Habits   *store.HabitStore
	Billing  *store.BillingStore
	Settings models.Settings
	Location *time.Location

	// Now overrides the wall clock, mainly for tests.
	Now func() time.Time

	stop []func()
}

// Load opens the provider, reads settings and restores both stores. The
// stores stay linked to each other and to the provider until Close. Calling
// Load again is a no-op.
func (c *Context) Load() error {
	if c.Habits != nil {
		return nil
	}
	if err := c.Store.Open(); err != nil {
		return err
	}

	settings, err := store.LoadSettings(c.Store)
	if err != nil {
		return err
	}
	loc, err := utils.LoadLocation(settings.Timezone)
	if err != nil {
		logger.Warn("Invalid timezone setting, using local time", "timezone", settings.Timezone, "error", err)
		loc = time.Local
	}

	opts := []store.Option{
		store.WithLocation(loc),
		store.WithEngine(streak.New(settings.LookbackDays)),
		store.WithCalendarDays(settings.CalendarDays),
		store.WithHabitLimit(settings.HabitLimit),
	}
	if c.Now != nil {
		opts = append(opts, store.WithClock(c.Now))
	}

	habits := store.NewHabitStore(opts...)
	billing := store.NewBillingStore(opts...)

	stopPersist, err := store.Persist(c.Store, habits, billing)
	if err != nil {
		return fmt.Errorf("failed to load state: %w", err)
	}
	unlink := store.Link(habits, billing)
	billing.SetHabitLimit(settings.HabitLimit)

	c.Habits = habits
	c.Billing = billing
	c.Settings = settings
	c.Location = loc
	c.stop = []func(){unlink, stopPersist}

	logger.Debug("Loaded state", "habits", habits.Len(), "timezone", loc.String())
	return nil
}

// Close detaches the stores and closes the provider.
func (c *Context) Close() error {
	for _, fn := range c.stop {
		fn()
	}
	c.stop = nil
	c.Habits = nil
	c.Billing = nil
	if c.Store == nil {
		return nil
	}
	return c.Store.Close()
}

// ResolveHabit finds a habit by exact id or name, then by case-insensitive
// name.
func (c *Context) ResolveHabit(ref string) (models.Habit, error) {
	if h, ok := c.Habits.Habit(ref); ok {
		return h, nil
	}
	if h, ok := c.Habits.FindByName(ref); ok {
		return h, nil
	}
	for _, h := range c.Habits.Habits() {
		if strings.EqualFold(h.Name, ref) {
			return h, nil
		}
	}
	return models.Habit{}, fmt.Errorf("habit %q not found", ref)
}

// ParseDay parses a YYYY-MM-DD day in the configured timezone. The empty
// string and "today" mean today; "yesterday" and relative offsets like "-3"
// are accepted too.
func (c *Context) ParseDay(s string) (time.Time, error) {
	today := c.Habits.Today()
	switch s = strings.TrimSpace(strings.ToLower(s)); s {
	case "", "today":
		return today, nil
	case "yesterday":
		return today.AddDate(0, 0, -1), nil
	}
	if n, err := strconv.Atoi(s); err == nil && n <= 0 {
		return today.AddDate(0, 0, n), nil
	}

	day, err := utils.ParseDateInLocation(s, c.Location)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", s)
	}
	return day, nil
}

// PerformAutomaticBackup backs up a SQLite database and only logs failures.
func (c *Context) PerformAutomaticBackup() {
	if _, ok := c.Store.(*storage.SQLiteStore); !ok {
		return
	}
	if _, err := backup.NewManager(c.Store.GetConfigPath()).Create(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}
