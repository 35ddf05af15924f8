package habits

import (
	"fmt"
	"strings"

	"github.com/julianstephens/streakline/internal/cli"
	"github.com/julianstephens/streakline/internal/models"
	"github.com/julianstephens/streakline/internal/tui/components/calendar"
	"github.com/julianstephens/streakline/internal/utils"
)

type HabitCmd struct {
	Add       HabitAddCmd       `cmd:"" help:"Add a new habit."`
	List      HabitListCmd      `cmd:"" help:"List habits."`
	Edit      HabitEditCmd      `cmd:"" help:"Edit a habit's name, color, emoji or time targets."`
	Delete    HabitDeleteCmd    `cmd:"" help:"Delete a habit."`
	Archive   HabitArchiveCmd   `cmd:"" help:"Archive or unarchive a habit."`
	Frequency HabitFrequencyCmd `cmd:"" help:"Change how often a habit is due."`
	Toggle    HabitToggleCmd    `cmd:"" help:"Mark or unmark a habit for a day."`
	Today     HabitTodayCmd     `cmd:"" help:"Show today's habit status."`
	Log       HabitLogCmd       `cmd:"" help:"Show habit log (ASCII history)."`
	Time      HabitTimeCmd      `cmd:"" help:"Log time spent on a habit."`
}

type HabitAddCmd struct {
	Name      string `arg:"" help:"Habit name."`
	Frequency string `help:"How often the habit is due (daily|weekly|monthly)." enum:"daily,weekly,monthly" default:"daily"`
	Color     string `help:"Display color."`
	Emoji     string `help:"Display emoji."`
	Force     bool   `help:"Add even when the plan's habit limit is reached."`
}

func (c *HabitAddCmd) Run(ctx *cli.Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}

	if err := utils.ValidateHabitName(c.Name); err != nil {
		return err
	}
	name := strings.TrimSpace(c.Name)
	if _, ok := ctx.Habits.FindByName(name); ok {
		return fmt.Errorf("habit with name %q already exists", name)
	}
	if !c.Force && !ctx.Billing.CanAddHabit() {
		limits := ctx.Billing.UsageLimits().Habits
		return fmt.Errorf("habit limit reached (%d/%d). Upgrade with 'streakline billing upgrade' or pass --force", limits.Used, limits.Total)
	}

	h := ctx.Habits.AddHabit(models.Habit{
		Name:      name,
		Frequency: models.Frequency(c.Frequency),
		Color:     c.Color,
		Emoji:     c.Emoji,
	})

	fmt.Printf("Added habit: %s (%s)\n", label(h), h.Frequency)
	return nil
}

type HabitListCmd struct {
	Archived bool `help:"Include archived habits."`
}

func (c *HabitListCmd) Run(ctx *cli.Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}

	habits := ctx.Habits.ActiveHabits()
	if c.Archived {
		habits = ctx.Habits.Habits()
	}
	if len(habits) == 0 {
		fmt.Println("No habits found.")
		return nil
	}

	for _, h := range habits {
		status := ""
		if h.IsArchived {
			status = " [ARCHIVED]"
		}
		fmt.Printf("%-24s %-8s streak %3d  best %3d%s\n", label(h), h.Frequency, h.Streak, h.BestStreak, status)
	}

	limits := ctx.Billing.UsageLimits().Habits
	fmt.Printf("\nUsing %d of %d habits\n", limits.Used, limits.Total)
	return nil
}

type HabitEditCmd struct {
	Habit         string  `arg:"" help:"Habit name or ID."`
	Name          *string `help:"New name."`
	Color         *string `help:"New color."`
	Emoji         *string `help:"New emoji."`
	TargetDaily   *int    `help:"Daily time target in minutes."`
	TargetWeekly  *int    `help:"Weekly time target in minutes."`
	TargetMonthly *int    `help:"Monthly time target in minutes."`
}

func (c *HabitEditCmd) Run(ctx *cli.Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}

	h, err := ctx.ResolveHabit(c.Habit)
	if err != nil {
		return err
	}

	patch := models.HabitPatch{Color: c.Color, Emoji: c.Emoji}
	if c.Name != nil {
		if err := utils.ValidateHabitName(*c.Name); err != nil {
			return err
		}
		name := strings.TrimSpace(*c.Name)
		if other, ok := ctx.Habits.FindByName(name); ok && other.ID != h.ID {
			return fmt.Errorf("habit with name %q already exists", name)
		}
		patch.Name = &name
	}
	if c.TargetDaily != nil || c.TargetWeekly != nil || c.TargetMonthly != nil {
		var target models.TimeTarget
		if h.TimeTracking != nil {
			target = h.TimeTracking.Target
		}
		setIfPresent(&target.Daily, c.TargetDaily)
		setIfPresent(&target.Weekly, c.TargetWeekly)
		setIfPresent(&target.Monthly, c.TargetMonthly)
		patch.Target = &target
	}

	if patch == (models.HabitPatch{}) {
		fmt.Println("No changes specified.")
		return nil
	}

	ctx.Habits.EditHabit(h.ID, patch)
	updated, _ := ctx.Habits.Habit(h.ID)
	fmt.Printf("Updated habit: %s\n", label(updated))
	return nil
}

func setIfPresent(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

type HabitDeleteCmd struct {
	Habit string `arg:"" help:"Habit name or ID to delete."`
}

func (c *HabitDeleteCmd) Run(ctx *cli.Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}

	h, err := ctx.ResolveHabit(c.Habit)
	if err != nil {
		return err
	}

	ctx.Habits.DeleteHabit(h.ID)
	fmt.Printf("Deleted habit: %s\n", h.Name)
	return nil
}

type HabitArchiveCmd struct {
	Habit string `arg:"" help:"Habit name or ID. Archiving an archived habit restores it."`
}

func (c *HabitArchiveCmd) Run(ctx *cli.Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}

	h, err := ctx.ResolveHabit(c.Habit)
	if err != nil {
		return err
	}

	ctx.Habits.ArchiveHabit(h.ID)
	if h.IsArchived {
		fmt.Printf("Unarchived habit: %s\n", h.Name)
	} else {
		fmt.Printf("Archived habit: %s\n", h.Name)
	}
	return nil
}

type HabitFrequencyCmd struct {
	Habit     string `arg:"" help:"Habit name or ID."`
	Frequency string `arg:"" help:"New frequency (daily|weekly|monthly)." enum:"daily,weekly,monthly"`
}

func (c *HabitFrequencyCmd) Run(ctx *cli.Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}

	h, err := ctx.ResolveHabit(c.Habit)
	if err != nil {
		return err
	}

	ctx.Habits.ChangeHabitFrequency(h.ID, models.Frequency(c.Frequency))
	fmt.Printf("%s is now %s\n", h.Name, c.Frequency)
	fmt.Println("The streak is recalculated the next time the habit is toggled.")
	return nil
}

type HabitToggleCmd struct {
	Habit string `arg:"" help:"Habit name or ID."`
	Date  string `help:"Day to toggle: YYYY-MM-DD, today, yesterday or a negative offset (default: today)." default:""`
}

func (c *HabitToggleCmd) Run(ctx *cli.Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}

	h, err := ctx.ResolveHabit(c.Habit)
	if err != nil {
		return err
	}
	day, err := ctx.ParseDay(c.Date)
	if err != nil {
		return err
	}

	ctx.Habits.ToggleHabitCompletion(h.ID, day)
	updated, _ := ctx.Habits.Habit(h.ID)

	key := utils.DateKey(day)
	verb := "Unmarked"
	if updated.IsCompleted(key) {
		verb = "Marked"
	}
	fmt.Printf("%s %s for %s (streak %d, best %d)\n", verb, h.Name, key, updated.Streak, updated.BestStreak)
	return nil
}

type HabitTodayCmd struct{}

func (c *HabitTodayCmd) Run(ctx *cli.Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}

	habits := ctx.Habits.ActiveHabits()
	if len(habits) == 0 {
		fmt.Println("No habits found.")
		return nil
	}

	today := ctx.Habits.Today()
	fmt.Printf("Habits for %s:\n\n", utils.DateKey(today))

	done := 0
	for _, h := range habits {
		status := "[ ]"
		if ctx.Habits.CalculateProgress(h) == 100 {
			status = "[x]"
			done++
		}
		fmt.Printf("%s %-24s streak %d\n", status, label(h), h.Streak)
	}

	fmt.Printf("\nCompleted: %d/%d\n", done, len(habits))
	return nil
}

type HabitLogCmd struct {
	Days  int    `help:"Number of days to show." default:"14"`
	Habit string `help:"Show log for a specific habit only."`
}

func (c *HabitLogCmd) Run(ctx *cli.Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}
	if c.Days <= 0 {
		return fmt.Errorf("--days must be positive")
	}

	habits := ctx.Habits.ActiveHabits()
	if c.Habit != "" {
		h, err := ctx.ResolveHabit(c.Habit)
		if err != nil {
			return err
		}
		habits = []models.Habit{h}
	}
	if len(habits) == 0 {
		fmt.Println("No habits found.")
		return nil
	}

	start := ctx.Habits.Today().AddDate(0, 0, -(c.Days - 1))
	fmt.Printf("Habit log (last %d days):\n\n", c.Days)
	fmt.Print(calendar.Grid(habits, utils.DatesInRange(start, c.Days), ctx.Habits.Today()))
	return nil
}

type HabitTimeCmd struct {
	Habit   string `arg:"" help:"Habit name or ID."`
	Minutes int    `arg:"" help:"Minutes spent."`
	Type    string `help:"Session type (manual|pomodoro|timer)." enum:"manual,pomodoro,timer" default:"manual"`
	Notes   string `help:"Optional note."`
	Date    string `help:"Day of the session (default: today)." default:""`
}

func (c *HabitTimeCmd) Run(ctx *cli.Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}
	if c.Minutes <= 0 {
		return fmt.Errorf("minutes must be positive")
	}

	h, err := ctx.ResolveHabit(c.Habit)
	if err != nil {
		return err
	}
	day, err := ctx.ParseDay(c.Date)
	if err != nil {
		return err
	}

	ctx.Habits.LogTimeSession(h.ID, models.TimeSession{
		Date:     utils.DateKey(day),
		Duration: c.Minutes,
		Notes:    c.Notes,
		Type:     models.SessionType(c.Type),
	})

	updated, _ := ctx.Habits.Habit(h.ID)
	fmt.Printf("Logged %d min on %s (total %d min)\n", c.Minutes, h.Name, updated.TimeTracking.TotalTime)
	if target := updated.TimeTracking.Target.Daily; target > 0 {
		fmt.Printf("Today: %d/%d min\n", minutesOn(updated, utils.DateKey(ctx.Habits.Today())), target)
	}
	return nil
}

func minutesOn(h models.Habit, day string) int {
	if h.TimeTracking == nil {
		return 0
	}
	total := 0
	for _, s := range h.TimeTracking.Sessions {
		if s.Date == day {
			total += s.Duration
		}
	}
	return total
}

func label(h models.Habit) string {
	if h.Emoji == "" {
		return h.Name
	}
	return h.Emoji + " " + h.Name
}
