package habits

import (
	"fmt"

	"github.com/julianstephens/streakline/internal/cli"
	"github.com/julianstephens/streakline/internal/models"
	"github.com/julianstephens/streakline/internal/tui/components/calendar"
	"github.com/julianstephens/streakline/internal/utils"
)

type CalendarCmd struct {
	Shift int  `help:"Move the calendar by this many days (negative goes back)." default:"0"`
	Reset bool `help:"Move the calendar back so it ends today."`
	Days  int  `help:"Number of days to show (default: calendar_days setting)."`
}

func (c *CalendarCmd) Run(ctx *cli.Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}

	days := c.Days
	if days <= 0 {
		days = ctx.Settings.CalendarDays
	}

	if c.Reset {
		target := ctx.Habits.Today().AddDate(0, 0, -(days - 1))
		ctx.Habits.AdjustDates(utils.DaysBetween(ctx.Habits.StartDate(), target))
	}
	ctx.Habits.AdjustDates(c.Shift)

	dates := ctx.Habits.CalendarDates(days)
	if len(dates) == 0 {
		return nil
	}
	fmt.Printf("%s\n\n", calendar.Range(dates))

	habits := ctx.Habits.ActiveHabits()
	if len(habits) == 0 {
		fmt.Println("No habits found.")
		return nil
	}
	fmt.Print(calendar.Grid(habits, dates, ctx.Habits.Today()))
	return nil
}

type StatsCmd struct {
	History int `help:"Number of streak history points to show." default:"7"`
}

func (c *StatsCmd) Run(ctx *cli.Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}

	st := ctx.Habits.Snapshot()
	active, archived, doneToday := 0, 0, 0
	todayKey := utils.DateKey(ctx.Habits.Today())
	var top *models.Habit
	for i, h := range st.Habits {
		if h.IsArchived {
			archived++
			continue
		}
		active++
		if h.IsCompleted(todayKey) {
			doneToday++
		}
		if top == nil || h.Streak > top.Streak {
			top = &st.Habits[i]
		}
	}

	limits := ctx.Billing.UsageLimits().Habits
	fmt.Println("Habit Statistics:")
	fmt.Printf("  Habits:             %d active, %d archived\n", active, archived)
	fmt.Printf("  Plan usage:         %d/%d\n", limits.Used, limits.Total)
	fmt.Printf("  Completed today:    %d/%d\n", doneToday, active)
	fmt.Printf("  Best streak ever:   %d\n", st.BestStreak)
	if top != nil && top.Streak > 0 {
		fmt.Printf("  Longest current:    %s (%d)\n", top.Name, top.Streak)
	}

	if n := len(st.StreakHistory); n > 0 && c.History > 0 {
		fmt.Println("\nAverage streak history:")
		for _, p := range st.StreakHistory[max(0, n-c.History):] {
			fmt.Printf("  %s  %.2f\n", p.Date, p.Average)
		}
	}
	return nil
}
