package store

import (
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/streakline/internal/constants"
	"github.com/julianstephens/streakline/internal/streak"
)

type config struct {
	now          func() time.Time
	loc          *time.Location
	engine       streak.Engine
	calendarDays int
	habitLimit   int
	newID        func() string
}

func defaultConfig() config {
	return config{
		now:          time.Now,
		loc:          time.Local,
		engine:       streak.New(constants.DefaultLookbackDays),
		calendarDays: constants.DefaultCalendarDays,
		habitLimit:   constants.DefaultHabitLimit,
		newID:        func() string { return uuid.New().String() },
	}
}

// Option configures a HabitStore or BillingStore.
type Option func(*config)

// WithClock replaces the wall clock used to anchor "today".
func WithClock(now func() time.Time) Option {
	return func(c *config) {
		if now != nil {
			c.now = now
		}
	}
}

// WithLocation sets the timezone in which calendar days are evaluated.
func WithLocation(loc *time.Location) Option {
	return func(c *config) {
		if loc != nil {
			c.loc = loc
		}
	}
}

func WithEngine(e streak.Engine) Option {
	return func(c *config) { c.engine = e }
}

// WithCalendarDays sets the length of the calendar strip; the initial start
// date is chosen so the strip ends today.
func WithCalendarDays(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.calendarDays = n
		}
	}
}

// WithHabitLimit sets the initial usage ceiling of a new billing state.
func WithHabitLimit(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.habitLimit = n
		}
	}
}

// WithIDGenerator replaces uuid generation, mainly for tests.
func WithIDGenerator(fn func() string) Option {
	return func(c *config) {
		if fn != nil {
			c.newID = fn
		}
	}
}

func newConfig(opts []Option) config {
	c := defaultConfig()
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

func (c config) today() time.Time {
	t := c.now().In(c.loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, c.loc)
}
