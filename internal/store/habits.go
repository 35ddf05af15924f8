package store

import (
	"sort"
	"sync"
	"time"

	"github.com/julianstephens/streakline/internal/constants"
	"github.com/julianstephens/streakline/internal/models"
	"github.com/julianstephens/streakline/internal/utils"
)

// HabitStore owns the habit collection and its derived aggregates. Every
// mutation replaces the whole state and then notifies subscribers with a
// snapshot. Operations addressing an unknown id are silent no-ops.
type HabitStore struct {
	cfg   config
	mu    sync.RWMutex
	state models.HabitState
	subs  observers[models.HabitState]
}

func NewHabitStore(opts ...Option) *HabitStore {
	cfg := newConfig(opts)
	return &HabitStore{
		cfg: cfg,
		state: models.HabitState{
			Habits:        []models.Habit{},
			StartDate:     defaultStartDate(cfg),
			StreakHistory: []models.StreakPoint{},
		},
	}
}

// Subscribe registers fn to receive every post-mutation snapshot. Snapshots
// are shared between subscribers and must not be modified. The returned
// function cancels the subscription.
func (s *HabitStore) Subscribe(fn func(models.HabitState)) func() {
	return s.subs.add(fn)
}

// update applies fn to a private copy of the state. When fn reports a
// change, the copy becomes the new state and subscribers are notified.
func (s *HabitStore) update(fn func(st *models.HabitState) bool) {
	s.mu.Lock()
	next := cloneHabitState(s.state)
	if !fn(&next) {
		s.mu.Unlock()
		return
	}
	s.state = next
	snapshot := cloneHabitState(next)
	s.mu.Unlock()

	s.subs.notify(snapshot)
}

// Today returns midnight of the current day in the store's location.
func (s *HabitStore) Today() time.Time {
	return s.cfg.today()
}

// Snapshot returns a copy of the full state.
func (s *HabitStore) Snapshot() models.HabitState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneHabitState(s.state)
}

// Restore replaces the whole state, e.g. with a persisted snapshot.
// Completion dates are sorted and deduplicated and the streak history is
// trimmed to its limit. Cached streaks are kept as stored.
func (s *HabitStore) Restore(state models.HabitState) {
	s.update(func(st *models.HabitState) bool {
		*st = cloneHabitState(state)
		if st.Habits == nil {
			st.Habits = []models.Habit{}
		}
		for i := range st.Habits {
			st.Habits[i].CompletedDates = normalizeDates(st.Habits[i].CompletedDates)
		}
		if st.StreakHistory == nil {
			st.StreakHistory = []models.StreakPoint{}
		}
		if n := len(st.StreakHistory); n > constants.StreakHistoryLimit {
			st.StreakHistory = st.StreakHistory[n-constants.StreakHistoryLimit:]
		}
		if st.StartDate == "" {
			st.StartDate = defaultStartDate(s.cfg)
		}
		return true
	})
}

// Habits returns all habits, archived included.
func (s *HabitStore) Habits() []models.Habit {
	return s.Snapshot().Habits
}

// ActiveHabits returns the habits that are not archived.
func (s *HabitStore) ActiveHabits() []models.Habit {
	var active []models.Habit
	for _, h := range s.Habits() {
		if !h.IsArchived {
			active = append(active, h)
		}
	}
	return active
}

// Len returns the number of habits, archived included.
func (s *HabitStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.state.Habits)
}

func (s *HabitStore) Habit(id string) (models.Habit, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := indexOf(s.state.Habits, id); i >= 0 {
		return cloneHabit(s.state.Habits[i]), true
	}
	return models.Habit{}, false
}

// FindByName returns the first habit with the given name.
func (s *HabitStore) FindByName(name string) (models.Habit, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, h := range s.state.Habits {
		if h.Name == name {
			return cloneHabit(h), true
		}
	}
	return models.Habit{}, false
}

// AddHabit appends a new habit built from the caller's descriptive fields and
// returns it. Completion state starts empty. The plan usage limit is not
// checked here.
func (s *HabitStore) AddHabit(h models.Habit) models.Habit {
	if h.ID == "" {
		h.ID = s.cfg.newID()
	}
	if h.CreatedAt.IsZero() {
		h.CreatedAt = s.cfg.now()
	}
	if !h.Frequency.Valid() {
		h.Frequency = models.FrequencyDaily
	}
	h.CompletedDates = []string{}
	h.Streak = 0
	h.BestStreak = 0
	h = cloneHabit(h)

	s.update(func(st *models.HabitState) bool {
		st.Habits = append(st.Habits, h)
		return true
	})
	log.Debug("Added habit", "id", h.ID, "name", h.Name, "frequency", h.Frequency)
	return cloneHabit(h)
}

// RemoveHabit deletes the habit with the given id.
func (s *HabitStore) RemoveHabit(id string) {
	s.update(func(st *models.HabitState) bool {
		i := indexOf(st.Habits, id)
		if i < 0 {
			return false
		}
		st.Habits = append(st.Habits[:i:i], st.Habits[i+1:]...)
		log.Debug("Removed habit", "id", id)
		return true
	})
}

// DeleteHabit is an alias of RemoveHabit.
func (s *HabitStore) DeleteHabit(id string) {
	s.RemoveHabit(id)
}

// EditHabit shallow-merges the non-nil patch fields into the habit.
func (s *HabitStore) EditHabit(id string, patch models.HabitPatch) {
	s.modify(id, func(h *models.Habit) {
		if patch.Name != nil {
			h.Name = *patch.Name
		}
		if patch.Color != nil {
			h.Color = *patch.Color
		}
		if patch.Emoji != nil {
			h.Emoji = *patch.Emoji
		}
		if patch.Target != nil {
			ensureTimeTracking(h)
			h.TimeTracking.Target = *patch.Target
		}
	})
}

// ArchiveHabit flips the archived flag.
func (s *HabitStore) ArchiveHabit(id string) {
	s.modify(id, func(h *models.Habit) {
		h.IsArchived = !h.IsArchived
	})
}

// ChangeHabitFrequency sets the frequency. The cached streak is left as-is
// until the next completion toggle recomputes it.
func (s *HabitStore) ChangeHabitFrequency(id string, frequency models.Frequency) {
	if !frequency.Valid() {
		return
	}
	s.modify(id, func(h *models.Habit) {
		h.Frequency = frequency
	})
}

// ToggleHabitCompletion adds or removes the completion for date's calendar
// day, then recomputes the habit's streak anchored at today (not at date)
// along with the store-wide streak aggregates. date is interpreted as an
// instant in the store's location, so a UTC midnight from time.Parse lands
// on the previous day when the location is west of UTC; use
// utils.ParseDateInLocation to key by calendar date.
func (s *HabitStore) ToggleHabitCompletion(id string, date time.Time) {
	dateKey := utils.DateKey(date.In(s.cfg.loc))
	today := s.cfg.today()

	s.update(func(st *models.HabitState) bool {
		i := indexOf(st.Habits, id)
		if i < 0 {
			return false
		}

		h := st.Habits[i]
		h.CompletedDates = toggleDate(h.CompletedDates, dateKey)
		h = s.cfg.engine.Recompute(h, today)
		st.Habits[i] = h

		st.StreakHistory = appendStreakPoint(st.StreakHistory, models.StreakPoint{
			Date:    utils.DateKey(today),
			Average: averageStreak(st.Habits),
		})
		st.BestStreak = bestStreak(st.Habits)

		log.Debug("Toggled habit completion", "id", id, "date", dateKey, "streak", h.Streak, "best", h.BestStreak)
		return true
	})
}

// AdjustDates moves the calendar anchor by deltaDays. Completion data is
// untouched.
func (s *HabitStore) AdjustDates(deltaDays int) {
	if deltaDays == 0 {
		return
	}
	s.update(func(st *models.HabitState) bool {
		start, err := utils.ParseDateInLocation(st.StartDate, s.cfg.loc)
		if err != nil {
			start = s.cfg.today()
		}
		st.StartDate = utils.DateKey(start.AddDate(0, 0, deltaDays))
		return true
	})
}

// StartDate returns the calendar anchor.
func (s *HabitStore) StartDate() time.Time {
	s.mu.RLock()
	key := s.state.StartDate
	s.mu.RUnlock()

	start, err := utils.ParseDateInLocation(key, s.cfg.loc)
	if err != nil {
		return s.cfg.today()
	}
	return start
}

// CalendarDates returns count days of the calendar strip from the anchor.
func (s *HabitStore) CalendarDates(count int) []time.Time {
	return utils.DatesInRange(s.StartDate(), count)
}

// CalculateProgress returns 100 when h is completed today and 0 otherwise.
func (s *HabitStore) CalculateProgress(h models.Habit) int {
	if h.IsCompleted(utils.DateKey(s.cfg.today())) {
		return 100
	}
	return 0
}

// LogTimeSession records a time-tracking session and adds its duration to
// the habit's total. Non-positive durations are ignored.
func (s *HabitStore) LogTimeSession(id string, session models.TimeSession) {
	if session.Duration <= 0 {
		return
	}
	if session.Date == "" {
		session.Date = utils.DateKey(s.cfg.today())
	}
	if session.Type == "" {
		session.Type = models.SessionManual
	}
	s.modify(id, func(h *models.Habit) {
		ensureTimeTracking(h)
		h.TimeTracking.Sessions = append(h.TimeTracking.Sessions, session)
		h.TimeTracking.TotalTime += session.Duration
	})
}

func (s *HabitStore) modify(id string, fn func(h *models.Habit)) {
	s.update(func(st *models.HabitState) bool {
		i := indexOf(st.Habits, id)
		if i < 0 {
			return false
		}
		fn(&st.Habits[i])
		return true
	})
}

// defaultStartDate anchors the calendar so the strip ends today.
func defaultStartDate(cfg config) string {
	return utils.DateKey(cfg.today().AddDate(0, 0, -(cfg.calendarDays - 1)))
}

func ensureTimeTracking(h *models.Habit) {
	if h.TimeTracking == nil {
		h.TimeTracking = &models.TimeTracking{
			Sessions:         []models.TimeSession{},
			PomodoroSettings: models.DefaultPomodoroSettings(),
		}
	}
}

func indexOf(habits []models.Habit, id string) int {
	for i, h := range habits {
		if h.ID == id {
			return i
		}
	}
	return -1
}

// toggleDate returns a sorted copy of dates with key added or removed.
// normalizeDates returns dates sorted with duplicates removed.
func normalizeDates(dates []string) []string {
	out := make([]string, 0, len(dates))
	out = append(out, dates...)
	sort.Strings(out)
	j := 0
	for i, d := range out {
		if i > 0 && d == out[j-1] {
			continue
		}
		out[j] = d
		j++
	}
	return out[:j]
}

func toggleDate(dates []string, key string) []string {
	out := make([]string, 0, len(dates)+1)
	found := false
	for _, d := range dates {
		if d == key {
			found = true
			continue
		}
		out = append(out, d)
	}
	if !found {
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}

func averageStreak(habits []models.Habit) float64 {
	if len(habits) == 0 {
		return 0
	}
	total := 0
	for _, h := range habits {
		total += h.Streak
	}
	return float64(total) / float64(len(habits))
}

func bestStreak(habits []models.Habit) int {
	best := 0
	for _, h := range habits {
		if h.BestStreak > best {
			best = h.BestStreak
		}
	}
	return best
}

func appendStreakPoint(history []models.StreakPoint, p models.StreakPoint) []models.StreakPoint {
	history = append(history, p)
	if n := len(history); n > constants.StreakHistoryLimit {
		history = history[n-constants.StreakHistoryLimit:]
	}
	return history
}

func cloneHabitState(st models.HabitState) models.HabitState {
	out := st
	if st.Habits != nil {
		out.Habits = make([]models.Habit, len(st.Habits))
		for i, h := range st.Habits {
			out.Habits[i] = cloneHabit(h)
		}
	}
	if st.StreakHistory != nil {
		out.StreakHistory = append([]models.StreakPoint(nil), st.StreakHistory...)
	}
	return out
}

func cloneHabit(h models.Habit) models.Habit {
	if h.CompletedDates != nil {
		h.CompletedDates = append([]string{}, h.CompletedDates...)
	}
	if h.TimeTracking != nil {
		tt := *h.TimeTracking
		if tt.Sessions != nil {
			tt.Sessions = append([]models.TimeSession{}, tt.Sessions...)
		}
		h.TimeTracking = &tt
	}
	return h
}
