package store

import (
	"fmt"
	"strings"
	"sync"

	"github.com/julianstephens/streakline/internal/constants"
	"github.com/julianstephens/streakline/internal/models"
)

// BillingStore owns subscription state, payment history and the usage
// record. habits.used is derived from the habit store through Link and is
// never set by callers directly.
type BillingStore struct {
	cfg   config
	mu    sync.RWMutex
	state models.BillingState
	subs  observers[models.BillingState]
}

func NewBillingStore(opts ...Option) *BillingStore {
	cfg := newConfig(opts)
	return &BillingStore{
		cfg: cfg,
		state: models.BillingState{
			Subscription: models.SubscriptionDetails{
				Plan:     constants.PlanFree,
				PlanType: constants.PlanTypeMonthly,
				Status:   constants.SubscriptionInactive,
			},
			PaymentHistory: []models.PaymentHistoryItem{},
			UsageLimits: models.UsageLimits{
				Habits: models.Limit{Total: cfg.habitLimit},
			},
		},
	}
}

// Subscribe registers fn to receive every post-mutation snapshot.
func (s *BillingStore) Subscribe(fn func(models.BillingState)) func() {
	return s.subs.add(fn)
}

func (s *BillingStore) update(fn func(st *models.BillingState) bool) {
	s.mu.Lock()
	next := cloneBillingState(s.state)
	if !fn(&next) {
		s.mu.Unlock()
		return
	}
	s.state = next
	snapshot := cloneBillingState(next)
	s.mu.Unlock()

	s.subs.notify(snapshot)
}

func (s *BillingStore) Snapshot() models.BillingState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneBillingState(s.state)
}

func (s *BillingStore) Restore(state models.BillingState) {
	s.update(func(st *models.BillingState) bool {
		*st = cloneBillingState(state)
		if st.PaymentHistory == nil {
			st.PaymentHistory = []models.PaymentHistoryItem{}
		}
		return true
	})
}

func (s *BillingStore) Subscription() models.SubscriptionDetails {
	return s.Snapshot().Subscription
}

func (s *BillingStore) UsageLimits() models.UsageLimits {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.UsageLimits
}

// PaymentHistory returns the payment log, newest first.
func (s *BillingStore) PaymentHistory() []models.PaymentHistoryItem {
	return s.Snapshot().PaymentHistory
}

// Payment looks up a history entry by id or invoice number.
func (s *BillingStore) Payment(ref string) (models.PaymentHistoryItem, bool) {
	for _, p := range s.PaymentHistory() {
		if p.ID == ref || p.Invoice == ref {
			return p, true
		}
	}
	return models.PaymentHistoryItem{}, false
}

// UpdateUsageLimits overwrites habits.used, leaving the total untouched.
func (s *BillingStore) UpdateUsageLimits(habitsCount int) {
	s.update(func(st *models.BillingState) bool {
		if st.UsageLimits.Habits.Used == habitsCount {
			return false
		}
		st.UsageLimits.Habits.Used = habitsCount
		return true
	})
	log.Debug("Updated usage limits", "habits_used", habitsCount)
}

// SetHabitLimit sets the plan ceiling for habits.
func (s *BillingStore) SetHabitLimit(total int) {
	s.update(func(st *models.BillingState) bool {
		if st.UsageLimits.Habits.Total == total {
			return false
		}
		st.UsageLimits.Habits.Total = total
		return true
	})
}

// CanAddHabit reports whether the usage record has room for another habit.
// Pro plans and a non-positive total are unlimited. This is advisory; the
// habit store never enforces it.
func (s *BillingStore) CanAddHabit() bool {
	if s.IsPro() {
		return true
	}
	limits := s.UsageLimits()
	return limits.Habits.Total <= 0 || limits.Habits.Used < limits.Habits.Total
}

// UpgradeSubscription activates the pro plan for a new billing period of
// the given plan type (monthly when unrecognized).
func (s *BillingStore) UpgradeSubscription(planType string) {
	if planType != constants.PlanTypeYearly {
		planType = constants.PlanTypeMonthly
	}
	now := s.cfg.now()
	end := now.AddDate(0, 1, 0)
	if planType == constants.PlanTypeYearly {
		end = now.AddDate(1, 0, 0)
	}

	s.update(func(st *models.BillingState) bool {
		st.Subscription = models.SubscriptionDetails{
			Plan:               constants.PlanPro,
			PlanType:           planType,
			Status:             constants.SubscriptionActive,
			CurrentPeriodStart: &now,
			CurrentPeriodEnd:   &end,
			CancelAtPeriodEnd:  false,
		}
		return true
	})
	log.Info("Upgraded subscription", "plan_type", planType, "period_end", end)
}

// CancelSubscription marks the subscription canceled at the end of the
// current period.
func (s *BillingStore) CancelSubscription() {
	s.update(func(st *models.BillingState) bool {
		st.Subscription.Status = constants.SubscriptionCanceled
		st.Subscription.CancelAtPeriodEnd = true
		return true
	})
	log.Info("Canceled subscription")
}

// IsPro reports whether pro features are available right now. A canceled
// subscription stays pro until its period ends.
func (s *BillingStore) IsPro() bool {
	sub := s.Subscription()
	if sub.Plan != constants.PlanPro {
		return false
	}
	switch sub.Status {
	case constants.SubscriptionActive:
		return true
	case constants.SubscriptionCanceled:
		return sub.CurrentPeriodEnd != nil && s.cfg.now().Before(*sub.CurrentPeriodEnd)
	}
	return false
}

// AddPaymentHistory prepends a generated payment record for the current plan
// and returns it. An empty status records a paid payment. A record made on
// the free plan carries the free plan name and a zero amount.
func (s *BillingStore) AddPaymentHistory(status string) models.PaymentHistoryItem {
	if status == "" {
		status = constants.PaymentPaid
	}
	id := s.cfg.newID()
	now := s.cfg.now()

	var item models.PaymentHistoryItem
	s.update(func(st *models.BillingState) bool {
		item = models.PaymentHistoryItem{
			ID:       id,
			Date:     now,
			Amount:   subscriptionPrice(st.Subscription),
			Status:   status,
			Invoice:  invoiceNumber(now.Format("20060102"), id),
			PlanName: PlanName(st.Subscription.Plan),
			PlanType: st.Subscription.PlanType,
		}
		st.PaymentHistory = append([]models.PaymentHistoryItem{item}, st.PaymentHistory...)
		return true
	})
	log.Debug("Recorded payment", "invoice", item.Invoice, "amount", item.Amount)
	return item
}

// PlanName returns the display name of plan.
func PlanName(plan string) string {
	if plan == constants.PlanPro {
		return constants.PlanNamePro
	}
	return constants.PlanNameFree
}

func subscriptionPrice(sub models.SubscriptionDetails) float64 {
	if sub.Plan != constants.PlanPro {
		return 0
	}
	return PlanPrice(sub.PlanType)
}

// PlanPrice returns the price of one pro billing period.
func PlanPrice(planType string) float64 {
	if planType == constants.PlanTypeYearly {
		return constants.PriceYearly
	}
	return constants.PriceMonthly
}

func invoiceNumber(day, id string) string {
	suffix := strings.ToUpper(strings.ReplaceAll(id, "-", ""))
	if len(suffix) > 6 {
		suffix = suffix[:6]
	}
	return fmt.Sprintf("%s-%s-%s", constants.InvoicePrefix, day, suffix)
}

func cloneBillingState(st models.BillingState) models.BillingState {
	out := st
	if st.PaymentHistory != nil {
		out.PaymentHistory = append([]models.PaymentHistoryItem{}, st.PaymentHistory...)
	}
	if st.Subscription.CurrentPeriodStart != nil {
		t := *st.Subscription.CurrentPeriodStart
		out.Subscription.CurrentPeriodStart = &t
	}
	if st.Subscription.CurrentPeriodEnd != nil {
		t := *st.Subscription.CurrentPeriodEnd
		out.Subscription.CurrentPeriodEnd = &t
	}
	return out
}
