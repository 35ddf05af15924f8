package store

import (
	"regexp"
	"testing"
	"time"

	"github.com/julianstephens/streakline/internal/constants"
	"github.com/julianstephens/streakline/internal/models"
)

func newTestBillingStore(t *testing.T, opts ...Option) *BillingStore {
	t.Helper()
	return NewBillingStore(append(testOptions(), opts...)...)
}

func TestNewBillingStoreDefaults(t *testing.T) {
	b := newTestBillingStore(t, WithHabitLimit(4))

	sub := b.Subscription()
	if sub.Plan != constants.PlanFree || sub.Status != constants.SubscriptionInactive {
		t.Errorf("Subscription() = %+v, want free/inactive", sub)
	}
	if got := b.UsageLimits().Habits; got.Used != 0 || got.Total != 4 {
		t.Errorf("UsageLimits() = %+v, want {0 4}", got)
	}
	if len(b.PaymentHistory()) != 0 {
		t.Error("new store should have no payments")
	}
	if b.IsPro() {
		t.Error("IsPro() = true for a free plan")
	}
}

func TestUpdateUsageLimits(t *testing.T) {
	b := newTestBillingStore(t)

	notified := 0
	b.Subscribe(func(models.BillingState) { notified++ })

	b.UpdateUsageLimits(3)
	b.UpdateUsageLimits(3)

	if got := b.UsageLimits().Habits; got.Used != 3 || got.Total != constants.DefaultHabitLimit {
		t.Errorf("UsageLimits() = %+v", got)
	}
	if notified != 1 {
		t.Errorf("notified %d times, want 1 for an idempotent update", notified)
	}
}

func TestCanAddHabit(t *testing.T) {
	tests := []struct {
		name    string
		used    int
		total   int
		upgrade bool
		want    bool
	}{
		{name: "room left", used: 2, total: 6, want: true},
		{name: "at limit", used: 6, total: 6, want: false},
		{name: "over limit", used: 8, total: 6, want: false},
		{name: "unlimited total", used: 50, total: 0, want: true},
		{name: "pro plan", used: 6, total: 6, upgrade: true, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newTestBillingStore(t)
			b.SetHabitLimit(tt.total)
			b.UpdateUsageLimits(tt.used)
			if tt.upgrade {
				b.UpgradeSubscription(constants.PlanTypeMonthly)
			}
			if got := b.CanAddHabit(); got != tt.want {
				t.Errorf("CanAddHabit() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUpgradeSubscription(t *testing.T) {
	tests := []struct {
		planType string
		wantType string
		wantEnd  time.Time
	}{
		{constants.PlanTypeMonthly, constants.PlanTypeMonthly, fixedNow.AddDate(0, 1, 0)},
		{constants.PlanTypeYearly, constants.PlanTypeYearly, fixedNow.AddDate(1, 0, 0)},
		{"weekly", constants.PlanTypeMonthly, fixedNow.AddDate(0, 1, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.planType, func(t *testing.T) {
			b := newTestBillingStore(t)
			b.UpdateUsageLimits(2)
			b.UpgradeSubscription(tt.planType)

			sub := b.Subscription()
			if sub.Plan != constants.PlanPro || sub.Status != constants.SubscriptionActive {
				t.Errorf("Subscription() = %+v, want pro/active", sub)
			}
			if sub.PlanType != tt.wantType {
				t.Errorf("PlanType = %q, want %q", sub.PlanType, tt.wantType)
			}
			if sub.CurrentPeriodStart == nil || !sub.CurrentPeriodStart.Equal(fixedNow) {
				t.Errorf("CurrentPeriodStart = %v, want %v", sub.CurrentPeriodStart, fixedNow)
			}
			if sub.CurrentPeriodEnd == nil || !sub.CurrentPeriodEnd.Equal(tt.wantEnd) {
				t.Errorf("CurrentPeriodEnd = %v, want %v", sub.CurrentPeriodEnd, tt.wantEnd)
			}
			if got := b.UsageLimits().Habits; got.Used != 2 || got.Total != constants.DefaultHabitLimit {
				t.Errorf("upgrade changed usage limits: %+v", got)
			}
			if !b.IsPro() {
				t.Error("IsPro() = false after upgrade")
			}
		})
	}
}

func TestCancelSubscription(t *testing.T) {
	now := fixedNow
	b := NewBillingStore(
		WithClock(func() time.Time { return now }),
		WithLocation(time.UTC),
		WithIDGenerator(sequentialIDs()),
	)
	b.UpgradeSubscription(constants.PlanTypeMonthly)
	b.CancelSubscription()

	sub := b.Subscription()
	if sub.Status != constants.SubscriptionCanceled || !sub.CancelAtPeriodEnd {
		t.Errorf("Subscription() = %+v, want canceled at period end", sub)
	}
	if !b.IsPro() {
		t.Error("canceled subscription should stay pro until the period ends")
	}

	now = fixedNow.AddDate(0, 2, 0)
	if b.IsPro() {
		t.Error("IsPro() = true after the period ended")
	}
}

func TestAddPaymentHistoryNewestFirst(t *testing.T) {
	b := newTestBillingStore(t)
	b.UpgradeSubscription(constants.PlanTypeYearly)

	statuses := []string{constants.PaymentPaid, constants.PaymentPending, "", constants.PaymentFailed}
	for _, st := range statuses {
		b.AddPaymentHistory(st)
	}

	history := b.PaymentHistory()
	if len(history) != len(statuses) {
		t.Fatalf("len(PaymentHistory()) = %d, want %d", len(history), len(statuses))
	}
	if history[0].Status != constants.PaymentFailed || history[len(history)-1].Status != constants.PaymentPaid {
		t.Errorf("history not newest-first: %+v", history)
	}
	if history[1].Status != constants.PaymentPaid {
		t.Errorf("empty status should default to paid, got %q", history[1].Status)
	}
	for _, p := range history {
		if p.Amount != constants.PriceYearly || p.PlanType != constants.PlanTypeYearly {
			t.Errorf("payment %s priced %v/%s, want yearly", p.ID, p.Amount, p.PlanType)
		}
	}
}

func TestPaymentOnFreePlan(t *testing.T) {
	b := newTestBillingStore(t)

	free := b.AddPaymentHistory(constants.PaymentFailed)
	if free.PlanName != constants.PlanNameFree || free.Amount != 0 {
		t.Errorf("free-plan payment = %s %v, want %s 0", free.PlanName, free.Amount, constants.PlanNameFree)
	}

	b.UpgradeSubscription(constants.PlanTypeMonthly)
	pro := b.AddPaymentHistory("")
	if pro.PlanName != constants.PlanNamePro || pro.Amount != constants.PriceMonthly {
		t.Errorf("pro payment = %s %v, want %s %v", pro.PlanName, pro.Amount, constants.PlanNamePro, constants.PriceMonthly)
	}
}

func TestInvoiceNumberFormat(t *testing.T) {
	b := NewBillingStore(
		WithClock(func() time.Time { return fixedNow }),
		WithIDGenerator(func() string { return "a1b2c3d4-e5f6-0000-0000-000000000000" }),
	)
	item := b.AddPaymentHistory("")

	if item.Invoice != "INV-20261018-A1B2C3" {
		t.Errorf("Invoice = %q, want INV-20261018-A1B2C3", item.Invoice)
	}

	// Real ids come from uuid.New.
	b = NewBillingStore(WithClock(func() time.Time { return fixedNow }))
	item = b.AddPaymentHistory("")
	if !regexp.MustCompile(`^INV-20261018-[0-9A-F]{6}$`).MatchString(item.Invoice) {
		t.Errorf("Invoice = %q does not match INV-YYYYMMDD-XXXXXX", item.Invoice)
	}

	got, ok := b.Payment(item.Invoice)
	if !ok || got.ID != item.ID {
		t.Errorf("Payment(%q) = %+v, %v", item.Invoice, got, ok)
	}
	if _, ok := b.Payment("INV-missing"); ok {
		t.Error("Payment() found a missing invoice")
	}
}

func TestBillingSnapshotIsolated(t *testing.T) {
	b := newTestBillingStore(t)
	b.UpgradeSubscription(constants.PlanTypeMonthly)

	snap := b.Snapshot()
	*snap.Subscription.CurrentPeriodEnd = time.Time{}

	if end := b.Subscription().CurrentPeriodEnd; end == nil || end.IsZero() {
		t.Error("store state leaked through snapshot")
	}
}
