package store

import "github.com/julianstephens/streakline/internal/models"

// Link keeps billing's habits.used equal to the number of habits in habits,
// archived ones included. The count is pushed once immediately and again
// after any habit mutation that leaves it different from the billing
// record. Call the returned function to unlink.
func Link(habits *HabitStore, billing *BillingStore) func() {
	push := func(st models.HabitState) {
		if billing.UsageLimits().Habits.Used != len(st.Habits) {
			billing.UpdateUsageLimits(len(st.Habits))
		}
	}
	push(habits.Snapshot())
	return habits.Subscribe(push)
}
