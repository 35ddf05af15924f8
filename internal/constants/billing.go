package constants

const (
	PlanFree = "free"
	PlanPro  = "pro"

	PlanNameFree = "Streakline Free"
	PlanNamePro  = "Streakline Pro"

	PlanTypeMonthly = "monthly"
	PlanTypeYearly  = "yearly"

	// Prices in US dollars
	PriceMonthly = 4.99
	PriceYearly  = 49.99

	SubscriptionInactive = "inactive"
	SubscriptionActive   = "active"
	SubscriptionCanceled = "canceled"

	PaymentPaid     = "paid"
	PaymentPending  = "pending"
	PaymentFailed   = "failed"
	PaymentRefunded = "refunded"

	InvoicePrefix = "INV"
)
