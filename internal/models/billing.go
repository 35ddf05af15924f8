package models

import "time"

// Limit is a used/total pair for one metered resource.
type Limit struct {
	Used  int `json:"used"`
	Total int `json:"total"`
}

type UsageLimits struct {
	Habits Limit `json:"habits"`
}

type SubscriptionDetails struct {
	Plan               string     `json:"plan"`
	PlanType           string     `json:"plan_type"`
	Status             string     `json:"status"`
	CurrentPeriodStart *time.Time `json:"current_period_start,omitempty"`
	CurrentPeriodEnd   *time.Time `json:"current_period_end,omitempty"`
	CancelAtPeriodEnd  bool       `json:"cancel_at_period_end"`
}

// PaymentHistoryItem is an immutable log record.
type PaymentHistoryItem struct {
	ID       string    `json:"id"`
	Date     time.Time `json:"date"`
	Amount   float64   `json:"amount"`
	Status   string    `json:"status"`
	Invoice  string    `json:"invoice"`
	PlanName string    `json:"plan_name"`
	PlanType string    `json:"plan_type"`
}

// BillingState is the persisted snapshot of the billing store.
type BillingState struct {
	Subscription   SubscriptionDetails  `json:"subscription"`
	PaymentHistory []PaymentHistoryItem `json:"payment_history"` // newest first
	UsageLimits    UsageLimits          `json:"usage_limits"`
}
