package billing

import (
	"fmt"
	"os"
	"strings"

	"github.com/julianstephens/streakline/internal/cli"
	"github.com/julianstephens/streakline/internal/constants"
	"github.com/julianstephens/streakline/internal/invoice"
	"github.com/julianstephens/streakline/internal/store"
)

type BillingCmd struct {
	Status  BillingStatusCmd  `cmd:"" help:"Show plan, subscription and usage." default:"1"`
	Upgrade BillingUpgradeCmd `cmd:"" help:"Upgrade to Streakline Pro."`
	Cancel  BillingCancelCmd  `cmd:"" help:"Cancel the subscription at the end of the period."`
	Pay     BillingPayCmd     `cmd:"" help:"Record a payment for the current plan."`
	History BillingHistoryCmd `cmd:"" help:"List payment history."`
	Invoice BillingInvoiceCmd `cmd:"" help:"Print an invoice."`
}

type BillingStatusCmd struct{}

func (c *BillingStatusCmd) Run(ctx *cli.Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}

	sub := ctx.Billing.Subscription()
	limits := ctx.Billing.UsageLimits().Habits

	fmt.Println("Subscription:")
	fmt.Printf("  Plan:    %s (%s)\n", sub.Plan, sub.PlanType)
	fmt.Printf("  Status:  %s\n", sub.Status)
	if sub.CurrentPeriodEnd != nil {
		verb := "Renews"
		if sub.CancelAtPeriodEnd {
			verb = "Ends"
		}
		fmt.Printf("  %s:  %s\n", verb, sub.CurrentPeriodEnd.In(ctx.Location).Format(constants.DateFormat))
	}

	fmt.Println("\nUsage:")
	if ctx.Billing.IsPro() {
		fmt.Printf("  Habits:  %d (unlimited)\n", limits.Used)
	} else {
		fmt.Printf("  Habits:  %d/%d\n", limits.Used, limits.Total)
		if !ctx.Billing.CanAddHabit() {
			fmt.Println("  Habit limit reached.")
		}
		fmt.Printf("\n%s: unlimited habits for %s/month or %s/year.\n",
			constants.PlanNamePro,
			invoice.FormatAmount(store.PlanPrice(constants.PlanTypeMonthly)),
			invoice.FormatAmount(store.PlanPrice(constants.PlanTypeYearly)),
		)
		fmt.Println("Run 'streakline billing upgrade' to upgrade.")
	}
	return nil
}

type BillingUpgradeCmd struct {
	Plan string `help:"Billing period (monthly|yearly)." enum:"monthly,yearly" default:"monthly"`
}

func (c *BillingUpgradeCmd) Run(ctx *cli.Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}

	sub := ctx.Billing.Subscription()
	if sub.Plan == constants.PlanPro && sub.Status == constants.SubscriptionActive && sub.PlanType == c.Plan {
		fmt.Printf("Already on %s (%s).\n", constants.PlanNamePro, c.Plan)
		return nil
	}

	ctx.Billing.UpgradeSubscription(c.Plan)
	payment := ctx.Billing.AddPaymentHistory(constants.PaymentPaid)

	fmt.Printf("✓ Upgraded to %s (%s)\n", constants.PlanNamePro, c.Plan)
	fmt.Printf("  Charged %s, invoice %s\n", invoice.FormatAmount(payment.Amount), payment.Invoice)
	return nil
}

type BillingCancelCmd struct{}

func (c *BillingCancelCmd) Run(ctx *cli.Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}

	sub := ctx.Billing.Subscription()
	if sub.Plan != constants.PlanPro || sub.Status != constants.SubscriptionActive {
		return fmt.Errorf("no active subscription to cancel")
	}

	ctx.Billing.CancelSubscription()
	fmt.Println("Subscription canceled.")
	if sub.CurrentPeriodEnd != nil {
		fmt.Printf("Pro features stay available until %s.\n", sub.CurrentPeriodEnd.In(ctx.Location).Format(constants.DateFormat))
	}
	return nil
}

type BillingPayCmd struct {
	Status string `help:"Payment status (paid|pending|failed|refunded)." enum:"paid,pending,failed,refunded" default:"paid"`
}

func (c *BillingPayCmd) Run(ctx *cli.Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}

	p := ctx.Billing.AddPaymentHistory(c.Status)
	fmt.Printf("Recorded %s payment of %s (%s)\n", p.Status, invoice.FormatAmount(p.Amount), p.Invoice)
	return nil
}

type BillingHistoryCmd struct {
	Limit int `help:"Show at most this many payments (0 for all)." default:"0"`
}

func (c *BillingHistoryCmd) Run(ctx *cli.Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}

	history := ctx.Billing.PaymentHistory()
	if len(history) == 0 {
		fmt.Println("No payments found.")
		return nil
	}
	if c.Limit > 0 && c.Limit < len(history) {
		history = history[:c.Limit]
	}

	for _, p := range history {
		fmt.Printf("  %s  %-22s %-8s %8s  %s\n",
			p.Date.In(ctx.Location).Format(constants.DateFormat),
			p.Invoice,
			p.PlanType,
			invoice.FormatAmount(p.Amount),
			strings.ToUpper(p.Status),
		)
	}
	return nil
}

type BillingInvoiceCmd struct {
	Ref   string `arg:"" optional:"" help:"Invoice number or payment ID (default: latest payment)."`
	Plain bool   `help:"Print without box and colors."`
}

func (c *BillingInvoiceCmd) Run(ctx *cli.Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}

	history := ctx.Billing.PaymentHistory()
	if len(history) == 0 {
		return fmt.Errorf("no payments found")
	}

	payment := history[0]
	if c.Ref != "" {
		p, ok := ctx.Billing.Payment(c.Ref)
		if !ok {
			return fmt.Errorf("invoice %q not found", c.Ref)
		}
		payment = p
	}

	var f invoice.Formatter = invoice.TextFormatter{Plain: c.Plain}
	return f.Format(os.Stdout, invoice.FromPayment(payment))
}
