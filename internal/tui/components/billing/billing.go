package billing

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/streakline/internal/constants"
	"github.com/julianstephens/streakline/internal/invoice"
	"github.com/julianstephens/streakline/internal/models"
)

// recentPayments is how many payments the billing view lists.
const recentPayments = 5

type UpgradeMsg struct {
	PlanType string
}

type CancelMsg struct{}

var (
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	proStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	fullStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

type KeyMap struct {
	Monthly key.Binding
	Yearly  key.Binding
	Cancel  key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Monthly: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "upgrade monthly"),
		),
		Yearly: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "upgrade yearly"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "cancel plan"),
		),
	}
}

// State is everything the billing view shows.
type State struct {
	Subscription models.SubscriptionDetails
	Usage        models.UsageLimits
	Payments     []models.PaymentHistoryItem
	IsPro        bool
}

type Model struct {
	state State
	keys  KeyMap
}

func New(s State) Model {
	return Model{state: s, keys: DefaultKeyMap()}
}

func (m *Model) SetState(s State) {
	m.state = s
}

func (m Model) Keys() []key.Binding {
	return []key.Binding{m.keys.Monthly, m.keys.Yearly, m.keys.Cancel}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(km, m.keys.Monthly):
		return m, func() tea.Msg { return UpgradeMsg{PlanType: constants.PlanTypeMonthly} }
	case key.Matches(km, m.keys.Yearly):
		return m, func() tea.Msg { return UpgradeMsg{PlanType: constants.PlanTypeYearly} }
	case key.Matches(km, m.keys.Cancel):
		if m.state.IsPro && !m.state.Subscription.CancelAtPeriodEnd {
			return m, func() tea.Msg { return CancelMsg{} }
		}
	}
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder
	sub := m.state.Subscription

	b.WriteString(sectionStyle.Render("Plan"))
	b.WriteString("\n")
	if m.state.IsPro {
		fmt.Fprintf(&b, "  %s (%s)", proStyle.Render(constants.PlanNamePro), sub.PlanType)
		if sub.CurrentPeriodEnd != nil {
			verb := "renews"
			if sub.CancelAtPeriodEnd {
				verb = "ends"
			}
			fmt.Fprintf(&b, ", %s %s", verb, sub.CurrentPeriodEnd.Format("Jan 2, 2006"))
		}
		b.WriteString("\n")
	} else {
		b.WriteString("  Free\n")
	}

	limit := m.state.Usage.Habits
	b.WriteString("\n")
	b.WriteString(sectionStyle.Render("Usage"))
	b.WriteString("\n")
	switch {
	case m.state.IsPro || limit.Total <= 0:
		fmt.Fprintf(&b, "  Habits: %d (unlimited)\n", limit.Used)
	case limit.Used >= limit.Total:
		fmt.Fprintf(&b, "  Habits: %s\n", fullStyle.Render(fmt.Sprintf("%d/%d (limit reached)", limit.Used, limit.Total)))
	default:
		fmt.Fprintf(&b, "  Habits: %d/%d\n", limit.Used, limit.Total)
	}

	b.WriteString("\n")
	b.WriteString(sectionStyle.Render("Payments"))
	b.WriteString("\n")
	if len(m.state.Payments) == 0 {
		b.WriteString(mutedStyle.Render("  No payments yet."))
		b.WriteString("\n")
	}
	for i, p := range m.state.Payments {
		if i == recentPayments {
			b.WriteString(mutedStyle.Render(fmt.Sprintf("  ... %d more", len(m.state.Payments)-recentPayments)))
			b.WriteString("\n")
			break
		}
		fmt.Fprintf(&b, "  %s  %-20s  %8s  %s\n", p.Date.Format("2006-01-02"), p.Invoice, invoice.FormatAmount(p.Amount), p.Status)
	}
	return b.String()
}
