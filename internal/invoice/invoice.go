// Package invoice renders payment records as invoices. Renderers only see a
// plain Record, never the billing store.
package invoice

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/streakline/internal/constants"
	"github.com/julianstephens/streakline/internal/models"
)

type Record struct {
	ID       string
	Date     time.Time
	Invoice  string
	PlanType string
	PlanName string
	Amount   float64
	Status   string
}

func FromPayment(p models.PaymentHistoryItem) Record {
	return Record{
		ID:       p.ID,
		Date:     p.Date,
		Invoice:  p.Invoice,
		PlanType: p.PlanType,
		PlanName: p.PlanName,
		Amount:   p.Amount,
		Status:   p.Status,
	}
}

// Formatter writes a single invoice.
type Formatter interface {
	Format(w io.Writer, r Record) error
}

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Width(10)

	totalStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("252"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 2)
)

// TextFormatter renders an invoice as a boxed block of text. With Plain set
// the box and styling are left out.
type TextFormatter struct {
	Plain bool
}

func (f TextFormatter) Format(w io.Writer, r Record) error {
	if r.Invoice == "" {
		return fmt.Errorf("record %q has no invoice number", r.ID)
	}

	rows := [][2]string{
		{"Invoice", r.Invoice},
		{"Date", r.Date.Format(constants.DateFormat)},
		{"Plan", planLabel(r)},
		{"Status", strings.ToUpper(r.Status)},
	}

	var b strings.Builder
	if f.Plain {
		fmt.Fprintf(&b, "%s\n\n", invoiceTitle)
		for _, row := range rows {
			fmt.Fprintf(&b, "%-10s%s\n", row[0], row[1])
		}
		fmt.Fprintf(&b, "\n%-10s%s\n", "Total", FormatAmount(r.Amount))
		_, err := io.WriteString(w, b.String())
		return err
	}

	lines := []string{headerStyle.Render(invoiceTitle), ""}
	for _, row := range rows {
		lines = append(lines, labelStyle.Render(row[0])+row[1])
	}
	lines = append(lines, "", labelStyle.Render("Total")+totalStyle.Render(FormatAmount(r.Amount)))

	_, err := io.WriteString(w, boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))+"\n")
	return err
}

const invoiceTitle = "Streakline Invoice"

// FormatAmount renders a USD amount.
func FormatAmount(amount float64) string {
	return fmt.Sprintf("$%.2f", amount)
}

func planLabel(r Record) string {
	name := r.PlanName
	if name == "" {
		name = constants.PlanNamePro
	}
	if r.PlanType == "" {
		return name
	}
	return fmt.Sprintf("%s (%s)", name, r.PlanType)
}
