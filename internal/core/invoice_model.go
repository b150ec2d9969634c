package core

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type InvoiceStatus string

const (
	InvoiceUnpaid InvoiceStatus = "UNPAID"
	InvoicePaid   InvoiceStatus = "PAID"
)

// DefaultInvoiceTermDays is added to the issue date when no due date is given.
const DefaultInvoiceTermDays = 7

// Invoice is a bill sent to a customer. InvoiceNumber is gapless per business
// and year (INV-2026-00001).
type Invoice struct {
	ID            int             `json:"id"`
	BusinessID    int             `json:"business_id"`
	InvoiceNumber string          `json:"invoice_number"`
	SaleID        *int            `json:"sale_id,omitempty"`
	CustomerName  string          `json:"customer_name"`
	CustomerPhone string          `json:"customer_phone"`
	IssueDate     string          `json:"issue_date"` // YYYY-MM-DD
	DueDate       string          `json:"due_date"`   // YYYY-MM-DD
	Status        InvoiceStatus   `json:"status"`
	Total         decimal.Decimal `json:"total"`
	Notes         string          `json:"notes"`
	Lines         []InvoiceLine   `json:"lines"`
	CreatedAt     time.Time       `json:"created_at"`
	PaidAt        *time.Time      `json:"paid_at,omitempty"`
}

type InvoiceLine struct {
	ID          int             `json:"id"`
	InvoiceID   int             `json:"invoice_id"`
	LineNumber  int             `json:"line_number"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// InvoiceLineInput is a typed line from the input boundary.
type InvoiceLineInput struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// InvoiceDraft is an invoice before it is numbered and stored.
type InvoiceDraft struct {
	SaleID        *int               `json:"sale_id,omitempty"`
	CustomerName  string             `json:"customer_name"`
	CustomerPhone string             `json:"customer_phone"`
	IssueDate     string             `json:"issue_date"`
	DueDate       string             `json:"due_date"`
	Notes         string             `json:"notes"`
	Lines         []InvoiceLineInput `json:"lines"`
}

// Normalize trims fields and fills the issue date (today) and due date
// (issue date + DefaultInvoiceTermDays).
func (d *InvoiceDraft) Normalize(today time.Time) {
	d.CustomerName = strings.TrimSpace(d.CustomerName)
	d.CustomerPhone = strings.TrimSpace(d.CustomerPhone)
	d.Notes = strings.TrimSpace(d.Notes)
	d.IssueDate = strings.TrimSpace(d.IssueDate)
	d.DueDate = strings.TrimSpace(d.DueDate)
	if d.IssueDate == "" {
		d.IssueDate = today.Format("2006-01-02")
	}
	if d.DueDate == "" {
		if issued, err := time.Parse("2006-01-02", d.IssueDate); err == nil {
			d.DueDate = DefaultDueDate(issued).Format("2006-01-02")
		}
	}
	for i := range d.Lines {
		d.Lines[i].Description = strings.TrimSpace(d.Lines[i].Description)
	}
}

func (d *InvoiceDraft) Validate() error {
	if d.CustomerName == "" {
		return fieldErr("customer name", ErrRequired)
	}
	issued, err := time.Parse("2006-01-02", d.IssueDate)
	if err != nil {
		return invalidf("invalid issue date %q: expected YYYY-MM-DD", d.IssueDate)
	}
	due, err := time.Parse("2006-01-02", d.DueDate)
	if err != nil {
		return invalidf("invalid due date %q: expected YYYY-MM-DD", d.DueDate)
	}
	if due.Before(issued) {
		return invalidf("due date %s is before issue date %s", d.DueDate, d.IssueDate)
	}
	if len(d.Lines) == 0 {
		return invalidf("invoice must have at least one line")
	}
	for i, l := range d.Lines {
		if l.Description == "" {
			return fieldErr(fmt.Sprintf("line %d description", i+1), ErrRequired)
		}
		if !l.Quantity.IsPositive() {
			return fieldErr(fmt.Sprintf("line %d quantity", i+1), ErrNotPositive)
		}
		if !l.UnitPrice.IsPositive() {
			return fieldErr(fmt.Sprintf("line %d price", i+1), ErrNotPositive)
		}
	}
	return nil
}

// BuildLines computes line totals.
func (d *InvoiceDraft) BuildLines() []InvoiceLine {
	lines := make([]InvoiceLine, len(d.Lines))
	for i, in := range d.Lines {
		lines[i] = InvoiceLine{
			LineNumber:  i + 1,
			Description: in.Description,
			Quantity:    in.Quantity,
			UnitPrice:   in.UnitPrice,
			LineTotal:   LineTotal(in.Quantity, in.UnitPrice),
		}
	}
	return lines
}

// InvoiceTotal sums line totals.
func InvoiceTotal(lines []InvoiceLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.LineTotal)
	}
	return total
}

func DefaultDueDate(issued time.Time) time.Time {
	return issued.AddDate(0, 0, DefaultInvoiceTermDays)
}

// IsOverdue reports whether an unpaid invoice is past its due date on asOf.
func (inv Invoice) IsOverdue(asOf time.Time) bool {
	if inv.Status == InvoicePaid {
		return false
	}
	due, err := time.Parse("2006-01-02", inv.DueDate)
	if err != nil {
		return false
	}
	y, m, d := asOf.Date()
	return due.Before(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

// FormatInvoiceNumber renders INV-<year>-<00001>.
func FormatInvoiceNumber(year, seq int) string {
	return FormatReference(SeqInvoice, year, int64(seq))
}
