package core

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ExpenseCategories are the buckets offered in the expense form. Anything
// else is stored as "other".
var ExpenseCategories = []string{
	"stock purchase",
	"transport",
	"rent",
	"utilities",
	"salaries",
	"airtime & data",
	"market levy",
	"repairs",
	"other",
}

// Expense is money spent running the business.
type Expense struct {
	ID            int             `json:"id"`
	BusinessID    int             `json:"business_id"`
	Reference     string          `json:"reference"`
	Category      string          `json:"category"`
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"`
	ExpenseDate   string          `json:"expense_date"` // YYYY-MM-DD
	PaymentMethod string          `json:"payment_method"`
	CreatedAt     time.Time       `json:"created_at"`
}

// NormalizeCategory maps free text onto ExpenseCategories.
func NormalizeCategory(raw string) string {
	c := strings.ToLower(strings.TrimSpace(raw))
	for _, known := range ExpenseCategories {
		if c == known {
			return known
		}
	}
	return "other"
}

// Validate tidies and checks an expense before it is stored.
func (e *Expense) Validate() error {
	e.Category = NormalizeCategory(e.Category)
	e.Description = strings.TrimSpace(e.Description)
	e.PaymentMethod = strings.ToLower(strings.TrimSpace(e.PaymentMethod))
	if e.PaymentMethod == "" {
		e.PaymentMethod = "cash"
	}
	e.ExpenseDate = strings.TrimSpace(e.ExpenseDate)
	if e.ExpenseDate == "" {
		e.ExpenseDate = time.Now().Format("2006-01-02")
	}

	if e.Description == "" {
		return fieldErr("description", ErrRequired)
	}
	if !e.Amount.IsPositive() {
		return fieldErr("amount", ErrNotPositive)
	}
	if _, err := time.Parse("2006-01-02", e.ExpenseDate); err != nil {
		return invalidf("invalid expense date %q: expected YYYY-MM-DD", e.ExpenseDate)
	}
	return nil
}
