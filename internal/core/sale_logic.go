package core

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// LineTotal is quantity × unit price.
func LineTotal(quantity, unitPrice decimal.Decimal) decimal.Decimal {
	return quantity.Mul(unitPrice)
}

// LineProfit is (selling − cost) × quantity.
func LineProfit(sellingPrice, costPrice, quantity decimal.Decimal) decimal.Decimal {
	return sellingPrice.Sub(costPrice).Mul(quantity)
}

// Normalize tidies free-text fields and fills defaults before validation.
func (d *SaleDraft) Normalize() {
	d.Kind = SaleKind(strings.ToLower(strings.TrimSpace(string(d.Kind))))
	if d.Kind == "" {
		d.Kind = KindProduct
	}
	d.PaymentType = PaymentType(strings.ToLower(strings.TrimSpace(string(d.PaymentType))))
	if d.PaymentType == "" {
		d.PaymentType = PaymentPaid
	}
	d.CustomerName = strings.TrimSpace(d.CustomerName)
	d.CustomerPhone = strings.TrimSpace(d.CustomerPhone)
	d.Notes = strings.TrimSpace(d.Notes)
	d.SaleDate = strings.TrimSpace(d.SaleDate)
	if d.SaleDate == "" {
		d.SaleDate = time.Now().Format("2006-01-02")
	}

	for i := range d.Lines {
		line := &d.Lines[i]
		line.ItemCode = strings.ToUpper(strings.TrimSpace(line.ItemCode))
		line.ItemName = strings.TrimSpace(line.ItemName)
		line.Unit = strings.ToLower(strings.TrimSpace(line.Unit))
		if d.Kind == KindService {
			line.CostPrice = decimal.Zero
		}
	}
}

// Validate enforces the entry rules that the mobile form surfaces as toasts.
func (d *SaleDraft) Validate() error {
	if d.Kind != KindProduct && d.Kind != KindService {
		return invalidf("sale kind must be %q or %q, got %q", KindProduct, KindService, d.Kind)
	}
	if !d.PaymentType.Valid() {
		return invalidf("payment type must be paid, partial or later, got %q", d.PaymentType)
	}
	if _, err := time.Parse("2006-01-02", d.SaleDate); err != nil {
		return invalidf("invalid sale date %q: expected YYYY-MM-DD", d.SaleDate)
	}
	if len(d.Lines) == 0 {
		return invalidf("add at least one item to the sale")
	}

	for i, line := range d.Lines {
		n := i + 1
		if line.ItemName == "" && line.ItemCode == "" {
			return fieldErr(fmt.Sprintf("line %d item", n), ErrRequired)
		}
		if !line.Quantity.IsPositive() {
			return fieldErr(fmt.Sprintf("line %d quantity", n), ErrNotPositive)
		}
		if !line.UnitPrice.IsPositive() {
			return fieldErr(fmt.Sprintf("line %d price", n), ErrNotPositive)
		}
		if line.CostPrice.IsNegative() {
			return fieldErr(fmt.Sprintf("line %d cost price", n), ErrInvalidAmount)
		}
	}

	if d.PaymentType == PaymentPartial {
		total := d.total()
		if !d.AmountPaid.IsPositive() {
			return fieldErr("amount paid", ErrNotPositive)
		}
		if !d.AmountPaid.LessThan(total) {
			return invalidf("partial payment must be less than total (%s)", total.StringFixed(2))
		}
	}
	return nil
}

func (d *SaleDraft) total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range d.Lines {
		total = total.Add(LineTotal(l.Quantity, l.UnitPrice))
	}
	return total
}

// Totals derives the confirm-step figures. Only the payment type decides
// how AmountPaid and Balance are split.
func (d *SaleDraft) Totals() SaleTotals {
	t := SaleTotals{Total: decimal.Zero, Cost: decimal.Zero}
	for _, l := range d.Lines {
		t.Total = t.Total.Add(LineTotal(l.Quantity, l.UnitPrice))
		t.Cost = t.Cost.Add(l.CostPrice.Mul(l.Quantity))
	}
	t.Profit = t.Total.Sub(t.Cost)

	switch d.PaymentType {
	case PaymentPartial:
		t.AmountPaid = d.AmountPaid
	case PaymentLater:
		t.AmountPaid = decimal.Zero
	default:
		t.AmountPaid = t.Total
	}
	t.Balance = t.Total.Sub(t.AmountPaid)
	return t
}

// BuildLines turns validated inputs into persisted line shapes. bulkQty maps a
// line index to the stock deduction computed by the stock item, if any.
func (d *SaleDraft) BuildLines(bulkQty map[int]decimal.Decimal, stockIDs map[int]int) []SaleLine {
	lines := make([]SaleLine, 0, len(d.Lines))
	for i, in := range d.Lines {
		l := SaleLine{
			LineNumber:   i + 1,
			ItemName:     in.ItemName,
			Unit:         in.Unit,
			Quantity:     in.Quantity,
			UnitPrice:    in.UnitPrice,
			CostPrice:    in.CostPrice,
			LineTotal:    LineTotal(in.Quantity, in.UnitPrice),
			Profit:       LineProfit(in.UnitPrice, in.CostPrice, in.Quantity),
			BulkQuantity: decimal.Zero,
		}
		if q, ok := bulkQty[i]; ok {
			l.BulkQuantity = q
		}
		if id, ok := stockIDs[i]; ok {
			l.StockItemID = &id
		}
		lines = append(lines, l)
	}
	return lines
}

// ApplyPayment validates a later payment against the outstanding balance and
// returns the new paid amount and balance.
func ApplyPayment(s Sale, amount decimal.Decimal) (paid, balance decimal.Decimal, err error) {
	if !amount.IsPositive() {
		return decimal.Zero, decimal.Zero, fieldErr("payment amount", ErrNotPositive)
	}
	if s.Balance.IsZero() {
		return decimal.Zero, decimal.Zero, invalidf("sale %s is already fully paid", s.Reference)
	}
	if amount.GreaterThan(s.Balance) {
		return decimal.Zero, decimal.Zero, invalidf("payment %s is more than the outstanding balance %s",
			amount.StringFixed(2), s.Balance.StringFixed(2))
	}
	return s.AmountPaid.Add(amount), s.Balance.Sub(amount), nil
}

// PaymentTypeAfter reports the payment state implied by a balance.
func PaymentTypeAfter(total, balance decimal.Decimal) PaymentType {
	switch {
	case balance.IsZero():
		return PaymentPaid
	case balance.Equal(total):
		return PaymentLater
	default:
		return PaymentPartial
	}
}

// IsValidationError reports whether err is a user-facing input problem.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput) || errors.Is(err, ErrInvalidTerm) || errors.Is(err, ErrInvalidAmount)
}
