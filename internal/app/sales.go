package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"paddy-books/internal/ai"
	"paddy-books/internal/core"
	"paddy-books/internal/events"
)

const (
	defaultSaleListLimit   = 50
	defaultCoinHistorySize = 20
)

// ── Stock ────────────────────────────────────────────────────────────────────

func (s *appService) ListStock(ctx context.Context, businessCode string) (*StockListResult, error) {
	items, err := s.svc.Stock.GetItems(ctx, businessCode)
	if err != nil {
		return nil, err
	}
	res := &StockListResult{Items: items, LowStock: []string{}, StockValue: decimal.Zero}
	for _, it := range items {
		if it.IsLowStock() {
			res.LowStock = append(res.LowStock, it.Code)
		}
		res.StockValue = res.StockValue.Add(it.StockValue())
	}
	res.StockValue = res.StockValue.Round(2)
	return res, nil
}

func (s *appService) GetStockItem(ctx context.Context, businessCode, itemCode string) (*core.StockItem, error) {
	return s.svc.Stock.GetItem(ctx, businessCode, itemCode)
}

func (s *appService) CreateStockItem(ctx context.Context, req CreateStockItemRequest) (*StockItemResult, error) {
	item := core.StockItem{
		Code:     req.Code,
		Name:     req.Name,
		Category: strings.TrimSpace(req.Category),
		BulkUnit: req.BulkUnit,
	}
	var err error
	if item.BulkCostPrice, err = core.ParseOptionalAmount("cost price", req.BulkCostPrice); err != nil {
		return nil, err
	}
	if item.BulkSellingPrice, err = core.ParseAmount("selling price", req.BulkSellingPrice); err != nil {
		return nil, err
	}
	if item.QuantityInBulk, err = core.ParseOptionalAmount("quantity", req.QuantityInBulk); err != nil {
		return nil, err
	}
	if item.ReorderLevel, err = core.ParseOptionalAmount("reorder level", req.ReorderLevel); err != nil {
		return nil, err
	}
	for _, u := range req.RetailUnits {
		perBulk, err := core.ParseQuantity(u.Name+" units per bulk", u.UnitsPerBulk)
		if err != nil {
			return nil, err
		}
		price, err := core.ParseAmount(u.Name+" selling price", u.SellingPrice)
		if err != nil {
			return nil, err
		}
		item.RetailUnits = append(item.RetailUnits, core.RetailUnit{Name: u.Name, UnitsPerBulk: perBulk, SellingPrice: price})
	}

	created, err := s.svc.Stock.CreateItem(ctx, req.BusinessCode, item)
	if err != nil {
		return nil, err
	}
	coins := s.award(ctx, req.BusinessCode, core.ActionAddItem, "stock:"+created.Code, "Added "+created.Name+" to stock")
	return &StockItemResult{Item: created, CoinsAwarded: coins}, nil
}

func (s *appService) Restock(ctx context.Context, req RestockRequest) (*core.StockItem, error) {
	qty, err := core.ParseQuantity("restock quantity", req.Quantity)
	if err != nil {
		return nil, err
	}
	cost, err := core.ParseOptionalAmount("unit cost", req.UnitCost)
	if err != nil {
		return nil, err
	}
	if cost.IsZero() {
		current, err := s.svc.Stock.GetItem(ctx, req.BusinessCode, req.ItemCode)
		if err != nil {
			return nil, err
		}
		cost = current.BulkCostPrice
	}

	item, err := s.svc.Stock.Restock(ctx, req.BusinessCode, req.ItemCode, qty, cost, strings.TrimSpace(req.Notes))
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.StockRestocked, req.BusinessCode, item.Code, item)
	return item, nil
}

// ── Sales ────────────────────────────────────────────────────────────────────

// saleDraft runs a form through the same boundary the AI interpreter uses.
func saleDraft(req RecordSaleRequest) (core.SaleDraft, error) {
	p := core.SaleProposal{
		Kind:          req.Kind,
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		SaleDate:      req.SaleDate,
		PaymentType:   req.PaymentType,
		AmountPaid:    req.AmountPaid,
		Notes:         req.Notes,
	}
	for _, l := range req.Lines {
		p.Lines = append(p.Lines, core.SaleProposalLine{
			ItemCode:  l.ItemCode,
			ItemName:  l.ItemName,
			Unit:      l.Unit,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			CostPrice: l.CostPrice,
		})
	}
	p.Normalize()
	return p.ToDraft()
}

func (s *appService) PreviewSale(ctx context.Context, req RecordSaleRequest) (*core.SalePreview, error) {
	draft, err := saleDraft(req)
	if err != nil {
		return nil, err
	}
	return s.svc.Sales.PreviewSale(ctx, req.BusinessCode, draft)
}

func (s *appService) RecordSale(ctx context.Context, req RecordSaleRequest) (*SaleResult, error) {
	draft, err := saleDraft(req)
	if err != nil {
		return nil, err
	}
	sale, err := s.svc.Sales.RecordSale(ctx, req.BusinessCode, draft)
	if err != nil {
		return nil, err
	}

	s.metrics.SalesRecorded.WithLabelValues(string(sale.Kind), string(sale.PaymentType)).Inc()
	s.publish(ctx, events.SaleRecorded, req.BusinessCode, sale.Reference, sale)

	coins := s.award(ctx, req.BusinessCode, core.ActionRecordSale, "sale:"+sale.Reference, "Recorded sale "+sale.Reference)
	if n, err := s.svc.Sales.CountSales(ctx, req.BusinessCode); err == nil && n == 1 {
		coins += s.award(ctx, req.BusinessCode, core.ActionFirstSale, "first_sale", "First sale recorded")
	}
	return &SaleResult{Sale: sale, CoinsAwarded: coins}, nil
}

func (s *appService) RecordSalePayment(ctx context.Context, req SalePaymentRequest) (*core.Sale, error) {
	amount, err := core.ParseAmount("payment amount", req.Amount)
	if err != nil {
		return nil, err
	}
	sale, err := s.svc.Sales.RecordPayment(ctx, req.BusinessCode, req.Reference, amount, strings.TrimSpace(req.PaymentDate))
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.PaymentReceived, req.BusinessCode, sale.Reference, map[string]any{
		"reference": sale.Reference,
		"amount":    amount,
		"balance":   sale.Balance,
	})
	return sale, nil
}

func (s *appService) GetSale(ctx context.Context, businessCode, reference string) (*core.Sale, error) {
	return s.svc.Sales.GetSale(ctx, businessCode, reference)
}

func (s *appService) ListSales(ctx context.Context, req ListSalesRequest) (*SaleListResult, error) {
	limit := int64(defaultSaleListLimit)
	if req.Limit != "" {
		n, err := core.ParseCoins("limit", req.Limit)
		if err != nil {
			return nil, err
		}
		limit = n
	}

	sales, err := s.svc.Sales.ListSales(ctx, req.BusinessCode, core.SaleFilter{
		From:        req.From,
		To:          req.To,
		Outstanding: req.Outstanding,
		Limit:       int(limit),
	})
	if err != nil {
		return nil, err
	}
	res := &SaleListResult{Sales: sales, Total: decimal.Zero, Outstanding: decimal.Zero}
	for _, sl := range sales {
		res.Total = res.Total.Add(sl.Total)
		res.Outstanding = res.Outstanding.Add(sl.Balance)
	}
	return res, nil
}

func (s *appService) InterpretSale(ctx context.Context, businessCode, text string) (*AIResult, error) {
	if s.agent == nil {
		return nil, ai.ErrNotConfigured
	}
	stock, err := s.svc.Stock.GetItems(ctx, businessCode)
	if err != nil {
		return nil, err
	}

	res, err := s.agent.InterpretSale(ctx, text, stock)
	if err != nil {
		return nil, err
	}
	if res.NeedsClarification() {
		return &AIResult{Clarification: res.Clarification}, nil
	}

	out := &AIResult{
		Draft:         res.Draft,
		Confidence:    res.Confidence,
		Reasoning:     res.Reasoning,
		LowConfidence: res.LowConfidence,
	}
	preview, err := s.svc.Sales.PreviewSale(ctx, businessCode, *res.Draft)
	switch {
	case err == nil:
		out.Preview = preview
	case core.IsValidationError(err), errors.Is(err, core.ErrNotFound), errors.Is(err, core.ErrInsufficientStock):
		out.Problem = err.Error()
	default:
		return nil, err
	}
	return out, nil
}

// ── Expenses ─────────────────────────────────────────────────────────────────

func (s *appService) RecordExpense(ctx context.Context, req RecordExpenseRequest) (*ExpenseResult, error) {
	amount, err := core.ParseAmount("amount", req.Amount)
	if err != nil {
		return nil, err
	}
	exp, err := s.svc.Expenses.RecordExpense(ctx, req.BusinessCode, core.Expense{
		Category:      req.Category,
		Description:   req.Description,
		Amount:        amount,
		ExpenseDate:   req.ExpenseDate,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.ExpenseRecorded, req.BusinessCode, exp.Reference, exp)
	coins := s.award(ctx, req.BusinessCode, core.ActionRecordExpense, "expense:"+exp.Reference, "Recorded expense "+exp.Reference)
	return &ExpenseResult{Expense: exp, CoinsAwarded: coins}, nil
}

func (s *appService) ListExpenses(ctx context.Context, businessCode, from, to string) ([]core.Expense, error) {
	return s.svc.Expenses.ListExpenses(ctx, businessCode, from, to)
}

// ── Invoices ─────────────────────────────────────────────────────────────────

func (s *appService) CreateInvoice(ctx context.Context, req CreateInvoiceRequest) (*InvoiceResult, error) {
	var (
		inv *core.Invoice
		err error
	)
	if ref := strings.TrimSpace(req.SaleReference); ref != "" {
		inv, err = s.svc.Invoices.CreateFromSale(ctx, req.BusinessCode, ref, strings.TrimSpace(req.DueDate))
	} else {
		draft := core.InvoiceDraft{
			CustomerName:  req.CustomerName,
			CustomerPhone: req.CustomerPhone,
			IssueDate:     req.IssueDate,
			DueDate:       req.DueDate,
			Notes:         req.Notes,
		}
		for i, l := range req.Lines {
			qty, err := core.ParseQuantity(fmt.Sprintf("line %d quantity", i+1), l.Quantity)
			if err != nil {
				return nil, err
			}
			price, err := core.ParseAmount(fmt.Sprintf("line %d price", i+1), l.UnitPrice)
			if err != nil {
				return nil, err
			}
			draft.Lines = append(draft.Lines, core.InvoiceLineInput{Description: l.Description, Quantity: qty, UnitPrice: price})
		}
		inv, err = s.svc.Invoices.CreateInvoice(ctx, req.BusinessCode, draft)
	}
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.InvoiceCreated, req.BusinessCode, inv.InvoiceNumber, inv)
	coins := s.award(ctx, req.BusinessCode, core.ActionCreateInvoice, "invoice:"+inv.InvoiceNumber, "Created invoice "+inv.InvoiceNumber)
	return &InvoiceResult{Invoice: inv, CoinsAwarded: coins}, nil
}

func (s *appService) GetInvoice(ctx context.Context, businessCode, invoiceNumber string) (*core.Invoice, error) {
	return s.svc.Invoices.GetInvoice(ctx, businessCode, invoiceNumber)
}

func (s *appService) ListInvoices(ctx context.Context, businessCode, status string) ([]core.Invoice, error) {
	var filter *core.InvoiceStatus
	if status = strings.ToUpper(strings.TrimSpace(status)); status != "" {
		st := core.InvoiceStatus(status)
		if st != core.InvoiceUnpaid && st != core.InvoicePaid {
			return nil, fmt.Errorf("%w: invoice status must be UNPAID or PAID, got %q", core.ErrInvalidInput, status)
		}
		filter = &st
	}
	return s.svc.Invoices.ListInvoices(ctx, businessCode, filter)
}

func (s *appService) MarkInvoicePaid(ctx context.Context, businessCode, invoiceNumber string) (*core.Invoice, error) {
	return s.svc.Invoices.MarkPaid(ctx, businessCode, invoiceNumber)
}
