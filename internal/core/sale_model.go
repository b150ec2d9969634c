package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleKind distinguishes goods from services. Service lines never touch stock.
type SaleKind string

const (
	KindProduct SaleKind = "product"
	KindService SaleKind = "service"
)

// PaymentType decides how much of a sale is collected up front.
type PaymentType string

const (
	PaymentPaid    PaymentType = "paid"
	PaymentPartial PaymentType = "partial"
	PaymentLater   PaymentType = "later"
)

func (p PaymentType) Valid() bool {
	switch p {
	case PaymentPaid, PaymentPartial, PaymentLater:
		return true
	}
	return false
}

// Sale is a recorded sale header.
type Sale struct {
	ID            int             `json:"id"`
	BusinessID    int             `json:"business_id"`
	Reference     string          `json:"reference"`
	Kind          SaleKind        `json:"kind"`
	CustomerName  string          `json:"customer_name"`
	CustomerPhone string          `json:"customer_phone"`
	SaleDate      string          `json:"sale_date"` // YYYY-MM-DD
	PaymentType   PaymentType     `json:"payment_type"`
	Total         decimal.Decimal `json:"total"`
	Cost          decimal.Decimal `json:"cost"`
	Profit        decimal.Decimal `json:"profit"`
	AmountPaid    decimal.Decimal `json:"amount_paid"`
	Balance       decimal.Decimal `json:"balance"`
	Notes         string          `json:"notes"`
	Lines         []SaleLine      `json:"lines"`
	CreatedAt     time.Time       `json:"created_at"`
}

// SaleLine is one item on a sale. CostPrice and UnitPrice are per unit sold
// (per cup when sold by the cup, per bag when sold by the bag).
type SaleLine struct {
	ID           int             `json:"id"`
	SaleID       int             `json:"sale_id"`
	LineNumber   int             `json:"line_number"`
	StockItemID  *int            `json:"stock_item_id,omitempty"`
	ItemName     string          `json:"item_name"`
	Unit         string          `json:"unit"`
	Quantity     decimal.Decimal `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	CostPrice    decimal.Decimal `json:"cost_price"`
	LineTotal    decimal.Decimal `json:"line_total"`
	Profit       decimal.Decimal `json:"profit"`
	BulkQuantity decimal.Decimal `json:"bulk_quantity"` // stock deducted, in bulk units
}

// SalePayment records money collected against a sale after the fact.
type SalePayment struct {
	ID          int             `json:"id"`
	SaleID      int             `json:"sale_id"`
	Amount      decimal.Decimal `json:"amount"`
	PaymentDate string          `json:"payment_date"`
	CreatedAt   time.Time       `json:"created_at"`
}

// SaleLineInput is a typed line as produced by the input boundary.
// ItemCode links to a stock item; when set, Unit selects a retail unit and a
// zero UnitPrice or CostPrice is filled from the stock item.
type SaleLineInput struct {
	ItemCode  string          `json:"item_code,omitempty"`
	ItemName  string          `json:"item_name"`
	Unit      string          `json:"unit,omitempty"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	CostPrice decimal.Decimal `json:"cost_price"`
}

// SaleDraft is a sale that has been entered but not saved.
type SaleDraft struct {
	Kind          SaleKind        `json:"kind"`
	CustomerName  string          `json:"customer_name"`
	CustomerPhone string          `json:"customer_phone"`
	SaleDate      string          `json:"sale_date"`
	PaymentType   PaymentType     `json:"payment_type"`
	AmountPaid    decimal.Decimal `json:"amount_paid"` // only read for partial payments
	Notes         string          `json:"notes"`
	Lines         []SaleLineInput `json:"lines"`
}

// SaleTotals are the derived figures shown on the confirm step.
type SaleTotals struct {
	Total      decimal.Decimal `json:"total"`
	Cost       decimal.Decimal `json:"cost"`
	Profit     decimal.Decimal `json:"profit"`
	AmountPaid decimal.Decimal `json:"amount_paid"`
	Balance    decimal.Decimal `json:"balance"`
}
