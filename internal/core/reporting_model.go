package core

import "github.com/shopspring/decimal"

// BusinessSummary is the dashboard view of a period.
type BusinessSummary struct {
	BusinessCode      string            `json:"business_code"`
	From              string            `json:"from"`
	To                string            `json:"to"`
	Revenue           decimal.Decimal   `json:"revenue"`
	CostOfSales       decimal.Decimal   `json:"cost_of_sales"`
	GrossProfit       decimal.Decimal   `json:"gross_profit"`
	Expenses          decimal.Decimal   `json:"expenses"`
	NetProfit         decimal.Decimal   `json:"net_profit"`
	MarginPercent     decimal.Decimal   `json:"margin_percent"` // net profit / revenue
	CashCollected     decimal.Decimal   `json:"cash_collected"`
	Outstanding       decimal.Decimal   `json:"outstanding"` // unpaid balances on sales in the period
	SaleCount         int               `json:"sale_count"`
	ExpenseCount      int               `json:"expense_count"`
	TopItems          []ItemPerformance `json:"top_items"`
	ExpensesByKind    []CategoryTotal   `json:"expenses_by_category"`
	LowStockItemCount int               `json:"low_stock_item_count"`
}

type ItemPerformance struct {
	ItemName string          `json:"item_name"`
	Quantity decimal.Decimal `json:"quantity"`
	Revenue  decimal.Decimal `json:"revenue"`
	Profit   decimal.Decimal `json:"profit"`
}

type CategoryTotal struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

// MonthlyFigure is one month of the revenue trend.
type MonthlyFigure struct {
	Month    string          `json:"month"` // YYYY-MM
	Revenue  decimal.Decimal `json:"revenue"`
	Expenses decimal.Decimal `json:"expenses"`
	Profit   decimal.Decimal `json:"profit"` // gross profit less expenses
}

// Derive fills the computed figures from Revenue, CostOfSales and Expenses.
func (s *BusinessSummary) Derive() {
	s.GrossProfit = s.Revenue.Sub(s.CostOfSales)
	s.NetProfit = s.GrossProfit.Sub(s.Expenses)
	s.MarginPercent = MarginPercent(s.NetProfit, s.Revenue)
}

// MarginPercent is profit as a percentage of revenue, 2 dp. Zero revenue
// yields zero.
func MarginPercent(profit, revenue decimal.Decimal) decimal.Decimal {
	if !revenue.IsPositive() {
		return decimal.Zero
	}
	return profit.Div(revenue).Mul(hundred).Round(2)
}

// AverageOf is the mean of monthly revenue, counting months with no sales.
func AverageOf(months []MonthlyFigure) decimal.Decimal {
	if len(months) == 0 {
		return decimal.Zero
	}
	sum := decimal.Zero
	for _, m := range months {
		sum = sum.Add(m.Revenue)
	}
	return sum.Div(decimal.NewFromInt(int64(len(months)))).Round(2)
}
