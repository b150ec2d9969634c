package app

// Request types carry values exactly as typed into a form or flag. The
// application layer parses them through the core input boundary.

type TierRequest struct {
	Coins          string
	MonthlyRevenue string // optional
}

type InstallmentRequest struct {
	Amount    string
	Months    string
	Rate      string // monthly percent; "" means the rate of Tier
	Tier      string // tier name, used when Rate is empty
	StartDate string // YYYY-MM-DD, defaults to today
}

type TaxRequest struct {
	AnnualIncome string
	Deductions   string // optional
}

type SaleLineRequest struct {
	ItemCode  string `json:"item_code"`
	ItemName  string `json:"item_name"`
	Unit      string `json:"unit"`
	Quantity  string `json:"quantity"`
	UnitPrice string `json:"unit_price"` // blank takes the stock list price
	CostPrice string `json:"cost_price"` // blank takes the stock cost
}

type RecordSaleRequest struct {
	BusinessCode  string            `json:"-"`
	Kind          string            `json:"kind"`
	CustomerName  string            `json:"customer_name"`
	CustomerPhone string            `json:"customer_phone"`
	SaleDate      string            `json:"sale_date"`
	PaymentType   string            `json:"payment_type"`
	AmountPaid    string            `json:"amount_paid"`
	Notes         string            `json:"notes"`
	Lines         []SaleLineRequest `json:"lines"`
}

type SalePaymentRequest struct {
	BusinessCode string `json:"-"`
	Reference    string `json:"-"`
	Amount       string `json:"amount"`
	PaymentDate  string `json:"payment_date"`
}

type ListSalesRequest struct {
	BusinessCode string
	From         string
	To           string
	Outstanding  bool
	Limit        string
}

type RecordExpenseRequest struct {
	BusinessCode  string `json:"-"`
	Category      string `json:"category"`
	Description   string `json:"description"`
	Amount        string `json:"amount"`
	ExpenseDate   string `json:"expense_date"`
	PaymentMethod string `json:"payment_method"`
}

type RetailUnitRequest struct {
	Name         string `json:"name"`
	UnitsPerBulk string `json:"units_per_bulk"`
	SellingPrice string `json:"selling_price"`
}

type CreateStockItemRequest struct {
	BusinessCode     string              `json:"-"`
	Code             string              `json:"code"`
	Name             string              `json:"name"`
	Category         string              `json:"category"`
	BulkUnit         string              `json:"bulk_unit"`
	BulkCostPrice    string              `json:"bulk_cost_price"`
	BulkSellingPrice string              `json:"bulk_selling_price"`
	QuantityInBulk   string              `json:"quantity_in_bulk"`
	ReorderLevel     string              `json:"reorder_level"`
	RetailUnits      []RetailUnitRequest `json:"retail_units"`
}

type RestockRequest struct {
	BusinessCode string `json:"-"`
	ItemCode     string `json:"-"`
	Quantity     string `json:"quantity"`  // bulk units
	UnitCost     string `json:"unit_cost"` // per bulk unit; blank keeps the current cost
	Notes        string `json:"notes"`
}

type InvoiceLineRequest struct {
	Description string `json:"description"`
	Quantity    string `json:"quantity"`
	UnitPrice   string `json:"unit_price"`
}

type CreateInvoiceRequest struct {
	BusinessCode  string               `json:"-"`
	SaleReference string               `json:"sale_reference"`
	CustomerName  string               `json:"customer_name"`
	CustomerPhone string               `json:"customer_phone"`
	IssueDate     string               `json:"issue_date"`
	DueDate       string               `json:"due_date"`
	Notes         string               `json:"notes"`
	Lines         []InvoiceLineRequest `json:"lines"`
}

type RedeemRequest struct {
	BusinessCode   string `json:"-"`
	OptionID       string `json:"option_id"`
	IdempotencyKey string `json:"idempotency_key"`
}

type LoanApplicationRequest struct {
	BusinessCode string `json:"-"`
	Amount       string `json:"amount"`
	Months       string `json:"months"`
	Purpose      string `json:"purpose"`
}
