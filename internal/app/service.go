package app

import (
	"context"

	"paddy-books/internal/core"
)

// ApplicationService is the single interface all adapters (REPL, CLI, Web) call.
// Requests carry raw user text; parsing and validation happen behind this
// boundary. Implementations contain no display logic.
type ApplicationService interface {
	// ── Calculators (no business context, no I/O) ───────────────────────────

	// LoanTiers returns the full loan ladder, lowest tier first.
	LoanTiers(ctx context.Context) []core.LoanTier

	// ResolveTier places a coin balance on the loan ladder. MonthlyRevenue is
	// optional; when given, the eligibility caps are computed too.
	ResolveTier(ctx context.Context, req TierRequest) (*TierResult, error)

	// CoinLevels returns the gamification ladder, lowest level first.
	CoinLevels(ctx context.Context) []core.CoinLevel

	// RedemptionCatalog lists everything coins can be spent on.
	RedemptionCatalog(ctx context.Context) []core.CoinRedemptionOption

	// ResolveCoinLevel places cumulative earned coins on the level ladder.
	ResolveCoinLevel(ctx context.Context, totalEarned string) (*core.CoinLevelStatus, error)

	// ComputeInstallment prices a simple-interest loan and lays out its schedule.
	ComputeInstallment(ctx context.Context, req InstallmentRequest) (*InstallmentResult, error)

	// EstimateTax runs the placeholder progressive schedule.
	EstimateTax(ctx context.Context, req TaxRequest) (*core.TaxEstimate, error)

	// ── Business ────────────────────────────────────────────────────────────

	// LoadDefaultBusiness uses BUSINESS_CODE if configured, otherwise expects
	// exactly one business in the database.
	LoadDefaultBusiness(ctx context.Context) (*core.Business, error)
	GetBusiness(ctx context.Context, businessCode string) (*core.Business, error)

	// GetSummary reports on [from, to]; both empty means month to date.
	GetSummary(ctx context.Context, businessCode, from, to string) (*SummaryResult, error)

	// ── Stock ───────────────────────────────────────────────────────────────

	ListStock(ctx context.Context, businessCode string) (*StockListResult, error)
	GetStockItem(ctx context.Context, businessCode, itemCode string) (*core.StockItem, error)
	CreateStockItem(ctx context.Context, req CreateStockItemRequest) (*StockItemResult, error)
	Restock(ctx context.Context, req RestockRequest) (*core.StockItem, error)

	// ── Sales ───────────────────────────────────────────────────────────────

	// PreviewSale is the confirm step: it prices and validates without saving.
	PreviewSale(ctx context.Context, req RecordSaleRequest) (*core.SalePreview, error)
	// RecordSale saves the sale and awards coins for it.
	RecordSale(ctx context.Context, req RecordSaleRequest) (*SaleResult, error)
	RecordSalePayment(ctx context.Context, req SalePaymentRequest) (*core.Sale, error)
	GetSale(ctx context.Context, businessCode, reference string) (*core.Sale, error)
	ListSales(ctx context.Context, req ListSalesRequest) (*SaleListResult, error)

	// InterpretSale reads a free-text sale through the AI interpreter and
	// returns either a clarifying question or a priced preview. Nothing is saved.
	InterpretSale(ctx context.Context, businessCode, text string) (*AIResult, error)

	// ── Expenses ────────────────────────────────────────────────────────────

	RecordExpense(ctx context.Context, req RecordExpenseRequest) (*ExpenseResult, error)
	ListExpenses(ctx context.Context, businessCode, from, to string) ([]core.Expense, error)

	// ── Invoices ────────────────────────────────────────────────────────────

	// CreateInvoice bills free lines, or the lines of SaleReference when set.
	CreateInvoice(ctx context.Context, req CreateInvoiceRequest) (*InvoiceResult, error)
	GetInvoice(ctx context.Context, businessCode, invoiceNumber string) (*core.Invoice, error)
	// ListInvoices filters by status (UNPAID, PAID) unless status is empty.
	ListInvoices(ctx context.Context, businessCode, status string) ([]core.Invoice, error)
	MarkInvoicePaid(ctx context.Context, businessCode, invoiceNumber string) (*core.Invoice, error)

	// ── Coins ───────────────────────────────────────────────────────────────

	// GetWallet returns balance, level, loan tier and the annotated catalog.
	GetWallet(ctx context.Context, businessCode string) (*WalletResult, error)
	CoinHistory(ctx context.Context, businessCode, limit string) ([]core.CoinTransaction, error)
	RedeemCoins(ctx context.Context, req RedeemRequest) (*RedeemResult, error)

	// ── Loans ───────────────────────────────────────────────────────────────

	LoanEligibility(ctx context.Context, businessCode string) (*core.LoanOffer, error)
	ApplyForLoan(ctx context.Context, req LoanApplicationRequest) (*LoanResult, error)
	ListLoanApplications(ctx context.Context, businessCode string) ([]core.LoanApplication, error)

	// ── Users ───────────────────────────────────────────────────────────────

	// AuthenticateUser verifies credentials and returns a session on success.
	// A successful login earns the daily login coin once per day.
	AuthenticateUser(ctx context.Context, username, password string) (*UserSession, error)
	GetUser(ctx context.Context, userID int) (*UserResult, error)
}
