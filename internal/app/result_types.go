package app

import (
	"github.com/shopspring/decimal"

	"paddy-books/internal/core"
)

// TierResult is returned by ResolveTier.
type TierResult struct {
	Tier            core.LoanTier     `json:"tier"`
	NextTier        *core.LoanTier    `json:"next_tier,omitempty"`
	CoinsToNextTier int64             `json:"coins_to_next_tier"`
	Eligibility     *core.Eligibility `json:"eligibility,omitempty"`
}

// InstallmentResult is returned by ComputeInstallment.
type InstallmentResult struct {
	core.Installment
	Schedule []core.ScheduleEntry `json:"schedule"`
}

// SummaryResult is returned by GetSummary.
type SummaryResult struct {
	Summary *core.BusinessSummary `json:"summary"`
	Trend   []core.MonthlyFigure  `json:"trend"`
}

type StockListResult struct {
	Items      []core.StockItem `json:"items"`
	LowStock   []string         `json:"low_stock"` // item codes at or below reorder level
	StockValue decimal.Decimal  `json:"stock_value"`
}

// Write results report the coins the action earned so clients can show a toast.

type StockItemResult struct {
	Item         *core.StockItem `json:"item"`
	CoinsAwarded int64           `json:"coins_awarded"`
}

type SaleResult struct {
	Sale         *core.Sale `json:"sale"`
	CoinsAwarded int64      `json:"coins_awarded"`
}

type SaleListResult struct {
	Sales       []core.Sale     `json:"sales"`
	Total       decimal.Decimal `json:"total"`
	Outstanding decimal.Decimal `json:"outstanding"`
}

type ExpenseResult struct {
	Expense      *core.Expense `json:"expense"`
	CoinsAwarded int64         `json:"coins_awarded"`
}

type InvoiceResult struct {
	Invoice      *core.Invoice `json:"invoice"`
	CoinsAwarded int64         `json:"coins_awarded"`
}

// AIResult is returned by InterpretSale. Exactly one of Clarification and
// Preview is set; Problem explains why a draft could not be previewed.
type AIResult struct {
	Clarification string            `json:"clarification,omitempty"`
	Preview       *core.SalePreview `json:"preview,omitempty"`
	Draft         *core.SaleDraft   `json:"draft,omitempty"`
	Problem       string            `json:"problem,omitempty"`
	Confidence    float64           `json:"confidence"`
	Reasoning     string            `json:"reasoning,omitempty"`
	LowConfidence bool              `json:"low_confidence"`
}

type WalletResult struct {
	Balance     core.CoinBalance      `json:"balance"`
	Level       core.CoinLevelStatus  `json:"level"`
	Tier        core.LoanTier         `json:"tier"`
	Redemptions []core.RedemptionView `json:"redemptions"`
	Rewards     map[string]int64      `json:"rewards"` // coins per action
}

// RedeemResult carries Duplicate when the idempotency key replayed an
// earlier redemption; no coins were spent by this call.
type RedeemResult struct {
	Transaction *core.CoinTransaction     `json:"transaction"`
	Option      core.CoinRedemptionOption `json:"option"`
	Duplicate   bool                      `json:"duplicate"`
}

type LoanResult struct {
	Application *core.LoanApplication `json:"application"`
	Schedule    []core.ScheduleEntry  `json:"schedule"`
}

// UserSession is returned on successful login.
type UserSession struct {
	UserID       int    `json:"user_id"`
	BusinessID   int    `json:"business_id"`
	BusinessCode string `json:"business_code"`
	Username     string `json:"username"`
	Role         string `json:"role"`
}

// UserResult is returned by GetUser.
type UserResult struct {
	UserID       int    `json:"user_id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	BusinessCode string `json:"business_code"`
}
