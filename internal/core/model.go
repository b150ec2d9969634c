package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// Business is the tenant every record is scoped to.
type Business struct {
	ID           int       `json:"id"`
	Code         string    `json:"code"`
	Name         string    `json:"name"`
	OwnerName    string    `json:"owner_name"`
	Phone        string    `json:"phone"`
	State        string    `json:"state"`
	Sector       string    `json:"sector"`
	BaseCurrency string    `json:"base_currency"`
	CreatedAt    time.Time `json:"created_at"`
}

type CoinTransactionKind string

const (
	CoinEarn   CoinTransactionKind = "EARN"
	CoinRedeem CoinTransactionKind = "REDEEM"
)

// CoinTransaction is one append-only row of the coin wallet ledger.
// Amount is signed: positive for EARN, negative for REDEEM.
type CoinTransaction struct {
	ID             int                 `json:"id"`
	BusinessID     int                 `json:"business_id"`
	Kind           CoinTransactionKind `json:"kind"`
	Action         string              `json:"action"`
	Amount         int64               `json:"amount"`
	IdempotencyKey string              `json:"idempotency_key,omitempty"`
	Description    string              `json:"description"`
	BalanceAfter   int64               `json:"balance_after"`
	CreatedAt      time.Time           `json:"created_at"`
}

// CoinBalance summarises a wallet.
type CoinBalance struct {
	Balance       int64 `json:"balance"`
	TotalEarned   int64 `json:"total_earned"`
	TotalRedeemed int64 `json:"total_redeemed"`
}

type LoanStatus string

const (
	LoanPending  LoanStatus = "PENDING"
	LoanApproved LoanStatus = "APPROVED"
	LoanRejected LoanStatus = "REJECTED"
)

// MaxLoanMonths bounds the repayment term offered to applicants.
const MaxLoanMonths = 12

// LoanApplication is a stored request for a micro-loan, priced at the tier
// in force when it was submitted.
type LoanApplication struct {
	ID                  int             `json:"id"`
	BusinessID          int             `json:"business_id"`
	Reference           string          `json:"reference"`
	TierLevel           int             `json:"tier_level"`
	TierName            string          `json:"tier_name"`
	Amount              decimal.Decimal `json:"amount"`
	Months              int             `json:"months"`
	MonthlyInterestRate decimal.Decimal `json:"monthly_interest_rate"`
	TotalRepayment      decimal.Decimal `json:"total_repayment"`
	MonthlyPayment      decimal.Decimal `json:"monthly_payment"`
	Purpose             string          `json:"purpose"`
	Status              LoanStatus      `json:"status"`
	CreatedAt           time.Time       `json:"created_at"`
}

// ValidateLoanRequest checks a requested amount and term against an eligibility offer.
func ValidateLoanRequest(e Eligibility, amount decimal.Decimal, months int) error {
	if !e.Eligible {
		return invalidf("%s tier is not eligible for loans; earn %d more coins to unlock Bronze", e.Tier.Name, e.CoinsToNextTier)
	}
	if !amount.IsPositive() {
		return fieldErr("amount", ErrNotPositive)
	}
	if amount.GreaterThan(e.MaxLoan) {
		return invalidf("requested amount %s exceeds your maximum loan of %s", amount.StringFixed(2), e.MaxLoan.StringFixed(2))
	}
	if months < 1 {
		return ErrInvalidTerm
	}
	if months > MaxLoanMonths {
		return invalidf("loan term cannot exceed %d months", MaxLoanMonths)
	}
	return nil
}
