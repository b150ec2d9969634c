package core

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// revenueWindowMonths is how far back average monthly revenue looks.
const revenueWindowMonths = 3

// LoanService prices and stores micro-loan applications against a business's
// live coin balance and recent revenue.
type LoanService interface {
	// Eligibility resolves the current offer for a business.
	Eligibility(ctx context.Context, businessCode string) (*LoanOffer, error)
	// Apply validates the request against the offer and stores a PENDING application.
	Apply(ctx context.Context, businessCode string, amount decimal.Decimal, months int, purpose string) (*LoanApplication, error)
	ListApplications(ctx context.Context, businessCode string) ([]LoanApplication, error)
}

// LoanOffer is an Eligibility together with the inputs it was computed from.
type LoanOffer struct {
	Eligibility
	CoinBalance    int64           `json:"coin_balance"`
	MonthlyRevenue decimal.Decimal `json:"monthly_revenue"`
}

type loanService struct {
	pool    *pgxpool.Pool
	wallet  CoinWallet
	reports ReportingService
	seq     SequenceService
}

func NewLoanService(pool *pgxpool.Pool, wallet CoinWallet, reports ReportingService, seq SequenceService) LoanService {
	return &loanService{pool: pool, wallet: wallet, reports: reports, seq: seq}
}

func (s *loanService) Eligibility(ctx context.Context, businessCode string) (*LoanOffer, error) {
	bal, err := s.wallet.GetBalance(ctx, businessCode)
	if err != nil {
		return nil, err
	}
	revenue, err := s.reports.AverageMonthlyRevenue(ctx, businessCode, revenueWindowMonths)
	if err != nil {
		return nil, err
	}
	return &LoanOffer{
		Eligibility:    ComputeEligibility(bal.Balance, revenue),
		CoinBalance:    bal.Balance,
		MonthlyRevenue: revenue,
	}, nil
}

func (s *loanService) Apply(ctx context.Context, businessCode string, amount decimal.Decimal, months int, purpose string) (*LoanApplication, error) {
	offer, err := s.Eligibility(ctx, businessCode)
	if err != nil {
		return nil, err
	}
	if err := ValidateLoanRequest(offer.Eligibility, amount, months); err != nil {
		return nil, err
	}

	tier := offer.Tier
	inst, err := ComputeInstallment(amount, months, tier.MonthlyInterestRate)
	if err != nil {
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	businessID, err := resolveBusinessID(ctx, tx, businessCode)
	if err != nil {
		return nil, err
	}

	ref, err := s.seq.NextNumberTx(ctx, tx, businessID, SeqLoan, time.Now().Year())
	if err != nil {
		return nil, err
	}

	var app LoanApplication
	err = scanLoan(tx.QueryRow(ctx, `
		INSERT INTO loan_applications (business_id, reference, tier_level, tier_name, amount, months,
		                               monthly_interest_rate, total_repayment, monthly_payment, purpose)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING `+loanColumns,
		businessID, ref, tier.Level, tier.Name, amount, months,
		tier.MonthlyInterestRate, inst.TotalRepayment, inst.MonthlyPayment, strings.TrimSpace(purpose),
	), &app)
	if err != nil {
		return nil, fmt.Errorf("failed to insert loan application: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit loan application: %w", err)
	}
	return &app, nil
}

const loanColumns = `id, business_id, reference, tier_level, tier_name, amount, months, monthly_interest_rate,
	total_repayment, monthly_payment, purpose, status, created_at`

func scanLoan(row pgx.Row, a *LoanApplication) error {
	return row.Scan(&a.ID, &a.BusinessID, &a.Reference, &a.TierLevel, &a.TierName, &a.Amount, &a.Months,
		&a.MonthlyInterestRate, &a.TotalRepayment, &a.MonthlyPayment, &a.Purpose, &a.Status, &a.CreatedAt)
}

func (s *loanService) ListApplications(ctx context.Context, businessCode string) ([]LoanApplication, error) {
	businessID, err := resolveBusinessID(ctx, s.pool, businessCode)
	if err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx,
		"SELECT "+loanColumns+" FROM loan_applications WHERE business_id = $1 ORDER BY id DESC", businessID)
	if err != nil {
		return nil, fmt.Errorf("failed to query loan applications: %w", err)
	}
	defer rows.Close()

	var out []LoanApplication
	for rows.Next() {
		var a LoanApplication
		if err := scanLoan(rows, &a); err != nil {
			return nil, fmt.Errorf("failed to scan loan application: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
