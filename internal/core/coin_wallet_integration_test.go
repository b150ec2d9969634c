package core_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"paddy-books/internal/core"
)

func TestCoinWallet_AwardIsIdempotent(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	ctx := context.Background()
	wallet := core.NewCoinWallet(pool, core.NewRewardRules(pool))

	first, err := wallet.Award(ctx, testBusiness, core.ActionRecordSale, "sale:SAL-2026-00001", "Recorded a sale")
	if err != nil {
		t.Fatalf("Award failed: %v", err)
	}
	if first.Duplicate || first.Transaction.Amount != 5 || first.Transaction.BalanceAfter != 5 {
		t.Fatalf("unexpected first award: %+v", first)
	}

	again, err := wallet.Award(ctx, testBusiness, core.ActionRecordSale, "sale:SAL-2026-00001", "Recorded a sale")
	if err != nil {
		t.Fatalf("repeat Award failed: %v", err)
	}
	if !again.Duplicate || again.Transaction.ID != first.Transaction.ID {
		t.Errorf("expected duplicate of tx %d, got %+v", first.Transaction.ID, again)
	}

	bal, err := wallet.GetBalance(ctx, testBusiness)
	if err != nil {
		t.Fatalf("GetBalance failed: %v", err)
	}
	if bal.Balance != 5 || bal.TotalEarned != 5 {
		t.Errorf("expected balance 5 earned 5, got %+v", bal)
	}

	if _, err := wallet.Redeem(ctx, testBusiness, "airtime-500", "sale:SAL-2026-00001"); !errors.Is(err, core.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput when redeeming with an award key, got %v", err)
	}
	if _, err := wallet.Award(ctx, testBusiness, core.ActionFirstSale, "sale:SAL-2026-00001", ""); !errors.Is(err, core.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput when a key is reused for another action, got %v", err)
	}
}

func TestCoinWallet_Redeem(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	ctx := context.Background()
	wallet := core.NewCoinWallet(pool, core.NewRewardRules(pool))

	// 5 × file_tax = 100 coins
	for i := 0; i < 5; i++ {
		if _, err := wallet.Award(ctx, testBusiness, core.ActionFileTax, "", "Filed tax"); err != nil {
			t.Fatalf("Award failed: %v", err)
		}
	}

	_, err := wallet.Redeem(ctx, testBusiness, "data-1gb", "")
	if !errors.Is(err, core.ErrInsufficientCoins) {
		t.Fatalf("expected ErrInsufficientCoins for 150-coin option, got %v", err)
	}

	red, err := wallet.Redeem(ctx, testBusiness, "airtime-500", "redeem-1")
	if err != nil {
		t.Fatalf("Redeem failed: %v", err)
	}
	if red.Duplicate || red.Transaction.Amount != -100 || red.Transaction.BalanceAfter != 0 {
		t.Errorf("unexpected redemption: %+v", red)
	}

	again, err := wallet.Redeem(ctx, testBusiness, "airtime-500", "redeem-1")
	if err != nil {
		t.Fatalf("replayed Redeem failed: %v", err)
	}
	if !again.Duplicate || again.Transaction.ID != red.Transaction.ID {
		t.Errorf("expected replay of transaction %d, got %+v", red.Transaction.ID, again)
	}
	if _, err := wallet.Redeem(ctx, testBusiness, "data-1gb", "redeem-1"); !errors.Is(err, core.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for a key reused on another option, got %v", err)
	}

	bal, err := wallet.GetBalance(ctx, testBusiness)
	if err != nil {
		t.Fatalf("GetBalance failed: %v", err)
	}
	if bal.Balance != 0 || bal.TotalEarned != 100 || bal.TotalRedeemed != 100 {
		t.Errorf("unexpected balance: %+v", bal)
	}

	if _, err := wallet.Redeem(ctx, testBusiness, "yacht", ""); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown option, got %v", err)
	}

	hist, err := wallet.History(ctx, testBusiness, 10)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(hist) != 6 || hist[0].Kind != core.CoinRedeem {
		t.Errorf("expected 6 rows newest first, got %d", len(hist))
	}
}

func TestLoanService_ApplyUsesCoinsAndRevenue(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	ctx := context.Background()
	seq := core.NewSequenceService(pool)
	wallet := core.NewCoinWallet(pool, core.NewRewardRules(pool))
	reports := core.NewReportingService(pool)
	sales := core.NewSaleService(pool, core.NewStockService(pool), seq)
	loans := core.NewLoanService(pool, wallet, reports, seq)

	offer, err := loans.Eligibility(ctx, testBusiness)
	if err != nil {
		t.Fatalf("Eligibility failed: %v", err)
	}
	if offer.Eligible {
		t.Fatalf("new business should not be eligible: %+v", offer)
	}
	if _, err := loans.Apply(ctx, testBusiness, decimal.NewFromInt(1000), 3, "stock"); !errors.Is(err, core.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput before Bronze, got %v", err)
	}

	// 300000 revenue this month → average over 3 months is 100000.
	if _, err := sales.RecordSale(ctx, testBusiness, core.SaleDraft{
		Kind:        core.KindService,
		SaleDate:    time.Now().Format("2006-01-02"),
		PaymentType: core.PaymentPaid,
		Lines:       []core.SaleLineInput{{ItemName: "Event catering", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(300000)}},
	}); err != nil {
		t.Fatalf("RecordSale failed: %v", err)
	}
	// 10 × file_tax = 200 coins → Silver.
	for i := 0; i < 10; i++ {
		if _, err := wallet.Award(ctx, testBusiness, core.ActionFileTax, "", ""); err != nil {
			t.Fatalf("Award failed: %v", err)
		}
	}

	offer, err = loans.Eligibility(ctx, testBusiness)
	if err != nil {
		t.Fatalf("Eligibility failed: %v", err)
	}
	if offer.Tier.Name != "Silver" || !offer.MaxLoan.Equal(decimal.NewFromInt(150000)) {
		t.Fatalf("expected Silver capped at 150000, got %s / %s", offer.Tier.Name, offer.MaxLoan)
	}

	app, err := loans.Apply(ctx, testBusiness, decimal.NewFromInt(100000), 3, "restock before festive season")
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if app.Status != core.LoanPending || app.TierName != "Silver" {
		t.Errorf("unexpected application: %+v", app)
	}
	if !app.TotalRepayment.Equal(decimal.NewFromInt(112000)) {
		t.Errorf("expected repayment 112000 at 4%%/month, got %s", app.TotalRepayment)
	}

	if _, err := loans.Apply(ctx, testBusiness, decimal.NewFromInt(150001), 3, ""); !errors.Is(err, core.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput above max loan, got %v", err)
	}

	list, err := loans.ListApplications(ctx, testBusiness)
	if err != nil {
		t.Fatalf("ListApplications failed: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("expected 1 application, got %d", len(list))
	}
}
