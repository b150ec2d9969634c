package app

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paddy-books/internal/core"
)

func TestResolveTier(t *testing.T) {
	svc := newHarness(nil).svc
	ctx := context.Background()

	res, err := svc.ResolveTier(ctx, TierRequest{Coins: "250"})
	require.NoError(t, err)
	assert.Equal(t, "Silver", res.Tier.Name)
	require.NotNil(t, res.NextTier)
	assert.Equal(t, "Gold", res.NextTier.Name)
	assert.Equal(t, int64(250), res.CoinsToNextTier)
	assert.Nil(t, res.Eligibility)

	res, err = svc.ResolveTier(ctx, TierRequest{Coins: "250", MonthlyRevenue: "100,000"})
	require.NoError(t, err)
	require.NotNil(t, res.Eligibility)
	assert.True(t, res.Eligibility.MaxLoan.Equal(decimal.NewFromInt(150000)))

	_, err = svc.ResolveTier(ctx, TierRequest{Coins: "lots"})
	assert.True(t, core.IsValidationError(err))
}

func TestComputeInstallment(t *testing.T) {
	svc := newHarness(nil).svc
	ctx := context.Background()

	res, err := svc.ComputeInstallment(ctx, InstallmentRequest{Amount: "100000", Months: "3", Tier: "silver", StartDate: "2026-01-15"})
	require.NoError(t, err)
	assert.True(t, res.TotalRepayment.Equal(decimal.NewFromInt(112000)))
	require.Len(t, res.Schedule, 3)
	assert.Equal(t, time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC), res.Schedule[0].DueDate)

	res, err = svc.ComputeInstallment(ctx, InstallmentRequest{Amount: "50000", Months: "2", Rate: "5%"})
	require.NoError(t, err)
	assert.True(t, res.TotalInterest.Equal(decimal.NewFromInt(5000)))
	assert.Equal(t, 1, res.Schedule[1].DueDate.Compare(res.Schedule[0].DueDate))

	_, err = svc.ComputeInstallment(ctx, InstallmentRequest{Amount: "50000", Months: "0", Rate: "5"})
	assert.ErrorIs(t, err, core.ErrInvalidTerm)

	_, err = svc.ComputeInstallment(ctx, InstallmentRequest{Amount: "50000", Months: "2", Tier: "Starter"})
	assert.ErrorIs(t, err, core.ErrInvalidInput)

	_, err = svc.ComputeInstallment(ctx, InstallmentRequest{Amount: "50000", Months: "2"})
	assert.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestResolveCoinLevelAndTax(t *testing.T) {
	svc := newHarness(nil).svc
	ctx := context.Background()

	lvl, err := svc.ResolveCoinLevel(ctx, "0")
	require.NoError(t, err)
	assert.Equal(t, 1, lvl.Level)
	assert.NotEmpty(t, lvl.Title)

	est, err := svc.EstimateTax(ctx, TaxRequest{AnnualIncome: "", Deductions: ""})
	require.NoError(t, err)
	assert.True(t, est.TotalTax.IsZero())
}
