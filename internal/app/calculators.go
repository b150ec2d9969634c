package app

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"paddy-books/internal/core"
)

func (s *appService) LoanTiers(ctx context.Context) []core.LoanTier {
	return core.LoanTiers()
}

func (s *appService) ResolveTier(ctx context.Context, req TierRequest) (*TierResult, error) {
	coins, err := core.ParseCoins("coins", req.Coins)
	if err != nil {
		return nil, err
	}

	tier := core.GetTier(coins)
	res := &TierResult{Tier: tier, CoinsToNextTier: core.CoinsToNextTier(coins)}
	if next, ok := core.NextTier(tier); ok {
		res.NextTier = &next
	}

	if req.MonthlyRevenue != "" {
		revenue, err := core.ParseOptionalAmount("monthly revenue", req.MonthlyRevenue)
		if err != nil {
			return nil, err
		}
		e := core.ComputeEligibility(coins, revenue)
		res.Eligibility = &e
	}
	return res, nil
}

func (s *appService) CoinLevels(ctx context.Context) []core.CoinLevel {
	return core.CoinLevels()
}

func (s *appService) RedemptionCatalog(ctx context.Context) []core.CoinRedemptionOption {
	return core.RedemptionOptions()
}

func (s *appService) ResolveCoinLevel(ctx context.Context, totalEarned string) (*core.CoinLevelStatus, error) {
	coins, err := core.ParseCoins("total earned", totalEarned)
	if err != nil {
		return nil, err
	}
	status := core.ResolveLevel(coins)
	return &status, nil
}

func (s *appService) ComputeInstallment(ctx context.Context, req InstallmentRequest) (*InstallmentResult, error) {
	amount, err := core.ParseAmount("amount", req.Amount)
	if err != nil {
		return nil, err
	}
	months, err := core.ParseMonths("months", req.Months)
	if err != nil {
		return nil, err
	}

	var rate decimal.Decimal
	switch {
	case req.Rate != "":
		if rate, err = core.ParseRate("rate", req.Rate); err != nil {
			return nil, err
		}
	case req.Tier != "":
		tier, ok := core.TierByName(req.Tier)
		if !ok {
			return nil, fmt.Errorf("%w: unknown tier %q", core.ErrInvalidInput, req.Tier)
		}
		if !tier.Eligible() {
			return nil, fmt.Errorf("%w: %s tier does not offer loans", core.ErrInvalidInput, tier.Name)
		}
		rate = tier.MonthlyInterestRate
	default:
		return nil, fmt.Errorf("%w: give a monthly rate or a tier", core.ErrInvalidInput)
	}

	start := s.now()
	if req.StartDate != "" {
		if start, err = time.Parse("2006-01-02", req.StartDate); err != nil {
			return nil, fmt.Errorf("%w: invalid start date %q: expected YYYY-MM-DD", core.ErrInvalidInput, req.StartDate)
		}
	}

	inst, err := core.ComputeInstallment(amount, months, rate)
	if err != nil {
		return nil, err
	}
	schedule, err := core.RepaymentSchedule(amount, months, rate, start)
	if err != nil {
		return nil, err
	}
	return &InstallmentResult{Installment: inst, Schedule: schedule}, nil
}

func (s *appService) EstimateTax(ctx context.Context, req TaxRequest) (*core.TaxEstimate, error) {
	income, err := core.ParseOptionalAmount("annual income", req.AnnualIncome)
	if err != nil {
		return nil, err
	}
	deductions, err := core.ParseOptionalAmount("deductions", req.Deductions)
	if err != nil {
		return nil, err
	}
	est := core.EstimateTax(income, deductions)
	return &est, nil
}
