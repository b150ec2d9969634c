package app

import (
	"context"
	"fmt"

	"paddy-books/internal/core"
	"paddy-books/internal/events"
)

func (s *appService) GetWallet(ctx context.Context, businessCode string) (*WalletResult, error) {
	bal, err := s.svc.Wallet.GetBalance(ctx, businessCode)
	if err != nil {
		return nil, err
	}
	rewards := make(map[string]int64)
	for action, coins := range core.CoinRewards() {
		rewards[string(action)] = coins
	}
	return &WalletResult{
		Balance:     *bal,
		Level:       core.ResolveLevel(bal.TotalEarned),
		Tier:        core.GetTier(bal.Balance),
		Redemptions: core.AffordableOptions(bal.Balance),
		Rewards:     rewards,
	}, nil
}

func (s *appService) CoinHistory(ctx context.Context, businessCode, limit string) ([]core.CoinTransaction, error) {
	n := int64(defaultCoinHistorySize)
	if limit != "" {
		var err error
		if n, err = core.ParseCoins("limit", limit); err != nil {
			return nil, err
		}
	}
	return s.svc.Wallet.History(ctx, businessCode, int(n))
}

func (s *appService) RedeemCoins(ctx context.Context, req RedeemRequest) (*RedeemResult, error) {
	option, ok := core.FindRedemptionOption(req.OptionID)
	if !ok {
		return nil, fmt.Errorf("redemption option %q: %w", req.OptionID, core.ErrNotFound)
	}
	red, err := s.svc.Wallet.Redeem(ctx, req.BusinessCode, option.ID, req.IdempotencyKey)
	if err != nil {
		return nil, err
	}
	res := &RedeemResult{Transaction: &red.Transaction, Option: option, Duplicate: red.Duplicate}
	if red.Duplicate {
		return res, nil
	}
	s.metrics.CoinsRedeemed.Add(float64(option.Cost))
	s.publish(ctx, events.CoinsRedeemed, req.BusinessCode, option.ID, &red.Transaction)
	return res, nil
}

func (s *appService) LoanEligibility(ctx context.Context, businessCode string) (*core.LoanOffer, error) {
	return s.svc.Loans.Eligibility(ctx, businessCode)
}

func (s *appService) ApplyForLoan(ctx context.Context, req LoanApplicationRequest) (*LoanResult, error) {
	amount, err := core.ParseAmount("amount", req.Amount)
	if err != nil {
		return nil, err
	}
	months, err := core.ParseMonths("months", req.Months)
	if err != nil {
		return nil, err
	}

	application, err := s.svc.Loans.Apply(ctx, req.BusinessCode, amount, months, req.Purpose)
	if err != nil {
		return nil, err
	}
	schedule, err := core.RepaymentSchedule(application.Amount, application.Months, application.MonthlyInterestRate, s.now())
	if err != nil {
		return nil, err
	}

	s.metrics.LoanApplications.WithLabelValues(application.TierName).Inc()
	s.publish(ctx, events.LoanApplied, req.BusinessCode, application.Reference, application)
	return &LoanResult{Application: application, Schedule: schedule}, nil
}

func (s *appService) ListLoanApplications(ctx context.Context, businessCode string) ([]core.LoanApplication, error) {
	return s.svc.Loans.ListApplications(ctx, businessCode)
}
