package core

import (
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// LoanTier is one rung of the coin-gated loan ladder.
type LoanTier struct {
	Level               int             `json:"level"`
	Name                string          `json:"name"`
	MinCoins            int64           `json:"min_coins"`
	MaxLoanAmount       decimal.Decimal `json:"max_loan_amount"`
	MonthlyInterestRate decimal.Decimal `json:"monthly_interest_rate"` // percent per month
	ApprovalTime        string          `json:"approval_time"`
	Badge               string          `json:"badge"`
	Benefits            []string        `json:"benefits"`
}

// Eligible reports whether the tier grants any credit at all.
func (t LoanTier) Eligible() bool {
	return t.Level >= minEligibleLevel
}

const minEligibleLevel = 2

// Loan policy multipliers.
var (
	revenueCapMultiplier  = decimal.RequireFromString("1.5")
	recommendedLoanFactor = decimal.RequireFromString("0.6")
)

// loanTiers is sorted ascending by MinCoins. Never mutate it; LoanTiers returns a copy.
var loanTiers = []LoanTier{
	{
		Level: 1, Name: "Starter", MinCoins: 0,
		MaxLoanAmount: decimal.Zero, MonthlyInterestRate: decimal.Zero,
		ApprovalTime: "Not eligible", Badge: "🌱",
		Benefits: []string{"Earn coins by recording sales and expenses", "Reach 100 coins to unlock loans"},
	},
	{
		Level: 2, Name: "Bronze", MinCoins: 100,
		MaxLoanAmount: decimal.NewFromInt(100_000), MonthlyInterestRate: decimal.RequireFromString("5"),
		ApprovalTime: "48 hours", Badge: "🥉",
		Benefits: []string{"Loans up to ₦100,000", "5% monthly interest"},
	},
	{
		Level: 3, Name: "Silver", MinCoins: 200,
		MaxLoanAmount: decimal.NewFromInt(300_000), MonthlyInterestRate: decimal.RequireFromString("4"),
		ApprovalTime: "24 hours", Badge: "🥈",
		Benefits: []string{"Loans up to ₦300,000", "4% monthly interest", "Faster approval"},
	},
	{
		Level: 4, Name: "Gold", MinCoins: 500,
		MaxLoanAmount: decimal.NewFromInt(750_000), MonthlyInterestRate: decimal.RequireFromString("3.5"),
		ApprovalTime: "12 hours", Badge: "🥇",
		Benefits: []string{"Loans up to ₦750,000", "3.5% monthly interest", "Flexible repayment"},
	},
	{
		Level: 5, Name: "Platinum", MinCoins: 1_000,
		MaxLoanAmount: decimal.NewFromInt(2_000_000), MonthlyInterestRate: decimal.RequireFromString("3"),
		ApprovalTime: "6 hours", Badge: "💠",
		Benefits: []string{"Loans up to ₦2,000,000", "3% monthly interest", "Dedicated account officer"},
	},
	{
		Level: 6, Name: "Diamond", MinCoins: 2_500,
		MaxLoanAmount: decimal.NewFromInt(5_000_000), MonthlyInterestRate: decimal.RequireFromString("2.5"),
		ApprovalTime: "Instant", Badge: "💎",
		Benefits: []string{"Loans up to ₦5,000,000", "2.5% monthly interest", "Instant approval", "Priority support"},
	},
}

// clone detaches Benefits from the package table.
func (t LoanTier) clone() LoanTier {
	t.Benefits = slices.Clone(t.Benefits)
	return t
}

// LoanTiers returns a deep copy of the full ladder, lowest tier first.
func LoanTiers() []LoanTier {
	out := make([]LoanTier, len(loanTiers))
	for i, t := range loanTiers {
		out[i] = t.clone()
	}
	return out
}

// GetTier returns the highest tier whose threshold the balance meets.
// Negative balances are treated as zero.
func GetTier(coinBalance int64) LoanTier {
	if coinBalance < 0 {
		coinBalance = 0
	}
	tier := loanTiers[0]
	for _, t := range loanTiers {
		if t.MinCoins <= coinBalance {
			tier = t
		}
	}
	return tier.clone()
}

// TierByName finds a tier by name, ignoring case.
func TierByName(name string) (LoanTier, bool) {
	for _, t := range loanTiers {
		if strings.EqualFold(t.Name, strings.TrimSpace(name)) {
			return t.clone(), true
		}
	}
	return LoanTier{}, false
}

// NextTier returns the tier one level above current, or false at the top.
func NextTier(current LoanTier) (LoanTier, bool) {
	for i, t := range loanTiers {
		if t.Level == current.Level && i+1 < len(loanTiers) {
			return loanTiers[i+1].clone(), true
		}
	}
	return LoanTier{}, false
}

// CoinsToNextTier is the gap between balance and the next tier's threshold.
// Zero at the top tier. Negative balances are treated as zero.
func CoinsToNextTier(coinBalance int64) int64 {
	if coinBalance < 0 {
		coinBalance = 0
	}
	next, ok := NextTier(GetTier(coinBalance))
	if !ok {
		return 0
	}
	return next.MinCoins - coinBalance
}

// Eligibility is the loan offer for a coin balance and monthly revenue.
type Eligibility struct {
	Tier              LoanTier        `json:"tier"`
	Eligible          bool            `json:"eligible"`
	MaxLoan           decimal.Decimal `json:"max_loan"`
	RecommendedAmount decimal.Decimal `json:"recommended_amount"`
	NextTier          *LoanTier       `json:"next_tier,omitempty"`
	CoinsToNextTier   int64           `json:"coins_to_next_tier"`
}

// ComputeEligibility caps the tier ceiling at 1.5× monthly revenue and
// recommends 60% of the resulting maximum. Below Bronze nothing is offered.
func ComputeEligibility(coinBalance int64, monthlyRevenue decimal.Decimal) Eligibility {
	if coinBalance < 0 {
		coinBalance = 0
	}
	if monthlyRevenue.IsNegative() {
		monthlyRevenue = decimal.Zero
	}

	tier := GetTier(coinBalance)
	e := Eligibility{
		Tier:              tier,
		MaxLoan:           decimal.Zero,
		RecommendedAmount: decimal.Zero,
		CoinsToNextTier:   CoinsToNextTier(coinBalance),
	}
	if next, ok := NextTier(tier); ok {
		e.NextTier = &next
	}
	if !tier.Eligible() {
		return e
	}

	e.Eligible = true
	e.MaxLoan = decimal.Min(tier.MaxLoanAmount, monthlyRevenue.Mul(revenueCapMultiplier))
	e.RecommendedAmount = e.MaxLoan.Mul(recommendedLoanFactor)
	return e
}

// Installment is the repayment breakdown of a simple-interest loan.
type Installment struct {
	Principal           decimal.Decimal `json:"principal"`
	Months              int             `json:"months"`
	MonthlyInterestRate decimal.Decimal `json:"monthly_interest_rate"`
	TotalInterest       decimal.Decimal `json:"total_interest"`
	TotalRepayment      decimal.Decimal `json:"total_repayment"`
	MonthlyPayment      decimal.Decimal `json:"monthly_payment"`
	EffectiveAnnualRate decimal.Decimal `json:"effective_annual_rate"` // percent
}

var hundred = decimal.NewFromInt(100)

// ComputeInstallment applies non-compounding interest over the whole term:
//
//	interest = principal × rate/100 × months
//	monthly  = (principal + interest) / months
func ComputeInstallment(principal decimal.Decimal, months int, monthlyRatePercent decimal.Decimal) (Installment, error) {
	if months < 1 {
		return Installment{}, ErrInvalidTerm
	}
	if principal.IsNegative() || monthlyRatePercent.IsNegative() {
		return Installment{}, ErrInvalidAmount
	}

	n := decimal.NewFromInt(int64(months))
	rate := monthlyRatePercent.Div(hundred)
	interest := principal.Mul(rate).Mul(n)
	total := principal.Add(interest)

	return Installment{
		Principal:           principal,
		Months:              months,
		MonthlyInterestRate: monthlyRatePercent,
		TotalInterest:       interest,
		TotalRepayment:      total,
		MonthlyPayment:      total.Div(n).Round(2),
		EffectiveAnnualRate: rate.Mul(decimal.NewFromInt(12)).Mul(hundred),
	}, nil
}

// ScheduleEntry is one due instalment.
type ScheduleEntry struct {
	Period  int             `json:"period"`
	DueDate time.Time       `json:"due_date"`
	Amount  decimal.Decimal `json:"amount"`
	Balance decimal.Decimal `json:"balance"` // outstanding after this payment
}

// RepaymentSchedule spreads TotalRepayment over equal monthly instalments.
// The final instalment absorbs rounding so the entries sum exactly to the total.
func RepaymentSchedule(principal decimal.Decimal, months int, monthlyRatePercent decimal.Decimal, start time.Time) ([]ScheduleEntry, error) {
	inst, err := ComputeInstallment(principal, months, monthlyRatePercent)
	if err != nil {
		return nil, err
	}

	schedule := make([]ScheduleEntry, 0, months)
	remaining := inst.TotalRepayment
	for period := 1; period <= months; period++ {
		amount := inst.MonthlyPayment
		if period == months {
			amount = remaining
		}
		remaining = remaining.Sub(amount)
		schedule = append(schedule, ScheduleEntry{
			Period:  period,
			DueDate: start.AddDate(0, period, 0),
			Amount:  amount,
			Balance: remaining,
		})
	}
	return schedule, nil
}
