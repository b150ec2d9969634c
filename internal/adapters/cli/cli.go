package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"

	"paddy-books/internal/app"
	"paddy-books/internal/core"
)

// ErrUsage is returned for an unknown subcommand or missing arguments.
var ErrUsage = errors.New("usage")

const usage = `Usage: app <command> [args]
  tiers                                    loan tier ladder
  tier <coins> [monthly-revenue]           place a coin balance on the ladder
  level <total-earned>                     coin level for cumulative earnings
  installment <amount> <months> <rate%|tier> [start YYYY-MM-DD]
  tax <annual-income> [deductions]         placeholder income tax estimate
  summary [from] [to]                      business summary (JSON)
  coins                                    wallet (JSON)
  eligibility                              loan offer (JSON)
  interpret "<sale description>"           AI sale reading (JSON)`

// Run executes a one-shot CLI command.
// args is os.Args[1:]; the first element is the subcommand name.
func Run(ctx context.Context, svc app.ApplicationService, args []string, out io.Writer) error {
	if len(args) == 0 {
		return usageErr("")
	}

	switch args[0] {
	case "tiers":
		printTiers(out, svc.LoanTiers(ctx))

	case "tier":
		if len(args) < 2 {
			return usageErr("tier <coins> [monthly-revenue]")
		}
		req := app.TierRequest{Coins: args[1]}
		if len(args) >= 3 {
			req.MonthlyRevenue = args[2]
		}
		res, err := svc.ResolveTier(ctx, req)
		if err != nil {
			return err
		}
		printTier(out, res)

	case "level":
		if len(args) < 2 {
			return usageErr("level <total-earned>")
		}
		status, err := svc.ResolveCoinLevel(ctx, args[1])
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Level %d: %s (%.0f%% through)\n", status.Level, status.Title, status.Progress)
		if status.NextTitle != "" {
			fmt.Fprintf(out, "%d coins to %s\n", status.CoinsToNextLevel, status.NextTitle)
		}

	case "installment", "inst":
		if len(args) < 4 {
			return usageErr("installment <amount> <months> <rate%|tier> [start]")
		}
		req := app.InstallmentRequest{Amount: args[1], Months: args[2]}
		if looksNumeric(args[3]) {
			req.Rate = args[3]
		} else {
			req.Tier = args[3]
		}
		if len(args) >= 5 {
			req.StartDate = args[4]
		}
		res, err := svc.ComputeInstallment(ctx, req)
		if err != nil {
			return err
		}
		printInstallment(out, res)

	case "tax":
		if len(args) < 2 {
			return usageErr("tax <annual-income> [deductions]")
		}
		req := app.TaxRequest{AnnualIncome: args[1]}
		if len(args) >= 3 {
			req.Deductions = args[2]
		}
		est, err := svc.EstimateTax(ctx, req)
		if err != nil {
			return err
		}
		printTax(out, est)

	case "summary", "coins", "eligibility", "interpret":
		return runBusinessCommand(ctx, svc, args, out)

	default:
		return usageErr("unknown command " + args[0])
	}
	return nil
}

func runBusinessCommand(ctx context.Context, svc app.ApplicationService, args []string, out io.Writer) error {
	business, err := svc.LoadDefaultBusiness(ctx)
	if err != nil {
		return fmt.Errorf("failed to load business: %w", err)
	}

	var result any
	switch args[0] {
	case "summary":
		var from, to string
		if len(args) >= 3 {
			from, to = args[1], args[2]
		}
		result, err = svc.GetSummary(ctx, business.Code, from, to)
	case "coins":
		result, err = svc.GetWallet(ctx, business.Code)
	case "eligibility":
		result, err = svc.LoanEligibility(ctx, business.Code)
	case "interpret":
		if len(args) < 2 {
			return usageErr(`interpret "<sale description>"`)
		}
		result, err = svc.InterpretSale(ctx, business.Code, strings.Join(args[1:], " "))
	}
	if err != nil {
		return err
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func usageErr(detail string) error {
	if detail == "" {
		return fmt.Errorf("%w\n%s", ErrUsage, usage)
	}
	return fmt.Errorf("%w: %s\n%s", ErrUsage, detail, usage)
}

func looksNumeric(s string) bool {
	s = strings.TrimSpace(s)
	return s != "" && (unicode.IsDigit(rune(s[0])) || s[0] == '.')
}

func printTiers(out io.Writer, tiers []core.LoanTier) {
	fmt.Fprintf(out, "  %-3s %-10s %8s %14s %8s  %s\n", "LVL", "TIER", "COINS", "MAX LOAN", "RATE", "APPROVAL")
	fmt.Fprintln(out, strings.Repeat("-", 62))
	for _, t := range tiers {
		fmt.Fprintf(out, "  %-3d %-10s %8d %14s %7s%%  %s\n",
			t.Level, t.Name, t.MinCoins, t.MaxLoanAmount.StringFixed(2), t.MonthlyInterestRate.String(), t.ApprovalTime)
	}
}

func printTier(out io.Writer, res *app.TierResult) {
	fmt.Fprintf(out, "Tier: %s %s (level %d)\n", res.Tier.Badge, res.Tier.Name, res.Tier.Level)
	if res.NextTier != nil {
		fmt.Fprintf(out, "%d coins to %s\n", res.CoinsToNextTier, res.NextTier.Name)
	}
	if e := res.Eligibility; e != nil {
		if !e.Eligible {
			fmt.Fprintln(out, "Not eligible for a loan yet.")
			return
		}
		fmt.Fprintf(out, "Max loan:    ₦%s\n", e.MaxLoan.StringFixed(2))
		fmt.Fprintf(out, "Recommended: ₦%s\n", e.RecommendedAmount.StringFixed(2))
	}
}

func printInstallment(out io.Writer, res *app.InstallmentResult) {
	fmt.Fprintf(out, "Principal:       ₦%s over %d months at %s%% a month\n",
		res.Principal.StringFixed(2), res.Months, res.MonthlyInterestRate.String())
	fmt.Fprintf(out, "Total interest:  ₦%s\n", res.TotalInterest.StringFixed(2))
	fmt.Fprintf(out, "Total repayment: ₦%s\n", res.TotalRepayment.StringFixed(2))
	fmt.Fprintf(out, "Monthly payment: ₦%s\n", res.MonthlyPayment.StringFixed(2))
	fmt.Fprintf(out, "Annual rate:     %s%%\n", res.EffectiveAnnualRate.StringFixed(2))
	for _, e := range res.Schedule {
		fmt.Fprintf(out, "  %2d  %s  %14s  %14s\n", e.Period, e.DueDate.Format("2006-01-02"), e.Amount.StringFixed(2), e.Balance.StringFixed(2))
	}
}

func printTax(out io.Writer, est *core.TaxEstimate) {
	fmt.Fprintf(out, "Taxable income: ₦%s\n", est.Taxable.StringFixed(2))
	for _, b := range est.Bands {
		if b.Taxable.IsZero() {
			continue
		}
		upper := "and above"
		if !b.To.IsZero() {
			upper = "to ₦" + b.To.StringFixed(0)
		}
		fmt.Fprintf(out, "  ₦%s %s at %s%%: ₦%s\n", b.From.StringFixed(0), upper, b.Rate.String(), b.Tax.StringFixed(2))
	}
	fmt.Fprintf(out, "Total tax:      ₦%s (%s%% effective)\n", est.TotalTax.StringFixed(2), est.EffectiveRate.StringFixed(2))
	fmt.Fprintf(out, "Set aside:      ₦%s a month\n", est.MonthlyProvision.StringFixed(2))
	fmt.Fprintln(out, "This is an estimate only, not tax advice.")
}
