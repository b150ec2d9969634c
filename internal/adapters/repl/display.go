package repl

import (
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"paddy-books/internal/app"
	"paddy-books/internal/core"
)

func naira(d decimal.Decimal) string {
	return "₦" + d.StringFixed(2)
}

func rule(out io.Writer, ch string, n int) {
	fmt.Fprintln(out, strings.Repeat(ch, n))
}

func printHelp(out io.Writer) {
	fmt.Fprintln(out, "Commands:")
	fmt.Fprintln(out, "  /sale                              record a sale step by step")
	fmt.Fprintln(out, "  /sales [owing]                     recent sales, or only those with a balance")
	fmt.Fprintln(out, "  /pay <sale-ref> <amount>           collect a payment on a sale")
	fmt.Fprintln(out, "  /invoice <sale-ref>                bill a sale")
	fmt.Fprintln(out, "  /expense <amount> <category> [note] record an expense")
	fmt.Fprintln(out, "  /stock                             stock on hand")
	fmt.Fprintln(out, "  /restock <item> <qty> [unit-cost]  add bulk units to an item")
	fmt.Fprintln(out, "  /coins                             Paddy Coin wallet and rewards")
	fmt.Fprintln(out, "  /redeem <option-id>                spend coins on a reward")
	fmt.Fprintln(out, "  /loan                              loan eligibility")
	fmt.Fprintln(out, "  /loan apply <amount> <months> [purpose]")
	fmt.Fprintln(out, "  /summary [from] [to]               profit and loss, month to date by default")
	fmt.Fprintln(out, "  /exit")
	fmt.Fprintln(out, "Anything else is read as a sale description, e.g. \"sold 3 cups of rice to Ngozi, she paid 1000\".")
}

func printPreview(out io.Writer, p *core.SalePreview) {
	fmt.Fprintln(out)
	rule(out, "-", 64)
	fmt.Fprintf(out, "  %s sale on %s", p.Draft.Kind, p.Draft.SaleDate)
	if p.Draft.CustomerName != "" {
		fmt.Fprintf(out, " to %s", p.Draft.CustomerName)
	}
	fmt.Fprintln(out)
	rule(out, "-", 64)
	fmt.Fprintf(out, "  %-24s %8s %-6s %10s %12s\n", "ITEM", "QTY", "UNIT", "PRICE", "TOTAL")
	for _, l := range p.Lines {
		fmt.Fprintf(out, "  %-24s %8s %-6s %10s %12s\n",
			l.ItemName, l.Quantity.String(), l.Unit, l.UnitPrice.StringFixed(2), l.LineTotal.StringFixed(2))
	}
	rule(out, "-", 64)
	t := p.Totals
	fmt.Fprintf(out, "  Total   %s   Profit %s\n", naira(t.Total), naira(t.Profit))
	fmt.Fprintf(out, "  Paid    %s   Balance %s  (%s)\n", naira(t.AmountPaid), naira(t.Balance), p.Draft.PaymentType)
}

func printSales(out io.Writer, res *app.SaleListResult) {
	fmt.Fprintln(out)
	if len(res.Sales) == 0 {
		fmt.Fprintln(out, "  No sales found.")
		return
	}
	fmt.Fprintf(out, "  %-16s %-10s %-18s %12s %12s\n", "REFERENCE", "DATE", "CUSTOMER", "TOTAL", "BALANCE")
	rule(out, "-", 72)
	for _, s := range res.Sales {
		fmt.Fprintf(out, "  %-16s %-10s %-18s %12s %12s\n",
			s.Reference, s.SaleDate, s.CustomerName, s.Total.StringFixed(2), s.Balance.StringFixed(2))
	}
	rule(out, "-", 72)
	fmt.Fprintf(out, "  %-46s %12s %12s\n", "TOTAL", res.Total.StringFixed(2), res.Outstanding.StringFixed(2))
}

func printStock(out io.Writer, res *app.StockListResult) {
	fmt.Fprintln(out)
	if len(res.Items) == 0 {
		fmt.Fprintln(out, "  No stock items yet.")
		return
	}
	fmt.Fprintf(out, "  %-10s %-24s %10s %-6s %12s\n", "CODE", "NAME", "ON HAND", "UNIT", "COST")
	rule(out, "-", 68)
	for _, it := range res.Items {
		flag := ""
		if it.IsLowStock() {
			flag = "  LOW"
		}
		fmt.Fprintf(out, "  %-10s %-24s %10s %-6s %12s%s\n",
			it.Code, it.Name, it.QuantityInBulk.StringFixed(2), it.BulkUnit, it.BulkCostPrice.StringFixed(2), flag)
		for _, u := range it.RetailUnits {
			fmt.Fprintf(out, "  %-10s   also by the %s (%s per %s) at %s\n", "", u.Name, u.UnitsPerBulk.String(), it.BulkUnit, naira(u.SellingPrice))
		}
	}
	rule(out, "-", 68)
	fmt.Fprintf(out, "  Stock value: %s\n", naira(res.StockValue))
}

func printWallet(out io.Writer, w *app.WalletResult) {
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  Balance: %d coins  (earned %d, spent %d)\n", w.Balance.Balance, w.Balance.TotalEarned, w.Balance.TotalRedeemed)
	fmt.Fprintf(out, "  Level %d %s", w.Level.Level, w.Level.Title)
	if w.Level.NextTitle != "" {
		fmt.Fprintf(out, ", %d coins to %s", w.Level.CoinsToNextLevel, w.Level.NextTitle)
	}
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  Loan tier: %s %s\n", w.Tier.Badge, w.Tier.Name)
	fmt.Fprintln(out, "  Rewards:")
	for _, r := range w.Redemptions {
		status := "available"
		if !r.Affordable {
			status = fmt.Sprintf("%d more coins", r.CoinsNeeded)
		}
		fmt.Fprintf(out, "    %-16s %-26s %4d  %s\n", r.ID, r.Name, r.Cost, status)
	}
}

func printOffer(out io.Writer, o *core.LoanOffer) {
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  Tier: %s %s (%d coins, average monthly revenue %s)\n", o.Tier.Badge, o.Tier.Name, o.CoinBalance, naira(o.MonthlyRevenue))
	if !o.Eligible {
		fmt.Fprintf(out, "  Not eligible yet. Earn %d more coins to unlock loans.\n", o.CoinsToNextTier)
		return
	}
	fmt.Fprintf(out, "  Max loan:     %s\n", naira(o.MaxLoan))
	fmt.Fprintf(out, "  Recommended:  %s\n", naira(o.RecommendedAmount))
	fmt.Fprintf(out, "  Rate:         %s%% per month, approval in %s\n", o.Tier.MonthlyInterestRate.String(), o.Tier.ApprovalTime)
	if o.NextTier != nil {
		fmt.Fprintf(out, "  %d coins to %s\n", o.CoinsToNextTier, o.NextTier.Name)
	}
}

func printLoan(out io.Writer, res *app.LoanResult) {
	a := res.Application
	fmt.Fprintf(out, "Loan application %s submitted (%s).\n", a.Reference, a.Status)
	fmt.Fprintf(out, "  %s over %d months at %s%%: repay %s, %s a month\n",
		naira(a.Amount), a.Months, a.MonthlyInterestRate.String(), naira(a.TotalRepayment), naira(a.MonthlyPayment))
	for _, e := range res.Schedule {
		fmt.Fprintf(out, "    %2d  %s  %12s\n", e.Period, e.DueDate.Format("2006-01-02"), e.Amount.StringFixed(2))
	}
}

func printSummary(out io.Writer, res *app.SummaryResult) {
	s := res.Summary
	fmt.Fprintln(out)
	rule(out, "=", 56)
	fmt.Fprintf(out, "  %s  %s to %s\n", s.BusinessCode, s.From, s.To)
	rule(out, "=", 56)
	fmt.Fprintf(out, "  %-28s %24s\n", "Revenue", naira(s.Revenue))
	fmt.Fprintf(out, "  %-28s %24s\n", "Cost of sales", naira(s.CostOfSales))
	fmt.Fprintf(out, "  %-28s %24s\n", "Gross profit", naira(s.GrossProfit))
	fmt.Fprintf(out, "  %-28s %24s\n", "Expenses", naira(s.Expenses))
	fmt.Fprintf(out, "  %-28s %24s\n", "Net profit", naira(s.NetProfit))
	fmt.Fprintf(out, "  %-28s %23s%%\n", "Margin", s.MarginPercent.StringFixed(2))
	fmt.Fprintf(out, "  %-28s %24s\n", "Owed by customers", naira(s.Outstanding))
	rule(out, "-", 56)
	fmt.Fprintf(out, "  %d sales, %d expenses, %d items low on stock\n", s.SaleCount, s.ExpenseCount, s.LowStockItemCount)
	if len(res.Trend) > 0 {
		fmt.Fprintln(out, "  Trend:")
		for _, m := range res.Trend {
			fmt.Fprintf(out, "    %s  revenue %14s  profit %14s\n", m.Month, m.Revenue.StringFixed(2), m.Profit.StringFixed(2))
		}
	}
}
