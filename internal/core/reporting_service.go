package core

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// ReportingService provides read-only summaries over sales and expenses.
type ReportingService interface {
	// GetBusinessSummary covers [from, to]. Empty from defaults to the first
	// of the current month, empty to defaults to today.
	GetBusinessSummary(ctx context.Context, businessCode, from, to string) (*BusinessSummary, error)
	// MonthlyTrend returns the last n calendar months including the current one, oldest first.
	MonthlyTrend(ctx context.Context, businessCode string, n int) ([]MonthlyFigure, error)
	// AverageMonthlyRevenue averages MonthlyTrend over n months. This is the
	// revenue figure loan eligibility is computed from.
	AverageMonthlyRevenue(ctx context.Context, businessCode string, n int) (decimal.Decimal, error)
}

type reportingService struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

// NewReportingService constructs a ReportingService backed by the given pool.
func NewReportingService(pool *pgxpool.Pool) ReportingService {
	return &reportingService{pool: pool, now: time.Now}
}

// ── GetBusinessSummary ───────────────────────────────────────────────────────

func (s *reportingService) GetBusinessSummary(ctx context.Context, businessCode, from, to string) (*BusinessSummary, error) {
	businessID, err := resolveBusinessID(ctx, s.pool, businessCode)
	if err != nil {
		return nil, err
	}

	today := s.now()
	if from == "" {
		from = time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC).Format("2006-01-02")
	}
	if to == "" {
		to = today.Format("2006-01-02")
	}
	for _, d := range []string{from, to} {
		if _, err := time.Parse("2006-01-02", d); err != nil {
			return nil, invalidf("invalid date %q: expected YYYY-MM-DD", d)
		}
	}

	sum := &BusinessSummary{BusinessCode: businessCode, From: from, To: to}

	err = s.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(total), 0), COALESCE(SUM(cost), 0), COALESCE(SUM(amount_paid), 0),
		       COALESCE(SUM(balance), 0), count(*)
		FROM sales
		WHERE business_id = $1 AND sale_date BETWEEN $2 AND $3
	`, businessID, from, to).Scan(&sum.Revenue, &sum.CostOfSales, &sum.CashCollected, &sum.Outstanding, &sum.SaleCount)
	if err != nil {
		return nil, fmt.Errorf("failed to total sales: %w", err)
	}

	err = s.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0), count(*)
		FROM expenses
		WHERE business_id = $1 AND expense_date BETWEEN $2 AND $3
	`, businessID, from, to).Scan(&sum.Expenses, &sum.ExpenseCount)
	if err != nil {
		return nil, fmt.Errorf("failed to total expenses: %w", err)
	}

	rows, err := s.pool.Query(ctx, `
		SELECT sl.item_name, SUM(sl.quantity), SUM(sl.line_total), SUM(sl.profit)
		FROM sale_lines sl
		JOIN sales s ON s.id = sl.sale_id
		WHERE s.business_id = $1 AND s.sale_date BETWEEN $2 AND $3
		GROUP BY sl.item_name
		ORDER BY SUM(sl.line_total) DESC
		LIMIT 5
	`, businessID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query top items: %w", err)
	}
	for rows.Next() {
		var ip ItemPerformance
		if err := rows.Scan(&ip.ItemName, &ip.Quantity, &ip.Revenue, &ip.Profit); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan top item: %w", err)
		}
		sum.TopItems = append(sum.TopItems, ip)
	}
	rows.Close()

	rows, err = s.pool.Query(ctx, `
		SELECT category, SUM(amount)
		FROM expenses
		WHERE business_id = $1 AND expense_date BETWEEN $2 AND $3
		GROUP BY category
		ORDER BY SUM(amount) DESC
	`, businessID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query expense categories: %w", err)
	}
	for rows.Next() {
		var ct CategoryTotal
		if err := rows.Scan(&ct.Category, &ct.Amount); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan expense category: %w", err)
		}
		sum.ExpensesByKind = append(sum.ExpensesByKind, ct)
	}
	rows.Close()

	err = s.pool.QueryRow(ctx, `
		SELECT count(*) FROM stock_items
		WHERE business_id = $1 AND is_active = true AND quantity_in_bulk <= reorder_level
	`, businessID).Scan(&sum.LowStockItemCount)
	if err != nil {
		return nil, fmt.Errorf("failed to count low stock items: %w", err)
	}

	sum.Derive()
	return sum, nil
}

// ── Trend ────────────────────────────────────────────────────────────────────

func (s *reportingService) MonthlyTrend(ctx context.Context, businessCode string, n int) ([]MonthlyFigure, error) {
	if n < 1 {
		n = 1
	}
	businessID, err := resolveBusinessID(ctx, s.pool, businessCode)
	if err != nil {
		return nil, err
	}

	today := s.now()
	first := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(n - 1), 0)

	// generate_series keeps empty months in the average.
	rows, err := s.pool.Query(ctx, `
		WITH months AS (
			SELECT to_char(m, 'YYYY-MM') AS month
			FROM generate_series($2::date, $2::date + make_interval(months => $3 - 1), interval '1 month') AS m
		),
		sales_by_month AS (
			SELECT to_char(sale_date, 'YYYY-MM') AS month, SUM(total) AS revenue, SUM(profit) AS gross
			FROM sales
			WHERE business_id = $1 AND sale_date >= $2::date
			GROUP BY 1
		),
		expenses_by_month AS (
			SELECT to_char(expense_date, 'YYYY-MM') AS month, SUM(amount) AS spent
			FROM expenses
			WHERE business_id = $1 AND expense_date >= $2::date
			GROUP BY 1
		)
		SELECT m.month,
		       COALESCE(s.revenue, 0),
		       COALESCE(e.spent, 0),
		       COALESCE(s.gross, 0) - COALESCE(e.spent, 0)
		FROM months m
		LEFT JOIN sales_by_month s ON s.month = m.month
		LEFT JOIN expenses_by_month e ON e.month = m.month
		ORDER BY m.month
	`, businessID, first.Format("2006-01-02"), n)
	if err != nil {
		return nil, fmt.Errorf("failed to query monthly trend: %w", err)
	}
	defer rows.Close()

	var out []MonthlyFigure
	for rows.Next() {
		var f MonthlyFigure
		if err := rows.Scan(&f.Month, &f.Revenue, &f.Expenses, &f.Profit); err != nil {
			return nil, fmt.Errorf("failed to scan monthly figure: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (s *reportingService) AverageMonthlyRevenue(ctx context.Context, businessCode string, n int) (decimal.Decimal, error) {
	months, err := s.MonthlyTrend(ctx, businessCode, n)
	if err != nil {
		return decimal.Zero, err
	}
	return AverageOf(months), nil
}
