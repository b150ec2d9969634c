package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// SaleService records sales with their lines, stock deductions and payments.
type SaleService interface {
	// PreviewSale prices and validates a draft without saving it (the confirm step).
	PreviewSale(ctx context.Context, businessCode string, draft SaleDraft) (*SalePreview, error)
	// RecordSale saves the sale, deducts stock and records any up-front payment in one transaction.
	RecordSale(ctx context.Context, businessCode string, draft SaleDraft) (*Sale, error)
	// RecordPayment collects money against an outstanding balance.
	RecordPayment(ctx context.Context, businessCode, reference string, amount decimal.Decimal, paymentDate string) (*Sale, error)

	GetSale(ctx context.Context, businessCode, reference string) (*Sale, error)
	ListSales(ctx context.Context, businessCode string, filter SaleFilter) ([]Sale, error)
	CountSales(ctx context.Context, businessCode string) (int, error)
}

// SaleFilter narrows ListSales. Zero values mean no restriction.
type SaleFilter struct {
	From        string // YYYY-MM-DD inclusive
	To          string // YYYY-MM-DD inclusive
	Outstanding bool   // only sales with a balance
	Limit       int
}

// SalePreview is the confirm-step view of a priced draft.
type SalePreview struct {
	Draft  SaleDraft  `json:"draft"`
	Lines  []SaleLine `json:"lines"`
	Totals SaleTotals `json:"totals"`
}

type saleService struct {
	pool  *pgxpool.Pool
	stock StockService
	seq   SequenceService
}

func NewSaleService(pool *pgxpool.Pool, stock StockService, seq SequenceService) SaleService {
	return &saleService{pool: pool, stock: stock, seq: seq}
}

func (s *saleService) PreviewSale(ctx context.Context, businessCode string, draft SaleDraft) (*SalePreview, error) {
	draft.Normalize()
	alloc, err := s.stock.PriceDraft(ctx, businessCode, &draft)
	if err != nil {
		return nil, err
	}
	if err := draft.Validate(); err != nil {
		return nil, err
	}
	return &SalePreview{
		Draft:  draft,
		Lines:  draft.BuildLines(alloc.BulkQuantity, alloc.StockItemID),
		Totals: draft.Totals(),
	}, nil
}

func (s *saleService) RecordSale(ctx context.Context, businessCode string, draft SaleDraft) (*Sale, error) {
	draft.Normalize()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	businessID, err := resolveBusinessID(ctx, tx, businessCode)
	if err != nil {
		return nil, err
	}

	// Pricing from stock has to happen before validation: a stocked line may
	// arrive with a zero price meaning "use the list price".
	alloc, err := s.stock.AllocateTx(ctx, tx, businessID, &draft)
	if err != nil {
		return nil, err
	}
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	totals := draft.Totals()
	lines := draft.BuildLines(alloc.BulkQuantity, alloc.StockItemID)

	saleDate, _ := time.Parse("2006-01-02", draft.SaleDate)
	reference, err := s.seq.NextNumberTx(ctx, tx, businessID, SeqSale, saleDate.Year())
	if err != nil {
		return nil, err
	}

	var saleID int
	err = tx.QueryRow(ctx, `
		INSERT INTO sales (business_id, reference, kind, customer_name, customer_phone, sale_date, payment_type,
		                   total, cost, profit, amount_paid, balance, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id
	`, businessID, reference, string(draft.Kind), draft.CustomerName, draft.CustomerPhone, draft.SaleDate,
		string(draft.PaymentType), totals.Total, totals.Cost, totals.Profit, totals.AmountPaid, totals.Balance, draft.Notes,
	).Scan(&saleID)
	if err != nil {
		return nil, fmt.Errorf("failed to insert sale: %w", err)
	}

	for _, l := range lines {
		_, err = tx.Exec(ctx, `
			INSERT INTO sale_lines (sale_id, line_number, stock_item_id, item_name, unit, quantity, unit_price,
			                        cost_price, line_total, profit, bulk_quantity)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		`, saleID, l.LineNumber, l.StockItemID, l.ItemName, l.Unit, l.Quantity, l.UnitPrice,
			l.CostPrice, l.LineTotal, l.Profit, l.BulkQuantity)
		if err != nil {
			return nil, fmt.Errorf("failed to insert sale line %d: %w", l.LineNumber, err)
		}
	}

	if err := s.stock.DeductForSaleTx(ctx, tx, saleID, lines); err != nil {
		return nil, err
	}

	if totals.AmountPaid.IsPositive() {
		if _, err := tx.Exec(ctx, `
			INSERT INTO sale_payments (sale_id, amount, payment_date) VALUES ($1, $2, $3)
		`, saleID, totals.AmountPaid, draft.SaleDate); err != nil {
			return nil, fmt.Errorf("failed to insert sale payment: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit sale: %w", err)
	}
	return s.GetSale(ctx, businessCode, reference)
}

func (s *saleService) RecordPayment(ctx context.Context, businessCode, reference string, amount decimal.Decimal, paymentDate string) (*Sale, error) {
	if paymentDate == "" {
		paymentDate = time.Now().Format("2006-01-02")
	}
	if _, err := time.Parse("2006-01-02", paymentDate); err != nil {
		return nil, invalidf("invalid payment date %q: expected YYYY-MM-DD", paymentDate)
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

	var sale Sale
	err = tx.QueryRow(ctx, `
		SELECT id, reference, total, amount_paid, balance
		FROM sales
		WHERE business_id = $1 AND reference = $2
		FOR UPDATE
	`, businessID, reference).Scan(&sale.ID, &sale.Reference, &sale.Total, &sale.AmountPaid, &sale.Balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("sale %s: %w", reference, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to lock sale %s: %w", reference, err)
	}

	paid, balance, err := ApplyPayment(sale, amount)
	if err != nil {
		return nil, err
	}

	if _, err := tx.Exec(ctx, `
		UPDATE sales SET amount_paid = $1, balance = $2, payment_type = $3 WHERE id = $4
	`, paid, balance, string(PaymentTypeAfter(sale.Total, balance)), sale.ID); err != nil {
		return nil, fmt.Errorf("failed to update sale %s: %w", reference, err)
	}
	if _, err := tx.Exec(ctx, `
		INSERT INTO sale_payments (sale_id, amount, payment_date) VALUES ($1, $2, $3)
	`, sale.ID, amount, paymentDate); err != nil {
		return nil, fmt.Errorf("failed to insert sale payment: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit payment: %w", err)
	}
	return s.GetSale(ctx, businessCode, reference)
}

// ── Queries ──────────────────────────────────────────────────────────────────

const saleColumns = `id, business_id, reference, kind, customer_name, customer_phone, sale_date::text, payment_type,
	total, cost, profit, amount_paid, balance, notes, created_at`

func scanSale(row pgx.Row, sl *Sale) error {
	return row.Scan(&sl.ID, &sl.BusinessID, &sl.Reference, &sl.Kind, &sl.CustomerName, &sl.CustomerPhone,
		&sl.SaleDate, &sl.PaymentType, &sl.Total, &sl.Cost, &sl.Profit, &sl.AmountPaid, &sl.Balance,
		&sl.Notes, &sl.CreatedAt)
}

func (s *saleService) GetSale(ctx context.Context, businessCode, reference string) (*Sale, error) {
	businessID, err := resolveBusinessID(ctx, s.pool, businessCode)
	if err != nil {
		return nil, err
	}

	var sale Sale
	err = scanSale(s.pool.QueryRow(ctx,
		"SELECT "+saleColumns+" FROM sales WHERE business_id = $1 AND reference = $2",
		businessID, reference), &sale)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("sale %s: %w", reference, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch sale %s: %w", reference, err)
	}

	rows, err := s.pool.Query(ctx, `
		SELECT id, sale_id, line_number, stock_item_id, item_name, unit, quantity, unit_price,
		       cost_price, line_total, profit, bulk_quantity
		FROM sale_lines
		WHERE sale_id = $1
		ORDER BY line_number
	`, sale.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to query sale lines: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var l SaleLine
		if err := rows.Scan(&l.ID, &l.SaleID, &l.LineNumber, &l.StockItemID, &l.ItemName, &l.Unit, &l.Quantity,
			&l.UnitPrice, &l.CostPrice, &l.LineTotal, &l.Profit, &l.BulkQuantity); err != nil {
			return nil, fmt.Errorf("failed to scan sale line: %w", err)
		}
		sale.Lines = append(sale.Lines, l)
	}
	return &sale, rows.Err()
}

func (s *saleService) ListSales(ctx context.Context, businessCode string, filter SaleFilter) ([]Sale, error) {
	businessID, err := resolveBusinessID(ctx, s.pool, businessCode)
	if err != nil {
		return nil, err
	}

	query := "SELECT " + saleColumns + " FROM sales WHERE business_id = $1"
	args := []any{businessID}
	if filter.From != "" {
		args = append(args, filter.From)
		query += fmt.Sprintf(" AND sale_date >= $%d", len(args))
	}
	if filter.To != "" {
		args = append(args, filter.To)
		query += fmt.Sprintf(" AND sale_date <= $%d", len(args))
	}
	if filter.Outstanding {
		query += " AND balance > 0"
	}
	query += " ORDER BY sale_date DESC, id DESC"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sales: %w", err)
	}
	defer rows.Close()

	var sales []Sale
	for rows.Next() {
		var sl Sale
		if err := scanSale(rows, &sl); err != nil {
			return nil, fmt.Errorf("failed to scan sale: %w", err)
		}
		sales = append(sales, sl)
	}
	return sales, rows.Err()
}

func (s *saleService) CountSales(ctx context.Context, businessCode string) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx, `
		SELECT count(*) FROM sales s JOIN businesses b ON b.id = s.business_id WHERE b.code = $1
	`, businessCode).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count sales: %w", err)
	}
	return n, nil
}
