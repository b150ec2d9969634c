package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type InvoiceService interface {
	// CreateInvoice numbers the invoice gaplessly within its issue year.
	CreateInvoice(ctx context.Context, businessCode string, draft InvoiceDraft) (*Invoice, error)
	// CreateFromSale bills the customer for an existing sale's lines.
	CreateFromSale(ctx context.Context, businessCode, saleReference, dueDate string) (*Invoice, error)
	GetInvoice(ctx context.Context, businessCode, invoiceNumber string) (*Invoice, error)
	ListInvoices(ctx context.Context, businessCode string, status *InvoiceStatus) ([]Invoice, error)
	MarkPaid(ctx context.Context, businessCode, invoiceNumber string) (*Invoice, error)
}

type invoiceService struct {
	pool  *pgxpool.Pool
	seq   SequenceService
	sales SaleService
}

func NewInvoiceService(pool *pgxpool.Pool, seq SequenceService, sales SaleService) InvoiceService {
	return &invoiceService{pool: pool, seq: seq, sales: sales}
}

func (s *invoiceService) CreateInvoice(ctx context.Context, businessCode string, draft InvoiceDraft) (*Invoice, error) {
	draft.Normalize(time.Now())
	if err := draft.Validate(); err != nil {
		return nil, err
	}
	lines := draft.BuildLines()
	total := InvoiceTotal(lines)

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	businessID, err := resolveBusinessID(ctx, tx, businessCode)
	if err != nil {
		return nil, err
	}

	issued, _ := time.Parse("2006-01-02", draft.IssueDate)
	number, err := s.seq.NextNumberTx(ctx, tx, businessID, SeqInvoice, issued.Year())
	if err != nil {
		return nil, err
	}

	var invoiceID int
	err = tx.QueryRow(ctx, `
		INSERT INTO invoices (business_id, invoice_number, sale_id, customer_name, customer_phone, issue_date, due_date, total, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`, businessID, number, draft.SaleID, draft.CustomerName, draft.CustomerPhone, draft.IssueDate, draft.DueDate,
		total, draft.Notes).Scan(&invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to insert invoice: %w", err)
	}

	for _, l := range lines {
		if _, err := tx.Exec(ctx, `
			INSERT INTO invoice_lines (invoice_id, line_number, description, quantity, unit_price, line_total)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, invoiceID, l.LineNumber, l.Description, l.Quantity, l.UnitPrice, l.LineTotal); err != nil {
			return nil, fmt.Errorf("failed to insert invoice line %d: %w", l.LineNumber, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit invoice: %w", err)
	}
	return s.GetInvoice(ctx, businessCode, number)
}

func (s *invoiceService) CreateFromSale(ctx context.Context, businessCode, saleReference, dueDate string) (*Invoice, error) {
	sale, err := s.sales.GetSale(ctx, businessCode, saleReference)
	if err != nil {
		return nil, err
	}
	if sale.CustomerName == "" {
		return nil, invalidf("sale %s has no customer name to invoice", saleReference)
	}

	draft := InvoiceDraft{
		SaleID:        &sale.ID,
		CustomerName:  sale.CustomerName,
		CustomerPhone: sale.CustomerPhone,
		IssueDate:     time.Now().Format("2006-01-02"),
		DueDate:       dueDate,
		Notes:         "Sale " + sale.Reference,
	}
	for _, l := range sale.Lines {
		desc := l.ItemName
		if l.Unit != "" {
			desc = fmt.Sprintf("%s (%s)", l.ItemName, l.Unit)
		}
		draft.Lines = append(draft.Lines, InvoiceLineInput{Description: desc, Quantity: l.Quantity, UnitPrice: l.UnitPrice})
	}
	return s.CreateInvoice(ctx, businessCode, draft)
}

const invoiceColumns = `id, business_id, invoice_number, sale_id, customer_name, customer_phone, issue_date::text,
	due_date::text, status, total, notes, created_at, paid_at`

func scanInvoice(row pgx.Row, inv *Invoice) error {
	return row.Scan(&inv.ID, &inv.BusinessID, &inv.InvoiceNumber, &inv.SaleID, &inv.CustomerName, &inv.CustomerPhone,
		&inv.IssueDate, &inv.DueDate, &inv.Status, &inv.Total, &inv.Notes, &inv.CreatedAt, &inv.PaidAt)
}

func (s *invoiceService) GetInvoice(ctx context.Context, businessCode, invoiceNumber string) (*Invoice, error) {
	businessID, err := resolveBusinessID(ctx, s.pool, businessCode)
	if err != nil {
		return nil, err
	}

	var inv Invoice
	err = scanInvoice(s.pool.QueryRow(ctx,
		"SELECT "+invoiceColumns+" FROM invoices WHERE business_id = $1 AND invoice_number = $2",
		businessID, invoiceNumber), &inv)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("invoice %s: %w", invoiceNumber, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch invoice %s: %w", invoiceNumber, err)
	}

	rows, err := s.pool.Query(ctx, `
		SELECT id, invoice_id, line_number, description, quantity, unit_price, line_total
		FROM invoice_lines
		WHERE invoice_id = $1
		ORDER BY line_number
	`, inv.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to query invoice lines: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var l InvoiceLine
		if err := rows.Scan(&l.ID, &l.InvoiceID, &l.LineNumber, &l.Description, &l.Quantity, &l.UnitPrice, &l.LineTotal); err != nil {
			return nil, fmt.Errorf("failed to scan invoice line: %w", err)
		}
		inv.Lines = append(inv.Lines, l)
	}
	return &inv, rows.Err()
}

func (s *invoiceService) ListInvoices(ctx context.Context, businessCode string, status *InvoiceStatus) ([]Invoice, error) {
	businessID, err := resolveBusinessID(ctx, s.pool, businessCode)
	if err != nil {
		return nil, err
	}

	query := "SELECT " + invoiceColumns + " FROM invoices WHERE business_id = $1"
	args := []any{businessID}
	if status != nil {
		query += " AND status = $2"
		args = append(args, string(*status))
	}
	query += " ORDER BY id DESC"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query invoices: %w", err)
	}
	defer rows.Close()

	var out []Invoice
	for rows.Next() {
		var inv Invoice
		if err := scanInvoice(rows, &inv); err != nil {
			return nil, fmt.Errorf("failed to scan invoice: %w", err)
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

func (s *invoiceService) MarkPaid(ctx context.Context, businessCode, invoiceNumber string) (*Invoice, error) {
	businessID, err := resolveBusinessID(ctx, s.pool, businessCode)
	if err != nil {
		return nil, err
	}

	tag, err := s.pool.Exec(ctx, `
		UPDATE invoices SET status = 'PAID', paid_at = NOW()
		WHERE business_id = $1 AND invoice_number = $2 AND status = 'UNPAID'
	`, businessID, invoiceNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to mark invoice %s paid: %w", invoiceNumber, err)
	}
	if tag.RowsAffected() == 0 {
		inv, err := s.GetInvoice(ctx, businessCode, invoiceNumber)
		if err != nil {
			return nil, err
		}
		return nil, invalidf("invoice %s is already %s", invoiceNumber, inv.Status)
	}
	return s.GetInvoice(ctx, businessCode, invoiceNumber)
}
