package core

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ExpenseService interface {
	RecordExpense(ctx context.Context, businessCode string, e Expense) (*Expense, error)
	// ListExpenses returns expenses in [from, to]; empty bounds are open.
	ListExpenses(ctx context.Context, businessCode, from, to string) ([]Expense, error)
}

type expenseService struct {
	pool *pgxpool.Pool
	seq  SequenceService
}

func NewExpenseService(pool *pgxpool.Pool, seq SequenceService) ExpenseService {
	return &expenseService{pool: pool, seq: seq}
}

const expenseColumns = `id, business_id, reference, category, description, amount, expense_date::text, payment_method, created_at`

func scanExpense(row pgx.Row, e *Expense) error {
	return row.Scan(&e.ID, &e.BusinessID, &e.Reference, &e.Category, &e.Description, &e.Amount, &e.ExpenseDate, &e.PaymentMethod, &e.CreatedAt)
}

func (s *expenseService) RecordExpense(ctx context.Context, businessCode string, e Expense) (*Expense, error) {
	if err := e.Validate(); err != nil {
		return nil, err
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

	date, _ := time.Parse("2006-01-02", e.ExpenseDate)
	ref, err := s.seq.NextNumberTx(ctx, tx, businessID, SeqExpense, date.Year())
	if err != nil {
		return nil, err
	}

	var out Expense
	err = scanExpense(tx.QueryRow(ctx, `
		INSERT INTO expenses (business_id, reference, category, description, amount, expense_date, payment_method)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+expenseColumns,
		businessID, ref, e.Category, e.Description, e.Amount, e.ExpenseDate, e.PaymentMethod,
	), &out)
	if err != nil {
		return nil, fmt.Errorf("failed to insert expense: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit expense: %w", err)
	}
	return &out, nil
}

func (s *expenseService) ListExpenses(ctx context.Context, businessCode, from, to string) ([]Expense, error) {
	businessID, err := resolveBusinessID(ctx, s.pool, businessCode)
	if err != nil {
		return nil, err
	}

	query := "SELECT " + expenseColumns + " FROM expenses WHERE business_id = $1"
	args := []any{businessID}
	if from != "" {
		args = append(args, from)
		query += fmt.Sprintf(" AND expense_date >= $%d", len(args))
	}
	if to != "" {
		args = append(args, to)
		query += fmt.Sprintf(" AND expense_date <= $%d", len(args))
	}
	query += " ORDER BY expense_date DESC, id DESC"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses: %w", err)
	}
	defer rows.Close()

	var out []Expense
	for rows.Next() {
		var e Expense
		if err := scanExpense(rows, &e); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
