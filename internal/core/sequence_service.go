package core

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Reference prefixes numbered through document_sequences.
const (
	SeqSale    = "SAL"
	SeqExpense = "EXP"
	SeqInvoice = "INV"
	SeqLoan    = "LN"
)

type SequenceService interface {
	// NextNumber allocates in its own transaction. Use for standalone calls.
	NextNumber(ctx context.Context, businessID int, typeCode string, year int) (string, error)
	// NextNumberTx allocates inside the caller's transaction so the number is
	// only consumed if the row that carries it commits.
	NextNumberTx(ctx context.Context, tx pgx.Tx, businessID int, typeCode string, year int) (string, error)
}

type sequenceService struct {
	pool *pgxpool.Pool
}

func NewSequenceService(pool *pgxpool.Pool) SequenceService {
	return &sequenceService{pool: pool}
}

func (s *sequenceService) NextNumber(ctx context.Context, businessID int, typeCode string, year int) (string, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	ref, err := nextNumberWithTx(ctx, tx, businessID, typeCode, year)
	if err != nil {
		return "", err
	}

	if err := tx.Commit(ctx); err != nil {
		return "", fmt.Errorf("failed to commit transaction: %w", err)
	}
	return ref, nil
}

func (s *sequenceService) NextNumberTx(ctx context.Context, tx pgx.Tx, businessID int, typeCode string, year int) (string, error) {
	return nextNumberWithTx(ctx, tx, businessID, typeCode, year)
}

func nextNumberWithTx(ctx context.Context, tx pgx.Tx, businessID int, typeCode string, year int) (string, error) {
	// The upsert takes a row lock, so concurrent callers serialise on the
	// counter and every committed number is unique and gapless.
	var last int64
	err := tx.QueryRow(ctx, `
		INSERT INTO document_sequences (business_id, type_code, year, last_number)
		VALUES ($1, $2, $3, 1)
		ON CONFLICT (business_id, type_code, year)
		DO UPDATE SET last_number = document_sequences.last_number + 1
		RETURNING last_number
	`, businessID, typeCode, year).Scan(&last)
	if err != nil {
		return "", fmt.Errorf("failed to generate gapless sequence number: %w", err)
	}
	return FormatReference(typeCode, year, last), nil
}

// FormatReference renders TYPE-YEAR-00001.
func FormatReference(typeCode string, year int, seq int64) string {
	return fmt.Sprintf("%s-%d-%05d", typeCode, year, seq)
}
