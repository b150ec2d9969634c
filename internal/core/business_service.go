package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// pgxQuerier is satisfied by both *pgxpool.Pool and pgx.Tx, enabling shared query helpers.
type pgxQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// resolveBusinessID looks up the internal business ID from a business code.
func resolveBusinessID(ctx context.Context, q pgxQuerier, businessCode string) (int, error) {
	var id int
	err := q.QueryRow(ctx, "SELECT id FROM businesses WHERE code = $1", businessCode).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("business %s: %w", businessCode, ErrNotFound)
		}
		return 0, fmt.Errorf("failed to resolve business %s: %w", businessCode, err)
	}
	return id, nil
}

type BusinessService interface {
	CreateBusiness(ctx context.Context, b Business) (*Business, error)
	GetBusiness(ctx context.Context, code string) (*Business, error)
	ListBusinesses(ctx context.Context) ([]Business, error)
}

type businessService struct {
	pool *pgxpool.Pool
}

func NewBusinessService(pool *pgxpool.Pool) BusinessService {
	return &businessService{pool: pool}
}

const businessColumns = `id, code, name, owner_name, phone, state, sector, base_currency, created_at`

func scanBusiness(row pgx.Row, b *Business) error {
	return row.Scan(&b.ID, &b.Code, &b.Name, &b.OwnerName, &b.Phone, &b.State, &b.Sector, &b.BaseCurrency, &b.CreatedAt)
}

func (s *businessService) CreateBusiness(ctx context.Context, b Business) (*Business, error) {
	b.Code = strings.ToUpper(strings.TrimSpace(b.Code))
	b.Name = strings.TrimSpace(b.Name)
	if b.Code == "" {
		return nil, fieldErr("business code", ErrRequired)
	}
	if b.Name == "" {
		return nil, fieldErr("business name", ErrRequired)
	}
	if b.BaseCurrency == "" {
		b.BaseCurrency = "NGN"
	}

	var out Business
	err := scanBusiness(s.pool.QueryRow(ctx, `
		INSERT INTO businesses (code, name, owner_name, phone, state, sector, base_currency)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (code) DO NOTHING
		RETURNING `+businessColumns,
		b.Code, b.Name, b.OwnerName, b.Phone, b.State, b.Sector, b.BaseCurrency,
	), &out)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("business code %s already exists: %w", b.Code, ErrDuplicate)
		}
		return nil, fmt.Errorf("failed to create business: %w", err)
	}
	return &out, nil
}

func (s *businessService) GetBusiness(ctx context.Context, code string) (*Business, error) {
	var b Business
	err := scanBusiness(s.pool.QueryRow(ctx, "SELECT "+businessColumns+" FROM businesses WHERE code = $1", code), &b)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("business %s: %w", code, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch business %s: %w", code, err)
	}
	return &b, nil
}

func (s *businessService) ListBusinesses(ctx context.Context) ([]Business, error) {
	rows, err := s.pool.Query(ctx, "SELECT "+businessColumns+" FROM businesses ORDER BY code")
	if err != nil {
		return nil, fmt.Errorf("failed to query businesses: %w", err)
	}
	defer rows.Close()

	var out []Business
	for rows.Next() {
		var b Business
		if err := scanBusiness(rows, &b); err != nil {
			return nil, fmt.Errorf("failed to scan business: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
