package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type userService struct {
	pool *pgxpool.Pool
}

// NewUserService constructs a UserService backed by PostgreSQL.
func NewUserService(pool *pgxpool.Pool) UserService {
	return &userService{pool: pool}
}

const userColumns = `u.id, u.business_id, b.code, u.username, u.email, u.password_hash, u.role, u.is_active, u.created_at`

func scanUser(row pgx.Row) (*User, error) {
	u := &User{}
	err := row.Scan(&u.ID, &u.BusinessID, &u.BusinessCode, &u.Username, &u.Email, &u.PasswordHash, &u.Role, &u.IsActive, &u.CreatedAt)
	return u, err
}

func (s *userService) GetByUsername(ctx context.Context, username string) (*User, error) {
	u, err := scanUser(s.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users u
		JOIN businesses b ON b.id = u.business_id
		WHERE u.username = $1 AND u.is_active = true
		LIMIT 1`,
		username,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user %q: %w", username, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch user %q: %w", username, err)
	}
	return u, nil
}

func (s *userService) GetByID(ctx context.Context, userID int) (*User, error) {
	u, err := scanUser(s.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users u
		JOIN businesses b ON b.id = u.business_id
		WHERE u.id = $1`,
		userID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user id=%d: %w", userID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch user id=%d: %w", userID, err)
	}
	return u, nil
}

func (s *userService) CreateUser(ctx context.Context, businessCode, username, email, passwordHash, role string) (*User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, fieldErr("username", ErrRequired)
	}
	if role == "" {
		role = "OWNER"
	}

	businessID, err := resolveBusinessID(ctx, s.pool, businessCode)
	if err != nil {
		return nil, err
	}

	var id int
	err = s.pool.QueryRow(ctx, `
		INSERT INTO users (business_id, username, email, password_hash, role)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (username) DO NOTHING
		RETURNING id`,
		businessID, username, email, passwordHash, strings.ToUpper(role),
	).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("username %q is taken: %w", username, ErrDuplicate)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return s.GetByID(ctx, id)
}
