package core_test

import (
	"context"
	"io"
	"log/slog"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"paddy-books/migrations"
)

const testBusiness = "TEST"

// setupTestDB rebuilds the schema from the embedded migrations and seeds one
// business. Point TEST_DATABASE_URL at a throwaway database.
func setupTestDB(t *testing.T) *pgxpool.Pool {
	_ = godotenv.Load("../../.env")

	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping integration test to protect live database")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	if _, err := pool.Exec(ctx, "DROP SCHEMA public CASCADE; CREATE SCHEMA public;"); err != nil {
		t.Fatalf("Failed to reset test schema: %v", err)
	}

	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	if _, err := migrations.Apply(ctx, pool, quiet); err != nil {
		t.Fatalf("Failed to apply migrations: %v", err)
	}

	if _, err := pool.Exec(ctx, `
		INSERT INTO businesses (code, name, owner_name, state, sector)
		VALUES ('TEST', 'Test Provisions', 'Ada Test', 'Lagos', 'retail');
	`); err != nil {
		t.Fatalf("Failed to seed test database: %v", err)
	}

	return pool
}

func businessID(t *testing.T, pool *pgxpool.Pool, code string) int {
	var id int
	if err := pool.QueryRow(context.Background(), "SELECT id FROM businesses WHERE code = $1", code).Scan(&id); err != nil {
		t.Fatalf("failed to resolve business %s: %v", code, err)
	}
	return id
}
