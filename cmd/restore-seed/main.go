// restore-seed loads the demo business used for local development and demos:
// one owner login, a few stock items with retail units and a welcome coin
// award. Every statement is idempotent so it can be re-run after a wipe.
//
// Usage: go run ./cmd/restore-seed
package main

import (
	"context"
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"

	"paddy-books/internal/app"
	"paddy-books/internal/config"
	"paddy-books/internal/core"
	"paddy-books/internal/db"
)

const seedBusiness = "MAMA"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(false); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	password := os.Getenv("SEED_PASSWORD")
	if password == "" {
		password = "changeme"
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer pool.Close()

	tx, err := pool.Begin(ctx)
	if err != nil {
		log.Fatalf("Failed to begin transaction: %v", err)
	}
	defer tx.Rollback(ctx)

	log.Println("Restoring business...")
	_, err = tx.Exec(ctx, `
		INSERT INTO businesses (code, name, owner_name, phone, state, sector)
		VALUES ($1, 'Mama Put Provisions', 'Adaeze Okafor', '08030000000', 'Lagos', 'retail')
		ON CONFLICT (code) DO UPDATE
		  SET name = EXCLUDED.name,
		      owner_name = EXCLUDED.owner_name;
	`, seedBusiness)
	if err != nil {
		log.Fatalf("Failed to restore business: %v", err)
	}

	log.Println("Restoring owner login...")
	_, err = tx.Exec(ctx, `
		INSERT INTO users (business_id, username, email, password_hash, role)
		SELECT id, 'mama', 'owner@mama.example', $2, 'OWNER'
		FROM businesses WHERE code = $1
		ON CONFLICT (username) DO UPDATE
		  SET password_hash = EXCLUDED.password_hash,
		      is_active = true;
	`, seedBusiness, string(hash))
	if err != nil {
		log.Fatalf("Failed to restore user: %v", err)
	}

	log.Println("Restoring stock items...")
	_, err = tx.Exec(ctx, `
		INSERT INTO stock_items (business_id, code, name, category, bulk_unit,
		                         bulk_cost_price, bulk_selling_price, quantity_in_bulk, reorder_level)
		SELECT b.id, s.code, s.name, s.category, s.bulk_unit,
		       s.cost::numeric, s.price::numeric, s.qty::numeric, s.reorder::numeric
		FROM businesses b, (VALUES
		    ('RICE50', 'Rice (50kg bag)',   'grains',    'bag',    '38000', '45000', '4',  '1'),
		    ('GARRI',  'Garri (paint bag)', 'grains',    'bag',    '9000',  '11500', '6',  '2'),
		    ('OIL25',  'Palm oil (25L)',    'oils',      'keg',    '28000', '33000', '2',  '1'),
		    ('INDOMIE','Indomie carton',    'groceries', 'carton', '7200',  '8400',  '10', '3')
		) AS s(code, name, category, bulk_unit, cost, price, qty, reorder)
		WHERE b.code = $1
		ON CONFLICT (business_id, code) DO UPDATE
		  SET name = EXCLUDED.name,
		      bulk_cost_price = EXCLUDED.bulk_cost_price,
		      bulk_selling_price = EXCLUDED.bulk_selling_price;
	`, seedBusiness)
	if err != nil {
		log.Fatalf("Failed to restore stock items: %v", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO stock_retail_units (stock_item_id, name, units_per_bulk, selling_price)
		SELECT si.id, u.name, u.per_bulk::numeric, u.price::numeric
		FROM stock_items si
		JOIN businesses b ON b.id = si.business_id
		JOIN (VALUES
		    ('RICE50',  'cup',    '100', '500'),
		    ('RICE50',  'derica', '40',  '1300'),
		    ('GARRI',   'cup',    '60',  '250'),
		    ('OIL25',   'bottle', '33',  '1200'),
		    ('INDOMIE', 'pack',   '40',  '250')
		) AS u(item_code, name, per_bulk, price) ON u.item_code = si.code
		WHERE b.code = $1
		ON CONFLICT (stock_item_id, name) DO UPDATE
		  SET units_per_bulk = EXCLUDED.units_per_bulk,
		      selling_price = EXCLUDED.selling_price;
	`, seedBusiness)
	if err != nil {
		log.Fatalf("Failed to restore retail units: %v", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO stock_movements (stock_item_id, movement_type, quantity, unit_cost, notes)
		SELECT si.id, 'OPENING', si.quantity_in_bulk, si.bulk_cost_price, 'seed'
		FROM stock_items si
		JOIN businesses b ON b.id = si.business_id
		WHERE b.code = $1
		  AND NOT EXISTS (
		      SELECT 1 FROM stock_movements m
		      WHERE m.stock_item_id = si.id AND m.movement_type = 'OPENING'
		  );
	`, seedBusiness)
	if err != nil {
		log.Fatalf("Failed to restore opening stock: %v", err)
	}

	if err := tx.Commit(ctx); err != nil {
		log.Fatalf("Failed to commit: %v", err)
	}

	// The wallet keeps its own transaction and balance_after chain.
	log.Println("Restoring welcome coins...")
	svc := app.NewServices(pool)
	award, err := svc.Wallet.Award(ctx, seedBusiness, core.ActionAddItem, "seed:welcome", "Welcome to PaddyBooks")
	if err != nil {
		log.Fatalf("Failed to award welcome coins: %v", err)
	}
	if award.Duplicate {
		log.Println("Welcome coins already awarded.")
	}

	log.Println("Seed data restored. Log in as mama.")
}
