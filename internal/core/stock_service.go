package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// StockService manages stock items, their retail units, and bulk quantity on hand.
type StockService interface {
	CreateItem(ctx context.Context, businessCode string, item StockItem) (*StockItem, error)
	GetItems(ctx context.Context, businessCode string) ([]StockItem, error)
	GetItem(ctx context.Context, businessCode, itemCode string) (*StockItem, error)
	LowStock(ctx context.Context, businessCode string) ([]StockItem, error)
	// Restock adds bulk units and re-averages the bulk cost price.
	Restock(ctx context.Context, businessCode, itemCode string, qty, unitCost decimal.Decimal, notes string) (*StockItem, error)

	// PriceDraft fills zero prices and costs on stocked lines and returns the
	// bulk quantity each line would consume. It reads without locking.
	PriceDraft(ctx context.Context, businessCode string, draft *SaleDraft) (StockAllocation, error)

	// TX-scoped operations used by SaleService so stock moves commit with the sale.

	// AllocateTx is PriceDraft under row locks, and also checks availability.
	AllocateTx(ctx context.Context, tx pgx.Tx, businessID int, draft *SaleDraft) (StockAllocation, error)
	// DeductForSaleTx removes allocated bulk quantities and writes SALE movements.
	DeductForSaleTx(ctx context.Context, tx pgx.Tx, saleID int, lines []SaleLine) error
}

// StockAllocation maps draft line indexes to the stock they draw on.
type StockAllocation struct {
	BulkQuantity map[int]decimal.Decimal
	StockItemID  map[int]int
}

type stockService struct {
	pool *pgxpool.Pool
}

func NewStockService(pool *pgxpool.Pool) StockService {
	return &stockService{pool: pool}
}

// pgxReader extends pgxQuerier with multi-row queries.
type pgxReader interface {
	pgxQuerier
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

const stockItemColumns = `id, business_id, code, name, category, bulk_unit, bulk_cost_price, bulk_selling_price,
	quantity_in_bulk, reorder_level, is_active, created_at`

func scanStockItem(row pgx.Row, it *StockItem) error {
	return row.Scan(&it.ID, &it.BusinessID, &it.Code, &it.Name, &it.Category, &it.BulkUnit,
		&it.BulkCostPrice, &it.BulkSellingPrice, &it.QuantityInBulk, &it.ReorderLevel, &it.IsActive, &it.CreatedAt)
}

func loadRetailUnits(ctx context.Context, q pgxReader, itemID int) ([]RetailUnit, error) {
	rows, err := q.Query(ctx, `
		SELECT id, stock_item_id, name, units_per_bulk, selling_price
		FROM stock_retail_units
		WHERE stock_item_id = $1
		ORDER BY units_per_bulk, name
	`, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to query retail units: %w", err)
	}
	defer rows.Close()

	var units []RetailUnit
	for rows.Next() {
		var u RetailUnit
		if err := rows.Scan(&u.ID, &u.StockItemID, &u.Name, &u.UnitsPerBulk, &u.SellingPrice); err != nil {
			return nil, fmt.Errorf("failed to scan retail unit: %w", err)
		}
		units = append(units, u)
	}
	return units, rows.Err()
}

// loadItem reads one item by code, with FOR UPDATE when lock is set.
func loadItem(ctx context.Context, q pgxReader, businessID int, code string, lock bool) (*StockItem, error) {
	query := "SELECT " + stockItemColumns + " FROM stock_items WHERE business_id = $1 AND code = $2 AND is_active = true"
	if lock {
		query += " FOR UPDATE"
	}
	var it StockItem
	if err := scanStockItem(q.QueryRow(ctx, query, businessID, code), &it); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("stock item %s: %w", code, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch stock item %s: %w", code, err)
	}
	units, err := loadRetailUnits(ctx, q, it.ID)
	if err != nil {
		return nil, err
	}
	it.RetailUnits = units
	return &it, nil
}

// ── Master data ──────────────────────────────────────────────────────────────

func (s *stockService) CreateItem(ctx context.Context, businessCode string, item StockItem) (*StockItem, error) {
	if err := item.Validate(); err != nil {
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

	var itemID int
	err = tx.QueryRow(ctx, `
		INSERT INTO stock_items (business_id, code, name, category, bulk_unit, bulk_cost_price, bulk_selling_price, quantity_in_bulk, reorder_level)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (business_id, code) DO NOTHING
		RETURNING id
	`, businessID, item.Code, item.Name, item.Category, item.BulkUnit, item.BulkCostPrice, item.BulkSellingPrice,
		item.QuantityInBulk, item.ReorderLevel).Scan(&itemID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("stock item %s already exists: %w", item.Code, ErrDuplicate)
		}
		return nil, fmt.Errorf("failed to create stock item: %w", err)
	}

	for _, u := range item.RetailUnits {
		if _, err := tx.Exec(ctx, `
			INSERT INTO stock_retail_units (stock_item_id, name, units_per_bulk, selling_price)
			VALUES ($1, $2, $3, $4)
		`, itemID, u.Name, u.UnitsPerBulk, u.SellingPrice); err != nil {
			return nil, fmt.Errorf("failed to insert retail unit %s: %w", u.Name, err)
		}
	}

	if item.QuantityInBulk.IsPositive() {
		if _, err := tx.Exec(ctx, `
			INSERT INTO stock_movements (stock_item_id, movement_type, quantity, unit_cost, notes)
			VALUES ($1, 'OPENING', $2, $3, 'Opening stock')
		`, itemID, item.QuantityInBulk, item.BulkCostPrice); err != nil {
			return nil, fmt.Errorf("failed to insert opening movement: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit stock item: %w", err)
	}
	return s.GetItem(ctx, businessCode, item.Code)
}

func (s *stockService) GetItems(ctx context.Context, businessCode string) ([]StockItem, error) {
	return s.queryItems(ctx, businessCode, "")
}

func (s *stockService) LowStock(ctx context.Context, businessCode string) ([]StockItem, error) {
	return s.queryItems(ctx, businessCode, " AND quantity_in_bulk <= reorder_level")
}

func (s *stockService) queryItems(ctx context.Context, businessCode, filter string) ([]StockItem, error) {
	businessID, err := resolveBusinessID(ctx, s.pool, businessCode)
	if err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx, "SELECT "+stockItemColumns+`
		FROM stock_items
		WHERE business_id = $1 AND is_active = true`+filter+`
		ORDER BY code`, businessID)
	if err != nil {
		return nil, fmt.Errorf("failed to query stock items: %w", err)
	}

	var items []StockItem
	for rows.Next() {
		var it StockItem
		if err := scanStockItem(rows, &it); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan stock item: %w", err)
		}
		items = append(items, it)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read stock items: %w", err)
	}

	for i := range items {
		units, err := loadRetailUnits(ctx, s.pool, items[i].ID)
		if err != nil {
			return nil, err
		}
		items[i].RetailUnits = units
	}
	return items, nil
}

func (s *stockService) GetItem(ctx context.Context, businessCode, itemCode string) (*StockItem, error) {
	businessID, err := resolveBusinessID(ctx, s.pool, businessCode)
	if err != nil {
		return nil, err
	}
	return loadItem(ctx, s.pool, businessID, itemCode, false)
}

// Restock records a delivery. The bulk cost price becomes the weighted average:
//
//	new_cost = (old_qty × old_cost + qty × unit_cost) / (old_qty + qty)
func (s *stockService) Restock(ctx context.Context, businessCode, itemCode string, qty, unitCost decimal.Decimal, notes string) (*StockItem, error) {
	if !qty.IsPositive() {
		return nil, fieldErr("restock quantity", ErrNotPositive)
	}
	if unitCost.IsNegative() {
		return nil, fieldErr("unit cost", ErrInvalidAmount)
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
	item, err := loadItem(ctx, tx, businessID, itemCode, true)
	if err != nil {
		return nil, err
	}

	newQty := item.QuantityInBulk.Add(qty)
	newCost := item.QuantityInBulk.Mul(item.BulkCostPrice).Add(qty.Mul(unitCost)).Div(newQty).Round(2)

	if _, err := tx.Exec(ctx, `
		UPDATE stock_items SET quantity_in_bulk = $1, bulk_cost_price = $2 WHERE id = $3
	`, newQty, newCost, item.ID); err != nil {
		return nil, fmt.Errorf("failed to update stock item %s: %w", itemCode, err)
	}
	if _, err := tx.Exec(ctx, `
		INSERT INTO stock_movements (stock_item_id, movement_type, quantity, unit_cost, notes)
		VALUES ($1, 'RESTOCK', $2, $3, $4)
	`, item.ID, qty, unitCost, notes); err != nil {
		return nil, fmt.Errorf("failed to insert restock movement: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit restock: %w", err)
	}
	return s.GetItem(ctx, businessCode, itemCode)
}

// ── Sale pricing and deduction ───────────────────────────────────────────────

func (s *stockService) PriceDraft(ctx context.Context, businessCode string, draft *SaleDraft) (StockAllocation, error) {
	businessID, err := resolveBusinessID(ctx, s.pool, businessCode)
	if err != nil {
		return StockAllocation{}, err
	}
	return allocate(ctx, s.pool, businessID, draft, false)
}

func (s *stockService) AllocateTx(ctx context.Context, tx pgx.Tx, businessID int, draft *SaleDraft) (StockAllocation, error) {
	return allocate(ctx, tx, businessID, draft, true)
}

// allocate prices every line that names an item code. Service sales and
// free-text lines pass through untouched.
func allocate(ctx context.Context, q pgxReader, businessID int, draft *SaleDraft, lock bool) (StockAllocation, error) {
	alloc := StockAllocation{
		BulkQuantity: make(map[int]decimal.Decimal),
		StockItemID:  make(map[int]int),
	}
	if draft.Kind == KindService {
		return alloc, nil
	}

	items := make(map[string]*StockItem)
	needed := make(map[string]decimal.Decimal)

	for i := range draft.Lines {
		line := &draft.Lines[i]
		if line.ItemCode == "" {
			continue
		}
		item, ok := items[line.ItemCode]
		if !ok {
			var err error
			item, err = loadItem(ctx, q, businessID, line.ItemCode, lock)
			if err != nil {
				return StockAllocation{}, fmt.Errorf("line %d: %w", i+1, err)
			}
			items[line.ItemCode] = item
		}

		priced, err := item.PriceSale(line.Unit, line.Quantity, line.UnitPrice)
		if err != nil {
			return StockAllocation{}, fmt.Errorf("line %d: %w", i+1, err)
		}
		line.Unit = priced.UnitName
		line.UnitPrice = priced.UnitPrice
		if line.CostPrice.IsZero() {
			line.CostPrice = priced.CostPrice
		}
		if line.ItemName == "" {
			line.ItemName = item.Name
		}

		alloc.BulkQuantity[i] = priced.BulkQuantity
		alloc.StockItemID[i] = item.ID
		needed[item.Code] = needed[item.Code].Add(priced.BulkQuantity)
	}

	if lock {
		for code, qty := range needed {
			item := items[code]
			if item.QuantityInBulk.LessThan(qty) {
				return StockAllocation{}, fmt.Errorf("%s has %s %s left, sale needs %s: %w",
					item.Name, item.QuantityInBulk.StringFixed(2), item.BulkUnit, qty.StringFixed(2), ErrInsufficientStock)
			}
		}
	}
	return alloc, nil
}

func (s *stockService) DeductForSaleTx(ctx context.Context, tx pgx.Tx, saleID int, lines []SaleLine) error {
	for _, l := range lines {
		if l.StockItemID == nil || l.BulkQuantity.IsZero() {
			continue
		}
		if _, err := tx.Exec(ctx, `
			UPDATE stock_items SET quantity_in_bulk = quantity_in_bulk - $1 WHERE id = $2
		`, l.BulkQuantity, *l.StockItemID); err != nil {
			return fmt.Errorf("failed to deduct stock for %s: %w", l.ItemName, err)
		}
		if _, err := tx.Exec(ctx, `
			INSERT INTO stock_movements (stock_item_id, movement_type, quantity, unit_cost, sale_id, notes)
			VALUES ($1, 'SALE', $2, $3, $4, $5)
		`, *l.StockItemID, l.BulkQuantity.Neg(), l.CostPrice, saleID,
			fmt.Sprintf("Sold %s %s of %s", l.Quantity.String(), l.Unit, l.ItemName),
		); err != nil {
			return fmt.Errorf("failed to insert sale movement for %s: %w", l.ItemName, err)
		}
	}
	return nil
}
