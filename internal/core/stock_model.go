package core

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// StockItem is something the business buys in bulk (a 50kg bag of rice) and
// may resell in smaller retail units (cups, derica).
// QuantityInBulk is always measured in bulk units.
type StockItem struct {
	ID               int             `json:"id"`
	BusinessID       int             `json:"business_id"`
	Code             string          `json:"code"`
	Name             string          `json:"name"`
	Category         string          `json:"category"`
	BulkUnit         string          `json:"bulk_unit"`
	BulkCostPrice    decimal.Decimal `json:"bulk_cost_price"`
	BulkSellingPrice decimal.Decimal `json:"bulk_selling_price"`
	QuantityInBulk   decimal.Decimal `json:"quantity_in_bulk"`
	ReorderLevel     decimal.Decimal `json:"reorder_level"`
	RetailUnits      []RetailUnit    `json:"retail_units"`
	IsActive         bool            `json:"is_active"`
	CreatedAt        time.Time       `json:"created_at"`
}

// RetailUnit is a smaller resale unit with a fixed conversion to the bulk unit.
type RetailUnit struct {
	ID           int             `json:"id"`
	StockItemID  int             `json:"stock_item_id"`
	Name         string          `json:"name"`
	UnitsPerBulk decimal.Decimal `json:"units_per_bulk"`
	SellingPrice decimal.Decimal `json:"selling_price"`
}

// StockMovement is an append-only change to QuantityInBulk.
type StockMovement struct {
	ID           int             `json:"id"`
	StockItemID  int             `json:"stock_item_id"`
	MovementType string          `json:"movement_type"` // RESTOCK, SALE, OPENING
	Quantity     decimal.Decimal `json:"quantity"`      // bulk units, signed
	UnitCost     decimal.Decimal `json:"unit_cost"`
	SaleID       *int            `json:"sale_id,omitempty"`
	Notes        string          `json:"notes"`
	CreatedAt    time.Time       `json:"created_at"`
}

// RetailUnitCost is the effective cost of one retail unit.
func RetailUnitCost(bulkCostPrice, unitsPerBulk decimal.Decimal) (decimal.Decimal, error) {
	if !unitsPerBulk.IsPositive() {
		return decimal.Zero, fieldErr("units per bulk", ErrNotPositive)
	}
	return bulkCostPrice.Div(unitsPerBulk), nil
}

// BulkEquivalent converts a retail quantity back into bulk units.
func BulkEquivalent(retailQuantity, unitsPerBulk decimal.Decimal) (decimal.Decimal, error) {
	if !unitsPerBulk.IsPositive() {
		return decimal.Zero, fieldErr("units per bulk", ErrNotPositive)
	}
	return retailQuantity.Div(unitsPerBulk), nil
}

// FindUnit resolves a unit name. An empty name or the bulk unit itself yields
// a synthetic unit with a conversion of one.
func (s StockItem) FindUnit(name string) (RetailUnit, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || name == strings.ToLower(s.BulkUnit) {
		return RetailUnit{
			StockItemID:  s.ID,
			Name:         s.BulkUnit,
			UnitsPerBulk: decimal.NewFromInt(1),
			SellingPrice: s.BulkSellingPrice,
		}, true
	}
	for _, u := range s.RetailUnits {
		if strings.ToLower(u.Name) == name {
			return u, true
		}
	}
	return RetailUnit{}, false
}

// PricedLine is a sale line priced from stock.
type PricedLine struct {
	UnitName     string
	UnitPrice    decimal.Decimal
	CostPrice    decimal.Decimal // per unit sold
	BulkQuantity decimal.Decimal
}

// PriceSale prices qty of the named unit. A zero sellingPrice falls back to the
// unit's list price.
func (s StockItem) PriceSale(unitName string, qty, sellingPrice decimal.Decimal) (PricedLine, error) {
	unit, ok := s.FindUnit(unitName)
	if !ok {
		return PricedLine{}, invalidf("%s is not sold by the %q", s.Name, unitName)
	}
	cost, err := RetailUnitCost(s.BulkCostPrice, unit.UnitsPerBulk)
	if err != nil {
		return PricedLine{}, err
	}
	bulk, err := BulkEquivalent(qty, unit.UnitsPerBulk)
	if err != nil {
		return PricedLine{}, err
	}
	price := sellingPrice
	if price.IsZero() {
		price = unit.SellingPrice
	}
	return PricedLine{
		UnitName:     unit.Name,
		UnitPrice:    price,
		CostPrice:    cost.Round(2),
		BulkQuantity: bulk,
	}, nil
}

// IsLowStock reports whether the item has fallen to its reorder level.
func (s StockItem) IsLowStock() bool {
	return s.QuantityInBulk.LessThanOrEqual(s.ReorderLevel)
}

// StockValue is the cost value of what is on hand.
func (s StockItem) StockValue() decimal.Decimal {
	return s.QuantityInBulk.Mul(s.BulkCostPrice)
}

// Validate checks a new item before it is stored.
func (s *StockItem) Validate() error {
	s.Code = strings.ToUpper(strings.TrimSpace(s.Code))
	s.Name = strings.TrimSpace(s.Name)
	s.BulkUnit = strings.ToLower(strings.TrimSpace(s.BulkUnit))

	if s.Code == "" {
		return fieldErr("item code", ErrRequired)
	}
	if s.Name == "" {
		return fieldErr("item name", ErrRequired)
	}
	if s.BulkUnit == "" {
		return fieldErr("bulk unit", ErrRequired)
	}
	if s.BulkCostPrice.IsNegative() {
		return fieldErr("cost price", ErrInvalidAmount)
	}
	if !s.BulkSellingPrice.IsPositive() {
		return fieldErr("selling price", ErrNotPositive)
	}
	if s.QuantityInBulk.IsNegative() {
		return fieldErr("quantity", ErrInvalidAmount)
	}

	seen := map[string]bool{s.BulkUnit: true}
	for i := range s.RetailUnits {
		u := &s.RetailUnits[i]
		u.Name = strings.ToLower(strings.TrimSpace(u.Name))
		if u.Name == "" {
			return fieldErr("retail unit name", ErrRequired)
		}
		if seen[u.Name] {
			return invalidf("unit %q is listed twice", u.Name)
		}
		seen[u.Name] = true
		if !u.UnitsPerBulk.IsPositive() {
			return fieldErr(u.Name+" units per "+s.BulkUnit, ErrNotPositive)
		}
		if !u.SellingPrice.IsPositive() {
			return fieldErr(u.Name+" selling price", ErrNotPositive)
		}
	}
	return nil
}
