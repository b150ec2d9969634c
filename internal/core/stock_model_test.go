package core_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paddy-books/internal/core"
)

func riceBag() core.StockItem {
	return core.StockItem{
		ID:               7,
		Code:             "RICE50",
		Name:             "Rice (50kg)",
		BulkUnit:         "bag",
		BulkCostPrice:    dec("38000"),
		BulkSellingPrice: dec("45000"),
		QuantityInBulk:   dec("10"),
		ReorderLevel:     dec("2"),
		RetailUnits: []core.RetailUnit{
			{Name: "cup", UnitsPerBulk: dec("100"), SellingPrice: dec("500")},
			{Name: "derica", UnitsPerBulk: dec("40"), SellingPrice: dec("1200")},
		},
	}
}

func TestRetailUnitConversion(t *testing.T) {
	cost, err := core.RetailUnitCost(dec("38000"), dec("100"))
	require.NoError(t, err)
	assert.True(t, cost.Equal(dec("380")))

	bulk, err := core.BulkEquivalent(dec("25"), dec("100"))
	require.NoError(t, err)
	assert.True(t, bulk.Equal(dec("0.25")))

	_, err = core.RetailUnitCost(dec("38000"), dec("0"))
	assert.ErrorIs(t, err, core.ErrNotPositive)
	_, err = core.BulkEquivalent(dec("1"), dec("-4"))
	assert.ErrorIs(t, err, core.ErrNotPositive)
}

func TestStockItem_FindUnit(t *testing.T) {
	item := riceBag()

	u, ok := item.FindUnit("Cup")
	require.True(t, ok)
	assert.Equal(t, "cup", u.Name)

	u, ok = item.FindUnit("")
	require.True(t, ok)
	assert.Equal(t, "bag", u.Name)
	assert.True(t, u.UnitsPerBulk.Equal(dec("1")))

	_, ok = item.FindUnit("tin")
	assert.False(t, ok)
}

func TestStockItem_PriceSale(t *testing.T) {
	item := riceBag()

	pl, err := item.PriceSale("derica", dec("4"), dec("0"))
	require.NoError(t, err)
	assert.True(t, pl.UnitPrice.Equal(dec("1200")), "list price %s", pl.UnitPrice)
	assert.True(t, pl.CostPrice.Equal(dec("950")), "cost %s", pl.CostPrice)
	assert.True(t, pl.BulkQuantity.Equal(dec("0.1")), "bulk %s", pl.BulkQuantity)

	pl, err = item.PriceSale("cup", dec("3"), dec("550"))
	require.NoError(t, err)
	assert.True(t, pl.UnitPrice.Equal(dec("550")), "override price %s", pl.UnitPrice)

	_, err = item.PriceSale("tin", dec("1"), dec("0"))
	assert.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestStockItem_LowStockAndValue(t *testing.T) {
	item := riceBag()
	assert.False(t, item.IsLowStock())
	assert.True(t, item.StockValue().Equal(dec("380000")))

	item.QuantityInBulk = dec("2")
	assert.True(t, item.IsLowStock())
}

func TestStockItem_Validate(t *testing.T) {
	item := riceBag()
	item.Code = " rice50 "
	item.RetailUnits[0].Name = " CUP "
	require.NoError(t, item.Validate())
	assert.Equal(t, "RICE50", item.Code)
	assert.Equal(t, "cup", item.RetailUnits[0].Name)

	dup := riceBag()
	dup.RetailUnits[1].Name = "cup"
	assert.ErrorIs(t, dup.Validate(), core.ErrInvalidInput)

	zero := riceBag()
	zero.RetailUnits[0].UnitsPerBulk = dec("0")
	assert.ErrorIs(t, zero.Validate(), core.ErrNotPositive)

	noName := riceBag()
	noName.Name = ""
	assert.ErrorIs(t, noName.Validate(), core.ErrRequired)
}
