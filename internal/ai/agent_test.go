package ai

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paddy-books/internal/core"
)

func TestParseInterpretation_Proposal(t *testing.T) {
	content := `{
		"is_clarification_request": false,
		"proposal": {
			"kind": "product",
			"customer_name": "null",
			"customer_phone": "",
			"sale_date": "2026-10-19",
			"payment_type": "partial",
			"amount_paid": "₦1,000",
			"notes": "",
			"confidence": 0.9,
			"reasoning": "3 cups of rice at 500 each",
			"lines": [
				{"item_code": "rice50", "item_name": "Rice", "unit": "Cup", "quantity": "3", "unit_price": "500", "cost_price": "none"}
			]
		}
	}`

	res, err := parseInterpretation(content)
	require.NoError(t, err)
	require.NotNil(t, res.Draft)
	assert.False(t, res.NeedsClarification())
	assert.False(t, res.LowConfidence)

	d := res.Draft
	assert.Equal(t, core.PaymentPartial, d.PaymentType)
	assert.Equal(t, "", d.CustomerName)
	assert.True(t, d.AmountPaid.Equal(decimal.NewFromInt(1000)))
	require.Len(t, d.Lines, 1)
	assert.Equal(t, "RICE50", d.Lines[0].ItemCode)
	assert.Equal(t, "cup", d.Lines[0].Unit)
	assert.True(t, d.Lines[0].Quantity.Equal(decimal.NewFromInt(3)))
	assert.True(t, d.Lines[0].CostPrice.IsZero())
}

func TestParseInterpretation_Clarification(t *testing.T) {
	res, err := parseInterpretation(`{"is_clarification_request": true, "clarification": {"message": "How much per cup?"}}`)
	require.NoError(t, err)
	assert.True(t, res.NeedsClarification())
	assert.Equal(t, "How much per cup?", res.Clarification)
	assert.Nil(t, res.Draft)
}

func TestParseInterpretation_Rejects(t *testing.T) {
	cases := map[string]string{
		"not json":            `sold rice`,
		"empty clarification": `{"is_clarification_request": true, "clarification": {"message": " "}}`,
		"no branch":           `{"is_clarification_request": false}`,
		"bad quantity":        `{"is_clarification_request": false, "proposal": {"lines": [{"item_name": "Rice", "quantity": "a few", "unit_price": "500"}]}}`,
	}
	for name, content := range cases {
		_, err := parseInterpretation(content)
		assert.Error(t, err, name)
	}
}

func TestParseInterpretation_NoLinesAsksAgain(t *testing.T) {
	res, err := parseInterpretation(`{"is_clarification_request": false, "proposal": {"confidence": 0.3, "lines": []}}`)
	require.NoError(t, err)
	assert.True(t, res.NeedsClarification())
}

func TestBuildSalePrompt_ListsStockAndDate(t *testing.T) {
	stock := []core.StockItem{{
		Code: "RICE50", Name: "Rice (50kg)", BulkUnit: "bag",
		BulkSellingPrice: decimal.NewFromInt(45000), QuantityInBulk: decimal.NewFromInt(2),
		RetailUnits: []core.RetailUnit{{Name: "cup", SellingPrice: decimal.NewFromInt(500)}},
	}}
	now := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)

	prompt := buildSalePrompt("sold 3 cups of rice", stock, now)
	assert.Contains(t, prompt, "Today is 2026-10-19.")
	assert.Contains(t, prompt, "- RICE50 Rice (50kg): bag at 45000.00; cup at 500.00 (on hand 2 bag)")
	assert.Contains(t, prompt, "Sale description: sold 3 cups of rice")

	assert.Contains(t, buildSalePrompt("x", nil, now), "treat every line as unstocked")
}

func TestSaleSchema_IsStrictObject(t *testing.T) {
	schema, err := saleSchema()
	require.NoError(t, err)
	assert.Equal(t, "object", schema["type"])
	assert.Equal(t, false, schema["additionalProperties"])
	props, ok := schema["properties"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, props, "proposal")
}

func TestInterpretSale_WithoutKey(t *testing.T) {
	_, err := NewAgent("", "").InterpretSale(context.Background(), "sold rice", nil)
	assert.True(t, errors.Is(err, ErrNotConfigured))
}
