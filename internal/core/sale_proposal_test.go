package core_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paddy-books/internal/core"
)

func TestSaleProposal_NormalizeAndToDraft(t *testing.T) {
	p := core.SaleProposal{
		Kind:        "null",
		PaymentType: "partial",
		AmountPaid:  "₦1,000",
		SaleDate:    "2026-04-02",
		Lines: []core.SaleProposalLine{
			{ItemCode: "rice50", ItemName: "Rice", Unit: "Cup", Quantity: "3", UnitPrice: "500", CostPrice: "null"},
		},
	}
	p.Normalize()
	d, err := p.ToDraft()
	require.NoError(t, err)

	assert.Equal(t, core.KindProduct, d.Kind)
	assert.Equal(t, core.PaymentPartial, d.PaymentType)
	assert.True(t, d.AmountPaid.Equal(dec("1000")))
	require.Len(t, d.Lines, 1)
	assert.Equal(t, "RICE50", d.Lines[0].ItemCode)
	assert.Equal(t, "cup", d.Lines[0].Unit)
	assert.True(t, d.Lines[0].CostPrice.IsZero())
	assert.NoError(t, d.Validate())
}

func TestSaleProposal_ToDraftRejectsBadQuantity(t *testing.T) {
	tests := []struct {
		name string
		qty  string
		want error
	}{
		{"blank", "", core.ErrRequired},
		{"words", "three", core.ErrNotNumber},
		{"zero", "0", core.ErrNotPositive},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := core.SaleProposal{Lines: []core.SaleProposalLine{{ItemName: "Soap", Quantity: tc.qty, UnitPrice: "300"}}}
			p.Normalize()
			_, err := p.ToDraft()
			assert.ErrorIs(t, err, tc.want)
		})
	}
}
