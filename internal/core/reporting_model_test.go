package core_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"paddy-books/internal/core"
)

func TestBusinessSummary_Derive(t *testing.T) {
	s := core.BusinessSummary{
		Revenue:     dec("250000"),
		CostOfSales: dec("150000"),
		Expenses:    dec("40000"),
	}
	s.Derive()

	assert.True(t, s.GrossProfit.Equal(dec("100000")), "gross %s", s.GrossProfit)
	assert.True(t, s.NetProfit.Equal(dec("60000")), "net %s", s.NetProfit)
	assert.True(t, s.MarginPercent.Equal(dec("24")), "margin %s", s.MarginPercent)
}

func TestMarginPercent(t *testing.T) {
	assert.True(t, core.MarginPercent(dec("1"), dec("3")).Equal(dec("33.33")))
	assert.True(t, core.MarginPercent(dec("-500"), dec("1000")).Equal(dec("-50")))
	assert.True(t, core.MarginPercent(dec("500"), decimal.Zero).IsZero(), "zero revenue has no margin")
}

func TestAverageOf_CountsEmptyMonths(t *testing.T) {
	months := []core.MonthlyFigure{
		{Month: "2026-01", Revenue: decimal.Zero},
		{Month: "2026-02", Revenue: dec("100000")},
		{Month: "2026-03", Revenue: dec("50000")},
	}
	assert.True(t, core.AverageOf(months).Equal(dec("50000")))
	assert.True(t, core.AverageOf(nil).IsZero())
}
