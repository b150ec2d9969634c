package core_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paddy-books/internal/core"
)

func TestEstimateTax_Progressive(t *testing.T) {
	est := core.EstimateTax(dec("5000000"), dec("0"))

	require.Len(t, est.Bands, 3)
	assert.True(t, est.Bands[0].Tax.IsZero())
	assert.True(t, est.Bands[1].Tax.Equal(dec("330000")), "band 2 %s", est.Bands[1].Tax)
	assert.True(t, est.Bands[2].Taxable.Equal(dec("2000000")))
	assert.True(t, est.Bands[2].Tax.Equal(dec("360000")), "band 3 %s", est.Bands[2].Tax)
	assert.True(t, est.TotalTax.Equal(dec("690000")), "total %s", est.TotalTax)
	assert.True(t, est.EffectiveRate.Equal(dec("13.8")), "effective %s", est.EffectiveRate)
	assert.True(t, est.MonthlyProvision.Equal(dec("57500")), "monthly %s", est.MonthlyProvision)
}

func TestEstimateTax_BelowThreshold(t *testing.T) {
	est := core.EstimateTax(dec("900000"), dec("200000"))
	assert.True(t, est.Taxable.Equal(dec("700000")))
	assert.True(t, est.TotalTax.IsZero())
}

func TestEstimateTax_TopBandUnbounded(t *testing.T) {
	est := core.EstimateTax(dec("60000000"), dec("0"))
	require.Len(t, est.Bands, 6)
	top := est.Bands[5]
	assert.True(t, top.To.IsZero())
	assert.True(t, top.From.Equal(dec("50000000")))
	assert.True(t, top.Taxable.Equal(dec("10000000")))
	assert.True(t, top.Tax.Equal(dec("2500000")))
}

func TestEstimateTax_NegativeClamps(t *testing.T) {
	est := core.EstimateTax(dec("-100"), dec("-5"))
	assert.True(t, est.Taxable.IsZero())
	assert.True(t, est.TotalTax.IsZero())
	assert.True(t, est.EffectiveRate.IsZero())
	assert.Empty(t, est.Bands)
}
