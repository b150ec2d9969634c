package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paddy-books/internal/app"
	"paddy-books/internal/core"
)

// The calculator commands never touch the database, so an empty Services is enough.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	svc := app.NewAppService(app.Services{}, app.Options{})
	var out bytes.Buffer
	err := Run(context.Background(), svc, args, &out)
	return out.String(), err
}

func TestTier(t *testing.T) {
	out, err := run(t, "tier", "250", "100000")
	require.NoError(t, err)
	assert.Contains(t, out, "Silver")
	assert.Contains(t, out, "250 coins to Gold")
	assert.Contains(t, out, "Max loan:    ₦150000.00")
}

func TestInstallment_RateOrTier(t *testing.T) {
	out, err := run(t, "installment", "100000", "3", "silver", "2026-01-15")
	require.NoError(t, err)
	assert.Contains(t, out, "Total repayment: ₦112000.00")
	assert.Contains(t, out, "2026-04-15")

	out, err = run(t, "inst", "50000", "2", "5%")
	require.NoError(t, err)
	assert.Contains(t, out, "Total interest:  ₦5000.00")

	_, err = run(t, "installment", "50000", "0", "5")
	assert.ErrorIs(t, err, core.ErrInvalidTerm)
}

func TestLevelAndTiers(t *testing.T) {
	out, err := run(t, "level", "0")
	require.NoError(t, err)
	assert.Contains(t, out, "Level 1")

	out, err = run(t, "tiers")
	require.NoError(t, err)
	assert.Contains(t, out, "Diamond")
}

func TestTax(t *testing.T) {
	out, err := run(t, "tax", "0")
	require.NoError(t, err)
	assert.Contains(t, out, "Total tax:      ₦0.00")
}

func TestUsage(t *testing.T) {
	_, err := run(t)
	assert.ErrorIs(t, err, ErrUsage)
	_, err = run(t, "frobnicate")
	assert.ErrorIs(t, err, ErrUsage)
	_, err = run(t, "tier")
	assert.ErrorIs(t, err, ErrUsage)
}
