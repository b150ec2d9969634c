package core_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paddy-books/internal/core"
)

func TestResolveLevel(t *testing.T) {
	s := core.ResolveLevel(250)
	assert.Equal(t, 2, s.Level)
	assert.Equal(t, "Smart Seller", s.Title)
	assert.Equal(t, int64(50), s.CoinsToNextLevel)
	assert.Equal(t, "Business Builder", s.NextTitle)
	assert.Equal(t, 75.0, s.Progress)
}

func TestResolveLevel_Boundaries(t *testing.T) {
	tests := []struct {
		earned int64
		level  int
		toNext int64
	}{
		{-5, 1, 100},
		{0, 1, 100},
		{99, 1, 1},
		{100, 2, 200},
		{299, 2, 1},
		{300, 3, 300},
		{600, 4, 400},
		{999, 4, 1},
		{1000, 5, 0},
		{50_000, 5, 0},
	}
	for _, tc := range tests {
		s := core.ResolveLevel(tc.earned)
		assert.Equal(t, tc.level, s.Level, "earned %d", tc.earned)
		assert.Equal(t, tc.toNext, s.CoinsToNextLevel, "earned %d", tc.earned)
	}
}

func TestResolveLevel_TopLevelIsComplete(t *testing.T) {
	s := core.ResolveLevel(1500)
	assert.Equal(t, "Paddy Legend", s.Title)
	assert.Empty(t, s.NextTitle)
	assert.Equal(t, 100.0, s.Progress)
}

// Every non-negative count lands in exactly one range.
func TestCoinLevels_Partition(t *testing.T) {
	levels := core.CoinLevels()
	require.Equal(t, int64(0), levels[0].MinCoins)
	for n := int64(0); n < 1200; n++ {
		matches := 0
		for i, l := range levels {
			upper := int64(-1)
			if i+1 < len(levels) {
				upper = levels[i+1].MinCoins
			}
			if n >= l.MinCoins && (upper < 0 || n < upper) {
				matches++
				assert.Equal(t, l.Level, core.ResolveLevel(n).Level)
			}
		}
		require.Equal(t, 1, matches, "coins %d", n)
	}
}

func TestCanRedeem(t *testing.T) {
	assert.True(t, core.CanRedeem(100, 100))
	assert.True(t, core.CanRedeem(101, 100))
	assert.False(t, core.CanRedeem(99, 100))
}

func TestRewardFor(t *testing.T) {
	n, ok := core.RewardFor(core.ActionRecordSale)
	assert.True(t, ok)
	assert.Equal(t, int64(5), n)

	n, ok = core.RewardFor(core.ActionFileTax)
	assert.True(t, ok)
	assert.Equal(t, int64(20), n)

	_, ok = core.RewardFor("juggling")
	assert.False(t, ok)
}

func TestCoinRewards_ReturnsCopy(t *testing.T) {
	m := core.CoinRewards()
	m[core.ActionRecordSale] = 1000
	n, _ := core.RewardFor(core.ActionRecordSale)
	assert.Equal(t, int64(5), n)
}

func TestAffordableOptions(t *testing.T) {
	views := core.AffordableOptions(150)
	require.Len(t, views, len(core.RedemptionOptions()))
	for _, v := range views {
		assert.Equal(t, core.CanRedeem(150, v.Cost), v.Affordable, v.ID)
		if v.Affordable {
			assert.Zero(t, v.CoinsNeeded)
		} else {
			assert.Equal(t, v.Cost-150, v.CoinsNeeded)
		}
	}

	opt, ok := core.FindRedemptionOption("airtime-500")
	require.True(t, ok)
	assert.Equal(t, int64(100), opt.Cost)

	_, ok = core.FindRedemptionOption("yacht")
	assert.False(t, ok)
}
