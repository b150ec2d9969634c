package core

import "math"

// CoinLevel is a gamification rank covering [MinCoins, next level's MinCoins).
// The last level is unbounded.
type CoinLevel struct {
	Level    int    `json:"level"`
	Title    string `json:"title"`
	MinCoins int64  `json:"min_coins"`
}

var coinLevels = []CoinLevel{
	{Level: 1, Title: "Beginner Trader", MinCoins: 0},
	{Level: 2, Title: "Smart Seller", MinCoins: 100},
	{Level: 3, Title: "Business Builder", MinCoins: 300},
	{Level: 4, Title: "Market Champion", MinCoins: 600},
	{Level: 5, Title: "Paddy Legend", MinCoins: 1_000},
}

// CoinLevels returns a copy of the level ladder.
func CoinLevels() []CoinLevel {
	out := make([]CoinLevel, len(coinLevels))
	copy(out, coinLevels)
	return out
}

// CoinLevelStatus is where cumulative earnings sit on the ladder.
type CoinLevelStatus struct {
	Level            int     `json:"level"`
	Title            string  `json:"title"`
	TotalEarned      int64   `json:"total_earned"`
	CoinsToNextLevel int64   `json:"coins_to_next_level"`
	NextTitle        string  `json:"next_title,omitempty"`
	Progress         float64 `json:"progress"` // percent through the current range
}

// ResolveLevel finds the range containing totalEarned. Negative input counts as zero.
func ResolveLevel(totalEarned int64) CoinLevelStatus {
	if totalEarned < 0 {
		totalEarned = 0
	}

	idx := 0
	for i, l := range coinLevels {
		if totalEarned >= l.MinCoins {
			idx = i
		}
	}
	current := coinLevels[idx]
	status := CoinLevelStatus{
		Level:       current.Level,
		Title:       current.Title,
		TotalEarned: totalEarned,
		Progress:    100,
	}
	if idx+1 == len(coinLevels) {
		return status
	}

	next := coinLevels[idx+1]
	status.CoinsToNextLevel = next.MinCoins - totalEarned
	status.NextTitle = next.Title
	span := float64(next.MinCoins - current.MinCoins)
	status.Progress = math.Round(float64(totalEarned-current.MinCoins)/span*10000) / 100
	return status
}

// CanRedeem is the single affordability rule for coin redemptions.
func CanRedeem(balance, cost int64) bool {
	return balance >= cost
}
