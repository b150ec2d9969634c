package core_test

import (
	"context"
	"testing"

	"paddy-books/internal/core"
)

func TestRewardRules_ResolveReward(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	ctx := context.Background()
	bid := businessID(t, pool, testBusiness)

	_, err := pool.Exec(ctx, `
		INSERT INTO coin_reward_rules (business_id, action, coins, priority)
		VALUES
		  (NULL, 'record_expense', 4, 0),
		  ($1,   'record_sale',    8, 0),
		  ($1,   'record_sale',    9, 10),
		  (NULL, 'record_sale',   50, 99),
		  (NULL, 'harvest_bonus', 15, 0);
	`, bid)
	if err != nil {
		t.Fatalf("Failed to seed coin_reward_rules: %v", err)
	}

	rules := core.NewRewardRules(pool)

	tests := []struct {
		name   string
		action core.CoinAction
		want   int64
	}{
		{"business row beats platform row, highest priority first", core.ActionRecordSale, 9},
		{"platform row overrides the default table", core.ActionRecordExpense, 4},
		{"falls back to the default table", core.ActionFileTax, 20},
		{"override can introduce a new action", "harvest_bonus", 15},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := rules.ResolveReward(ctx, bid, tc.action)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("expected %d, got %d", tc.want, got)
			}
		})
	}

	t.Run("unknown action is rejected", func(t *testing.T) {
		if _, err := rules.ResolveReward(ctx, bid, "dance"); err == nil {
			t.Error("expected error for unknown action, got nil")
		}
	})
}
