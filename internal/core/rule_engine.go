package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RewardRules resolves how many coins an action earns. Rows in
// coin_reward_rules override the default earning table; a business-specific
// row beats a platform-wide one (business_id NULL), then priority decides.
type RewardRules interface {
	ResolveReward(ctx context.Context, businessID int, action CoinAction) (int64, error)
}

type rewardRules struct {
	pool *pgxpool.Pool
}

// NewRewardRules constructs RewardRules backed by the coin_reward_rules table.
func NewRewardRules(pool *pgxpool.Pool) RewardRules {
	return &rewardRules{pool: pool}
}

// ResolveReward returns the override if one is active, else the default from
// CoinRewards. Unknown actions with no override are rejected.
func (r *rewardRules) ResolveReward(ctx context.Context, businessID int, action CoinAction) (int64, error) {
	var coins int64
	err := r.pool.QueryRow(ctx, `
		SELECT coins
		FROM coin_reward_rules
		WHERE action = $2
		  AND is_active = true
		  AND (business_id = $1 OR business_id IS NULL)
		ORDER BY (business_id IS NULL), priority DESC
		LIMIT 1
	`, businessID, string(action)).Scan(&coins)
	if err == nil {
		return coins, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("failed to resolve reward rule (business_id=%d, action=%q): %w", businessID, action, err)
	}

	coins, ok := RewardFor(action)
	if !ok {
		return 0, invalidf("unknown coin action %q", action)
	}
	return coins, nil
}
