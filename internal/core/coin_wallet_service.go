package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CoinWallet is the append-only Paddy Coin ledger for a business.
// The balance is always the sum of coin_transactions.amount; BalanceAfter on
// each row is a running snapshot written under a per-business advisory lock.
type CoinWallet interface {
	// Award credits the coins for action. A repeated idempotencyKey returns the
	// original transaction with Duplicate set and credits nothing.
	Award(ctx context.Context, businessCode string, action CoinAction, idempotencyKey, description string) (*CoinAward, error)
	// Redeem spends coins on a catalog option. Fails with ErrInsufficientCoins
	// when CanRedeem says no. A repeated idempotencyKey for the same option
	// returns the original redemption with Duplicate set.
	Redeem(ctx context.Context, businessCode, optionID, idempotencyKey string) (*CoinRedemption, error)
	GetBalance(ctx context.Context, businessCode string) (*CoinBalance, error)
	History(ctx context.Context, businessCode string, limit int) ([]CoinTransaction, error)
}

// CoinAward is the outcome of Award.
type CoinAward struct {
	Transaction CoinTransaction `json:"transaction"`
	Duplicate   bool            `json:"duplicate"`
}

// CoinRedemption is the outcome of Redeem.
type CoinRedemption struct {
	Transaction CoinTransaction `json:"transaction"`
	Duplicate   bool            `json:"duplicate"`
}

// replayOf checks that a row found by idempotency key records the same
// request. Keys are unique per business across EARN and REDEEM rows.
func replayOf(existing *CoinTransaction, kind CoinTransactionKind, action string) error {
	if existing.Kind != kind || existing.Action != action {
		return invalidf("idempotency key %q was already used for %s %s", existing.IdempotencyKey, existing.Kind, existing.Action)
	}
	return nil
}

type coinWallet struct {
	pool  *pgxpool.Pool
	rules RewardRules
}

func NewCoinWallet(pool *pgxpool.Pool, rules RewardRules) CoinWallet {
	return &coinWallet{pool: pool, rules: rules}
}

// coinLockNamespace keeps wallet advisory locks apart from the migrator's.
const coinLockNamespace = 5172

const coinTxColumns = `id, business_id, kind, action, amount, COALESCE(idempotency_key, ''), description, balance_after, created_at`

func scanCoinTx(row pgx.Row, t *CoinTransaction) error {
	return row.Scan(&t.ID, &t.BusinessID, &t.Kind, &t.Action, &t.Amount, &t.IdempotencyKey, &t.Description, &t.BalanceAfter, &t.CreatedAt)
}

func lockWallet(ctx context.Context, tx pgx.Tx, businessID int) error {
	if _, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock($1, $2)", coinLockNamespace, businessID); err != nil {
		return fmt.Errorf("failed to lock coin wallet: %w", err)
	}
	return nil
}

func walletBalance(ctx context.Context, q pgxQuerier, businessID int) (CoinBalance, error) {
	var b CoinBalance
	err := q.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0),
		       COALESCE(SUM(amount) FILTER (WHERE kind = 'EARN'), 0),
		       COALESCE(-SUM(amount) FILTER (WHERE kind = 'REDEEM'), 0)
		FROM coin_transactions
		WHERE business_id = $1
	`, businessID).Scan(&b.Balance, &b.TotalEarned, &b.TotalRedeemed)
	if err != nil {
		return CoinBalance{}, fmt.Errorf("failed to compute coin balance: %w", err)
	}
	return b, nil
}

func findByIdempotencyKey(ctx context.Context, q pgxQuerier, businessID int, key string) (*CoinTransaction, error) {
	var t CoinTransaction
	err := scanCoinTx(q.QueryRow(ctx,
		"SELECT "+coinTxColumns+" FROM coin_transactions WHERE business_id = $1 AND idempotency_key = $2",
		businessID, key), &t)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to check idempotency key: %w", err)
	}
	return &t, nil
}

func nullableKey(key string) *string {
	if key == "" {
		return nil
	}
	return &key
}

func (w *coinWallet) Award(ctx context.Context, businessCode string, action CoinAction, idempotencyKey, description string) (*CoinAward, error) {
	tx, err := w.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	businessID, err := resolveBusinessID(ctx, tx, businessCode)
	if err != nil {
		return nil, err
	}
	if err := lockWallet(ctx, tx, businessID); err != nil {
		return nil, err
	}

	if idempotencyKey != "" {
		existing, err := findByIdempotencyKey(ctx, tx, businessID, idempotencyKey)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			if err := replayOf(existing, CoinEarn, string(action)); err != nil {
				return nil, err
			}
			return &CoinAward{Transaction: *existing, Duplicate: true}, nil
		}
	}

	coins, err := w.rules.ResolveReward(ctx, businessID, action)
	if err != nil {
		return nil, err
	}
	if coins <= 0 {
		return nil, invalidf("action %q earns no coins", action)
	}

	bal, err := walletBalance(ctx, tx, businessID)
	if err != nil {
		return nil, err
	}

	var t CoinTransaction
	err = scanCoinTx(tx.QueryRow(ctx, `
		INSERT INTO coin_transactions (business_id, kind, action, amount, idempotency_key, description, balance_after)
		VALUES ($1, 'EARN', $2, $3, $4, $5, $6)
		RETURNING `+coinTxColumns,
		businessID, string(action), coins, nullableKey(idempotencyKey), description, bal.Balance+coins,
	), &t)
	if err != nil {
		return nil, fmt.Errorf("failed to insert coin award: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit coin award: %w", err)
	}
	return &CoinAward{Transaction: t}, nil
}

func redeemAction(optionID string) string { return "redeem:" + optionID }

func (w *coinWallet) Redeem(ctx context.Context, businessCode, optionID, idempotencyKey string) (*CoinRedemption, error) {
	option, ok := FindRedemptionOption(optionID)
	if !ok {
		return nil, fmt.Errorf("redemption option %q: %w", optionID, ErrNotFound)
	}

	tx, err := w.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	businessID, err := resolveBusinessID(ctx, tx, businessCode)
	if err != nil {
		return nil, err
	}
	if err := lockWallet(ctx, tx, businessID); err != nil {
		return nil, err
	}

	if idempotencyKey != "" {
		existing, err := findByIdempotencyKey(ctx, tx, businessID, idempotencyKey)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			if err := replayOf(existing, CoinRedeem, redeemAction(option.ID)); err != nil {
				return nil, err
			}
			return &CoinRedemption{Transaction: *existing, Duplicate: true}, nil
		}
	}

	bal, err := walletBalance(ctx, tx, businessID)
	if err != nil {
		return nil, err
	}
	if !CanRedeem(bal.Balance, option.Cost) {
		return nil, fmt.Errorf("%s costs %d coins, balance is %d: %w", option.Name, option.Cost, bal.Balance, ErrInsufficientCoins)
	}

	var t CoinTransaction
	err = scanCoinTx(tx.QueryRow(ctx, `
		INSERT INTO coin_transactions (business_id, kind, action, amount, idempotency_key, description, balance_after)
		VALUES ($1, 'REDEEM', $2, $3, $4, $5, $6)
		RETURNING `+coinTxColumns,
		businessID, redeemAction(option.ID), -option.Cost, nullableKey(idempotencyKey), option.Name, bal.Balance-option.Cost,
	), &t)
	if err != nil {
		return nil, fmt.Errorf("failed to insert coin redemption: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit coin redemption: %w", err)
	}
	return &CoinRedemption{Transaction: t}, nil
}

func (w *coinWallet) GetBalance(ctx context.Context, businessCode string) (*CoinBalance, error) {
	businessID, err := resolveBusinessID(ctx, w.pool, businessCode)
	if err != nil {
		return nil, err
	}
	bal, err := walletBalance(ctx, w.pool, businessID)
	if err != nil {
		return nil, err
	}
	return &bal, nil
}

func (w *coinWallet) History(ctx context.Context, businessCode string, limit int) ([]CoinTransaction, error) {
	businessID, err := resolveBusinessID(ctx, w.pool, businessCode)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 50
	}

	rows, err := w.pool.Query(ctx,
		"SELECT "+coinTxColumns+" FROM coin_transactions WHERE business_id = $1 ORDER BY id DESC LIMIT $2",
		businessID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query coin history: %w", err)
	}
	defer rows.Close()

	var out []CoinTransaction
	for rows.Next() {
		var t CoinTransaction
		if err := scanCoinTx(rows, &t); err != nil {
			return nil, fmt.Errorf("failed to scan coin transaction: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
