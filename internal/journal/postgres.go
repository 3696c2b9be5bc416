package journal

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres persists trades to a PostgreSQL table. Writes are transactional
// per trade; the schema is created on connect if missing.
type Postgres struct {
	pool *pgxpool.Pool
}

const tradesSchema = `
CREATE TABLE IF NOT EXISTS trades (
	id TEXT PRIMARY KEY,
	symbol TEXT NOT NULL,
	entry_time TIMESTAMPTZ NOT NULL,
	exit_time TIMESTAMPTZ,
	entry_price DOUBLE PRECISION NOT NULL,
	exit_price DOUBLE PRECISION,
	stop_loss DOUBLE PRECISION NOT NULL,
	take_profit DOUBLE PRECISION NOT NULL,
	quantity DOUBLE PRECISION NOT NULL,
	entry_zone_type TEXT,
	bos_strength DOUBLE PRECISION,
	pullback_confidence DOUBLE PRECISION,
	signal_strength DOUBLE PRECISION,
	risk_amount DOUBLE PRECISION,
	reward_amount DOUBLE PRECISION,
	risk_reward_ratio DOUBLE PRECISION,
	pnl DOUBLE PRECISION DEFAULT 0,
	pnl_percent DOUBLE PRECISION DEFAULT 0,
	status TEXT DEFAULT 'open',
	exit_reason TEXT,
	account_balance_at_entry DOUBLE PRECISION
)`

// NewPostgres connects to databaseURL and ensures the trades table exists.
func NewPostgres(ctx context.Context, databaseURL string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to journal database: %w", err)
	}

	if _, err := pool.Exec(ctx, tradesSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to initialize journal schema: %w", err)
	}

	return &Postgres{pool: pool}, nil
}

// LogTrade upserts one trade row.
func (p *Postgres) LogTrade(ctx context.Context, trade TradeRecord) error {
	query := `
		INSERT INTO trades (
			id, symbol, entry_time, exit_time, entry_price, exit_price,
			stop_loss, take_profit, quantity, entry_zone_type,
			bos_strength, pullback_confidence, signal_strength,
			risk_amount, reward_amount, risk_reward_ratio,
			pnl, pnl_percent, status, exit_reason, account_balance_at_entry
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21)
		ON CONFLICT (id) DO UPDATE SET
			exit_time = EXCLUDED.exit_time,
			exit_price = EXCLUDED.exit_price,
			pnl = EXCLUDED.pnl,
			pnl_percent = EXCLUDED.pnl_percent,
			status = EXCLUDED.status,
			exit_reason = EXCLUDED.exit_reason
	`

	_, err := p.pool.Exec(ctx, query,
		trade.ID, trade.Symbol, trade.EntryTime, trade.ExitTime, trade.EntryPrice, trade.ExitPrice,
		trade.StopLoss, trade.TakeProfit, trade.Quantity, trade.EntryZoneType,
		trade.BOSStrength, trade.PullbackConfidence, trade.SignalStrength,
		trade.RiskAmount, trade.RewardAmount, trade.RiskRewardRatio,
		trade.PnL, trade.PnLPercent, trade.Status, trade.ExitReason, trade.AccountBalanceAtEntry,
	)
	if err != nil {
		return fmt.Errorf("failed to log trade %s: %w", trade.ID, err)
	}
	return nil
}

// Trades returns all rows ordered by entry time.
func (p *Postgres) Trades(ctx context.Context) ([]TradeRecord, error) {
	query := `
		SELECT id, symbol, entry_time, exit_time, entry_price, exit_price,
			stop_loss, take_profit, quantity, entry_zone_type,
			bos_strength, pullback_confidence, signal_strength,
			risk_amount, reward_amount, risk_reward_ratio,
			pnl, pnl_percent, status, exit_reason, account_balance_at_entry
		FROM trades ORDER BY entry_time
	`

	rows, err := p.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query trades: %w", err)
	}
	defer rows.Close()

	var trades []TradeRecord
	for rows.Next() {
		var t TradeRecord
		if err := rows.Scan(
			&t.ID, &t.Symbol, &t.EntryTime, &t.ExitTime, &t.EntryPrice, &t.ExitPrice,
			&t.StopLoss, &t.TakeProfit, &t.Quantity, &t.EntryZoneType,
			&t.BOSStrength, &t.PullbackConfidence, &t.SignalStrength,
			&t.RiskAmount, &t.RewardAmount, &t.RiskRewardRatio,
			&t.PnL, &t.PnLPercent, &t.Status, &t.ExitReason, &t.AccountBalanceAtEntry,
		); err != nil {
			return nil, fmt.Errorf("failed to scan trade: %w", err)
		}
		trades = append(trades, t)
	}
	return trades, rows.Err()
}

// Close releases the connection pool.
func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}
