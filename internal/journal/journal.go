package journal

import (
	"context"
	"time"
)

// TradeRecord is one closed trade as persisted by the journal. Quantity is
// the dollar amount at risk, matching the engine's sizing contract.
type TradeRecord struct {
	ID                    string    `json:"id"`
	Symbol                string    `json:"symbol"`
	EntryTime             time.Time `json:"entry_time"`
	ExitTime              time.Time `json:"exit_time"`
	EntryPrice            float64   `json:"entry_price"`
	ExitPrice             float64   `json:"exit_price"`
	StopLoss              float64   `json:"stop_loss"`
	TakeProfit            float64   `json:"take_profit"`
	Quantity              float64   `json:"quantity"`
	EntryZoneType         string    `json:"entry_zone_type"`
	BOSStrength           float64   `json:"bos_strength"`
	PullbackConfidence    float64   `json:"pullback_confidence"`
	SignalStrength        float64   `json:"signal_strength"`
	RiskAmount            float64   `json:"risk_amount"`
	RewardAmount          float64   `json:"reward_amount"`
	RiskRewardRatio       float64   `json:"risk_reward_ratio"`
	PnL                   float64   `json:"pnl"`
	PnLPercent            float64   `json:"pnl_percent"`
	Status                string    `json:"status"`
	ExitReason            string    `json:"exit_reason"`
	AccountBalanceAtEntry float64   `json:"account_balance_at_entry"`
}

// Journal is the write-mostly trade sink consumed by the backtest engine.
// Nothing in detection reads back from it.
type Journal interface {
	LogTrade(ctx context.Context, trade TradeRecord) error
	Trades(ctx context.Context) ([]TradeRecord, error)
	Close() error
}
