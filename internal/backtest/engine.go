package backtest

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"smc-trading-bot/internal/journal"
	"smc-trading-bot/internal/market"
	"smc-trading-bot/internal/risk"
	"smc-trading-bot/internal/strategy"
)

// Config holds the replay parameters.
type Config struct {
	InitialBalance float64 `yaml:"initial_balance" default:"10000" validate:"gt=0"`
	// WarmupBars is the index at which signal evaluation starts.
	WarmupBars int `yaml:"warmup_bars" default:"100" validate:"gte=20"`
	// WindowBars caps the trailing analysis window handed to the composer.
	WindowBars int `yaml:"window_bars" default:"240" validate:"gte=100"`
}

// DefaultConfig returns the standard replay parameters.
func DefaultConfig() Config {
	return Config{InitialBalance: 10000, WarmupBars: 100, WindowBars: 240}
}

// Position is the single open trade per symbol, owned by the engine while
// open.
type Position struct {
	ID             string
	Symbol         string
	Direction      strategy.Side
	EntryPrice     float64
	StopLoss       float64
	TakeProfit     float64
	RiskAmount     float64
	RiskReward     float64
	EntryTimestamp int64
	BalanceAtEntry float64
	Signal         *strategy.Signal
}

// Statistics aggregates closed-trade performance for a run.
type Statistics struct {
	TotalTrades   int     `json:"total_trades"`
	WinningTrades int     `json:"winning_trades"`
	LosingTrades  int     `json:"losing_trades"`
	WinRate       float64 `json:"win_rate"`
	AvgWin        float64 `json:"avg_win"`
	AvgLoss       float64 `json:"avg_loss"`
	ProfitFactor  float64 `json:"profit_factor"`
	TotalPnL      float64 `json:"total_pnl"`
	FinalBalance  float64 `json:"final_balance"`
}

// Result is the outcome of a full replay.
type Result struct {
	Trades        []journal.TradeRecord
	Stats         Statistics
	EquityCurve   []float64
	DrawdownCurve []float64
}

// Engine replays candle series bar by bar: at most one open position per
// symbol, stop checked before target within a bar, P&L in risk-amount
// units. Symbols share one risk manager, so loss and trade-count limits are
// account-wide.
type Engine struct {
	cfg      Config
	composer *strategy.Composer
	riskMgr  *risk.Manager
	sink     journal.Journal
	log      zerolog.Logger

	initialBalance float64
	active         *Position
	closed         []journal.TradeRecord
}

// NewEngine wires the composer, risk manager and journal sink.
func NewEngine(cfg Config, composer *strategy.Composer, riskMgr *risk.Manager, sink journal.Journal, log zerolog.Logger) *Engine {
	return &Engine{
		cfg:            cfg,
		composer:       composer,
		riskMgr:        riskMgr,
		sink:           sink,
		log:            log.With().Str("component", "backtest").Logger(),
		initialBalance: cfg.InitialBalance,
	}
}

// Run replays every symbol's series in deterministic (sorted) order and
// returns the aggregate result. Symbols without data are skipped.
func (e *Engine) Run(ctx context.Context, data map[string][]market.Candle) (*Result, error) {
	symbols := make([]string, 0, len(data))
	for s := range data {
		symbols = append(symbols, s)
	}
	sort.Strings(symbols)

	for _, symbol := range symbols {
		candles := data[symbol]
		if len(candles) == 0 {
			e.log.Warn().Str("symbol", symbol).Msg("no historical data, skipping symbol")
			continue
		}
		if err := market.ValidateSeries(candles); err != nil {
			return nil, fmt.Errorf("invalid candle series for %s: %w", symbol, err)
		}
		if err := e.runSymbol(ctx, symbol, candles); err != nil {
			return nil, err
		}
	}

	result := &Result{Trades: e.closed}
	result.Stats = e.statistics()
	result.EquityCurve = e.equityCurve()
	result.DrawdownCurve = drawdownCurve(result.EquityCurve)
	return result, nil
}

// runSymbol walks one series. The active position is always flat when the
// walk starts and forcibly left open trades do not exist: an open position
// at series end simply never closes and is not counted.
func (e *Engine) runSymbol(ctx context.Context, symbol string, candles []market.Candle) error {
	e.active = nil

	for i := e.cfg.WarmupBars; i < len(candles); i++ {
		bar := candles[i]

		if e.active != nil {
			if err := e.checkExit(ctx, bar); err != nil {
				return err
			}
		}

		if e.active == nil {
			e.tryEnter(symbol, candles, i)
		}
	}

	if e.active != nil {
		e.log.Debug().Str("symbol", symbol).Str("position", e.active.ID).
			Msg("position still open at end of data, discarded")
		e.active = nil
	}
	return nil
}

// tryEnter evaluates the composer on the trailing window and opens a
// position when the signal and every risk check line up.
func (e *Engine) tryEnter(symbol string, candles []market.Candle, i int) {
	start := i + 1 - e.cfg.WindowBars
	if start < 0 {
		start = 0
	}
	window := candles[start : i+1]

	sig := e.composer.Analyze(symbol, window)
	if sig == nil {
		return
	}

	bar := candles[i]
	at := bar.Time()

	if !e.riskMgr.CanOpenTrade(at).OK() {
		return
	}
	if !e.riskMgr.ValidateTrade(sig.EntryPrice, sig.StopLoss, sig.TakeProfit).OK() {
		return
	}

	riskAmount := e.riskMgr.PositionSize(sig.RiskMultiplier)
	if riskAmount <= 0 {
		return
	}

	e.active = &Position{
		ID:             uuid.NewString(),
		Symbol:         symbol,
		Direction:      sig.Direction,
		EntryPrice:     sig.EntryPrice,
		StopLoss:       sig.StopLoss,
		TakeProfit:     sig.TakeProfit,
		RiskAmount:     riskAmount,
		RiskReward:     sig.RiskReward,
		EntryTimestamp: bar.Timestamp,
		BalanceAtEntry: e.riskMgr.Balance(),
		Signal:         sig,
	}

	e.log.Info().
		Str("symbol", symbol).
		Str("position", e.active.ID).
		Str("direction", string(sig.Direction)).
		Str("setup", string(sig.Setup)).
		Float64("entry", sig.EntryPrice).
		Float64("risk_amount", riskAmount).
		Msg("position opened")
}

// checkExit closes the active position when the bar crosses its stop or
// target. The stop is checked first: when both levels fall inside one bar
// the worse outcome is assumed.
func (e *Engine) checkExit(ctx context.Context, bar market.Candle) error {
	p := e.active

	stopHit := bar.Low <= p.StopLoss
	targetHit := bar.High >= p.TakeProfit
	if p.Direction == strategy.Short {
		stopHit = bar.High >= p.StopLoss
		targetHit = bar.Low <= p.TakeProfit
	}

	switch {
	case stopHit:
		return e.closePosition(ctx, bar, p.StopLoss, "stop_loss")
	case targetHit:
		return e.closePosition(ctx, bar, p.TakeProfit, "take_profit")
	}
	return nil
}

// closePosition realizes P&L in risk-amount units: a stop loses exactly the
// amount risked, a target wins riskAmount x (RR - 1).
func (e *Engine) closePosition(ctx context.Context, bar market.Candle, exitPrice float64, reason string) error {
	p := e.active

	var pnl float64
	switch reason {
	case "stop_loss":
		pnl = -p.RiskAmount
	case "take_profit":
		pnl = p.RiskAmount * (p.RiskReward - 1)
	}

	pnlPercent := 0.0
	if e.initialBalance > 0 {
		pnlPercent = pnl / e.initialBalance * 100
	}

	e.riskMgr.RecordOutcome(bar.Time(), pnl)

	record := journal.TradeRecord{
		ID:                    p.ID,
		Symbol:                p.Symbol,
		EntryTime:             time.Unix(p.EntryTimestamp, 0).UTC(),
		ExitTime:              bar.Time(),
		EntryPrice:            p.EntryPrice,
		ExitPrice:             exitPrice,
		StopLoss:              p.StopLoss,
		TakeProfit:            p.TakeProfit,
		Quantity:              p.RiskAmount,
		EntryZoneType:         string(p.Signal.EntryZone),
		BOSStrength:           p.Signal.BOSStrength,
		PullbackConfidence:    p.Signal.PullbackConfidence,
		SignalStrength:        p.Signal.Strength(),
		RiskAmount:            p.RiskAmount,
		RewardAmount:          p.RiskAmount * (p.RiskReward - 1),
		RiskRewardRatio:       p.RiskReward,
		PnL:                   pnl,
		PnLPercent:            pnlPercent,
		Status:                "closed",
		ExitReason:            reason,
		AccountBalanceAtEntry: p.BalanceAtEntry,
	}

	if err := e.sink.LogTrade(ctx, record); err != nil {
		return fmt.Errorf("failed to journal trade %s: %w", p.ID, err)
	}

	e.closed = append(e.closed, record)
	e.active = nil

	e.log.Info().
		Str("symbol", record.Symbol).
		Str("position", record.ID).
		Str("exit_reason", reason).
		Float64("pnl", pnl).
		Float64("balance", e.riskMgr.Balance()).
		Msg("position closed")

	return nil
}

// statistics summarizes closed trades. A trade with zero P&L counts as
// neither winner nor loser.
func (e *Engine) statistics() Statistics {
	stats := Statistics{
		TotalTrades:  len(e.closed),
		FinalBalance: e.riskMgr.Balance(),
	}
	if len(e.closed) == 0 {
		return stats
	}

	var totalWins, totalLosses float64
	for _, t := range e.closed {
		switch {
		case t.PnL > 0:
			stats.WinningTrades++
			totalWins += t.PnL
		case t.PnL < 0:
			stats.LosingTrades++
			totalLosses += t.PnL
		}
	}

	stats.WinRate = float64(stats.WinningTrades) / float64(stats.TotalTrades) * 100
	if stats.WinningTrades > 0 {
		stats.AvgWin = totalWins / float64(stats.WinningTrades)
	}
	if stats.LosingTrades > 0 {
		stats.AvgLoss = totalLosses / float64(stats.LosingTrades)
	}
	if totalLosses != 0 {
		stats.ProfitFactor = totalWins / (-totalLosses)
	}
	stats.TotalPnL = totalWins + totalLosses
	return stats
}

// equityCurve is the running balance ordered by entry time, seeded with the
// initial balance.
func (e *Engine) equityCurve() []float64 {
	trades := make([]journal.TradeRecord, len(e.closed))
	copy(trades, e.closed)
	sort.SliceStable(trades, func(i, j int) bool {
		return trades[i].EntryTime.Before(trades[j].EntryTime)
	})

	equity := make([]float64, 0, len(trades)+1)
	balance := e.initialBalance
	equity = append(equity, balance)
	for _, t := range trades {
		balance += t.PnL
		equity = append(equity, balance)
	}
	return equity
}

// drawdownCurve is the percent decline from the running equity peak; never
// negative.
func drawdownCurve(equity []float64) []float64 {
	if len(equity) == 0 {
		return nil
	}
	out := make([]float64, 0, len(equity))
	peak := equity[0]
	for _, v := range equity {
		if v > peak {
			peak = v
		}
		dd := 0.0
		if peak > 0 {
			dd = (peak - v) / peak * 100
		}
		out = append(out, dd)
	}
	return out
}

// Summary renders the statistics block printed after a run.
func (r *Result) Summary() string {
	s := r.Stats
	maxDD := 0.0
	for _, d := range r.DrawdownCurve {
		if d > maxDD {
			maxDD = d
		}
	}

	return fmt.Sprintf(`===== BACKTEST RESULTS =====
Total Trades:   %d
Winning Trades: %d
Losing Trades:  %d
Win Rate:       %.2f%%
Average Win:    $%.2f
Average Loss:   $%.2f
Profit Factor:  %.2f
Total P&L:      $%.2f
Final Balance:  $%.2f
Max Drawdown:   %.2f%%
============================`,
		s.TotalTrades, s.WinningTrades, s.LosingTrades, s.WinRate,
		s.AvgWin, s.AvgLoss, s.ProfitFactor, s.TotalPnL, s.FinalBalance, maxDD)
}
