package risk

import (
	"time"

	"github.com/rs/zerolog"

	"smc-trading-bot/internal/market"
)

// Config holds the risk limits. Percentages are of account balance.
type Config struct {
	RiskPerTrade    float64          `yaml:"risk_per_trade" default:"1.0" validate:"gt=0,lte=5"`
	MaxDailyLoss    float64          `yaml:"max_daily_loss" default:"1.5" validate:"gt=0"`
	MaxWeeklyLoss   float64          `yaml:"max_weekly_loss" default:"3.0" validate:"gt=0"`
	MaxTradesPerDay int              `yaml:"max_trades_per_day" default:"2" validate:"gte=1"`
	SessionFilter   bool             `yaml:"session_filter" default:"false"`
	AllowedSessions []market.Session `yaml:"allowed_sessions"`
}

// DefaultConfig returns the strict defaults: 1% per trade, 1.5% daily and
// 3% weekly loss caps, two trades per day, London/New York sessions.
func DefaultConfig() Config {
	return Config{
		RiskPerTrade:    1.0,
		MaxDailyLoss:    1.5,
		MaxWeeklyLoss:   3.0,
		MaxTradesPerDay: 2,
		SessionFilter:   false,
		AllowedSessions: []market.Session{market.SessionLondon, market.SessionNewYork},
	}
}

// Checks is the result of the pre-trade gate. All fields must hold for a
// trade to open; the caller ANDs them, nothing raises.
type Checks struct {
	SessionActive bool
	DailyLimitOK  bool
	WeeklyLimitOK bool
	DailyTradesOK bool
}

// OK reports whether every check passed.
func (c Checks) OK() bool {
	return c.SessionActive && c.DailyLimitOK && c.WeeklyLimitOK && c.DailyTradesOK
}

// Validation is the result of per-trade price sanity checks.
type Validation struct {
	RROk           bool // reward/risk at or above the floor
	RiskReasonable bool // stop distance at most 5% of entry
	StopSet        bool
	TargetSet      bool
}

// OK reports whether every validation passed.
func (v Validation) OK() bool {
	return v.RROk && v.RiskReasonable && v.StopSet && v.TargetSet
}

// Manager tracks account balance and the daily/weekly loss and trade-count
// limits. All time-dependent methods take an explicit timestamp (the candle
// time during a backtest) so replays are deterministic. One manager
// is shared across symbols per run, so the limits apply account-wide.
type Manager struct {
	cfg Config

	balance    float64
	riskAmount float64
	minRR      float64

	dailyPnL     float64
	weeklyPnL    float64
	dailyTrades  int
	currentDay   time.Time
	currentWeekY int
	currentWeekN int

	log zerolog.Logger
}

// NewManager creates a manager seeded with the starting balance. minRR is
// the floor used by ValidateTrade.
func NewManager(cfg Config, balance, minRR float64, log zerolog.Logger) *Manager {
	return &Manager{
		cfg:        cfg,
		balance:    balance,
		riskAmount: balance * cfg.RiskPerTrade / 100,
		minRR:      minRR,
		log:        log.With().Str("component", "risk").Logger(),
	}
}

// Balance returns the current account balance.
func (m *Manager) Balance() float64 {
	return m.balance
}

// DailyPnL returns the running P&L for the current day.
func (m *Manager) DailyPnL() float64 {
	return m.dailyPnL
}

// WeeklyPnL returns the running P&L for the current ISO week.
func (m *Manager) WeeklyPnL() float64 {
	return m.weeklyPnL
}

// PositionSize returns the amount of account currency at risk for one
// trade: balance x risk percent, scaled by the signal's risk multiplier.
// This is a dollar amount, not a unit count; the backtest engine's P&L
// arithmetic depends on that contract.
func (m *Manager) PositionSize(riskMultiplier float64) float64 {
	if riskMultiplier <= 0 {
		return 0
	}
	return m.riskAmount * riskMultiplier
}

// ValidateTrade checks a candidate's price levels. All checks are advisory;
// the caller decides.
func (m *Manager) ValidateTrade(entry, stop, target float64) Validation {
	risk := abs(entry - stop)
	reward := abs(target - entry)

	rr := 0.0
	if risk > 0 {
		rr = reward / risk
	}

	return Validation{
		RROk:           rr >= m.minRR,
		RiskReasonable: risk <= entry*0.05,
		StopSet:        stop != 0,
		TargetSet:      target != 0,
	}
}

// CanOpenTrade rolls the daily/weekly counters forward to at and evaluates
// the account-level gates.
func (m *Manager) CanOpenTrade(at time.Time) Checks {
	m.rollover(at)

	sessionOK := true
	if m.cfg.SessionFilter {
		_, sessionOK = market.ActiveSession(at, m.cfg.AllowedSessions)
	}

	return Checks{
		SessionActive: sessionOK,
		DailyLimitOK:  m.dailyPnL > -(m.balance * m.cfg.MaxDailyLoss / 100),
		WeeklyLimitOK: m.weeklyPnL > -(m.balance * m.cfg.MaxWeeklyLoss / 100),
		DailyTradesOK: m.dailyTrades < m.cfg.MaxTradesPerDay,
	}
}

// RecordOutcome applies a closed trade's P&L to the balance and the
// daily/weekly counters, then recomputes the per-trade risk amount. Must be
// called exactly once per closed trade.
func (m *Manager) RecordOutcome(at time.Time, pnl float64) {
	m.rollover(at)

	m.dailyPnL += pnl
	m.weeklyPnL += pnl
	m.dailyTrades++
	m.balance += pnl
	m.riskAmount = m.balance * m.cfg.RiskPerTrade / 100

	m.log.Debug().
		Float64("pnl", pnl).
		Float64("balance", m.balance).
		Float64("daily_pnl", m.dailyPnL).
		Int("daily_trades", m.dailyTrades).
		Msg("trade outcome recorded")
}

// rollover resets daily counters on a calendar-day change and weekly
// counters on an ISO-week change.
func (m *Manager) rollover(at time.Time) {
	day := at.UTC().Truncate(24 * time.Hour)
	if !day.Equal(m.currentDay) {
		m.dailyPnL = 0
		m.dailyTrades = 0
		m.currentDay = day
	}

	year, week := at.UTC().ISOWeek()
	if year != m.currentWeekY || week != m.currentWeekN {
		m.weeklyPnL = 0
		m.currentWeekY = year
		m.currentWeekN = week
	}
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
