package strategy

import (
	"smc-trading-bot/internal/analysis"
)

// Side is the direction of a proposed trade.
type Side string

const (
	Long  Side = "long"
	Short Side = "short"
)

// SetupType names the rule-set that produced a signal.
type SetupType string

const (
	// SetupTrendSweepBOS requires a higher-timeframe bias, a liquidity
	// sweep aligned with it and a break of structure.
	SetupTrendSweepBOS SetupType = "htf_liquidity_bos"
	// SetupZoneBlockChoCH requires price inside a higher-timeframe zone,
	// an aligned order block and a change of character.
	SetupZoneBlockChoCH SetupType = "htf_zone_ob_choch"
	// SetupBlockFVGFib requires an order block overlapping a fair value
	// gap at the 79% fibonacci retracement.
	SetupBlockFVGFib SetupType = "ob_fvg_fib"
)

// ZoneType labels the structural zone anchoring a signal's stop.
type ZoneType string

const (
	ZoneFVG        ZoneType = "fvg"
	ZoneOrderBlock ZoneType = "order_block"
	ZoneHTF        ZoneType = "htf_zone"
	ZoneSwing      ZoneType = "swing"
)

// Signal is a complete directional trade proposal. It is produced fresh per
// analysis call and never mutated afterward.
type Signal struct {
	Timestamp  int64
	Symbol     string
	Setup      SetupType
	Direction  Side
	EntryPrice float64
	StopLoss   float64
	TakeProfit float64
	RiskReward float64

	// RiskMultiplier scales the per-trade risk: 1.0 with three or more
	// confirmations, 0.5 with two.
	RiskMultiplier float64

	Confirmations []string
	Confidence    float64

	// Source pattern details carried through to the trade journal.
	EntryZone          ZoneType
	BOSStrength        float64
	PullbackConfidence float64
	HTFTrend           analysis.Trend
	OrderBlock         *analysis.OrderBlock
	FVG                *analysis.FairValueGap
	Zone               *analysis.HTFZone
}

// Strength is the overall signal score logged to the journal: the
// confidence the composer assigned.
func (s *Signal) Strength() float64 {
	return s.Confidence
}

// riskMultiplierFor maps confirmation count to risk: three or more earn
// full risk, exactly two half risk, anything less no trade.
func riskMultiplierFor(confirmations int) float64 {
	switch {
	case confirmations >= 3:
		return 1.0
	case confirmations == 2:
		return 0.5
	default:
		return 0
	}
}
