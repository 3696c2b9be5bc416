package strategy

import (
	"github.com/rs/zerolog"

	"smc-trading-bot/internal/analysis"
	"smc-trading-bot/internal/market"
)

// Composer runs the named rule-sets over a candle window in priority order
// and assembles a Signal from the first one that fully fires. All detectors
// are pure; the composer owns no mutable state between calls.
type Composer struct {
	params    Params
	structure *analysis.StructureAnalyzer
	fvg       *analysis.FVGDetector
	blocks    *analysis.OrderBlockDetector
	liquidity *analysis.LiquidityAnalyzer
	fib       *analysis.FibCalculator
	trend     *analysis.TrendAnalyzer
	zones     *analysis.HTFZoneDetector
	volume    *analysis.VolumeAnalyzer
	log       zerolog.Logger
}

// NewComposer wires the detectors with the given parameters.
func NewComposer(params Params, log zerolog.Logger) *Composer {
	return &Composer{
		params:    params,
		structure: analysis.NewStructureAnalyzer(),
		fvg:       analysis.NewFVGDetector(params.MinGapPercent),
		blocks:    analysis.NewOrderBlockDetector(),
		liquidity: analysis.NewLiquidityAnalyzer(),
		fib:       analysis.NewFibCalculator(),
		trend:     analysis.NewTrendAnalyzer(),
		zones:     analysis.NewHTFZoneDetector(),
		volume:    analysis.NewVolumeAnalyzer(0),
		log:       log.With().Str("component", "composer").Logger(),
	}
}

// candidate is a rule-set's raw output before stop/target placement.
type candidate struct {
	setup              SetupType
	direction          Side
	confirmations      []string
	htfTrend           analysis.Trend
	orderBlock         *analysis.OrderBlock
	fvg                *analysis.FairValueGap
	zone               *analysis.HTFZone
	bosStrength        float64
	pullbackConfidence float64
}

// ruleSet pairs a setup name with its evaluation function.
type ruleSet struct {
	name SetupType
	eval func(symbol string, candles []market.Candle) *candidate
}

// ruleOrder returns the rule-sets in symbol priority: gold leads with the
// zone setup, the majors with the trend setup.
func (c *Composer) ruleOrder(symbol string) []ruleSet {
	trendSweep := ruleSet{SetupTrendSweepBOS, c.evalTrendSweepBOS}
	zoneBlock := ruleSet{SetupZoneBlockChoCH, c.evalZoneBlockChoCH}
	blockFib := ruleSet{SetupBlockFVGFib, c.evalBlockFVGFib}

	if symbol == "XAUUSD" {
		return []ruleSet{zoneBlock, trendSweep, blockFib}
	}
	return []ruleSet{trendSweep, zoneBlock, blockFib}
}

// Analyze runs the pipeline over the window and returns a Signal, or nil
// when no rule-set fires or the proposal fails stop/RR validation.
func (c *Composer) Analyze(symbol string, candles []market.Candle) *Signal {
	if len(candles) < c.params.MinWindow {
		return nil
	}
	last := candles[len(candles)-1]

	if c.params.CalendarFilter {
		if ok, reason := market.CanTradeAt(last.Time()); !ok {
			c.log.Debug().Str("symbol", symbol).Str("reason", reason).Msg("calendar filter blocked analysis")
			return nil
		}
	}

	var cand *candidate
	for _, rs := range c.ruleOrder(symbol) {
		if cand = rs.eval(symbol, candles); cand != nil {
			break
		}
	}
	if cand == nil {
		return nil
	}

	// Volume is a bonus confirmation, never a requirement: most forex
	// feeds carry no volume at all.
	dir := analysis.Bullish
	if cand.direction == Short {
		dir = analysis.Bearish
	}
	if c.volume.Confirms(candles, dir) {
		cand.confirmations = append(cand.confirmations, "volume")
	}

	count := len(cand.confirmations)
	if count < c.params.MinConfirmations {
		return nil
	}
	riskMult := riskMultiplierFor(count)
	if riskMult == 0 {
		return nil
	}

	entry := last.Close
	stop, target, zoneType, ok := c.placeStops(symbol, entry, cand, candles)
	if !ok {
		return nil
	}

	risk := abs(entry - stop)
	reward := abs(target - entry)
	if risk == 0 {
		return nil
	}
	rr := reward / risk
	if rr < c.params.MinRiskReward {
		return nil
	}

	sig := &Signal{
		Timestamp:          last.Timestamp,
		Symbol:             symbol,
		Setup:              cand.setup,
		Direction:          cand.direction,
		EntryPrice:         entry,
		StopLoss:           stop,
		TakeProfit:         target,
		RiskReward:         rr,
		RiskMultiplier:     riskMult,
		Confirmations:      cand.confirmations,
		Confidence:         c.confidence(count, rr, cand.htfTrend),
		EntryZone:          zoneType,
		BOSStrength:        cand.bosStrength,
		PullbackConfidence: cand.pullbackConfidence,
		HTFTrend:           cand.htfTrend,
		OrderBlock:         cand.orderBlock,
		FVG:                cand.fvg,
		Zone:               cand.zone,
	}

	c.log.Debug().
		Str("symbol", symbol).
		Str("setup", string(sig.Setup)).
		Str("direction", string(sig.Direction)).
		Float64("entry", sig.EntryPrice).
		Float64("stop", sig.StopLoss).
		Float64("target", sig.TakeProfit).
		Float64("rr", sig.RiskReward).
		Strs("confirmations", sig.Confirmations).
		Msg("signal composed")

	return sig
}

// evalTrendSweepBOS: higher-timeframe bias, an aligned liquidity sweep and
// a break of structure in the bias direction. Multi-timeframe alignment and
// previous-day-level respect count as bonus confirmations when present.
func (c *Composer) evalTrendSweepBOS(symbol string, candles []market.Candle) *candidate {
	htf := c.trend.DetectHTF(candles, c.params.HTFFactor)
	if htf == analysis.TrendRanging {
		htf = c.trend.Detect(candles)
	}
	if htf == analysis.TrendRanging {
		return nil
	}

	dir := analysis.Bullish
	side := Long
	if htf == analysis.TrendBearish {
		dir = analysis.Bearish
		side = Short
	}
	confirmations := []string{"htf_bias"}
	if aligned, _ := c.trend.Alignment(candles, dir); aligned {
		confirmations = append(confirmations, "mtf_alignment")
	}

	sweep := c.detectSweep(symbol, candles)
	if sweep == analysis.SweptNone {
		return nil
	}
	if side == Long && sweep != analysis.SweptLow {
		return nil
	}
	if side == Short && sweep != analysis.SweptHigh {
		return nil
	}
	confirmations = append(confirmations, "liquidity_sweep")

	if !c.structure.HasBOS(candles, dir) {
		return nil
	}
	confirmations = append(confirmations, "bos")

	if analysis.RespectsPreviousDayLevel(candles, dir) {
		confirmations = append(confirmations, "pd_level")
	}

	cand := &candidate{
		setup:         SetupTrendSweepBOS,
		direction:     side,
		confirmations: confirmations,
		htfTrend:      htf,
	}
	if bos := c.structure.DetectBOS(candles); bos != nil && bos.Direction == dir {
		cand.bosStrength = bos.Strength
		if pb := c.structure.DetectPullback(candles, bos); pb != nil {
			cand.pullbackConfidence = pb.Confidence
		}
	}
	return cand
}

// evalZoneBlockChoCH: price tapping a higher-timeframe supply/demand zone,
// an order block intersecting it and a change of character.
func (c *Composer) evalZoneBlockChoCH(symbol string, candles []market.Candle) *candidate {
	zones := c.zones.Detect(candles, c.params.HTFFactor, "htf")
	if len(zones) == 0 {
		return nil
	}
	price := candles[len(candles)-1].Close

	var tapped *analysis.HTFZone
	for i := range zones {
		if zones[i].Contains(price) {
			tapped = &zones[i]
			break
		}
	}
	if tapped == nil {
		return nil
	}
	confirmations := []string{"htf_zone"}

	dir := analysis.Bullish
	side := Long
	if tapped.Kind == analysis.Supply {
		dir = analysis.Bearish
		side = Short
	}

	var aligned *analysis.OrderBlock
	for _, ob := range c.blocks.Detect(candles, "base") {
		if ob.Direction == dir && tapped.OverlapsBlock(ob) {
			b := ob
			aligned = &b
			break
		}
	}
	if aligned == nil {
		return nil
	}
	confirmations = append(confirmations, "order_block")

	if !c.structure.HasChoCH(candles, dir) {
		return nil
	}
	confirmations = append(confirmations, "choch")

	return &candidate{
		setup:         SetupZoneBlockChoCH,
		direction:     side,
		confirmations: confirmations,
		htfTrend:      analysis.TrendRanging,
		orderBlock:    aligned,
		zone:          tapped,
	}
}

// evalBlockFVGFib: the most recent order block overlapping a same-direction
// unfilled fair value gap with its midpoint at the 79% retracement.
func (c *Composer) evalBlockFVGFib(symbol string, candles []market.Candle) *candidate {
	blocks := c.blocks.Detect(candles, "base")
	if len(blocks) == 0 {
		return nil
	}
	ob := blocks[0]
	confirmations := []string{"order_block"}

	dir := ob.Direction
	side := Long
	if dir == analysis.Bearish {
		side = Short
	}

	gaps := c.fvg.Unfilled(c.fvg.MarkFilled(c.fvg.Detect(candles), candles))

	var overlap *analysis.FairValueGap
	for _, g := range gaps {
		if ob.Overlaps(g) {
			gg := g
			overlap = &gg
		}
	}
	if overlap == nil {
		return nil
	}
	confirmations = append(confirmations, "fvg")

	if !c.fib.At79Percent(candles, ob.Midpoint(), dir) {
		return nil
	}
	confirmations = append(confirmations, "fib_79")

	cand := &candidate{
		setup:         SetupBlockFVGFib,
		direction:     side,
		confirmations: confirmations,
		htfTrend:      c.trend.DetectHTF(candles, c.params.HTFFactor),
		orderBlock:    &ob,
		fvg:           overlap,
	}
	return cand
}

// detectSweep prefers the Asian-range sweep for the London-session majors
// and falls back to equal-high/low pool sweeps.
func (c *Composer) detectSweep(symbol string, candles []market.Candle) analysis.SweepSide {
	if symbol == "EURUSD" || symbol == "GBPUSD" {
		if s := c.liquidity.DetectAsianSweep(candles); s != analysis.SweptNone {
			return s
		}
	}
	return c.liquidity.DetectSweep(candles)
}

// placeStops anchors the stop just outside the candidate's structural zone
// with the configured buffer, validates the pip distance, and derives the
// target from the fixed RR multiple.
func (c *Composer) placeStops(symbol string, entry float64, cand *candidate, candles []market.Candle) (stop, target float64, zone ZoneType, ok bool) {
	buf := c.params.StopBuffer

	switch {
	case cand.orderBlock != nil:
		zone = ZoneOrderBlock
		if cand.fvg != nil {
			zone = ZoneFVG
		}
		if cand.direction == Long {
			stop = cand.orderBlock.Low * (1 - buf)
		} else {
			stop = cand.orderBlock.High * (1 + buf)
		}
	case cand.zone != nil:
		zone = ZoneHTF
		if cand.direction == Long {
			stop = cand.zone.Low * (1 - buf)
		} else {
			stop = cand.zone.High * (1 + buf)
		}
	default:
		zone = ZoneSwing
		recent := market.Window(candles, 20)
		if cand.direction == Long {
			stop = market.LowestLow(recent) * (1 - buf)
		} else {
			stop = market.HighestHigh(recent) * (1 + buf)
		}
	}

	if cand.direction == Long && stop >= entry {
		return 0, 0, zone, false
	}
	if cand.direction == Short && stop <= entry {
		return 0, 0, zone, false
	}

	dist := abs(entry - stop)
	pips := dist / PipSize(symbol)
	if pips < c.params.MinStopPips || pips > c.params.MaxStopPips {
		return 0, 0, zone, false
	}

	if cand.direction == Long {
		target = entry + dist*c.params.TakeProfitRR
	} else {
		target = entry - dist*c.params.TakeProfitRR
	}
	return stop, target, zone, true
}

// confidence starts at 0.60, adds 0.10 per confirmation, 0.05 for RR of 4
// or better and 0.05 for a known higher-timeframe trend, capped at 0.95.
func (c *Composer) confidence(confirmations int, rr float64, htf analysis.Trend) float64 {
	conf := 0.60 + float64(confirmations)*0.10
	if rr >= 4.0 {
		conf += 0.05
	}
	if htf == analysis.TrendBullish || htf == analysis.TrendBearish {
		conf += 0.05
	}
	if conf > 0.95 {
		conf = 0.95
	}
	return conf
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
