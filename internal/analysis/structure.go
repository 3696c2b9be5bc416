package analysis

import (
	"smc-trading-bot/internal/market"
)

// Direction labels the side of a structural pattern.
type Direction string

const (
	Bullish Direction = "bullish"
	Bearish Direction = "bearish"
)

// BreakOfStructure is a close beyond a recent swing extreme, taken as trend
// continuation evidence.
type BreakOfStructure struct {
	Timestamp   int64
	Direction   Direction
	BrokenLevel float64
	Strength    float64 // 0-1, how decisively the level broke
}

// PullbackZone is the retracement range after a BOS in which an entry is
// considered.
type PullbackZone struct {
	Timestamp  int64
	High       float64
	Low        float64
	Confidence float64
}

// StructureAnalyzer detects break of structure, change of character and
// pullback zones. Tolerances are fractions of price.
type StructureAnalyzer struct {
	breakTolerance    float64 // min excess beyond the extreme to call a break
	strengthSpan      float64 // excess at which strength saturates to 1
	minPullbackFrac   float64 // min pullback range as fraction of price
	structureLookback int     // bars scanned for the extreme
	pullbackLookback  int     // bars forming the pullback range
}

// NewStructureAnalyzer returns an analyzer with the default forex tolerances:
// 0.07% break threshold, strength saturating at 0.7% excess, 0.15% minimum
// pullback range, 15-bar structure window, 8-bar pullback window.
func NewStructureAnalyzer() *StructureAnalyzer {
	return &StructureAnalyzer{
		breakTolerance:    0.0007,
		strengthSpan:      0.007,
		minPullbackFrac:   0.0015,
		structureLookback: 15,
		pullbackLookback:  8,
	}
}

// DetectBOS checks whether the latest close breaks the window extreme. The
// extreme is taken over the structure window excluding the most recent two
// bars; downstream checks assume that exclusion.
func (sa *StructureAnalyzer) DetectBOS(candles []market.Candle) *BreakOfStructure {
	if len(candles) < sa.structureLookback {
		return nil
	}

	window := market.Window(candles, sa.structureLookback)
	body := window[:len(window)-2]
	last := candles[len(candles)-1]
	price := last.Close

	maxHigh := market.HighestHigh(body)
	minLow := market.LowestLow(body)

	if price > maxHigh*(1+sa.breakTolerance) {
		return &BreakOfStructure{
			Timestamp:   last.Timestamp,
			Direction:   Bullish,
			BrokenLevel: maxHigh,
			Strength:    clamp01((price - maxHigh) / (maxHigh * sa.strengthSpan)),
		}
	}
	if price < minLow*(1-sa.breakTolerance) {
		return &BreakOfStructure{
			Timestamp:   last.Timestamp,
			Direction:   Bearish,
			BrokenLevel: minLow,
			Strength:    clamp01((minLow - price) / (minLow * sa.strengthSpan)),
		}
	}
	return nil
}

// HasBOS is the boolean form used by rule-sets: a directional break with a
// looser 0.05% tolerance, matching the confirmation-stage policy.
func (sa *StructureAnalyzer) HasBOS(candles []market.Candle, dir Direction) bool {
	if len(candles) < sa.structureLookback {
		return false
	}
	window := market.Window(candles, sa.structureLookback)
	body := window[:len(window)-2]
	price := candles[len(candles)-1].Close

	if dir == Bullish {
		return price > market.HighestHigh(body)*1.0005
	}
	return price < market.LowestLow(body)*0.9995
}

// DetectPullback measures the retracement after a BOS and classifies entry
// quality. Price 20-60% into the range from the pullback extreme scores 0.85,
// 10-70% scores 0.7, anything else is rejected.
func (sa *StructureAnalyzer) DetectPullback(candles []market.Candle, bos *BreakOfStructure) *PullbackZone {
	if bos == nil || len(candles) < sa.pullbackLookback {
		return nil
	}

	recent := market.Window(candles, sa.pullbackLookback)
	last := candles[len(candles)-1]
	price := last.Close

	high := market.HighestHigh(recent)
	low := market.LowestLow(recent)
	span := high - low

	if span < price*sa.minPullbackFrac {
		return nil
	}

	var distance float64
	if bos.Direction == Bullish {
		distance = price - low
	} else {
		distance = high - price
	}

	var confidence float64
	switch {
	case distance >= 0.2*span && distance <= 0.6*span:
		confidence = 0.85
	case distance >= 0.1*span && distance <= 0.7*span:
		confidence = 0.7
	default:
		return nil
	}

	return &PullbackZone{
		Timestamp:  last.Timestamp,
		High:       high,
		Low:        low,
		Confidence: confidence,
	}
}

// HasChoCH reports a change of character: three strictly rising lows for a
// bullish shift, three strictly falling highs for a bearish one, over the
// last five bars.
func (sa *StructureAnalyzer) HasChoCH(candles []market.Candle, dir Direction) bool {
	if len(candles) < 10 {
		return false
	}
	recent := market.Window(candles, 5)

	if dir == Bullish {
		n := len(recent)
		return recent[n-1].Low > recent[n-2].Low && recent[n-2].Low > recent[n-3].Low
	}
	n := len(recent)
	return recent[n-1].High < recent[n-2].High && recent[n-2].High < recent[n-3].High
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
