package analysis

import (
	"smc-trading-bot/internal/market"
)

// LiquidityPool is a near-equal high or low level where resting stops
// cluster.
type LiquidityPool struct {
	Level  float64
	IsHigh bool
	Swept  bool
}

// SweepSide labels which side of liquidity was taken.
type SweepSide string

const (
	SweptHigh SweepSide = "high"
	SweptLow  SweepSide = "low"
	SweptNone SweepSide = ""
)

// LiquidityAnalyzer detects equal-high/low pools among swing extrema and
// sweeps of those pools.
type LiquidityAnalyzer struct {
	equalTolerance float64 // max relative distance between "equal" extrema
	poolLookback   int     // bars scanned for pools
	sweepBars      int     // trailing bars checked for the sweep
	pivotSpan      int     // neighbors each side for a swing point
}

// NewLiquidityAnalyzer uses the defaults: 0.1% equality tolerance over a
// 20-bar window, sweeps confirmed within the last 3 bars, 2-bar pivots.
func NewLiquidityAnalyzer() *LiquidityAnalyzer {
	return &LiquidityAnalyzer{
		equalTolerance: 0.001,
		poolLookback:   20,
		sweepBars:      3,
		pivotSpan:      2,
	}
}

// swingHighs returns indices whose high exceeds every neighbor within
// pivotSpan bars on both sides.
func (la *LiquidityAnalyzer) swingHighs(candles []market.Candle) []int {
	var idx []int
	for i := la.pivotSpan; i < len(candles)-la.pivotSpan; i++ {
		isHigh := true
		for j := i - la.pivotSpan; j <= i+la.pivotSpan; j++ {
			if j != i && candles[j].High > candles[i].High {
				isHigh = false
				break
			}
		}
		if isHigh {
			idx = append(idx, i)
		}
	}
	return idx
}

func (la *LiquidityAnalyzer) swingLows(candles []market.Candle) []int {
	var idx []int
	for i := la.pivotSpan; i < len(candles)-la.pivotSpan; i++ {
		isLow := true
		for j := i - la.pivotSpan; j <= i+la.pivotSpan; j++ {
			if j != i && candles[j].Low < candles[i].Low {
				isLow = false
				break
			}
		}
		if isLow {
			idx = append(idx, i)
		}
	}
	return idx
}

// DetectPools finds equal highs and equal lows among swing extrema in the
// pool window. A pool needs at least two extrema within the equality
// tolerance.
func (la *LiquidityAnalyzer) DetectPools(candles []market.Candle) []LiquidityPool {
	if len(candles) < 10 {
		return nil
	}
	window := market.Window(candles, la.poolLookback)

	var pools []LiquidityPool

	highIdx := la.swingHighs(window)
	for i := 0; i < len(highIdx); i++ {
		for j := i + 1; j < len(highIdx); j++ {
			a := window[highIdx[i]].High
			b := window[highIdx[j]].High
			if relDiff(a, b) <= la.equalTolerance {
				pools = append(pools, LiquidityPool{Level: a, IsHigh: true})
				break
			}
		}
	}

	lowIdx := la.swingLows(window)
	for i := 0; i < len(lowIdx); i++ {
		for j := i + 1; j < len(lowIdx); j++ {
			a := window[lowIdx[i]].Low
			b := window[lowIdx[j]].Low
			if relDiff(a, b) <= la.equalTolerance {
				pools = append(pools, LiquidityPool{Level: a, IsHigh: false})
				break
			}
		}
	}
	return pools
}

// DetectSweep checks whether a recent bar pierced a pool level and the
// latest close came back inside it. A swept low is a bullish signal, a
// swept high a bearish one.
func (la *LiquidityAnalyzer) DetectSweep(candles []market.Candle) SweepSide {
	pools := la.DetectPools(candles)
	if len(pools) == 0 || len(candles) < la.sweepBars {
		return SweptNone
	}

	recent := market.Window(candles, la.sweepBars)
	closePrice := candles[len(candles)-1].Close

	for _, p := range pools {
		if p.IsHigh {
			for _, c := range recent {
				if c.High > p.Level && closePrice < p.Level {
					return SweptHigh
				}
			}
		} else {
			for _, c := range recent {
				if c.Low < p.Level && closePrice > p.Level {
					return SweptLow
				}
			}
		}
	}
	return SweptNone
}

// DetectAsianSweep checks whether the Asian-session range was taken out
// during London/New York hours with price closing back inside it.
func (la *LiquidityAnalyzer) DetectAsianSweep(candles []market.Candle) SweepSide {
	if len(candles) == 0 {
		return SweptNone
	}
	last := candles[len(candles)-1]
	hour := last.Time().Hour()
	if hour < 9 || hour >= 22 {
		return SweptNone
	}

	asian, ok := market.AsianRange(candles)
	if !ok {
		return SweptNone
	}

	recent := market.Window(candles, 5)
	for _, c := range recent {
		if c.High > asian.High && last.Close < asian.High {
			return SweptHigh
		}
		if c.Low < asian.Low && last.Close > asian.Low {
			return SweptLow
		}
	}
	return SweptNone
}

// RespectsPreviousDayLevel reports whether the latest price honors the prior
// day's extreme for the given direction: above the previous-day low for
// longs, below the previous-day high for shorts.
func RespectsPreviousDayLevel(candles []market.Candle, dir Direction) bool {
	levels, ok := market.PreviousDayLevels(candles)
	if !ok {
		return true // neutral without enough history
	}
	price := candles[len(candles)-1].Close
	if dir == Bullish {
		return price > levels.Low
	}
	return price < levels.High
}

func relDiff(a, b float64) float64 {
	d := a - b
	if d < 0 {
		d = -d
	}
	if a == 0 {
		return 0
	}
	if a < 0 {
		a = -a
	}
	return d / a
}
