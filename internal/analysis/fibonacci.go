package analysis

import (
	"smc-trading-bot/internal/market"
)

// FibLevel is one retracement level of a swing.
type FibLevel struct {
	Ratio float64
	Price float64
}

// fibRatios are the standard retracement ratios; 0.79 is the key entry
// level for this strategy.
var fibRatios = []float64{0, 0.236, 0.382, 0.5, 0.618, 0.79, 1}

// FibCalculator computes retracement levels and the 79% confluence check.
type FibCalculator struct {
	swingLookback int
	tolerance     float64 // max relative distance from the 79% level
}

// NewFibCalculator uses a 30-bar swing window and 0.5% tolerance.
func NewFibCalculator() *FibCalculator {
	return &FibCalculator{swingLookback: 30, tolerance: 0.005}
}

// Levels returns all retracement levels between the window's swing high and
// swing low, measured from the high downward.
func (fc *FibCalculator) Levels(swingHigh, swingLow float64) []FibLevel {
	span := swingHigh - swingLow
	out := make([]FibLevel, 0, len(fibRatios))
	for _, r := range fibRatios {
		out = append(out, FibLevel{Ratio: r, Price: swingHigh - span*r})
	}
	return out
}

// SwingPoints returns the swing high and low over the lookback window.
func (fc *FibCalculator) SwingPoints(candles []market.Candle) (high, low float64) {
	window := market.Window(candles, fc.swingLookback)
	return market.HighestHigh(window), market.LowestLow(window)
}

// At79Percent reports whether level sits within tolerance of the 79%
// retracement of the window swing. For longs the retracement is measured
// down from the swing high; for shorts up from the swing low.
func (fc *FibCalculator) At79Percent(candles []market.Candle, level float64, dir Direction) bool {
	if len(candles) < fc.swingLookback {
		return false
	}
	high, low := fc.SwingPoints(candles)
	span := high - low
	if span <= 0 {
		return false
	}

	var fib79 float64
	if dir == Bullish {
		fib79 = high - span*0.79
	} else {
		fib79 = low + span*0.79
	}
	return relDiff(fib79, level) < fc.tolerance
}
