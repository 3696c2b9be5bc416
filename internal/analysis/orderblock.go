package analysis

import (
	"sort"

	"smc-trading-bot/internal/market"
)

// OrderBlock is the last opposing candle before a strong directional move,
// treated as a support or resistance zone.
type OrderBlock struct {
	Timestamp int64
	High      float64
	Low       float64
	Direction Direction
	Timeframe string
	Strength  float64 // body size relative to price
}

// OrderBlockDetector scans the tail of a window for order blocks. A bullish
// block is the last bearish candle before an up-move: the next bar must close
// above the block candle's high by the continuation threshold. Bearish is the
// mirror, closing below the block candle's low.
type OrderBlockDetector struct {
	continuationFrac float64 // min continuation beyond the block extreme
	scanBars         int     // tail bars scanned per call
	keep             int     // most recent blocks kept per scan
}

// NewOrderBlockDetector uses the default 0.2% continuation threshold over a
// 10-bar tail, keeping the 5 most recent blocks.
func NewOrderBlockDetector() *OrderBlockDetector {
	return &OrderBlockDetector{
		continuationFrac: 0.002,
		scanBars:         10,
		keep:             5,
	}
}

// Detect returns order blocks in the window's tail, most recent first, so a
// single-block caller takes the head of the list. timeframe is a label
// carried through to the signal, not a resampling instruction; callers
// resample before detecting.
func (od *OrderBlockDetector) Detect(candles []market.Candle, timeframe string) []OrderBlock {
	if len(candles) < od.scanBars+2 {
		return nil
	}

	var blocks []OrderBlock
	start := len(candles) - od.scanBars
	for i := start; i < len(candles)-1; i++ {
		curr := candles[i]
		next := candles[i+1]

		if curr.IsBearish() && next.Close > curr.High*(1+od.continuationFrac) {
			blocks = append(blocks, OrderBlock{
				Timestamp: curr.Timestamp,
				High:      curr.High,
				Low:       curr.Low,
				Direction: Bullish,
				Timeframe: timeframe,
				Strength:  (curr.Open - curr.Close) / curr.Open,
			})
		}
		if curr.IsBullish() && next.Close < curr.Low*(1-od.continuationFrac) {
			blocks = append(blocks, OrderBlock{
				Timestamp: curr.Timestamp,
				High:      curr.High,
				Low:       curr.Low,
				Direction: Bearish,
				Timeframe: timeframe,
				Strength:  (curr.Close - curr.Open) / curr.Open,
			})
		}
	}

	sort.SliceStable(blocks, func(i, j int) bool {
		return blocks[i].Timestamp > blocks[j].Timestamp
	})
	if len(blocks) > od.keep {
		blocks = blocks[:od.keep]
	}
	return blocks
}

// Midpoint returns the center of the block zone, used for fib confluence.
func (ob OrderBlock) Midpoint() float64 {
	return (ob.High + ob.Low) / 2
}

// Overlaps reports whether the block zone intersects the gap zone. Only
// same-direction overlap counts as confluence.
func (ob OrderBlock) Overlaps(g FairValueGap) bool {
	if ob.Direction != g.Direction {
		return false
	}
	return ob.High >= g.Bottom && ob.Low <= g.Top
}
