package analysis

import (
	"smc-trading-bot/internal/market"
)

// FairValueGap is a three-candle imbalance left unfilled by the middle
// candle. Top is always above Bottom regardless of direction.
type FairValueGap struct {
	Timestamp int64
	Top       float64
	Bottom    float64
	Direction Direction
	Filled    bool
}

// FVGDetector finds fair value gaps. Gaps smaller than minGapPercent of
// price are treated as noise and skipped.
type FVGDetector struct {
	minGapPercent float64
}

// NewFVGDetector creates a detector. minGapPercent <= 0 falls back to the
// 0.1% default.
func NewFVGDetector(minGapPercent float64) *FVGDetector {
	if minGapPercent <= 0 {
		minGapPercent = 0.1
	}
	return &FVGDetector{minGapPercent: minGapPercent}
}

// Detect scans the window for gaps. A bullish gap is candle[i].High below
// candle[i+2].Low; bearish is the mirror. Gaps are returned oldest first.
func (fd *FVGDetector) Detect(candles []market.Candle) []FairValueGap {
	if len(candles) < 3 {
		return nil
	}

	var gaps []FairValueGap
	for i := 0; i+2 < len(candles); i++ {
		c1 := candles[i]
		c2 := candles[i+1]
		c3 := candles[i+2]

		if c1.High < c3.Low {
			size := (c3.Low - c1.High) / c1.High * 100
			if size >= fd.minGapPercent {
				gaps = append(gaps, FairValueGap{
					Timestamp: c2.Timestamp,
					Top:       c3.Low,
					Bottom:    c1.High,
					Direction: Bullish,
				})
			}
		}

		if c1.Low > c3.High {
			size := (c1.Low - c3.High) / c3.High * 100
			if size >= fd.minGapPercent {
				gaps = append(gaps, FairValueGap{
					Timestamp: c2.Timestamp,
					Top:       c1.Low,
					Bottom:    c3.High,
					Direction: Bearish,
				})
			}
		}
	}
	return gaps
}

// MarkFilled flags gaps that later price action traded back into. A bullish
// gap fills when a subsequent low reaches the gap top or beyond; a bearish
// gap when a subsequent high reaches the gap bottom or beyond. Piercing clean
// through the zone counts as a fill.
func (fd *FVGDetector) MarkFilled(gaps []FairValueGap, candles []market.Candle) []FairValueGap {
	out := make([]FairValueGap, len(gaps))
	copy(out, gaps)

	for i := range out {
		g := &out[i]
		for _, c := range candles {
			if c.Timestamp <= g.Timestamp {
				continue
			}
			if g.Direction == Bullish && c.Low <= g.Top {
				g.Filled = true
				break
			}
			if g.Direction == Bearish && c.High >= g.Bottom {
				g.Filled = true
				break
			}
		}
	}
	return out
}

// Unfilled returns only the gaps not yet filled.
func (fd *FVGDetector) Unfilled(gaps []FairValueGap) []FairValueGap {
	var out []FairValueGap
	for _, g := range gaps {
		if !g.Filled {
			out = append(out, g)
		}
	}
	return out
}

// PriceInGap reports whether price sits inside the gap zone.
func PriceInGap(price float64, g FairValueGap) bool {
	return price >= g.Bottom && price <= g.Top
}
