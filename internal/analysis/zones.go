package analysis

import (
	"smc-trading-bot/internal/market"
)

// ZoneKind labels a higher-timeframe zone as supply or demand.
type ZoneKind string

const (
	Supply ZoneKind = "supply"
	Demand ZoneKind = "demand"
)

// HTFZone is a higher-timeframe supply or demand zone: the origin candle of
// a strong departure.
type HTFZone struct {
	High      float64
	Low       float64
	Kind      ZoneKind
	Timeframe string
}

// HTFZoneDetector finds supply/demand zones on a resampled series. A zone
// qualifies when the three bars after the origin candle all close beyond
// its extreme.
type HTFZoneDetector struct {
	scanBars    int
	confirmBars int
	keep        int
}

// NewHTFZoneDetector scans the last 30 higher-timeframe bars, requires 3
// confirming closes and keeps the 5 most recent zones.
func NewHTFZoneDetector() *HTFZoneDetector {
	return &HTFZoneDetector{scanBars: 30, confirmBars: 3, keep: 5}
}

// Detect resamples base candles by factor and returns zones, oldest first.
func (zd *HTFZoneDetector) Detect(candles []market.Candle, factor int, label string) []HTFZone {
	htf := market.Resample(candles, factor)
	if len(htf) < zd.scanBars {
		return nil
	}
	recent := market.Window(htf, zd.scanBars)

	var zones []HTFZone
	for i := 0; i+zd.confirmBars < len(recent); i++ {
		origin := recent[i]
		confirm := recent[i+1 : i+1+zd.confirmBars]

		if origin.IsBearish() && allClosesBelow(confirm, origin.Low) {
			zones = append(zones, HTFZone{
				High:      origin.High,
				Low:       origin.Open,
				Kind:      Supply,
				Timeframe: label,
			})
		}
		if origin.IsBullish() && allClosesAbove(confirm, origin.High) {
			zones = append(zones, HTFZone{
				High:      origin.Close,
				Low:       origin.Low,
				Kind:      Demand,
				Timeframe: label,
			})
		}
	}
	if len(zones) > zd.keep {
		zones = zones[len(zones)-zd.keep:]
	}
	return zones
}

// Contains reports whether price sits inside the zone.
func (z HTFZone) Contains(price float64) bool {
	lo, hi := z.Low, z.High
	if lo > hi {
		lo, hi = hi, lo
	}
	return price >= lo && price <= hi
}

// OverlapsBlock reports whether an order block intersects the zone.
func (z HTFZone) OverlapsBlock(ob OrderBlock) bool {
	lo, hi := z.Low, z.High
	if lo > hi {
		lo, hi = hi, lo
	}
	return ob.Low <= hi && ob.High >= lo
}

func allClosesBelow(candles []market.Candle, level float64) bool {
	for _, c := range candles {
		if c.Close >= level {
			return false
		}
	}
	return len(candles) > 0
}

func allClosesAbove(candles []market.Candle, level float64) bool {
	for _, c := range candles {
		if c.Close <= level {
			return false
		}
	}
	return len(candles) > 0
}
