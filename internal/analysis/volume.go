package analysis

import (
	"smc-trading-bot/internal/market"
)

// VolumeProfile summarizes the latest bar's volume against its recent
// average. Forex feeds often carry no volume; a zero average yields a nil
// profile and callers treat volume as unknown.
type VolumeProfile struct {
	CurrentVolume float64
	AverageVolume float64
	VolumeRatio   float64 // current / average
	IsHighVolume  bool    // ratio of 1.5 or more
	OBV           float64 // on-balance volume over the window
}

// VolumeAnalyzer measures participation behind a move.
type VolumeAnalyzer struct {
	avgPeriod int
}

// NewVolumeAnalyzer uses a 20-bar average when period is not positive.
func NewVolumeAnalyzer(avgPeriod int) *VolumeAnalyzer {
	if avgPeriod <= 0 {
		avgPeriod = 20
	}
	return &VolumeAnalyzer{avgPeriod: avgPeriod}
}

// Analyze profiles the final bar. Returns nil when the series is empty or
// carries no volume.
func (va *VolumeAnalyzer) Analyze(candles []market.Candle) *VolumeProfile {
	if len(candles) == 0 {
		return nil
	}
	window := market.Window(candles, va.avgPeriod)
	last := candles[len(candles)-1]

	var sum float64
	for _, c := range window {
		sum += c.Volume
	}
	avg := sum / float64(len(window))
	if avg == 0 {
		return nil
	}

	ratio := last.Volume / avg
	return &VolumeProfile{
		CurrentVolume: last.Volume,
		AverageVolume: avg,
		VolumeRatio:   ratio,
		IsHighVolume:  ratio >= 1.5,
		OBV:           obv(window),
	}
}

// Confirms reports whether the latest bar shows above-average participation
// pushing in dir. Unknown volume never confirms.
func (va *VolumeAnalyzer) Confirms(candles []market.Candle, dir Direction) bool {
	p := va.Analyze(candles)
	if p == nil || !p.IsHighVolume {
		return false
	}
	last := candles[len(candles)-1]
	if dir == Bullish {
		return last.IsBullish()
	}
	return last.IsBearish()
}

// obv accumulates on-balance volume: add on up closes, subtract on down.
func obv(candles []market.Candle) float64 {
	var total float64
	for i := 1; i < len(candles); i++ {
		switch {
		case candles[i].Close > candles[i-1].Close:
			total += candles[i].Volume
		case candles[i].Close < candles[i-1].Close:
			total -= candles[i].Volume
		}
	}
	return total
}
