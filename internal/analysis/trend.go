package analysis

import (
	"smc-trading-bot/internal/market"
)

// Trend labels the directional state of a timeframe.
type Trend string

const (
	TrendBullish Trend = "bullish"
	TrendBearish Trend = "bearish"
	TrendRanging Trend = "ranging"
)

// TrendAnalyzer scores trend direction from higher-high/higher-low counts
// and checks multi-timeframe alignment. Base candles are assumed hourly;
// timeframe factors are numbers of base bars per aggregated bar.
type TrendAnalyzer struct {
	window       int     // bars of the rolling structure window
	span         int     // comparison span for HH/HL counting
	dominance    float64 // how much one side must outscore the other
	mtfFactors   []int   // resampling factors for alignment, base bars per TF
	minAligned   int     // timeframes that must produce a score
	minAvgScore  float64 // average score threshold
	minEachScore float64 // floor for the weakest timeframe
}

// NewTrendAnalyzer uses the defaults: 20-bar window, 5-bar span, 1.3x
// dominance, alignment over the base timeframe plus 4x, 12x and 24x
// aggregations with at least 3 scoring, average above 0.6 and minimum
// above 0.4.
func NewTrendAnalyzer() *TrendAnalyzer {
	return &TrendAnalyzer{
		window:       20,
		span:         5,
		dominance:    1.3,
		mtfFactors:   []int{1, 4, 12, 24},
		minAligned:   3,
		minAvgScore:  0.6,
		minEachScore: 0.4,
	}
}

// Detect classifies the window's trend by counting bars making new highs or
// lows against the preceding span.
func (ta *TrendAnalyzer) Detect(candles []market.Candle) Trend {
	if len(candles) < ta.window {
		return TrendRanging
	}
	recent := market.Window(candles, ta.window)

	var hh, hl, lh, ll int
	for i := ta.span; i < len(recent); i++ {
		prior := recent[i-ta.span : i]
		if recent[i].High > market.HighestHigh(prior) {
			hh++
		}
		if recent[i].Low > market.HighestLow(prior) {
			hl++
		}
		if recent[i].High < market.LowestHigh(prior) {
			lh++
		}
		if recent[i].Low < market.LowestLow(prior) {
			ll++
		}
	}

	bullish := float64(hh + hl)
	bearish := float64(lh + ll)
	switch {
	case bullish > bearish*ta.dominance:
		return TrendBullish
	case bearish > bullish*ta.dominance:
		return TrendBearish
	default:
		return TrendRanging
	}
}

// DetectHTF resamples base candles by factor before detecting, giving the
// higher-timeframe bias.
func (ta *TrendAnalyzer) DetectHTF(candles []market.Candle, factor int) Trend {
	htf := market.Resample(candles, factor)
	if len(htf) < ta.window {
		return TrendRanging
	}
	return ta.Detect(htf)
}

// score measures how strongly the window trends in dir, normalized to [0,1].
func (ta *TrendAnalyzer) score(candles []market.Candle, dir Direction) float64 {
	if len(candles) < ta.window {
		return -1
	}
	recent := market.Window(candles, ta.window)

	var count int
	for i := ta.span; i < len(recent); i++ {
		prior := recent[i-ta.span : i]
		if dir == Bullish {
			if recent[i].High > market.HighestHigh(prior) {
				count++
			}
			if recent[i].Low > market.HighestLow(prior) {
				count++
			}
		} else {
			if recent[i].High < market.LowestHigh(prior) {
				count++
			}
			if recent[i].Low < market.LowestLow(prior) {
				count++
			}
		}
	}
	return clamp01(float64(count) / float64(2*(ta.window-ta.span)))
}

// Alignment checks multi-timeframe agreement with dir. At least minAligned
// timeframes must have enough data; the average score must clear
// minAvgScore and the weakest minEachScore.
func (ta *TrendAnalyzer) Alignment(candles []market.Candle, dir Direction) (bool, float64) {
	var scores []float64
	for _, f := range ta.mtfFactors {
		s := ta.score(market.Resample(candles, f), dir)
		if s >= 0 {
			scores = append(scores, s)
		}
	}
	if len(scores) < ta.minAligned {
		return false, 0
	}

	sum, min := 0.0, scores[0]
	for _, s := range scores {
		sum += s
		if s < min {
			min = s
		}
	}
	avg := sum / float64(len(scores))
	return avg > ta.minAvgScore && min > ta.minEachScore, avg
}
