package market

// Resample aggregates base candles into a coarser timeframe by grouping
// factor consecutive bars: open from the first, close from the last, high is
// the group max, low the group min, volume the sum. A trailing partial group
// is emitted as-is so the latest price action is never dropped.
func Resample(candles []Candle, factor int) []Candle {
	if factor <= 1 || len(candles) == 0 {
		return candles
	}

	out := make([]Candle, 0, (len(candles)+factor-1)/factor)
	for i := 0; i < len(candles); i += factor {
		end := i + factor
		if end > len(candles) {
			end = len(candles)
		}
		group := candles[i:end]

		agg := Candle{
			Timestamp: group[0].Timestamp,
			Open:      group[0].Open,
			High:      group[0].High,
			Low:       group[0].Low,
			Close:     group[len(group)-1].Close,
		}
		for _, c := range group {
			if c.High > agg.High {
				agg.High = c.High
			}
			if c.Low < agg.Low {
				agg.Low = c.Low
			}
			agg.Volume += c.Volume
		}
		out = append(out, agg)
	}
	return out
}
