package market

import (
	"fmt"
	"time"
)

// Candle represents a single OHLCV bar. Timestamp is the bar open time in
// unix seconds, UTC. Candles are immutable once produced.
type Candle struct {
	Timestamp int64   `json:"timestamp"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    float64 `json:"volume"`
}

// Time returns the bar timestamp as a UTC time.Time.
func (c Candle) Time() time.Time {
	return time.Unix(c.Timestamp, 0).UTC()
}

// IsBullish reports whether the candle closed above its open.
func (c Candle) IsBullish() bool {
	return c.Close > c.Open
}

// IsBearish reports whether the candle closed below its open.
func (c Candle) IsBearish() bool {
	return c.Close < c.Open
}

// Body returns the absolute open-to-close distance.
func (c Candle) Body() float64 {
	if c.Close >= c.Open {
		return c.Close - c.Open
	}
	return c.Open - c.Close
}

// Range returns the high-to-low distance.
func (c Candle) Range() float64 {
	return c.High - c.Low
}

// Validate performs the basic range checks used at ingestion. Malformed
// candles are the data source's problem; the core assumes well-formed input.
func (c Candle) Validate() error {
	if c.High < c.Open || c.High < c.Close {
		return fmt.Errorf("candle at %d: high %.5f below body", c.Timestamp, c.High)
	}
	if c.Low > c.Open || c.Low > c.Close {
		return fmt.Errorf("candle at %d: low %.5f above body", c.Timestamp, c.Low)
	}
	if c.Open <= 0 || c.Close <= 0 {
		return fmt.Errorf("candle at %d: non-positive price", c.Timestamp)
	}
	return nil
}

// HighestHigh returns the maximum high over candles. Returns 0 for an empty slice.
func HighestHigh(candles []Candle) float64 {
	if len(candles) == 0 {
		return 0
	}
	max := candles[0].High
	for _, c := range candles[1:] {
		if c.High > max {
			max = c.High
		}
	}
	return max
}

// LowestLow returns the minimum low over candles. Returns 0 for an empty slice.
func LowestLow(candles []Candle) float64 {
	if len(candles) == 0 {
		return 0
	}
	min := candles[0].Low
	for _, c := range candles[1:] {
		if c.Low < min {
			min = c.Low
		}
	}
	return min
}

// HighestLow returns the maximum low over candles. Returns 0 for an empty slice.
func HighestLow(candles []Candle) float64 {
	if len(candles) == 0 {
		return 0
	}
	max := candles[0].Low
	for _, c := range candles[1:] {
		if c.Low > max {
			max = c.Low
		}
	}
	return max
}

// LowestHigh returns the minimum high over candles. Returns 0 for an empty slice.
func LowestHigh(candles []Candle) float64 {
	if len(candles) == 0 {
		return 0
	}
	min := candles[0].High
	for _, c := range candles[1:] {
		if c.High < min {
			min = c.High
		}
	}
	return min
}

// Window returns the trailing n candles, or the whole slice if it is shorter.
// The returned slice aliases the input and must be treated as read-only.
func Window(candles []Candle, n int) []Candle {
	if len(candles) <= n {
		return candles
	}
	return candles[len(candles)-n:]
}

// ValidateSeries checks candle well-formedness and timestamp ordering for a
// full series. Used by data-loading collaborators before handing candles to
// the engine.
func ValidateSeries(candles []Candle) error {
	for i, c := range candles {
		if err := c.Validate(); err != nil {
			return err
		}
		if i > 0 && c.Timestamp < candles[i-1].Timestamp {
			return fmt.Errorf("candle at index %d: timestamp %d out of order", i, c.Timestamp)
		}
	}
	return nil
}
