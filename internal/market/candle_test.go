package market

import (
	"testing"
	"time"
)

func TestCandleDirection(t *testing.T) {
	bull := Candle{Open: 1.1000, High: 1.1020, Low: 1.0995, Close: 1.1015}
	if !bull.IsBullish() || bull.IsBearish() {
		t.Errorf("expected bullish candle, got bullish=%v bearish=%v", bull.IsBullish(), bull.IsBearish())
	}

	bear := Candle{Open: 1.1015, High: 1.1020, Low: 1.0995, Close: 1.1000}
	if bear.IsBullish() || !bear.IsBearish() {
		t.Errorf("expected bearish candle, got bullish=%v bearish=%v", bear.IsBullish(), bear.IsBearish())
	}

	doji := Candle{Open: 1.1000, High: 1.1010, Low: 1.0990, Close: 1.1000}
	if doji.IsBullish() || doji.IsBearish() {
		t.Error("doji should be neither bullish nor bearish")
	}
}

func TestCandleValidate(t *testing.T) {
	tests := []struct {
		name    string
		candle  Candle
		wantErr bool
	}{
		{"valid", Candle{Open: 1.1, High: 1.2, Low: 1.0, Close: 1.15}, false},
		{"high below close", Candle{Open: 1.1, High: 1.12, Low: 1.0, Close: 1.15}, true},
		{"low above open", Candle{Open: 1.1, High: 1.2, Low: 1.12, Close: 1.15}, true},
		{"zero price", Candle{Open: 0, High: 0, Low: 0, Close: 0}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.candle.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateSeriesOrdering(t *testing.T) {
	candles := []Candle{
		{Timestamp: 100, Open: 1.1, High: 1.2, Low: 1.0, Close: 1.15},
		{Timestamp: 200, Open: 1.15, High: 1.25, Low: 1.1, Close: 1.2},
		{Timestamp: 150, Open: 1.2, High: 1.3, Low: 1.15, Close: 1.25},
	}
	if err := ValidateSeries(candles); err == nil {
		t.Error("expected error for out-of-order timestamps")
	}
	if err := ValidateSeries(candles[:2]); err != nil {
		t.Errorf("unexpected error for ordered series: %v", err)
	}
}

func TestHighestHighLowestLow(t *testing.T) {
	candles := []Candle{
		{Open: 1.1, High: 1.15, Low: 1.05, Close: 1.1},
		{Open: 1.1, High: 1.30, Low: 1.08, Close: 1.2},
		{Open: 1.2, High: 1.25, Low: 1.02, Close: 1.1},
	}
	if got := HighestHigh(candles); got != 1.30 {
		t.Errorf("HighestHigh = %v, want 1.30", got)
	}
	if got := LowestLow(candles); got != 1.02 {
		t.Errorf("LowestLow = %v, want 1.02", got)
	}
	if got := HighestHigh(nil); got != 0 {
		t.Errorf("HighestHigh(nil) = %v, want 0", got)
	}
}

func TestWindow(t *testing.T) {
	candles := make([]Candle, 10)
	for i := range candles {
		candles[i].Timestamp = int64(i)
	}

	w := Window(candles, 3)
	if len(w) != 3 || w[0].Timestamp != 7 {
		t.Errorf("Window(10, 3) = len %d first %d, want len 3 first 7", len(w), w[0].Timestamp)
	}
	if got := Window(candles, 20); len(got) != 10 {
		t.Errorf("Window larger than slice should return all %d, got %d", len(candles), len(got))
	}
}

func TestCandleTimeIsUTC(t *testing.T) {
	c := Candle{Timestamp: 1700000000}
	if c.Time().Location() != time.UTC {
		t.Errorf("Time() location = %v, want UTC", c.Time().Location())
	}
}
