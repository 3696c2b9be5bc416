package market

import (
	"testing"
	"time"
)

func utc(day int, hour, min int) time.Time {
	return time.Date(2024, time.March, day, hour, min, 0, 0, time.UTC)
}

func TestInSession(t *testing.T) {
	tests := []struct {
		name    string
		t       time.Time
		session Session
		want    bool
	}{
		{"london open", utc(4, 8, 0), SessionLondon, true},
		{"london close boundary", utc(4, 17, 0), SessionLondon, false},
		{"new york mid", utc(4, 15, 30), SessionNewYork, true},
		{"tokyo early", utc(4, 2, 0), SessionTokyo, true},
		{"sydney wraps midnight late", utc(4, 23, 0), SessionSydney, true},
		{"sydney wraps midnight early", utc(4, 3, 0), SessionSydney, true},
		{"sydney daytime", utc(4, 12, 0), SessionSydney, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InSession(tt.t, tt.session); got != tt.want {
				t.Errorf("InSession(%v, %s) = %v, want %v", tt.t, tt.session, got, tt.want)
			}
		})
	}
}

func TestCanTradeAt(t *testing.T) {
	// Monday 10:00 UTC, London session, no news slot.
	ok, reason := CanTradeAt(utc(4, 10, 0))
	if !ok {
		t.Errorf("monday 10:00 UTC should be tradeable, got reason %q", reason)
	}

	// NFP window starts 13:00 UTC.
	if ok, _ := CanTradeAt(utc(4, 13, 15)); ok {
		t.Error("13:15 UTC falls in a news window, should block")
	}

	// Sunday.
	if ok, _ := CanTradeAt(utc(3, 10, 0)); ok {
		t.Error("sunday should block")
	}

	// Friday evening.
	if ok, _ := CanTradeAt(utc(8, 21, 0)); ok {
		t.Error("friday 21:00 UTC should block")
	}

	// Overnight, outside both sessions.
	if ok, _ := CanTradeAt(utc(4, 3, 0)); ok {
		t.Error("03:00 UTC is outside london/new_york, should block")
	}
}

func TestPreviousDayLevels(t *testing.T) {
	day1 := time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC).Unix()
	day2 := time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC).Unix()

	candles := []Candle{
		{Timestamp: day1, Open: 1.10, High: 1.12, Low: 1.09, Close: 1.11},
		{Timestamp: day1 + 3600, Open: 1.11, High: 1.15, Low: 1.08, Close: 1.10},
		{Timestamp: day2, Open: 1.10, High: 1.11, Low: 1.095, Close: 1.105},
	}

	prev, ok := PreviousDayLevels(candles)
	if !ok {
		t.Fatal("expected previous day levels")
	}
	if prev.High != 1.15 || prev.Low != 1.08 {
		t.Errorf("previous day = %.2f/%.2f, want 1.15/1.08", prev.High, prev.Low)
	}

	if _, ok := PreviousDayLevels(candles[2:]); ok {
		t.Error("single-day series should not yield previous day levels")
	}
}

func TestAsianRange(t *testing.T) {
	day := time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)

	var candles []Candle
	for h := 0; h < 14; h++ {
		ts := day.Add(time.Duration(h) * time.Hour).Unix()
		c := Candle{Timestamp: ts, Open: 1.10, High: 1.10, Low: 1.10, Close: 1.10}
		if h == 3 {
			c.High = 1.13
		}
		if h == 6 {
			c.Low = 1.07
		}
		if h == 12 { // outside the asian window, must not count
			c.High = 1.20
			c.Low = 1.00
		}
		candles = append(candles, c)
	}

	r, ok := AsianRange(candles)
	if !ok {
		t.Fatal("expected asian range")
	}
	if r.High != 1.13 || r.Low != 1.07 {
		t.Errorf("asian range = %.2f/%.2f, want 1.13/1.07", r.High, r.Low)
	}
}
