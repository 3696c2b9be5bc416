package analysis

import (
	"testing"

	"smc-trading-bot/internal/market"
)

func TestDetectDemandZone(t *testing.T) {
	zd := NewHTFZoneDetector()

	candles := flatCandles(35, 1.1000, 1.1002, 1.0998)
	// Strong bullish departure at bar 10 with three confirming closes above
	// its high.
	candles[10] = market.Candle{
		Timestamp: 10 * 3600,
		Open:      1.1000, High: 1.1012, Low: 1.0995, Close: 1.1010,
	}
	for i := 11; i < 35; i++ {
		candles[i] = market.Candle{
			Timestamp: int64(i * 3600),
			Open:      1.1020, High: 1.1021, Low: 1.1019, Close: 1.1020,
		}
	}

	zones := zd.Detect(candles, 1, "4h")
	if len(zones) != 1 {
		t.Fatalf("expected 1 zone, got %d", len(zones))
	}

	z := zones[0]
	if z.Kind != Demand {
		t.Errorf("kind = %s, want demand", z.Kind)
	}
	if z.High != 1.1010 || z.Low != 1.0995 {
		t.Errorf("zone = %.4f/%.4f, want 1.1010/1.0995", z.High, z.Low)
	}
	if z.Timeframe != "4h" {
		t.Errorf("timeframe = %q, want 4h", z.Timeframe)
	}
}

func TestDetectSupplyZone(t *testing.T) {
	zd := NewHTFZoneDetector()

	candles := flatCandles(35, 1.1000, 1.1002, 1.0998)
	candles[10] = market.Candle{
		Timestamp: 10 * 3600,
		Open:      1.1000, High: 1.1005, Low: 1.0988, Close: 1.0990,
	}
	for i := 11; i < 35; i++ {
		candles[i] = market.Candle{
			Timestamp: int64(i * 3600),
			Open:      1.0980, High: 1.0981, Low: 1.0979, Close: 1.0980,
		}
	}

	zones := zd.Detect(candles, 1, "4h")
	if len(zones) != 1 {
		t.Fatalf("expected 1 zone, got %d", len(zones))
	}
	z := zones[0]
	if z.Kind != Supply {
		t.Errorf("kind = %s, want supply", z.Kind)
	}
	if z.High != 1.1005 || z.Low != 1.1000 {
		t.Errorf("zone = %.4f/%.4f, want 1.1005/1.1000", z.High, z.Low)
	}
}

func TestDetectZoneRequiresConfirmation(t *testing.T) {
	zd := NewHTFZoneDetector()

	// Departure that immediately retraces: no three confirming closes.
	candles := flatCandles(35, 1.1000, 1.1002, 1.0998)
	candles[10] = market.Candle{
		Timestamp: 10 * 3600,
		Open:      1.1000, High: 1.1012, Low: 1.0995, Close: 1.1010,
	}
	candles[11] = market.Candle{
		Timestamp: 11 * 3600,
		Open:      1.1010, High: 1.1020, Low: 1.1000, Close: 1.1015,
	}
	// bars 12+ stay at the flat base, below the origin high

	if zones := zd.Detect(candles, 1, "4h"); len(zones) != 0 {
		t.Errorf("expected no zones without confirmation, got %d", len(zones))
	}
}

func TestZoneContains(t *testing.T) {
	z := HTFZone{High: 1.1010, Low: 1.0995, Kind: Demand}
	if !z.Contains(1.1000) {
		t.Error("1.1000 should be inside the zone")
	}
	if z.Contains(1.1020) {
		t.Error("1.1020 should be outside the zone")
	}
}

func TestZoneOverlapsBlock(t *testing.T) {
	z := HTFZone{High: 1.1010, Low: 1.0995, Kind: Demand}

	inside := OrderBlock{High: 1.1005, Low: 1.1000}
	if !z.OverlapsBlock(inside) {
		t.Error("block inside the zone should overlap")
	}

	outside := OrderBlock{High: 1.1030, Low: 1.1020}
	if z.OverlapsBlock(outside) {
		t.Error("block above the zone should not overlap")
	}
}
