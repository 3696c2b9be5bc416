package analysis

import (
	"testing"

	"smc-trading-bot/internal/market"
)

// flatCandles builds n doji bars at price with the given high/low.
func flatCandles(n int, price, high, low float64) []market.Candle {
	out := make([]market.Candle, n)
	for i := range out {
		out[i] = market.Candle{
			Timestamp: int64(i * 3600),
			Open:      price,
			High:      high,
			Low:       low,
			Close:     price,
		}
	}
	return out
}

func TestDetectBOSBullish(t *testing.T) {
	sa := NewStructureAnalyzer()

	candles := flatCandles(20, 1.1000, 1.1010, 1.0990)
	candles[19].Close = 1.1030
	candles[19].High = 1.1035

	bos := sa.DetectBOS(candles)
	if bos == nil {
		t.Fatal("expected bullish BOS")
	}
	if bos.Direction != Bullish {
		t.Errorf("direction = %s, want bullish", bos.Direction)
	}
	if bos.BrokenLevel != 1.1010 {
		t.Errorf("broken level = %v, want 1.1010", bos.BrokenLevel)
	}
	if bos.Strength <= 0 || bos.Strength > 1 {
		t.Errorf("strength = %v, want in (0,1]", bos.Strength)
	}
}

func TestDetectBOSBearish(t *testing.T) {
	sa := NewStructureAnalyzer()

	candles := flatCandles(20, 1.1000, 1.1010, 1.0990)
	candles[19].Close = 1.0960
	candles[19].Low = 1.0955
	candles[19].Open = 1.0990

	bos := sa.DetectBOS(candles)
	if bos == nil {
		t.Fatal("expected bearish BOS")
	}
	if bos.Direction != Bearish {
		t.Errorf("direction = %s, want bearish", bos.Direction)
	}
	if bos.BrokenLevel != 1.0990 {
		t.Errorf("broken level = %v, want 1.0990", bos.BrokenLevel)
	}
}

func TestDetectBOSNoBreak(t *testing.T) {
	sa := NewStructureAnalyzer()

	candles := flatCandles(20, 1.1000, 1.1010, 1.0990)
	if bos := sa.DetectBOS(candles); bos != nil {
		t.Errorf("flat series should not break structure, got %+v", bos)
	}
}

func TestDetectBOSExcludesLastTwoBars(t *testing.T) {
	sa := NewStructureAnalyzer()

	// A spike on the second-to-last bar must not raise the reference level.
	candles := flatCandles(20, 1.1000, 1.1010, 1.0990)
	candles[18].High = 1.1100
	candles[19].Close = 1.1030
	candles[19].High = 1.1035

	bos := sa.DetectBOS(candles)
	if bos == nil {
		t.Fatal("expected BOS despite spike in excluded bars")
	}
	if bos.BrokenLevel != 1.1010 {
		t.Errorf("broken level = %v, want 1.1010 (spike excluded)", bos.BrokenLevel)
	}
}

func TestDetectBOSStrengthSaturates(t *testing.T) {
	sa := NewStructureAnalyzer()

	candles := flatCandles(20, 1.1000, 1.1010, 1.0990)
	candles[19].Close = 1.2000 // far beyond the saturation span
	candles[19].High = 1.2005

	bos := sa.DetectBOS(candles)
	if bos == nil {
		t.Fatal("expected BOS")
	}
	if bos.Strength != 1 {
		t.Errorf("strength = %v, want saturated 1", bos.Strength)
	}
}

func TestDetectPullback(t *testing.T) {
	sa := NewStructureAnalyzer()
	bos := &BreakOfStructure{Direction: Bullish}

	candles := flatCandles(12, 1.1050, 1.1060, 1.1040)
	candles[6].High = 1.1100
	candles[7].Low = 1.1000
	last := &candles[11]
	last.Close = 1.1040 // 40% into the range from the low
	last.Open = 1.1045
	last.Low = 1.1038
	last.High = 1.1050

	zone := sa.DetectPullback(candles, bos)
	if zone == nil {
		t.Fatal("expected pullback zone")
	}
	if zone.Confidence != 0.85 {
		t.Errorf("confidence = %v, want 0.85 for mid-range pullback", zone.Confidence)
	}
	if zone.High != 1.1100 || zone.Low != 1.1000 {
		t.Errorf("zone = %.4f/%.4f, want 1.1100/1.1000", zone.High, zone.Low)
	}
}

func TestDetectPullbackRejectsChase(t *testing.T) {
	sa := NewStructureAnalyzer()
	bos := &BreakOfStructure{Direction: Bullish}

	// Price near the top of the range is chasing, not pulling back.
	candles := flatCandles(12, 1.1050, 1.1060, 1.1040)
	candles[6].High = 1.1100
	candles[7].Low = 1.1000
	candles[11].Close = 1.1095
	candles[11].High = 1.1098

	if zone := sa.DetectPullback(candles, bos); zone != nil {
		t.Errorf("expected rejection of 95%% pullback depth, got %+v", zone)
	}
}

func TestDetectPullbackNilBOS(t *testing.T) {
	sa := NewStructureAnalyzer()
	candles := flatCandles(12, 1.1, 1.11, 1.09)
	if zone := sa.DetectPullback(candles, nil); zone != nil {
		t.Error("nil BOS should yield no pullback zone")
	}
}

func TestHasChoCH(t *testing.T) {
	sa := NewStructureAnalyzer()

	candles := flatCandles(12, 1.1000, 1.1010, 1.0990)
	candles[9].Low = 1.0990
	candles[10].Low = 1.0995
	candles[11].Low = 1.1000

	if !sa.HasChoCH(candles, Bullish) {
		t.Error("three rising lows should signal bullish ChoCH")
	}
	if sa.HasChoCH(candles, Bearish) {
		t.Error("flat highs should not signal bearish ChoCH")
	}

	candles[9].High = 1.1010
	candles[10].High = 1.1005
	candles[11].High = 1.1002
	if !sa.HasChoCH(candles, Bearish) {
		t.Error("three falling highs should signal bearish ChoCH")
	}
}
