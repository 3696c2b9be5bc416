package journal

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func sampleTrade(id string, pnl float64) TradeRecord {
	return TradeRecord{
		ID:         id,
		Symbol:     "EURUSD",
		EntryTime:  time.Date(2024, time.March, 4, 10, 0, 0, 0, time.UTC),
		ExitTime:   time.Date(2024, time.March, 4, 14, 0, 0, 0, time.UTC),
		EntryPrice: 1.1000,
		ExitPrice:  1.1100,
		PnL:        pnl,
		Status:     "closed",
		ExitReason: "take_profit",
	}
}

func TestMemoryJournal(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	if err := m.LogTrade(ctx, sampleTrade("a", 200)); err != nil {
		t.Fatal(err)
	}
	if err := m.LogTrade(ctx, sampleTrade("b", -100)); err != nil {
		t.Fatal(err)
	}

	trades, err := m.Trades(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(trades) != 2 {
		t.Fatalf("expected 2 trades, got %d", len(trades))
	}
	if trades[0].ID != "a" || trades[1].ID != "b" {
		t.Error("trades must come back in insertion order")
	}

	// Mutating the returned slice must not touch the journal.
	trades[0].PnL = 0
	again, _ := m.Trades(ctx)
	if again[0].PnL != 200 {
		t.Error("Trades must return a copy")
	}
}

func TestWriteCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trades.csv")
	trades := []TradeRecord{sampleTrade("a", 200), sampleTrade("b", -100)}

	if err := WriteCSV(trades, path); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "id" {
		t.Errorf("header starts with %q, want id", rows[0][0])
	}
	if rows[1][0] != "a" || rows[2][0] != "b" {
		t.Error("rows out of order")
	}
	if rows[2][12] != "-100" {
		t.Errorf("pnl column = %q, want -100", rows[2][12])
	}
}
