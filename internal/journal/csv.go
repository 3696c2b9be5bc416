package journal

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"
)

// WriteCSV exports trades to path for spreadsheet review.
func WriteCSV(trades []TradeRecord, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{
		"id", "symbol", "entry_time", "exit_time", "entry_price", "exit_price",
		"stop_loss", "take_profit", "quantity", "entry_zone_type",
		"signal_strength", "risk_reward_ratio", "pnl", "pnl_percent",
		"status", "exit_reason",
	}); err != nil {
		return err
	}

	for _, t := range trades {
		if err := w.Write([]string{
			t.ID, t.Symbol,
			t.EntryTime.Format(time.RFC3339), t.ExitTime.Format(time.RFC3339),
			formatF(t.EntryPrice), formatF(t.ExitPrice),
			formatF(t.StopLoss), formatF(t.TakeProfit),
			formatF(t.Quantity), t.EntryZoneType,
			formatF(t.SignalStrength), formatF(t.RiskRewardRatio),
			formatF(t.PnL), formatF(t.PnLPercent),
			t.Status, t.ExitReason,
		}); err != nil {
			return err
		}
	}
	return nil
}

func formatF(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
