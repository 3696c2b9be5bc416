package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("missing file should fall back to defaults: %v", err)
	}

	if len(cfg.Symbols) == 0 {
		t.Error("expected default symbols")
	}
	if cfg.Strategy.MinRiskReward != 2.0 {
		t.Errorf("min rr = %v, want 2.0", cfg.Strategy.MinRiskReward)
	}
	if cfg.Risk.MaxTradesPerDay != 2 {
		t.Errorf("max trades = %v, want 2", cfg.Risk.MaxTradesPerDay)
	}
	if cfg.Backtest.InitialBalance != 10000 {
		t.Errorf("initial balance = %v, want 10000", cfg.Backtest.InitialBalance)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("log level = %q, want info", cfg.Logging.Level)
	}
}

func TestLoadFileOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
symbols: [XAUUSD]
strategy:
  min_risk_reward: 2.5
  take_profit_rr: 4.0
risk:
  risk_per_trade: 0.5
backtest:
  initial_balance: 25000
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if len(cfg.Symbols) != 1 || cfg.Symbols[0] != "XAUUSD" {
		t.Errorf("symbols = %v, want [XAUUSD]", cfg.Symbols)
	}
	if cfg.Strategy.MinRiskReward != 2.5 {
		t.Errorf("min rr = %v, want 2.5", cfg.Strategy.MinRiskReward)
	}
	if cfg.Strategy.MinStopPips != 30 {
		t.Errorf("min stop pips = %v, want untouched default 30", cfg.Strategy.MinStopPips)
	}
	if cfg.Risk.RiskPerTrade != 0.5 {
		t.Errorf("risk per trade = %v, want 0.5", cfg.Risk.RiskPerTrade)
	}
	if cfg.Backtest.InitialBalance != 25000 {
		t.Errorf("initial balance = %v, want 25000", cfg.Backtest.InitialBalance)
	}
}

func TestLoadEnvWins(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://env-wins/trades")
	t.Setenv("SYMBOLS", "eurusd, gbpusd")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Database.URL != "postgres://env-wins/trades" {
		t.Errorf("database url = %q, want env value", cfg.Database.URL)
	}
	if len(cfg.Symbols) != 2 || cfg.Symbols[0] != "EURUSD" || cfg.Symbols[1] != "GBPUSD" {
		t.Errorf("symbols = %v, want upper-cased env list", cfg.Symbols)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
risk:
  risk_per_trade: 50
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("50% risk per trade must fail validation")
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("symbols: ["), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("malformed yaml must fail")
	}
}
