package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"smc-trading-bot/config"
	"smc-trading-bot/internal/backtest"
	"smc-trading-bot/internal/journal"
	"smc-trading-bot/internal/logging"
	"smc-trading-bot/internal/market"
	"smc-trading-bot/internal/risk"
	"smc-trading-bot/internal/strategy"
)

func main() {
	var (
		configPath = flag.String("config", "config.yaml", "path to configuration file")
		dataDir    = flag.String("data", "", "directory with <SYMBOL>.csv candle files (overrides config)")
		symbolsArg = flag.String("symbols", "", "comma-separated symbols to test (overrides config)")
		tradesOut  = flag.String("trades-out", "", "optional CSV file for the closed-trade log")
	)
	flag.Parse()

	if err := run(*configPath, *dataDir, *symbolsArg, *tradesOut); err != nil {
		fmt.Fprintf(os.Stderr, "backtest failed: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, dataDir, symbolsArg, tradesOut string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	if symbolsArg != "" {
		var symbols []string
		for _, s := range strings.Split(symbolsArg, ",") {
			if s = strings.ToUpper(strings.TrimSpace(s)); s != "" {
				symbols = append(symbols, s)
			}
		}
		cfg.Symbols = symbols
	}

	log := logging.New(cfg.Logging)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sink, err := openJournal(ctx, cfg)
	if err != nil {
		return err
	}
	defer sink.Close()

	data := make(map[string][]market.Candle, len(cfg.Symbols))
	for _, symbol := range cfg.Symbols {
		path := filepath.Join(cfg.DataDir, symbol+".csv")
		candles, err := market.LoadCSV(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				log.Warn().Str("symbol", symbol).Str("path", path).Msg("no data file, skipping symbol")
				continue
			}
			return fmt.Errorf("failed to load %s: %w", symbol, err)
		}
		log.Info().Str("symbol", symbol).Int("candles", len(candles)).Msg("loaded historical data")
		data[symbol] = candles
	}

	composer := strategy.NewComposer(cfg.Strategy, log)
	riskMgr := risk.NewManager(cfg.Risk, cfg.Backtest.InitialBalance, cfg.Strategy.MinRiskReward, log)
	engine := backtest.NewEngine(cfg.Backtest, composer, riskMgr, sink, log)

	result, err := engine.Run(ctx, data)
	if err != nil {
		return err
	}

	fmt.Println(result.Summary())

	if tradesOut != "" {
		if err := journal.WriteCSV(result.Trades, tradesOut); err != nil {
			return fmt.Errorf("failed to write trade log: %w", err)
		}
		log.Info().Str("path", tradesOut).Int("trades", len(result.Trades)).Msg("trade log written")
	}
	return nil
}

func openJournal(ctx context.Context, cfg *config.Config) (journal.Journal, error) {
	if cfg.Database.URL == "" {
		return journal.NewMemory(), nil
	}
	pg, err := journal.NewPostgres(ctx, cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect trade journal: %w", err)
	}
	return pg, nil
}
