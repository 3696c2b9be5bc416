// Package config loads the application configuration from a YAML file,
// applies struct-tag defaults, overlays environment variables and validates
// the result. A missing file is not an error: defaults alone form a usable
// configuration.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"smc-trading-bot/internal/backtest"
	"smc-trading-bot/internal/logging"
	"smc-trading-bot/internal/risk"
	"smc-trading-bot/internal/strategy"
)

// Config is the root configuration.
type Config struct {
	Symbols  []string        `yaml:"symbols" default:"[\"EURUSD\",\"GBPUSD\",\"XAUUSD\"]" validate:"min=1,dive,required"`
	DataDir  string          `yaml:"data_dir" default:"data"`
	Logging  logging.Config  `yaml:"logging"`
	Strategy strategy.Params `yaml:"strategy"`
	Risk     risk.Config     `yaml:"risk"`
	Backtest backtest.Config `yaml:"backtest"`
	Database Database        `yaml:"database"`
}

// Database holds the optional trade-journal store settings. When URL is
// empty the journal stays in memory.
type Database struct {
	URL string `yaml:"url"`
}

// Load reads the configuration at path. Environment variables win over file
// values; a .env file in the working directory is honored if present.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := defaults.Set(cfg); err != nil {
		return nil, fmt.Errorf("failed to apply config defaults: %w", err)
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// run on defaults
	default:
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg.applyEnv()

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.Database.URL = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = strings.ToLower(v)
	}
	if v := os.Getenv("DATA_DIR"); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv("SYMBOLS"); v != "" {
		parts := strings.Split(v, ",")
		symbols := parts[:0]
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				symbols = append(symbols, strings.ToUpper(p))
			}
		}
		if len(symbols) > 0 {
			c.Symbols = symbols
		}
	}
}
