package strategy

// Params holds the tunable thresholds of the signal composer. Defaults
// follow the most conservative of the observed variants; the RR minimum of
// 2.0 is the canonical choice, with the take-profit multiple and stop
// bounds exposed for the rest.
type Params struct {
	// MinWindow is the minimum candle count for an analysis pass.
	MinWindow int `yaml:"min_window" default:"100" validate:"gte=20"`

	// MinRiskReward is the floor a signal's RR must meet.
	MinRiskReward float64 `yaml:"min_risk_reward" default:"2.0" validate:"gte=1"`

	// TakeProfitRR is the fixed reward multiple used to place the target.
	TakeProfitRR float64 `yaml:"take_profit_rr" default:"3.0" validate:"gte=1"`

	// StopBuffer is the fractional buffer placed beyond the structural
	// zone when setting the stop.
	StopBuffer float64 `yaml:"stop_buffer" default:"0.002" validate:"gt=0"`

	// MinStopPips / MaxStopPips bound the stop distance; signals outside
	// the range are rejected.
	MinStopPips float64 `yaml:"min_stop_pips" default:"30" validate:"gt=0"`
	MaxStopPips float64 `yaml:"max_stop_pips" default:"150" validate:"gt=0"`

	// MinConfirmations is the least confirmations a rule-set may fire with.
	MinConfirmations int `yaml:"min_confirmations" default:"2" validate:"gte=1"`

	// MinGapPercent is the FVG noise floor as a percent of price.
	MinGapPercent float64 `yaml:"min_gap_percent" default:"0.1" validate:"gt=0"`

	// HTFFactor is the resampling factor for higher-timeframe bias and
	// zones, in base bars per HTF bar.
	HTFFactor int `yaml:"htf_factor" default:"4" validate:"gte=2"`

	// CalendarFilter gates signals by session, news and weekday windows.
	// Disabled for synthetic series whose timestamps carry no real
	// calendar meaning.
	CalendarFilter bool `yaml:"calendar_filter" default:"false"`
}

// DefaultParams returns Params with every field at its default.
func DefaultParams() Params {
	return Params{
		MinWindow:        100,
		MinRiskReward:    2.0,
		TakeProfitRR:     3.0,
		StopBuffer:       0.002,
		MinStopPips:      30,
		MaxStopPips:      150,
		MinConfirmations: 2,
		MinGapPercent:    0.1,
		HTFFactor:        4,
		CalendarFilter:   false,
	}
}

// PipSize returns the pip unit for a symbol: 0.10 for gold, 0.0001 for
// standard forex pairs.
func PipSize(symbol string) float64 {
	if symbol == "XAUUSD" {
		return 0.10
	}
	return 0.0001
}
