package store

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Mode        string `yaml:"mode"`
	Exchange    string `yaml:"exchange"`
	PollSeconds int    `yaml:"poll_seconds"`
	BarMinutes  int    `yaml:"bar_minutes"`

	Universe struct {
		ScripMasterCSV string `yaml:"scrip_master_csv"`
		MaxTokens      int    `yaml:"max_tokens"`
		RefreshURL     string `yaml:"refresh_url"`
	} `yaml:"universe"`

	Risk struct {
		Capital            float64 `yaml:"capital"`
		AmountPerTrade     float64 `yaml:"amount_per_trade"`
		MaxTradesPerSymbol int     `yaml:"max_trades_per_symbol"`
	} `yaml:"risk"`

	Exit struct {
		AutoExit         bool    `yaml:"auto_exit"`
		StopLossOffset   float64 `yaml:"stop_loss_offset"`
		TakeProfitOffset float64 `yaml:"take_profit_offset"`
	} `yaml:"exit"`

	Indicators struct {
		BaselineWindow int     `yaml:"baseline_window"`
		RangeWindow    int     `yaml:"range_window"`
		RangeMult      float64 `yaml:"range_mult"`
		RSIPeriod      int     `yaml:"rsi_period"`
		MinBars        int     `yaml:"min_bars"`
		Lookback       int     `yaml:"lookback"`
		RSIUpper       float64 `yaml:"rsi_upper"`
		RSILower       float64 `yaml:"rsi_lower"`
	} `yaml:"indicators"`

	Alerts struct {
		OrderPlaced    bool `yaml:"order_placed"`
		SignalFired    bool `yaml:"signal_fired"`
		Panic          bool `yaml:"panic"`
		FeedReconnect  bool `yaml:"feed_reconnect"`
	} `yaml:"alerts"`
}

func (c *Config) Validate() error {
	if c.Mode != "DRY_RUN" && c.Mode != "LIVE" {
		return fmt.Errorf("invalid mode '%s': must be 'DRY_RUN' or 'LIVE'", c.Mode)
	}
	if c.Risk.Capital < 0 {
		return fmt.Errorf("risk.capital must be non-negative, got %.2f", c.Risk.Capital)
	}
	if c.Risk.AmountPerTrade <= 0 {
		return fmt.Errorf("risk.amount_per_trade must be positive, got %.2f", c.Risk.AmountPerTrade)
	}
	if c.Risk.MaxTradesPerSymbol <= 0 {
		return fmt.Errorf("risk.max_trades_per_symbol must be positive, got %d", c.Risk.MaxTradesPerSymbol)
	}
	if c.Indicators.MinBars < c.Indicators.BaselineWindow {
		return errors.New("indicators.min_bars cannot be below the baseline window")
	}
	if c.Indicators.Lookback < c.Indicators.MinBars {
		return errors.New("indicators.lookback cannot be below indicators.min_bars")
	}
	if c.Universe.MaxTokens > 190 {
		return fmt.Errorf("universe.max_tokens is capped at 190 by the feed, got %d", c.Universe.MaxTokens)
	}
	return nil
}

func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}
	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &c, nil
}

func (c *Config) applyDefaults() {
	if c.Mode == "" {
		c.Mode = "DRY_RUN"
	}
	if c.Exchange == "" {
		c.Exchange = "NSE"
	}
	if c.PollSeconds == 0 {
		c.PollSeconds = 5
	}
	if c.BarMinutes == 0 {
		c.BarMinutes = 5
	}
	if c.Universe.MaxTokens == 0 {
		c.Universe.MaxTokens = 190
	}
	if c.Risk.Capital == 0 {
		c.Risk.Capital = 200000
	}
	if c.Risk.AmountPerTrade == 0 {
		c.Risk.AmountPerTrade = 10000
	}
	if c.Risk.MaxTradesPerSymbol == 0 {
		c.Risk.MaxTradesPerSymbol = 2
	}
	if c.Exit.StopLossOffset == 0 {
		c.Exit.StopLossOffset = 100
	}
	if c.Exit.TakeProfitOffset == 0 {
		c.Exit.TakeProfitOffset = 150
	}
	ind := &c.Indicators
	if ind.BaselineWindow == 0 {
		ind.BaselineWindow = 20
	}
	if ind.RangeWindow == 0 {
		ind.RangeWindow = 10
	}
	if ind.RangeMult == 0 {
		ind.RangeMult = 3
	}
	if ind.RSIPeriod == 0 {
		ind.RSIPeriod = 14
	}
	if ind.MinBars == 0 {
		ind.MinBars = 33
	}
	if ind.Lookback == 0 {
		ind.Lookback = 200
	}
	if ind.RSIUpper == 0 {
		ind.RSIUpper = 70
	}
	if ind.RSILower == 0 {
		ind.RSILower = 30
	}
}
