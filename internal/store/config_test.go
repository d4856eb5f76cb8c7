package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestLoadConfigDefaults(t *testing.T) {
	p := writeConfig(t, "mode: DRY_RUN\n")

	cfg, err := LoadConfig(p)
	require.NoError(t, err)

	assert.Equal(t, "NSE", cfg.Exchange)
	assert.Equal(t, 5, cfg.PollSeconds)
	assert.Equal(t, 5, cfg.BarMinutes)
	assert.Equal(t, 190, cfg.Universe.MaxTokens)
	assert.Equal(t, 200000.0, cfg.Risk.Capital)
	assert.Equal(t, 10000.0, cfg.Risk.AmountPerTrade)
	assert.Equal(t, 2, cfg.Risk.MaxTradesPerSymbol)
	assert.Equal(t, 100.0, cfg.Exit.StopLossOffset)
	assert.Equal(t, 150.0, cfg.Exit.TakeProfitOffset)
	assert.Equal(t, 20, cfg.Indicators.BaselineWindow)
	assert.Equal(t, 10, cfg.Indicators.RangeWindow)
	assert.Equal(t, 3.0, cfg.Indicators.RangeMult)
	assert.Equal(t, 14, cfg.Indicators.RSIPeriod)
	assert.Equal(t, 33, cfg.Indicators.MinBars)
	assert.Equal(t, 70.0, cfg.Indicators.RSIUpper)
	assert.Equal(t, 30.0, cfg.Indicators.RSILower)
}

func TestLoadConfigValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"invalid mode", "mode: PAPER\n"},
		{"negative amount per trade", "mode: LIVE\nrisk:\n  amount_per_trade: -1\n"},
		{"token cap exceeded", "mode: DRY_RUN\nuniverse:\n  max_tokens: 500\n"},
		{"lookback below min bars", "mode: DRY_RUN\nindicators:\n  lookback: 10\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
