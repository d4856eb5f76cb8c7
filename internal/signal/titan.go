// Package signal implements the Titan V5 classification over rolling
// indicator snapshots of per-token candle series.
package signal

import (
	"math"

	"titan-trader/internal/ta"
	"titan-trader/internal/types"
)

// Params are the indicator windows and thresholds for classification.
type Params struct {
	BaselineWindow int
	RangeWindow    int
	RangeMult      float64
	RSIPeriod      int
	MinBars        int
	RSIUpper       float64
	RSILower       float64
}

// DefaultParams matches the production Titan V5 tuning.
func DefaultParams() Params {
	return Params{
		BaselineWindow: 20,
		RangeWindow:    10,
		RangeMult:      3,
		RSIPeriod:      14,
		MinBars:        33,
		RSIUpper:       70,
		RSILower:       30,
	}
}

// Compute derives the indicator snapshot for a candle series. Values are NaN
// when the series is too short for the corresponding window.
func Compute(candles []types.Candle, p Params) types.Indicators {
	closes := make([]float64, len(candles))
	highs := make([]float64, len(candles))
	lows := make([]float64, len(candles))
	for i, c := range candles {
		closes[i] = c.Close
		highs[i] = c.High
		lows[i] = c.Low
	}
	return types.Indicators{
		Baseline: ta.SMA(closes, p.BaselineWindow),
		StopLine: ta.StopLine(highs, lows, p.RangeWindow, p.RangeMult),
		RSI:      ta.RSI(closes, p.RSIPeriod),
	}
}

// Classify is pure: identical (candles, ltp) always yields the identical
// result. It fires CE when price rides above a rising stop line with RSI at
// or beyond the upper gate, PE on the mirrored condition, and nothing
// otherwise. Fewer than MinBars bars is no-signal, not an error.
func Classify(token uint32, candles []types.Candle, ltp float64, p Params) (types.Signal, bool) {
	if len(candles) < p.MinBars {
		return types.Signal{}, false
	}

	ind := Compute(candles, p)
	if math.IsNaN(ind.Baseline) || math.IsNaN(ind.StopLine) || math.IsNaN(ind.RSI) {
		return types.Signal{}, false
	}

	sig := types.Signal{Token: token, LTP: ltp, Ind: ind}
	switch {
	case ltp > ind.StopLine && ind.StopLine > ind.Baseline && ind.RSI >= p.RSIUpper:
		sig.Direction = types.SideCE
		return sig, true
	case ltp < ind.StopLine && ind.StopLine < ind.Baseline && ind.RSI <= p.RSILower:
		sig.Direction = types.SidePE
		return sig, true
	}
	return types.Signal{}, false
}
