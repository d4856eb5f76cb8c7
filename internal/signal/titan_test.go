package signal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"titan-trader/internal/types"
)

// bars builds a series with the given closes, a fixed high-low range of 2
// around each close.
func bars(closes ...float64) []types.Candle {
	out := make([]types.Candle, len(closes))
	for i, c := range closes {
		out[i] = types.Candle{Ts: int64(i), Open: c, High: c + 1, Low: c - 1, Close: c}
	}
	return out
}

func risingBars(n int, start float64) []types.Candle {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = start + float64(i)
	}
	return bars(closes...)
}

func fallingBars(n int, start float64) []types.Candle {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = start - float64(i)
	}
	return bars(closes...)
}

func TestClassifyCE(t *testing.T) {
	// 33 monotonically rising closes: RSI saturates at 100, stop line sits
	// above the baseline, and a price above the stop line must fire CE.
	candles := risingBars(33, 100) // closes 100..132

	sig, ok := Classify(42, candles, 130, DefaultParams())
	require.True(t, ok)

	assert.Equal(t, uint32(42), sig.Token)
	assert.Equal(t, types.SideCE, sig.Direction)
	assert.Equal(t, 100.0, sig.Ind.RSI)
	assert.InDelta(t, 126.0, sig.Ind.StopLine, 1e-9)  // mid 132 - 3*2
	assert.InDelta(t, 122.5, sig.Ind.Baseline, 1e-9)  // mean of 113..132
}

func TestClassifyPE(t *testing.T) {
	candles := fallingBars(33, 132) // closes 132..100

	sig, ok := Classify(42, candles, 90, DefaultParams())
	require.True(t, ok)

	assert.Equal(t, types.SidePE, sig.Direction)
	assert.InDelta(t, 0.0, sig.Ind.RSI, 1e-9)
	assert.InDelta(t, 94.0, sig.Ind.StopLine, 1e-9)
	assert.InDelta(t, 109.5, sig.Ind.Baseline, 1e-9)
}

func TestClassifyNoSignal(t *testing.T) {
	p := DefaultParams()

	t.Run("insufficient bars", func(t *testing.T) {
		_, ok := Classify(1, risingBars(32, 100), 135, p)
		assert.False(t, ok)
	})

	t.Run("price below stop line blocks CE", func(t *testing.T) {
		_, ok := Classify(1, risingBars(33, 100), 120, p)
		assert.False(t, ok)
	})

	t.Run("flat series", func(t *testing.T) {
		closes := make([]float64, 33)
		for i := range closes {
			closes[i] = 100
		}
		_, ok := Classify(1, bars(closes...), 100, p)
		assert.False(t, ok)
	})

	t.Run("rise then flat has no defined RSI", func(t *testing.T) {
		// Tight-range bars rising in steps of 2, then a motionless tail
		// spanning the whole RSI window. Price (137) is above the stop line
		// (135.4) which is above the baseline (134.5), but the gain/loss
		// ratio is 0/0, so no entry may fire.
		var candles []types.Candle
		for i := 0; i < 19; i++ {
			c := 100 + 2*float64(i)
			candles = append(candles, types.Candle{Ts: int64(i), Open: c, High: c + 0.1, Low: c - 0.1, Close: c})
		}
		for i := 19; i < 33; i++ {
			candles = append(candles, types.Candle{Ts: int64(i), Open: 136, High: 136.1, Low: 135.9, Close: 136})
		}
		_, ok := Classify(1, candles, 137, p)
		assert.False(t, ok)
	})
}

func TestClassifyIsPure(t *testing.T) {
	candles := risingBars(40, 50)
	p := DefaultParams()

	first, ok1 := Classify(7, candles, 95, p)
	second, ok2 := Classify(7, candles, 95, p)

	assert.Equal(t, ok1, ok2)
	assert.Equal(t, first, second)
}

func TestSeriesStoreEviction(t *testing.T) {
	s := NewSeriesStore(3)
	for i := 0; i < 5; i++ {
		s.Append(1, types.Candle{Ts: int64(i), Close: float64(i)})
	}

	snap := s.Snapshot(1)
	require.Len(t, snap, 3)
	assert.Equal(t, 2.0, snap[0].Close)
	assert.Equal(t, 4.0, snap[2].Close)
}

func TestSeriesStoreSnapshotIsCopy(t *testing.T) {
	s := NewSeriesStore(10)
	s.Append(1, types.Candle{Close: 1})

	snap := s.Snapshot(1)
	snap[0].Close = 999

	assert.Equal(t, 1.0, s.Snapshot(1)[0].Close)
}
