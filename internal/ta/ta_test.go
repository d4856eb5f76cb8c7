package ta

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSMA(t *testing.T) {
	tests := []struct {
		name     string
		vals     []float64
		n        int
		expected float64
		isNaN    bool
	}{
		{
			name:     "basic window",
			vals:     []float64{1, 2, 3, 4, 5},
			n:        5,
			expected: 3,
		},
		{
			name:     "uses only trailing window",
			vals:     []float64{100, 100, 2, 4, 6},
			n:        3,
			expected: 4,
		},
		{
			name:  "insufficient data",
			vals:  []float64{1, 2},
			n:     3,
			isNaN: true,
		},
		{
			name:  "zero window",
			vals:  []float64{1, 2, 3},
			n:     0,
			isNaN: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SMA(tt.vals, tt.n)
			if tt.isNaN {
				assert.True(t, math.IsNaN(got))
				return
			}
			assert.InDelta(t, tt.expected, got, 1e-9)
		})
	}
}

func TestRSI(t *testing.T) {
	t.Run("all gains saturates at 100", func(t *testing.T) {
		closes := []float64{10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20, 21, 22, 23, 24}
		assert.Equal(t, 100.0, RSI(closes, 14))
	})

	t.Run("all losses reaches 0", func(t *testing.T) {
		closes := []float64{24, 23, 22, 21, 20, 19, 18, 17, 16, 15, 14, 13, 12, 11, 10}
		assert.InDelta(t, 0.0, RSI(closes, 14), 1e-9)
	})

	t.Run("balanced gains and losses is 50", func(t *testing.T) {
		// Alternating +1/-1 over an even window.
		closes := []float64{10}
		for i := 0; i < 14; i++ {
			if i%2 == 0 {
				closes = append(closes, closes[len(closes)-1]+1)
			} else {
				closes = append(closes, closes[len(closes)-1]-1)
			}
		}
		assert.InDelta(t, 50.0, RSI(closes, 14), 1e-9)
	})

	t.Run("bounded in [0,100]", func(t *testing.T) {
		closes := []float64{10, 100, 5, 200, 1, 300, 2, 400, 3, 500, 4, 600, 5, 700, 6, 800}
		got := RSI(closes, 14)
		assert.GreaterOrEqual(t, got, 0.0)
		assert.LessOrEqual(t, got, 100.0)
	})

	t.Run("zero-delta window is undefined", func(t *testing.T) {
		closes := make([]float64, 15)
		for i := range closes {
			closes[i] = 42
		}
		assert.True(t, math.IsNaN(RSI(closes, 14)))
	})

	t.Run("insufficient history", func(t *testing.T) {
		assert.True(t, math.IsNaN(RSI([]float64{1, 2, 3}, 14)))
	})
}

func TestRangeMean(t *testing.T) {
	highs := []float64{12, 14, 16, 18}
	lows := []float64{10, 10, 10, 10}
	assert.InDelta(t, 6.0, RangeMean(highs, lows, 3), 1e-9)
	assert.True(t, math.IsNaN(RangeMean(highs, lows[:3], 3)))
	assert.True(t, math.IsNaN(RangeMean(highs, lows, 5)))
}

func TestStopLine(t *testing.T) {
	// Constant range of 2: midpoint of last bar minus mult*2.
	highs := make([]float64, 12)
	lows := make([]float64, 12)
	for i := range highs {
		c := 100.0 + float64(i)
		highs[i] = c + 1
		lows[i] = c - 1
	}
	got := StopLine(highs, lows, 10, 3)
	assert.InDelta(t, 111.0-6.0, got, 1e-9)

	assert.True(t, math.IsNaN(StopLine(highs[:5], lows[:5], 10, 3)))
}
