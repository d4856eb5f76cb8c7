package signal

import (
	"sync"

	"titan-trader/internal/types"
)

// SeriesStore keeps a bounded, append-only candle history per token. The
// oldest bar is evicted once the lookback window is full.
type SeriesStore struct {
	mu       sync.RWMutex
	series   map[uint32][]types.Candle
	lookback int
}

func NewSeriesStore(lookback int) *SeriesStore {
	return &SeriesStore{
		series:   make(map[uint32][]types.Candle),
		lookback: lookback,
	}
}

// Append adds a closed bar to the token's series.
func (s *SeriesStore) Append(token uint32, c types.Candle) {
	s.mu.Lock()
	defer s.mu.Unlock()

	candles := s.series[token]
	candles = append(candles, c)
	if len(candles) > s.lookback {
		candles = candles[1:]
	}
	s.series[token] = candles
}

// Snapshot returns a copy of the token's series. Classification works on the
// copy so concurrent appends cannot change a result mid-computation.
func (s *SeriesStore) Snapshot(token uint32) []types.Candle {
	s.mu.RLock()
	defer s.mu.RUnlock()

	candles := s.series[token]
	out := make([]types.Candle, len(candles))
	copy(out, candles)
	return out
}

func (s *SeriesStore) Len(token uint32) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.series[token])
}
