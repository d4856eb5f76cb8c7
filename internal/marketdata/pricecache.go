package marketdata

import "sync"

// PriceCache holds the last traded price per instrument token. Writes come
// from the single ingestion goroutine, reads from the recompute loop and the
// signal path. Entries are never evicted: the universe is fixed for the
// process lifetime. Last write wins per token.
type PriceCache struct {
	mu     sync.RWMutex
	prices map[uint32]float64
}

func NewPriceCache() *PriceCache {
	return &PriceCache{prices: make(map[uint32]float64)}
}

func (pc *PriceCache) Set(token uint32, price float64) {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	pc.prices[token] = price
}

// Get returns the latest known price for a token. ok is false when no tick
// has ever been seen for the token.
func (pc *PriceCache) Get(token uint32) (float64, bool) {
	pc.mu.RLock()
	defer pc.mu.RUnlock()
	p, ok := pc.prices[token]
	return p, ok
}

func (pc *PriceCache) Len() int {
	pc.mu.RLock()
	defer pc.mu.RUnlock()
	return len(pc.prices)
}
