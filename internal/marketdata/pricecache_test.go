package marketdata

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"titan-trader/internal/types"
)

func TestPriceCacheLastWriteWins(t *testing.T) {
	pc := NewPriceCache()

	for _, price := range []float64{101.5, 99.2, 104.75} {
		pc.Set(256265, price)
	}
	got, ok := pc.Get(256265)
	require.True(t, ok)
	assert.Equal(t, 104.75, got)

	_, ok = pc.Get(999)
	assert.False(t, ok)
}

func TestPriceCacheConcurrentAccess(t *testing.T) {
	pc := NewPriceCache()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 5000; i++ {
			pc.Set(uint32(i%50+1), float64(i))
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 5000; i++ {
			pc.Get(uint32(i%50 + 1))
		}
	}()
	wg.Wait()

	assert.Equal(t, 50, pc.Len())
}

func TestIngestorUpsertsCacheInOrder(t *testing.T) {
	pc := NewPriceCache()
	ing := NewIngestor(pc, 16, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		ing.Run(ctx)
		close(done)
	}()

	ticks := []types.Tick{
		{Token: 1, LTP: 100},
		{Token: 2, LTP: 50},
		{Token: 1, LTP: 101},
		{Token: 1, LTP: 99.5},
	}
	for _, tk := range ticks {
		ing.OnTick(tk)
	}

	assert.Eventually(t, func() bool {
		p1, ok1 := pc.Get(1)
		p2, ok2 := pc.Get(2)
		return ok1 && ok2 && p1 == 99.5 && p2 == 50
	}, time.Second, 5*time.Millisecond)

	cancel()
	<-done
}

func TestIngestorDropsMalformedTicks(t *testing.T) {
	pc := NewPriceCache()
	ing := NewIngestor(pc, 16, nil)

	ing.OnTick(types.Tick{Token: 0, LTP: 100})
	ing.OnTick(types.Tick{Token: 5, LTP: 0})
	ing.OnTick(types.Tick{Token: 5, LTP: -3})

	// Malformed ticks never reach the queue, so nothing to consume.
	assert.Equal(t, 0, len(ing.in))
	assert.Equal(t, uint64(0), ing.Dropped())
}

func TestAggregatorBucketsTicksIntoBars(t *testing.T) {
	var mu sync.Mutex
	bars := map[uint32]types.Candle{}
	agg := NewAggregator(time.Minute, func(_ context.Context, token uint32, c types.Candle) {
		mu.Lock()
		defer mu.Unlock()
		bars[token] = c
	})

	agg.Add(types.Tick{Token: 7, LTP: 100, Ts: 1})
	agg.Add(types.Tick{Token: 7, LTP: 105, Ts: 2})
	agg.Add(types.Tick{Token: 7, LTP: 97, Ts: 3})
	agg.Add(types.Tick{Token: 7, LTP: 102, Ts: 4})
	agg.Add(types.Tick{Token: 9, LTP: 55, Ts: 5})

	agg.Flush(context.Background())

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, bars, 2)

	c := bars[7]
	assert.Equal(t, 100.0, c.Open)
	assert.Equal(t, 105.0, c.High)
	assert.Equal(t, 97.0, c.Low)
	assert.Equal(t, 102.0, c.Close)
	assert.Equal(t, 4.0, c.Vol)

	single := bars[9]
	assert.Equal(t, 55.0, single.Open)
	assert.Equal(t, 55.0, single.Close)
}

func TestAggregatorResetsAfterFlush(t *testing.T) {
	count := 0
	agg := NewAggregator(time.Minute, func(_ context.Context, _ uint32, _ types.Candle) { count++ })

	agg.Add(types.Tick{Token: 1, LTP: 10})
	agg.Flush(context.Background())
	agg.Flush(context.Background())

	assert.Equal(t, 1, count)
}
