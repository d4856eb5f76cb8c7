package marketdata

import (
	"context"
	"sync"
	"time"

	"titan-trader/internal/logger"
	"titan-trader/internal/types"
)

// BarHandler receives a closed bar for a token.
type BarHandler func(ctx context.Context, token uint32, candle types.Candle)

// Aggregator buckets accepted ticks into fixed-interval OHLC bars. A bar for
// a token closes on the flush tick following at least one trade in the
// interval; idle tokens emit nothing.
type Aggregator struct {
	mu       sync.Mutex
	interval time.Duration
	forming  map[uint32]*types.Candle
	handler  BarHandler
}

func NewAggregator(interval time.Duration, handler BarHandler) *Aggregator {
	return &Aggregator{
		interval: interval,
		forming:  make(map[uint32]*types.Candle),
		handler:  handler,
	}
}

// Add folds a tick into the forming bar for its token.
func (a *Aggregator) Add(t types.Tick) {
	a.mu.Lock()
	defer a.mu.Unlock()

	c := a.forming[t.Token]
	if c == nil {
		a.forming[t.Token] = &types.Candle{
			Ts:    t.Ts,
			Open:  t.LTP,
			High:  t.LTP,
			Low:   t.LTP,
			Close: t.LTP,
			Vol:   1,
		}
		return
	}
	if t.LTP > c.High {
		c.High = t.LTP
	}
	if t.LTP < c.Low {
		c.Low = t.LTP
	}
	c.Close = t.LTP
	c.Vol++
}

// Run flushes closed bars on the configured cadence until ctx is cancelled.
func (a *Aggregator) Run(ctx context.Context) {
	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	logger.Info(ctx, "Bar aggregator started", "interval", a.interval)
	for {
		select {
		case <-ticker.C:
			a.Flush(ctx)
		case <-ctx.Done():
			logger.Info(ctx, "Bar aggregator stopped")
			return
		}
	}
}

// Flush closes every forming bar and hands it to the handler. The handler is
// invoked outside the lock so a slow consumer cannot stall tick folding.
func (a *Aggregator) Flush(ctx context.Context) {
	a.mu.Lock()
	closed := a.forming
	a.forming = make(map[uint32]*types.Candle)
	a.mu.Unlock()

	for token, c := range closed {
		a.handler(ctx, token, *c)
	}
}
