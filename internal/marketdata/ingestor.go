package marketdata

import (
	"context"
	"sync/atomic"

	"titan-trader/internal/logger"
	"titan-trader/internal/types"
)

const defaultQueueSize = 1024

// Ingestor decouples the feed callback goroutine from cache updates and bar
// aggregation through a bounded channel. The feed side never blocks: when the
// queue is full the tick is dropped and counted, the next tick for the same
// token supersedes it anyway.
type Ingestor struct {
	cache   *PriceCache
	in      chan types.Tick
	sink    func(types.Tick)
	dropped atomic.Uint64
	seq     atomic.Uint64
}

// NewIngestor creates an ingestor feeding the given price cache. sink, when
// non-nil, receives every accepted tick after the cache upsert (the bar
// aggregator hangs off it).
func NewIngestor(cache *PriceCache, queueSize int, sink func(types.Tick)) *Ingestor {
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	return &Ingestor{
		cache: cache,
		in:    make(chan types.Tick, queueSize),
		sink:  sink,
	}
}

// OnTick is the feed-facing entry point. Malformed events are dropped
// silently: a tick without a token or a sane price carries no information.
func (ing *Ingestor) OnTick(t types.Tick) {
	if t.Token == 0 || t.LTP <= 0 {
		return
	}
	t.Seq = ing.seq.Add(1)
	select {
	case ing.in <- t:
	default:
		ing.dropped.Add(1)
	}
}

// Run consumes the tick queue until the context is cancelled. It is the only
// writer of the price cache.
func (ing *Ingestor) Run(ctx context.Context) {
	logger.Info(ctx, "Market data ingestor started", "queue_size", cap(ing.in))
	for {
		select {
		case t := <-ing.in:
			ing.cache.Set(t.Token, t.LTP)
			if ing.sink != nil {
				ing.sink(t)
			}
		case <-ctx.Done():
			logger.Info(ctx, "Market data ingestor stopped", "dropped_ticks", ing.dropped.Load())
			return
		}
	}
}

// Dropped reports how many ticks were discarded due to backpressure.
func (ing *Ingestor) Dropped() uint64 {
	return ing.dropped.Load()
}
