package kite

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	kiteticker "github.com/zerodha/gokiteconnect/v4/ticker"

	"titan-trader/internal/interfaces"
	"titan-trader/internal/logger"
	"titan-trader/internal/types"
)

// maxFeedTokens is the broker-side cap on a single websocket subscription.
const maxFeedTokens = 190

// tickerManager manages the websocket connection for live market data. Ticks
// are normalized and pushed to the sink (the ingestor); reconnects with
// backoff are driven by the kiteticker library, and every connect — first or
// re — resubscribes the full token list since subscriptions do not survive a
// reconnect.
type tickerManager struct {
	apiKey      string
	accessToken string
	ticker      *kiteticker.Ticker
	sink        func(types.Tick)

	mu        sync.RWMutex
	tokens    []uint32
	connected atomic.Bool
	seq       atomic.Uint64
}

var _ interfaces.Feed = (*tickerManager)(nil)

// NewFeed creates the websocket feed. sink receives every normalized tick.
func NewFeed(apiKey, accessToken string, sink func(types.Tick)) interfaces.Feed {
	return &tickerManager{
		apiKey:      apiKey,
		accessToken: accessToken,
		sink:        sink,
	}
}

func (tm *tickerManager) Start(ctx context.Context) error {
	tm.ticker = kiteticker.New(tm.apiKey, tm.accessToken)
	tm.setupEventHandlers()

	go func() {
		logger.Info(ctx, "Starting market data websocket")
		tm.ticker.Serve()
	}()

	return nil
}

func (tm *tickerManager) Stop(ctx context.Context) {
	if tm.ticker != nil {
		logger.Info(ctx, "Stopping market data websocket")
		tm.ticker.Stop()
	}
}

func (tm *tickerManager) Subscribe(ctx context.Context, tokens []uint32) error {
	if len(tokens) > maxFeedTokens {
		return fmt.Errorf("token universe %d exceeds feed cap %d", len(tokens), maxFeedTokens)
	}

	tm.mu.Lock()
	tm.tokens = append([]uint32(nil), tokens...)
	tm.mu.Unlock()

	if tm.connected.Load() {
		return tm.subscribeCurrent()
	}
	return nil
}

func (tm *tickerManager) Status() string {
	if tm.connected.Load() {
		return "connected"
	}
	return "disconnected"
}

// subscribeCurrent pushes the stored token list to the broker in LTP mode.
func (tm *tickerManager) subscribeCurrent() error {
	tm.mu.RLock()
	tokens := append([]uint32(nil), tm.tokens...)
	tm.mu.RUnlock()

	if len(tokens) == 0 {
		return nil
	}
	if err := tm.ticker.Subscribe(tokens); err != nil {
		return fmt.Errorf("failed to subscribe to tokens: %w", err)
	}
	if err := tm.ticker.SetMode(kiteticker.ModeLTP, tokens); err != nil {
		return fmt.Errorf("failed to set ticker mode: %w", err)
	}
	return nil
}
