package kite

import (
	"context"
	"time"

	"github.com/zerodha/gokiteconnect/v4/models"

	"titan-trader/internal/logger"
	"titan-trader/internal/types"
)

// setupEventHandlers configures all websocket event callbacks
func (tm *tickerManager) setupEventHandlers() {
	tm.ticker.OnConnect(tm.onConnect)
	tm.ticker.OnError(tm.onError)
	tm.ticker.OnClose(tm.onClose)
	tm.ticker.OnReconnect(tm.onReconnect)
	tm.ticker.OnNoReconnect(tm.onNoReconnect)
	tm.ticker.OnTick(tm.onTick)
}

func (tm *tickerManager) onConnect() {
	tm.connected.Store(true)
	logger.Info(context.Background(), "Websocket connected")

	// Subscriptions do not survive a reconnect: resubscribe the full
	// universe on every connect.
	if err := tm.subscribeCurrent(); err != nil {
		logger.ErrorWithErr(context.Background(), "Resubscription failed", err)
	}
}

func (tm *tickerManager) onError(err error) {
	logger.ErrorWithErr(context.Background(), "Websocket error", err)
}

func (tm *tickerManager) onClose(code int, reason string) {
	tm.connected.Store(false)
	logger.Warn(context.Background(), "Websocket closed",
		"code", code,
		"reason", reason,
	)
}

func (tm *tickerManager) onReconnect(attempt int, delay time.Duration) {
	logger.Info(context.Background(), "Websocket reconnecting",
		"attempt", attempt,
		"delay", delay,
	)
}

func (tm *tickerManager) onNoReconnect(attempt int) {
	tm.connected.Store(false)
	logger.Warn(context.Background(), "Websocket reconnection failed - giving up",
		"attempts", attempt,
	)
}

func (tm *tickerManager) onTick(tick models.Tick) {
	if tm.sink == nil {
		return
	}
	tm.sink(types.Tick{
		Token: tick.InstrumentToken,
		LTP:   tick.LastPrice,
		Seq:   tm.seq.Add(1),
		Ts:    tick.Timestamp.Time.Unix(),
	})
}
