package engine

import (
	"context"

	"titan-trader/internal/interfaces"
	"titan-trader/internal/logger"
	"titan-trader/internal/signal"
	"titan-trader/internal/tradelog"
	"titan-trader/internal/types"
)

// AlertPrefs selects which pipeline events additionally emit an alert-channel
// log entry on top of the normal logs.
type AlertPrefs struct {
	SignalFired bool
	OrderPlaced bool
	Panic       bool
}

// engine drives the bar-close signal path and the periodic PnL/exit pass.
type engine struct {
	prices    PriceView
	series    *signal.SeriesStore
	params    signal.Params
	risk      *RiskController
	exec      *Executor
	ledger    *Ledger
	symbolFor func(token uint32) string
	alerts    AlertPrefs
}

var _ interfaces.Engine = (*engine)(nil)

func newEngine(
	prices PriceView,
	series *signal.SeriesStore,
	params signal.Params,
	risk *RiskController,
	exec *Executor,
	ledger *Ledger,
	symbolFor func(token uint32) string,
	alerts AlertPrefs,
) *engine {
	e := &engine{
		prices:    prices,
		series:    series,
		params:    params,
		risk:      risk,
		exec:      exec,
		ledger:    ledger,
		symbolFor: symbolFor,
		alerts:    alerts,
	}
	risk.SetPanicHook(e.liquidateAll)
	return e
}

// OnBarClose appends the closed bar and runs classification against the
// latest cached price. No signal, no work.
func (e *engine) OnBarClose(ctx context.Context, token uint32, candle types.Candle) {
	e.series.Append(token, candle)

	ltp, ok := e.prices.Get(token)
	if !ok {
		return
	}

	sig, ok := signal.Classify(token, e.series.Snapshot(token), ltp, e.params)
	if !ok {
		return
	}
	sig.Symbol = e.symbolFor(token)

	logger.Info(ctx, "Signal fired",
		"symbol", sig.Symbol,
		"direction", sig.Direction,
		"ltp", sig.LTP,
		"baseline", sig.Ind.Baseline,
		"stop_line", sig.Ind.StopLine,
		"rsi", sig.Ind.RSI,
	)
	_ = tradelog.AppendSignal(tradelog.SignalEntry{
		Symbol:    sig.Symbol,
		Direction: string(sig.Direction),
		Token:     sig.Token,
		LTP:       sig.LTP,
		Baseline:  sig.Ind.Baseline,
		StopLine:  sig.Ind.StopLine,
		RSI:       sig.Ind.RSI,
	})

	if e.alerts.SignalFired {
		logger.Info(ctx, "Alert",
			"event", "signal_fired",
			"symbol", sig.Symbol,
			"direction", sig.Direction,
			"ltp", sig.LTP,
		)
	}

	auth := e.risk.Authorize(ctx, sig, ltp)
	if !auth.Allowed {
		return
	}

	if !e.exec.Enqueue(ctx, types.OrderReq{
		Symbol: sig.Symbol,
		Token:  sig.Token,
		Side:   sig.Direction,
		Qty:    auth.Qty,
		Price:  ltp,
		Tag:    types.TagSignal,
	}) {
		// Dropped before submission: the authorization's reservation must
		// not outlive the request.
		e.risk.Release(sig.Symbol)
		return
	}
	if e.alerts.OrderPlaced {
		logger.Info(ctx, "Alert",
			"event", "order_submitted",
			"symbol", sig.Symbol,
			"side", sig.Direction,
			"qty", auth.Qty,
		)
	}
}

// Recompute refreshes the ledger from the price cache.
func (e *engine) Recompute(ctx context.Context) types.PnLStats {
	return e.ledger.Recompute(e.prices)
}

// EvaluateExits submits offsetting orders for every position whose price
// crossed its stop-loss or take-profit.
func (e *engine) EvaluateExits(ctx context.Context) int {
	reqs := e.ledger.EvaluateExits()
	for _, req := range reqs {
		logger.Info(ctx, "Auto-exit triggered",
			"symbol", req.Symbol,
			"side", req.Side,
			"qty", req.Qty,
			"price", req.Price,
		)
		e.exec.Enqueue(ctx, req)
	}
	return len(reqs)
}

// TriggerPanic engages the one-way halt and liquidates everything.
func (e *engine) TriggerPanic(ctx context.Context) {
	e.risk.TriggerPanic(ctx)
}

func (e *engine) liquidateAll(ctx context.Context) {
	reqs := e.ledger.Liquidate()
	logger.Warn(ctx, "Liquidating all open positions", "count", len(reqs))
	if e.alerts.Panic {
		logger.Warn(ctx, "Alert", "event", "panic", "liquidating", len(reqs))
	}
	for _, req := range reqs {
		e.exec.Enqueue(ctx, req)
	}
}
