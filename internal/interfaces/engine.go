package interfaces

import (
	"context"

	"titan-trader/internal/types"
)

// Engine is the tick-to-decision pipeline head: bar closes drive signal
// classification and order flow, the poll loop drives PnL and exits.
type Engine interface {
	// OnBarClose ingests a closed bar and runs the signal path for it.
	OnBarClose(ctx context.Context, token uint32, candle types.Candle)

	// Recompute refreshes every open position against the price cache and
	// returns the aggregate PnL.
	Recompute(ctx context.Context) types.PnLStats

	// EvaluateExits closes positions whose price crossed stop-loss or
	// take-profit and submits offsetting orders. Returns how many closed.
	EvaluateExits(ctx context.Context) int

	// TriggerPanic sets the one-way halt and liquidates all open positions.
	TriggerPanic(ctx context.Context)
}
