package engineobs

import (
	"context"
	"time"

	"titan-trader/internal/interfaces"
	"titan-trader/internal/logger"
	"titan-trader/internal/trace"
	"titan-trader/internal/types"
)

type observableEngine struct {
	engine interfaces.Engine
}

var _ interfaces.Engine = (*observableEngine)(nil)

// Wrap wraps an engine with observability middleware
func Wrap(eng interfaces.Engine) interfaces.Engine {
	return &observableEngine{engine: eng}
}

func (oe *observableEngine) OnBarClose(ctx context.Context, token uint32, candle types.Candle) {
	ctx, span := trace.StartSpan(ctx, "engine.OnBarClose")
	defer span.End()

	logger.DebugSkip(ctx, 1, "Bar closed",
		"token", token,
		"close", candle.Close,
	)
	oe.engine.OnBarClose(ctx, token, candle)
}

func (oe *observableEngine) Recompute(ctx context.Context) types.PnLStats {
	ctx, span := trace.StartSpan(ctx, "engine.Recompute")
	defer span.End()

	start := time.Now()
	stats := oe.engine.Recompute(ctx)

	logger.DebugSkip(ctx, 1, "PnL recomputed",
		"net_profit", stats.NetProfit,
		"roi", stats.ROI,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return stats
}

func (oe *observableEngine) EvaluateExits(ctx context.Context) int {
	ctx, span := trace.StartSpan(ctx, "engine.EvaluateExits")
	defer span.End()

	closed := oe.engine.EvaluateExits(ctx)
	if closed > 0 {
		logger.InfoSkip(ctx, 1, "Exit evaluation closed positions", "count", closed)
	}
	return closed
}

func (oe *observableEngine) TriggerPanic(ctx context.Context) {
	ctx, span := trace.StartSpan(ctx, "engine.TriggerPanic")
	defer span.End()

	logger.WarnSkip(ctx, 1, "Panic requested")
	oe.engine.TriggerPanic(ctx)
}
