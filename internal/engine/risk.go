package engine

import (
	"context"
	"sync"
	"sync/atomic"

	"titan-trader/internal/logger"
	"titan-trader/internal/tradelog"
	"titan-trader/internal/types"
)

// Authorization is the risk controller's verdict on a candidate signal.
type Authorization struct {
	Allowed bool
	Reason  types.DenyReason
	Qty     int
}

// RiskController gates candidate signals against capital, per-symbol
// exposure, and the one-way panic halt. The halt is checked first on every
// authorization and can never be cleared within a process lifetime.
//
// Each allow reserves the order until it settles: authorized-but-unfilled
// orders count against the exposure and capital limits, so two signals racing
// one slow fill cannot both pass.
type RiskController struct {
	capital            float64
	amountPerTrade     float64
	maxTradesPerSymbol int
	ledger             *Ledger
	halted             atomic.Bool
	onPanic            func(ctx context.Context)

	mu           sync.Mutex
	pending      map[string]int
	pendingAlloc float64
}

func NewRiskController(capital, amountPerTrade float64, maxTradesPerSymbol int, ledger *Ledger) *RiskController {
	return &RiskController{
		capital:            capital,
		amountPerTrade:     amountPerTrade,
		maxTradesPerSymbol: maxTradesPerSymbol,
		ledger:             ledger,
		pending:            make(map[string]int),
	}
}

// SetPanicHook registers the liquidation callback invoked when the panic
// halt is triggered.
func (rc *RiskController) SetPanicHook(f func(ctx context.Context)) {
	rc.onPanic = f
}

// Authorize validates a signal at the given execution price. The quantity is
// the per-trade allocation divided by price, rounded down to a whole unit.
// An allow holds a reservation that must be given back via Release once the
// order settles.
func (rc *RiskController) Authorize(ctx context.Context, sig types.Signal, price float64) Authorization {
	if rc.halted.Load() {
		return rc.deny(ctx, sig, types.DenyPanicHalt)
	}

	rc.mu.Lock()
	defer rc.mu.Unlock()

	if rc.ledger.OpenCount(sig.Symbol)+rc.pending[sig.Symbol] >= rc.maxTradesPerSymbol {
		return rc.deny(ctx, sig, types.DenyExposureLimit)
	}
	if rc.amountPerTrade > rc.capital-rc.ledger.Allocated()-rc.pendingAlloc {
		return rc.deny(ctx, sig, types.DenyCapitalLimit)
	}

	qty := 0
	if price > 0 {
		qty = int(rc.amountPerTrade / price)
	}
	if qty <= 0 {
		return rc.deny(ctx, sig, types.DenySizingZero)
	}

	rc.pending[sig.Symbol]++
	rc.pendingAlloc += rc.amountPerTrade
	return Authorization{Allowed: true, Qty: qty}
}

// Release drops the reservation held by an authorized order after it settled
// (filled into the ledger or failed) or was dropped before submission.
func (rc *RiskController) Release(symbol string) {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	if rc.pending[symbol] > 0 {
		rc.pending[symbol]--
		rc.pendingAlloc -= rc.amountPerTrade
	}
}

func (rc *RiskController) deny(ctx context.Context, sig types.Signal, reason types.DenyReason) Authorization {
	logger.Warn(ctx, "Signal denied by risk gate",
		"symbol", sig.Symbol,
		"direction", sig.Direction,
		"reason", reason,
	)
	_ = tradelog.AppendRisk(tradelog.RiskEntry{
		Symbol: sig.Symbol,
		Event:  "SIGNAL_DENIED",
		Reason: string(reason),
	})
	return Authorization{Reason: reason}
}

// TriggerPanic sets the halt flag and requests liquidation of all open
// positions. Idempotent: only the first call fires the hook.
func (rc *RiskController) TriggerPanic(ctx context.Context) {
	if !rc.halted.CompareAndSwap(false, true) {
		return
	}

	logger.Warn(ctx, "Panic halt triggered - all order flow disabled")
	_ = tradelog.AppendRisk(tradelog.RiskEntry{Event: "PANIC_HALT"})

	if rc.onPanic != nil {
		rc.onPanic(ctx)
	}
}

// Halted reports whether the panic halt has been set.
func (rc *RiskController) Halted() bool {
	return rc.halted.Load()
}
