package engine

import (
	"sync"

	"titan-trader/internal/types"
)

// PriceView is the read side of the price cache.
type PriceView interface {
	Get(token uint32) (float64, bool)
}

// Ledger tracks open positions and their live PnL. Positions are created on
// fills, mutated by Recompute and exit evaluation, and never removed: closed
// positions stay for the order-book view until process end.
type Ledger struct {
	mu        sync.RWMutex
	positions []*types.Position
	capital   float64
	slOffset  float64
	tpOffset  float64
	autoExit  bool
	stats     types.PnLStats
}

func NewLedger(capital, slOffset, tpOffset float64, autoExit bool) *Ledger {
	return &Ledger{
		capital:  capital,
		slOffset: slOffset,
		tpOffset: tpOffset,
		autoExit: autoExit,
	}
}

// OnOrderFilled opens a position from a successful entry order. Stops and
// targets are absolute offsets from the fill price.
func (l *Ledger) OnOrderFilled(o types.Order) types.Position {
	l.mu.Lock()
	defer l.mu.Unlock()

	p := &types.Position{
		Symbol:       o.Symbol,
		Token:        o.Token,
		Side:         o.Side,
		Qty:          o.Qty,
		AvgPrice:     o.FillPrice,
		CurrentPrice: o.FillPrice,
		StopLoss:     o.FillPrice - l.slOffset,
		TakeProfit:   o.FillPrice + l.tpOffset,
		EntryTime:    o.SubmittedAt,
		Status:       types.PositionOpen,
	}
	l.positions = append(l.positions, p)
	return *p
}

// OpenCount reports how many positions are OPEN for a symbol.
func (l *Ledger) OpenCount(symbol string) int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	n := 0
	for _, p := range l.positions {
		if p.Status == types.PositionOpen && p.Symbol == symbol {
			n++
		}
	}
	return n
}

// Allocated is the capital currently tied up in open positions.
func (l *Ledger) Allocated() float64 {
	l.mu.RLock()
	defer l.mu.RUnlock()

	total := 0.0
	for _, p := range l.positions {
		if p.Status == types.PositionOpen {
			total += p.AvgPrice * float64(p.Qty)
		}
	}
	return total
}

// Recompute refreshes current price and PnL for every open position from the
// price cache, falling back to the entry price when a token has no tick yet,
// and rebuilds the aggregate stats.
func (l *Ledger) Recompute(prices PriceView) types.PnLStats {
	l.mu.Lock()
	defer l.mu.Unlock()

	stats := types.PnLStats{}
	for _, p := range l.positions {
		if p.Status != types.PositionOpen {
			continue
		}
		cur, ok := prices.Get(p.Token)
		if !ok {
			cur = p.AvgPrice
		}
		p.CurrentPrice = cur

		if p.Side.IsLong() {
			p.PnL = (cur - p.AvgPrice) * float64(p.Qty)
		} else {
			p.PnL = (p.AvgPrice - cur) * float64(p.Qty)
		}

		stats.NetProfit += p.PnL
		if p.PnL > 0 {
			stats.TotalProfit += p.PnL
		} else {
			stats.TotalLoss += -p.PnL
		}
	}
	if l.capital > 0 {
		stats.ROI = stats.NetProfit / l.capital * 100
	}
	l.stats = stats
	return stats
}

// EvaluateExits closes every open position whose current price crossed the
// stop-loss or take-profit and returns the offsetting orders to submit.
// Inert when auto-exit is disabled.
func (l *Ledger) EvaluateExits() []types.OrderReq {
	if !l.autoExit {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	var reqs []types.OrderReq
	for _, p := range l.positions {
		if p.Status != types.PositionOpen {
			continue
		}
		if p.CurrentPrice > p.StopLoss && p.CurrentPrice < p.TakeProfit {
			continue
		}
		p.Status = types.PositionClosed
		reqs = append(reqs, types.OrderReq{
			Symbol: p.Symbol,
			Token:  p.Token,
			Side:   p.Side.Opposite(),
			Qty:    p.Qty,
			Price:  p.CurrentPrice,
			Tag:    types.TagAutoExit,
		})
	}
	return reqs
}

// Liquidate closes every open position regardless of PnL and returns the
// offsetting orders. Used by the panic path.
func (l *Ledger) Liquidate() []types.OrderReq {
	l.mu.Lock()
	defer l.mu.Unlock()

	var reqs []types.OrderReq
	for _, p := range l.positions {
		if p.Status != types.PositionOpen {
			continue
		}
		p.Status = types.PositionClosed
		reqs = append(reqs, types.OrderReq{
			Symbol: p.Symbol,
			Token:  p.Token,
			Side:   p.Side.Opposite(),
			Qty:    p.Qty,
			Price:  p.CurrentPrice,
			Tag:    types.TagPanic,
		})
	}
	return reqs
}

// Positions returns a copy of the full position book.
func (l *Ledger) Positions() []types.Position {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]types.Position, 0, len(l.positions))
	for _, p := range l.positions {
		out = append(out, *p)
	}
	return out
}

// Stats returns the last aggregate computed by Recompute.
func (l *Ledger) Stats() types.PnLStats {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.stats
}
