package engine

import (
	"context"
	"time"

	"titan-trader/internal/interfaces"
	"titan-trader/internal/logger"
	"titan-trader/internal/tradelog"
	"titan-trader/internal/types"
)

const defaultOrderQueueSize = 64

// Executor is the order execution gateway. Broker calls block on the
// network, so they run on a dedicated worker fed by a bounded queue: the
// ingestion and bar-close paths only ever enqueue.
type Executor struct {
	broker interfaces.Broker
	ledger *Ledger
	risk   *RiskController
	queue  chan types.OrderReq
}

func NewExecutor(broker interfaces.Broker, ledger *Ledger, risk *RiskController, queueSize int) *Executor {
	if queueSize <= 0 {
		queueSize = defaultOrderQueueSize
	}
	return &Executor{
		broker: broker,
		ledger: ledger,
		risk:   risk,
		queue:  make(chan types.OrderReq, queueSize),
	}
}

// Enqueue hands a request to the worker without blocking. Returns false when
// the queue is full; the request is reported and discarded, never retried.
func (e *Executor) Enqueue(ctx context.Context, req types.OrderReq) bool {
	select {
	case e.queue <- req:
		return true
	default:
		logger.Error(ctx, "Order queue full - request dropped",
			"symbol", req.Symbol,
			"side", req.Side,
			"qty", req.Qty,
			"tag", req.Tag,
		)
		return false
	}
}

// Run drains the queue until the context is cancelled.
func (e *Executor) Run(ctx context.Context) {
	logger.Info(ctx, "Order executor started", "queue_size", cap(e.queue))
	for {
		select {
		case req := <-e.queue:
			e.Submit(ctx, req)
		case <-ctx.Done():
			logger.Info(ctx, "Order executor stopped")
			return
		}
	}
}

// Submit places one order synchronously and records the outcome. A failed
// submission creates no position and is not retried. Successful entry orders
// open a position in the ledger; exit and panic orders do not, their
// positions were already marked closed.
func (e *Executor) Submit(ctx context.Context, req types.OrderReq) types.Order {
	order := types.Order{
		Symbol:      req.Symbol,
		Token:       req.Token,
		Side:        req.Side,
		Qty:         req.Qty,
		Tag:         req.Tag,
		SubmittedAt: time.Now(),
	}

	ack, err := e.broker.PlaceOrder(ctx, req)
	if err != nil {
		order.Status = types.OrderFailed
		e.settle(req)
		logger.ErrorWithErr(ctx, "Order submission failed", err,
			"symbol", req.Symbol,
			"side", req.Side,
			"qty", req.Qty,
			"tag", req.Tag,
		)
		_ = tradelog.Append(tradelog.Entry{
			Symbol: req.Symbol,
			Side:   string(req.Side),
			Qty:    req.Qty,
			Price:  req.Price,
			Status: string(types.OrderFailed),
			Tag:    req.Tag,
		})
		return order
	}

	order.ID = ack.OrderID
	order.Status = types.OrderSuccess
	order.FillPrice = req.Price

	_ = tradelog.Append(tradelog.Entry{
		Symbol:  req.Symbol,
		Side:    string(req.Side),
		OrderID: ack.OrderID,
		Qty:     req.Qty,
		Price:   req.Price,
		Status:  string(types.OrderSuccess),
		Tag:     req.Tag,
	})

	if req.Tag == types.TagSignal {
		pos := e.ledger.OnOrderFilled(order)
		e.settle(req)
		logger.Info(ctx, "Position opened",
			"symbol", pos.Symbol,
			"side", pos.Side,
			"qty", pos.Qty,
			"avg_price", pos.AvgPrice,
			"stop_loss", pos.StopLoss,
			"take_profit", pos.TakeProfit,
		)
	}

	return order
}

// settle gives the risk reservation back once an entry order reached a
// terminal state. Exit and panic orders never held one.
func (e *Executor) settle(req types.OrderReq) {
	if req.Tag == types.TagSignal && e.risk != nil {
		e.risk.Release(req.Symbol)
	}
}
