package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"titan-trader/internal/types"
)

type fakeBroker struct {
	mu   sync.Mutex
	fail bool
	reqs []types.OrderReq
}

func (b *fakeBroker) PlaceOrder(ctx context.Context, req types.OrderReq) (types.OrderAck, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.reqs = append(b.reqs, req)
	if b.fail {
		return types.OrderAck{}, errors.New("rejected by broker")
	}
	return types.OrderAck{OrderID: fmt.Sprintf("T-%d", len(b.reqs)), Status: "PLACED"}, nil
}

func (b *fakeBroker) calls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.reqs)
}

func TestSubmitSuccessOpensPosition(t *testing.T) {
	t.Setenv("TRADER_LOG_DIR", t.TempDir())
	brk := &fakeBroker{}
	l := NewLedger(200000, 100, 150, true)
	e := NewExecutor(brk, l, nil, 4)

	order := e.Submit(context.Background(), types.OrderReq{
		Symbol: "SBIN", Token: 1, Side: types.SideCE, Qty: 10, Price: 500, Tag: types.TagSignal,
	})

	assert.Equal(t, types.OrderSuccess, order.Status)
	assert.Equal(t, "T-1", order.ID)
	assert.Equal(t, 500.0, order.FillPrice)
	assert.Equal(t, 1, l.OpenCount("SBIN"))
}

func TestSubmitFailureCreatesNoPosition(t *testing.T) {
	t.Setenv("TRADER_LOG_DIR", t.TempDir())
	brk := &fakeBroker{fail: true}
	l := NewLedger(200000, 100, 150, true)
	e := NewExecutor(brk, l, nil, 4)

	order := e.Submit(context.Background(), types.OrderReq{
		Symbol: "SBIN", Token: 1, Side: types.SideCE, Qty: 10, Price: 500, Tag: types.TagSignal,
	})

	assert.Equal(t, types.OrderFailed, order.Status)
	assert.Empty(t, order.ID)
	assert.Equal(t, 0, l.OpenCount("SBIN"))
	// No retry: exactly one broker call.
	assert.Equal(t, 1, brk.calls())
}

func TestSubmitExitOrderDoesNotOpenPosition(t *testing.T) {
	t.Setenv("TRADER_LOG_DIR", t.TempDir())
	brk := &fakeBroker{}
	l := NewLedger(200000, 100, 150, true)
	e := NewExecutor(brk, l, nil, 4)

	e.Submit(context.Background(), types.OrderReq{
		Symbol: "SBIN", Token: 1, Side: types.SideSell, Qty: 10, Price: 500, Tag: types.TagAutoExit,
	})

	assert.Equal(t, 0, l.OpenCount("SBIN"))
}

func TestEnqueueBackpressure(t *testing.T) {
	brk := &fakeBroker{}
	l := NewLedger(200000, 100, 150, true)
	e := NewExecutor(brk, l, nil, 1)

	req := types.OrderReq{Symbol: "SBIN", Side: types.SideCE, Qty: 1, Tag: types.TagSignal}
	require.True(t, e.Enqueue(context.Background(), req))
	// Worker not running: the second enqueue must be refused, not block.
	assert.False(t, e.Enqueue(context.Background(), req))
}
