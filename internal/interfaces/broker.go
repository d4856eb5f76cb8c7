package interfaces

import (
	"context"

	"titan-trader/internal/types"
)

// Broker is the order-placement collaborator. Calls are opaque and retry-free.
type Broker interface {
	// PlaceOrder submits an order and returns the broker acknowledgement.
	// The call is synchronous and may block on the network.
	PlaceOrder(ctx context.Context, req types.OrderReq) (types.OrderAck, error)
}
