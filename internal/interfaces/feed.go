package interfaces

import "context"

// Feed is the streaming market-data collaborator.
type Feed interface {
	// Start opens the stream and begins delivering ticks to the registered
	// sink. Reconnects with backoff are handled inside the feed; every
	// (re)connect resubscribes the full token list.
	Start(ctx context.Context) error

	// Stop closes the stream.
	Stop(ctx context.Context)

	// Subscribe records the instrument universe to stream. Effective
	// immediately when connected, otherwise applied on the next connect.
	Subscribe(ctx context.Context, tokens []uint32) error

	// Status reports "connected" or "disconnected".
	Status() string
}
