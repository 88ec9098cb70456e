package messaging

import (
	"context"
)

// Broker is the pub/sub contract booking lifecycle events flow through.
type Broker interface {
	Publish(ctx context.Context, channel string, message interface{}) error
	Subscribe(ctx context.Context, channel string) (<-chan []byte, error)
	Close() error
}
