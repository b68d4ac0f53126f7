package consumer

import (
	"context"

	"github.com/nakelabs/kasa-alert-connect/internal/domain"
)

// MessageParser defines the interface for parsing raw message bytes into payloads
type MessageParser[T any] interface {
	Parse(body []byte) (T, error)
}

// Sink is the last pipeline stage; it must ack or nack every envelope it receives
type Sink[T any] interface {
	Start(ctx context.Context, in <-chan *Envelope[T])
}

// EventApplier applies one delivery event to the ledger
type EventApplier interface {
	Apply(ctx context.Context, event *domain.DeliveryEvent) error
}
