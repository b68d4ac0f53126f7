package consumer

import (
	"context"
)

// Envelope wraps a parsed payload with acknowledgment callbacks
type Envelope[T any] struct {
	Payload   T
	MessageID string
	ack       func(context.Context) error
	nack      func(context.Context) error
}

// NewEnvelope creates a new message envelope
func NewEnvelope[T any](payload T, messageID string, ack, nack func(context.Context) error) *Envelope[T] {
	return &Envelope[T]{
		Payload:   payload,
		MessageID: messageID,
		ack:       ack,
		nack:      nack,
	}
}

// Ack acknowledges successful processing
func (e *Envelope[T]) Ack(ctx context.Context) error {
	if e.ack != nil {
		return e.ack(ctx)
	}
	return nil
}

// Nack returns the message to the queue for another attempt
func (e *Envelope[T]) Nack(ctx context.Context) error {
	if e.nack != nil {
		return e.nack(ctx)
	}
	return nil
}
