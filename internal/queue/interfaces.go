package queue

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/sqs"

	"github.com/nakelabs/kasa-alert-connect/internal/domain"
)

// OutboundPublisher hands outbound SMS to the courier queue
type OutboundPublisher interface {
	// EnqueueOutbound sends msgs and returns the log IDs that reached the queue.
	// A non-nil error may accompany a partial result.
	EnqueueOutbound(ctx context.Context, msgs []domain.OutboundMessage) ([]string, error)
}

// EventPublisher publishes delivery receipts and replies for the ledger consumer
type EventPublisher interface {
	PublishDeliveryEvent(ctx context.Context, event *domain.DeliveryEvent) error
}

// QueueConsumer defines the interface for consuming messages from a queue
type QueueConsumer interface {
	ReceiveMessages(ctx context.Context, input *sqs.ReceiveMessageInput) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, input *sqs.DeleteMessageInput) (*sqs.DeleteMessageOutput, error)
	ChangeMessageVisibility(ctx context.Context, input *sqs.ChangeMessageVisibilityInput) (*sqs.ChangeMessageVisibilityOutput, error)
	QueueURL() string
}
