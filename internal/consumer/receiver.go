package consumer

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awssqs "github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"go.uber.org/zap"

	"github.com/nakelabs/kasa-alert-connect/internal/queue"
)

// ReceiverConfig configures long polling of one queue
type ReceiverConfig struct {
	MaxMessages     int32
	WaitTimeSeconds int32
	BufferSize      int
	// ErrorBackoff is the pause after a failed receive; defaults to one second
	ErrorBackoff time.Duration
}

// Receiver is the first pipeline stage. It long-polls the outbound or the
// delivery-events queue and hands raw messages to the parser stage.
type Receiver struct {
	consumer queue.QueueConsumer
	config   ReceiverConfig
	log      *zap.Logger
}

// NewReceiver creates a receiver for the queue behind consumer
func NewReceiver(consumer queue.QueueConsumer, config ReceiverConfig, log *zap.Logger) *Receiver {
	if config.ErrorBackoff <= 0 {
		config.ErrorBackoff = time.Second
	}
	return &Receiver{
		consumer: consumer,
		config:   config,
		log:      log,
	}
}

// Start forwards received messages to out until ctx is done, then closes out.
// Receive failures are logged and retried after ErrorBackoff.
func (r *Receiver) Start(ctx context.Context, out chan<- types.Message) {
	defer close(out)

	for ctx.Err() == nil {
		messages, err := r.poll(ctx)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			r.log.Error("Failed to receive queue messages",
				zap.String("queue_url", r.consumer.QueueURL()),
				zap.Error(err))
			r.backoff(ctx)
			continue
		}

		for _, msg := range messages {
			select {
			case <-ctx.Done():
				r.log.Info("Receiver stopped with messages in hand",
					zap.Int("unsent", len(messages)))
				return
			case out <- msg:
			}
		}
	}

	r.log.Info("Receiver shutting down")
}

// poll runs one long-poll request
func (r *Receiver) poll(ctx context.Context) ([]types.Message, error) {
	queueURL := r.consumer.QueueURL()
	result, err := r.consumer.ReceiveMessages(ctx, &awssqs.ReceiveMessageInput{
		QueueUrl:              aws.String(queueURL),
		MaxNumberOfMessages:   r.config.MaxMessages,
		WaitTimeSeconds:       r.config.WaitTimeSeconds,
		MessageAttributeNames: []string{"All"},
	})
	if err != nil {
		return nil, err
	}

	if len(result.Messages) > 0 {
		r.log.Debug("Received queue messages",
			zap.String("queue_url", queueURL),
			zap.Int("message_count", len(result.Messages)))
	}
	return result.Messages, nil
}

func (r *Receiver) backoff(ctx context.Context) {
	t := time.NewTimer(r.config.ErrorBackoff)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
