package consumer

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awssqs "github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"go.uber.org/zap"

	"github.com/nakelabs/kasa-alert-connect/internal/queue"
)

// ParserStage handles parsing SQS messages into envelopes
type ParserStage[T any] struct {
	consumer   queue.QueueConsumer
	parser     MessageParser[T]
	retryDelay int32
	log        *zap.Logger
}

// NewParserStage creates a new parser stage. A nacked message becomes visible
// again after retryDelay seconds instead of the queue's full visibility timeout.
func NewParserStage[T any](consumer queue.QueueConsumer, parser MessageParser[T], retryDelay int32, log *zap.Logger) *ParserStage[T] {
	return &ParserStage[T]{
		consumer:   consumer,
		parser:     parser,
		retryDelay: retryDelay,
		log:        log,
	}
}

// Start begins parsing messages and outputs envelopes
func (p *ParserStage[T]) Start(ctx context.Context, in <-chan types.Message, out chan<- *Envelope[T]) {
	defer close(out)

	for {
		select {
		case <-ctx.Done():
			p.log.Info("Parser stage shutting down")
			return
		case msg, ok := <-in:
			if !ok {
				p.log.Info("Parser stage input channel closed")
				return
			}

			envelope := p.parseMessage(ctx, msg)
			if envelope == nil {
				continue
			}

			select {
			case <-ctx.Done():
				return
			case out <- envelope:
			}
		}
	}
}

// parseMessage parses a single SQS message into an envelope; malformed messages are deleted
func (p *ParserStage[T]) parseMessage(ctx context.Context, msg types.Message) *Envelope[T] {
	messageID := aws.ToString(msg.MessageId)
	payload, err := p.parser.Parse([]byte(aws.ToString(msg.Body)))

	if err != nil {
		p.log.Warn("Failed to parse message",
			zap.String("message_id", messageID),
			zap.Error(err))
		if err := p.deleteMessage(ctx, msg); err == nil {
			p.log.Info("Deleted malformed message from SQS", zap.String("message_id", messageID))
		}
		return nil
	}

	ack := func(ctx context.Context) error {
		return p.deleteMessage(ctx, msg)
	}

	nack := func(ctx context.Context) error {
		return p.releaseMessage(ctx, msg)
	}

	return NewEnvelope(payload, messageID, ack, nack)
}

// deleteMessage deletes a message from SQS
func (p *ParserStage[T]) deleteMessage(ctx context.Context, msg types.Message) error {
	_, err := p.consumer.DeleteMessage(ctx, &awssqs.DeleteMessageInput{
		QueueUrl:      aws.String(p.consumer.QueueURL()),
		ReceiptHandle: msg.ReceiptHandle,
	})
	if err != nil {
		p.log.Error("Failed to delete message",
			zap.String("message_id", aws.ToString(msg.MessageId)),
			zap.Error(err))
		return err
	}
	return nil
}

// releaseMessage shortens the visibility timeout so the message is retried soon
func (p *ParserStage[T]) releaseMessage(ctx context.Context, msg types.Message) error {
	_, err := p.consumer.ChangeMessageVisibility(ctx, &awssqs.ChangeMessageVisibilityInput{
		QueueUrl:          aws.String(p.consumer.QueueURL()),
		ReceiptHandle:     msg.ReceiptHandle,
		VisibilityTimeout: p.retryDelay,
	})
	if err != nil {
		p.log.Warn("Failed to release message, it will reappear after the visibility timeout",
			zap.String("message_id", aws.ToString(msg.MessageId)),
			zap.Error(err))
		return err
	}
	return nil
}
