package sqs

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"go.uber.org/zap"

	"github.com/nakelabs/kasa-alert-connect/internal/awsconf"
	envConfig "github.com/nakelabs/kasa-alert-connect/internal/config"
	"github.com/nakelabs/kasa-alert-connect/internal/domain"
)

// MaxBatchEntries is the SQS limit on messages per SendMessageBatch call
const MaxBatchEntries = 10

// API is the subset of the SQS client used here
type API interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
	SendMessageBatch(ctx context.Context, params *sqs.SendMessageBatchInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageBatchOutput, error)
	ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error)
	ChangeMessageVisibility(ctx context.Context, params *sqs.ChangeMessageVisibilityInput, optFns ...func(*sqs.Options)) (*sqs.ChangeMessageVisibilityOutput, error)
}

// Client is bound to one queue
type Client struct {
	client   API
	queueURL string
	log      *zap.Logger
}

// NewClient creates an SQS client for queueURL
func NewClient(ctx context.Context, SQSConfig envConfig.SQS, queueURL string, log *zap.Logger) (*Client, error) {
	cfg, err := awsconf.Load(ctx, SQSConfig.Region, SQSConfig.Endpoint, log)
	if err != nil {
		return nil, err
	}

	log.Info("SQS client created",
		zap.String("region", SQSConfig.Region),
		zap.String("queue_url", queueURL))

	return NewClientWithAPI(sqs.NewFromConfig(cfg), queueURL, log), nil
}

// NewClientWithAPI wraps an existing SQS API implementation
func NewClientWithAPI(api API, queueURL string, log *zap.Logger) *Client {
	return &Client{
		client:   api,
		queueURL: queueURL,
		log:      log,
	}
}

// ReceiveMessages receives messages from SQS
func (c *Client) ReceiveMessages(ctx context.Context, input *sqs.ReceiveMessageInput) (*sqs.ReceiveMessageOutput, error) {
	return c.client.ReceiveMessage(ctx, input)
}

// DeleteMessage deletes a message from SQS
func (c *Client) DeleteMessage(ctx context.Context, input *sqs.DeleteMessageInput) (*sqs.DeleteMessageOutput, error) {
	return c.client.DeleteMessage(ctx, input)
}

// ChangeMessageVisibility changes when a received message becomes visible again
func (c *Client) ChangeMessageVisibility(ctx context.Context, input *sqs.ChangeMessageVisibilityInput) (*sqs.ChangeMessageVisibilityOutput, error) {
	return c.client.ChangeMessageVisibility(ctx, input)
}

// QueueURL returns the bound queue URL
func (c *Client) QueueURL() string {
	return c.queueURL
}

// EnqueueOutbound sends outbound messages in batches of MaxBatchEntries.
// Entries SQS rejects are logged and left out of the returned IDs.
func (c *Client) EnqueueOutbound(ctx context.Context, msgs []domain.OutboundMessage) ([]string, error) {
	sent := make([]string, 0, len(msgs))

	for start := 0; start < len(msgs); start += MaxBatchEntries {
		end := start + MaxBatchEntries
		if end > len(msgs) {
			end = len(msgs)
		}

		entries := make([]types.SendMessageBatchRequestEntry, 0, end-start)
		for _, msg := range msgs[start:end] {
			body, err := json.Marshal(msg)
			if err != nil {
				return sent, fmt.Errorf("failed to marshal outbound message: %w", err)
			}
			entries = append(entries, types.SendMessageBatchRequestEntry{
				Id:          aws.String(msg.LogID),
				MessageBody: aws.String(string(body)),
				MessageAttributes: map[string]types.MessageAttributeValue{
					"Priority": stringAttribute(string(msg.Priority)),
					"AgencyId": stringAttribute(msg.AgencyID),
				},
			})
		}

		out, err := c.client.SendMessageBatch(ctx, &sqs.SendMessageBatchInput{
			QueueUrl: aws.String(c.queueURL),
			Entries:  entries,
		})
		if err != nil {
			c.log.Error("Failed to send outbound batch to SQS",
				zap.Int("batch_size", len(entries)),
				zap.Error(err))
			return sent, fmt.Errorf("failed to send message batch to SQS: %w", err)
		}

		for _, ok := range out.Successful {
			sent = append(sent, aws.ToString(ok.Id))
		}
		for _, failed := range out.Failed {
			c.log.Warn("SQS rejected outbound message",
				zap.String("log_id", aws.ToString(failed.Id)),
				zap.String("code", aws.ToString(failed.Code)),
				zap.String("reason", aws.ToString(failed.Message)))
		}
	}

	c.log.Debug("Outbound messages enqueued",
		zap.Int("requested", len(msgs)),
		zap.Int("sent", len(sent)))

	return sent, nil
}

// PublishDeliveryEvent publishes one receipt or reply event
func (c *Client) PublishDeliveryEvent(ctx context.Context, event *domain.DeliveryEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		c.log.Error("Failed to marshal delivery event",
			zap.String("event_id", event.EventID),
			zap.Error(err))
		return fmt.Errorf("failed to marshal delivery event: %w", err)
	}

	_, err = c.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(c.queueURL),
		MessageBody: aws.String(string(body)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"Kind":     stringAttribute(string(event.Kind)),
			"AgencyId": stringAttribute(event.AgencyID),
		},
	})
	if err != nil {
		c.log.Error("Failed to send delivery event to SQS",
			zap.String("event_id", event.EventID),
			zap.String("alert_log_id", event.AlertLogID),
			zap.Error(err))
		return fmt.Errorf("failed to send message to SQS: %w", err)
	}

	c.log.Debug("Delivery event published to SQS",
		zap.String("event_id", event.EventID),
		zap.String("kind", string(event.Kind)))

	return nil
}

func stringAttribute(value string) types.MessageAttributeValue {
	return types.MessageAttributeValue{
		DataType:    aws.String("String"),
		StringValue: aws.String(value),
	}
}
