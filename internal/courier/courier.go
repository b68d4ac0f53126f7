package courier

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nakelabs/kasa-alert-connect/internal/awsconf"
	"github.com/nakelabs/kasa-alert-connect/internal/config"
	"github.com/nakelabs/kasa-alert-connect/internal/consumer"
	"github.com/nakelabs/kasa-alert-connect/internal/domain"
	"github.com/nakelabs/kasa-alert-connect/internal/queue"
)

const (
	smsTypeAttribute  = "AWS.SNS.SMS.SMSType"
	senderIDAttribute = "AWS.SNS.SMS.SenderID"

	smsTransactional = "Transactional"
	smsPromotional   = "Promotional"

	maxFailedReason = 500
)

// SMSAPI is the subset of the SNS client used to send SMS
type SMSAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// Sender delivers outbound messages as SMS through SNS
type Sender struct {
	api      SMSAPI
	events   queue.EventPublisher
	senderID string
	log      *zap.Logger
	now      func() time.Time
}

// NewSNSAPI builds an SNS client from the shared AWS settings
func NewSNSAPI(ctx context.Context, region, endpoint string, log *zap.Logger) (*sns.Client, error) {
	cfg, err := awsconf.Load(ctx, region, endpoint, log)
	if err != nil {
		return nil, err
	}
	return sns.NewFromConfig(cfg), nil
}

// NewSender creates a courier that reports send failures as failed receipts on events
func NewSender(api SMSAPI, events queue.EventPublisher, cfg config.Courier, log *zap.Logger) *Sender {
	return &Sender{
		api:      api,
		events:   events,
		senderID: cfg.SenderID,
		log:      log,
		now:      time.Now,
	}
}

// Send publishes one SMS and returns the SNS message ID
func (s *Sender) Send(ctx context.Context, msg *domain.OutboundMessage) (string, error) {
	attrs := map[string]types.MessageAttributeValue{
		smsTypeAttribute: stringAttribute(smsType(msg.Priority)),
	}
	if s.senderID != "" {
		attrs[senderIDAttribute] = stringAttribute(s.senderID)
	}

	out, err := s.api.Publish(ctx, &sns.PublishInput{
		PhoneNumber:       aws.String(msg.Phone),
		Message:           aws.String(msg.Message),
		MessageAttributes: attrs,
	})
	if err != nil {
		return "", fmt.Errorf("failed to publish SMS: %w", err)
	}
	return aws.ToString(out.MessageId), nil
}

// Start implements consumer.Sink. A message is acked once it is sent or once its
// failure is recorded as a failed receipt; it is nacked only when neither happened.
func (s *Sender) Start(ctx context.Context, in <-chan *consumer.Envelope[*domain.OutboundMessage]) {
	for {
		select {
		case <-ctx.Done():
			s.log.Info("Courier shutting down")
			return
		case env, ok := <-in:
			if !ok {
				s.log.Info("Courier input channel closed")
				return
			}
			s.deliver(ctx, env)
		}
	}
}

func (s *Sender) deliver(ctx context.Context, env *consumer.Envelope[*domain.OutboundMessage]) {
	msg := env.Payload

	messageID, err := s.Send(ctx, msg)
	if err == nil {
		s.log.Info("SMS sent",
			zap.String("alert_log_id", msg.LogID),
			zap.String("priority", string(msg.Priority)),
			zap.String("sns_message_id", messageID))
		s.ack(ctx, env)
		return
	}

	s.log.Warn("SMS send failed",
		zap.String("alert_log_id", msg.LogID),
		zap.Error(err))

	if perr := s.events.PublishDeliveryEvent(ctx, s.failedReceipt(msg, err)); perr != nil {
		s.log.Error("Failed to report failed SMS, leaving it for retry",
			zap.String("alert_log_id", msg.LogID),
			zap.Error(perr))
		if nerr := env.Nack(ctx); nerr != nil {
			s.log.Error("Failed to nack envelope", zap.String("message_id", env.MessageID), zap.Error(nerr))
		}
		return
	}

	s.ack(ctx, env)
}

func (s *Sender) ack(ctx context.Context, env *consumer.Envelope[*domain.OutboundMessage]) {
	if err := env.Ack(ctx); err != nil {
		s.log.Error("Failed to ack envelope", zap.String("message_id", env.MessageID), zap.Error(err))
	}
}

func (s *Sender) failedReceipt(msg *domain.OutboundMessage, cause error) *domain.DeliveryEvent {
	reason := truncate(strings.ToValidUTF8(cause.Error(), "\uFFFD"), maxFailedReason)
	now := s.now().UTC()
	return &domain.DeliveryEvent{
		EventID:      uuid.NewString(),
		Kind:         domain.EventKindReceipt,
		AlertLogID:   msg.LogID,
		AlertID:      msg.AlertID,
		AgencyID:     msg.AgencyID,
		Status:       domain.LogStatusFailed,
		FailedReason: reason,
		OccurredAt:   now,
		RecordedAt:   now,
	}
}

// truncate cuts s to at most n bytes without splitting a rune
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func smsType(p domain.Priority) string {
	if p.Urgent() {
		return smsTransactional
	}
	return smsPromotional
}

func stringAttribute(value string) types.MessageAttributeValue {
	return types.MessageAttributeValue{
		DataType:    aws.String("String"),
		StringValue: aws.String(value),
	}
}

// NewConsumer builds the pipeline that drains the outbound queue through sender
func NewConsumer(cfg config.Consumer, queueConsumer queue.QueueConsumer, sender *Sender, log *zap.Logger) *consumer.Consumer[*domain.OutboundMessage] {
	return consumer.NewConsumer[*domain.OutboundMessage](cfg, queueConsumer, consumer.NewOutboundParser(), sender, log)
}
