package consumer

import (
	"encoding/json"
	"fmt"

	"github.com/nakelabs/kasa-alert-connect/internal/domain"
)

// DeliveryEventParser implements MessageParser for queued receipts and replies
type DeliveryEventParser struct{}

// NewDeliveryEventParser creates a new delivery event parser
func NewDeliveryEventParser() *DeliveryEventParser {
	return &DeliveryEventParser{}
}

// Parse parses a JSON message body into a DeliveryEvent
func (p *DeliveryEventParser) Parse(body []byte) (*domain.DeliveryEvent, error) {
	var event domain.DeliveryEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return nil, fmt.Errorf("failed to unmarshal message body: %w", err)
	}

	if event.AlertLogID == "" {
		return nil, fmt.Errorf("message has no alertLogId")
	}
	switch event.Kind {
	case domain.EventKindReceipt:
		if !event.Status.Terminal() {
			return nil, fmt.Errorf("receipt has non-terminal status %q", event.Status)
		}
	case domain.EventKindReply:
	default:
		return nil, fmt.Errorf("unknown event kind %q", event.Kind)
	}

	if event.OccurredAt.IsZero() {
		event.OccurredAt = event.RecordedAt
	}
	if !event.OccurredAt.IsZero() {
		if err := domain.CheckEventTime(event.OccurredAt); err != nil {
			return nil, fmt.Errorf("invalid occurredAt: %w", err)
		}
	}
	event.Version = uint64(event.OccurredAt.UnixNano())

	return &event, nil
}

// OutboundParser implements MessageParser for queued outbound SMS
type OutboundParser struct{}

// NewOutboundParser creates a new outbound message parser
func NewOutboundParser() *OutboundParser {
	return &OutboundParser{}
}

// Parse parses a JSON message body into an OutboundMessage
func (p *OutboundParser) Parse(body []byte) (*domain.OutboundMessage, error) {
	var msg domain.OutboundMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal message body: %w", err)
	}

	if msg.LogID == "" || msg.Phone == "" {
		return nil, fmt.Errorf("message is missing logId or phone")
	}

	return &msg, nil
}
