package domain

import (
	"math"
	"time"
)

// EventKind distinguishes ledger events
type EventKind string

const (
	EventKindReceipt EventKind = "receipt"
	EventKindReply   EventKind = "reply"
)

// Event timestamps become UnixNano versions, so they must be after the
// epoch and no later than the largest int64 nanosecond
var (
	minEventTime = time.Unix(0, 1).UTC()
	maxEventTime = time.Unix(0, math.MaxInt64).UTC()
)

// CheckEventTime rejects timestamps that cannot serve as a version
func CheckEventTime(t time.Time) error {
	if t.Before(minEventTime) || t.After(maxEventTime) {
		return ErrInvalidEvent.WithMessage("timestamp %s is outside %s to %s",
			t.UTC().Format(time.RFC3339), minEventTime.Format(time.RFC3339), maxEventTime.Format(time.RFC3339))
	}
	return nil
}

// DeliveryEvent is one receipt or reply as it travels through the queue
// and as it is appended to the ClickHouse history
type DeliveryEvent struct {
	EventID      string    `json:"eventId" ch:"event_id"`
	Kind         EventKind `json:"kind" ch:"kind"`
	AlertLogID   string    `json:"alertLogId" ch:"alert_log_id"`
	AlertID      string    `json:"alertId" ch:"alert_id"`
	AgencyID     string    `json:"agencyId" ch:"agency_id"`
	Status       LogStatus `json:"status,omitempty" ch:"status"`
	FailedReason string    `json:"failedReason,omitempty" ch:"failed_reason"`
	Reply        string    `json:"reply,omitempty" ch:"reply"`
	OccurredAt   time.Time `json:"occurredAt" ch:"occurred_at"`
	RecordedAt   time.Time `json:"recordedAt" ch:"recorded_at"`
	Version      uint64    `json:"-" ch:"version"`
}

// Receipt converts a receipt event to its ledger form
func (e *DeliveryEvent) Receipt() DeliveryReceipt {
	return DeliveryReceipt{
		AlertLogID:   e.AlertLogID,
		Status:       e.Status,
		FailedReason: e.FailedReason,
		Timestamp:    e.OccurredAt,
	}
}

// AsReply converts a reply event to its ledger form
func (e *DeliveryEvent) AsReply() Reply {
	return Reply{
		AlertLogID: e.AlertLogID,
		Text:       e.Reply,
		Timestamp:  e.OccurredAt,
	}
}
