package domain

import "time"

// LogStatus is the delivery state of one (alert, recipient) pair
type LogStatus string

const (
	LogStatusPending   LogStatus = "pending"
	LogStatusDelivered LogStatus = "delivered"
	LogStatusFailed    LogStatus = "failed"

	// LogStatusAll is only meaningful in a filter, where it matches every status
	LogStatusAll LogStatus = "all"
)

// Valid reports whether s is a known status
func (s LogStatus) Valid() bool {
	switch s {
	case LogStatusPending, LogStatusDelivered, LogStatusFailed:
		return true
	}
	return false
}

// Terminal reports whether s can be carried by a delivery receipt
func (s LogStatus) Terminal() bool {
	return s == LogStatusDelivered || s == LogStatusFailed
}

// AlertLog tracks delivery of an alert to a single recipient.
// ReceiptVersion and ReplyVersion hold the UnixNano of the last applied event
// and decide last-write-wins for out-of-order updates.
type AlertLog struct {
	ID             string    `gorm:"type:varchar(36);primaryKey"`
	AlertID        string    `gorm:"type:varchar(36);not null;index"`
	AgencyID       string    `gorm:"type:varchar(36);not null;index:idx_log_agency_sent,priority:1"`
	RecipientID    string    `gorm:"type:varchar(36);not null;index"`
	Recipient      string    `gorm:"size:20;not null"`
	Status         LogStatus `gorm:"size:16;not null;index"`
	FailedReason   string    `gorm:"size:500"`
	Reply          *string   `gorm:"type:text"`
	SentAt         time.Time `gorm:"not null;index:idx_log_agency_sent,priority:2"`
	DeliveredAt    *time.Time
	RepliedAt      *time.Time
	EnqueuedAt     *time.Time `gorm:"index"`
	ReceiptVersion int64      `gorm:"not null"`
	ReplyVersion   int64      `gorm:"not null"`

	Message string `gorm:"->;-:migration"`
}

// LogFilter narrows a ledger query; all set fields must match
type LogFilter struct {
	Status  LogStatus
	From    time.Time
	To      time.Time
	Search  string
	AlertID string
	Page    Page
}

// DeliveryReceipt reports the gateway outcome for one log row
type DeliveryReceipt struct {
	AlertLogID   string
	Status       LogStatus
	FailedReason string
	Timestamp    time.Time
}

// Reply is an inbound SMS answer to one log row
type Reply struct {
	AlertLogID string
	Text       string
	Timestamp  time.Time
}
