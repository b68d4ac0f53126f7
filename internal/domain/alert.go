package domain

import "time"

// Priority is the urgency of an alert
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityNormal   Priority = "normal"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// Valid reports whether p is a known priority
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityNormal, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

// Urgent reports whether the alert should go out as a transactional SMS
func (p Priority) Urgent() bool {
	return p == PriorityHigh || p == PriorityCritical
}

// Alert is one message fanned out to a fixed recipient snapshot.
// Rows are immutable after creation; delivery counts are derived from AlertLog rows.
type Alert struct {
	ID              string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	AgencyID        string    `gorm:"type:varchar(36);not null;index:idx_alert_agency_created,priority:1;uniqueIndex:idx_alert_agency_idempotency,priority:1" json:"agencyId"`
	Message         string    `gorm:"type:text;not null" json:"message"`
	Priority        Priority  `gorm:"size:16;not null" json:"priority"`
	Selector        Selector  `gorm:"size:16;not null" json:"recipients"`
	Location        string    `gorm:"size:100" json:"location,omitempty"`
	IdempotencyKey  *string   `gorm:"size:100;uniqueIndex:idx_alert_agency_idempotency,priority:2" json:"-"`
	TotalRecipients int       `gorm:"not null" json:"totalRecipients"`
	CreatedAt       time.Time `gorm:"not null;index:idx_alert_agency_created,priority:2" json:"sentAt"`

	DeliveredCount int `gorm:"-" json:"deliveredCount"`
	FailedCount    int `gorm:"-" json:"failedCount"`
	PendingCount   int `gorm:"-" json:"pendingCount"`
}

// Status derives the aggregate delivery state of the alert
func (a *Alert) Status() string {
	switch {
	case a.PendingCount > 0:
		return string(LogStatusPending)
	case a.TotalRecipients > 0 && a.FailedCount == a.TotalRecipients:
		return string(LogStatusFailed)
	default:
		return string(LogStatusDelivered)
	}
}

// AlertFilter narrows an alert listing
type AlertFilter struct {
	Priority Priority
	From     time.Time
	To       time.Time
	Page     Page
}

// AlertCounts holds the per-alert aggregates derived from the ledger
type AlertCounts struct {
	AlertID   string
	Delivered int
	Failed    int
	Pending   int
}

// OutboundMessage is the unit handed to the SMS gateway queue
type OutboundMessage struct {
	LogID    string   `json:"logId"`
	AlertID  string   `json:"alertId"`
	AgencyID string   `json:"agencyId"`
	Phone    string   `json:"phone"`
	Message  string   `json:"message"`
	Priority Priority `json:"priority"`
}
