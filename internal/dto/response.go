package dto

import "time"

// SuccessResponse is the envelope every successful JSON response uses
type SuccessResponse struct {
	Success    bool        `json:"success" example:"true"`
	Data       interface{} `json:"data,omitempty"`
	Message    string      `json:"message,omitempty" example:"alert queued for 120 recipients"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Success bool   `json:"success" example:"false"`
	Error   string `json:"error" example:"validation_error"`
	Code    string `json:"code,omitempty" example:"EmptyRecipientSet"`
	Message string `json:"message,omitempty" example:"no active recipients match the selector"`
}

// Pagination describes the page a list response holds
type Pagination struct {
	Page       int   `json:"page" example:"1"`
	Limit      int   `json:"limit" example:"50"`
	Total      int64 `json:"total" example:"134"`
	TotalPages int   `json:"totalPages" example:"3"`
}

// UserResponse represents the signed-in agency
type UserResponse struct {
	ID         string    `json:"id" example:"a3f1c7e2-9d2b-4c11-8b53-2f5e0c9d7a10"`
	Email      string    `json:"email" example:"ops@county-ema.gov"`
	AgencyName string    `json:"agencyName" example:"County Emergency Management"`
	Role       string    `json:"role" example:"admin"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// LoginResponse represents a successful login
type LoginResponse struct {
	User      UserResponse `json:"user"`
	Token     string       `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	ExpiresAt time.Time    `json:"expiresAt"`
}

// AlertResponse represents a sent alert with its derived delivery counts
type AlertResponse struct {
	ID              string    `json:"id" example:"6f1c1c5e-3b1a-4d4f-9b7e-1f0c2d3e4a5b"`
	AgencyID        string    `json:"agencyId" example:"a3f1c7e2-9d2b-4c11-8b53-2f5e0c9d7a10"`
	Message         string    `json:"message" example:"Flash flood warning for Riverside until 18:00."`
	Priority        string    `json:"priority" example:"high"`
	Recipients      string    `json:"recipients" example:"location"`
	Location        string    `json:"location,omitempty" example:"riverside"`
	SentAt          time.Time `json:"sentAt"`
	Status          string    `json:"status" example:"pending"`
	TotalRecipients int       `json:"totalRecipients" example:"120"`
	DeliveredCount  int       `json:"deliveredCount" example:"0"`
	FailedCount     int       `json:"failedCount" example:"0"`
}

// AlertLogResponse represents one ledger row
type AlertLogResponse struct {
	ID           string     `json:"id" example:"0d7c2b1e-4f5a-4c3b-8e9d-1a2b3c4d5e6f"`
	AlertID      string     `json:"alertId" example:"6f1c1c5e-3b1a-4d4f-9b7e-1f0c2d3e4a5b"`
	Message      string     `json:"message" example:"Flash flood warning for Riverside until 18:00."`
	Recipient    string     `json:"recipient" example:"+15551234567"`
	Status       string     `json:"status" example:"delivered"`
	Reply        *string    `json:"reply,omitempty" example:"SAFE"`
	SentAt       time.Time  `json:"sentAt"`
	DeliveredAt  *time.Time `json:"deliveredAt,omitempty"`
	RepliedAt    *time.Time `json:"repliedAt,omitempty"`
	FailedReason string     `json:"failedReason,omitempty" example:"unreachable handset"`
}

// RecipientResponse represents a registry entry
type RecipientResponse struct {
	ID        string    `json:"id" example:"c2b9e0d4-1f7a-4a8e-9c3d-5b6a7e8f9012"`
	Name      string    `json:"name" example:"Jane Doe"`
	Phone     string    `json:"phone" example:"+15551234567"`
	Location  string    `json:"location" example:"riverside"`
	Priority  bool      `json:"priority" example:"false"`
	DateAdded time.Time `json:"dateAdded"`
	AgencyID  string    `json:"agencyId" example:"a3f1c7e2-9d2b-4c11-8b53-2f5e0c9d7a10"`
	IsActive  bool      `json:"isActive" example:"true"`
}

// ImportRejectionResponse describes one CSV row that was not imported
type ImportRejectionResponse struct {
	Line   int    `json:"line" example:"7"`
	Reason string `json:"reason" example:"InvalidPhone"`
	Detail string `json:"detail,omitempty" example:"phone is not a valid phone number"`
}

// ImportResponse summarizes a bulk CSV import
type ImportResponse struct {
	Added     int                       `json:"added" example:"118"`
	Rejected  []ImportRejectionResponse `json:"rejected"`
	TotalRows int                       `json:"totalRows" example:"120"`
}

// CountResponse represents a recipient count preview
type CountResponse struct {
	Count int64 `json:"count" example:"120"`
}

// StatsResponse represents the dashboard stats
type StatsResponse struct {
	TotalUsers      int64   `json:"totalUsers" example:"1200"`
	AlertsSent      int64   `json:"alertsSent" example:"34"`
	RepliesReceived int64   `json:"repliesReceived" example:"210"`
	DeliveryRate    float64 `json:"deliveryRate" example:"97.5"`
	Range           string  `json:"range" example:"week"`
}

// DeliveryEventResponse represents one entry of a log's event history
type DeliveryEventResponse struct {
	EventID      string    `json:"eventId" example:"gw-rcpt-8842"`
	Kind         string    `json:"kind" example:"receipt"`
	Status       string    `json:"status,omitempty" example:"delivered"`
	FailedReason string    `json:"failedReason,omitempty" example:"unreachable handset"`
	Reply        string    `json:"reply,omitempty" example:"SAFE"`
	OccurredAt   time.Time `json:"occurredAt"`
	RecordedAt   time.Time `json:"recordedAt"`
}

// AcceptedResponse represents a webhook event accepted for processing
type AcceptedResponse struct {
	EventID string `json:"eventId" example:"gw-rcpt-8842"`
	Status  string `json:"status" example:"accepted"`
}

// HealthResponse represents the health check result
type HealthResponse struct {
	Status string            `json:"status" example:"ok"`
	Checks map[string]string `json:"checks,omitempty"`
}
