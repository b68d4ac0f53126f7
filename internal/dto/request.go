package dto

import "time"

// LoginRequest represents an agency login request
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"ops@county-ema.gov"`
	Password string `json:"password" binding:"required" example:"correct-horse-battery"`
}

// SendAlertRequest represents an alert composed in the dashboard
type SendAlertRequest struct {
	Message    string `json:"message" binding:"required" example:"Flash flood warning for Riverside until 18:00. Move to higher ground."`
	Recipients string `json:"recipients" binding:"required" example:"location" enums:"all,location,priority"`
	Location   string `json:"location,omitempty" example:"riverside"`
	Priority   string `json:"priority,omitempty" example:"high" enums:"low,normal,high,critical"`
}

// ListAlertsRequest represents the alert history query
type ListAlertsRequest struct {
	Priority string `form:"priority" example:"critical"`
	From     string `form:"from" example:"2024-08-01T00:00:00Z"`
	To       string `form:"to" example:"2024-08-31T23:59:59Z"`
	Page     int    `form:"page" example:"1"`
	Limit    int    `form:"limit" example:"50"`
}

// RecipientCountRequest represents a recipient count preview for a selector
type RecipientCountRequest struct {
	Recipients string `form:"recipients" binding:"required" example:"all"`
	Location   string `form:"location" example:"riverside"`
}

// ListLogsRequest represents the delivery ledger query
type ListLogsRequest struct {
	Status  string `form:"status" example:"failed" enums:"all,pending,delivered,failed"`
	AlertID string `form:"alertId" example:"6f1c1c5e-3b1a-4d4f-9b7e-1f0c2d3e4a5b"`
	From    string `form:"from" example:"2024-08-01T00:00:00Z"`
	To      string `form:"to" example:"2024-08-31T23:59:59Z"`
	Range   string `form:"range" example:"week" enums:"all,today,week,month"`
	Search  string `form:"search" example:"flood"`
	Page    int    `form:"page" example:"1"`
	Limit   int    `form:"limit" example:"50"`
}

// ListRecipientsRequest represents the recipient registry query
type ListRecipientsRequest struct {
	Location        string `form:"location" example:"riverside"`
	Search          string `form:"search" example:"jane"`
	IncludeInactive bool   `form:"includeInactive" example:"false"`
	Page            int    `form:"page" example:"1"`
	Limit           int    `form:"limit" example:"50"`
}

// AddRecipientRequest represents a single recipient added by hand
type AddRecipientRequest struct {
	Name     string `json:"name" binding:"required" example:"Jane Doe"`
	Phone    string `json:"phone" binding:"required" example:"+15551234567"`
	Location string `json:"location" binding:"required" example:"Riverside"`
	Priority bool   `json:"priority" example:"false"`
}

// StatsRequest represents the dashboard stats query
type StatsRequest struct {
	Range string `form:"range" example:"week" enums:"all,today,week,month"`
}

// DeliveryReceiptWebhook represents a delivery receipt posted by the SMS gateway
type DeliveryReceiptWebhook struct {
	EventID      string    `json:"eventId,omitempty" example:"gw-rcpt-8842"`
	AlertLogID   string    `json:"alertLogId" binding:"required" example:"0d7c2b1e-4f5a-4c3b-8e9d-1a2b3c4d5e6f"`
	Status       string    `json:"status" binding:"required" example:"delivered" enums:"delivered,failed"`
	FailedReason string    `json:"failedReason,omitempty" example:"unreachable handset"`
	Timestamp    time.Time `json:"timestamp" example:"2024-08-12T14:03:11Z"`
}

// ReplyWebhook represents an inbound SMS reply posted by the SMS gateway
type ReplyWebhook struct {
	EventID    string    `json:"eventId,omitempty" example:"gw-reply-1203"`
	AlertLogID string    `json:"alertLogId" binding:"required" example:"0d7c2b1e-4f5a-4c3b-8e9d-1a2b3c4d5e6f"`
	Reply      string    `json:"reply" binding:"required" example:"SAFE"`
	Timestamp  time.Time `json:"timestamp" example:"2024-08-12T14:05:40Z"`
}
