package repository

import (
	"context"
	"time"

	"github.com/nakelabs/kasa-alert-connect/internal/domain"
)

// AgencyRepository stores agency accounts and revoked tokens
type AgencyRepository interface {
	// CreateAgency inserts an agency; a taken email yields domain.ErrDuplicateAgency
	CreateAgency(ctx context.Context, agency *domain.Agency) error

	GetAgency(ctx context.Context, id string) (*domain.Agency, error)
	GetAgencyByEmail(ctx context.Context, email string) (*domain.Agency, error)
	ListAgencies(ctx context.Context) ([]domain.Agency, error)

	RevokeToken(ctx context.Context, token *domain.RevokedToken) error
	IsTokenRevoked(ctx context.Context, jti string) (bool, error)
}

// RecipientRepository stores per-agency recipients
type RecipientRepository interface {
	ListRecipients(ctx context.Context, agencyID string, filter domain.RecipientFilter) ([]domain.Recipient, int64, error)

	// InsertRecipient adds a recipient, reactivating an inactive row with the same phone.
	// An active row with the same phone yields domain.ErrDuplicateRecipient.
	InsertRecipient(ctx context.Context, recipient *domain.Recipient) (*domain.Recipient, error)

	// RemoveRecipient deletes the recipient, or deactivates it when alert logs reference it
	RemoveRecipient(ctx context.Context, agencyID, id string) (deactivated bool, err error)

	CountRecipients(ctx context.Context, agencyID string, selection domain.RecipientSelection) (int64, error)
}

// AlertRepository stores alerts and performs the transactional fan-out
type AlertRepository interface {
	// CreateAlertWithLogs resolves selection and writes the alert plus one pending log
	// per resolved recipient in a single transaction. An empty snapshot yields
	// domain.ErrEmptyRecipientSet and writes nothing.
	CreateAlertWithLogs(ctx context.Context, alert *domain.Alert, selection domain.RecipientSelection) ([]domain.AlertLog, error)

	ListAlerts(ctx context.Context, agencyID string, filter domain.AlertFilter) ([]domain.Alert, int64, error)

	MarkEnqueued(ctx context.Context, logIDs []string, at time.Time) error

	// ListUnenqueued returns pending logs never handed to the queue and sent before olderThan
	ListUnenqueued(ctx context.Context, olderThan time.Time, limit int) ([]domain.OutboundMessage, error)
}

// LedgerRepository applies delivery receipts and replies to log rows
type LedgerRepository interface {
	// ApplyReceipt updates one row if the receipt is not older than the last applied one.
	// It returns the row as stored and whether this receipt changed it.
	ApplyReceipt(ctx context.Context, receipt domain.DeliveryReceipt) (*domain.AlertLog, bool, error)

	// ApplyReply records a reply under the same last-write-wins rule
	ApplyReply(ctx context.Context, reply domain.Reply) (*domain.AlertLog, bool, error)

	GetLog(ctx context.Context, id string) (*domain.AlertLog, error)

	QueryLogs(ctx context.Context, agencyID string, filter domain.LogFilter) ([]domain.AlertLog, int64, error)
}

// StatsRepository aggregates counts for the dashboard
type StatsRepository interface {
	CountStats(ctx context.Context, agencyID string, since time.Time) (*domain.StatsCounts, error)
}

// HistoryRepository is the append-only delivery event history
type HistoryRepository interface {
	// InitSchema initializes the database schema (creates tables if they don't exist)
	InitSchema(ctx context.Context) error

	// InsertBatch appends events and returns how many were written
	InsertBatch(ctx context.Context, events []*domain.DeliveryEvent) (int, error)

	// ListByLog returns the events of one log row, oldest first
	ListByLog(ctx context.Context, agencyID, alertLogID string) ([]domain.DeliveryEvent, error)

	// Ping checks if the database connection is alive
	Ping(ctx context.Context) error

	// Close closes the repository and releases resources
	Close() error
}
