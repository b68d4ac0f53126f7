package service

import (
	"context"
	"fmt"
	"time"

	"github.com/nakelabs/kasa-alert-connect/internal/domain"
)

// AuthServicer defines the interface for agency authentication
type AuthServicer interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Validate(ctx context.Context, token string) (string, error)
	Logout(ctx context.Context, token string) error
	Me(ctx context.Context, agencyID string) (*domain.Agency, error)
	Register(ctx context.Context, name, email, password, role string) (*domain.Agency, error)
}

// RegistryServicer defines the interface for recipient registry operations
type RegistryServicer interface {
	List(ctx context.Context, agencyID string, filter domain.RecipientFilter) ([]domain.Recipient, int64, error)
	Add(ctx context.Context, agencyID string, input RecipientInput) (*domain.Recipient, error)
	BulkImport(ctx context.Context, agencyID, filename string, data []byte) (*domain.ImportResult, error)
	Remove(ctx context.Context, agencyID, id string) error
	Count(ctx context.Context, agencyID string, selection domain.RecipientSelection) (int64, error)
	Template() []byte
}

// DispatcherServicer defines the interface for sending and listing alerts
type DispatcherServicer interface {
	Send(ctx context.Context, agencyID string, req SendRequest) (*domain.Alert, error)
	List(ctx context.Context, agencyID string, filter domain.AlertFilter) ([]domain.Alert, int64, error)
	RecipientCount(ctx context.Context, agencyID string, selection domain.RecipientSelection) (int64, error)
}

// LedgerServicer defines the interface for delivery ledger operations
type LedgerServicer interface {
	RecordDeliveryReceipt(ctx context.Context, alertLogID string, status domain.LogStatus, timestamp time.Time, failedReason string) error
	RecordReply(ctx context.Context, alertLogID, replyText string, timestamp time.Time) error
	Query(ctx context.Context, agencyID string, filter domain.LogFilter) ([]domain.AlertLog, int64, error)
	History(ctx context.Context, agencyID, alertLogID string) ([]domain.DeliveryEvent, error)
	Ingest(ctx context.Context, event *domain.DeliveryEvent) error
}

// StatsServicer defines the interface for dashboard statistics
type StatsServicer interface {
	Compute(ctx context.Context, agencyID string, period domain.Period) (*domain.DashboardStats, error)
}

// Notifier pushes realtime updates to an agency's connected clients
type Notifier interface {
	Notify(agencyID, eventType string, payload interface{})
}

// Archiver stores raw uploads for audit
type Archiver interface {
	Archive(ctx context.Context, key, contentType string, data []byte) error
}

// Realtime event types. EventLogEventReceived fires when a gateway event is
// queued, before the ledger consumer applies it to the log row.
const (
	EventAlertCreated     = "alert.created"
	EventLogEventReceived = "log.event_received"
)

type nopNotifier struct{}

func (nopNotifier) Notify(string, string, interface{}) {}

// storeError maps a repository failure to a domain error; typed errors pass through
func storeError(err error, action string) error {
	if err == nil {
		return nil
	}
	if domain.KindOf(err) != "" {
		return err
	}
	if domain.IsTimeout(err) {
		return domain.ErrTimeout.Wrap(err)
	}
	return fmt.Errorf("failed to %s: %w", action, err)
}
