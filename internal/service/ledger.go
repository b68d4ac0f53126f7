package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nakelabs/kasa-alert-connect/internal/domain"
	"github.com/nakelabs/kasa-alert-connect/internal/queue"
	"github.com/nakelabs/kasa-alert-connect/internal/repository"
)

// LedgerService applies delivery receipts and replies to alert logs and answers ledger queries
type LedgerService struct {
	repo      repository.LedgerRepository
	history   repository.HistoryRepository
	publisher queue.EventPublisher
	notifier  Notifier
	log       *zap.Logger
}

// NewLedgerService creates a new ledger service.
// history, publisher and notifier may be nil in processes that do not need them.
func NewLedgerService(repo repository.LedgerRepository, history repository.HistoryRepository, publisher queue.EventPublisher, notifier Notifier, log *zap.Logger) *LedgerService {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &LedgerService{
		repo:      repo,
		history:   history,
		publisher: publisher,
		notifier:  notifier,
		log:       log,
	}
}

// RecordDeliveryReceipt moves a log to delivered or failed. Receipts older than the
// last applied one are ignored, so replays and out-of-order arrivals are harmless.
func (s *LedgerService) RecordDeliveryReceipt(ctx context.Context, alertLogID string, status domain.LogStatus, timestamp time.Time, failedReason string) error {
	if !status.Terminal() {
		return domain.ErrInvalidStatus.WithMessage("receipt status %q is not delivered or failed", status)
	}
	if timestamp.IsZero() {
		timestamp = time.Now()
	}
	if err := domain.CheckEventTime(timestamp); err != nil {
		return err
	}

	log, applied, err := s.repo.ApplyReceipt(ctx, domain.DeliveryReceipt{
		AlertLogID:   alertLogID,
		Status:       status,
		FailedReason: strings.TrimSpace(failedReason),
		Timestamp:    timestamp,
	})
	if err != nil {
		return storeError(err, "apply delivery receipt")
	}

	if !applied {
		s.log.Debug("Stale delivery receipt ignored",
			zap.String("alert_log_id", alertLogID),
			zap.Time("timestamp", timestamp))
		return nil
	}

	s.log.Debug("Delivery receipt applied",
		zap.String("agency_id", log.AgencyID),
		zap.String("alert_log_id", alertLogID),
		zap.String("status", string(log.Status)))
	return nil
}

// RecordReply attaches reply text to a log without touching its delivery status
func (s *LedgerService) RecordReply(ctx context.Context, alertLogID, replyText string, timestamp time.Time) error {
	replyText = strings.TrimSpace(replyText)
	if replyText == "" {
		return domain.ErrInvalidEvent.WithMessage("reply text must not be empty")
	}
	if timestamp.IsZero() {
		timestamp = time.Now()
	}
	if err := domain.CheckEventTime(timestamp); err != nil {
		return err
	}

	_, applied, err := s.repo.ApplyReply(ctx, domain.Reply{
		AlertLogID: alertLogID,
		Text:       replyText,
		Timestamp:  timestamp,
	})
	if err != nil {
		return storeError(err, "apply reply")
	}

	s.log.Debug("Reply processed",
		zap.String("alert_log_id", alertLogID),
		zap.Bool("applied", applied))
	return nil
}

// Query returns one page of an agency's logs matching every set filter
func (s *LedgerService) Query(ctx context.Context, agencyID string, filter domain.LogFilter) ([]domain.AlertLog, int64, error) {
	if filter.Status == domain.LogStatusAll {
		filter.Status = ""
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, 0, domain.ErrInvalidStatus.WithMessage("unknown status %q (supported: pending, delivered, failed)", filter.Status)
	}
	if !filter.From.IsZero() && !filter.To.IsZero() && filter.From.After(filter.To) {
		return nil, 0, domain.ErrInvalidFilter.WithMessage("from must not be after to")
	}
	filter.Search = strings.TrimSpace(filter.Search)
	filter.Page = filter.Page.Normalize()

	logs, total, err := s.repo.QueryLogs(ctx, agencyID, filter)
	if err != nil {
		return nil, 0, storeError(err, "query alert logs")
	}
	return logs, total, nil
}

// History returns the recorded receipt and reply events of one of the agency's logs
func (s *LedgerService) History(ctx context.Context, agencyID, alertLogID string) ([]domain.DeliveryEvent, error) {
	log, err := s.repo.GetLog(ctx, alertLogID)
	if err != nil {
		return nil, storeError(err, "load alert log")
	}
	if log.AgencyID != agencyID {
		return nil, domain.ErrNotFound.WithMessage("alert log %s not found", alertLogID)
	}

	if s.history == nil {
		return []domain.DeliveryEvent{}, nil
	}

	events, err := s.history.ListByLog(ctx, agencyID, alertLogID)
	if err != nil {
		return nil, storeError(err, "load delivery history")
	}
	return events, nil
}

// Ingest accepts a gateway receipt or reply, resolves its owning alert and agency
// and publishes it for the ledger consumer
func (s *LedgerService) Ingest(ctx context.Context, event *domain.DeliveryEvent) error {
	switch event.Kind {
	case domain.EventKindReceipt:
		if !event.Status.Terminal() {
			return domain.ErrInvalidStatus.WithMessage("receipt status %q is not delivered or failed", event.Status)
		}
	case domain.EventKindReply:
		event.Reply = strings.TrimSpace(event.Reply)
		if event.Reply == "" {
			return domain.ErrInvalidEvent.WithMessage("reply text must not be empty")
		}
		event.Status = ""
	default:
		return domain.ErrInvalidEvent.WithMessage("unknown event kind %q", event.Kind)
	}
	if event.AlertLogID == "" {
		return domain.ErrInvalidEvent.WithMessage("alertLogId is required")
	}
	if !event.OccurredAt.IsZero() {
		if err := domain.CheckEventTime(event.OccurredAt); err != nil {
			return err
		}
	}

	log, err := s.repo.GetLog(ctx, event.AlertLogID)
	if err != nil {
		return storeError(err, "load alert log")
	}

	now := time.Now().UTC()
	if event.EventID == "" {
		event.EventID = uuid.NewString()
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = now
	}
	event.OccurredAt = event.OccurredAt.UTC()
	event.RecordedAt = now
	event.AlertID = log.AlertID
	event.AgencyID = log.AgencyID

	if err := s.publisher.PublishDeliveryEvent(ctx, event); err != nil {
		return storeError(err, "publish delivery event")
	}

	s.log.Info("Delivery event accepted",
		zap.String("agency_id", event.AgencyID),
		zap.String("alert_log_id", event.AlertLogID),
		zap.String("kind", string(event.Kind)))

	s.notifier.Notify(event.AgencyID, EventLogEventReceived, event)
	return nil
}

// Apply routes a queued event to RecordDeliveryReceipt or RecordReply
func (s *LedgerService) Apply(ctx context.Context, event *domain.DeliveryEvent) error {
	switch event.Kind {
	case domain.EventKindReceipt:
		return s.RecordDeliveryReceipt(ctx, event.AlertLogID, event.Status, event.OccurredAt, event.FailedReason)
	case domain.EventKindReply:
		return s.RecordReply(ctx, event.AlertLogID, event.Reply, event.OccurredAt)
	}
	return domain.ErrInvalidEvent.WithMessage("unknown event kind %q", event.Kind)
}
