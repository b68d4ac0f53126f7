package service

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nakelabs/kasa-alert-connect/internal/config"
	"github.com/nakelabs/kasa-alert-connect/internal/domain"
	"github.com/nakelabs/kasa-alert-connect/internal/queue"
	"github.com/nakelabs/kasa-alert-connect/internal/repository"
)

// SendRequest is an alert as composed by agency staff
type SendRequest struct {
	Message        string
	Selector       domain.Selector
	Location       string
	Priority       domain.Priority
	IdempotencyKey string
}

// DispatcherService fans alerts out to recipient snapshots and hands them to the outbound queue
type DispatcherService struct {
	alerts    repository.AlertRepository
	registry  RegistryServicer
	publisher queue.OutboundPublisher
	notifier  Notifier
	config    config.Dispatcher
	log       *zap.Logger
}

// NewDispatcherService creates a new dispatcher; notifier may be nil
func NewDispatcherService(alerts repository.AlertRepository, registry RegistryServicer, publisher queue.OutboundPublisher, notifier Notifier, cfg config.Dispatcher, log *zap.Logger) *DispatcherService {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	if cfg.MaxMessageLength <= 0 {
		cfg.MaxMessageLength = 160
	}
	if cfg.RelayBatchSize <= 0 {
		cfg.RelayBatchSize = 500
	}
	return &DispatcherService{
		alerts:    alerts,
		registry:  registry,
		publisher: publisher,
		notifier:  notifier,
		config:    cfg,
		log:       log,
	}
}

// Send validates the request, commits the alert with one pending log per resolved
// recipient, then enqueues the logs. An enqueue failure leaves the logs to the relay.
func (s *DispatcherService) Send(ctx context.Context, agencyID string, req SendRequest) (*domain.Alert, error) {
	alert, selection, err := s.validate(agencyID, req)
	if err != nil {
		return nil, err
	}

	logs, err := s.alerts.CreateAlertWithLogs(ctx, alert, selection)
	if err != nil {
		s.log.Warn("Alert fan-out rejected",
			zap.String("agency_id", agencyID),
			zap.String("selector", string(selection.Selector)),
			zap.Error(err))
		return nil, storeError(err, "create alert")
	}

	s.log.Info("Alert created",
		zap.String("agency_id", agencyID),
		zap.String("alert_id", alert.ID),
		zap.String("priority", string(alert.Priority)),
		zap.Int("recipients", alert.TotalRecipients))

	msgs := make([]domain.OutboundMessage, len(logs))
	for i, l := range logs {
		msgs[i] = outbound(alert, l)
	}
	s.enqueue(ctx, msgs)

	s.notifier.Notify(agencyID, EventAlertCreated, alert)

	return alert, nil
}

// List returns one page of alerts with derived delivery counts
func (s *DispatcherService) List(ctx context.Context, agencyID string, filter domain.AlertFilter) ([]domain.Alert, int64, error) {
	if filter.Priority != "" && !filter.Priority.Valid() {
		return nil, 0, domain.ErrInvalidPriority.WithMessage("unknown priority %q", filter.Priority)
	}
	if !filter.From.IsZero() && !filter.To.IsZero() && filter.From.After(filter.To) {
		return nil, 0, domain.ErrInvalidFilter.WithMessage("from must not be after to")
	}
	filter.Page = filter.Page.Normalize()

	alerts, total, err := s.alerts.ListAlerts(ctx, agencyID, filter)
	if err != nil {
		return nil, 0, storeError(err, "list alerts")
	}
	return alerts, total, nil
}

// RecipientCount previews the snapshot size a send would resolve to now
func (s *DispatcherService) RecipientCount(ctx context.Context, agencyID string, selection domain.RecipientSelection) (int64, error) {
	return s.registry.Count(ctx, agencyID, selection)
}

// RelayPending re-enqueues logs whose enqueue never succeeded
func (s *DispatcherService) RelayPending(ctx context.Context) (int, error) {
	olderThan := time.Now().UTC().Add(-s.config.RelayInterval)
	msgs, err := s.alerts.ListUnenqueued(ctx, olderThan, s.config.RelayBatchSize)
	if err != nil {
		return 0, storeError(err, "list unenqueued logs")
	}
	if len(msgs) == 0 {
		return 0, nil
	}

	sent := s.enqueue(ctx, msgs)
	s.log.Info("Outbox relay pass",
		zap.Int("pending", len(msgs)),
		zap.Int("enqueued", sent))
	return sent, nil
}

// RunRelay calls RelayPending every relay interval until ctx is done
func (s *DispatcherService) RunRelay(ctx context.Context) {
	interval := s.config.RelayInterval
	if interval <= 0 {
		interval = 30 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.log.Info("Outbox relay started", zap.Duration("interval", interval))

	for {
		select {
		case <-ctx.Done():
			s.log.Info("Outbox relay stopped")
			return
		case <-ticker.C:
			if _, err := s.RelayPending(ctx); err != nil {
				s.log.Error("Outbox relay pass failed", zap.Error(err))
			}
		}
	}
}

// enqueue publishes msgs and stamps the ones that reached the queue; it returns that count
func (s *DispatcherService) enqueue(ctx context.Context, msgs []domain.OutboundMessage) int {
	sent, err := s.publisher.EnqueueOutbound(ctx, msgs)
	if err != nil {
		s.log.Warn("Enqueue incomplete, relay will retry",
			zap.Int("requested", len(msgs)),
			zap.Int("sent", len(sent)),
			zap.Error(err))
	}
	if len(sent) == 0 {
		return 0
	}

	if err := s.alerts.MarkEnqueued(ctx, sent, time.Now().UTC()); err != nil {
		// The courier may receive these twice once the relay re-enqueues them.
		s.log.Error("Failed to mark logs enqueued",
			zap.Int("count", len(sent)),
			zap.Error(err))
	}
	return len(sent)
}

func (s *DispatcherService) validate(agencyID string, req SendRequest) (*domain.Alert, domain.RecipientSelection, error) {
	var selection domain.RecipientSelection

	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, selection, domain.ErrEmptyMessage
	}
	if n := utf8.RuneCountInString(message); n > s.config.MaxMessageLength {
		return nil, selection, domain.ErrMessageTooLong.WithMessage("message is %d characters, the limit is %d", n, s.config.MaxMessageLength)
	}

	priority := req.Priority
	if priority == "" {
		priority = domain.PriorityNormal
	}
	if !priority.Valid() {
		return nil, selection, domain.ErrInvalidPriority.WithMessage("unknown priority %q (supported: low, normal, high, critical)", req.Priority)
	}

	selection = domain.RecipientSelection{Selector: req.Selector, Location: domain.NormalizeLocation(req.Location)}
	if err := selection.Validate(); err != nil {
		return nil, selection, err
	}
	if selection.Selector == domain.SelectorAll {
		selection.Location = ""
	}

	alert := &domain.Alert{
		ID:       uuid.NewString(),
		AgencyID: agencyID,
		Message:  message,
		Priority: priority,
		Selector: selection.Selector,
		Location: selection.Location,
	}
	if key := strings.TrimSpace(req.IdempotencyKey); key != "" {
		alert.IdempotencyKey = &key
	}
	return alert, selection, nil
}

func outbound(alert *domain.Alert, l domain.AlertLog) domain.OutboundMessage {
	return domain.OutboundMessage{
		LogID:    l.ID,
		AlertID:  alert.ID,
		AgencyID: alert.AgencyID,
		Phone:    l.Recipient,
		Message:  alert.Message,
		Priority: alert.Priority,
	}
}
