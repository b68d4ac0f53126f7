package gormstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/nakelabs/kasa-alert-connect/internal/domain"
)

const logInsertBatchSize = 500

// CreateAlertWithLogs resolves the recipient snapshot and writes the alert with its
// pending logs in one transaction
func (s *Store) CreateAlertWithLogs(ctx context.Context, alert *domain.Alert, selection domain.RecipientSelection) ([]domain.AlertLog, error) {
	var logs []domain.AlertLog

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var recipients []domain.Recipient
		q := applySelection(tx.Model(&domain.Recipient{}), alert.AgencyID, selection)
		if err := q.Order("created_at").Order("id").Find(&recipients).Error; err != nil {
			return fmt.Errorf("failed to resolve recipients: %w", err)
		}
		if len(recipients) == 0 {
			return domain.ErrEmptyRecipientSet
		}

		now := time.Now().UTC()
		if alert.ID == "" {
			alert.ID = uuid.NewString()
		}
		alert.CreatedAt = now
		alert.TotalRecipients = len(recipients)

		if err := tx.Create(alert).Error; err != nil {
			if isDuplicate(err) {
				return domain.ErrDuplicateAlert
			}
			return fmt.Errorf("failed to create alert: %w", err)
		}

		logs = make([]domain.AlertLog, 0, len(recipients))
		for _, r := range recipients {
			logs = append(logs, domain.AlertLog{
				ID:          uuid.NewString(),
				AlertID:     alert.ID,
				AgencyID:    alert.AgencyID,
				RecipientID: r.ID,
				Recipient:   r.Phone,
				Status:      domain.LogStatusPending,
				SentAt:      now,
				Message:     alert.Message,
			})
		}

		if err := tx.CreateInBatches(&logs, logInsertBatchSize).Error; err != nil {
			return fmt.Errorf("failed to create alert logs: %w", err)
		}
		return nil
	})
	if err != nil {
		logs = nil
		var derr *domain.Error
		if errors.As(err, &derr) {
			return nil, err
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, domain.ErrTimeout.Wrap(err)
		}
		return nil, domain.ErrTransaction.Wrap(err)
	}

	alert.PendingCount = len(logs)
	s.log.Debug("Alert fan-out committed",
		zap.String("agency_id", alert.AgencyID),
		zap.String("alert_id", alert.ID),
		zap.Int("recipients", len(logs)))

	return logs, nil
}

// ListAlerts returns one page of alerts, newest first, with delivery counts derived from the ledger
func (s *Store) ListAlerts(ctx context.Context, agencyID string, filter domain.AlertFilter) ([]domain.Alert, int64, error) {
	base := func() *gorm.DB {
		q := s.db.WithContext(ctx).Model(&domain.Alert{}).Where("agency_id = ?", agencyID)
		if filter.Priority != "" {
			q = q.Where("priority = ?", filter.Priority)
		}
		if !filter.From.IsZero() {
			q = q.Where("created_at >= ?", filter.From.UTC())
		}
		if !filter.To.IsZero() {
			q = q.Where("created_at <= ?", filter.To.UTC())
		}
		return q
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count alerts: %w", err)
	}

	var alerts []domain.Alert
	if err := paginate(base().Order("created_at DESC").Order("id"), filter.Page).Find(&alerts).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list alerts: %w", err)
	}
	if len(alerts) == 0 {
		return alerts, total, nil
	}

	ids := make([]string, len(alerts))
	for i, a := range alerts {
		ids[i] = a.ID
	}

	var counts []domain.AlertCounts
	err := s.db.WithContext(ctx).
		Model(&domain.AlertLog{}).
		Select(`alert_id,
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS delivered,
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS failed,
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS pending`,
			domain.LogStatusDelivered, domain.LogStatusFailed, domain.LogStatusPending).
		Where("agency_id = ? AND alert_id IN ?", agencyID, ids).
		Group("alert_id").
		Scan(&counts).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to aggregate alert counts: %w", err)
	}

	byAlert := make(map[string]domain.AlertCounts, len(counts))
	for _, c := range counts {
		byAlert[c.AlertID] = c
	}
	for i := range alerts {
		c := byAlert[alerts[i].ID]
		alerts[i].DeliveredCount = c.Delivered
		alerts[i].FailedCount = c.Failed
		alerts[i].PendingCount = c.Pending
	}

	return alerts, total, nil
}

// MarkEnqueued stamps logs as handed to the outbound queue
func (s *Store) MarkEnqueued(ctx context.Context, logIDs []string, at time.Time) error {
	if len(logIDs) == 0 {
		return nil
	}
	err := s.db.WithContext(ctx).
		Model(&domain.AlertLog{}).
		Where("id IN ?", logIDs).
		Update("enqueued_at", at.UTC()).Error
	if err != nil {
		return fmt.Errorf("failed to mark logs enqueued: %w", err)
	}
	return nil
}

// ListUnenqueued returns pending logs that never reached the outbound queue, oldest first
func (s *Store) ListUnenqueued(ctx context.Context, olderThan time.Time, limit int) ([]domain.OutboundMessage, error) {
	var messages []domain.OutboundMessage
	err := s.db.WithContext(ctx).
		Table("alert_logs").
		Select(`alert_logs.id AS log_id,
			alert_logs.alert_id AS alert_id,
			alert_logs.agency_id AS agency_id,
			alert_logs.recipient AS phone,
			alerts.message AS message,
			alerts.priority AS priority`).
		Joins("JOIN alerts ON alerts.id = alert_logs.alert_id").
		Where("alert_logs.enqueued_at IS NULL AND alert_logs.status = ? AND alert_logs.sent_at < ?",
			domain.LogStatusPending, olderThan.UTC()).
		Order("alert_logs.sent_at").
		Limit(limit).
		Scan(&messages).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list unenqueued logs: %w", err)
	}
	return messages, nil
}
