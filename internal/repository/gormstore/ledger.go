package gormstore

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/nakelabs/kasa-alert-connect/internal/domain"
)

// ApplyReceipt moves a log to the receipt's terminal status unless a newer receipt was applied already
func (s *Store) ApplyReceipt(ctx context.Context, receipt domain.DeliveryReceipt) (*domain.AlertLog, bool, error) {
	ts := receipt.Timestamp.UTC()
	version := ts.UnixNano()

	updates := map[string]interface{}{
		"status":          receipt.Status,
		"receipt_version": version,
		"delivered_at":    nil,
		"failed_reason":   "",
	}
	switch receipt.Status {
	case domain.LogStatusDelivered:
		updates["delivered_at"] = ts
	case domain.LogStatusFailed:
		updates["failed_reason"] = receipt.FailedReason
	}

	return s.applyVersioned(ctx, receipt.AlertLogID, "receipt_version", version, updates)
}

// ApplyReply records reply text unless a newer reply was applied already; status is left alone
func (s *Store) ApplyReply(ctx context.Context, reply domain.Reply) (*domain.AlertLog, bool, error) {
	ts := reply.Timestamp.UTC()
	version := ts.UnixNano()

	return s.applyVersioned(ctx, reply.AlertLogID, "reply_version", version, map[string]interface{}{
		"reply":         reply.Text,
		"replied_at":    ts,
		"reply_version": version,
	})
}

// applyVersioned runs one conditional UPDATE guarded by versionColumn
func (s *Store) applyVersioned(ctx context.Context, id, versionColumn string, version int64, updates map[string]interface{}) (*domain.AlertLog, bool, error) {
	db := s.db.WithContext(ctx)

	res := db.Model(&domain.AlertLog{}).
		Where("id = ? AND "+versionColumn+" <= ?", id, version).
		Updates(updates)
	if res.Error != nil {
		return nil, false, fmt.Errorf("failed to update alert log: %w", res.Error)
	}

	log, err := s.GetLog(ctx, id)
	if err != nil {
		return nil, false, err
	}
	return log, res.RowsAffected > 0, nil
}

// GetLog loads one log row by ID
func (s *Store) GetLog(ctx context.Context, id string) (*domain.AlertLog, error) {
	var log domain.AlertLog
	err := s.db.WithContext(ctx).
		Model(&domain.AlertLog{}).
		Select("alert_logs.*, alerts.message AS message").
		Joins("JOIN alerts ON alerts.id = alert_logs.alert_id").
		Where("alert_logs.id = ?", id).
		Take(&log).Error
	if err != nil {
		if isNotFound(err) {
			return nil, domain.ErrNotFound.WithMessage("alert log %s not found", id)
		}
		return nil, fmt.Errorf("failed to get alert log: %w", err)
	}
	return &log, nil
}

// QueryLogs returns one page of an agency's logs, newest first, with the total match count.
// Search matches the alert message, the recipient phone and the reply text.
func (s *Store) QueryLogs(ctx context.Context, agencyID string, filter domain.LogFilter) ([]domain.AlertLog, int64, error) {
	base := func() *gorm.DB {
		q := s.db.WithContext(ctx).
			Model(&domain.AlertLog{}).
			Joins("JOIN alerts ON alerts.id = alert_logs.alert_id").
			Where("alert_logs.agency_id = ?", agencyID)
		if filter.Status != "" {
			q = q.Where("alert_logs.status = ?", filter.Status)
		}
		if filter.AlertID != "" {
			q = q.Where("alert_logs.alert_id = ?", filter.AlertID)
		}
		if !filter.From.IsZero() {
			q = q.Where("alert_logs.sent_at >= ?", filter.From.UTC())
		}
		if !filter.To.IsZero() {
			q = q.Where("alert_logs.sent_at <= ?", filter.To.UTC())
		}
		if filter.Search != "" {
			pattern := likePattern(filter.Search)
			q = q.Where(`(LOWER(alerts.message) LIKE ? ESCAPE '\'`+
				` OR LOWER(alert_logs.recipient) LIKE ? ESCAPE '\'`+
				` OR LOWER(COALESCE(alert_logs.reply, '')) LIKE ? ESCAPE '\')`,
				pattern, pattern, pattern)
		}
		return q
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count alert logs: %w", err)
	}

	var logs []domain.AlertLog
	q := base().
		Select("alert_logs.*, alerts.message AS message").
		Order("alert_logs.sent_at DESC").
		Order("alert_logs.id")
	if err := paginate(q, filter.Page).Find(&logs).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to query alert logs: %w", err)
	}

	return logs, total, nil
}
