package gormstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/nakelabs/kasa-alert-connect/internal/domain"
)

// CountStats reads the dashboard aggregates for alerts created at or after since.
// A zero since covers all time.
func (s *Store) CountStats(ctx context.Context, agencyID string, since time.Time) (*domain.StatsCounts, error) {
	counts := &domain.StatsCounts{}

	read := func(tx *gorm.DB) error {
		if err := tx.Model(&domain.Recipient{}).
			Where("agency_id = ? AND active = ?", agencyID, true).
			Count(&counts.ActiveRecipients).Error; err != nil {
			return fmt.Errorf("failed to count recipients: %w", err)
		}

		alerts := tx.Model(&domain.Alert{}).Where("agency_id = ?", agencyID)
		if !since.IsZero() {
			alerts = alerts.Where("created_at >= ?", since.UTC())
		}
		if err := alerts.Count(&counts.Alerts).Error; err != nil {
			return fmt.Errorf("failed to count alerts: %w", err)
		}

		logs := tx.Model(&domain.AlertLog{}).
			Select(`COUNT(*) AS logs,
				COALESCE(SUM(CASE WHEN alert_logs.status = ? THEN 1 ELSE 0 END), 0) AS delivered,
				COALESCE(SUM(CASE WHEN alert_logs.reply IS NOT NULL THEN 1 ELSE 0 END), 0) AS replies`,
				domain.LogStatusDelivered).
			Joins("JOIN alerts ON alerts.id = alert_logs.alert_id").
			Where("alert_logs.agency_id = ?", agencyID)
		if !since.IsZero() {
			logs = logs.Where("alerts.created_at >= ?", since.UTC())
		}
		var agg struct {
			Logs      int64
			Delivered int64
			Replies   int64
		}
		if err := logs.Scan(&agg).Error; err != nil {
			return fmt.Errorf("failed to aggregate alert logs: %w", err)
		}
		counts.Logs = agg.Logs
		counts.Delivered = agg.Delivered
		counts.Replies = agg.Replies
		return nil
	}

	db := s.db.WithContext(ctx)
	if s.driver != DriverPostgres {
		if err := read(db); err != nil {
			return nil, err
		}
		return counts, nil
	}

	// One snapshot for all three reads.
	err := db.Transaction(read, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	if err != nil {
		return nil, err
	}
	return counts, nil
}
