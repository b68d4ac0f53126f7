package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"go.uber.org/zap"

	"github.com/nakelabs/kasa-alert-connect/internal/domain"
)

// Repository implements repository.HistoryRepository for ClickHouse
type Repository struct {
	client *Client
	log    *zap.Logger
}

// NewRepository creates a new ClickHouse history repository
func NewRepository(client *Client, log *zap.Logger) *Repository {
	return &Repository{
		client: client,
		log:    log,
	}
}

// InitSchema creates the delivery_events table.
// Redelivered queue messages carry the same event_id, and ReplacingMergeTree collapses them.
func (r *Repository) InitSchema(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS delivery_events (
		event_id String,
		kind LowCardinality(String),
		alert_log_id String,
		alert_id String,
		agency_id String,
		status LowCardinality(String),
		failed_reason String,
		reply String,
		occurred_at DateTime64(3, 'UTC'),
		recorded_at DateTime64(3, 'UTC') DEFAULT now64(3),
		version UInt64
	) ENGINE = ReplacingMergeTree(version)
	PARTITION BY toYYYYMM(occurred_at)
	ORDER BY (agency_id, alert_log_id, event_id)
	SETTINGS index_granularity = 8192
	`

	if err := r.client.Conn().Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create delivery_events table: %w", err)
	}

	r.log.Info("ClickHouse schema initialized successfully")
	return nil
}

// InsertBatch appends delivery events in one batch
func (r *Repository) InsertBatch(ctx context.Context, events []*domain.DeliveryEvent) (int, error) {
	if len(events) == 0 {
		return 0, nil
	}

	batch, err := r.client.Conn().PrepareBatch(ctx, "INSERT INTO delivery_events")
	if err != nil {
		return 0, fmt.Errorf("failed to prepare batch: %w", err)
	}

	now := time.Now().UTC()
	insertedCount := 0
	for _, event := range events {
		if event.Version == 0 {
			event.Version = uint64(now.UnixNano())
		}
		if event.RecordedAt.IsZero() {
			event.RecordedAt = now
		}

		err := batch.Append(
			event.EventID,
			string(event.Kind),
			event.AlertLogID,
			event.AlertID,
			event.AgencyID,
			string(event.Status),
			event.FailedReason,
			event.Reply,
			event.OccurredAt.UTC(),
			event.RecordedAt,
			event.Version,
		)
		if err != nil {
			return 0, fmt.Errorf("failed to append event to batch: %w", err)
		}
		insertedCount++
	}

	if err := batch.Send(); err != nil {
		return 0, fmt.Errorf("failed to send batch: %w", err)
	}

	return insertedCount, nil
}

// ListByLog returns the history of one log row, oldest first
func (r *Repository) ListByLog(ctx context.Context, agencyID, alertLogID string) ([]domain.DeliveryEvent, error) {
	query := `
		SELECT
			event_id, kind, alert_log_id, alert_id, agency_id,
			status, failed_reason, reply, occurred_at, recorded_at, version
		FROM delivery_events FINAL
		WHERE agency_id = ? AND alert_log_id = ?
		ORDER BY occurred_at ASC, recorded_at ASC
	`

	rows, err := r.client.Conn().Query(ctx, query, agencyID, alertLogID)
	if err != nil {
		return nil, fmt.Errorf("failed to query delivery events: %w", err)
	}
	defer func(rows driver.Rows) {
		if err := rows.Close(); err != nil {
			r.log.Error("Failed to close delivery event rows", zap.Error(err))
		}
	}(rows)

	events := []domain.DeliveryEvent{}
	for rows.Next() {
		var (
			event        domain.DeliveryEvent
			kind, status string
		)
		err := rows.Scan(
			&event.EventID, &kind, &event.AlertLogID, &event.AlertID, &event.AgencyID,
			&status, &event.FailedReason, &event.Reply, &event.OccurredAt, &event.RecordedAt, &event.Version,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan delivery event row: %w", err)
		}
		event.Kind = domain.EventKind(kind)
		event.Status = domain.LogStatus(status)
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating delivery event rows: %w", err)
	}

	return events, nil
}

// Ping checks if the ClickHouse connection is alive
func (r *Repository) Ping(ctx context.Context) error {
	return r.client.Conn().Ping(ctx)
}

// Close closes the ClickHouse connection
func (r *Repository) Close() error {
	return r.client.Close()
}
