package consumer

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/nakelabs/kasa-alert-connect/internal/domain"
	"github.com/nakelabs/kasa-alert-connect/internal/repository"
)

// LedgerWriterConfig configures the ledger writer
type LedgerWriterConfig struct {
	MaxBatchSize int
	FlushTimeout time.Duration
}

// LedgerWriter applies queued delivery events to the ledger in batches and
// appends the applied events to the history store
type LedgerWriter struct {
	applier EventApplier
	history repository.HistoryRepository
	config  LedgerWriterConfig
	log     *zap.Logger
}

// NewLedgerWriter creates a new ledger writer. history may be nil.
func NewLedgerWriter(applier EventApplier, history repository.HistoryRepository, config LedgerWriterConfig, log *zap.Logger) *LedgerWriter {
	if config.MaxBatchSize <= 0 {
		config.MaxBatchSize = 1
	}
	if config.FlushTimeout <= 0 {
		config.FlushTimeout = time.Second
	}
	return &LedgerWriter{
		applier: applier,
		history: history,
		config:  config,
		log:     log,
	}
}

// Start begins processing envelopes, batching, and writing to the ledger
func (w *LedgerWriter) Start(ctx context.Context, in <-chan *Envelope[*domain.DeliveryEvent]) {
	ticker := time.NewTicker(w.config.FlushTimeout)
	defer ticker.Stop()

	batch := make([]*Envelope[*domain.DeliveryEvent], 0, w.config.MaxBatchSize)

	for {
		select {
		case <-ctx.Done():
			w.log.Info("Ledger writer shutting down")
			if len(batch) > 0 {
				w.log.Info("Flushing final batch", zap.Int("envelope_count", len(batch)))
				w.processBatch(context.WithoutCancel(ctx), batch)
			}
			return

		case envelope, ok := <-in:
			if !ok {
				w.log.Info("Ledger writer input channel closed")
				if len(batch) > 0 {
					w.log.Info("Flushing final batch", zap.Int("envelope_count", len(batch)))
					w.processBatch(ctx, batch)
				}
				return
			}

			batch = append(batch, envelope)

			if len(batch) >= w.config.MaxBatchSize {
				w.log.Debug("Batch size threshold reached", zap.Int("batch_size", len(batch)))
				w.processBatch(ctx, batch)
				batch = make([]*Envelope[*domain.DeliveryEvent], 0, w.config.MaxBatchSize)
				ticker.Reset(w.config.FlushTimeout)
			}

		case <-ticker.C:
			if len(batch) > 0 {
				w.log.Debug("Batch timeout reached", zap.Int("envelope_count", len(batch)))
				w.processBatch(ctx, batch)
				batch = make([]*Envelope[*domain.DeliveryEvent], 0, w.config.MaxBatchSize)
			}
		}
	}
}

// processBatch applies each event, appends the applied ones to history, then acks.
// Events the ledger rejects for good are acked and dropped; retryable failures are nacked.
func (w *LedgerWriter) processBatch(ctx context.Context, envelopes []*Envelope[*domain.DeliveryEvent]) {
	applied := make([]*Envelope[*domain.DeliveryEvent], 0, len(envelopes))
	var dropped, retry []*Envelope[*domain.DeliveryEvent]

	for _, env := range envelopes {
		err := w.applier.Apply(ctx, env.Payload)
		switch {
		case err == nil:
			applied = append(applied, env)
		case permanent(err):
			w.log.Warn("Dropping delivery event rejected by the ledger",
				zap.String("message_id", env.MessageID),
				zap.String("alert_log_id", env.Payload.AlertLogID),
				zap.Error(err))
			dropped = append(dropped, env)
		default:
			w.log.Error("Failed to apply delivery event",
				zap.String("message_id", env.MessageID),
				zap.String("alert_log_id", env.Payload.AlertLogID),
				zap.Error(err))
			retry = append(retry, env)
		}
	}

	if len(applied) > 0 && w.history != nil {
		events := make([]*domain.DeliveryEvent, len(applied))
		for i, env := range applied {
			events[i] = env.Payload
		}

		inserted, err := w.history.InsertBatch(ctx, events)
		if err != nil || inserted != len(events) {
			// re-applying is harmless: the ledger update is last-write-wins and
			// history rows collapse on event_id
			w.log.Error("Failed to append delivery history",
				zap.Int("inserted", inserted),
				zap.Int("expected", len(events)),
				zap.Error(err))
			retry = append(retry, applied...)
			applied = nil
		}
	}

	w.ackAll(ctx, applied)
	w.ackAll(ctx, dropped)
	w.nackAll(ctx, retry)

	w.log.Info("Delivery events processed",
		zap.Int("applied", len(applied)),
		zap.Int("dropped", len(dropped)),
		zap.Int("retried", len(retry)))
}

// permanent reports whether redelivering the event could never succeed
func permanent(err error) bool {
	switch domain.KindOf(err) {
	case domain.KindValidation, domain.KindNotFound:
		return true
	}
	return false
}

// ackAll acknowledges all envelopes (deletes from SQS)
func (w *LedgerWriter) ackAll(ctx context.Context, envelopes []*Envelope[*domain.DeliveryEvent]) {
	for _, env := range envelopes {
		if err := env.Ack(ctx); err != nil {
			w.log.Error("Failed to ack envelope", zap.String("message_id", env.MessageID), zap.Error(err))
		}
	}
}

// nackAll returns all envelopes to the queue for retry
func (w *LedgerWriter) nackAll(ctx context.Context, envelopes []*Envelope[*domain.DeliveryEvent]) {
	for _, env := range envelopes {
		if err := env.Nack(ctx); err != nil {
			w.log.Error("Failed to nack envelope", zap.String("message_id", env.MessageID), zap.Error(err))
		}
	}
}
