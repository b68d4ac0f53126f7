package service

import (
	"context"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/nakelabs/kasa-alert-connect/internal/domain"
	"github.com/nakelabs/kasa-alert-connect/internal/repository"
)

// StatsService derives dashboard statistics from the registry and the ledger on every call
type StatsService struct {
	repo repository.StatsRepository
	log  *zap.Logger
	now  func() time.Time
}

// NewStatsService creates a new stats service
func NewStatsService(repo repository.StatsRepository, log *zap.Logger) *StatsService {
	return &StatsService{
		repo: repo,
		log:  log,
		now:  time.Now,
	}
}

// Compute returns the dashboard figures for period
func (s *StatsService) Compute(ctx context.Context, agencyID string, period domain.Period) (*domain.DashboardStats, error) {
	if period == "" {
		period = domain.PeriodAll
	}
	if _, err := domain.ParsePeriod(string(period)); err != nil {
		return nil, err
	}

	counts, err := s.repo.CountStats(ctx, agencyID, period.Since(s.now()))
	if err != nil {
		return nil, storeError(err, "compute stats")
	}

	stats := &domain.DashboardStats{
		TotalUsers:      counts.ActiveRecipients,
		AlertsSent:      counts.Alerts,
		RepliesReceived: counts.Replies,
		DeliveryRate:    deliveryRate(counts.Delivered, counts.Logs),
		Period:          period,
	}

	s.log.Debug("Stats computed",
		zap.String("agency_id", agencyID),
		zap.String("period", string(period)),
		zap.Int64("alerts", stats.AlertsSent))

	return stats, nil
}

// deliveryRate is delivered/total as a percentage rounded to one decimal, 0 when total is 0
func deliveryRate(delivered, total int64) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(delivered)*1000/float64(total)) / 10
}
