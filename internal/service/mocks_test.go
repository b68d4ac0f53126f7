package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/nakelabs/kasa-alert-connect/internal/domain"
)

// MockAgencyRepository is a mock implementation of repository.AgencyRepository
type MockAgencyRepository struct {
	mock.Mock
}

func (m *MockAgencyRepository) CreateAgency(ctx context.Context, agency *domain.Agency) error {
	args := m.Called(ctx, agency)
	return args.Error(0)
}

func (m *MockAgencyRepository) GetAgency(ctx context.Context, id string) (*domain.Agency, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Agency), args.Error(1)
}

func (m *MockAgencyRepository) GetAgencyByEmail(ctx context.Context, email string) (*domain.Agency, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Agency), args.Error(1)
}

func (m *MockAgencyRepository) ListAgencies(ctx context.Context) ([]domain.Agency, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Agency), args.Error(1)
}

func (m *MockAgencyRepository) RevokeToken(ctx context.Context, token *domain.RevokedToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockAgencyRepository) IsTokenRevoked(ctx context.Context, jti string) (bool, error) {
	args := m.Called(ctx, jti)
	return args.Bool(0), args.Error(1)
}

// MockRecipientRepository is a mock implementation of repository.RecipientRepository
type MockRecipientRepository struct {
	mock.Mock
}

func (m *MockRecipientRepository) ListRecipients(ctx context.Context, agencyID string, filter domain.RecipientFilter) ([]domain.Recipient, int64, error) {
	args := m.Called(ctx, agencyID, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Recipient), args.Get(1).(int64), args.Error(2)
}

func (m *MockRecipientRepository) InsertRecipient(ctx context.Context, recipient *domain.Recipient) (*domain.Recipient, error) {
	args := m.Called(ctx, recipient)
	if fn, ok := args.Get(0).(func(context.Context, *domain.Recipient) *domain.Recipient); ok {
		return fn(ctx, recipient), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Recipient), args.Error(1)
}

func (m *MockRecipientRepository) RemoveRecipient(ctx context.Context, agencyID, id string) (bool, error) {
	args := m.Called(ctx, agencyID, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockRecipientRepository) CountRecipients(ctx context.Context, agencyID string, selection domain.RecipientSelection) (int64, error) {
	args := m.Called(ctx, agencyID, selection)
	return args.Get(0).(int64), args.Error(1)
}

// MockAlertRepository is a mock implementation of repository.AlertRepository
type MockAlertRepository struct {
	mock.Mock
}

func (m *MockAlertRepository) CreateAlertWithLogs(ctx context.Context, alert *domain.Alert, selection domain.RecipientSelection) ([]domain.AlertLog, error) {
	args := m.Called(ctx, alert, selection)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AlertLog), args.Error(1)
}

func (m *MockAlertRepository) ListAlerts(ctx context.Context, agencyID string, filter domain.AlertFilter) ([]domain.Alert, int64, error) {
	args := m.Called(ctx, agencyID, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Alert), args.Get(1).(int64), args.Error(2)
}

func (m *MockAlertRepository) MarkEnqueued(ctx context.Context, logIDs []string, at time.Time) error {
	args := m.Called(ctx, logIDs, at)
	return args.Error(0)
}

func (m *MockAlertRepository) ListUnenqueued(ctx context.Context, olderThan time.Time, limit int) ([]domain.OutboundMessage, error) {
	args := m.Called(ctx, olderThan, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.OutboundMessage), args.Error(1)
}

// MockLedgerRepository is a mock implementation of repository.LedgerRepository
type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) ApplyReceipt(ctx context.Context, receipt domain.DeliveryReceipt) (*domain.AlertLog, bool, error) {
	args := m.Called(ctx, receipt)
	if args.Get(0) == nil {
		return nil, false, args.Error(2)
	}
	return args.Get(0).(*domain.AlertLog), args.Bool(1), args.Error(2)
}

func (m *MockLedgerRepository) ApplyReply(ctx context.Context, reply domain.Reply) (*domain.AlertLog, bool, error) {
	args := m.Called(ctx, reply)
	if args.Get(0) == nil {
		return nil, false, args.Error(2)
	}
	return args.Get(0).(*domain.AlertLog), args.Bool(1), args.Error(2)
}

func (m *MockLedgerRepository) GetLog(ctx context.Context, id string) (*domain.AlertLog, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AlertLog), args.Error(1)
}

func (m *MockLedgerRepository) QueryLogs(ctx context.Context, agencyID string, filter domain.LogFilter) ([]domain.AlertLog, int64, error) {
	args := m.Called(ctx, agencyID, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.AlertLog), args.Get(1).(int64), args.Error(2)
}

// MockHistoryRepository is a mock implementation of repository.HistoryRepository
type MockHistoryRepository struct {
	mock.Mock
}

func (m *MockHistoryRepository) InitSchema(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockHistoryRepository) InsertBatch(ctx context.Context, events []*domain.DeliveryEvent) (int, error) {
	args := m.Called(ctx, events)
	return args.Int(0), args.Error(1)
}

func (m *MockHistoryRepository) ListByLog(ctx context.Context, agencyID, alertLogID string) ([]domain.DeliveryEvent, error) {
	args := m.Called(ctx, agencyID, alertLogID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DeliveryEvent), args.Error(1)
}

func (m *MockHistoryRepository) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockHistoryRepository) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockStatsRepository is a mock implementation of repository.StatsRepository
type MockStatsRepository struct {
	mock.Mock
}

func (m *MockStatsRepository) CountStats(ctx context.Context, agencyID string, since time.Time) (*domain.StatsCounts, error) {
	args := m.Called(ctx, agencyID, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StatsCounts), args.Error(1)
}

// MockOutboundPublisher is a mock implementation of queue.OutboundPublisher
type MockOutboundPublisher struct {
	mock.Mock
}

func (m *MockOutboundPublisher) EnqueueOutbound(ctx context.Context, msgs []domain.OutboundMessage) ([]string, error) {
	args := m.Called(ctx, msgs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockEventPublisher is a mock implementation of queue.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishDeliveryEvent(ctx context.Context, event *domain.DeliveryEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// MockNotifier is a mock implementation of Notifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(agencyID, eventType string, payload interface{}) {
	m.Called(agencyID, eventType, payload)
}

// MockArchiver is a mock implementation of Archiver
type MockArchiver struct {
	mock.Mock
}

func (m *MockArchiver) Archive(ctx context.Context, key, contentType string, data []byte) error {
	args := m.Called(ctx, key, contentType, data)
	return args.Error(0)
}

// MockRegistry is a mock implementation of RegistryServicer
type MockRegistry struct {
	mock.Mock
}

func (m *MockRegistry) List(ctx context.Context, agencyID string, filter domain.RecipientFilter) ([]domain.Recipient, int64, error) {
	args := m.Called(ctx, agencyID, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Recipient), args.Get(1).(int64), args.Error(2)
}

func (m *MockRegistry) Add(ctx context.Context, agencyID string, input RecipientInput) (*domain.Recipient, error) {
	args := m.Called(ctx, agencyID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Recipient), args.Error(1)
}

func (m *MockRegistry) BulkImport(ctx context.Context, agencyID, filename string, data []byte) (*domain.ImportResult, error) {
	args := m.Called(ctx, agencyID, filename, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ImportResult), args.Error(1)
}

func (m *MockRegistry) Remove(ctx context.Context, agencyID, id string) error {
	args := m.Called(ctx, agencyID, id)
	return args.Error(0)
}

func (m *MockRegistry) Count(ctx context.Context, agencyID string, selection domain.RecipientSelection) (int64, error) {
	args := m.Called(ctx, agencyID, selection)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRegistry) Template() []byte {
	args := m.Called()
	return args.Get(0).([]byte)
}
