package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nakelabs/kasa-alert-connect/internal/config"
	"github.com/nakelabs/kasa-alert-connect/internal/domain"
)

var testDispatcherConfig = config.Dispatcher{
	MaxMessageLength: 160,
	RelayInterval:    30 * time.Second,
	RelayBatchSize:   100,
}

type dispatcherMocks struct {
	alerts    *MockAlertRepository
	registry  *MockRegistry
	publisher *MockOutboundPublisher
	notifier  *MockNotifier
}

func newTestDispatcher() (*DispatcherService, *dispatcherMocks) {
	m := &dispatcherMocks{
		alerts:    new(MockAlertRepository),
		registry:  new(MockRegistry),
		publisher: new(MockOutboundPublisher),
		notifier:  new(MockNotifier),
	}
	return NewDispatcherService(m.alerts, m.registry, m.publisher, m.notifier, testDispatcherConfig, zap.NewNop()), m
}

func pendingLogs(n int) []domain.AlertLog {
	logs := make([]domain.AlertLog, n)
	for i := range logs {
		logs[i] = domain.AlertLog{
			ID:        fmt.Sprintf("log-%d", i),
			Recipient: fmt.Sprintf("+1555123000%d", i),
			Status:    domain.LogStatusPending,
		}
	}
	return logs
}

func logIDs(logs []domain.AlertLog) []string {
	ids := make([]string, len(logs))
	for i, l := range logs {
		ids[i] = l.ID
	}
	return ids
}

func TestDispatcherService_Send_FansOutAndEnqueues(t *testing.T) {
	service, m := newTestDispatcher()
	logs := pendingLogs(5)

	m.alerts.On("CreateAlertWithLogs", mock.Anything, mock.AnythingOfType("*domain.Alert"), domain.RecipientSelection{Selector: domain.SelectorAll}).
		Run(func(args mock.Arguments) {
			args.Get(1).(*domain.Alert).TotalRecipients = 5
		}).
		Return(logs, nil)
	m.publisher.On("EnqueueOutbound", mock.Anything, mock.MatchedBy(func(msgs []domain.OutboundMessage) bool {
		return len(msgs) == 5 && msgs[0].Message == "Evacuate now" && msgs[0].Priority == domain.PriorityCritical
	})).Return(logIDs(logs), nil)
	m.alerts.On("MarkEnqueued", mock.Anything, logIDs(logs), mock.AnythingOfType("time.Time")).Return(nil)
	m.notifier.On("Notify", testAgencyID, EventAlertCreated, mock.AnythingOfType("*domain.Alert")).Return()

	alert, err := service.Send(context.Background(), testAgencyID, SendRequest{
		Message:  "  Evacuate now ",
		Selector: domain.SelectorAll,
		Priority: domain.PriorityCritical,
	})

	require.NoError(t, err)
	assert.Equal(t, 5, alert.TotalRecipients)
	assert.Equal(t, "Evacuate now", alert.Message)
	assert.Equal(t, testAgencyID, alert.AgencyID)
	assert.Nil(t, alert.IdempotencyKey)
	m.alerts.AssertExpectations(t)
	m.publisher.AssertExpectations(t)
	m.notifier.AssertExpectations(t)
}

func TestDispatcherService_Send_Validation(t *testing.T) {
	tests := []struct {
		name     string
		req      SendRequest
		expected error
	}{
		{"empty message", SendRequest{Message: "   ", Selector: domain.SelectorAll}, domain.ErrEmptyMessage},
		{"too long", SendRequest{Message: strings.Repeat("a", 161), Selector: domain.SelectorAll}, domain.ErrMessageTooLong},
		{"unknown priority", SendRequest{Message: "hi", Selector: domain.SelectorAll, Priority: "urgent"}, domain.ErrInvalidPriority},
		{"unknown selector", SendRequest{Message: "hi", Selector: "nearby"}, domain.ErrInvalidSelector},
		{"location without location", SendRequest{Message: "hi", Selector: domain.SelectorLocation}, domain.ErrMissingLocation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, m := newTestDispatcher()

			_, err := service.Send(context.Background(), testAgencyID, tt.req)

			assert.ErrorIs(t, err, tt.expected)
			assert.Equal(t, domain.KindValidation, domain.KindOf(err))
			m.alerts.AssertNotCalled(t, "CreateAlertWithLogs", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestDispatcherService_Send_CountsRunes(t *testing.T) {
	service, m := newTestDispatcher()

	m.alerts.On("CreateAlertWithLogs", mock.Anything, mock.Anything, mock.Anything).Return(pendingLogs(1), nil)
	m.publisher.On("EnqueueOutbound", mock.Anything, mock.Anything).Return([]string{"log-0"}, nil)
	m.alerts.On("MarkEnqueued", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	m.notifier.On("Notify", mock.Anything, mock.Anything, mock.Anything).Return()

	// 160 two-byte characters fit the limit
	_, err := service.Send(context.Background(), testAgencyID, SendRequest{
		Message:  strings.Repeat("é", 160),
		Selector: domain.SelectorAll,
	})

	assert.NoError(t, err)
}

func TestDispatcherService_Send_DefaultsAndSelection(t *testing.T) {
	service, m := newTestDispatcher()

	var created *domain.Alert
	m.alerts.On("CreateAlertWithLogs", mock.Anything, mock.Anything,
		domain.RecipientSelection{Selector: domain.SelectorPriority, Location: "north"}).
		Run(func(args mock.Arguments) { created = args.Get(1).(*domain.Alert) }).
		Return(pendingLogs(1), nil)
	m.publisher.On("EnqueueOutbound", mock.Anything, mock.Anything).Return([]string{"log-0"}, nil)
	m.alerts.On("MarkEnqueued", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	m.notifier.On("Notify", mock.Anything, mock.Anything, mock.Anything).Return()

	_, err := service.Send(context.Background(), testAgencyID, SendRequest{
		Message:        "Check in",
		Selector:       domain.SelectorPriority,
		Location:       " North ",
		IdempotencyKey: "key-1",
	})

	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, domain.PriorityNormal, created.Priority)
	assert.Equal(t, "north", created.Location)
	require.NotNil(t, created.IdempotencyKey)
	assert.Equal(t, "key-1", *created.IdempotencyKey)
}

func TestDispatcherService_Send_EmptyRecipientSet(t *testing.T) {
	service, m := newTestDispatcher()

	m.alerts.On("CreateAlertWithLogs", mock.Anything, mock.Anything, mock.Anything).Return(nil, domain.ErrEmptyRecipientSet)

	alert, err := service.Send(context.Background(), testAgencyID, SendRequest{Message: "hi", Selector: domain.SelectorAll})

	assert.Nil(t, alert)
	assert.ErrorIs(t, err, domain.ErrEmptyRecipientSet)
	m.publisher.AssertNotCalled(t, "EnqueueOutbound", mock.Anything, mock.Anything)
	m.notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything, mock.Anything)
}

func TestDispatcherService_Send_TransactionFailure(t *testing.T) {
	service, m := newTestDispatcher()

	m.alerts.On("CreateAlertWithLogs", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, domain.ErrTransaction.Wrap(errors.New("disk full")))

	_, err := service.Send(context.Background(), testAgencyID, SendRequest{Message: "hi", Selector: domain.SelectorAll})

	assert.ErrorIs(t, err, domain.ErrTransaction)
	var derr *domain.Error
	require.ErrorAs(t, err, &derr)
	assert.True(t, derr.Retryable())
}

func TestDispatcherService_Send_EnqueueFailureStillSucceeds(t *testing.T) {
	service, m := newTestDispatcher()
	logs := pendingLogs(3)

	m.alerts.On("CreateAlertWithLogs", mock.Anything, mock.Anything, mock.Anything).Return(logs, nil)
	m.publisher.On("EnqueueOutbound", mock.Anything, mock.Anything).Return([]string{}, errors.New("queue down"))
	m.notifier.On("Notify", mock.Anything, mock.Anything, mock.Anything).Return()

	alert, err := service.Send(context.Background(), testAgencyID, SendRequest{Message: "hi", Selector: domain.SelectorAll})

	require.NoError(t, err)
	assert.NotNil(t, alert)
	m.alerts.AssertNotCalled(t, "MarkEnqueued", mock.Anything, mock.Anything, mock.Anything)
}

func TestDispatcherService_Send_PartialEnqueue(t *testing.T) {
	service, m := newTestDispatcher()
	logs := pendingLogs(3)

	m.alerts.On("CreateAlertWithLogs", mock.Anything, mock.Anything, mock.Anything).Return(logs, nil)
	m.publisher.On("EnqueueOutbound", mock.Anything, mock.Anything).Return([]string{"log-0", "log-1"}, errors.New("batch failed"))
	m.alerts.On("MarkEnqueued", mock.Anything, []string{"log-0", "log-1"}, mock.Anything).Return(nil)
	m.notifier.On("Notify", mock.Anything, mock.Anything, mock.Anything).Return()

	_, err := service.Send(context.Background(), testAgencyID, SendRequest{Message: "hi", Selector: domain.SelectorAll})

	require.NoError(t, err)
	m.alerts.AssertExpectations(t)
}

func TestDispatcherService_RelayPending(t *testing.T) {
	service, m := newTestDispatcher()

	msgs := []domain.OutboundMessage{{LogID: "log-7"}, {LogID: "log-8"}}
	m.alerts.On("ListUnenqueued", mock.Anything, mock.MatchedBy(func(olderThan time.Time) bool {
		return time.Since(olderThan) >= testDispatcherConfig.RelayInterval
	}), 100).Return(msgs, nil)
	m.publisher.On("EnqueueOutbound", mock.Anything, msgs).Return([]string{"log-7", "log-8"}, nil)
	m.alerts.On("MarkEnqueued", mock.Anything, []string{"log-7", "log-8"}, mock.Anything).Return(nil)

	sent, err := service.RelayPending(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, sent)
	m.alerts.AssertExpectations(t)
}

func TestDispatcherService_RelayPending_Nothing(t *testing.T) {
	service, m := newTestDispatcher()

	m.alerts.On("ListUnenqueued", mock.Anything, mock.Anything, mock.Anything).Return([]domain.OutboundMessage{}, nil)

	sent, err := service.RelayPending(context.Background())

	require.NoError(t, err)
	assert.Zero(t, sent)
	m.publisher.AssertNotCalled(t, "EnqueueOutbound", mock.Anything, mock.Anything)
}

func TestDispatcherService_List(t *testing.T) {
	service, m := newTestDispatcher()

	alerts := []domain.Alert{{ID: "a1"}}
	m.alerts.On("ListAlerts", mock.Anything, testAgencyID, mock.MatchedBy(func(f domain.AlertFilter) bool {
		return f.Page.Number == 1 && f.Page.Limit == domain.DefaultPageLimit && f.Priority == domain.PriorityHigh
	})).Return(alerts, int64(1), nil)

	got, total, err := service.List(context.Background(), testAgencyID, domain.AlertFilter{Priority: domain.PriorityHigh})
	require.NoError(t, err)
	assert.Equal(t, alerts, got)
	assert.Equal(t, int64(1), total)

	_, _, err = service.List(context.Background(), testAgencyID, domain.AlertFilter{Priority: "urgent"})
	assert.ErrorIs(t, err, domain.ErrInvalidPriority)

	now := time.Now()
	_, _, err = service.List(context.Background(), testAgencyID, domain.AlertFilter{From: now, To: now.Add(-time.Hour)})
	assert.ErrorIs(t, err, domain.ErrInvalidFilter)
}

func TestDispatcherService_RecipientCount(t *testing.T) {
	service, m := newTestDispatcher()

	selection := domain.RecipientSelection{Selector: domain.SelectorAll}
	m.registry.On("Count", mock.Anything, testAgencyID, selection).Return(int64(12), nil)

	count, err := service.RecipientCount(context.Background(), testAgencyID, selection)

	require.NoError(t, err)
	assert.Equal(t, int64(12), count)
}
