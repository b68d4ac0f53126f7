package gormstore

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nakelabs/kasa-alert-connect/internal/config"
	"github.com/nakelabs/kasa-alert-connect/internal/domain"
)

const (
	agencyA = "agency-a"
	agencyB = "agency-b"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(config.Store{Driver: DriverSQLite, DSN: ":memory:"}, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, store.Migrate(context.Background()))

	t.Cleanup(func() { _ = store.Close() })
	return store
}

func addRecipient(t *testing.T, s *Store, agencyID, name, phone, location string, priority bool) *domain.Recipient {
	t.Helper()

	r, err := s.InsertRecipient(context.Background(), &domain.Recipient{
		AgencyID: agencyID,
		Name:     name,
		Phone:    phone,
		Location: location,
		Priority: priority,
	})
	require.NoError(t, err)
	return r
}

func sendAlert(t *testing.T, s *Store, agencyID, message string, selection domain.RecipientSelection) (*domain.Alert, []domain.AlertLog) {
	t.Helper()

	alert := &domain.Alert{
		AgencyID: agencyID,
		Message:  message,
		Priority: domain.PriorityHigh,
		Selector: selection.Selector,
		Location: selection.Location,
	}
	logs, err := s.CreateAlertWithLogs(context.Background(), alert, selection)
	require.NoError(t, err)
	return alert, logs
}

func TestStore_Agency_CreateAndLookup(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	agency := &domain.Agency{ID: "a1", Name: "County EMS", Email: " Ops@County.gov ", PasswordHash: "hash", Role: "admin"}
	require.NoError(t, s.CreateAgency(ctx, agency))

	got, err := s.GetAgencyByEmail(ctx, "OPS@county.gov")
	require.NoError(t, err)
	assert.Equal(t, "a1", got.ID)
	assert.Equal(t, "ops@county.gov", got.Email)

	err = s.CreateAgency(ctx, &domain.Agency{ID: "a2", Name: "Dup", Email: "ops@county.gov", PasswordHash: "hash", Role: "admin"})
	assert.ErrorIs(t, err, domain.ErrDuplicateAgency)

	_, err = s.GetAgency(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	agencies, err := s.ListAgencies(ctx)
	require.NoError(t, err)
	assert.Len(t, agencies, 1)
}

func TestStore_RevokeToken(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	revoked, err := s.IsTokenRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	token := &domain.RevokedToken{JTI: "jti-1", AgencyID: agencyA, ExpiresAt: time.Now().Add(time.Hour)}
	require.NoError(t, s.RevokeToken(ctx, token))
	require.NoError(t, s.RevokeToken(ctx, token))

	revoked, err = s.IsTokenRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestStore_InsertRecipient_Duplicate(t *testing.T) {
	s := newTestStore(t)

	addRecipient(t, s, agencyA, "Ada", "+15551234567", "north", false)

	_, err := s.InsertRecipient(context.Background(), &domain.Recipient{
		AgencyID: agencyA, Name: "Other", Phone: "+15551234567", Location: "south",
	})
	assert.ErrorIs(t, err, domain.ErrDuplicateRecipient)

	// Same phone under another agency is a different recipient.
	addRecipient(t, s, agencyB, "Ada", "+15551234567", "north", false)
}

func TestStore_InsertRecipient_ConcurrentSamePhone(t *testing.T) {
	s := newTestStore(t)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.InsertRecipient(context.Background(), &domain.Recipient{
				AgencyID: agencyA,
				Name:     fmt.Sprintf("Importer %d", i),
				Phone:    "+15551234567",
				Location: "north",
			})
		}(i)
	}
	wg.Wait()

	failures := 0
	for _, err := range errs {
		if err != nil {
			assert.ErrorIs(t, err, domain.ErrDuplicateRecipient)
			failures++
		}
	}
	assert.Equal(t, 1, failures)

	_, total, err := s.ListRecipients(context.Background(), agencyA, domain.RecipientFilter{IncludeInactive: true})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestStore_RemoveRecipient_DeletesWithoutHistory(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	r := addRecipient(t, s, agencyA, "Ada", "+15551234567", "north", false)

	deactivated, err := s.RemoveRecipient(ctx, agencyA, r.ID)
	require.NoError(t, err)
	assert.False(t, deactivated)

	_, total, err := s.ListRecipients(ctx, agencyA, domain.RecipientFilter{IncludeInactive: true})
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestStore_RemoveRecipient_DeactivatesWithHistory(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	r := addRecipient(t, s, agencyA, "Ada", "+15551234567", "north", false)
	sendAlert(t, s, agencyA, "Flood warning", domain.RecipientSelection{Selector: domain.SelectorAll})

	deactivated, err := s.RemoveRecipient(ctx, agencyA, r.ID)
	require.NoError(t, err)
	assert.True(t, deactivated)

	_, err = s.RemoveRecipient(ctx, agencyA, r.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	active, _, err := s.ListRecipients(ctx, agencyA, domain.RecipientFilter{})
	require.NoError(t, err)
	assert.Empty(t, active)

	// Re-adding the phone revives the row with the new fields.
	revived := addRecipient(t, s, agencyA, "Ada Lovelace", "+15551234567", "south", true)
	assert.Equal(t, r.ID, revived.ID)
	assert.Equal(t, "Ada Lovelace", revived.Name)
	assert.Equal(t, "south", revived.Location)
	assert.True(t, revived.Active)
	assert.True(t, revived.Priority)
}

func TestStore_RemoveRecipient_OtherAgency(t *testing.T) {
	s := newTestStore(t)

	r := addRecipient(t, s, agencyA, "Ada", "+15551234567", "north", false)

	_, err := s.RemoveRecipient(context.Background(), agencyB, r.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_ListRecipients_Filters(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	addRecipient(t, s, agencyA, "Ada", "+15551230001", "north", false)
	addRecipient(t, s, agencyA, "Grace", "+15551230002", "north", true)
	addRecipient(t, s, agencyA, "Linus_T", "+15551230003", "south", false)
	addRecipient(t, s, agencyB, "Ada", "+15551230004", "north", false)

	list, total, err := s.ListRecipients(ctx, agencyA, domain.RecipientFilter{Location: "NORTH"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, list, 2)

	list, total, err = s.ListRecipients(ctx, agencyA, domain.RecipientFilter{Search: "ada"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "Ada", list[0].Name)

	_, total, err = s.ListRecipients(ctx, agencyA, domain.RecipientFilter{Search: "_"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total, "underscore must match literally")

	_, total, err = s.ListRecipients(ctx, agencyA, domain.RecipientFilter{Search: "0003"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	list, total, err = s.ListRecipients(ctx, agencyA, domain.RecipientFilter{Page: domain.Page{Number: 2, Limit: 2}})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, list, 1)
}

func TestStore_CountRecipients_Selectors(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	addRecipient(t, s, agencyA, "Ada", "+15551230001", "north", false)
	addRecipient(t, s, agencyA, "Grace", "+15551230002", "north", true)
	addRecipient(t, s, agencyA, "Linus", "+15551230003", "south", true)

	tests := []struct {
		name      string
		selection domain.RecipientSelection
		expected  int64
	}{
		{"all", domain.RecipientSelection{Selector: domain.SelectorAll}, 3},
		{"location", domain.RecipientSelection{Selector: domain.SelectorLocation, Location: "North"}, 2},
		{"unknown location", domain.RecipientSelection{Selector: domain.SelectorLocation, Location: "east"}, 0},
		{"priority", domain.RecipientSelection{Selector: domain.SelectorPriority}, 2},
		{"priority in location", domain.RecipientSelection{Selector: domain.SelectorPriority, Location: "south"}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			count, err := s.CountRecipients(ctx, agencyA, tt.selection)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, count)
		})
	}
}

func TestStore_CreateAlertWithLogs_FanOut(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		addRecipient(t, s, agencyA, fmt.Sprintf("R%d", i), fmt.Sprintf("+1555123000%d", i), "north", false)
	}
	addRecipient(t, s, agencyB, "Other", "+15559999999", "north", false)

	alert, logs := sendAlert(t, s, agencyA, "Evacuate now", domain.RecipientSelection{Selector: domain.SelectorAll})

	assert.NotEmpty(t, alert.ID)
	assert.Equal(t, 5, alert.TotalRecipients)
	require.Len(t, logs, 5)
	for _, l := range logs {
		assert.Equal(t, domain.LogStatusPending, l.Status)
		assert.Equal(t, alert.ID, l.AlertID)
		assert.Equal(t, agencyA, l.AgencyID)
	}

	// Later registry changes do not alter the snapshot.
	addRecipient(t, s, agencyA, "Late", "+15551239999", "north", false)

	stored, total, err := s.QueryLogs(ctx, agencyA, domain.LogFilter{AlertID: alert.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Equal(t, "Evacuate now", stored[0].Message)

	alerts, _, err := s.ListAlerts(ctx, agencyA, domain.AlertFilter{})
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, 5, alerts[0].TotalRecipients)
	assert.Equal(t, 5, alerts[0].PendingCount)
}

func TestStore_CreateAlertWithLogs_EmptySet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	addRecipient(t, s, agencyA, "Ada", "+15551230001", "north", false)

	alert := &domain.Alert{AgencyID: agencyA, Message: "Test", Priority: domain.PriorityLow, Selector: domain.SelectorLocation, Location: "south"}
	logs, err := s.CreateAlertWithLogs(ctx, alert, domain.RecipientSelection{Selector: domain.SelectorLocation, Location: "south"})

	assert.ErrorIs(t, err, domain.ErrEmptyRecipientSet)
	assert.Nil(t, logs)

	_, total, err := s.ListAlerts(ctx, agencyA, domain.AlertFilter{})
	require.NoError(t, err)
	assert.Zero(t, total)

	_, total, err = s.QueryLogs(ctx, agencyA, domain.LogFilter{})
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestStore_CreateAlertWithLogs_DuplicateIdempotencyKey(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	addRecipient(t, s, agencyA, "Ada", "+15551230001", "north", false)

	key := "send-1"
	first := &domain.Alert{AgencyID: agencyA, Message: "One", Priority: domain.PriorityLow, Selector: domain.SelectorAll, IdempotencyKey: &key}
	_, err := s.CreateAlertWithLogs(ctx, first, domain.RecipientSelection{Selector: domain.SelectorAll})
	require.NoError(t, err)

	second := &domain.Alert{AgencyID: agencyA, Message: "One", Priority: domain.PriorityLow, Selector: domain.SelectorAll, IdempotencyKey: &key}
	_, err = s.CreateAlertWithLogs(ctx, second, domain.RecipientSelection{Selector: domain.SelectorAll})
	assert.ErrorIs(t, err, domain.ErrDuplicateAlert)

	_, total, err := s.QueryLogs(ctx, agencyA, domain.LogFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestStore_ApplyReceipt_LastWriteWins(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	addRecipient(t, s, agencyA, "Ada", "+15551230001", "north", false)
	_, logs := sendAlert(t, s, agencyA, "Test", domain.RecipientSelection{Selector: domain.SelectorAll})
	id := logs[0].ID

	t1 := time.Now().UTC()
	t0 := t1.Add(-time.Minute)

	receipt := domain.DeliveryReceipt{AlertLogID: id, Status: domain.LogStatusDelivered, Timestamp: t1}
	log, applied, err := s.ApplyReceipt(ctx, receipt)
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, domain.LogStatusDelivered, log.Status)
	require.NotNil(t, log.DeliveredAt)

	// Same receipt again: same terminal state, no error.
	log, _, err = s.ApplyReceipt(ctx, receipt)
	require.NoError(t, err)
	assert.Equal(t, domain.LogStatusDelivered, log.Status)

	// Older receipt is ignored.
	log, applied, err = s.ApplyReceipt(ctx, domain.DeliveryReceipt{
		AlertLogID: id, Status: domain.LogStatusFailed, FailedReason: "carrier", Timestamp: t0,
	})
	require.NoError(t, err)
	assert.False(t, applied)
	assert.Equal(t, domain.LogStatusDelivered, log.Status)
	assert.Empty(t, log.FailedReason)

	// Newer receipt flips the terminal state.
	log, applied, err = s.ApplyReceipt(ctx, domain.DeliveryReceipt{
		AlertLogID: id, Status: domain.LogStatusFailed, FailedReason: "handset off", Timestamp: t1.Add(time.Second),
	})
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, domain.LogStatusFailed, log.Status)
	assert.Equal(t, "handset off", log.FailedReason)
	assert.Nil(t, log.DeliveredAt)
}

func TestStore_ApplyReceipt_UnknownLog(t *testing.T) {
	s := newTestStore(t)

	_, _, err := s.ApplyReceipt(context.Background(), domain.DeliveryReceipt{
		AlertLogID: "missing", Status: domain.LogStatusDelivered, Timestamp: time.Now(),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_ApplyReply_KeepsStatus(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	addRecipient(t, s, agencyA, "Ada", "+15551230001", "north", false)
	_, logs := sendAlert(t, s, agencyA, "Test", domain.RecipientSelection{Selector: domain.SelectorAll})
	id := logs[0].ID
	now := time.Now().UTC()

	log, applied, err := s.ApplyReply(ctx, domain.Reply{AlertLogID: id, Text: "SAFE", Timestamp: now})
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, domain.LogStatusPending, log.Status)
	require.NotNil(t, log.Reply)
	assert.Equal(t, "SAFE", *log.Reply)

	log, applied, err = s.ApplyReply(ctx, domain.Reply{AlertLogID: id, Text: "older", Timestamp: now.Add(-time.Hour)})
	require.NoError(t, err)
	assert.False(t, applied)
	assert.Equal(t, "SAFE", *log.Reply)

	// A receipt arriving after the reply leaves the reply alone.
	log, _, err = s.ApplyReceipt(ctx, domain.DeliveryReceipt{AlertLogID: id, Status: domain.LogStatusDelivered, Timestamp: now})
	require.NoError(t, err)
	assert.Equal(t, domain.LogStatusDelivered, log.Status)
	assert.Equal(t, "SAFE", *log.Reply)
}

func TestStore_QueryLogs_FiltersAndIsolation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	addRecipient(t, s, agencyA, "Ada", "+15551230001", "north", false)
	addRecipient(t, s, agencyA, "Grace", "+15551230002", "north", false)
	addRecipient(t, s, agencyB, "Other", "+15551230003", "north", false)

	_, floodLogs := sendAlert(t, s, agencyA, "Flood warning for 50% of area", domain.RecipientSelection{Selector: domain.SelectorAll})
	sendAlert(t, s, agencyA, "Fire drill", domain.RecipientSelection{Selector: domain.SelectorAll})
	sendAlert(t, s, agencyB, "Flood warning", domain.RecipientSelection{Selector: domain.SelectorAll})

	_, _, err := s.ApplyReceipt(ctx, domain.DeliveryReceipt{AlertLogID: floodLogs[0].ID, Status: domain.LogStatusDelivered, Timestamp: time.Now()})
	require.NoError(t, err)
	_, _, err = s.ApplyReply(ctx, domain.Reply{AlertLogID: floodLogs[1].ID, Text: "Need help", Timestamp: time.Now()})
	require.NoError(t, err)

	_, total, err := s.QueryLogs(ctx, agencyA, domain.LogFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)

	_, total, err = s.QueryLogs(ctx, agencyA, domain.LogFilter{Search: "FLOOD"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	_, total, err = s.QueryLogs(ctx, agencyA, domain.LogFilter{Search: "flood", Status: domain.LogStatusDelivered})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	_, total, err = s.QueryLogs(ctx, agencyA, domain.LogFilter{Search: "50%"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	list, total, err := s.QueryLogs(ctx, agencyA, domain.LogFilter{Search: "need help"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, floodLogs[1].ID, list[0].ID)

	_, total, err = s.QueryLogs(ctx, agencyA, domain.LogFilter{Search: "0002"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	_, total, err = s.QueryLogs(ctx, agencyB, domain.LogFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestStore_Outbox(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	addRecipient(t, s, agencyA, "Ada", "+15551230001", "north", false)
	addRecipient(t, s, agencyA, "Grace", "+15551230002", "north", false)
	_, logs := sendAlert(t, s, agencyA, "Test", domain.RecipientSelection{Selector: domain.SelectorAll})

	future := time.Now().Add(time.Minute)
	pending, err := s.ListUnenqueued(ctx, future, 100)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, "Test", pending[0].Message)
	assert.Equal(t, domain.PriorityHigh, pending[0].Priority)
	assert.Equal(t, agencyA, pending[0].AgencyID)

	require.NoError(t, s.MarkEnqueued(ctx, []string{logs[0].ID}, time.Now()))

	pending, err = s.ListUnenqueued(ctx, future, 100)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, logs[1].ID, pending[0].LogID)

	pending, err = s.ListUnenqueued(ctx, time.Now().Add(-time.Hour), 100)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestStore_CountStats(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	addRecipient(t, s, agencyA, "Ada", "+15551230001", "north", false)
	addRecipient(t, s, agencyA, "Grace", "+15551230002", "north", false)
	_, logs := sendAlert(t, s, agencyA, "Test", domain.RecipientSelection{Selector: domain.SelectorAll})

	_, _, err := s.ApplyReceipt(ctx, domain.DeliveryReceipt{AlertLogID: logs[0].ID, Status: domain.LogStatusDelivered, Timestamp: time.Now()})
	require.NoError(t, err)
	_, _, err = s.ApplyReply(ctx, domain.Reply{AlertLogID: logs[0].ID, Text: "ok", Timestamp: time.Now()})
	require.NoError(t, err)

	counts, err := s.CountStats(ctx, agencyA, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, &domain.StatsCounts{ActiveRecipients: 2, Alerts: 1, Logs: 2, Delivered: 1, Replies: 1}, counts)

	again, err := s.CountStats(ctx, agencyA, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, counts, again)

	future, err := s.CountStats(ctx, agencyA, time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(2), future.ActiveRecipients)
	assert.Zero(t, future.Alerts)
	assert.Zero(t, future.Logs)

	empty, err := s.CountStats(ctx, agencyB, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, &domain.StatsCounts{}, empty)
}
