package integration

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hotelier/backend/internal/domain/integration"
)

type serviceFixture struct {
	service *SyncService
	repo    *memIntegrationRepo
	logs    *memLogRepo
	pos     *fakePOS
	pms     *fakePMS
	source  *fakeSource
}

func newServiceFixture(t *testing.T, records ...*integration.Integration) *serviceFixture {
	t.Helper()
	repo := newMemIntegrationRepo(records...)
	logs := newMemLogRepo()
	resolver := NewProfileResolver(repo)
	activity := NewActivityLogger(logs, zap.NewNop())
	orchestrator := NewOrchestrator(repo, resolver, activity, newMemLock(), zap.NewNop(), OrchestratorConfig{})
	pos := &fakePOS{}
	pms := &fakePMS{}
	source := &fakeSource{
		typ:         integration.TypePOS,
		collections: []string{"menus"},
		plans: map[string]*integration.CollectionSync{
			"menus": planOf(recordsOf(2), nil),
		},
	}
	service := NewSyncService(resolver, orchestrator, activity, logs,
		[]integration.SyncSource{source}, pos, pms, zap.NewNop())
	return &serviceFixture{service: service, repo: repo, logs: logs, pos: pos, pms: pms, source: source}
}

func TestSyncService_RunSync(t *testing.T) {
	ctx := context.Background()

	t.Run("runs the named collection", func(t *testing.T) {
		record := activePOSIntegration(t)
		f := newServiceFixture(t, record)

		report, err := f.service.RunSync(ctx, record.ID, "menus")
		require.NoError(t, err)
		assert.Equal(t, integration.LogStatusSuccess, report.Status)
		assert.Equal(t, 2, report.Processed)
	})

	t.Run("unknown collection", func(t *testing.T) {
		record := activePOSIntegration(t)
		f := newServiceFixture(t, record)

		_, err := f.service.RunSync(ctx, record.ID, "loyalty_points")
		assert.ErrorIs(t, err, integration.ErrUnknownCollection)
	})

	t.Run("unknown integration", func(t *testing.T) {
		f := newServiceFixture(t)
		_, err := f.service.RunSync(ctx, uuid.New(), "menus")
		assert.ErrorIs(t, err, integration.ErrIntegrationNotFound)
	})
}

func TestSyncService_Collections(t *testing.T) {
	ctx := context.Background()
	record := activePOSIntegration(t)
	f := newServiceFixture(t, record)

	collections, err := f.service.Collections(ctx, record.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"menus"}, collections)
}

func TestSyncService_TestIntegration(t *testing.T) {
	ctx := context.Background()

	t.Run("works against an inactive integration", func(t *testing.T) {
		record := activePOSIntegration(t)
		record.Deactivate()
		f := newServiceFixture(t, record)

		report, err := f.service.TestIntegration(ctx, record.ID)
		require.NoError(t, err)
		assert.True(t, report.Success())

		entries := f.logs.entriesFor(record.ID)
		require.Len(t, entries, 1)
		assert.Equal(t, integration.OperationTest, entries[0].OperationType)
		assert.Equal(t, integration.LogStatusSuccess, entries[0].Status)
	})

	t.Run("unreachable provider is a report, not an error", func(t *testing.T) {
		record := activePOSIntegration(t)
		f := newServiceFixture(t, record)
		f.source.testFn = func(context.Context, *integration.ConnectionProfile) (*integration.TestReport, error) {
			return nil, integration.ErrProviderUnreachable
		}

		report, err := f.service.TestIntegration(ctx, record.ID)
		require.NoError(t, err)
		assert.False(t, report.Connection)
		assert.NotEmpty(t, report.Error)

		// Sync state is never mutated by a test
		after, err := f.repo.FindByID(ctx, record.ID)
		require.NoError(t, err)
		assert.Equal(t, integration.SyncStatusNone, after.SyncStatus)
		assert.Equal(t, 0, after.ErrorCount)

		entries := f.logs.entriesFor(record.ID)
		require.Len(t, entries, 1)
		assert.Equal(t, integration.LogStatusFailed, entries[0].Status)
	})

	t.Run("malformed config fails with an audit trace", func(t *testing.T) {
		record := activePOSIntegration(t)
		delete(record.Config, "base_url")
		f := newServiceFixture(t, record)

		_, err := f.service.TestIntegration(ctx, record.ID)
		assert.ErrorIs(t, err, integration.ErrConfigMalformed)

		entries := f.logs.entriesFor(record.ID)
		require.Len(t, entries, 1)
		assert.Equal(t, "CONFIG_MALFORMED", entries[0].ErrorCode)
	})
}

func TestSyncService_HandleWebhook(t *testing.T) {
	ctx := context.Background()
	payload := []byte(`{"event":"menu.updated"}`)

	sign := func(secret string, body []byte) string {
		mac := hmac.New(sha256.New, []byte(secret))
		mac.Write(body)
		return hex.EncodeToString(mac.Sum(nil))
	}

	t.Run("accepts a valid signature", func(t *testing.T) {
		record := activePOSIntegration(t)
		record.WebhookSecret = "whsec_test"
		f := newServiceFixture(t, record)

		err := f.service.HandleWebhook(ctx, record.ID, payload, sign("whsec_test", payload))
		require.NoError(t, err)

		entries := f.logs.entriesFor(record.ID)
		require.Len(t, entries, 1)
		assert.Equal(t, integration.OperationWebhook, entries[0].OperationType)
		assert.Equal(t, integration.LogStatusSuccess, entries[0].Status)
	})

	t.Run("accepts the sha256= prefix form", func(t *testing.T) {
		record := activePOSIntegration(t)
		record.WebhookSecret = "whsec_test"
		f := newServiceFixture(t, record)

		err := f.service.HandleWebhook(ctx, record.ID, payload, "sha256="+sign("whsec_test", payload))
		assert.NoError(t, err)
	})

	t.Run("rejects a bad signature and still audits it", func(t *testing.T) {
		record := activePOSIntegration(t)
		record.WebhookSecret = "whsec_test"
		f := newServiceFixture(t, record)

		err := f.service.HandleWebhook(ctx, record.ID, payload, sign("wrong-secret", payload))
		assert.ErrorIs(t, err, integration.ErrWebhookSignatureInvalid)

		entries := f.logs.entriesFor(record.ID)
		require.Len(t, entries, 1)
		assert.Equal(t, integration.LogStatusFailed, entries[0].Status)
		assert.Equal(t, "WEBHOOK_SIGNATURE_INVALID", entries[0].ErrorCode)
	})

	t.Run("rejects tampered payloads", func(t *testing.T) {
		record := activePOSIntegration(t)
		record.WebhookSecret = "whsec_test"
		f := newServiceFixture(t, record)

		signature := sign("whsec_test", payload)
		err := f.service.HandleWebhook(ctx, record.ID, []byte(`{"event":"menu.deleted"}`), signature)
		assert.ErrorIs(t, err, integration.ErrWebhookSignatureInvalid)
	})

	t.Run("missing webhook secret", func(t *testing.T) {
		record := activePOSIntegration(t)
		f := newServiceFixture(t, record)

		err := f.service.HandleWebhook(ctx, record.ID, payload, "anything")
		assert.ErrorIs(t, err, integration.ErrWebhookNotConfigured)
	})
}

func TestSyncService_SingleActions(t *testing.T) {
	ctx := context.Background()

	check := &integration.GuestCheck{
		Reference:  "ord-77",
		RoomNumber: "204",
		Items: []integration.GuestCheckItem{
			{MenuItemExternalID: "itm-1", Name: "Club Sandwich", Quantity: 2, UnitPrice: decimal.NewFromFloat(14.50)},
		},
		Total:    decimal.NewFromFloat(29.00),
		Currency: "USD",
	}

	t.Run("posts a guest check and audits the call", func(t *testing.T) {
		record := activePOSIntegration(t)
		f := newServiceFixture(t, record)
		f.pos.result = &integration.CheckResult{ExternalCheckID: "chk-1", State: integration.CheckStateOpen}

		result, err := f.service.PostGuestCheck(ctx, record.ID, check)
		require.NoError(t, err)
		assert.Equal(t, "chk-1", result.ExternalCheckID)
		assert.Equal(t, 1, f.pos.calls)

		entries := f.logs.entriesFor(record.ID)
		require.Len(t, entries, 1)
		assert.Equal(t, integration.OperationAPICall, entries[0].OperationType)
		assert.Equal(t, "post_guest_check", entries[0].OperationName)
		assert.Equal(t, integration.LogStatusSuccess, entries[0].Status)
		assert.Equal(t, "ord-77", entries[0].RequestData["reference"])
	})

	t.Run("rejects an invalid check before calling the provider", func(t *testing.T) {
		record := activePOSIntegration(t)
		f := newServiceFixture(t, record)

		_, err := f.service.PostGuestCheck(ctx, record.ID, &integration.GuestCheck{Reference: "x"})
		assert.ErrorIs(t, err, integration.ErrRecordMalformed)
		assert.Equal(t, 0, f.pos.calls)
		assert.Empty(t, f.logs.entriesFor(record.ID))
	})

	t.Run("inactive integration blocks single actions", func(t *testing.T) {
		record := activePOSIntegration(t)
		record.Deactivate()
		f := newServiceFixture(t, record)

		_, err := f.service.GetCheckStatus(ctx, record.ID, "chk-1")
		assert.ErrorIs(t, err, integration.ErrIntegrationInactive)
		assert.Equal(t, 0, f.pos.calls)

		entries := f.logs.entriesFor(record.ID)
		require.Len(t, entries, 1)
		assert.Equal(t, "INTEGRATION_INACTIVE", entries[0].ErrorCode)
	})

	t.Run("provider rejection is audited with its code", func(t *testing.T) {
		record := activePOSIntegration(t)
		f := newServiceFixture(t, record)
		f.pos.err = &integration.ProviderError{StatusCode: 409, Body: "check already voided"}

		_, err := f.service.VoidCheck(ctx, record.ID, "chk-1", "guest cancelled")
		require.Error(t, err)

		entries := f.logs.entriesFor(record.ID)
		require.Len(t, entries, 1)
		assert.Equal(t, integration.LogStatusFailed, entries[0].Status)
		assert.Equal(t, "PROVIDER_REJECTED", entries[0].ErrorCode)
	})

	t.Run("pms check-in round trip", func(t *testing.T) {
		record := activePOSIntegration(t)
		f := newServiceFixture(t, record)
		f.pms.stay = &integration.StayResult{ReservationExternalID: "res-5", Status: "in_house", RoomNumber: "204"}

		result, err := f.service.PostCheckIn(ctx, record.ID, &integration.CheckInRequest{
			ReservationExternalID: "res-5",
			RoomNumber:            "204",
			ArrivedAt:             time.Now(),
		})
		require.NoError(t, err)
		assert.Equal(t, "in_house", result.Status)
	})

	t.Run("guest request requires room and message", func(t *testing.T) {
		record := activePOSIntegration(t)
		f := newServiceFixture(t, record)

		_, err := f.service.SendGuestRequest(ctx, record.ID, &integration.GuestRequest{RoomNumber: "101"})
		assert.ErrorIs(t, err, integration.ErrRecordMalformed)
	})

	t.Run("room status requires a room number", func(t *testing.T) {
		record := activePOSIntegration(t)
		f := newServiceFixture(t, record)

		_, err := f.service.GetRoomStatus(ctx, record.ID, "")
		assert.ErrorIs(t, err, integration.ErrRecordMalformed)
	})
}

func TestSyncService_ListLogs(t *testing.T) {
	ctx := context.Background()
	record := activePOSIntegration(t)
	f := newServiceFixture(t, record)
	record.WebhookSecret = "whsec_test"
	require.NoError(t, f.repo.Save(ctx, record))

	// Generate a webhook failure and a successful test entry
	_ = f.service.HandleWebhook(ctx, record.ID, []byte("{}"), "bad")
	_, err := f.service.TestIntegration(ctx, record.ID)
	require.NoError(t, err)

	t.Run("lists all entries", func(t *testing.T) {
		entries, total, err := f.service.ListLogs(ctx, record.ID, integration.LogFilter{})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, entries, 2)
	})

	t.Run("filters by operation type", func(t *testing.T) {
		opType := integration.OperationWebhook
		entries, total, err := f.service.ListLogs(ctx, record.ID, integration.LogFilter{OperationType: &opType})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, entries, 1)
		assert.Equal(t, integration.OperationWebhook, entries[0].OperationType)
	})
}

func TestSyncService_ErrorIsExported(t *testing.T) {
	assert.Equal(t, "INTERNAL", ErrorCode(errors.New("boom")))
	assert.Equal(t, "UNKNOWN_COLLECTION", ErrorCode(integration.ErrUnknownCollection))
}
