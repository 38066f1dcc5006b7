package integration

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hotelier/backend/internal/domain/integration"
)

// SyncService is the public surface of the integration engine. Callers are
// the REST layer's administrative actions and the external scheduler; both
// invoke it with (integrationID, operation parameters). Every method returns
// either a success payload or a typed failure; nothing panics past this
// boundary.
type SyncService struct {
	resolver     *ProfileResolver
	orchestrator *Orchestrator
	activity     *ActivityLogger
	logs         integration.LogRepository
	sources      map[integration.Type]integration.SyncSource
	pos          integration.POSPort
	pms          integration.PMSPort
	log          *zap.Logger
}

// NewSyncService creates a new SyncService. The pos and pms ports are usually
// the same adapter instances registered as sources.
func NewSyncService(
	resolver *ProfileResolver,
	orchestrator *Orchestrator,
	activity *ActivityLogger,
	logs integration.LogRepository,
	sources []integration.SyncSource,
	pos integration.POSPort,
	pms integration.PMSPort,
	log *zap.Logger,
) *SyncService {
	byType := make(map[integration.Type]integration.SyncSource, len(sources))
	for _, s := range sources {
		byType[s.Type()] = s
	}
	return &SyncService{
		resolver:     resolver,
		orchestrator: orchestrator,
		activity:     activity,
		logs:         logs,
		sources:      byType,
		pos:          pos,
		pms:          pms,
		log:          log.Named("sync-service"),
	}
}

// ErrorCode returns the stable machine-readable code for a service failure.
// The HTTP layer maps it onto response envelopes.
func ErrorCode(err error) string {
	return errorCode(err)
}

// ---------------------------------------------------------------------------
// Bulk sync
// ---------------------------------------------------------------------------

// RunSync executes one reconciliation pass of the named remote collection,
// e.g. RunSync(id, "menus") for a POS or RunSync(id, "reservations") for a
// PMS integration.
func (s *SyncService) RunSync(ctx context.Context, integrationID uuid.UUID, collection string) (*integration.RunReport, error) {
	record, err := s.resolver.ResolveRecord(ctx, integrationID)
	if err != nil {
		return nil, err
	}
	source, ok := s.sources[record.Type]
	if !ok {
		return nil, integration.ErrUnknownCollection
	}
	plan, err := source.SyncPlan(collection)
	if err != nil {
		return nil, err
	}
	return s.orchestrator.Run(ctx, integrationID, plan)
}

// Collections lists the remote collections available for an integration
func (s *SyncService) Collections(ctx context.Context, integrationID uuid.UUID) ([]string, error) {
	record, err := s.resolver.ResolveRecord(ctx, integrationID)
	if err != nil {
		return nil, err
	}
	source, ok := s.sources[record.Type]
	if !ok {
		return nil, integration.ErrUnknownCollection
	}
	return source.Collections(), nil
}

// ---------------------------------------------------------------------------
// Connectivity test
// ---------------------------------------------------------------------------

// TestIntegration runs a connectivity dry run: a lightweight ping plus one
// read-only bulk probe. It writes one audit entry and mutates no integration
// or downstream state, leaving sync_status and error_count untouched.
func (s *SyncService) TestIntegration(ctx context.Context, integrationID uuid.UUID) (*integration.TestReport, error) {
	start := time.Now()

	record, err := s.resolver.ResolveRecord(ctx, integrationID)
	if err != nil {
		return nil, err
	}
	source, ok := s.sources[record.Type]
	if !ok {
		return nil, integration.ErrUnknownCollection
	}
	profile, err := s.resolver.Resolve(ctx, integrationID, ResolveOptions{AllowInactive: true})
	if err != nil {
		s.activity.Record(ctx, integrationID, integration.OperationTest, "test_integration",
			integration.DirectionOutbound, record.Credentials, Outcome{
				Status:       integration.LogStatusFailed,
				ErrorMessage: err.Error(),
				ErrorCode:    errorCode(err),
				Elapsed:      time.Since(start),
			})
		return nil, err
	}

	report, err := source.Test(ctx, profile)
	if err != nil {
		// Unreachable endpoints are an expected test outcome, not a
		// service failure.
		report = &integration.TestReport{Connection: false, Error: err.Error()}
	}

	status := integration.LogStatusSuccess
	var message string
	if !report.Success() {
		status = integration.LogStatusFailed
		message = report.Error
	}
	s.activity.Record(ctx, integrationID, integration.OperationTest, "test_integration",
		integration.DirectionOutbound, record.Credentials, Outcome{
			Status:       status,
			ResponseData: snapshot(report),
			ErrorMessage: message,
			Elapsed:      time.Since(start),
		})

	return report, nil
}

// ---------------------------------------------------------------------------
// Webhook inbound
// ---------------------------------------------------------------------------

// HandleWebhook verifies a provider-initiated delivery against the
// integration's webhook secret. Signature validation uses HMAC-SHA256 over
// the raw payload; routing of verified payloads is the caller's concern.
func (s *SyncService) HandleWebhook(ctx context.Context, integrationID uuid.UUID, payload []byte, signature string) error {
	start := time.Now()

	record, err := s.resolver.ResolveRecord(ctx, integrationID)
	if err != nil {
		return err
	}
	if record.WebhookSecret == "" {
		return integration.ErrWebhookNotConfigured
	}

	mac := hmac.New(sha256.New, []byte(record.WebhookSecret))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))
	received := strings.TrimPrefix(signature, "sha256=")

	verified := hmac.Equal([]byte(expected), []byte(received))

	status := integration.LogStatusSuccess
	var message, code string
	if !verified {
		status = integration.LogStatusFailed
		message = integration.ErrWebhookSignatureInvalid.Error()
		code = errorCode(integration.ErrWebhookSignatureInvalid)
	}
	s.activity.Record(ctx, integrationID, integration.OperationWebhook, "webhook_received",
		integration.DirectionInbound, record.Credentials, Outcome{
			Status:       status,
			ErrorMessage: message,
			ErrorCode:    code,
			Elapsed:      time.Since(start),
			Metadata:     map[string]any{"payload_bytes": len(payload)},
		})

	if !verified {
		return integration.ErrWebhookSignatureInvalid
	}
	return nil
}

// ---------------------------------------------------------------------------
// POS single actions
// ---------------------------------------------------------------------------

// PostGuestCheck posts a guest check to the hotel's POS
func (s *SyncService) PostGuestCheck(ctx context.Context, integrationID uuid.UUID, check *integration.GuestCheck) (*integration.CheckResult, error) {
	if err := check.Validate(); err != nil {
		return nil, err
	}
	var result *integration.CheckResult
	err := s.singleAction(ctx, integrationID, "post_guest_check", snapshot(check), func(ctx context.Context, profile *integration.ConnectionProfile) (any, error) {
		var err error
		result, err = s.pos.PostGuestCheck(ctx, profile, check)
		return result, err
	})
	return result, err
}

// GetCheckStatus retrieves the POS-side state of a posted check
func (s *SyncService) GetCheckStatus(ctx context.Context, integrationID uuid.UUID, externalCheckID string) (*integration.CheckResult, error) {
	if externalCheckID == "" {
		return nil, integration.ErrRecordMalformed
	}
	var result *integration.CheckResult
	err := s.singleAction(ctx, integrationID, "get_check_status", map[string]any{"check_id": externalCheckID}, func(ctx context.Context, profile *integration.ConnectionProfile) (any, error) {
		var err error
		result, err = s.pos.GetCheckStatus(ctx, profile, externalCheckID)
		return result, err
	})
	return result, err
}

// VoidCheck voids a previously posted check on the POS
func (s *SyncService) VoidCheck(ctx context.Context, integrationID uuid.UUID, externalCheckID, reason string) (*integration.CheckResult, error) {
	if externalCheckID == "" {
		return nil, integration.ErrRecordMalformed
	}
	var result *integration.CheckResult
	err := s.singleAction(ctx, integrationID, "void_check", map[string]any{"check_id": externalCheckID, "reason": reason}, func(ctx context.Context, profile *integration.ConnectionProfile) (any, error) {
		var err error
		result, err = s.pos.VoidCheck(ctx, profile, externalCheckID, reason)
		return result, err
	})
	return result, err
}

// ---------------------------------------------------------------------------
// PMS single actions
// ---------------------------------------------------------------------------

// PostCheckIn marks a reservation as arrived on the PMS
func (s *SyncService) PostCheckIn(ctx context.Context, integrationID uuid.UUID, req *integration.CheckInRequest) (*integration.StayResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	var result *integration.StayResult
	err := s.singleAction(ctx, integrationID, "post_check_in", snapshot(req), func(ctx context.Context, profile *integration.ConnectionProfile) (any, error) {
		var err error
		result, err = s.pms.PostCheckIn(ctx, profile, req)
		return result, err
	})
	return result, err
}

// PostCheckOut marks a reservation as departed on the PMS
func (s *SyncService) PostCheckOut(ctx context.Context, integrationID uuid.UUID, req *integration.CheckOutRequest) (*integration.StayResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	var result *integration.StayResult
	err := s.singleAction(ctx, integrationID, "post_check_out", snapshot(req), func(ctx context.Context, profile *integration.ConnectionProfile) (any, error) {
		var err error
		result, err = s.pms.PostCheckOut(ctx, profile, req)
		return result, err
	})
	return result, err
}

// SendGuestRequest forwards a concierge request to the PMS work-order queue
func (s *SyncService) SendGuestRequest(ctx context.Context, integrationID uuid.UUID, req *integration.GuestRequest) (*integration.GuestRequestResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	var result *integration.GuestRequestResult
	err := s.singleAction(ctx, integrationID, "send_guest_request", snapshot(req), func(ctx context.Context, profile *integration.ConnectionProfile) (any, error) {
		var err error
		result, err = s.pms.SendGuestRequest(ctx, profile, req)
		return result, err
	})
	return result, err
}

// GetRoomStatus retrieves the PMS's live state of one room
func (s *SyncService) GetRoomStatus(ctx context.Context, integrationID uuid.UUID, roomNumber string) (*integration.RoomStatusResult, error) {
	if roomNumber == "" {
		return nil, integration.ErrRecordMalformed
	}
	var result *integration.RoomStatusResult
	err := s.singleAction(ctx, integrationID, "get_room_status", map[string]any{"room_number": roomNumber}, func(ctx context.Context, profile *integration.ConnectionProfile) (any, error) {
		var err error
		result, err = s.pms.GetRoomStatus(ctx, profile, roomNumber)
		return result, err
	})
	return result, err
}

// ---------------------------------------------------------------------------
// Audit trail
// ---------------------------------------------------------------------------

// ListLogs lists the integration's audit entries, newest first
func (s *SyncService) ListLogs(ctx context.Context, integrationID uuid.UUID, filter integration.LogFilter) ([]integration.Log, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 || filter.PageSize > 100 {
		filter.PageSize = 20
	}
	return s.logs.FindByIntegration(ctx, integrationID, filter)
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// singleAction wraps one outbound provider call: resolve once, execute, then
// write exactly one api_call audit entry on the terminal path. A single
// action either fully succeeds or fully fails.
func (s *SyncService) singleAction(
	ctx context.Context,
	integrationID uuid.UUID,
	operation string,
	requestData map[string]any,
	call func(ctx context.Context, profile *integration.ConnectionProfile) (any, error),
) error {
	start := time.Now()

	record, err := s.resolver.ResolveRecord(ctx, integrationID)
	if err != nil {
		return err
	}
	profile, err := s.resolver.Resolve(ctx, integrationID, ResolveOptions{})
	if err != nil {
		s.activity.Record(ctx, integrationID, integration.OperationAPICall, operation,
			integration.DirectionOutbound, record.Credentials, Outcome{
				Status:       integration.LogStatusFailed,
				RequestData:  requestData,
				ErrorMessage: err.Error(),
				ErrorCode:    errorCode(err),
				Elapsed:      time.Since(start),
			})
		return err
	}

	response, err := call(ctx, profile)

	outcome := Outcome{
		Status:      integration.LogStatusSuccess,
		RequestData: requestData,
		Elapsed:     time.Since(start),
	}
	if err != nil {
		outcome.Status = integration.LogStatusFailed
		outcome.ErrorMessage = err.Error()
		outcome.ErrorCode = errorCode(err)
	} else {
		outcome.ResponseData = snapshot(response)
	}
	s.activity.Record(ctx, integrationID, integration.OperationAPICall, operation,
		integration.DirectionOutbound, record.Credentials, outcome)

	return err
}

// snapshot converts a payload struct into the generic map shape stored on
// audit entries.
func snapshot(v any) map[string]any {
	if v == nil {
		return nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}
