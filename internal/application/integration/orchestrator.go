package integration

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hotelier/backend/internal/domain/integration"
)

// maxFailureDetail caps the per-record failure detail folded into the run's
// single audit entry. Counts remain exact beyond the cap.
const maxFailureDetail = 20

// OrchestratorConfig tunes one orchestrator instance
type OrchestratorConfig struct {
	// Workers bounds concurrent per-record upserts within one run
	Workers int
	// RunTimeout is the soft timeout for a whole run; outstanding records
	// are abandoned when it expires, attempted records are kept
	RunTimeout time.Duration
	// LockTTL is the advisory lock expiry protecting crashed runs
	LockTTL time.Duration
	// StaleAfter is how old an in_progress marker must be before it is
	// treated as leftover from a dead run
	StaleAfter time.Duration
}

// withDefaults fills unset config fields
func (c OrchestratorConfig) withDefaults() OrchestratorConfig {
	if c.Workers <= 0 {
		c.Workers = 4
	}
	if c.RunTimeout <= 0 {
		c.RunTimeout = 5 * time.Minute
	}
	if c.LockTTL <= 0 {
		c.LockTTL = 10 * time.Minute
	}
	if c.StaleAfter <= 0 {
		c.StaleAfter = c.LockTTL
	}
	return c
}

// Orchestrator runs one idempotent reconciliation pass for one integration
// and one remote collection. It owns all sync-state mutations of the
// integration record; adapters and the executor never touch it.
type Orchestrator struct {
	integrations integration.Repository
	resolver     *ProfileResolver
	activity     *ActivityLogger
	lock         integration.SyncLock
	log          *zap.Logger
	cfg          OrchestratorConfig
}

// NewOrchestrator creates a new Orchestrator
func NewOrchestrator(
	integrations integration.Repository,
	resolver *ProfileResolver,
	activity *ActivityLogger,
	lock integration.SyncLock,
	log *zap.Logger,
	cfg OrchestratorConfig,
) *Orchestrator {
	return &Orchestrator{
		integrations: integrations,
		resolver:     resolver,
		activity:     activity,
		lock:         lock,
		log:          log.Named("orchestrator"),
		cfg:          cfg.withDefaults(),
	}
}

// Run executes one reconciliation pass. It resolves the profile once,
// acquires the per-integration lock, fetches the remote collection, applies
// each record independently under a bounded worker pool, then updates the
// integration's sync state with a single atomic write and appends exactly
// one audit entry.
func (o *Orchestrator) Run(ctx context.Context, integrationID uuid.UUID, plan *integration.CollectionSync) (*integration.RunReport, error) {
	start := time.Now()

	record, err := o.resolver.ResolveRecord(ctx, integrationID)
	if err != nil {
		// Without a record there is no state to mutate; still leave an
		// audit trace for the attempted run.
		o.recordRunFailure(ctx, integrationID, plan.Operation, nil, start, err)
		return nil, err
	}

	if record.Status != integration.StatusActive {
		err := integration.ErrIntegrationInactive
		o.failRun(ctx, record, plan.Operation, start, err)
		return nil, err
	}

	profile, err := integration.DecodeProfile(record)
	if err != nil {
		o.failRun(ctx, record, plan.Operation, start, err)
		return nil, err
	}

	// Guard against two concurrent runs of the same integration racing on
	// sync state. A marker older than StaleAfter is a dead run, not a
	// conflict.
	if record.SyncRunning(o.cfg.StaleAfter, start) {
		return nil, integration.ErrSyncAlreadyRunning
	}
	token, acquired, err := o.lock.Acquire(ctx, integrationID, o.cfg.LockTTL)
	if err != nil {
		o.failRun(ctx, record, plan.Operation, start, err)
		return nil, err
	}
	if !acquired {
		return nil, integration.ErrSyncAlreadyRunning
	}
	defer func() {
		// Release must survive run cancellation, otherwise a timed-out run
		// pins the lock until TTL expiry.
		releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := o.lock.Release(releaseCtx, integrationID, token); err != nil {
			o.log.Warn("failed to release sync lock",
				zap.String("integration_id", integrationID.String()),
				zap.Error(err),
			)
		}
	}()

	if err := o.integrations.UpdateSyncState(ctx, record.ID, record.BeginSyncUpdate(start)); err != nil {
		o.failRun(ctx, record, plan.Operation, start, err)
		return nil, err
	}

	runCtx, cancel := context.WithTimeout(ctx, o.cfg.RunTimeout)
	defer cancel()

	records, err := plan.Fetch(runCtx, profile)
	if err != nil {
		// A failed or malformed top-level fetch aborts the whole run with
		// zero processed records; there is no partial credit.
		o.failRun(ctx, record, plan.Operation, start, err)
		return nil, err
	}

	report := o.applyAll(runCtx, profile, plan, records)
	report.Operation = plan.Operation
	report.Elapsed = time.Since(start)

	now := time.Now()
	var update integration.SyncStateUpdate
	if report.Failed == 0 {
		report.Status = integration.LogStatusSuccess
		update = record.CompleteSyncUpdate(now)
	} else {
		// The integration record does not distinguish partial from failed;
		// the asymmetry is intentional and surfaced on the log entry.
		if report.Succeeded > 0 {
			report.Status = integration.LogStatusPartial
		} else {
			report.Status = integration.LogStatusFailed
		}
		update = record.FailSyncUpdate(now, fmt.Sprintf("%d of %d records failed", report.Failed, report.Processed))
	}
	if err := o.integrations.UpdateSyncState(ctx, record.ID, update); err != nil {
		o.log.Error("failed to persist terminal sync state",
			zap.String("integration_id", record.ID.String()),
			zap.Error(err),
		)
	}

	metadata := map[string]any{"total_records": len(records)}
	if len(report.Failures) > 0 {
		metadata["failures"] = report.Failures
	}
	o.activity.Record(ctx, record.ID, integration.OperationSync, plan.Operation, integration.DirectionInbound,
		record.Credentials, Outcome{
			Status:       report.Status,
			ErrorMessage: update.LastError,
			Elapsed:      report.Elapsed,
			Processed:    report.Processed,
			Succeeded:    report.Succeeded,
			Failed:       report.Failed,
			Metadata:     metadata,
		})

	o.log.Info("sync run finished",
		zap.String("integration_id", record.ID.String()),
		zap.String("operation", plan.Operation),
		zap.String("status", string(report.Status)),
		zap.Int("processed", report.Processed),
		zap.Int("failed", report.Failed),
		zap.Duration("elapsed", report.Elapsed),
	)

	return report, nil
}

// applyAll runs the per-record transform+upsert under a bounded worker pool.
// One failing record never aborts the rest; the terminal aggregation waits on
// every worker before returning.
func (o *Orchestrator) applyAll(
	ctx context.Context,
	profile *integration.ConnectionProfile,
	plan *integration.CollectionSync,
	records []integration.RemoteRecord,
) *integration.RunReport {
	report := &integration.RunReport{}
	if len(records) == 0 {
		return report
	}

	workers := o.cfg.Workers
	if workers > len(records) {
		workers = len(records)
	}

	var (
		mu    sync.Mutex
		wg    sync.WaitGroup
		queue = make(chan integration.RemoteRecord)
	)

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for rec := range queue {
				err := plan.Apply(ctx, profile, rec)
				mu.Lock()
				report.Processed++
				if err != nil {
					report.Failed++
					if len(report.Failures) < maxFailureDetail {
						report.Failures = append(report.Failures, integration.RecordFailure{
							ExternalID: rec.ExternalID,
							Message:    err.Error(),
						})
					}
				} else {
					report.Succeeded++
				}
				mu.Unlock()
			}
		}()
	}

feed:
	for _, rec := range records {
		select {
		case queue <- rec:
		case <-ctx.Done():
			// Soft timeout: abandon outstanding records, keep what was
			// already attempted. The run is idempotent and safe to re-run.
			break feed
		}
	}
	close(queue)
	wg.Wait()

	return report
}

// failRun records a terminal failure that occurred before or instead of
// per-record work: resolution errors, lock storage errors, fetch failures.
func (o *Orchestrator) failRun(ctx context.Context, record *integration.Integration, operation string, start time.Time, cause error) {
	now := time.Now()
	if err := o.integrations.UpdateSyncState(ctx, record.ID, record.FailSyncUpdate(now, cause.Error())); err != nil {
		o.log.Error("failed to persist failed sync state",
			zap.String("integration_id", record.ID.String()),
			zap.Error(err),
		)
	}
	o.recordRunFailure(ctx, record.ID, operation, record.Credentials, start, cause)
}

func (o *Orchestrator) recordRunFailure(ctx context.Context, integrationID uuid.UUID, operation string, credentials map[string]string, start time.Time, cause error) {
	o.activity.Record(ctx, integrationID, integration.OperationSync, operation, integration.DirectionInbound,
		credentials, Outcome{
			Status:       integration.LogStatusFailed,
			ErrorMessage: cause.Error(),
			ErrorCode:    errorCode(cause),
			Elapsed:      time.Since(start),
		})
}

// errorCode maps domain errors to the stable codes stored on audit entries
// and returned across the adapter boundary.
func errorCode(err error) string {
	var providerErr *integration.ProviderError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, integration.ErrIntegrationNotFound):
		return "INTEGRATION_NOT_FOUND"
	case errors.Is(err, integration.ErrConfigMalformed):
		return "CONFIG_MALFORMED"
	case errors.Is(err, integration.ErrIntegrationInactive):
		return "INTEGRATION_INACTIVE"
	case errors.Is(err, integration.ErrSyncAlreadyRunning):
		return "SYNC_ALREADY_RUNNING"
	case errors.Is(err, integration.ErrProviderUnreachable):
		return "PROVIDER_UNREACHABLE"
	case errors.Is(err, integration.ErrInvalidProviderResponse):
		return "INVALID_PROVIDER_RESPONSE"
	case errors.Is(err, integration.ErrRecordMalformed):
		return "RECORD_MALFORMED"
	case errors.Is(err, integration.ErrWebhookSignatureInvalid):
		return "WEBHOOK_SIGNATURE_INVALID"
	case errors.Is(err, integration.ErrWebhookNotConfigured):
		return "WEBHOOK_NOT_CONFIGURED"
	case errors.Is(err, integration.ErrUnknownCollection):
		return "UNKNOWN_COLLECTION"
	case errors.As(err, &providerErr):
		return "PROVIDER_REJECTED"
	default:
		return "INTERNAL"
	}
}
