package integration

import (
	"context"
	"time"
)

// ---------------------------------------------------------------------------
// Collection sync plan
// ---------------------------------------------------------------------------

// RemoteRecord is one record from a remote collection feed, already parsed
// into the adapter's typed payload. ExternalID is the provider-side identity
// used for the idempotent (hotel, external_id, external_source) upsert key.
type RemoteRecord struct {
	ExternalID string
	Payload    any
}

// CollectionSync is the adapter-supplied function set the orchestrator runs
// for one remote collection. Fetch retrieves and parses the full feed; Apply
// transforms one record and upserts it into the local store. Both receive the
// profile resolved once at the start of the run.
type CollectionSync struct {
	// Operation is the log operation name, e.g. "sync_menus"
	Operation string
	// Fetch retrieves the remote collection. A malformed or non-list
	// response is a hard failure for the whole run.
	Fetch func(ctx context.Context, profile *ConnectionProfile) ([]RemoteRecord, error)
	// Apply transforms and upserts a single record. Failures are counted
	// per record and never abort the remaining records.
	Apply func(ctx context.Context, profile *ConnectionProfile, record RemoteRecord) error
}

// SyncSource is the port bulk-capable adapters implement. The orchestrator
// asks the adapter for a plan and drives the reconciliation itself.
type SyncSource interface {
	// Type returns the integration family this adapter serves
	Type() Type
	// Collections lists the remote collections the adapter can sync
	Collections() []string
	// SyncPlan returns the function set for one collection, or
	// ErrUnknownCollection
	SyncPlan(collection string) (*CollectionSync, error)
	// Test runs a connectivity check plus one read-only fetch without
	// mutating any local state
	Test(ctx context.Context, profile *ConnectionProfile) (*TestReport, error)
}

// ---------------------------------------------------------------------------
// Run results
// ---------------------------------------------------------------------------

// RecordFailure describes one failed record in a bulk run. Failures are
// aggregated into the run's single log entry, never logged row-per-record.
type RecordFailure struct {
	ExternalID string `json:"external_id"`
	Message    string `json:"message"`
}

// RunReport summarizes one orchestrator run
type RunReport struct {
	// Operation is the executed operation name
	Operation string
	// Status is the log-level outcome (success, failed, partial)
	Status LogStatus
	// Processed, Succeeded and Failed are per-record counts with the
	// invariant Processed == Succeeded + Failed
	Processed int
	Succeeded int
	Failed    int
	// Failures carries per-record detail, capped by the orchestrator
	Failures []RecordFailure
	// Elapsed is the wall-clock run duration
	Elapsed time.Duration
}

// ---------------------------------------------------------------------------
// Connectivity test
// ---------------------------------------------------------------------------

// CapabilityResult is the outcome of probing one provider capability
type CapabilityResult struct {
	// Capability names the probed operation, e.g. "menus"
	Capability string `json:"capability"`
	// OK is true when the probe succeeded
	OK bool `json:"ok"`
	// Error is the failure description when OK is false
	Error string `json:"error,omitempty"`
	// Records is the number of records the read-only probe saw
	Records int `json:"records,omitempty"`
}

// TestReport is the structured summary of a connectivity dry run. It mutates
// no local or integration state.
type TestReport struct {
	// Connection is true when the provider answered the lightweight ping
	Connection bool `json:"connection"`
	// Capabilities holds per-capability probe results
	Capabilities []CapabilityResult `json:"capabilities"`
	// Error is the top-level failure when the ping itself failed
	Error string `json:"error,omitempty"`
}

// Success reports whether the connection and every capability probe passed
func (r *TestReport) Success() bool {
	if !r.Connection {
		return false
	}
	for _, c := range r.Capabilities {
		if !c.OK {
			return false
		}
	}
	return true
}
