package integration

import (
	"time"

	"github.com/google/uuid"

	"github.com/hotelier/backend/internal/domain/shared"
)

// ---------------------------------------------------------------------------
// Type represents the family of external system an integration connects to
// ---------------------------------------------------------------------------

// Type represents the family of external system an integration connects to
type Type string

const (
	// TypePOS represents a point-of-sale system (restaurant menus, guest checks)
	TypePOS Type = "pos"
	// TypePMS represents a property management system (reservations, rooms)
	TypePMS Type = "pms"
	// TypeGuestManagement represents a standalone guest-management platform
	TypeGuestManagement Type = "guest_management"
)

// IsValid returns true if the integration type is valid
func (t Type) IsValid() bool {
	switch t {
	case TypePOS, TypePMS, TypeGuestManagement:
		return true
	default:
		return false
	}
}

// String returns the string representation of Type
func (t Type) String() string {
	return string(t)
}

// ---------------------------------------------------------------------------
// Status represents the lifecycle status of an integration
// ---------------------------------------------------------------------------

// Status represents the lifecycle status of an integration
type Status string

const (
	// StatusInactive indicates the integration is configured but disabled
	StatusInactive Status = "inactive"
	// StatusActive indicates the integration is live and eligible for syncs
	StatusActive Status = "active"
	// StatusError indicates the integration is failing and needs attention
	StatusError Status = "error"
	// StatusTesting indicates the integration is being validated by an operator
	StatusTesting Status = "testing"
)

// IsValid returns true if the status is valid
func (s Status) IsValid() bool {
	switch s {
	case StatusInactive, StatusActive, StatusError, StatusTesting:
		return true
	default:
		return false
	}
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// ---------------------------------------------------------------------------
// SyncStatus represents the outcome of the most recent sync run
// ---------------------------------------------------------------------------

// SyncStatus represents the outcome of the most recent sync run.
// The empty value means the integration has never been synced.
type SyncStatus string

const (
	// SyncStatusSuccess indicates the last run completed with zero failures
	SyncStatusSuccess SyncStatus = "success"
	// SyncStatusFailed indicates the last run failed, fully or partially.
	// Partial outcomes are surfaced on the log entry, not here.
	SyncStatusFailed SyncStatus = "failed"
	// SyncStatusInProgress indicates a run is currently executing
	SyncStatusInProgress SyncStatus = "in_progress"
	// SyncStatusNone is the zero value for never-synced integrations
	SyncStatusNone SyncStatus = ""
)

// String returns the string representation of SyncStatus
func (s SyncStatus) String() string {
	return string(s)
}

// ---------------------------------------------------------------------------
// SyncSettings
// ---------------------------------------------------------------------------

// SyncSettings carries operator-tunable schedule and cursor hints for a single
// integration. The core does not schedule runs itself; these values are read
// by the external scheduler and by adapters building incremental fetches.
type SyncSettings struct {
	// IntervalMinutes is the suggested interval between scheduled runs
	IntervalMinutes int `json:"interval_minutes"`
	// Cursor is an opaque incremental-sync position supplied by the provider
	Cursor string `json:"cursor,omitempty"`
	// Collections restricts scheduled runs to the named remote collections;
	// empty means all collections the adapter supports
	Collections []string `json:"collections,omitempty"`
}

// ---------------------------------------------------------------------------
// Integration aggregate
// ---------------------------------------------------------------------------

// Integration is the durable configuration for one external connection of one
// hotel. There is at most one record per (hotel, type). Its sync state fields
// are mutated exclusively by the sync orchestrator, in a single write at the
// end of each run.
type Integration struct {
	shared.BaseEntity
	// HotelID references the owning hotel
	HotelID uuid.UUID
	// Type is the integration family (pos, pms, guest_management)
	Type Type
	// Provider is an opaque vendor identifier (e.g. "square", "mews")
	Provider string
	// ProviderVersion is the provider API version the connection targets
	ProviderVersion string
	// Status is the lifecycle status
	Status Status
	// Config holds endpoint paths and feature flags, decoded as-is
	Config map[string]any
	// Credentials holds the decrypted secret map. Values must never be
	// serialized into logs; the activity logger redacts them.
	Credentials map[string]string
	// WebhookURL is the optional provider-initiated inbound endpoint
	WebhookURL string
	// WebhookSecret signs inbound webhook payloads (HMAC-SHA256)
	WebhookSecret string
	// SyncSettings carries schedule and cursor hints
	SyncSettings SyncSettings
	// LastSync is when the last run finished, nil if never synced
	LastSync *time.Time
	// SyncStatus is the outcome of the most recent run
	SyncStatus SyncStatus
	// SyncStartedAt is when the current or last run began; used to detect
	// stale in_progress markers left behind by a crashed process
	SyncStartedAt *time.Time
	// ErrorCount counts consecutive failed runs, reset on success
	ErrorCount int
	// LastError is the message from the most recent failure
	LastError string
}

// NewIntegration creates a new integration in the inactive state
func NewIntegration(hotelID uuid.UUID, typ Type, provider string) (*Integration, error) {
	if hotelID == uuid.Nil {
		return nil, shared.ErrInvalidInput
	}
	if !typ.IsValid() {
		return nil, shared.ErrInvalidInput
	}
	if provider == "" {
		return nil, shared.ErrInvalidInput
	}
	return &Integration{
		BaseEntity:  shared.NewBaseEntity(),
		HotelID:     hotelID,
		Type:        typ,
		Provider:    provider,
		Status:      StatusInactive,
		Config:      make(map[string]any),
		Credentials: make(map[string]string),
	}, nil
}

// ---------------------------------------------------------------------------
// Lifecycle transitions
// ---------------------------------------------------------------------------

// Activate marks the integration active. Allowed from inactive, testing and
// error (an operator fixing credentials re-activates directly).
func (i *Integration) Activate() error {
	switch i.Status {
	case StatusInactive, StatusTesting, StatusError:
		i.Status = StatusActive
		i.Touch()
		return nil
	case StatusActive:
		return nil
	default:
		return ErrInvalidStatusTransition
	}
}

// Deactivate disables the integration from any state
func (i *Integration) Deactivate() {
	i.Status = StatusInactive
	i.Touch()
}

// MarkTesting moves the integration into the testing state. Only an inactive
// or error integration enters testing; active ones are tested in place.
func (i *Integration) MarkTesting() error {
	switch i.Status {
	case StatusInactive, StatusError, StatusTesting:
		i.Status = StatusTesting
		i.Touch()
		return nil
	default:
		return ErrInvalidStatusTransition
	}
}

// MarkError flags the integration as failing with the given message
func (i *Integration) MarkError(message string) {
	i.Status = StatusError
	i.LastError = message
	i.Touch()
}

// ---------------------------------------------------------------------------
// Sync state
// ---------------------------------------------------------------------------

// SyncRunning reports whether a run is genuinely in progress. An in_progress
// marker older than staleAfter is treated as leftover from a crashed run and
// is recoverable, not evidence of an active sync.
func (i *Integration) SyncRunning(staleAfter time.Duration, now time.Time) bool {
	if i.SyncStatus != SyncStatusInProgress {
		return false
	}
	if i.SyncStartedAt == nil {
		return false
	}
	return now.Sub(*i.SyncStartedAt) < staleAfter
}

// SyncStateUpdate is the single atomic mutation the orchestrator applies to an
// integration's sync fields at run boundaries.
type SyncStateUpdate struct {
	SyncStatus    SyncStatus
	LastSync      *time.Time
	SyncStartedAt *time.Time
	ErrorCount    int
	LastError     string
}

// BeginSyncUpdate returns the state update marking a run as started
func (i *Integration) BeginSyncUpdate(now time.Time) SyncStateUpdate {
	return SyncStateUpdate{
		SyncStatus:    SyncStatusInProgress,
		LastSync:      i.LastSync,
		SyncStartedAt: &now,
		ErrorCount:    i.ErrorCount,
		LastError:     i.LastError,
	}
}

// CompleteSyncUpdate returns the terminal state update for a run that finished
// with zero failed records. The error counter resets on success.
func (i *Integration) CompleteSyncUpdate(now time.Time) SyncStateUpdate {
	return SyncStateUpdate{
		SyncStatus:    SyncStatusSuccess,
		LastSync:      &now,
		SyncStartedAt: nil,
		ErrorCount:    0,
		LastError:     "",
	}
}

// FailSyncUpdate returns the terminal state update for a failed run. Partially
// successful runs also land here; the per-record detail lives in the log entry.
func (i *Integration) FailSyncUpdate(now time.Time, message string) SyncStateUpdate {
	return SyncStateUpdate{
		SyncStatus:    SyncStatusFailed,
		LastSync:      &now,
		SyncStartedAt: nil,
		ErrorCount:    i.ErrorCount + 1,
		LastError:     message,
	}
}
