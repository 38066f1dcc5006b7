package integration

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository is the persistence port for Integration aggregates
type Repository interface {
	// FindByID finds an integration by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Integration, error)
	// FindByHotelAndType finds the single integration of one family for a hotel
	FindByHotelAndType(ctx context.Context, hotelID uuid.UUID, typ Type) (*Integration, error)
	// Save creates or updates an integration record
	Save(ctx context.Context, integration *Integration) error
	// UpdateSyncState applies the orchestrator's run-boundary state change
	// as one atomic write; it never touches configuration fields
	UpdateSyncState(ctx context.Context, id uuid.UUID, update SyncStateUpdate) error
}

// LogRepository is the persistence port for the append-only audit trail
type LogRepository interface {
	// Append writes one immutable audit entry
	Append(ctx context.Context, entry *Log) error
	// FindByIntegration lists entries for an integration, newest first
	FindByIntegration(ctx context.Context, integrationID uuid.UUID, filter LogFilter) ([]Log, int64, error)
}

// SyncLock is the per-integration advisory lock guarding against two
// concurrent runs of the same integration racing on sync state. Acquire
// returns a run token; Release is a no-op unless the token still owns the
// lock, so a crashed run's lock simply expires.
type SyncLock interface {
	// Acquire attempts to take the lock for the integration. It returns the
	// run token and true on success, or "" and false when another run holds it.
	Acquire(ctx context.Context, integrationID uuid.UUID, ttl time.Duration) (string, bool, error)
	// Release frees the lock if token still owns it
	Release(ctx context.Context, integrationID uuid.UUID, token string) error
}
