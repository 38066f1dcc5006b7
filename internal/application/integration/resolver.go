package integration

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/hotelier/backend/internal/domain/integration"
)

// ResolveOptions controls resolution behavior for special callers
type ResolveOptions struct {
	// AllowInactive permits resolving an inactive or testing integration.
	// Only connectivity tests set this; regular syncs and actions must not.
	AllowInactive bool
}

// ProfileResolver decodes stored configuration and credentials into a typed
// ConnectionProfile. It is called exactly once per run and the profile reused
// for every request in that run; re-resolving mid-run risks using
// half-updated credentials.
type ProfileResolver struct {
	integrations integration.Repository
}

// NewProfileResolver creates a new ProfileResolver
func NewProfileResolver(integrations integration.Repository) *ProfileResolver {
	return &ProfileResolver{integrations: integrations}
}

// Resolve loads the integration record and decodes its connection profile.
// It fails with ErrIntegrationNotFound, ErrConfigMalformed or
// ErrIntegrationInactive and has no side effects.
func (r *ProfileResolver) Resolve(ctx context.Context, integrationID uuid.UUID, opts ResolveOptions) (*integration.ConnectionProfile, error) {
	record, err := r.integrations.FindByID(ctx, integrationID)
	if err != nil {
		return nil, err
	}

	if record.Status != integration.StatusActive && !opts.AllowInactive {
		return nil, integration.ErrIntegrationInactive
	}

	return integration.DecodeProfile(record)
}

// ResolveRecord loads the raw integration record without status gating. The
// webhook entry point uses it to reach the webhook secret for integrations
// that receive deliveries while still in testing.
func (r *ProfileResolver) ResolveRecord(ctx context.Context, integrationID uuid.UUID) (*integration.Integration, error) {
	return r.integrations.FindByID(ctx, integrationID)
}

// Running reports whether the record's in_progress marker represents a live
// run, treating markers older than staleAfter as recoverable leftovers.
func Running(record *integration.Integration, staleAfter time.Duration) bool {
	return record.SyncRunning(staleAfter, time.Now())
}
