package integration

import (
	"errors"
	"fmt"
)

// ---------------------------------------------------------------------------
// Configuration errors
// ---------------------------------------------------------------------------

var (
	// ErrIntegrationNotFound indicates no integration record exists for the reference
	ErrIntegrationNotFound = errors.New("integration: integration not found")
	// ErrConfigMalformed indicates the stored config or credentials cannot be decoded
	ErrConfigMalformed = errors.New("integration: malformed configuration")
	// ErrIntegrationInactive indicates the integration is not active and the
	// caller did not explicitly request a connectivity test
	ErrIntegrationInactive = errors.New("integration: integration is inactive")
	// ErrInvalidStatusTransition indicates a disallowed lifecycle transition
	ErrInvalidStatusTransition = errors.New("integration: invalid status transition")
)

// ---------------------------------------------------------------------------
// Transport errors
// ---------------------------------------------------------------------------

var (
	// ErrProviderUnreachable indicates a transport-level failure (connection
	// refused, timeout, DNS failure) talking to the provider
	ErrProviderUnreachable = errors.New("integration: provider unreachable")
	// ErrInvalidProviderResponse indicates the provider returned a payload that
	// does not match the expected shape (e.g. a non-list sync feed)
	ErrInvalidProviderResponse = errors.New("integration: invalid provider response")
)

// ProviderError represents a non-2xx HTTP response from a provider. The
// executor does not interpret the body; adapters decide what it means.
type ProviderError struct {
	StatusCode int
	Body       string
}

// Error implements the error interface
func (e *ProviderError) Error() string {
	return fmt.Sprintf("integration: provider rejected request with HTTP %d", e.StatusCode)
}

// ---------------------------------------------------------------------------
// Sync errors
// ---------------------------------------------------------------------------

var (
	// ErrSyncAlreadyRunning indicates another run holds the per-integration lock
	ErrSyncAlreadyRunning = errors.New("integration: sync already running")
	// ErrUnknownCollection indicates the adapter has no sync plan for the
	// requested remote collection
	ErrUnknownCollection = errors.New("integration: unknown sync collection")
	// ErrRecordMalformed indicates a single remote record failed validation or
	// transform; recovered per-record in bulk syncs, raised in single actions
	ErrRecordMalformed = errors.New("integration: malformed remote record")
)

// ---------------------------------------------------------------------------
// Webhook errors
// ---------------------------------------------------------------------------

var (
	// ErrWebhookSignatureInvalid indicates the inbound payload signature does
	// not match the integration's webhook secret
	ErrWebhookSignatureInvalid = errors.New("integration: invalid webhook signature")
	// ErrWebhookNotConfigured indicates the integration has no webhook secret
	ErrWebhookNotConfigured = errors.New("integration: webhook not configured")
)
