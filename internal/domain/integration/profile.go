package integration

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ---------------------------------------------------------------------------
// AuthMethod
// ---------------------------------------------------------------------------

// AuthMethod represents how outbound requests authenticate with the provider
type AuthMethod string

const (
	// AuthAPIKey sends the key in a provider-named header
	AuthAPIKey AuthMethod = "api_key"
	// AuthBearer sends a static bearer token
	AuthBearer AuthMethod = "bearer"
	// AuthJWT mints a short-lived HS256 token from the shared secret per
	// request, the scheme several PMS vendors use
	AuthJWT AuthMethod = "jwt"
)

// IsValid returns true if the auth method is valid
func (m AuthMethod) IsValid() bool {
	switch m {
	case AuthAPIKey, AuthBearer, AuthJWT:
		return true
	default:
		return false
	}
}

// ---------------------------------------------------------------------------
// ConnectionProfile
// ---------------------------------------------------------------------------

// ConnectionProfile is the resolved, typed, in-memory view of one
// integration's endpoints and credentials. It is resolved exactly once per
// run and reused for every request in that run.
type ConnectionProfile struct {
	// IntegrationID is the source integration record
	IntegrationID uuid.UUID
	// HotelID is the owning hotel
	HotelID uuid.UUID
	// Type is the integration family
	Type Type
	// Provider is the opaque vendor identifier; it doubles as the
	// external_source key on synchronized downstream entities
	Provider string
	// BaseURL is the provider API root
	BaseURL string
	// Endpoints holds per-operation path overrides keyed by operation name
	Endpoints map[string]string
	// AuthMethod selects the outbound authentication scheme
	AuthMethod AuthMethod
	// AuthHeader is the header name used by the api_key scheme
	AuthHeader string
	// ClientID identifies this hotel to the provider (jwt issuer)
	ClientID string
	// Secret is the API key, bearer token or JWT signing secret
	Secret string
	// WebhookSecret signs inbound webhook payloads
	WebhookSecret string
	// Cursor is the incremental-sync position from sync settings
	Cursor string
}

// EndpointFor returns the configured path override for the operation, or the
// adapter's default path when no override exists.
func (p *ConnectionProfile) EndpointFor(operation, fallback string) string {
	if path, ok := p.Endpoints[operation]; ok && path != "" {
		return path
	}
	return fallback
}

// profileConfigKeys are the reserved keys read from the integration config map
const (
	configKeyBaseURL    = "base_url"
	configKeyEndpoints  = "endpoints"
	configKeyAuthMethod = "auth_method"
	configKeyAuthHeader = "auth_header"
)

// credentialKeys are the reserved keys read from the credentials map
const (
	credentialKeyClientID = "client_id"
	credentialKeySecret   = "secret"
)

// DefaultAuthHeader is used by the api_key scheme when none is configured
const DefaultAuthHeader = "X-Api-Key"

// DecodeProfile builds a ConnectionProfile from a stored integration record.
// It is a pure read + decode with no side effects, and fails with
// ErrConfigMalformed on any shape violation.
func DecodeProfile(i *Integration) (*ConnectionProfile, error) {
	if i == nil {
		return nil, ErrIntegrationNotFound
	}

	rawBase, ok := i.Config[configKeyBaseURL]
	if !ok {
		return nil, fmt.Errorf("%w: missing %s", ErrConfigMalformed, configKeyBaseURL)
	}
	baseURL, ok := rawBase.(string)
	if !ok || baseURL == "" {
		return nil, fmt.Errorf("%w: %s must be a non-empty string", ErrConfigMalformed, configKeyBaseURL)
	}
	parsed, err := url.Parse(baseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("%w: %s is not an absolute URL", ErrConfigMalformed, configKeyBaseURL)
	}

	profile := &ConnectionProfile{
		IntegrationID: i.ID,
		HotelID:       i.HotelID,
		Type:          i.Type,
		Provider:      i.Provider,
		BaseURL:       strings.TrimRight(baseURL, "/"),
		Endpoints:     make(map[string]string),
		AuthMethod:    AuthAPIKey,
		AuthHeader:    DefaultAuthHeader,
		WebhookSecret: i.WebhookSecret,
		Cursor:        i.SyncSettings.Cursor,
	}

	if raw, ok := i.Config[configKeyEndpoints]; ok {
		endpoints, ok := raw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: %s must be a map", ErrConfigMalformed, configKeyEndpoints)
		}
		for op, rawPath := range endpoints {
			path, ok := rawPath.(string)
			if !ok {
				return nil, fmt.Errorf("%w: endpoint %q must be a string", ErrConfigMalformed, op)
			}
			profile.Endpoints[op] = path
		}
	}

	if raw, ok := i.Config[configKeyAuthMethod]; ok {
		method, ok := raw.(string)
		if !ok || !AuthMethod(method).IsValid() {
			return nil, fmt.Errorf("%w: unsupported auth method %v", ErrConfigMalformed, raw)
		}
		profile.AuthMethod = AuthMethod(method)
	}

	if raw, ok := i.Config[configKeyAuthHeader]; ok {
		header, ok := raw.(string)
		if !ok || header == "" {
			return nil, fmt.Errorf("%w: %s must be a non-empty string", ErrConfigMalformed, configKeyAuthHeader)
		}
		profile.AuthHeader = header
	}

	profile.ClientID = i.Credentials[credentialKeyClientID]
	profile.Secret = i.Credentials[credentialKeySecret]
	if profile.Secret == "" {
		return nil, fmt.Errorf("%w: missing credential %q", ErrConfigMalformed, credentialKeySecret)
	}
	if profile.AuthMethod == AuthJWT && profile.ClientID == "" {
		return nil, fmt.Errorf("%w: jwt auth requires credential %q", ErrConfigMalformed, credentialKeyClientID)
	}

	return profile, nil
}

// RequestTimeout is the fixed per-request timeout enforced by the executor
// regardless of adapter.
const RequestTimeout = 30 * time.Second
