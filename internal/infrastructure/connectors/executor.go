package connectors

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/hotelier/backend/internal/domain/integration"
)

// maxResponseSize limits the response body size to prevent memory exhaustion
const maxResponseSize = 10 * 1024 * 1024 // 10MB max response

// jwtTokenLifetime is the validity window of per-request minted tokens
const jwtTokenLifetime = 5 * time.Minute

// RequestExecutor performs authenticated HTTP requests against provider APIs.
// Every adapter call funnels through Execute, which enforces the fixed
// per-request timeout and translates transport and provider failures into the
// domain error taxonomy.
type RequestExecutor struct {
	client *http.Client
	log    *zap.Logger
}

// NewRequestExecutor creates a new RequestExecutor. The per-request timeout is
// enforced here, not by callers.
func NewRequestExecutor(log *zap.Logger) *RequestExecutor {
	return &RequestExecutor{
		client: &http.Client{Timeout: integration.RequestTimeout},
		log:    log.Named("executor"),
	}
}

// Execute sends one JSON request to the provider and returns the raw response
// body. Transport failures and timeouts surface as ErrProviderUnreachable;
// non-2xx provider answers surface as *ProviderError with the status and a
// body excerpt. Authentication follows the profile's auth method.
func (e *RequestExecutor) Execute(ctx context.Context, profile *integration.ConnectionProfile, method, path string, body any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("%w: marshal request body: %v", integration.ErrRecordMalformed, err)
		}
		reader = bytes.NewReader(raw)
	}

	ctx, cancel := context.WithTimeout(ctx, integration.RequestTimeout)
	defer cancel()

	url := profile.BaseURL + path
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", integration.ErrProviderUnreachable, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if err := e.authenticate(req, profile); err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := e.client.Do(req)
	if err != nil {
		e.log.Warn("provider request failed",
			zap.String("provider", profile.Provider),
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %v", integration.ErrProviderUnreachable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", integration.ErrProviderUnreachable, err)
	}

	e.log.Debug("provider request finished",
		zap.String("provider", profile.Provider),
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	// Anything outside 2xx is a rejection. The client follows redirects, so
	// a residual 3xx (e.g. 304) is an answer the adapters cannot use.
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &integration.ProviderError{
			StatusCode: resp.StatusCode,
			Body:       bodyExcerpt(respBody),
		}
	}

	return respBody, nil
}

// authenticate applies the profile's outbound auth scheme to the request.
// Credential material only ever lands on the request, never in logs.
func (e *RequestExecutor) authenticate(req *http.Request, profile *integration.ConnectionProfile) error {
	switch profile.AuthMethod {
	case integration.AuthAPIKey:
		header := profile.AuthHeader
		if header == "" {
			header = integration.DefaultAuthHeader
		}
		req.Header.Set(header, profile.Secret)
	case integration.AuthBearer:
		req.Header.Set("Authorization", "Bearer "+profile.Secret)
	case integration.AuthJWT:
		token, err := mintJWT(profile)
		if err != nil {
			return fmt.Errorf("%w: mint jwt: %v", integration.ErrConfigMalformed, err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	default:
		return fmt.Errorf("%w: unsupported auth method %q", integration.ErrConfigMalformed, profile.AuthMethod)
	}
	return nil
}

// mintJWT creates a short-lived HS256 token identifying the hotel to the
// provider, the scheme several PMS vendors require.
func mintJWT(profile *integration.ConnectionProfile) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"iss": profile.ClientID,
		"sub": profile.HotelID.String(),
		"iat": now.Unix(),
		"exp": now.Add(jwtTokenLifetime).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(profile.Secret))
}

// bodyExcerpt trims provider error bodies so oversized HTML error pages do
// not bloat audit entries.
func bodyExcerpt(body []byte) string {
	const limit = 2048
	if len(body) > limit {
		return string(body[:limit])
	}
	return string(body)
}
