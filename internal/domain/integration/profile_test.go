package integration

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validIntegration(t *testing.T) *Integration {
	t.Helper()
	i, err := NewIntegration(uuid.New(), TypePOS, "square")
	require.NoError(t, err)
	i.Config = map[string]any{
		"base_url": "https://pos.example.com/api/",
	}
	i.Credentials = map[string]string{
		"secret": "sk_test_123",
	}
	return i
}

func TestDecodeProfile(t *testing.T) {
	t.Run("decodes a minimal config", func(t *testing.T) {
		i := validIntegration(t)

		profile, err := DecodeProfile(i)
		require.NoError(t, err)

		assert.Equal(t, i.ID, profile.IntegrationID)
		assert.Equal(t, i.HotelID, profile.HotelID)
		assert.Equal(t, TypePOS, profile.Type)
		assert.Equal(t, "square", profile.Provider)
		// Trailing slash is normalized away
		assert.Equal(t, "https://pos.example.com/api", profile.BaseURL)
		assert.Equal(t, AuthAPIKey, profile.AuthMethod)
		assert.Equal(t, DefaultAuthHeader, profile.AuthHeader)
		assert.Equal(t, "sk_test_123", profile.Secret)
	})

	t.Run("decodes endpoint overrides", func(t *testing.T) {
		i := validIntegration(t)
		i.Config["endpoints"] = map[string]any{
			"menus": "/custom/menu-feed",
		}

		profile, err := DecodeProfile(i)
		require.NoError(t, err)
		assert.Equal(t, "/custom/menu-feed", profile.EndpointFor("menus", "/v1/menu/items"))
		assert.Equal(t, "/v1/checks", profile.EndpointFor("checks", "/v1/checks"))
	})

	t.Run("decodes auth overrides", func(t *testing.T) {
		i := validIntegration(t)
		i.Config["auth_method"] = "bearer"
		i.Config["auth_header"] = "X-Square-Token"

		profile, err := DecodeProfile(i)
		require.NoError(t, err)
		assert.Equal(t, AuthBearer, profile.AuthMethod)
		assert.Equal(t, "X-Square-Token", profile.AuthHeader)
	})

	t.Run("carries webhook secret and cursor", func(t *testing.T) {
		i := validIntegration(t)
		i.WebhookSecret = "whsec_abc"
		i.SyncSettings.Cursor = "2026-01-01T00:00:00Z"

		profile, err := DecodeProfile(i)
		require.NoError(t, err)
		assert.Equal(t, "whsec_abc", profile.WebhookSecret)
		assert.Equal(t, "2026-01-01T00:00:00Z", profile.Cursor)
	})

	t.Run("jwt auth requires client_id", func(t *testing.T) {
		i := validIntegration(t)
		i.Config["auth_method"] = "jwt"

		_, err := DecodeProfile(i)
		assert.ErrorIs(t, err, ErrConfigMalformed)

		i.Credentials["client_id"] = "hotel-42"
		profile, err := DecodeProfile(i)
		require.NoError(t, err)
		assert.Equal(t, AuthJWT, profile.AuthMethod)
		assert.Equal(t, "hotel-42", profile.ClientID)
	})

	t.Run("nil integration", func(t *testing.T) {
		_, err := DecodeProfile(nil)
		assert.ErrorIs(t, err, ErrIntegrationNotFound)
	})

	malformed := []struct {
		name   string
		mutate func(i *Integration)
	}{
		{"missing base_url", func(i *Integration) {
			delete(i.Config, "base_url")
		}},
		{"base_url wrong type", func(i *Integration) {
			i.Config["base_url"] = 42
		}},
		{"base_url not absolute", func(i *Integration) {
			i.Config["base_url"] = "/just/a/path"
		}},
		{"endpoints wrong type", func(i *Integration) {
			i.Config["endpoints"] = []any{"menus"}
		}},
		{"endpoint path wrong type", func(i *Integration) {
			i.Config["endpoints"] = map[string]any{"menus": 7}
		}},
		{"unsupported auth method", func(i *Integration) {
			i.Config["auth_method"] = "oauth1"
		}},
		{"empty auth header", func(i *Integration) {
			i.Config["auth_header"] = ""
		}},
		{"missing secret", func(i *Integration) {
			delete(i.Credentials, "secret")
		}},
	}

	for _, tc := range malformed {
		t.Run(tc.name, func(t *testing.T) {
			i := validIntegration(t)
			tc.mutate(i)

			_, err := DecodeProfile(i)
			assert.ErrorIs(t, err, ErrConfigMalformed)
		})
	}
}
