package dto

import "net/http"

// Error codes returned by the integration API. Sync and action failures carry
// the stable codes the application layer assigns; transport-level input
// problems use the generic codes below.
const (
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "INTERNAL"
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "BAD_REQUEST"
	// ErrCodeValidation is used when request binding or validation fails
	ErrCodeValidation = "VALIDATION_ERROR"
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "NOT_FOUND"
	// ErrCodePayloadTooLarge is used when a request body exceeds the limit
	ErrCodePayloadTooLarge = "PAYLOAD_TOO_LARGE"
)

// errorCodeHTTPStatus maps service error codes to HTTP status codes.
// Provider-side failures map to 502: the request was valid, the upstream
// system was not.
var errorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:   http.StatusInternalServerError,
	ErrCodeBadRequest: http.StatusBadRequest,
	ErrCodeValidation: http.StatusBadRequest,
	ErrCodeNotFound:   http.StatusNotFound,

	ErrCodePayloadTooLarge: http.StatusRequestEntityTooLarge,

	"INTEGRATION_NOT_FOUND":     http.StatusNotFound,
	"CONFIG_MALFORMED":          http.StatusUnprocessableEntity,
	"INTEGRATION_INACTIVE":      http.StatusConflict,
	"SYNC_ALREADY_RUNNING":      http.StatusConflict,
	"UNKNOWN_COLLECTION":        http.StatusBadRequest,
	"RECORD_MALFORMED":          http.StatusBadRequest,
	"WEBHOOK_SIGNATURE_INVALID": http.StatusUnauthorized,
	"WEBHOOK_NOT_CONFIGURED":    http.StatusConflict,
	"PROVIDER_UNREACHABLE":      http.StatusBadGateway,
	"PROVIDER_REJECTED":         http.StatusBadGateway,
	"INVALID_PROVIDER_RESPONSE": http.StatusBadGateway,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Returns 500 Internal Server Error if the error code is not mapped.
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
