package integration

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hotelier/backend/internal/domain/integration"
)

// redactedPlaceholder replaces credential material in stored payload snapshots
const redactedPlaceholder = "[REDACTED]"

// sensitiveKeys are payload keys whose values are always redacted, regardless
// of whether they match a known credential value
var sensitiveKeys = []string{
	"secret", "token", "password", "api_key", "apikey",
	"authorization", "credential", "access_key",
}

// Outcome is the terminal result of one operation, passed to the activity
// logger by the orchestrator and single-action service methods.
type Outcome struct {
	Status       integration.LogStatus
	RequestData  map[string]any
	ResponseData map[string]any
	ErrorMessage string
	ErrorCode    string
	Elapsed      time.Duration
	Processed    int
	Succeeded    int
	Failed       int
	Metadata     map[string]any
}

// ActivityLogger writes exactly one audit entry per terminal operation.
// Logging is fire-and-forget relative to the caller's primary result: a
// storage failure is reported operationally via zap and never changes the
// outcome of the operation being logged.
type ActivityLogger struct {
	logs integration.LogRepository
	log  *zap.Logger
}

// NewActivityLogger creates a new ActivityLogger
func NewActivityLogger(logs integration.LogRepository, log *zap.Logger) *ActivityLogger {
	return &ActivityLogger{logs: logs, log: log.Named("activity")}
}

// Record writes one audit entry for a terminal operation. Credential values
// are stripped from payload snapshots before storage.
func (a *ActivityLogger) Record(
	ctx context.Context,
	integrationID uuid.UUID,
	opType integration.OperationType,
	opName string,
	direction integration.Direction,
	credentials map[string]string,
	outcome Outcome,
) {
	entry := integration.NewLog(integrationID, opType, opName, direction)
	entry.Status = outcome.Status
	entry.RequestData = Redact(outcome.RequestData, credentials)
	entry.ResponseData = Redact(outcome.ResponseData, credentials)
	entry.ErrorMessage = outcome.ErrorMessage
	entry.ErrorCode = outcome.ErrorCode
	entry.ProcessingTime = outcome.Elapsed.Milliseconds()
	entry.RecordsProcessed = outcome.Processed
	entry.RecordsSuccess = outcome.Succeeded
	entry.RecordsFailed = outcome.Failed
	entry.Metadata = outcome.Metadata

	if err := entry.Validate(); err != nil {
		a.log.Error("refusing to write invalid audit entry",
			zap.String("integration_id", integrationID.String()),
			zap.String("operation", opName),
			zap.Error(err),
		)
		return
	}

	if err := a.logs.Append(ctx, entry); err != nil {
		a.log.Error("failed to write audit entry",
			zap.String("integration_id", integrationID.String()),
			zap.String("operation", opName),
			zap.Error(err),
		)
	}
}

// Redact returns a deep copy of payload with credential values and
// sensitive-keyed fields replaced. The original map is left untouched.
func Redact(payload map[string]any, credentials map[string]string) map[string]any {
	if payload == nil {
		return nil
	}
	secrets := make(map[string]struct{}, len(credentials))
	for _, v := range credentials {
		if v != "" {
			secrets[v] = struct{}{}
		}
	}
	redacted, _ := redactValue(payload, secrets).(map[string]any)
	return redacted
}

func redactValue(value any, secrets map[string]struct{}) any {
	switch v := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, inner := range v {
			if isSensitiveKey(key) {
				out[key] = redactedPlaceholder
				continue
			}
			out[key] = redactValue(inner, secrets)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, inner := range v {
			out[i] = redactValue(inner, secrets)
		}
		return out
	case string:
		if _, ok := secrets[v]; ok {
			return redactedPlaceholder
		}
		// Credential values embedded in longer strings (auth headers,
		// query strings) are scrubbed too.
		for secret := range secrets {
			if strings.Contains(v, secret) {
				v = strings.ReplaceAll(v, secret, redactedPlaceholder)
			}
		}
		return v
	default:
		return value
	}
}

func isSensitiveKey(key string) bool {
	lower := strings.ToLower(key)
	for _, s := range sensitiveKeys {
		if strings.Contains(lower, s) {
			return true
		}
	}
	return false
}
