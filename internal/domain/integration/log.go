package integration

import (
	"time"

	"github.com/google/uuid"
)

// ---------------------------------------------------------------------------
// OperationType represents the kind of operation an audit entry records
// ---------------------------------------------------------------------------

// OperationType represents the kind of operation an audit entry records
type OperationType string

const (
	// OperationSync is a bulk reconciliation run
	OperationSync OperationType = "sync"
	// OperationWebhook is a provider-initiated inbound delivery
	OperationWebhook OperationType = "webhook"
	// OperationAPICall is a single outbound provider call
	OperationAPICall OperationType = "api_call"
	// OperationError is an operational error outside a normal operation
	OperationError OperationType = "error"
	// OperationTest is a connectivity dry run
	OperationTest OperationType = "test"
)

// IsValid returns true if the operation type is valid
func (o OperationType) IsValid() bool {
	switch o {
	case OperationSync, OperationWebhook, OperationAPICall, OperationError, OperationTest:
		return true
	default:
		return false
	}
}

// ---------------------------------------------------------------------------
// Direction represents the data flow direction of an operation
// ---------------------------------------------------------------------------

// Direction represents the data flow direction of an operation
type Direction string

const (
	// DirectionInbound is provider -> hotel platform
	DirectionInbound Direction = "inbound"
	// DirectionOutbound is hotel platform -> provider
	DirectionOutbound Direction = "outbound"
	// DirectionBidirectional covers operations exchanging data both ways
	DirectionBidirectional Direction = "bidirectional"
)

// ---------------------------------------------------------------------------
// LogStatus represents the outcome recorded on an audit entry
// ---------------------------------------------------------------------------

// LogStatus represents the outcome recorded on an audit entry
type LogStatus string

const (
	// LogStatusSuccess indicates the operation fully succeeded
	LogStatusSuccess LogStatus = "success"
	// LogStatusFailed indicates the operation failed
	LogStatusFailed LogStatus = "failed"
	// LogStatusPartial indicates a bulk run with both successes and failures
	LogStatusPartial LogStatus = "partial"
	// LogStatusPending indicates an operation recorded before completion
	LogStatusPending LogStatus = "pending"
)

// ---------------------------------------------------------------------------
// Log entity
// ---------------------------------------------------------------------------

// Log is one immutable audit record for one executed operation. Entries are
// append-only: corrections are new rows, never updates.
type Log struct {
	// ID is the log entry identifier
	ID uuid.UUID
	// IntegrationID references the integration the operation ran against
	IntegrationID uuid.UUID
	// OperationType classifies the operation
	OperationType OperationType
	// OperationName is the free-form operation label, e.g. "sync_menus"
	OperationName string
	// Direction is the data flow direction
	Direction Direction
	// Status is the recorded outcome
	Status LogStatus
	// RequestData is a redacted snapshot of the outbound payload
	RequestData map[string]any
	// ResponseData is a redacted snapshot of the provider response
	ResponseData map[string]any
	// ErrorMessage is the failure description, empty on success
	ErrorMessage string
	// ErrorCode is a stable machine-readable failure code, empty on success
	ErrorCode string
	// ProcessingTime is the elapsed operation time in milliseconds
	ProcessingTime int64
	// RecordsProcessed is the number of records attempted in a bulk run
	RecordsProcessed int
	// RecordsSuccess is the number of records that succeeded
	RecordsSuccess int
	// RecordsFailed is the number of records that failed
	RecordsFailed int
	// Metadata carries operation-specific detail (folded sub-steps,
	// per-record failure summaries)
	Metadata map[string]any
	// CreatedAt is when the entry was written
	CreatedAt time.Time
}

// NewLog creates a new audit entry for the given integration and operation
func NewLog(integrationID uuid.UUID, opType OperationType, opName string, direction Direction) *Log {
	return &Log{
		ID:            uuid.New(),
		IntegrationID: integrationID,
		OperationType: opType,
		OperationName: opName,
		Direction:     direction,
		Status:        LogStatusPending,
		CreatedAt:     time.Now(),
	}
}

// Validate checks the entry's internal invariants before it is persisted
func (l *Log) Validate() error {
	if l.IntegrationID == uuid.Nil {
		return ErrIntegrationNotFound
	}
	if !l.OperationType.IsValid() {
		return ErrConfigMalformed
	}
	if l.RecordsProcessed < 0 || l.RecordsSuccess < 0 || l.RecordsFailed < 0 {
		return ErrConfigMalformed
	}
	// For sync operations the counts must reconcile exactly
	if l.OperationType == OperationSync && l.RecordsProcessed != l.RecordsSuccess+l.RecordsFailed {
		return ErrConfigMalformed
	}
	return nil
}

// LogFilter narrows audit entry listings
type LogFilter struct {
	// OperationType filters to one operation type when set
	OperationType *OperationType
	// Status filters to one outcome when set
	Status *LogStatus
	// Since filters to entries created at or after the given time
	Since *time.Time
	// Page is the 1-indexed page number
	Page int
	// PageSize is the number of entries per page
	PageSize int
}
