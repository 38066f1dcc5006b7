package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/hotelier/backend/internal/domain/integration"
)

// ---------------------------------------------------------------------------
// Requests
// ---------------------------------------------------------------------------

// SyncRequest triggers one reconciliation run of a remote collection
type SyncRequest struct {
	Collection string `json:"collection" binding:"required"`
}

// GuestCheckItemRequest is one line on a posted guest check
type GuestCheckItemRequest struct {
	MenuItemExternalID string          `json:"menu_item_external_id" binding:"required"`
	Name               string          `json:"name"`
	Quantity           int             `json:"quantity" binding:"required,min=1"`
	UnitPrice          decimal.Decimal `json:"unit_price"`
}

// GuestCheckRequest posts a guest check to the hotel's POS
type GuestCheckRequest struct {
	Reference  string                  `json:"reference" binding:"required"`
	RoomNumber string                  `json:"room_number"`
	GuestName  string                  `json:"guest_name"`
	Items      []GuestCheckItemRequest `json:"items" binding:"required,min=1,dive"`
	Total      decimal.Decimal         `json:"total"`
	Currency   string                  `json:"currency"`
	Notes      string                  `json:"notes"`
}

// ToDomain converts the request to the domain value object
func (r *GuestCheckRequest) ToDomain() *integration.GuestCheck {
	items := make([]integration.GuestCheckItem, 0, len(r.Items))
	for _, item := range r.Items {
		items = append(items, integration.GuestCheckItem{
			MenuItemExternalID: item.MenuItemExternalID,
			Name:               item.Name,
			Quantity:           item.Quantity,
			UnitPrice:          item.UnitPrice,
		})
	}
	return &integration.GuestCheck{
		Reference:  r.Reference,
		RoomNumber: r.RoomNumber,
		GuestName:  r.GuestName,
		Items:      items,
		Total:      r.Total,
		Currency:   r.Currency,
		Notes:      r.Notes,
	}
}

// VoidCheckRequest voids a posted guest check
type VoidCheckRequest struct {
	Reason string `json:"reason"`
}

// CheckInRequest marks a reservation as arrived
type CheckInRequest struct {
	ReservationExternalID string     `json:"reservation_external_id" binding:"required"`
	RoomNumber            string     `json:"room_number" binding:"required"`
	ArrivedAt             *time.Time `json:"arrived_at"`
}

// ToDomain converts the request to the domain value object
func (r *CheckInRequest) ToDomain() *integration.CheckInRequest {
	req := &integration.CheckInRequest{
		ReservationExternalID: r.ReservationExternalID,
		RoomNumber:            r.RoomNumber,
	}
	if r.ArrivedAt != nil {
		req.ArrivedAt = *r.ArrivedAt
	}
	return req
}

// CheckOutRequest marks a reservation as departed
type CheckOutRequest struct {
	ReservationExternalID string          `json:"reservation_external_id" binding:"required"`
	DepartedAt            *time.Time      `json:"departed_at"`
	FolioTotal            decimal.Decimal `json:"folio_total"`
}

// ToDomain converts the request to the domain value object
func (r *CheckOutRequest) ToDomain() *integration.CheckOutRequest {
	req := &integration.CheckOutRequest{
		ReservationExternalID: r.ReservationExternalID,
		FolioTotal:            r.FolioTotal,
	}
	if r.DepartedAt != nil {
		req.DepartedAt = *r.DepartedAt
	}
	return req
}

// GuestRequestRequest forwards a concierge request to the PMS
type GuestRequestRequest struct {
	RoomNumber string `json:"room_number" binding:"required"`
	Category   string `json:"category"`
	Message    string `json:"message" binding:"required"`
	Priority   string `json:"priority" binding:"omitempty,oneof=low normal high urgent"`
}

// ToDomain converts the request to the domain value object
func (r *GuestRequestRequest) ToDomain() *integration.GuestRequest {
	return &integration.GuestRequest{
		RoomNumber: r.RoomNumber,
		Category:   r.Category,
		Message:    r.Message,
		Priority:   r.Priority,
	}
}

// LogListRequest narrows audit entry listings
type LogListRequest struct {
	ListRequest
	OperationType string `form:"operation_type" binding:"omitempty,oneof=sync webhook api_call error test"`
	Status        string `form:"status" binding:"omitempty,oneof=success failed partial pending"`
	Since         string `form:"since" binding:"omitempty"`
}

// ---------------------------------------------------------------------------
// Responses
// ---------------------------------------------------------------------------

// RunReportResponse summarizes one sync run
type RunReportResponse struct {
	Operation string                      `json:"operation"`
	Status    string                      `json:"status"`
	Processed int                         `json:"processed"`
	Succeeded int                         `json:"succeeded"`
	Failed    int                         `json:"failed"`
	Failures  []integration.RecordFailure `json:"failures,omitempty"`
	ElapsedMS int64                       `json:"elapsed_ms"`
}

// RunReportResponseFromDomain converts a domain run report
func RunReportResponseFromDomain(r *integration.RunReport) RunReportResponse {
	return RunReportResponse{
		Operation: r.Operation,
		Status:    string(r.Status),
		Processed: r.Processed,
		Succeeded: r.Succeeded,
		Failed:    r.Failed,
		Failures:  r.Failures,
		ElapsedMS: r.Elapsed.Milliseconds(),
	}
}

// TestReportResponse is the connectivity dry-run summary. Success is the
// single verdict: connection up and every capability probe passed.
type TestReportResponse struct {
	Success      bool                           `json:"success"`
	Connection   bool                           `json:"connection"`
	Capabilities []integration.CapabilityResult `json:"capabilities"`
	Error        string                         `json:"error,omitempty"`
}

// TestReportResponseFromDomain converts a domain test report
func TestReportResponseFromDomain(r *integration.TestReport) TestReportResponse {
	return TestReportResponse{
		Success:      r.Success(),
		Connection:   r.Connection,
		Capabilities: r.Capabilities,
		Error:        r.Error,
	}
}

// CheckResultResponse is the POS answer to a check operation
type CheckResultResponse struct {
	ExternalCheckID string          `json:"external_check_id"`
	State           string          `json:"state"`
	Total           decimal.Decimal `json:"total"`
	ClosedAt        *time.Time      `json:"closed_at,omitempty"`
}

// CheckResultResponseFromDomain converts a domain check result
func CheckResultResponseFromDomain(r *integration.CheckResult) CheckResultResponse {
	return CheckResultResponse{
		ExternalCheckID: r.ExternalCheckID,
		State:           string(r.State),
		Total:           r.Total,
		ClosedAt:        r.ClosedAt,
	}
}

// StayResultResponse is the PMS answer to a stay transition
type StayResultResponse struct {
	ReservationExternalID string `json:"reservation_external_id"`
	Status                string `json:"status"`
	RoomNumber            string `json:"room_number"`
}

// StayResultResponseFromDomain converts a domain stay result
func StayResultResponseFromDomain(r *integration.StayResult) StayResultResponse {
	return StayResultResponse{
		ReservationExternalID: r.ReservationExternalID,
		Status:                r.Status,
		RoomNumber:            r.RoomNumber,
	}
}

// GuestRequestResultResponse acknowledges a forwarded concierge request
type GuestRequestResultResponse struct {
	ExternalRequestID string `json:"external_request_id"`
	Status            string `json:"status"`
}

// RoomStatusResponse is the PMS live view of one room
type RoomStatusResponse struct {
	RoomNumber   string `json:"room_number"`
	Occupancy    string `json:"occupancy"`
	Housekeeping string `json:"housekeeping"`
	OutOfOrder   bool   `json:"out_of_order"`
}

// LogResponse is one audit entry
type LogResponse struct {
	ID               string         `json:"id"`
	IntegrationID    string         `json:"integration_id"`
	OperationType    string         `json:"operation_type"`
	OperationName    string         `json:"operation_name"`
	Direction        string         `json:"direction"`
	Status           string         `json:"status"`
	RequestData      map[string]any `json:"request_data,omitempty"`
	ResponseData     map[string]any `json:"response_data,omitempty"`
	ErrorMessage     string         `json:"error_message,omitempty"`
	ErrorCode        string         `json:"error_code,omitempty"`
	ProcessingTimeMS int64          `json:"processing_time_ms"`
	RecordsProcessed int            `json:"records_processed"`
	RecordsSuccess   int            `json:"records_success"`
	RecordsFailed    int            `json:"records_failed"`
	Metadata         map[string]any `json:"metadata,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
}

// LogResponseFromDomain converts a domain audit entry
func LogResponseFromDomain(l *integration.Log) LogResponse {
	return LogResponse{
		ID:               l.ID.String(),
		IntegrationID:    l.IntegrationID.String(),
		OperationType:    string(l.OperationType),
		OperationName:    l.OperationName,
		Direction:        string(l.Direction),
		Status:           string(l.Status),
		RequestData:      l.RequestData,
		ResponseData:     l.ResponseData,
		ErrorMessage:     l.ErrorMessage,
		ErrorCode:        l.ErrorCode,
		ProcessingTimeMS: l.ProcessingTime,
		RecordsProcessed: l.RecordsProcessed,
		RecordsSuccess:   l.RecordsSuccess,
		RecordsFailed:    l.RecordsFailed,
		Metadata:         l.Metadata,
		CreatedAt:        l.CreatedAt,
	}
}
