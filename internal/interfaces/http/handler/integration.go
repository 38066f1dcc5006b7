package handler

import (
	"io"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appintegration "github.com/hotelier/backend/internal/application/integration"
	"github.com/hotelier/backend/internal/domain/integration"
	"github.com/hotelier/backend/internal/interfaces/http/dto"
)

// maxWebhookPayload bounds inbound webhook bodies
const maxWebhookPayload = 1 << 20 // 1MB

// IntegrationHandler exposes the sync engine over HTTP: run triggers,
// connectivity tests, webhook intake, provider actions and the audit trail.
type IntegrationHandler struct {
	BaseHandler
	service *appintegration.SyncService
}

// NewIntegrationHandler creates a new IntegrationHandler
func NewIntegrationHandler(service *appintegration.SyncService) *IntegrationHandler {
	return &IntegrationHandler{service: service}
}

// RegisterRoutes registers integration routes
func (h *IntegrationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	integrations := rg.Group("/integrations/:id")
	{
		integrations.POST("/sync", h.Sync)
		integrations.POST("/test", h.Test)
		integrations.POST("/webhook", h.Webhook)
		integrations.GET("/collections", h.Collections)
		integrations.GET("/logs", h.ListLogs)

		pos := integrations.Group("/pos")
		{
			pos.POST("/checks", h.PostGuestCheck)
			pos.GET("/checks/:checkID", h.GetCheckStatus)
			pos.POST("/checks/:checkID/void", h.VoidCheck)
		}

		pms := integrations.Group("/pms")
		{
			pms.POST("/check-in", h.PostCheckIn)
			pms.POST("/check-out", h.PostCheckOut)
			pms.POST("/requests", h.SendGuestRequest)
			pms.GET("/rooms/:number/status", h.GetRoomStatus)
		}
	}
}

// integrationID parses the :id path parameter
func (h *IntegrationHandler) integrationID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "invalid integration id")
		return uuid.Nil, false
	}
	return id, true
}

// Sync triggers one reconciliation run of a remote collection
func (h *IntegrationHandler) Sync(c *gin.Context) {
	id, ok := h.integrationID(c)
	if !ok {
		return
	}
	var req dto.SyncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	report, err := h.service.RunSync(c.Request.Context(), id, req.Collection)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.Success(c, dto.RunReportResponseFromDomain(report))
}

// Test runs a connectivity dry run without mutating any state
func (h *IntegrationHandler) Test(c *gin.Context) {
	id, ok := h.integrationID(c)
	if !ok {
		return
	}
	report, err := h.service.TestIntegration(c.Request.Context(), id)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.Success(c, dto.TestReportResponseFromDomain(report))
}

// Webhook receives a provider-initiated delivery. The signature is verified
// against the raw body before anything else happens.
func (h *IntegrationHandler) Webhook(c *gin.Context) {
	id, ok := h.integrationID(c)
	if !ok {
		return
	}
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookPayload))
	if err != nil {
		h.BadRequest(c, "unreadable payload")
		return
	}

	signature := c.GetHeader("X-Webhook-Signature")
	if err := h.service.HandleWebhook(c.Request.Context(), id, payload, signature); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.Success(c, gin.H{"received": true})
}

// Collections lists the remote collections available for the integration
func (h *IntegrationHandler) Collections(c *gin.Context) {
	id, ok := h.integrationID(c)
	if !ok {
		return
	}
	collections, err := h.service.Collections(c.Request.Context(), id)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.Success(c, gin.H{"collections": collections})
}

// ListLogs lists the integration's audit entries, newest first
func (h *IntegrationHandler) ListLogs(c *gin.Context) {
	id, ok := h.integrationID(c)
	if !ok {
		return
	}
	var req dto.LogListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	filter := integration.LogFilter{
		Page:     req.Page,
		PageSize: req.PageSize,
	}
	if req.OperationType != "" {
		opType := integration.OperationType(req.OperationType)
		filter.OperationType = &opType
	}
	if req.Status != "" {
		status := integration.LogStatus(req.Status)
		filter.Status = &status
	}
	if req.Since != "" {
		since, err := time.Parse(time.RFC3339, req.Since)
		if err != nil {
			h.BadRequest(c, "since must be RFC3339")
			return
		}
		filter.Since = &since
	}

	logs, total, err := h.service.ListLogs(c.Request.Context(), id, filter)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	items := make([]dto.LogResponse, 0, len(logs))
	for i := range logs {
		items = append(items, dto.LogResponseFromDomain(&logs[i]))
	}
	page, pageSize := req.Page, req.PageSize
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	h.SuccessWithMeta(c, items, total, page, pageSize)
}

// ---------------------------------------------------------------------------
// POS actions
// ---------------------------------------------------------------------------

// PostGuestCheck posts a guest check to the hotel's POS
func (h *IntegrationHandler) PostGuestCheck(c *gin.Context) {
	id, ok := h.integrationID(c)
	if !ok {
		return
	}
	var req dto.GuestCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	result, err := h.service.PostGuestCheck(c.Request.Context(), id, req.ToDomain())
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.Success(c, dto.CheckResultResponseFromDomain(result))
}

// GetCheckStatus retrieves the POS-side state of a posted check
func (h *IntegrationHandler) GetCheckStatus(c *gin.Context) {
	id, ok := h.integrationID(c)
	if !ok {
		return
	}
	result, err := h.service.GetCheckStatus(c.Request.Context(), id, c.Param("checkID"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.Success(c, dto.CheckResultResponseFromDomain(result))
}

// VoidCheck voids a previously posted check
func (h *IntegrationHandler) VoidCheck(c *gin.Context) {
	id, ok := h.integrationID(c)
	if !ok {
		return
	}
	var req dto.VoidCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	result, err := h.service.VoidCheck(c.Request.Context(), id, c.Param("checkID"), req.Reason)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.Success(c, dto.CheckResultResponseFromDomain(result))
}

// ---------------------------------------------------------------------------
// PMS actions
// ---------------------------------------------------------------------------

// PostCheckIn marks a reservation as arrived on the PMS
func (h *IntegrationHandler) PostCheckIn(c *gin.Context) {
	id, ok := h.integrationID(c)
	if !ok {
		return
	}
	var req dto.CheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	result, err := h.service.PostCheckIn(c.Request.Context(), id, req.ToDomain())
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.Success(c, dto.StayResultResponseFromDomain(result))
}

// PostCheckOut marks a reservation as departed on the PMS
func (h *IntegrationHandler) PostCheckOut(c *gin.Context) {
	id, ok := h.integrationID(c)
	if !ok {
		return
	}
	var req dto.CheckOutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	result, err := h.service.PostCheckOut(c.Request.Context(), id, req.ToDomain())
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.Success(c, dto.StayResultResponseFromDomain(result))
}

// SendGuestRequest forwards a concierge request to the PMS
func (h *IntegrationHandler) SendGuestRequest(c *gin.Context) {
	id, ok := h.integrationID(c)
	if !ok {
		return
	}
	var req dto.GuestRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	result, err := h.service.SendGuestRequest(c.Request.Context(), id, req.ToDomain())
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.Success(c, dto.GuestRequestResultResponse{
		ExternalRequestID: result.ExternalRequestID,
		Status:            result.Status,
	})
}

// GetRoomStatus retrieves the PMS live state of one room
func (h *IntegrationHandler) GetRoomStatus(c *gin.Context) {
	id, ok := h.integrationID(c)
	if !ok {
		return
	}
	result, err := h.service.GetRoomStatus(c.Request.Context(), id, c.Param("number"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.Success(c, dto.RoomStatusResponse{
		RoomNumber:   result.RoomNumber,
		Occupancy:    result.Occupancy,
		Housekeeping: result.Housekeeping,
		OutOfOrder:   result.OutOfOrder,
	})
}
