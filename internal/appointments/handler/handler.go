package handler

import (
	"net/http"

	"mlm_sales_backend/internal/appointments/service"
	"mlm_sales_backend/internal/appointments/transport"
	"mlm_sales_backend/platform/httpkit"
	"mlm_sales_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

const (
	msgInvalidRequest       = "invalid request"
	msgValidationFailed     = "validation failed"
	msgInvalidAppointmentID = "invalid appointment ID"
)

// Handler handles HTTP requests for appointments
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new appointments handler
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes registers the appointment routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/upcoming", h.Upcoming)
	rg.GET("/types", h.Types)
	rg.GET("/statuses", h.Statuses)
	rg.GET("/:id", h.GetByID)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
	rg.PATCH("/:id/status", h.UpdateStatus)
	rg.POST("/:id/reschedule", h.Reschedule)
	rg.POST("/:id/complete", h.Complete)
	rg.POST("/:id/cancel", h.Cancel)
}

// List handles GET /api/v1/appointments. leadId narrows to one lead;
// start and end (RFC 3339) select an inclusive window.
func (h *Handler) List(c *gin.Context) {
	var req transport.ListAppointmentsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}

	ctx := c.Request.Context()
	var (
		result []transport.AppointmentResponse
		err    error
	)
	switch {
	case req.LeadID > 0:
		result, err = h.svc.GetByLeadID(ctx, req.LeadID)
	case req.Start != nil && req.End != nil:
		result, err = h.svc.GetByDateRange(ctx, *req.Start, *req.End)
	case req.Start != nil || req.End != nil:
		httpkit.Error(c, http.StatusBadRequest, "start and end must be given together", nil)
		return
	default:
		result, err = h.svc.GetAll(ctx)
	}
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) Upcoming(c *gin.Context) {
	result, err := h.svc.GetUpcoming(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) Types(c *gin.Context) {
	httpkit.OK(c, h.svc.Types())
}

func (h *Handler) Statuses(c *gin.Context) {
	httpkit.OK(c, h.svc.StatusOptions())
}

// Create handles POST /api/v1/appointments
func (h *Handler) Create(c *gin.Context) {
	var req transport.CreateAppointmentRequest
	if !h.bind(c, &req) {
		return
	}

	result, err := h.svc.Create(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, result)
}

func (h *Handler) GetByID(c *gin.Context) {
	id, ok := httpkit.ParseIntParam(c, "id", msgInvalidAppointmentID)
	if !ok {
		return
	}

	result, err := h.svc.GetByID(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) Update(c *gin.Context) {
	id, ok := httpkit.ParseIntParam(c, "id", msgInvalidAppointmentID)
	if !ok {
		return
	}
	var req transport.UpdateAppointmentRequest
	if !h.bind(c, &req) {
		return
	}

	result, err := h.svc.Update(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Delete handles DELETE /api/v1/appointments/:id and echoes the removed appointment.
func (h *Handler) Delete(c *gin.Context) {
	id, ok := httpkit.ParseIntParam(c, "id", msgInvalidAppointmentID)
	if !ok {
		return
	}

	result, err := h.svc.Delete(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	id, ok := httpkit.ParseIntParam(c, "id", msgInvalidAppointmentID)
	if !ok {
		return
	}
	var req transport.UpdateStatusRequest
	if !h.bind(c, &req) {
		return
	}

	result, err := h.svc.UpdateStatus(c.Request.Context(), id, req.Status)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) Reschedule(c *gin.Context) {
	id, ok := httpkit.ParseIntParam(c, "id", msgInvalidAppointmentID)
	if !ok {
		return
	}
	var req transport.RescheduleRequest
	if !h.bind(c, &req) {
		return
	}

	result, err := h.svc.Reschedule(c.Request.Context(), id, req.ScheduledDateTime)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) Complete(c *gin.Context) {
	id, ok := httpkit.ParseIntParam(c, "id", msgInvalidAppointmentID)
	if !ok {
		return
	}
	var req transport.CompleteRequest
	if !h.bindOptional(c, &req) {
		return
	}

	result, err := h.svc.Complete(c.Request.Context(), id, req.Notes)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) Cancel(c *gin.Context) {
	id, ok := httpkit.ParseIntParam(c, "id", msgInvalidAppointmentID)
	if !ok {
		return
	}
	var req transport.CancelRequest
	if !h.bindOptional(c, &req) {
		return
	}

	result, err := h.svc.Cancel(c.Request.Context(), id, req.Reason)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return false
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return false
	}
	return true
}

// bindOptional accepts an empty body for endpoints whose fields are all optional.
func (h *Handler) bindOptional(c *gin.Context, req any) bool {
	if c.Request.ContentLength == 0 {
		return true
	}
	return h.bind(c, req)
}
