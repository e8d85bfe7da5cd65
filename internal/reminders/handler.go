package reminders

import (
	"net/http"
	"time"

	"mlm_sales_backend/platform/httpkit"
	"mlm_sales_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

type SnoozeRequest struct {
	Days int `json:"days" validate:"min=0,max=90"`
}

type SnoozeResponse struct {
	LeadID       int       `json:"leadId"`
	SnoozedUntil time.Time `json:"snoozedUntil"`
}

type Handler struct {
	svc *Service
	val *validator.Validator
}

func NewHandler(svc *Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.GET("/priorities", h.Priorities)
	rg.POST("/:leadId/complete", h.Complete)
	rg.POST("/:leadId/snooze", h.Snooze)
}

func (h *Handler) List(c *gin.Context) {
	result, err := h.svc.List(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) Priorities(c *gin.Context) {
	httpkit.OK(c, PriorityStyles())
}

func (h *Handler) Complete(c *gin.Context) {
	leadID, ok := httpkit.ParseIntParam(c, "leadId", "invalid lead id")
	if !ok {
		return
	}
	if err := h.svc.Complete(c.Request.Context(), leadID); httpkit.HandleError(c, err) {
		return
	}
	c.Status(http.StatusNoContent)
}

// Snooze accepts an empty body, which snoozes for the default period.
func (h *Handler) Snooze(c *gin.Context) {
	leadID, ok := httpkit.ParseIntParam(c, "leadId", "invalid lead id")
	if !ok {
		return
	}
	var req SnoozeRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			httpkit.Error(c, http.StatusBadRequest, "invalid request", nil)
			return
		}
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", validator.FieldErrors(err))
		return
	}

	until, err := h.svc.Snooze(c.Request.Context(), leadID, req.Days)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, SnoozeResponse{LeadID: leadID, SnoozedUntil: until})
}
