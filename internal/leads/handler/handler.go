package handler

import (
	"net/http"

	"mlm_sales_backend/internal/leads/activity"
	"mlm_sales_backend/internal/leads/management"
	"mlm_sales_backend/internal/leads/transport"
	"mlm_sales_backend/platform/httpkit"
	"mlm_sales_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidLeadID    = "invalid lead ID"
)

type Handler struct {
	mgmt     *management.Service
	activity *activity.Service
	notes    *NotesHandler
	imports  *ImportsHandler
	val      *validator.Validator
}

func New(mgmt *management.Service, activitySvc *activity.Service, notes *NotesHandler, imports *ImportsHandler, val *validator.Validator) *Handler {
	return &Handler{mgmt: mgmt, activity: activitySvc, notes: notes, imports: imports, val: val}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/stages", h.Stages)
	rg.GET("/activity-options", h.ActivityOptions)
	rg.GET("/export", h.imports.Export)
	rg.GET("/import/template", h.imports.Template)
	rg.POST("/import/preview", h.imports.Preview)
	rg.POST("/import", h.imports.Import)
	rg.GET("/:id", h.GetByID)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
	rg.PATCH("/:id/status", h.UpdateStage)
	rg.POST("/:id/activities", h.AddActivity)
	rg.GET("/:id/notes", h.notes.List)
	rg.POST("/:id/notes", h.notes.Add)
	rg.PUT("/:id/notes/:noteId", h.notes.Update)
	rg.DELETE("/:id/notes/:noteId", h.notes.Delete)
}

func (h *Handler) List(c *gin.Context) {
	var req transport.ListLeadsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}

	result, err := h.mgmt.List(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) Create(c *gin.Context) {
	var req transport.CreateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}

	lead, err := h.mgmt.Create(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, lead)
}

func (h *Handler) GetByID(c *gin.Context) {
	id, ok := httpkit.ParseIntParam(c, "id", msgInvalidLeadID)
	if !ok {
		return
	}

	lead, err := h.mgmt.GetByID(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, lead)
}

func (h *Handler) Update(c *gin.Context) {
	id, ok := httpkit.ParseIntParam(c, "id", msgInvalidLeadID)
	if !ok {
		return
	}

	var req transport.UpdateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}

	lead, err := h.mgmt.Update(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, lead)
}

func (h *Handler) UpdateStage(c *gin.Context) {
	id, ok := httpkit.ParseIntParam(c, "id", msgInvalidLeadID)
	if !ok {
		return
	}

	var req transport.UpdateStageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}

	lead, err := h.mgmt.UpdateStage(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, lead)
}

func (h *Handler) Delete(c *gin.Context) {
	id, ok := httpkit.ParseIntParam(c, "id", msgInvalidLeadID)
	if !ok {
		return
	}

	if err := h.mgmt.Delete(c.Request.Context(), id); httpkit.HandleError(c, err) {
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) AddActivity(c *gin.Context) {
	id, ok := httpkit.ParseIntParam(c, "id", msgInvalidLeadID)
	if !ok {
		return
	}

	var req transport.AddActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}

	result, err := h.activity.Add(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, result)
}

func (h *Handler) Stages(c *gin.Context) {
	httpkit.OK(c, h.mgmt.Stages())
}

func (h *Handler) ActivityOptions(c *gin.Context) {
	httpkit.OK(c, h.activity.Options())
}
