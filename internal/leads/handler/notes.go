package handler

import (
	"net/http"

	"mlm_sales_backend/internal/leads/notes"
	"mlm_sales_backend/internal/leads/transport"
	"mlm_sales_backend/platform/httpkit"
	"mlm_sales_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

// NotesHandler handles HTTP requests for lead notes.
type NotesHandler struct {
	svc *notes.Service
	val *validator.Validator
}

// NewNotesHandler creates a new notes handler.
func NewNotesHandler(svc *notes.Service, val *validator.Validator) *NotesHandler {
	return &NotesHandler{svc: svc, val: val}
}

func (h *NotesHandler) List(c *gin.Context) {
	id, ok := httpkit.ParseIntParam(c, "id", msgInvalidLeadID)
	if !ok {
		return
	}

	items, err := h.svc.List(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"items": items})
}

func (h *NotesHandler) Add(c *gin.Context) {
	id, ok := httpkit.ParseIntParam(c, "id", msgInvalidLeadID)
	if !ok {
		return
	}

	var req transport.CreateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}

	note, err := h.svc.Add(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, note)
}

func (h *NotesHandler) Update(c *gin.Context) {
	id, ok := httpkit.ParseIntParam(c, "id", msgInvalidLeadID)
	if !ok {
		return
	}

	var req transport.UpdateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}

	note, err := h.svc.Update(c.Request.Context(), id, c.Param("noteId"), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, note)
}

func (h *NotesHandler) Delete(c *gin.Context) {
	id, ok := httpkit.ParseIntParam(c, "id", msgInvalidLeadID)
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id, c.Param("noteId")); httpkit.HandleError(c, err) {
		return
	}
	c.Status(http.StatusNoContent)
}
