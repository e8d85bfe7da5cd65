package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"mlm_sales_backend/internal/leads/exports"
	"mlm_sales_backend/internal/leads/imports"
	"mlm_sales_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

const maxUploadBytes = 5 << 20

// ImportsHandler handles CSV import and lead export downloads.
type ImportsHandler struct {
	imports *imports.Service
	exports *exports.Service
}

// NewImportsHandler creates a new import/export handler.
func NewImportsHandler(importSvc *imports.Service, exportSvc *exports.Service) *ImportsHandler {
	return &ImportsHandler{imports: importSvc, exports: exportSvc}
}

// Preview accepts a multipart "file" and an optional JSON "mapping" field.
func (h *ImportsHandler) Preview(c *gin.Context) {
	upload, mapping, ok := readUpload(c)
	if !ok {
		return
	}

	result, err := h.imports.Preview(c.Request.Context(), upload, mapping)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *ImportsHandler) Import(c *gin.Context) {
	upload, mapping, ok := readUpload(c)
	if !ok {
		return
	}

	result, err := h.imports.Import(c.Request.Context(), upload, mapping)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, result)
}

func (h *ImportsHandler) Template(c *gin.Context) {
	c.Header("Content-Disposition", "attachment; filename=leads-template.csv")
	c.Data(http.StatusOK, "text/csv", imports.Template())
}

func (h *ImportsHandler) Export(c *gin.Context) {
	format := c.DefaultQuery("format", exports.FormatCSV)
	if format != exports.FormatCSV && format != exports.FormatXLSX {
		httpkit.Error(c, http.StatusBadRequest, "format must be csv or xlsx", nil)
		return
	}

	var buf bytes.Buffer
	if err := h.exports.Write(c.Request.Context(), format, &buf); httpkit.HandleError(c, err) {
		return
	}
	c.Header("Content-Disposition", "attachment; filename="+exports.Filename(format, time.Now()))
	c.Data(http.StatusOK, exports.ContentType(format), buf.Bytes())
}

func readUpload(c *gin.Context) (*bytes.Reader, map[string]string, bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "file is required", nil)
		return nil, nil, false
	}
	file, err := fileHeader.Open()
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "file could not be read", nil)
		return nil, nil, false
	}
	defer file.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(file); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "file could not be read", nil)
		return nil, nil, false
	}

	var mapping map[string]string
	if raw := c.PostForm("mapping"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &mapping); err != nil {
			httpkit.Error(c, http.StatusBadRequest, "mapping must be a JSON object", nil)
			return nil, nil, false
		}
	}
	return bytes.NewReader(buf.Bytes()), mapping, true
}
