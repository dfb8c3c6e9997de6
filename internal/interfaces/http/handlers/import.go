// internal/interfaces/http/handlers/import.go
package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/your-org/perfumeria-backend/internal/config"
	"github.com/your-org/perfumeria-backend/internal/domain/importer"
	"github.com/your-org/perfumeria-backend/internal/pkg/pdf"
)

// ImportHandler handles the CSV import endpoints
type ImportHandler struct {
	importService *importer.Service
	pdfService    *pdf.Service
	config        *config.Config
}

// NewImportHandler creates a new import handler
func NewImportHandler(importService *importer.Service, pdfService *pdf.Service, cfg *config.Config) *ImportHandler {
	return &ImportHandler{
		importService: importService,
		pdfService:    pdfService,
		config:        cfg,
	}
}

// DownloadTemplate handles GET /admin/import/template
func (h *ImportHandler) DownloadTemplate(c *gin.Context) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", importer.TemplateFilename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(importer.Template()))
}

// Upload handles POST /admin/import
func (h *ImportHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "CSV file is required",
		})
		return
	}

	if fileHeader.Size > h.config.Import.MaxFileSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{
			"error": fmt.Sprintf("file exceeds the %d byte limit", h.config.Import.MaxFileSize),
		})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Failed to read uploaded file",
		})
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Failed to read uploaded file",
		})
		return
	}

	opts := importer.Options{
		SkipErrors:     parseBoolForm(c, "skip_errors"),
		UpdateExisting: parseBoolForm(c, "update_existing"),
	}
	if v := c.PostForm("batch_size"); v != "" {
		if size, err := strconv.Atoi(v); err == nil && size > 0 {
			opts.BatchSize = size
		}
	}

	result, err := h.importService.Start(c.Request.Context(), string(content), opts)
	if err != nil {
		var formatErr *importer.FormatError
		var columnsErr *importer.MissingColumnsError
		if errors.As(err, &formatErr) || errors.As(err, &columnsErr) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": err.Error(),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to start import",
		})
		return
	}

	status := http.StatusAccepted
	if result.SessionID == "" {
		// Nothing valid to upload, report the rejections synchronously
		status = http.StatusUnprocessableEntity
	}

	c.JSON(status, gin.H{
		"message": "Import processed",
		"data":    result,
	})
}

// Progress handles GET /admin/import/:id/progress
func (h *ImportHandler) Progress(c *gin.Context) {
	progress, err := h.importService.Progress(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Progress retrieved",
		"data":    progress,
	})
}

// Cancel handles POST /admin/import/:id/cancel
func (h *ImportHandler) Cancel(c *gin.Context) {
	if err := h.importService.Cancel(c.Param("id")); err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Import cancelled",
	})
}

// Pause handles POST /admin/import/:id/pause
func (h *ImportHandler) Pause(c *gin.Context) {
	if err := h.importService.Pause(c.Param("id")); err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Import paused",
	})
}

// Resume handles POST /admin/import/:id/resume
func (h *ImportHandler) Resume(c *gin.Context) {
	if err := h.importService.Resume(c.Param("id")); err != nil {
		status := http.StatusNotFound
		if errors.Is(err, importer.ErrNotPaused) {
			status = http.StatusConflict
		}
		c.JSON(status, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Import resumed",
	})
}

// Report handles GET /admin/import/:id/report?format=json|text|pdf
func (h *ImportHandler) Report(c *gin.Context) {
	report, err := h.importService.Report(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": err.Error(),
		})
		return
	}

	switch c.DefaultQuery("format", "json") {
	case "text":
		filename := fmt.Sprintf("reporte_%s.txt", report.SessionID)
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
		c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(report.Text()))

	case "pdf":
		buf, err := h.pdfService.GenerateImportReport(report)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to generate PDF report",
			})
			return
		}
		filename := fmt.Sprintf("reporte_%s.pdf", report.SessionID)
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
		c.Data(http.StatusOK, "application/pdf", buf.Bytes())

	default:
		c.JSON(http.StatusOK, gin.H{
			"message": "Report retrieved",
			"data":    report,
		})
	}
}

// parseBoolForm reads a form field as a boolean, defaulting to false
func parseBoolForm(c *gin.Context, field string) bool {
	value, err := strconv.ParseBool(c.PostForm(field))
	return err == nil && value
}
