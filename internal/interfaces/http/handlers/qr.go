// internal/interfaces/http/handlers/qr.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/your-org/perfumeria-backend/internal/config"
	"github.com/your-org/perfumeria-backend/internal/domain/qr"
)

// QRHandler handles product verification endpoints
type QRHandler struct {
	qrService *qr.Service
	config    *config.Config
}

// NewQRHandler creates a new QR handler
func NewQRHandler(db *gorm.DB, cfg *config.Config) *QRHandler {
	return &QRHandler{
		qrService: qr.NewService(db, cfg),
		config:    cfg,
	}
}

// Verify handles GET /verify/:token
func (h *QRHandler) Verify(c *gin.Context) {
	token := c.Param("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Verification token is required",
		})
		return
	}

	result, err := h.qrService.Verify(token, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to verify product",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Verification completed",
		"data":    result,
	})
}

// Image handles GET /admin/products/:id/qr.png
func (h *QRHandler) Image(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	size := 256
	if v := c.Query("size"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			size = parsed
		}
	}

	png, err := h.qrService.ImageForProduct(id, size)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}

// Stats handles GET /admin/products/:id/scans
func (h *QRHandler) Stats(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	stats, err := h.qrService.Stats(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Scan stats retrieved",
		"data":    stats,
	})
}
