// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/your-org/perfumeria-backend/internal/config"
	"github.com/your-org/perfumeria-backend/internal/domain/cart"
)

// SessionHeader carries the anonymous cart session ID chosen by the
// storefront. A missing or malformed value means a fresh session.
const SessionHeader = "X-Cart-Session"

// CartHandler handles session cart endpoints
type CartHandler struct {
	cartService *cart.Service
	config      *config.Config
}

// NewCartHandler creates a new cart handler
func NewCartHandler(redisClient *redis.Client, cfg *config.Config, log *logrus.Logger) *CartHandler {
	storage := cart.NewRedisStorage(redisClient)
	return &CartHandler{
		cartService: cart.NewService(storage, cfg, log),
		config:      cfg,
	}
}

// sessionID resolves the cart session from the request header,
// generating a fresh one when absent or invalid.
func (h *CartHandler) sessionID(c *gin.Context) string {
	raw := c.GetHeader(SessionHeader)
	if _, err := uuid.Parse(raw); err != nil {
		id := uuid.New().String()
		c.Header(SessionHeader, id)
		return id
	}
	c.Header(SessionHeader, raw)
	return raw
}

// GetCart handles GET /cart
func (h *CartHandler) GetCart(c *gin.Context) {
	sessionID := h.sessionID(c)

	entry, err := h.cartService.Get(c.Request.Context(), sessionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to load cart",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart retrieved successfully",
		"data":    h.cartService.Response(sessionID, entry),
	})
}

// AddItem handles POST /cart/items
func (h *CartHandler) AddItem(c *gin.Context) {
	sessionID := h.sessionID(c)

	var item cart.Item
	if err := c.ShouldBindJSON(&item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	entry, err := h.cartService.AddItem(c.Request.Context(), sessionID, item)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to add item to cart",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item added to cart",
		"data":    h.cartService.Response(sessionID, entry),
	})
}

// RemoveItem handles DELETE /cart/items/:id
func (h *CartHandler) RemoveItem(c *gin.Context) {
	sessionID := h.sessionID(c)

	itemID, ok := h.itemID(c)
	if !ok {
		return
	}

	entry, err := h.cartService.RemoveItem(c.Request.Context(), sessionID, itemID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item removed from cart",
		"data":    h.cartService.Response(sessionID, entry),
	})
}

// IncreaseQuantity handles PUT /cart/items/:id/increase
func (h *CartHandler) IncreaseQuantity(c *gin.Context) {
	sessionID := h.sessionID(c)

	itemID, ok := h.itemID(c)
	if !ok {
		return
	}

	entry, err := h.cartService.IncreaseQuantity(c.Request.Context(), sessionID, itemID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Quantity updated",
		"data":    h.cartService.Response(sessionID, entry),
	})
}

// DecreaseQuantity handles PUT /cart/items/:id/decrease
func (h *CartHandler) DecreaseQuantity(c *gin.Context) {
	sessionID := h.sessionID(c)

	itemID, ok := h.itemID(c)
	if !ok {
		return
	}

	entry, err := h.cartService.DecreaseQuantity(c.Request.Context(), sessionID, itemID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Quantity updated",
		"data":    h.cartService.Response(sessionID, entry),
	})
}

// ClearCart handles DELETE /cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	sessionID := h.sessionID(c)

	if err := h.cartService.Clear(c.Request.Context(), sessionID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to clear cart",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart cleared",
	})
}

// CountItems handles GET /cart/count
func (h *CartHandler) CountItems(c *gin.Context) {
	sessionID := h.sessionID(c)

	count, err := h.cartService.Count(c.Request.Context(), sessionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to count cart items",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart count retrieved",
		"data":    gin.H{"count": count},
	})
}

func (h *CartHandler) itemID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid item ID",
		})
		return 0, false
	}
	return uint(id), true
}
