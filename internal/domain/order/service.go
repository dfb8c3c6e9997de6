// internal/domain/order/service.go
package order

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/your-org/perfumeria-backend/internal/config"
	"github.com/your-org/perfumeria-backend/internal/domain/cart"
	"gorm.io/gorm"
)

// Service handles checkout business logic
type Service struct {
	db          *gorm.DB
	cartService *cart.Service
	config      *config.Config
}

// NewService creates a new order service
func NewService(db *gorm.DB, cartService *cart.Service, cfg *config.Config) *Service {
	return &Service{
		db:          db,
		cartService: cartService,
		config:      cfg,
	}
}

// CheckoutRequest represents checkout contact data
type CheckoutRequest struct {
	Nombre   string `json:"nombre" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Telefono string `json:"telefono"`
}

// Checkout converts the session cart into an order and clears the
// cart. An empty or expired cart cannot be checked out.
func (s *Service) Checkout(ctx context.Context, sessionID string, req *CheckoutRequest) (*Order, error) {
	entry, err := s.cartService.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if entry.IsEmpty() {
		return nil, fmt.Errorf("cart is empty")
	}

	items, err := json.Marshal(entry.Items)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize cart items: %w", err)
	}

	order := Order{
		OrderNumber: fmt.Sprintf("PED-%s", uuid.New().String()[:8]),
		SessionID:   sessionID,
		Nombre:      req.Nombre,
		Email:       req.Email,
		Telefono:    req.Telefono,
		Items:       string(items),
		Total:       entry.CalculateTotals().SubTotal,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.db.Create(&order).Error; err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	// Checkout completion destroys the cart
	if err := s.cartService.Clear(ctx, sessionID); err != nil {
		return nil, err
	}

	return &order, nil
}

// GetOrder retrieves a single order by ID
func (s *Service) GetOrder(id uint) (*Order, error) {
	var order Order
	result := s.db.Where("id = ?", id).First(&order)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("order not found")
		}
		return nil, fmt.Errorf("failed to retrieve order: %w", result.Error)
	}
	return &order, nil
}

// ListOrders returns the most recent orders for the admin panel
func (s *Service) ListOrders(limit int) ([]Order, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	var orders []Order
	if err := s.db.Order("created_at DESC").Limit(limit).Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}
