// internal/domain/order/entity.go
package order

import (
	"time"
)

// Order represents a completed checkout. Items are stored as the JSON
// snapshot of the cart at checkout time.
type Order struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	OrderNumber string    `gorm:"uniqueIndex;not null;size:40" json:"order_number"`
	SessionID   string    `gorm:"not null;size:36;index" json:"session_id"`
	Nombre      string    `gorm:"size:255" json:"nombre"`
	Email       string    `gorm:"size:255" json:"email"`
	Telefono    string    `gorm:"size:50" json:"telefono"`
	Items       string    `gorm:"type:text;not null" json:"items"`
	Total       float64   `gorm:"not null" json:"total"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName overrides the table name
func (Order) TableName() string {
	return "pedidos"
}
