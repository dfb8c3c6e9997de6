// internal/domain/qr/entity.go
package qr

import "time"

// Scan records one QR verification of a product
type Scan struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProductID uint      `gorm:"not null;index" json:"product_id"`
	Token     string    `gorm:"not null;size:36;index" json:"token"`
	ClientIP  string    `gorm:"size:45" json:"client_ip"`
	UserAgent string    `gorm:"size:255" json:"user_agent"`
	ScannedAt time.Time `json:"scanned_at"`
}

// TableName overrides the table name
func (Scan) TableName() string {
	return "qr_scans"
}
