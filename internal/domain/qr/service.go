// internal/domain/qr/service.go
package qr

import (
	"fmt"
	"time"

	qrcode "github.com/skip2/go-qrcode"
	"github.com/your-org/perfumeria-backend/internal/config"
	"github.com/your-org/perfumeria-backend/internal/domain/product"
	"gorm.io/gorm"
)

// Service handles QR-code product verification
type Service struct {
	db             *gorm.DB
	config         *config.Config
	productService *product.Service
}

// NewService creates a new QR service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:             db,
		config:         cfg,
		productService: product.NewService(db, cfg),
	}
}

// VerificationResult is returned to a customer scanning a product
type VerificationResult struct {
	Authentic bool             `json:"authentic"`
	Product   *product.Product `json:"product,omitempty"`
	ScannedAt time.Time        `json:"scanned_at"`
}

// ScanStats summarizes scan activity for one product
type ScanStats struct {
	ProductID  uint       `json:"product_id"`
	TotalScans int64      `json:"total_scans"`
	ScansToday int64      `json:"scans_today"`
	LastScan   *time.Time `json:"last_scan,omitempty"`
}

// Verify resolves a QR token to its product and records the scan. An
// unknown token is not an error for the caller: the result simply
// reports the product as not authentic.
func (s *Service) Verify(token, clientIP, userAgent string) (*VerificationResult, error) {
	prod, err := s.productService.GetProductByQRToken(token)
	if err != nil {
		return &VerificationResult{Authentic: false, ScannedAt: time.Now().UTC()}, nil
	}

	scan := Scan{
		ProductID: prod.ID,
		Token:     token,
		ClientIP:  clientIP,
		UserAgent: userAgent,
		ScannedAt: time.Now().UTC(),
	}
	if err := s.db.Create(&scan).Error; err != nil {
		return nil, fmt.Errorf("failed to record scan: %w", err)
	}

	return &VerificationResult{
		Authentic: true,
		Product:   prod,
		ScannedAt: scan.ScannedAt,
	}, nil
}

// Image renders the QR PNG pointing at the public verification URL
func (s *Service) Image(token string, size int) ([]byte, error) {
	if size <= 0 || size > 1024 {
		size = 256
	}

	url := fmt.Sprintf("%s/api/v1/verify/%s", s.config.App.PublicURL, token)
	png, err := qrcode.Encode(url, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("failed to generate QR code: %w", err)
	}
	return png, nil
}

// ImageForProduct renders the QR PNG for a product by its ID
func (s *Service) ImageForProduct(productID uint, size int) ([]byte, error) {
	prod, err := s.productService.GetProduct(productID)
	if err != nil {
		return nil, err
	}
	return s.Image(prod.QRToken, size)
}

// Stats returns scan counters for one product
func (s *Service) Stats(productID uint) (*ScanStats, error) {
	stats := &ScanStats{ProductID: productID}

	if err := s.db.Model(&Scan{}).
		Where("product_id = ?", productID).
		Count(&stats.TotalScans).Error; err != nil {
		return nil, fmt.Errorf("failed to count scans: %w", err)
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	if err := s.db.Model(&Scan{}).
		Where("product_id = ? AND scanned_at >= ?", productID, today).
		Count(&stats.ScansToday).Error; err != nil {
		return nil, fmt.Errorf("failed to count today's scans: %w", err)
	}

	var last Scan
	result := s.db.Where("product_id = ?", productID).
		Order("scanned_at DESC").
		First(&last)
	if result.Error == nil {
		stats.LastScan = &last.ScannedAt
	} else if result.Error != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("failed to load last scan: %w", result.Error)
	}

	return stats, nil
}
