// internal/domain/product/service.go
package product

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/your-org/perfumeria-backend/internal/config"
	"gorm.io/gorm"
)

// Service handles product business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new product service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// ProductListRequest represents product list query parameters
type ProductListRequest struct {
	Page         int     `form:"page,default=1"`
	Limit        int     `form:"limit,default=20"`
	Categoria    string  `form:"categoria"`
	Subcategoria string  `form:"subcategoria"`
	Estado       string  `form:"estado"`
	Search       string  `form:"search"`
	SortBy       string  `form:"sort_by,default=created_at"`
	SortOrder    string  `form:"sort_order,default=desc"`
	MinPrecio    float64 `form:"min_precio"`
	MaxPrecio    float64 `form:"max_precio"`
	Luxury       *bool   `form:"luxury"`
	Activo       *bool   `form:"activo"`
}

// ProductCreateRequest represents product creation data
type ProductCreateRequest struct {
	Nombre       string  `json:"nombre" binding:"required"`
	Marca        string  `json:"marca" binding:"required"`
	Precio       float64 `json:"precio" binding:"required,gt=0"`
	Categoria    string  `json:"categoria" binding:"required"`
	Subcategoria *string `json:"subcategoria"`
	Descripcion  string  `json:"descripcion"`
	Notas        string  `json:"notas"`
	ImagenURL    string  `json:"imagen_url"`
	ML           int     `json:"ml"`
	Stock        int     `json:"stock"`
	Estado       string  `json:"estado"`
	Descuento    *int    `json:"descuento"`
	Luxury       bool    `json:"luxury"`
	Activo       *bool   `json:"activo"`
}

// ProductUpdateRequest represents product update data
type ProductUpdateRequest struct {
	Nombre       *string  `json:"nombre"`
	Marca        *string  `json:"marca"`
	Precio       *float64 `json:"precio"`
	Categoria    *string  `json:"categoria"`
	Subcategoria *string  `json:"subcategoria"`
	Descripcion  *string  `json:"descripcion"`
	Notas        *string  `json:"notas"`
	ImagenURL    *string  `json:"imagen_url"`
	ML           *int     `json:"ml"`
	Stock        *int     `json:"stock"`
	Estado       *string  `json:"estado"`
	Descuento    *int     `json:"descuento"`
	Luxury       *bool    `json:"luxury"`
	Activo       *bool    `json:"activo"`
}

// ProductResponse represents product response with pagination
type ProductResponse struct {
	Products   []Product  `json:"products"`
	Pagination Pagination `json:"pagination"`
}

// Pagination represents pagination information
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

// GetProducts retrieves products with filtering and pagination
func (s *Service) GetProducts(req *ProductListRequest) (*ProductResponse, error) {
	var products []Product
	var total int64

	query := s.db.Model(&Product{})

	// Apply filters
	if req.Categoria != "" {
		query = query.Where("categoria = ?", strings.ToLower(req.Categoria))
	}

	if req.Subcategoria != "" {
		query = query.Where("subcategoria = ?", strings.ToLower(req.Subcategoria))
	}

	if req.Estado != "" {
		query = query.Where("estado = ?", strings.ToLower(req.Estado))
	}

	if req.Search != "" {
		search := "%" + req.Search + "%"
		query = query.Where("nombre ILIKE ? OR marca ILIKE ? OR notas ILIKE ?", search, search, search)
	}

	if req.MinPrecio > 0 {
		query = query.Where("precio >= ?", req.MinPrecio)
	}

	if req.MaxPrecio > 0 {
		query = query.Where("precio <= ?", req.MaxPrecio)
	}

	if req.Luxury != nil {
		query = query.Where("luxury = ?", *req.Luxury)
	}

	if req.Activo != nil {
		query = query.Where("activo = ?", *req.Activo)
	}

	// Count total records
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	// Apply sorting
	orderClause := s.buildOrderClause(req.SortBy, req.SortOrder)
	query = query.Order(orderClause)

	// Apply pagination
	offset := (req.Page - 1) * req.Limit
	if err := query.Offset(offset).Limit(req.Limit).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve products: %w", err)
	}

	// Calculate pagination info
	totalPages := int((total + int64(req.Limit) - 1) / int64(req.Limit))
	pagination := Pagination{
		Page:       req.Page,
		Limit:      req.Limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    req.Page < totalPages,
		HasPrev:    req.Page > 1,
	}

	return &ProductResponse{
		Products:   products,
		Pagination: pagination,
	}, nil
}

// GetProduct retrieves a single product by ID
func (s *Service) GetProduct(id uint) (*Product, error) {
	var product Product
	result := s.db.Where("id = ?", id).First(&product)

	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("product not found")
		}
		return nil, fmt.Errorf("failed to retrieve product: %w", result.Error)
	}

	return &product, nil
}

// GetProductByQRToken retrieves an active product by its QR token
func (s *Service) GetProductByQRToken(token string) (*Product, error) {
	var product Product
	result := s.db.Where("qr_token = ? AND activo = ?", token, true).First(&product)

	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("product not found")
		}
		return nil, fmt.Errorf("failed to retrieve product: %w", result.Error)
	}

	return &product, nil
}

// CreateProduct creates a new product
func (s *Service) CreateProduct(req *ProductCreateRequest) (*Product, error) {
	categoria := strings.ToLower(req.Categoria)
	if !IsValidCategoria(categoria) {
		return nil, fmt.Errorf("invalid categoria: %s", req.Categoria)
	}

	estado := strings.ToLower(req.Estado)
	if estado == "" {
		estado = EstadoDisponible
	}
	if !IsValidEstado(estado) {
		return nil, fmt.Errorf("invalid estado: %s", req.Estado)
	}

	// Check if the same perfume already exists
	var existing Product
	if result := s.db.Where("nombre = ? AND marca = ?", req.Nombre, req.Marca).First(&existing); result.Error == nil {
		return nil, fmt.Errorf("product %s by %s already exists", req.Nombre, req.Marca)
	}

	ml := req.ML
	if ml == 0 {
		ml = 100
	}

	activo := true
	if req.Activo != nil {
		activo = *req.Activo
	}

	product := Product{
		Nombre:       req.Nombre,
		Marca:        req.Marca,
		Precio:       req.Precio,
		Categoria:    categoria,
		Subcategoria: lowerPtr(req.Subcategoria),
		Descripcion:  req.Descripcion,
		Notas:        req.Notas,
		ImagenURL:    req.ImagenURL,
		ML:           ml,
		Stock:        req.Stock,
		Estado:       estado,
		Descuento:    req.Descuento,
		Luxury:       req.Luxury,
		Activo:       activo,
		QRToken:      uuid.New().String(),
	}

	if err := s.db.Create(&product).Error; err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return &product, nil
}

// UpdateProduct updates an existing product
func (s *Service) UpdateProduct(id uint, req *ProductUpdateRequest) (*Product, error) {
	var product Product
	result := s.db.Where("id = ?", id).First(&product)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("product not found")
		}
		return nil, fmt.Errorf("failed to find product: %w", result.Error)
	}

	// Update fields
	updates := make(map[string]interface{})

	if req.Nombre != nil {
		updates["nombre"] = *req.Nombre
	}
	if req.Marca != nil {
		updates["marca"] = *req.Marca
	}
	if req.Precio != nil {
		if *req.Precio <= 0 {
			return nil, fmt.Errorf("precio must be positive")
		}
		updates["precio"] = *req.Precio
	}
	if req.Categoria != nil {
		categoria := strings.ToLower(*req.Categoria)
		if !IsValidCategoria(categoria) {
			return nil, fmt.Errorf("invalid categoria: %s", *req.Categoria)
		}
		updates["categoria"] = categoria
	}
	if req.Subcategoria != nil {
		updates["subcategoria"] = strings.ToLower(*req.Subcategoria)
	}
	if req.Descripcion != nil {
		updates["descripcion"] = *req.Descripcion
	}
	if req.Notas != nil {
		updates["notas"] = *req.Notas
	}
	if req.ImagenURL != nil {
		updates["imagen_url"] = *req.ImagenURL
	}
	if req.ML != nil {
		if *req.ML < 1 || *req.ML > 1000 {
			return nil, fmt.Errorf("ml must be between 1 and 1000")
		}
		updates["ml"] = *req.ML
	}
	if req.Stock != nil {
		if *req.Stock < 0 {
			return nil, fmt.Errorf("stock cannot be negative")
		}
		updates["stock"] = *req.Stock
	}
	if req.Estado != nil {
		estado := strings.ToLower(*req.Estado)
		if !IsValidEstado(estado) {
			return nil, fmt.Errorf("invalid estado: %s", *req.Estado)
		}
		updates["estado"] = estado
	}
	if req.Descuento != nil {
		if *req.Descuento < 1 || *req.Descuento > 99 {
			return nil, fmt.Errorf("descuento must be between 1 and 99")
		}
		updates["descuento"] = *req.Descuento
	}
	if req.Luxury != nil {
		updates["luxury"] = *req.Luxury
	}
	if req.Activo != nil {
		updates["activo"] = *req.Activo
	}

	if err := s.db.Model(&product).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	s.db.First(&product, product.ID)

	return &product, nil
}

// DeleteProduct soft deletes a product
func (s *Service) DeleteProduct(id uint) error {
	result := s.db.Where("id = ?", id).Delete(&Product{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete product: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("product not found")
	}
	return nil
}

// AdjustStock sets the stock level of a product
func (s *Service) AdjustStock(productID uint, stock int) error {
	if stock < 0 {
		return fmt.Errorf("stock cannot be negative")
	}

	result := s.db.Model(&Product{}).
		Where("id = ?", productID).
		Update("stock", stock)

	if result.Error != nil {
		return fmt.Errorf("failed to adjust stock: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("product not found")
	}
	return nil
}

// buildOrderClause builds ORDER BY clause for sorting
func (s *Service) buildOrderClause(sortBy, sortOrder string) string {
	validSortFields := map[string]bool{
		"nombre":     true,
		"marca":      true,
		"precio":     true,
		"created_at": true,
		"updated_at": true,
		"stock":      true,
	}

	if !validSortFields[sortBy] {
		sortBy = "created_at"
	}

	if sortOrder != "asc" && sortOrder != "desc" {
		sortOrder = "desc"
	}

	return fmt.Sprintf("%s %s", sortBy, sortOrder)
}

func lowerPtr(s *string) *string {
	if s == nil {
		return nil
	}
	lowered := strings.ToLower(*s)
	return &lowered
}
