// internal/domain/product/entity.go
package product

import (
	"time"

	"gorm.io/gorm"
)

// Valid values for the categoria column
const (
	CategoriaParaEllos = "para-ellos"
	CategoriaParaEllas = "para-ellas"
	CategoriaUnisex    = "unisex"
)

// Valid values for the estado column
const (
	EstadoDisponible = "disponible"
	EstadoAgotado    = "agotado"
	EstadoProximo    = "proximo"
	EstadoOferta     = "oferta"
)

// Product represents a perfume in the catalog
type Product struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Nombre       string         `gorm:"not null;size:255;index:idx_productos_marca_nombre,priority:2" json:"nombre"`
	Marca        string         `gorm:"not null;size:255;index:idx_productos_marca_nombre,priority:1" json:"marca"`
	Precio       float64        `gorm:"not null" json:"precio"`
	Categoria    string         `gorm:"not null;size:50;index" json:"categoria"`
	Subcategoria *string        `gorm:"size:50" json:"subcategoria"`
	Descripcion  string         `gorm:"type:text" json:"descripcion"`
	Notas        string         `gorm:"size:500" json:"notas"`
	ImagenURL    string         `gorm:"column:imagen_url;size:500" json:"imagen_url"`
	ML           int            `gorm:"column:ml;default:100" json:"ml"`
	Stock        int            `gorm:"default:0" json:"stock"`
	Estado       string         `gorm:"size:50;default:disponible" json:"estado"`
	Descuento    *int           `json:"descuento"`
	Luxury       bool           `gorm:"default:false" json:"luxury"`
	Activo       bool           `gorm:"default:true" json:"activo"`
	QRToken      string         `gorm:"column:qr_token;uniqueIndex;size:36" json:"qr_token"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName overrides the table name
func (Product) TableName() string {
	return "productos"
}

// ValidCategorias returns the accepted categoria values
func ValidCategorias() []string {
	return []string{CategoriaParaEllos, CategoriaParaEllas, CategoriaUnisex}
}

// ValidEstados returns the accepted estado values
func ValidEstados() []string {
	return []string{EstadoDisponible, EstadoAgotado, EstadoProximo, EstadoOferta}
}

// IsValidCategoria reports whether the value is an accepted categoria
func IsValidCategoria(value string) bool {
	for _, c := range ValidCategorias() {
		if c == value {
			return true
		}
	}
	return false
}

// IsValidEstado reports whether the value is an accepted estado
func IsValidEstado(value string) bool {
	for _, e := range ValidEstados() {
		if e == value {
			return true
		}
	}
	return false
}

// Business methods for Product

// IsInStock reports whether the product can be added to a cart
func (p *Product) IsInStock() bool {
	return p.Stock > 0 && p.Estado != EstadoAgotado
}

// HasDiscount reports whether a valid discount is set
func (p *Product) HasDiscount() bool {
	return p.Descuento != nil && *p.Descuento >= 1 && *p.Descuento <= 99
}

// FinalPrice returns the price after the discount, if any
func (p *Product) FinalPrice() float64 {
	if p.HasDiscount() {
		return p.Precio * (1 - float64(*p.Descuento)/100)
	}
	return p.Precio
}
