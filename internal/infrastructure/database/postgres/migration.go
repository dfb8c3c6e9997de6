// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"fmt"
	"log"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/your-org/perfumeria-backend/internal/domain/order"
	"github.com/your-org/perfumeria-backend/internal/domain/product"
	"github.com/your-org/perfumeria-backend/internal/domain/qr"
	"github.com/your-org/perfumeria-backend/internal/domain/user"
)

// Migration handles database migrations
type Migration struct {
	db *gorm.DB
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB) *Migration {
	return &Migration{
		db: db,
	}
}

// RunAutoMigrations runs GORM auto-migrations for all models
func (m *Migration) RunAutoMigrations() error {
	log.Println("🔄 Running database auto-migrations...")

	models := []interface{}{
		&user.User{},
		&product.Product{},
		&qr.Scan{},
		&order.Order{},
	}

	for _, model := range models {
		log.Printf("Migrating model: %T", model)
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}

	log.Println("✅ Database auto-migrations completed successfully")
	return nil
}

// CreateIndexes creates additional indexes for better performance
func (m *Migration) CreateIndexes() error {
	log.Println("🔄 Creating additional database indexes...")

	indexes := []string{
		// Product indexes, matching the catalog filters
		"CREATE INDEX IF NOT EXISTS idx_productos_categoria_activo ON productos(categoria, activo)",
		"CREATE INDEX IF NOT EXISTS idx_productos_subcategoria ON productos(subcategoria)",
		"CREATE INDEX IF NOT EXISTS idx_productos_estado ON productos(estado)",
		"CREATE INDEX IF NOT EXISTS idx_productos_precio ON productos(precio)",
		"CREATE INDEX IF NOT EXISTS idx_productos_luxury ON productos(luxury, activo)",
		"CREATE INDEX IF NOT EXISTS idx_productos_created_at ON productos(created_at DESC)",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_productos_qr_token ON productos(qr_token)",
		"CREATE INDEX IF NOT EXISTS idx_productos_nombre_marca ON productos(nombre, marca)",

		// QR scan indexes
		"CREATE INDEX IF NOT EXISTS idx_qr_scans_product ON qr_scans(product_id)",
		"CREATE INDEX IF NOT EXISTS idx_qr_scans_scanned_at ON qr_scans(scanned_at DESC)",

		// Order indexes
		"CREATE INDEX IF NOT EXISTS idx_pedidos_order_number ON pedidos(order_number)",
		"CREATE INDEX IF NOT EXISTS idx_pedidos_email ON pedidos(email)",
		"CREATE INDEX IF NOT EXISTS idx_pedidos_created_at ON pedidos(created_at DESC)",

		// User indexes
		"CREATE INDEX IF NOT EXISTS idx_users_email ON users(email)",
	}

	successCount := 0
	failCount := 0

	for _, indexSQL := range indexes {
		if err := m.db.Exec(indexSQL).Error; err != nil {
			log.Printf("⚠️ Failed to create index: %v", err)
			failCount++
		} else {
			successCount++
		}
	}

	log.Printf("✅ Created %d indexes successfully (%d failed)", successCount, failCount)
	return nil
}

// SeedInitialData inserts initial data into the database
func (m *Migration) SeedInitialData() error {
	log.Println("🌱 Seeding initial data...")

	if err := m.seedAdminUser(); err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}

	if err := m.seedProducts(); err != nil {
		return fmt.Errorf("failed to seed products: %w", err)
	}

	log.Println("✅ Initial data seeded successfully")
	return nil
}

// seedAdminUser creates the default admin account
func (m *Migration) seedAdminUser() error {
	log.Println("👤 Seeding admin user...")

	var existing user.User
	result := m.db.Where("email = ?", "admin@perfumeria.example.com").First(&existing)
	if result.Error != nil {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte("admin123"), 10)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}

		adminUser := user.User{
			Email:        "admin@perfumeria.example.com",
			PasswordHash: string(hashedPassword),
			Nombre:       "Administrador",
			IsAdmin:      true,
		}

		if err := m.db.Create(&adminUser).Error; err != nil {
			return fmt.Errorf("failed to create admin user: %w", err)
		}

		log.Println("✅ Created admin user: admin@perfumeria.example.com (password: admin123)")
	} else {
		log.Printf("⏭️ Admin user already exists with ID: %d", existing.ID)
	}

	return nil
}

// seedProducts creates a small development catalog
func (m *Migration) seedProducts() error {
	var productCount int64
	m.db.Model(&product.Product{}).Count(&productCount)
	if productCount > 0 {
		log.Printf("⏭️ Products already seeded (%d found)", productCount)
		return nil
	}

	log.Println("🧴 Seeding products...")

	subArabes := "arabes"
	subDisenador := "disenador"
	descuento := 15

	products := []product.Product{
		{
			Nombre:       "Sauvage",
			Marca:        "Dior",
			Precio:       145.50,
			Categoria:    product.CategoriaParaEllos,
			Subcategoria: &subDisenador,
			Descripcion:  "Fragancia fresca y especiada",
			Notas:        "Bergamota, Pimienta, Ambroxan",
			ML:           100,
			Stock:        25,
			Estado:       product.EstadoDisponible,
			Activo:       true,
			QRToken:      uuid.New().String(),
		},
		{
			Nombre:       "Khamrah",
			Marca:        "Lattafa",
			Precio:       39.99,
			Categoria:    product.CategoriaUnisex,
			Subcategoria: &subArabes,
			Descripcion:  "Dulce y cálido, inspiración árabe",
			Notas:        "Canela, Dátiles, Vainilla",
			ML:           100,
			Stock:        40,
			Estado:       product.EstadoOferta,
			Descuento:    &descuento,
			Activo:       true,
			QRToken:      uuid.New().String(),
		},
		{
			Nombre:       "Good Girl",
			Marca:        "Carolina Herrera",
			Precio:       128.00,
			Categoria:    product.CategoriaParaEllas,
			Subcategoria: &subDisenador,
			Descripcion:  "Elegante y audaz",
			Notas:        "Jazmín, Cacao, Haba tonka",
			ML:           80,
			Stock:        0,
			Estado:       product.EstadoAgotado,
			Activo:       true,
			QRToken:      uuid.New().String(),
		},
	}

	for _, p := range products {
		if err := m.db.Create(&p).Error; err != nil {
			return fmt.Errorf("failed to seed product %s: %w", p.Nombre, err)
		}
	}

	log.Printf("✅ Seeded %d products", len(products))
	return nil
}

// GetTableInfo logs row counts for the main tables
func (m *Migration) GetTableInfo() {
	tables := []string{"productos", "pedidos", "qr_scans", "users"}

	log.Println("📊 Table row counts:")
	for _, table := range tables {
		var count int64
		m.db.Table(table).Count(&count)
		log.Printf("  %s: %d", table, count)
	}
}
