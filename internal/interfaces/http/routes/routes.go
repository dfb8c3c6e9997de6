// internal/interfaces/http/routes/routes.go
package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/your-org/perfumeria-backend/internal/config"
	"github.com/your-org/perfumeria-backend/internal/domain/importer"
	"github.com/your-org/perfumeria-backend/internal/interfaces/http/handlers"
	"github.com/your-org/perfumeria-backend/internal/interfaces/http/middleware"
	"github.com/your-org/perfumeria-backend/internal/pkg/email"
	"github.com/your-org/perfumeria-backend/internal/pkg/pdf"
	"github.com/your-org/perfumeria-backend/internal/store"
)

// SetupRoutes wires every API route group onto the router
func SetupRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config) {
	log := newLogger(cfg)

	SetupAuthRoutes(rg, db, cfg)
	SetupCatalogRoutes(rg, db, cfg)
	SetupCartRoutes(rg, redisClient, cfg, log)
	SetupCheckoutRoutes(rg, db, redisClient, cfg, log)
	SetupVerificationRoutes(rg, db, cfg)
	SetupAdminRoutes(rg, db, redisClient, cfg, log)
}

// SetupAuthRoutes sets up admin authentication routes
func SetupAuthRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	authHandler := handlers.NewAuthHandler(db, cfg)

	auth := rg.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.RefreshToken)
	}
}

// SetupCatalogRoutes sets up the public product catalog
func SetupCatalogRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	productHandler := handlers.NewProductHandler(db, cfg)

	products := rg.Group("/products")
	{
		products.GET("", productHandler.GetProducts)
		products.GET("/:id", productHandler.GetProduct)
	}
}

// SetupCartRoutes sets up the anonymous session cart
func SetupCartRoutes(rg *gin.RouterGroup, redisClient *redis.Client, cfg *config.Config, log *logrus.Logger) {
	cartHandler := handlers.NewCartHandler(redisClient, cfg, log)

	carts := rg.Group("/cart")
	{
		carts.GET("", cartHandler.GetCart)
		carts.DELETE("", cartHandler.ClearCart)
		carts.GET("/count", cartHandler.CountItems)
		carts.POST("/items", cartHandler.AddItem)
		carts.DELETE("/items/:id", cartHandler.RemoveItem)
		carts.PUT("/items/:id/increase", cartHandler.IncreaseQuantity)
		carts.PUT("/items/:id/decrease", cartHandler.DecreaseQuantity)
	}
}

// SetupCheckoutRoutes sets up public checkout
func SetupCheckoutRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config, log *logrus.Logger) {
	orderHandler := handlers.NewOrderHandler(db, redisClient, cfg, log)

	rg.POST("/checkout", orderHandler.Checkout)
}

// SetupVerificationRoutes sets up public QR verification
func SetupVerificationRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	qrHandler := handlers.NewQRHandler(db, cfg)

	rg.GET("/verify/:token", qrHandler.Verify)
}

// SetupAdminRoutes sets up the protected admin surface
func SetupAdminRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config, log *logrus.Logger) {
	productHandler := handlers.NewProductHandler(db, cfg)
	qrHandler := handlers.NewQRHandler(db, cfg)
	orderHandler := handlers.NewOrderHandler(db, redisClient, cfg, log)

	remote := store.NewGormStore(db)
	notifier := email.NewService(cfg, log)
	importService := importer.NewService(remote, redisClient, cfg, log, notifier)
	pdfService := pdf.NewService(cfg)
	importHandler := handlers.NewImportHandler(importService, pdfService, cfg)

	admin := rg.Group("/admin")
	admin.Use(middleware.AuthMiddleware(cfg))
	admin.Use(middleware.AdminMiddleware())
	{
		products := admin.Group("/products")
		{
			products.GET("", productHandler.AdminGetProducts)
			products.POST("", productHandler.CreateProduct)
			products.PUT("/:id", productHandler.UpdateProduct)
			products.DELETE("/:id", productHandler.DeleteProduct)
			products.PUT("/:id/stock", productHandler.AdjustStock)
			products.GET("/:id/qr.png", qrHandler.Image)
			products.GET("/:id/scans", qrHandler.Stats)
		}

		imports := admin.Group("/import")
		{
			imports.POST("", importHandler.Upload)
			imports.GET("/template", importHandler.DownloadTemplate)
			imports.GET("/:id/progress", importHandler.Progress)
			imports.POST("/:id/cancel", importHandler.Cancel)
			imports.POST("/:id/pause", importHandler.Pause)
			imports.POST("/:id/resume", importHandler.Resume)
			imports.GET("/:id/report", importHandler.Report)
		}

		orders := admin.Group("/orders")
		{
			orders.GET("", orderHandler.ListOrders)
			orders.GET("/:id", orderHandler.GetOrder)
		}
	}
}

// newLogger builds the shared application logger from config
func newLogger(cfg *config.Config) *logrus.Logger {
	log := logrus.New()

	if cfg.Logging.Format == "json" {
		log.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: time.RFC3339,
		})
	} else {
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.RFC3339,
		})
	}

	level, err := logrus.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	return log
}
