package api

import (
	"invoice_system/internal/config"     // Application configuration
	"invoice_system/internal/middleware" // JWT auth gate
	"invoice_system/internal/services"   // Invoice creation protocol

	"github.com/gin-gonic/gin" // Gin web framework
	"gorm.io/gorm"             // GORM ORM library
)

// SetupRouter assembles the full route table. Extracted from main so tests
// can exercise the real engine.
func SetupRouter(db *gorm.DB, cfg *config.Config) *gin.Engine {
	r := gin.Default() // Gin router instance
	_ = r.SetTrustedProxies([]string{"127.0.0.1"})

	r.GET("/health", HealthHandler(db)) // Unauthenticated health probe

	authGate := middleware.JWTAuthMiddleware(cfg.JWTSecret, cfg.AuthDisabled)
	invoiceSvc := services.NewInvoiceService(db)

	// User routes
	users := r.Group("/api/users")
	users.POST("/register", RegisterHandler(db, cfg.JWTSecret))
	users.POST("/login", LoginHandler(db, cfg.JWTSecret))
	users.GET("/profile", authGate, ProfileHandler(db))

	// Everything below requires a valid token
	authed := r.Group("/api", authGate)

	clients := authed.Group("/clients")
	clients.POST("", CreateClientHandler(db))
	clients.GET("", ListClientsHandler(db))
	clients.GET("/:id", GetClientHandler(db))
	clients.PUT("/:id", UpdateClientHandler(db))
	clients.DELETE("/:id", DeleteClientHandler(db))

	billFrom := authed.Group("/bill-from-addresses")
	billFrom.POST("", CreateBillFromHandler(db))
	billFrom.GET("", ListBillFromHandler(db))
	billFrom.GET("/:id", GetBillFromHandler(db))
	billFrom.PUT("/:id", UpdateBillFromHandler(db))
	billFrom.DELETE("/:id", DeleteBillFromHandler(db))

	invoices := authed.Group("/invoices")
	invoices.POST("", CreateInvoiceHandler(invoiceSvc))
	invoices.GET("", ListInvoicesHandler(db))
	invoices.GET("/:id", GetInvoiceHandler(db))
	invoices.DELETE("/:id", DeleteInvoiceHandler(db))
	invoices.PUT("/:id/status", UpdateInvoiceStatusHandler(db))

	payments := authed.Group("/payment-details")
	payments.POST("", CreatePaymentDetailHandler(db))
	payments.GET("", ListPaymentDetailsHandler(db))
	payments.GET("/:id", GetPaymentDetailHandler(db))
	payments.PUT("/:id", UpdatePaymentDetailHandler(db))
	payments.DELETE("/:id", DeletePaymentDetailHandler(db))

	return r
}
