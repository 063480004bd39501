package router

import (
	"database/sql"

	"restro_backend/internal/handlers"
	"restro_backend/internal/middleware"
	"restro_backend/internal/repositories"
	"restro_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// Setup wires repositories, services and handlers and mounts all routes on
// the engine.
func Setup(engine *gin.Engine, db *sql.DB) {
	txManager := repositories.NewTxManager(db)

	authRepo := repositories.NewAuthRepository(db)
	menuRepo := repositories.NewMenuRepository(db)
	inventoryRepo := repositories.NewInventoryRepository(db)
	customerRepo := repositories.NewCustomerRepository(db)
	purchaseRepo := repositories.NewPurchaseRepository(db)
	orderRepo := repositories.NewOrderRepository(db)
	invoiceRepo := repositories.NewInvoiceRepository(db)
	settingRepo := repositories.NewSettingRepository(db)

	authService := services.NewAuthService(txManager, authRepo)
	menuService := services.NewMenuService(txManager, menuRepo)
	inventoryService := services.NewInventoryService(txManager, menuRepo, inventoryRepo)
	customerService := services.NewCustomerService(txManager, customerRepo)
	purchaseService := services.NewPurchaseService(txManager, purchaseRepo, inventoryService)
	orderService := services.NewOrderService(txManager, orderRepo, menuRepo)
	billingService := services.NewBillingService(txManager, invoiceRepo, menuRepo, orderRepo, settingRepo, inventoryService)

	authHandler := handlers.NewAuthHandler(authService)
	menuHandler := handlers.NewMenuHandler(menuService)
	inventoryHandler := handlers.NewInventoryHandler(inventoryService)
	customerHandler := handlers.NewCustomerHandler(customerService)
	purchaseHandler := handlers.NewPurchaseHandler(purchaseService)
	orderHandler := handlers.NewOrderHandler(orderService)
	billingHandler := handlers.NewBillingHandler(billingService)
	reportHandler := handlers.NewReportHandler(db)
	settingHandler := handlers.NewSettingHandler(txManager, settingRepo)

	apiV1 := engine.Group("/api/v1")

	SetupAuthRoutes(apiV1, authHandler)

	authenticated := apiV1.Group("")
	authenticated.Use(middleware.AuthMiddleware())
	{
		SetupUserRoutes(authenticated, authHandler)
		SetupMenuRoutes(authenticated, menuHandler)
		SetupInventoryRoutes(authenticated, inventoryHandler)
		SetupCustomerRoutes(authenticated, customerHandler)
		SetupPurchaseRoutes(authenticated, purchaseHandler)
		SetupKitchenOrderRoutes(authenticated, orderHandler)
		SetupBillingRoutes(authenticated, billingHandler)
		SetupReportRoutes(authenticated, reportHandler)
		SetupSettingRoutes(authenticated, settingHandler)
	}
}
