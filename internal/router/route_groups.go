package router

import (
	"restro_backend/internal/handlers"
	"restro_backend/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupAuthRoutes mounts the public authentication routes.
func SetupAuthRoutes(apiGroup *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	authRoutes := apiGroup.Group("/auth")
	{
		authRoutes.POST("/login", authHandler.Login)
		authRoutes.POST("/refresh", authHandler.Refresh)
	}
}

// SetupUserRoutes mounts staff account management. /auth/me is open to any
// authenticated user; account administration is Admin only, including
// registration of new accounts.
func SetupUserRoutes(authenticatedGroup *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	authenticatedGroup.GET("/auth/me", authHandler.Me)

	userRoutes := authenticatedGroup.Group("/users")
	userRoutes.Use(middleware.RoleAuthMiddleware("Admin"))
	{
		userRoutes.POST("", authHandler.Register)
		userRoutes.GET("", authHandler.GetUsers)
		userRoutes.PATCH("/:userId/active", authHandler.SetUserActive)
	}
}

// SetupMenuRoutes mounts menu category and item management. Reads are open to
// all staff; writes need Admin or Manager.
func SetupMenuRoutes(authenticatedGroup *gin.RouterGroup, menuHandler *handlers.MenuHandler) {
	menuRoutes := authenticatedGroup.Group("/menu")
	{
		menuRoutes.GET("/categories", menuHandler.GetCategories)
		menuRoutes.GET("/categories/:categoryId", menuHandler.GetCategoryByID)
		menuRoutes.GET("/items", menuHandler.GetItems)
		menuRoutes.GET("/items/:itemId", menuHandler.GetItemByID)

		menuWrites := menuRoutes.Group("")
		menuWrites.Use(middleware.RoleAuthMiddleware("Admin", "Manager"))
		{
			menuWrites.POST("/categories", menuHandler.CreateCategory)
			menuWrites.PUT("/categories/:categoryId", menuHandler.UpdateCategory)
			menuWrites.DELETE("/categories/:categoryId", menuHandler.DeleteCategory)
			menuWrites.POST("/items", menuHandler.CreateItem)
			menuWrites.PUT("/items/:itemId", menuHandler.UpdateItem)
			menuWrites.DELETE("/items/:itemId", menuHandler.DeleteItem)
		}
	}
}

// SetupInventoryRoutes mounts stock edits, the ledger and the snapshots.
func SetupInventoryRoutes(authenticatedGroup *gin.RouterGroup, inventoryHandler *handlers.InventoryHandler) {
	inventoryRoutes := authenticatedGroup.Group("/inventory")
	inventoryRoutes.Use(middleware.RoleAuthMiddleware("Admin", "Manager"))
	{
		inventoryRoutes.PUT("/items/:itemId/quantity", inventoryHandler.SetItemQuantity)
		inventoryRoutes.POST("/items/:itemId/opening-stock", inventoryHandler.SeedOpeningStock)
		inventoryRoutes.GET("/ledger", inventoryHandler.GetLedger)
		inventoryRoutes.GET("/snapshots", inventoryHandler.GetSnapshots)
		inventoryRoutes.POST("/snapshots/run", inventoryHandler.RunDailySnapshots)
	}
}

// SetupCustomerRoutes mounts customer management.
func SetupCustomerRoutes(authenticatedGroup *gin.RouterGroup, customerHandler *handlers.CustomerHandler) {
	customerRoutes := authenticatedGroup.Group("/customers")
	customerRoutes.Use(middleware.RoleAuthMiddleware("Admin", "Manager", "Staff"))
	{
		customerRoutes.POST("", customerHandler.CreateCustomer)
		customerRoutes.GET("", customerHandler.GetCustomers)
		customerRoutes.GET("/:customerId", customerHandler.GetCustomerByID)
		customerRoutes.PUT("/:customerId", customerHandler.UpdateCustomer)
		customerRoutes.DELETE("/:customerId", customerHandler.DeleteCustomer)
	}
}

// SetupPurchaseRoutes mounts purchase order management.
func SetupPurchaseRoutes(authenticatedGroup *gin.RouterGroup, purchaseHandler *handlers.PurchaseHandler) {
	purchaseRoutes := authenticatedGroup.Group("/purchase-orders")
	purchaseRoutes.Use(middleware.RoleAuthMiddleware("Admin", "Manager"))
	{
		purchaseRoutes.POST("", purchaseHandler.CreatePurchaseOrder)
		purchaseRoutes.GET("", purchaseHandler.GetPurchaseOrders)
		purchaseRoutes.GET("/:orderId", purchaseHandler.GetPurchaseOrderByID)
		purchaseRoutes.POST("/:orderId/order", purchaseHandler.MarkOrdered)
		purchaseRoutes.POST("/:orderId/receive", purchaseHandler.ReceivePurchaseOrder)
		purchaseRoutes.POST("/:orderId/cancel", purchaseHandler.CancelPurchaseOrder)
		purchaseRoutes.DELETE("/:orderId", purchaseHandler.DeletePurchaseOrder)
	}
}

// SetupKitchenOrderRoutes mounts kitchen order tickets.
func SetupKitchenOrderRoutes(authenticatedGroup *gin.RouterGroup, orderHandler *handlers.OrderHandler) {
	kotRoutes := authenticatedGroup.Group("/kitchen-orders")
	kotRoutes.Use(middleware.RoleAuthMiddleware("Admin", "Manager", "Staff"))
	{
		kotRoutes.POST("", orderHandler.CreateKitchenOrder)
		kotRoutes.GET("", orderHandler.GetKitchenOrders)
		kotRoutes.GET("/:orderId", orderHandler.GetKitchenOrderByID)
		kotRoutes.PATCH("/:orderId/status", orderHandler.UpdateStatus)
	}
}

// SetupBillingRoutes mounts invoices and payments. Refunds need a manager.
func SetupBillingRoutes(authenticatedGroup *gin.RouterGroup, billingHandler *handlers.BillingHandler) {
	invoiceRoutes := authenticatedGroup.Group("/invoices")
	invoiceRoutes.Use(middleware.RoleAuthMiddleware("Admin", "Manager", "Staff"))
	{
		invoiceRoutes.POST("", billingHandler.CreateInvoice)
		invoiceRoutes.GET("", billingHandler.GetInvoices)
		invoiceRoutes.GET("/:invoiceId", billingHandler.GetInvoiceByID)
		invoiceRoutes.POST("/:invoiceId/confirm", billingHandler.ConfirmInvoice)
		invoiceRoutes.POST("/:invoiceId/cancel", billingHandler.CancelInvoice)
		invoiceRoutes.POST("/:invoiceId/payments", billingHandler.RecordPayment)

		refundRoutes := invoiceRoutes.Group("")
		refundRoutes.Use(middleware.RoleAuthMiddleware("Admin", "Manager"))
		{
			refundRoutes.POST("/:invoiceId/refund", billingHandler.RefundInvoice)
		}
	}
}

// SetupReportRoutes mounts the reporting screens.
func SetupReportRoutes(authenticatedGroup *gin.RouterGroup, reportHandler *handlers.ReportHandler) {
	reportRoutes := authenticatedGroup.Group("/reports")
	reportRoutes.Use(middleware.RoleAuthMiddleware("Admin", "Manager"))
	{
		reportRoutes.GET("/collections", reportHandler.GetCollectionReport)
		reportRoutes.GET("/sales", reportHandler.GetSalesReport)
		reportRoutes.GET("/inventory", reportHandler.GetInventoryReport)
		reportRoutes.GET("/dashboard", reportHandler.GetDashboardSummary)
	}
}

// SetupSettingRoutes mounts the application settings. Writes are Admin only.
func SetupSettingRoutes(authenticatedGroup *gin.RouterGroup, settingHandler *handlers.SettingHandler) {
	settingRoutes := authenticatedGroup.Group("/settings")
	{
		settingRoutes.GET("", settingHandler.GetSettings)
		settingRoutes.GET("/:key", settingHandler.GetSetting)

		settingWrites := settingRoutes.Group("")
		settingWrites.Use(middleware.RoleAuthMiddleware("Admin"))
		{
			settingWrites.PUT("/:key", settingHandler.UpsertSetting)
		}
	}
}
