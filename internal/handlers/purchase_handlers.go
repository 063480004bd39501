package handlers

import (
	"net/http"

	"restro_backend/internal/middleware"
	"restro_backend/internal/models"
	"restro_backend/internal/services"
	"restro_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// PurchaseHandler exposes purchase order management.
type PurchaseHandler struct {
	purchaseService *services.PurchaseService
}

// NewPurchaseHandler creates a new PurchaseHandler.
func NewPurchaseHandler(purchaseService *services.PurchaseService) *PurchaseHandler {
	return &PurchaseHandler{purchaseService: purchaseService}
}

// CreatePurchaseOrder handles POST /api/v1/purchase-orders
func (h *PurchaseHandler) CreatePurchaseOrder(c *gin.Context) {
	var req services.CreatePurchaseOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	order, err := h.purchaseService.CreatePurchaseOrder(req, middleware.CurrentUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

// GetPurchaseOrders handles GET /api/v1/purchase-orders
func (h *PurchaseHandler) GetPurchaseOrders(c *gin.Context) {
	filters := models.PurchaseOrderFilters{}
	filters.Page, filters.PageSize = parsePagination(c)
	if raw := c.Query("status"); raw != "" {
		filters.Status = &raw
	}

	orders, total, err := h.purchaseService.GetPurchaseOrders(filters)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	paginatedResponse(c, orders, total, filters.Page, filters.PageSize)
}

// GetPurchaseOrderByID handles GET /api/v1/purchase-orders/:orderId
func (h *PurchaseHandler) GetPurchaseOrderByID(c *gin.Context) {
	id, ok := parseIDParam(c, "orderId")
	if !ok {
		return
	}
	order, err := h.purchaseService.GetPurchaseOrderByID(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// MarkOrdered handles POST /api/v1/purchase-orders/:orderId/order
func (h *PurchaseHandler) MarkOrdered(c *gin.Context) {
	id, ok := parseIDParam(c, "orderId")
	if !ok {
		return
	}
	order, err := h.purchaseService.MarkOrdered(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// ReceivePurchaseOrder handles POST /api/v1/purchase-orders/:orderId/receive
func (h *PurchaseHandler) ReceivePurchaseOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "orderId")
	if !ok {
		return
	}
	order, err := h.purchaseService.ReceivePurchaseOrder(id, middleware.CurrentUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// CancelPurchaseOrder handles POST /api/v1/purchase-orders/:orderId/cancel
func (h *PurchaseHandler) CancelPurchaseOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "orderId")
	if !ok {
		return
	}
	order, err := h.purchaseService.CancelPurchaseOrder(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// DeletePurchaseOrder handles DELETE /api/v1/purchase-orders/:orderId
func (h *PurchaseHandler) DeletePurchaseOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "orderId")
	if !ok {
		return
	}
	if err := h.purchaseService.DeletePurchaseOrder(id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "purchase order deleted"})
}
