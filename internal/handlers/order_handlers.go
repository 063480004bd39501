package handlers

import (
	"net/http"

	"restro_backend/internal/middleware"
	"restro_backend/internal/models"
	"restro_backend/internal/services"
	"restro_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// OrderHandler exposes kitchen order ticket management.
type OrderHandler struct {
	orderService *services.OrderService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(orderService *services.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// CreateKitchenOrder handles POST /api/v1/kitchen-orders
func (h *OrderHandler) CreateKitchenOrder(c *gin.Context) {
	var req services.CreateKitchenOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	order, err := h.orderService.CreateKitchenOrder(req, middleware.CurrentUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

// GetKitchenOrders handles GET /api/v1/kitchen-orders
func (h *OrderHandler) GetKitchenOrders(c *gin.Context) {
	filters := models.KitchenOrderFilters{}
	filters.Page, filters.PageSize = parsePagination(c)
	if raw := c.Query("status"); raw != "" {
		filters.Status = &raw
	}
	if raw := c.Query("table_number"); raw != "" {
		filters.TableNumber = &raw
	}

	orders, total, err := h.orderService.GetKitchenOrders(filters)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	paginatedResponse(c, orders, total, filters.Page, filters.PageSize)
}

// GetKitchenOrderByID handles GET /api/v1/kitchen-orders/:orderId
func (h *OrderHandler) GetKitchenOrderByID(c *gin.Context) {
	id, ok := parseIDParam(c, "orderId")
	if !ok {
		return
	}
	order, err := h.orderService.GetKitchenOrderByID(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// UpdateStatus handles PATCH /api/v1/kitchen-orders/:orderId/status
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "orderId")
	if !ok {
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	order, err := h.orderService.UpdateStatus(id, req.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}
