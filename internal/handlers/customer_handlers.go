package handlers

import (
	"net/http"

	"restro_backend/internal/models"
	"restro_backend/internal/services"
	"restro_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// CustomerHandler exposes customer management.
type CustomerHandler struct {
	customerService *services.CustomerService
}

// NewCustomerHandler creates a new CustomerHandler.
func NewCustomerHandler(customerService *services.CustomerService) *CustomerHandler {
	return &CustomerHandler{customerService: customerService}
}

// CreateCustomer handles POST /api/v1/customers
func (h *CustomerHandler) CreateCustomer(c *gin.Context) {
	var customer models.Customer
	if err := c.ShouldBindJSON(&customer); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	if err := h.customerService.CreateCustomer(&customer); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, customer)
}

// GetCustomers handles GET /api/v1/customers
func (h *CustomerHandler) GetCustomers(c *gin.Context) {
	page, pageSize := parsePagination(c)
	var search *string
	if raw := c.Query("search"); raw != "" {
		search = &raw
	}

	customers, total, err := h.customerService.GetCustomers(page, pageSize, search)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	paginatedResponse(c, customers, total, page, pageSize)
}

// GetCustomerByID handles GET /api/v1/customers/:customerId
func (h *CustomerHandler) GetCustomerByID(c *gin.Context) {
	id, ok := parseIDParam(c, "customerId")
	if !ok {
		return
	}
	customer, err := h.customerService.GetCustomerByID(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

// UpdateCustomer handles PUT /api/v1/customers/:customerId
func (h *CustomerHandler) UpdateCustomer(c *gin.Context) {
	id, ok := parseIDParam(c, "customerId")
	if !ok {
		return
	}

	var customer models.Customer
	if err := c.ShouldBindJSON(&customer); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}
	customer.ID = id

	if err := h.customerService.UpdateCustomer(&customer); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

// DeleteCustomer handles DELETE /api/v1/customers/:customerId
func (h *CustomerHandler) DeleteCustomer(c *gin.Context) {
	id, ok := parseIDParam(c, "customerId")
	if !ok {
		return
	}
	if err := h.customerService.DeleteCustomer(id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "customer deleted"})
}
