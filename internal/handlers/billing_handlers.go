package handlers

import (
	"net/http"
	"strconv"

	"restro_backend/internal/middleware"
	"restro_backend/internal/models"
	"restro_backend/internal/services"
	"restro_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// BillingHandler exposes the invoice lifecycle and payments.
type BillingHandler struct {
	billingService *services.BillingService
}

// NewBillingHandler creates a new BillingHandler.
func NewBillingHandler(billingService *services.BillingService) *BillingHandler {
	return &BillingHandler{billingService: billingService}
}

// CreateInvoice handles POST /api/v1/invoices
func (h *BillingHandler) CreateInvoice(c *gin.Context) {
	var req services.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	invoice, err := h.billingService.CreateInvoice(req, middleware.CurrentUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, invoice)
}

// GetInvoices handles GET /api/v1/invoices
func (h *BillingHandler) GetInvoices(c *gin.Context) {
	filters := models.InvoiceFilters{}
	filters.Page, filters.PageSize = parsePagination(c)
	if raw := c.Query("status"); raw != "" {
		filters.Status = &raw
	}
	if raw := c.Query("customer_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Invalid customer_id", ""))
			return
		}
		filters.CustomerID = &id
	}
	var ok bool
	if filters.StartDate, filters.EndDate, ok = parseDateRange(c); !ok {
		return
	}

	invoices, total, err := h.billingService.GetInvoices(filters)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	paginatedResponse(c, invoices, total, filters.Page, filters.PageSize)
}

// GetInvoiceByID handles GET /api/v1/invoices/:invoiceId
func (h *BillingHandler) GetInvoiceByID(c *gin.Context) {
	id, ok := parseIDParam(c, "invoiceId")
	if !ok {
		return
	}
	invoice, err := h.billingService.GetInvoiceByID(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, invoice)
}

// ConfirmInvoice handles POST /api/v1/invoices/:invoiceId/confirm
func (h *BillingHandler) ConfirmInvoice(c *gin.Context) {
	id, ok := parseIDParam(c, "invoiceId")
	if !ok {
		return
	}
	invoice, err := h.billingService.ConfirmInvoice(id, middleware.CurrentUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, invoice)
}

// CancelInvoice handles POST /api/v1/invoices/:invoiceId/cancel
func (h *BillingHandler) CancelInvoice(c *gin.Context) {
	id, ok := parseIDParam(c, "invoiceId")
	if !ok {
		return
	}
	invoice, err := h.billingService.CancelInvoice(id, middleware.CurrentUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, invoice)
}

// RefundInvoice handles POST /api/v1/invoices/:invoiceId/refund
func (h *BillingHandler) RefundInvoice(c *gin.Context) {
	id, ok := parseIDParam(c, "invoiceId")
	if !ok {
		return
	}
	invoice, err := h.billingService.RefundInvoice(id, middleware.CurrentUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, invoice)
}

// RecordPayment handles POST /api/v1/invoices/:invoiceId/payments
func (h *BillingHandler) RecordPayment(c *gin.Context) {
	id, ok := parseIDParam(c, "invoiceId")
	if !ok {
		return
	}

	var req services.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	payment, err := h.billingService.RecordPayment(id, req, middleware.CurrentUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, payment)
}
