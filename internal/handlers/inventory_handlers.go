package handlers

import (
	"net/http"
	"strconv"
	"time"

	"restro_backend/internal/middleware"
	"restro_backend/internal/models"
	"restro_backend/internal/services"
	"restro_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// InventoryHandler exposes manual stock edits, opening stock, the ledger and
// the daily snapshots.
type InventoryHandler struct {
	inventoryService *services.InventoryService
}

// NewInventoryHandler creates a new InventoryHandler.
func NewInventoryHandler(inventoryService *services.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventoryService: inventoryService}
}

// SetItemQuantity handles PUT /api/v1/inventory/items/:itemId/quantity
func (h *InventoryHandler) SetItemQuantity(c *gin.Context) {
	itemID, ok := parseIDParam(c, "itemId")
	if !ok {
		return
	}

	var req services.ManualStockUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}
	req.MenuItemID = itemID

	entry, err := h.inventoryService.SetItemQuantity(req, middleware.CurrentUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if entry == nil {
		c.JSON(http.StatusOK, gin.H{"message": "quantity unchanged, nothing recorded"})
		return
	}
	c.JSON(http.StatusOK, entry)
}

// SeedOpeningStock handles POST /api/v1/inventory/items/:itemId/opening-stock
func (h *InventoryHandler) SeedOpeningStock(c *gin.Context) {
	itemID, ok := parseIDParam(c, "itemId")
	if !ok {
		return
	}

	var req services.OpeningStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}
	req.MenuItemID = itemID

	entry, err := h.inventoryService.SeedOpeningStock(req, middleware.CurrentUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// ledgerQuery carries the filterable query params of the ledger listing.
type ledgerQuery struct {
	MenuItemID *int64  `form:"menu_item_id"`
	Category   *string `form:"category" binding:"omitempty,activitycategory"`
	ActorID    *int64  `form:"actor_id"`
}

// GetLedger handles GET /api/v1/inventory/ledger
func (h *InventoryHandler) GetLedger(c *gin.Context) {
	var q ledgerQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	filter := models.LedgerFilter{
		MenuItemID: q.MenuItemID,
		Category:   q.Category,
		ActorID:    q.ActorID,
	}
	filter.Page, filter.PageSize = parsePagination(c)
	var ok bool
	if filter.StartDate, filter.EndDate, ok = parseDateRange(c); !ok {
		return
	}

	entries, total, err := h.inventoryService.GetLedger(filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	paginatedResponse(c, entries, total, filter.Page, filter.PageSize)
}

// GetSnapshots handles GET /api/v1/inventory/snapshots
func (h *InventoryHandler) GetSnapshots(c *gin.Context) {
	filter := models.SnapshotFilter{}
	filter.Page, filter.PageSize = parsePagination(c)

	if raw := c.Query("menu_item_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Invalid menu_item_id", ""))
			return
		}
		filter.MenuItemID = &id
	}
	var ok bool
	if filter.StartDate, filter.EndDate, ok = parseDateRange(c); !ok {
		return
	}

	snapshots, total, err := h.inventoryService.GetSnapshots(filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	paginatedResponse(c, snapshots, total, filter.Page, filter.PageSize)
}

// RunDailySnapshots handles POST /api/v1/inventory/snapshots/run
func (h *InventoryHandler) RunDailySnapshots(c *gin.Context) {
	count, err := h.inventoryService.RecordAllDailySnapshots()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items_snapshotted": count})
}

// parseDateRange reads start_date/end_date query params as YYYY-MM-DD. The
// end date is inclusive.
func parseDateRange(c *gin.Context) (start, end *time.Time, ok bool) {
	if raw := c.Query("start_date"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Invalid start_date, expected YYYY-MM-DD", ""))
			return nil, nil, false
		}
		start = &t
	}
	if raw := c.Query("end_date"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Invalid end_date, expected YYYY-MM-DD", ""))
			return nil, nil, false
		}
		endOfDay := t.Add(24*time.Hour - time.Nanosecond)
		end = &endOfDay
	}
	return start, end, true
}
