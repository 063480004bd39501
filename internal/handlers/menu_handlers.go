package handlers

import (
	"net/http"
	"strconv"

	"restro_backend/internal/models"
	"restro_backend/internal/services"
	"restro_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// MenuHandler exposes menu category and item management.
type MenuHandler struct {
	menuService *services.MenuService
}

// NewMenuHandler creates a new MenuHandler.
func NewMenuHandler(menuService *services.MenuService) *MenuHandler {
	return &MenuHandler{menuService: menuService}
}

// --- Categories ---

// CreateCategory handles POST /api/v1/menu/categories
func (h *MenuHandler) CreateCategory(c *gin.Context) {
	var category models.MenuCategory
	if err := c.ShouldBindJSON(&category); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	if err := h.menuService.CreateCategory(&category); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, category)
}

// GetCategories handles GET /api/v1/menu/categories
func (h *MenuHandler) GetCategories(c *gin.Context) {
	page, pageSize := parsePagination(c)
	categories, total, err := h.menuService.GetCategories(page, pageSize)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	paginatedResponse(c, categories, total, page, pageSize)
}

// GetCategoryByID handles GET /api/v1/menu/categories/:categoryId
func (h *MenuHandler) GetCategoryByID(c *gin.Context) {
	id, ok := parseIDParam(c, "categoryId")
	if !ok {
		return
	}
	category, err := h.menuService.GetCategoryByID(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

// UpdateCategory handles PUT /api/v1/menu/categories/:categoryId
func (h *MenuHandler) UpdateCategory(c *gin.Context) {
	id, ok := parseIDParam(c, "categoryId")
	if !ok {
		return
	}

	var category models.MenuCategory
	if err := c.ShouldBindJSON(&category); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}
	category.ID = id

	if err := h.menuService.UpdateCategory(&category); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

// DeleteCategory handles DELETE /api/v1/menu/categories/:categoryId
func (h *MenuHandler) DeleteCategory(c *gin.Context) {
	id, ok := parseIDParam(c, "categoryId")
	if !ok {
		return
	}
	if err := h.menuService.DeleteCategory(id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "category deleted"})
}

// --- Items ---

// CreateItem handles POST /api/v1/menu/items
func (h *MenuHandler) CreateItem(c *gin.Context) {
	var item models.MenuItem
	if err := c.ShouldBindJSON(&item); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	if err := h.menuService.CreateItem(&item); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

// GetItems handles GET /api/v1/menu/items
func (h *MenuHandler) GetItems(c *gin.Context) {
	page, pageSize := parsePagination(c)

	var categoryID *int64
	if raw := c.Query("category_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Invalid category_id", ""))
			return
		}
		categoryID = &id
	}
	var itemType *string
	if raw := c.Query("item_type"); raw != "" {
		itemType = &raw
	}

	items, total, err := h.menuService.GetItems(categoryID, itemType, page, pageSize)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	paginatedResponse(c, items, total, page, pageSize)
}

// GetItemByID handles GET /api/v1/menu/items/:itemId
func (h *MenuHandler) GetItemByID(c *gin.Context) {
	id, ok := parseIDParam(c, "itemId")
	if !ok {
		return
	}
	item, err := h.menuService.GetItemByID(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// UpdateItem handles PUT /api/v1/menu/items/:itemId
func (h *MenuHandler) UpdateItem(c *gin.Context) {
	id, ok := parseIDParam(c, "itemId")
	if !ok {
		return
	}

	var item models.MenuItem
	if err := c.ShouldBindJSON(&item); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}
	item.ID = id

	if err := h.menuService.UpdateItem(&item); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// DeleteItem handles DELETE /api/v1/menu/items/:itemId
func (h *MenuHandler) DeleteItem(c *gin.Context) {
	id, ok := parseIDParam(c, "itemId")
	if !ok {
		return
	}
	if err := h.menuService.DeleteItem(id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "item deleted"})
}
