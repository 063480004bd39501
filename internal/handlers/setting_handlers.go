package handlers

import (
	"net/http"
	"strconv"

	"restro_backend/internal/models"
	"restro_backend/internal/repositories"
	"restro_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// SettingHandler exposes the admin-editable application settings.
type SettingHandler struct {
	txManager   repositories.TxManager
	settingRepo repositories.SettingRepository
}

// NewSettingHandler creates a new SettingHandler.
func NewSettingHandler(txManager repositories.TxManager, settingRepo repositories.SettingRepository) *SettingHandler {
	return &SettingHandler{txManager: txManager, settingRepo: settingRepo}
}

// GetSettings handles GET /api/v1/settings
func (h *SettingHandler) GetSettings(c *gin.Context) {
	settings, err := h.settingRepo.GetSettings()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": settings})
}

// GetSetting handles GET /api/v1/settings/:key
func (h *SettingHandler) GetSetting(c *gin.Context) {
	key := c.Param("key")
	setting, err := h.settingRepo.GetSetting(key)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, setting)
}

// UpsertSetting handles PUT /api/v1/settings/:key
func (h *SettingHandler) UpsertSetting(c *gin.Context) {
	key := c.Param("key")

	var req struct {
		Value string `json:"value" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	// The backend consumes tax_rate_percent itself; reject garbage before it
	// breaks invoice creation.
	if key == models.SettingTaxRatePercent {
		rate, err := strconv.ParseFloat(req.Value, 64)
		if err != nil || rate < 0 || rate > 100 {
			utils.RespondValidationFailed(c, "tax_rate_percent must be a number between 0 and 100")
			return
		}
	}

	err := h.txManager.WithTransaction(func(executor repositories.SQLExecutor) error {
		return h.settingRepo.UpsertSetting(executor, key, req.Value)
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"setting_key": key, "setting_value": req.Value})
}
