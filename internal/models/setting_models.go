package models

import "time"

// Setting keys the backend itself reads.
const (
	SettingTaxRatePercent = "tax_rate_percent"
	SettingRestaurantName = "restaurant_name"
)

// ApplicationSetting is a key/value configuration row editable by admins.
type ApplicationSetting struct {
	ID           int64     `json:"id" db:"id"`
	SettingKey   string    `json:"setting_key" db:"setting_key" binding:"required"`
	SettingValue string    `json:"setting_value" db:"setting_value" binding:"required"`
	Description  *string   `json:"description,omitempty" db:"description"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}
