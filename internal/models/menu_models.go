package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// MenuCategory groups menu items (e.g. Starters, Beverages, Retail).
type MenuCategory struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name" binding:"required"`
	Description *string   `json:"description,omitempty" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// MenuItem is a sellable product. Items with TracksStock carry the live
// on-hand quantity; CurrentStock is nil for untracked items. CurrentStock is
// only ever mutated through the inventory service so every change lands in
// the ledger and the daily snapshot inside the same transaction.
type MenuItem struct {
	ID                int64            `json:"id" db:"id"`
	CategoryID        int64            `json:"category_id" db:"category_id" binding:"required"`
	Name              string           `json:"name" db:"name" binding:"required"`
	Description       *string          `json:"description,omitempty" db:"description"`
	Price             float64          `json:"price" db:"price" binding:"required,gt=0"`
	SKU               *string          `json:"sku,omitempty" db:"sku"`
	IsAvailable       bool             `json:"is_available" db:"is_available"`
	ItemType          string           `json:"item_type" db:"item_type" binding:"required"` // e.g. FOOD, BEVERAGE, RETAIL, SERVICE
	TracksStock       bool             `json:"tracks_stock" db:"tracks_stock"`
	CurrentStock      *decimal.Decimal `json:"current_stock,omitempty" db:"current_stock"`
	LowStockThreshold *decimal.Decimal `json:"low_stock_threshold,omitempty" db:"low_stock_threshold"`
	CreatedAt         time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at" db:"updated_at"`

	Category *MenuCategory `json:"category,omitempty"`
}
