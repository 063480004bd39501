package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Activity categories recorded in the inventory ledger. These values are part
// of the reporting contract and must match the CHECK constraint in the schema.
const (
	ActivityOpeningStock  = "opening_stock"
	ActivityPurchase      = "purchase"
	ActivitySale          = "sale"
	ActivityConsumption   = "consumption"
	ActivityAdjustment    = "adjustment"
	ActivityDailySnapshot = "daily_snapshot"
)

// Reference types describing where a quantity change originated.
const (
	ReferencePurchaseOrder = "purchase_order"
	ReferenceInvoice       = "invoice"
	ReferenceManual        = "manual"
	ReferenceSystem        = "system"
)

// IsValidActivityCategory reports whether s is a known ledger category.
func IsValidActivityCategory(s string) bool {
	switch s {
	case ActivityOpeningStock, ActivityPurchase, ActivitySale,
		ActivityConsumption, ActivityAdjustment, ActivityDailySnapshot:
		return true
	default:
		return false
	}
}

// InventoryLedgerEntry is an immutable record of one stock change for a menu
// item. Entries are never updated or deleted; corrections are compensating
// entries. For a given item ordered by creation, QuantityBefore of entry N+1
// equals QuantityAfter of entry N.
type InventoryLedgerEntry struct {
	ID             int64           `json:"id"`
	MenuItemID     int64           `json:"menu_item_id"`
	Category       string          `json:"category"`
	QuantityBefore decimal.Decimal `json:"quantity_before"`
	QuantityChange decimal.Decimal `json:"quantity_change"`
	QuantityAfter  decimal.Decimal `json:"quantity_after"`
	ReferenceType  *string         `json:"reference_type,omitempty"`
	ReferenceID    *int64          `json:"reference_id,omitempty"`
	Note           *string         `json:"note,omitempty"`
	ActorID        *int64          `json:"actor_id,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`

	MenuItem  *MenuItem `json:"menu_item,omitempty"`
	ActorName *string   `json:"actor_name,omitempty"`
}

// DailyStockSnapshot is the per-item, per-day rollup of inventory movement.
// OpeningStock is captured once when the row is created; ClosingStock is
// re-read from the live item quantity on every write so it self-heals from
// the source of truth instead of accumulating drift. Buckets hold unsigned
// cumulative volume, not net movement.
type DailyStockSnapshot struct {
	ID           int64           `json:"id"`
	MenuItemID   int64           `json:"menu_item_id"`
	SnapshotDate time.Time       `json:"snapshot_date"`
	OpeningStock decimal.Decimal `json:"opening_stock"`
	Purchases    decimal.Decimal `json:"purchases"`
	Sales        decimal.Decimal `json:"sales"`
	Adjustments  decimal.Decimal `json:"adjustments"`
	ClosingStock decimal.Decimal `json:"closing_stock"`
	MaxStock     decimal.Decimal `json:"max_stock"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`

	MenuItem *MenuItem `json:"menu_item,omitempty"`
}

// LedgerFilter narrows ledger queries for the inventory-track screens.
type LedgerFilter struct {
	MenuItemID *int64
	Category   *string
	ActorID    *int64
	StartDate  *time.Time
	EndDate    *time.Time
	Page       int
	PageSize   int
}

// SnapshotFilter narrows daily snapshot queries.
type SnapshotFilter struct {
	MenuItemID *int64
	StartDate  *time.Time
	EndDate    *time.Time
	Page       int
	PageSize   int
}
