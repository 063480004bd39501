package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Purchase order statuses.
const (
	PurchaseStatusDraft     = "draft"
	PurchaseStatusOrdered   = "ordered"
	PurchaseStatusReceived  = "received"
	PurchaseStatusCancelled = "cancelled"
)

// PurchaseOrder records stock bought from a supplier. Receiving the order
// posts a `purchase` ledger entry per stock-tracked line.
type PurchaseOrder struct {
	ID           int64      `json:"id" db:"id"`
	PONumber     string     `json:"po_number" db:"po_number"`
	SupplierName string     `json:"supplier_name" db:"supplier_name"`
	Status       string     `json:"status" db:"status"`
	Notes        *string    `json:"notes,omitempty" db:"notes"`
	CreatedBy    *int64     `json:"created_by,omitempty" db:"created_by"`
	OrderedAt    *time.Time `json:"ordered_at,omitempty" db:"ordered_at"`
	ReceivedAt   *time.Time `json:"received_at,omitempty" db:"received_at"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`

	Items []PurchaseOrderItem `json:"items,omitempty"`
}

// PurchaseOrderItem is one line of a purchase order.
type PurchaseOrderItem struct {
	ID              int64           `json:"id" db:"id"`
	PurchaseOrderID int64           `json:"purchase_order_id" db:"purchase_order_id"`
	MenuItemID      int64           `json:"menu_item_id" db:"menu_item_id" binding:"required"`
	Quantity        decimal.Decimal `json:"quantity" db:"quantity"`
	UnitCost        float64         `json:"unit_cost" db:"unit_cost"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`

	ItemName *string `json:"item_name,omitempty"`
}

// PurchaseOrderFilters narrows purchase order listings.
type PurchaseOrderFilters struct {
	Status   *string
	Page     int
	PageSize int
}
