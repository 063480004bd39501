package models

import "time"

// KitchenOrder is a kitchen order ticket (KOT). It tracks the kitchen
// workflow only; stock is deducted when the invoice for the ticket is
// confirmed, not here.
type KitchenOrder struct {
	ID          int64     `json:"id" db:"id"`
	KOTNumber   string    `json:"kot_number" db:"kot_number"`
	TableNumber *string   `json:"table_number,omitempty" db:"table_number"`
	Status      string    `json:"status" db:"status"`
	Notes       *string   `json:"notes,omitempty" db:"notes"`
	CreatedBy   *int64    `json:"created_by,omitempty" db:"created_by"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`

	Items []KitchenOrderItem `json:"items,omitempty"`
}

// KitchenOrderItem is one line on a kitchen order ticket.
type KitchenOrderItem struct {
	ID             int64     `json:"id" db:"id"`
	KitchenOrderID int64     `json:"kitchen_order_id" db:"kitchen_order_id"`
	MenuItemID     int64     `json:"menu_item_id" db:"menu_item_id" binding:"required"`
	Quantity       int       `json:"quantity" db:"quantity"`
	Notes          *string   `json:"notes,omitempty" db:"notes"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`

	ItemName *string `json:"item_name,omitempty"`
}

// KitchenOrderFilters narrows KOT listings for the kitchen screen.
type KitchenOrderFilters struct {
	Status      *string
	TableNumber *string
	Page        int
	PageSize    int
}
