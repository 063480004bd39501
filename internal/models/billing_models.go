package models

import "time"

// Invoice statuses.
const (
	InvoiceStatusDraft     = "draft"
	InvoiceStatusConfirmed = "confirmed"
	InvoiceStatusPaid      = "paid"
	InvoiceStatusCancelled = "cancelled"
	InvoiceStatusRefunded  = "refunded"
)

// Payment methods accepted at the till.
const (
	PaymentMethodCash   = "cash"
	PaymentMethodCard   = "card"
	PaymentMethodUPI    = "upi"
	PaymentMethodCredit = "credit"
)

// Invoice is a customer bill. Confirming it posts `sale` ledger entries for
// stock-tracked lines in the same transaction as the status change.
type Invoice struct {
	ID             int64      `json:"id" db:"id"`
	InvoiceNumber  string     `json:"invoice_number" db:"invoice_number"`
	CustomerID     *int64     `json:"customer_id,omitempty" db:"customer_id"`
	KitchenOrderID *int64     `json:"kitchen_order_id,omitempty" db:"kitchen_order_id"`
	Status         string     `json:"status" db:"status"`
	Subtotal       float64    `json:"subtotal" db:"subtotal"`
	DiscountAmount float64    `json:"discount_amount" db:"discount_amount"`
	TaxAmount      float64    `json:"tax_amount" db:"tax_amount"`
	TotalAmount    float64    `json:"total_amount" db:"total_amount"`
	Notes          *string    `json:"notes,omitempty" db:"notes"`
	CreatedBy      *int64     `json:"created_by,omitempty" db:"created_by"`
	ConfirmedAt    *time.Time `json:"confirmed_at,omitempty" db:"confirmed_at"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`

	CustomerName *string       `json:"customer_name,omitempty"`
	Items        []InvoiceItem `json:"items,omitempty"`
	Payments     []Payment     `json:"payments,omitempty"`
	AmountPaid   float64       `json:"amount_paid"`
}

// InvoiceItem is one billed line. ItemName and UnitPrice are captured at
// billing time so later menu edits do not rewrite history.
type InvoiceItem struct {
	ID         int64     `json:"id" db:"id"`
	InvoiceID  int64     `json:"invoice_id" db:"invoice_id"`
	MenuItemID int64     `json:"menu_item_id" db:"menu_item_id"`
	ItemName   string    `json:"item_name" db:"item_name"`
	Quantity   int       `json:"quantity" db:"quantity"`
	UnitPrice  float64   `json:"unit_price" db:"unit_price"`
	TotalPrice float64   `json:"total_price" db:"total_price"`
	Notes      *string   `json:"notes,omitempty" db:"notes"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// Payment is one collection against an invoice.
type Payment struct {
	ID            int64     `json:"id" db:"id"`
	InvoiceID     int64     `json:"invoice_id" db:"invoice_id"`
	Amount        float64   `json:"amount" db:"amount"`
	PaymentMethod string    `json:"payment_method" db:"payment_method"`
	ReceivedBy    *int64    `json:"received_by,omitempty" db:"received_by"`
	ReceivedAt    time.Time `json:"received_at" db:"received_at"`
	Notes         *string   `json:"notes,omitempty" db:"notes"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

// InvoiceFilters narrows invoice listings.
type InvoiceFilters struct {
	Status     *string
	CustomerID *int64
	StartDate  *time.Time
	EndDate    *time.Time
	Page       int
	PageSize   int
}
