package models

import "github.com/shopspring/decimal"

// CollectionReportRow aggregates payments per day and method for the
// collection report screen.
type CollectionReportRow struct {
	Date          string  `json:"date"` // YYYY-MM-DD
	PaymentMethod string  `json:"payment_method"`
	PaymentsCount int     `json:"payments_count"`
	TotalAmount   float64 `json:"total_amount"`
}

// SalesReportRow aggregates confirmed/paid invoices per day.
type SalesReportRow struct {
	Date          string  `json:"date"` // YYYY-MM-DD
	InvoicesCount int     `json:"invoices_count"`
	GrossAmount   float64 `json:"gross_amount"`
	DiscountTotal float64 `json:"discount_total"`
	TaxTotal      float64 `json:"tax_total"`
	NetAmount     float64 `json:"net_amount"`
}

// InventoryReportItem is a current stock level row, flagged when at or below
// the reorder threshold.
type InventoryReportItem struct {
	ItemID            int64            `json:"item_id"`
	ItemName          string           `json:"item_name"`
	SKU               *string          `json:"sku,omitempty"`
	CategoryName      *string          `json:"category_name,omitempty"`
	CurrentStock      decimal.Decimal  `json:"current_stock"`
	LowStockThreshold *decimal.Decimal `json:"low_stock_threshold,omitempty"`
	LowStock          bool             `json:"low_stock"`
}

// DashboardSummary bundles the headline numbers for the landing screen.
type DashboardSummary struct {
	TotalSalesToday     float64 `json:"total_sales_today"`
	CollectionsToday    float64 `json:"collections_today"`
	OpenKitchenOrders   int     `json:"open_kitchen_orders"`
	UnpaidInvoicesCount int     `json:"unpaid_invoices_count"`
	UnpaidInvoicesTotal float64 `json:"unpaid_invoices_total"`
	LowStockItemsCount  int     `json:"low_stock_items_count"`
}
