package handlers

import (
	"database/sql"
	"net/http"
	"time"

	"restro_backend/internal/models"
	"restro_backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// ReportHandler serves the reporting screens straight off the database.
// Reports are read-only aggregations, so there is no service layer between
// the handler and SQL.
type ReportHandler struct {
	db *sql.DB
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(db *sql.DB) *ReportHandler {
	return &ReportHandler{db: db}
}

// reportRange reads the start_date/end_date query params and defaults to the
// last 30 days.
func reportRange(c *gin.Context) (start, end time.Time, ok bool) {
	now := time.Now()
	start = now.AddDate(0, 0, -30)
	end = now

	if raw := c.Query("start_date"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Invalid start_date, expected YYYY-MM-DD", ""))
			return start, end, false
		}
		start = t
	}
	if raw := c.Query("end_date"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Invalid end_date, expected YYYY-MM-DD", ""))
			return start, end, false
		}
		end = t.Add(24*time.Hour - time.Nanosecond)
	}
	return start, end, true
}

// GetCollectionReport handles GET /api/v1/reports/collections
func (h *ReportHandler) GetCollectionReport(c *gin.Context) {
	start, end, ok := reportRange(c)
	if !ok {
		return
	}

	query := `SELECT TO_CHAR(received_at::date, 'YYYY-MM-DD') AS day, payment_method,
	            COUNT(*) AS payments_count, COALESCE(SUM(amount), 0) AS total_amount
	          FROM payments
	          WHERE received_at BETWEEN $1 AND $2
	          GROUP BY day, payment_method
	          ORDER BY day DESC, payment_method`
	rows, err := h.db.Query(query, start, end)
	if err != nil {
		utils.LogError(err, "collection report query failed")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to build collection report", ""))
		return
	}
	defer rows.Close()

	report := []models.CollectionReportRow{}
	for rows.Next() {
		var row models.CollectionReportRow
		if err := rows.Scan(&row.Date, &row.PaymentMethod, &row.PaymentsCount, &row.TotalAmount); err != nil {
			utils.LogError(err, "collection report scan failed")
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to build collection report", ""))
			return
		}
		report = append(report, row)
	}
	c.JSON(http.StatusOK, gin.H{"data": report})
}

// GetSalesReport handles GET /api/v1/reports/sales
func (h *ReportHandler) GetSalesReport(c *gin.Context) {
	start, end, ok := reportRange(c)
	if !ok {
		return
	}

	query := `SELECT TO_CHAR(confirmed_at::date, 'YYYY-MM-DD') AS day,
	            COUNT(*) AS invoices_count,
	            COALESCE(SUM(subtotal), 0) AS gross_amount,
	            COALESCE(SUM(discount_amount), 0) AS discount_total,
	            COALESCE(SUM(tax_amount), 0) AS tax_total,
	            COALESCE(SUM(total_amount), 0) AS net_amount
	          FROM invoices
	          WHERE status IN ('confirmed', 'paid')
	            AND confirmed_at BETWEEN $1 AND $2
	          GROUP BY day
	          ORDER BY day DESC`
	rows, err := h.db.Query(query, start, end)
	if err != nil {
		utils.LogError(err, "sales report query failed")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to build sales report", ""))
		return
	}
	defer rows.Close()

	report := []models.SalesReportRow{}
	for rows.Next() {
		var row models.SalesReportRow
		if err := rows.Scan(&row.Date, &row.InvoicesCount, &row.GrossAmount,
			&row.DiscountTotal, &row.TaxTotal, &row.NetAmount); err != nil {
			utils.LogError(err, "sales report scan failed")
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to build sales report", ""))
			return
		}
		report = append(report, row)
	}
	c.JSON(http.StatusOK, gin.H{"data": report})
}

// GetInventoryReport handles GET /api/v1/reports/inventory
func (h *ReportHandler) GetInventoryReport(c *gin.Context) {
	lowOnly := c.Query("low_stock") == "true"

	query := `SELECT mi.id, mi.name, mi.sku, mc.name,
	            COALESCE(mi.current_stock, 0), mi.low_stock_threshold
	          FROM menu_items mi
	          JOIN menu_categories mc ON mi.category_id = mc.id
	          WHERE mi.tracks_stock = TRUE
	          ORDER BY mi.name`
	rows, err := h.db.Query(query)
	if err != nil {
		utils.LogError(err, "inventory report query failed")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to build inventory report", ""))
		return
	}
	defer rows.Close()

	report := []models.InventoryReportItem{}
	for rows.Next() {
		var item models.InventoryReportItem
		var threshold decimal.NullDecimal
		if err := rows.Scan(&item.ItemID, &item.ItemName, &item.SKU, &item.CategoryName,
			&item.CurrentStock, &threshold); err != nil {
			utils.LogError(err, "inventory report scan failed")
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to build inventory report", ""))
			return
		}
		if threshold.Valid {
			t := threshold.Decimal
			item.LowStockThreshold = &t
			item.LowStock = item.CurrentStock.LessThanOrEqual(t)
		}
		if lowOnly && !item.LowStock {
			continue
		}
		report = append(report, item)
	}
	c.JSON(http.StatusOK, gin.H{"data": report})
}

// GetDashboardSummary handles GET /api/v1/reports/dashboard
func (h *ReportHandler) GetDashboardSummary(c *gin.Context) {
	summary := models.DashboardSummary{}

	// One round trip; each headline number is a scalar subquery.
	query := `SELECT
	  COALESCE((SELECT SUM(total_amount) FROM invoices
	            WHERE status IN ('confirmed', 'paid') AND confirmed_at::date = CURRENT_DATE), 0),
	  COALESCE((SELECT SUM(amount) FROM payments WHERE received_at::date = CURRENT_DATE), 0),
	  (SELECT COUNT(*) FROM kitchen_orders WHERE status IN ('pending', 'preparing', 'ready')),
	  (SELECT COUNT(*) FROM invoices WHERE status = 'confirmed'),
	  COALESCE((SELECT SUM(i.total_amount - COALESCE(p.paid, 0))
	            FROM invoices i
	            LEFT JOIN (SELECT invoice_id, SUM(amount) AS paid FROM payments GROUP BY invoice_id) p
	              ON p.invoice_id = i.id
	            WHERE i.status = 'confirmed'), 0),
	  (SELECT COUNT(*) FROM menu_items
	   WHERE tracks_stock = TRUE AND low_stock_threshold IS NOT NULL
	     AND COALESCE(current_stock, 0) <= low_stock_threshold)`

	err := h.db.QueryRow(query).Scan(
		&summary.TotalSalesToday, &summary.CollectionsToday, &summary.OpenKitchenOrders,
		&summary.UnpaidInvoicesCount, &summary.UnpaidInvoicesTotal, &summary.LowStockItemsCount,
	)
	if err != nil {
		utils.LogError(err, "dashboard summary query failed")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to build dashboard summary", ""))
		return
	}
	c.JSON(http.StatusOK, summary)
}
