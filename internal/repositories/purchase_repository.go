package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"restro_backend/internal/models"

	"github.com/lib/pq"
)

// PurchaseRepository defines the interface for purchase order database operations.
type PurchaseRepository interface {
	CreatePurchaseOrder(executor SQLExecutor, order *models.PurchaseOrder) (int64, error)
	CreatePurchaseOrderItem(executor SQLExecutor, item *models.PurchaseOrderItem) (int64, error)
	GetPurchaseOrderByID(executor SQLExecutor, id int64) (*models.PurchaseOrder, error)
	GetPurchaseOrderItems(executor SQLExecutor, orderID int64) ([]models.PurchaseOrderItem, error)
	GetPurchaseOrders(filters models.PurchaseOrderFilters) ([]models.PurchaseOrder, int, error)
	UpdatePurchaseOrderStatus(executor SQLExecutor, id int64, status string, orderedAt, receivedAt *time.Time) error
	DeletePurchaseOrder(executor SQLExecutor, id int64) error
}

type purchaseRepository struct {
	db *sql.DB
}

// NewPurchaseRepository creates a new instance of PurchaseRepository.
func NewPurchaseRepository(db *sql.DB) PurchaseRepository {
	return &purchaseRepository{db: db}
}

func (r *purchaseRepository) CreatePurchaseOrder(executor SQLExecutor, order *models.PurchaseOrder) (int64, error) {
	query := `INSERT INTO purchase_orders (po_number, supplier_name, status, notes, created_by, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          RETURNING id`
	currentTime := time.Now()
	err := executor.QueryRow(query,
		order.PONumber, order.SupplierName, order.Status, order.Notes, order.CreatedBy,
		currentTime, currentTime,
	).Scan(&order.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return 0, fmt.Errorf("%w: purchase order number '%s' already exists", ErrDuplicateKey, order.PONumber)
		}
		return 0, fmt.Errorf("%w: creating purchase order: %v", ErrDatabaseError, err)
	}
	return order.ID, nil
}

func (r *purchaseRepository) CreatePurchaseOrderItem(executor SQLExecutor, item *models.PurchaseOrderItem) (int64, error) {
	query := `INSERT INTO purchase_order_items (purchase_order_id, menu_item_id, quantity, unit_cost, created_at)
	          VALUES ($1, $2, $3, $4, $5)
	          RETURNING id`
	err := executor.QueryRow(query,
		item.PurchaseOrderID, item.MenuItemID, item.Quantity, item.UnitCost, time.Now(),
	).Scan(&item.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
			return 0, fmt.Errorf("%w: menu item ID %d not found for purchase order line", ErrNotFound, item.MenuItemID)
		}
		return 0, fmt.Errorf("%w: creating purchase order item: %v", ErrDatabaseError, err)
	}
	return item.ID, nil
}

func (r *purchaseRepository) GetPurchaseOrderByID(executor SQLExecutor, id int64) (*models.PurchaseOrder, error) {
	order := &models.PurchaseOrder{}
	query := `SELECT id, po_number, supplier_name, status, notes, created_by, ordered_at, received_at, created_at, updated_at
	          FROM purchase_orders WHERE id = $1`
	err := executor.QueryRow(query, id).Scan(
		&order.ID, &order.PONumber, &order.SupplierName, &order.Status, &order.Notes,
		&order.CreatedBy, &order.OrderedAt, &order.ReceivedAt, &order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting purchase order by ID %d: %v", ErrDatabaseError, id, err)
	}

	items, err := r.GetPurchaseOrderItems(executor, id)
	if err != nil {
		return nil, err
	}
	order.Items = items
	return order, nil
}

func (r *purchaseRepository) GetPurchaseOrderItems(executor SQLExecutor, orderID int64) ([]models.PurchaseOrderItem, error) {
	items := []models.PurchaseOrderItem{}
	query := `SELECT poi.id, poi.purchase_order_id, poi.menu_item_id, poi.quantity, poi.unit_cost, poi.created_at, mi.name
	          FROM purchase_order_items poi
	          JOIN menu_items mi ON poi.menu_item_id = mi.id
	          WHERE poi.purchase_order_id = $1
	          ORDER BY poi.id`
	rows, err := executor.Query(query, orderID)
	if err != nil {
		return nil, fmt.Errorf("%w: getting purchase order items for order %d: %v", ErrDatabaseError, orderID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var item models.PurchaseOrderItem
		if err := rows.Scan(
			&item.ID, &item.PurchaseOrderID, &item.MenuItemID, &item.Quantity, &item.UnitCost,
			&item.CreatedAt, &item.ItemName,
		); err != nil {
			return nil, fmt.Errorf("%w: scanning purchase order item: %v", ErrDatabaseError, err)
		}
		items = append(items, item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating purchase order items: %v", ErrDatabaseError, err)
	}
	return items, nil
}

func (r *purchaseRepository) GetPurchaseOrders(filters models.PurchaseOrderFilters) ([]models.PurchaseOrder, int, error) {
	orders := []models.PurchaseOrder{}
	totalCount := 0

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT id, po_number, supplier_name, status, notes, created_by, ordered_at, received_at,
	    created_at, updated_at, COUNT(*) OVER() AS total_count
	  FROM purchase_orders`)

	var args []interface{}
	argCount := 1
	if filters.Status != nil && *filters.Status != "" {
		queryBuilder.WriteString(fmt.Sprintf(" WHERE status = $%d", argCount))
		args = append(args, *filters.Status)
		argCount++
	}

	queryBuilder.WriteString(" ORDER BY created_at DESC")
	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argCount, argCount+1))
	args = append(args, filters.PageSize, (filters.Page-1)*filters.PageSize)

	rows, err := r.db.Query(queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: getting purchase orders: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var order models.PurchaseOrder
		if err := rows.Scan(
			&order.ID, &order.PONumber, &order.SupplierName, &order.Status, &order.Notes,
			&order.CreatedBy, &order.OrderedAt, &order.ReceivedAt, &order.CreatedAt, &order.UpdatedAt,
			&totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("%w: scanning purchase order: %v", ErrDatabaseError, err)
		}
		orders = append(orders, order)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating purchase orders: %v", ErrDatabaseError, err)
	}
	return orders, totalCount, nil
}

func (r *purchaseRepository) UpdatePurchaseOrderStatus(executor SQLExecutor, id int64, status string, orderedAt, receivedAt *time.Time) error {
	query := `UPDATE purchase_orders
	          SET status = $1,
	              ordered_at = COALESCE($2, ordered_at),
	              received_at = COALESCE($3, received_at),
	              updated_at = $4
	          WHERE id = $5`
	result, err := executor.Exec(query, status, orderedAt, receivedAt, time.Now(), id)
	if err != nil {
		return fmt.Errorf("%w: updating purchase order %d status: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *purchaseRepository) DeletePurchaseOrder(executor SQLExecutor, id int64) error {
	result, err := executor.Exec(`DELETE FROM purchase_orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%w: deleting purchase order %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
