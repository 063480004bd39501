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

// OrderRepository defines the interface for kitchen order ticket database operations.
type OrderRepository interface {
	CreateKitchenOrder(executor SQLExecutor, order *models.KitchenOrder) (int64, error)
	CreateKitchenOrderItem(executor SQLExecutor, item *models.KitchenOrderItem) (int64, error)
	GetKitchenOrderByID(executor SQLExecutor, id int64) (*models.KitchenOrder, error)
	GetKitchenOrderItems(executor SQLExecutor, orderID int64) ([]models.KitchenOrderItem, error)
	GetKitchenOrders(filters models.KitchenOrderFilters) ([]models.KitchenOrder, int, error)
	UpdateKitchenOrderStatus(executor SQLExecutor, id int64, status string) error
}

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository creates a new instance of OrderRepository.
func NewOrderRepository(db *sql.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) CreateKitchenOrder(executor SQLExecutor, order *models.KitchenOrder) (int64, error) {
	query := `INSERT INTO kitchen_orders (kot_number, table_number, status, notes, created_by, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          RETURNING id`
	currentTime := time.Now()
	err := executor.QueryRow(query,
		order.KOTNumber, order.TableNumber, order.Status, order.Notes, order.CreatedBy,
		currentTime, currentTime,
	).Scan(&order.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return 0, fmt.Errorf("%w: KOT number '%s' already exists", ErrDuplicateKey, order.KOTNumber)
		}
		return 0, fmt.Errorf("%w: creating kitchen order: %v", ErrDatabaseError, err)
	}
	return order.ID, nil
}

func (r *orderRepository) CreateKitchenOrderItem(executor SQLExecutor, item *models.KitchenOrderItem) (int64, error) {
	query := `INSERT INTO kitchen_order_items (kitchen_order_id, menu_item_id, quantity, notes, created_at)
	          VALUES ($1, $2, $3, $4, $5)
	          RETURNING id`
	err := executor.QueryRow(query,
		item.KitchenOrderID, item.MenuItemID, item.Quantity, item.Notes, time.Now(),
	).Scan(&item.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
			return 0, fmt.Errorf("%w: menu item ID %d not found for KOT line", ErrNotFound, item.MenuItemID)
		}
		return 0, fmt.Errorf("%w: creating kitchen order item: %v", ErrDatabaseError, err)
	}
	return item.ID, nil
}

func (r *orderRepository) GetKitchenOrderByID(executor SQLExecutor, id int64) (*models.KitchenOrder, error) {
	order := &models.KitchenOrder{}
	query := `SELECT id, kot_number, table_number, status, notes, created_by, created_at, updated_at
	          FROM kitchen_orders WHERE id = $1`
	err := executor.QueryRow(query, id).Scan(
		&order.ID, &order.KOTNumber, &order.TableNumber, &order.Status, &order.Notes,
		&order.CreatedBy, &order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting kitchen order by ID %d: %v", ErrDatabaseError, id, err)
	}

	items, err := r.GetKitchenOrderItems(executor, id)
	if err != nil {
		return nil, err
	}
	order.Items = items
	return order, nil
}

func (r *orderRepository) GetKitchenOrderItems(executor SQLExecutor, orderID int64) ([]models.KitchenOrderItem, error) {
	items := []models.KitchenOrderItem{}
	query := `SELECT koi.id, koi.kitchen_order_id, koi.menu_item_id, koi.quantity, koi.notes, koi.created_at, mi.name
	          FROM kitchen_order_items koi
	          JOIN menu_items mi ON koi.menu_item_id = mi.id
	          WHERE koi.kitchen_order_id = $1
	          ORDER BY koi.id`
	rows, err := executor.Query(query, orderID)
	if err != nil {
		return nil, fmt.Errorf("%w: getting kitchen order items for order %d: %v", ErrDatabaseError, orderID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var item models.KitchenOrderItem
		if err := rows.Scan(
			&item.ID, &item.KitchenOrderID, &item.MenuItemID, &item.Quantity, &item.Notes,
			&item.CreatedAt, &item.ItemName,
		); err != nil {
			return nil, fmt.Errorf("%w: scanning kitchen order item: %v", ErrDatabaseError, err)
		}
		items = append(items, item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating kitchen order items: %v", ErrDatabaseError, err)
	}
	return items, nil
}

func (r *orderRepository) GetKitchenOrders(filters models.KitchenOrderFilters) ([]models.KitchenOrder, int, error) {
	orders := []models.KitchenOrder{}
	totalCount := 0

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT id, kot_number, table_number, status, notes, created_by, created_at, updated_at,
	    COUNT(*) OVER() AS total_count
	  FROM kitchen_orders`)

	var conditions []string
	var args []interface{}
	argCount := 1
	if filters.Status != nil && *filters.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argCount))
		args = append(args, *filters.Status)
		argCount++
	}
	if filters.TableNumber != nil && *filters.TableNumber != "" {
		conditions = append(conditions, fmt.Sprintf("table_number = $%d", argCount))
		args = append(args, *filters.TableNumber)
		argCount++
	}
	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}

	queryBuilder.WriteString(" ORDER BY created_at DESC")
	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argCount, argCount+1))
	args = append(args, filters.PageSize, (filters.Page-1)*filters.PageSize)

	rows, err := r.db.Query(queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: getting kitchen orders: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var order models.KitchenOrder
		if err := rows.Scan(
			&order.ID, &order.KOTNumber, &order.TableNumber, &order.Status, &order.Notes,
			&order.CreatedBy, &order.CreatedAt, &order.UpdatedAt,
			&totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("%w: scanning kitchen order: %v", ErrDatabaseError, err)
		}
		orders = append(orders, order)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating kitchen orders: %v", ErrDatabaseError, err)
	}
	return orders, totalCount, nil
}

func (r *orderRepository) UpdateKitchenOrderStatus(executor SQLExecutor, id int64, status string) error {
	result, err := executor.Exec(`UPDATE kitchen_orders SET status = $1, updated_at = $2 WHERE id = $3`,
		status, time.Now(), id)
	if err != nil {
		return fmt.Errorf("%w: updating kitchen order %d status: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
