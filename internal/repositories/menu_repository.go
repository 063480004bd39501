package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"restro_backend/internal/models"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// MenuRepository defines the interface for menu-related database operations.
type MenuRepository interface {
	// MenuCategory methods
	CreateCategory(executor SQLExecutor, category *models.MenuCategory) (int64, error)
	GetCategoryByID(id int64) (*models.MenuCategory, error)
	GetCategories(page, pageSize int) ([]models.MenuCategory, int, error)
	UpdateCategory(executor SQLExecutor, category *models.MenuCategory) error
	DeleteCategory(executor SQLExecutor, id int64) error

	// MenuItem methods
	CreateItem(executor SQLExecutor, item *models.MenuItem) (int64, error)
	GetItemByID(id int64) (*models.MenuItem, error)
	GetItems(categoryID *int64, itemType *string, page, pageSize int) ([]models.MenuItem, int, error)
	UpdateItem(executor SQLExecutor, item *models.MenuItem) error
	DeleteItem(executor SQLExecutor, id int64) error

	// Stock access used by the inventory service. GetItemForUpdate takes a
	// row lock so concurrent writers on the same item serialize; it must be
	// called inside a transaction.
	GetItemForUpdate(executor SQLExecutor, id int64) (*models.MenuItem, error)
	SetItemStock(executor SQLExecutor, itemID int64, quantity decimal.Decimal) error
	GetItemPriceAndName(itemID int64) (price float64, itemName string, tracksStock bool, isAvailable bool, err error)
	GetTrackedItemIDs() ([]int64, error)
}

type menuRepository struct {
	db *sql.DB
}

// NewMenuRepository creates a new instance of MenuRepository.
func NewMenuRepository(db *sql.DB) MenuRepository {
	return &menuRepository{db: db}
}

// --- MenuCategory methods ---

func (r *menuRepository) CreateCategory(executor SQLExecutor, category *models.MenuCategory) (int64, error) {
	query := `INSERT INTO menu_categories (name, description, created_at, updated_at)
	          VALUES ($1, $2, $3, $4)
	          RETURNING id`
	currentTime := time.Now()
	err := executor.QueryRow(query, category.Name, category.Description, currentTime, currentTime).Scan(&category.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return 0, fmt.Errorf("%w: menu category name '%s' already exists (constraint: %s)", ErrDuplicateKey, category.Name, pqErr.Constraint)
		}
		return 0, fmt.Errorf("%w: creating menu category: %v", ErrDatabaseError, err)
	}
	return category.ID, nil
}

func (r *menuRepository) GetCategoryByID(id int64) (*models.MenuCategory, error) {
	category := &models.MenuCategory{}
	query := `SELECT id, name, description, created_at, updated_at FROM menu_categories WHERE id = $1`
	err := r.db.QueryRow(query, id).Scan(
		&category.ID, &category.Name, &category.Description, &category.CreatedAt, &category.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting menu category by ID %d: %v", ErrDatabaseError, id, err)
	}
	return category, nil
}

func (r *menuRepository) GetCategories(page, pageSize int) ([]models.MenuCategory, int, error) {
	categories := []models.MenuCategory{}
	totalCount := 0

	query := `SELECT id, name, description, created_at, updated_at, COUNT(*) OVER() AS total_count
	          FROM menu_categories
	          ORDER BY name
	          LIMIT $1 OFFSET $2`
	rows, err := r.db.Query(query, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: getting menu categories: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var category models.MenuCategory
		if err := rows.Scan(&category.ID, &category.Name, &category.Description,
			&category.CreatedAt, &category.UpdatedAt, &totalCount); err != nil {
			return nil, 0, fmt.Errorf("%w: scanning menu category: %v", ErrDatabaseError, err)
		}
		categories = append(categories, category)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating menu categories: %v", ErrDatabaseError, err)
	}
	return categories, totalCount, nil
}

func (r *menuRepository) UpdateCategory(executor SQLExecutor, category *models.MenuCategory) error {
	query := `UPDATE menu_categories SET name = $1, description = $2, updated_at = $3 WHERE id = $4`
	result, err := executor.Exec(query, category.Name, category.Description, time.Now(), category.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return fmt.Errorf("%w: menu category name '%s' already exists (constraint: %s)", ErrDuplicateKey, category.Name, pqErr.Constraint)
		}
		return fmt.Errorf("%w: updating menu category ID %d: %v", ErrDatabaseError, category.ID, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *menuRepository) DeleteCategory(executor SQLExecutor, id int64) error {
	var count int
	checkQuery := "SELECT COUNT(*) FROM menu_items WHERE category_id = $1"
	err := executor.QueryRow(checkQuery, id).Scan(&count)
	if err != nil {
		return fmt.Errorf("%w: checking if category %d is in use: %v", ErrDatabaseError, id, err)
	}
	if count > 0 {
		return fmt.Errorf("%w: category ID %d cannot be deleted as it is currently in use by %d menu item(s)", ErrDatabaseError, id, count)
	}

	query := `DELETE FROM menu_categories WHERE id = $1`
	result, err := executor.Exec(query, id)
	if err != nil {
		return fmt.Errorf("%w: deleting menu category ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// --- MenuItem methods ---

const menuItemColumns = `mi.id, mi.category_id, mi.name, mi.description, mi.price, mi.sku,
	    mi.is_available, mi.item_type, mi.tracks_stock, mi.current_stock, mi.low_stock_threshold,
	    mi.created_at, mi.updated_at`

func (r *menuRepository) CreateItem(executor SQLExecutor, item *models.MenuItem) (int64, error) {
	query := `INSERT INTO menu_items
	          (category_id, name, description, price, sku, is_available, item_type, tracks_stock, current_stock, low_stock_threshold, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	          RETURNING id`
	currentTime := time.Now()

	currentStock := nullDecimal(nil)
	if item.TracksStock {
		currentStock = nullDecimal(item.CurrentStock)
	}
	lowStockThreshold := nullDecimal(nil)
	if item.TracksStock {
		lowStockThreshold = nullDecimal(item.LowStockThreshold)
	}

	err := executor.QueryRow(query,
		item.CategoryID, item.Name, item.Description, item.Price, item.SKU, item.IsAvailable,
		item.ItemType, item.TracksStock, currentStock, lowStockThreshold, currentTime, currentTime,
	).Scan(&item.ID)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			if pqErr.Code.Name() == "unique_violation" {
				return 0, fmt.Errorf("%w: creating menu item (constraint: %s): %v", ErrDuplicateKey, pqErr.Constraint, err)
			}
			if pqErr.Code.Name() == "foreign_key_violation" {
				return 0, fmt.Errorf("%w: invalid category_id %d (constraint: %s): %v", ErrDatabaseError, item.CategoryID, pqErr.Constraint, err)
			}
		}
		return 0, fmt.Errorf("%w: creating menu item: %v", ErrDatabaseError, err)
	}
	return item.ID, nil
}

func (r *menuRepository) GetItemByID(id int64) (*models.MenuItem, error) {
	item := &models.MenuItem{}
	category := &models.MenuCategory{}

	query := `SELECT ` + menuItemColumns + `,
	            mc.id AS cat_id, mc.name AS cat_name, mc.description AS cat_desc,
	            mc.created_at AS cat_created_at, mc.updated_at AS cat_updated_at
	          FROM menu_items mi
	          JOIN menu_categories mc ON mi.category_id = mc.id
	          WHERE mi.id = $1`

	var currentStock, lowStockThreshold decimal.NullDecimal

	err := r.db.QueryRow(query, id).Scan(
		&item.ID, &item.CategoryID, &item.Name, &item.Description, &item.Price, &item.SKU,
		&item.IsAvailable, &item.ItemType, &item.TracksStock, &currentStock, &lowStockThreshold,
		&item.CreatedAt, &item.UpdatedAt,
		&category.ID, &category.Name, &category.Description, &category.CreatedAt, &category.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting menu item by ID %d: %v", ErrDatabaseError, id, err)
	}

	item.CurrentStock = decimalPtr(currentStock)
	item.LowStockThreshold = decimalPtr(lowStockThreshold)
	item.Category = category
	return item, nil
}

func (r *menuRepository) GetItems(categoryID *int64, itemType *string, page, pageSize int) ([]models.MenuItem, int, error) {
	items := []models.MenuItem{}
	totalCount := 0

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + menuItemColumns + `,
	    mc.id AS cat_id, mc.name AS cat_name, mc.description AS cat_desc,
	    mc.created_at AS cat_created_at, mc.updated_at AS cat_updated_at,
	    COUNT(*) OVER() AS total_count
	  FROM menu_items mi
	  JOIN menu_categories mc ON mi.category_id = mc.id`)

	var conditions []string
	var args []interface{}
	argCount := 1

	if categoryID != nil {
		conditions = append(conditions, fmt.Sprintf("mi.category_id = $%d", argCount))
		args = append(args, *categoryID)
		argCount++
	}
	if itemType != nil && *itemType != "" {
		conditions = append(conditions, fmt.Sprintf("mi.item_type = $%d", argCount))
		args = append(args, *itemType)
		argCount++
	}

	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE ")
		queryBuilder.WriteString(strings.Join(conditions, " AND "))
	}

	queryBuilder.WriteString(" ORDER BY mi.name")
	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argCount, argCount+1))
	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := r.db.Query(queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: getting menu items: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var item models.MenuItem
		var category models.MenuCategory
		var currentStock, lowStockThreshold decimal.NullDecimal

		if err := rows.Scan(
			&item.ID, &item.CategoryID, &item.Name, &item.Description, &item.Price, &item.SKU,
			&item.IsAvailable, &item.ItemType, &item.TracksStock, &currentStock, &lowStockThreshold,
			&item.CreatedAt, &item.UpdatedAt,
			&category.ID, &category.Name, &category.Description, &category.CreatedAt, &category.UpdatedAt,
			&totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("%w: scanning menu item: %v", ErrDatabaseError, err)
		}
		item.CurrentStock = decimalPtr(currentStock)
		item.LowStockThreshold = decimalPtr(lowStockThreshold)
		item.Category = &category
		items = append(items, item)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating menu items: %v", ErrDatabaseError, err)
	}
	return items, totalCount, nil
}

func (r *menuRepository) UpdateItem(executor SQLExecutor, item *models.MenuItem) error {
	// current_stock is deliberately absent here: stock changes flow through
	// the inventory service so they are always paired with a ledger entry.
	query := `UPDATE menu_items SET
	            category_id = $1, name = $2, description = $3, price = $4, sku = $5,
	            is_available = $6, item_type = $7, tracks_stock = $8,
	            low_stock_threshold = $9, updated_at = $10
	          WHERE id = $11`

	lowStockThreshold := nullDecimal(nil)
	if item.TracksStock {
		lowStockThreshold = nullDecimal(item.LowStockThreshold)
	}

	result, err := executor.Exec(query,
		item.CategoryID, item.Name, item.Description, item.Price, item.SKU,
		item.IsAvailable, item.ItemType, item.TracksStock, lowStockThreshold,
		time.Now(), item.ID,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			if pqErr.Code.Name() == "unique_violation" {
				return fmt.Errorf("%w: updating menu item (constraint: %s): %v", ErrDuplicateKey, pqErr.Constraint, err)
			}
			if pqErr.Code.Name() == "foreign_key_violation" {
				return fmt.Errorf("%w: invalid category_id %d (constraint: %s): %v", ErrDatabaseError, item.CategoryID, pqErr.Constraint, err)
			}
		}
		return fmt.Errorf("%w: updating menu item ID %d: %v", ErrDatabaseError, item.ID, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *menuRepository) DeleteItem(executor SQLExecutor, id int64) error {
	query := `DELETE FROM menu_items WHERE id = $1`
	result, err := executor.Exec(query, id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" { // foreign_key_violation
			return fmt.Errorf("%w: item ID %d cannot be deleted as it is referenced by other records (e.g., invoices, purchase orders) (constraint: %s)", ErrDatabaseError, id, pqErr.Constraint)
		}
		return fmt.Errorf("%w: deleting menu item ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// GetItemForUpdate loads the item row with FOR UPDATE so concurrent quantity
// writers on the same item serialize. Must run inside a transaction.
func (r *menuRepository) GetItemForUpdate(executor SQLExecutor, id int64) (*models.MenuItem, error) {
	item := &models.MenuItem{}
	query := `SELECT id, category_id, name, description, price, sku,
	            is_available, item_type, tracks_stock, current_stock, low_stock_threshold,
	            created_at, updated_at
	          FROM menu_items
	          WHERE id = $1
	          FOR UPDATE`

	var currentStock, lowStockThreshold decimal.NullDecimal

	err := executor.QueryRow(query, id).Scan(
		&item.ID, &item.CategoryID, &item.Name, &item.Description, &item.Price, &item.SKU,
		&item.IsAvailable, &item.ItemType, &item.TracksStock, &currentStock, &lowStockThreshold,
		&item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		if mapped := classifyPQError(err); mapped != nil {
			return nil, mapped
		}
		return nil, fmt.Errorf("%w: locking menu item ID %d: %v", ErrDatabaseError, id, err)
	}
	item.CurrentStock = decimalPtr(currentStock)
	item.LowStockThreshold = decimalPtr(lowStockThreshold)
	return item, nil
}

// SetItemStock writes the new absolute quantity. Only the inventory service
// calls this, always with the item row already locked.
func (r *menuRepository) SetItemStock(executor SQLExecutor, itemID int64, quantity decimal.Decimal) error {
	query := `UPDATE menu_items SET current_stock = $1, updated_at = $2
	          WHERE id = $3 AND tracks_stock = TRUE`
	result, err := executor.Exec(query, quantity, time.Now(), itemID)
	if err != nil {
		return fmt.Errorf("%w: setting stock for item ID %d: %v", ErrDatabaseError, itemID, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *menuRepository) GetItemPriceAndName(itemID int64) (float64, string, bool, bool, error) {
	var price float64
	var itemName string
	var tracksStock, isAvailable bool
	query := `SELECT price, name, tracks_stock, is_available FROM menu_items WHERE id = $1`
	err := r.db.QueryRow(query, itemID).Scan(&price, &itemName, &tracksStock, &isAvailable)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, "", false, false, ErrNotFound
		}
		return 0, "", false, false, fmt.Errorf("%w: getting menu item %d price: %v", ErrDatabaseError, itemID, err)
	}
	return price, itemName, tracksStock, isAvailable, nil
}

// GetTrackedItemIDs lists the IDs of all stock-tracked items. The end-of-day
// snapshot run iterates over this set.
func (r *menuRepository) GetTrackedItemIDs() ([]int64, error) {
	ids := []int64{}
	rows, err := r.db.Query(`SELECT id FROM menu_items WHERE tracks_stock = TRUE ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("%w: getting tracked item IDs: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: scanning tracked item ID: %v", ErrDatabaseError, err)
		}
		ids = append(ids, id)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating tracked item IDs: %v", ErrDatabaseError, err)
	}
	return ids, nil
}

// nullDecimal converts an optional decimal into its scannable null form.
func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}

// decimalPtr converts a scanned null decimal back into an optional value.
func decimalPtr(nd decimal.NullDecimal) *decimal.Decimal {
	if !nd.Valid {
		return nil
	}
	d := nd.Decimal
	return &d
}
