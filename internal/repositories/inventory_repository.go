package repositories

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"restro_backend/internal/models"

	"github.com/shopspring/decimal"
)

// InventoryRepository persists the inventory ledger and the daily stock
// snapshots. Ledger rows are append-only; there is deliberately no update or
// delete method.
type InventoryRepository interface {
	AppendLedgerEntry(executor SQLExecutor, entry *models.InventoryLedgerEntry) (int64, error)
	HasOpeningStock(executor SQLExecutor, menuItemID int64) (bool, error)
	GetLedgerEntries(filter models.LedgerFilter) ([]models.InventoryLedgerEntry, int, error)

	UpsertDailySnapshot(executor SQLExecutor, params SnapshotUpsertParams) (*models.DailyStockSnapshot, error)
	GetSnapshots(filter models.SnapshotFilter) ([]models.DailyStockSnapshot, int, error)
}

// SnapshotUpsertParams carries one snapshot write. Exactly one of the bucket
// increments is non-zero for bucketed categories; all three are zero for
// opening_stock and daily_snapshot markers. CurrentQuantity is the item's
// live quantity after the paired stock write and seeds opening/closing/max
// on first insert.
type SnapshotUpsertParams struct {
	MenuItemID      int64
	SnapshotDate    time.Time
	PurchasesInc    decimal.Decimal
	SalesInc        decimal.Decimal
	AdjustmentsInc  decimal.Decimal
	CurrentQuantity decimal.Decimal
}

type inventoryRepository struct {
	db *sql.DB
}

// NewInventoryRepository creates a new instance of InventoryRepository.
func NewInventoryRepository(db *sql.DB) InventoryRepository {
	return &inventoryRepository{db: db}
}

func (r *inventoryRepository) AppendLedgerEntry(executor SQLExecutor, entry *models.InventoryLedgerEntry) (int64, error) {
	query := `INSERT INTO inventory_ledger
	          (menu_item_id, category, quantity_before, quantity_change, quantity_after,
	           reference_type, reference_id, note, actor_id, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	          RETURNING id, created_at`
	currentTime := time.Now()

	var actorID sql.NullInt64
	if entry.ActorID != nil {
		actorID = sql.NullInt64{Int64: *entry.ActorID, Valid: true}
	}
	var referenceID sql.NullInt64
	if entry.ReferenceID != nil {
		referenceID = sql.NullInt64{Int64: *entry.ReferenceID, Valid: true}
	}

	err := executor.QueryRow(query,
		entry.MenuItemID, entry.Category, entry.QuantityBefore, entry.QuantityChange, entry.QuantityAfter,
		entry.ReferenceType, referenceID, entry.Note, actorID, currentTime,
	).Scan(&entry.ID, &entry.CreatedAt)

	if err != nil {
		if mapped := classifyPQError(err); mapped != nil {
			return 0, fmt.Errorf("%w: appending inventory ledger entry: %v", mapped, err)
		}
		return 0, fmt.Errorf("%w: appending inventory ledger entry: %v", ErrDatabaseError, err)
	}
	return entry.ID, nil
}

func (r *inventoryRepository) HasOpeningStock(executor SQLExecutor, menuItemID int64) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM inventory_ledger WHERE menu_item_id = $1 AND category = $2)`
	err := executor.QueryRow(query, menuItemID, models.ActivityOpeningStock).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("%w: checking opening stock for item %d: %v", ErrDatabaseError, menuItemID, err)
	}
	return exists, nil
}

func (r *inventoryRepository) GetLedgerEntries(filter models.LedgerFilter) ([]models.InventoryLedgerEntry, int, error) {
	entries := []models.InventoryLedgerEntry{}
	totalCount := 0

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT
	    il.id, il.menu_item_id, il.category, il.quantity_before, il.quantity_change, il.quantity_after,
	    il.reference_type, il.reference_id, il.note, il.actor_id, il.created_at,
	    mi.name AS item_name, mi.sku AS item_sku,
	    u.full_name AS actor_name,
	    COUNT(*) OVER() AS total_count
	  FROM inventory_ledger il
	  JOIN menu_items mi ON il.menu_item_id = mi.id
	  LEFT JOIN users u ON il.actor_id = u.id`)

	var conditions []string
	var args []interface{}
	argCount := 1

	if filter.MenuItemID != nil {
		conditions = append(conditions, fmt.Sprintf("il.menu_item_id = $%d", argCount))
		args = append(args, *filter.MenuItemID)
		argCount++
	}
	if filter.Category != nil && *filter.Category != "" {
		conditions = append(conditions, fmt.Sprintf("il.category = $%d", argCount))
		args = append(args, *filter.Category)
		argCount++
	}
	if filter.ActorID != nil {
		conditions = append(conditions, fmt.Sprintf("il.actor_id = $%d", argCount))
		args = append(args, *filter.ActorID)
		argCount++
	}
	if filter.StartDate != nil {
		conditions = append(conditions, fmt.Sprintf("il.created_at >= $%d", argCount))
		args = append(args, *filter.StartDate)
		argCount++
	}
	if filter.EndDate != nil {
		conditions = append(conditions, fmt.Sprintf("il.created_at <= $%d", argCount))
		args = append(args, *filter.EndDate)
		argCount++
	}

	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE ")
		queryBuilder.WriteString(strings.Join(conditions, " AND "))
	}

	queryBuilder.WriteString(" ORDER BY il.created_at DESC, il.id DESC")
	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argCount, argCount+1))
	args = append(args, filter.PageSize, (filter.Page-1)*filter.PageSize)

	rows, err := r.db.Query(queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: getting inventory ledger entries: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var entry models.InventoryLedgerEntry
		var item models.MenuItem

		var itemName, itemSKU, actorName sql.NullString
		var actorID, referenceID sql.NullInt64

		if err := rows.Scan(
			&entry.ID, &entry.MenuItemID, &entry.Category,
			&entry.QuantityBefore, &entry.QuantityChange, &entry.QuantityAfter,
			&entry.ReferenceType, &referenceID, &entry.Note, &actorID, &entry.CreatedAt,
			&itemName, &itemSKU,
			&actorName,
			&totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("%w: scanning inventory ledger entry: %v", ErrDatabaseError, err)
		}

		if referenceID.Valid {
			entry.ReferenceID = &referenceID.Int64
		}
		if actorID.Valid {
			entry.ActorID = &actorID.Int64
		}
		if actorName.Valid {
			name := actorName.String
			entry.ActorName = &name
		}

		item.ID = entry.MenuItemID
		if itemName.Valid {
			item.Name = itemName.String
		}
		if itemSKU.Valid {
			sku := itemSKU.String
			item.SKU = &sku
		}
		entry.MenuItem = &item

		entries = append(entries, entry)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating inventory ledger entries: %v", ErrDatabaseError, err)
	}

	return entries, totalCount, nil
}

// UpsertDailySnapshot performs an atomic insert-or-update keyed on
// (menu_item_id, snapshot_date). The unique constraint plus ON CONFLICT makes
// two concurrent first-writers of the day converge on a single row: one
// inserts, the other turns into the additive update. opening_stock is only
// written on insert; closing_stock always takes the live quantity and
// max_stock ratchets upward.
func (r *inventoryRepository) UpsertDailySnapshot(executor SQLExecutor, params SnapshotUpsertParams) (*models.DailyStockSnapshot, error) {
	snapshot := &models.DailyStockSnapshot{}
	query := `INSERT INTO daily_stock_snapshots
	          (menu_item_id, snapshot_date, opening_stock, purchases, sales, adjustments,
	           closing_stock, max_stock, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $3, $3, $7, $7)
	          ON CONFLICT (menu_item_id, snapshot_date) DO UPDATE SET
	            purchases     = daily_stock_snapshots.purchases + EXCLUDED.purchases,
	            sales         = daily_stock_snapshots.sales + EXCLUDED.sales,
	            adjustments   = daily_stock_snapshots.adjustments + EXCLUDED.adjustments,
	            closing_stock = EXCLUDED.opening_stock,
	            max_stock     = GREATEST(daily_stock_snapshots.max_stock, EXCLUDED.opening_stock),
	            updated_at    = EXCLUDED.updated_at
	          RETURNING id, menu_item_id, snapshot_date, opening_stock, purchases, sales,
	                    adjustments, closing_stock, max_stock, created_at, updated_at`

	// $3 carries the live quantity: it seeds opening/closing/max on insert
	// and doubles as the fresh closing value through EXCLUDED on update.
	err := executor.QueryRow(query,
		params.MenuItemID, params.SnapshotDate, params.CurrentQuantity,
		params.PurchasesInc, params.SalesInc, params.AdjustmentsInc,
		time.Now(),
	).Scan(
		&snapshot.ID, &snapshot.MenuItemID, &snapshot.SnapshotDate,
		&snapshot.OpeningStock, &snapshot.Purchases, &snapshot.Sales,
		&snapshot.Adjustments, &snapshot.ClosingStock, &snapshot.MaxStock,
		&snapshot.CreatedAt, &snapshot.UpdatedAt,
	)
	if err != nil {
		if mapped := classifyPQError(err); mapped != nil {
			return nil, fmt.Errorf("%w: upserting daily snapshot: %v", mapped, err)
		}
		return nil, fmt.Errorf("%w: upserting daily snapshot for item %d: %v", ErrDatabaseError, params.MenuItemID, err)
	}
	return snapshot, nil
}

func (r *inventoryRepository) GetSnapshots(filter models.SnapshotFilter) ([]models.DailyStockSnapshot, int, error) {
	snapshots := []models.DailyStockSnapshot{}
	totalCount := 0

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT
	    ds.id, ds.menu_item_id, ds.snapshot_date, ds.opening_stock, ds.purchases, ds.sales,
	    ds.adjustments, ds.closing_stock, ds.max_stock, ds.created_at, ds.updated_at,
	    mi.name AS item_name, mi.sku AS item_sku,
	    COUNT(*) OVER() AS total_count
	  FROM daily_stock_snapshots ds
	  JOIN menu_items mi ON ds.menu_item_id = mi.id`)

	var conditions []string
	var args []interface{}
	argCount := 1

	if filter.MenuItemID != nil {
		conditions = append(conditions, fmt.Sprintf("ds.menu_item_id = $%d", argCount))
		args = append(args, *filter.MenuItemID)
		argCount++
	}
	if filter.StartDate != nil {
		conditions = append(conditions, fmt.Sprintf("ds.snapshot_date >= $%d", argCount))
		args = append(args, *filter.StartDate)
		argCount++
	}
	if filter.EndDate != nil {
		conditions = append(conditions, fmt.Sprintf("ds.snapshot_date <= $%d", argCount))
		args = append(args, *filter.EndDate)
		argCount++
	}

	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE ")
		queryBuilder.WriteString(strings.Join(conditions, " AND "))
	}

	queryBuilder.WriteString(" ORDER BY ds.snapshot_date DESC, ds.menu_item_id")
	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argCount, argCount+1))
	args = append(args, filter.PageSize, (filter.Page-1)*filter.PageSize)

	rows, err := r.db.Query(queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: getting daily snapshots: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var snapshot models.DailyStockSnapshot
		var item models.MenuItem
		var itemName, itemSKU sql.NullString

		if err := rows.Scan(
			&snapshot.ID, &snapshot.MenuItemID, &snapshot.SnapshotDate,
			&snapshot.OpeningStock, &snapshot.Purchases, &snapshot.Sales,
			&snapshot.Adjustments, &snapshot.ClosingStock, &snapshot.MaxStock,
			&snapshot.CreatedAt, &snapshot.UpdatedAt,
			&itemName, &itemSKU,
			&totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("%w: scanning daily snapshot: %v", ErrDatabaseError, err)
		}

		item.ID = snapshot.MenuItemID
		if itemName.Valid {
			item.Name = itemName.String
		}
		if itemSKU.Valid {
			sku := itemSKU.String
			item.SKU = &sku
		}
		snapshot.MenuItem = &item
		snapshots = append(snapshots, snapshot)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating daily snapshots: %v", ErrDatabaseError, err)
	}

	return snapshots, totalCount, nil
}
