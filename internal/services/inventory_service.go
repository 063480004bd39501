package services

import (
	"fmt"
	"time"

	"restro_backend/internal/models"
	"restro_backend/internal/repositories"
	"restro_backend/pkg/utils"

	"github.com/shopspring/decimal"
)

// InventoryService owns every stock quantity change. All writes go through a
// single path that pairs the quantity update with an append-only ledger entry
// and a daily snapshot upsert in one transaction, so the three can never
// disagree.
type InventoryService struct {
	txManager repositories.TxManager
	menuRepo  repositories.MenuRepository
	invRepo   repositories.InventoryRepository
}

// NewInventoryService creates a new InventoryService.
func NewInventoryService(txManager repositories.TxManager, menuRepo repositories.MenuRepository, invRepo repositories.InventoryRepository) *InventoryService {
	return &InventoryService{txManager: txManager, menuRepo: menuRepo, invRepo: invRepo}
}

// StockDeltaParams describes one signed quantity change to post.
type StockDeltaParams struct {
	MenuItemID    int64
	Delta         decimal.Decimal
	Category      string
	ReferenceType *string
	ReferenceID   *int64
	Note          *string
	ActorID       *int64
	// AllowNegative permits the resulting quantity to go below zero.
	// Sales keep it false; manual corrections may override.
	AllowNegative bool
}

// ManualStockUpdateRequest is the payload for a direct stock edit from the
// inventory screen. The caller states the new absolute quantity, not a delta.
// The item comes from the route, not the body.
type ManualStockUpdateRequest struct {
	MenuItemID  int64           `json:"-"`
	NewQuantity decimal.Decimal `json:"new_quantity"`
	Note        *string         `json:"note,omitempty"`
}

// OpeningStockRequest seeds the first stock level of a newly tracked item.
// The item comes from the route, not the body.
type OpeningStockRequest struct {
	MenuItemID int64           `json:"-"`
	Quantity   decimal.Decimal `json:"quantity"`
	Note       *string         `json:"note,omitempty"`
}

// ClassifyQuantityChange names the ledger category for a manual absolute
// stock edit. A decrease is assumed to be kitchen usage, an increase a
// correction. The heuristic cannot tell wastage from a miscount; staff who
// need exact categories post purchases and sales through their own flows.
func ClassifyQuantityChange(oldQty, newQty decimal.Decimal) string {
	switch newQty.Cmp(oldQty) {
	case -1:
		return models.ActivityConsumption
	case 1:
		return models.ActivityAdjustment
	default:
		return ""
	}
}

// SetItemQuantity applies a manual absolute stock edit. When the new quantity
// equals the current one nothing is written and (nil, nil) is returned.
func (s *InventoryService) SetItemQuantity(req ManualStockUpdateRequest, actorID *int64) (*models.InventoryLedgerEntry, error) {
	if req.NewQuantity.IsNegative() {
		return nil, fmt.Errorf("%w: new quantity cannot be negative", ErrValidation)
	}

	var entry *models.InventoryLedgerEntry
	err := s.txManager.WithTransaction(func(executor repositories.SQLExecutor) error {
		item, err := s.menuRepo.GetItemForUpdate(executor, req.MenuItemID)
		if err != nil {
			return err
		}
		if !item.TracksStock {
			return fmt.Errorf("%w: item '%s' does not track stock", ErrValidation, item.Name)
		}

		current := decimal.Zero
		if item.CurrentStock != nil {
			current = *item.CurrentStock
		}

		category := ClassifyQuantityChange(current, req.NewQuantity)
		if category == "" {
			// Equal quantities are a no-op: no ledger entry, no snapshot touch.
			return nil
		}

		refType := models.ReferenceManual
		entry, err = s.postQuantityChange(executor, item, StockDeltaParams{
			MenuItemID:    item.ID,
			Delta:         req.NewQuantity.Sub(current),
			Category:      category,
			ReferenceType: &refType,
			Note:          req.Note,
			ActorID:       actorID,
			AllowNegative: true,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	if entry != nil {
		utils.LogInfo(fmt.Sprintf("stock set: item=%d category=%s after=%s", entry.MenuItemID, entry.Category, entry.QuantityAfter.String()))
	}
	return entry, nil
}

// SeedOpeningStock records the one-time opening stock entry for an item.
// Repeat calls fail; later corrections go through SetItemQuantity.
func (s *InventoryService) SeedOpeningStock(req OpeningStockRequest, actorID *int64) (*models.InventoryLedgerEntry, error) {
	if !req.Quantity.IsPositive() {
		return nil, fmt.Errorf("%w: opening stock quantity must be positive", ErrValidation)
	}

	var entry *models.InventoryLedgerEntry
	err := s.txManager.WithTransaction(func(executor repositories.SQLExecutor) error {
		item, err := s.menuRepo.GetItemForUpdate(executor, req.MenuItemID)
		if err != nil {
			return err
		}
		if !item.TracksStock {
			return fmt.Errorf("%w: item '%s' does not track stock", ErrValidation, item.Name)
		}

		seeded, err := s.invRepo.HasOpeningStock(executor, item.ID)
		if err != nil {
			return err
		}
		if seeded {
			return fmt.Errorf("%w: item '%s' already has opening stock recorded", ErrValidation, item.Name)
		}

		refType := models.ReferenceSystem
		entry, err = s.postQuantityChange(executor, item, StockDeltaParams{
			MenuItemID:    item.ID,
			Delta:         req.Quantity,
			Category:      models.ActivityOpeningStock,
			ReferenceType: &refType,
			Note:          req.Note,
			ActorID:       actorID,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// ApplyDelta posts one signed quantity change in its own transaction.
func (s *InventoryService) ApplyDelta(p StockDeltaParams) (*models.InventoryLedgerEntry, error) {
	var entry *models.InventoryLedgerEntry
	err := s.txManager.WithTransaction(func(executor repositories.SQLExecutor) error {
		var err error
		entry, err = s.ApplyDeltaTx(executor, p)
		return err
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// ApplyDeltaTx posts one signed quantity change inside the caller's
// transaction. Purchasing and billing call this so the stock write commits or
// rolls back together with their own document writes. Items that do not track
// stock, and zero deltas, are skipped with (nil, nil).
func (s *InventoryService) ApplyDeltaTx(executor repositories.SQLExecutor, p StockDeltaParams) (*models.InventoryLedgerEntry, error) {
	if !models.IsValidActivityCategory(p.Category) {
		return nil, fmt.Errorf("%w: unknown activity category '%s'", ErrValidation, p.Category)
	}
	if p.Category == models.ActivityDailySnapshot {
		return nil, fmt.Errorf("%w: daily_snapshot entries are posted by the snapshot run, not by delta", ErrValidation)
	}
	if p.Delta.IsZero() {
		return nil, nil
	}

	item, err := s.menuRepo.GetItemForUpdate(executor, p.MenuItemID)
	if err != nil {
		return nil, err
	}
	if !item.TracksStock {
		utils.LogDebug(fmt.Sprintf("skipping stock write for untracked item %d (%s)", item.ID, item.Name))
		return nil, nil
	}
	return s.postQuantityChange(executor, item, p)
}

// postQuantityChange is the single write path for stock. The caller must hold
// the item row lock and guarantee a non-zero delta on a tracked item.
func (s *InventoryService) postQuantityChange(executor repositories.SQLExecutor, item *models.MenuItem, p StockDeltaParams) (*models.InventoryLedgerEntry, error) {
	before := decimal.Zero
	if item.CurrentStock != nil {
		before = *item.CurrentStock
	}
	after := before.Add(p.Delta)

	if after.IsNegative() && !p.AllowNegative {
		return nil, fmt.Errorf("%w: item '%s' has %s in stock, cannot deduct %s",
			ErrInsufficientStock, item.Name, before.String(), p.Delta.Neg().String())
	}

	if err := s.menuRepo.SetItemStock(executor, item.ID, after); err != nil {
		return nil, err
	}

	entry := &models.InventoryLedgerEntry{
		MenuItemID:     item.ID,
		Category:       p.Category,
		QuantityBefore: before,
		QuantityChange: p.Delta,
		QuantityAfter:  after,
		ReferenceType:  p.ReferenceType,
		ReferenceID:    p.ReferenceID,
		Note:           p.Note,
		ActorID:        p.ActorID,
	}
	if _, err := s.invRepo.AppendLedgerEntry(executor, entry); err != nil {
		return nil, err
	}

	params := repositories.SnapshotUpsertParams{
		MenuItemID:      item.ID,
		SnapshotDate:    snapshotDate(time.Now()),
		CurrentQuantity: after,
	}
	// Buckets accumulate unsigned volume; the category picks the bucket.
	// Opening stock touches no bucket, it only seeds the snapshot row.
	switch p.Category {
	case models.ActivityPurchase:
		params.PurchasesInc = p.Delta.Abs()
	case models.ActivitySale, models.ActivityConsumption:
		params.SalesInc = p.Delta.Abs()
	case models.ActivityAdjustment:
		params.AdjustmentsInc = p.Delta.Abs()
	}
	if _, err := s.invRepo.UpsertDailySnapshot(executor, params); err != nil {
		return nil, err
	}
	return entry, nil
}

// RecordDailySnapshot refreshes the snapshot row for one item from its live
// quantity without moving stock. The end-of-day run calls this per item so
// days with no movement still get a row.
func (s *InventoryService) RecordDailySnapshot(menuItemID int64) (*models.DailyStockSnapshot, error) {
	var snapshot *models.DailyStockSnapshot
	err := s.txManager.WithTransaction(func(executor repositories.SQLExecutor) error {
		item, err := s.menuRepo.GetItemForUpdate(executor, menuItemID)
		if err != nil {
			return err
		}
		if !item.TracksStock {
			return fmt.Errorf("%w: item '%s' does not track stock", ErrValidation, item.Name)
		}

		current := decimal.Zero
		if item.CurrentStock != nil {
			current = *item.CurrentStock
		}
		snapshot, err = s.invRepo.UpsertDailySnapshot(executor, repositories.SnapshotUpsertParams{
			MenuItemID:      item.ID,
			SnapshotDate:    snapshotDate(time.Now()),
			CurrentQuantity: current,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return snapshot, nil
}

// RecordAllDailySnapshots runs the end-of-day snapshot over every tracked
// item. Items are processed in separate transactions; a failure on one item
// is logged and does not abort the rest.
func (s *InventoryService) RecordAllDailySnapshots() (int, error) {
	ids, err := s.menuRepo.GetTrackedItemIDs()
	if err != nil {
		return 0, err
	}

	count := 0
	for _, id := range ids {
		if _, err := s.RecordDailySnapshot(id); err != nil {
			utils.LogError(err, fmt.Sprintf("daily snapshot failed for item %d", id))
			continue
		}
		count++
	}
	return count, nil
}

// GetLedger lists ledger entries with filters and pagination.
func (s *InventoryService) GetLedger(filter models.LedgerFilter) ([]models.InventoryLedgerEntry, int, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	return s.invRepo.GetLedgerEntries(filter)
}

// GetSnapshots lists daily snapshots with filters and pagination.
func (s *InventoryService) GetSnapshots(filter models.SnapshotFilter) ([]models.DailyStockSnapshot, int, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	return s.invRepo.GetSnapshots(filter)
}

// snapshotDate truncates a timestamp to its calendar day in local time.
func snapshotDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
