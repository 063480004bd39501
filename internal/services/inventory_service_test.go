package services

import (
	"testing"

	"restro_backend/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func newInventoryFixture() (*InventoryService, *fakeMenuRepo, *fakeInventoryRepo) {
	menuRepo := newFakeMenuRepo()
	invRepo := newFakeInventoryRepo()
	svc := NewInventoryService(&fakeTxManager{}, menuRepo, invRepo)
	return svc, menuRepo, invRepo
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// The classifier only sees the direction of the change. It cannot tell
// kitchen usage from wastage or a miscount, so every decrease lands in
// consumption and every increase in adjustment. Flows that know the real
// cause (purchasing, billing) pass an explicit category instead of going
// through this heuristic.
func TestClassifyQuantityChange(t *testing.T) {
	tests := []struct {
		name   string
		oldQty string
		newQty string
		want   string
	}{
		{"decrease is consumption", "10", "7", models.ActivityConsumption},
		{"wastage decrease is still consumption", "10", "9", models.ActivityConsumption},
		{"increase is adjustment", "10", "12.5", models.ActivityAdjustment},
		{"equal is no event", "10", "10", ""},
		{"equal with different scale is no event", "10", "10.000", ""},
		{"decrease to zero is consumption", "3", "0", models.ActivityConsumption},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyQuantityChange(dec(tt.oldQty), dec(tt.newQty))
			require.Equal(t, tt.want, got)
		})
	}
}

func TestSetItemQuantity_NoOpWhenEqual(t *testing.T) {
	svc, menuRepo, invRepo := newInventoryFixture()
	menuRepo.addTrackedItem(1, "Cola", 2.50, dec("10"))

	entry, err := svc.SetItemQuantity(ManualStockUpdateRequest{MenuItemID: 1, NewQuantity: dec("10.000")}, nil)
	require.NoError(t, err)
	require.Nil(t, entry)
	require.Empty(t, invRepo.entries)
	require.Nil(t, invRepo.todaySnapshot(1))
	require.True(t, menuRepo.stockOf(1).Equal(dec("10")))
}

func TestSetItemQuantity_DecreaseRecordsConsumption(t *testing.T) {
	svc, menuRepo, invRepo := newInventoryFixture()
	menuRepo.addTrackedItem(1, "Cola", 2.50, dec("10"))

	actorID := int64(7)
	entry, err := svc.SetItemQuantity(ManualStockUpdateRequest{MenuItemID: 1, NewQuantity: dec("7")}, &actorID)
	require.NoError(t, err)
	require.NotNil(t, entry)

	require.Equal(t, models.ActivityConsumption, entry.Category)
	require.True(t, entry.QuantityBefore.Equal(dec("10")))
	require.True(t, entry.QuantityChange.Equal(dec("-3")))
	require.True(t, entry.QuantityAfter.Equal(dec("7")))
	require.True(t, entry.QuantityAfter.Equal(entry.QuantityBefore.Add(entry.QuantityChange)))
	require.NotNil(t, entry.ReferenceType)
	require.Equal(t, models.ReferenceManual, *entry.ReferenceType)
	require.Equal(t, &actorID, entry.ActorID)

	require.True(t, menuRepo.stockOf(1).Equal(dec("7")))

	snap := invRepo.todaySnapshot(1)
	require.NotNil(t, snap)
	require.True(t, snap.Sales.Equal(dec("3")), "manual decrease lands in the sales bucket")
	require.True(t, snap.Purchases.IsZero())
	require.True(t, snap.Adjustments.IsZero())
	require.True(t, snap.ClosingStock.Equal(dec("7")))
}

func TestSetItemQuantity_IncreaseRecordsAdjustment(t *testing.T) {
	svc, menuRepo, invRepo := newInventoryFixture()
	menuRepo.addTrackedItem(1, "Cola", 2.50, dec("10"))

	entry, err := svc.SetItemQuantity(ManualStockUpdateRequest{MenuItemID: 1, NewQuantity: dec("12.5")}, nil)
	require.NoError(t, err)
	require.NotNil(t, entry)

	require.Equal(t, models.ActivityAdjustment, entry.Category)
	require.True(t, entry.QuantityChange.Equal(dec("2.5")))
	require.True(t, menuRepo.stockOf(1).Equal(dec("12.5")))

	snap := invRepo.todaySnapshot(1)
	require.NotNil(t, snap)
	require.True(t, snap.Adjustments.Equal(dec("2.5")))
	require.True(t, snap.Sales.IsZero())
}

func TestSetItemQuantity_Rejections(t *testing.T) {
	svc, menuRepo, _ := newInventoryFixture()
	menuRepo.addTrackedItem(1, "Cola", 2.50, dec("10"))
	menuRepo.addUntrackedItem(2, "Haircut", 15)

	_, err := svc.SetItemQuantity(ManualStockUpdateRequest{MenuItemID: 1, NewQuantity: dec("-1")}, nil)
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.SetItemQuantity(ManualStockUpdateRequest{MenuItemID: 2, NewQuantity: dec("5")}, nil)
	require.ErrorIs(t, err, ErrValidation)
}

func TestSeedOpeningStock(t *testing.T) {
	svc, menuRepo, invRepo := newInventoryFixture()
	menuRepo.addTrackedItem(1, "Cola", 2.50, decimal.Zero)

	entry, err := svc.SeedOpeningStock(OpeningStockRequest{MenuItemID: 1, Quantity: dec("20")}, nil)
	require.NoError(t, err)
	require.NotNil(t, entry)
	require.Equal(t, models.ActivityOpeningStock, entry.Category)
	require.True(t, entry.QuantityBefore.IsZero())
	require.True(t, entry.QuantityAfter.Equal(dec("20")))
	require.NotNil(t, entry.ReferenceType)
	require.Equal(t, models.ReferenceSystem, *entry.ReferenceType)
	require.True(t, menuRepo.stockOf(1).Equal(dec("20")))

	// Opening stock touches no bucket, it only seeds the snapshot row.
	snap := invRepo.todaySnapshot(1)
	require.NotNil(t, snap)
	require.True(t, snap.OpeningStock.Equal(dec("20")))
	require.True(t, snap.Purchases.IsZero())
	require.True(t, snap.Sales.IsZero())
	require.True(t, snap.Adjustments.IsZero())

	// Only once per item.
	_, err = svc.SeedOpeningStock(OpeningStockRequest{MenuItemID: 1, Quantity: dec("5")}, nil)
	require.ErrorIs(t, err, ErrValidation)

	// Quantity must be positive.
	_, err = svc.SeedOpeningStock(OpeningStockRequest{MenuItemID: 1, Quantity: decimal.Zero}, nil)
	require.ErrorIs(t, err, ErrValidation)
}

func TestApplyDelta_InsufficientStock(t *testing.T) {
	svc, menuRepo, invRepo := newInventoryFixture()
	menuRepo.addTrackedItem(1, "Cola", 2.50, dec("2"))

	_, err := svc.ApplyDelta(StockDeltaParams{
		MenuItemID: 1,
		Delta:      dec("-3"),
		Category:   models.ActivitySale,
	})
	require.ErrorIs(t, err, ErrInsufficientStock)

	// Nothing was written.
	require.Empty(t, invRepo.entries)
	require.True(t, menuRepo.stockOf(1).Equal(dec("2")))
}

func TestApplyDelta_BucketRouting(t *testing.T) {
	tests := []struct {
		name     string
		category string
		delta    string
		bucket   func(*models.DailyStockSnapshot) decimal.Decimal
		want     string
	}{
		{"purchase fills purchases", models.ActivityPurchase, "5",
			func(s *models.DailyStockSnapshot) decimal.Decimal { return s.Purchases }, "5"},
		{"sale fills sales", models.ActivitySale, "-4",
			func(s *models.DailyStockSnapshot) decimal.Decimal { return s.Sales }, "4"},
		{"consumption fills sales", models.ActivityConsumption, "-2.5",
			func(s *models.DailyStockSnapshot) decimal.Decimal { return s.Sales }, "2.5"},
		{"adjustment fills adjustments", models.ActivityAdjustment, "3",
			func(s *models.DailyStockSnapshot) decimal.Decimal { return s.Adjustments }, "3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, menuRepo, invRepo := newInventoryFixture()
			menuRepo.addTrackedItem(1, "Cola", 2.50, dec("10"))

			_, err := svc.ApplyDelta(StockDeltaParams{MenuItemID: 1, Delta: dec(tt.delta), Category: tt.category})
			require.NoError(t, err)

			snap := invRepo.todaySnapshot(1)
			require.NotNil(t, snap)
			require.True(t, tt.bucket(snap).Equal(dec(tt.want)))
		})
	}
}

func TestApplyDelta_SkipsUntrackedAndZero(t *testing.T) {
	svc, menuRepo, invRepo := newInventoryFixture()
	menuRepo.addTrackedItem(1, "Cola", 2.50, dec("10"))
	menuRepo.addUntrackedItem(2, "Haircut", 15)

	entry, err := svc.ApplyDelta(StockDeltaParams{MenuItemID: 2, Delta: dec("-1"), Category: models.ActivitySale})
	require.NoError(t, err)
	require.Nil(t, entry)

	entry, err = svc.ApplyDelta(StockDeltaParams{MenuItemID: 1, Delta: decimal.Zero, Category: models.ActivitySale})
	require.NoError(t, err)
	require.Nil(t, entry)

	require.Empty(t, invRepo.entries)
}

func TestApplyDelta_RejectsBadCategory(t *testing.T) {
	svc, menuRepo, _ := newInventoryFixture()
	menuRepo.addTrackedItem(1, "Cola", 2.50, dec("10"))

	_, err := svc.ApplyDelta(StockDeltaParams{MenuItemID: 1, Delta: dec("1"), Category: "theft"})
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.ApplyDelta(StockDeltaParams{MenuItemID: 1, Delta: dec("1"), Category: models.ActivityDailySnapshot})
	require.ErrorIs(t, err, ErrValidation)
}

func TestLedgerChainsAcrossOperations(t *testing.T) {
	svc, menuRepo, invRepo := newInventoryFixture()
	menuRepo.addTrackedItem(1, "Rice 1kg", 4, decimal.Zero)

	_, err := svc.SeedOpeningStock(OpeningStockRequest{MenuItemID: 1, Quantity: dec("10")}, nil)
	require.NoError(t, err)

	_, err = svc.ApplyDelta(StockDeltaParams{MenuItemID: 1, Delta: dec("5"), Category: models.ActivityPurchase})
	require.NoError(t, err)

	_, err = svc.ApplyDelta(StockDeltaParams{MenuItemID: 1, Delta: dec("-3"), Category: models.ActivitySale})
	require.NoError(t, err)

	entries, _, err := invRepo.GetLedgerEntries(models.LedgerFilter{})
	require.NoError(t, err)
	require.Len(t, entries, 3)

	for i := 1; i < len(entries); i++ {
		require.True(t, entries[i].QuantityBefore.Equal(entries[i-1].QuantityAfter),
			"entry %d must start where entry %d ended", i, i-1)
	}
	for _, e := range entries {
		require.False(t, e.QuantityChange.IsZero())
		require.True(t, e.QuantityAfter.Equal(e.QuantityBefore.Add(e.QuantityChange)))
	}
	require.True(t, menuRepo.stockOf(1).Equal(dec("12")))
}

func TestSnapshotMaxStockRatchet(t *testing.T) {
	svc, menuRepo, invRepo := newInventoryFixture()
	menuRepo.addTrackedItem(1, "Cola", 2.50, dec("10"))

	_, err := svc.ApplyDelta(StockDeltaParams{MenuItemID: 1, Delta: dec("10"), Category: models.ActivityPurchase})
	require.NoError(t, err)
	_, err = svc.ApplyDelta(StockDeltaParams{MenuItemID: 1, Delta: dec("-15"), Category: models.ActivitySale})
	require.NoError(t, err)
	_, err = svc.ApplyDelta(StockDeltaParams{MenuItemID: 1, Delta: dec("7"), Category: models.ActivityPurchase})
	require.NoError(t, err)

	snap := invRepo.todaySnapshot(1)
	require.NotNil(t, snap)
	require.True(t, snap.MaxStock.Equal(dec("20")), "max holds the day's high-water mark")
	require.True(t, snap.ClosingStock.Equal(dec("12")))
	require.True(t, snap.Purchases.Equal(dec("17")))
	require.True(t, snap.Sales.Equal(dec("15")))
}

func TestRecordDailySnapshots(t *testing.T) {
	svc, menuRepo, invRepo := newInventoryFixture()
	menuRepo.addTrackedItem(1, "Cola", 2.50, dec("8"))
	menuRepo.addTrackedItem(2, "Rice 1kg", 4, dec("3"))
	menuRepo.addUntrackedItem(3, "Haircut", 15)

	count, err := svc.RecordAllDailySnapshots()
	require.NoError(t, err)
	require.Equal(t, 2, count)

	snap := invRepo.todaySnapshot(1)
	require.NotNil(t, snap)
	require.True(t, snap.OpeningStock.Equal(dec("8")))
	require.True(t, snap.ClosingStock.Equal(dec("8")))
	require.True(t, snap.Purchases.IsZero())
	require.Empty(t, invRepo.entries, "snapshot runs post no ledger entries")

	// A later movement on the same day keeps the original opening.
	_, err = svc.ApplyDelta(StockDeltaParams{MenuItemID: 1, Delta: dec("-2"), Category: models.ActivitySale})
	require.NoError(t, err)
	snap = invRepo.todaySnapshot(1)
	require.True(t, snap.OpeningStock.Equal(dec("8")))
	require.True(t, snap.ClosingStock.Equal(dec("6")))
}
