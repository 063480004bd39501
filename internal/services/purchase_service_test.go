package services

import (
	"testing"

	"restro_backend/internal/models"

	"github.com/stretchr/testify/require"
)

type purchaseFixture struct {
	svc          *PurchaseService
	menuRepo     *fakeMenuRepo
	invRepo      *fakeInventoryRepo
	purchaseRepo *fakePurchaseRepo
}

func newPurchaseFixture() *purchaseFixture {
	tx := &fakeTxManager{}
	menuRepo := newFakeMenuRepo()
	invRepo := newFakeInventoryRepo()
	purchaseRepo := newFakePurchaseRepo()
	inventorySvc := NewInventoryService(tx, menuRepo, invRepo)
	svc := NewPurchaseService(tx, purchaseRepo, inventorySvc)
	return &purchaseFixture{svc: svc, menuRepo: menuRepo, invRepo: invRepo, purchaseRepo: purchaseRepo}
}

func TestCreatePurchaseOrder(t *testing.T) {
	f := newPurchaseFixture()
	f.menuRepo.addTrackedItem(1, "Rice 1kg", 4, dec("2"))

	order, err := f.svc.CreatePurchaseOrder(CreatePurchaseOrderRequest{
		SupplierName: "Metro Wholesale",
		Items: []PurchaseOrderItemInput{
			{MenuItemID: 1, Quantity: "12.5", UnitCost: 3.20},
		},
	}, nil)
	require.NoError(t, err)
	require.Equal(t, models.PurchaseStatusDraft, order.Status)
	require.NotEmpty(t, order.PONumber)
	require.Len(t, order.Items, 1)
	require.True(t, order.Items[0].Quantity.Equal(dec("12.5")))

	// Drafting moves no stock.
	require.True(t, f.menuRepo.stockOf(1).Equal(dec("2")))
	require.Empty(t, f.invRepo.entries)
}

func TestCreatePurchaseOrder_BadQuantity(t *testing.T) {
	f := newPurchaseFixture()
	f.menuRepo.addTrackedItem(1, "Rice 1kg", 4, dec("2"))

	_, err := f.svc.CreatePurchaseOrder(CreatePurchaseOrderRequest{
		SupplierName: "Metro Wholesale",
		Items: []PurchaseOrderItemInput{
			{MenuItemID: 1, Quantity: "0", UnitCost: 3.20},
		},
	}, nil)
	require.ErrorIs(t, err, ErrValidation)

	_, err = f.svc.CreatePurchaseOrder(CreatePurchaseOrderRequest{
		SupplierName: "Metro Wholesale",
		Items: []PurchaseOrderItemInput{
			{MenuItemID: 1, Quantity: "twelve", UnitCost: 3.20},
		},
	}, nil)
	require.ErrorIs(t, err, ErrValidation)
}

func TestReceivePurchaseOrder_PostsStock(t *testing.T) {
	f := newPurchaseFixture()
	f.menuRepo.addTrackedItem(1, "Rice 1kg", 4, dec("2"))
	f.menuRepo.addUntrackedItem(2, "Delivery fee", 5)

	order, err := f.svc.CreatePurchaseOrder(CreatePurchaseOrderRequest{
		SupplierName: "Metro Wholesale",
		Items: []PurchaseOrderItemInput{
			{MenuItemID: 1, Quantity: "10", UnitCost: 3.20},
			{MenuItemID: 2, Quantity: "1", UnitCost: 5},
		},
	}, nil)
	require.NoError(t, err)

	// Draft orders cannot be received directly.
	_, err = f.svc.ReceivePurchaseOrder(order.ID, nil)
	require.ErrorIs(t, err, ErrValidation)

	_, err = f.svc.MarkOrdered(order.ID)
	require.NoError(t, err)

	received, err := f.svc.ReceivePurchaseOrder(order.ID, nil)
	require.NoError(t, err)
	require.Equal(t, models.PurchaseStatusReceived, received.Status)
	require.NotNil(t, received.ReceivedAt)

	require.True(t, f.menuRepo.stockOf(1).Equal(dec("12")))

	// One purchase entry for the tracked line only.
	require.Len(t, f.invRepo.entries, 1)
	entry := f.invRepo.lastEntry()
	require.Equal(t, models.ActivityPurchase, entry.Category)
	require.True(t, entry.QuantityChange.Equal(dec("10")))
	require.NotNil(t, entry.ReferenceType)
	require.Equal(t, models.ReferencePurchaseOrder, *entry.ReferenceType)
	require.Equal(t, &order.ID, entry.ReferenceID)

	snap := f.invRepo.todaySnapshot(1)
	require.NotNil(t, snap)
	require.True(t, snap.Purchases.Equal(dec("10")))

	// Receiving twice is rejected.
	_, err = f.svc.ReceivePurchaseOrder(order.ID, nil)
	require.ErrorIs(t, err, ErrValidation)
}

func TestCancelPurchaseOrder(t *testing.T) {
	f := newPurchaseFixture()
	f.menuRepo.addTrackedItem(1, "Rice 1kg", 4, dec("2"))

	order, err := f.svc.CreatePurchaseOrder(CreatePurchaseOrderRequest{
		SupplierName: "Metro Wholesale",
		Items:        []PurchaseOrderItemInput{{MenuItemID: 1, Quantity: "10"}},
	}, nil)
	require.NoError(t, err)

	cancelled, err := f.svc.CancelPurchaseOrder(order.ID)
	require.NoError(t, err)
	require.Equal(t, models.PurchaseStatusCancelled, cancelled.Status)

	// Cancelled orders stay cancelled.
	_, err = f.svc.MarkOrdered(order.ID)
	require.ErrorIs(t, err, ErrValidation)
}

func TestDeletePurchaseOrder_DraftOnly(t *testing.T) {
	f := newPurchaseFixture()
	f.menuRepo.addTrackedItem(1, "Rice 1kg", 4, dec("2"))

	order, err := f.svc.CreatePurchaseOrder(CreatePurchaseOrderRequest{
		SupplierName: "Metro Wholesale",
		Items:        []PurchaseOrderItemInput{{MenuItemID: 1, Quantity: "10"}},
	}, nil)
	require.NoError(t, err)

	_, err = f.svc.MarkOrdered(order.ID)
	require.NoError(t, err)

	err = f.svc.DeletePurchaseOrder(order.ID)
	require.ErrorIs(t, err, ErrValidation)
}
