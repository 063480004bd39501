package services

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newOrderFixture() (*OrderService, *fakeMenuRepo, *fakeOrderRepo) {
	menuRepo := newFakeMenuRepo()
	orderRepo := newFakeOrderRepo()
	svc := NewOrderService(&fakeTxManager{}, orderRepo, menuRepo)
	return svc, menuRepo, orderRepo
}

func TestCreateKitchenOrder(t *testing.T) {
	svc, menuRepo, _ := newOrderFixture()
	menuRepo.addTrackedItem(1, "Cola", 2.50, dec("10"))

	table := "T4"
	order, err := svc.CreateKitchenOrder(CreateKitchenOrderRequest{
		TableNumber: &table,
		Items:       []KitchenOrderItemInput{{MenuItemID: 1, Quantity: 2}},
	}, nil)
	require.NoError(t, err)
	require.Equal(t, KOTStatusPending, order.Status)
	require.NotEmpty(t, order.KOTNumber)
	require.Len(t, order.Items, 1)

	// Opening a ticket never touches stock.
	require.True(t, menuRepo.stockOf(1).Equal(dec("10")))
}

func TestCreateKitchenOrder_UnavailableItem(t *testing.T) {
	svc, menuRepo, _ := newOrderFixture()
	menuRepo.addTrackedItem(1, "Cola", 2.50, dec("10"))
	menuRepo.items[1].IsAvailable = false

	_, err := svc.CreateKitchenOrder(CreateKitchenOrderRequest{
		Items: []KitchenOrderItemInput{{MenuItemID: 1, Quantity: 1}},
	}, nil)
	require.ErrorIs(t, err, ErrValidation)
}

func TestKitchenOrderStatusTransitions(t *testing.T) {
	svc, menuRepo, _ := newOrderFixture()
	menuRepo.addTrackedItem(1, "Cola", 2.50, dec("10"))

	order, err := svc.CreateKitchenOrder(CreateKitchenOrderRequest{
		Items: []KitchenOrderItemInput{{MenuItemID: 1, Quantity: 1}},
	}, nil)
	require.NoError(t, err)

	// pending cannot jump straight to served.
	_, err = svc.UpdateStatus(order.ID, KOTStatusServed)
	require.ErrorIs(t, err, ErrValidation)

	for _, status := range []string{KOTStatusPreparing, KOTStatusReady, KOTStatusServed} {
		updated, err := svc.UpdateStatus(order.ID, status)
		require.NoError(t, err)
		require.Equal(t, status, updated.Status)
	}

	// served is terminal.
	_, err = svc.UpdateStatus(order.ID, KOTStatusCancelled)
	require.ErrorIs(t, err, ErrValidation)

	// unknown status is rejected outright.
	_, err = svc.UpdateStatus(order.ID, "burnt")
	require.ErrorIs(t, err, ErrValidation)
}

func TestKitchenOrderCancellation(t *testing.T) {
	svc, menuRepo, _ := newOrderFixture()
	menuRepo.addTrackedItem(1, "Cola", 2.50, dec("10"))

	order, err := svc.CreateKitchenOrder(CreateKitchenOrderRequest{
		Items: []KitchenOrderItemInput{{MenuItemID: 1, Quantity: 1}},
	}, nil)
	require.NoError(t, err)

	cancelled, err := svc.UpdateStatus(order.ID, KOTStatusCancelled)
	require.NoError(t, err)
	require.Equal(t, KOTStatusCancelled, cancelled.Status)

	_, err = svc.UpdateStatus(order.ID, KOTStatusPreparing)
	require.ErrorIs(t, err, ErrValidation)
}
