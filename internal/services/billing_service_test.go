package services

import (
	"testing"

	"restro_backend/internal/models"

	"github.com/stretchr/testify/require"
)

type billingFixture struct {
	svc         *BillingService
	menuRepo    *fakeMenuRepo
	invRepo     *fakeInventoryRepo
	invoiceRepo *fakeInvoiceRepo
	orderRepo   *fakeOrderRepo
	settingRepo *fakeSettingRepo
}

func newBillingFixture() *billingFixture {
	tx := &fakeTxManager{}
	menuRepo := newFakeMenuRepo()
	invRepo := newFakeInventoryRepo()
	invoiceRepo := newFakeInvoiceRepo()
	orderRepo := newFakeOrderRepo()
	settingRepo := newFakeSettingRepo()
	inventorySvc := NewInventoryService(tx, menuRepo, invRepo)
	svc := NewBillingService(tx, invoiceRepo, menuRepo, orderRepo, settingRepo, inventorySvc)
	return &billingFixture{
		svc: svc, menuRepo: menuRepo, invRepo: invRepo,
		invoiceRepo: invoiceRepo, orderRepo: orderRepo, settingRepo: settingRepo,
	}
}

func TestCreateInvoice_PricesAndTax(t *testing.T) {
	f := newBillingFixture()
	f.menuRepo.addTrackedItem(1, "Cola", 2.50, dec("10"))
	f.menuRepo.addUntrackedItem(2, "Haircut", 15)
	f.settingRepo.values[models.SettingTaxRatePercent] = "10"

	invoice, err := f.svc.CreateInvoice(CreateInvoiceRequest{
		Items: []InvoiceItemInput{
			{MenuItemID: 1, Quantity: 4},
			{MenuItemID: 2, Quantity: 1},
		},
		DiscountAmount: 5,
	}, nil)
	require.NoError(t, err)

	require.Equal(t, models.InvoiceStatusDraft, invoice.Status)
	require.InDelta(t, 25.0, invoice.Subtotal, 0.001)     // 4*2.50 + 15
	require.InDelta(t, 2.0, invoice.TaxAmount, 0.001)     // (25-5) * 10%
	require.InDelta(t, 22.0, invoice.TotalAmount, 0.001)  // 20 + 2
	require.Len(t, invoice.Items, 2)
	require.Equal(t, "Cola", invoice.Items[0].ItemName)
	require.InDelta(t, 2.50, invoice.Items[0].UnitPrice, 0.001)

	// Drafting does not touch stock.
	require.True(t, f.menuRepo.stockOf(1).Equal(dec("10")))
	require.Empty(t, f.invRepo.entries)
}

func TestCreateInvoice_FromKitchenOrder(t *testing.T) {
	f := newBillingFixture()
	f.menuRepo.addTrackedItem(1, "Cola", 2.50, dec("10"))

	kot := &models.KitchenOrder{KOTNumber: "KOT-TEST", Status: KOTStatusServed}
	f.orderRepo.CreateKitchenOrder(nil, kot)
	f.orderRepo.CreateKitchenOrderItem(nil, &models.KitchenOrderItem{KitchenOrderID: kot.ID, MenuItemID: 1, Quantity: 3})

	invoice, err := f.svc.CreateInvoice(CreateInvoiceRequest{KitchenOrderID: &kot.ID}, nil)
	require.NoError(t, err)
	require.Len(t, invoice.Items, 1)
	require.Equal(t, 3, invoice.Items[0].Quantity)
	require.Equal(t, &kot.ID, invoice.KitchenOrderID)
	require.InDelta(t, 7.5, invoice.TotalAmount, 0.001)
}

func TestCreateInvoice_Rejections(t *testing.T) {
	f := newBillingFixture()
	f.menuRepo.addTrackedItem(1, "Cola", 2.50, dec("10"))

	_, err := f.svc.CreateInvoice(CreateInvoiceRequest{}, nil)
	require.ErrorIs(t, err, ErrValidation)

	_, err = f.svc.CreateInvoice(CreateInvoiceRequest{
		Items:          []InvoiceItemInput{{MenuItemID: 1, Quantity: 1}},
		DiscountAmount: 100,
	}, nil)
	require.ErrorIs(t, err, ErrValidation, "discount above subtotal")

	_, err = f.svc.CreateInvoice(CreateInvoiceRequest{
		Items: []InvoiceItemInput{{MenuItemID: 99, Quantity: 1}},
	}, nil)
	require.ErrorIs(t, err, ErrValidation, "unknown menu item")
}

func TestConfirmInvoice_DeductsStock(t *testing.T) {
	f := newBillingFixture()
	f.menuRepo.addTrackedItem(1, "Cola", 2.50, dec("10"))
	f.menuRepo.addUntrackedItem(2, "Haircut", 15)

	invoice, err := f.svc.CreateInvoice(CreateInvoiceRequest{
		Items: []InvoiceItemInput{
			{MenuItemID: 1, Quantity: 4},
			{MenuItemID: 2, Quantity: 1},
		},
	}, nil)
	require.NoError(t, err)

	confirmed, err := f.svc.ConfirmInvoice(invoice.ID, nil)
	require.NoError(t, err)
	require.Equal(t, models.InvoiceStatusConfirmed, confirmed.Status)
	require.NotNil(t, confirmed.ConfirmedAt)

	require.True(t, f.menuRepo.stockOf(1).Equal(dec("6")))

	// One sale entry for the tracked line, none for the service line.
	require.Len(t, f.invRepo.entries, 1)
	entry := f.invRepo.entries[0]
	require.Equal(t, models.ActivitySale, entry.Category)
	require.True(t, entry.QuantityChange.Equal(dec("-4")))
	require.NotNil(t, entry.ReferenceType)
	require.Equal(t, models.ReferenceInvoice, *entry.ReferenceType)
	require.Equal(t, &invoice.ID, entry.ReferenceID)

	// Only drafts confirm.
	_, err = f.svc.ConfirmInvoice(invoice.ID, nil)
	require.ErrorIs(t, err, ErrValidation)
}

func TestConfirmInvoice_InsufficientStock(t *testing.T) {
	f := newBillingFixture()
	f.menuRepo.addTrackedItem(1, "Cola", 2.50, dec("2"))

	invoice, err := f.svc.CreateInvoice(CreateInvoiceRequest{
		Items: []InvoiceItemInput{{MenuItemID: 1, Quantity: 5}},
	}, nil)
	require.NoError(t, err)

	_, err = f.svc.ConfirmInvoice(invoice.ID, nil)
	require.ErrorIs(t, err, ErrInsufficientStock)
	require.True(t, f.menuRepo.stockOf(1).Equal(dec("2")))
}

func TestCancelInvoice_ReturnsStock(t *testing.T) {
	f := newBillingFixture()
	f.menuRepo.addTrackedItem(1, "Cola", 2.50, dec("10"))

	invoice, err := f.svc.CreateInvoice(CreateInvoiceRequest{
		Items: []InvoiceItemInput{{MenuItemID: 1, Quantity: 4}},
	}, nil)
	require.NoError(t, err)
	_, err = f.svc.ConfirmInvoice(invoice.ID, nil)
	require.NoError(t, err)
	require.True(t, f.menuRepo.stockOf(1).Equal(dec("6")))

	cancelled, err := f.svc.CancelInvoice(invoice.ID, nil)
	require.NoError(t, err)
	require.Equal(t, models.InvoiceStatusCancelled, cancelled.Status)
	require.True(t, f.menuRepo.stockOf(1).Equal(dec("10")), "compensating entry returns the stock")

	require.Len(t, f.invRepo.entries, 2)
	comp := f.invRepo.entries[1]
	require.Equal(t, models.ActivityAdjustment, comp.Category)
	require.True(t, comp.QuantityChange.Equal(dec("4")))
}

func TestCancelDraftInvoice_NoLedgerActivity(t *testing.T) {
	f := newBillingFixture()
	f.menuRepo.addTrackedItem(1, "Cola", 2.50, dec("10"))

	invoice, err := f.svc.CreateInvoice(CreateInvoiceRequest{
		Items: []InvoiceItemInput{{MenuItemID: 1, Quantity: 4}},
	}, nil)
	require.NoError(t, err)

	cancelled, err := f.svc.CancelInvoice(invoice.ID, nil)
	require.NoError(t, err)
	require.Equal(t, models.InvoiceStatusCancelled, cancelled.Status)
	require.Empty(t, f.invRepo.entries)
}

func TestRecordPayment_SettlesToPaid(t *testing.T) {
	f := newBillingFixture()
	f.menuRepo.addTrackedItem(1, "Cola", 2.50, dec("10"))

	invoice, err := f.svc.CreateInvoice(CreateInvoiceRequest{
		Items: []InvoiceItemInput{{MenuItemID: 1, Quantity: 4}},
	}, nil)
	require.NoError(t, err)
	_, err = f.svc.ConfirmInvoice(invoice.ID, nil)
	require.NoError(t, err)

	// Partial payment keeps the invoice confirmed.
	_, err = f.svc.RecordPayment(invoice.ID, RecordPaymentRequest{Amount: 6, PaymentMethod: models.PaymentMethodCash}, nil)
	require.NoError(t, err)
	current, err := f.svc.GetInvoiceByID(invoice.ID)
	require.NoError(t, err)
	require.Equal(t, models.InvoiceStatusConfirmed, current.Status)
	require.InDelta(t, 6.0, current.AmountPaid, 0.001)

	// Overpayment is rejected.
	_, err = f.svc.RecordPayment(invoice.ID, RecordPaymentRequest{Amount: 100, PaymentMethod: models.PaymentMethodCard}, nil)
	require.ErrorIs(t, err, ErrValidation)

	// Settling the balance flips the status to paid.
	_, err = f.svc.RecordPayment(invoice.ID, RecordPaymentRequest{Amount: 4, PaymentMethod: models.PaymentMethodUPI}, nil)
	require.NoError(t, err)
	current, err = f.svc.GetInvoiceByID(invoice.ID)
	require.NoError(t, err)
	require.Equal(t, models.InvoiceStatusPaid, current.Status)

	// Paid invoices take no further payments.
	_, err = f.svc.RecordPayment(invoice.ID, RecordPaymentRequest{Amount: 1, PaymentMethod: models.PaymentMethodCash}, nil)
	require.ErrorIs(t, err, ErrValidation)
}

func TestRefundInvoice_ReturnsStock(t *testing.T) {
	f := newBillingFixture()
	f.menuRepo.addTrackedItem(1, "Cola", 2.50, dec("10"))

	invoice, err := f.svc.CreateInvoice(CreateInvoiceRequest{
		Items: []InvoiceItemInput{{MenuItemID: 1, Quantity: 4}},
	}, nil)
	require.NoError(t, err)
	_, err = f.svc.ConfirmInvoice(invoice.ID, nil)
	require.NoError(t, err)
	_, err = f.svc.RecordPayment(invoice.ID, RecordPaymentRequest{Amount: 10, PaymentMethod: models.PaymentMethodCash}, nil)
	require.NoError(t, err)

	// Confirmed-but-unpaid cannot be refunded; paid can.
	refunded, err := f.svc.RefundInvoice(invoice.ID, nil)
	require.NoError(t, err)
	require.Equal(t, models.InvoiceStatusRefunded, refunded.Status)
	require.True(t, f.menuRepo.stockOf(1).Equal(dec("10")))
}

func TestInvalidTaxSetting(t *testing.T) {
	f := newBillingFixture()
	f.menuRepo.addTrackedItem(1, "Cola", 2.50, dec("10"))
	f.settingRepo.values[models.SettingTaxRatePercent] = "banana"

	_, err := f.svc.CreateInvoice(CreateInvoiceRequest{
		Items: []InvoiceItemInput{{MenuItemID: 1, Quantity: 1}},
	}, nil)
	require.ErrorIs(t, err, ErrValidation)
}

func TestMissingTaxSettingMeansNoTax(t *testing.T) {
	f := newBillingFixture()
	f.menuRepo.addTrackedItem(1, "Cola", 2.50, dec("10"))

	invoice, err := f.svc.CreateInvoice(CreateInvoiceRequest{
		Items: []InvoiceItemInput{{MenuItemID: 1, Quantity: 2}},
	}, nil)
	require.NoError(t, err)
	require.InDelta(t, 0.0, invoice.TaxAmount, 0.001)
	require.InDelta(t, 5.0, invoice.TotalAmount, 0.001)
}
