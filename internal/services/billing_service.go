package services

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"restro_backend/internal/models"
	"restro_backend/internal/repositories"
	"restro_backend/pkg/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BillingService handles the invoice lifecycle and payments. Confirming an
// invoice posts `sale` ledger entries for every stock-tracked line in the
// same transaction as the status change; cancelling a confirmed invoice posts
// compensating `adjustment` entries that return the stock.
type BillingService struct {
	txManager    repositories.TxManager
	invoiceRepo  repositories.InvoiceRepository
	menuRepo     repositories.MenuRepository
	orderRepo    repositories.OrderRepository
	settingRepo  repositories.SettingRepository
	inventorySvc *InventoryService
}

// NewBillingService creates a new BillingService.
func NewBillingService(
	txManager repositories.TxManager,
	invoiceRepo repositories.InvoiceRepository,
	menuRepo repositories.MenuRepository,
	orderRepo repositories.OrderRepository,
	settingRepo repositories.SettingRepository,
	inventorySvc *InventoryService,
) *BillingService {
	return &BillingService{
		txManager:    txManager,
		invoiceRepo:  invoiceRepo,
		menuRepo:     menuRepo,
		orderRepo:    orderRepo,
		settingRepo:  settingRepo,
		inventorySvc: inventorySvc,
	}
}

// CreateInvoiceRequest is the payload for drafting an invoice. Either Items
// or KitchenOrderID must be set; with both, the explicit items win.
type CreateInvoiceRequest struct {
	CustomerID      *int64             `json:"customer_id,omitempty"`
	KitchenOrderID  *int64             `json:"kitchen_order_id,omitempty"`
	DiscountAmount  float64            `json:"discount_amount" binding:"gte=0"`
	Notes           *string            `json:"notes,omitempty"`
	Items           []InvoiceItemInput `json:"items,omitempty" binding:"omitempty,dive"`
}

// InvoiceItemInput is one requested billing line.
type InvoiceItemInput struct {
	MenuItemID int64   `json:"menu_item_id" binding:"required"`
	Quantity   int     `json:"quantity" binding:"required,gt=0"`
	Notes      *string `json:"notes,omitempty"`
}

// RecordPaymentRequest is the payload for collecting against an invoice.
type RecordPaymentRequest struct {
	Amount        float64 `json:"amount" binding:"required,gt=0"`
	PaymentMethod string  `json:"payment_method" binding:"required,paymentmethod"`
	Notes         *string `json:"notes,omitempty"`
}

// CreateInvoice drafts an invoice, pricing every line from the live menu and
// capturing name and unit price so later menu edits do not rewrite the bill.
func (s *BillingService) CreateInvoice(req CreateInvoiceRequest, createdBy *int64) (*models.Invoice, error) {
	lines := req.Items
	var kotID *int64

	invoice := &models.Invoice{
		InvoiceNumber:  newInvoiceNumber(),
		CustomerID:     req.CustomerID,
		Status:         models.InvoiceStatusDraft,
		DiscountAmount: req.DiscountAmount,
		Notes:          req.Notes,
		CreatedBy:      createdBy,
	}

	err := s.txManager.WithTransaction(func(executor repositories.SQLExecutor) error {
		if len(lines) == 0 {
			if req.KitchenOrderID == nil {
				return fmt.Errorf("%w: an invoice needs items or a kitchen order", ErrValidation)
			}
			kot, err := s.orderRepo.GetKitchenOrderByID(executor, *req.KitchenOrderID)
			if err != nil {
				return err
			}
			if kot.Status == KOTStatusCancelled {
				return fmt.Errorf("%w: cannot bill cancelled KOT %s", ErrValidation, kot.KOTNumber)
			}
			for _, ki := range kot.Items {
				lines = append(lines, InvoiceItemInput{
					MenuItemID: ki.MenuItemID,
					Quantity:   ki.Quantity,
					Notes:      ki.Notes,
				})
			}
			kotID = &kot.ID
		} else if req.KitchenOrderID != nil {
			kotID = req.KitchenOrderID
		}
		if len(lines) == 0 {
			return fmt.Errorf("%w: kitchen order has no items to bill", ErrValidation)
		}
		invoice.KitchenOrderID = kotID

		subtotal := 0.0
		var items []models.InvoiceItem
		for _, line := range lines {
			price, itemName, _, _, err := s.menuRepo.GetItemPriceAndName(line.MenuItemID)
			if err != nil {
				if errors.Is(err, repositories.ErrNotFound) {
					return fmt.Errorf("%w: menu item %d not found", ErrValidation, line.MenuItemID)
				}
				return err
			}
			total := roundMoney(price * float64(line.Quantity))
			items = append(items, models.InvoiceItem{
				MenuItemID: line.MenuItemID,
				ItemName:   itemName,
				Quantity:   line.Quantity,
				UnitPrice:  price,
				TotalPrice: total,
				Notes:      line.Notes,
			})
			subtotal += total
		}
		subtotal = roundMoney(subtotal)

		if req.DiscountAmount > subtotal {
			return fmt.Errorf("%w: discount exceeds subtotal", ErrValidation)
		}

		taxRate, err := s.taxRatePercent()
		if err != nil {
			return err
		}
		taxable := subtotal - req.DiscountAmount
		taxAmount := roundMoney(taxable * taxRate / 100)

		invoice.Subtotal = subtotal
		invoice.TaxAmount = taxAmount
		invoice.TotalAmount = roundMoney(taxable + taxAmount)

		if _, err := s.invoiceRepo.CreateInvoice(executor, invoice); err != nil {
			return err
		}
		for i := range items {
			items[i].InvoiceID = invoice.ID
			if _, err := s.invoiceRepo.CreateInvoiceItem(executor, &items[i]); err != nil {
				return err
			}
		}
		invoice.Items = items
		return nil
	})
	if err != nil {
		return nil, err
	}

	utils.LogInfo(fmt.Sprintf("invoice drafted: %s total=%.2f", invoice.InvoiceNumber, invoice.TotalAmount))
	return invoice, nil
}

// GetInvoiceByID fetches one invoice with items and payments.
func (s *BillingService) GetInvoiceByID(id int64) (*models.Invoice, error) {
	var invoice *models.Invoice
	err := s.txManager.WithTransaction(func(executor repositories.SQLExecutor) error {
		var err error
		invoice, err = s.invoiceRepo.GetInvoiceByID(executor, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return invoice, nil
}

// GetInvoices lists invoices.
func (s *BillingService) GetInvoices(filters models.InvoiceFilters) ([]models.Invoice, int, error) {
	if filters.Page <= 0 {
		filters.Page = 1
	}
	if filters.PageSize <= 0 {
		filters.PageSize = 20
	}
	return s.invoiceRepo.GetInvoices(filters)
}

// ConfirmInvoice finalizes a draft invoice and deducts stock for every
// tracked line. If any line lacks stock the whole confirmation rolls back.
func (s *BillingService) ConfirmInvoice(id int64, actorID *int64) (*models.Invoice, error) {
	var invoice *models.Invoice
	err := s.txManager.WithTransaction(func(executor repositories.SQLExecutor) error {
		var err error
		invoice, err = s.invoiceRepo.GetInvoiceForUpdate(executor, id)
		if err != nil {
			return err
		}
		if invoice.Status != models.InvoiceStatusDraft {
			return fmt.Errorf("%w: invoice %s is %s, only drafts can be confirmed", ErrValidation, invoice.InvoiceNumber, invoice.Status)
		}

		confirmedAt := time.Now()
		if err := s.invoiceRepo.UpdateInvoiceStatus(executor, id, models.InvoiceStatusConfirmed, &confirmedAt); err != nil {
			return err
		}

		refType := models.ReferenceInvoice
		note := fmt.Sprintf("sale %s", invoice.InvoiceNumber)
		for _, line := range invoice.Items {
			_, err := s.inventorySvc.ApplyDeltaTx(executor, StockDeltaParams{
				MenuItemID:    line.MenuItemID,
				Delta:         decimal.NewFromInt(int64(line.Quantity)).Neg(),
				Category:      models.ActivitySale,
				ReferenceType: &refType,
				ReferenceID:   &invoice.ID,
				Note:          &note,
				ActorID:       actorID,
			})
			if err != nil {
				return err
			}
		}
		invoice.Status = models.InvoiceStatusConfirmed
		invoice.ConfirmedAt = &confirmedAt
		return nil
	})
	if err != nil {
		return nil, err
	}

	utils.LogInfo(fmt.Sprintf("invoice confirmed: %s", invoice.InvoiceNumber))
	return invoice, nil
}

// CancelInvoice voids an invoice. Draft invoices just flip status; confirmed
// invoices additionally post compensating adjustment entries returning the
// deducted stock. Paid invoices cannot be cancelled, only refunded.
func (s *BillingService) CancelInvoice(id int64, actorID *int64) (*models.Invoice, error) {
	var invoice *models.Invoice
	err := s.txManager.WithTransaction(func(executor repositories.SQLExecutor) error {
		var err error
		invoice, err = s.invoiceRepo.GetInvoiceForUpdate(executor, id)
		if err != nil {
			return err
		}

		switch invoice.Status {
		case models.InvoiceStatusDraft:
			// nothing was deducted, just void it
		case models.InvoiceStatusConfirmed:
			refType := models.ReferenceInvoice
			note := fmt.Sprintf("cancelled %s", invoice.InvoiceNumber)
			for _, line := range invoice.Items {
				_, err := s.inventorySvc.ApplyDeltaTx(executor, StockDeltaParams{
					MenuItemID:    line.MenuItemID,
					Delta:         decimal.NewFromInt(int64(line.Quantity)),
					Category:      models.ActivityAdjustment,
					ReferenceType: &refType,
					ReferenceID:   &invoice.ID,
					Note:          &note,
					ActorID:       actorID,
				})
				if err != nil {
					return err
				}
			}
		default:
			return fmt.Errorf("%w: invoice %s is %s and cannot be cancelled", ErrValidation, invoice.InvoiceNumber, invoice.Status)
		}

		if err := s.invoiceRepo.UpdateInvoiceStatus(executor, id, models.InvoiceStatusCancelled, nil); err != nil {
			return err
		}
		invoice.Status = models.InvoiceStatusCancelled
		return nil
	})
	if err != nil {
		return nil, err
	}

	utils.LogInfo(fmt.Sprintf("invoice cancelled: %s", invoice.InvoiceNumber))
	return invoice, nil
}

// RecordPayment collects against a confirmed invoice. When collections reach
// the total the invoice settles to paid. Overpayment is rejected.
func (s *BillingService) RecordPayment(invoiceID int64, req RecordPaymentRequest, receivedBy *int64) (*models.Payment, error) {
	payment := &models.Payment{
		InvoiceID:     invoiceID,
		Amount:        req.Amount,
		PaymentMethod: req.PaymentMethod,
		ReceivedBy:    receivedBy,
		ReceivedAt:    time.Now(),
		Notes:         req.Notes,
	}

	err := s.txManager.WithTransaction(func(executor repositories.SQLExecutor) error {
		invoice, err := s.invoiceRepo.GetInvoiceForUpdate(executor, invoiceID)
		if err != nil {
			return err
		}
		if invoice.Status != models.InvoiceStatusConfirmed {
			return fmt.Errorf("%w: invoice %s is %s, payments need a confirmed invoice", ErrValidation, invoice.InvoiceNumber, invoice.Status)
		}

		outstanding := roundMoney(invoice.TotalAmount - invoice.AmountPaid)
		if req.Amount > outstanding+0.005 {
			return fmt.Errorf("%w: payment %.2f exceeds outstanding %.2f", ErrValidation, req.Amount, outstanding)
		}

		if _, err := s.invoiceRepo.CreatePayment(executor, payment); err != nil {
			return err
		}

		if roundMoney(invoice.AmountPaid+req.Amount) >= invoice.TotalAmount {
			if err := s.invoiceRepo.UpdateInvoiceStatus(executor, invoiceID, models.InvoiceStatusPaid, nil); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	utils.LogInfo(fmt.Sprintf("payment recorded: invoice=%d amount=%.2f method=%s", invoiceID, req.Amount, req.PaymentMethod))
	return payment, nil
}

// RefundInvoice marks a paid invoice as refunded and returns its stock via
// compensating adjustment entries.
func (s *BillingService) RefundInvoice(id int64, actorID *int64) (*models.Invoice, error) {
	var invoice *models.Invoice
	err := s.txManager.WithTransaction(func(executor repositories.SQLExecutor) error {
		var err error
		invoice, err = s.invoiceRepo.GetInvoiceForUpdate(executor, id)
		if err != nil {
			return err
		}
		if invoice.Status != models.InvoiceStatusPaid {
			return fmt.Errorf("%w: invoice %s is %s, only paid invoices can be refunded", ErrValidation, invoice.InvoiceNumber, invoice.Status)
		}

		refType := models.ReferenceInvoice
		note := fmt.Sprintf("refunded %s", invoice.InvoiceNumber)
		for _, line := range invoice.Items {
			_, err := s.inventorySvc.ApplyDeltaTx(executor, StockDeltaParams{
				MenuItemID:    line.MenuItemID,
				Delta:         decimal.NewFromInt(int64(line.Quantity)),
				Category:      models.ActivityAdjustment,
				ReferenceType: &refType,
				ReferenceID:   &invoice.ID,
				Note:          &note,
				ActorID:       actorID,
			})
			if err != nil {
				return err
			}
		}

		if err := s.invoiceRepo.UpdateInvoiceStatus(executor, id, models.InvoiceStatusRefunded, nil); err != nil {
			return err
		}
		invoice.Status = models.InvoiceStatusRefunded
		return nil
	})
	if err != nil {
		return nil, err
	}

	utils.LogInfo(fmt.Sprintf("invoice refunded: %s", invoice.InvoiceNumber))
	return invoice, nil
}

// taxRatePercent reads the configured tax percentage. A missing setting means
// no tax.
func (s *BillingService) taxRatePercent() (float64, error) {
	setting, err := s.settingRepo.GetSetting(models.SettingTaxRatePercent)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}
	rate, err := strconv.ParseFloat(setting.SettingValue, 64)
	if err != nil || rate < 0 {
		return 0, fmt.Errorf("%w: setting %s has invalid value '%s'", ErrValidation, models.SettingTaxRatePercent, setting.SettingValue)
	}
	return rate, nil
}

func newInvoiceNumber() string {
	return "INV-" + strings.ToUpper(uuid.New().String()[:8])
}

// roundMoney rounds to two decimal places, matching the NUMERIC(12,2)
// columns.
func roundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}
