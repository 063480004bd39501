package services

import (
	"fmt"
	"strings"
	"time"

	"restro_backend/internal/models"
	"restro_backend/internal/repositories"
	"restro_backend/pkg/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PurchaseService handles supplier purchase orders. Receiving an order posts
// one `purchase` ledger entry per stock-tracked line in the same transaction
// as the status change, so stock and paperwork cannot diverge.
type PurchaseService struct {
	txManager    repositories.TxManager
	purchaseRepo repositories.PurchaseRepository
	inventorySvc *InventoryService
}

// NewPurchaseService creates a new PurchaseService.
func NewPurchaseService(txManager repositories.TxManager, purchaseRepo repositories.PurchaseRepository, inventorySvc *InventoryService) *PurchaseService {
	return &PurchaseService{txManager: txManager, purchaseRepo: purchaseRepo, inventorySvc: inventorySvc}
}

// CreatePurchaseOrderRequest is the payload for drafting a purchase order.
type CreatePurchaseOrderRequest struct {
	SupplierName string                   `json:"supplier_name" binding:"required"`
	Notes        *string                  `json:"notes,omitempty"`
	Items        []PurchaseOrderItemInput `json:"items" binding:"required,min=1,dive"`
}

// PurchaseOrderItemInput is one requested line on a new purchase order.
type PurchaseOrderItemInput struct {
	MenuItemID int64   `json:"menu_item_id" binding:"required"`
	Quantity   string  `json:"quantity" binding:"required,decimalqty"`
	UnitCost   float64 `json:"unit_cost" binding:"gte=0"`
}

// CreatePurchaseOrder drafts a new purchase order with its lines.
func (s *PurchaseService) CreatePurchaseOrder(req CreatePurchaseOrderRequest, createdBy *int64) (*models.PurchaseOrder, error) {
	order := &models.PurchaseOrder{
		PONumber:     newPONumber(),
		SupplierName: req.SupplierName,
		Status:       models.PurchaseStatusDraft,
		Notes:        req.Notes,
		CreatedBy:    createdBy,
	}

	err := s.txManager.WithTransaction(func(executor repositories.SQLExecutor) error {
		if _, err := s.purchaseRepo.CreatePurchaseOrder(executor, order); err != nil {
			return err
		}
		for _, line := range req.Items {
			qty, err := parsePositiveQuantity(line.Quantity)
			if err != nil {
				return err
			}
			item := &models.PurchaseOrderItem{
				PurchaseOrderID: order.ID,
				MenuItemID:      line.MenuItemID,
				Quantity:        qty,
				UnitCost:        line.UnitCost,
			}
			if _, err := s.purchaseRepo.CreatePurchaseOrderItem(executor, item); err != nil {
				return err
			}
			order.Items = append(order.Items, *item)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	utils.LogInfo(fmt.Sprintf("purchase order created: %s (%d lines)", order.PONumber, len(order.Items)))
	return order, nil
}

// GetPurchaseOrderByID fetches one purchase order with its lines.
func (s *PurchaseService) GetPurchaseOrderByID(id int64) (*models.PurchaseOrder, error) {
	var order *models.PurchaseOrder
	err := s.txManager.WithTransaction(func(executor repositories.SQLExecutor) error {
		var err error
		order, err = s.purchaseRepo.GetPurchaseOrderByID(executor, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// GetPurchaseOrders lists purchase orders.
func (s *PurchaseService) GetPurchaseOrders(filters models.PurchaseOrderFilters) ([]models.PurchaseOrder, int, error) {
	if filters.Page <= 0 {
		filters.Page = 1
	}
	if filters.PageSize <= 0 {
		filters.PageSize = 20
	}
	return s.purchaseRepo.GetPurchaseOrders(filters)
}

// MarkOrdered moves a draft order to ordered.
func (s *PurchaseService) MarkOrdered(id int64) (*models.PurchaseOrder, error) {
	return s.transition(id, models.PurchaseStatusDraft, models.PurchaseStatusOrdered)
}

// CancelPurchaseOrder cancels a draft or ordered purchase order. Received
// orders are immutable; stock corrections go through manual adjustment.
func (s *PurchaseService) CancelPurchaseOrder(id int64) (*models.PurchaseOrder, error) {
	var order *models.PurchaseOrder
	err := s.txManager.WithTransaction(func(executor repositories.SQLExecutor) error {
		var err error
		order, err = s.purchaseRepo.GetPurchaseOrderByID(executor, id)
		if err != nil {
			return err
		}
		if order.Status != models.PurchaseStatusDraft && order.Status != models.PurchaseStatusOrdered {
			return fmt.Errorf("%w: purchase order %s is %s and cannot be cancelled", ErrValidation, order.PONumber, order.Status)
		}
		order.Status = models.PurchaseStatusCancelled
		return s.purchaseRepo.UpdatePurchaseOrderStatus(executor, id, models.PurchaseStatusCancelled, nil, nil)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// ReceivePurchaseOrder marks an ordered purchase order as received and posts
// a purchase ledger entry for every stock-tracked line.
func (s *PurchaseService) ReceivePurchaseOrder(id int64, actorID *int64) (*models.PurchaseOrder, error) {
	var order *models.PurchaseOrder
	err := s.txManager.WithTransaction(func(executor repositories.SQLExecutor) error {
		var err error
		order, err = s.purchaseRepo.GetPurchaseOrderByID(executor, id)
		if err != nil {
			return err
		}
		if order.Status != models.PurchaseStatusOrdered {
			return fmt.Errorf("%w: purchase order %s is %s, only ordered orders can be received", ErrValidation, order.PONumber, order.Status)
		}

		receivedAt := time.Now()
		if err := s.purchaseRepo.UpdatePurchaseOrderStatus(executor, id, models.PurchaseStatusReceived, nil, &receivedAt); err != nil {
			return err
		}

		refType := models.ReferencePurchaseOrder
		note := fmt.Sprintf("received %s", order.PONumber)
		for _, line := range order.Items {
			_, err := s.inventorySvc.ApplyDeltaTx(executor, StockDeltaParams{
				MenuItemID:    line.MenuItemID,
				Delta:         line.Quantity,
				Category:      models.ActivityPurchase,
				ReferenceType: &refType,
				ReferenceID:   &order.ID,
				Note:          &note,
				ActorID:       actorID,
			})
			if err != nil {
				return err
			}
		}
		order.Status = models.PurchaseStatusReceived
		order.ReceivedAt = &receivedAt
		return nil
	})
	if err != nil {
		return nil, err
	}

	utils.LogInfo(fmt.Sprintf("purchase order received: %s", order.PONumber))
	return order, nil
}

// DeletePurchaseOrder removes a draft purchase order. Anything past draft
// stays for the audit trail.
func (s *PurchaseService) DeletePurchaseOrder(id int64) error {
	return s.txManager.WithTransaction(func(executor repositories.SQLExecutor) error {
		order, err := s.purchaseRepo.GetPurchaseOrderByID(executor, id)
		if err != nil {
			return err
		}
		if order.Status != models.PurchaseStatusDraft {
			return fmt.Errorf("%w: only draft purchase orders can be deleted", ErrValidation)
		}
		return s.purchaseRepo.DeletePurchaseOrder(executor, id)
	})
}

func (s *PurchaseService) transition(id int64, from, to string) (*models.PurchaseOrder, error) {
	var order *models.PurchaseOrder
	err := s.txManager.WithTransaction(func(executor repositories.SQLExecutor) error {
		var err error
		order, err = s.purchaseRepo.GetPurchaseOrderByID(executor, id)
		if err != nil {
			return err
		}
		if order.Status != from {
			return fmt.Errorf("%w: purchase order %s is %s, expected %s", ErrValidation, order.PONumber, order.Status, from)
		}

		var orderedAt *time.Time
		if to == models.PurchaseStatusOrdered {
			now := time.Now()
			orderedAt = &now
			order.OrderedAt = orderedAt
		}
		order.Status = to
		return s.purchaseRepo.UpdatePurchaseOrderStatus(executor, id, to, orderedAt, nil)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func newPONumber() string {
	return "PO-" + strings.ToUpper(uuid.New().String()[:8])
}

// parsePositiveQuantity converts a request quantity string into a decimal,
// rejecting zero and negative values.
func parsePositiveQuantity(s string) (d decimal.Decimal, err error) {
	d, err = decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: invalid quantity '%s'", ErrValidation, s)
	}
	if !d.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: quantity must be positive", ErrValidation)
	}
	return d, nil
}
