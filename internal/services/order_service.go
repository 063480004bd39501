package services

import (
	"fmt"
	"strings"

	"restro_backend/internal/models"
	"restro_backend/internal/repositories"
	"restro_backend/pkg/utils"

	"github.com/google/uuid"
)

// Kitchen order ticket statuses.
const (
	KOTStatusPending   = "pending"
	KOTStatusPreparing = "preparing"
	KOTStatusReady     = "ready"
	KOTStatusServed    = "served"
	KOTStatusCancelled = "cancelled"
)

// kotTransitions is the allowed status graph for a ticket. Stock is not
// touched here; deduction happens when the invoice is confirmed.
var kotTransitions = map[string][]string{
	KOTStatusPending:   {KOTStatusPreparing, KOTStatusCancelled},
	KOTStatusPreparing: {KOTStatusReady, KOTStatusCancelled},
	KOTStatusReady:     {KOTStatusServed, KOTStatusCancelled},
	KOTStatusServed:    {},
	KOTStatusCancelled: {},
}

// OrderService handles kitchen order tickets.
type OrderService struct {
	txManager repositories.TxManager
	orderRepo repositories.OrderRepository
	menuRepo  repositories.MenuRepository
}

// NewOrderService creates a new OrderService.
func NewOrderService(txManager repositories.TxManager, orderRepo repositories.OrderRepository, menuRepo repositories.MenuRepository) *OrderService {
	return &OrderService{txManager: txManager, orderRepo: orderRepo, menuRepo: menuRepo}
}

// CreateKitchenOrderRequest is the payload for opening a new ticket.
type CreateKitchenOrderRequest struct {
	TableNumber *string                 `json:"table_number,omitempty"`
	Notes       *string                 `json:"notes,omitempty"`
	Items       []KitchenOrderItemInput `json:"items" binding:"required,min=1,dive"`
}

// KitchenOrderItemInput is one requested line on a new ticket.
type KitchenOrderItemInput struct {
	MenuItemID int64   `json:"menu_item_id" binding:"required"`
	Quantity   int     `json:"quantity" binding:"required,gt=0"`
	Notes      *string `json:"notes,omitempty"`
}

// CreateKitchenOrder opens a ticket after checking every item is available.
func (s *OrderService) CreateKitchenOrder(req CreateKitchenOrderRequest, createdBy *int64) (*models.KitchenOrder, error) {
	order := &models.KitchenOrder{
		KOTNumber:   newKOTNumber(),
		TableNumber: req.TableNumber,
		Status:      KOTStatusPending,
		Notes:       req.Notes,
		CreatedBy:   createdBy,
	}

	err := s.txManager.WithTransaction(func(executor repositories.SQLExecutor) error {
		for _, line := range req.Items {
			_, itemName, _, isAvailable, err := s.menuRepo.GetItemPriceAndName(line.MenuItemID)
			if err != nil {
				return err
			}
			if !isAvailable {
				return fmt.Errorf("%w: item '%s' is not available", ErrValidation, itemName)
			}
		}

		if _, err := s.orderRepo.CreateKitchenOrder(executor, order); err != nil {
			return err
		}
		for _, line := range req.Items {
			item := &models.KitchenOrderItem{
				KitchenOrderID: order.ID,
				MenuItemID:     line.MenuItemID,
				Quantity:       line.Quantity,
				Notes:          line.Notes,
			}
			if _, err := s.orderRepo.CreateKitchenOrderItem(executor, item); err != nil {
				return err
			}
			order.Items = append(order.Items, *item)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	utils.LogInfo(fmt.Sprintf("KOT created: %s (%d lines)", order.KOTNumber, len(order.Items)))
	return order, nil
}

// GetKitchenOrderByID fetches one ticket with its lines.
func (s *OrderService) GetKitchenOrderByID(id int64) (*models.KitchenOrder, error) {
	var order *models.KitchenOrder
	err := s.txManager.WithTransaction(func(executor repositories.SQLExecutor) error {
		var err error
		order, err = s.orderRepo.GetKitchenOrderByID(executor, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// GetKitchenOrders lists tickets for the kitchen screen.
func (s *OrderService) GetKitchenOrders(filters models.KitchenOrderFilters) ([]models.KitchenOrder, int, error) {
	if filters.Page <= 0 {
		filters.Page = 1
	}
	if filters.PageSize <= 0 {
		filters.PageSize = 20
	}
	return s.orderRepo.GetKitchenOrders(filters)
}

// UpdateStatus moves a ticket along the kitchen workflow.
func (s *OrderService) UpdateStatus(id int64, newStatus string) (*models.KitchenOrder, error) {
	if _, known := kotTransitions[newStatus]; !known {
		return nil, fmt.Errorf("%w: unknown KOT status '%s'", ErrValidation, newStatus)
	}

	var order *models.KitchenOrder
	err := s.txManager.WithTransaction(func(executor repositories.SQLExecutor) error {
		var err error
		order, err = s.orderRepo.GetKitchenOrderByID(executor, id)
		if err != nil {
			return err
		}
		if !transitionAllowed(order.Status, newStatus) {
			return fmt.Errorf("%w: KOT %s cannot go from %s to %s", ErrValidation, order.KOTNumber, order.Status, newStatus)
		}
		if err := s.orderRepo.UpdateKitchenOrderStatus(executor, id, newStatus); err != nil {
			return err
		}
		order.Status = newStatus
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func transitionAllowed(from, to string) bool {
	for _, next := range kotTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func newKOTNumber() string {
	return "KOT-" + strings.ToUpper(uuid.New().String()[:8])
}
