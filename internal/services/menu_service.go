package services

import (
	"restro_backend/internal/models"
	"restro_backend/internal/repositories"
)

// MenuService handles menu category and item management. Stock quantities are
// read here but only ever written through the InventoryService.
type MenuService struct {
	txManager repositories.TxManager
	menuRepo  repositories.MenuRepository
}

// NewMenuService creates a new MenuService.
func NewMenuService(txManager repositories.TxManager, menuRepo repositories.MenuRepository) *MenuService {
	return &MenuService{txManager: txManager, menuRepo: menuRepo}
}

// --- Categories ---

func (s *MenuService) CreateCategory(category *models.MenuCategory) error {
	return s.txManager.WithTransaction(func(executor repositories.SQLExecutor) error {
		_, err := s.menuRepo.CreateCategory(executor, category)
		return err
	})
}

func (s *MenuService) GetCategoryByID(id int64) (*models.MenuCategory, error) {
	return s.menuRepo.GetCategoryByID(id)
}

func (s *MenuService) GetCategories(page, pageSize int) ([]models.MenuCategory, int, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	return s.menuRepo.GetCategories(page, pageSize)
}

func (s *MenuService) UpdateCategory(category *models.MenuCategory) error {
	return s.txManager.WithTransaction(func(executor repositories.SQLExecutor) error {
		return s.menuRepo.UpdateCategory(executor, category)
	})
}

func (s *MenuService) DeleteCategory(id int64) error {
	return s.txManager.WithTransaction(func(executor repositories.SQLExecutor) error {
		return s.menuRepo.DeleteCategory(executor, id)
	})
}

// --- Items ---

func (s *MenuService) CreateItem(item *models.MenuItem) error {
	return s.txManager.WithTransaction(func(executor repositories.SQLExecutor) error {
		_, err := s.menuRepo.CreateItem(executor, item)
		return err
	})
}

func (s *MenuService) GetItemByID(id int64) (*models.MenuItem, error) {
	return s.menuRepo.GetItemByID(id)
}

func (s *MenuService) GetItems(categoryID *int64, itemType *string, page, pageSize int) ([]models.MenuItem, int, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	return s.menuRepo.GetItems(categoryID, itemType, page, pageSize)
}

// UpdateItem edits item attributes. CurrentStock on the payload is ignored;
// stock edits go through the inventory endpoints.
func (s *MenuService) UpdateItem(item *models.MenuItem) error {
	return s.txManager.WithTransaction(func(executor repositories.SQLExecutor) error {
		return s.menuRepo.UpdateItem(executor, item)
	})
}

func (s *MenuService) DeleteItem(id int64) error {
	return s.txManager.WithTransaction(func(executor repositories.SQLExecutor) error {
		return s.menuRepo.DeleteItem(executor, id)
	})
}
