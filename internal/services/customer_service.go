package services

import (
	"restro_backend/internal/models"
	"restro_backend/internal/repositories"
)

// CustomerService handles customer management for credit sales and billing.
type CustomerService struct {
	txManager    repositories.TxManager
	customerRepo repositories.CustomerRepository
}

// NewCustomerService creates a new CustomerService.
func NewCustomerService(txManager repositories.TxManager, customerRepo repositories.CustomerRepository) *CustomerService {
	return &CustomerService{txManager: txManager, customerRepo: customerRepo}
}

func (s *CustomerService) CreateCustomer(customer *models.Customer) error {
	return s.txManager.WithTransaction(func(executor repositories.SQLExecutor) error {
		_, err := s.customerRepo.CreateCustomer(executor, customer)
		return err
	})
}

func (s *CustomerService) GetCustomerByID(id int64) (*models.Customer, error) {
	return s.customerRepo.GetCustomerByID(id)
}

func (s *CustomerService) GetCustomers(page, pageSize int, searchTerm *string) ([]models.Customer, int, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	return s.customerRepo.GetCustomers(page, pageSize, searchTerm)
}

func (s *CustomerService) UpdateCustomer(customer *models.Customer) error {
	return s.txManager.WithTransaction(func(executor repositories.SQLExecutor) error {
		return s.customerRepo.UpdateCustomer(executor, customer)
	})
}

func (s *CustomerService) DeleteCustomer(id int64) error {
	return s.txManager.WithTransaction(func(executor repositories.SQLExecutor) error {
		return s.customerRepo.DeleteCustomer(executor, id)
	})
}
