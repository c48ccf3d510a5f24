package service

import (
	"context"

	"github.com/storelane/storelane-api/internal/models"
	"github.com/storelane/storelane-api/internal/repository"
)

// CustomerService exposes storefront buyers to the dashboard.
type CustomerService struct {
	customers *repository.CustomerRepository
}

// NewCustomerService constructs a CustomerService.
func NewCustomerService(customers *repository.CustomerRepository) *CustomerService {
	return &CustomerService{customers: customers}
}

// List returns customers with pagination and optional name/email search.
func (s *CustomerService) List(ctx context.Context, storeID, search string, page, limit int) ([]models.Customer, int, error) {
	return s.customers.List(ctx, storeID, search, page, limit)
}

// Get returns a customer.
func (s *CustomerService) Get(ctx context.Context, storeID, id string) (*models.Customer, error) {
	return s.customers.GetByID(ctx, storeID, id)
}
