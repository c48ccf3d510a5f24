package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/storelane/storelane-api/internal/models"
	"github.com/storelane/storelane-api/internal/repository"
	"github.com/storelane/storelane-api/internal/utils"
)

// OrderService exposes order listings and status transitions to the
// dashboard. Orders are created by storefront checkout, never here.
type OrderService struct {
	orders    *repository.OrderRepository
	customers *repository.CustomerRepository
	logger    zerolog.Logger
}

// NewOrderService constructs an OrderService.
func NewOrderService(orders *repository.OrderRepository, customers *repository.CustomerRepository, logger zerolog.Logger) *OrderService {
	return &OrderService{
		orders:    orders,
		customers: customers,
		logger:    logger.With().Str("component", "order_service").Logger(),
	}
}

// List returns orders with pagination and an optional status filter.
func (s *OrderService) List(ctx context.Context, storeID string, status models.OrderStatus, page, limit int) ([]models.Order, int, error) {
	if status != "" && !validOrderStatus(status) {
		return nil, 0, fmt.Errorf("%w: unknown status %q", utils.ErrValidation, status)
	}
	return s.orders.List(ctx, storeID, status, page, limit)
}

// Get returns an order with its items.
func (s *OrderService) Get(ctx context.Context, storeID, id string) (*models.Order, error) {
	return s.orders.GetByID(ctx, storeID, id)
}

// UpdateStatus moves an order through its lifecycle. A transition to paid
// also bumps the customer's purchase statistics.
func (s *OrderService) UpdateStatus(ctx context.Context, storeID, id string, status models.OrderStatus) (*models.Order, error) {
	if !validOrderStatus(status) {
		return nil, fmt.Errorf("%w: unknown status %q", utils.ErrValidation, status)
	}
	order, err := s.orders.GetByID(ctx, storeID, id)
	if err != nil {
		return nil, err
	}
	if err := s.orders.UpdateStatus(ctx, storeID, id, status); err != nil {
		return nil, err
	}

	if status == models.OrderPaid && !order.IsPaid && order.CustomerID != nil {
		if err := s.customers.RecordPurchase(ctx, storeID, *order.CustomerID, order.Total); err != nil {
			s.logger.Warn().Err(err).Str("order_id", id).Msg("Failed to record customer purchase")
		}
	}

	order.Status = status
	order.IsPaid = order.IsPaid || status == models.OrderPaid
	return order, nil
}

func validOrderStatus(status models.OrderStatus) bool {
	switch status {
	case models.OrderPending, models.OrderPaid, models.OrderShipped, models.OrderDelivered, models.OrderCancelled:
		return true
	}
	return false
}
