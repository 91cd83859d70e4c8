package repository

import (
	"context"

	"github.com/fylo-cloud/fylo/internal/domain/order"
)

// DisabledOrderRepository stands in for the order store when no database is
// configured. Every call fails with order.ErrStorageNotConfigured.
type DisabledOrderRepository struct{}

func NewDisabledOrderRepository() *DisabledOrderRepository {
	return &DisabledOrderRepository{}
}

func (DisabledOrderRepository) Create(context.Context, *order.Order) error {
	return order.ErrStorageNotConfigured
}

func (DisabledOrderRepository) GetByID(context.Context, string) (*order.Order, error) {
	return nil, order.ErrStorageNotConfigured
}

func (DisabledOrderRepository) ListRecent(context.Context, int) ([]*order.Order, error) {
	return nil, order.ErrStorageNotConfigured
}

func (DisabledOrderRepository) UpdateStatus(context.Context, string, order.Status) (*order.Order, error) {
	return nil, order.ErrStorageNotConfigured
}

func (DisabledOrderRepository) Delete(context.Context, string) error {
	return order.ErrStorageNotConfigured
}

func (DisabledOrderRepository) Stats(context.Context) (*order.Stats, error) {
	return nil, order.ErrStorageNotConfigured
}

func (DisabledOrderRepository) MonthlyRevenue(context.Context, int) ([]order.RevenuePoint, error) {
	return nil, order.ErrStorageNotConfigured
}
