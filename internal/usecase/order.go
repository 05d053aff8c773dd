package usecase

import (
	"context"

	"github.com/polkiloo/campusorder/internal/domain/model"
	"github.com/polkiloo/campusorder/internal/domain/repository"
)

// OrderUseCase encapsulates order record bookkeeping.
type OrderUseCase struct {
	orders repository.OrderRepository
}

// NewOrderUseCase constructs OrderUseCase.
func NewOrderUseCase(orders repository.OrderRepository) *OrderUseCase {
	return &OrderUseCase{orders: orders}
}

// Create registers the record of a freshly submitted order.
func (u *OrderUseCase) Create(ctx context.Context, userID int64, externalID, locationID string, total int) (*model.Order, error) {
	return u.orders.Create(ctx, userID, externalID, locationID, total)
}

// ListByUser returns orders newest first.
func (u *OrderUseCase) ListByUser(ctx context.Context, userID int64) ([]model.Order, error) {
	return u.orders.ListByUser(ctx, userID)
}

// UpdateStatus persists a lifecycle transition.
func (u *OrderUseCase) UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error {
	return u.orders.UpdateStatus(ctx, orderID, status)
}

// Complete persists a terminal status together with the pickup barcode.
func (u *OrderUseCase) Complete(ctx context.Context, orderID int64, status model.OrderStatus, barcode string) error {
	return u.orders.Complete(ctx, orderID, status, barcode)
}
