package repository

import (
	"context"

	"github.com/polkiloo/campusorder/internal/domain/model"
)

// OrderRepository describes persistence operations with orders.
type OrderRepository interface {
	Create(ctx context.Context, userID int64, externalID, locationID string, total int) (*model.Order, error)
	GetByID(ctx context.Context, id int64) (*model.Order, error)
	ListByUser(ctx context.Context, userID int64) ([]model.Order, error)
	UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error
	Complete(ctx context.Context, orderID int64, status model.OrderStatus, barcode string) error
}
