package app

import (
	"context"

	"github.com/polkiloo/campusorder/internal/adapter/dining"
	"github.com/polkiloo/campusorder/internal/domain/model"
	"github.com/polkiloo/campusorder/internal/usecase"
	"github.com/polkiloo/campusorder/internal/worker"
)

// sessionFactory adapts dining.Factory to the worker's session interface.
type sessionFactory struct {
	inner dining.Factory
}

func (s sessionFactory) Session(identity dining.Identity) (worker.Session, error) {
	switch v := identity.(type) {
	case dining.Credentials:
		return s.inner.WithCredentials(v)
	case dining.Token:
		return s.inner.WithToken(v)
	}
	return s.inner.WithToken(dining.Token{})
}

// orderStore adapts the order use case to worker.OrderStore.
type orderStore struct {
	orders *usecase.OrderUseCase
}

func (s orderStore) CreateOrder(ctx context.Context, userID int64, externalID, locationID string, total int) (*model.Order, error) {
	return s.orders.Create(ctx, userID, externalID, locationID, total)
}

func (s orderStore) UpdateOrderStatus(ctx context.Context, orderID int64, status model.OrderStatus) error {
	return s.orders.UpdateStatus(ctx, orderID, status)
}

func (s orderStore) CompleteOrder(ctx context.Context, orderID int64, status model.OrderStatus, barcode string) error {
	return s.orders.Complete(ctx, orderID, status, barcode)
}
