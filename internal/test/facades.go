package test

import (
	"context"
	"encoding/json"
	"time"

	"github.com/polkiloo/campusorder/internal/domain/model"
	"github.com/polkiloo/campusorder/internal/worker"
)

// OrderFacadeStub provides controllable behaviour for order endpoints.
type OrderFacadeStub struct {
	PlaceFn  func(context.Context, int64, model.OrderRequest) (*worker.ProcessResult, error)
	OrdersFn func(context.Context, int64) ([]model.Order, error)
}

// PlaceOrder delegates to provided function or returns a completed result.
func (s OrderFacadeStub) PlaceOrder(ctx context.Context, userID int64, req model.OrderRequest) (*worker.ProcessResult, error) {
	if s.PlaceFn != nil {
		return s.PlaceFn(ctx, userID, req)
	}
	return &worker.ProcessResult{RecordID: 1, OrderID: "90001", Status: model.OrderStatusCompleted, Barcode: "bar"}, nil
}

// Orders returns predefined orders for given user.
func (s OrderFacadeStub) Orders(ctx context.Context, userID int64) ([]model.Order, error) {
	if s.OrdersFn != nil {
		return s.OrdersFn(ctx, userID)
	}
	return []model.Order{{ID: 1, UserID: userID, ExternalID: "90001", Status: model.OrderStatusCompleted, CreatedAt: time.Unix(0, 0)}}, nil
}

// CampusFacadeStub simulates upstream read-only lookups.
type CampusFacadeStub struct {
	MenuFn      func(context.Context, int64, string) (json.RawMessage, error)
	LocationsFn func(context.Context, int64) (json.RawMessage, error)
}

// Menu returns configured upstream payload.
func (s CampusFacadeStub) Menu(ctx context.Context, userID int64, locationID string) (json.RawMessage, error) {
	if s.MenuFn != nil {
		return s.MenuFn(ctx, userID, locationID)
	}
	return json.RawMessage(`{"menu":[]}`), nil
}

// Locations returns configured upstream payload.
func (s CampusFacadeStub) Locations(ctx context.Context, userID int64) (json.RawMessage, error) {
	if s.LocationsFn != nil {
		return s.LocationsFn(ctx, userID)
	}
	return json.RawMessage(`{"locations":[]}`), nil
}

// ScheduleFacadeStub simulates deferred-order operations.
type ScheduleFacadeStub struct {
	ScheduleFn func(context.Context, *model.ScheduledOrder) (*model.ScheduledOrder, error)
	ListFn     func(context.Context, int64) ([]model.ScheduledOrder, error)
	CancelFn   func(context.Context, int64, int64) error
}

// ScheduleOrder stores the request or delegates to an override.
func (s ScheduleFacadeStub) ScheduleOrder(ctx context.Context, order *model.ScheduledOrder) (*model.ScheduledOrder, error) {
	if s.ScheduleFn != nil {
		return s.ScheduleFn(ctx, order)
	}
	stored := *order
	stored.ID = 1
	stored.Status = model.ScheduledStatusScheduled
	return &stored, nil
}

// ScheduledOrders returns configured records.
func (s ScheduleFacadeStub) ScheduledOrders(ctx context.Context, userID int64) ([]model.ScheduledOrder, error) {
	if s.ListFn != nil {
		return s.ListFn(ctx, userID)
	}
	return []model.ScheduledOrder{{ID: 1, UserID: userID, Status: model.ScheduledStatusScheduled, ScheduledTime: time.Unix(0, 0)}}, nil
}

// CancelScheduledOrder delegates to an override or succeeds.
func (s ScheduleFacadeStub) CancelScheduledOrder(ctx context.Context, id, userID int64) error {
	if s.CancelFn != nil {
		return s.CancelFn(ctx, id, userID)
	}
	return nil
}
