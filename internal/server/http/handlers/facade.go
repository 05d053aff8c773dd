package handlers

import (
	"context"
	"encoding/json"

	"github.com/polkiloo/campusorder/internal/domain/model"
	"github.com/polkiloo/campusorder/internal/worker"
)

// AuthFacade describes authentication capabilities required by handlers.
type AuthFacade interface {
	Register(ctx context.Context, login, password string) (string, error)
	Authenticate(ctx context.Context, login, password string) (string, error)
	ParseToken(token string) (int64, error)
	SetCampusCredentials(ctx context.Context, userID int64, username, password string) error
}

// OrderFacade encapsulates order operations exposed via HTTP.
type OrderFacade interface {
	PlaceOrder(ctx context.Context, userID int64, req model.OrderRequest) (*worker.ProcessResult, error)
	Orders(ctx context.Context, userID int64) ([]model.Order, error)
}

// CampusFacade proxies read-only upstream lookups.
type CampusFacade interface {
	Menu(ctx context.Context, userID int64, locationID string) (json.RawMessage, error)
	Locations(ctx context.Context, userID int64) (json.RawMessage, error)
}

// ScheduleFacade manages deferred orders.
type ScheduleFacade interface {
	ScheduleOrder(ctx context.Context, order *model.ScheduledOrder) (*model.ScheduledOrder, error)
	ScheduledOrders(ctx context.Context, userID int64) ([]model.ScheduledOrder, error)
	CancelScheduledOrder(ctx context.Context, id, userID int64) error
}

// OrderingFacade aggregates the full set of operations used across handlers.
type OrderingFacade interface {
	AuthFacade
	OrderFacade
	CampusFacade
	ScheduleFacade
}
