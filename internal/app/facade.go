package app

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/polkiloo/campusorder/internal/adapter/dining"
	"github.com/polkiloo/campusorder/internal/domain/model"
	"github.com/polkiloo/campusorder/internal/usecase"
	"github.com/polkiloo/campusorder/internal/worker"
)

// OrderingFacade aggregates the application operations exposed to HTTP
// handlers and to the background scheduler. It implements
// worker.ScheduleStore.
type OrderingFacade struct {
	auth      *usecase.AuthUseCase
	orders    *usecase.OrderUseCase
	scheduled *usecase.ScheduledOrderUseCase
	sessions  dining.Factory
	processor *worker.Processor
}

// NewOrderingFacade constructs the facade.
func NewOrderingFacade(
	auth *usecase.AuthUseCase,
	orders *usecase.OrderUseCase,
	scheduled *usecase.ScheduledOrderUseCase,
	sessions dining.Factory,
	processor *worker.Processor,
) *OrderingFacade {
	return &OrderingFacade{
		auth:      auth,
		orders:    orders,
		scheduled: scheduled,
		sessions:  sessions,
		processor: processor,
	}
}

// --- service-API auth ---

func (f *OrderingFacade) Register(ctx context.Context, login, password string) (string, error) {
	_, token, err := f.auth.Register(ctx, login, password)
	return token, err
}

func (f *OrderingFacade) Authenticate(ctx context.Context, login, password string) (string, error) {
	_, token, err := f.auth.Authenticate(ctx, login, password)
	return token, err
}

func (f *OrderingFacade) ParseToken(token string) (int64, error) {
	return f.auth.ParseToken(token)
}

func (f *OrderingFacade) SetCampusCredentials(ctx context.Context, userID int64, username, password string) error {
	return f.auth.SetCampusCredentials(ctx, userID, username, password)
}

// --- orders ---

// PlaceOrder submits and tracks an order on behalf of the user, blocking
// until a terminal state. The user's stored campus credentials authenticate
// the upstream session.
func (f *OrderingFacade) PlaceOrder(ctx context.Context, userID int64, req model.OrderRequest) (*worker.ProcessResult, error) {
	creds, err := f.auth.CampusCredentials(ctx, userID)
	if err != nil {
		return nil, err
	}
	return f.processor.Process(ctx, worker.ProcessRequest{
		UserID:         userID,
		Identity:       dining.Credentials{Username: creds.Username, Password: creds.Password},
		CartItems:      req.CartItems,
		LocationID:     req.LocationID,
		Total:          req.Total,
		OrderType:      req.OrderType,
		SpecialRequest: req.SpecialRequest,
	})
}

func (f *OrderingFacade) Orders(ctx context.Context, userID int64) ([]model.Order, error) {
	return f.orders.ListByUser(ctx, userID)
}

// --- upstream passthroughs ---

// campusSession opens a fresh authenticated session with the user's stored
// credentials.
func (f *OrderingFacade) campusSession(ctx context.Context, userID int64) (*dining.Client, error) {
	creds, err := f.auth.CampusCredentials(ctx, userID)
	if err != nil {
		return nil, err
	}
	client, err := f.sessions.WithCredentials(dining.Credentials{Username: creds.Username, Password: creds.Password})
	if err != nil {
		return nil, err
	}
	if err := client.Login(ctx); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	return client, nil
}

func (f *OrderingFacade) Menu(ctx context.Context, userID int64, locationID string) (json.RawMessage, error) {
	client, err := f.campusSession(ctx, userID)
	if err != nil {
		return nil, err
	}
	return client.Menu(ctx, locationID)
}

func (f *OrderingFacade) Locations(ctx context.Context, userID int64) (json.RawMessage, error) {
	client, err := f.campusSession(ctx, userID)
	if err != nil {
		return nil, err
	}
	return client.Locations(ctx)
}

// --- scheduled orders ---

func (f *OrderingFacade) ScheduleOrder(ctx context.Context, order *model.ScheduledOrder) (*model.ScheduledOrder, error) {
	return f.scheduled.Schedule(ctx, order)
}

func (f *OrderingFacade) ScheduledOrders(ctx context.Context, userID int64) ([]model.ScheduledOrder, error) {
	return f.scheduled.ListByUser(ctx, userID)
}

func (f *OrderingFacade) CancelScheduledOrder(ctx context.Context, id, userID int64) error {
	return f.scheduled.Cancel(ctx, id, userID)
}

// --- worker.ScheduleStore ---

func (f *OrderingFacade) DueScheduledOrders(ctx context.Context) ([]model.ScheduledOrder, error) {
	return f.scheduled.Due(ctx)
}

func (f *OrderingFacade) ClaimScheduledOrder(ctx context.Context, id int64) (bool, error) {
	return f.scheduled.Claim(ctx, id)
}

func (f *OrderingFacade) CompleteScheduledOrder(ctx context.Context, id int64, relatedOrderID, note string) error {
	return f.scheduled.Complete(ctx, id, relatedOrderID, note)
}

func (f *OrderingFacade) FailScheduledOrder(ctx context.Context, id int64, note string) error {
	return f.scheduled.Fail(ctx, id, note)
}

func (f *OrderingFacade) CampusCredentials(ctx context.Context, userID int64) (*model.CampusCredentials, error) {
	return f.auth.CampusCredentials(ctx, userID)
}
