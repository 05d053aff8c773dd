package worker

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/polkiloo/campusorder/internal/adapter/dining"
	"github.com/polkiloo/campusorder/internal/domain/model"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

// sessionStub mimics an authenticated upstream dining session.
type sessionStub struct {
	loginFn       func(context.Context) error
	priceCartFn   func(context.Context, []model.CartItem, string) (*dining.PricedCart, error)
	submitFn      func(context.Context, dining.CartRequest) (string, error)
	orderStatusFn func(context.Context, string) (*dining.OrderStatusPayload, error)

	loginCalls  int
	submitCalls int
	statusCalls int
}

func (s *sessionStub) Login(ctx context.Context) error {
	s.loginCalls++
	if s.loginFn != nil {
		return s.loginFn(ctx)
	}
	return nil
}

func (s *sessionStub) PriceCart(ctx context.Context, items []model.CartItem, locationID string) (*dining.PricedCart, error) {
	if s.priceCartFn != nil {
		return s.priceCartFn(ctx, items, locationID)
	}
	return &dining.PricedCart{Request: dining.CartRequest{LocationID: locationID, Items: items, GrandTotal: "0", Subtotal: "0", Tax: "0"}}, nil
}

func (s *sessionStub) SubmitOrder(ctx context.Context, cart dining.CartRequest) (string, error) {
	s.submitCalls++
	if s.submitFn != nil {
		return s.submitFn(ctx, cart)
	}
	return "90001", nil
}

func (s *sessionStub) OrderStatus(ctx context.Context, orderID string) (*dining.OrderStatusPayload, error) {
	s.statusCalls++
	if s.orderStatusFn != nil {
		return s.orderStatusFn(ctx, orderID)
	}
	return &dining.OrderStatusPayload{OrderID: orderID, BarcodeToken: "bar"}, nil
}

// sessionFactoryStub hands out a fixed session and records identities.
type sessionFactoryStub struct {
	session    Session
	err        error
	identities []dining.Identity
}

func (s *sessionFactoryStub) Session(identity dining.Identity) (Session, error) {
	s.identities = append(s.identities, identity)
	if s.err != nil {
		return nil, s.err
	}
	return s.session, nil
}

// statusUpdate captures one recorded transition.
type statusUpdate struct {
	orderID int64
	status  model.OrderStatus
	barcode string
}

// orderStoreStub records order persistence calls.
type orderStoreStub struct {
	createFn   func(context.Context, int64, string, string, int) (*model.Order, error)
	updateFn   func(context.Context, int64, model.OrderStatus) error
	completeFn func(context.Context, int64, model.OrderStatus, string) error

	mu        sync.Mutex
	created   []model.Order
	updates   []statusUpdate
	completes []statusUpdate
}

func (s *orderStoreStub) CreateOrder(ctx context.Context, userID int64, externalID, locationID string, total int) (*model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createFn != nil {
		order, err := s.createFn(ctx, userID, externalID, locationID, total)
		if order != nil {
			s.created = append(s.created, *order)
		}
		return order, err
	}
	order := model.Order{ID: int64(len(s.created) + 1), UserID: userID, ExternalID: externalID, LocationID: locationID, Total: total, Status: model.OrderStatusPending}
	s.created = append(s.created, order)
	return &order, nil
}

func (s *orderStoreStub) UpdateOrderStatus(ctx context.Context, orderID int64, status model.OrderStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updates = append(s.updates, statusUpdate{orderID: orderID, status: status})
	if s.updateFn != nil {
		return s.updateFn(ctx, orderID, status)
	}
	return nil
}

func (s *orderStoreStub) CompleteOrder(ctx context.Context, orderID int64, status model.OrderStatus, barcode string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.completes = append(s.completes, statusUpdate{orderID: orderID, status: status, barcode: barcode})
	if s.completeFn != nil {
		return s.completeFn(ctx, orderID, status, barcode)
	}
	return nil
}

// noteCall captures a scheduled-order note write.
type noteCall struct {
	id             int64
	relatedOrderID string
	note           string
}

// scheduleStoreStub backs scheduler tests with controllable behaviour.
type scheduleStoreStub struct {
	dueFn         func(context.Context) ([]model.ScheduledOrder, error)
	claimFn       func(context.Context, int64) (bool, error)
	completeFn    func(context.Context, int64, string, string) error
	failFn        func(context.Context, int64, string) error
	credentialsFn func(context.Context, int64) (*model.CampusCredentials, error)

	mu        sync.Mutex
	due       []model.ScheduledOrder
	claims    []int64
	completes []noteCall
	fails     []noteCall
}

func (s *scheduleStoreStub) DueScheduledOrders(ctx context.Context) ([]model.ScheduledOrder, error) {
	if s.dueFn != nil {
		return s.dueFn(ctx)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.due, nil
}

func (s *scheduleStoreStub) ClaimScheduledOrder(ctx context.Context, id int64) (bool, error) {
	s.mu.Lock()
	s.claims = append(s.claims, id)
	s.mu.Unlock()
	if s.claimFn != nil {
		return s.claimFn(ctx, id)
	}
	return true, nil
}

func (s *scheduleStoreStub) CompleteScheduledOrder(ctx context.Context, id int64, relatedOrderID, note string) error {
	s.mu.Lock()
	s.completes = append(s.completes, noteCall{id: id, relatedOrderID: relatedOrderID, note: note})
	s.mu.Unlock()
	if s.completeFn != nil {
		return s.completeFn(ctx, id, relatedOrderID, note)
	}
	return nil
}

func (s *scheduleStoreStub) FailScheduledOrder(ctx context.Context, id int64, note string) error {
	s.mu.Lock()
	s.fails = append(s.fails, noteCall{id: id, note: note})
	s.mu.Unlock()
	if s.failFn != nil {
		return s.failFn(ctx, id, note)
	}
	return nil
}

func (s *scheduleStoreStub) CampusCredentials(ctx context.Context, userID int64) (*model.CampusCredentials, error) {
	if s.credentialsFn != nil {
		return s.credentialsFn(ctx, userID)
	}
	return &model.CampusCredentials{UserID: userID, Username: "student", Password: "secret"}, nil
}

// orderRunnerStub replaces the processor in scheduler tests.
type orderRunnerStub struct {
	processFn func(context.Context, ProcessRequest) (*ProcessResult, error)

	mu    sync.Mutex
	calls []ProcessRequest
}

func (s *orderRunnerStub) Process(ctx context.Context, req ProcessRequest) (*ProcessResult, error) {
	s.mu.Lock()
	s.calls = append(s.calls, req)
	s.mu.Unlock()
	if s.processFn != nil {
		return s.processFn(ctx, req)
	}
	return &ProcessResult{RecordID: 1, OrderID: "90001", Status: model.OrderStatusCompleted, Barcode: "bar"}, nil
}

var _ Session = (*sessionStub)(nil)
var _ SessionFactory = (*sessionFactoryStub)(nil)
var _ OrderStore = (*orderStoreStub)(nil)
var _ ScheduleStore = (*scheduleStoreStub)(nil)
var _ OrderRunner = (*orderRunnerStub)(nil)
