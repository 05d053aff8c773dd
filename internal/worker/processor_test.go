package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/polkiloo/campusorder/internal/adapter/dining"
	"github.com/polkiloo/campusorder/internal/domain/model"
)

func newTestProcessor(session Session, store *orderStoreStub) (*Processor, *sessionFactoryStub) {
	factory := &sessionFactoryStub{session: session}
	poller := NewStatusPoller(time.Millisecond, 30, testLogger())
	return NewProcessor(factory, store, poller, testLogger()), factory
}

func TestProcessCreatesExactlyOneRecord(t *testing.T) {
	session := &sessionStub{}
	store := &orderStoreStub{}
	proc, _ := newTestProcessor(session, store)

	result, err := proc.Process(context.Background(), ProcessRequest{
		UserID:     3,
		Identity:   dining.Token{UserID: "u-3", LoginToken: "tok"},
		CartItems:  []model.CartItem{{ItemID: 7}},
		LocationID: "loc-1",
		Total:      385,
	})
	if err != nil {
		t.Fatalf("process failed: %v", err)
	}

	if len(store.created) != 1 {
		t.Fatalf("expected exactly one order record, got %d", len(store.created))
	}
	record := store.created[0]
	if record.UserID != 3 || record.ExternalID != "90001" || record.LocationID != "loc-1" || record.Total != 385 {
		t.Fatalf("unexpected record: %+v", record)
	}
	if session.submitCalls != 1 {
		t.Fatalf("expected a single submission, got %d", session.submitCalls)
	}
	if result.OrderID != "90001" || result.Status != model.OrderStatusCompleted || result.Barcode != "bar" {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestProcessLogsInOnlyWithCredentials(t *testing.T) {
	session := &sessionStub{}
	store := &orderStoreStub{}
	proc, factory := newTestProcessor(session, store)

	if _, err := proc.Process(context.Background(), ProcessRequest{
		Identity:   dining.Token{UserID: "u", LoginToken: "t"},
		CartItems:  []model.CartItem{{ItemID: 7}},
		LocationID: "loc-1",
		Total:      100,
	}); err != nil {
		t.Fatalf("token process failed: %v", err)
	}
	if session.loginCalls != 0 {
		t.Fatalf("expected no login in token mode, got %d", session.loginCalls)
	}

	if _, err := proc.Process(context.Background(), ProcessRequest{
		Identity:   dining.Credentials{Username: "student", Password: "secret"},
		CartItems:  []model.CartItem{{ItemID: 7}},
		LocationID: "loc-1",
		Total:      100,
	}); err != nil {
		t.Fatalf("credentials process failed: %v", err)
	}
	if session.loginCalls != 1 {
		t.Fatalf("expected one login in credentials mode, got %d", session.loginCalls)
	}
	if len(factory.identities) != 2 {
		t.Fatalf("expected one session per invocation, got %d", len(factory.identities))
	}
}

func TestProcessFinalizesCartWithCallerTotal(t *testing.T) {
	var submitted dining.CartRequest
	session := &sessionStub{submitFn: func(_ context.Context, cart dining.CartRequest) (string, error) {
		submitted = cart
		return "90001", nil
	}}
	store := &orderStoreStub{}
	proc, _ := newTestProcessor(session, store)

	pickup := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	if _, err := proc.Process(context.Background(), ProcessRequest{
		Identity:       dining.Token{UserID: "u", LoginToken: "t"},
		CartItems:      []model.CartItem{{ItemID: 7}},
		LocationID:     "loc-1",
		Total:          385,
		OrderType:      "pickup",
		SpecialRequest: "no onions",
		Pickup:         pickup,
	}); err != nil {
		t.Fatalf("process failed: %v", err)
	}

	if submitted.GrandTotal != "385" || submitted.Subtotal != "385" {
		t.Fatalf("expected caller total, got grand=%q sub=%q", submitted.GrandTotal, submitted.Subtotal)
	}
	if submitted.PickupStart != pickup.Format(time.RFC3339) {
		t.Fatalf("expected requested pickup, got %q", submitted.PickupStart)
	}
	if submitted.OrderType != "pickup" || submitted.SpecialComment != "no onions" {
		t.Fatalf("unexpected caller fields: %+v", submitted)
	}
}

func TestProcessSubmitFailureCreatesNoRecord(t *testing.T) {
	session := &sessionStub{submitFn: func(context.Context, dining.CartRequest) (string, error) {
		return "", dining.ErrOrderIDMissing
	}}
	store := &orderStoreStub{}
	proc, _ := newTestProcessor(session, store)

	_, err := proc.Process(context.Background(), ProcessRequest{
		Identity:   dining.Token{UserID: "u", LoginToken: "t"},
		CartItems:  []model.CartItem{{ItemID: 7}},
		LocationID: "loc-1",
		Total:      100,
	})
	if !errors.Is(err, dining.ErrOrderIDMissing) {
		t.Fatalf("expected submit error, got %v", err)
	}
	if len(store.created) != 0 {
		t.Fatalf("expected no order record on submit failure, got %d", len(store.created))
	}
}

func TestProcessLoginFailureAborts(t *testing.T) {
	session := &sessionStub{loginFn: func(context.Context) error {
		return dining.ErrCsrfExtraction
	}}
	store := &orderStoreStub{}
	proc, _ := newTestProcessor(session, store)

	_, err := proc.Process(context.Background(), ProcessRequest{
		Identity:   dining.Credentials{Username: "student", Password: "bad"},
		CartItems:  []model.CartItem{{ItemID: 7}},
		LocationID: "loc-1",
		Total:      100,
	})
	if !errors.Is(err, dining.ErrCsrfExtraction) {
		t.Fatalf("expected login failure, got %v", err)
	}
	if session.submitCalls != 0 || len(store.created) != 0 {
		t.Fatal("expected no submission after failed login")
	}
}

func TestProcessCancelledOrderPropagates(t *testing.T) {
	session := &sessionStub{orderStatusFn: func(context.Context, string) (*dining.OrderStatusPayload, error) {
		return &dining.OrderStatusPayload{IsCancelled: 1}, nil
	}}
	store := &orderStoreStub{}
	proc, _ := newTestProcessor(session, store)

	_, err := proc.Process(context.Background(), ProcessRequest{
		Identity:   dining.Token{UserID: "u", LoginToken: "t"},
		CartItems:  []model.CartItem{{ItemID: 7}},
		LocationID: "loc-1",
		Total:      100,
	})
	if !errors.Is(err, ErrOrderCancelled) {
		t.Fatalf("expected cancelled error, got %v", err)
	}
	// The record exists and carries the cancelled transition.
	if len(store.created) != 1 {
		t.Fatalf("expected the record to exist, got %d", len(store.created))
	}
	if len(store.updates) != 1 || store.updates[0].status != model.OrderStatusCancelled {
		t.Fatalf("expected cancelled transition, got %+v", store.updates)
	}
}

func TestProcessSessionFactoryFailure(t *testing.T) {
	factory := &sessionFactoryStub{err: errors.New("no client")}
	store := &orderStoreStub{}
	poller := NewStatusPoller(time.Millisecond, 30, testLogger())
	proc := NewProcessor(factory, store, poller, testLogger())

	_, err := proc.Process(context.Background(), ProcessRequest{Identity: dining.Token{}})
	if err == nil {
		t.Fatal("expected error when session cannot be built")
	}
}
