package usecase

import (
	"context"
	"testing"

	"github.com/polkiloo/campusorder/internal/domain/model"
	testhelpers "github.com/polkiloo/campusorder/internal/test"
)

func TestOrderUseCaseCreate(t *testing.T) {
	repo := &testhelpers.OrderRepositoryStub{}
	uc := NewOrderUseCase(repo)

	order, err := uc.Create(context.Background(), 3, "90001", "loc-1", 385)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if order.ExternalID != "90001" || order.Total != 385 {
		t.Fatalf("unexpected order: %+v", order)
	}
	if len(repo.Created) != 1 {
		t.Fatalf("expected one create call, got %d", len(repo.Created))
	}
}

func TestOrderUseCaseTransitions(t *testing.T) {
	repo := &testhelpers.OrderRepositoryStub{}
	uc := NewOrderUseCase(repo)
	ctx := context.Background()

	if err := uc.UpdateStatus(ctx, 7, model.OrderStatusPreparing); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if err := uc.Complete(ctx, 7, model.OrderStatusCompleted, "bar"); err != nil {
		t.Fatalf("complete failed: %v", err)
	}

	if len(repo.UpdateCalls) != 1 || repo.UpdateCalls[0].Status != model.OrderStatusPreparing {
		t.Fatalf("unexpected update calls: %+v", repo.UpdateCalls)
	}
	if len(repo.CompleteCalls) != 1 || repo.CompleteCalls[0].Barcode != "bar" {
		t.Fatalf("unexpected complete calls: %+v", repo.CompleteCalls)
	}
}

func TestOrderUseCaseListByUser(t *testing.T) {
	repo := &testhelpers.OrderRepositoryStub{Orders: []model.Order{
		{ID: 1, UserID: 3, ExternalID: "90001"},
		{ID: 2, UserID: 4, ExternalID: "90002"},
	}}
	uc := NewOrderUseCase(repo)

	orders, err := uc.ListByUser(context.Background(), 3)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(orders) != 1 || orders[0].ExternalID != "90001" {
		t.Fatalf("unexpected orders: %+v", orders)
	}
}
