package usecase

import (
	"context"
	"time"

	domainErrors "github.com/polkiloo/campusorder/internal/domain/errors"
	"github.com/polkiloo/campusorder/internal/domain/model"
	"github.com/polkiloo/campusorder/internal/domain/repository"
)

// ScheduledOrderUseCase encapsulates deferred-order lifecycle logic.
type ScheduledOrderUseCase struct {
	scheduled repository.ScheduledOrderRepository
	lookahead time.Duration
	now       func() time.Time
}

// NewScheduledOrderUseCase constructs ScheduledOrderUseCase with the sweep
// lookahead window.
func NewScheduledOrderUseCase(scheduled repository.ScheduledOrderRepository, lookahead time.Duration) *ScheduledOrderUseCase {
	return &ScheduledOrderUseCase{scheduled: scheduled, lookahead: lookahead, now: time.Now}
}

// Schedule validates and stores a new deferred order.
func (u *ScheduledOrderUseCase) Schedule(ctx context.Context, order *model.ScheduledOrder) (*model.ScheduledOrder, error) {
	if err := ValidateScheduledOrder(order, u.now()); err != nil {
		return nil, err
	}
	order.Status = model.ScheduledStatusScheduled
	return u.scheduled.Create(ctx, order)
}

// ListByUser returns the user's scheduled orders.
func (u *ScheduledOrderUseCase) ListByUser(ctx context.Context, userID int64) ([]model.ScheduledOrder, error) {
	return u.scheduled.ListByUser(ctx, userID)
}

// Cancel marks a still-scheduled order cancelled on behalf of its owner.
func (u *ScheduledOrderUseCase) Cancel(ctx context.Context, id, userID int64) error {
	return u.scheduled.Cancel(ctx, id, userID)
}

// Due returns records whose scheduled time falls within the lookahead window.
func (u *ScheduledOrderUseCase) Due(ctx context.Context) ([]model.ScheduledOrder, error) {
	return u.scheduled.DueBatch(ctx, u.now(), u.lookahead)
}

// Claim conditionally flips a record from scheduled to processing. The claim
// must happen before any work so overlapping sweeps cannot double-process.
func (u *ScheduledOrderUseCase) Claim(ctx context.Context, id int64) (bool, error) {
	return u.scheduled.Claim(ctx, id)
}

// Complete marks a claimed record done, recording the upstream order id.
func (u *ScheduledOrderUseCase) Complete(ctx context.Context, id int64, relatedOrderID, note string) error {
	return u.scheduled.Complete(ctx, id, relatedOrderID, note)
}

// Fail marks a claimed record failed, appending the diagnostic note.
func (u *ScheduledOrderUseCase) Fail(ctx context.Context, id int64, note string) error {
	return u.scheduled.Fail(ctx, id, note)
}

// ValidateScheduledOrder checks a deferred order before it is stored.
func ValidateScheduledOrder(order *model.ScheduledOrder, now time.Time) error {
	if order == nil || len(order.CartItems) == 0 || order.LocationID == "" || order.Total <= 0 {
		return domainErrors.ErrInvalidCart
	}
	if order.ScheduledTime.Before(now) {
		return domainErrors.ErrInvalidSchedule
	}
	return nil
}
