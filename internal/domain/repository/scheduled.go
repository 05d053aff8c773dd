package repository

import (
	"context"
	"time"

	"github.com/polkiloo/campusorder/internal/domain/model"
)

// ScheduledOrderRepository describes persistence operations with deferred orders.
type ScheduledOrderRepository interface {
	Create(ctx context.Context, order *model.ScheduledOrder) (*model.ScheduledOrder, error)
	GetByID(ctx context.Context, id int64) (*model.ScheduledOrder, error)
	ListByUser(ctx context.Context, userID int64) ([]model.ScheduledOrder, error)
	// DueBatch returns scheduled records whose time falls at or before
	// now+lookahead, oldest first.
	DueBatch(ctx context.Context, now time.Time, lookahead time.Duration) ([]model.ScheduledOrder, error)
	// Claim conditionally flips scheduled->processing. It reports false when
	// the row was no longer in scheduled state, i.e. the claim was lost.
	Claim(ctx context.Context, id int64) (bool, error)
	Complete(ctx context.Context, id int64, relatedOrderID, note string) error
	// Fail marks the record failed and appends note to its free-text notes.
	Fail(ctx context.Context, id int64, note string) error
	Cancel(ctx context.Context, id, userID int64) error
}
