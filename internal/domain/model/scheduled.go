package model

import "time"

// ScheduledOrderStatus describes the lifecycle of a deferred order.
type ScheduledOrderStatus string

const (
	ScheduledStatusScheduled  ScheduledOrderStatus = "scheduled"
	ScheduledStatusProcessing ScheduledOrderStatus = "processing"
	ScheduledStatusCompleted  ScheduledOrderStatus = "completed"
	ScheduledStatusCancelled  ScheduledOrderStatus = "cancelled"
	ScheduledStatusFailed     ScheduledOrderStatus = "failed"
)

// ScheduledOrder is an order placed in advance, picked up by the background
// scheduler once its time falls into the sweep window. Notes are append-only
// free text carrying processing diagnostics.
type ScheduledOrder struct {
	ID             int64
	UserID         int64
	ScheduledTime  time.Time
	CartItems      []CartItem
	LocationID     string
	Total          int
	OrderType      string
	SpecialRequest string
	Status         ScheduledOrderStatus
	RelatedOrderID string
	Notes          string
	CreatedAt      time.Time
}
