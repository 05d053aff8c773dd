package dto

import (
	"time"

	"github.com/polkiloo/campusorder/internal/domain/model"
)

// ScheduleOrderRequest describes a deferred order submission.
type ScheduleOrderRequest struct {
	ScheduledTime  time.Time        `json:"scheduled_time"`
	LocationID     string           `json:"location_id"`
	Items          []model.CartItem `json:"items"`
	Total          int              `json:"total"`
	OrderType      string           `json:"order_type"`
	SpecialRequest string           `json:"special_request"`
}

// ScheduledOrderResponse represents a stored scheduled order.
type ScheduledOrderResponse struct {
	ID             int64     `json:"id"`
	ScheduledTime  time.Time `json:"scheduled_time"`
	LocationID     string    `json:"location_id"`
	Total          int       `json:"total"`
	Status         string    `json:"status"`
	RelatedOrderID string    `json:"related_order_id,omitempty"`
	Notes          string    `json:"notes,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}
