package dto

import (
	"time"

	"github.com/polkiloo/campusorder/internal/domain/model"
)

// PlaceOrderRequest describes a synchronous order submission.
type PlaceOrderRequest struct {
	LocationID     string           `json:"location_id"`
	Items          []model.CartItem `json:"items"`
	Total          int              `json:"total"`
	OrderType      string           `json:"order_type"`
	SpecialRequest string           `json:"special_request"`
}

// PlaceOrderResponse is the terminal success payload of an order.
type PlaceOrderResponse struct {
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
	Barcode string `json:"barcode,omitempty"`
}

// OrderResponse represents a stored order record.
type OrderResponse struct {
	ID          int64      `json:"id"`
	OrderID     string     `json:"order_id"`
	Status      string     `json:"status"`
	Barcode     string     `json:"barcode,omitempty"`
	LocationID  string     `json:"location_id"`
	Total       int        `json:"total"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}
