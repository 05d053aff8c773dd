package model

import "time"

// OrderStatus describes the lifecycle of an order placed upstream.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusReceived  OrderStatus = "received"
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
	OrderStatusTimeout   OrderStatus = "timeout"
	OrderStatusError     OrderStatus = "error"
)

// Terminal reports whether the status ends the order lifecycle.
func (s OrderStatus) Terminal() bool {
	switch s {
	case OrderStatusCompleted, OrderStatusCancelled, OrderStatusTimeout, OrderStatusError:
		return true
	}
	return false
}

// OrderRequest carries the caller-provided fields of one order submission.
type OrderRequest struct {
	CartItems      []CartItem
	LocationID     string
	Total          int
	OrderType      string
	SpecialRequest string
}

// Order is the persisted record of one upstream order submission.
// ExternalID is the opaque identifier returned by the dining platform.
type Order struct {
	ID          int64
	UserID      int64
	ExternalID  string
	Status      OrderStatus
	Barcode     string
	LocationID  string
	Total       int
	CreatedAt   time.Time
	CompletedAt *time.Time
}
