package dining

import "github.com/polkiloo/campusorder/internal/domain/model"

// OrderStatusPayload mirrors the upstream order-status response.
type OrderStatusPayload struct {
	OrderID         string `json:"orderid"`
	BarcodeToken    string `json:"barcode_token"`
	IsCancelled     int    `json:"iscancelled"`
	KitchenDatetime string `json:"kitchen_datetime"`
	PrintedDatetime string `json:"printed_datetime"`
}

// Classify maps a status payload onto the order lifecycle. The cancelled
// flag wins over a present barcode; a kitchen timestamp means the order is
// being prepared, a printed timestamp that it was received.
func Classify(p *OrderStatusPayload) model.OrderStatus {
	switch {
	case p.IsCancelled != 0:
		return model.OrderStatusCancelled
	case p.BarcodeToken != "":
		return model.OrderStatusCompleted
	case p.KitchenDatetime != "":
		return model.OrderStatusPreparing
	case p.PrintedDatetime != "":
		return model.OrderStatusReceived
	}
	return model.OrderStatusPending
}
