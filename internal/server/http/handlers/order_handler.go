package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/campusorder/internal/adapter/dining"
	domainErrors "github.com/polkiloo/campusorder/internal/domain/errors"
	"github.com/polkiloo/campusorder/internal/domain/model"
	"github.com/polkiloo/campusorder/internal/server/http/dto"
	"github.com/polkiloo/campusorder/internal/worker"
)

// OrderHandler manages order-related endpoints.
type OrderHandler struct {
	facade OrderFacade
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(facade OrderFacade) *OrderHandler {
	return &OrderHandler{facade: facade}
}

// Place handles POST /api/user/orders. The call blocks until the order
// reaches a terminal state upstream.
func (h *OrderHandler) Place(c *gin.Context) {
	userID := CurrentUserID(c)

	var req dto.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}
	if len(req.Items) == 0 || req.LocationID == "" || req.Total <= 0 {
		c.Status(http.StatusUnprocessableEntity)
		return
	}

	result, err := h.facade.PlaceOrder(c.Request.Context(), userID, model.OrderRequest{
		CartItems:      req.Items,
		LocationID:     req.LocationID,
		Total:          req.Total,
		OrderType:      req.OrderType,
		SpecialRequest: req.SpecialRequest,
	})
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrUserInactive):
			c.JSON(http.StatusPreconditionFailed, gin.H{"error": "campus credentials missing"})
		case errors.Is(err, worker.ErrOrderCancelled):
			c.JSON(http.StatusConflict, gin.H{"error": "order cancelled by upstream"})
		case errors.Is(err, worker.ErrOrderTimedOut), errors.Is(err, worker.ErrTooManyPollingErrors):
			c.JSON(http.StatusGatewayTimeout, gin.H{"error": err.Error()})
		case errors.Is(err, dining.ErrOrderIDMissing):
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		default:
			c.Status(http.StatusInternalServerError)
		}
		return
	}

	c.JSON(http.StatusOK, dto.PlaceOrderResponse{
		OrderID: result.OrderID,
		Status:  string(result.Status),
		Barcode: result.Barcode,
	})
}

// List handles GET /api/user/orders.
func (h *OrderHandler) List(c *gin.Context) {
	userID := CurrentUserID(c)
	orders, err := h.facade.Orders(c.Request.Context(), userID)
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}
	if len(orders) == 0 {
		c.Status(http.StatusNoContent)
		return
	}

	response := make([]dto.OrderResponse, 0, len(orders))
	for _, o := range orders {
		response = append(response, toOrderResponse(o))
	}

	c.JSON(http.StatusOK, response)
}

func toOrderResponse(order model.Order) dto.OrderResponse {
	return dto.OrderResponse{
		ID:          order.ID,
		OrderID:     order.ExternalID,
		Status:      string(order.Status),
		Barcode:     order.Barcode,
		LocationID:  order.LocationID,
		Total:       order.Total,
		CreatedAt:   order.CreatedAt,
		CompletedAt: order.CompletedAt,
	}
}
