package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/campusorder/internal/domain/errors"
	"github.com/polkiloo/campusorder/internal/domain/model"
	"github.com/polkiloo/campusorder/internal/server/http/dto"
)

// ScheduleHandler manages deferred-order endpoints.
type ScheduleHandler struct {
	facade ScheduleFacade
}

// NewScheduleHandler constructs ScheduleHandler.
func NewScheduleHandler(facade ScheduleFacade) *ScheduleHandler {
	return &ScheduleHandler{facade: facade}
}

// Create handles POST /api/user/scheduled-orders.
func (h *ScheduleHandler) Create(c *gin.Context) {
	userID := CurrentUserID(c)

	var req dto.ScheduleOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	created, err := h.facade.ScheduleOrder(c.Request.Context(), &model.ScheduledOrder{
		UserID:         userID,
		ScheduledTime:  req.ScheduledTime,
		CartItems:      req.Items,
		LocationID:     req.LocationID,
		Total:          req.Total,
		OrderType:      req.OrderType,
		SpecialRequest: req.SpecialRequest,
	})
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrInvalidCart), errors.Is(err, domainErrors.ErrInvalidSchedule):
			c.Status(http.StatusUnprocessableEntity)
		default:
			c.Status(http.StatusInternalServerError)
		}
		return
	}

	c.JSON(http.StatusCreated, toScheduledResponse(*created))
}

// List handles GET /api/user/scheduled-orders.
func (h *ScheduleHandler) List(c *gin.Context) {
	userID := CurrentUserID(c)
	orders, err := h.facade.ScheduledOrders(c.Request.Context(), userID)
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}
	if len(orders) == 0 {
		c.Status(http.StatusNoContent)
		return
	}

	response := make([]dto.ScheduledOrderResponse, 0, len(orders))
	for _, o := range orders {
		response = append(response, toScheduledResponse(o))
	}

	c.JSON(http.StatusOK, response)
}

// Cancel handles DELETE /api/user/scheduled-orders/:id.
func (h *ScheduleHandler) Cancel(c *gin.Context) {
	userID := CurrentUserID(c)
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	if err := h.facade.CancelScheduledOrder(c.Request.Context(), id, userID); err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrNotFound):
			c.Status(http.StatusNotFound)
		default:
			c.Status(http.StatusInternalServerError)
		}
		return
	}

	c.Status(http.StatusOK)
}

func toScheduledResponse(order model.ScheduledOrder) dto.ScheduledOrderResponse {
	return dto.ScheduledOrderResponse{
		ID:             order.ID,
		ScheduledTime:  order.ScheduledTime,
		LocationID:     order.LocationID,
		Total:          order.Total,
		Status:         string(order.Status),
		RelatedOrderID: order.RelatedOrderID,
		Notes:          order.Notes,
		CreatedAt:      order.CreatedAt,
	}
}
