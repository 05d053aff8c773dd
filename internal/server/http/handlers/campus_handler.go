package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/campusorder/internal/domain/errors"
)

// CampusHandler proxies read-only lookups against the dining platform.
type CampusHandler struct {
	facade CampusFacade
}

// NewCampusHandler constructs CampusHandler.
func NewCampusHandler(facade CampusFacade) *CampusHandler {
	return &CampusHandler{facade: facade}
}

// Menu handles GET /api/user/menu/:location.
func (h *CampusHandler) Menu(c *gin.Context) {
	userID := CurrentUserID(c)
	locationID := c.Param("location")
	if locationID == "" {
		c.Status(http.StatusBadRequest)
		return
	}

	menu, err := h.facade.Menu(c.Request.Context(), userID, locationID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json", menu)
}

// Locations handles GET /api/user/locations.
func (h *CampusHandler) Locations(c *gin.Context) {
	userID := CurrentUserID(c)
	locations, err := h.facade.Locations(c.Request.Context(), userID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json", locations)
}

func (h *CampusHandler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domainErrors.ErrUserInactive):
		c.JSON(http.StatusPreconditionFailed, gin.H{"error": "campus credentials missing"})
	default:
		c.Status(http.StatusBadGateway)
	}
}
