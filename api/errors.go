package api

import (
	"errors"
	"net/http"

	"github.com/fleetlink/fleetlink/internal/domain"
	"github.com/gin-gonic/gin"
)

// writeError maps the domain error taxonomy to HTTP statuses. Anything
// outside the taxonomy is an infrastructure failure and stays opaque.
func writeError(c *gin.Context, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation error", "details": verr.Fields})
	case errors.Is(err, domain.ErrInvalidLocationCode):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrVehicleNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrBookingConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "details": "please search for availability again"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
