package httpserver

import (
	"errors"
	"net/http"

	"elitestore-api/internal/domain"

	"github.com/gin-gonic/gin"
)

// cartResponse is a cart with its priced totals attached.
type cartResponse struct {
	domain.Cart
	TotalItems int           `json:"totalItems"`
	Totals     domain.Totals `json:"totals"`
}

func toCartResponse(cart *domain.Cart, totals domain.Totals) cartResponse {
	return cartResponse{
		Cart:       *cart,
		TotalItems: cart.TotalItems(),
		Totals:     totals,
	}
}

// respondError maps domain failures to HTTP statuses. All of them are
// recoverable at the UI boundary.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrInvalidQuantity), errors.Is(err, domain.ErrEmptyCart):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrLineNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrIllegalTransition), errors.Is(err, domain.ErrAlreadyExists):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrStorageUnavailable):
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
