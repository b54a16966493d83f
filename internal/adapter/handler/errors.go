package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/srgjo27/event_ticket/internal/core/domain"
)

// writeError maps the domain error taxonomy onto HTTP status codes.
func writeError(c *gin.Context, err error) {
	var (
		validationErr *domain.ValidationError
		capacityErr   *domain.CapacityError
		usedErr       *domain.AlreadyUsedError
	)

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error(), "field": validationErr.Field})
	case errors.Is(err, domain.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
	case errors.Is(err, domain.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrEventNotFound),
		errors.Is(err, domain.ErrTicketNotFound),
		errors.Is(err, domain.ErrPaymentNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.As(err, &capacityErr):
		c.JSON(http.StatusConflict, gin.H{
			"error":     capacityErr.Error(),
			"requested": capacityErr.Requested,
			"remaining": capacityErr.Remaining,
		})
	case errors.As(err, &usedErr):
		body := gin.H{"error": usedErr.Error(), "validated_by": usedErr.ValidatedBy}
		if !usedErr.ValidatedAt.IsZero() {
			body["validated_at"] = usedErr.ValidatedAt
		}
		c.JSON(http.StatusConflict, body)
	case errors.Is(err, domain.ErrDependency):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrStorage):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "storage unavailable", "retryable": true})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
