package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/andrescamacho/voidfleet-go/internal/application/logging"
	"github.com/andrescamacho/voidfleet-go/internal/domain/shared"
)

// statusFor maps the domain error hierarchy onto HTTP status codes
func statusFor(err error) int {
	var (
		claim      *shared.TurnClaimError
		transition *shared.InvalidTransitionError
		domain     *shared.DomainError
	)
	switch {
	case shared.IsValidation(err):
		return http.StatusBadRequest
	case shared.IsNotFound(err):
		return http.StatusNotFound
	case errors.As(err, &claim), errors.As(err, &transition):
		return http.StatusConflict
	case errors.As(err, &domain):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func writeError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logging.LoggerFromContext(c.Request.Context()).WithError(err).Error("request handler failed")
		c.JSON(status, gin.H{"error": "internal error"})
		return
	}
	body := gin.H{"error": err.Error()}
	var ve *shared.ValidationError
	if errors.As(err, &ve) {
		body["field"] = ve.Field
	}
	c.JSON(status, body)
}
