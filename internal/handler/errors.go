package handler

import (
	"errors"
	"net/http"

	"crave/internal/service"

	"github.com/gin-gonic/gin"
)

// respondError translates a billing error into an HTTP response. Only the
// safe message leaves the process; internal detail stays in the logs.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch service.KindOf(err) {
	case service.KindNotFound:
		status = http.StatusNotFound
	case service.KindInvalidArgument:
		status = http.StatusBadRequest
	case service.KindInsufficientFunds:
		status = http.StatusPaymentRequired
	case service.KindConflict:
		status = http.StatusConflict
	case service.KindFraudFlagged:
		status = http.StatusUnprocessableEntity
	case service.KindGateway:
		status = http.StatusBadGateway
	}

	msg := "internal error"
	var e *service.Error
	if errors.As(err, &e) && status != http.StatusInternalServerError {
		msg = e.Message
	}
	c.JSON(status, gin.H{"error": msg})
}
