package web

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"tourcab/booking"
	dbt "tourcab/db/db"
	"tourcab/trip"
)

const (
	codeBadRequest           = "bad_request"
	codeInvalidID            = "invalid_id"
	codeInvalidStatus        = "invalid_status"
	codeNotFound             = "not_found"
	codeUnauthenticated      = "unauthenticated"
	codeAccessDenied         = "access_denied"
	codeConfirmationRequired = "confirmation_required"
	codeInternal             = "internal"
)

// abortError writes the common error body and stops the handler chain.
func abortError(c *gin.Context, status int, code, msg string) {
	c.AbortWithStatusJSON(status, gin.H{
		"error":      msg,
		"code":       code,
		"request_id": requestID(c),
	})
}

// handleError maps domain errors to responses. Unknown errors are logged and
// hidden behind a generic message.
func handleError(c *gin.Context, err error) {
	var v trip.ValidationError
	switch {
	case errors.As(err, &v):
		abortError(c, http.StatusBadRequest, v.Code, v.Msg)
	case errors.Is(err, booking.ErrUnknownPackage):
		abortError(c, http.StatusBadRequest, "unknown_package", err.Error())
	case errors.Is(err, dbt.ErrNotFound):
		abortError(c, http.StatusNotFound, codeNotFound, "booking not found")
	default:
		slog.ErrorContext(c.Request.Context(), "request failed",
			"method", c.Request.Method, "path", c.FullPath(), "request_id", requestID(c), "err", err)
		abortError(c, http.StatusInternalServerError, codeInternal, "something went wrong, please try again")
	}
}
