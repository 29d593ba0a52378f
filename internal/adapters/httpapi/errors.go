package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"welbex/internal/core/errs"
)

// statusFor maps the error taxonomy onto HTTP statuses. conflict is the
// status a route reports for a duplicate.
func statusFor(err error, conflict int) int {
	switch {
	case errors.Is(err, errs.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, errs.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, errs.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, errs.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrConflict):
		return conflict
	}
	return http.StatusInternalServerError
}

func respondError(c *gin.Context, logger *zap.Logger, err error) {
	respondErrorWithConflict(c, logger, err, http.StatusConflict)
}

func respondErrorWithConflict(c *gin.Context, logger *zap.Logger, err error, conflict int) {
	status := statusFor(err, conflict)
	msg := errs.Message(err)
	switch {
	case status == http.StatusInternalServerError:
		logger.Error("Request failed",
			zap.String("route", c.FullPath()),
			zap.String("method", c.Request.Method),
			zap.Error(err),
		)
		msg = "internal server error"
	case msg == "":
		msg = http.StatusText(status)
	}
	_ = c.Error(err)
	c.JSON(status, gin.H{"success": false, "error": msg})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": msg})
}
