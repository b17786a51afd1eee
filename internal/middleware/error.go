package middleware

import (
	"errors"
	"net/http"

	"github.com/bitebot/backend/internal/apperrors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error     string     `json:"error"`
	ChefID    *uuid.UUID `json:"chefId,omitempty"`
	Retryable bool       `json:"retryable,omitempty"`
}

// StatusFor maps an error onto an HTTP status
func StatusFor(err error) int {
	switch apperrors.KindOf(err) {
	case apperrors.KindValidation:
		return http.StatusBadRequest
	case apperrors.KindNotFound:
		return http.StatusNotFound
	case apperrors.KindAccessDenied:
		return http.StatusForbidden
	case apperrors.KindUnauthorized:
		return http.StatusUnauthorized
	case apperrors.KindConflict:
		return http.StatusConflict
	case apperrors.KindDependency, apperrors.KindConsistency:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// NewErrorResponse builds the body for err. Dependency failures carry a
// generic message.
func NewErrorResponse(err error) ErrorResponse {
	var appErr *apperrors.Error
	if !errors.As(err, &appErr) {
		return ErrorResponse{Error: "Internal Server Error"}
	}
	resp := ErrorResponse{Error: appErr.Message, Retryable: appErr.Retryable}
	switch appErr.Kind {
	case apperrors.KindDependency:
		resp.Error = "service temporarily unavailable"
	case apperrors.KindConsistency:
		resp.Error = "update failed, please retry"
	}
	if appErr.ChefID != uuid.Nil {
		id := appErr.ChefID
		resp.ChefID = &id
	}
	return resp
}

// Abort writes err as the response and stops the chain
func Abort(c *gin.Context, err error) {
	_ = c.Error(err)
	c.AbortWithStatusJSON(StatusFor(err), NewErrorResponse(err))
}

// ErrorHandler writes the last error a handler attached with c.Error when
// nothing has been written yet, and logs unexpected failures.
func ErrorHandler(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err
		status := StatusFor(err)
		if status >= http.StatusInternalServerError {
			logger.Error().Err(err).
				Str("request_id", RequestIDFrom(c)).
				Str("path", c.FullPath()).
				Int("status", status).
				Msg("request failed")
		}
		if !c.Writer.Written() {
			c.JSON(status, NewErrorResponse(err))
		}
	}
}

// Recovery turns a panic into a 500 and logs it
func Recovery(logger zerolog.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.Error().
			Interface("panic", recovered).
			Str("request_id", RequestIDFrom(c)).
			Str("path", c.Request.URL.Path).
			Msg("panic recovered")
		c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal Server Error"})
	})
}
