package middleware

import (
	"errors"
	"net/http"

	errs "github.com/amirhossein-jamali/atm-console/internal/domain/error"
	coreport "github.com/amirhossein-jamali/atm-console/internal/domain/port/core"
	"github.com/amirhossein-jamali/atm-console/internal/infrastructure/adapter/api/dto"
	"github.com/gin-gonic/gin"
)

// ErrorHandler recovers from panics and renders errors attached by handlers with c.Error
func ErrorHandler(logger coreport.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.Error("Panic recovered in API request", map[string]any{
					"error":      err,
					"path":       c.Request.URL.Path,
					"method":     c.Request.Method,
					"client_ip":  c.ClientIP(),
					"request_id": coreport.RequestID(c.Request.Context()),
					"user_agent": c.Request.UserAgent(),
				})

				c.AbortWithStatusJSON(http.StatusInternalServerError, dto.ErrorResponse{
					Code:    errs.ErrorCode(errs.ErrInternalServer),
					Message: "Internal server error",
				})
			}
		}()

		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		status := StatusCode(err)
		response := dto.ErrorResponse{
			Code:    errs.ErrorCode(err),
			Message: err.Error(),
		}
		if fields, ok := errs.AsFieldErrors(err); ok {
			response.Message = errs.ErrInvalidField.Error()
			response.Fields = fields
		}
		if status == http.StatusInternalServerError {
			response.Message = "Internal server error"
		}

		logFields := map[string]any{
			"path":       c.Request.URL.Path,
			"status":     status,
			"error":      err.Error(),
			"error_code": response.Code,
			"request_id": coreport.RequestID(c.Request.Context()),
		}
		if status >= http.StatusInternalServerError {
			logger.Error("Request failed", logFields)
		} else {
			logger.Warn("Request rejected", logFields)
		}

		c.AbortWithStatusJSON(status, response)
	}
}

// StatusCode maps a domain error to its HTTP status
func StatusCode(err error) int {
	switch {
	case errors.Is(err, errs.ErrInvalidRequest), errors.Is(err, errs.ErrInvalidMessageID):
		return http.StatusBadRequest
	case errors.Is(err, errs.ErrInvalidField),
		errors.Is(err, errs.ErrInvalidAmount),
		errors.Is(err, errs.ErrNegativeAmount),
		errors.Is(err, errs.ErrInvalidEnum),
		errors.Is(err, errs.ErrUnsupportedSwitch),
		errors.Is(err, errs.ErrUnknownConfigKey):
		return http.StatusUnprocessableEntity
	case errs.IsNotFoundError(err):
		return http.StatusNotFound
	case errs.IsBusyError(err),
		errors.Is(err, errs.ErrAlreadyReversed),
		errors.Is(err, errs.ErrNotLoadable),
		errors.Is(err, errs.ErrTunnelNotConnected):
		return http.StatusConflict
	case errs.IsBackendError(err):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
