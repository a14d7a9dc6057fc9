package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sapbridge/backend/internal/domain/sap"
	"github.com/sapbridge/backend/internal/domain/storefront"
	"github.com/sapbridge/backend/internal/infrastructure/logger"
	"github.com/sapbridge/backend/internal/interfaces/http/dto"
)

// BaseHandler provides common response helpers for all handlers
type BaseHandler struct {
	logger *zap.Logger
}

// NewBaseHandler creates a new base handler
func NewBaseHandler(logger *zap.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

// Success sends a 200 response with data
func (h *BaseHandler) Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessWithMeta sends a 200 response with data and pagination meta
func (h *BaseHandler) SuccessWithMeta(c *gin.Context, data interface{}, total int64, page, pageSize int) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, total, page, pageSize))
}

// Created sends a 201 response with data
func (h *BaseHandler) Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// Accepted sends a 202 response with data
func (h *BaseHandler) Accepted(c *gin.Context, data interface{}) {
	c.JSON(http.StatusAccepted, dto.NewSuccessResponse(data))
}

// NoContent sends a 204 response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error sends an error response with the status derived from the code.
// Server-side failures are logged through the request-scoped logger, so the
// entry carries the request ID and route when the logging middleware is
// installed.
func (h *BaseHandler) Error(c *gin.Context, code, message string) {
	status := dto.GetHTTPStatus(code)
	if status >= http.StatusInternalServerError {
		log := logger.FromContextOr(c.Request.Context(), h.logger)
		log.Error("request failed",
			zap.String("code", code),
			zap.String("message", message),
			zap.String("request_id", h.getRequestID(c)))
	}
	c.JSON(status, dto.NewErrorResponse(code, message))
}

// BadRequest sends a 400 response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, dto.ErrCodeInvalidRequest, message)
}

// NotFound sends a 404 response
func (h *BaseHandler) NotFound(c *gin.Context, message string) {
	h.Error(c, dto.ErrCodeNotFound, message)
}

// Conflict sends a 409 response
func (h *BaseHandler) Conflict(c *gin.Context, message string) {
	h.Error(c, dto.ErrCodeConflict, message)
}

// InternalError sends a 500 response
func (h *BaseHandler) InternalError(c *gin.Context, message string) {
	h.Error(c, dto.ErrCodeInternal, message)
}

// DomainError maps well-known domain errors to their error codes and sends
// the response. Unknown errors are reported as internal.
func (h *BaseHandler) DomainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, storefront.ErrNotFound), errors.Is(err, sap.ErrNotFound):
		h.Error(c, dto.ErrCodeNotFound, err.Error())
	case errors.Is(err, storefront.ErrConflict):
		h.Error(c, dto.ErrCodeConflict, err.Error())
	case errors.Is(err, sap.ErrUpstream):
		h.Error(c, dto.ErrCodeSAPRejected, err.Error())
	case errors.Is(err, sap.ErrAuthFailed),
		errors.Is(err, sap.ErrSessionExpired),
		errors.Is(err, sap.ErrUnavailable),
		errors.Is(err, sap.ErrInvalidResponse):
		h.Error(c, dto.ErrCodeSAPUnavailable, err.Error())
	default:
		h.Error(c, dto.ErrCodeInternal, err.Error())
	}
}

func (h *BaseHandler) getRequestID(c *gin.Context) string {
	if id, exists := c.Get("request_id"); exists {
		if s, ok := id.(string); ok {
			return s
		}
	}
	return c.GetHeader("X-Request-ID")
}
