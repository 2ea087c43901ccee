package handler

import (
	"errors"
	"net/http"

	"github.com/binovo/connector-prestashop/internal/domain/connector"
	"github.com/binovo/connector-prestashop/internal/domain/shared"
	"github.com/binovo/connector-prestashop/internal/infrastructure/logger"
	"github.com/binovo/connector-prestashop/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BaseHandler provides the response helpers shared by handlers
type BaseHandler struct{}

// Success sends a 200 response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Created sends a 201 response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// Accepted sends a 202 response
func (h *BaseHandler) Accepted(c *gin.Context, data any) {
	c.JSON(http.StatusAccepted, dto.NewSuccessResponse(data))
}

// Error sends an error response
func (h *BaseHandler) Error(c *gin.Context, code, message string) {
	c.JSON(dto.StatusFor(code), dto.NewErrorResponse(code, message, requestID(c)))
}

// BadRequest sends a 400 response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, dto.ErrCodeBadRequest, message)
}

// HandleError maps an application error to a response
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	var fatal *connector.ValidationError
	switch {
	case errors.Is(err, shared.ErrNotFound):
		h.Error(c, dto.ErrCodeNotFound, err.Error())
	case errors.Is(err, shared.ErrAlreadyExists):
		h.Error(c, dto.ErrCodeConflict, err.Error())
	case errors.As(err, &fatal):
		h.Error(c, dto.ErrCodeFatal, err.Error())
	case isInvalidInput(err):
		h.Error(c, dto.ErrCodeValidation, err.Error())
	default:
		logger.FromContext(c.Request.Context()).Error("Request failed", zap.Error(err))
		h.Error(c, dto.ErrCodeInternal, "internal error")
	}
}

func isInvalidInput(err error) bool {
	for _, target := range []error{
		connector.ErrUnknownEntity,
		connector.ErrBackendInvalidName,
		connector.ErrBackendInvalidURL,
		connector.ErrBackendInvalidCompany,
		connector.ErrBackendInvalidMatching,
		shared.ErrInvalidInput,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func requestID(c *gin.Context) string {
	if id := logger.GetRequestID(c.Request.Context()); id != "" {
		return id
	}
	return c.GetHeader(logger.RequestIDHeader)
}
