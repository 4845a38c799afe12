package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lgardea/tax-intake-service/internal/dto"
	"github.com/lgardea/tax-intake-service/internal/service"
	"go.uber.org/zap"
)

// respondError maps service errors onto the HTTP surface. Store failures
// are logged with full detail but reported to the client as a generic
// server error.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	var ve *service.ValidationError

	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Validation failed",
			Message: ve.Message,
		})
	case errors.Is(err, service.ErrMissingToken), errors.Is(err, service.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error:   "Unauthorized",
			Message: err.Error(),
		})
	case errors.Is(err, service.ErrTokenRevoked):
		c.JSON(http.StatusForbidden, dto.ErrorResponse{
			Error:   "Forbidden",
			Message: err.Error(),
		})
	case errors.Is(err, service.ErrTokenExpired):
		c.JSON(http.StatusGone, dto.ErrorResponse{
			Error:   "Gone",
			Message: err.Error(),
		})
	case errors.Is(err, service.ErrTokenAlreadyUsed):
		c.JSON(http.StatusConflict, dto.ErrorResponse{
			Error:   "Conflict",
			Message: err.Error(),
		})
	case errors.Is(err, service.ErrCaptchaFailed):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Validation failed",
			Message: err.Error(),
		})
	default:
		logger.Error("Request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "Internal server error",
			Message: "something went wrong",
		})
	}
}

// actorFrom extracts requester metadata for audit events
func actorFrom(c *gin.Context) service.Actor {
	return service.Actor{
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
}
