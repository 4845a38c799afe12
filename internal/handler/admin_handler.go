package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lgardea/tax-intake-service/internal/dto"
	"github.com/lgardea/tax-intake-service/internal/service"
	"go.uber.org/zap"
)

// AdminHandler handles operator authentication
type AdminHandler struct {
	admin  service.AdminService
	logger *zap.Logger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(admin service.AdminService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		admin:  admin,
		logger: logger,
	}
}

// Login handles operator login
// @Summary Operator login
// @Description Authenticate the operator and return a session token
// @Tags admin
// @Accept json
// @Produce json
// @Param request body dto.AdminLoginRequest true "Login request"
// @Success 200 {object} dto.AdminLoginResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /admin/login [post]
func (h *AdminHandler) Login(c *gin.Context) {
	var req dto.AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Validation failed",
			Message: err.Error(),
		})
		return
	}

	response, err := h.admin.Login(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
				Error:   "Unauthorized",
				Message: err.Error(),
			})
			return
		}
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, response)
}
