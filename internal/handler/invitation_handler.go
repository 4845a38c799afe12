package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lgardea/tax-intake-service/internal/dto"
	"github.com/lgardea/tax-intake-service/internal/service"
	"go.uber.org/zap"
)

// InvitationHandler handles operator invitation requests
type InvitationHandler struct {
	invitations service.InvitationService
	logger      *zap.Logger
}

// NewInvitationHandler creates a new invitation handler
func NewInvitationHandler(invitations service.InvitationService, logger *zap.Logger) *InvitationHandler {
	return &InvitationHandler{
		invitations: invitations,
		logger:      logger,
	}
}

// Issue handles invitation issuance
// @Summary Issue an intake invitation
// @Description Create or refresh a client and tax return and mint a token-gated intake link
// @Tags invitations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.InviteRequest true "Invitation request"
// @Success 201 {object} dto.InviteResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /invitations [post]
func (h *InvitationHandler) Issue(c *gin.Context) {
	var req dto.InviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Validation failed",
			Message: err.Error(),
		})
		return
	}

	response, err := h.invitations.Issue(c.Request.Context(), &req, actorFrom(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

// Revoke handles token revocation for a tax return
// @Summary Revoke intake tokens
// @Description Permanently revoke every active token of a tax return
// @Tags invitations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Tax return id"
// @Success 200 {object} dto.RevokeResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /invitations/{id}/revoke [post]
func (h *InvitationHandler) Revoke(c *gin.Context) {
	taxReturnID := c.Param("id")

	response, err := h.invitations.Revoke(c.Request.Context(), taxReturnID, actorFrom(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, response)
}
