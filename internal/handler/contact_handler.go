package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lgardea/tax-intake-service/internal/dto"
	"github.com/lgardea/tax-intake-service/internal/service"
	"go.uber.org/zap"
)

// ContactHandler handles public contact-form relay requests
type ContactHandler struct {
	contact service.ContactService
	logger  *zap.Logger
}

// NewContactHandler creates a new contact handler
func NewContactHandler(contact service.ContactService, logger *zap.Logger) *ContactHandler {
	return &ContactHandler{
		contact: contact,
		logger:  logger,
	}
}

// Relay handles a contact-form message
// @Summary Relay a contact message
// @Description Verify the captcha verdict and forward the message to the practice mailbox
// @Tags contact
// @Accept json
// @Produce json
// @Param request body dto.ContactRequest true "Contact request"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 429 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /contact [post]
func (h *ContactHandler) Relay(c *gin.Context) {
	var req dto.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Validation failed",
			Message: err.Error(),
		})
		return
	}

	err := h.contact.Relay(c.Request.Context(), &req, actorFrom(c))
	if err != nil {
		// Honeypot trips are dropped while telling the bot everything
		// went fine.
		if errors.Is(err, service.ErrSpam) {
			c.JSON(http.StatusOK, dto.SuccessResponse{Message: "Message sent"})
			return
		}
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{Message: "Message sent"})
}
