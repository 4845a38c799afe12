package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lgardea/tax-intake-service/internal/dto"
	"github.com/lgardea/tax-intake-service/internal/service"
	"go.uber.org/zap"
)

// IntakeHandler handles client-facing intake session requests
type IntakeHandler struct {
	intake service.IntakeService
	logger *zap.Logger
}

// NewIntakeHandler creates a new intake handler
func NewIntakeHandler(intake service.IntakeService, logger *zap.Logger) *IntakeHandler {
	return &IntakeHandler{
		intake: intake,
		logger: logger,
	}
}

// Session handles token validation for form prefill
// @Summary Validate an intake session
// @Description Resolve an intake token to its tax return and client prefill data
// @Tags intake
// @Produce json
// @Param token query string true "Raw intake token"
// @Success 200 {object} dto.SessionResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Failure 410 {object} dto.ErrorResponse
// @Router /intake/session [get]
func (h *IntakeHandler) Session(c *gin.Context) {
	response, err := h.intake.ValidateSession(c.Request.Context(), c.Query("token"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// Submit handles intake form submission
// @Summary Submit an intake form
// @Description Validate the payload, re-validate the token and persist the whole intake atomically
// @Tags intake
// @Accept json
// @Produce json
// @Param token query string true "Raw intake token"
// @Param request body dto.IntakeSubmission true "Intake payload"
// @Success 200 {object} dto.SubmitResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Failure 410 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /intake [post]
func (h *IntakeHandler) Submit(c *gin.Context) {
	var payload dto.IntakeSubmission
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Validation failed",
			Message: err.Error(),
		})
		return
	}

	response, err := h.intake.Submit(c.Request.Context(), c.Query("token"), &payload, actorFrom(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, response)
}
