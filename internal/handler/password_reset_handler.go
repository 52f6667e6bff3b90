package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kaiqkt/auth-registry-api/internal/models"
	"github.com/kaiqkt/auth-registry-api/internal/service"
	appErrors "github.com/kaiqkt/auth-registry-api/pkg/errors"
	"github.com/kaiqkt/auth-registry-api/pkg/response"
)

// PasswordResetHandler wires the redefine-password flow.
type PasswordResetHandler struct {
	service *service.PasswordResetService
}

// NewPasswordResetHandler creates a new handler.
func NewPasswordResetHandler(svc *service.PasswordResetService) *PasswordResetHandler {
	return &PasswordResetHandler{service: svc}
}

// SendCode godoc
// @Summary Send a redefine password code
// @Description Email a short-lived six-digit code to the account
// @Tags Password
// @Accept json
// @Param payload body models.SendResetCodeRequest true "Account email"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /password/email [post]
func (h *PasswordResetHandler) SendCode(c *gin.Context) {
	var req models.SendResetCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid email payload"))
		return
	}

	if err := h.service.SendCode(c.Request.Context(), req.Email); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// ValidateCode godoc
// @Summary Validate a redefine password code
// @Description Check the code without consuming it
// @Tags Password
// @Param code path string true "Six-digit code"
// @Success 204
// @Failure 401 {object} response.Envelope
// @Router /password/{code} [get]
func (h *PasswordResetHandler) ValidateCode(c *gin.Context) {
	if _, err := h.service.ValidateCode(c.Request.Context(), c.Param("code"), true); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// Redefine godoc
// @Summary Redefine the password
// @Description Consume the code, revoke all sessions and store the new password
// @Tags Password
// @Accept json
// @Param payload body models.RedefinePasswordRequest true "Code and new password"
// @Success 204
// @Failure 401 {object} response.Envelope
// @Router /password [post]
func (h *PasswordResetHandler) Redefine(c *gin.Context) {
	var req models.RedefinePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid redefine payload"))
		return
	}

	if err := h.service.Redefine(c.Request.Context(), req.Code, req.NewPassword); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
