package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kaiqkt/auth-registry-api/internal/middleware"
	"github.com/kaiqkt/auth-registry-api/internal/models"
	"github.com/kaiqkt/auth-registry-api/internal/service"
	appErrors "github.com/kaiqkt/auth-registry-api/pkg/errors"
	"github.com/kaiqkt/auth-registry-api/pkg/response"
)

// AuthHandler wires HTTP endpoints to the auth service.
type AuthHandler struct {
	service *service.AuthService
}

// NewAuthHandler creates a new handler.
func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{service: svc}
}

// Login godoc
// @Summary Authenticate user
// @Description Authenticate user by email and password
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body models.LoginRequest true "Login payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid login payload"))
		return
	}

	device := service.ClassifyDevice(c.GetHeader("User-Agent"), c.GetHeader("App-Version"))

	res, err := h.service.LoginWithCredentials(c.Request.Context(), device, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, res)
}

// Refresh godoc
// @Summary Refresh authentication
// @Description Exchange an access/refresh token pair for a new one
// @Tags Authentication
// @Produce json
// @Param Authorization header string true "Bearer access token, may be expired"
// @Param Refresh-Token header string true "Opaque refresh token"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	accessToken, ok := middleware.BearerToken(c)
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrInvalidToken, "invalid authorization header"))
		return
	}

	refreshToken := c.GetHeader("Refresh-Token")
	if refreshToken == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrBadRefreshToken, "missing refresh token header"))
		return
	}

	res, err := h.service.Refresh(c.Request.Context(), accessToken, refreshToken)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, res)
}

// Logout godoc
// @Summary Logout current session
// @Description Revoke the session carried by the access token
// @Tags Authentication
// @Success 204
// @Failure 401 {object} response.Envelope
// @Router /auth/logout [delete]
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	if err := h.service.Logout(c.Request.Context(), claims.UserID(), claims.SessionID); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// LogoutSession godoc
// @Summary Logout a specific session
// @Description Revoke one of the user's sessions by id
// @Tags Authentication
// @Param sessionId path string true "Session id"
// @Success 204
// @Failure 401 {object} response.Envelope
// @Router /auth/logout/{sessionId} [delete]
func (h *AuthHandler) LogoutSession(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	if err := h.service.Logout(c.Request.Context(), claims.UserID(), c.Param("sessionId")); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// LogoutAll godoc
// @Summary Logout every other session
// @Description Revoke all of the user's sessions except the current one
// @Tags Authentication
// @Success 204
// @Failure 401 {object} response.Envelope
// @Router /auth/logout/all [delete]
func (h *AuthHandler) LogoutAll(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	if err := h.service.LogoutAllExceptCurrent(c.Request.Context(), claims.UserID(), claims.SessionID); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
