package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kaiqkt/auth-registry-api/internal/models"
	"github.com/kaiqkt/auth-registry-api/internal/service"
	appErrors "github.com/kaiqkt/auth-registry-api/pkg/errors"
	"github.com/kaiqkt/auth-registry-api/pkg/response"
)

// UserHandler wires HTTP endpoints to the user service.
type UserHandler struct {
	service *service.UserService
}

// NewUserHandler creates a new handler.
func NewUserHandler(svc *service.UserService) *UserHandler {
	return &UserHandler{service: svc}
}

// Register godoc
// @Summary Register a new user
// @Description Create an account and return an authenticated token pair
// @Tags User
// @Accept json
// @Produce json
// @Param payload body models.NewUserRequest true "New user payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /user [post]
func (h *UserHandler) Register(c *gin.Context) {
	var req models.NewUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid user payload"))
		return
	}

	device := service.ClassifyDevice(c.GetHeader("User-Agent"), c.GetHeader("App-Version"))

	res, err := h.service.Register(c.Request.Context(), device, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, res)
}

// Me godoc
// @Summary Current user profile
// @Description Return the profile of the authenticated user
// @Tags User
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /user [get]
func (h *UserHandler) Me(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	user, err := h.service.FindByID(c.Request.Context(), claims.UserID())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, user.ToResponse())
}

// FindByID godoc
// @Summary Find user by id
// @Tags User
// @Produce json
// @Param userId path string true "User id"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /user/{userId} [get]
func (h *UserHandler) FindByID(c *gin.Context) {
	user, err := h.service.FindByID(c.Request.Context(), c.Param("userId"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, user.ToResponse())
}

// UpdateEmail godoc
// @Summary Update account email
// @Description Change the email and revoke every other session
// @Tags User
// @Accept json
// @Param payload body models.UpdateEmailRequest true "New email"
// @Success 204
// @Failure 400 {object} response.Envelope
// @Router /user/email [put]
func (h *UserHandler) UpdateEmail(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req models.UpdateEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid email payload"))
		return
	}

	if err := h.service.UpdateEmail(c.Request.Context(), claims.UserID(), claims.SessionID, req); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// UpdatePassword godoc
// @Summary Update account password
// @Description Change the password given the current one and revoke every other session
// @Tags User
// @Accept json
// @Param payload body models.UpdatePasswordRequest true "Password payload"
// @Success 204
// @Failure 401 {object} response.Envelope
// @Router /user/password [put]
func (h *UserHandler) UpdatePassword(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req models.UpdatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid password payload"))
		return
	}

	if err := h.service.UpdatePasswordWithActual(c.Request.Context(), claims.UserID(), claims.SessionID, req); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
