package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kaiqkt/auth-registry-api/internal/models"
	"github.com/kaiqkt/auth-registry-api/internal/service"
	appErrors "github.com/kaiqkt/auth-registry-api/pkg/errors"
	"github.com/kaiqkt/auth-registry-api/pkg/response"
)

// SessionHandler exposes the user's active sessions.
type SessionHandler struct {
	service *service.SessionService
}

// NewSessionHandler creates a new handler.
func NewSessionHandler(svc *service.SessionService) *SessionHandler {
	return &SessionHandler{service: svc}
}

// sessionResponse omits the refresh token, which never leaves the store.
type sessionResponse struct {
	ID       string        `json:"id"`
	Device   models.Device `json:"device"`
	ActiveAt time.Time     `json:"activeAt"`
	Current  bool          `json:"current"`
}

// FindAll godoc
// @Summary List the user's active sessions
// @Tags Session
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /session [get]
func (h *SessionHandler) FindAll(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	sessions, err := h.service.FindAllByUser(c.Request.Context(), claims.UserID())
	if err != nil {
		response.Error(c, err)
		return
	}

	res := make([]sessionResponse, 0, len(sessions))
	for _, session := range sessions {
		res = append(res, sessionResponse{
			ID:       session.ID,
			Device:   session.Device,
			ActiveAt: session.ActiveAt,
			Current:  session.ID == claims.SessionID,
		})
	}

	response.JSON(c, http.StatusOK, res)
}

// Current godoc
// @Summary Check whether the current session is still live
// @Tags Session
// @Success 204
// @Failure 401 {object} response.Envelope
// @Router /session/current [get]
func (h *SessionHandler) Current(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	if _, err := h.service.Find(c.Request.Context(), claims.SessionID, claims.UserID()); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
