package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaiqkt/auth-registry-api/internal/models"
	"github.com/kaiqkt/auth-registry-api/internal/service"
	"github.com/kaiqkt/auth-registry-api/pkg/config"
)

func newGuardedRouter(tokens *service.TokenService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", JWT(tokens), func(c *gin.Context) {
		claims, ok := Claims(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"user_id": claims.UserID(), "session_id": claims.SessionID})
	})
	return r
}

func TestJWTMiddlewareAllowsValidToken(t *testing.T) {
	tokens := service.NewTokenService(config.AuthConfig{Secret: "secret", AccessTokenTTL: time.Hour})
	r := newGuardedRouter(tokens)

	token, err := tokens.Generate("u1", []models.UserRole{models.RoleUser}, "s1")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "u1")
}

func TestJWTMiddlewareRejectsMissingHeader(t *testing.T) {
	tokens := service.NewTokenService(config.AuthConfig{Secret: "secret", AccessTokenTTL: time.Hour})
	r := newGuardedRouter(tokens)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTMiddlewareRejectsExpiredToken(t *testing.T) {
	tokens := service.NewTokenService(config.AuthConfig{Secret: "secret", AccessTokenTTL: -time.Minute})
	r := newGuardedRouter(tokens)

	token, err := tokens.Generate("u1", []models.UserRole{models.RoleUser}, "s1")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_TOKEN")
}

func TestJWTMiddlewareRejectsMalformedHeader(t *testing.T) {
	tokens := service.NewTokenService(config.AuthConfig{Secret: "secret", AccessTokenTTL: time.Hour})
	r := newGuardedRouter(tokens)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Basic abc123")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
