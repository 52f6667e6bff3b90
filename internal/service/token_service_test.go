package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaiqkt/auth-registry-api/internal/models"
	"github.com/kaiqkt/auth-registry-api/pkg/config"
	appErrors "github.com/kaiqkt/auth-registry-api/pkg/errors"
)

func TestTokenServiceGenerateAndParse(t *testing.T) {
	svc := NewTokenService(config.AuthConfig{Secret: "secret", AccessTokenTTL: time.Hour})

	token, err := svc.Generate("u1", []models.UserRole{models.RoleUser}, "s1")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID())
	assert.Equal(t, "s1", claims.SessionID)
	assert.Equal(t, []models.UserRole{models.RoleUser}, claims.Roles)
}

func TestTokenServiceParseRejectsExpired(t *testing.T) {
	svc := NewTokenService(config.AuthConfig{Secret: "secret", AccessTokenTTL: -time.Minute})

	token, err := svc.Generate("u1", []models.UserRole{models.RoleUser}, "s1")
	require.NoError(t, err)

	_, err = svc.Parse(token)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidToken.Code, appErrors.FromError(err).Code)
}

func TestTokenServiceParseAllowExpired(t *testing.T) {
	svc := NewTokenService(config.AuthConfig{Secret: "secret", AccessTokenTTL: -time.Minute})

	token, err := svc.Generate("u1", []models.UserRole{models.RoleUser}, "s1")
	require.NoError(t, err)

	claims, err := svc.ParseAllowExpired(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID())
	assert.Equal(t, "s1", claims.SessionID)
}

func TestTokenServiceParseAllowExpiredRejectsBadSignature(t *testing.T) {
	svc := NewTokenService(config.AuthConfig{Secret: "secret", AccessTokenTTL: time.Hour})
	other := NewTokenService(config.AuthConfig{Secret: "another", AccessTokenTTL: time.Hour})

	token, err := other.Generate("u1", []models.UserRole{models.RoleUser}, "s1")
	require.NoError(t, err)

	_, err = svc.ParseAllowExpired(token)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidToken.Code, appErrors.FromError(err).Code)
}

func TestTokenServiceParseRejectsGarbage(t *testing.T) {
	svc := NewTokenService(config.AuthConfig{Secret: "secret", AccessTokenTTL: time.Hour})

	_, err := svc.Parse("not-a-token")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidToken.Code, appErrors.FromError(err).Code)
}
