package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/kaiqkt/auth-registry-api/internal/models"
	"github.com/kaiqkt/auth-registry-api/pkg/config"
	appErrors "github.com/kaiqkt/auth-registry-api/pkg/errors"
)

// TokenService mints and verifies the signed access tokens. Tokens are
// stateless; the session id claim is the only link back to stored state.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService constructs a TokenService from the immutable auth config.
func NewTokenService(cfg config.AuthConfig) *TokenService {
	return &TokenService{secret: []byte(cfg.Secret), ttl: cfg.AccessTokenTTL}
}

// Generate issues an HS256 token carrying the user id, roles and session id.
func (s *TokenService) Generate(userID string, roles []models.UserRole, sessionID string) (string, error) {
	issuedAt := time.Now().UTC()
	claims := &models.JWTClaims{
		Roles:     roles,
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}
	return signed, nil
}

// Parse validates signature and expiry, returning the claims.
func (s *TokenService) Parse(tokenString string) (*models.JWTClaims, error) {
	claims, err := s.parse(tokenString)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInvalidToken.Code, appErrors.ErrInvalidToken.Status, "invalid token")
	}
	return claims, nil
}

// ParseAllowExpired validates the signature but tolerates an expired token,
// still returning its claims. The refresh flow depends on reading the user
// and session ids out of an access token whose lifetime has already passed.
// Any other defect (bad signature, malformed token) is INVALID_TOKEN.
func (s *TokenService) ParseAllowExpired(tokenString string) (*models.JWTClaims, error) {
	claims, err := s.parse(tokenString)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) && claims != nil {
			return claims, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInvalidToken.Code, appErrors.ErrInvalidToken.Status, "invalid token")
	}
	return claims, nil
}

func (s *TokenService) parse(tokenString string) (*models.JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})

	var claims *models.JWTClaims
	if token != nil {
		if c, ok := token.Claims.(*models.JWTClaims); ok {
			claims = c
		}
	}
	if err != nil {
		return claims, err
	}
	if claims == nil || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}
