package service

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/kaiqkt/auth-registry-api/internal/models"
	appErrors "github.com/kaiqkt/auth-registry-api/pkg/errors"
)

type authUserProvider interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
}

type sessionManager interface {
	Create(ctx context.Context, userID string, device models.Device, refreshToken string) (*models.Session, error)
	Rotate(ctx context.Context, sessionID, userID, refreshToken string) (*models.Session, error)
	Find(ctx context.Context, sessionID, userID string) (*models.Session, error)
	Revoke(ctx context.Context, sessionID, userID string) error
	RevokeAllExceptCurrent(ctx context.Context, sessionID, userID string) error
}

type tokenIssuer interface {
	Generate(userID string, roles []models.UserRole, sessionID string) (string, error)
	ParseAllowExpired(tokenString string) (*models.JWTClaims, error)
}

type accessNotifier interface {
	SendNewAccessEmail(ctx context.Context, user *models.User, device models.Device)
}

// AuthService is the entry point for the authentication flows: credential
// login, refresh and logout. It coordinates credential checks, the session
// manager and the token issuer.
type AuthService struct {
	users     authUserProvider
	sessions  sessionManager
	tokens    tokenIssuer
	emails    accessNotifier
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAuthService constructs an AuthService.
func NewAuthService(users authUserProvider, sessions sessionManager, tokens tokenIssuer, emails accessNotifier, validate *validator.Validate, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &AuthService{users: users, sessions: sessions, tokens: tokens, emails: emails, validator: validate, logger: logger}
}

// LoginWithCredentials verifies the email/password pair, opens a session and
// returns a token pair. The new-access notification is fire-and-forget.
func (s *AuthService) LoginWithCredentials(ctx context.Context, device models.Device, req models.LoginRequest) (*models.Authentication, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid login payload")
	}

	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrUserNotFound, "")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch user")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, appErrors.Clone(appErrors.ErrBadCredentials, "")
	}

	auth, err := s.Authenticate(ctx, user, &device, "")
	if err != nil {
		return nil, err
	}

	s.emails.SendNewAccessEmail(ctx, user, device)

	return auth, nil
}

// Authenticate issues a token pair for the user. With an empty sessionID a
// new session is created for the given device; with a sessionID the existing
// session is rotated. A fresh opaque refresh token is generated either way.
func (s *AuthService) Authenticate(ctx context.Context, user *models.User, device *models.Device, sessionID string) (*models.Authentication, error) {
	refreshToken, err := generateRefreshToken()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create refresh token")
	}

	var session *models.Session
	if sessionID == "" {
		var dev models.Device
		if device != nil {
			dev = *device
		}
		session, err = s.sessions.Create(ctx, user.ID, dev, refreshToken)
	} else {
		session, err = s.sessions.Rotate(ctx, sessionID, user.ID, refreshToken)
	}
	if err != nil {
		return nil, err
	}

	accessToken, err := s.tokens.Generate(user.ID, []models.UserRole{models.RoleUser}, session.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create access token")
	}

	s.logger.Info("user authenticated", zap.String("user_id", user.ID), zap.String("session_id", session.ID))

	return &models.Authentication{
		UserID:       user.ID,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// Refresh exchanges a matching access/refresh token pair for a new one. The
// access token may be expired as long as the signature holds. The stored
// refresh token rotates on success, so each refresh token is single-use: a
// replayed pair fails with BAD_REFRESH_TOKEN, a revoked session with
// SESSION_NOT_FOUND.
func (s *AuthService) Refresh(ctx context.Context, accessToken, refreshToken string) (*models.Authentication, error) {
	claims, err := s.tokens.ParseAllowExpired(accessToken)
	if err != nil {
		return nil, err
	}

	userID := claims.UserID()
	sessionID := claims.SessionID

	session, err := s.sessions.Find(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}

	if session.RefreshToken != refreshToken {
		return nil, appErrors.Clone(appErrors.ErrBadRefreshToken, "")
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrUserNotFound, "")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user")
	}

	s.logger.Info("refreshing authentication", zap.String("user_id", userID), zap.String("session_id", sessionID))

	return s.Authenticate(ctx, user, nil, sessionID)
}

// Logout revokes the session. Calling it again for the same session is a
// no-op.
func (s *AuthService) Logout(ctx context.Context, userID, sessionID string) error {
	return s.sessions.Revoke(ctx, sessionID, userID)
}

// LogoutAllExceptCurrent revokes every other session of the user.
func (s *AuthService) LogoutAllExceptCurrent(ctx context.Context, userID, sessionID string) error {
	return s.sessions.RevokeAllExceptCurrent(ctx, sessionID, userID)
}

func generateRefreshToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate refresh token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
