package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kaiqkt/auth-registry-api/internal/models"
	appErrors "github.com/kaiqkt/auth-registry-api/pkg/errors"
)

type sessionStore interface {
	Save(ctx context.Context, session *models.Session, ttl time.Duration) error
	Find(ctx context.Context, sessionID, userID string) (*models.Session, error)
	FindAllByUser(ctx context.Context, userID string) ([]models.Session, error)
	Delete(ctx context.Context, sessionID, userID string) error
	DeleteAllByUser(ctx context.Context, userID string) error
	DeleteAllByUserExceptCurrent(ctx context.Context, sessionID, userID string) error
}

// SessionService owns the session lifecycle: creation, rotation on refresh
// and the revocation policies. It is the only writer of session records.
type SessionService struct {
	store  sessionStore
	logger *zap.Logger
	ttl    time.Duration
}

// NewSessionService constructs a SessionService.
func NewSessionService(store sessionStore, logger *zap.Logger, ttl time.Duration) *SessionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionService{store: store, logger: logger, ttl: ttl}
}

// Create opens a new session for the user and persists it with the
// configured TTL.
func (s *SessionService) Create(ctx context.Context, userID string, device models.Device, refreshToken string) (*models.Session, error) {
	session := &models.Session{
		ID:           uuid.NewString(),
		UserID:       userID,
		RefreshToken: refreshToken,
		Device:       device,
		ActiveAt:     time.Now().UTC(),
	}

	if err := s.store.Save(ctx, session, s.ttl); err != nil {
		return nil, err
	}

	s.logger.Info("session created", zap.String("user_id", userID), zap.String("session_id", session.ID))
	return session, nil
}

// Rotate replaces the session's refresh token and refreshes its TTL while
// preserving the session id. The store has last-writer-wins semantics and
// rotation carries no compare-and-swap: two concurrent refreshes against the
// same session can both pass the token comparison, and the losing caller's
// new refresh token ends up orphaned. Known limitation, kept on purpose.
func (s *SessionService) Rotate(ctx context.Context, sessionID, userID, refreshToken string) (*models.Session, error) {
	session, err := s.Find(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}

	session.RefreshToken = refreshToken
	session.ActiveAt = time.Now().UTC()

	if err := s.store.Save(ctx, session, s.ttl); err != nil {
		return nil, err
	}
	return session, nil
}

// Find returns the session or SESSION_NOT_FOUND. A revoked or expired
// session is indistinguishable from one that never existed.
func (s *SessionService) Find(ctx context.Context, sessionID, userID string) (*models.Session, error) {
	session, err := s.store.Find(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, appErrors.Clone(appErrors.ErrSessionNotFound, "")
	}
	return session, nil
}

// FindAllByUser lists the user's live sessions; no sessions at all is
// SESSION_NOT_FOUND rather than an empty list.
func (s *SessionService) FindAllByUser(ctx context.Context, userID string) ([]models.Session, error) {
	sessions, err := s.store.FindAllByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(sessions) == 0 {
		return nil, appErrors.Clone(appErrors.ErrSessionNotFound, "no sessions for user")
	}
	return sessions, nil
}

// Revoke deletes one session. Revoking an already revoked session is a no-op.
func (s *SessionService) Revoke(ctx context.Context, sessionID, userID string) error {
	if err := s.store.Delete(ctx, sessionID, userID); err != nil {
		return err
	}
	s.logger.Info("session revoked", zap.String("user_id", userID), zap.String("session_id", sessionID))
	return nil
}

// RevokeAllExceptCurrent deletes every other session for the user.
func (s *SessionService) RevokeAllExceptCurrent(ctx context.Context, sessionID, userID string) error {
	if err := s.store.DeleteAllByUserExceptCurrent(ctx, sessionID, userID); err != nil {
		return err
	}
	s.logger.Info("revoked all sessions except current", zap.String("user_id", userID), zap.String("session_id", sessionID))
	return nil
}

// RevokeAll deletes every session for the user, used on password reset.
func (s *SessionService) RevokeAll(ctx context.Context, userID string) error {
	if err := s.store.DeleteAllByUser(ctx, userID); err != nil {
		return err
	}
	s.logger.Info("revoked all sessions", zap.String("user_id", userID))
	return nil
}
