package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"go.uber.org/zap"

	"github.com/kaiqkt/auth-registry-api/internal/models"
	appErrors "github.com/kaiqkt/auth-registry-api/pkg/errors"
)

type resetCodeStore interface {
	Save(ctx context.Context, code, userID string, ttl time.Duration) error
	FindUserID(ctx context.Context, code string) (string, error)
	Delete(ctx context.Context, code string) error
}

type resetUserService interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, userID string) (*models.User, error)
	UpdatePassword(ctx context.Context, userID, newPassword string) error
}

type allSessionRevoker interface {
	RevokeAll(ctx context.Context, userID string) error
}

type resetNotifier interface {
	SendRedefinePasswordEmail(ctx context.Context, code string, user *models.User) error
	SendPasswordUpdatedEmail(ctx context.Context, user *models.User) error
}

// PasswordResetService runs the redefine-password flow: a short-lived
// six-digit code delivered by email, consumed exactly once. Redefining the
// password revokes every session of the user.
type PasswordResetService struct {
	codes    resetCodeStore
	users    resetUserService
	sessions allSessionRevoker
	emails   resetNotifier
	logger   *zap.Logger
	codeTTL  time.Duration
}

// NewPasswordResetService constructs a PasswordResetService.
func NewPasswordResetService(codes resetCodeStore, users resetUserService, sessions allSessionRevoker, emails resetNotifier, logger *zap.Logger, codeTTL time.Duration) *PasswordResetService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PasswordResetService{codes: codes, users: users, sessions: sessions, emails: emails, logger: logger, codeTTL: codeTTL}
}

// SendCode issues a redefine code for the account and emails it. The email
// is the whole point of the endpoint, so a send failure fails the request.
func (s *PasswordResetService) SendCode(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}

	code, err := generateResetCode()
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to generate reset code")
	}

	if err := s.codes.Save(ctx, code, user.ID, s.codeTTL); err != nil {
		return err
	}

	s.logger.Info("redefine password code generated", zap.String("user_id", user.ID))

	if err := s.emails.SendRedefinePasswordEmail(ctx, code, user); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to send redefine password email")
	}
	return nil
}

// ValidateCode resolves the code to a user, consuming it unless the call is
// a pure validation.
func (s *PasswordResetService) ValidateCode(ctx context.Context, code string, validationOnly bool) (string, error) {
	userID, err := s.codes.FindUserID(ctx, code)
	if err != nil {
		return "", err
	}
	if userID == "" {
		return "", appErrors.Clone(appErrors.ErrInvalidResetCode, "")
	}

	if !validationOnly {
		if err := s.codes.Delete(ctx, code); err != nil {
			return "", err
		}
	}
	return userID, nil
}

// Redefine consumes the code, revokes all sessions and stores the new
// password.
func (s *PasswordResetService) Redefine(ctx context.Context, code, newPassword string) error {
	userID, err := s.ValidateCode(ctx, code, false)
	if err != nil {
		return err
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.sessions.RevokeAll(ctx, userID); err != nil {
		return err
	}

	if err := s.users.UpdatePassword(ctx, userID, newPassword); err != nil {
		return err
	}

	if err := s.emails.SendPasswordUpdatedEmail(ctx, user); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to send password updated notification")
	}
	return nil
}

func generateResetCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
