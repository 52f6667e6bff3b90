package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/kaiqkt/auth-registry-api/internal/models"
	appErrors "github.com/kaiqkt/auth-registry-api/pkg/errors"
)

type userRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	UpdateEmail(ctx context.Context, id, email string, updatedAt time.Time) error
	UpdatePassword(ctx context.Context, id, passwordHash string, updatedAt time.Time) error
}

type userAuthenticator interface {
	Authenticate(ctx context.Context, user *models.User, device *models.Device, sessionID string) (*models.Authentication, error)
}

type sessionRevoker interface {
	RevokeAllExceptCurrent(ctx context.Context, sessionID, userID string) error
}

type userNotifier interface {
	SendWelcomeEmail(ctx context.Context, user *models.User)
	SendEmailUpdatedEmail(ctx context.Context, user *models.User, newEmail, oldEmail string) error
	SendPasswordUpdatedEmail(ctx context.Context, user *models.User) error
}

// UserService covers registration and profile maintenance. Email and
// password changes revoke every other session, so a stolen credential cannot
// keep old devices logged in.
type UserService struct {
	repo      userRepository
	auth      userAuthenticator
	sessions  sessionRevoker
	emails    userNotifier
	validator *validator.Validate
	logger    *zap.Logger
}

// NewUserService constructs a UserService.
func NewUserService(repo userRepository, auth userAuthenticator, sessions sessionRevoker, emails userNotifier, validate *validator.Validate, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &UserService{repo: repo, auth: auth, sessions: sessions, emails: emails, validator: validate, logger: logger}
}

// Register creates the account and immediately authenticates it, returning a
// token pair. The welcome email is fire-and-forget.
func (s *UserService) Register(ctx context.Context, device models.Device, req models.NewUserRequest) (*models.Authentication, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid user payload")
	}

	exists, err := s.repo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check email")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrEmailInUse, "")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	user := &models.User{
		FullName:     req.FullName,
		Email:        req.Email,
		PasswordHash: string(hash),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user created", zap.String("user_id", user.ID))

	s.emails.SendWelcomeEmail(ctx, user)

	return s.auth.Authenticate(ctx, user, &device, "")
}

// FindByID returns the user or USER_NOT_FOUND.
func (s *UserService) FindByID(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrUserNotFound, "")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user")
	}
	return user, nil
}

// FindByEmail returns the user or USER_NOT_FOUND.
func (s *UserService) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrUserNotFound, "")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user")
	}
	return user, nil
}

// UpdateEmail changes the account email, revokes every other session and
// notifies the old address.
func (s *UserService) UpdateEmail(ctx context.Context, userID, sessionID string, req models.UpdateEmailRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid email payload")
	}

	exists, err := s.repo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check email")
	}
	if exists {
		return appErrors.Clone(appErrors.ErrEmailInUse, "")
	}

	user, err := s.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.repo.UpdateEmail(ctx, userID, req.Email, time.Now().UTC()); err != nil {
		return err
	}

	if err := s.sessions.RevokeAllExceptCurrent(ctx, sessionID, userID); err != nil {
		return err
	}

	if err := s.emails.SendEmailUpdatedEmail(ctx, user, req.Email, user.Email); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to send email updated notification")
	}

	s.logger.Info("user email updated", zap.String("user_id", userID))
	return nil
}

// UpdatePasswordWithActual verifies the current password before replacing
// it, then revokes every other session.
func (s *UserService) UpdatePasswordWithActual(ctx context.Context, userID, sessionID string, req models.UpdatePasswordRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid password payload")
	}

	user, err := s.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.ActualPassword)); err != nil {
		return appErrors.Clone(appErrors.ErrBadCredentials, "actual password does not match")
	}

	if err := s.sessions.RevokeAllExceptCurrent(ctx, sessionID, userID); err != nil {
		return err
	}

	if err := s.UpdatePassword(ctx, userID, req.NewPassword); err != nil {
		return err
	}

	if err := s.emails.SendPasswordUpdatedEmail(ctx, user); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to send password updated notification")
	}

	return nil
}

// UpdatePassword hashes and stores a new password without further checks.
// Credential verification, if any, belongs to the caller.
func (s *UserService) UpdatePassword(ctx context.Context, userID, newPassword string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	if err := s.repo.UpdatePassword(ctx, userID, string(hash), time.Now().UTC()); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update password")
	}

	s.logger.Info("user password updated", zap.String("user_id", userID))
	return nil
}
