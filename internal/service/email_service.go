package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/kaiqkt/auth-registry-api/internal/gateway"
	"github.com/kaiqkt/auth-registry-api/internal/models"
	"github.com/kaiqkt/auth-registry-api/pkg/config"
)

type communicationGateway interface {
	SendEmail(ctx context.Context, email gateway.Email) error
}

// EmailService selects templates and builds the notification payloads.
// Welcome and new-access sends are fire-and-forget: a delivery failure is
// logged but never fails the surrounding request. The remaining sends sit in
// the critical path of their endpoints and propagate failures.
type EmailService struct {
	gateway communicationGateway
	logger  *zap.Logger
	cfg     config.CommunicationConfig
}

// NewEmailService constructs an EmailService.
func NewEmailService(gw communicationGateway, logger *zap.Logger, cfg config.CommunicationConfig) *EmailService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EmailService{gateway: gw, logger: logger, cfg: cfg}
}

// SendWelcomeEmail greets a new account. Best-effort.
func (s *EmailService) SendWelcomeEmail(ctx context.Context, user *models.User) {
	email := s.build(user.Email, "Welcome to our platform", s.cfg.WelcomeTemplate, map[string]string{
		"name": user.FirstName(),
	})

	if err := s.gateway.SendEmail(ctx, email); err != nil {
		s.logger.Error("failed to send welcome email", zap.String("user_id", user.ID), zap.Error(err))
	}
}

// SendNewAccessEmail notifies about a fresh login. Best-effort.
func (s *EmailService) SendNewAccessEmail(ctx context.Context, user *models.User, device models.Device) {
	email := s.build(user.Email, "New login to your account", s.cfg.NewAccessTemplate, map[string]string{
		"name":   user.FirstName(),
		"device": device.Model,
		"date":   time.Now().UTC().Format("2006-01-02 15:04:05"),
	})

	if err := s.gateway.SendEmail(ctx, email); err != nil {
		s.logger.Error("failed to send new access email", zap.String("user_id", user.ID), zap.Error(err))
	}
}

// SendEmailUpdatedEmail warns the old address that the account email changed.
func (s *EmailService) SendEmailUpdatedEmail(ctx context.Context, user *models.User, newEmail, oldEmail string) error {
	email := s.build(oldEmail, "Your account email was changed", s.cfg.EmailUpdatedTemplate, map[string]string{
		"name":      user.FirstName(),
		"new_email": newEmail,
		"date":      time.Now().UTC().Format("2006-01-02 15:04:05"),
	})

	return s.gateway.SendEmail(ctx, email)
}

// SendPasswordUpdatedEmail confirms a password change.
func (s *EmailService) SendPasswordUpdatedEmail(ctx context.Context, user *models.User) error {
	email := s.build(user.Email, "Your password was changed", s.cfg.PasswordUpdatedTemplate, map[string]string{
		"name": user.FirstName(),
		"date": time.Now().UTC().Format("2006-01-02 15:04:05"),
	})

	return s.gateway.SendEmail(ctx, email)
}

// SendRedefinePasswordEmail delivers the reset code. The reset endpoint has
// nothing to offer without it, so a failure here fails the request.
func (s *EmailService) SendRedefinePasswordEmail(ctx context.Context, code string, user *models.User) error {
	email := s.build(user.Email, "Password redefine requested", s.cfg.RedefinePasswordTemplate, map[string]string{
		"name": user.FirstName(),
		"code": code,
		"date": time.Now().UTC().Format("2006-01-02 15:04:05"),
	})

	return s.gateway.SendEmail(ctx, email)
}

func (s *EmailService) build(recipient, subject, template string, data map[string]string) gateway.Email {
	return gateway.Email{
		Recipient: recipient,
		Subject:   subject,
		Template: gateway.Template{
			URL:  s.cfg.TemplateLocation + template,
			Data: data,
		},
	}
}
