package service

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kaiqkt/auth-registry-api/internal/models"
	appErrors "github.com/kaiqkt/auth-registry-api/pkg/errors"
)

type mockCodeStore struct {
	codes   map[string]string
	lastTTL time.Duration
}

func newMockCodeStore() *mockCodeStore {
	return &mockCodeStore{codes: make(map[string]string)}
}

func (m *mockCodeStore) Save(ctx context.Context, code, userID string, ttl time.Duration) error {
	m.codes[code] = userID
	m.lastTTL = ttl
	return nil
}

func (m *mockCodeStore) FindUserID(ctx context.Context, code string) (string, error) {
	return m.codes[code], nil
}

func (m *mockCodeStore) Delete(ctx context.Context, code string) error {
	delete(m.codes, code)
	return nil
}

type mockResetUsers struct {
	user        *models.User
	updatedWith string
}

func (m *mockResetUsers) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.user == nil || m.user.Email != email {
		return nil, appErrors.Clone(appErrors.ErrUserNotFound, "")
	}
	return m.user, nil
}

func (m *mockResetUsers) FindByID(ctx context.Context, userID string) (*models.User, error) {
	if m.user == nil || m.user.ID != userID {
		return nil, appErrors.Clone(appErrors.ErrUserNotFound, "")
	}
	return m.user, nil
}

func (m *mockResetUsers) UpdatePassword(ctx context.Context, userID, newPassword string) error {
	m.updatedWith = newPassword
	return nil
}

type mockAllRevoker struct {
	revokedFor string
}

func (m *mockAllRevoker) RevokeAll(ctx context.Context, userID string) error {
	m.revokedFor = userID
	return nil
}

type mockResetNotifier struct {
	sentCode     string
	sendErr      error
	updatedCalls int
}

func (m *mockResetNotifier) SendRedefinePasswordEmail(ctx context.Context, code string, user *models.User) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.sentCode = code
	return nil
}

func (m *mockResetNotifier) SendPasswordUpdatedEmail(ctx context.Context, user *models.User) error {
	m.updatedCalls++
	return nil
}

func newResetFixture() (*PasswordResetService, *mockCodeStore, *mockResetUsers, *mockAllRevoker, *mockResetNotifier) {
	codes := newMockCodeStore()
	users := &mockResetUsers{user: &models.User{ID: "u1", FullName: "Jane Roe", Email: "user@example.com"}}
	revoker := &mockAllRevoker{}
	emails := &mockResetNotifier{}
	svc := NewPasswordResetService(codes, users, revoker, emails, zap.NewNop(), 15*time.Minute)
	return svc, codes, users, revoker, emails
}

func TestPasswordResetSendCode(t *testing.T) {
	svc, codes, _, _, emails := newResetFixture()

	err := svc.SendCode(context.Background(), "user@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, emails.sentCode)
	assert.Regexp(t, regexp.MustCompile(`^\d{6}$`), emails.sentCode)
	assert.Equal(t, "u1", codes.codes[emails.sentCode])
	assert.Equal(t, 15*time.Minute, codes.lastTTL)
}

func TestPasswordResetSendCodeUnknownEmail(t *testing.T) {
	svc, _, _, _, _ := newResetFixture()

	err := svc.SendCode(context.Background(), "nobody@example.com")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUserNotFound.Code, appErrors.FromError(err).Code)
}

func TestPasswordResetSendCodeEmailFailureSurfaces(t *testing.T) {
	svc, _, _, _, emails := newResetFixture()
	emails.sendErr = errors.New("gateway down")

	err := svc.SendCode(context.Background(), "user@example.com")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInternal.Code, appErrors.FromError(err).Code)
}

func TestPasswordResetValidateCodeUnknown(t *testing.T) {
	svc, _, _, _, _ := newResetFixture()

	_, err := svc.ValidateCode(context.Background(), "000000", true)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidResetCode.Code, appErrors.FromError(err).Code)
}

func TestPasswordResetValidateCodeDoesNotConsume(t *testing.T) {
	svc, codes, _, _, _ := newResetFixture()
	codes.codes["123456"] = "u1"

	userID, err := svc.ValidateCode(context.Background(), "123456", true)
	require.NoError(t, err)
	assert.Equal(t, "u1", userID)
	assert.Contains(t, codes.codes, "123456")
}

func TestPasswordResetRedefine(t *testing.T) {
	svc, codes, users, revoker, emails := newResetFixture()
	codes.codes["123456"] = "u1"

	err := svc.Redefine(context.Background(), "123456", "newpassword")
	require.NoError(t, err)
	assert.Equal(t, "newpassword", users.updatedWith)
	assert.Equal(t, "u1", revoker.revokedFor)
	assert.Equal(t, 1, emails.updatedCalls)
	assert.NotContains(t, codes.codes, "123456")
}

func TestPasswordResetCodeIsSingleUse(t *testing.T) {
	svc, codes, _, _, _ := newResetFixture()
	codes.codes["123456"] = "u1"

	require.NoError(t, svc.Redefine(context.Background(), "123456", "newpassword"))

	err := svc.Redefine(context.Background(), "123456", "anotherpassword")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidResetCode.Code, appErrors.FromError(err).Code)
}
