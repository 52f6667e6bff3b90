package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kaiqkt/auth-registry-api/internal/models"
	appErrors "github.com/kaiqkt/auth-registry-api/pkg/errors"
)

type mockAddressRepo struct {
	saved models.Addresses
	calls int
}

func (m *mockAddressRepo) UpdateAddresses(ctx context.Context, id string, addresses models.Addresses, updatedAt time.Time) error {
	m.saved = addresses
	m.calls++
	return nil
}

type mockAddressFinder struct {
	user *models.User
	err  error
}

func (m *mockAddressFinder) FindByID(ctx context.Context, userID string) (*models.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.user, nil
}

func validAddress(id string) models.Address {
	return models.Address{
		ID:       id,
		ZipCode:  "01000-000",
		Street:   "Avenida Paulista",
		District: "Bela Vista",
		Number:   "1000",
		City:     "Sao Paulo",
		State:    "SP",
	}
}

func TestAddressServiceCreateAssignsID(t *testing.T) {
	repo := &mockAddressRepo{}
	finder := &mockAddressFinder{user: &models.User{ID: "u1"}}
	svc := NewAddressService(repo, finder, validator.New(), zap.NewNop())

	err := svc.CreateOrUpdate(context.Background(), "u1", validAddress(""))
	require.NoError(t, err)
	require.Len(t, repo.saved, 1)
	assert.NotEmpty(t, repo.saved[0].ID)
}

func TestAddressServiceUpdateReplacesExisting(t *testing.T) {
	existing := validAddress("a1")
	repo := &mockAddressRepo{}
	finder := &mockAddressFinder{user: &models.User{ID: "u1", Addresses: models.Addresses{existing}}}
	svc := NewAddressService(repo, finder, validator.New(), zap.NewNop())

	updated := validAddress("a1")
	updated.Street = "Rua Augusta"

	err := svc.CreateOrUpdate(context.Background(), "u1", updated)
	require.NoError(t, err)
	require.Len(t, repo.saved, 1)
	assert.Equal(t, "Rua Augusta", repo.saved[0].Street)
}

func TestAddressServiceCreateInvalidPayload(t *testing.T) {
	repo := &mockAddressRepo{}
	finder := &mockAddressFinder{user: &models.User{ID: "u1"}}
	svc := NewAddressService(repo, finder, validator.New(), zap.NewNop())

	err := svc.CreateOrUpdate(context.Background(), "u1", models.Address{Street: "missing the rest"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Zero(t, repo.calls)
}

func TestAddressServiceDelete(t *testing.T) {
	repo := &mockAddressRepo{}
	finder := &mockAddressFinder{user: &models.User{ID: "u1", Addresses: models.Addresses{validAddress("a1"), validAddress("a2")}}}
	svc := NewAddressService(repo, finder, validator.New(), zap.NewNop())

	err := svc.Delete(context.Background(), "u1", "a1")
	require.NoError(t, err)
	require.Len(t, repo.saved, 1)
	assert.Equal(t, "a2", repo.saved[0].ID)
}

func TestAddressServiceDeleteAbsentIsNoOp(t *testing.T) {
	repo := &mockAddressRepo{}
	finder := &mockAddressFinder{user: &models.User{ID: "u1", Addresses: models.Addresses{validAddress("a1")}}}
	svc := NewAddressService(repo, finder, validator.New(), zap.NewNop())

	err := svc.Delete(context.Background(), "u1", "missing")
	require.NoError(t, err)
	assert.Zero(t, repo.calls)
}

func TestAddressServiceFindNotFound(t *testing.T) {
	finder := &mockAddressFinder{user: &models.User{ID: "u1"}}
	svc := NewAddressService(&mockAddressRepo{}, finder, validator.New(), zap.NewNop())

	_, err := svc.Find(context.Background(), "u1", "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestAddressServiceFindAllEmpty(t *testing.T) {
	finder := &mockAddressFinder{user: &models.User{ID: "u1"}}
	svc := NewAddressService(&mockAddressRepo{}, finder, validator.New(), zap.NewNop())

	_, err := svc.FindAll(context.Background(), "u1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestAddressServiceFindAll(t *testing.T) {
	finder := &mockAddressFinder{user: &models.User{ID: "u1", Addresses: models.Addresses{validAddress("a1")}}}
	svc := NewAddressService(&mockAddressRepo{}, finder, validator.New(), zap.NewNop())

	addresses, err := svc.FindAll(context.Background(), "u1")
	require.NoError(t, err)
	assert.Len(t, addresses, 1)
}
