package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kaiqkt/auth-registry-api/internal/models"
	appErrors "github.com/kaiqkt/auth-registry-api/pkg/errors"
)

type addressUserRepository interface {
	UpdateAddresses(ctx context.Context, id string, addresses models.Addresses, updatedAt time.Time) error
}

// addressUserFinder resolves users with domain error mapping applied.
type addressUserFinder interface {
	FindByID(ctx context.Context, userID string) (*models.User, error)
}

// AddressService maintains the addresses embedded in a user record.
type AddressService struct {
	repo      addressUserRepository
	users     addressUserFinder
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAddressService constructs an AddressService.
func NewAddressService(repo addressUserRepository, users addressUserFinder, validate *validator.Validate, logger *zap.Logger) *AddressService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &AddressService{repo: repo, users: users, validator: validate, logger: logger}
}

// CreateOrUpdate upserts the address by id; an address without an id is
// created.
func (s *AddressService) CreateOrUpdate(ctx context.Context, userID string, address models.Address) error {
	if err := s.validator.Struct(address); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid address payload")
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	if address.ID == "" {
		address.ID = uuid.NewString()
	}

	updated := false
	for i := range user.Addresses {
		if user.Addresses[i].ID == address.ID {
			user.Addresses[i] = address
			updated = true
			break
		}
	}
	if !updated {
		user.Addresses = append(user.Addresses, address)
	}

	if err := s.repo.UpdateAddresses(ctx, userID, user.Addresses, time.Now().UTC()); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist address")
	}

	s.logger.Info("address persisted", zap.String("user_id", userID), zap.String("address_id", address.ID))
	return nil
}

// Delete removes the address; deleting an absent address is a no-op.
func (s *AddressService) Delete(ctx context.Context, userID, addressID string) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	kept := make(models.Addresses, 0, len(user.Addresses))
	for _, address := range user.Addresses {
		if address.ID != addressID {
			kept = append(kept, address)
		}
	}
	if len(kept) == len(user.Addresses) {
		return nil
	}

	if err := s.repo.UpdateAddresses(ctx, userID, kept, time.Now().UTC()); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete address")
	}

	s.logger.Info("address deleted", zap.String("user_id", userID), zap.String("address_id", addressID))
	return nil
}

// Find returns one address or NOT_FOUND.
func (s *AddressService) Find(ctx context.Context, userID, addressID string) (*models.Address, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	for _, address := range user.Addresses {
		if address.ID == addressID {
			return &address, nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "address not found")
}

// FindAll lists the user's addresses; an empty list is NOT_FOUND.
func (s *AddressService) FindAll(ctx context.Context, userID string) (models.Addresses, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if len(user.Addresses) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "no addresses for user")
	}
	return user.Addresses, nil
}
