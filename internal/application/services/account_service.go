package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/zatekoja/localdeals/internal/domain/entities"
	"github.com/zatekoja/localdeals/internal/domain/providers"
	"github.com/zatekoja/localdeals/internal/domain/repositories"
	"github.com/zatekoja/localdeals/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/localdeals/pkg/errors"
	"github.com/zatekoja/localdeals/pkg/validator"
	"golang.org/x/crypto/bcrypt"
)

// AccountService handles registration, login and profile changes
type AccountService struct {
	accounts  repositories.AccountRepository
	geocoder  providers.GeolocationProvider
	storage   providers.ImageStorage
	validator *validator.Validator
	cost      int
}

// NewAccountService creates a new account service
func NewAccountService(
	accounts repositories.AccountRepository,
	geocoder providers.GeolocationProvider,
	storage providers.ImageStorage,
	v *validator.Validator,
) *AccountService {
	if v == nil {
		v = validator.New()
	}
	return &AccountService{
		accounts:  accounts,
		geocoder:  geocoder,
		storage:   storage,
		validator: v,
		cost:      bcrypt.DefaultCost,
	}
}

// SetHashCost changes the bcrypt cost of new password hashes
func (s *AccountService) SetHashCost(cost int) {
	s.cost = cost
}

// Register creates an account. Dealers are placed at their geocoded
// address, everyone else at the centre of Germany.
func (s *AccountService) Register(ctx context.Context, reg *entities.Registration) (*entities.Account, error) {
	reg.Email = strings.ToLower(strings.TrimSpace(reg.Email))
	if err := s.validator.ValidateStruct(reg); err != nil {
		return nil, err
	}

	_, err := s.accounts.GetByEmail(ctx, reg.Email)
	switch {
	case err == nil:
		return nil, apperrors.NewForbiddenError("email already registered")
	case !apperrors.IsType(err, apperrors.ErrorTypeNotFound):
		return nil, err
	}

	taken, err := s.accounts.UsernameExists(ctx, reg.Username, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperrors.NewValidationError("username already taken")
	}

	location := entities.CenterOfGermany
	if reg.Dealer {
		pos, err := s.geocode(ctx, reg.Address())
		if err != nil {
			return nil, err
		}
		location = *pos
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), s.cost)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to hash password", err)
	}

	account := &entities.Account{
		ID:              uuid.New().String(),
		Email:           reg.Email,
		PasswordHash:    string(hash),
		Username:        reg.Username,
		Dealer:          reg.Dealer,
		Street:          reg.Street,
		HouseNumber:     reg.HouseNumber,
		City:            reg.City,
		Zip:             reg.Zip,
		Phone:           reg.Phone,
		Age:             reg.Age,
		Gender:          reg.Gender,
		TaxID:           reg.TaxID,
		DefaultCategory: reg.DefaultCategory,
		Location:        &location,
		CreatedAt:       time.Now().UTC(),
	}

	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, err
	}

	observability.LoggerFromContext(ctx).Info().
		Str("account_id", account.ID).
		Bool("dealer", account.Dealer).
		Msg("Account registered")

	return account, nil
}

// Authenticate checks the credentials and returns the account
func (s *AccountService) Authenticate(ctx context.Context, creds *entities.Credentials) (*entities.Account, error) {
	creds.Email = strings.ToLower(strings.TrimSpace(creds.Email))
	if err := s.validator.ValidateStruct(creds); err != nil {
		return nil, apperrors.NewUnauthorizedError("invalid credentials")
	}

	account, err := s.accounts.GetByEmail(ctx, creds.Email)
	if err != nil {
		if apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
			return nil, apperrors.NewUnauthorizedError("invalid credentials")
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(creds.Password)); err != nil {
		return nil, apperrors.NewUnauthorizedError("invalid credentials")
	}

	return account, nil
}

// GetAccount retrieves an account with its profile image. A failed image
// lookup leaves the URL empty.
func (s *AccountService) GetAccount(ctx context.Context, id string) (*entities.Account, error) {
	account, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.storage != nil {
		url, err := s.storage.ProfileImageURL(ctx, account.ID, account.Dealer)
		if err != nil {
			observability.LoggerFromContext(ctx).Warn().Err(err).Str("account_id", id).Msg("Failed to load profile image")
		}
		account.ProfileImageURL = url
	}

	return account, nil
}

// UpdateAccount applies update to the account. A complete address is
// geocoded again.
func (s *AccountService) UpdateAccount(ctx context.Context, id string, update *entities.AccountUpdate) (*entities.Account, error) {
	if err := s.validator.ValidateStruct(update); err != nil {
		return nil, err
	}

	if update.Username != nil {
		taken, err := s.accounts.UsernameExists(ctx, *update.Username, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, apperrors.NewValidationError("username already taken")
		}
	}

	update.Location = nil
	if update.HasAddress() {
		pos, err := s.geocode(ctx, update.Address())
		if err != nil {
			return nil, err
		}
		update.Location = pos
	}

	if err := s.accounts.Update(ctx, id, update); err != nil {
		return nil, err
	}

	return s.GetAccount(ctx, id)
}

// Geocode resolves an address to a position
func (s *AccountService) Geocode(ctx context.Context, address string) (*entities.Position, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, apperrors.NewValidationError("address is required")
	}
	return s.geocode(ctx, address)
}

func (s *AccountService) geocode(ctx context.Context, address string) (*entities.Position, error) {
	coords, err := s.geocoder.Geocode(ctx, address)
	if errors.Is(err, providers.ErrNoGeocodeResults) {
		return nil, apperrors.NewValidationError("address invalid")
	}
	if err != nil {
		return nil, apperrors.NewExternalError("failed to geocode address", err)
	}
	return &entities.Position{Latitude: coords.Latitude, Longitude: coords.Longitude}, nil
}
