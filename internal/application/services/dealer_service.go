package services

import (
	"context"

	"github.com/zatekoja/localdeals/internal/domain/entities"
	"github.com/zatekoja/localdeals/internal/domain/providers"
	"github.com/zatekoja/localdeals/internal/domain/repositories"
	"github.com/zatekoja/localdeals/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/localdeals/pkg/errors"
	"github.com/zatekoja/localdeals/pkg/validator"
	"golang.org/x/sync/errgroup"
)

const dealerPageReads = 5

// DealerService builds dealer pages and handles ratings
type DealerService struct {
	accounts  repositories.AccountRepository
	ratings   repositories.RatingRepository
	deals     *DealService
	storage   providers.ImageStorage
	validator *validator.Validator
}

// NewDealerService creates a new dealer service
func NewDealerService(
	accounts repositories.AccountRepository,
	ratings repositories.RatingRepository,
	deals *DealService,
	storage providers.ImageStorage,
	v *validator.Validator,
) *DealerService {
	if v == nil {
		v = validator.New()
	}
	return &DealerService{
		accounts:  accounts,
		ratings:   ratings,
		deals:     deals,
		storage:   storage,
		validator: v,
	}
}

// GetDealerPage loads the dealer's account, active deals, pictures, profile
// image and rating summary concurrently. Only a missing dealer fails the
// page; every other read falls back to an empty value.
func (s *DealerService) GetDealerPage(ctx context.Context, dealerID, userID string) (*entities.DealerPage, error) {
	if err := checkID(dealerID, "dealer"); err != nil {
		return nil, err
	}
	logger := observability.LoggerFromContext(ctx).With().Str("dealer_id", dealerID).Logger()

	page := &entities.DealerPage{
		Deals:    []*entities.ActiveDeal{},
		Pictures: []string{},
		Ratings:  &entities.RatingSummary{DealerID: dealerID},
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(dealerPageReads)

	g.Go(func() error {
		account, err := s.accounts.GetByID(gctx, dealerID)
		if err != nil {
			return err
		}
		if !account.Dealer {
			return apperrors.NewNotFoundError("dealer not found")
		}
		page.Dealer = entities.NewPublicDealer(account)
		return nil
	})

	g.Go(func() error {
		deals, err := s.deals.ActiveDealerDeals(gctx, dealerID, userID)
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to load dealer deals")
			return nil
		}
		page.Deals = deals
		return nil
	})

	g.Go(func() error {
		if s.storage == nil {
			return nil
		}
		urls, err := s.storage.DealerImageURLs(gctx, dealerID)
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to load dealer pictures")
			return nil
		}
		if urls != nil {
			page.Pictures = urls
		}
		return nil
	})

	g.Go(func() error {
		if s.storage == nil {
			return nil
		}
		url, err := s.storage.ProfileImageURL(gctx, dealerID, true)
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to load dealer profile image")
			return nil
		}
		page.ProfileImageURL = url
		return nil
	})

	g.Go(func() error {
		summary, err := s.ratings.Summary(gctx, dealerID)
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to load dealer ratings")
			return nil
		}
		page.Ratings = summary
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	page.Dealer.ProfileImageURL = page.ProfileImageURL
	return page, nil
}

// Rate stores the rating of userID for a dealer
func (s *DealerService) Rate(ctx context.Context, userID string, rating *entities.Rating) error {
	if err := s.validator.ValidateStruct(rating); err != nil {
		return err
	}
	if err := checkID(rating.DealerID, "dealer"); err != nil {
		return err
	}
	if rating.DealerID == userID {
		return apperrors.NewValidationError("dealers cannot rate themselves")
	}

	dealer, err := s.accounts.GetByID(ctx, rating.DealerID)
	if err != nil {
		return err
	}
	if !dealer.Dealer {
		return apperrors.NewValidationError("only dealers can be rated")
	}

	rating.UserID = userID
	return s.ratings.Upsert(ctx, rating)
}

// ListRatings lists the ratings of a dealer
func (s *DealerService) ListRatings(ctx context.Context, dealerID string) ([]*entities.Rating, error) {
	if err := checkID(dealerID, "dealer"); err != nil {
		return nil, err
	}
	ratings, err := s.ratings.ListByDealer(ctx, dealerID)
	if err != nil {
		return nil, err
	}
	if ratings == nil {
		ratings = []*entities.Rating{}
	}
	return ratings, nil
}
