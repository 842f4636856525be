package repositories

import (
	"context"

	"github.com/zatekoja/localdeals/internal/domain/entities"
)

// AccountRepository defines the interface for account data operations
type AccountRepository interface {
	// Create creates a new account
	Create(ctx context.Context, account *entities.Account) error

	// GetByID retrieves an account by ID
	GetByID(ctx context.Context, id string) (*entities.Account, error)

	// GetByEmail retrieves an account by email
	GetByEmail(ctx context.Context, email string) (*entities.Account, error)

	// UsernameExists reports whether another account than excludeID uses username
	UsernameExists(ctx context.Context, username, excludeID string) (bool, error)

	// Update applies the non-nil fields of update
	Update(ctx context.Context, id string, update *entities.AccountUpdate) error
}

// CategoryRepository defines the interface for deal categories
type CategoryRepository interface {
	List(ctx context.Context) ([]*entities.Category, error)
}

// RatingRepository defines the interface for dealer ratings
type RatingRepository interface {
	// Upsert stores the rating, replacing an earlier one by the same user
	Upsert(ctx context.Context, rating *entities.Rating) error

	// ListByDealer retrieves the ratings of a dealer, newest first
	ListByDealer(ctx context.Context, dealerID string) ([]*entities.Rating, error)

	// Summary aggregates the ratings of a dealer
	Summary(ctx context.Context, dealerID string) (*entities.RatingSummary, error)
}
