package repositories

import (
	"context"

	"github.com/zatekoja/localdeals/internal/domain/entities"
)

// DealRepository defines the interface for deal data operations
type DealRepository interface {
	// GetByID retrieves a deal by ID
	GetByID(ctx context.Context, id string) (*entities.Deal, error)

	// Upsert inserts the deal or updates it when it belongs to the same dealer
	// and returns its ID
	Upsert(ctx context.Context, deal *entities.Deal) (string, error)

	// Delete removes a deal owned by dealerID
	Delete(ctx context.Context, id, dealerID string) error

	// List retrieves deals from the deals table
	List(ctx context.Context, filter DealListFilter) ([]*entities.Deal, error)

	// GetActiveByID retrieves an active deal from the active deals view
	GetActiveByID(ctx context.Context, id string) (*entities.ActiveDeal, error)

	// ListActiveByDealers retrieves the active deals of the given dealers
	ListActiveByDealers(ctx context.Context, dealerIDs []string) ([]*entities.ActiveDeal, error)

	// ListActiveByIDs retrieves active deals by ID
	ListActiveByIDs(ctx context.Context, ids []string) ([]*entities.ActiveDeal, error)

	// ListActiveWithin runs the geospatial search for active deals
	ListActiveWithin(ctx context.Context, query entities.DealQuery) ([]*entities.ActiveDeal, error)
}

// DealListFilter restricts List. Empty fields do not filter.
type DealListFilter struct {
	DealerID string
	Template *bool
	Limit    int
}

// HotDealRepository defines the interface for hot deal markings
type HotDealRepository interface {
	// Exists reports whether the user marked the deal
	Exists(ctx context.Context, userID, dealID string) (bool, error)

	// Create marks the deal. Marking twice is a no-op.
	Create(ctx context.Context, userID, dealID string) error

	// Delete removes the marking of the user for the deal
	Delete(ctx context.Context, userID, dealID string) error

	// ListDealIDs retrieves the IDs of the deals a user marked
	ListDealIDs(ctx context.Context, userID string) ([]string, error)
}
