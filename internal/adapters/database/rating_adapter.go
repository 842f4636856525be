package database

import (
	"context"
	"database/sql"

	"github.com/doug-martin/goqu/v9"
	"github.com/zatekoja/localdeals/internal/domain/entities"
	"github.com/zatekoja/localdeals/internal/domain/repositories"
	"github.com/zatekoja/localdeals/internal/infrastructure/clients/postgres"
	apperrors "github.com/zatekoja/localdeals/pkg/errors"
)

const (
	ratingsTable = "dealer_ratings"
	ratingsView  = "dealer_ratings_view"
)

// RatingAdapter implements the RatingRepository interface
type RatingAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewRatingAdapter creates a new rating adapter
func NewRatingAdapter(client *postgres.Client) repositories.RatingRepository {
	return &RatingAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Upsert stores the rating, replacing an earlier one by the same user
func (a *RatingAdapter) Upsert(ctx context.Context, rating *entities.Rating) error {
	record := goqu.Record{
		"user_id":    rating.UserID,
		"dealer_id":  rating.DealerID,
		"stars":      rating.Stars,
		"text":       nullString(rating.Text),
		"created_at": rating.CreatedAt,
	}

	query, args, err := a.db.Insert(ratingsTable).
		Rows(record).
		OnConflict(goqu.DoUpdate("user_id, dealer_id", goqu.Record{
			"stars":      rating.Stars,
			"text":       nullString(rating.Text),
			"created_at": rating.CreatedAt,
		})).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build upsert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		if isForeignKeyViolation(err) {
			return apperrors.NewNotFoundError("dealer not found")
		}
		return apperrors.NewInternalError("failed to store rating", err)
	}
	return nil
}

// ListByDealer retrieves the ratings of a dealer, newest first
func (a *RatingAdapter) ListByDealer(ctx context.Context, dealerID string) ([]*entities.Rating, error) {
	query, args, err := a.db.Select("user_id", "dealer_id", "stars", "text", "username", "created_at").
		From(ratingsView).
		Where(goqu.Ex{"dealer_id": dealerID}).
		Order(goqu.I("created_at").Desc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list ratings", err)
	}
	defer rows.Close()

	ratings := make([]*entities.Rating, 0)
	for rows.Next() {
		r := &entities.Rating{}
		var text, username sql.NullString
		if err := rows.Scan(&r.UserID, &r.DealerID, &r.Stars, &text, &username, &r.CreatedAt); err != nil {
			return nil, apperrors.NewInternalError("failed to scan rating", err)
		}
		r.Text = text.String
		r.Username = username.String
		ratings = append(ratings, r)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to list ratings", err)
	}

	return ratings, nil
}

// Summary aggregates the ratings of a dealer
func (a *RatingAdapter) Summary(ctx context.Context, dealerID string) (*entities.RatingSummary, error) {
	query, args, err := a.db.Select(
		goqu.COALESCE(goqu.AVG("stars"), 0).As("average"),
		goqu.COUNT("*").As("count"),
	).From(ratingsTable).
		Where(goqu.Ex{"dealer_id": dealerID}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	summary := &entities.RatingSummary{DealerID: dealerID}
	if err := a.client.DB().QueryRowContext(ctx, query, args...).Scan(&summary.Average, &summary.Count); err != nil {
		return nil, apperrors.NewInternalError("failed to summarise ratings", err)
	}
	return summary, nil
}
