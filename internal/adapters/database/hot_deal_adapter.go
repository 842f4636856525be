package database

import (
	"context"

	"github.com/doug-martin/goqu/v9"
	"github.com/zatekoja/localdeals/internal/domain/repositories"
	"github.com/zatekoja/localdeals/internal/infrastructure/clients/postgres"
	apperrors "github.com/zatekoja/localdeals/pkg/errors"
)

const hotDealsTable = "hot_deals"

// HotDealAdapter implements HotDealRepository. The table carries
// UNIQUE (user_id, deal_id), so concurrent marks collapse into one row.
type HotDealAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewHotDealAdapter creates a new hot deal adapter
func NewHotDealAdapter(client *postgres.Client) repositories.HotDealRepository {
	return &HotDealAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Exists reports whether the user marked the deal
func (a *HotDealAdapter) Exists(ctx context.Context, userID, dealID string) (bool, error) {
	query, args, err := a.db.Select(goqu.L("1")).
		From(hotDealsTable).
		Where(goqu.Ex{"user_id": userID, "deal_id": dealID}).
		Limit(1).
		ToSQL()
	if err != nil {
		return false, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if isInvalidText(err) {
		return false, apperrors.NewNotFoundError("deal not found")
	}
	if err != nil {
		return false, apperrors.NewInternalError("failed to look up hot deal", err)
	}
	defer rows.Close()

	exists := rows.Next()
	if err := rows.Err(); err != nil {
		return false, apperrors.NewInternalError("failed to look up hot deal", err)
	}
	return exists, nil
}

// Create marks the deal for the user
func (a *HotDealAdapter) Create(ctx context.Context, userID, dealID string) error {
	query, args, err := a.db.Insert(hotDealsTable).
		Rows(goqu.Record{"user_id": userID, "deal_id": dealID}).
		OnConflict(goqu.DoNothing()).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		if isForeignKeyViolation(err) || isInvalidText(err) {
			return apperrors.NewNotFoundError("deal not found")
		}
		return apperrors.NewInternalError("failed to mark hot deal", err)
	}
	return nil
}

// Delete removes the marking of the user for the deal
func (a *HotDealAdapter) Delete(ctx context.Context, userID, dealID string) error {
	query, args, err := a.db.Delete(hotDealsTable).
		Where(goqu.Ex{"user_id": userID, "deal_id": dealID}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build delete query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to unmark hot deal", err)
	}
	return nil
}

// ListDealIDs retrieves the IDs of the deals a user marked, oldest first
func (a *HotDealAdapter) ListDealIDs(ctx context.Context, userID string) ([]string, error) {
	query, args, err := a.db.Select("deal_id").
		From(hotDealsTable).
		Where(goqu.Ex{"user_id": userID}).
		Order(goqu.I("created_at").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list hot deals", err)
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, apperrors.NewInternalError("failed to scan hot deal", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to list hot deals", err)
	}

	return ids, nil
}
