package database

import (
	"context"

	"github.com/doug-martin/goqu/v9"
	"github.com/zatekoja/localdeals/internal/domain/entities"
	"github.com/zatekoja/localdeals/internal/domain/repositories"
	"github.com/zatekoja/localdeals/internal/infrastructure/clients/postgres"
	apperrors "github.com/zatekoja/localdeals/pkg/errors"
)

// CategoryAdapter implements the CategoryRepository interface
type CategoryAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewCategoryAdapter creates a new category adapter
func NewCategoryAdapter(client *postgres.Client) repositories.CategoryRepository {
	return &CategoryAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// List retrieves all categories ordered by ID
func (a *CategoryAdapter) List(ctx context.Context) ([]*entities.Category, error) {
	query, args, err := a.db.Select("id", "name", "color").
		From("categories").
		Order(goqu.I("id").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list categories", err)
	}
	defer rows.Close()

	categories := make([]*entities.Category, 0)
	for rows.Next() {
		c := &entities.Category{}
		if err := rows.Scan(&c.ID, &c.Name, &c.Color); err != nil {
			return nil, apperrors.NewInternalError("failed to scan category", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to list categories", err)
	}

	return categories, nil
}
