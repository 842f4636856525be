package database

import (
	"context"
	"encoding/json"
	"time"

	"github.com/zatekoja/localdeals/internal/domain/entities"
	"github.com/zatekoja/localdeals/internal/domain/providers"
	"github.com/zatekoja/localdeals/internal/domain/repositories"
	"github.com/zatekoja/localdeals/internal/infrastructure/observability"
)

const categoriesTTL = time.Hour

// CachedCategoryAdapter wraps a CategoryRepository with the shared cache
type CachedCategoryAdapter struct {
	adapter repositories.CategoryRepository
	cache   providers.CacheProvider
}

// NewCachedCategoryAdapter creates a new cached category adapter
func NewCachedCategoryAdapter(adapter repositories.CategoryRepository, cache providers.CacheProvider) repositories.CategoryRepository {
	return &CachedCategoryAdapter{
		adapter: adapter,
		cache:   cache,
	}
}

// List returns the cached categories, loading them on a miss
func (a *CachedCategoryAdapter) List(ctx context.Context) ([]*entities.Category, error) {
	logger := observability.LoggerFromContext(ctx)

	if cached, err := a.cache.Get(ctx, providers.CategoriesKey); err == nil {
		var categories []*entities.Category
		if err := json.Unmarshal(cached, &categories); err == nil {
			return categories, nil
		}
		logger.Warn().Err(err).Msg("discarding unreadable cached categories")
	}

	categories, err := a.adapter.List(ctx)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(categories); err == nil {
		if err := a.cache.Set(ctx, providers.CategoriesKey, data, categoriesTTL); err != nil {
			logger.Warn().Err(err).Msg("failed to cache categories")
		}
	}

	return categories, nil
}
