package database_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/localdeals/internal/adapters/database"
	"github.com/zatekoja/localdeals/internal/domain/entities"
	"github.com/zatekoja/localdeals/internal/domain/providers"
	"github.com/zatekoja/localdeals/internal/mocks"
)

func TestCachedCategoryAdapter_MissLoadsAndStores(t *testing.T) {
	client, sqlMock := setupMockDB(t)
	cache := mocks.NewMockCacheProvider(t)
	adapter := database.NewCachedCategoryAdapter(database.NewCategoryAdapter(client), cache)

	cache.On("Get", mock.Anything, providers.CategoriesKey).Return(nil, providers.ErrCacheMiss)
	cache.On("Set", mock.Anything, providers.CategoriesKey, mock.Anything, time.Hour).Return(nil)
	sqlMock.ExpectQuery(`SELECT "id", "name", "color" FROM "categories" ORDER BY "id" ASC`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "color"}).
			AddRow(1, "Food", "#ff0000").
			AddRow(2, "Fashion", "#00ff00"))

	categories, err := adapter.List(context.Background())

	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, "Fashion", categories[1].Name)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestCachedCategoryAdapter_Hit(t *testing.T) {
	client, sqlMock := setupMockDB(t)
	cache := mocks.NewMockCacheProvider(t)
	adapter := database.NewCachedCategoryAdapter(database.NewCategoryAdapter(client), cache)

	data, _ := json.Marshal([]*entities.Category{{ID: 1, Name: "Food"}})
	cache.On("Get", mock.Anything, providers.CategoriesKey).Return(data, nil)

	categories, err := adapter.List(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "Food", categories[0].Name)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}
