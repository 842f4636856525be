package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/zatekoja/localdeals/internal/domain/providers"
)

// MockCacheProvider is a mock of providers.CacheProvider
type MockCacheProvider struct {
	mock.Mock
}

var _ providers.CacheProvider = (*MockCacheProvider)(nil)

// NewMockCacheProvider creates a mock that asserts its expectations on cleanup
func NewMockCacheProvider(t testingT) *MockCacheProvider {
	m := &MockCacheProvider{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockCacheProvider) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	value, _ := args.Get(0).([]byte)
	return value, args.Error(1)
}

func (m *MockCacheProvider) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return m.Called(ctx, key, value, ttl).Error(0)
}

func (m *MockCacheProvider) Delete(ctx context.Context, keys ...string) error {
	return m.Called(ctx, keys).Error(0)
}

func (m *MockCacheProvider) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

// MockGeolocationProvider is a mock of providers.GeolocationProvider
type MockGeolocationProvider struct {
	mock.Mock
}

var _ providers.GeolocationProvider = (*MockGeolocationProvider)(nil)

// NewMockGeolocationProvider creates a mock that asserts its expectations on cleanup
func NewMockGeolocationProvider(t testingT) *MockGeolocationProvider {
	m := &MockGeolocationProvider{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockGeolocationProvider) Geocode(ctx context.Context, address string) (*providers.Coordinates, error) {
	args := m.Called(ctx, address)
	coords, _ := args.Get(0).(*providers.Coordinates)
	return coords, args.Error(1)
}

func (m *MockGeolocationProvider) ReverseGeocode(ctx context.Context, lat, lon float64) (*providers.GeocodedAddress, error) {
	args := m.Called(ctx, lat, lon)
	address, _ := args.Get(0).(*providers.GeocodedAddress)
	return address, args.Error(1)
}

// MockImageStorage is a mock of providers.ImageStorage
type MockImageStorage struct {
	mock.Mock
}

var _ providers.ImageStorage = (*MockImageStorage)(nil)

// NewMockImageStorage creates a mock that asserts its expectations on cleanup
func NewMockImageStorage(t testingT) *MockImageStorage {
	m := &MockImageStorage{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockImageStorage) DealImageURLs(ctx context.Context, dealerID, dealID string) ([]string, error) {
	args := m.Called(ctx, dealerID, dealID)
	urls, _ := args.Get(0).([]string)
	return urls, args.Error(1)
}

func (m *MockImageStorage) DealerImageURLs(ctx context.Context, dealerID string) ([]string, error) {
	args := m.Called(ctx, dealerID)
	urls, _ := args.Get(0).([]string)
	return urls, args.Error(1)
}

func (m *MockImageStorage) ProfileImageURL(ctx context.Context, accountID string, dealer bool) (string, error) {
	args := m.Called(ctx, accountID, dealer)
	return args.String(0), args.Error(1)
}
