// Package mocks provides testify mocks of the domain interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/zatekoja/localdeals/internal/domain/entities"
	"github.com/zatekoja/localdeals/internal/domain/repositories"
)

type testingT interface {
	mock.TestingT
	Cleanup(func())
}

// MockDealRepository is a mock of repositories.DealRepository
type MockDealRepository struct {
	mock.Mock
}

var _ repositories.DealRepository = (*MockDealRepository)(nil)

// NewMockDealRepository creates a mock that asserts its expectations on cleanup
func NewMockDealRepository(t testingT) *MockDealRepository {
	m := &MockDealRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockDealRepository) GetByID(ctx context.Context, id string) (*entities.Deal, error) {
	args := m.Called(ctx, id)
	deal, _ := args.Get(0).(*entities.Deal)
	return deal, args.Error(1)
}

func (m *MockDealRepository) Upsert(ctx context.Context, deal *entities.Deal) (string, error) {
	args := m.Called(ctx, deal)
	return args.String(0), args.Error(1)
}

func (m *MockDealRepository) Delete(ctx context.Context, id, dealerID string) error {
	return m.Called(ctx, id, dealerID).Error(0)
}

func (m *MockDealRepository) List(ctx context.Context, filter repositories.DealListFilter) ([]*entities.Deal, error) {
	args := m.Called(ctx, filter)
	deals, _ := args.Get(0).([]*entities.Deal)
	return deals, args.Error(1)
}

func (m *MockDealRepository) GetActiveByID(ctx context.Context, id string) (*entities.ActiveDeal, error) {
	args := m.Called(ctx, id)
	deal, _ := args.Get(0).(*entities.ActiveDeal)
	return deal, args.Error(1)
}

func (m *MockDealRepository) ListActiveByDealers(ctx context.Context, dealerIDs []string) ([]*entities.ActiveDeal, error) {
	args := m.Called(ctx, dealerIDs)
	deals, _ := args.Get(0).([]*entities.ActiveDeal)
	return deals, args.Error(1)
}

func (m *MockDealRepository) ListActiveByIDs(ctx context.Context, ids []string) ([]*entities.ActiveDeal, error) {
	args := m.Called(ctx, ids)
	deals, _ := args.Get(0).([]*entities.ActiveDeal)
	return deals, args.Error(1)
}

func (m *MockDealRepository) ListActiveWithin(ctx context.Context, query entities.DealQuery) ([]*entities.ActiveDeal, error) {
	args := m.Called(ctx, query)
	deals, _ := args.Get(0).([]*entities.ActiveDeal)
	return deals, args.Error(1)
}

// MockHotDealRepository is a mock of repositories.HotDealRepository
type MockHotDealRepository struct {
	mock.Mock
}

var _ repositories.HotDealRepository = (*MockHotDealRepository)(nil)

// NewMockHotDealRepository creates a mock that asserts its expectations on cleanup
func NewMockHotDealRepository(t testingT) *MockHotDealRepository {
	m := &MockHotDealRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockHotDealRepository) Exists(ctx context.Context, userID, dealID string) (bool, error) {
	args := m.Called(ctx, userID, dealID)
	return args.Bool(0), args.Error(1)
}

func (m *MockHotDealRepository) Create(ctx context.Context, userID, dealID string) error {
	return m.Called(ctx, userID, dealID).Error(0)
}

func (m *MockHotDealRepository) Delete(ctx context.Context, userID, dealID string) error {
	return m.Called(ctx, userID, dealID).Error(0)
}

func (m *MockHotDealRepository) ListDealIDs(ctx context.Context, userID string) ([]string, error) {
	args := m.Called(ctx, userID)
	ids, _ := args.Get(0).([]string)
	return ids, args.Error(1)
}

// MockAccountRepository is a mock of repositories.AccountRepository
type MockAccountRepository struct {
	mock.Mock
}

var _ repositories.AccountRepository = (*MockAccountRepository)(nil)

// NewMockAccountRepository creates a mock that asserts its expectations on cleanup
func NewMockAccountRepository(t testingT) *MockAccountRepository {
	m := &MockAccountRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockAccountRepository) Create(ctx context.Context, account *entities.Account) error {
	return m.Called(ctx, account).Error(0)
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id string) (*entities.Account, error) {
	args := m.Called(ctx, id)
	account, _ := args.Get(0).(*entities.Account)
	return account, args.Error(1)
}

func (m *MockAccountRepository) GetByEmail(ctx context.Context, email string) (*entities.Account, error) {
	args := m.Called(ctx, email)
	account, _ := args.Get(0).(*entities.Account)
	return account, args.Error(1)
}

func (m *MockAccountRepository) UsernameExists(ctx context.Context, username, excludeID string) (bool, error) {
	args := m.Called(ctx, username, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccountRepository) Update(ctx context.Context, id string, update *entities.AccountUpdate) error {
	return m.Called(ctx, id, update).Error(0)
}

// MockCategoryRepository is a mock of repositories.CategoryRepository
type MockCategoryRepository struct {
	mock.Mock
}

var _ repositories.CategoryRepository = (*MockCategoryRepository)(nil)

// NewMockCategoryRepository creates a mock that asserts its expectations on cleanup
func NewMockCategoryRepository(t testingT) *MockCategoryRepository {
	m := &MockCategoryRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockCategoryRepository) List(ctx context.Context) ([]*entities.Category, error) {
	args := m.Called(ctx)
	categories, _ := args.Get(0).([]*entities.Category)
	return categories, args.Error(1)
}

// MockRatingRepository is a mock of repositories.RatingRepository
type MockRatingRepository struct {
	mock.Mock
}

var _ repositories.RatingRepository = (*MockRatingRepository)(nil)

// NewMockRatingRepository creates a mock that asserts its expectations on cleanup
func NewMockRatingRepository(t testingT) *MockRatingRepository {
	m := &MockRatingRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockRatingRepository) Upsert(ctx context.Context, rating *entities.Rating) error {
	return m.Called(ctx, rating).Error(0)
}

func (m *MockRatingRepository) ListByDealer(ctx context.Context, dealerID string) ([]*entities.Rating, error) {
	args := m.Called(ctx, dealerID)
	ratings, _ := args.Get(0).([]*entities.Rating)
	return ratings, args.Error(1)
}

func (m *MockRatingRepository) Summary(ctx context.Context, dealerID string) (*entities.RatingSummary, error) {
	args := m.Called(ctx, dealerID)
	summary, _ := args.Get(0).(*entities.RatingSummary)
	return summary, args.Error(1)
}
