package services

import (
	"context"

	"github.com/zatekoja/localdeals/internal/domain/entities"
	"github.com/zatekoja/localdeals/internal/domain/repositories"
)

// CategoryService lists deal categories
type CategoryService struct {
	repo repositories.CategoryRepository
}

// NewCategoryService creates a new category service
func NewCategoryService(repo repositories.CategoryRepository) *CategoryService {
	return &CategoryService{repo: repo}
}

// List retrieves all categories
func (s *CategoryService) List(ctx context.Context) ([]*entities.Category, error) {
	categories, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if categories == nil {
		categories = []*entities.Category{}
	}
	return categories, nil
}
