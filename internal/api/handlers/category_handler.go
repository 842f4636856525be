package handlers

import (
	"context"
	"net/http"

	"github.com/zatekoja/localdeals/internal/domain/entities"
)

// CategoryService lists deal categories
type CategoryService interface {
	List(ctx context.Context) ([]*entities.Category, error)
}

// CategoryHandler handles category requests
type CategoryHandler struct {
	service CategoryService
}

// NewCategoryHandler creates a new category handler
func NewCategoryHandler(service CategoryService) *CategoryHandler {
	return &CategoryHandler{service: service}
}

// ListCategories handles GET /api/categories
func (h *CategoryHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.List(r.Context())
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, categories)
}
