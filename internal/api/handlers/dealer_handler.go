package handlers

import (
	"context"
	"net/http"

	"github.com/zatekoja/localdeals/internal/api/auth"
	"github.com/zatekoja/localdeals/internal/domain/entities"
)

// DealerService defines the dealer operations used by DealerHandler
type DealerService interface {
	GetDealerPage(ctx context.Context, dealerID, userID string) (*entities.DealerPage, error)
	Rate(ctx context.Context, userID string, rating *entities.Rating) error
	ListRatings(ctx context.Context, dealerID string) ([]*entities.Rating, error)
}

// DealerHandler handles dealer pages and ratings
type DealerHandler struct {
	service DealerService
}

// NewDealerHandler creates a new dealer handler
func NewDealerHandler(service DealerService) *DealerHandler {
	return &DealerHandler{service: service}
}

// GetDealerPage handles GET /api/dealers/{id}
func (h *DealerHandler) GetDealerPage(w http.ResponseWriter, r *http.Request) {
	page, err := h.service.GetDealerPage(r.Context(), r.PathValue("id"), auth.UserID(r.Context()))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, page)
}

// ListRatings handles GET /api/dealers/{id}/ratings
func (h *DealerHandler) ListRatings(w http.ResponseWriter, r *http.Request) {
	ratings, err := h.service.ListRatings(r.Context(), r.PathValue("id"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, ratings)
}

// Rate handles POST /api/dealers/{id}/ratings
func (h *DealerHandler) Rate(w http.ResponseWriter, r *http.Request) {
	var rating entities.Rating
	if err := decodeJSON(r, &rating); err != nil {
		respondWithAppError(w, r, err)
		return
	}
	rating.DealerID = r.PathValue("id")

	if err := h.service.Rate(r.Context(), auth.UserID(r.Context()), &rating); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, rating)
}
