package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/zatekoja/localdeals/internal/api/auth"
	"github.com/zatekoja/localdeals/internal/application/services"
	"github.com/zatekoja/localdeals/internal/domain/entities"
)

// DealService defines the deal operations used by DealHandler
type DealService interface {
	GetDeal(ctx context.Context, id string) (*entities.Deal, error)
	UpsertDeal(ctx context.Context, dealerID string, deal *entities.Deal, saveTemplate bool) (*services.UpsertResult, error)
	DeleteDeal(ctx context.Context, dealerID, id string) error
	ActiveDealerDeals(ctx context.Context, dealerID, userID string) ([]*entities.ActiveDeal, error)
	DealerDeals(ctx context.Context, dealerID string, templates bool) ([]*entities.Deal, error)
	DealsByState(ctx context.Context, dealerID string) (entities.SortedDeals, error)
	DealsByFilter(ctx context.Context, userID string, filter entities.DealFilter) ([]*entities.ActiveDeal, error)
	TopDeals(ctx context.Context, userID string, filter entities.DealFilter) ([]*entities.ActiveDeal, error)
	ToggleHotDeal(ctx context.Context, userID, dealID string) (*entities.HotDealToggle, error)
	HotDeals(ctx context.Context, userID string) ([]*entities.ActiveDeal, error)
}

// DealHandler handles deal-related HTTP requests
type DealHandler struct {
	service DealService
}

// NewDealHandler creates a new deal handler
func NewDealHandler(service DealService) *DealHandler {
	return &DealHandler{service: service}
}

// ListDeals handles GET /api/deals. Dealers get their active deals, with
// ?all=true every non-template deal and with ?templates=true their templates.
func (h *DealHandler) ListDeals(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	dealerID := auth.UserID(ctx)
	query := r.URL.Query()

	if all, _ := strconv.ParseBool(query.Get("all")); all {
		deals, err := h.service.DealerDeals(ctx, dealerID, false)
		if err != nil {
			respondWithAppError(w, r, err)
			return
		}
		respondWithJSON(w, http.StatusOK, deals)
		return
	}

	if templates, _ := strconv.ParseBool(query.Get("templates")); templates {
		deals, err := h.service.DealerDeals(ctx, dealerID, true)
		if err != nil {
			respondWithAppError(w, r, err)
			return
		}
		respondWithJSON(w, http.StatusOK, deals)
		return
	}

	deals, err := h.service.ActiveDealerDeals(ctx, dealerID, dealerID)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, deals)
}

// UpsertDeal handles POST /api/deals
func (h *DealHandler) UpsertDeal(w http.ResponseWriter, r *http.Request) {
	var deal entities.Deal
	if err := decodeJSON(r, &deal); err != nil {
		respondWithAppError(w, r, err)
		return
	}
	saveTemplate, _ := strconv.ParseBool(r.URL.Query().Get("template"))

	result, err := h.service.UpsertDeal(r.Context(), auth.UserID(r.Context()), &deal, saveTemplate)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}

// GetDeal handles GET /api/deals/{id}
func (h *DealHandler) GetDeal(w http.ResponseWriter, r *http.Request) {
	deal, err := h.service.GetDeal(r.Context(), r.PathValue("id"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, deal)
}

// DeleteDeal handles DELETE /api/deals/{id}
func (h *DealHandler) DeleteDeal(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteDeal(r.Context(), auth.UserID(r.Context()), r.PathValue("id")); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// TopDeals handles POST /api/deals/top
func (h *DealHandler) TopDeals(w http.ResponseWriter, r *http.Request) {
	var filter entities.DealFilter
	if err := decodeJSON(r, &filter); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	deals, err := h.service.TopDeals(r.Context(), auth.UserID(r.Context()), filter)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, deals)
}

// SearchDeals handles POST /api/deals/search
func (h *DealHandler) SearchDeals(w http.ResponseWriter, r *http.Request) {
	var filter entities.DealFilter
	if err := decodeJSON(r, &filter); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	deals, err := h.service.DealsByFilter(r.Context(), auth.UserID(r.Context()), filter)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, deals)
}

// HotDeals handles GET /api/deals/hot
func (h *DealHandler) HotDeals(w http.ResponseWriter, r *http.Request) {
	deals, err := h.service.HotDeals(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, deals)
}

// ToggleHotDeal handles POST /api/deals/{id}/hot
func (h *DealHandler) ToggleHotDeal(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.ToggleHotDeal(r.Context(), auth.UserID(r.Context()), r.PathValue("id"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}

// DealerDealsByState handles GET /api/dealers/{id}/deals
func (h *DealHandler) DealerDealsByState(w http.ResponseWriter, r *http.Request) {
	sorted, err := h.service.DealsByState(r.Context(), r.PathValue("id"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, sorted)
}
