package handlers

import (
	"context"
	"net/http"

	"github.com/zatekoja/localdeals/internal/api/auth"
	"github.com/zatekoja/localdeals/internal/domain/entities"
)

// AccountService defines the account operations used by AccountHandler
type AccountService interface {
	Register(ctx context.Context, reg *entities.Registration) (*entities.Account, error)
	Authenticate(ctx context.Context, creds *entities.Credentials) (*entities.Account, error)
	GetAccount(ctx context.Context, id string) (*entities.Account, error)
	UpdateAccount(ctx context.Context, id string, update *entities.AccountUpdate) (*entities.Account, error)
}

// AccountHandler handles accounts and sessions
type AccountHandler struct {
	service AccountService
	tokens  *auth.TokenManager
	cookies auth.CookieSettings
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(service AccountService, tokens *auth.TokenManager, cookies auth.CookieSettings) *AccountHandler {
	return &AccountHandler{
		service: service,
		tokens:  tokens,
		cookies: cookies,
	}
}

// GetAccount handles GET /api/accounts
func (h *AccountHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	account, err := h.service.GetAccount(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, account)
}

// Register handles POST /api/accounts
func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	var reg entities.Registration
	if err := decodeJSON(r, &reg); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	account, err := h.service.Register(r.Context(), &reg)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	if err := h.startSession(w, account); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, account)
}

// UpdateAccount handles PUT /api/accounts
func (h *AccountHandler) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	var update entities.AccountUpdate
	if err := decodeJSON(r, &update); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	account, err := h.service.UpdateAccount(r.Context(), auth.UserID(r.Context()), &update)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, account)
}

// Login handles POST /api/sessions
func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	var creds entities.Credentials
	if err := decodeJSON(r, &creds); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	account, err := h.service.Authenticate(r.Context(), &creds)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	if err := h.startSession(w, account); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, account)
}

// Logout handles DELETE /api/sessions
func (h *AccountHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.cookies.ClearCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

func (h *AccountHandler) startSession(w http.ResponseWriter, account *entities.Account) error {
	token, err := h.tokens.Issue(account.ID, account.Dealer)
	if err != nil {
		return err
	}
	h.cookies.SetCookie(w, token, h.tokens.TTL())
	return nil
}
