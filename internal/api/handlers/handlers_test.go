package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/localdeals/internal/api/auth"
	"github.com/zatekoja/localdeals/internal/api/handlers"
	"github.com/zatekoja/localdeals/internal/application/services"
	"github.com/zatekoja/localdeals/internal/domain/entities"
	"github.com/zatekoja/localdeals/internal/domain/providers"
	"github.com/zatekoja/localdeals/internal/mocks"
	apperrors "github.com/zatekoja/localdeals/pkg/errors"
)

type stubAccountService struct {
	registered *entities.Registration
	err        error
}

func (s *stubAccountService) Register(ctx context.Context, reg *entities.Registration) (*entities.Account, error) {
	s.registered = reg
	if s.err != nil {
		return nil, s.err
	}
	return &entities.Account{ID: "acc-1", Email: reg.Email, Dealer: reg.Dealer, PasswordHash: "hash"}, nil
}

func (s *stubAccountService) Authenticate(ctx context.Context, creds *entities.Credentials) (*entities.Account, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &entities.Account{ID: "acc-1", Email: creds.Email}, nil
}

func (s *stubAccountService) GetAccount(ctx context.Context, id string) (*entities.Account, error) {
	return &entities.Account{ID: id, PasswordHash: "hash"}, nil
}

func (s *stubAccountService) UpdateAccount(ctx context.Context, id string, update *entities.AccountUpdate) (*entities.Account, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &entities.Account{ID: id}, nil
}

func withUser(r *http.Request, userID string, dealer bool) *http.Request {
	return r.WithContext(auth.WithIdentity(r.Context(), &auth.Identity{UserID: userID, Dealer: dealer}))
}

func newAccountHandler(service handlers.AccountService) (*handlers.AccountHandler, *auth.TokenManager) {
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	return handlers.NewAccountHandler(service, tokens, auth.CookieSettings{Name: "jwt"}), tokens
}

func TestAccountHandler_Register_SetsCookie(t *testing.T) {
	service := &stubAccountService{}
	handler, tokens := newAccountHandler(service)

	body := `{"email":"anna@example.com","password":"secret123","username":"anna"}`
	req := httptest.NewRequest(http.MethodPost, "/api/accounts", strings.NewReader(body))
	w := httptest.NewRecorder()

	handler.Register(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "anna", service.registered.Username)
	assert.NotContains(t, w.Body.String(), "hash")

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	id, err := tokens.Parse(cookies[0].Value)
	require.NoError(t, err)
	assert.Equal(t, "acc-1", id.UserID)
}

func TestAccountHandler_Register_Errors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantBody string
	}{
		{name: "invalid address", err: apperrors.NewValidationError("address invalid"), wantCode: http.StatusBadRequest, wantBody: "address invalid"},
		{name: "email taken", err: apperrors.NewForbiddenError("email already registered"), wantCode: http.StatusForbidden},
		{name: "database down", err: apperrors.NewInternalError("failed to create account", assert.AnError), wantCode: http.StatusInternalServerError, wantBody: "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, _ := newAccountHandler(&stubAccountService{err: tt.err})
			req := httptest.NewRequest(http.MethodPost, "/api/accounts", strings.NewReader(`{}`))
			w := httptest.NewRecorder()

			handler.Register(w, req)

			assert.Equal(t, tt.wantCode, w.Code)
			if tt.wantBody == "" {
				assert.Empty(t, w.Body.String())
			} else {
				assert.Contains(t, w.Body.String(), tt.wantBody)
			}
			assert.Empty(t, w.Result().Cookies())
		})
	}
}

func TestAccountHandler_Register_MalformedBody(t *testing.T) {
	handler, _ := newAccountHandler(&stubAccountService{})
	req := httptest.NewRequest(http.MethodPost, "/api/accounts", strings.NewReader(`{"email":`))
	w := httptest.NewRecorder()

	handler.Register(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAccountHandler_Login(t *testing.T) {
	handler, _ := newAccountHandler(&stubAccountService{})
	req := httptest.NewRequest(http.MethodPost, "/api/sessions", strings.NewReader(`{"email":"anna@example.com","password":"secret123"}`))
	w := httptest.NewRecorder()

	handler.Login(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, w.Result().Cookies(), 1)

	handler, _ = newAccountHandler(&stubAccountService{err: apperrors.NewUnauthorizedError("invalid credentials")})
	w = httptest.NewRecorder()
	handler.Login(w, httptest.NewRequest(http.MethodPost, "/api/sessions", strings.NewReader(`{}`)))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestAccountHandler_Logout(t *testing.T) {
	handler, _ := newAccountHandler(&stubAccountService{})
	w := httptest.NewRecorder()

	handler.Logout(w, httptest.NewRequest(http.MethodDelete, "/api/sessions", nil))

	assert.Equal(t, http.StatusNoContent, w.Code)
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, -1, cookies[0].MaxAge)
}

func TestAccountHandler_UpdateAccount_UsernameTaken(t *testing.T) {
	handler, _ := newAccountHandler(&stubAccountService{err: apperrors.NewValidationError("username already taken")})
	req := withUser(httptest.NewRequest(http.MethodPut, "/api/accounts", strings.NewReader(`{"username":"luigi"}`)), "acc-1", false)
	w := httptest.NewRecorder()

	handler.UpdateAccount(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "username already taken")
}

type stubDealService struct {
	handlers.DealService
	filter       entities.DealFilter
	saveTemplate bool
	upserted     *entities.Deal
	err          error
}

func (s *stubDealService) DealsByFilter(ctx context.Context, userID string, filter entities.DealFilter) ([]*entities.ActiveDeal, error) {
	s.filter = filter
	return []*entities.ActiveDeal{{Deal: entities.Deal{ID: "d1"}, IsHot: true}}, nil
}

func (s *stubDealService) TopDeals(ctx context.Context, userID string, filter entities.DealFilter) ([]*entities.ActiveDeal, error) {
	s.filter = filter
	return []*entities.ActiveDeal{}, nil
}

func (s *stubDealService) UpsertDeal(ctx context.Context, dealerID string, deal *entities.Deal, saveTemplate bool) (*services.UpsertResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.upserted = deal
	s.saveTemplate = saveTemplate
	return &services.UpsertResult{ID: "d1", TemplateID: "t1"}, nil
}

func (s *stubDealService) DeleteDeal(ctx context.Context, dealerID, id string) error {
	return s.err
}

func (s *stubDealService) ToggleHotDeal(ctx context.Context, userID, dealID string) (*entities.HotDealToggle, error) {
	return &entities.HotDealToggle{Marked: true, Deal: &entities.ActiveDeal{Deal: entities.Deal{ID: dealID}, IsHot: true}}, nil
}

func (s *stubDealService) DealsByState(ctx context.Context, dealerID string) (entities.SortedDeals, error) {
	return entities.SortedDeals{Past: []*entities.Deal{}, Future: []*entities.Deal{}, Active: []*entities.Deal{{ID: "d1"}}}, nil
}

func TestDealHandler_SearchDeals_DecodesFilter(t *testing.T) {
	service := &stubDealService{}
	handler := handlers.NewDealHandler(service)

	body := `{"extent":[5,47,15,55],"categoryIds":[2],"order":{"column":"likes","ascending":false}}`
	req := withUser(httptest.NewRequest(http.MethodPost, "/api/deals/search", strings.NewReader(body)), "u1", false)
	w := httptest.NewRecorder()

	handler.SearchDeals(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, service.filter.Extent)
	assert.Equal(t, entities.Extent{5, 47, 15, 55}, *service.filter.Extent)
	assert.Equal(t, []int64{2}, service.filter.CategoryIDs)

	var deals []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &deals))
	require.Len(t, deals, 1)
	assert.Equal(t, true, deals[0]["isHot"])
}

func TestDealHandler_TopDeals_ShortLocation(t *testing.T) {
	service := &stubDealService{}
	handler := handlers.NewDealHandler(service)

	body := `{"location":{"lat":48.1,"lon":11.5},"radius":5000,"limit":3}`
	req := withUser(httptest.NewRequest(http.MethodPost, "/api/deals/top", strings.NewReader(body)), "u1", false)
	w := httptest.NewRecorder()

	handler.TopDeals(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, &entities.Position{Latitude: 48.1, Longitude: 11.5}, service.filter.Location)
	assert.Equal(t, 3, service.filter.Limit)
	assert.Equal(t, "[]\n", w.Body.String())
}

func TestDealHandler_UpsertDeal(t *testing.T) {
	service := &stubDealService{}
	handler := handlers.NewDealHandler(service)

	body := `{"title":"Pizza","category_id":2,"duration":3,"start":"2024-05-01T10:00"}`
	req := withUser(httptest.NewRequest(http.MethodPost, "/api/deals?template=true", strings.NewReader(body)), "dealer-1", true)
	w := httptest.NewRecorder()

	handler.UpsertDeal(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, service.saveTemplate)
	assert.Equal(t, "Pizza", service.upserted.Title)
	assert.JSONEq(t, `{"id":"d1","template_id":"t1"}`, w.Body.String())
}

func TestDealHandler_DeleteDeal_Forbidden(t *testing.T) {
	handler := handlers.NewDealHandler(&stubDealService{err: apperrors.NewForbiddenError("deal belongs to another dealer")})

	mux := http.NewServeMux()
	mux.HandleFunc("DELETE /api/deals/{id}", handler.DeleteDeal)

	req := withUser(httptest.NewRequest(http.MethodDelete, "/api/deals/d1", nil), "dealer-1", true)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestDealHandler_ToggleHotDeal(t *testing.T) {
	handler := handlers.NewDealHandler(&stubDealService{})

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/deals/{id}/hot", handler.ToggleHotDeal)

	req := withUser(httptest.NewRequest(http.MethodPost, "/api/deals/d7/hot", nil), "u1", false)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var result entities.HotDealToggle
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.True(t, result.Marked)
	assert.Equal(t, "d7", result.Deal.ID)
}

func TestDealHandler_DealerDealsByState(t *testing.T) {
	handler := handlers.NewDealHandler(&stubDealService{})

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/dealers/{id}/deals", handler.DealerDealsByState)

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/dealers/dealer-1/deals", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	var sorted map[string][]map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sorted))
	assert.Len(t, sorted["active"], 1)
	assert.Empty(t, sorted["past"])
	assert.NotNil(t, sorted["future"])
}

func TestDealHandler_MalformedIDIsNotFound(t *testing.T) {
	deals := mocks.NewMockDealRepository(t)
	service := services.NewDealService(deals, mocks.NewMockHotDealRepository(t), mocks.NewMockCacheProvider(t),
		nil, nil, nil, services.DealServiceConfig{})
	handler := handlers.NewDealHandler(service)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/deals/{id}", handler.GetDeal)
	mux.HandleFunc("DELETE /api/deals/{id}", handler.DeleteDeal)
	mux.HandleFunc("POST /api/deals/{id}/hot", handler.ToggleHotDeal)

	for _, req := range []*http.Request{
		httptest.NewRequest(http.MethodGet, "/api/deals/not-a-uuid", nil),
		withUser(httptest.NewRequest(http.MethodDelete, "/api/deals/not-a-uuid", nil), "dealer-1", true),
		withUser(httptest.NewRequest(http.MethodPost, "/api/deals/not-a-uuid/hot", nil), "u1", false),
	} {
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNotFound, w.Code, req.Method+" "+req.URL.Path)
	}
}

type stubDealerService struct {
	rated *entities.Rating
}

func (s *stubDealerService) GetDealerPage(ctx context.Context, dealerID, userID string) (*entities.DealerPage, error) {
	return nil, apperrors.NewNotFoundError("dealer not found")
}

func (s *stubDealerService) Rate(ctx context.Context, userID string, rating *entities.Rating) error {
	rating.UserID = userID
	s.rated = rating
	return nil
}

func (s *stubDealerService) ListRatings(ctx context.Context, dealerID string) ([]*entities.Rating, error) {
	return []*entities.Rating{}, nil
}

func TestDealerHandler_Rate(t *testing.T) {
	service := &stubDealerService{}
	handler := handlers.NewDealerHandler(service)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/dealers/{id}/ratings", handler.Rate)
	mux.HandleFunc("GET /api/dealers/{id}", handler.GetDealerPage)

	req := withUser(httptest.NewRequest(http.MethodPost, "/api/dealers/dealer-1/ratings", strings.NewReader(`{"stars":4,"text":"gut"}`)), "u1", false)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "dealer-1", service.rated.DealerID)
	assert.Equal(t, "u1", service.rated.UserID)

	w = httptest.NewRecorder()
	mux.ServeHTTP(w, withUser(httptest.NewRequest(http.MethodGet, "/api/dealers/nobody", nil), "u1", false))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGeolocationHandler_Geocode(t *testing.T) {
	provider := mocks.NewMockGeolocationProvider(t)
	handler := handlers.NewGeolocationHandler(provider)

	provider.On("Geocode", mock.Anything, "Marienplatz 1, München").
		Return(&providers.Coordinates{Latitude: 48.137, Longitude: 11.575}, nil)
	provider.On("Geocode", mock.Anything, "Atlantis").Return(nil, providers.ErrNoGeocodeResults)

	w := httptest.NewRecorder()
	handler.Geocode(w, httptest.NewRequest(http.MethodGet, "/api/geocode?address=Marienplatz+1%2C+M%C3%BCnchen", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"latitude":48.137`)

	w = httptest.NewRecorder()
	handler.Geocode(w, httptest.NewRequest(http.MethodGet, "/api/geocode?address=Atlantis", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	handler.Geocode(w, httptest.NewRequest(http.MethodGet, "/api/geocode", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCategoryHandler_ListCategories(t *testing.T) {
	repo := mocks.NewMockCategoryRepository(t)
	repo.On("List", mock.Anything).Return([]*entities.Category{{ID: 2, Name: "Essen", Color: "#ff0000"}}, nil)
	handler := handlers.NewCategoryHandler(services.NewCategoryService(repo))

	w := httptest.NewRecorder()
	handler.ListCategories(w, httptest.NewRequest(http.MethodGet, "/api/categories", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{"id":2,"name":"Essen","color":"#ff0000"}]`, w.Body.String())
}
