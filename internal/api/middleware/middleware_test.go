package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/localdeals/internal/api/auth"
	"github.com/zatekoja/localdeals/internal/application/session"
	"github.com/zatekoja/localdeals/internal/domain/providers"
	"github.com/zatekoja/localdeals/internal/mocks"
)

func identityEcho() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := auth.FromContext(r.Context()); id != nil {
			w.Header().Set("X-User", id.UserID)
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthMiddleware(t *testing.T) {
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	token, err := tokens.Issue("user-1", true)
	require.NoError(t, err)
	handler := AuthMiddleware(tokens, "jwt")(identityEcho())

	tests := []struct {
		name    string
		prepare func(r *http.Request)
		want    string
	}{
		{name: "cookie", prepare: func(r *http.Request) { r.AddCookie(&http.Cookie{Name: "jwt", Value: token}) }, want: "user-1"},
		{name: "bearer", prepare: func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) }, want: "user-1"},
		{name: "invalid token", prepare: func(r *http.Request) { r.AddCookie(&http.Cookie{Name: "jwt", Value: "broken"}) }},
		{name: "anonymous", prepare: func(r *http.Request) {}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/deals/hot", nil)
			tt.prepare(req)
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.want, rec.Header().Get("X-User"))
		})
	}
}

func TestRequireAuthAndDealer(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })

	anon := httptest.NewRequest(http.MethodGet, "/", nil)
	consumer := anon.WithContext(auth.WithIdentity(anon.Context(), &auth.Identity{UserID: "u1"}))
	dealer := anon.WithContext(auth.WithIdentity(anon.Context(), &auth.Identity{UserID: "d1", Dealer: true}))

	rec := httptest.NewRecorder()
	RequireAuth(ok).ServeHTTP(rec, anon)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = httptest.NewRecorder()
	RequireAuth(ok).ServeHTTP(rec, consumer)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	RequireDealer(ok).ServeHTTP(rec, consumer)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = httptest.NewRecorder()
	RequireDealer(ok).ServeHTTP(rec, dealer)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(1, 2)
	handler := rl.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/sessions", nil)
		req.RemoteAddr = "10.0.0.1:4321"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	other := httptest.NewRequest(http.MethodPost, "/api/sessions", nil)
	other.RemoteAddr = "10.0.0.2:4321"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, other)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCacheMiddleware(t *testing.T) {
	cache := mocks.NewMockCacheProvider(t)
	m := NewCacheMiddleware(cache, nil)
	calls := 0
	handler := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		_, _ = w.Write([]byte(`[{"id":1}]`))
	}))

	cache.On("Get", mock.Anything, mock.Anything).Return(nil, providers.ErrCacheMiss).Once()
	cache.On("Set", mock.Anything, mock.Anything, []byte(`[{"id":1}]`), time.Hour).Return(nil).Once()
	cache.On("Get", mock.Anything, mock.Anything).Return([]byte(`[{"id":1}]`), nil).Once()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/categories", nil))
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/categories", nil))
	assert.Equal(t, "HIT", rec.Header().Get("X-Cache"))
	assert.JSONEq(t, `[{"id":1}]`, rec.Body.String())
	assert.Equal(t, 1, calls)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/deals/hot", nil))
	assert.Empty(t, rec.Header().Get("X-Cache"))
}

func TestCORSMiddleware(t *testing.T) {
	handler := CORSMiddleware([]string{"https://deals.example.com"})(identityEcho())

	req := httptest.NewRequest(http.MethodOptions, "/api/deals", nil)
	req.Header.Set("Origin", "https://deals.example.com")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, "https://deals.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))

	req = httptest.NewRequest(http.MethodGet, "/api/deals", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestSessionMiddleware(t *testing.T) {
	var hot *session.HotDeals
	handler := SessionMiddleware(nil, 2)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hot = session.FromContext(r.Context())
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.NotNil(t, hot)
	assert.False(t, hot.Loaded())
}
