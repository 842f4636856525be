package routes

import (
	"net/http"

	"github.com/zatekoja/localdeals/internal/api/auth"
	"github.com/zatekoja/localdeals/internal/api/handlers"
	"github.com/zatekoja/localdeals/internal/api/middleware"
	"github.com/zatekoja/localdeals/internal/domain/providers"
	"github.com/zatekoja/localdeals/internal/infrastructure/observability"
)

// Handlers bundles the route handlers
type Handlers struct {
	Accounts    *handlers.AccountHandler
	Deals       *handlers.DealHandler
	Dealers     *handlers.DealerHandler
	Categories  *handlers.CategoryHandler
	Geolocation *handlers.GeolocationHandler
}

// Options configures the middleware chain
type Options struct {
	Tokens         *auth.TokenManager
	CookieName     string
	AllowedOrigins []string
	Images         providers.ImageStorage
	ImageFanOut    int
	RateLimiter    *middleware.RateLimiter
	Cache          *middleware.CacheMiddleware
	Metrics        *observability.Metrics
}

// Router holds all route handlers
type Router struct {
	mux      *http.ServeMux
	handlers Handlers
	opts     Options
}

// NewRouter creates a new router
func NewRouter(h Handlers, opts Options) *Router {
	return &Router{
		mux:      http.NewServeMux(),
		handlers: h,
		opts:     opts,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	authed := middleware.RequireAuth
	dealer := middleware.RequireDealer
	limited := func(h http.Handler) http.Handler { return h }
	if r.opts.RateLimiter != nil {
		limited = r.opts.RateLimiter.Handler
	}

	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	// Accounts and sessions
	accounts := r.handlers.Accounts
	r.mux.Handle("GET /api/accounts", authed(http.HandlerFunc(accounts.GetAccount)))
	r.mux.Handle("POST /api/accounts", limited(http.HandlerFunc(accounts.Register)))
	r.mux.Handle("PUT /api/accounts", authed(http.HandlerFunc(accounts.UpdateAccount)))
	r.mux.Handle("POST /api/sessions", limited(http.HandlerFunc(accounts.Login)))
	r.mux.HandleFunc("DELETE /api/sessions", accounts.Logout)

	// Deals
	deals := r.handlers.Deals
	r.mux.Handle("GET /api/deals", dealer(http.HandlerFunc(deals.ListDeals)))
	r.mux.Handle("POST /api/deals", dealer(http.HandlerFunc(deals.UpsertDeal)))
	r.mux.Handle("POST /api/deals/top", authed(http.HandlerFunc(deals.TopDeals)))
	r.mux.Handle("POST /api/deals/search", authed(http.HandlerFunc(deals.SearchDeals)))
	r.mux.Handle("GET /api/deals/hot", authed(http.HandlerFunc(deals.HotDeals)))
	r.mux.HandleFunc("GET /api/deals/{id}", deals.GetDeal)
	r.mux.Handle("DELETE /api/deals/{id}", dealer(http.HandlerFunc(deals.DeleteDeal)))
	r.mux.Handle("POST /api/deals/{id}/hot", authed(http.HandlerFunc(deals.ToggleHotDeal)))

	// Dealers
	dealers := r.handlers.Dealers
	r.mux.Handle("GET /api/dealers/{id}", authed(http.HandlerFunc(dealers.GetDealerPage)))
	r.mux.HandleFunc("GET /api/dealers/{id}/deals", deals.DealerDealsByState)
	r.mux.HandleFunc("GET /api/dealers/{id}/ratings", dealers.ListRatings)
	r.mux.Handle("POST /api/dealers/{id}/ratings", authed(http.HandlerFunc(dealers.Rate)))

	r.mux.HandleFunc("GET /api/categories", r.handlers.Categories.ListCategories)

	if r.handlers.Geolocation != nil {
		r.mux.HandleFunc("GET /api/geocode", r.handlers.Geolocation.Geocode)
		r.mux.HandleFunc("GET /api/reverse-geocode", r.handlers.Geolocation.ReverseGeocode)
	}

	// Wrapped inside out: the last middleware applied runs first.
	var handler http.Handler = r.mux
	handler = middleware.SessionMiddleware(r.opts.Images, r.opts.ImageFanOut)(handler)
	if r.opts.Cache != nil {
		handler = r.opts.Cache.Middleware(handler)
	}
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.AuthMiddleware(r.opts.Tokens, r.opts.CookieName)(handler)
	handler = middleware.ObservabilityMiddleware(r.opts.Metrics)(handler)
	handler = middleware.ResponseOptimization(handler)

	// CORS wraps everything so headers are set even on cache HITs
	handler = middleware.CORSMiddleware(r.opts.AllowedOrigins)(handler)

	return handler
}
