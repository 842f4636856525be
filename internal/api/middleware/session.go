package middleware

import (
	"net/http"

	"github.com/zatekoja/localdeals/internal/application/loaders"
	"github.com/zatekoja/localdeals/internal/application/session"
	"github.com/zatekoja/localdeals/internal/domain/providers"
)

// SessionMiddleware gives every request its own hot deal store and
// dataloaders.
func SessionMiddleware(storage providers.ImageStorage, fanOut int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := session.WithHotDeals(r.Context(), session.New())
			ctx = loaders.WithLoaders(ctx, loaders.NewLoaders(storage, fanOut))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
