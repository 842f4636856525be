package geolocation_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/localdeals/internal/adapters/cache"
	"github.com/zatekoja/localdeals/internal/adapters/providers/geolocation"
	"github.com/zatekoja/localdeals/internal/domain/providers"
)

func TestNominatimProvider_Geocode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "Marienplatz 1, 80331 München", r.URL.Query().Get("q"))
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"lat":"48.1371","lon":"11.5754","display_name":"Marienplatz"}]`))
	}))
	defer server.Close()

	provider := geolocation.NewNominatimProvider(server.URL, "test-agent", nil, server.Client())

	coords, err := provider.Geocode(context.Background(), "Marienplatz 1, 80331 München")

	require.NoError(t, err)
	assert.Equal(t, 48.1371, coords.Latitude)
	assert.Equal(t, 11.5754, coords.Longitude)
}

func TestNominatimProvider_GeocodeNoResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	provider := geolocation.NewNominatimProvider(server.URL, "", nil, server.Client())

	_, err := provider.Geocode(context.Background(), "Nowhere 0, 00000 Atlantis")
	assert.ErrorIs(t, err, providers.ErrNoGeocodeResults)
}

func TestNominatimProvider_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	provider := geolocation.NewNominatimProvider(server.URL, "", nil, server.Client())

	_, err := provider.Geocode(context.Background(), "Berlin")
	require.Error(t, err)
	assert.NotErrorIs(t, err, providers.ErrNoGeocodeResults)
}

func TestNominatimProvider_EmptyAddress(t *testing.T) {
	provider := geolocation.NewNominatimProvider("http://127.0.0.1:1", "", nil, nil)

	_, err := provider.Geocode(context.Background(), "   ")
	assert.ErrorIs(t, err, providers.ErrNoGeocodeResults)
}

func TestNominatimProvider_ReverseGeocode(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, "/reverse", r.URL.Path)
		_, _ = w.Write([]byte(`{"lat":"52.52","lon":"13.40","display_name":"Alexanderplatz","address":{"road":"Alexanderplatz","house_number":"1","town":"Berlin","postcode":"10178","country":"Deutschland"}}`))
	}))
	defer server.Close()

	provider := geolocation.NewNominatimProvider(server.URL, "", cache.NewNoopAdapter(), server.Client())

	addr, err := provider.ReverseGeocode(context.Background(), 52.52, 13.40)

	require.NoError(t, err)
	assert.Equal(t, "Berlin", addr.City)
	assert.Equal(t, "10178", addr.ZipCode)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestMockProvider(t *testing.T) {
	provider := geolocation.NewMockGeolocationProvider()
	ctx := context.Background()

	coords, err := provider.Geocode(ctx, "Leopoldstraße 1, 80802 München")
	require.NoError(t, err)
	assert.InDelta(t, 48.137, coords.Latitude, 0.001)

	_, err = provider.Geocode(ctx, "Unknown street")
	assert.ErrorIs(t, err, providers.ErrNoGeocodeResults)
}
