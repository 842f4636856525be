package geolocation

import (
	"context"
	"fmt"
	"strings"

	"github.com/zatekoja/localdeals/internal/domain/providers"
)

// MockGeolocationProvider resolves a fixed set of German cities. It is used in
// development and tests so registration works without network access.
type MockGeolocationProvider struct{}

// NewMockGeolocationProvider creates a new mock geolocation provider
func NewMockGeolocationProvider() providers.GeolocationProvider {
	return &MockGeolocationProvider{}
}

var mockCities = []struct {
	name   string
	coords providers.Coordinates
}{
	{"Berlin", providers.Coordinates{Latitude: 52.520008, Longitude: 13.404954}},
	{"Hamburg", providers.Coordinates{Latitude: 53.551086, Longitude: 9.993682}},
	{"München", providers.Coordinates{Latitude: 48.137154, Longitude: 11.576124}},
	{"Munich", providers.Coordinates{Latitude: 48.137154, Longitude: 11.576124}},
	{"Köln", providers.Coordinates{Latitude: 50.937531, Longitude: 6.960279}},
	{"Frankfurt", providers.Coordinates{Latitude: 50.110924, Longitude: 8.682127}},
	{"Stuttgart", providers.Coordinates{Latitude: 48.775845, Longitude: 9.182932}},
}

// Geocode returns the coordinates of the first known city in address.
// Unknown addresses have no result.
func (m *MockGeolocationProvider) Geocode(_ context.Context, address string) (*providers.Coordinates, error) {
	lower := strings.ToLower(address)
	for _, city := range mockCities {
		if strings.Contains(lower, strings.ToLower(city.name)) {
			coords := city.coords
			return &coords, nil
		}
	}
	return nil, providers.ErrNoGeocodeResults
}

// ReverseGeocode echoes the coordinates back as an address
func (m *MockGeolocationProvider) ReverseGeocode(_ context.Context, lat, lon float64) (*providers.GeocodedAddress, error) {
	return &providers.GeocodedAddress{
		FormattedAddress: fmt.Sprintf("%f, %f", lat, lon),
		Country:          "Deutschland",
		Coordinates:      providers.Coordinates{Latitude: lat, Longitude: lon},
	}, nil
}
