package providers

import (
	"context"
	"errors"
)

// ErrNoGeocodeResults is returned when the geocoder knows no place for an address
var ErrNoGeocodeResults = errors.New("no geocode results")

// GeolocationProvider defines the interface for geolocation services
type GeolocationProvider interface {
	// Geocode converts an address to coordinates
	Geocode(ctx context.Context, address string) (*Coordinates, error)

	// ReverseGeocode converts coordinates to an address
	ReverseGeocode(ctx context.Context, lat, lon float64) (*GeocodedAddress, error)
}

// Coordinates represents geographical coordinates
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// GeocodedAddress represents a geocoded address
type GeocodedAddress struct {
	FormattedAddress string      `json:"formatted_address"`
	Street           string      `json:"street"`
	HouseNumber      string      `json:"house_number"`
	City             string      `json:"city"`
	ZipCode          string      `json:"zip_code"`
	Country          string      `json:"country"`
	Coordinates      Coordinates `json:"coordinates"`
}
