package geolocation

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/zatekoja/localdeals/internal/domain/providers"
)

const (
	nominatimBaseURL       = "https://nominatim.openstreetmap.org"
	defaultUserAgent       = "localdeals-backend/1.0"
	defaultGeocodeCacheTTL = 30 * 24 * time.Hour
	defaultHTTPTimeout     = 8 * time.Second
)

// NominatimProvider implements GeolocationProvider against an OpenStreetMap
// Nominatim server
type NominatimProvider struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	cache      providers.CacheProvider
}

// NewNominatimProvider creates a new Nominatim provider. An empty baseURL
// selects the public server; a nil httpClient gets a default timeout.
func NewNominatimProvider(baseURL, userAgent string, cache providers.CacheProvider, httpClient *http.Client) providers.GeolocationProvider {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = nominatimBaseURL
	}
	if strings.TrimSpace(userAgent) == "" {
		userAgent = defaultUserAgent
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &NominatimProvider{
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  userAgent,
		httpClient: httpClient,
		cache:      cache,
	}
}

// Geocode converts an address to coordinates. It returns
// ErrNoGeocodeResults when the server knows no matching place.
func (n *NominatimProvider) Geocode(ctx context.Context, address string) (*providers.Coordinates, error) {
	trimmed := strings.TrimSpace(address)
	if trimmed == "" {
		return nil, providers.ErrNoGeocodeResults
	}

	cacheKey := providers.GeocodeKeyPrefix + "search:" + hashKey(strings.ToLower(trimmed))
	if coords, ok := n.cached(ctx, cacheKey); ok {
		return coords, nil
	}

	params := url.Values{}
	params.Set("format", "json")
	params.Set("limit", "1")
	params.Set("q", trimmed)

	var results []nominatimPlace
	if err := n.get(ctx, "/search", params, &results); err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, providers.ErrNoGeocodeResults
	}

	coords, err := results[0].coordinates()
	if err != nil {
		return nil, err
	}

	n.store(ctx, cacheKey, coords)
	return coords, nil
}

// ReverseGeocode converts coordinates to an address
func (n *NominatimProvider) ReverseGeocode(ctx context.Context, lat, lon float64) (*providers.GeocodedAddress, error) {
	params := url.Values{}
	params.Set("format", "jsonv2")
	params.Set("addressdetails", "1")
	params.Set("lat", strconv.FormatFloat(lat, 'f', 6, 64))
	params.Set("lon", strconv.FormatFloat(lon, 'f', 6, 64))

	var place nominatimPlace
	if err := n.get(ctx, "/reverse", params, &place); err != nil {
		return nil, err
	}
	if place.Error != "" {
		return nil, providers.ErrNoGeocodeResults
	}

	coords, err := place.coordinates()
	if err != nil {
		return nil, err
	}

	return &providers.GeocodedAddress{
		FormattedAddress: place.DisplayName,
		Street:           place.Address.Road,
		HouseNumber:      place.Address.HouseNumber,
		City:             firstNonEmpty(place.Address.City, place.Address.Town, place.Address.Village),
		ZipCode:          place.Address.Postcode,
		Country:          place.Address.Country,
		Coordinates:      *coords,
	}, nil
}

func (n *NominatimProvider) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	reqURL := fmt.Sprintf("%s%s?%s", n.baseURL, path, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to build geocode request: %w", err)
	}
	req.Header.Set("User-Agent", n.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("geocode request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("geocode request returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode geocode response: %w", err)
	}
	return nil
}

func (n *NominatimProvider) cached(ctx context.Context, key string) (*providers.Coordinates, bool) {
	if n.cache == nil {
		return nil, false
	}
	data, err := n.cache.Get(ctx, key)
	if err != nil || len(data) == 0 {
		return nil, false
	}
	var coords providers.Coordinates
	if err := json.Unmarshal(data, &coords); err != nil {
		return nil, false
	}
	return &coords, true
}

func (n *NominatimProvider) store(ctx context.Context, key string, coords *providers.Coordinates) {
	if n.cache == nil {
		return
	}
	if payload, err := json.Marshal(coords); err == nil {
		_ = n.cache.Set(ctx, key, payload, defaultGeocodeCacheTTL)
	}
}

type nominatimPlace struct {
	Lat         string           `json:"lat"`
	Lon         string           `json:"lon"`
	DisplayName string           `json:"display_name"`
	Address     nominatimAddress `json:"address"`
	Error       string           `json:"error,omitempty"`
}

type nominatimAddress struct {
	Road        string `json:"road"`
	HouseNumber string `json:"house_number"`
	City        string `json:"city"`
	Town        string `json:"town"`
	Village     string `json:"village"`
	Postcode    string `json:"postcode"`
	Country     string `json:"country"`
}

func (p nominatimPlace) coordinates() (*providers.Coordinates, error) {
	lat, err := strconv.ParseFloat(p.Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid latitude %q: %w", p.Lat, err)
	}
	lon, err := strconv.ParseFloat(p.Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid longitude %q: %w", p.Lon, err)
	}
	return &providers.Coordinates{Latitude: lat, Longitude: lon}, nil
}

func hashKey(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
