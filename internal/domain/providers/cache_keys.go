package providers

import "fmt"

// HotDealsKey is the cache key of the hot deal IDs of a user
func HotDealsKey(userID string) string {
	return fmt.Sprintf("hotdeals:user:%s", userID)
}

// CategoriesKey is the cache key of the category list
const CategoriesKey = "categories:all"

// GeocodeKeyPrefix prefixes geocoder responses
const GeocodeKeyPrefix = "geocode:"
