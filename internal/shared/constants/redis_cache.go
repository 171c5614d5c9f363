package constants

import (
	"fmt"
	"time"
)

// Redis cache keys and TTLs.
// Pattern: travelbook:{module}:{operation}:{identifier}:{params?}

const (
	TTL_STATIC_LONG        = 24 * time.Hour
	TTL_SEMI_STATIC_MEDIUM = 2 * time.Hour
	TTL_SEMI_STATIC_QUICK  = 15 * time.Minute
	TTL_DYNAMIC_SHORT      = 5 * time.Minute
)

const (
	CACHE_PREFIX = "travelbook"
)

// ================== PACKAGES MODULE ==================

const (
	CACHE_KEY_PACKAGES_LIST     = CACHE_PREFIX + ":packages:list"              // + :dest:X:min:Y:max:Z:diff:D:page:P:limit:L
	CACHE_KEY_PACKAGE_DETAIL    = CACHE_PREFIX + ":packages:detail:uuid:"      // + package-id
	CACHE_KEY_PACKAGE_SNAPSHOT  = CACHE_PREFIX + ":packages:snapshot:uuid:"    // + package-id
	PATTERN_INVALIDATE_PACKAGES = CACHE_PREFIX + ":packages:list*"             // all listings
	PATTERN_INVALIDATE_PACKAGE  = CACHE_PREFIX + ":packages:*:uuid:"           // + package-id
)

const (
	TTL_PACKAGE_LIST     = TTL_SEMI_STATIC_QUICK
	TTL_PACKAGE_DETAIL   = TTL_SEMI_STATIC_MEDIUM
	TTL_PACKAGE_SNAPSHOT = TTL_SEMI_STATIC_MEDIUM
)

// ================== PLACES MODULE ==================

const (
	CACHE_KEY_PLACES_LIST     = CACHE_PREFIX + ":places:list"         // + :country:X:state:Y:cat:C:featured:F:page:P:limit:L
	CACHE_KEY_PLACE_DETAIL    = CACHE_PREFIX + ":places:detail:uuid:" // + place-id
	PATTERN_INVALIDATE_PLACES = CACHE_PREFIX + ":places:list*"        // all listings
)

const (
	TTL_PLACE_LIST   = TTL_SEMI_STATIC_QUICK
	TTL_PLACE_DETAIL = TTL_SEMI_STATIC_MEDIUM
)

// ================== USERS MODULE ==================

const (
	CACHE_KEY_USER_PROFILE = CACHE_PREFIX + ":users:profile:uuid:" // + user-id
)

const (
	TTL_USER_PROFILE = TTL_DYNAMIC_SHORT
)

// ================== KEY BUILDERS ==================

// BuildPackageListKey builds the cache key for a filtered package listing
func BuildPackageListKey(destination string, minPrice, maxPrice float64, difficulty string, page, limit int) string {
	return fmt.Sprintf("%s:dest:%s:min:%g:max:%g:diff:%s:page:%d:limit:%d",
		CACHE_KEY_PACKAGES_LIST, destination, minPrice, maxPrice, difficulty, page, limit)
}

// BuildPackageDetailKey builds the cache key for a package detail
func BuildPackageDetailKey(packageID string) string {
	return CACHE_KEY_PACKAGE_DETAIL + packageID
}

// BuildPackageSnapshotKey builds the cache key for the booking price snapshot
func BuildPackageSnapshotKey(packageID string) string {
	return CACHE_KEY_PACKAGE_SNAPSHOT + packageID
}

// BuildUserProfileKey builds the cache key for a user profile
func BuildUserProfileKey(userID string) string {
	return CACHE_KEY_USER_PROFILE + userID
}

// BuildPlaceListKey builds the cache key for a filtered place listing
func BuildPlaceListKey(country, state, category, featured string, page, limit int) string {
	return fmt.Sprintf("%s:country:%s:state:%s:cat:%s:featured:%s:page:%d:limit:%d",
		CACHE_KEY_PLACES_LIST, country, state, category, featured, page, limit)
}

// BuildPlaceDetailKey builds the cache key for a place detail
func BuildPlaceDetailKey(placeID string) string {
	return CACHE_KEY_PLACE_DETAIL + placeID
}
