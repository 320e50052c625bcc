package cache

// SQL schemas for cache tables
// All cache tables use "cache_key" as the primary key column for consistency

// SearchCacheSchema defines the schema for Steam Store search page cache
const SearchCacheSchema = `
CREATE TABLE IF NOT EXISTS steam_search_cache (
	cache_key TEXT PRIMARY KEY NOT NULL,
	data TEXT NOT NULL,
	cached_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_steam_search_cached_at ON steam_search_cache(cached_at);
`

// DetailsCacheSchema defines the schema for appdetails response cache
const DetailsCacheSchema = `
CREATE TABLE IF NOT EXISTS steam_details_cache (
	cache_key TEXT PRIMARY KEY NOT NULL,
	data TEXT NOT NULL,
	cached_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_steam_details_cached_at ON steam_details_cache(cached_at);
`

// ReviewsCacheSchema defines the schema for appreviews summary cache
const ReviewsCacheSchema = `
CREATE TABLE IF NOT EXISTS steam_reviews_cache (
	cache_key TEXT PRIMARY KEY NOT NULL,
	data TEXT NOT NULL,
	cached_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_steam_reviews_cached_at ON steam_reviews_cache(cached_at);
`

// AllCacheSchemas contains all cache table schemas for easy initialization
var AllCacheSchemas = []string{
	SearchCacheSchema,
	DetailsCacheSchema,
	ReviewsCacheSchema,
}

// ValidCacheTableNames is the whitelist of allowed cache table names
// Used to prevent SQL injection when interpolating table names
var ValidCacheTableNames = map[string]bool{
	"steam_search_cache":  true,
	"steam_details_cache": true,
	"steam_reviews_cache": true,
}
