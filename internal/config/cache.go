package config

import "time"

// CacheConfig defines settings for the response cache on the read-only
// availability and fare queries.  When Enabled is false or no Redis client
// is configured, caching is disabled.  The TTL is short on purpose:
// availability changes with every booking and a stale count only needs to
// survive until the next page refresh.
type CacheConfig struct {
	Enabled      bool
	TTL          time.Duration
	Prefix       string
	MaxBodyBytes int
}

// LoadCacheConfig reads environment variables to build a CacheConfig.
func LoadCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled:      envBool("CACHE_ENABLED", true),
		TTL:          envDur("CACHE_TTL", 10*time.Second),
		Prefix:       getenv("CACHE_PREFIX", "cache"),
		MaxBodyBytes: envInt("CACHE_MAX_BODY_BYTES", 1<<20),
	}
}
