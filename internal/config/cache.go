package config

import (
	"strings"
	"time"
)

// CacheConfig tunes the Redis response cache in front of the public
// bike catalog. Only the anonymous browse endpoints (bike listing,
// bike detail, reviews, availability) sit behind it; authenticated
// booking and admin routes are registered without the middleware so
// a rider never sees another rider's cached response.
//
// The TTL is deliberately short. A cached listing can claim a bike is
// free for at most one TTL after someone books it, and the create
// path re-checks overlaps inside a transaction anyway, so a stale
// page costs a 409 on submit rather than a double booking.
//
// Fields:
//   - Enabled: master switch; no Redis client also disables caching.
//   - Methods: HTTP methods eligible for caching, normally just GET.
//   - TTL: entry lifetime.
//   - KeyStrategy: which request parts form the key ("route_query"
//     keys on path plus sorted query, so page 2 of a brand filter and
//     page 1 of the full catalog cache independently).
//   - Prefix: Redis key namespace for catalog entries.
//   - MaxBodyBytes: responses larger than this are served but not
//     stored.
type CacheConfig struct {
	Enabled      bool
	Methods      map[string]bool
	TTL          time.Duration
	KeyStrategy  string
	Prefix       string
	MaxBodyBytes int
}

// LoadCacheConfig builds the catalog cache configuration from the
// environment.
func LoadCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled:      envBool("CACHE_ENABLED", true),
		Methods:      parseMethods(envStr("CACHE_METHODS", "GET")),
		TTL:          envDur("CACHE_TTL", 30*time.Second),
		KeyStrategy:  envStr("CACHE_KEY_STRATEGY", "route_query"),
		Prefix:       envStr("CACHE_PREFIX", "bikes"),
		MaxBodyBytes: envInt("CACHE_MAX_BODY_BYTES", 1<<20),
	}
}

func parseMethods(s string) map[string]bool {
	m := map[string]bool{}
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(strings.ToUpper(p))
		if p != "" {
			m[p] = true
		}
	}
	return m
}
