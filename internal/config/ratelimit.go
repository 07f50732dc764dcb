package config

import "time"

// RateLimitConfig tunes the Redis token buckets in front of the API.
// Two buckets run with the same refill rate but different sizes:
// Capacity covers general traffic such as catalog browsing, while
// MutationCapacity is the smaller bucket wrapped around the booking
// routes so a client refreshing the bike list cannot also burn
// through booking creations, and a stuck retry loop on CreateBooking
// gets throttled long before it can flood the overlap checks.
//
// Fields:
//   - Enabled: master switch; when false the middleware is a no-op.
//   - Capacity: bucket size for browse and auth traffic.
//   - MutationCapacity: bucket size for booking and review writes.
//   - RefillTokens / RefillInterval: tokens added per interval.
//   - TTL: idle time after which a bucket key expires in Redis.
//   - KeyStrategy: which request parts identify a bucket (see
//     middleware.NewTokenBucket).
//   - Prefix: Redis key namespace.
//   - Debug: log limiter decisions per request.
type RateLimitConfig struct {
	Enabled          bool
	Capacity         int
	MutationCapacity int
	RefillTokens     int
	RefillInterval   time.Duration
	TTL              time.Duration
	KeyStrategy      string
	Prefix           string
	Debug            bool
}

// LoadRateLimitConfig builds the limiter configuration from the
// environment. Out-of-range values are clamped rather than rejected.
func LoadRateLimitConfig() RateLimitConfig {
	cfg := RateLimitConfig{
		Enabled:          envBool("RATE_LIMIT_ENABLED", true),
		Capacity:         envInt("RATE_LIMIT_CAPACITY", 60),
		MutationCapacity: envInt("RATE_LIMIT_MUTATION_CAPACITY", 15),
		RefillTokens:     envInt("RATE_LIMIT_REFILL_TOKENS", 1),
		RefillInterval:   envDur("RATE_LIMIT_REFILL_INTERVAL", time.Second),
		TTL:              envDur("RATE_LIMIT_TTL", 10*time.Minute),
		KeyStrategy:      envStr("RATE_LIMIT_KEY_STRATEGY", "ip_user_route"),
		Prefix:           envStr("RATE_LIMIT_PREFIX", "rl"),
		Debug:            envBool("RATE_LIMIT_DEBUG", false),
	}
	if cfg.Capacity < 1 {
		cfg.Capacity = 1
	}
	if cfg.MutationCapacity < 1 || cfg.MutationCapacity > cfg.Capacity {
		cfg.MutationCapacity = cfg.Capacity
	}
	if cfg.RefillTokens < 1 {
		cfg.RefillTokens = 1
	}
	if cfg.RefillInterval <= 0 {
		cfg.RefillInterval = time.Second
	}
	// A bucket must outlive a few refill cycles or it resets to full
	// between requests and never limits anything.
	if minTTL := 5 * cfg.RefillInterval; cfg.TTL < minTTL {
		cfg.TTL = minTTL
	}
	return cfg
}

// ForBookingRoutes returns a copy sized for the booking mutation
// routes. The prefix gets its own segment so booking writes and
// catalog reads never drain the same bucket.
func (c RateLimitConfig) ForBookingRoutes() RateLimitConfig {
	c.Capacity = c.MutationCapacity
	c.Prefix = c.Prefix + ":bookings"
	return c
}
