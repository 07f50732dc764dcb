package config

import (
	"testing"
	"time"
)

func TestLoadRateLimitConfigDefaults(t *testing.T) {
	for _, k := range []string{
		"RATE_LIMIT_ENABLED", "RATE_LIMIT_CAPACITY",
		"RATE_LIMIT_MUTATION_CAPACITY", "RATE_LIMIT_TTL",
		"RATE_LIMIT_REFILL_INTERVAL",
	} {
		t.Setenv(k, "")
	}
	cfg := LoadRateLimitConfig()
	if !cfg.Enabled {
		t.Error("limiter disabled by default")
	}
	if cfg.Capacity != 60 || cfg.MutationCapacity != 15 {
		t.Errorf("default bucket sizes: got %d/%d, want 60/15", cfg.Capacity, cfg.MutationCapacity)
	}
	if cfg.TTL < 5*cfg.RefillInterval {
		t.Errorf("TTL %v shorter than five refill cycles", cfg.TTL)
	}
}

func TestLoadRateLimitConfigClamps(t *testing.T) {
	t.Setenv("RATE_LIMIT_CAPACITY", "10")
	t.Setenv("RATE_LIMIT_MUTATION_CAPACITY", "50")
	t.Setenv("RATE_LIMIT_TTL", "1s")
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "2s")

	cfg := LoadRateLimitConfig()
	if cfg.MutationCapacity != cfg.Capacity {
		t.Errorf("mutation bucket %d larger than the general bucket %d", cfg.MutationCapacity, cfg.Capacity)
	}
	if cfg.TTL != 10*time.Second {
		t.Errorf("TTL not lifted to five refill cycles: got %v", cfg.TTL)
	}
}

func TestForBookingRoutes(t *testing.T) {
	cfg := RateLimitConfig{Capacity: 60, MutationCapacity: 15, Prefix: "rl"}
	b := cfg.ForBookingRoutes()
	if b.Capacity != 15 {
		t.Errorf("booking bucket size: got %d, want 15", b.Capacity)
	}
	if b.Prefix == cfg.Prefix {
		t.Error("booking routes share the browse key namespace")
	}
	if cfg.Capacity != 60 || cfg.Prefix != "rl" {
		t.Error("ForBookingRoutes mutated the receiver")
	}
}

func TestLoadCacheConfigDefaults(t *testing.T) {
	for _, k := range []string{"CACHE_ENABLED", "CACHE_METHODS", "CACHE_PREFIX", "CACHE_TTL"} {
		t.Setenv(k, "")
	}
	cfg := LoadCacheConfig()
	if !cfg.Methods["GET"] {
		t.Error("GET not cacheable by default")
	}
	if cfg.Methods["POST"] {
		t.Error("POST cacheable by default")
	}
	if cfg.Prefix != "bikes" {
		t.Errorf("prefix: got %q, want bikes", cfg.Prefix)
	}
	if cfg.TTL != 30*time.Second {
		t.Errorf("TTL: got %v, want 30s", cfg.TTL)
	}
}
