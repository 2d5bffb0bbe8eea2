package config

import "time"

// RateLimitConfig drives the per-user limiter in front of the session and
// ticket endpoints.  Reads and writes draw from separate buckets so a burst
// of seat taps cannot starve the submit call, and writes (which reach the
// backend) get the smaller burst.
type RateLimitConfig struct {
	Enabled    bool
	PerSecond  float64       // RATE_LIMIT_RPS: refill rate shared by both buckets
	ReadBurst  int           // RATE_LIMIT_BURST
	WriteBurst int           // RATE_LIMIT_WRITE_BURST
	TTL        time.Duration // RATE_LIMIT_TTL: idle lifetime of a bucket
	Prefix     string
}

// LoadRateLimitConfig reads RATE_LIMIT_* variables.
func LoadRateLimitConfig() RateLimitConfig {
	cfg := RateLimitConfig{
		Enabled:    envBool("RATE_LIMIT_ENABLED", true),
		PerSecond:  envFloat("RATE_LIMIT_RPS", 2),
		ReadBurst:  envInt("RATE_LIMIT_BURST", 60),
		WriteBurst: envInt("RATE_LIMIT_WRITE_BURST", 10),
		TTL:        envDur("RATE_LIMIT_TTL", 10*time.Minute),
		Prefix:     getenv("RATE_LIMIT_PREFIX", "rl"),
	}
	if cfg.PerSecond <= 0 {
		cfg.PerSecond = 1
	}
	if cfg.ReadBurst < 1 {
		cfg.ReadBurst = 1
	}
	if cfg.WriteBurst < 1 {
		cfg.WriteBurst = 1
	}
	// a bucket must outlive the time it takes to refill completely
	if full := time.Duration(float64(cfg.ReadBurst) / cfg.PerSecond * float64(time.Second)); cfg.TTL < full {
		cfg.TTL = full
	}
	return cfg
}
