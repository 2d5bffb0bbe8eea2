package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/cinema-booking-client/internal/config"
)

// bucketScript refills a bucket continuously at ARGV[3] tokens per
// millisecond up to ARGV[2] and takes one token.  It returns
// {allowed, tokens_left, wait_ms}.
var bucketScript = redis.NewScript(`
local now = tonumber(ARGV[1])
local burst = tonumber(ARGV[2])
local rate = tonumber(ARGV[3])
local b = redis.call('HMGET', KEYS[1], 'level', 'at')
local level = tonumber(b[1]) or burst
local at = tonumber(b[2]) or now
level = math.min(burst, level + math.max(0, now - at) * rate)
local ok, wait = 0, 0
if level >= 1 then
	ok = 1
	level = level - 1
else
	wait = math.ceil((1 - level) / rate)
end
redis.call('HSET', KEYS[1], 'level', tostring(level), 'at', now)
redis.call('PEXPIRE', KEYS[1], ARGV[4])
return {ok, math.floor(level), wait}
`)

// Verdict is the limiter's answer for one request.
type Verdict struct {
	Allowed    bool
	Remaining  int64
	RetryAfter time.Duration
}

// RateLimiter keeps one read and one write bucket per caller in Redis.
type RateLimiter struct {
	cfg config.RateLimitConfig
	rdb redis.Scripter
	now func() time.Time
}

func NewRateLimiter(cfg config.RateLimitConfig, rdb redis.Scripter) *RateLimiter {
	return &RateLimiter{cfg: cfg, rdb: rdb, now: time.Now}
}

// Allow takes a token from the bucket at key.
func (l *RateLimiter) Allow(ctx context.Context, key string, burst int) (Verdict, error) {
	args := []interface{}{l.now().UnixMilli(), burst, l.cfg.PerSecond / 1000, l.cfg.TTL.Milliseconds()}
	res, err := bucketScript.Run(ctx, l.rdb, []string{key}, args...).Int64Slice()
	if err != nil {
		return Verdict{}, err
	}
	if len(res) != 3 {
		return Verdict{}, fmt.Errorf("ratelimit: unexpected script result %v", res)
	}
	return Verdict{
		Allowed:    res[0] == 1,
		Remaining:  res[1],
		RetryAfter: time.Duration(res[2]) * time.Millisecond,
	}, nil
}

// bucketKey names the caller's bucket for the request: authenticated users
// by ID, anonymous callers by address.  GET and HEAD use the read bucket.
func (l *RateLimiter) bucketKey(c echo.Context) (string, int) {
	subject := "ip:" + c.RealIP()
	if uid := UserID(c); uid != "" {
		subject = "user:" + uid
	}
	switch c.Request().Method {
	case http.MethodGet, http.MethodHead:
		return l.cfg.Prefix + ":" + subject + ":read", l.cfg.ReadBurst
	default:
		return l.cfg.Prefix + ":" + subject + ":write", l.cfg.WriteBurst
	}
}

// Middleware answers 429 with Retry-After once the bucket is empty.  A
// Redis failure lets the request through.
func (l *RateLimiter) Middleware(log *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key, burst := l.bucketKey(c)
			v, err := l.Allow(c.Request().Context(), key, burst)
			if err != nil {
				log.Warn("ratelimit: redis error, allowing request", "key", key, "error", err)
				return next(c)
			}

			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(burst))
			h.Set("X-RateLimit-Remaining", strconv.FormatInt(v.Remaining, 10))
			if v.Allowed {
				return next(c)
			}

			secs := int64((v.RetryAfter + time.Second - 1) / time.Second)
			h.Set("Retry-After", strconv.FormatInt(secs, 10))
			log.Info("ratelimit: blocked", "key", key, "retry_after", v.RetryAfter)
			return c.JSON(http.StatusTooManyRequests, echo.Map{
				"error":   "too_many_requests",
				"message": "Too many requests. Please slow down.",
			})
		}
	}
}

// NewTokenBucket returns the rate limiting middleware, or a pass-through
// when limiting is disabled or Redis is unavailable.
func NewTokenBucket(cfg config.RateLimitConfig, rdb *redis.Client, log *slog.Logger) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	return NewRateLimiter(cfg, rdb).Middleware(log)
}
