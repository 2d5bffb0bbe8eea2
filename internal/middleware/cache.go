package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/cinema-booking-client/internal/config"
)

// cachedResponse is a stored catalog response.
type cachedResponse struct {
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// teeWriter records the status and up to limit bytes of the body while
// writing through to the client.
type teeWriter struct {
	http.ResponseWriter
	status   int
	body     bytes.Buffer
	limit    int
	overflow bool
}

func (w *teeWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *teeWriter) Write(b []byte) (int, error) {
	if !w.overflow {
		if w.limit > 0 && w.body.Len()+len(b) > w.limit {
			w.overflow = true
			w.body.Reset()
		} else {
			w.body.Write(b)
		}
	}
	return w.ResponseWriter.Write(b)
}

// catalogKey is prefix, path and the normalised query.  Catalog reads are
// the same for every caller, so the user is not part of the key.
func catalogKey(cfg config.CacheConfig, r *http.Request) string {
	key := cfg.Prefix + ":" + r.URL.Path
	if q := r.URL.Query(); len(q) > 0 {
		key += "?" + q.Encode()
	}
	return key
}

// NewRedisCache serves repeated catalog GETs from Redis.  Only 200
// responses up to MaxBodyBytes are stored; "Cache-Control: no-cache" skips
// the lookup.  A disabled config or nil client yields a pass-through.
func NewRedisCache(cfg config.CacheConfig, rdb *redis.Client, log *slog.Logger) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if req.Method != http.MethodGet {
				return next(c)
			}
			ctx := req.Context()
			key := catalogKey(cfg, req)
			res := c.Response()

			if !strings.Contains(req.Header.Get("Cache-Control"), "no-cache") {
				if raw, err := rdb.Get(ctx, key).Bytes(); err == nil {
					var hit cachedResponse
					if json.Unmarshal(raw, &hit) == nil {
						res.Header().Set("X-Cache", "HIT")
						return c.Blob(http.StatusOK, hit.ContentType, hit.Body)
					}
				} else if !errors.Is(err, redis.Nil) {
					log.Warn("cache: lookup failed", "key", key, "error", err)
				}
			}

			tw := &teeWriter{ResponseWriter: res.Writer, status: http.StatusOK, limit: cfg.MaxBodyBytes}
			res.Writer = tw
			res.Header().Set("X-Cache", "MISS")
			if err := next(c); err != nil {
				return err
			}
			if tw.status != http.StatusOK || tw.overflow {
				return nil
			}

			raw, err := json.Marshal(cachedResponse{ContentType: res.Header().Get(echo.HeaderContentType), Body: tw.body.Bytes()})
			if err != nil {
				return nil
			}
			if err := rdb.Set(context.WithoutCancel(ctx), key, raw, cfg.TTL).Err(); err != nil {
				log.Warn("cache: store failed", "key", key, "error", err)
			}
			return nil
		}
	}
}
