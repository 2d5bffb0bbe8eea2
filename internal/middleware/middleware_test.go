package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/iliyamo/cinema-booking-client/internal/config"
	"github.com/iliyamo/cinema-booking-client/internal/logger"
	"github.com/iliyamo/cinema-booking-client/internal/utils"
)

func discard() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func whoami(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"user_id": UserID(c), "token": Token(c)})
}

func TestJWTAuthRequiresBearer(t *testing.T) {
	e := echo.New()
	e.GET("/me", whoami, JWTAuth("k"))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "unauthorized", gjson.Get(rec.Body.String(), "error").String())

	tok, err := utils.SignIdentity("k", "u1", "user", time.Hour)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u1", gjson.Get(rec.Body.String(), "user_id").String())
	assert.Equal(t, tok, gjson.Get(rec.Body.String(), "token").String())
}

func TestOptionalJWT(t *testing.T) {
	e := echo.New()
	e.GET("/movies", whoami, OptionalJWT(""))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/movies", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, gjson.Get(rec.Body.String(), "user_id").String())

	req := httptest.NewRequest(http.MethodGet, "/movies", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCacheHitAndMiss(t *testing.T) {
	db, mock := redismock.NewClientMock()
	cfg := config.CacheConfig{Enabled: true, TTL: time.Minute, Prefix: "catalog"}

	e := echo.New()
	calls := 0
	e.GET("/v1/movies/:id", func(c echo.Context) error {
		calls++
		return c.String(http.StatusOK, "movie "+c.Param("id"))
	}, NewRedisCache(cfg, db, discard()))

	key := "catalog:/v1/movies/7?a=1&b=2"
	payload, err := json.Marshal(cachedResponse{ContentType: echo.MIMETextPlainCharsetUTF8, Body: []byte("movie 7")})
	require.NoError(t, err)

	mock.ExpectGet(key).RedisNil()
	mock.ExpectSet(key, payload, time.Minute).SetVal("OK")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/movies/7?b=2&a=1", nil))
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	assert.Equal(t, "movie 7", rec.Body.String())

	mock.ExpectGet(key).SetVal(string(payload))
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/movies/7?a=1&b=2", nil))
	assert.Equal(t, "HIT", rec.Header().Get("X-Cache"))
	assert.Equal(t, "movie 7", rec.Body.String())
	assert.Equal(t, echo.MIMETextPlainCharsetUTF8, rec.Header().Get(echo.HeaderContentType))
	assert.Equal(t, 1, calls)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCacheSkipsErrorsAndOversizedBodies(t *testing.T) {
	db, mock := redismock.NewClientMock()
	cfg := config.CacheConfig{Enabled: true, TTL: time.Minute, Prefix: "catalog", MaxBodyBytes: 4}

	e := echo.New()
	mw := NewRedisCache(cfg, db, discard())
	e.GET("/big", func(c echo.Context) error { return c.String(http.StatusOK, "too large") }, mw)
	e.GET("/gone", func(c echo.Context) error { return c.String(http.StatusNotFound, "no") }, mw)

	mock.ExpectGet("catalog:/big").RedisNil()
	mock.ExpectGet("catalog:/gone").RedisNil()
	for _, p := range []string{"/big", "/gone"} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, p, nil))
		assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	}
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCacheDisabledWithoutRedis(t *testing.T) {
	e := echo.New()
	e.GET("/x", func(c echo.Context) error { return c.String(http.StatusOK, "x") },
		NewRedisCache(config.CacheConfig{Enabled: true}, nil, discard()))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Empty(t, rec.Header().Get("X-Cache"))
}

func TestRateLimiterBuckets(t *testing.T) {
	db, mock := redismock.NewClientMock()
	cfg := config.RateLimitConfig{Enabled: true, PerSecond: 2, ReadBurst: 30, WriteBurst: 5, TTL: time.Minute, Prefix: "rl"}
	l := NewRateLimiter(cfg, db)
	now := time.UnixMilli(1_700_000_000_000)
	l.now = func() time.Time { return now }

	e := echo.New()
	e.POST("/v1/sessions/:id/submit", func(c echo.Context) error { return c.NoContent(http.StatusCreated) },
		func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error {
				c.Set(ctxUserID, "u1")
				return next(c)
			}
		}, l.Middleware(discard()))

	key := "rl:user:u1:write"
	args := []interface{}{now.UnixMilli(), 5, 0.002, int64(60000)}
	mock.ExpectEvalSha(bucketScript.Hash(), []string{key}, args...).SetVal([]interface{}{int64(1), int64(4), int64(0)})
	mock.ExpectEvalSha(bucketScript.Hash(), []string{key}, args...).SetVal([]interface{}{int64(0), int64(0), int64(1500)})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/sessions/s1/submit", nil))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "5", rec.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "4", rec.Header().Get("X-RateLimit-Remaining"))

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/sessions/s1/submit", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "2", rec.Header().Get("Retry-After"))
	assert.Equal(t, "too_many_requests", gjson.Get(rec.Body.String(), "error").String())

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRateLimiterKeysAnonymousByAddress(t *testing.T) {
	l := NewRateLimiter(config.RateLimitConfig{Prefix: "rl", ReadBurst: 30, WriteBurst: 5}, nil)
	req := httptest.NewRequest(http.MethodGet, "/v1/tickets/t1", nil)
	req.Header.Set(echo.HeaderXRealIP, "10.0.0.1")
	c := echo.New().NewContext(req, httptest.NewRecorder())

	key, burst := l.bucketKey(c)
	assert.Equal(t, "rl:ip:10.0.0.1:read", key)
	assert.Equal(t, 30, burst)
}

type obsRecorder struct{ routes []string }

func (o *obsRecorder) ObserveHTTP(method, route, status string, _ time.Duration) {
	o.routes = append(o.routes, method+" "+route+" "+status)
}

func TestRequestLoggingAndRecover(t *testing.T) {
	var buf bytes.Buffer
	logger.InitTo(&buf, "info", "json")
	obs := &obsRecorder{}

	e := echo.New()
	e.Use(RequestID(), RequestLogger(obs), Recover(logger.Get()))
	e.GET("/boom", func(c echo.Context) error { panic("kaboom") })

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	req.Header.Set(echo.HeaderXRequestID, "req-42")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "req-42", rec.Header().Get(echo.HeaderXRequestID))
	assert.Contains(t, buf.String(), "PANIC recovered")
	assert.Contains(t, buf.String(), `"request_id":"req-42"`)
	assert.Equal(t, []string{"GET /boom 500"}, obs.routes)
}
