package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-booking-client/internal/logger"
)

// HTTPObserver receives one observation per served request.
type HTTPObserver interface {
	ObserveHTTP(method, route, status string, elapsed time.Duration)
}

// RequestID reuses an incoming X-Request-ID or assigns a new one, echoes
// it on the response and stores it in the request context for
// logger.WithContext.
func RequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			id := req.Header.Get(echo.HeaderXRequestID)
			if id == "" {
				id = logger.NewRequestID()
			}
			c.Response().Header().Set(echo.HeaderXRequestID, id)
			c.SetRequest(req.WithContext(logger.ContextWithRequestID(req.Context(), id)))
			return next(c)
		}
	}
}

// RequestLogger logs every request with method, path, status, latency,
// request ID and user ID, and reports it to obs when non-nil.  Failed
// requests are logged at error level.
func RequestLogger(obs HTTPObserver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			latency := time.Since(start)
			req := c.Request()
			status := c.Response().Status

			fields := []any{
				"method", req.Method,
				"path", req.URL.Path,
				"route", c.Path(),
				"status_code", status,
				"latency_ms", latency.Milliseconds(),
				"client_ip", c.RealIP(),
			}
			if uid := UserID(c); uid != "" {
				fields = append(fields, "user_id", uid)
			}
			log := logger.WithContext(req.Context())
			if status >= http.StatusInternalServerError {
				if err != nil {
					fields = append(fields, "error", err.Error())
				}
				log.Error("request completed with error", fields...)
			} else {
				log.Info("request completed", fields...)
			}
			if obs != nil {
				obs.ObserveHTTP(req.Method, c.Path(), strconv.Itoa(status), latency)
			}
			return nil
		}
	}
}

// Recover turns a panic in a handler into a 500 response and logs it with
// the stack.
func Recover(log *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}
				if r == http.ErrAbortHandler {
					panic(r)
				}
				req := c.Request()
				log.Error("PANIC recovered",
					"panic", fmt.Sprint(r),
					"method", req.Method,
					"path", req.URL.Path,
					"query", req.URL.RawQuery,
					"request_id", logger.RequestID(req.Context()),
					"stack", string(debug.Stack()),
				)
				if !c.Response().Committed {
					err = c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal", "message": "Internal server error"})
				}
			}()
			return next(c)
		}
	}
}
