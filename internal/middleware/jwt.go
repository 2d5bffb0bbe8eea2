package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-booking-client/internal/logger"
	"github.com/iliyamo/cinema-booking-client/internal/utils"
)

// Context keys set by JWTAuth and OptionalJWT.
const (
	ctxUserID   = "user_id"
	ctxRole     = "role"
	ctxIdentity = "identity"
)

// JWTAuth returns an Echo middleware that requires a bearer token issued
// by the cinema backend.  When secret is set the HS256 signature is
// verified; otherwise the token is only decoded.  Handlers read the
// caller through Identity, UserID and Token.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return bearer(secret, true)
}

// OptionalJWT is JWTAuth for routes that also serve anonymous callers.  A
// missing header passes through; a malformed token is still rejected.
func OptionalJWT(secret string) echo.MiddlewareFunc {
	return bearer(secret, false)
}

func bearer(secret string, required bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				if !required {
					return next(c)
				}
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized", "message": "missing bearer token"})
			}
			raw := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))

			id, err := utils.ParseIdentity(raw, secret)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized", "message": "invalid token"})
			}

			c.Set(ctxIdentity, id)
			c.Set(ctxUserID, id.UserID)
			c.Set(ctxRole, id.Role)
			req := c.Request()
			c.SetRequest(req.WithContext(logger.ContextWithUserID(req.Context(), id.UserID)))
			return next(c)
		}
	}
}
