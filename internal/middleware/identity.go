package middleware

// identity.go holds accessors for what JWTAuth stores in the Echo context.

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-booking-client/internal/utils"
)

// Identity returns the authenticated caller, if any.
func Identity(c echo.Context) (utils.Identity, bool) {
	id, ok := c.Get(ctxIdentity).(utils.Identity)
	return id, ok
}

// UserID returns the authenticated user ID or "" for anonymous callers.
func UserID(c echo.Context) string {
	s, _ := c.Get(ctxUserID).(string)
	return s
}

// Token returns the caller's raw bearer token or "".
func Token(c echo.Context) string {
	id, _ := Identity(c)
	return id.Token
}
