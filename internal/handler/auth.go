package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-booking-client/internal/api"
	"github.com/iliyamo/cinema-booking-client/internal/middleware"
	"github.com/iliyamo/cinema-booking-client/internal/model"
)

// AuthHandler proxies account endpoints to the cinema backend.  The
// backend issues and owns credentials; this service stores none.
type AuthHandler struct {
	Backend *api.Client
}

func NewAuthHandler(b *api.Client) *AuthHandler {
	return &AuthHandler{Backend: b}
}

// Login exchanges credentials for the backend's bearer token and user.
func (h *AuthHandler) Login(c echo.Context) error {
	var req model.Credentials
	if err := bindValid(c, &req); err != nil {
		return writeError(c, err)
	}
	req.Identifier = strings.TrimSpace(req.Identifier)

	u, err := h.Backend.Login(c.Request().Context(), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, u)
}

// Register creates an account.  The backend answers with a verification
// notice that is passed through as the message.
func (h *AuthHandler) Register(c echo.Context) error {
	var req model.Registration
	if err := bindValid(c, &req); err != nil {
		return writeError(c, err)
	}
	msg, err := h.Backend.Register(c.Request().Context(), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"status": "pending_verification", "notice": msg})
}

// Me returns the caller's profile.
func (h *AuthHandler) Me(c echo.Context) error {
	p, err := h.Backend.WithToken(middleware.Token(c)).Me(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

// UpdateMe patches the caller's profile.
func (h *AuthHandler) UpdateMe(c echo.Context) error {
	var req model.ProfileUpdate
	if err := bindValid(c, &req); err != nil {
		return writeError(c, err)
	}
	p, err := h.Backend.WithToken(middleware.Token(c)).UpdateProfile(c.Request().Context(), middleware.UserID(c), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}
