package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/iliyamo/cinema-booking-client/internal/model"
)

// registerPendingMessage is how the backend reports a successful
// registration that still awaits email verification.
const registerPendingMessage = "Verification code sent to email"

// ErrNoToken is returned when a login response carries no bearer token.
var ErrNoToken = errors.New("login response carried no token")

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, cred model.Credentials) (*model.AuthUser, error) {
	var u model.AuthUser
	err := c.do(ctx, call{endpoint: "auth.login", method: http.MethodPost, path: "/auth/login", body: cred}, &u)
	if err != nil {
		return nil, err
	}
	if u.Token == "" {
		return nil, ErrNoToken
	}
	u.IsAdmin = u.Role == "admin"
	return &u, nil
}

// Register creates an account.  The returned string is the backend's
// message, if any (typically the verification notice).
func (c *Client) Register(ctx context.Context, reg model.Registration) (string, error) {
	var out struct {
		Message string `json:"message"`
	}
	err := c.do(ctx, call{
		endpoint:     "auth.register",
		method:       http.MethodPost,
		path:         "/auth/register",
		body:         reg,
		keepEnvelope: true,
		okMessages:   []string{registerPendingMessage},
	}, &out)
	if err != nil {
		return "", err
	}
	return out.Message, nil
}

// Me returns the profile of the token's owner.
func (c *Client) Me(ctx context.Context) (*model.UserProfile, error) {
	var p model.UserProfile
	if err := c.do(ctx, call{endpoint: "users.me", method: http.MethodGet, path: "/users/me"}, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateProfile patches the given user's profile.
func (c *Client) UpdateProfile(ctx context.Context, userID string, upd model.ProfileUpdate) (*model.UserProfile, error) {
	var p model.UserProfile
	err := c.do(ctx, call{endpoint: "users.update", method: http.MethodPatch, path: "/users/" + pathID(userID), body: upd}, &p)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
