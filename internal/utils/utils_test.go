package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIdentityVerified(t *testing.T) {
	tok, err := SignIdentity("s3cret", "u1", "user", time.Hour)
	require.NoError(t, err)

	id, err := ParseIdentity(tok, "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "u1", id.UserID)
	assert.Equal(t, "user", id.Role)
	assert.Equal(t, tok, id.Token)

	_, err = ParseIdentity(tok, "other")
	assert.Error(t, err)
}

func TestParseIdentityDecodeOnly(t *testing.T) {
	tok, err := SignIdentity("backend-only", "u2", "admin", time.Hour)
	require.NoError(t, err)

	id, err := ParseIdentity(tok, "")
	require.NoError(t, err)
	assert.Equal(t, "u2", id.UserID)

	expired, err := SignIdentity("backend-only", "u2", "admin", -time.Minute)
	require.NoError(t, err)
	_, err = ParseIdentity(expired, "")
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestParseIdentityClaimFallbacks(t *testing.T) {
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"id": float64(42)}).SignedString([]byte("k"))
	require.NoError(t, err)
	id, err := ParseIdentity(tok, "k")
	require.NoError(t, err)
	assert.Equal(t, "42", id.UserID)

	tok, err = jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"role": "user"}).SignedString([]byte("k"))
	require.NoError(t, err)
	_, err = ParseIdentity(tok, "k")
	assert.ErrorIs(t, err, ErrNoSubject)
}

func TestSealRoundTrip(t *testing.T) {
	sealed, err := Seal("qr-key", []byte(`{"ticket_id":"t1"}`))
	require.NoError(t, err)

	msg, err := Open("qr-key", sealed)
	require.NoError(t, err)
	assert.Equal(t, `{"ticket_id":"t1"}`, string(msg))

	_, err = Open("wrong", sealed)
	assert.ErrorIs(t, err, ErrSealBroken)
	_, err = Open("qr-key", "!!")
	assert.ErrorIs(t, err, ErrSealBroken)
}
