package api

import (
	"errors"
	"fmt"
	"net/http"
)

// TransportError reports that a request never produced a usable HTTP
// response: dial failures, timeouts, cancelled contexts and unreadable
// bodies all end up here.
type TransportError struct {
	Endpoint string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// MessageError is a logical failure reported by the backend.  The backend
// signals these with a top-level "message" field, sometimes alongside a
// 2xx status, so Status may be 200.
type MessageError struct {
	Endpoint string
	Status   int
	Message  string
}

func (e *MessageError) Error() string {
	return e.Message
}

// IsUnauthorized reports whether err is a backend rejection of the bearer
// credential.
func IsUnauthorized(err error) bool {
	var me *MessageError
	return errors.As(err, &me) && me.Status == http.StatusUnauthorized
}

// IsTransport reports whether err came from the network layer rather than
// from the backend.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
