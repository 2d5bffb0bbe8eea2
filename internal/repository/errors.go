// Package repository stores booking sessions between requests.  These
// sentinel values let handlers tell the failure cases apart.
package repository

import "errors"

// ErrSessionNotFound is returned when a session ID is unknown or its TTL
// has run out.  Handlers translate this into an HTTP 404 response.
var ErrSessionNotFound = errors.New("session not found")

// ErrForbidden is returned when the caller is not the user who opened the
// session.  Handlers translate this into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrLocked is returned when another request holds the session's mutation
// lock.  Handlers translate this into an HTTP 409 response.
var ErrLocked = errors.New("session is busy")

// LockedError is ErrLocked with the operation holding the lock, when the
// store could tell.
type LockedError struct {
	Holder string
}

func (e *LockedError) Error() string {
	if e.Holder == "" {
		return ErrLocked.Error()
	}
	return ErrLocked.Error() + " (" + e.Holder + ")"
}

func (e *LockedError) Is(target error) bool { return target == ErrLocked }
