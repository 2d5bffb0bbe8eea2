package repository

import (
	"context"
	"time"

	"github.com/iliyamo/cinema-booking-client/internal/booking"
)

// SessionRecord is one stored booking session.  Besides the booking state
// it keeps the bookings made so far and not yet ticketed.
type SessionRecord struct {
	State      *booking.State `json:"state"`
	BookingIDs []string       `json:"booking_ids,omitempty"`
	SeatTotal  int64          `json:"seat_total,omitempty"`
	TicketIDs  []string       `json:"ticket_ids,omitempty"`
	// TokenDigest binds the session to the opening bearer token when
	// tokens are not verified locally.
	TokenDigest string `json:"token_digest,omitempty"`
}

// AddSubmission records a successful submission.
func (r *SessionRecord) AddSubmission(sub *booking.Submission) {
	r.BookingIDs = append(r.BookingIDs, sub.BookingIDs...)
	r.SeatTotal += sub.SeatTotal
}

// TakeBookings hands the pending bookings to a ticket and resets them.
func (r *SessionRecord) TakeBookings(ticketID string) {
	r.BookingIDs = nil
	r.SeatTotal = 0
	r.TicketIDs = append(r.TicketIDs, ticketID)
}

// Unlock releases a session lock.
type Unlock func(ctx context.Context) error

// SessionStore persists session records with a sliding TTL and hands out
// short per-session mutation locks.  holder names the operation taking the
// lock; a busy lock fails with a *LockedError naming the current holder.
type SessionStore interface {
	Get(ctx context.Context, id string) (*SessionRecord, error)
	Put(ctx context.Context, rec *SessionRecord) error
	Delete(ctx context.Context, id string) error
	Lock(ctx context.Context, id, holder string, ttl time.Duration) (Unlock, error)
}
