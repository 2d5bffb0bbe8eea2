package booking

import (
	"errors"

	"github.com/iliyamo/cinema-booking-client/internal/api"
)

var (
	// ErrEmptySelection rejects a quote or submission with no seats.
	ErrEmptySelection = errors.New("no seats selected")
	// ErrPriceUnknown rejects a quote or submission before the showtime
	// price is known.
	ErrPriceUnknown = errors.New("seat price unknown")
	// ErrSubmitInFlight rejects a submission while another is outstanding.
	ErrSubmitInFlight = errors.New("a booking submission is already in progress")
	// ErrSeatNotFound is returned for a seat ID absent from the seat map.
	ErrSeatNotFound = errors.New("seat not found")
	// ErrBlocked is returned when the policy forbids touching a seat.
	ErrBlocked = errors.New("seat cannot be selected")
	// ErrNotCancellable is returned when cancelling a seat the user does
	// not hold.
	ErrNotCancellable = errors.New("seat is not held by you")
)

// Notice turns any error of the booking flow into the single line shown to
// the user.  Backend messages are passed through; everything else gets a
// fixed text.
func Notice(err error) string {
	var me *api.MessageError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrEmptySelection):
		return "Please select at least one seat."
	case errors.Is(err, ErrPriceUnknown):
		return "Seat price is not available. Please try again later."
	case errors.Is(err, ErrSubmitInFlight):
		return "Your booking is being processed."
	case errors.Is(err, ErrSeatNotFound):
		return "This seat no longer exists. Please refresh the seat map."
	case errors.Is(err, ErrBlocked):
		return "This seat cannot be selected."
	case errors.Is(err, ErrNotCancellable):
		return "Only seats you hold can be cancelled."
	case api.IsTransport(err):
		return "Cannot reach the server. Please try again."
	case errors.As(err, &me) && me.Message != "":
		return me.Message
	default:
		return "Something went wrong. Please try again."
	}
}
