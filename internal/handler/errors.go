package handler

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-booking-client/internal/api"
	"github.com/iliyamo/cinema-booking-client/internal/booking"
	"github.com/iliyamo/cinema-booking-client/internal/checkout"
	"github.com/iliyamo/cinema-booking-client/internal/logger"
	"github.com/iliyamo/cinema-booking-client/internal/repository"
)

var (
	// errInvalidBody is returned for request bodies that cannot be decoded.
	errInvalidBody = errors.New("invalid request body")
	// errInvalidQuery is returned for malformed query parameters.
	errInvalidQuery = errors.New("invalid query parameter")
)

// failure maps an error to a status, a machine-readable code and the
// notice shown to the user.
func failure(err error) (int, string, string) {
	var (
		me *api.MessageError
		ve validator.ValidationErrors
	)
	switch {
	case errors.Is(err, errInvalidBody):
		return http.StatusBadRequest, "invalid_request", "The request could not be read."
	case errors.Is(err, errInvalidQuery):
		return http.StatusBadRequest, "invalid_request", "A query parameter is invalid."
	case errors.As(err, &ve):
		return http.StatusBadRequest, "invalid_request", validationNotice(ve)
	case errors.Is(err, repository.ErrSessionNotFound):
		return http.StatusNotFound, "session_not_found", "This booking session has expired. Please pick your showtime again."
	case errors.Is(err, repository.ErrForbidden):
		return http.StatusForbidden, "forbidden", "This booking session belongs to another user."
	case errors.Is(err, repository.ErrLocked):
		return http.StatusConflict, "session_busy", "This booking session is busy. Please try again."
	case errors.Is(err, booking.ErrSubmitInFlight):
		return http.StatusConflict, "submit_in_flight", booking.Notice(err)
	case errors.Is(err, booking.ErrEmptySelection):
		return http.StatusUnprocessableEntity, "empty_selection", booking.Notice(err)
	case errors.Is(err, booking.ErrPriceUnknown):
		return http.StatusUnprocessableEntity, "price_unknown", booking.Notice(err)
	case errors.Is(err, booking.ErrSeatNotFound):
		return http.StatusNotFound, "seat_not_found", booking.Notice(err)
	case errors.Is(err, booking.ErrNotCancellable):
		return http.StatusConflict, "not_cancellable", booking.Notice(err)
	case errors.Is(err, booking.ErrNoBookings):
		return http.StatusBadGateway, "no_bookings", "The booking was not confirmed. Please try again."
	case errors.Is(err, checkout.ErrNoBookings):
		return http.StatusUnprocessableEntity, "no_bookings", "Book your seats before ordering the ticket."
	case errors.Is(err, checkout.ErrUnknownItem):
		return http.StatusUnprocessableEntity, "unknown_item", "A snack in your order is no longer on the menu."
	case errors.Is(err, checkout.ErrUnsupportedMethod):
		return http.StatusBadRequest, "unsupported_method", "This payment method is not supported yet."
	case errors.Is(err, checkout.ErrNoPaymentURL):
		return http.StatusBadGateway, "no_payment_url", "No payment link was received. Please try again."
	case api.IsTransport(err):
		return http.StatusBadGateway, "backend_unreachable", booking.Notice(err)
	case errors.As(err, &me):
		status := me.Status
		if status < http.StatusBadRequest {
			status = http.StatusUnprocessableEntity
		}
		return status, "backend_rejected", booking.Notice(err)
	default:
		return http.StatusInternalServerError, "internal", booking.Notice(err)
	}
}

// writeError renders err in the {"error", "message"} shape and logs
// server-side failures.
func writeError(c echo.Context, err error) error {
	status, code, notice := failure(err)
	if status >= http.StatusInternalServerError {
		logger.WithContext(c.Request().Context()).Error("request failed", "code", code, "error", err)
	}
	return c.JSON(status, echo.Map{"error": code, "message": notice})
}

func validationNotice(ve validator.ValidationErrors) string {
	if len(ve) == 0 {
		return "The request is invalid."
	}
	fe := ve[0]
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required."
	case "min":
		return fe.Field() + " must be at least " + fe.Param() + " characters."
	default:
		return fe.Field() + " is invalid."
	}
}
