package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/iliyamo/cinema-booking-client/internal/model"
)

// AvailableSeats fetches the seat map of a screening.  Despite the path,
// the backend returns every seat with its current status and owner.
func (c *Client) AvailableSeats(ctx context.Context, show model.ShowContext) ([]model.Seat, error) {
	v := url.Values{}
	v.Set("movie_id", show.MovieID)
	v.Set("hall_id", show.HallID)
	v.Set("showtime_id", show.ShowtimeID)
	var out []model.Seat
	if err := c.do(ctx, call{endpoint: "seats.available", method: http.MethodGet, path: "/seats/available", query: v}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// BookSeats submits a booking and returns one record per booked seat.
func (c *Client) BookSeats(ctx context.Context, req model.BookingRequest) ([]model.SeatBooking, error) {
	var out []model.SeatBooking
	if err := c.do(ctx, call{endpoint: "seats.book", method: http.MethodPost, path: "/seats/seat-booking", body: req}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ReleaseSeat asks the backend to drop the caller's hold on a seat.
func (c *Client) ReleaseSeat(ctx context.Context, seatID string) error {
	return c.do(ctx, call{endpoint: "seats.release", method: http.MethodDelete, path: "/seats/" + pathID(seatID)}, nil)
}
