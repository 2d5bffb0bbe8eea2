package model

// BookingRequest is the body of POST /seats/seat-booking.  It is built
// once per submission from the local selection.
type BookingRequest struct {
	SeatIDs    []string `json:"seat_ids"`
	MovieID    string   `json:"movie_id"`
	HallID     string   `json:"hall_id"`
	ShowtimeID string   `json:"showtime_id"`
}

// SeatBooking is one booking record returned for a submitted seat.  Its ID
// feeds the ticket request.
type SeatBooking struct {
	ID         string     `json:"id"`
	SeatID     string     `json:"seat_id,omitempty"`
	UserID     string     `json:"user_id,omitempty"`
	ShowtimeID string     `json:"showtime_id,omitempty"`
	Status     SeatStatus `json:"status,omitempty"`
}
