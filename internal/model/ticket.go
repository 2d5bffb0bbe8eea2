package model

// TicketRequest is the body of POST /tickets.  It turns seat bookings and
// a concession cart into a single payable ticket.  Concessions is always
// sent, as an empty list when nothing was ordered.
type TicketRequest struct {
	SeatTotalPrice       int64            `json:"seat_total_price"`
	ConcessionTotalPrice int64            `json:"concession_total_price"`
	SeatBookingIDs       []string         `json:"seat_booking_ids"`
	Concessions          []ConcessionLine `json:"concessions"`
}

// TicketSeat is a booked seat as embedded in a ticket.
type TicketSeat struct {
	ID     string `json:"id"`
	Seat   Seat   `json:"seat"`
	Status string `json:"status"`
}

// TicketConcession is an ordered concession as embedded in a ticket.
type TicketConcession struct {
	Item       ConcessionItem `json:"item"`
	Quantity   int            `json:"quantity"`
	TotalPrice string         `json:"total_price"`
}

// Ticket is a payable order.  Totals are decimal strings.
type Ticket struct {
	ID                   string             `json:"id"`
	UserID               string             `json:"user_id"`
	SeatTotalPrice       string             `json:"seat_total_price"`
	ConcessionTotalPrice string             `json:"concession_total_price"`
	TotalPrice           string             `json:"total_price"`
	MovieID              string             `json:"movie_id"`
	HallID               string             `json:"hall_id"`
	ShowtimeID           string             `json:"showtime_id"`
	Seats                []TicketSeat       `json:"seats,omitempty"`
	Movie                *Movie             `json:"movie,omitempty"`
	Hall                 *Hall              `json:"hall,omitempty"`
	Showtime             *Showtime          `json:"showtime,omitempty"`
	Concessions          []TicketConcession `json:"concessions,omitempty"`
}
