package model

// Showtime is a scheduled screening of a movie in a hall.  PricePerSeat is
// expressed in whole currency units (VND has no minor unit).
type Showtime struct {
	ID             string `json:"id"`
	MovieID        string `json:"movie_id,omitempty"`
	HallID         string `json:"hall_id,omitempty"`
	ShowtimeDate   string `json:"showtime_date"`
	MovieStartTime string `json:"movie_start_time"`
	ShowType       string `json:"show_type"`
	PricePerSeat   int64  `json:"price_per_seat"`
	CreatedAt      string `json:"created_at,omitempty"`
	UpdatedAt      string `json:"updated_at,omitempty"`
}

// ShownIn joins a movie, a showtime and a hall.  It is what the backend
// returns for "where and when is this movie playing".
type ShownIn struct {
	MovieID    string   `json:"movie_id"`
	ShowtimeID string   `json:"showtime_id"`
	HallID     string   `json:"hall_id"`
	Movie      Movie    `json:"movie"`
	Showtime   Showtime `json:"showtime"`
	Hall       Hall     `json:"hall"`
}

// ShowContext identifies the screening a seat map belongs to.  Every seat
// query and booking request carries all three identifiers.
type ShowContext struct {
	MovieID    string `json:"movie_id" validate:"required"`
	HallID     string `json:"hall_id" validate:"required"`
	ShowtimeID string `json:"showtime_id" validate:"required"`
}
