package model

// SeatStatus is the backend's status string for a seat.
type SeatStatus string

const (
	// SeatEmpty means the seat is available.
	SeatEmpty SeatStatus = "empty"
	// SeatBooked means the seat has been booked by its owner.
	SeatBooked SeatStatus = "booked"
	// SeatPending means the seat is held by its owner awaiting payment.
	SeatPending SeatStatus = "pending"
)

// Held reports whether the status ties the seat to an owner.
func (s SeatStatus) Held() bool {
	return s == SeatBooked || s == SeatPending
}

// Seat is one seat of a showtime's seat map, as returned by
// GET /seats/available.  UserID is nil when no one owns the seat.  The
// backend is the only authority on Status and UserID; a client copy may
// be stale between fetches.
type Seat struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Status      SeatStatus `json:"status"`
	UserID      *string    `json:"user_id"`
	CreatedAt   string     `json:"created_at,omitempty"`
	UpdatedAt   string     `json:"updated_at,omitempty"`
}

// OwnedBy reports whether the seat belongs to userID.  An empty userID
// never owns anything.
func (s Seat) OwnedBy(userID string) bool {
	return userID != "" && s.UserID != nil && *s.UserID == userID
}

// Owner returns the owning user ID or "" when the seat has none.
func (s Seat) Owner() string {
	if s.UserID == nil {
		return ""
	}
	return *s.UserID
}
