package booking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/iliyamo/cinema-booking-client/internal/model"
)

// ErrNoBookings is returned when the backend accepts a submission but
// returns no booking records.
var ErrNoBookings = errors.New("backend returned no booking records")

// Backend is the part of the REST client a booking session talks to.
// *api.Client satisfies it.
type Backend interface {
	AvailableSeats(ctx context.Context, show model.ShowContext) ([]model.Seat, error)
	GetShowtime(ctx context.Context, id string) (*model.Showtime, error)
	BookSeats(ctx context.Context, req model.BookingRequest) ([]model.SeatBooking, error)
	ReleaseSeat(ctx context.Context, seatID string) error
}

// State is everything one booking-screen visit owns.  It is plain data so
// it can be stored between requests and handed to a new Session.
//
// Fields:
//   - ID:           session identifier.
//   - UserID:       the signed-in user; empty when unknown.
//   - Show:         the screening the seat map belongs to.
//   - PricePerSeat: nil until the showtime has been fetched.
//   - Seats:        the last authoritative seat map, backend order.
//   - Overlay:      optimistic changes not yet confirmed by a fetch.
//   - Selection:    seats picked but not submitted.
//   - FetchedAt:    when Seats was last replaced.
type State struct {
	ID           string            `json:"id"`
	UserID       string            `json:"user_id"`
	Show         model.ShowContext `json:"show"`
	PricePerSeat *int64            `json:"price_per_seat"`
	Seats        []model.Seat      `json:"seats"`
	Overlay      Overlay           `json:"overlay,omitempty"`
	Selection    *Selection        `json:"selection"`
	FetchedAt    time.Time         `json:"fetched_at"`
	CreatedAt    time.Time         `json:"created_at"`
}

// NewState returns an empty state for one visit to show.
func NewState(id, userID string, show model.ShowContext) *State {
	return &State{
		ID:        id,
		UserID:    userID,
		Show:      show,
		Overlay:   Overlay{},
		Selection: NewSelection(),
		CreatedAt: time.Now().UTC(),
	}
}

// SeatView is a seat as the screen renders it.
type SeatView struct {
	ID         string           `json:"id"`
	Name       string           `json:"name"`
	Status     model.SeatStatus `json:"status"`
	Display    Display          `json:"display"`
	Mine       bool             `json:"mine"`
	Selectable bool             `json:"selectable"`
	Optimistic bool             `json:"optimistic,omitempty"`
}

// Reconciliation reports what a refresh changed locally.
type Reconciliation struct {
	Conflicts []Conflict `json:"conflicts,omitempty"`
	Pruned    []string   `json:"pruned,omitempty"`
}

// Quote is the locally computed seat total.
type Quote struct {
	SeatIDs      []string `json:"seat_ids"`
	Count        int      `json:"count"`
	PricePerSeat int64    `json:"price_per_seat"`
	Total        int64    `json:"total"`
}

// Submission is the result of a successful booking.
type Submission struct {
	BookingIDs []string `json:"booking_ids"`
	SeatIDs    []string `json:"seat_ids"`
	SeatTotal  int64    `json:"seat_total"`
}

// Session drives one booking-screen visit over a State.  Local operations
// never touch the network.  Network operations run without holding the
// lock so a slow backend never blocks reads.
type Session struct {
	mu         sync.Mutex
	st         *State
	backend    Backend
	submitting bool
	now        func() time.Time
}

// NewSession wraps st.  A nil selection or overlay is initialised.
func NewSession(st *State, backend Backend) *Session {
	if st.Selection == nil {
		st.Selection = NewSelection()
	}
	if st.Overlay == nil {
		st.Overlay = Overlay{}
	}
	return &Session{st: st, backend: backend, now: func() time.Time { return time.Now().UTC() }}
}

// State returns the underlying state.  Callers must not use it while an
// operation is running.
func (s *Session) State() *State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st
}

// Load fetches the seat map and, if still unknown, the seat price.  A
// failed price fetch keeps the new seat map and returns the error with the
// reconciliation; quoting stays unavailable until a later Load succeeds.
func (s *Session) Load(ctx context.Context) (*Reconciliation, error) {
	rec, err := s.Refresh(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	needPrice := s.st.PricePerSeat == nil
	showtimeID := s.st.Show.ShowtimeID
	s.mu.Unlock()
	if !needPrice {
		return rec, nil
	}

	st, err := s.backend.GetShowtime(ctx, showtimeID)
	if err != nil {
		return rec, fmt.Errorf("load showtime price: %w", err)
	}
	price := st.PricePerSeat
	s.mu.Lock()
	s.st.PricePerSeat = &price
	s.mu.Unlock()
	return rec, nil
}

// Refresh replaces the seat map with a fresh authoritative one.  The
// overlay is discarded and every entry the server disagrees with is
// reported.  Selected seats that are no longer selectable are dropped from
// the selection.  On error nothing changes.
func (s *Session) Refresh(ctx context.Context) (*Reconciliation, error) {
	s.mu.Lock()
	show := s.st.Show
	s.mu.Unlock()

	seats, err := s.backend.AvailableSeats(ctx, show)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	rec := &Reconciliation{Conflicts: s.st.Overlay.Reconcile(seats)}
	s.st.Seats = seats
	s.st.Overlay = Overlay{}
	s.st.FetchedAt = s.now()

	byID := make(map[string]model.Seat, len(seats))
	for _, seat := range seats {
		byID[seat.ID] = seat
	}
	for _, id := range s.st.Selection.IDs() {
		seat, ok := byID[id]
		if !ok || !Selectable(seat, s.st.UserID) {
			s.st.Selection.Remove(id)
			rec.Pruned = append(rec.Pruned, id)
		}
	}
	return rec, nil
}

// Seats returns the seat map as rendered: overlay applied, selection
// shown.
func (s *Session) Seats() []SeatView {
	s.mu.Lock()
	defer s.mu.Unlock()
	seats := s.st.Overlay.View(s.st.Seats)
	out := make([]SeatView, 0, len(seats))
	for _, seat := range seats {
		d := Decide(seat, s.st.UserID, s.st.Selection)
		_, optimistic := s.st.Overlay[seat.ID]
		out = append(out, SeatView{
			ID:         seat.ID,
			Name:       seat.Name,
			Status:     seat.Status,
			Display:    d.Display,
			Mine:       d.Mine,
			Selectable: d.Action == ActionSelect || d.Action == ActionDeselect,
			Optimistic: optimistic,
		})
	}
	return out
}

// Tap applies the seat interaction policy to seatID.  Select and deselect
// change the selection; request_cancel and blocked change nothing and
// leave the follow-up to the caller.  The returned decision shows the seat
// after the tap.
func (s *Session) Tap(seatID string) (Decision, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	seat, ok := s.seat(seatID)
	if !ok {
		return Decision{}, ErrSeatNotFound
	}
	d := Decide(seat, s.st.UserID, s.st.Selection)
	switch d.Action {
	case ActionSelect:
		s.st.Selection.Add(seatID)
		d.Display = DisplaySelected
	case ActionDeselect:
		s.st.Selection.Remove(seatID)
		d.Display = display(seat, false)
	}
	return d, nil
}

// ConfirmCancel releases a seat the current user holds.  The seat is shown
// available at once; if the backend refuses, the seat is restored and the
// error returned.
func (s *Session) ConfirmCancel(ctx context.Context, seatID string) error {
	s.mu.Lock()
	seat, ok := s.seat(seatID)
	if !ok {
		s.mu.Unlock()
		return ErrSeatNotFound
	}
	if !seat.Status.Held() || !seat.OwnedBy(s.st.UserID) {
		s.mu.Unlock()
		return ErrNotCancellable
	}
	local := seat
	local.Status = model.SeatEmpty
	local.UserID = nil
	s.st.Overlay[seatID] = OverlayEntry{Local: local, Base: seat, AppliedAt: s.now()}
	wasSelected := s.st.Selection.Remove(seatID)
	s.mu.Unlock()

	if err := s.backend.ReleaseSeat(ctx, seatID); err != nil {
		s.mu.Lock()
		delete(s.st.Overlay, seatID)
		if wasSelected {
			s.st.Selection.Add(seatID)
		}
		s.mu.Unlock()
		return err
	}
	return nil
}

// ClearSelection empties the selection.
func (s *Session) ClearSelection() {
	s.mu.Lock()
	s.st.Selection.Clear()
	s.mu.Unlock()
}

// Quote prices the current selection.
func (s *Session) Quote() (Quote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.quote()
}

func (s *Session) quote() (Quote, error) {
	n := s.st.Selection.Len()
	if n == 0 {
		return Quote{}, ErrEmptySelection
	}
	if s.st.PricePerSeat == nil {
		return Quote{}, ErrPriceUnknown
	}
	price := *s.st.PricePerSeat
	return Quote{
		SeatIDs:      s.st.Selection.IDs(),
		Count:        n,
		PricePerSeat: price,
		Total:        int64(n) * price,
	}, nil
}

// Submit books the selected seats.  Preconditions are checked locally and
// fail without a request.  Only one submission per session may be
// outstanding.  On success the submitted seats leave the selection; on
// failure the selection is untouched.
func (s *Session) Submit(ctx context.Context) (*Submission, error) {
	s.mu.Lock()
	if s.submitting {
		s.mu.Unlock()
		return nil, ErrSubmitInFlight
	}
	q, err := s.quote()
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.submitting = true
	req := model.BookingRequest{
		SeatIDs:    q.SeatIDs,
		MovieID:    s.st.Show.MovieID,
		HallID:     s.st.Show.HallID,
		ShowtimeID: s.st.Show.ShowtimeID,
	}
	s.mu.Unlock()

	bookings, err := s.backend.BookSeats(ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.submitting = false
	if err != nil {
		return nil, err
	}
	if len(bookings) == 0 {
		return nil, ErrNoBookings
	}
	ids := make([]string, 0, len(bookings))
	for _, b := range bookings {
		ids = append(ids, b.ID)
	}
	owner := s.st.UserID
	for _, id := range q.SeatIDs {
		s.st.Selection.Remove(id)
		// booked seats show as held by the user until the next fetch
		if seat, ok := s.seat(id); ok {
			base := seat
			if e, ok := s.st.Overlay[id]; ok {
				base = e.Base
			}
			seat.Status = model.SeatPending
			seat.UserID = &owner
			s.st.Overlay[id] = OverlayEntry{Local: seat, Base: base, AppliedAt: s.now()}
		}
	}
	return &Submission{BookingIDs: ids, SeatIDs: q.SeatIDs, SeatTotal: q.Total}, nil
}

// Submitting reports whether a submission is outstanding.
func (s *Session) Submitting() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submitting
}

func (s *Session) seat(id string) (model.Seat, bool) {
	if e, ok := s.st.Overlay[id]; ok {
		return e.Local, true
	}
	for _, seat := range s.st.Seats {
		if seat.ID == id {
			return seat, true
		}
	}
	return model.Seat{}, false
}
