package booking

import (
	"time"

	"github.com/iliyamo/cinema-booking-client/internal/model"
)

// OverlayEntry is one local, not yet confirmed change to a seat.  Base is
// the authoritative record the change was applied over.
type OverlayEntry struct {
	Local     model.Seat `json:"local"`
	Base      model.Seat `json:"base"`
	AppliedAt time.Time  `json:"applied_at"`
}

// Overlay holds optimistic seat changes keyed by seat ID.  It lives only
// until the next authoritative fetch: on reconcile the server wins.
type Overlay map[string]OverlayEntry

// Conflict is an optimistic change the server did not confirm.  Server is
// nil when the seat vanished from the seat map.
type Conflict struct {
	SeatID string      `json:"seat_id"`
	Local  model.Seat  `json:"local"`
	Server *model.Seat `json:"server"`
}

// View returns seats with the overlay applied.  The input is not modified.
func (o Overlay) View(seats []model.Seat) []model.Seat {
	out := make([]model.Seat, len(seats))
	copy(out, seats)
	if len(o) == 0 {
		return out
	}
	for i, s := range out {
		if e, ok := o[s.ID]; ok {
			out[i] = e.Local
		}
	}
	return out
}

// Reconcile compares every entry with a fresh authoritative seat map and
// reports the entries the server disagrees with.  The caller discards the
// overlay afterwards whatever the result.
func (o Overlay) Reconcile(fresh []model.Seat) []Conflict {
	if len(o) == 0 {
		return nil
	}
	byID := make(map[string]model.Seat, len(fresh))
	for _, s := range fresh {
		byID[s.ID] = s
	}
	var out []Conflict
	for id, e := range o {
		srv, ok := byID[id]
		if !ok {
			out = append(out, Conflict{SeatID: id, Local: e.Local})
			continue
		}
		if srv.Status != e.Local.Status || srv.Owner() != e.Local.Owner() {
			s := srv
			out = append(out, Conflict{SeatID: id, Local: e.Local, Server: &s})
		}
	}
	return out
}
