package booking

import "github.com/iliyamo/cinema-booking-client/internal/model"

// Action is what tapping a seat does.
type Action string

const (
	ActionSelect        Action = "select"
	ActionDeselect      Action = "deselect"
	ActionRequestCancel Action = "request_cancel"
	ActionBlocked       Action = "blocked"
)

// Display is how a seat is rendered.  Selected takes precedence over the
// seat's own status.
type Display string

const (
	DisplayAvailable Display = "available"
	DisplaySelected  Display = "selected"
	DisplayBooked    Display = "booked"
	DisplayPending   Display = "pending"
	DisplayUnknown   Display = "unknown"
)

// Decision is the outcome of Decide.
type Decision struct {
	Action  Action  `json:"action"`
	Display Display `json:"display"`
	Mine    bool    `json:"mine"`
	Notice  string  `json:"notice,omitempty"`
}

// Decide maps a seat, the current user and the local selection to the
// allowed tap action and the display state.  It is pure: nothing is
// mutated and nothing is sent.
//
// A seat owned by another user is blocked whatever its status, and so is
// a booked or pending seat with no owner.  The current user's own booked
// or pending seats offer a cancel.  An unrecognised status is blocked.
func Decide(seat model.Seat, userID string, sel *Selection) Decision {
	mine := seat.OwnedBy(userID)
	selected := sel != nil && sel.Contains(seat.ID)

	d := Decision{Display: display(seat, selected), Mine: mine}
	switch {
	case seat.Owner() != "" && !mine:
		d.Action = ActionBlocked
		d.Notice = Notice(ErrBlocked)
	case seat.Status.Held() && mine:
		d.Action = ActionRequestCancel
		d.Notice = "Cancel seat " + seat.Name + "?"
	case seat.Status.Held():
		d.Action = ActionBlocked
		d.Notice = Notice(ErrBlocked)
	case seat.Status != model.SeatEmpty:
		d.Action = ActionBlocked
		d.Notice = Notice(ErrBlocked)
	case selected:
		d.Action = ActionDeselect
	default:
		d.Action = ActionSelect
	}
	return d
}

// Selectable reports whether seat may sit in the selection of userID.
func Selectable(seat model.Seat, userID string) bool {
	a := Decide(seat, userID, nil).Action
	return a == ActionSelect || a == ActionDeselect
}

func display(seat model.Seat, selected bool) Display {
	if selected {
		return DisplaySelected
	}
	switch seat.Status {
	case model.SeatEmpty:
		return DisplayAvailable
	case model.SeatBooked:
		return DisplayBooked
	case model.SeatPending:
		return DisplayPending
	default:
		return DisplayUnknown
	}
}
