package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/cinema-booking-client/internal/model"
)

func TestOverlayViewDoesNotTouchInput(t *testing.T) {
	seats := []model.Seat{
		{ID: "A1", Status: model.SeatPending, UserID: owner("u1")},
		{ID: "A2", Status: model.SeatEmpty},
	}
	o := Overlay{"A1": {Local: model.Seat{ID: "A1", Status: model.SeatEmpty}, Base: seats[0]}}

	view := o.View(seats)
	assert.Equal(t, model.SeatEmpty, view[0].Status)
	assert.Nil(t, view[0].UserID)
	assert.Equal(t, model.SeatPending, seats[0].Status)
}

func TestOverlayReconcileReportsDisagreements(t *testing.T) {
	o := Overlay{
		"A1": {Local: model.Seat{ID: "A1", Status: model.SeatEmpty}},
		"A2": {Local: model.Seat{ID: "A2", Status: model.SeatEmpty}},
		"A3": {Local: model.Seat{ID: "A3", Status: model.SeatEmpty}},
	}
	fresh := []model.Seat{
		{ID: "A1", Status: model.SeatEmpty},
		{ID: "A2", Status: model.SeatBooked, UserID: owner("u2")},
	}

	conflicts := o.Reconcile(fresh)
	require.Len(t, conflicts, 2)
	byID := map[string]Conflict{}
	for _, c := range conflicts {
		byID[c.SeatID] = c
	}
	require.NotNil(t, byID["A2"].Server)
	assert.Equal(t, model.SeatBooked, byID["A2"].Server.Status)
	assert.Nil(t, byID["A3"].Server)
}

func TestLayoutSplitsRowsAroundAisle(t *testing.T) {
	seats := make([]SeatView, 30)
	for i := range seats {
		seats[i] = SeatView{ID: string(rune('a' + i%26))}
	}
	rows := Layout(seats, 24)
	require.Len(t, rows, 2)
	assert.Equal(t, "A", rows[0].Label)
	assert.Len(t, rows[0].Left, 12)
	assert.Len(t, rows[0].Right, 12)
	assert.Equal(t, "B", rows[1].Label)
	assert.Len(t, rows[1].Left, 6)
	assert.Empty(t, rows[1].Right)

	assert.Equal(t, "Z", rowLabel(25))
	assert.Equal(t, "AA", rowLabel(26))
}
