package queue

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConsumer(t *testing.T) *Consumer {
	t.Helper()
	c := NewConsumer("", slog.New(slog.NewTextHandler(io.Discard, nil)))
	c.LogPath = filepath.Join(t.TempDir(), "logs", "booking.log")
	return c
}

func TestHandleAppendsOneLinePerEvent(t *testing.T) {
	c := testConsumer(t)

	require.NoError(t, c.Handle(BookingSubmittedQueue, []byte(`{"session_id":"s1","user_id":"u1","movie_id":"m1","hall_id":"h1","showtime_id":"st1","seat_ids":["A1","A2"],"booking_ids":["b1","b2"],"seat_total":170000,"submitted_at":"2025-06-01T12:00:00Z"}`)))
	require.NoError(t, c.Handle(TicketCreatedQueue, []byte(`{"ticket_id":"t1","user_id":"u1","seat_total":170000,"concession_total":45000,"items":1,"booking_ids":["b1","b2"]}`)))
	require.NoError(t, c.Handle(PaymentCreatedQueue, []byte(`{"ticket_id":"t1","user_id":"u1","method":"zalopay"}`)))

	raw, err := os.ReadFile(c.LogPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "Seats booked")
	assert.Contains(t, lines[0], "seats=[A1,A2]")
	assert.Contains(t, lines[0], "total=170000")
	assert.Contains(t, lines[1], "ticket_id=t1")
	assert.Contains(t, lines[2], "method=zalopay")
}

func TestHandleRejectsMalformed(t *testing.T) {
	c := testConsumer(t)
	assert.Error(t, c.Handle(BookingSubmittedQueue, []byte(`{not json`)))
	assert.Error(t, c.Handle("booking.unknown", []byte(`{}`)))
	_, err := os.Stat(c.LogPath)
	assert.True(t, os.IsNotExist(err))
}

func TestEventsRouteToOwnQueues(t *testing.T) {
	assert.Equal(t, BookingSubmittedQueue, BookingSubmittedEvent{}.Queue())
	assert.Equal(t, TicketCreatedQueue, TicketCreatedEvent{}.Queue())
	assert.Equal(t, PaymentCreatedQueue, PaymentCreatedEvent{}.Queue())
}
