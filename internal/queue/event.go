// Package queue defines the booking events exchanged over the message
// broker and the consumer that records them.
package queue

import (
	"fmt"
	"strings"
)

// Queue names.  Each event type has its own durable queue.
const (
	BookingSubmittedQueue = "booking.submitted"
	TicketCreatedQueue    = "ticket.created"
	PaymentCreatedQueue   = "payment.created"
)

// Queues lists every queue the consumer reads.
var Queues = []string{BookingSubmittedQueue, TicketCreatedQueue, PaymentCreatedQueue}

// Event is a message published to one queue.
type Event interface {
	Queue() string
	// LogLine renders the event as one line of logs/booking.log, without
	// the trailing newline.
	LogLine() string
}

// BookingSubmittedEvent is published after the backend accepted a seat
// booking submission.
type BookingSubmittedEvent struct {
	SessionID   string   `json:"session_id"`
	UserID      string   `json:"user_id"`
	MovieID     string   `json:"movie_id"`
	HallID      string   `json:"hall_id"`
	ShowtimeID  string   `json:"showtime_id"`
	SeatIDs     []string `json:"seat_ids"`
	BookingIDs  []string `json:"booking_ids"`
	SeatTotal   int64    `json:"seat_total"`
	SubmittedAt string   `json:"submitted_at"`
}

func (BookingSubmittedEvent) Queue() string { return BookingSubmittedQueue }

func (e BookingSubmittedEvent) LogLine() string {
	return fmt.Sprintf("[%s] Seats booked | session_id=%s | user_id=%s | movie_id=%s | hall_id=%s | showtime_id=%s | total=%d | seats=%s | bookings=%s",
		e.SubmittedAt, e.SessionID, e.UserID, e.MovieID, e.HallID, e.ShowtimeID, e.SeatTotal, list(e.SeatIDs), list(e.BookingIDs))
}

// TicketCreatedEvent is published after bookings and concessions were
// turned into a ticket.
type TicketCreatedEvent struct {
	SessionID       string   `json:"session_id"`
	UserID          string   `json:"user_id"`
	TicketID        string   `json:"ticket_id"`
	BookingIDs      []string `json:"booking_ids"`
	SeatTotal       int64    `json:"seat_total"`
	ConcessionTotal int64    `json:"concession_total"`
	Items           int      `json:"items"`
	CreatedAt       string   `json:"created_at"`
}

func (TicketCreatedEvent) Queue() string { return TicketCreatedQueue }

func (e TicketCreatedEvent) LogLine() string {
	return fmt.Sprintf("[%s] Ticket created | ticket_id=%s | session_id=%s | user_id=%s | seat_total=%d | concession_total=%d | items=%d | bookings=%s",
		e.CreatedAt, e.TicketID, e.SessionID, e.UserID, e.SeatTotal, e.ConcessionTotal, e.Items, list(e.BookingIDs))
}

// PaymentCreatedEvent is published when a payment redirect was obtained.
type PaymentCreatedEvent struct {
	UserID    string `json:"user_id"`
	TicketID  string `json:"ticket_id"`
	Method    string `json:"method"`
	CreatedAt string `json:"created_at"`
}

func (PaymentCreatedEvent) Queue() string { return PaymentCreatedQueue }

func (e PaymentCreatedEvent) LogLine() string {
	return fmt.Sprintf("[%s] Payment started | ticket_id=%s | user_id=%s | method=%s",
		e.CreatedAt, e.TicketID, e.UserID, e.Method)
}

func list(ids []string) string {
	return "[" + strings.Join(ids, ",") + "]"
}
