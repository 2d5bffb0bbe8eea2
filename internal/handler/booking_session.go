package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-booking-client/internal/api"
	"github.com/iliyamo/cinema-booking-client/internal/booking"
	"github.com/iliyamo/cinema-booking-client/internal/checkout"
	"github.com/iliyamo/cinema-booking-client/internal/logger"
	"github.com/iliyamo/cinema-booking-client/internal/middleware"
	"github.com/iliyamo/cinema-booking-client/internal/model"
	"github.com/iliyamo/cinema-booking-client/internal/queue"
	"github.com/iliyamo/cinema-booking-client/internal/repository"
	"github.com/iliyamo/cinema-booking-client/internal/service"
	"github.com/iliyamo/cinema-booking-client/internal/utils"
)

// SessionObserver counts session operations by result.
type SessionObserver interface {
	SessionEvent(op, result string)
}

// SessionHandler drives booking sessions.  Each request loads the
// session's state from the store, applies one operation and writes it
// back; mutating requests hold the session lock for the duration.
type SessionHandler struct {
	Backend   *api.Client
	Store     repository.SessionStore
	Publisher service.Publisher
	Events    SessionObserver
	// LockTTL bounds how long one operation holds the session.  It must
	// outlast the slowest operation; see LockTTLFor.
	LockTTL        time.Duration
	PublishTimeout time.Duration
	// VerifyOpener is set when bearer tokens are decoded but not verified.
	// Open then confirms the caller with the backend, and the session only
	// answers to the token that opened it.
	VerifyOpener bool
}

func NewSessionHandler(b *api.Client, store repository.SessionStore, pub service.Publisher, events SessionObserver) *SessionHandler {
	return &SessionHandler{
		Backend:        b,
		Store:          store,
		Publisher:      pub,
		Events:         events,
		LockTTL:        LockTTLFor(30 * time.Second),
		PublishTimeout: 5 * time.Second,
	}
}

// lockMargin is added on top of the backend calls a locked operation makes.
const lockMargin = 15 * time.Second

// LockTTLFor returns the session lock TTL for a backend timeout.  Refresh
// and ticket creation make two backend calls under the lock.
func LockTTLFor(backendTimeout time.Duration) time.Duration {
	return 2*backendTimeout + lockMargin
}

// opSubmit names the submit operation as a lock holder.
const opSubmit = "submit"

// sessionView is the session as returned to the UI.
type sessionView struct {
	ID             string                  `json:"id"`
	Show           model.ShowContext       `json:"show"`
	PricePerSeat   *int64                  `json:"price_per_seat"`
	Seats          []booking.SeatView      `json:"seats,omitempty"`
	Rows           []booking.Row           `json:"rows,omitempty"`
	Selection      []string                `json:"selection"`
	Quote          *booking.Quote          `json:"quote,omitempty"`
	BookingIDs     []string                `json:"booking_ids,omitempty"`
	SeatTotal      int64                   `json:"seat_total,omitempty"`
	TicketIDs      []string                `json:"ticket_ids,omitempty"`
	FetchedAt      time.Time               `json:"fetched_at"`
	Reconciliation *booking.Reconciliation `json:"reconciliation,omitempty"`
	Notice         string                  `json:"notice,omitempty"`
}

func view(c echo.Context, rec *repository.SessionRecord, sess *booking.Session) sessionView {
	st := sess.State()
	v := sessionView{
		ID:           st.ID,
		Show:         st.Show,
		PricePerSeat: st.PricePerSeat,
		Selection:    st.Selection.IDs(),
		BookingIDs:   rec.BookingIDs,
		SeatTotal:    rec.SeatTotal,
		TicketIDs:    rec.TicketIDs,
		FetchedAt:    st.FetchedAt,
	}
	seats := sess.Seats()
	if c.QueryParam("layout") == "rows" {
		v.Rows = booking.Layout(seats, booking.SeatsPerRow)
	} else {
		v.Seats = seats
	}
	if q, err := sess.Quote(); err == nil {
		v.Quote = &q
	}
	return v
}

func (h *SessionHandler) backend(c echo.Context) *api.Client {
	return h.Backend.WithToken(middleware.Token(c))
}

func (h *SessionHandler) observe(op string, err error) {
	if h.Events == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	h.Events.SessionEvent(op, result)
}

// publishEvent sends ev in the background; a failure is only logged.
func publishEvent(c echo.Context, pub service.Publisher, ev queue.Event, timeout time.Duration) {
	done := service.PublishAsync(pub, ev, timeout)
	log := logger.WithContext(c.Request().Context())
	go func() {
		if err := <-done; err != nil {
			log.Warn("rabbitmq: event dropped", "queue", ev.Queue(), "error", err)
		}
	}()
}

// load reads the session named by the :id param and checks it belongs to
// the caller.
func (h *SessionHandler) load(c echo.Context) (*repository.SessionRecord, error) {
	rec, err := h.Store.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return nil, err
	}
	if rec.State.UserID != middleware.UserID(c) {
		return nil, repository.ErrForbidden
	}
	if h.VerifyOpener && rec.TokenDigest != "" && rec.TokenDigest != utils.TokenDigest(middleware.Token(c)) {
		return nil, repository.ErrForbidden
	}
	return rec, nil
}

// lockConflict reports a busy session as a submission in progress when a
// submit holds the lock.
func lockConflict(err error) error {
	var le *repository.LockedError
	if errors.As(err, &le) && le.Holder == opSubmit {
		return booking.ErrSubmitInFlight
	}
	return err
}

// mutate runs fn under the session lock and stores the session when fn
// succeeds.  A failing fn leaves the stored session untouched.
func (h *SessionHandler) mutate(c echo.Context, op string, fn func(*repository.SessionRecord, *booking.Session) error) (rec *repository.SessionRecord, sess *booking.Session, err error) {
	defer func() { h.observe(op, err) }()
	ctx := c.Request().Context()

	if _, err = h.load(c); err != nil {
		return nil, nil, err
	}
	unlock, err := h.Store.Lock(ctx, c.Param("id"), op, h.LockTTL)
	if err != nil {
		return nil, nil, lockConflict(err)
	}
	defer func() {
		if uerr := unlock(context.WithoutCancel(ctx)); uerr != nil {
			logger.WithContext(ctx).Warn("session: unlock failed", "session_id", c.Param("id"), "error", uerr)
		}
	}()

	// read again under the lock so no concurrent write is lost
	if rec, err = h.load(c); err != nil {
		return nil, nil, err
	}
	sess = booking.NewSession(rec.State, h.backend(c))
	if err = fn(rec, sess); err != nil {
		return rec, sess, err
	}
	if err = h.Store.Put(ctx, rec); err != nil {
		return rec, sess, err
	}
	return rec, sess, nil
}

// Open starts a booking session for a showtime and loads its seat map and
// price.  A failed price lookup still opens the session, with a notice.
func (h *SessionHandler) Open(c echo.Context) error {
	var show model.ShowContext
	if err := bindValid(c, &show); err != nil {
		return writeError(c, err)
	}
	ctx := c.Request().Context()
	log := logger.WithContext(ctx)

	userID := middleware.UserID(c)
	rec := &repository.SessionRecord{}
	if h.VerifyOpener {
		p, err := h.backend(c).Me(ctx)
		if err != nil {
			h.observe("open", err)
			return writeError(c, err)
		}
		if p.ID != userID {
			log.Warn("session: token subject does not match backend user", "user_id", userID)
			h.observe("open", repository.ErrForbidden)
			return writeError(c, repository.ErrForbidden)
		}
		rec.TokenDigest = utils.TokenDigest(middleware.Token(c))
	}

	st := booking.NewState(uuid.NewString(), userID, show)
	sess := booking.NewSession(st, h.backend(c))
	recon, err := sess.Load(ctx)
	if recon == nil {
		h.observe("open", err)
		return writeError(c, err)
	}
	notice := ""
	if err != nil {
		log.Warn("session: price unavailable", "session_id", st.ID, "showtime_id", show.ShowtimeID, "error", err)
		notice = booking.Notice(booking.ErrPriceUnknown)
	}

	rec.State = st
	if err := h.Store.Put(ctx, rec); err != nil {
		h.observe("open", err)
		return writeError(c, err)
	}
	h.observe("open", nil)
	log.Info("session: opened", "session_id", st.ID, "showtime_id", show.ShowtimeID, "seats", len(st.Seats))

	v := view(c, rec, sess)
	v.Notice = notice
	return c.JSON(http.StatusCreated, v)
}

// Get returns the session as last fetched, without contacting the backend.
func (h *SessionHandler) Get(c echo.Context) error {
	rec, err := h.load(c)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, view(c, rec, booking.NewSession(rec.State, h.backend(c))))
}

// Refresh re-fetches the seat map.  The server wins over local changes;
// disagreements and pruned selections are reported.
func (h *SessionHandler) Refresh(c echo.Context) error {
	var (
		recon  *booking.Reconciliation
		notice string
	)
	rec, sess, err := h.mutate(c, "refresh", func(_ *repository.SessionRecord, s *booking.Session) error {
		r, err := s.Load(c.Request().Context())
		if r == nil {
			return err
		}
		recon = r
		if err != nil {
			notice = booking.Notice(booking.ErrPriceUnknown)
		}
		return nil
	})
	if err != nil {
		return writeError(c, err)
	}
	v := view(c, rec, sess)
	v.Reconciliation = recon
	v.Notice = notice
	return c.JSON(http.StatusOK, v)
}

// Tap applies the seat interaction policy to one seat.  Only the local
// selection changes; a request_cancel decision asks the UI to confirm via
// Cancel.
func (h *SessionHandler) Tap(c echo.Context) error {
	var d booking.Decision
	rec, sess, err := h.mutate(c, "tap", func(_ *repository.SessionRecord, s *booking.Session) error {
		var err error
		d, err = s.Tap(c.Param("seat_id"))
		return err
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"decision": d, "session": view(c, rec, sess)})
}

// Cancel releases a seat the caller holds.  The backend's refusal rolls
// the seat back and is reported as the error.
func (h *SessionHandler) Cancel(c echo.Context) error {
	seatID := c.Param("seat_id")
	rec, sess, err := h.mutate(c, "cancel", func(_ *repository.SessionRecord, s *booking.Session) error {
		return s.ConfirmCancel(c.Request().Context(), seatID)
	})
	if err != nil {
		return writeError(c, err)
	}
	logger.WithContext(c.Request().Context()).Info("session: seat released", "session_id", c.Param("id"), "seat_id", seatID)
	return c.JSON(http.StatusOK, view(c, rec, sess))
}

// ClearSelection empties the selection.
func (h *SessionHandler) ClearSelection(c echo.Context) error {
	rec, sess, err := h.mutate(c, "clear", func(_ *repository.SessionRecord, s *booking.Session) error {
		s.ClearSelection()
		return nil
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, view(c, rec, sess))
}

// Quote prices the selection.
func (h *SessionHandler) Quote(c echo.Context) error {
	rec, err := h.load(c)
	if err != nil {
		return writeError(c, err)
	}
	q, err := booking.NewSession(rec.State, h.backend(c)).Quote()
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, q)
}

// Submit books the selected seats.  A second submit while one is running
// gets 409.
func (h *SessionHandler) Submit(c echo.Context) error {
	var sub *booking.Submission
	rec, sess, err := h.mutate(c, opSubmit, func(r *repository.SessionRecord, s *booking.Session) error {
		var err error
		if sub, err = s.Submit(c.Request().Context()); err != nil {
			return err
		}
		r.AddSubmission(sub)
		return nil
	})
	if err != nil {
		return writeError(c, err)
	}

	st := rec.State
	logger.WithContext(c.Request().Context()).Info("session: seats booked",
		"session_id", st.ID, "seats", len(sub.SeatIDs), "seat_total", sub.SeatTotal)
	publishEvent(c, h.Publisher, queue.BookingSubmittedEvent{
		SessionID:   st.ID,
		UserID:      st.UserID,
		MovieID:     st.Show.MovieID,
		HallID:      st.Show.HallID,
		ShowtimeID:  st.Show.ShowtimeID,
		SeatIDs:     sub.SeatIDs,
		BookingIDs:  sub.BookingIDs,
		SeatTotal:   sub.SeatTotal,
		SubmittedAt: time.Now().UTC().Format(time.RFC3339),
	}, h.PublishTimeout)
	return c.JSON(http.StatusCreated, echo.Map{"submission": sub, "session": view(c, rec, sess)})
}

// ticketRequest is the body of POST /v1/sessions/:id/ticket.
type ticketRequest struct {
	Concessions []model.ConcessionLine `json:"concessions" validate:"dive"`
}

// CreateTicket turns the session's bookings and a concession order into a
// ticket.  The bookings are consumed.
func (h *SessionHandler) CreateTicket(c echo.Context) error {
	var req ticketRequest
	if err := bindValid(c, &req); err != nil {
		return writeError(c, err)
	}
	ctx := c.Request().Context()
	cart := checkout.NewCart(req.Concessions...)

	var (
		ticket          *model.Ticket
		seatTotal       int64
		concessionTotal int64
		bookingIDs      []string
	)
	rec, _, err := h.mutate(c, "ticket", func(r *repository.SessionRecord, _ *booking.Session) error {
		b := h.backend(c)
		var items []model.ConcessionItem
		if cart.TotalItems() > 0 {
			var err error
			if items, err = b.ListConcessionItems(ctx); err != nil {
				return err
			}
		}
		t, err := checkout.NewService(b).CreateTicket(ctx, r.BookingIDs, r.SeatTotal, cart, items)
		if err != nil {
			return err
		}
		ticket, seatTotal, bookingIDs = t, r.SeatTotal, r.BookingIDs
		concessionTotal, _ = cart.Total(items)
		r.TakeBookings(t.ID)
		return nil
	})
	if err != nil {
		return writeError(c, err)
	}

	publishEvent(c, h.Publisher, queue.TicketCreatedEvent{
		SessionID:       rec.State.ID,
		UserID:          rec.State.UserID,
		TicketID:        ticket.ID,
		BookingIDs:      bookingIDs,
		SeatTotal:       seatTotal,
		ConcessionTotal: concessionTotal,
		Items:           cart.TotalItems(),
		CreatedAt:       time.Now().UTC().Format(time.RFC3339),
	}, h.PublishTimeout)
	return c.JSON(http.StatusCreated, ticket)
}

// Close abandons a session.  Seats already booked stay booked.  A session
// busy with another operation answers 409 so that operation cannot write
// it back afterwards.
func (h *SessionHandler) Close(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")
	if _, err := h.load(c); err != nil {
		return writeError(c, err)
	}
	unlock, err := h.Store.Lock(ctx, id, "close", h.LockTTL)
	if err != nil {
		h.observe("close", err)
		return writeError(c, lockConflict(err))
	}
	defer func() {
		if uerr := unlock(context.WithoutCancel(ctx)); uerr != nil {
			logger.WithContext(ctx).Warn("session: unlock failed", "session_id", id, "error", uerr)
		}
	}()
	if err := h.Store.Delete(ctx, id); err != nil {
		h.observe("close", err)
		return writeError(c, err)
	}
	h.observe("close", nil)
	return c.NoContent(http.StatusNoContent)
}
