package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/yeqown/go-qrcode"

	"github.com/iliyamo/cinema-booking-client/internal/api"
	"github.com/iliyamo/cinema-booking-client/internal/checkout"
	"github.com/iliyamo/cinema-booking-client/internal/logger"
	"github.com/iliyamo/cinema-booking-client/internal/middleware"
	"github.com/iliyamo/cinema-booking-client/internal/queue"
	"github.com/iliyamo/cinema-booking-client/internal/service"
	"github.com/iliyamo/cinema-booking-client/internal/utils"
)

// TicketHandler serves ticket details, the entry QR code and payment.
type TicketHandler struct {
	Backend   *api.Client
	Publisher service.Publisher
	// QRSecret seals QR payloads.  QR codes are unavailable when empty.
	QRSecret       string
	PublishTimeout time.Duration
}

func NewTicketHandler(b *api.Client, pub service.Publisher, qrSecret string) *TicketHandler {
	return &TicketHandler{Backend: b, Publisher: pub, QRSecret: qrSecret, PublishTimeout: 5 * time.Second}
}

// qrPayload is what the entry scanner reads after opening the seal.
type qrPayload struct {
	TicketID   string `json:"ticket_id"`
	UserID     string `json:"user_id"`
	ShowtimeID string `json:"showtime_id"`
	Seats      int    `json:"seats"`
	IssuedAt   int64  `json:"iat"`
}

// GetTicket returns one of the caller's tickets.
func (h *TicketHandler) GetTicket(c echo.Context) error {
	t, err := h.Backend.WithToken(middleware.Token(c)).GetTicket(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, t)
}

// QR renders the ticket as a JPEG QR code holding a sealed payload.  The
// ticket is fetched first so only its owner gets a code.
func (h *TicketHandler) QR(c echo.Context) error {
	if h.QRSecret == "" {
		return c.JSON(http.StatusNotImplemented, echo.Map{"error": "qr_disabled", "message": "Ticket QR codes are not available."})
	}
	ctx := c.Request().Context()
	t, err := h.Backend.WithToken(middleware.Token(c)).GetTicket(ctx, c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}

	raw, err := json.Marshal(qrPayload{
		TicketID:   t.ID,
		UserID:     middleware.UserID(c),
		ShowtimeID: t.ShowtimeID,
		Seats:      len(t.Seats),
		IssuedAt:   time.Now().Unix(),
	})
	if err != nil {
		return writeError(c, err)
	}
	sealed, err := utils.Seal(h.QRSecret, raw)
	if err != nil {
		return writeError(c, err)
	}
	qrc, err := qrcode.New(sealed)
	if err != nil {
		return writeError(c, err)
	}

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "image/jpeg")
	res.Header().Set(echo.HeaderContentDisposition, `inline; filename="eticket.jpeg"`)
	res.WriteHeader(http.StatusOK)
	if err := qrc.SaveTo(res); err != nil {
		logger.WithContext(ctx).Error("ticket: qr render failed", "ticket_id", t.ID, "error", err)
	}
	return nil
}

// payRequest is the body of POST /v1/tickets/:id/pay.
type payRequest struct {
	Method string `json:"method" validate:"required"`
}

// Pay starts a payment and returns the gateway URL the UI should open.
func (h *TicketHandler) Pay(c echo.Context) error {
	var req payRequest
	if err := bindValid(c, &req); err != nil {
		return writeError(c, err)
	}
	ticketID := c.Param("id")
	url, err := checkout.NewService(h.Backend.WithToken(middleware.Token(c))).Pay(c.Request().Context(), ticketID, req.Method)
	if err != nil {
		return writeError(c, err)
	}

	publishEvent(c, h.Publisher, queue.PaymentCreatedEvent{
		UserID:    middleware.UserID(c),
		TicketID:  ticketID,
		Method:    req.Method,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}, h.PublishTimeout)
	return c.JSON(http.StatusOK, echo.Map{"method": req.Method, "url": url})
}

// PaymentMethods lists payment options with their support flag.
func PaymentMethods(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"items": checkout.Methods()})
}
