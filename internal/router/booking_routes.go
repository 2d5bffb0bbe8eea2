package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-booking-client/internal/handler"
	"github.com/iliyamo/cinema-booking-client/internal/middleware"
)

// RegisterBooking registers the booking session and ticket endpoints.
// Every route requires a bearer token; sessions are only visible to the
// user who opened them.  limit is applied to the whole group.
func RegisterBooking(e *echo.Echo, s *handler.SessionHandler, t *handler.TicketHandler, jwtSecret string, limit echo.MiddlewareFunc) {
	g := e.Group("/v1", middleware.JWTAuth(jwtSecret), limit)

	g.POST("/sessions", s.Open)
	g.GET("/sessions/:id", s.Get)
	g.DELETE("/sessions/:id", s.Close)
	g.POST("/sessions/:id/refresh", s.Refresh)
	g.POST("/sessions/:id/seats/:seat_id/tap", s.Tap)
	g.POST("/sessions/:id/seats/:seat_id/cancel", s.Cancel)
	g.DELETE("/sessions/:id/selection", s.ClearSelection)
	g.GET("/sessions/:id/quote", s.Quote)
	g.POST("/sessions/:id/submit", s.Submit)
	g.POST("/sessions/:id/ticket", s.CreateTicket)

	g.GET("/tickets/:id", t.GetTicket)
	g.GET("/tickets/:id/qr", t.QR)
	g.POST("/tickets/:id/pay", t.Pay)
}
