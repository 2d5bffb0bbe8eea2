package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-booking-client/internal/handler"
	"github.com/iliyamo/cinema-booking-client/internal/metrics"
	"github.com/iliyamo/cinema-booking-client/internal/middleware"
)

// RegisterRoutes registers the unauthenticated operational endpoints:
// the health check and the Prometheus scrape target.
func RegisterRoutes(e *echo.Echo, m *metrics.Metrics) {
	e.GET("/healthz", handler.Health)
	e.GET("/metrics", echo.WrapHandler(m.Handler()))
}

// RegisterAuth registers account routes.  Login and register are open;
// /v1/me requires a bearer token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/login", a.Login)
	g.POST("/register", a.Register)

	me := e.Group("/v1/me", middleware.JWTAuth(jwtSecret))
	me.GET("", a.Me)
	me.PATCH("", a.UpdateMe)
}

// RegisterPublic registers catalog reads.  They serve anonymous callers,
// forward a bearer token when one is sent, and go through the response
// cache.
func RegisterPublic(e *echo.Echo, p *handler.CatalogHandler, jwtSecret string, cache echo.MiddlewareFunc) {
	g := e.Group("/v1", middleware.OptionalJWT(jwtSecret), cache)
	g.GET("/movies", p.ListMovies)
	g.GET("/movies/:id", p.GetMovie)
	g.GET("/movies/:slug/showtimes", p.Showtimes)
	g.GET("/theatres", p.ListTheatres)
	g.GET("/locations", p.ListLocations)
	g.GET("/locations/:slug/theatres", p.TheatresByLocation)
	g.GET("/concessions", p.ListConcessions)
	g.GET("/payment-methods", handler.PaymentMethods)
}
