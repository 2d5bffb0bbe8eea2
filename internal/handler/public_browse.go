// Package handler exposes the HTTP handlers of the session service.  This
// file holds the catalog reads: movies, showings, theatres and
// concessions.  They are plain proxies to the backend, cached by the
// response cache middleware.
package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-booking-client/internal/api"
	"github.com/iliyamo/cinema-booking-client/internal/catalog"
	"github.com/iliyamo/cinema-booking-client/internal/middleware"
)

// CatalogHandler serves browse endpoints.
type CatalogHandler struct {
	Backend *api.Client
}

func NewCatalogHandler(b *api.Client) *CatalogHandler {
	return &CatalogHandler{Backend: b}
}

func (h *CatalogHandler) client(c echo.Context) *api.Client {
	if tok := middleware.Token(c); tok != "" {
		return h.Backend.WithToken(tok)
	}
	return h.Backend
}

// ListMovies returns one page of movies.  Query: page, limit, status.
func (h *CatalogHandler) ListMovies(c echo.Context) error {
	q := api.MovieQuery{Status: c.QueryParam("status")}
	var err error
	if q.Page, err = intQuery(c, "page", 1); err != nil {
		return writeError(c, err)
	}
	if q.Limit, err = intQuery(c, "limit", 10); err != nil {
		return writeError(c, err)
	}
	page, err := h.client(c).ListMovies(c.Request().Context(), q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, page)
}

// GetMovie returns one movie.
func (h *CatalogHandler) GetMovie(c echo.Context) error {
	m, err := h.client(c).GetMovie(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, m)
}

// Showtimes lists where and when a movie plays, grouped by date.  The
// optional location query keeps one location only; the location list is
// always computed over every showing.
func (h *CatalogHandler) Showtimes(c echo.Context) error {
	shownIn, err := h.client(c).ListShownIn(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"locations": catalog.Locations(shownIn),
		"days":      catalog.GroupByDate(shownIn, c.QueryParam("location")),
	})
}

// ListTheatres returns every theatre.
func (h *CatalogHandler) ListTheatres(c echo.Context) error {
	ts, err := h.client(c).ListTheatres(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": ts})
}

// ListLocations returns the locations theatres are grouped by.
func (h *CatalogHandler) ListLocations(c echo.Context) error {
	ls, err := h.client(c).ListLocations(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": ls})
}

// TheatresByLocation returns the theatres of one location slug.
func (h *CatalogHandler) TheatresByLocation(c echo.Context) error {
	ts, err := h.client(c).TheatresByLocation(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": ts})
}

// ListConcessions returns the concession menu.
func (h *CatalogHandler) ListConcessions(c echo.Context) error {
	items, err := h.client(c).ListConcessionItems(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

func intQuery(c echo.Context, name string, def int) (int, error) {
	s := c.QueryParam(name)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, errInvalidQuery
	}
	return n, nil
}
