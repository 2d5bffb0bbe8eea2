package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/iliyamo/cinema-booking-client/internal/model"
)

// MovieQuery selects a page of movies.  Status filters by the backend's
// listing tab (e.g. "now-showing", "coming-soon"); empty means all.
type MovieQuery struct {
	Page   int
	Limit  int
	Status string
}

// ListMovies returns one page of the catalog.  Page and Limit default to
// 1 and 10.
func (c *Client) ListMovies(ctx context.Context, q MovieQuery) (*model.MoviePage, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = 10
	}
	v := url.Values{}
	v.Set("page", strconv.Itoa(q.Page))
	v.Set("limit", strconv.Itoa(q.Limit))
	if q.Status != "" {
		v.Set("status", q.Status)
	}
	var page model.MoviePage
	err := c.do(ctx, call{endpoint: "movies.list", method: http.MethodGet, path: "/movies", query: v, keepEnvelope: true}, &page)
	if err != nil {
		return nil, err
	}
	return &page, nil
}

// GetMovie returns a single movie with directors and genres.
func (c *Client) GetMovie(ctx context.Context, id string) (*model.Movie, error) {
	var m model.Movie
	if err := c.do(ctx, call{endpoint: "movies.get", method: http.MethodGet, path: "/movies/" + pathID(id)}, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// ListShowtimes returns every showtime.
func (c *Client) ListShowtimes(ctx context.Context) ([]model.Showtime, error) {
	var out []model.Showtime
	if err := c.do(ctx, call{endpoint: "showtimes.list", method: http.MethodGet, path: "/showtimes"}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetShowtime returns one showtime; its PricePerSeat prices a booking.
func (c *Client) GetShowtime(ctx context.Context, id string) (*model.Showtime, error) {
	var st model.Showtime
	if err := c.do(ctx, call{endpoint: "showtimes.get", method: http.MethodGet, path: "/showtimes/" + pathID(id)}, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

// ListShownIn returns the showings of the movie whose slug is slugName.
func (c *Client) ListShownIn(ctx context.Context, slugName string) ([]model.ShownIn, error) {
	v := url.Values{}
	if slugName != "" {
		v.Set("slug_name", slugName)
	}
	var out []model.ShownIn
	if err := c.do(ctx, call{endpoint: "shownin.list", method: http.MethodGet, path: "/shown-in", query: v}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListTheatres returns every theatre.
func (c *Client) ListTheatres(ctx context.Context) ([]model.Theatre, error) {
	var out []model.Theatre
	if err := c.do(ctx, call{endpoint: "theatres.list", method: http.MethodGet, path: "/theatre"}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListLocations returns the distinct theatre locations.
func (c *Client) ListLocations(ctx context.Context) ([]model.Location, error) {
	var out []model.Location
	if err := c.do(ctx, call{endpoint: "theatres.locations", method: http.MethodGet, path: "/theatre/locations"}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// TheatresByLocation returns the theatres at a location slug.
func (c *Client) TheatresByLocation(ctx context.Context, slug string) ([]model.Theatre, error) {
	var out []model.Theatre
	err := c.do(ctx, call{endpoint: "theatres.by_location", method: http.MethodGet, path: "/theatre/location/" + pathID(slug)}, &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ListConcessionItems returns the concession menu.
func (c *Client) ListConcessionItems(ctx context.Context) ([]model.ConcessionItem, error) {
	var out []model.ConcessionItem
	if err := c.do(ctx, call{endpoint: "concessions.list", method: http.MethodGet, path: "/concession-items"}, &out); err != nil {
		return nil, err
	}
	return out, nil
}
