package model

// Director links a director's name to a movie.
type Director struct {
	MovieID  string `json:"movie_id"`
	Director string `json:"director"`
}

// Genre links a genre label to a movie.
type Genre struct {
	MovieID string `json:"movie_id"`
	Genre   string `json:"genre"`
}

// Movie is a film in the catalog.  Most descriptive fields are strings
// because the backend sends them as such (duration and rating included).
type Movie struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Slug        string     `json:"slug"`
	ImagePath   string     `json:"image_path"`
	Language    string     `json:"language"`
	Synopsis    string     `json:"synopsis"`
	Rating      string     `json:"rating"`
	Duration    string     `json:"duration"`
	TopCast     string     `json:"top_cast"`
	ReleaseDate string     `json:"release_date"`
	TrailerURL  string     `json:"trailer_url"`
	Directors   []Director `json:"directors,omitempty"`
	Genres      []Genre    `json:"genres,omitempty"`
	CreatedAt   string     `json:"created_at,omitempty"`
	UpdatedAt   string     `json:"updated_at,omitempty"`
}

// MoviePage is one page of GET /movies.
type MoviePage struct {
	Data       []Movie `json:"data"`
	Total      int     `json:"total"`
	Page       int     `json:"page"`
	Limit      int     `json:"limit"`
	TotalPages int     `json:"totalPages"`
}
