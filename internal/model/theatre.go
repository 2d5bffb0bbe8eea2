package model

// Theatre is a cinema venue as listed by the backend.  Theatres are grouped
// by location; both the name and the location carry a slug that the
// backend accepts in query strings.
//
// Fields:
//
//	ID              – backend identifier.
//	Name            – display name.
//	SlugName        – URL-safe name, used to look up showings.
//	Location        – city or district label.
//	SlugLocation    – URL-safe location, used to list theatres by location.
//	LocationDetails – free-form street address.
type Theatre struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	SlugName        string `json:"slug_name"`
	Location        string `json:"location"`
	SlugLocation    string `json:"slug_location"`
	LocationDetails string `json:"locationDetails"`
	CreatedAt       string `json:"created_at,omitempty"`
	UpdatedAt       string `json:"updated_at,omitempty"`
}

// Location is one entry of GET /theatre/locations.
type Location struct {
	Location     string `json:"location"`
	SlugLocation string `json:"slug_location"`
}

// Hall is a screening room inside a theatre.  The backend embeds the
// theatre when a hall is returned as part of a showing.
type Hall struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	TotalSeats int      `json:"totalSeats"`
	Theatre    *Theatre `json:"theatre,omitempty"`
	CreatedAt  string   `json:"created_at,omitempty"`
	UpdatedAt  string   `json:"updated_at,omitempty"`
}
