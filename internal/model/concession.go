package model

// ConcessionItem is a snack, drink or combo sold alongside tickets.  Price
// is a decimal string; use ParseAmount to read it.
type ConcessionItem struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
	ImageURL    string `json:"image_url"`
	Category    string `json:"category"`
	CreatedAt   string `json:"createdAt,omitempty"`
	UpdatedAt   string `json:"updatedAt,omitempty"`
}

// Concession categories known to the backend.
const (
	CategorySnack = "snack"
	CategoryDrink = "drink"
	CategoryCombo = "combo"
)

// ConcessionLine is one cart line of a ticket request.
type ConcessionLine struct {
	ItemID   string `json:"item_id" validate:"required"`
	Quantity int    `json:"quantity" validate:"gte=0"`
}
