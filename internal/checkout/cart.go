// Package checkout turns booked seats into a paid ticket: the concession
// cart, the ticket request and the payment redirect.
package checkout

import (
	"errors"
	"fmt"

	"github.com/iliyamo/cinema-booking-client/internal/model"
)

// ErrUnknownItem is returned when a cart line names an item missing from
// the concession menu.
var ErrUnknownItem = errors.New("concession item not on the menu")

// Cart maps concession item IDs to quantities in the order items were
// first added.  Quantities never go below zero and a line that reaches
// zero is removed.
type Cart struct {
	order []string
	qty   map[string]int
}

// NewCart builds a cart from lines.  Lines with a non-positive quantity
// are skipped and repeated items are summed.
func NewCart(lines ...model.ConcessionLine) *Cart {
	c := &Cart{}
	for _, l := range lines {
		if l.Quantity > 0 {
			c.Update(l.ItemID, l.Quantity)
		}
	}
	return c
}

// Update adds delta to itemID and returns the new quantity.
func (c *Cart) Update(itemID string, delta int) int {
	if c.qty == nil {
		c.qty = make(map[string]int)
	}
	cur, ok := c.qty[itemID]
	next := cur + delta
	if next <= 0 {
		if ok {
			delete(c.qty, itemID)
			c.drop(itemID)
		}
		return 0
	}
	if !ok {
		c.order = append(c.order, itemID)
	}
	c.qty[itemID] = next
	return next
}

// Quantity returns the quantity of itemID.
func (c *Cart) Quantity(itemID string) int { return c.qty[itemID] }

// Lines returns the cart as request lines, first-added first.  An empty
// cart yields an empty, non-nil slice.
func (c *Cart) Lines() []model.ConcessionLine {
	out := make([]model.ConcessionLine, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, model.ConcessionLine{ItemID: id, Quantity: c.qty[id]})
	}
	return out
}

// TotalItems is the sum of all quantities.
func (c *Cart) TotalItems() int {
	n := 0
	for _, q := range c.qty {
		n += q
	}
	return n
}

// Total prices the cart against items.  A line whose item is not in items
// fails with ErrUnknownItem, as does an unparsable price with its parse error.
func (c *Cart) Total(items []model.ConcessionItem) (int64, error) {
	prices := make(map[string]string, len(items))
	for _, it := range items {
		prices[it.ID] = it.Price
	}
	var total int64
	for _, id := range c.order {
		p, ok := prices[id]
		if !ok {
			return 0, fmt.Errorf("item %s: %w", id, ErrUnknownItem)
		}
		amount, err := model.ParseAmount(p)
		if err != nil {
			return 0, fmt.Errorf("item %s: %w", id, err)
		}
		total += int64(c.qty[id]) * amount
	}
	return total, nil
}

func (c *Cart) drop(itemID string) {
	for i, id := range c.order {
		if id == itemID {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}
