package domain

import "time"

type Cart struct {
	ID          string     `json:"id"`
	CustomerID  *string    `json:"customerId,omitempty"`
	AnonymousID *string    `json:"-"`
	State       string     `json:"state"`
	CreatedAt   time.Time  `json:"createdAt"`
	Lines       []CartLine `json:"lineItems,omitempty"`
}

type CartLine struct {
	ProductID      string    `json:"productId"`
	Name           string    `json:"name"`
	Category       string    `json:"category,omitempty"`
	ImageURL       string    `json:"image,omitempty"`
	UnitPriceCents int64     `json:"unitPriceCents"`
	Quantity       int       `json:"quantity"`
	AddedAt        time.Time `json:"addedAt"`
}

// AddLine merges qty into an existing line for the product or appends a new
// one. At most one line per product id ever exists in a cart.
func (c *Cart) AddLine(p Product, qty int) error {
	if qty <= 0 {
		return ErrInvalidQuantity
	}
	for i := range c.Lines {
		if c.Lines[i].ProductID == p.ID {
			c.Lines[i].Quantity += qty
			return nil
		}
	}
	c.Lines = append(c.Lines, CartLine{
		ProductID:      p.ID,
		Name:           p.Name,
		Category:       p.Category,
		ImageURL:       p.ImageURL,
		UnitPriceCents: p.PriceCents,
		Quantity:       qty,
	})
	return nil
}

// SetQuantity replaces the quantity of the product's line. A quantity of zero
// or less removes the line entirely rather than failing.
func (c *Cart) SetQuantity(productID string, qty int) error {
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			if qty <= 0 {
				c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			} else {
				c.Lines[i].Quantity = qty
			}
			return nil
		}
	}
	return ErrLineNotFound
}

// RemoveLine deletes the product's line if present, no-op otherwise.
func (c *Cart) RemoveLine(productID string) {
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			return
		}
	}
}

// Clear removes all lines.
func (c *Cart) Clear() {
	c.Lines = nil
}

// TotalItems is the sum of line quantities.
func (c *Cart) TotalItems() int {
	total := 0
	for _, line := range c.Lines {
		total += line.Quantity
	}
	return total
}

// SubtotalCents is the sum of unit price times quantity over all lines.
func (c *Cart) SubtotalCents() int64 {
	var total int64
	for _, line := range c.Lines {
		total += line.UnitPriceCents * int64(line.Quantity)
	}
	return total
}
