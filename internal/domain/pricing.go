package domain

// Pricing holds the storefront pricing policy. Amounts are cents, the tax
// rate is in basis points, matching the cent-precision money used everywhere.
type Pricing struct {
	FreeShippingOverCents int64
	FlatShippingCents     int64
	TaxRateBasisPoints    int64
}

// DefaultPricing: free shipping strictly above $100.00, flat $9.99 fee
// otherwise, 8% tax on the pre-shipping subtotal.
var DefaultPricing = Pricing{
	FreeShippingOverCents: 100_00,
	FlatShippingCents:     9_99,
	TaxRateBasisPoints:    800,
}

// Totals is a priced view of a cart. Total is always the sum of the other
// three fields.
type Totals struct {
	SubtotalCents int64 `json:"subtotalCents"`
	ShippingCents int64 `json:"shippingCents"`
	TaxCents      int64 `json:"taxCents"`
	TotalCents    int64 `json:"totalCents"`
}

// ShippingCents returns the shipping cost for a subtotal. A subtotal exactly
// at the threshold still pays the flat fee.
func (p Pricing) ShippingCents(subtotalCents int64) int64 {
	if subtotalCents > p.FreeShippingOverCents {
		return 0
	}
	return p.FlatShippingCents
}

// TaxCents applies the tax rate to the subtotal, rounding half up to the cent.
func (p Pricing) TaxCents(subtotalCents int64) int64 {
	return (subtotalCents*p.TaxRateBasisPoints + 5000) / 10000
}

// Quote prices the cart's current lines.
func (p Pricing) Quote(cart *Cart) Totals {
	subtotal := cart.SubtotalCents()
	shipping := p.ShippingCents(subtotal)
	tax := p.TaxCents(subtotal)
	return Totals{
		SubtotalCents: subtotal,
		ShippingCents: shipping,
		TaxCents:      tax,
		TotalCents:    subtotal + shipping + tax,
	}
}
