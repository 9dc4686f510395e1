package models

// CartLine is a single entry in a cart. Two lines with the same
// (ProductID, VariantID) pair are always merged, never duplicated.
type CartLine struct {
	ProductID   uint    `json:"product_id"`
	VariantID   *uint   `json:"variant_id,omitempty"`
	ProductName string  `json:"product_name"`
	UnitPrice   float64 `json:"unit_price"`
	Quantity    int     `json:"quantity"`
}

// LineTotal is UnitPrice * Quantity.
func (l CartLine) LineTotal() float64 {
	return l.UnitPrice * float64(l.Quantity)
}

// Cart holds the in-session lines for one account before checkout.
type Cart struct {
	Lines []CartLine `json:"lines"`
}

func sameVariant(a, b *uint) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// AddLine inserts a line into the cart. If a line with the same
// (ProductID, VariantID) already exists, the quantities are summed and
// the existing unit price kept.
func (c *Cart) AddLine(line CartLine) {
	for i := range c.Lines {
		if c.Lines[i].ProductID == line.ProductID && sameVariant(c.Lines[i].VariantID, line.VariantID) {
			c.Lines[i].Quantity += line.Quantity
			return
		}
	}
	c.Lines = append(c.Lines, line)
}

// RemoveLine deletes the line matching (productID, variantID), if present.
func (c *Cart) RemoveLine(productID uint, variantID *uint) {
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID && sameVariant(c.Lines[i].VariantID, variantID) {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			return
		}
	}
}

// Subtotal sums all line totals.
func (c *Cart) Subtotal() float64 {
	var total float64
	for _, l := range c.Lines {
		total += l.LineTotal()
	}
	return total
}

// IsEmpty reports whether the cart has no lines.
func (c Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}
