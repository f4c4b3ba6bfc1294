// Package cart implements the client-held cart aggregator. A cart lives with
// the shopper's session, caches product name and price purely for display,
// and produces the line items submitted to the checkout endpoint. Nothing in
// it is authoritative: the server re-resolves price and stock at checkout.
//
// A Cart belongs to a single session and is not safe for concurrent use.
package cart

import "github.com/c14230103-dot/projectcspevolene/core/product"

// Line is one (product, quantity) pairing. Name and Price are client-cached
// copies; their JSON tags match the checkout request contract, where the
// server ignores them.
type Line struct {
	ProductID string `json:"id"`
	Name      string `json:"name"`
	Price     int    `json:"price"`
	Quantity  int    `json:"quantity"`
}

type Cart struct {
	lines []Line
	index map[string]int
}

func New() *Cart {
	return &Cart{index: make(map[string]int)}
}

// Add puts qty units of p in the cart, incrementing the existing line when
// the product is already present. Insertion order is preserved for display.
func (c *Cart) Add(p product.Product, qty int) {
	if qty < 1 {
		qty = 1
	}

	if i, ok := c.index[p.ID]; ok {
		c.lines[i].Quantity += qty
		return
	}

	c.index[p.ID] = len(c.lines)
	c.lines = append(c.lines, Line{
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Quantity:  qty,
	})
}

// Remove deletes the line for productID; absent products are a no-op.
func (c *Cart) Remove(productID string) {
	i, ok := c.index[productID]
	if !ok {
		return
	}

	c.lines = append(c.lines[:i], c.lines[i+1:]...)
	delete(c.index, productID)
	for j := i; j < len(c.lines); j++ {
		c.index[c.lines[j].ProductID] = j
	}
}

// SetQuantity overwrites the quantity of an existing line. Quantities are
// clamped to at least 1; removal goes through Remove.
func (c *Cart) SetQuantity(productID string, qty int) {
	i, ok := c.index[productID]
	if !ok {
		return
	}

	if qty < 1 {
		qty = 1
	}
	c.lines[i].Quantity = qty
}

func (c *Cart) Clear() {
	c.lines = nil
	c.index = make(map[string]int)
}

// Total sums quantity times the cached price. Display only; the charge is
// always recomputed server-side from authoritative prices.
func (c *Cart) Total() int {
	var tot int
	for _, l := range c.lines {
		tot += l.Price * l.Quantity
	}
	return tot
}

// Lines returns a copy of the cart's lines, ready to submit as the checkout
// payload.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) Len() int {
	return len(c.lines)
}
