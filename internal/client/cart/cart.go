// Package cart keeps the shopping cart on the client. The server never sees
// it; checkout is a local confirmation only.
package cart

import (
	"math"
	"sync"

	"github.com/dmitrijs2005/biscotto/internal/client/models"
)

// TaxPercent applied at checkout.
const TaxPercent = 8

// Line is a product snapshot with its quantity. Quantity is always >= 1.
type Line struct {
	Product  models.Product
	Quantity int
}

// Totals are amounts in cents.
type Totals struct {
	Subtotal int64
	Tax      int64
	Total    int64
	Items    int
}

// Receipt is returned by Checkout.
type Receipt struct {
	Lines  []Line
	Totals Totals
}

// Cart is an ordered list of lines keyed by product id. Stock is not checked.
type Cart struct {
	mu    sync.Mutex
	lines []Line
}

func New() *Cart {
	return &Cart{}
}

func (c *Cart) index(id string) int {
	for i := range c.lines {
		if c.lines[i].Product.ID == id {
			return i
		}
	}
	return -1
}

// Add increments the line for p, or appends one with quantity 1.
func (c *Cart) Add(p models.Product) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if i := c.index(p.ID); i >= 0 {
		c.lines[i].Quantity++
		return
	}
	c.lines = append(c.lines, Line{Product: p, Quantity: 1})
}

// UpdateQuantity sets the quantity of id; qty <= 0 removes the line.
// It reports whether the product was in the cart.
func (c *Cart) UpdateQuantity(id string, qty int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.index(id)
	if i < 0 {
		return false
	}
	if qty <= 0 {
		c.lines = append(c.lines[:i], c.lines[i+1:]...)
		return true
	}
	c.lines[i].Quantity = qty
	return true
}

// Remove drops the line for id; an absent id is a no-op.
func (c *Cart) Remove(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if i := c.index(id); i >= 0 {
		c.lines = append(c.lines[:i], c.lines[i+1:]...)
	}
}

func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = nil
}

// Lines returns a copy of the cart in insertion order.
func (c *Cart) Lines() []Line {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lines)
}

func (c *Cart) Totals() Totals {
	c.mu.Lock()
	defer c.mu.Unlock()
	return totals(c.lines)
}

// Checkout returns the receipt and empties the cart. An empty cart yields
// ok == false and is left untouched.
func (c *Cart) Checkout() (r Receipt, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.lines) == 0 {
		return Receipt{}, false
	}

	r = Receipt{Lines: c.lines, Totals: totals(c.lines)}
	c.lines = nil
	return r, true
}

func totals(lines []Line) Totals {
	var t Totals
	for _, l := range lines {
		t.Subtotal += Cents(l.Product.Price) * int64(l.Quantity)
		t.Items += l.Quantity
	}
	// rounded half up to the cent
	t.Tax = (t.Subtotal*TaxPercent + 50) / 100
	t.Total = t.Subtotal + t.Tax
	return t
}

// Cents converts a price to whole cents, rounding half away from zero.
func Cents(price float64) int64 {
	return int64(math.Round(price * 100))
}
