package stores

import (
	"sync"

	"github.com/shopspring/decimal"

	"sweet-shop/models"
)

// Cart aggregates the lines a user intends to buy. Each line holds a copy
// of the sweet taken when it was first added; later catalog refreshes do
// not touch it.
type Cart struct {
	mu    sync.RWMutex
	lines []models.CartLine
}

func NewCart() *Cart {
	return &Cart{}
}

// Add puts quantity units of sweet in the cart. The call is ignored when
// quantity is not positive or exceeds the sweet's stock. Adding a sweet
// that already has a line increases that line without checking stock again.
func (c *Cart) Add(sweet models.Sweet, quantity int) bool {
	if quantity <= 0 || quantity > sweet.Quantity {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.lines {
		if c.lines[i].Sweet.ID == sweet.ID {
			c.lines[i].Quantity += quantity
			return true
		}
	}
	c.lines = append(c.lines, models.CartLine{Sweet: sweet, Quantity: quantity})
	return true
}

// Remove drops the line for id, if any
func (c *Cart) Remove(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.lines {
		if c.lines[i].Sweet.ID == id {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
	}
}

// UpdateQuantity sets the line's quantity to exactly quantity. Zero or
// less removes the line.
func (c *Cart) UpdateQuantity(id string, quantity int) {
	if quantity <= 0 {
		c.Remove(id)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.lines {
		if c.lines[i].Sweet.ID == id {
			c.lines[i].Quantity = quantity
			return
		}
	}
}

// Clear empties the cart
func (c *Cart) Clear() {
	c.mu.Lock()
	c.lines = nil
	c.mu.Unlock()
}

// Lines returns a copy of the lines in insertion order
func (c *Cart) Lines() []models.CartLine {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]models.CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

// Line returns the line for id
func (c *Cart) Line(id string) (models.CartLine, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, l := range c.lines {
		if l.Sweet.ID == id {
			return l, true
		}
	}
	return models.CartLine{}, false
}

// Len is the number of distinct lines
func (c *Cart) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.lines)
}

// Count is the number of units across all lines
func (c *Cart) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	n := 0
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

// Total sums price times quantity over every line
func (c *Cart) Total() decimal.Decimal {
	c.mu.RLock()
	defer c.mu.RUnlock()
	total := decimal.Zero
	for _, l := range c.lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

// markCommitted records that an interrupted checkout already bought
// quantity units of id
func (c *Cart) markCommitted(id string, quantity int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.lines {
		if c.lines[i].Sweet.ID == id {
			c.lines[i].Committed += quantity
			return
		}
	}
}
