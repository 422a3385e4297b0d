package models

import (
	"github.com/shopspring/decimal"
)

// CartLine is a snapshot of a sweet taken when it was added to the cart,
// together with the requested quantity
type CartLine struct {
	Sweet    Sweet `json:"sweet"`
	Quantity int   `json:"quantity"`
	// Committed is how much of Quantity an interrupted checkout already
	// bought remotely
	Committed int `json:"committed,omitempty"`
}

// Pending returns the quantity still to be purchased
func (l CartLine) Pending() int {
	if l.Committed >= l.Quantity {
		return 0
	}
	return l.Quantity - l.Committed
}

// Subtotal returns price times quantity for the line
func (l CartLine) Subtotal() decimal.Decimal {
	return l.Sweet.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}
