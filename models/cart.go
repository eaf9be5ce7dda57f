package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartEntry is a menu item together with the quantity selected.
type CartEntry struct {
	MenuItem
	Quantity int `json:"quantity"`
}

// Subtotal returns price × quantity for the entry.
func (e CartEntry) Subtotal() decimal.Decimal {
	return e.Price.Mul(decimal.NewFromInt(int64(e.Quantity)))
}

// Cart holds the entries selected in one browser session. Items keeps the order in
// which distinct items were first added and never holds two entries for one item id.
type Cart struct {
	SessionID string      `json:"session_id"`
	Items     []CartEntry `json:"items"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// NewCart returns an empty cart owned by the given session.
func NewCart(sessionID string) *Cart {
	return &Cart{
		SessionID: sessionID,
		Items:     []CartEntry{},
	}
}

func (c *Cart) indexOf(itemID int) int {
	for i, entry := range c.Items {
		if entry.ID == itemID {
			return i
		}
	}
	return -1
}

// Add increments the quantity of an existing entry or appends a new one with quantity 1.
func (c *Cart) Add(item MenuItem) {
	if i := c.indexOf(item.ID); i >= 0 {
		c.Items[i].Quantity++
		return
	}
	c.Items = append(c.Items, CartEntry{MenuItem: item, Quantity: 1})
}

// Remove deletes the entry for itemID. Unknown ids are ignored.
func (c *Cart) Remove(itemID int) {
	i := c.indexOf(itemID)
	if i < 0 {
		return
	}
	c.Items = append(c.Items[:i], c.Items[i+1:]...)
}

// SetQuantity replaces the quantity of an entry. Quantities below 1 are ignored;
// Remove is the only way to drop an entry.
func (c *Cart) SetQuantity(itemID, quantity int) {
	if quantity < 1 {
		return
	}
	if i := c.indexOf(itemID); i >= 0 {
		c.Items[i].Quantity = quantity
	}
}

// Total returns the exact sum of price × quantity over all entries.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, entry := range c.Items {
		total = total.Add(entry.Subtotal())
	}
	return total
}

// Entries returns a copy of the cart entries in insertion order.
func (c *Cart) Entries() []CartEntry {
	out := make([]CartEntry, len(c.Items))
	copy(out, c.Items)
	return out
}

// Entry returns the entry for itemID, if present.
func (c *Cart) Entry(itemID int) (CartEntry, bool) {
	if i := c.indexOf(itemID); i >= 0 {
		return c.Items[i], true
	}
	return CartEntry{}, false
}

// Len is the number of distinct items in the cart.
func (c *Cart) Len() int { return len(c.Items) }

// ItemCount is the number of units across all entries.
func (c *Cart) ItemCount() int {
	n := 0
	for _, entry := range c.Items {
		n += entry.Quantity
	}
	return n
}

func (c *Cart) IsEmpty() bool { return len(c.Items) == 0 }

func (c *Cart) Clear() { c.Items = []CartEntry{} }

// Clone returns a deep copy so stored carts never alias caller state.
func (c *Cart) Clone() *Cart {
	clone := *c
	clone.Items = c.Entries()
	return &clone
}
