package domain

import "errors"

var (
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")
	ErrQuantityLimit   = errors.New("quantity exceeds the per-item limit")
	ErrEmptyCart       = errors.New("cart is empty")
)

// MaxQuantity bounds the quantity of a single cart entry
const MaxQuantity = 9999

// CartEntry is one line item of the cart
type CartEntry struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// Cart is an insertion-ordered list of entries holding at most one entry per
// product id. Every entry has a positive quantity.
type Cart struct {
	entries []CartEntry
}

// NewCart builds a cart from previously stored entries. Entries with a
// non-positive or over-limit quantity are dropped and duplicate ids are
// merged into the first occurrence, so the invariants hold even for
// hand-edited payloads.
func NewCart(entries []CartEntry) *Cart {
	c := &Cart{entries: make([]CartEntry, 0, len(entries))}
	for _, e := range entries {
		c.Add(e.Product, e.Quantity)
	}
	return c
}

// Add merges quantity into the entry for product.ID, or appends a new entry.
// A non-positive quantity, or one that would push the entry past
// MaxQuantity, leaves the cart unchanged and returns false.
func (c *Cart) Add(product Product, quantity int) bool {
	if quantity <= 0 || quantity > MaxQuantity {
		return false
	}
	if i := c.index(product.ID); i >= 0 {
		if c.entries[i].Quantity > MaxQuantity-quantity {
			return false
		}
		c.entries[i].Quantity += quantity
		return true
	}
	c.entries = append(c.entries, CartEntry{Product: product, Quantity: quantity})
	return true
}

// Remove deletes the entry for productID. It reports whether an entry existed.
func (c *Cart) Remove(productID int64) bool {
	i := c.index(productID)
	if i < 0 {
		return false
	}
	c.entries = append(c.entries[:i], c.entries[i+1:]...)
	return true
}

// UpdateQuantity sets the absolute quantity of an entry, capped at
// MaxQuantity. A quantity <= 0 removes the entry. Unknown ids are ignored.
func (c *Cart) UpdateQuantity(productID int64, quantity int) bool {
	if quantity <= 0 {
		return c.Remove(productID)
	}
	quantity = min(quantity, MaxQuantity)
	i := c.index(productID)
	if i < 0 {
		return false
	}
	c.entries[i].Quantity = quantity
	return true
}

func (c *Cart) Clear() {
	c.entries = c.entries[:0]
}

// Entries returns a copy of the entries in insertion order
func (c *Cart) Entries() []CartEntry {
	out := make([]CartEntry, len(c.entries))
	copy(out, c.entries)
	return out
}

func (c *Cart) Len() int {
	return len(c.entries)
}

// TotalItems is the sum of quantities across all entries
func (c *Cart) TotalItems() int {
	total := 0
	for _, e := range c.entries {
		total += e.Quantity
	}
	return total
}

// TotalPrice is the unrounded sum of price * quantity
func (c *Cart) TotalPrice() float64 {
	total := 0.0
	for _, e := range c.entries {
		total += e.Product.Price * float64(e.Quantity)
	}
	return total
}

func (c *Cart) index(productID int64) int {
	for i, e := range c.entries {
		if e.Product.ID == productID {
			return i
		}
	}
	return -1
}
