package domain

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestCartAddProperties checks the merge invariants over random add sequences.
func TestCartAddProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("at most one entry per product id", prop.ForAll(
		func(ids []int64, quantities []int) bool {
			c := NewCart(nil)
			for i := 0; i < len(ids) && i < len(quantities); i++ {
				c.Add(testProduct(ids[i], 1), quantities[i])
			}

			seen := make(map[int64]bool)
			for _, e := range c.Entries() {
				if seen[e.Product.ID] {
					return false
				}
				seen[e.Product.ID] = true
			}
			return true
		},
		gen.SliceOf(gen.Int64Range(1, 6)),
		gen.SliceOf(gen.IntRange(1, 20)),
	))

	properties.Property("entry quantity is the sum of added quantities", prop.ForAll(
		func(ids []int64, quantities []int) bool {
			c := NewCart(nil)
			want := make(map[int64]int)
			for i := 0; i < len(ids) && i < len(quantities); i++ {
				c.Add(testProduct(ids[i], 1), quantities[i])
				want[ids[i]] += quantities[i]
			}

			if c.Len() != len(want) {
				return false
			}
			for _, e := range c.Entries() {
				if e.Quantity != want[e.Product.ID] {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.Int64Range(1, 6)),
		gen.SliceOf(gen.IntRange(1, 20)),
	))

	properties.Property("totals equal the sums over entries", prop.ForAll(
		func(ids []int64, quantities []int) bool {
			c := NewCart(nil)
			for i := 0; i < len(ids) && i < len(quantities); i++ {
				c.Add(testProduct(ids[i], float64(ids[i])*1.5), quantities[i])
			}

			items, price := 0, 0.0
			for _, e := range c.Entries() {
				items += e.Quantity
				price += e.Product.Price * float64(e.Quantity)
			}
			diff := c.TotalPrice() - price
			return c.TotalItems() == items && diff < 1e-9 && diff > -1e-9
		},
		gen.SliceOf(gen.Int64Range(1, 6)),
		gen.SliceOf(gen.IntRange(1, 20)),
	))

	properties.Property("quantities stay within 1..MaxQuantity", prop.ForAll(
		func(ids []int64, quantities []int) bool {
			c := NewCart(nil)
			for i := 0; i < len(ids) && i < len(quantities); i++ {
				c.Add(testProduct(ids[i], 1), quantities[i])
			}
			for _, e := range c.Entries() {
				if e.Quantity <= 0 || e.Quantity > MaxQuantity {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.Int64Range(1, 3)),
		gen.SliceOf(gen.IntRange(1, math.MaxInt32)),
	))

	properties.TestingRun(t)
}
