package cart

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/thegioirubik/lubestation-service/models"
)

// VariantLookup resolves a variant id to its product name and variant.
type VariantLookup interface {
	Variant(id int) (string, models.ProductVariant, bool)
}

// Cart maps variant id to quantity. Zero quantities are never stored.
type Cart map[int]int

// Set stores qty for a variant; zero or negative removes the entry.
func (c Cart) Set(variantID, qty int) {
	if qty <= 0 {
		delete(c, variantID)
		return
	}
	c[variantID] = qty
}

// Increment adds one unit of a variant.
func (c Cart) Increment(variantID int) {
	c.Set(variantID, c[variantID]+1)
}

// Decrement removes one unit of a variant, never going below zero.
func (c Cart) Decrement(variantID int) {
	c.Set(variantID, c[variantID]-1)
}

// Count is the total number of units in the cart.
func (c Cart) Count() int {
	n := 0
	for _, qty := range c {
		if qty > 0 {
			n += qty
		}
	}
	return n
}

// Reset empties the cart in place.
func (c Cart) Reset() {
	for id := range c {
		delete(c, id)
	}
}

// Items resolves the cart against the catalog, ordered by variant id. Entries
// whose variant is not in the catalog are dropped.
func (c Cart) Items(lookup VariantLookup) []models.CartItem {
	ids := make([]int, 0, len(c))
	for id, qty := range c {
		if qty > 0 {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)

	items := make([]models.CartItem, 0, len(ids))
	for _, id := range ids {
		name, v, ok := lookup.Variant(id)
		if !ok {
			continue
		}
		items = append(items, models.CartItem{ProductName: name, Variant: v, Quantity: c[id]})
	}
	return items
}

// UnmarshalJSON accepts the browser's object form {"<variantId>": qty}.
func (c *Cart) UnmarshalJSON(data []byte) error {
	var raw map[string]int
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("cart must be an object of variant id to quantity: %w", err)
	}
	out := make(Cart, len(raw))
	for key, qty := range raw {
		id, err := strconv.Atoi(key)
		if err != nil {
			return fmt.Errorf("invalid variant id %q", key)
		}
		out.Set(id, qty)
	}
	*c = out
	return nil
}
