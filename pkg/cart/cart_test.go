package cart

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thegioirubik/lubestation-service/models"
)

type fakeCatalog map[int]models.ProductVariant

func (f fakeCatalog) Variant(id int) (string, models.ProductVariant, bool) {
	v, ok := f[id]
	return "Product " + v.Size, v, ok
}

func TestCart_SetAndStepper(t *testing.T) {
	c := Cart{}

	c.Increment(1)
	c.Increment(1)
	c.Decrement(2)
	c.Set(3, 4)
	c.Set(3, 0)
	c.Set(4, -5)

	assert.Equal(t, Cart{1: 2}, c)
	assert.Equal(t, 2, c.Count())

	c.Decrement(1)
	c.Decrement(1)
	c.Decrement(1)
	assert.Empty(t, c)
}

func TestCart_Items(t *testing.T) {
	lookup := fakeCatalog{
		1: {ID: 1, Size: "3cc", Price: 95000},
		2: {ID: 2, Size: "5cc", Price: 150000},
	}
	c := Cart{2: 2, 1: 1, 99: 3}

	items := c.Items(lookup)

	require.Len(t, items, 2)
	assert.Equal(t, 1, items[0].Variant.ID)
	assert.Equal(t, 2, items[1].Quantity)
	assert.Equal(t, "Product 5cc", items[1].ProductName)
}

func TestCart_Reset(t *testing.T) {
	c := Cart{1: 1, 2: 2}
	c.Reset()

	assert.Empty(t, c)
	assert.Equal(t, 0, c.Count())
}

func TestCart_UnmarshalJSON(t *testing.T) {
	var c Cart
	require.NoError(t, json.Unmarshal([]byte(`{"101": 2, "205": 0, "110": 1}`), &c))

	assert.Equal(t, Cart{101: 2, 110: 1}, c)

	assert.Error(t, json.Unmarshal([]byte(`{"abc": 1}`), &c))
	assert.Error(t, json.Unmarshal([]byte(`[1,2]`), &c))
}
