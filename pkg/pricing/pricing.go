// Package pricing computes the pre-order price breakdown of a cart.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/thegioirubik/lubestation-service/models"
)

// CityHCM is the only city with the reduced shipping rate.
const CityHCM = "Hồ Chí Minh"

const (
	ShippingHCM      int64 = 35000
	ShippingProvince int64 = 40000
)

// discountRate is the flat pre-order incentive applied to every subtotal.
var discountRate = decimal.RequireFromString("0.10")

// Totals is the price breakdown of an order, in VND.
type Totals struct {
	Subtotal float64 `json:"subtotal"`
	Discount float64 `json:"discount"`
	Shipping float64 `json:"shipping"`
	Total    float64 `json:"total"`
}

// ShippingFee is the flat delivery rate for a city; no city means no shipping yet.
func ShippingFee(city string) int64 {
	switch city {
	case "":
		return 0
	case CityHCM:
		return ShippingHCM
	default:
		return ShippingProvince
	}
}

// ShippingLabel is the short zone tag shown next to the shipping line.
func ShippingLabel(city string) string {
	switch city {
	case "":
		return ""
	case CityHCM:
		return "(HCM)"
	default:
		return "(Tỉnh)"
	}
}

// Compute returns subtotal, discount, shipping and total for items delivered to city.
// Nothing is rounded here; rounding happens only when amounts are formatted.
// An empty cart costs nothing, shipping included.
func Compute(items []models.CartItem, city string) Totals {
	if len(items) == 0 {
		return Totals{}
	}
	subtotal := decimal.Zero
	for _, item := range items {
		line := decimal.NewFromFloat(item.Variant.Price).Mul(decimal.NewFromInt(int64(item.Quantity)))
		subtotal = subtotal.Add(line)
	}
	discount := subtotal.Mul(discountRate)
	shipping := decimal.NewFromInt(ShippingFee(city))
	total := subtotal.Sub(discount).Add(shipping)

	return Totals{
		Subtotal: subtotal.InexactFloat64(),
		Discount: discount.InexactFloat64(),
		Shipping: shipping.InexactFloat64(),
		Total:    total.InexactFloat64(),
	}
}

// LineTotal is price times quantity of a single cart item.
func LineTotal(item models.CartItem) float64 {
	return decimal.NewFromFloat(item.Variant.Price).Mul(decimal.NewFromInt(int64(item.Quantity))).InexactFloat64()
}
