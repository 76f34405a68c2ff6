package pricing

import "github.com/thegioirubik/lubestation-service/models"

// Line is one row of the cart summary.
type Line struct {
	VariantID     int     `json:"variantId"`
	ProductName   string  `json:"productName"`
	Size          string  `json:"size"`
	Quantity      int     `json:"quantity"`
	UnitPrice     float64 `json:"unitPrice"`
	LineTotal     float64 `json:"lineTotal"`
	LineTotalText string  `json:"lineTotalText"`
}

// Summary is the running cart summary shown next to the pre-order form.
type Summary struct {
	Lines         []Line        `json:"lines"`
	Totals        Totals        `json:"totals"`
	Formatted     FormattedText `json:"formatted"`
	Units         int           `json:"units"`
	City          string        `json:"city,omitempty"`
	ShippingLabel string        `json:"shippingLabel,omitempty"`
}

// FormattedText holds the display strings of the totals.
type FormattedText struct {
	Subtotal string `json:"subtotal"`
	Discount string `json:"discount"`
	Shipping string `json:"shipping,omitempty"`
	Total    string `json:"total"`
}

// Summarize builds the cart summary. It returns false when there is nothing to
// show, in which case no summary is rendered at all.
func Summarize(items []models.CartItem, city string) (*Summary, bool) {
	if len(items) == 0 {
		return nil, false
	}

	s := &Summary{
		Lines:         make([]Line, 0, len(items)),
		Totals:        Compute(items, city),
		City:          city,
		ShippingLabel: ShippingLabel(city),
	}
	for _, item := range items {
		total := LineTotal(item)
		s.Lines = append(s.Lines, Line{
			VariantID:     item.Variant.ID,
			ProductName:   item.ProductName,
			Size:          item.Variant.Size,
			Quantity:      item.Quantity,
			UnitPrice:     item.Variant.Price,
			LineTotal:     total,
			LineTotalText: FormatPrice(total),
		})
		s.Units += item.Quantity
	}

	s.Formatted = FormattedText{
		Subtotal: FormatPrice(s.Totals.Subtotal),
		Discount: "-" + FormatPrice(s.Totals.Discount),
		Total:    FormatPrice(s.Totals.Total),
	}
	if city != "" {
		s.Formatted.Shipping = FormatPrice(s.Totals.Shipping)
	}
	return s, true
}
