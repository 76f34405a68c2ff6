package order

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/thegioirubik/lubestation-service/models"
	"github.com/thegioirubik/lubestation-service/pkg/pricing"
)

// OrderIDPrefix starts every generated order identifier.
const OrderIDPrefix = "ORD-"

// Assemble builds the submission payload from the contact form and resolved cart.
// Totals are priced against the form's city.
func Assemble(form models.ContactForm, items []models.CartItem) models.OrderPayload {
	totals := pricing.Compute(items, form.City)

	lines := make([]models.OrderItem, 0, len(items))
	for _, it := range items {
		lines = append(lines, models.OrderItem{
			ProductName: it.ProductName,
			Size:        it.Variant.Size,
			Quantity:    it.Quantity,
			Price:       it.Variant.Price,
		})
	}

	return models.OrderPayload{
		FullName: form.FullName,
		Email:    form.Email,
		Phone:    form.Phone,
		City:     form.City,
		Address:  form.Address,
		Notes:    form.Notes,
		Items:    lines,
		Subtotal: totals.Subtotal,
		Discount: totals.Discount,
		Shipping: totals.Shipping,
		Total:    totals.Total,
	}
}

// NewOrderID derives an identifier from the submission time and a random
// suffix, e.g. ORD-1718000000000-3F9A2C1B. Orders placed in the same
// millisecond still get distinct ids.
func NewOrderID(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:orderIDSuffixLen])
	return OrderIDPrefix + strconv.FormatInt(now.UnixMilli(), 10) + "-" + suffix
}

const orderIDSuffixLen = 8
