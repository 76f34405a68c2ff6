package notify

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"github.com/thegioirubik/lubestation-service/models"
	"github.com/thegioirubik/lubestation-service/pkg/pricing"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(
	template.New("").
		Funcs(template.FuncMap{"vnd": pricing.FormatVND}).
		ParseFS(templateFS, "templates/*.html"),
)

type emailLine struct {
	models.OrderItem
	LineTotal float64
}

type emailData struct {
	OrderID string
	Order   models.OrderPayload
	Lines   []emailLine
	Year    int
}

func newEmailData(order models.OrderPayload, orderID string, year int) emailData {
	lines := make([]emailLine, 0, len(order.Items))
	for _, it := range order.Items {
		lines = append(lines, emailLine{OrderItem: it, LineTotal: it.Price * float64(it.Quantity)})
	}
	return emailData{OrderID: orderID, Order: order, Lines: lines, Year: year}
}

func render(name string, data emailData) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}
