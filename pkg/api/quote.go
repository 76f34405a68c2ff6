package api

import (
	"context"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"

	"github.com/thegioirubik/lubestation-service/pkg/cart"
	"github.com/thegioirubik/lubestation-service/pkg/pricing"
)

type quoteRequest struct {
	Items cart.Cart `json:"items"`
	City  string    `json:"city"`
}

type emptyQuote struct {
	Empty bool `json:"empty"`
}

// QuoteHandler serves POST /cart/quote, the running summary next to the form.
type QuoteHandler struct {
	catalog cart.VariantLookup
	cors    CORS
	log     *zap.Logger
}

// NewQuoteHandler prices carts against catalog.
func NewQuoteHandler(catalog cart.VariantLookup, cors CORS, log *zap.Logger) *QuoteHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &QuoteHandler{catalog: catalog, cors: cors, log: log}
}

// Handle returns the formatted summary, or {"empty":true} when no item resolves.
func (h *QuoteHandler) Handle(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	headers := h.cors.headers(req, "POST, OPTIONS")
	if req.HTTPMethod == http.MethodOptions {
		return preflight(headers), nil
	}

	var in quoteRequest
	if err := decodeBody(req, &in); err != nil {
		return respondError(err, headers, h.log), nil
	}

	summary, ok := pricing.Summarize(in.Items.Items(h.catalog), in.City)
	if !ok {
		return respond(http.StatusOK, headers, emptyQuote{Empty: true}, h.log), nil
	}
	return respond(http.StatusOK, headers, summary, h.log), nil
}
