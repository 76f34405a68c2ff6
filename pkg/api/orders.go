package api

import (
	"context"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"

	"github.com/thegioirubik/lubestation-service/models"
	"github.com/thegioirubik/lubestation-service/pkg/cart"
	"github.com/thegioirubik/lubestation-service/pkg/order"
)

const orderPlacedMsg = "Order successfully placed"

// OrderSubmitter is satisfied by *order.Service.
type OrderSubmitter interface {
	Submit(ctx context.Context, req order.Request) (*order.Result, error)
}

type orderRequest struct {
	models.ContactForm
	Items cart.Cart `json:"items"`
}

type orderCreated struct {
	Success bool   `json:"success"`
	OrderID string `json:"orderId"`
	Message string `json:"message"`
}

// OrdersHandler serves POST /orders.
type OrdersHandler struct {
	orders OrderSubmitter
	cors   CORS
	log    *zap.Logger
}

// NewOrdersHandler serves submissions through orders, usually an *order.Service.
func NewOrdersHandler(orders OrderSubmitter, cors CORS, log *zap.Logger) *OrdersHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &OrdersHandler{orders: orders, cors: cors, log: log}
}

// Handle answers 201 for a new order, 200 when an Idempotency-Key replays an
// earlier one, and the mapped status for any error.
func (h *OrdersHandler) Handle(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	headers := h.cors.headers(req, "POST, OPTIONS")
	if req.HTTPMethod == http.MethodOptions {
		return preflight(headers), nil
	}

	var in orderRequest
	if err := decodeBody(req, &in); err != nil {
		return respondError(err, headers, h.log), nil
	}

	res, err := h.orders.Submit(ctx, order.Request{
		Form:           in.ContactForm,
		Cart:           in.Items,
		IdempotencyKey: header(req, "Idempotency-Key"),
	})
	if err != nil {
		return respondError(err, headers, h.log), nil
	}

	status := http.StatusCreated
	if res.Replayed {
		status = http.StatusOK
	}
	return respond(status, headers, orderCreated{Success: true, OrderID: res.OrderID, Message: orderPlacedMsg}, h.log), nil
}
