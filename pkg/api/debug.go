package api

import (
	"context"
	"net/http"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"

	"github.com/thegioirubik/lubestation-service/models"
	"github.com/thegioirubik/lubestation-service/pkg/config"
)

// OrderLister reads stored orders back, e.g. *sink.Sheets.
type OrderLister interface {
	ListOrders(ctx context.Context) ([]models.StoredOrder, error)
}

// debugBody never carries secret values, only their presence and length.
type debugBody struct {
	HasCredentials    bool   `json:"hasCredentials"`
	CredentialsLength int    `json:"credentialsLength"`
	HasServiceAccount bool   `json:"hasServiceAccount"`
	HasResendKey      bool   `json:"hasResendKey"`
	HasRedis          bool   `json:"hasRedis"`
	OrderSink         string `json:"orderSink"`
	AppEnv            string `json:"appEnv"`
	Function          string `json:"function,omitempty"`
	// SheetReachable and SheetOrders are set only when a spreadsheet is configured.
	SheetReachable *bool `json:"sheetReachable,omitempty"`
	SheetOrders    *int  `json:"sheetOrders,omitempty"`
}

// DebugHandler serves GET /debug.
type DebugHandler struct {
	cfg    *config.Config
	orders OrderLister
	cors   CORS
	log    *zap.Logger
}

// NewDebugHandler reports configuration presence. When orders is non-nil the
// report also checks that the spreadsheet can be read.
func NewDebugHandler(cfg *config.Config, orders OrderLister, cors CORS, log *zap.Logger) *DebugHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &DebugHandler{cfg: cfg, orders: orders, cors: cors, log: log}
}

// Handle never returns secret values, only their presence and length.
func (h *DebugHandler) Handle(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	headers := h.cors.headers(req, "GET, OPTIONS")
	body := debugBody{
		HasCredentials:    h.cfg.Sheets.CredentialsJSON != "",
		CredentialsLength: len(h.cfg.Sheets.CredentialsJSON),
		HasServiceAccount: h.cfg.Sheets.ClientEmail != "" && h.cfg.Sheets.PrivateKey != "",
		HasResendKey:      h.cfg.Mail.ResendAPIKey != "",
		HasRedis:          h.cfg.Redis.Addr != "",
		OrderSink:         h.cfg.Orders.Sink,
		AppEnv:            h.cfg.Server.AppEnv,
		Function:          os.Getenv("AWS_LAMBDA_FUNCTION_NAME"),
	}
	if h.orders != nil {
		reachable := true
		orders, err := h.orders.ListOrders(ctx)
		if err != nil {
			// The cause may quote the spreadsheet id, so it only goes to the log.
			h.log.Warn("order spreadsheet unreadable", zap.Error(err))
			reachable = false
		} else {
			n := len(orders)
			body.SheetOrders = &n
		}
		body.SheetReachable = &reachable
	}
	headers["Cache-Control"] = "no-store"
	return respond(http.StatusOK, headers, body, h.log), nil
}
