package main

import (
	"context"

	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"

	"github.com/thegioirubik/lubestation-service/pkg/api"
	"github.com/thegioirubik/lubestation-service/pkg/app"
	"github.com/thegioirubik/lubestation-service/pkg/sink"
)

var (
	handler *api.DebugHandler
	log     *zap.Logger
)

func init() {
	cfg, logger := app.Bootstrap()
	log = logger.With(zap.String("function", "getDebug"))

	var orders api.OrderLister
	if cfg.Sheets.SpreadsheetID != "" {
		s, err := sink.NewSheets(context.Background(), cfg.Sheets, log)
		if err != nil {
			log.Warn("spreadsheet client unavailable, skipping read-back check", zap.Error(err))
		} else {
			orders = s
		}
	}
	handler = api.NewDebugHandler(cfg, orders, app.CORS(cfg), log)
}

func main() {
	defer log.Sync()
	lambda.Start(handler.Handle)
}
