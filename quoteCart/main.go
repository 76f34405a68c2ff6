package main

import (
	"context"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"

	"github.com/thegioirubik/lubestation-service/pkg/api"
	"github.com/thegioirubik/lubestation-service/pkg/app"
	"github.com/thegioirubik/lubestation-service/pkg/cache"
)

var (
	redisClient *cache.RedisClient
	live        *api.LiveCatalog
	handler     *api.QuoteHandler
	log         *zap.Logger
)

func init() {
	cfg, logger := app.Bootstrap()
	log = logger.With(zap.String("function", "quoteCart"))

	redisClient = app.Redis(cfg, log)
	var err error
	live, err = app.LiveCatalog(context.Background(), cfg, redisClient, log)
	if err != nil {
		log.Fatal("failed to initialize catalog", zap.Error(err))
	}
	handler = api.NewQuoteHandler(live, app.CORS(cfg), log)
}

func handle(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	live.Refresh(ctx)
	return handler.Handle(ctx, req)
}

func main() {
	if redisClient != nil {
		defer redisClient.Close()
	}
	defer log.Sync()
	lambda.Start(handle)
}
