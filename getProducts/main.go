package main

import (
	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"

	"github.com/thegioirubik/lubestation-service/pkg/api"
	"github.com/thegioirubik/lubestation-service/pkg/app"
	"github.com/thegioirubik/lubestation-service/pkg/cache"
)

var (
	redisClient *cache.RedisClient
	handler     *api.ProductsHandler
	log         *zap.Logger
)

func init() {
	cfg, logger := app.Bootstrap()
	log = logger.With(zap.String("function", "getProducts"))

	redisClient = app.Redis(cfg, log)
	loader, err := app.CatalogLoader(cfg, redisClient, log)
	if err != nil {
		log.Fatal("failed to initialize catalog", zap.Error(err))
	}
	handler = api.NewProductsHandler(loader, app.CORS(cfg), log)
}

func main() {
	if redisClient != nil {
		defer redisClient.Close()
	}
	defer log.Sync()
	lambda.Start(handler.Handle)
}
