package main

import (
	"context"

	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"

	"github.com/thegioirubik/lubestation-service/pkg/api"
	"github.com/thegioirubik/lubestation-service/pkg/app"
	"github.com/thegioirubik/lubestation-service/pkg/cache"
	"github.com/thegioirubik/lubestation-service/pkg/storage"
)

var (
	redisClient *cache.RedisClient
	importer    *api.Importer
	log         *zap.Logger
)

func init() {
	cfg, logger := app.Bootstrap()
	log = logger.With(zap.String("function", "importCatalog"))

	var err error
	redisClient, err = cache.NewRedisClient(cfg.Redis, log)
	if err != nil {
		log.Fatal("failed to initialize Redis client", zap.Error(err))
	}

	var fetcher storage.Fetcher
	if cfg.IsLocal() {
		log.Info("S3 uploads are read from a local file", zap.String("path", cfg.Import.LocalCSV))
		fetcher = storage.NewLocal(cfg.Import.LocalCSV)
	} else {
		s3, err := storage.NewS3(context.Background(), cfg.Import.Region)
		if err != nil {
			log.Fatal("failed to initialize S3 client", zap.Error(err))
		}
		fetcher = s3
	}

	store := cache.NewCatalogStore(redisClient, cfg.Redis.CatalogTTL)
	importer = api.NewImporter(store, fetcher, log)
}

func main() {
	defer redisClient.Close()
	defer log.Sync()
	lambda.Start(importer.Handle)
}
