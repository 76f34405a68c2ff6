package main

import (
	"context"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"

	"github.com/thegioirubik/lubestation-service/pkg/api"
	"github.com/thegioirubik/lubestation-service/pkg/app"
	"github.com/thegioirubik/lubestation-service/pkg/cache"
	"github.com/thegioirubik/lubestation-service/pkg/notify"
	"github.com/thegioirubik/lubestation-service/pkg/order"
	"github.com/thegioirubik/lubestation-service/pkg/sink"
)

var (
	redisClient   *cache.RedisClient
	live          *api.LiveCatalog
	sinks         sink.FactoryResult
	handler       *api.OrdersHandler
	submitTimeout time.Duration
	log           *zap.Logger
)

func init() {
	cfg, logger := app.Bootstrap()
	log = logger.With(zap.String("function", "createOrder"))
	submitTimeout = cfg.Orders.SubmitTimeout

	ctx := context.Background()
	redisClient = app.Redis(cfg, log)
	var err error
	live, err = app.LiveCatalog(ctx, cfg, redisClient, log)
	if err != nil {
		log.Fatal("failed to initialize catalog", zap.Error(err))
	}

	sinks, err = sink.FromConfig(ctx, cfg, log)
	if err != nil {
		log.Fatal("failed to initialize order sink", zap.String("driver", cfg.Orders.Sink), zap.Error(err))
	}
	log.Info("order sink ready", zap.String("driver", sinks.Driver))

	var notifier order.Notifier
	if n := notify.FromConfig(cfg.Mail, log); n != nil {
		notifier = n
	}
	var idem order.IdempotencyStore
	if redisClient != nil {
		idem = cache.NewIdempotency(redisClient, cfg.Redis.IdempotencyTTL)
	}

	svc := order.NewService(live, sinks.Sink, notifier, idem, log)
	handler = api.NewOrdersHandler(svc, app.CORS(cfg), log)
}

func handle(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, submitTimeout)
	defer cancel()
	live.Refresh(ctx)
	return handler.Handle(ctx, req)
}

func main() {
	defer sinks.Close()
	if redisClient != nil {
		defer redisClient.Close()
	}
	defer log.Sync()
	lambda.Start(handle)
}
