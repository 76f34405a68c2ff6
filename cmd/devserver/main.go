// Command devserver serves the Lambda handlers over plain HTTP for local
// development.
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/thegioirubik/lubestation-service/pkg/api"
	"github.com/thegioirubik/lubestation-service/pkg/app"
	"github.com/thegioirubik/lubestation-service/pkg/cache"
	"github.com/thegioirubik/lubestation-service/pkg/notify"
	"github.com/thegioirubik/lubestation-service/pkg/order"
	"github.com/thegioirubik/lubestation-service/pkg/sink"
	"github.com/thegioirubik/lubestation-service/pkg/storage"
)

func main() {
	cfg, log := app.Bootstrap()
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rc := app.Redis(cfg, log)
	if rc != nil {
		defer rc.Close()
	}
	loader, err := app.CatalogLoader(cfg, rc, log)
	if err != nil {
		log.Fatal("failed to initialize catalog", zap.Error(err))
	}
	live, err := app.LiveCatalog(ctx, cfg, rc, log)
	if err != nil {
		log.Fatal("failed to initialize catalog", zap.Error(err))
	}

	sinks, err := sink.FromConfig(ctx, cfg, log)
	if err != nil {
		log.Fatal("failed to initialize order sink", zap.Error(err))
	}
	defer sinks.Close()

	var notifier order.Notifier
	if n := notify.FromConfig(cfg.Mail, log); n != nil {
		notifier = n
	}
	var idem order.IdempotencyStore
	r := routes{}
	if rc != nil {
		idem = cache.NewIdempotency(rc, cfg.Redis.IdempotencyTTL)
		store := cache.NewCatalogStore(rc, cfg.Redis.CatalogTTL)
		r.importer = api.NewImporter(store, storage.NewLocal(cfg.Import.LocalCSV), log).Handle
	}

	corsPolicy := app.CORS(cfg)
	r.products = api.NewProductsHandler(loader, corsPolicy, log).Handle
	r.quote = refreshing(live, api.NewQuoteHandler(live, corsPolicy, log).Handle)
	r.orders = refreshing(live, api.NewOrdersHandler(order.NewService(live, sinks.Sink, notifier, idem, log), corsPolicy, log).Handle)
	var orders api.OrderLister
	if sinks.Sheets != nil {
		orders = sinks.Sheets
	}
	r.debug = api.NewDebugHandler(cfg, orders, corsPolicy, log).Handle

	srv := &http.Server{
		Addr:              cfg.Server.DevAddr,
		Handler:           newRouter(r, cfg.Server.AllowedOrigin, log),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Info("dev server listening", zap.String("addr", srv.Addr), zap.String("order_sink", sinks.Driver))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("server stopped", zap.Error(err))
	}
}
