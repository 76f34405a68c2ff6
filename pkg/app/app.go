// Package app holds the cold-start wiring shared by the Lambda functions.
package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/thegioirubik/lubestation-service/pkg/api"
	"github.com/thegioirubik/lubestation-service/pkg/cache"
	"github.com/thegioirubik/lubestation-service/pkg/catalog"
	"github.com/thegioirubik/lubestation-service/pkg/config"
	"github.com/thegioirubik/lubestation-service/pkg/logger"
)

// Bootstrap loads the environment and builds the logger.
func Bootstrap() (*config.Config, *zap.Logger) {
	envFile, envErr := config.LoadEnv()
	cfg := config.Load()
	log := logger.New(cfg.Server.AppEnv, cfg.Logger)

	switch {
	case envErr != nil:
		log.Warn("could not load env file, relying on process environment", zap.Error(envErr))
	case envFile != "":
		log.Info("loaded env file", zap.String("file", envFile))
	}
	return cfg, log
}

// CORS returns the allowed-origin policy from cfg.
func CORS(cfg *config.Config) api.CORS {
	return api.CORS{Origins: cfg.Server.AllowedOrigin}
}

// Redis connects when REDIS_ADDR is set. A nil client means caching is off.
func Redis(cfg *config.Config, log *zap.Logger) *cache.RedisClient {
	if cfg.Redis.Addr == "" {
		log.Info("REDIS_ADDR not set, catalog cache disabled")
		return nil
	}
	rc, err := cache.NewRedisClient(cfg.Redis, log)
	if err != nil {
		log.Warn("Redis unavailable, continuing without cache", zap.Error(err))
		return nil
	}
	return rc
}

// CatalogLoader wires the bundled pricelist with the Redis-backed catalog
// cache and imported rows, when available.
func CatalogLoader(cfg *config.Config, rc *cache.RedisClient, log *zap.Logger) (*api.CatalogLoader, error) {
	base, err := catalog.DefaultSource()
	if err != nil {
		return nil, fmt.Errorf("failed to decode bundled pricelist: %w", err)
	}
	if rc == nil {
		return api.NewCatalogLoader(base, nil, nil, log), nil
	}
	store := cache.NewCatalogStore(rc, cfg.Redis.CatalogTTL)
	return api.NewCatalogLoader(base, store, store, log), nil
}

// LiveCatalog builds the catalog for a cold start. With Redis it follows
// pricelist imports on Refresh.
func LiveCatalog(ctx context.Context, cfg *config.Config, rc *cache.RedisClient, log *zap.Logger) (*api.LiveCatalog, error) {
	loader, err := CatalogLoader(cfg, rc, log)
	if err != nil {
		return nil, err
	}
	var versions api.VersionSource
	if rc != nil {
		versions = cache.NewCatalogStore(rc, cfg.Redis.CatalogTTL)
	}
	lc := api.NewLiveCatalog(ctx, loader, versions)
	loader.Wait()
	return lc, nil
}
