package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/thegioirubik/lubestation-service/models"
	"github.com/thegioirubik/lubestation-service/pkg/catalog"
)

const (
	// productsKey is a list of normalized products in display order.
	productsKey = "catalog:products"
	// sourceKey holds the last imported pricelist rows.
	sourceKey = "catalog:source"
	// versionKey counts pricelist imports.
	versionKey = "catalog:version"
)

// CatalogStore caches the normalized catalog and the imported pricelist.
type CatalogStore struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

func NewCatalogStore(c *RedisClient, ttl time.Duration) *CatalogStore {
	return &CatalogStore{client: c.client, ttl: ttl, log: c.log}
}

// Products returns the cached catalog. Entries that fail to decode are skipped;
// if none survive the call reports a miss.
func (s *CatalogStore) Products(ctx context.Context) ([]models.Product, error) {
	raw, err := s.client.LRange(ctx, productsKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", productsKey, err)
	}
	if len(raw) == 0 {
		return nil, ErrMiss
	}

	products := make([]models.Product, 0, len(raw))
	for _, entry := range raw {
		var p models.Product
		if err := json.Unmarshal([]byte(entry), &p); err != nil {
			s.log.Warn("skipping undecodable cached product", zap.Error(err))
			continue
		}
		products = append(products, p)
	}
	if len(products) == 0 {
		return nil, ErrMiss
	}
	return products, nil
}

// StoreProducts replaces the cached catalog in one pipeline.
func (s *CatalogStore) StoreProducts(ctx context.Context, products []models.Product) error {
	entries := make([]interface{}, 0, len(products))
	for _, p := range products {
		b, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("failed to marshal product %s: %w", p.ProductName, err)
		}
		entries = append(entries, b)
	}

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, productsKey)
	if len(entries) > 0 {
		pipe.RPush(ctx, productsKey, entries...)
		if s.ttl > 0 {
			pipe.Expire(ctx, productsKey, s.ttl)
		}
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to populate catalog cache: %w", err)
	}
	s.log.Info("catalog cache populated", zap.Int("products", len(products)))
	return nil
}

// Invalidate drops the normalized catalog so the next read rebuilds it.
func (s *CatalogStore) Invalidate(ctx context.Context) error {
	return s.client.Del(ctx, productsKey).Err()
}

// Source returns the imported pricelist rows.
func (s *CatalogStore) Source(ctx context.Context) (catalog.Source, error) {
	raw, err := s.client.Get(ctx, sourceKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return catalog.Source{}, ErrMiss
	}
	if err != nil {
		return catalog.Source{}, fmt.Errorf("failed to read %s: %w", sourceKey, err)
	}
	var src catalog.Source
	if err := json.Unmarshal(raw, &src); err != nil {
		return catalog.Source{}, fmt.Errorf("failed to decode %s: %w", sourceKey, err)
	}
	return src, nil
}

// StoreSource saves imported rows without expiry and bumps the import version
// in the same transaction.
func (s *CatalogStore) StoreSource(ctx context.Context, src catalog.Source) error {
	b, err := json.Marshal(src)
	if err != nil {
		return fmt.Errorf("failed to marshal pricelist: %w", err)
	}
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, sourceKey, b, 0)
	pipe.Incr(ctx, versionKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to store pricelist: %w", err)
	}
	return nil
}

// Version returns how many pricelists have been imported, 0 before the first.
func (s *CatalogStore) Version(ctx context.Context) (int64, error) {
	v, err := s.client.Get(ctx, versionKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read %s: %w", versionKey, err)
	}
	return v, nil
}
