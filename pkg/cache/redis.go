package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/thegioirubik/lubestation-service/pkg/config"
)

// ErrMiss is returned when a key is absent or holds nothing usable.
var ErrMiss = errors.New("cache miss")

// RedisClient holds the Redis client connection.
type RedisClient struct {
	client *redis.Client
	log    *zap.Logger
}

// NewRedisClient connects and pings Redis.
func NewRedisClient(cfg config.RedisConfig, log *zap.Logger) (*RedisClient, error) {
	if cfg.Addr == "" {
		return nil, fmt.Errorf("REDIS_ADDR environment variable not set")
	}
	if log == nil {
		log = zap.NewNop()
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pong, err := client.Ping(ctx).Result()
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	log.Info("connected to Redis", zap.String("addr", cfg.Addr), zap.String("ping", pong))

	return &RedisClient{client: client, log: log}, nil
}

// Close closes the Redis connection.
func (c *RedisClient) Close() {
	if c.client != nil {
		c.client.Close()
		c.log.Info("Redis connection closed")
	}
}
