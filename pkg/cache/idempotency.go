package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	idempotencyPrefix = "order:idem:"

	// pendingMarker holds a key while its submission is in flight.
	pendingMarker = "pending"
	// claimTTL bounds how long a crashed submission blocks its key.
	claimTTL = time.Minute
)

// Idempotency maps client submission keys to the order they created.
type Idempotency struct {
	client *redis.Client
	ttl    time.Duration
}

// NewIdempotency keeps completed keys for ttl.
func NewIdempotency(c *RedisClient, ttl time.Duration) *Idempotency {
	return &Idempotency{client: c.client, ttl: ttl}
}

// Claim reserves key for a new submission. When the key is already taken it
// reports the order id it produced, or "" while that submission is in flight.
func (i *Idempotency) Claim(ctx context.Context, key string) (string, bool, error) {
	k := idempotencyPrefix + key
	ok, err := i.client.SetNX(ctx, k, pendingMarker, claimTTL).Result()
	if err != nil {
		return "", false, fmt.Errorf("failed to claim idempotency key: %w", err)
	}
	if ok {
		return "", true, nil
	}

	val, err := i.client.Get(ctx, k).Result()
	switch {
	case errors.Is(err, redis.Nil):
		// The claim expired between the two calls; treat it as still in flight.
		return "", false, nil
	case err != nil:
		return "", false, fmt.Errorf("failed to look up idempotency key: %w", err)
	case val == pendingMarker:
		return "", false, nil
	}
	return val, false, nil
}

// Complete records the order a claimed key produced.
func (i *Idempotency) Complete(ctx context.Context, key, orderID string) error {
	if err := i.client.Set(ctx, idempotencyPrefix+key, orderID, i.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store idempotency key: %w", err)
	}
	return nil
}

// Release frees a claimed key after a failed submission so the client can retry.
func (i *Idempotency) Release(ctx context.Context, key string) error {
	if err := i.client.Del(ctx, idempotencyPrefix+key).Err(); err != nil {
		return fmt.Errorf("failed to release idempotency key: %w", err)
	}
	return nil
}
