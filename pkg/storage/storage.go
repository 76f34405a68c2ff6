// Package storage fetches uploaded pricelist exports.
package storage

import "context"

// Fetcher reads one object in full.
type Fetcher interface {
	Fetch(ctx context.Context, bucket, key string) ([]byte, error)
}
