// Package cache stores computed metric sets so repeated reads of the same
// symbol and window skip the history scan. Values are JSON-encoded on write
// and decoded on read so every backend round-trips typed structs the same
// way.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var ErrCacheMiss = errors.New("cache: key not found")

// Service is the caching contract the use cases depend on.
type Service interface {
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Get(ctx context.Context, key string, dest interface{}) error
	Delete(ctx context.Context, keys ...string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// GenerateKeyWithParams joins a prefix and its parameters into a cache key,
// e.g. "metrics:VWCE:1704067200:1735689600".
func GenerateKeyWithParams(prefix string, params ...interface{}) string {
	key := prefix
	for _, p := range params {
		key = fmt.Sprintf("%s:%v", key, p)
	}
	return key
}
