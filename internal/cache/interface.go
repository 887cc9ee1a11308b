package cache

import (
	"context"
	"strconv"
	"time"
)

// Cache stores JSON encoded values under string keys.
type Cache interface {
	Get(ctx context.Context, key string, value any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Close() error
}

func Key(prefix string, id string) string {
	return prefix + ":" + id
}

func IntKey(prefix string, id int64) string {
	return Key(prefix, strconv.FormatInt(id, 10))
}

const (
	SessionKeyPrefix = "session"
	ProductKeyPrefix = "product"
)
