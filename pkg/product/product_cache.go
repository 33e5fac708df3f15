package product

import (
	"context"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "product:"

type (
	// ProductCache is a byte-oriented key value store with expiry. Get
	// returns nil without error on a miss.
	ProductCache interface {
		Get(ctx context.Context, key string) ([]byte, error)
		SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	}

	redisCache struct {
		rdb *goredis.Client
	}
)

func NewProductCache(rdb *goredis.Client) ProductCache {
	return &redisCache{rdb: rdb}
}

func (c *redisCache) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return val, nil
}

func (c *redisCache) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.rdb.Set(ctx, key, value, ttl).Err()
}

func cacheKey(barcode string) string {
	return cacheKeyPrefix + barcode
}
