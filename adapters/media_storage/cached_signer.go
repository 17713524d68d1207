package media_storage

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/itww/admin-api/internal/application/service"
	"github.com/itww/admin-api/pkg/logger"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const signedURLPrefix = "media:signed-url:"

// cachedSigner memoizes signed URLs in Redis. An entry lives at most half of the
// URL's validity so a cached URL always has time left when handed out.
// Redis failures degrade to signing on every call.
type cachedSigner struct {
	service.ObjectStore
	rdb    redis.UniversalClient
	maxTTL time.Duration
	logger logger.Logger
}

func NewCachedSigner(inner service.ObjectStore, rdb redis.UniversalClient, maxTTL time.Duration, log logger.Logger) service.ObjectStore {
	return &cachedSigner{ObjectStore: inner, rdb: rdb, maxTTL: maxTTL, logger: log}
}

func signedURLKey(key string, ttl time.Duration) string {
	return signedURLPrefix + key + "|" + strconv.FormatInt(int64(ttl/time.Second), 10)
}

func (c *cachedSigner) SignedReadURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	cacheKey := signedURLKey(key, ttl)
	cached, err := c.rdb.Get(ctx, cacheKey).Result()
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, redis.Nil) {
		c.logger.Warn("signed url cache read failed", zap.String("key", key), zap.Error(err))
	}

	u, err := c.ObjectStore.SignedReadURL(ctx, key, ttl)
	if err != nil {
		return "", err
	}

	expiry := ttl / 2
	if c.maxTTL > 0 && c.maxTTL < expiry {
		expiry = c.maxTTL
	}
	if expiry > 0 {
		if err := c.rdb.Set(ctx, cacheKey, u, expiry).Err(); err != nil {
			c.logger.Warn("signed url cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return u, nil
}

func (c *cachedSigner) Delete(ctx context.Context, key string) error {
	if err := c.ObjectStore.Delete(ctx, key); err != nil {
		return err
	}

	iter := c.rdb.Scan(ctx, 0, signedURLPrefix+key+"|*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			c.logger.Warn("signed url cache evict failed", zap.String("key", key), zap.Error(err))
		}
	}
	if err := iter.Err(); err != nil {
		c.logger.Warn("signed url cache scan failed", zap.String("key", key), zap.Error(err))
	}
	return nil
}
