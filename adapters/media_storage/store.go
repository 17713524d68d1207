package media_storage

import (
	"context"
	"fmt"

	"github.com/itww/admin-api/internal/application/service"
	"github.com/itww/admin-api/internal/config"
	"github.com/itww/admin-api/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// NewObjectStore builds the configured driver and wraps it with the Redis URL
// cache when rdb is non-nil. The LocalStore is returned separately for the
// /files route and is nil for the other drivers.
func NewObjectStore(ctx context.Context, cfg config.Config, rdb redis.UniversalClient, log logger.Logger) (service.ObjectStore, *LocalStore, error) {
	var (
		store service.ObjectStore
		local *LocalStore
		err   error
	)
	switch cfg.Storage.Driver {
	case config.StorageDriverS3:
		store, err = NewS3Adapter(ctx, cfg, log)
	case config.StorageDriverCloudinary:
		store, err = NewCloudinaryAdapter(cfg, log)
	case config.StorageDriverLocal:
		local, err = NewLocalStore(cfg)
		store = local
	default:
		err = fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
	if err != nil {
		return nil, nil, err
	}

	if rdb != nil {
		store = NewCachedSigner(store, rdb, cfg.Redis.URLCacheTTL, log)
	}
	return store, local, nil
}
