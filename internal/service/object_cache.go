package service

import (
	"context"
	"time"

	"civilpass_backend/internal/repository"
	"civilpass_backend/pkg/logger"

	"go.uber.org/zap"
)

const objectCachePrefix = "civilpass:object:"

// ObjectCache 对象存储读缓存，TTL 取 app.cache_ttl；nil 接收者表示不缓存
type ObjectCache struct {
	store repository.KVStore
	ttl   time.Duration
}

func NewObjectCache(store repository.KVStore, ttl time.Duration) *ObjectCache {
	return &ObjectCache{store: store, ttl: ttl}
}

func (c *ObjectCache) Get(ctx context.Context, key string) ([]byte, bool) {
	if c == nil || c.ttl <= 0 {
		return nil, false
	}
	data, ok, err := c.store.Get(ctx, objectCachePrefix+key)
	if err != nil {
		logger.Log.Warn("object cache read failed", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return data, ok
}

func (c *ObjectCache) Set(ctx context.Context, key string, data []byte) {
	if c == nil || c.ttl <= 0 {
		return
	}
	if err := c.store.Set(ctx, objectCachePrefix+key, data, c.ttl); err != nil {
		logger.Log.Warn("object cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func (c *ObjectCache) Invalidate(ctx context.Context, keys ...string) {
	if c == nil || len(keys) == 0 {
		return
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = objectCachePrefix + k
	}
	if err := c.store.Del(ctx, full...); err != nil {
		logger.Log.Warn("object cache invalidate failed", zap.Strings("keys", keys), zap.Error(err))
	}
}
