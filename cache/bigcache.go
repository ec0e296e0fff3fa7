package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/allegro/bigcache/v3"
)

// BigCache 基于 allegro/bigcache 的进程内缓存。
// bigcache 只支持全局 TTL，Set 的 expiration 参数被忽略。
type BigCache struct {
	cache *bigcache.BigCache
}

// NewBigCache 创建本地缓存。ttl 为全局过期时间，maxMB 为容量上限（0 表示不限）。
func NewBigCache(ttl time.Duration, maxMB int) (*BigCache, error) {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	config := bigcache.DefaultConfig(ttl)
	config.Shards = 64
	config.MaxEntriesInWindow = 10_000
	config.MaxEntrySize = 256
	config.HardMaxCacheSize = maxMB
	config.CleanWindow = time.Minute
	config.Verbose = false

	cache, err := bigcache.New(context.Background(), config)
	if err != nil {
		return nil, fmt.Errorf("init bigcache failed: %w", err)
	}
	return &BigCache{cache: cache}, nil
}

// Get 读取并反序列化到 value。
func (c *BigCache) Get(_ context.Context, key string, value any) error {
	start := time.Now()
	defer func() {
		cacheDuration.WithLabelValues("bigcache", "get").Observe(time.Since(start).Seconds())
	}()

	data, err := c.cache.Get(key)
	if err != nil {
		if errors.Is(err, bigcache.ErrEntryNotFound) {
			cacheMisses.WithLabelValues("bigcache").Inc()
			return ErrCacheMiss
		}
		return err
	}
	cacheHits.WithLabelValues("bigcache").Inc()
	return json.Unmarshal(data, value)
}

// Set 序列化后写入。
func (c *BigCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.cache.Set(key, data)
}

// Delete 删除键，键不存在不视为错误。
func (c *BigCache) Delete(_ context.Context, keys ...string) error {
	for _, key := range keys {
		if err := c.cache.Delete(key); err != nil && !errors.Is(err, bigcache.ErrEntryNotFound) {
			return err
		}
	}
	return nil
}

// Exists 检查键是否存在。
func (c *BigCache) Exists(_ context.Context, key string) (bool, error) {
	_, err := c.cache.Get(key)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bigcache.ErrEntryNotFound) {
		return false, nil
	}
	return false, err
}

// Close 释放资源。
func (c *BigCache) Close() error {
	return c.cache.Close()
}
