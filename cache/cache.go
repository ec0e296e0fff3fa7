// Package cache 提供定价结果缓存的抽象与实现：本地 bigcache 与带熔断保护的 Redis。
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"
	"github.com/wyfcoding/pricing/config"
	"github.com/wyfcoding/pricing/logging"
	"golang.org/x/sync/singleflight"
)

// ErrCacheMiss 键不存在或已过期。
var ErrCacheMiss = errors.New("cache miss")

var (
	cacheHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pricing_cache_hits_total",
			Help: "The total number of pricing cache hits",
		},
		[]string{"backend"},
	)
	cacheMisses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pricing_cache_misses_total",
			Help: "The total number of pricing cache misses",
		},
		[]string{"backend"},
	)
	cacheDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pricing_cache_operation_duration_seconds",
			Help:    "The duration of pricing cache operations",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"backend", "operation"},
	)
)

// RegisterMetrics 将缓存指标注册到指定的注册表，重复注册被忽略。
func RegisterMetrics(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{cacheHits, cacheMisses, cacheDuration} {
		if err := reg.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				continue
			}
			return err
		}
	}
	return nil
}

// Cache 缓存接口。value 以 JSON 序列化存储，Get 的 value 必须为指针。
type Cache interface {
	Get(ctx context.Context, key string, value any) error
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Exists(ctx context.Context, key string) (bool, error)
	Close() error
}

// New 按配置创建缓存后端。
func New(cfg config.CacheConfig, logger *logging.Logger) (Cache, error) {
	switch cfg.Backend {
	case "", "bigcache":
		return NewBigCache(cfg.TTL, cfg.MaxMB)
	case "redis":
		return NewRedisCache(cfg.Redis, cfg.Prefix, logger)
	default:
		return nil, fmt.Errorf("unsupported cache backend: %s", cfg.Backend)
	}
}

var group singleflight.Group

// GetOrLoad 先查缓存；未命中时以 singleflight 合并相同键的并发加载，再回写缓存。
// 共享的加载不随任一调用方取消而中止；调用方取消时只有自己提前返回 ctx.Err()。
// 缓存读写失败不影响加载结果。
func GetOrLoad[T any](ctx context.Context, c Cache, key string, ttl time.Duration, load func(context.Context) (T, error)) (T, error) {
	var value T
	if c == nil {
		return load(ctx)
	}
	if err := c.Get(ctx, key, &value); err == nil {
		return value, nil
	}

	shared := context.WithoutCancel(ctx)
	ch := group.DoChan(key, func() (any, error) {
		loaded, err := load(shared)
		if err != nil {
			return nil, err
		}
		if err := c.Set(shared, key, loaded, ttl); err != nil {
			logging.Warn(shared, "pricing cache store failed", "key", key, "error", err)
		}
		return loaded, nil
	})

	select {
	case <-ctx.Done():
		return value, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return value, r.Err
		}
		return r.Val.(T), nil
	}
}

// RedisCache 基于 Redis 的缓存实现，所有操作经过熔断器。
type RedisCache struct {
	client *redis.Client
	prefix string
	cb     *gobreaker.CircuitBreaker
	logger *logging.Logger
}

// NewRedisCache 建立 Redis 连接并校验可用性。
func NewRedisCache(cfg config.RedisConfig, prefix string, logger *logging.Logger) (*RedisCache, error) {
	if logger == nil {
		logger = logging.Default()
	}
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	logger.Info("successfully connected to Redis", "addr", cfg.Addr)

	return newRedisCache(client, prefix, logger), nil
}

func newRedisCache(client *redis.Client, prefix string, logger *logging.Logger) *RedisCache {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "pricing-redis-cache",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 10 && failureRatio >= 0.6
		},
		// 未命中不计为失败。
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrCacheMiss)
		},
	})
	return &RedisCache{client: client, prefix: prefix, cb: cb, logger: logger}
}

func (c *RedisCache) buildKey(key string) string {
	if c.prefix == "" {
		return key
	}
	return c.prefix + ":" + key
}

// Get 从缓存中获取值。
func (c *RedisCache) Get(ctx context.Context, key string, value any) error {
	start := time.Now()
	defer func() {
		cacheDuration.WithLabelValues("redis", "get").Observe(time.Since(start).Seconds())
	}()

	_, err := c.cb.Execute(func() (any, error) {
		data, err := c.client.Get(ctx, c.buildKey(key)).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				cacheMisses.WithLabelValues("redis").Inc()
				return nil, ErrCacheMiss
			}
			return nil, err
		}
		cacheHits.WithLabelValues("redis").Inc()
		return nil, json.Unmarshal(data, value)
	})
	return err
}

// Set 设置缓存值。
func (c *RedisCache) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	start := time.Now()
	defer func() {
		cacheDuration.WithLabelValues("redis", "set").Observe(time.Since(start).Seconds())
	}()

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal error: %w", err)
	}
	_, err = c.cb.Execute(func() (any, error) {
		return nil, c.client.Set(ctx, c.buildKey(key), data, expiration).Err()
	})
	return err
}

// Delete 删除一个或多个键。
func (c *RedisCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	fullKeys := make([]string, len(keys))
	for i, key := range keys {
		fullKeys[i] = c.buildKey(key)
	}
	_, err := c.cb.Execute(func() (any, error) {
		return nil, c.client.Del(ctx, fullKeys...).Err()
	})
	return err
}

// Exists 检查键是否存在。
func (c *RedisCache) Exists(ctx context.Context, key string) (bool, error) {
	result, err := c.cb.Execute(func() (any, error) {
		n, err := c.client.Exists(ctx, c.buildKey(key)).Result()
		if err != nil {
			return false, err
		}
		return n > 0, nil
	})
	if err != nil {
		return false, err
	}
	return result.(bool), nil
}

// Close 关闭 Redis 客户端。
func (c *RedisCache) Close() error {
	c.logger.Info("closing redis pricing cache")
	return c.client.Close()
}
