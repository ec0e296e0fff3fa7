package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wyfcoding/pricing/config"
	"github.com/wyfcoding/pricing/logging"
)

type quote struct {
	Value float64 `json:"value"`
	Label string  `json:"label"`
}

func newBigCache(t *testing.T) *BigCache {
	t.Helper()
	c, err := NewBigCache(time.Minute, 4)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestBigCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := newBigCache(t)

	var got quote
	assert.ErrorIs(t, c.Get(ctx, "k", &got), ErrCacheMiss)

	require.NoError(t, c.Set(ctx, "k", quote{Value: 10.450583572185565, Label: "call"}, 0))
	require.NoError(t, c.Get(ctx, "k", &got))
	assert.Equal(t, quote{Value: 10.450583572185565, Label: "call"}, got)

	ok, err := c.Exists(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, c.Delete(ctx, "k", "missing"))
	ok, err = c.Exists(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNew(t *testing.T) {
	c, err := New(config.CacheConfig{TTL: time.Minute, MaxMB: 4}, nil)
	require.NoError(t, err)
	assert.IsType(t, &BigCache{}, c)
	require.NoError(t, c.Close())

	_, err = New(config.CacheConfig{Backend: "memcached"}, nil)
	assert.Error(t, err)

	_, err = New(config.CacheConfig{
		Backend: "redis",
		Redis:   config.RedisConfig{Addr: "127.0.0.1:1", ReadTimeout: 100 * time.Millisecond},
	}, logging.Default())
	assert.Error(t, err)
}

func TestGetOrLoad(t *testing.T) {
	ctx := context.Background()
	c := newBigCache(t)
	var loads atomic.Int32
	load := func(context.Context) (quote, error) {
		loads.Add(1)
		return quote{Value: 1.5}, nil
	}

	v, err := GetOrLoad(ctx, c, "q", time.Minute, load)
	require.NoError(t, err)
	assert.Equal(t, 1.5, v.Value)

	v, err = GetOrLoad(ctx, c, "q", time.Minute, load)
	require.NoError(t, err)
	assert.Equal(t, 1.5, v.Value)
	assert.Equal(t, int32(1), loads.Load())

	// 无缓存时直接加载。
	_, err = GetOrLoad[quote](ctx, nil, "q", time.Minute, load)
	require.NoError(t, err)
	assert.Equal(t, int32(2), loads.Load())
}

func TestGetOrLoadErrorNotCached(t *testing.T) {
	ctx := context.Background()
	c := newBigCache(t)
	boom := errors.New("boom")

	_, err := GetOrLoad(ctx, c, "e", time.Minute, func(context.Context) (int, error) { return 0, boom })
	assert.ErrorIs(t, err, boom)

	ok, err := c.Exists(ctx, "e")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGetOrLoadCoalescesConcurrentLoads(t *testing.T) {
	ctx := context.Background()
	c := newBigCache(t)
	var loads atomic.Int32
	start := make(chan struct{})

	var wg sync.WaitGroup
	results := make([]int, 16)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			v, err := GetOrLoad(ctx, c, "slow", time.Minute, func(context.Context) (int, error) {
				loads.Add(1)
				time.Sleep(100 * time.Millisecond)
				return 42, nil
			})
			if err == nil {
				results[i] = v
			}
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, int32(1), loads.Load())
	for _, v := range results {
		assert.Equal(t, 42, v)
	}
}

func TestRegisterMetricsIdempotent(t *testing.T) {
	reg := prometheus.NewRegistry()
	require.NoError(t, RegisterMetrics(reg))
	require.NoError(t, RegisterMetrics(reg))
}

func TestRedisCacheBreakerOpens(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		MaxRetries:  -1,
		DialTimeout: 100 * time.Millisecond,
	})
	c := newRedisCache(client, "pricing", logging.Default())
	defer c.Close()
	assert.Equal(t, "pricing:k", c.buildKey("k"))

	ctx := context.Background()
	var v int
	for range 10 {
		err := c.Get(ctx, "k", &v)
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrCacheMiss)
	}
	assert.ErrorIs(t, c.Get(ctx, "k", &v), gobreaker.ErrOpenState)
	assert.ErrorIs(t, c.Set(ctx, "k", 1, time.Minute), gobreaker.ErrOpenState)
}

func TestGetOrLoadSurvivesCallerCancellation(t *testing.T) {
	c := newBigCache(t)
	started := make(chan struct{})
	release := make(chan struct{})
	var loads atomic.Int32
	load := func(ctx context.Context) (int, error) {
		if loads.Add(1) == 1 {
			close(started)
		}
		<-release
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		return 7, nil
	}

	firstCtx, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := GetOrLoad(firstCtx, c, "shared", time.Minute, load)
		firstErr <- err
	}()
	<-started

	second := make(chan int, 1)
	go func() {
		v, err := GetOrLoad(context.Background(), c, "shared", time.Minute, load)
		if err == nil {
			second <- v
		}
		close(second)
	}()
	time.Sleep(50 * time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-firstErr, context.Canceled)
	close(release)

	assert.Equal(t, 7, <-second)
	assert.Equal(t, int32(1), loads.Load())

	var cached int
	require.NoError(t, c.Get(context.Background(), "shared", &cached))
	assert.Equal(t, 7, cached)
}
