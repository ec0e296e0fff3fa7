package mc

import (
	"time"

	"github.com/wyfcoding/pricing/cache"
	"github.com/wyfcoding/pricing/config"
	"github.com/wyfcoding/pricing/logging"
	"github.com/wyfcoding/pricing/metrics"
)

type options struct {
	samples    int
	maxSamples int
	tolerance  float64
	antithetic bool
	seed       uint64
	timeSteps  int
	workers    int
	blockSize  int
	cache      cache.Cache
	cacheTTL   time.Duration
	logger     *logging.Logger
	metrics    *metrics.Metrics
}

func defaultOptions() options {
	d := config.Defaults().MonteCarlo
	return options{
		samples:    d.Samples,
		maxSamples: d.MaxSamples,
		antithetic: d.Antithetic,
		seed:       d.Seed,
		timeSteps:  d.TimeSteps,
		workers:    d.Workers,
		blockSize:  d.BlockSize,
	}
}

// Option 配置 Engine。
type Option func(*options)

// WithSamples 固定样本数。
func WithSamples(n int) Option {
	return func(o *options) { o.samples = n }
}

// WithTolerance 以目标标准误作为停止条件，覆盖固定样本数。
func WithTolerance(tolerance float64) Option {
	return func(o *options) { o.tolerance = tolerance }
}

// WithMaxSamples 按精度停止时的样本上限。
func WithMaxSamples(n int) Option {
	return func(o *options) { o.maxSamples = n }
}

// WithAntithetic 启用对偶变量法。
func WithAntithetic(enabled bool) Option {
	return func(o *options) { o.antithetic = enabled }
}

// WithSeed 设置随机种子，0 表示时钟种子（在构造时解析一次）。
func WithSeed(seed uint64) Option {
	return func(o *options) { o.seed = seed }
}

// WithTimeSteps 每条路径的时间步数。
func WithTimeSteps(n int) Option {
	return func(o *options) { o.timeSteps = n }
}

// WithWorkers 并发采样的最大协程数。
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

// WithBlockSize 每个采样块的样本数，决定子随机流的划分。
func WithBlockSize(n int) Option {
	return func(o *options) { o.blockSize = n }
}

// WithCache 启用结果缓存。
func WithCache(c cache.Cache, ttl time.Duration) Option {
	return func(o *options) {
		o.cache = c
		o.cacheTTL = ttl
	}
}

// WithLogger 设置日志记录器。
func WithLogger(logger *logging.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithMetrics 设置指标收集器。
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// FromConfig 将配置转换为一组 Option。
func FromConfig(cfg config.MonteCarloConfig) []Option {
	opts := []Option{
		WithSamples(cfg.Samples),
		WithMaxSamples(cfg.MaxSamples),
		WithTolerance(cfg.Tolerance),
		WithAntithetic(cfg.Antithetic),
		WithSeed(cfg.Seed),
	}
	if cfg.TimeSteps > 0 {
		opts = append(opts, WithTimeSteps(cfg.TimeSteps))
	}
	if cfg.Workers > 0 {
		opts = append(opts, WithWorkers(cfg.Workers))
	}
	if cfg.BlockSize > 0 {
		opts = append(opts, WithBlockSize(cfg.BlockSize))
	}
	return opts
}
