// Package bootstrap 按配置初始化日志、指标与链路追踪，并装配带观测能力的定价引擎。
package bootstrap

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/wyfcoding/pricing/config"
	"github.com/wyfcoding/pricing/engines/analytic"
	"github.com/wyfcoding/pricing/engines/forward"
	"github.com/wyfcoding/pricing/engines/mc"
	"github.com/wyfcoding/pricing/logging"
	"github.com/wyfcoding/pricing/metrics"
	"github.com/wyfcoding/pricing/pricing"
	"github.com/wyfcoding/pricing/tracing"
)

// Bootstrapper 持有已初始化的基础设施。
type Bootstrapper struct {
	ServiceName string
	Version     string
	Logger      *logging.Logger
	Metrics     *metrics.Metrics

	cfg       atomic.Pointer[config.Config]
	shutdowns []func(context.Context) error
}

// New 创建一个新的引导器实例
func New(serviceName, version string) *Bootstrapper {
	return &Bootstrapper{
		ServiceName: serviceName,
		Version:     version,
	}
}

// Initialize 加载配置（configPath 为空时使用默认配置），再据此初始化日志与指标。
func (b *Bootstrapper) Initialize(configPath string) error {
	logging.InitLogger(logging.Config{Service: b.ServiceName, Module: "bootstrap"})
	b.Logger = logging.Default()

	cfg := config.Defaults()
	if configPath != "" {
		if err := config.Load(configPath, cfg); err != nil {
			b.Logger.Error("failed to load config", "path", configPath, "error", err)
			return err
		}
	}
	if b.Version != "" {
		cfg.Version = b.Version
	}
	b.cfg.Store(cfg)

	b.Logger = logging.NewFromConfig(cfg.Log.Logging(b.ServiceName, "pricing"))
	if cfg.Metrics.Enabled {
		b.Metrics = metrics.NewMetrics(cfg.Metrics.Namespace)
		b.Metrics.RegisterBuildInfo(cfg.Version)
	}

	config.RegisterReloadHook(func(c *config.Config) {
		next := *c
		if b.Version != "" {
			next.Version = b.Version
		}
		b.cfg.Store(&next)
		b.Logger.Info("pricing config reloaded", "version", c.Version, "log_level", c.Log.Level)
	})
	config.PrintWithMask(cfg)
	return nil
}

// Config 返回当前生效的配置。热更新发布新实例，调用方取得的实例不会被修改。
func (b *Bootstrapper) Config() *config.Config {
	return b.cfg.Load()
}

// SetupTracing 初始化 OpenTelemetry 追踪器，关闭函数在 Shutdown 时调用。
func (b *Bootstrapper) SetupTracing() error {
	shutdown, err := tracing.InitTracer(b.Config().Tracing, b.Config().Version)
	if err != nil {
		b.Logger.Error("failed to init tracer", "error", err)
		return err
	}
	b.shutdowns = append(b.shutdowns, shutdown)
	return nil
}

// AnalyticEngine 返回带观测的 Black-Scholes 引擎。
func (b *Bootstrapper) AnalyticEngine() forward.VanillaEngine {
	return pricing.Observe("analytic_european", forward.VanillaEngine(analytic.NewEuropeanEngine()), b.Metrics, b.Logger)
}

// MonteCarloEngine 按配置返回带观测的蒙特卡洛引擎。
func (b *Bootstrapper) MonteCarloEngine() (forward.VanillaEngine, error) {
	e, err := mc.NewEngineFromConfig(b.Config(), b.Logger, b.Metrics)
	if err != nil {
		return nil, err
	}
	b.shutdowns = append(b.shutdowns, func(context.Context) error { return e.Close() })
	return pricing.Observe(mc.EngineName, forward.VanillaEngine(e), b.Metrics, b.Logger), nil
}

// ForwardEngine 以 original 为被包装引擎返回带观测的远期生效期权引擎。
func (b *Bootstrapper) ForwardEngine(original forward.VanillaEngine) (pricing.Engine[pricing.ForwardOptionArguments, pricing.VanillaOptionResults], error) {
	e, err := forward.NewForwardEngine(original)
	if err != nil {
		return nil, err
	}
	return pricing.Observe("forward", pricing.Engine[pricing.ForwardOptionArguments, pricing.VanillaOptionResults](e), b.Metrics, b.Logger), nil
}

// PerformanceEngine 以 original 为被包装引擎返回带观测的远期表现期权引擎。
func (b *Bootstrapper) PerformanceEngine(original forward.VanillaEngine) (pricing.Engine[pricing.ForwardOptionArguments, pricing.VanillaOptionResults], error) {
	e, err := forward.NewPerformanceEngine(original)
	if err != nil {
		return nil, err
	}
	return pricing.Observe("forward_performance", pricing.Engine[pricing.ForwardOptionArguments, pricing.VanillaOptionResults](e), b.Metrics, b.Logger), nil
}

// Shutdown 按注册的逆序释放资源。
func (b *Bootstrapper) Shutdown(ctx context.Context) error {
	var errs []error
	for i := len(b.shutdowns) - 1; i >= 0; i-- {
		if err := b.shutdowns[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	b.shutdowns = nil
	return errors.Join(errs...)
}
