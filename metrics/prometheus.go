// Package metrics 封装基于 Prometheus 的指标注册表及定价引擎的标准指标。
package metrics

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics 封装了独立的 Prometheus 注册表及预定义的定价指标。
type Metrics struct {
	registry *prometheus.Registry

	CalculationsTotal   *prometheus.CounterVec   // 计算次数 (维度: engine, status)
	CalculationDuration *prometheus.HistogramVec // 单次计算耗时分布 (维度: engine)
	MCSamplesTotal      *prometheus.CounterVec   // 蒙特卡洛累计样本数 (维度: engine)
	MCErrorEstimate     *prometheus.GaugeVec     // 最近一次蒙特卡洛估计的标准误 (维度: engine)
	BuildInfo           *prometheus.GaugeVec
}

// NewMetrics 初始化并返回一个新的指标采集器，自动注册 Go 运行时指标和进程指标。
func NewMetrics(namespace string) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Metrics{registry: reg}

	m.CalculationsTotal = m.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "pricing_calculations_total",
		Help:      "Total number of pricing engine calculations",
	}, []string{"engine", "status"})

	m.CalculationDuration = m.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "pricing_calculation_duration_seconds",
		Help:      "Pricing engine calculation latency in seconds",
		Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
	}, []string{"engine"})

	m.MCSamplesTotal = m.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "pricing_mc_samples_total",
		Help:      "Total number of Monte Carlo samples drawn",
	}, []string{"engine"})

	m.MCErrorEstimate = m.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "pricing_mc_error_estimate",
		Help:      "Standard error of the latest Monte Carlo estimate",
	}, []string{"engine"})

	slog.Info("pricing metrics registry initialized", "namespace", namespace)
	return m
}

// NewCounterVec 创建并注册一个新的计数器指标。
func (m *Metrics) NewCounterVec(opts prometheus.CounterOpts, labelNames []string) *prometheus.CounterVec {
	cv := prometheus.NewCounterVec(opts, labelNames)
	m.registry.MustRegister(cv)
	return cv
}

// NewGaugeVec 创建并注册一个新的仪表盘指标。
func (m *Metrics) NewGaugeVec(opts prometheus.GaugeOpts, labelNames []string) *prometheus.GaugeVec {
	gv := prometheus.NewGaugeVec(opts, labelNames)
	m.registry.MustRegister(gv)
	return gv
}

// NewHistogramVec 创建并注册一个新的直方图指标。
func (m *Metrics) NewHistogramVec(opts prometheus.HistogramOpts, labelNames []string) *prometheus.HistogramVec {
	hv := prometheus.NewHistogramVec(opts, labelNames)
	m.registry.MustRegister(hv)
	return hv
}

// RegisterBuildInfo 注册构建信息指标。
func (m *Metrics) RegisterBuildInfo(version string) {
	if m == nil || m.BuildInfo != nil {
		return
	}
	if version == "" {
		version = "unknown"
	}
	m.BuildInfo = m.NewGaugeVec(prometheus.GaugeOpts{
		Name: "pricing_build_info",
		Help: "Build information for the pricing library",
	}, []string{"version"})
	m.BuildInfo.WithLabelValues(version).Set(1)
}

// Registry 返回内部注册表，便于测试与聚合。
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler 返回用于暴露指标的 HTTP 处理器。
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveCalculation 记录一次计算的结果与耗时。nil 接收者安全。
func (m *Metrics) ObserveCalculation(engine string, seconds float64, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.CalculationsTotal.WithLabelValues(engine, status).Inc()
	m.CalculationDuration.WithLabelValues(engine).Observe(seconds)
}

// ObserveMonteCarlo 记录一次蒙特卡洛估计。nil 接收者安全。
func (m *Metrics) ObserveMonteCarlo(engine string, samples int, errorEstimate float64) {
	if m == nil {
		return
	}
	m.MCSamplesTotal.WithLabelValues(engine).Add(float64(samples))
	m.MCErrorEstimate.WithLabelValues(engine).Set(errorEstimate)
}
