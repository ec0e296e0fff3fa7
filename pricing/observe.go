package pricing

import (
	"context"
	"time"

	"github.com/wyfcoding/pricing/logging"
	"github.com/wyfcoding/pricing/metrics"
	"github.com/wyfcoding/pricing/tracing"
)

// Observed 为任意引擎附加链路追踪、指标与日志，其余行为完全透传。
type Observed[A, R any] struct {
	inner   Engine[A, R]
	name    string
	metrics *metrics.Metrics
	logger  *logging.Logger
}

// Observe 包装引擎。m 可为 nil；logger 为 nil 时使用全局默认 logger。
func Observe[A, R any](name string, inner Engine[A, R], m *metrics.Metrics, logger *logging.Logger) *Observed[A, R] {
	if logger == nil {
		logger = logging.Default()
	}
	return &Observed[A, R]{
		inner:   inner,
		name:    name,
		metrics: m,
		logger:  logger.Named(name),
	}
}

func (o *Observed[A, R]) Arguments() *A   { return o.inner.Arguments() }
func (o *Observed[A, R]) Results() R      { return o.inner.Results() }
func (o *Observed[A, R]) Validate() error { return o.inner.Validate() }
func (o *Observed[A, R]) Reset()          { o.inner.Reset() }

// Calculate 在 span 内执行计算并记录耗时与结果状态。
func (o *Observed[A, R]) Calculate(ctx context.Context) error {
	ctx, span := tracing.StartCalculation(ctx, o.name)
	defer span.End()

	start := time.Now()
	err := o.inner.Calculate(ctx)
	elapsed := time.Since(start)
	o.metrics.ObserveCalculation(o.name, elapsed.Seconds(), err)
	tracing.FinishCalculation(ctx, err)

	if err != nil {
		o.logger.WarnContext(ctx, "calculation failed", "engine", o.name, "error", err, "duration", elapsed)
		return err
	}
	o.logger.DebugContext(ctx, "calculation finished", "engine", o.name, "duration", elapsed)
	return nil
}
