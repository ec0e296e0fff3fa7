package mc

import (
	"context"
	"strconv"
	"strings"

	"github.com/wyfcoding/pricing/cache"
	"github.com/wyfcoding/pricing/config"
	"github.com/wyfcoding/pricing/logging"
	"github.com/wyfcoding/pricing/metrics"
	"github.com/wyfcoding/pricing/montecarlo"
	"github.com/wyfcoding/pricing/pricing"
	"github.com/wyfcoding/pricing/statistics"
	"github.com/wyfcoding/pricing/tracing"
	"github.com/wyfcoding/pricing/xerrors"
)

// EngineName 指标与日志中使用的引擎名。
const EngineName = "mc_european"

// Estimate 一次蒙特卡洛估计的结果，可缓存。
type Estimate struct {
	Value         float64 `json:"value"`
	ErrorEstimate float64 `json:"error_estimate"`
	Samples       int     `json:"samples"`
}

// Engine 实现通用引擎契约的蒙特卡洛欧式期权引擎。
// 只发布 Value 与 ErrorEstimate，希腊字母保持未设置。
type Engine struct {
	pricing.GenericEngine[pricing.VanillaOptionArguments, pricing.VanillaOptionResults]
	opts      options
	logger    *logging.Logger
	ownsCache bool
}

// NewEngine 创建引擎。种子在此处固定，之后每次计算使用相同的随机流。
func NewEngine(opts ...Option) (*Engine, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	switch {
	case o.tolerance < 0:
		return nil, xerrors.ErrInvalidTolerance.WithDetail("tolerance=%g", o.tolerance)
	case o.tolerance == 0 && o.samples <= 0:
		return nil, xerrors.ErrInvalidSampleCount.WithDetail("samples=%d", o.samples)
	case o.timeSteps <= 0:
		return nil, xerrors.ErrInvalidTimeSteps.WithDetail("timeSteps=%d", o.timeSteps)
	}
	o.seed = montecarlo.ResolveSeed(o.seed)

	logger := o.logger
	if logger == nil {
		logger = logging.Default()
	}
	return &Engine{
		GenericEngine: pricing.NewGenericEngine[pricing.VanillaOptionArguments, pricing.VanillaOptionResults](
			pricing.NewVanillaOptionArguments(),
		),
		opts:   o,
		logger: logger.Named(EngineName),
	}, nil
}

// NewEngineFromConfig 按配置创建引擎；缓存启用时由引擎持有并在 Close 时释放。
func NewEngineFromConfig(cfg *config.Config, logger *logging.Logger, m *metrics.Metrics) (*Engine, error) {
	opts := append(FromConfig(cfg.MonteCarlo), WithLogger(logger), WithMetrics(m))

	var c cache.Cache
	if cfg.Cache.Enabled {
		var err error
		if c, err = cache.New(cfg.Cache, logger); err != nil {
			return nil, err
		}
		if m != nil {
			if err := cache.RegisterMetrics(m.Registry()); err != nil {
				_ = c.Close()
				return nil, err
			}
		}
		opts = append(opts, WithCache(c, cfg.Cache.TTL))
	}

	e, err := NewEngine(opts...)
	if err != nil {
		if c != nil {
			_ = c.Close()
		}
		return nil, err
	}
	e.ownsCache = c != nil
	return e, nil
}

// Seed 返回固定后的随机种子。
func (e *Engine) Seed() uint64 {
	return e.opts.seed
}

// Close 释放引擎持有的缓存。
func (e *Engine) Close() error {
	if e.ownsCache && e.opts.cache != nil {
		return e.opts.cache.Close()
	}
	return nil
}

// Calculate 校验参数、从期限结构读取到期的 r、q、σ 并模拟。
func (e *Engine) Calculate(ctx context.Context) error {
	if err := e.Validate(); err != nil {
		return err
	}
	args := e.Arguments()
	if !args.ExerciseType.IsEuropean() {
		return xerrors.ErrUnsupportedExercise.WithDetail("exercise=%s", args.ExerciseType)
	}
	in, err := newInputs(args)
	if err != nil {
		return err
	}

	defer e.logger.LogDuration(ctx, "monte carlo simulation", "key", in.key(&e.opts))()

	est, err := cache.GetOrLoad(ctx, e.opts.cache, in.key(&e.opts), e.opts.cacheTTL, func(ctx context.Context) (Estimate, error) {
		return e.simulate(ctx, in)
	})
	if err != nil {
		return err
	}

	res := pricing.NewVanillaOptionResults()
	res.Value = est.Value
	res.ErrorEstimate = est.ErrorEstimate
	e.Publish(res)
	e.opts.metrics.ObserveMonteCarlo(EngineName, est.Samples, est.ErrorEstimate)
	tracing.AddTag(ctx, "pricing.mc.samples", est.Samples)
	tracing.AddTag(ctx, "pricing.mc.error_estimate", est.ErrorEstimate)
	return nil
}

type inputs struct {
	optionType pricing.OptionType
	underlying float64
	strike     float64
	maturity   float64
	drift      float64
	variance   float64 // 年化 σ²
	discount   float64
}

func newInputs(args *pricing.VanillaOptionArguments) (inputs, error) {
	t := args.Maturity
	if t <= 0 {
		return inputs{}, xerrors.ErrNonPositiveResidualTime.WithDetail("maturity=%g", t)
	}
	totalVariance := args.VolTS.BlackVariance(t, args.Strike)
	if totalVariance <= 0 {
		return inputs{}, xerrors.ErrNonPositiveVolatility.WithDetail("variance=%g", totalVariance)
	}
	sigma2 := totalVariance / t
	r := args.RiskFreeTS.ZeroYield(t)
	q := args.DividendTS.ZeroYield(t)
	return inputs{
		optionType: args.Type,
		underlying: args.Underlying,
		strike:     args.Strike,
		maturity:   t,
		drift:      r - q - 0.5*sigma2,
		variance:   sigma2,
		discount:   args.RiskFreeTS.Discount(t),
	}, nil
}

// key 覆盖所有影响估计值的输入；并发数不影响结果，不参与。
func (in inputs) key(o *options) string {
	f := func(x float64) string { return strconv.FormatFloat(x, 'g', -1, 64) }
	return strings.Join([]string{
		EngineName,
		string(in.optionType),
		f(in.underlying),
		f(in.strike),
		f(in.maturity),
		f(in.drift),
		f(in.variance),
		f(in.discount),
		strconv.FormatBool(o.antithetic),
		strconv.FormatUint(o.seed, 10),
		strconv.Itoa(o.samples),
		f(o.tolerance),
		strconv.Itoa(o.maxSamples),
		strconv.Itoa(o.timeSteps),
		strconv.Itoa(o.blockSize),
	}, "|")
}

func (e *Engine) simulate(ctx context.Context, in inputs) (Estimate, error) {
	factory := func(source montecarlo.RandomSource) (*montecarlo.Model, error) {
		generator, err := montecarlo.NewGaussianPathGenerator(in.drift, in.variance, in.maturity, e.opts.timeSteps, source)
		if err != nil {
			return nil, err
		}
		pricer, err := montecarlo.NewEuropeanPathPricer(in.optionType, in.underlying, in.strike, in.discount, e.opts.antithetic)
		if err != nil {
			return nil, err
		}
		return montecarlo.NewModel(generator, pricer), nil
	}
	plan := montecarlo.BlockPlan{
		Seed:      e.opts.seed,
		BlockSize: e.opts.blockSize,
		Workers:   e.opts.workers,
	}

	if e.opts.tolerance <= 0 {
		plan.Samples = e.opts.samples
		acc, err := montecarlo.RunBlocks(ctx, plan, factory)
		if err != nil {
			return Estimate{}, err
		}
		return estimateFrom(&acc), nil
	}
	return e.simulateToTolerance(ctx, plan, factory)
}

// simulateToTolerance 按轮次追加样本块，直到标准误不超过目标值。
// 各轮的块编号连续递增，保证随机子流不重复。
func (e *Engine) simulateToTolerance(ctx context.Context, plan montecarlo.BlockPlan, factory montecarlo.ModelFactory) (Estimate, error) {
	tolerance := e.opts.tolerance
	maxSamples := e.opts.maxSamples
	if maxSamples <= 0 {
		maxSamples = int(^uint(0) >> 1)
	}

	var total statistics.Accumulator
	batch := min(max(MinSamples, e.opts.blockSize), maxSamples)
	for round := 0; ; round++ {
		plan.Samples = batch
		acc, err := montecarlo.RunBlocks(ctx, plan, factory)
		if err != nil {
			return Estimate{}, err
		}
		total.Merge(&acc)
		plan.FirstBlock += plan.Blocks()

		n := total.Samples()
		errorEstimate := total.ErrorEstimate()
		e.logger.DebugContext(ctx, "monte carlo round finished", "round", round, "samples", n, "error_estimate", errorEstimate)
		if errorEstimate <= tolerance {
			return estimateFrom(&total), nil
		}

		order := (errorEstimate / tolerance) * (errorEstimate / tolerance)
		next := nextBatch(n, order, maxSamples)
		if next <= 0 {
			return Estimate{}, xerrors.ErrMaxSamplesExceeded.WithDetail("samples=%d errorEstimate=%g tolerance=%g", n, errorEstimate, tolerance)
		}
		batch = next
	}
}

func estimateFrom(acc *statistics.Accumulator) Estimate {
	return Estimate{
		Value:         acc.Mean(),
		ErrorEstimate: acc.ErrorEstimate(),
		Samples:       acc.Samples(),
	}
}
