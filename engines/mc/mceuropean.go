// Package mc 提供蒙特卡洛欧式期权定价：按参数直接构造的 McEuropean，
// 以及实现通用引擎契约、支持并行分块与结果缓存的 Engine。
package mc

import (
	"math"

	"github.com/wyfcoding/pricing/montecarlo"
	"github.com/wyfcoding/pricing/pricing"
	"github.com/wyfcoding/pricing/xerrors"
)

// MinSamples 按精度停止时的最小批量。
const MinSamples = 1023

// McEuropean 单因子、单时间步的欧式期权蒙特卡洛定价器。
// 种子在构造时固定，样本只增不减。
type McEuropean struct {
	model *montecarlo.Model
	seed  uint64
}

// NewMcEuropean 创建定价器。漂移 μ = r − q − σ²/2，贴现因子 e^{−rT}。
// seed 为 0 时使用时钟种子。
func NewMcEuropean(optionType pricing.OptionType, underlying, strike, dividendYield, riskFreeRate,
	residualTime, volatility float64, antithetic bool, seed uint64) (*McEuropean, error) {
	if residualTime <= 0 {
		return nil, xerrors.ErrNonPositiveResidualTime.WithDetail("residualTime=%g", residualTime)
	}
	if volatility <= 0 {
		return nil, xerrors.ErrNonPositiveVolatility.WithDetail("volatility=%g", volatility)
	}

	variance := volatility * volatility
	drift := riskFreeRate - dividendYield - 0.5*variance
	seed = montecarlo.ResolveSeed(seed)

	generator, err := montecarlo.NewGaussianPathGenerator(drift, variance, residualTime, 1, montecarlo.NewGaussianGenerator(seed))
	if err != nil {
		return nil, err
	}
	pricer, err := montecarlo.NewEuropeanPathPricer(optionType, underlying, strike, math.Exp(-riskFreeRate*residualTime), antithetic)
	if err != nil {
		return nil, err
	}
	return &McEuropean{model: montecarlo.NewModel(generator, pricer), seed: seed}, nil
}

// Seed 返回实际使用的种子。
func (m *McEuropean) Seed() uint64 {
	return m.seed
}

// ValueWithSamples 将样本补足到 samples 个并返回估计值。
func (m *McEuropean) ValueWithSamples(samples int) (float64, error) {
	if samples <= 0 {
		return 0, xerrors.ErrInvalidSampleCount
	}
	acc := m.model.Accumulator()
	if samples < acc.Samples() {
		return 0, xerrors.ErrSamplesAlreadyAccumulated.WithDetail("requested=%d accumulated=%d", samples, acc.Samples())
	}
	m.model.AddSamples(samples - acc.Samples())
	acc = m.model.Accumulator()
	return acc.Mean(), nil
}

// Value 持续采样直到相对误差不超过 tolerance。
// 每批样本数按当前误差与目标误差之比的平方外推，不少于 MinSamples。
// maxSamples 非正时不设上限。
func (m *McEuropean) Value(tolerance float64, maxSamples int) (float64, error) {
	if tolerance <= 0 {
		return 0, xerrors.ErrInvalidTolerance.WithDetail("tolerance=%g", tolerance)
	}
	if maxSamples <= 0 {
		maxSamples = math.MaxInt
	}

	acc := m.model.Accumulator()
	n := acc.Samples()
	if n < MinSamples {
		if MinSamples > maxSamples {
			return 0, xerrors.ErrMaxSamplesExceeded
		}
		m.model.AddSamples(MinSamples - n)
		acc = m.model.Accumulator()
		n = acc.Samples()
	}

	accuracy, err := relativeAccuracy(acc.Mean(), acc.ErrorEstimate())
	if err != nil {
		return 0, err
	}
	for accuracy > tolerance {
		order := accuracy * accuracy / tolerance / tolerance
		next := nextBatch(n, order, maxSamples)
		if next <= 0 {
			return 0, xerrors.ErrMaxSamplesExceeded.WithDetail("samples=%d accuracy=%g", n, accuracy)
		}
		m.model.AddSamples(next)
		acc = m.model.Accumulator()
		n = acc.Samples()
		if accuracy, err = relativeAccuracy(acc.Mean(), acc.ErrorEstimate()); err != nil {
			return 0, err
		}
	}
	return acc.Mean(), nil
}

// ErrorEstimate 返回当前估计的标准误。
func (m *McEuropean) ErrorEstimate() float64 {
	acc := m.model.Accumulator()
	return acc.ErrorEstimate()
}

// Samples 返回已累积的样本数。
func (m *McEuropean) Samples() int {
	acc := m.model.Accumulator()
	return acc.Samples()
}

func relativeAccuracy(mean, errorEstimate float64) (float64, error) {
	if mean == 0 {
		return 0, xerrors.ErrZeroMean
	}
	return math.Abs(errorEstimate / mean), nil
}

// nextBatch 外推达到目标精度还需的样本数，下限 MinSamples，上限为剩余额度。
func nextBatch(samples int, order float64, maxSamples int) int {
	remaining := maxSamples - samples
	next := float64(samples)*order*0.8 - float64(samples)
	if next >= float64(remaining) {
		return remaining
	}
	return min(max(int(next), MinSamples), remaining)
}
