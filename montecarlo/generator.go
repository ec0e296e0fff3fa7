package montecarlo

import (
	"math"

	"github.com/wyfcoding/pricing/xerrors"
)

// PathGenerator 惰性产生路径样本。
type PathGenerator interface {
	Next() Sample[Path]
}

// GaussianPathGenerator 在常数漂移与方差下生成对数收益率路径。
// 返回的 Path 复用内部缓冲区，调用方应在下一次 Next 之前消费完毕。
type GaussianPathGenerator struct {
	source    RandomSource
	drift     float64 // 每步漂移 μ·dt
	stdDev    float64 // 每步扩散标准差 sqrt(σ²·dt)
	drifts    []float64
	diffusion []float64
}

// NewGaussianPathGenerator 创建路径生成器。drift 与 variance 为年化值，length 为路径总时长。
func NewGaussianPathGenerator(drift, variance, length float64, timeSteps int, source RandomSource) (*GaussianPathGenerator, error) {
	if length <= 0 {
		return nil, xerrors.ErrNonPositiveResidualTime
	}
	if variance < 0 {
		return nil, xerrors.ErrNonPositiveVolatility
	}
	if timeSteps <= 0 {
		return nil, xerrors.ErrInvalidTimeSteps
	}
	dt := length / float64(timeSteps)
	g := &GaussianPathGenerator{
		source:    source,
		drift:     drift * dt,
		stdDev:    math.Sqrt(variance * dt),
		drifts:    make([]float64, timeSteps),
		diffusion: make([]float64, timeSteps),
	}
	for i := range g.drifts {
		g.drifts[i] = g.drift
	}
	return g, nil
}

// Next 生成下一条路径。
func (g *GaussianPathGenerator) Next() Sample[Path] {
	for i := range g.diffusion {
		g.diffusion[i] = g.stdDev * g.source.Next()
	}
	return Sample[Path]{
		Value:  Path{Drift: g.drifts, Diffusion: g.diffusion},
		Weight: 1.0,
	}
}
