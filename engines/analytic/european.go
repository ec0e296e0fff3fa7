// Package analytic 提供基于 Black-Scholes-Merton 闭式解的欧式期权定价引擎。
package analytic

import (
	"context"
	"math"

	"github.com/wyfcoding/pricing/pricing"
	"github.com/wyfcoding/pricing/xerrors"
)

// EuropeanEngine Black-Scholes-Merton 欧式期权引擎，从期限结构读取利率、股息率与波动率。
type EuropeanEngine struct {
	pricing.GenericEngine[pricing.VanillaOptionArguments, pricing.VanillaOptionResults]
}

// NewEuropeanEngine 创建引擎，参数处于未设置状态。
func NewEuropeanEngine() *EuropeanEngine {
	return &EuropeanEngine{
		GenericEngine: pricing.NewGenericEngine[pricing.VanillaOptionArguments, pricing.VanillaOptionResults](
			pricing.NewVanillaOptionArguments(),
		),
	}
}

// Calculate 计算价格与全部希腊字母。
func (e *EuropeanEngine) Calculate(_ context.Context) error {
	if err := e.Validate(); err != nil {
		return err
	}
	args := e.Arguments()
	if !args.ExerciseType.IsEuropean() {
		return xerrors.ErrUnsupportedExercise.WithDetail("exercise=%s", args.ExerciseType)
	}

	t := args.Maturity
	variance := args.VolTS.BlackVariance(t, args.Strike)
	inputs := Inputs{
		Type:             args.Type,
		Spot:             args.Underlying,
		Strike:           args.Strike,
		Maturity:         t,
		Variance:         variance,
		RiskFreeDiscount: args.RiskFreeTS.Discount(t),
		DividendDiscount: args.DividendTS.Discount(t),
		RiskFreeRate:     args.RiskFreeTS.ZeroYield(t),
		DividendYield:    args.DividendTS.ZeroYield(t),
	}
	e.Publish(BlackScholes(inputs))
	return nil
}

// Inputs 闭式解所需的全部原始输入。
type Inputs struct {
	Type             pricing.OptionType
	Spot             float64
	Strike           float64
	Maturity         float64
	Variance         float64 // 到期总方差 σ²T
	RiskFreeDiscount float64
	DividendDiscount float64
	RiskFreeRate     float64 // 到期零息利率
	DividendYield    float64 // 到期零息股息率
}

// BlackScholes 计算价格与希腊字母。总方差为零时按远期内在价值定价。
func BlackScholes(in Inputs) pricing.VanillaOptionResults {
	s, k, t := in.Spot, in.Strike, in.Maturity
	dr, dq := in.RiskFreeDiscount, in.DividendDiscount
	forward := s * dq / dr
	stdDev := math.Sqrt(in.Variance)

	var d1, d2 float64
	switch {
	case stdDev > 0 && k > 0:
		d1 = math.Log(forward/k)/stdDev + 0.5*stdDev
		d2 = d1 - stdDev
	case forward > k:
		d1, d2 = math.Inf(1), math.Inf(1)
	default:
		d1, d2 = math.Inf(-1), math.Inf(-1)
	}

	res := pricing.NewVanillaOptionResults()
	switch in.Type {
	case pricing.Call:
		res.Value = dr * (forward*normCDF(d1) - k*normCDF(d2))
		res.Delta = dq * normCDF(d1)
		res.Rho = t * k * dr * normCDF(d2)
		res.DividendRho = -t * s * dq * normCDF(d1)
		res.StrikeSensitivity = -dr * normCDF(d2)
	case pricing.Put:
		res.Value = dr * (k*normCDF(-d2) - forward*normCDF(-d1))
		res.Delta = -dq * normCDF(-d1)
		res.Rho = -t * k * dr * normCDF(-d2)
		res.DividendRho = t * s * dq * normCDF(-d1)
		res.StrikeSensitivity = dr * normCDF(-d2)
	default:
		return res
	}

	res.Gamma, res.Vega = 0, 0
	if stdDev > 0 && k > 0 {
		res.Gamma = dq * normPDF(d1) / (s * stdDev)
		res.Vega = s * dq * normPDF(d1) * math.Sqrt(t)
	}

	sigma2 := 0.0
	if t > 0 {
		sigma2 = in.Variance / t
	}
	r, q := in.RiskFreeRate, in.DividendYield
	res.Theta = r*res.Value - (r-q)*s*res.Delta - 0.5*sigma2*s*s*res.Gamma
	return res
}

func normCDF(x float64) float64 {
	return (1.0 + math.Erf(x/math.Sqrt2)) / 2.0
}

func normPDF(x float64) float64 {
	return math.Exp(-0.5*x*x) / math.Sqrt(2*math.Pi)
}
