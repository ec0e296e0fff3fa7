package forward

import (
	"context"

	"github.com/wyfcoding/pricing/pricing"
	"github.com/wyfcoding/pricing/termstructure"
)

// PerformanceEngine 远期表现期权引擎：收益按重置日标的价格归一化。
// 与 ForwardEngine 不同，Calculate 不重置被包装的引擎，重复计算会沿用其已有状态。
type PerformanceEngine struct {
	decorator
}

var _ pricing.Engine[pricing.ForwardOptionArguments, pricing.VanillaOptionResults] = (*PerformanceEngine)(nil)

// NewPerformanceEngine 包装一个香草期权引擎；original 为空时返回类型不匹配错误。
func NewPerformanceEngine(original VanillaEngine) (*PerformanceEngine, error) {
	d, err := newDecorator(original)
	if err != nil {
		return nil, err
	}
	return &PerformanceEngine{decorator: d}, nil
}

// Calculate 校验、转换参数、委托计算并折算结果。
func (e *PerformanceEngine) Calculate(ctx context.Context) error {
	if err := e.Validate(); err != nil {
		return err
	}
	if err := e.SetOriginalArguments(); err != nil {
		return err
	}
	if err := e.original.Calculate(ctx); err != nil {
		return err
	}
	e.Publish(e.OriginalResults())
	e.state = Ready
	return nil
}

// OriginalResults 将被包装引擎的结果折算为远期表现期权的结果。
// delta 与 gamma 在该近似下恒为 0。
func (e *PerformanceEngine) OriginalResults() pricing.VanillaOptionResults {
	args := e.Arguments()
	w := e.original.Results()
	discR := termstructure.DiscountAt(args.RiskFreeTS, args.ResetDate) / args.Underlying
	resetTime := args.ResetTime()

	res := pricing.NewVanillaOptionResults()
	res.Value = discR * w.Value
	res.Delta = 0
	res.Gamma = 0
	res.Theta = termstructure.ZeroYieldAt(args.RiskFreeTS, args.ResetDate) * res.Value
	res.Vega = discR * w.Vega
	res.Rho = -resetTime*res.Value + discR*w.Rho
	res.DividendRho = discR * w.DividendRho
	res.ErrorEstimate = discR * w.ErrorEstimate
	return res
}
