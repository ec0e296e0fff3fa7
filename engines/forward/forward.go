// Package forward 提供远期生效期权与远期表现期权的引擎装饰器。
// 装饰器把远期期权参数转换为香草期权参数（隐含曲线、按 moneyness 缩放的行权价），
// 委托给被包装的香草引擎计算，再把结果折算回远期期权的结果。
//
// 波动率曲面的隐含视图只有在波动率仅依赖时间、不依赖标的水平时才是精确的。
package forward

import (
	"context"
	"reflect"
	"slices"

	"github.com/wyfcoding/pricing/pricing"
	"github.com/wyfcoding/pricing/termstructure"
	"github.com/wyfcoding/pricing/xerrors"
)

// VanillaEngine 可被装饰的香草期权引擎。
type VanillaEngine = pricing.Engine[pricing.VanillaOptionArguments, pricing.VanillaOptionResults]

// State 装饰器状态。
type State int

const (
	// Unconfigured 刚构造，尚未成功计算。
	Unconfigured State = iota
	// Ready 至少成功计算过一次。
	Ready
)

func (s State) String() string {
	switch s {
	case Ready:
		return "Ready"
	default:
		return "Unconfigured"
	}
}

type decorator struct {
	pricing.GenericEngine[pricing.ForwardOptionArguments, pricing.VanillaOptionResults]
	original VanillaEngine
	state    State
}

func newDecorator(original VanillaEngine) (decorator, error) {
	if isNil(original) {
		return decorator{}, xerrors.ErrNilEngine
	}
	return decorator{
		GenericEngine: pricing.NewGenericEngine[pricing.ForwardOptionArguments, pricing.VanillaOptionResults](
			pricing.NewForwardOptionArguments(),
		),
		original: original,
	}, nil
}

func isNil(e VanillaEngine) bool {
	if e == nil {
		return true
	}
	v := reflect.ValueOf(e)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

// State 返回当前状态。
func (d *decorator) State() State {
	return d.state
}

// Original 返回被包装的引擎。
func (d *decorator) Original() VanillaEngine {
	return d.original
}

// SetOriginalArguments 先校验远期参数，再将其转换后写入被包装引擎的参数，并用其自身的规则校验。
// 时间量（到期、停止时间）改为从重置日起算，与锚定在重置日的隐含曲线一致。
// 校验失败时被包装引擎的参数保持不变。
func (d *decorator) SetOriginalArguments() error {
	if err := d.Validate(); err != nil {
		return err
	}
	args := d.Arguments()
	orig := d.original.Arguments()
	resetTime := args.ResetTime()

	orig.Type = args.Type
	orig.Underlying = args.Underlying
	orig.Strike = args.Moneyness * args.Underlying
	orig.DividendTS = termstructure.NewImpliedTermStructure(args.DividendTS, args.ResetDate)
	orig.RiskFreeTS = termstructure.NewImpliedTermStructure(args.RiskFreeTS, args.ResetDate)
	orig.VolTS = termstructure.NewImpliedVolTermStructure(args.VolTS, args.ResetDate)
	orig.ExerciseType = args.ExerciseType
	orig.Maturity = args.Maturity - resetTime
	orig.StoppingTimes = slices.Clone(args.StoppingTimes)
	for i := range orig.StoppingTimes {
		orig.StoppingTimes[i] -= resetTime
	}

	return orig.Validate()
}

// ForwardEngine 远期生效期权引擎。每次计算前重置被包装的引擎。
type ForwardEngine struct {
	decorator
}

var _ pricing.Engine[pricing.ForwardOptionArguments, pricing.VanillaOptionResults] = (*ForwardEngine)(nil)

// NewForwardEngine 包装一个香草期权引擎；original 为空时返回类型不匹配错误。
func NewForwardEngine(original VanillaEngine) (*ForwardEngine, error) {
	d, err := newDecorator(original)
	if err != nil {
		return nil, err
	}
	return &ForwardEngine{decorator: d}, nil
}

// Calculate 校验、重置被包装引擎、转换参数、委托计算并折算结果。
func (e *ForwardEngine) Calculate(ctx context.Context) error {
	if err := e.Validate(); err != nil {
		return err
	}
	e.original.Reset()
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

// OriginalResults 将被包装引擎的结果折算为远期生效期权的结果。
// gamma 在该近似下恒为 0。
func (e *ForwardEngine) OriginalResults() pricing.VanillaOptionResults {
	args := e.Arguments()
	w := e.original.Results()
	discQ := termstructure.DiscountAt(args.DividendTS, args.ResetDate)
	resetTime := args.ResetTime()

	res := pricing.NewVanillaOptionResults()
	res.Value = discQ * w.Value
	res.Delta = discQ * (w.Delta + args.Moneyness*w.StrikeSensitivity)
	res.Gamma = 0
	res.Theta = termstructure.ZeroYieldAt(args.DividendTS, args.ResetDate) * res.Value
	res.Vega = discQ * w.Vega
	res.Rho = discQ * w.Rho
	res.DividendRho = -resetTime*res.Value + discQ*w.DividendRho
	res.ErrorEstimate = discQ * w.ErrorEstimate
	return res
}
