package pricing

import (
	"time"

	"github.com/wyfcoding/pricing/datetime"
	"github.com/wyfcoding/pricing/termstructure"
	"github.com/wyfcoding/pricing/xerrors"
)

// VanillaOptionArguments 香草期权的定价参数。
// 曲线与曲面视为不可变快照，引擎只读不写。
type VanillaOptionArguments struct {
	Type          OptionType
	Underlying    float64
	Strike        float64
	DividendTS    termstructure.YieldTermStructure
	RiskFreeTS    termstructure.YieldTermStructure
	VolTS         termstructure.BlackVolTermStructure
	ExerciseType  ExerciseType
	StoppingTimes []float64
	Maturity      float64 // 距参考日的年化到期时间
}

// NewVanillaOptionArguments 返回所有数值字段均未设置的参数。
func NewVanillaOptionArguments() VanillaOptionArguments {
	return VanillaOptionArguments{
		Underlying:   Null(),
		Strike:       Null(),
		Maturity:     Null(),
		ExerciseType: European,
	}
}

// Validate 校验香草期权参数。
func (a *VanillaOptionArguments) Validate() error {
	switch {
	case !a.Type.Valid():
		return xerrors.ErrInvalidOptionType
	case IsNull(a.Underlying):
		return xerrors.ErrNullUnderlying
	case a.Underlying <= 0:
		return xerrors.ErrNonPositiveUnderlying.WithDetail("underlying=%g", a.Underlying)
	case IsNull(a.Strike):
		return xerrors.ErrNullStrike
	case a.Strike < 0:
		return xerrors.ErrNegativeStrike.WithDetail("strike=%g", a.Strike)
	case IsNull(a.Maturity):
		return xerrors.ErrNullMaturity
	case a.Maturity < 0:
		return xerrors.ErrNegativeMaturity.WithDetail("maturity=%g", a.Maturity)
	case a.DividendTS == nil:
		return xerrors.ErrMissingDividendTS
	case a.RiskFreeTS == nil:
		return xerrors.ErrMissingRiskFreeTS
	case a.VolTS == nil:
		return xerrors.ErrMissingVolTS
	}
	return nil
}

// ForwardOptionArguments 远期生效期权的参数：行权价在重置日按 moneyness × 标的价格确定。
type ForwardOptionArguments struct {
	VanillaOptionArguments
	Moneyness float64
	ResetDate time.Time
}

// NewForwardOptionArguments 返回所有数值字段均未设置的参数。
func NewForwardOptionArguments() ForwardOptionArguments {
	return ForwardOptionArguments{
		VanillaOptionArguments: NewVanillaOptionArguments(),
		Moneyness:              Null(),
	}
}

// ResetTime 以无风险曲线的参考日与计息惯例计算到重置日的年化时间。
func (a *ForwardOptionArguments) ResetTime() float64 {
	return termstructure.TimeFromReference(a.RiskFreeTS, a.ResetDate)
}

// Validate 先校验香草部分，再校验 moneyness 与重置日。
func (a *ForwardOptionArguments) Validate() error {
	if err := a.VanillaOptionArguments.Validate(); err != nil {
		return err
	}
	if IsNull(a.Moneyness) {
		return xerrors.ErrNullMoneyness
	}
	if a.Moneyness <= 0 {
		return xerrors.ErrNonPositiveMoneyness.WithDetail("moneyness=%g", a.Moneyness)
	}
	if datetime.IsNull(a.ResetDate) {
		return xerrors.ErrNullResetDate
	}
	resetTime := a.ResetTime()
	if resetTime < 0 {
		return xerrors.ErrNegativeResetTime.WithDetail("resetTime=%g", resetTime)
	}
	if resetTime > a.Maturity {
		return xerrors.ErrResetAfterMaturity.WithDetail("resetTime=%g maturity=%g", resetTime, a.Maturity)
	}
	return nil
}
